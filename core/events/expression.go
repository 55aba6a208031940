package events

const (
	// KindExpressionEmotionChanged identifies emotion updates pushed to the renderer.
	KindExpressionEmotionChanged Kind = "expression.emotion_changed"
	// KindExpressionIconChanged identifies system icon updates pushed to the renderer.
	KindExpressionIconChanged Kind = "expression.icon_changed"
)

// ExpressionEmotionChanged marks an emotion animation pushed to the renderer.
type ExpressionEmotionChanged struct {
	Base
	Emotion string
}

// NewExpressionEmotionChanged creates an expression emotion changed event.
func NewExpressionEmotionChanged(emotion string) ExpressionEmotionChanged {
	return ExpressionEmotionChanged{Base: NewBase(KindExpressionEmotionChanged), Emotion: emotion}
}

// ExpressionIconChanged marks a system icon pushed to the renderer.
type ExpressionIconChanged struct {
	Base
	Icon string
}

// NewExpressionIconChanged creates an expression icon changed event.
func NewExpressionIconChanged(icon string) ExpressionIconChanged {
	return ExpressionIconChanged{Base: NewBase(KindExpressionIconChanged), Icon: icon}
}
