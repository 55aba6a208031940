package companion

import (
	"reflect"

	"github.com/okvist/companion-core/core/cues"
	"github.com/okvist/companion-core/core/expression"
)

// ExpressionRenderer is the display collaborator contract. Both calls are
// fire-and-forget; the companion never consumes a result from the renderer.
type ExpressionRenderer interface {
	ShowEmotion(emotion expression.Emotion)
	ShowSystemIcon(icon expression.Icon)
}

// expressionOutput wraps the optional renderer so companion code can push
// updates unconditionally. Renderer failures cannot exist on this contract;
// an unconfigured renderer simply drops updates.
type expressionOutput struct {
	base ExpressionRenderer
}

func newExpressionOutput(renderer ExpressionRenderer) *expressionOutput {
	output := expressionOutput{}
	output.Set(renderer)
	return &output
}

func (e *expressionOutput) Set(renderer ExpressionRenderer) {
	if e == nil {
		return
	}

	if isNilExpressionRenderer(renderer) {
		e.base = nil
		return
	}
	e.base = renderer
}

func (e *expressionOutput) isConfigured() bool {
	return e != nil && e.base != nil
}

func (e *expressionOutput) ShowEmotion(emotion expression.Emotion) {
	if e.isConfigured() && emotion != expression.EmotionNone {
		e.base.ShowEmotion(emotion)
	}
}

func (e *expressionOutput) ShowSystemIcon(icon expression.Icon) {
	if e.isConfigured() && icon != expression.IconNone {
		e.base.ShowSystemIcon(icon)
	}
}

// apply pushes a tag mapping to the renderer.
func (e *expressionOutput) apply(mapping expression.Mapping) {
	e.ShowEmotion(mapping.Emotion)
	e.ShowSystemIcon(mapping.Icon)
}

// cueExpression is the fixed pairing of cues with the expression update
// shown alongside their playback.
func cueExpression(cueType cues.CueType) expression.Mapping {
	switch cueType {
	case cues.TypeNeedsNetwork, cues.TypeNetworkDisconnected:
		return expression.Mapping{Icon: expression.IconWifiDisconnected}
	case cues.TypeNetworkConnected, cues.TypeServerConnected:
		return expression.Mapping{Icon: expression.IconServerConnected}
	case cues.TypeServerConnecting:
		return expression.Mapping{Icon: expression.IconServerConnecting}
	case cues.TypeWake,
		cues.TypeAckComing, cues.TypeAckListening, cues.TypeAckPresent, cues.TypeAckHere:
		return expression.Mapping{Emotion: expression.EmotionFastBlink}
	case cues.TypeFarewellBye, cues.TypeFarewellOkay,
		cues.TypeFarewellRetreat, cues.TypeFarewellLater:
		return expression.Mapping{Emotion: expression.EmotionSleep}
	}
	return expression.Mapping{}
}

func isNilExpressionRenderer(renderer ExpressionRenderer) bool {
	if renderer == nil {
		return true
	}

	v := reflect.ValueOf(renderer)
	switch v.Kind() {
	case reflect.Chan, reflect.Func, reflect.Interface, reflect.Map, reflect.Pointer, reflect.Slice:
		return v.IsNil()
	default:
		return false
	}
}
