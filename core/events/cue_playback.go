package events

const (
	// KindCuePlaybackStarted identifies dispatch of a cue to the audio device.
	KindCuePlaybackStarted Kind = "cue_playback.started"
	// KindCuePlaybackEnded identifies confirmed completion of a cue.
	KindCuePlaybackEnded Kind = "cue_playback.ended"
	// KindCuePlaybackFailed identifies a cue abandoned before or during playback.
	KindCuePlaybackFailed Kind = "cue_playback.failed"
	// KindCuePlaybackStopped identifies a cue superseded by a stop request.
	KindCuePlaybackStopped Kind = "cue_playback.stopped"
)

// CuePlaybackStarted marks cue dispatch to the audio device. ResolvedType
// differs from CueType when a family request was resolved to a variant.
type CuePlaybackStarted struct {
	Base
	CueType      string
	ResolvedType string
}

// NewCuePlaybackStarted creates a cue playback started event.
func NewCuePlaybackStarted(cueType, resolvedType string) CuePlaybackStarted {
	return CuePlaybackStarted{Base: NewBase(KindCuePlaybackStarted), CueType: cueType, ResolvedType: resolvedType}
}

// CuePlaybackEnded marks confirmed completion of a cue.
type CuePlaybackEnded struct {
	Base
	CueType string
}

// NewCuePlaybackEnded creates a cue playback ended event.
func NewCuePlaybackEnded(cueType string) CuePlaybackEnded {
	return CuePlaybackEnded{Base: NewBase(KindCuePlaybackEnded), CueType: cueType}
}

// CuePlaybackFailed marks a cue abandoned due to a resolution or device error.
type CuePlaybackFailed struct {
	Base
	CueType string
	Reason  string
}

// NewCuePlaybackFailed creates a cue playback failed event.
func NewCuePlaybackFailed(cueType, reason string) CuePlaybackFailed {
	return CuePlaybackFailed{Base: NewBase(KindCuePlaybackFailed), CueType: cueType, Reason: reason}
}

// CuePlaybackStopped marks a cue superseded by an explicit stop request.
type CuePlaybackStopped struct {
	Base
	CueType string
}

// NewCuePlaybackStopped creates a cue playback stopped event.
func NewCuePlaybackStopped(cueType string) CuePlaybackStopped {
	return CuePlaybackStopped{Base: NewBase(KindCuePlaybackStopped), CueType: cueType}
}
