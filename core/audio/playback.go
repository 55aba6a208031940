package audio

import "errors"

// ErrPlaybackStopped is delivered on a playback's Done channel when the
// playback was aborted before its clip finished.
var ErrPlaybackStopped = errors.New("playback stopped before completion")

// Playback is the handle a backend returns for one started clip. Done
// receives exactly one value when the clip finishes or is aborted; a nil
// value means normal completion. The value may be sent from whatever
// goroutine the backend uses internally.
type Playback struct {
	ID   string
	Done <-chan error
}
