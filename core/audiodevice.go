package companion

import (
	"os"
	"reflect"
	"time"

	"github.com/google/uuid"
	"github.com/okvist/companion-core/core/audio"
	"github.com/okvist/companion-core/core/cues"
)

// AudioDevice is the playback collaborator contract. Play starts a clip and
// returns a handle whose Done channel receives the completion outcome from
// whatever goroutine the device uses; Stop is an advisory abort that races
// with in-flight playback.
type AudioDevice interface {
	Play(clip cues.Clip) (*audio.Playback, error)
	Stop(id string) error
}

// audioDevice normalizes the optional playback client behind one facade.
//
// Without a configured device the companion still schedules: playback is
// simulated by completing after the clip's nominal duration, so cue timing,
// spacing, and repeats behave the same headless as with hardware.
type audioDevice struct {
	base AudioDevice
}

func newAudioDevice(client AudioDevice) *audioDevice {
	device := audioDevice{}
	device.Set(client)
	return &device
}

// Set replaces the configured device. Nil and typed-nil clients are treated
// as unconfigured.
func (a *audioDevice) Set(client AudioDevice) {
	if a == nil {
		return
	}

	if isNilAudioDevice(client) {
		a.base = nil
		return
	}
	a.base = client
}

func (a *audioDevice) isConfigured() bool {
	return a != nil && a.base != nil
}

func (a *audioDevice) Play(clip cues.Clip) (*audio.Playback, error) {
	if a.isConfigured() {
		return a.base.Play(clip)
	}

	done := make(chan error, 1)
	time.AfterFunc(simulatedDuration(clip), func() { done <- nil })
	return &audio.Playback{ID: uuid.NewString(), Done: done}, nil
}

// simulatedDuration is how long a headless playback runs. Clips without a
// nominal duration fall back to the byte length of the file at the default
// encoding's rate, so override clips keep realistic scheduling timing.
func simulatedDuration(clip cues.Clip) time.Duration {
	if clip.Duration > 0 {
		return clip.Duration
	}
	info, err := os.Stat(clip.Path)
	if err != nil {
		return 0
	}
	return audio.GetDefaultEncodingInfo().DurationOf(int(info.Size()))
}

func (a *audioDevice) Stop(id string) error {
	if a.isConfigured() {
		return a.base.Stop(id)
	}
	return nil
}

// isNilAudioDevice detects nil and typed-nil interface values so Set does
// not store unusable interface wrappers as configured clients.
func isNilAudioDevice(client AudioDevice) bool {
	if client == nil {
		return true
	}

	v := reflect.ValueOf(client)
	switch v.Kind() {
	case reflect.Chan, reflect.Func, reflect.Interface, reflect.Map, reflect.Pointer, reflect.Slice:
		return v.IsNil()
	default:
		return false
	}
}
