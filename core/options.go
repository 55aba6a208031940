package companion

import (
	"time"

	"github.com/okvist/companion-core/core/cues"
	"github.com/okvist/companion-core/core/events"
)

type CompanionOption func(*Companion)

// WithAudioDevice configures the playback backend. Without one the
// companion schedules headless, simulating completion from nominal clip
// durations.
func WithAudioDevice(client AudioDevice) CompanionOption {
	return func(c *Companion) { c.device.Set(client) }
}

// WithExpressionRenderer configures the display backend. Without one
// expression updates are dropped.
func WithExpressionRenderer(renderer ExpressionRenderer) CompanionOption {
	return func(c *Companion) { c.expression.Set(renderer) }
}

// WithCatalog replaces the default cue catalog.
func WithCatalog(catalog *cues.Catalog) CompanionOption {
	return func(c *Companion) {
		if catalog != nil {
			c.catalog = catalog
		}
	}
}

// WithRandomSeed fixes the seed behind weighted family resolution. Useful
// for reproducing a variant sequence; without it the seed comes from the
// clock.
func WithRandomSeed(seed int64) CompanionOption {
	return func(c *Companion) { c.randomSeed = &seed }
}

// BeginOptions collects per-session wiring applied by [Companion.Begin].
type BeginOptions struct {
	onEvent               func(events.Event)
	onCueStarted          func(cueType string)
	onCueEnded            func(cueType string)
	onConnectivityChanged func(connected bool)

	clipOverrides    map[cues.CueType]cues.Clip
	spacingOverrides map[cues.CueType]time.Duration

	disableStartupPrompt bool
}

type BeginOption func(*BeginOptions)

// WithEventCallback registers a callback receiving every companion event.
// Request events fire on the requesting producer's goroutine and playback
// events on the worker goroutine; the callback must not block on either.
func WithEventCallback(callback func(events.Event)) BeginOption {
	return func(o *BeginOptions) {
		o.onEvent = callback
	}
}

// WithCueStartedCallback registers a callback for cue dispatches, keyed by
// the resolved concrete cue type.
func WithCueStartedCallback(callback func(cueType string)) BeginOption {
	return func(o *BeginOptions) {
		o.onCueStarted = callback
	}
}

// WithCueEndedCallback registers a callback for confirmed cue completions.
func WithCueEndedCallback(callback func(cueType string)) BeginOption {
	return func(o *BeginOptions) {
		o.onCueEnded = callback
	}
}

// WithConnectivityCallback registers a callback for connectivity edges.
func WithConnectivityCallback(callback func(connected bool)) BeginOption {
	return func(o *BeginOptions) {
		o.onConnectivityChanged = callback
	}
}

// WithClipOverrides replaces clips for specific cues for this session. The
// map is deep-copied at Begin; later caller mutation has no effect.
func WithClipOverrides(overrides map[cues.CueType]cues.Clip) BeginOption {
	return func(o *BeginOptions) {
		o.clipOverrides = overrides
	}
}

// WithSpacingOverrides replaces admission spacing for specific cues for
// this session. The map is deep-copied at Begin.
func WithSpacingOverrides(overrides map[cues.CueType]time.Duration) BeginOption {
	return func(o *BeginOptions) {
		o.spacingOverrides = overrides
	}
}

// WithoutStartupPrompt suppresses the repeating needs-network prompt that
// Begin otherwise queues when starting disconnected.
func WithoutStartupPrompt() BeginOption {
	return func(o *BeginOptions) {
		o.disableStartupPrompt = true
	}
}
