package cues

import (
	"fmt"
	"math/rand"
	"time"
)

// Catalog maps cue types to clips, per-cue admission spacing, and family
// alternative lists. A catalog is immutable after construction; producers
// and the playback worker share one instance without locking.
type Catalog struct {
	clips    map[CueType]Clip
	spacing  map[CueType]time.Duration
	families map[CueType][]WeightedAlternative
}

// CatalogOption customizes a catalog during construction.
type CatalogOption func(*Catalog)

// WithClip sets or replaces the clip behind a concrete cue.
func WithClip(cueType CueType, clip Clip) CatalogOption {
	return func(c *Catalog) { c.clips[cueType] = clip }
}

// WithSpacing overrides the minimum admission spacing for a cue. Without an
// override the spacing defaults to the clip's nominal duration.
func WithSpacing(cueType CueType, spacing time.Duration) CatalogOption {
	return func(c *Catalog) { c.spacing[cueType] = spacing }
}

// WithFamily sets or replaces the alternative list behind a family cue.
func WithFamily(cueType CueType, alternatives []WeightedAlternative) CatalogOption {
	return func(c *Catalog) { c.families[cueType] = alternatives }
}

// NewCatalog builds the default catalog and applies any options on top.
//
// Default clips are raw s16le PCM files under assets/. Durations are the
// nominal clip lengths; the spacing thresholds they imply are tuned
// constants, carried over from the shipped clip set rather than derived.
func NewCatalog(opts ...CatalogOption) *Catalog {
	catalog := &Catalog{
		clips: map[CueType]Clip{
			TypeNeedsNetwork:        {Path: "assets/needs_network.pcm", Duration: 4 * time.Second},
			TypeNetworkConnected:    {Path: "assets/network_connected.pcm", Duration: 2 * time.Second},
			TypeNetworkDisconnected: {Path: "assets/network_disconnected.pcm", Duration: 4 * time.Second},
			TypeServerConnected:     {Path: "assets/server_connected.pcm", Duration: 2 * time.Second},
			TypeServerDisconnected:  {Path: "assets/server_disconnected.pcm", Duration: 2 * time.Second},
			TypeServerConnecting:    {Path: "assets/server_connecting.pcm", Duration: 3 * time.Second},
			TypeMicOn:               {Path: "assets/mic_on.pcm", Duration: 2 * time.Second},
			TypeMicOff:              {Path: "assets/mic_off.pcm", Duration: 5 * time.Second},
			TypeWake:                {Path: "assets/wake.pcm", Duration: 3 * time.Second},
			TypeInvalidConfig:       {Path: "assets/invalid_config.pcm", Duration: 5 * time.Second},
			TypeAckComing:           {Path: "assets/ack_coming.pcm", Duration: 2 * time.Second},
			TypeAckListening:        {Path: "assets/ack_listening.pcm", Duration: 2 * time.Second},
			TypeAckPresent:          {Path: "assets/ack_present.pcm", Duration: 2 * time.Second},
			TypeAckHere:             {Path: "assets/ack_here.pcm", Duration: 1 * time.Second},
			TypeFarewellBye:         {Path: "assets/farewell_bye.pcm", Duration: 2 * time.Second},
			TypeFarewellOkay:        {Path: "assets/farewell_okay.pcm", Duration: 3 * time.Second},
			TypeFarewellRetreat:     {Path: "assets/farewell_retreat.pcm", Duration: 2 * time.Second},
			TypeFarewellLater:       {Path: "assets/farewell_later.pcm", Duration: 3 * time.Second},
		},
		spacing: map[CueType]time.Duration{},
		families: map[CueType][]WeightedAlternative{
			TypeAcknowledge: {
				{Weight: 0.25, Type: TypeAckComing},
				{Weight: 0.25, Type: TypeAckListening},
				{Weight: 0.25, Type: TypeAckPresent},
				{Weight: 0.25, Type: TypeAckHere},
			},
			TypeFarewell: {
				{Weight: 0.25, Type: TypeFarewellBye},
				{Weight: 0.25, Type: TypeFarewellOkay},
				{Weight: 0.25, Type: TypeFarewellRetreat},
				{Weight: 0.25, Type: TypeFarewellLater},
			},
		},
	}

	for _, opt := range opts {
		opt(catalog)
	}

	return catalog
}

// With returns a copy of the catalog with the options applied. The receiver
// is left untouched, so catalogs already shared with a running worker keep
// their tables.
func (c *Catalog) With(opts ...CatalogOption) *Catalog {
	clone := &Catalog{
		clips:    make(map[CueType]Clip, len(c.clips)),
		spacing:  make(map[CueType]time.Duration, len(c.spacing)),
		families: make(map[CueType][]WeightedAlternative, len(c.families)),
	}
	for cueType, clip := range c.clips {
		clone.clips[cueType] = clip
	}
	for cueType, spacing := range c.spacing {
		clone.spacing[cueType] = spacing
	}
	for cueType, alternatives := range c.families {
		cloned := make([]WeightedAlternative, len(alternatives))
		copy(cloned, alternatives)
		clone.families[cueType] = cloned
	}

	for _, opt := range opts {
		opt(clone)
	}
	return clone
}

// Clip returns the clip behind a concrete cue.
func (c *Catalog) Clip(cueType CueType) (Clip, bool) {
	clip, ok := c.clips[cueType]
	return clip, ok
}

// IsFamily reports whether the cue names an alternative list instead of a
// concrete clip.
func (c *Catalog) IsFamily(cueType CueType) bool {
	_, ok := c.families[cueType]
	return ok
}

// Spacing returns the minimum gap enforced between admissions of the same
// cue while it is playing. For family cues the spacing of the shortest
// member applies, so back-to-back requests of different variants stay
// subject to the same stutter guard.
func (c *Catalog) Spacing(cueType CueType) time.Duration {
	if spacing, ok := c.spacing[cueType]; ok {
		return spacing
	}
	if clip, ok := c.clips[cueType]; ok {
		return clip.Duration
	}
	if alternatives, ok := c.families[cueType]; ok {
		shortest := time.Duration(0)
		for _, alternative := range alternatives {
			if clip, ok := c.clips[alternative.Type]; ok {
				if shortest == 0 || clip.Duration < shortest {
					shortest = clip.Duration
				}
			}
		}
		return shortest
	}
	return 0
}

// Resolve maps a requested cue to the concrete cue and clip to play,
// applying weighted selection when the request names a family.
func (c *Catalog) Resolve(cueType CueType, rng *rand.Rand) (CueType, Clip, error) {
	resolved := cueType
	if alternatives, ok := c.families[cueType]; ok {
		selected, err := Select(rng, alternatives)
		if err != nil {
			return TypeNone, Clip{}, fmt.Errorf("failed to resolve cue family %q: %w", cueType, err)
		}
		resolved = selected
	}

	clip, ok := c.clips[resolved]
	if !ok {
		return TypeNone, Clip{}, fmt.Errorf("no clip registered for cue %q", resolved)
	}
	return resolved, clip, nil
}
