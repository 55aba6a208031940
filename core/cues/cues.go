// Package cues defines the logical audio cue vocabulary of the companion,
// the catalog mapping cues to playable clips, and the weighted selection
// used to resolve cue families into concrete clips.
package cues

import "time"

// CueType identifies a logical audio cue. Most types name a single concrete
// clip; family types (TypeAcknowledge, TypeFarewell) name a group of
// interchangeable clips resolved through weighted random selection.
type CueType string

const (
	// TypeNone is the zero value and never names a playable cue.
	TypeNone CueType = ""

	TypeNeedsNetwork        CueType = "needs_network"
	TypeNetworkConnected    CueType = "network_connected"
	TypeNetworkDisconnected CueType = "network_disconnected"
	TypeServerConnected     CueType = "server_connected"
	TypeServerDisconnected  CueType = "server_disconnected"
	TypeServerConnecting    CueType = "server_connecting"
	TypeMicOn               CueType = "mic_on"
	TypeMicOff              CueType = "mic_off"
	TypeWake                CueType = "wake"
	TypeInvalidConfig       CueType = "invalid_config"

	// TypeAcknowledge is a family resolving to one of the short
	// acknowledgement variants.
	TypeAcknowledge CueType = "acknowledge"

	TypeAckComing    CueType = "ack_coming"
	TypeAckListening CueType = "ack_listening"
	TypeAckPresent   CueType = "ack_present"
	TypeAckHere      CueType = "ack_here"

	// TypeFarewell is a family resolving to one of the sign-off variants.
	TypeFarewell CueType = "farewell"

	TypeFarewellBye     CueType = "farewell_bye"
	TypeFarewellOkay    CueType = "farewell_okay"
	TypeFarewellRetreat CueType = "farewell_retreat"
	TypeFarewellLater   CueType = "farewell_later"
)

// Record is a single cue request. RepeatCount above one re-enqueues the cue
// after playback with the count decremented; RepeatInterval is the minimum
// gap before a repeat becomes eligible to play again.
type Record struct {
	Type           CueType
	RepeatCount    int
	RepeatInterval time.Duration
}

// Clip is the playable asset behind a concrete cue. Duration is the nominal
// clip length and doubles as the fallback playback timeout and the default
// admission spacing for the cue.
type Clip struct {
	Path     string
	Duration time.Duration
}

// WeightedAlternative is one member of a cue family. Weights are relative,
// not normalized; selection share is Weight over the sum of the list.
type WeightedAlternative struct {
	Weight float64
	Type   CueType
}
