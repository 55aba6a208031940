package companion

import (
	"testing"
	"time"

	"github.com/okvist/companion-core/core/cues"
	"github.com/stretchr/testify/assert"
)

func TestShouldReject(t *testing.T) {
	policy := testPolicy()
	now := time.Now()
	spacing := policy.catalog.Spacing(cues.TypeWake)

	cases := []struct {
		name     string
		request  cues.Record
		state    stateSnapshot
		rejected bool
	}{
		{
			name:    "idle worker accepts anything",
			request: cues.Record{Type: cues.TypeWake},
			state:   stateSnapshot{playing: cues.TypeNone},
		},
		{
			name:    "different type playing is not a duplicate",
			request: cues.Record{Type: cues.TypeWake},
			state:   stateSnapshot{playing: cues.TypeMicOn, playingSince: now},
		},
		{
			name:     "same type inside spacing window",
			request:  cues.Record{Type: cues.TypeWake},
			state:    stateSnapshot{playing: cues.TypeWake, playingSince: now.Add(-spacing / 2)},
			rejected: true,
		},
		{
			name:    "same type past spacing window",
			request: cues.Record{Type: cues.TypeWake},
			state:   stateSnapshot{playing: cues.TypeWake, playingSince: now.Add(-spacing * 2)},
		},
		{
			name:    "same type with zero start time",
			request: cues.Record{Type: cues.TypeWake},
			state:   stateSnapshot{playing: cues.TypeWake},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.rejected, policy.shouldReject(tc.request, now, tc.state))
		})
	}
}

func TestReplayEligible(t *testing.T) {
	policy := testPolicy()
	now := time.Now()

	cases := []struct {
		name     string
		queued   queuedCue
		eligible bool
	}{
		{
			name:     "never played is always eligible",
			queued:   queuedCue{record: cues.Record{Type: cues.TypeWake, RepeatInterval: time.Hour}},
			eligible: true,
		},
		{
			name: "interval not yet elapsed",
			queued: queuedCue{
				record:       cues.Record{Type: cues.TypeWake, RepeatInterval: time.Minute},
				lastPlayedAt: now.Add(-time.Second),
			},
		},
		{
			name: "interval elapsed",
			queued: queuedCue{
				record:       cues.Record{Type: cues.TypeWake, RepeatInterval: time.Minute},
				lastPlayedAt: now.Add(-2 * time.Minute),
			},
			eligible: true,
		},
		{
			name: "zero interval replays immediately",
			queued: queuedCue{
				record:       cues.Record{Type: cues.TypeWake},
				lastPlayedAt: now,
			},
			eligible: true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.eligible, policy.replayEligible(&tc.queued, now))
		})
	}
}

func TestDecisionString(t *testing.T) {
	assert.Equal(t, "rejected", DecisionRejected.String())
	assert.Equal(t, "accepted", DecisionAccepted.String())
	assert.Equal(t, "merged", DecisionMerged.String())
	assert.Equal(t, "unknown", Decision(42).String())
}
