package companion

import (
	"time"

	"github.com/okvist/companion-core/core/cues"
)

// Decision is the admission outcome a producer sees for a cue request.
// Producers never learn playback outcomes; admission is the only feedback
// that crosses the producer boundary.
type Decision int

const (
	// DecisionRejected means the request was dropped, either because an
	// identical cue is playing within its spacing window or because the
	// companion is shut down.
	DecisionRejected Decision = iota
	// DecisionAccepted means a new record was queued.
	DecisionAccepted
	// DecisionMerged means an already-queued record of the same type had
	// its repeat fields updated in place instead of a duplicate insert.
	DecisionMerged
)

func (d Decision) String() string {
	switch d {
	case DecisionRejected:
		return "rejected"
	case DecisionAccepted:
		return "accepted"
	case DecisionMerged:
		return "merged"
	}
	return "unknown"
}

// admissionPolicy decides whether a requested cue may enter the queue.
// Spacing thresholds come from the catalog and exist to stop rapid-fire
// duplicates (connectivity flapping, repeated wake triggers) from
// stuttering over a cue that is already audible.
type admissionPolicy struct {
	catalog *cues.Catalog
}

// shouldReject reports whether a request must be dropped outright: the same
// cue type is currently playing and started less than its spacing window ago.
func (p admissionPolicy) shouldReject(requested cues.Record, now time.Time, state stateSnapshot) bool {
	if state.playing != requested.Type || state.playingSince.IsZero() {
		return false
	}
	return now.Sub(state.playingSince) < p.catalog.Spacing(requested.Type)
}

// replayEligible reports whether a re-enqueued repeat record has waited out
// its repeat interval since it last played.
func (p admissionPolicy) replayEligible(queued *queuedCue, now time.Time) bool {
	if queued.lastPlayedAt.IsZero() || queued.record.RepeatInterval <= 0 {
		return true
	}
	return now.Sub(queued.lastPlayedAt) >= queued.record.RepeatInterval
}
