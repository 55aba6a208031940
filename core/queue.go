package companion

import (
	"sync"
	"time"

	"github.com/okvist/companion-core/core/cues"
)

// queuedCue wraps one admitted record with its queue bookkeeping times.
type queuedCue struct {
	record       cues.Record
	createdAt    time.Time
	lastPlayedAt time.Time
}

// cueQueue holds pending cues in two generations: current, the batch the
// worker drains this cycle, and next, everything admitted mid-cycle. The
// worker only ever mutates its own drained copy; both generations are
// guarded by one mutex with a condition variable signalled on every push.
//
// Removal requests are tombstones: a removed type is filtered out when a
// generation is read (drain or promote) and invalidates records the worker
// already drained. A fresh admission of the type clears its tombstone.
type cueQueue struct {
	mu   sync.Mutex
	cond *sync.Cond

	current []*queuedCue
	next    []*queuedCue
	removed map[cues.CueType]struct{}

	closed bool
}

func newCueQueue() *cueQueue {
	q := &cueQueue{removed: map[cues.CueType]struct{}{}}
	q.cond = sync.NewCond(&q.mu)
	return q
}

// admit applies the admission policy and queue mutation atomically:
// reject within the spacing window, merge into an existing record of the
// same type, or append a new record. New records go to next when the worker
// is mid-cycle so the generation being played out is never grown under it.
func (q *cueQueue) admit(record cues.Record, now time.Time, state stateSnapshot, policy admissionPolicy, midCycle bool) Decision {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return DecisionRejected
	}
	if policy.shouldReject(record, now, state) {
		return DecisionRejected
	}

	// A new request for a tombstoned type revives the type; stale entries
	// of that type are dropped in the scan below.
	_, wasRemoved := q.removed[record.Type]
	delete(q.removed, record.Type)

	merged := false
	scan := func(generation []*queuedCue) []*queuedCue {
		kept := generation[:0]
		for _, queued := range generation {
			if queued.record.Type == record.Type {
				if wasRemoved {
					continue
				}
				queued.record.RepeatCount = record.RepeatCount
				queued.record.RepeatInterval = record.RepeatInterval
				merged = true
			}
			kept = append(kept, queued)
		}
		return kept
	}
	q.current = scan(q.current)
	q.next = scan(q.next)

	if merged {
		return DecisionMerged
	}

	queued := &queuedCue{record: record, createdAt: now}
	if midCycle {
		q.next = append(q.next, queued)
	} else {
		q.current = append(q.current, queued)
	}
	q.cond.Broadcast()
	return DecisionAccepted
}

// drainCurrent atomically swaps the current generation for an empty one and
// returns the previous contents with tombstoned records filtered out.
func (q *cueQueue) drainCurrent() []*queuedCue {
	q.mu.Lock()
	defer q.mu.Unlock()

	drained := q.filterRemovedLocked(q.current)
	q.current = nil
	return drained
}

// promoteNext moves the next generation into current. It only applies when
// current is empty; a partially drained cycle keeps its ordering guarantee.
func (q *cueQueue) promoteNext() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.current) > 0 || len(q.next) == 0 {
		return
	}
	q.current = q.filterRemovedLocked(q.next)
	q.next = nil
}

// pushNext appends a record to the next generation, used for repeat
// re-enqueues. Invalidated types are dropped instead of re-queued.
func (q *cueQueue) pushNext(queued *queuedCue) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return
	}
	if _, removed := q.removed[queued.record.Type]; removed {
		return
	}
	q.next = append(q.next, queued)
	q.cond.Broadcast()
}

// remove tombstones a cue type: pending records of the type disappear at
// the next read and records already drained by the worker are invalidated.
func (q *cueQueue) remove(cueType cues.CueType) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.removed[cueType] = struct{}{}
}

// invalidated reports whether a drained record was superseded by a removal
// after it left the queue.
func (q *cueQueue) invalidated(cueType cues.CueType) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	_, removed := q.removed[cueType]
	return removed
}

// waitForWork blocks until a push or close signals the condition variable,
// or the timeout elapses. Wakeups can be spurious; callers re-check for
// work. It reports whether any pending work exists on return.
func (q *cueQueue) waitForWork(timeout time.Duration) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return false
	}
	if len(q.current) > 0 || len(q.next) > 0 {
		return true
	}

	timer := time.AfterFunc(timeout, q.cond.Broadcast)
	defer timer.Stop()
	q.cond.Wait()

	return !q.closed && (len(q.current) > 0 || len(q.next) > 0)
}

// pending reports the number of live queued records across both generations.
func (q *cueQueue) pending() int {
	q.mu.Lock()
	defer q.mu.Unlock()

	count := 0
	for _, queued := range q.current {
		if _, removed := q.removed[queued.record.Type]; !removed {
			count++
		}
	}
	for _, queued := range q.next {
		if _, removed := q.removed[queued.record.Type]; !removed {
			count++
		}
	}
	return count
}

func (q *cueQueue) isClosed() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.closed
}

// close rejects all future admissions and wakes any waiter.
func (q *cueQueue) close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.closed = true
	q.cond.Broadcast()
}

func (q *cueQueue) filterRemovedLocked(generation []*queuedCue) []*queuedCue {
	if len(q.removed) == 0 {
		return generation
	}
	kept := generation[:0]
	for _, queued := range generation {
		if _, removed := q.removed[queued.record.Type]; removed {
			continue
		}
		kept = append(kept, queued)
	}
	return kept
}
