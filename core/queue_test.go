package companion

import (
	"testing"
	"time"

	"github.com/okvist/companion-core/core/cues"
)

func idleState() stateSnapshot {
	return stateSnapshot{playing: cues.TypeNone}
}

func testPolicy() admissionPolicy {
	return admissionPolicy{catalog: testCatalog()}
}

func TestAdmitPreservesRequestOrder(t *testing.T) {
	queue := newCueQueue()
	policy := testPolicy()
	now := time.Now()

	for _, cueType := range []cues.CueType{cues.TypeWake, cues.TypeMicOn, cues.TypeMicOff} {
		if got := queue.admit(cues.Record{Type: cueType, RepeatCount: 1}, now, idleState(), policy, false); got != DecisionAccepted {
			t.Fatalf("expected %q accepted, got %v", cueType, got)
		}
	}

	drained := queue.drainCurrent()
	if len(drained) != 3 {
		t.Fatalf("expected 3 drained records, got %d", len(drained))
	}
	expected := []cues.CueType{cues.TypeWake, cues.TypeMicOn, cues.TypeMicOff}
	for i, queued := range drained {
		if queued.record.Type != expected[i] {
			t.Fatalf("expected position %d to hold %q, got %q", i, expected[i], queued.record.Type)
		}
	}
}

func TestAdmitMergesDuplicateInPlace(t *testing.T) {
	queue := newCueQueue()
	policy := testPolicy()
	now := time.Now()

	queue.admit(cues.Record{Type: cues.TypeWake, RepeatCount: 1}, now, idleState(), policy, false)
	queue.admit(cues.Record{Type: cues.TypeMicOn, RepeatCount: 1}, now, idleState(), policy, false)

	got := queue.admit(cues.Record{Type: cues.TypeWake, RepeatCount: 4, RepeatInterval: time.Second}, now, idleState(), policy, false)
	if got != DecisionMerged {
		t.Fatalf("expected merge, got %v", got)
	}

	drained := queue.drainCurrent()
	if len(drained) != 2 {
		t.Fatalf("expected merge to keep queue length 2, got %d", len(drained))
	}
	if drained[0].record.Type != cues.TypeWake || drained[0].record.RepeatCount != 4 || drained[0].record.RepeatInterval != time.Second {
		t.Fatalf("expected merged record updated in place at its original position, got %+v", drained[0].record)
	}
}

func TestAdmitMidCycleGoesToNextGeneration(t *testing.T) {
	queue := newCueQueue()
	policy := testPolicy()
	now := time.Now()

	queue.admit(cues.Record{Type: cues.TypeWake, RepeatCount: 1}, now, idleState(), policy, true)

	if drained := queue.drainCurrent(); len(drained) != 0 {
		t.Fatalf("expected current generation untouched by mid-cycle admit, got %d", len(drained))
	}

	queue.promoteNext()
	drained := queue.drainCurrent()
	if len(drained) != 1 || drained[0].record.Type != cues.TypeWake {
		t.Fatalf("expected record promoted from next, got %v", drained)
	}
}

func TestPromoteNextRequiresEmptyCurrent(t *testing.T) {
	queue := newCueQueue()
	policy := testPolicy()
	now := time.Now()

	queue.admit(cues.Record{Type: cues.TypeWake, RepeatCount: 1}, now, idleState(), policy, false)
	queue.admit(cues.Record{Type: cues.TypeMicOn, RepeatCount: 1}, now, idleState(), policy, true)

	queue.promoteNext()
	drained := queue.drainCurrent()
	if len(drained) != 1 || drained[0].record.Type != cues.TypeWake {
		t.Fatalf("expected promote to be a no-op while current is populated, got %v", drained)
	}
}

func TestRemoveTombstonesPendingRecords(t *testing.T) {
	queue := newCueQueue()
	policy := testPolicy()
	now := time.Now()

	queue.admit(cues.Record{Type: cues.TypeWake, RepeatCount: 1}, now, idleState(), policy, false)
	queue.admit(cues.Record{Type: cues.TypeMicOn, RepeatCount: 1}, now, idleState(), policy, false)

	queue.remove(cues.TypeWake)

	if !queue.invalidated(cues.TypeWake) {
		t.Fatalf("expected removed type reported invalidated")
	}
	if got := queue.pending(); got != 1 {
		t.Fatalf("expected tombstoned record excluded from pending, got %d", got)
	}

	drained := queue.drainCurrent()
	if len(drained) != 1 || drained[0].record.Type != cues.TypeMicOn {
		t.Fatalf("expected drain to filter tombstoned type, got %v", drained)
	}
}

func TestReadmissionRevivesTombstonedType(t *testing.T) {
	queue := newCueQueue()
	policy := testPolicy()
	now := time.Now()

	queue.admit(cues.Record{Type: cues.TypeWake, RepeatCount: 3}, now, idleState(), policy, false)
	queue.remove(cues.TypeWake)

	// Readmission clears the tombstone and must not resurrect the stale
	// record alongside the fresh one.
	if got := queue.admit(cues.Record{Type: cues.TypeWake, RepeatCount: 1}, now, idleState(), policy, false); got != DecisionAccepted {
		t.Fatalf("expected fresh accept after tombstone, got %v", got)
	}
	if queue.invalidated(cues.TypeWake) {
		t.Fatalf("expected tombstone cleared by readmission")
	}

	drained := queue.drainCurrent()
	if len(drained) != 1 || drained[0].record.RepeatCount != 1 {
		t.Fatalf("expected exactly the fresh record, got %v", drained)
	}
}

func TestPushNextDropsTombstonedRepeat(t *testing.T) {
	queue := newCueQueue()

	queue.remove(cues.TypeMicOn)
	queue.pushNext(&queuedCue{record: cues.Record{Type: cues.TypeMicOn, RepeatCount: 2}})

	queue.promoteNext()
	if drained := queue.drainCurrent(); len(drained) != 0 {
		t.Fatalf("expected tombstoned repeat dropped, got %v", drained)
	}
}

func TestClosedQueueRejectsEverything(t *testing.T) {
	queue := newCueQueue()
	policy := testPolicy()
	queue.close()

	if got := queue.admit(cues.Record{Type: cues.TypeWake, RepeatCount: 1}, time.Now(), idleState(), policy, false); got != DecisionRejected {
		t.Fatalf("expected closed queue to reject, got %v", got)
	}
	queue.pushNext(&queuedCue{record: cues.Record{Type: cues.TypeWake}})
	if got := queue.pending(); got != 0 {
		t.Fatalf("expected no pending work after close, got %d", got)
	}
	if !queue.isClosed() {
		t.Fatalf("expected queue to report closed")
	}
}

func TestWaitForWorkTimesOutEmpty(t *testing.T) {
	queue := newCueQueue()

	start := time.Now()
	if queue.waitForWork(10 * time.Millisecond) {
		t.Fatalf("expected timeout with empty queue")
	}
	if time.Since(start) < 10*time.Millisecond {
		t.Fatalf("expected wait to hold for the timeout")
	}
}

func TestWaitForWorkWakesOnPush(t *testing.T) {
	queue := newCueQueue()
	policy := testPolicy()

	woke := make(chan bool, 1)
	go func() {
		woke <- queue.waitForWork(5 * time.Second)
	}()

	// Give the waiter a moment to park before pushing.
	time.Sleep(10 * time.Millisecond)
	queue.admit(cues.Record{Type: cues.TypeWake, RepeatCount: 1}, time.Now(), idleState(), policy, false)

	select {
	case hasWork := <-woke:
		if !hasWork {
			t.Fatalf("expected waiter to report work after push")
		}
	case <-time.After(time.Second):
		t.Fatalf("expected push to wake the waiter")
	}
}

func TestWaitForWorkWakesOnClose(t *testing.T) {
	queue := newCueQueue()

	woke := make(chan bool, 1)
	go func() {
		woke <- queue.waitForWork(5 * time.Second)
	}()

	time.Sleep(10 * time.Millisecond)
	queue.close()

	select {
	case hasWork := <-woke:
		if hasWork {
			t.Fatalf("expected closed queue to report no work")
		}
	case <-time.After(time.Second):
		t.Fatalf("expected close to wake the waiter")
	}
}
