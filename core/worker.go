package companion

import (
	"context"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okvist/companion-core/core/audio"
	"github.com/okvist/companion-core/core/cues"
	"github.com/okvist/companion-core/core/events"
	"github.com/okvist/companion-core/core/expression"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	// workerWakeInterval bounds how long the worker sleeps without a push
	// signal, so deferred repeats become eligible even on a quiet queue.
	workerWakeInterval = 250 * time.Millisecond
	// completionGrace pads the nominal clip duration before the worker
	// gives up waiting for the device's completion notification.
	completionGrace = 2 * time.Second
	// shutdownJoinTimeout bounds how long teardown waits for the worker to
	// exit before logging and moving on.
	shutdownJoinTimeout = 3 * time.Second
)

// playbackWorker is the single consumer of the cue queue. It drains the
// current generation, resolves each record through the catalog, plays it on
// the audio device, mirrors it on the expression renderer, and promotes the
// next generation once a cycle is exhausted.
type playbackWorker struct {
	queue      *cueQueue
	state      *playbackState
	policy     admissionPolicy
	catalog    *cues.Catalog
	device     *audioDevice
	expression *expressionOutput
	emit       eventEmitter
	rng        *rand.Rand

	// draining is set while a drained batch is being played out; admission
	// routes new records to the next generation during that window.
	draining atomic.Bool

	// currentPlayback is the device handle of the in-flight clip, kept so
	// an explicit stop can reach the device.
	playbackMu      sync.Mutex
	currentPlayback string
	currentType     cues.CueType

	closeCh chan struct{}
	done    chan struct{}

	startOnce sync.Once
	endOnce   sync.Once

	started atomic.Bool
}

func newPlaybackWorker(
	queue *cueQueue,
	state *playbackState,
	policy admissionPolicy,
	catalog *cues.Catalog,
	device *audioDevice,
	expression *expressionOutput,
	emit eventEmitter,
	rng *rand.Rand,
) *playbackWorker {
	if emit == nil {
		emit = noopEventEmitter
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	return &playbackWorker{
		queue:      queue,
		state:      state,
		policy:     policy,
		catalog:    catalog,
		device:     device,
		expression: expression,
		emit:       emit,
		rng:        rng,
		closeCh:    make(chan struct{}),
		done:       make(chan struct{}),
	}
}

func (w *playbackWorker) isStopping() bool {
	select {
	case <-w.closeCh:
		return true
	default:
		return false
	}
}

// midCycle reports whether the worker is currently playing out a drained
// batch. Admission must not grow that batch's generation.
func (w *playbackWorker) midCycle() bool {
	return w.draining.Load()
}

// Start launches the worker goroutine. It is safe to call more than once;
// only the first call starts anything.
func (w *playbackWorker) Start(baseCtx context.Context) (started bool) {
	if w == nil || w.isStopping() {
		return false
	}

	w.startOnce.Do(func() {
		started = true
		w.started.Store(true)
		go func() {
			defer close(w.done)
			w.loop(baseCtx)
		}()
	})

	return started
}

func (w *playbackWorker) loop(baseCtx context.Context) {
	for {
		if w.isStopping() {
			return
		}

		// Pausing holds queued work instead of discarding it; the worker
		// refuses to dequeue until resumed. Pending work would make
		// waitForWork return immediately, so a paused worker sleeps on
		// the bounded idle timer instead.
		if w.state.paused() {
			w.idle(workerWakeInterval)
			continue
		}

		batch := w.queue.drainCurrent()
		if len(batch) == 0 {
			w.queue.promoteNext()
			batch = w.queue.drainCurrent()
		}
		if len(batch) == 0 {
			w.queue.waitForWork(workerWakeInterval)
			continue
		}

		w.draining.Store(true)
		deferredOnly := true
		for _, queued := range batch {
			if w.isStopping() {
				w.draining.Store(false)
				return
			}
			if w.queue.invalidated(queued.record.Type) {
				w.emit(events.NewCuePlaybackStopped(string(queued.record.Type)))
				deferredOnly = false
				continue
			}
			if !w.policy.replayEligible(queued, time.Now()) {
				w.queue.pushNext(queued)
				continue
			}

			w.playCue(baseCtx, queued)
			deferredOnly = false
		}
		w.draining.Store(false)

		// A batch of nothing but not-yet-eligible repeats would otherwise
		// re-drain immediately and spin until an interval elapses.
		if deferredOnly {
			w.idle(workerWakeInterval)
		}
	}
}

func (w *playbackWorker) idle(d time.Duration) {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-w.closeCh:
	case <-timer.C:
	}
}

// playCue dispatches one record: resolve, mark playing, update expression,
// play, wait for completion, and re-enqueue any remaining repeats. Failures
// stay inside the worker; they are logged and the record is abandoned.
func (w *playbackWorker) playCue(baseCtx context.Context, queued *queuedCue) {
	ctx, span := tracer.Start(baseCtx, "play cue", trace.WithAttributes(
		attribute.String("cue.type", string(queued.record.Type)),
		attribute.Int("cue.repeats_left", queued.record.RepeatCount),
	))
	defer span.End()

	queuedTime := time.Since(queued.createdAt).Seconds()
	span.SetAttributes(attribute.Float64("cue.queued_time", queuedTime))

	resolved, clip, err := w.catalog.Resolve(queued.record.Type, w.rng)
	if err != nil {
		logger.WarnContext(ctx, "dropping cue with unresolvable clip",
			"cue", queued.record.Type, "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		w.emit(events.NewCuePlaybackFailed(string(queued.record.Type), err.Error()))
		return
	}
	span.SetAttributes(attribute.String("cue.resolved_type", string(resolved)))

	startedAt := time.Now()
	w.state.setPlaying(queued.record.Type, startedAt)

	mapping := cueExpression(resolved)
	w.expression.apply(mapping)
	w.emitExpression(mapping)

	playback, err := w.device.Play(clip)
	if err != nil {
		// Device errors abandon the cue without retry; clearing the playing
		// marker keeps subsequent cues from being blocked on a ghost.
		w.state.clearPlaying(queued.record.Type)
		logger.WarnContext(ctx, "audio device refused cue playback",
			"cue", resolved, "clip", clip.Path, "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		w.emit(events.NewCuePlaybackFailed(string(queued.record.Type), err.Error()))
		return
	}

	w.setCurrentPlayback(playback.ID, queued.record.Type)
	w.emit(events.NewCuePlaybackStarted(string(queued.record.Type), string(resolved)))

	w.awaitCompletion(ctx, playback, clip, queued.record.Type)

	w.clearCurrentPlayback(playback.ID)
	w.state.clearPlaying(queued.record.Type)
	queued.lastPlayedAt = time.Now()

	if w.isStopping() {
		return
	}
	w.emit(events.NewCuePlaybackEnded(string(queued.record.Type)))

	if queued.record.RepeatCount > 1 {
		queued.record.RepeatCount--
		w.queue.pushNext(queued)
	}
}

// awaitCompletion blocks until the device reports the clip finished, the
// nominal duration plus grace elapses, or shutdown is requested. The
// fallback timer keeps a device that never notifies from wedging the worker.
func (w *playbackWorker) awaitCompletion(ctx context.Context, playback *audio.Playback, clip cues.Clip, cueType cues.CueType) {
	fallback := time.NewTimer(clip.Duration + completionGrace)
	defer fallback.Stop()

	select {
	case err := <-playback.Done:
		if err != nil {
			logger.WarnContext(ctx, "cue playback ended abnormally",
				"cue", cueType, "error", err)
			span := trace.SpanFromContext(ctx)
			span.RecordError(err)
		}
	case <-fallback.C:
		logger.WarnContext(ctx, "cue playback completion overdue, continuing",
			"cue", cueType, "clip", clip.Path)
		if err := w.device.Stop(playback.ID); err != nil {
			logger.WarnContext(ctx, "failed to stop overdue playback",
				"cue", cueType, "error", err)
		}
	case <-w.closeCh:
		if err := w.device.Stop(playback.ID); err != nil {
			logger.WarnContext(ctx, "failed to stop playback during shutdown",
				"cue", cueType, "error", err)
		}
	}
}

// stopCue removes all pending records of the type and, if the type is the
// in-flight clip, asks the device to abort it. The abort is advisory; a cue
// already mid-playback may still run to completion.
func (w *playbackWorker) stopCue(cueType cues.CueType) {
	w.queue.remove(cueType)

	w.playbackMu.Lock()
	playbackID := ""
	if w.currentType == cueType {
		playbackID = w.currentPlayback
	}
	w.playbackMu.Unlock()

	if playbackID != "" {
		if err := w.device.Stop(playbackID); err != nil {
			logger.Warn("failed to stop in-flight cue playback",
				"cue", cueType, "error", err)
		}
	}
}

// Stop requests termination. The worker drains no further work once the
// close channel is observed.
func (w *playbackWorker) Stop() {
	if w == nil {
		return
	}

	w.endOnce.Do(func() {
		close(w.closeCh)
		w.queue.close()
	})
}

// Join waits for the worker goroutine to exit, bounded by
// shutdownJoinTimeout. It reports whether the worker exited in time.
func (w *playbackWorker) Join() bool {
	if w == nil || !w.started.Load() {
		return true
	}

	select {
	case <-w.done:
		return true
	case <-time.After(shutdownJoinTimeout):
		return false
	}
}

func (w *playbackWorker) setCurrentPlayback(playbackID string, cueType cues.CueType) {
	w.playbackMu.Lock()
	defer w.playbackMu.Unlock()
	w.currentPlayback = playbackID
	w.currentType = cueType
}

func (w *playbackWorker) clearCurrentPlayback(playbackID string) {
	w.playbackMu.Lock()
	defer w.playbackMu.Unlock()
	if w.currentPlayback == playbackID {
		w.currentPlayback = ""
		w.currentType = cues.TypeNone
	}
}

func (w *playbackWorker) emitExpression(mapping expression.Mapping) {
	if mapping.Emotion != expression.EmotionNone {
		w.emit(events.NewExpressionEmotionChanged(string(mapping.Emotion)))
	}
	if mapping.Icon != expression.IconNone {
		w.emit(events.NewExpressionIconChanged(string(mapping.Icon)))
	}
}
