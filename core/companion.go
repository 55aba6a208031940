// Package companion implements the AI-companion event scheduler: admission,
// two-generation queueing, and serialized playback of audio cues with
// matching expression updates.
//
// A Companion is explicitly constructed and owned; producers (voice agent,
// connectivity source, UI) receive the instance by injection and only ever
// perform fire-and-forget calls on it. The single playback worker goroutine
// is the sole consumer of queued work.
package companion

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/jinzhu/copier"
	"github.com/okvist/companion-core/core/cues"
	"github.com/okvist/companion-core/core/events"
	"github.com/okvist/companion-core/core/expression"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	// startupPromptRepeats and startupPromptInterval shape the repeating
	// needs-network prompt queued when the companion starts disconnected.
	startupPromptRepeats  = 3
	startupPromptInterval = 15 * time.Second
)

// Companion is the externally visible entry point wiring producers to the
// cue queue and exposing guarded state queries.
type Companion struct {
	state playbackState
	queue *cueQueue

	catalog    *cues.Catalog
	policy     admissionPolicy
	device     *audioDevice
	expression *expressionOutput

	worker       *playbackWorker
	connectivity connectivityMonitor

	emit         eventEmitter
	beginOptions BeginOptions

	randomSeed *int64

	requestCounter metric.Int64Counter

	closeOnce   sync.Once
	baseContext context.Context
}

// New constructs a companion. The instance does nothing until [Companion.Begin]
// wires producers and starts the playback worker.
func New(opts ...CompanionOption) *Companion {
	c := &Companion{
		queue:       newCueQueue(),
		catalog:     cues.NewCatalog(),
		device:      newAudioDevice(nil),
		expression:  newExpressionOutput(nil),
		emit:        noopEventEmitter,
		baseContext: context.Background(),
	}

	for _, opt := range opts {
		opt(c)
	}

	counter, err := meter.Int64Counter("companion.cue_requests")
	if err != nil {
		logger.Warn("failed to create cue request counter", "error", err)
	} else {
		c.requestCounter = counter
	}

	return c
}

// Begin applies session options, starts the playback worker, and marks the
// companion live. ctx is the base context for worker spans and is expected
// to outlive the companion; cancellation does not replace [Companion.Close].
//
// Contract: call Begin at most once per companion instance.
func (c *Companion) Begin(ctx context.Context, opts ...BeginOption) error {
	if c.state.begun() {
		return fmt.Errorf("companion already begun")
	}
	if c.worker != nil || c.queue.isClosed() {
		return fmt.Errorf("companion cannot begin again after close")
	}

	c.beginOptions = BeginOptions{}
	for _, opt := range opts {
		opt(&c.beginOptions)
	}

	if err := c.applyCatalogOverrides(); err != nil {
		return fmt.Errorf("failed to apply catalog overrides: %w", err)
	}

	c.baseContext = ctx
	c.policy = admissionPolicy{catalog: c.catalog}
	c.emit = newCallbackEventEmitter(c.beginOptions)

	var rng *rand.Rand
	if c.randomSeed != nil {
		rng = rand.New(rand.NewSource(*c.randomSeed))
	}

	c.worker = newPlaybackWorker(
		c.queue, &c.state, c.policy, c.catalog,
		c.device, c.expression, c.emit, rng,
	)
	c.connectivity = connectivityMonitor{
		state:      &c.state,
		expression: c.expression,
		emit:       c.emit,
		requestCue: c.request,
		stopCue:    c.stopCue,
	}

	c.state.setBegun(true)
	c.worker.Start(ctx)

	if !c.state.connected() && !c.beginOptions.disableStartupPrompt {
		c.request(cues.Record{
			Type:           cues.TypeNeedsNetwork,
			RepeatCount:    startupPromptRepeats,
			RepeatInterval: startupPromptInterval,
		})
	}

	return nil
}

// applyCatalogOverrides rebuilds the catalog with session clip and spacing
// overrides. The override maps are deep-copied first so later mutation by
// the caller cannot reach into the running catalog.
func (c *Companion) applyCatalogOverrides() error {
	if len(c.beginOptions.clipOverrides) == 0 && len(c.beginOptions.spacingOverrides) == 0 {
		return nil
	}

	clipOverrides := map[cues.CueType]cues.Clip{}
	if err := copier.CopyWithOption(&clipOverrides, c.beginOptions.clipOverrides,
		copier.Option{DeepCopy: true}); err != nil {
		return fmt.Errorf("failed to copy clip overrides: %w", err)
	}
	spacingOverrides := map[cues.CueType]time.Duration{}
	if err := copier.CopyWithOption(&spacingOverrides, c.beginOptions.spacingOverrides,
		copier.Option{DeepCopy: true}); err != nil {
		return fmt.Errorf("failed to copy spacing overrides: %w", err)
	}

	catalogOpts := make([]cues.CatalogOption, 0, len(clipOverrides)+len(spacingOverrides))
	for cueType, clip := range clipOverrides {
		catalogOpts = append(catalogOpts, cues.WithClip(cueType, clip))
	}
	for cueType, spacing := range spacingOverrides {
		catalogOpts = append(catalogOpts, cues.WithSpacing(cueType, spacing))
	}
	c.catalog = c.catalog.With(catalogOpts...)
	return nil
}

// RequestOption customizes a single cue request.
type RequestOption func(*cues.Record)

// WithRepeat makes the cue replay count times total, waiting at least
// interval between plays.
func WithRepeat(count int, interval time.Duration) RequestOption {
	return func(r *cues.Record) {
		r.RepeatCount = count
		r.RepeatInterval = interval
	}
}

// RequestCue asks for one playback of a cue (or, with [WithRepeat], several).
// It returns the admission decision immediately; playback outcomes surface
// only through events and logs, never to the producer.
func (c *Companion) RequestCue(cueType cues.CueType, opts ...RequestOption) Decision {
	record := cues.Record{Type: cueType, RepeatCount: 1}
	for _, opt := range opts {
		opt(&record)
	}
	return c.request(record)
}

func (c *Companion) request(record cues.Record) Decision {
	if c == nil {
		return DecisionRejected
	}
	if record.RepeatCount < 1 {
		record.RepeatCount = 1
	}

	snapshot := c.state.snapshot()
	if !snapshot.isBegun {
		logger.Warn("ignoring cue request before Begin", "cue", record.Type)
		return DecisionRejected
	}

	decision := c.queue.admit(record, time.Now(), snapshot, c.policy, c.worker.midCycle())
	c.countRequest(record.Type, decision)

	switch decision {
	case DecisionAccepted:
		c.emit(events.NewCueRequestAccepted(string(record.Type)))
	case DecisionMerged:
		c.emit(events.NewCueRequestMerged(string(record.Type)))
	case DecisionRejected:
		c.emit(events.NewCueRequestRejected(string(record.Type)))
	}
	return decision
}

// StopCue removes pending records of the type and advises the device to
// abort it if it is the in-flight clip. A cue already mid-playback may
// still finish; the stop only guarantees no further repeats.
func (c *Companion) StopCue(cueType cues.CueType) {
	if c == nil || !c.state.begun() {
		return
	}
	c.stopCue(cueType)
}

func (c *Companion) stopCue(cueType cues.CueType) {
	c.worker.stopCue(cueType)
}

// OnSpeakingStarted is the voice agent's begin-speaking notification.
func (c *Companion) OnSpeakingStarted() {
	if c == nil || !c.state.begun() {
		logger.Warn("ignoring speaking notification before Begin")
		return
	}
	c.state.setSpeaking(true)
}

// OnSpeakingEnded is the voice agent's end-speaking notification.
func (c *Companion) OnSpeakingEnded() {
	if c == nil || !c.state.begun() {
		logger.Warn("ignoring speaking notification before Begin")
		return
	}
	c.state.setSpeaking(false)
}

// OnEmotionTag translates a textual emotion tag from the voice agent into
// an expression update. Unknown tags are ignored with a warning; they are
// agent vocabulary drift, not errors.
func (c *Companion) OnEmotionTag(tag string) {
	if c == nil || !c.state.begun() {
		logger.Warn("ignoring emotion tag before Begin", "tag", tag)
		return
	}

	mapping, ok := expression.LookupEmotionTag(tag)
	if !ok {
		logger.Warn("ignoring unknown emotion tag", "tag", tag)
		return
	}

	c.expression.apply(mapping)
	if mapping.Emotion != expression.EmotionNone {
		c.emit(events.NewExpressionEmotionChanged(string(mapping.Emotion)))
	}
	if mapping.Icon != expression.IconNone {
		c.emit(events.NewExpressionIconChanged(string(mapping.Icon)))
	}
}

// ShowSystemIcon translates a symbolic system icon name (volume, brightness,
// connection states) into a renderer update. Unknown names are ignored with
// a warning.
func (c *Companion) ShowSystemIcon(name string) {
	if c == nil || !c.state.begun() {
		logger.Warn("ignoring system icon before Begin", "icon", name)
		return
	}

	icon, ok := expression.LookupSystemIcon(name)
	if !ok {
		logger.Warn("ignoring unknown system icon name", "icon", name)
		return
	}

	c.expression.ShowSystemIcon(icon)
	c.emit(events.NewExpressionIconChanged(string(icon)))
}

// OnConnectivityChanged is the network status source's level report.
func (c *Companion) OnConnectivityChanged(connected bool) {
	if c == nil || !c.state.begun() {
		logger.Warn("ignoring connectivity report before Begin", "connected", connected)
		return
	}
	c.connectivity.onChanged(connected)
}

// Pause holds playback without discarding queued work; the worker refuses
// to dequeue until Resume.
func (c *Companion) Pause() {
	if c == nil || !c.state.begun() {
		return
	}
	c.state.setPaused(true)
}

// Resume lifts a pause.
func (c *Companion) Resume() {
	if c == nil || !c.state.begun() {
		return
	}
	c.state.setPaused(false)
}

// IsSpeaking reports whether the voice agent is speaking.
func (c *Companion) IsSpeaking() bool {
	return c != nil && c.state.speaking()
}

// IsPaused reports whether playback is paused.
func (c *Companion) IsPaused() bool {
	return c != nil && c.state.paused()
}

// IsConnected reports the last observed connectivity state.
func (c *Companion) IsConnected() bool {
	return c != nil && c.state.connected()
}

// Close tears the companion down: the worker stops draining, its goroutine
// is joined with a bounded wait, and further producer calls become warned
// no-ops. Close is idempotent and never fails; a join timeout is logged and
// teardown proceeds.
func (c *Companion) Close() {
	if c == nil {
		return
	}

	c.closeOnce.Do(func() {
		c.state.setBegun(false)
		c.queue.close()

		if c.worker == nil {
			return
		}
		c.worker.Stop()
		if !c.worker.Join() {
			logger.Warn("timed out joining playback worker during teardown")
		}
	})
}

func (c *Companion) countRequest(cueType cues.CueType, decision Decision) {
	if c.requestCounter == nil {
		return
	}
	c.requestCounter.Add(c.baseContext, 1, metric.WithAttributes(
		attribute.String("cue.type", string(cueType)),
		attribute.String("cue.decision", decision.String()),
	))
}
