// Package playback drives paced, resumable iteration through display units.
package playback

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/metcalfc/pacer/internal/pacing"
	"github.com/metcalfc/pacer/internal/segment"
)

// Controller owns at most one playback session and advances through its
// unit sequence at the configured pace.
//
// While a run is in progress the loop goroutine is the only writer of the
// current index. Commands that move the index (Pause, StepForward,
// StepBackward, Reset, Stop, Configure) first cancel the in-flight delay
// and wait for the loop to exit. Those commands and Start are serialized
// so a regroup cannot interleave with a Start.
type Controller struct {
	store     Store
	segmenter *segment.Segmenter
	definer   Definer
	wait      Waiter
	logger    *log.Logger

	base     context.Context
	shutdown context.CancelFunc

	cmu sync.Mutex // serializes commands

	omu       sync.RWMutex
	observers []func(Event)

	mu       sync.Mutex
	cfg      Config
	state    State
	docID    string
	loaded   bool
	saved    offsets
	text     string
	units    []string
	unitsCfg Config
	index    int
	resume   bool
	busy     bool
	elapsed  time.Duration
	watch    stopwatch
	cancel   context.CancelFunc
	done     chan struct{}
	closed   bool
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the logger. The default is log.Default().
func WithLogger(l *log.Logger) Option {
	return func(c *Controller) { c.logger = l }
}

// WithWaiter replaces the cancellable delay used between units.
func WithWaiter(w Waiter) Option {
	return func(c *Controller) { c.wait = w }
}

// WithClock sets the time source used for elapsed-time tracking.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.watch.now = now }
}

// WithSegmenter sets the segmenter, e.g. one with a custom abbreviation list.
func WithSegmenter(s *segment.Segmenter) Option {
	return func(c *Controller) { c.segmenter = s }
}

// WithDefiner enables definition lookups for the current word.
func WithDefiner(d Definer) Option {
	return func(c *Controller) { c.definer = d }
}

// New creates an idle Controller reading documents from store, configured
// with DefaultConfig.
func New(store Store, opts ...Option) *Controller {
	base, shutdown := context.WithCancel(context.Background())
	c := &Controller{
		store:     store,
		segmenter: segment.New(),
		wait:      sleep,
		logger:    log.Default(),
		base:      base,
		shutdown:  shutdown,
		cfg:       DefaultConfig(),
		watch:     stopwatch{now: time.Now},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// OnEvent registers an observer. Observers run synchronously on the
// goroutine that produced the event and must not call Controller commands
// directly; hand them off to another goroutine instead.
func (c *Controller) OnEvent(fn func(Event)) {
	c.omu.Lock()
	defer c.omu.Unlock()
	c.observers = append(slices.Clip(c.observers), fn)
}

// Config returns the current configuration.
func (c *Controller) Config() Config {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cfg
}

// Configure validates and stores cfg. Changing the grouping mode or size
// stops the current session because its unit sequence no longer applies.
// A rate change takes effect on the next Start.
func (c *Controller) Configure(ctx context.Context, cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	c.cmu.Lock()
	defer c.cmu.Unlock()

	c.mu.Lock()
	regroup := !c.cfg.sameGrouping(cfg) && (c.state != StateIdle || c.units != nil)
	c.mu.Unlock()

	if regroup {
		if err := c.stop(ctx); err != nil {
			return err
		}
	}

	c.mu.Lock()
	c.cfg = cfg
	c.mu.Unlock()

	c.logger.Debug("playback configured", "config", cfg.String(), "regrouped", regroup)
	return nil
}

// Start begins playback of the document, resuming from its saved offset
// when that offset is non-zero. It returns once the run is underway.
func (c *Controller) Start(ctx context.Context, docID string) error {
	c.cmu.Lock()
	defer c.cmu.Unlock()

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	if c.busy {
		running := c.docID
		c.mu.Unlock()
		if running != docID {
			return fmt.Errorf("%w: %w (%s)", ErrBusy, ErrOtherDocument, running)
		}
		return ErrBusy
	}
	c.busy = true
	switching := c.loaded && c.docID != docID
	reuse := c.loaded && c.docID == docID
	c.mu.Unlock()

	if switching {
		if err := c.stop(ctx); err != nil {
			c.logger.Warn("failed to save position of previous document", "err", err)
		}
	}

	text, err := c.store.Text(ctx, docID)
	if err != nil {
		c.release()
		return fmt.Errorf("load document %s: %w", docID, err)
	}
	var saved offsets
	if !reuse {
		saved.word, saved.sentence, err = c.store.Offsets(ctx, docID)
		if err != nil {
			c.release()
			return fmt.Errorf("load offsets for %s: %w", docID, err)
		}
	}

	c.mu.Lock()
	cfg := c.cfg
	if !reuse {
		c.clearSessionLocked()
		c.docID = docID
		c.saved = saved
		c.loaded = true
	}

	if c.units == nil || c.text != text || !c.unitsCfg.sameGrouping(cfg) {
		units, err := c.segmenter.Split(text, cfg.Mode, cfg.GroupSize)
		if err != nil {
			c.busy = false
			c.mu.Unlock()
			return fmt.Errorf("segment document %s: %w", docID, err)
		}
		c.units, c.text, c.unitsCfg = units, text, cfg
	}

	var fixed time.Duration
	if cfg.Mode == segment.WordGroups {
		if fixed, err = pacing.Delay(cfg.WordsPerMinute, cfg.GroupSize); err != nil {
			c.busy = false
			c.mu.Unlock()
			return &ConfigError{Field: "wpm", Value: cfg.WordsPerMinute, Cause: err}
		}
	}

	start := c.saved.get(cfg.Mode)
	c.resume = start > 0 && start < len(c.units)
	if !c.resume {
		start = 0
	}
	c.index = start
	c.elapsed = 0

	if len(c.units) == 0 {
		c.state = StateCompleted
		c.busy = false
		ev := c.eventLocked(EventCompleted)
		c.mu.Unlock()
		c.logger.Debug("nothing to play", "doc", docID)
		c.publish(ev)
		return nil
	}

	if c.atEndLocked() || c.atBeginningLocked() {
		c.watch.Restart()
	} else {
		c.watch.Start()
	}

	runCtx, cancel := context.WithCancel(c.base)
	done := make(chan struct{})
	c.cancel, c.done = cancel, done
	c.state = StateRunning
	units := c.units
	ev := c.eventLocked(EventStarted)
	c.mu.Unlock()

	c.logger.Debug("playback started", "doc", docID, "config", cfg.String(), "index", start, "units", len(units), "resume", ev.Resume)
	c.publish(ev)

	go c.run(runCtx, cancel, done, units, start, cfg, fixed)
	return nil
}

// run is the advance loop. Its only suspension point is the per-unit delay.
func (c *Controller) run(ctx context.Context, cancel context.CancelFunc, done chan struct{}, units []string, start int, cfg Config, fixed time.Duration) {
	defer close(done)
	defer cancel()

	last := len(units) - 1
	for i := start; i <= last; i++ {
		c.mu.Lock()
		c.index = i
		ev := c.eventLocked(EventAdvanced)
		c.mu.Unlock()
		c.publish(ev)

		if unit := units[i]; strings.TrimSpace(unit) != "" {
			delay := fixed
			if cfg.Mode == segment.SentenceGroups {
				// cfg was validated before the run started.
				delay, _ = pacing.Delay(cfg.WordsPerMinute, segment.WordCount(unit))
			}
			if err := c.wait(ctx, delay); err != nil {
				c.interrupted(err)
				return
			}
		}

		if i == last {
			c.mu.Lock()
			c.resume = false
			c.mu.Unlock()
		}
	}
	c.completed(cfg.Mode)
}

// interrupted finalizes a run whose delay was cancelled.
func (c *Controller) interrupted(cause error) {
	c.mu.Lock()
	c.watch.Stop()
	if c.atEndLocked() {
		c.elapsed = c.watch.Elapsed()
	}
	c.resume = true
	c.state = StatePaused
	c.busy = false
	ev := c.eventLocked(EventPaused)
	c.mu.Unlock()

	if errors.Is(cause, context.Canceled) {
		c.logger.Debug("playback paused", "doc", ev.Document, "index", ev.Index)
	} else {
		c.logger.Error("playback delay failed", "doc", ev.Document, "index", ev.Index, "err", cause)
	}
	c.publish(ev)
}

// completed finalizes a run that reached the final unit.
func (c *Controller) completed(mode segment.Mode) {
	c.mu.Lock()
	c.watch.Stop()
	c.elapsed = c.watch.Elapsed()
	c.state = StateCompleted
	c.busy = false
	c.resume = false
	c.saved.set(mode, 0)
	id, saved := c.docID, c.saved
	ev := c.eventLocked(EventCompleted)
	c.mu.Unlock()

	c.logger.Debug("playback completed", "doc", id, "elapsed", ev.Elapsed)
	if err := c.persist(c.base, id, saved); err != nil {
		c.logger.Error("failed to save offsets", "doc", id, "err", err)
	}
	c.publish(ev)
}

// Pause interrupts the running loop and saves the position. Pausing on the
// final unit saves offset 0 so the next Start begins from the top.
func (c *Controller) Pause(ctx context.Context) error {
	c.cmu.Lock()
	defer c.cmu.Unlock()

	c.mu.Lock()
	if c.state != StateRunning {
		c.mu.Unlock()
		return ErrNotRunning
	}
	c.mu.Unlock()

	c.halt()

	c.mu.Lock()
	if c.atEndLocked() {
		c.saved.set(c.unitsCfg.Mode, 0)
		c.resume = false
	} else {
		c.saved.set(c.unitsCfg.Mode, c.index)
	}
	id, saved := c.docID, c.saved
	c.mu.Unlock()

	return c.persist(ctx, id, saved)
}

// StepForward moves to the next unit without waiting. It is a no-op on
// the final unit.
func (c *Controller) StepForward() error {
	return c.step(1)
}

// StepBackward moves to the previous unit without waiting. It is a no-op
// on the first unit.
func (c *Controller) StepBackward() error {
	return c.step(-1)
}

func (c *Controller) step(delta int) error {
	c.cmu.Lock()
	defer c.cmu.Unlock()

	c.halt()

	c.mu.Lock()
	if len(c.units) == 0 {
		c.mu.Unlock()
		return ErrNoSession
	}
	next := c.index + delta
	if next < 0 || next >= len(c.units) {
		c.mu.Unlock()
		return nil
	}
	c.index = next
	c.resume = true
	c.saved.set(c.unitsCfg.Mode, next)
	if c.state != StatePaused {
		c.state = StatePaused
	}
	ev := c.eventLocked(EventStepped)
	c.mu.Unlock()

	c.publish(ev)
	return nil
}

// Reset cancels any run, discards the session and saves zero offsets for
// both grouping modes.
func (c *Controller) Reset(ctx context.Context) error {
	c.cmu.Lock()
	defer c.cmu.Unlock()

	c.halt()

	c.mu.Lock()
	c.clearSessionLocked()
	c.saved = offsets{}
	id, loaded := c.docID, c.loaded
	ev := c.eventLocked(EventStopped)
	c.mu.Unlock()

	var err error
	if loaded {
		err = c.persist(ctx, id, offsets{})
	}
	c.publish(ev)
	return err
}

// Stop cancels any run, saves the current position and discards the
// session.
func (c *Controller) Stop(ctx context.Context) error {
	c.cmu.Lock()
	defer c.cmu.Unlock()
	return c.stop(ctx)
}

func (c *Controller) stop(ctx context.Context) error {
	c.halt()

	c.mu.Lock()
	save := c.loaded && c.units != nil
	if save {
		if c.atEndLocked() {
			c.saved.set(c.unitsCfg.Mode, 0)
		} else {
			c.saved.set(c.unitsCfg.Mode, c.index)
		}
	}
	id, saved := c.docID, c.saved
	c.clearSessionLocked()
	ev := c.eventLocked(EventStopped)
	c.mu.Unlock()

	var err error
	if save {
		err = c.persist(ctx, id, saved)
	}
	c.publish(ev)
	return err
}

// Define looks up the current unit. It is only available while idle in
// word mode with one word per unit.
func (c *Controller) Define(ctx context.Context) (string, error) {
	c.mu.Lock()
	ok := c.definer != nil && !c.busy &&
		c.unitsCfg.Mode == segment.WordGroups && c.unitsCfg.GroupSize == 1 &&
		c.index < len(c.units)
	var word string
	if ok {
		word = c.units[c.index]
	}
	c.mu.Unlock()

	if !ok {
		return "", ErrDefineUnavailable
	}
	return c.definer.Define(ctx, word)
}

// Status returns a snapshot of the playback state.
func (c *Controller) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.statusLocked()
}

// Busy reports whether a run is in progress.
func (c *Controller) Busy() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.busy
}

// AtEnd reports whether the current index is the final unit of the
// active sequence.
func (c *Controller) AtEnd() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.atEndLocked()
}

// AtBeginning reports whether the current index is the first unit.
func (c *Controller) AtBeginning() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.atBeginningLocked()
}

// Wait blocks until the current run, if any, has finished.
func (c *Controller) Wait() {
	c.mu.Lock()
	done := c.done
	c.mu.Unlock()
	if done != nil {
		<-done
	}
}

// Close stops playback, saving the position, and releases the controller.
func (c *Controller) Close(ctx context.Context) error {
	c.cmu.Lock()
	defer c.cmu.Unlock()

	err := c.stop(ctx)
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()
	c.shutdown()
	return err
}

// halt forces the loop out of its delay and waits for it to exit.
func (c *Controller) halt() {
	c.mu.Lock()
	cancel, done := c.cancel, c.done
	c.mu.Unlock()
	if cancel == nil {
		return
	}
	cancel()
	<-done
}

func (c *Controller) release() {
	c.mu.Lock()
	c.busy = false
	c.mu.Unlock()
}

func (c *Controller) persist(ctx context.Context, id string, o offsets) error {
	if err := c.store.SaveOffsets(ctx, id, o.word, o.sentence); err != nil {
		return fmt.Errorf("save offsets for %s: %w", id, err)
	}
	c.logger.Debug("offsets saved", "doc", id, "word", o.word, "sentence", o.sentence)
	return nil
}

func (c *Controller) publish(ev Event) {
	c.omu.RLock()
	observers := c.observers
	c.omu.RUnlock()
	for _, fn := range observers {
		fn(ev)
	}
}

func (c *Controller) clearSessionLocked() {
	c.units = nil
	c.text = ""
	c.index = 0
	c.resume = false
	c.elapsed = 0
	c.watch.Reset()
	c.state = StateIdle
	c.cancel = nil
	c.done = nil
}

func (c *Controller) atEndLocked() bool {
	return len(c.units) > 0 && c.index == len(c.units)-1
}

func (c *Controller) atBeginningLocked() bool {
	return c.index == 0
}

func (c *Controller) statusLocked() Status {
	s := Status{
		State:    c.state,
		Document: c.docID,
		Config:   c.cfg,
		Index:    c.index,
		Total:    len(c.units),
		Resume:   c.resume,
		Busy:     c.busy,
		Elapsed:  c.elapsed,
	}
	if c.index >= 0 && c.index < len(c.units) {
		s.Unit = c.units[c.index]
	}
	return s
}

func (c *Controller) eventLocked(kind EventKind) Event {
	return Event{Kind: kind, Status: c.statusLocked()}
}

func (o offsets) get(mode segment.Mode) int {
	if mode == segment.SentenceGroups {
		return o.sentence
	}
	return o.word
}

func (o *offsets) set(mode segment.Mode, index int) {
	if mode == segment.SentenceGroups {
		o.sentence = index
	} else {
		o.word = index
	}
}
