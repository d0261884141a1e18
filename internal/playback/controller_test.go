package playback

import (
	"context"
	"errors"
	"fmt"
	"io"
	"reflect"
	"slices"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/metcalfc/pacer/internal/segment"
)

type memStore struct {
	mu       sync.Mutex
	texts    map[string]string
	word     map[string]int
	sentence map[string]int
	saves    int
}

func newMemStore(docs map[string]string) *memStore {
	return &memStore{texts: docs, word: map[string]int{}, sentence: map[string]int{}}
}

func (s *memStore) Text(_ context.Context, id string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	text, ok := s.texts[id]
	if !ok {
		return "", fmt.Errorf("document %q not found", id)
	}
	return text, nil
}

func (s *memStore) Offsets(_ context.Context, id string) (int, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.word[id], s.sentence[id], nil
}

func (s *memStore) SaveOffsets(_ context.Context, id string, word, sentence int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.word[id], s.sentence[id] = word, sentence
	s.saves++
	return nil
}

func (s *memStore) offsets(id string) (int, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.word[id], s.sentence[id]
}

// gate is a Waiter that blocks each delay until released or cancelled.
type gate struct {
	delays  chan time.Duration
	release chan struct{}
}

func newGate() *gate {
	return &gate{delays: make(chan time.Duration, 64), release: make(chan struct{})}
}

func (g *gate) wait(ctx context.Context, d time.Duration) error {
	g.delays <- d
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-g.release:
		return nil
	}
}

func (g *gate) next(t *testing.T) time.Duration {
	t.Helper()
	select {
	case d := <-g.delays:
		return d
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for the loop to reach a delay")
		return 0
	}
}

func (g *gate) advance(t *testing.T) {
	t.Helper()
	select {
	case g.release <- struct{}{}:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out releasing a delay")
	}
}

// recorder is a Waiter that returns immediately and remembers each delay.
type recorder struct {
	mu     sync.Mutex
	delays []time.Duration
}

func (r *recorder) wait(ctx context.Context, d time.Duration) error {
	r.mu.Lock()
	r.delays = append(r.delays, d)
	r.mu.Unlock()
	return ctx.Err()
}

func (r *recorder) got() []time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]time.Duration(nil), r.delays...)
}

type eventLog struct {
	mu     sync.Mutex
	events []Event
}

func (l *eventLog) observe(ev Event) {
	l.mu.Lock()
	l.events = append(l.events, ev)
	l.mu.Unlock()
}

func (l *eventLog) kinds() []EventKind {
	l.mu.Lock()
	defer l.mu.Unlock()
	kinds := make([]EventKind, len(l.events))
	for i, ev := range l.events {
		kinds[i] = ev.Kind
	}
	return kinds
}

func (l *eventLog) first(kind EventKind) (Event, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, ev := range l.events {
		if ev.Kind == kind {
			return ev, true
		}
	}
	return Event{}, false
}

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(time.Second)
	return c.t
}

func quietLogger() *log.Logger {
	return log.New(io.Discard)
}

func newTestController(t *testing.T, store Store, w Waiter, opts ...Option) *Controller {
	t.Helper()
	opts = append([]Option{WithWaiter(w), WithLogger(quietLogger())}, opts...)
	c := New(store, opts...)
	t.Cleanup(func() { _ = c.Close(context.Background()) })
	return c
}

func TestStartRunsToCompletion(t *testing.T) {
	ctx := context.Background()
	store := newMemStore(map[string]string{"doc": "one two three"})
	store.word["doc"] = 0
	rec := &recorder{}
	c := newTestController(t, store, rec.wait)
	events := &eventLog{}
	c.OnEvent(events.observe)

	if err := c.Start(ctx, "doc"); err != nil {
		t.Fatalf("Start: %v", err)
	}
	c.Wait()

	want := []EventKind{EventStarted, EventAdvanced, EventAdvanced, EventAdvanced, EventCompleted}
	if got := events.kinds(); !reflect.DeepEqual(got, want) {
		t.Errorf("events = %v, want %v", got, want)
	}

	st := c.Status()
	if st.State != StateCompleted || st.Busy || st.Resume {
		t.Errorf("status after completion = %+v", st)
	}
	if st.Index != 2 || st.Unit != "three" {
		t.Errorf("final unit = %d %q", st.Index, st.Unit)
	}
	if w, _ := store.offsets("doc"); w != 0 {
		t.Errorf("saved word offset = %d, want 0", w)
	}
	if !c.AtEnd() {
		t.Error("AtEnd should be true after completion")
	}
}

func TestWordModeDelay(t *testing.T) {
	store := newMemStore(map[string]string{"doc": "a b c d e f g"})
	rec := &recorder{}
	c := newTestController(t, store, rec.wait)
	cfg := Config{Mode: segment.WordGroups, GroupSize: 3, WordsPerMinute: 200}
	if err := c.Configure(context.Background(), cfg); err != nil {
		t.Fatal(err)
	}
	if err := c.Start(context.Background(), "doc"); err != nil {
		t.Fatal(err)
	}
	c.Wait()

	// The short final group is paced like a full one.
	want := []time.Duration{900 * time.Millisecond, 900 * time.Millisecond, 900 * time.Millisecond}
	if got := rec.got(); !reflect.DeepEqual(got, want) {
		t.Errorf("delays = %v, want %v", got, want)
	}
}

func TestSentenceModeDelayPerUnit(t *testing.T) {
	store := newMemStore(map[string]string{"doc": "One two three. Four. Five six."})
	rec := &recorder{}
	c := newTestController(t, store, rec.wait)
	cfg := Config{Mode: segment.SentenceGroups, GroupSize: 1, WordsPerMinute: 60}
	if err := c.Configure(context.Background(), cfg); err != nil {
		t.Fatal(err)
	}
	if err := c.Start(context.Background(), "doc"); err != nil {
		t.Fatal(err)
	}
	c.Wait()

	want := []time.Duration{3 * time.Second, time.Second, 2 * time.Second}
	if got := rec.got(); !reflect.DeepEqual(got, want) {
		t.Errorf("delays = %v, want %v", got, want)
	}
}

func TestStartResumesFromSavedOffset(t *testing.T) {
	store := newMemStore(map[string]string{"doc": "a b c d e"})
	store.word["doc"] = 2
	c := newTestController(t, store, (&recorder{}).wait)
	events := &eventLog{}
	c.OnEvent(events.observe)

	if err := c.Start(context.Background(), "doc"); err != nil {
		t.Fatal(err)
	}
	c.Wait()

	started, ok := events.first(EventStarted)
	if !ok || started.Index != 2 || !started.Resume {
		t.Errorf("started event = %+v", started)
	}
	advanced, _ := events.first(EventAdvanced)
	if advanced.Unit != "c" {
		t.Errorf("first unit shown = %q, want %q", advanced.Unit, "c")
	}
	if c.Status().Resume {
		t.Error("resume flag should clear at the final unit")
	}
}

func TestStartIgnoresOutOfRangeOffset(t *testing.T) {
	store := newMemStore(map[string]string{"doc": "a b c"})
	store.word["doc"] = 99
	c := newTestController(t, store, (&recorder{}).wait)
	events := &eventLog{}
	c.OnEvent(events.observe)

	if err := c.Start(context.Background(), "doc"); err != nil {
		t.Fatal(err)
	}
	c.Wait()

	started, _ := events.first(EventStarted)
	if started.Index != 0 || started.Resume {
		t.Errorf("started event = %+v, want index 0 without resume", started)
	}
}

func TestPauseSavesPosition(t *testing.T) {
	ctx := context.Background()
	store := newMemStore(map[string]string{"doc": "a b c d"})
	g := newGate()
	c := newTestController(t, store, g.wait)

	if err := c.Start(ctx, "doc"); err != nil {
		t.Fatal(err)
	}
	g.next(t)
	g.advance(t)
	g.next(t)

	if err := c.Pause(ctx); err != nil {
		t.Fatalf("Pause: %v", err)
	}
	st := c.Status()
	if st.State != StatePaused || st.Busy || !st.Resume || st.Index != 1 {
		t.Errorf("status after pause = %+v", st)
	}
	if w, _ := store.offsets("doc"); w != 1 {
		t.Errorf("saved word offset = %d, want 1", w)
	}

	if err := c.Start(ctx, "doc"); err != nil {
		t.Fatal(err)
	}
	g.next(t)
	if st := c.Status(); st.Index != 1 || st.Unit != "b" {
		t.Errorf("resumed at %d %q, want 1 %q", st.Index, st.Unit, "b")
	}
	if err := c.Pause(ctx); err != nil {
		t.Fatal(err)
	}
}

func TestPauseOnFinalUnitSavesZero(t *testing.T) {
	ctx := context.Background()
	store := newMemStore(map[string]string{"doc": "a b"})
	g := newGate()
	clock := &fakeClock{}
	c := newTestController(t, store, g.wait, WithClock(clock.now))

	if err := c.Start(ctx, "doc"); err != nil {
		t.Fatal(err)
	}
	g.next(t)
	g.advance(t)
	g.next(t)

	if err := c.Pause(ctx); err != nil {
		t.Fatal(err)
	}
	st := c.Status()
	if st.Elapsed <= 0 {
		t.Errorf("elapsed = %v, want it captured on the final unit", st.Elapsed)
	}
	if st.Resume {
		t.Error("resume should be false after pausing on the final unit")
	}
	if w, _ := store.offsets("doc"); w != 0 {
		t.Errorf("saved word offset = %d, want 0", w)
	}

	if err := c.Start(ctx, "doc"); err != nil {
		t.Fatal(err)
	}
	g.next(t)
	if idx := c.Status().Index; idx != 0 {
		t.Errorf("restart index = %d, want 0", idx)
	}
	if err := c.Pause(ctx); err != nil {
		t.Fatal(err)
	}
	if e := c.Status().Elapsed; e != 0 {
		t.Errorf("elapsed = %v, want 0 when paused mid-document", e)
	}
}

func TestPauseWhenNotRunning(t *testing.T) {
	c := newTestController(t, newMemStore(nil), (&recorder{}).wait)
	if err := c.Pause(context.Background()); !errors.Is(err, ErrNotRunning) {
		t.Errorf("Pause error = %v, want ErrNotRunning", err)
	}
}

func TestStepBounds(t *testing.T) {
	ctx := context.Background()
	store := newMemStore(map[string]string{"doc": "a b c"})
	g := newGate()
	c := newTestController(t, store, g.wait)

	if err := c.StepForward(); !errors.Is(err, ErrNoSession) {
		t.Errorf("StepForward without session = %v, want ErrNoSession", err)
	}

	if err := c.Start(ctx, "doc"); err != nil {
		t.Fatal(err)
	}
	g.next(t)

	// Stepping back from the first unit interrupts the run but stays put.
	if err := c.StepBackward(); err != nil {
		t.Fatal(err)
	}
	if st := c.Status(); st.Index != 0 || st.Busy {
		t.Errorf("after step back at start: %+v", st)
	}

	for range 5 {
		if err := c.StepForward(); err != nil {
			t.Fatal(err)
		}
	}
	st := c.Status()
	if st.Index != 2 || st.Unit != "c" || !st.Resume {
		t.Errorf("after stepping past the end: %+v", st)
	}
	if err := c.StepBackward(); err != nil {
		t.Fatal(err)
	}
	if idx := c.Status().Index; idx != 1 {
		t.Errorf("index after step back = %d, want 1", idx)
	}

	if err := c.Start(ctx, "doc"); err != nil {
		t.Fatal(err)
	}
	g.next(t)
	if idx := c.Status().Index; idx != 1 {
		t.Errorf("start after steps began at %d, want 1", idx)
	}
	if err := c.Pause(ctx); err != nil {
		t.Fatal(err)
	}
}

func TestStartWhileBusy(t *testing.T) {
	ctx := context.Background()
	store := newMemStore(map[string]string{"a": "one two", "b": "three"})
	g := newGate()
	c := newTestController(t, store, g.wait)

	if err := c.Start(ctx, "a"); err != nil {
		t.Fatal(err)
	}
	g.next(t)

	err := c.Start(ctx, "a")
	if !errors.Is(err, ErrBusy) || errors.Is(err, ErrOtherDocument) {
		t.Errorf("Start same document = %v", err)
	}
	err = c.Start(ctx, "b")
	if !errors.Is(err, ErrBusy) || !errors.Is(err, ErrOtherDocument) {
		t.Errorf("Start other document = %v", err)
	}

	if err := c.Pause(ctx); err != nil {
		t.Fatal(err)
	}
}

func TestStartUnknownDocument(t *testing.T) {
	c := newTestController(t, newMemStore(map[string]string{}), (&recorder{}).wait)
	if err := c.Start(context.Background(), "missing"); err == nil {
		t.Fatal("expected error for unknown document")
	}
	if c.Busy() {
		t.Error("controller should not stay busy after a failed start")
	}
}

func TestSwitchingDocumentSavesPrevious(t *testing.T) {
	ctx := context.Background()
	store := newMemStore(map[string]string{"a": "one two three four", "b": "five"})
	g := newGate()
	c := newTestController(t, store, g.wait)

	if err := c.Start(ctx, "a"); err != nil {
		t.Fatal(err)
	}
	g.next(t)
	if err := c.Pause(ctx); err != nil {
		t.Fatal(err)
	}
	for range 2 {
		if err := c.StepForward(); err != nil {
			t.Fatal(err)
		}
	}

	if err := c.Start(ctx, "b"); err != nil {
		t.Fatal(err)
	}
	g.next(t)
	if w, _ := store.offsets("a"); w != 2 {
		t.Errorf("saved offset for previous document = %d, want 2", w)
	}
	if doc := c.Status().Document; doc != "b" {
		t.Errorf("active document = %q", doc)
	}
	if err := c.Pause(ctx); err != nil {
		t.Fatal(err)
	}
}

func TestReset(t *testing.T) {
	ctx := context.Background()
	store := newMemStore(map[string]string{"doc": "a b c d"})
	store.sentence["doc"] = 1
	g := newGate()
	c := newTestController(t, store, g.wait)

	if err := c.Start(ctx, "doc"); err != nil {
		t.Fatal(err)
	}
	g.next(t)
	g.advance(t)
	g.next(t)

	if err := c.Reset(ctx); err != nil {
		t.Fatal(err)
	}
	st := c.Status()
	if st.State != StateIdle || st.Total != 0 || st.Index != 0 || st.Resume || st.Busy {
		t.Errorf("status after reset = %+v", st)
	}
	if w, s := store.offsets("doc"); w != 0 || s != 0 {
		t.Errorf("saved offsets after reset = %d, %d", w, s)
	}
}

func TestConfigure(t *testing.T) {
	ctx := context.Background()
	store := newMemStore(map[string]string{"doc": "One two. Three four. Five."})
	g := newGate()
	c := newTestController(t, store, g.wait)

	err := c.Configure(ctx, Config{Mode: segment.WordGroups, GroupSize: 0, WordsPerMinute: 300})
	if !errors.Is(err, ErrInvalidConfig) || !errors.Is(err, segment.ErrInvalidGroupSize) {
		t.Errorf("group size 0 error = %v", err)
	}
	var cfgErr *ConfigError
	if !errors.As(err, &cfgErr) || cfgErr.Field != "group_size" {
		t.Errorf("expected ConfigError for group_size, got %v", err)
	}
	if err := c.Configure(ctx, Config{Mode: segment.WordGroups, GroupSize: 1, WordsPerMinute: 0}); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("wpm 0 error = %v", err)
	}
	if got := c.Config(); got != DefaultConfig() {
		t.Errorf("rejected configs should not apply, got %v", got)
	}

	if err := c.Start(ctx, "doc"); err != nil {
		t.Fatal(err)
	}
	g.next(t)
	g.advance(t)
	g.next(t)

	// A rate change alone keeps the session.
	faster := Config{Mode: segment.WordGroups, GroupSize: 1, WordsPerMinute: 600}
	if err := c.Configure(ctx, faster); err != nil {
		t.Fatal(err)
	}
	if !c.Busy() {
		t.Error("rate change should not stop the run")
	}

	sentences := Config{Mode: segment.SentenceGroups, GroupSize: 1, WordsPerMinute: 600}
	if err := c.Configure(ctx, sentences); err != nil {
		t.Fatal(err)
	}
	st := c.Status()
	if st.State != StateIdle || st.Busy || st.Total != 0 {
		t.Errorf("regrouping should stop the session, got %+v", st)
	}
	if w, _ := store.offsets("doc"); w != 1 {
		t.Errorf("word offset saved on regroup = %d, want 1", w)
	}

	if err := c.Start(ctx, "doc"); err != nil {
		t.Fatal(err)
	}
	if d := g.next(t); d != 200*time.Millisecond {
		t.Errorf("first sentence delay = %v, want 200ms", d)
	}
	if st := c.Status(); st.Unit != "One two." || st.Total != 3 {
		t.Errorf("sentence session = %+v", st)
	}
	if err := c.Pause(ctx); err != nil {
		t.Fatal(err)
	}
}

// stallingStore holds one armed SaveOffsets call until released.
type stallingStore struct {
	*memStore
	armed   atomic.Bool
	entered chan struct{}
	release chan struct{}
}

func (s *stallingStore) SaveOffsets(ctx context.Context, id string, word, sentence int) error {
	if s.armed.CompareAndSwap(true, false) {
		close(s.entered)
		<-s.release
	}
	return s.memStore.SaveOffsets(ctx, id, word, sentence)
}

func TestRegroupIsNotInterleavedWithStart(t *testing.T) {
	ctx := context.Background()
	store := &stallingStore{
		memStore: newMemStore(map[string]string{"doc": "a b c d e f"}),
		entered:  make(chan struct{}),
		release:  make(chan struct{}),
	}
	g := newGate()
	c := newTestController(t, store, g.wait)

	if err := c.Start(ctx, "doc"); err != nil {
		t.Fatal(err)
	}
	g.next(t)

	store.armed.Store(true)
	regrouped := make(chan error, 1)
	go func() {
		regrouped <- c.Configure(ctx, Config{Mode: segment.WordGroups, GroupSize: 3, WordsPerMinute: 300})
	}()
	select {
	case <-store.entered:
	case <-time.After(2 * time.Second):
		t.Fatal("Configure never saved the position")
	}

	started := make(chan error, 1)
	go func() { started <- c.Start(ctx, "doc") }()
	select {
	case err := <-started:
		t.Fatalf("Start returned during a regroup: %v", err)
	case <-time.After(50 * time.Millisecond):
	}

	close(store.release)
	if err := <-regrouped; err != nil {
		t.Fatalf("Configure: %v", err)
	}
	if err := <-started; err != nil {
		t.Fatalf("Start: %v", err)
	}
	g.next(t)

	st := c.Status()
	if st.Config.GroupSize != 3 || st.Total != 2 || st.Unit != "a b c" {
		t.Errorf("run after regroup = %+v, want units of three words", st)
	}
}

func TestRepeatedRunsMatch(t *testing.T) {
	ctx := context.Background()
	store := newMemStore(map[string]string{"doc": "Hi there. How are you doing today? Fine."})
	rec := &recorder{}
	c := newTestController(t, store, rec.wait)
	events := &eventLog{}
	c.OnEvent(events.observe)

	cfg := Config{Mode: segment.SentenceGroups, GroupSize: 1, WordsPerMinute: 200}
	for range 2 {
		if err := c.Configure(ctx, cfg); err != nil {
			t.Fatal(err)
		}
		if err := c.Start(ctx, "doc"); err != nil {
			t.Fatal(err)
		}
		c.Wait()
	}

	var units []string
	events.mu.Lock()
	for _, ev := range events.events {
		if ev.Kind == EventAdvanced {
			units = append(units, ev.Unit)
		}
	}
	events.mu.Unlock()

	wantUnits := []string{"Hi there.", "How are you doing today?", "Fine."}
	wantDelays := []time.Duration{600 * time.Millisecond, 1500 * time.Millisecond, 300 * time.Millisecond}
	if !reflect.DeepEqual(units, slices.Concat(wantUnits, wantUnits)) {
		t.Errorf("units = %q, want %q twice", units, wantUnits)
	}
	if got := rec.got(); !reflect.DeepEqual(got, slices.Concat(wantDelays, wantDelays)) {
		t.Errorf("delays = %v, want %v twice", got, wantDelays)
	}
}

func TestEmptyDocumentCompletes(t *testing.T) {
	store := newMemStore(map[string]string{"doc": " \n\t "})
	rec := &recorder{}
	c := newTestController(t, store, rec.wait)

	if err := c.Start(context.Background(), "doc"); err != nil {
		t.Fatal(err)
	}
	st := c.Status()
	if st.State != StateCompleted || st.Busy || st.Total != 0 {
		t.Errorf("status = %+v", st)
	}
	if len(rec.got()) != 0 {
		t.Error("no delays expected for an empty document")
	}
}

type fakeDefiner map[string]string

func (f fakeDefiner) Define(_ context.Context, word string) (string, error) {
	return f[word], nil
}

func TestDefine(t *testing.T) {
	ctx := context.Background()
	store := newMemStore(map[string]string{"doc": "serendipity happens"})
	g := newGate()
	c := newTestController(t, store, g.wait, WithDefiner(fakeDefiner{"serendipity": "a happy accident"}))

	if _, err := c.Define(ctx); !errors.Is(err, ErrDefineUnavailable) {
		t.Errorf("Define without session = %v", err)
	}

	if err := c.Start(ctx, "doc"); err != nil {
		t.Fatal(err)
	}
	g.next(t)
	if _, err := c.Define(ctx); !errors.Is(err, ErrDefineUnavailable) {
		t.Errorf("Define while running = %v", err)
	}
	if err := c.Pause(ctx); err != nil {
		t.Fatal(err)
	}

	def, err := c.Define(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if def != "a happy accident" {
		t.Errorf("definition = %q", def)
	}

	pairs := Config{Mode: segment.WordGroups, GroupSize: 2, WordsPerMinute: 300}
	if err := c.Configure(ctx, pairs); err != nil {
		t.Fatal(err)
	}
	if err := c.Start(ctx, "doc"); err != nil {
		t.Fatal(err)
	}
	g.next(t)
	if err := c.Pause(ctx); err != nil {
		t.Fatal(err)
	}
	if _, err := c.Define(ctx); !errors.Is(err, ErrDefineUnavailable) {
		t.Errorf("Define with two-word units = %v", err)
	}
}

func TestClose(t *testing.T) {
	ctx := context.Background()
	store := newMemStore(map[string]string{"doc": "a b c"})
	g := newGate()
	c := New(store, WithWaiter(g.wait), WithLogger(quietLogger()))

	if err := c.Start(ctx, "doc"); err != nil {
		t.Fatal(err)
	}
	g.next(t)
	if err := c.Close(ctx); err != nil {
		t.Fatal(err)
	}
	if err := c.Start(ctx, "doc"); !errors.Is(err, ErrClosed) {
		t.Errorf("Start after Close = %v, want ErrClosed", err)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name  string
		cfg   Config
		field string
	}{
		{"default", DefaultConfig(), ""},
		{"sentences", Config{Mode: segment.SentenceGroups, GroupSize: 3, WordsPerMinute: 120}, ""},
		{"unknown mode", Config{Mode: segment.Mode(7), GroupSize: 1, WordsPerMinute: 300}, "mode"},
		{"negative size", Config{Mode: segment.WordGroups, GroupSize: -1, WordsPerMinute: 300}, "group_size"},
		{"negative rate", Config{Mode: segment.WordGroups, GroupSize: 1, WordsPerMinute: -5}, "wpm"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.field == "" {
				if err != nil {
					t.Errorf("Validate() = %v", err)
				}
				return
			}
			var cfgErr *ConfigError
			if !errors.As(err, &cfgErr) || cfgErr.Field != tt.field {
				t.Errorf("Validate() = %v, want ConfigError on %s", err, tt.field)
			}
		})
	}
}

func TestStateStrings(t *testing.T) {
	if StateRunning.String() != "running" || StateCompleted.String() != "completed" {
		t.Error("unexpected state names")
	}
	if EventStepped.String() != "stepped" || EventKind(42).String() != "unknown" {
		t.Error("unexpected event kind names")
	}
	cur, total := Status{Index: 4, Total: 10}.Progress()
	if cur != 5 || total != 10 {
		t.Errorf("Progress() = %d/%d", cur, total)
	}
}
