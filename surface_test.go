package touchline

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"
	"time"
	"unsafe"

	"github.com/google/go-cmp/cmp"
	"github.com/rs/zerolog"
)

// recordingEngine copies every call it receives.
type recordingEngine struct {
	calls []engineCall
}

type engineCall struct {
	Kind   EventKind
	Action Action
	Active []EventRecord
	All    []EventRecord
	Time   time.Duration
	Key    KeyCode
}

func (e *recordingEngine) OnInputBatch(action Action, active, all []EventRecord, t time.Duration) {
	e.calls = append(e.calls, engineCall{
		Kind:   EventBatch,
		Action: action,
		Active: append([]EventRecord(nil), active...),
		All:    append([]EventRecord(nil), all...),
		Time:   t,
	})
}

func (e *recordingEngine) OnKeyDown(code KeyCode) {
	e.calls = append(e.calls, engineCall{Kind: EventKeyDown, Key: code})
}

func (e *recordingEngine) OnKeyUp(code KeyCode) {
	e.calls = append(e.calls, engineCall{Kind: EventKeyUp, Key: code})
}

func newTestSurface(t *testing.T) *Surface {
	t.Helper()
	s, err := NewSurface(DefaultConfig())
	if err != nil {
		t.Fatalf("NewSurface: %v", err)
	}
	return s
}

func TestNewSurfaceRejectsInvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.JoystickAxes = 3
	if _, err := NewSurface(cfg); err == nil {
		t.Fatal("expected error for joystick_axes 3")
	}
}

func TestSurfaceDoubleTapProducesOneTapTwoSnapshot(t *testing.T) {
	s := newTestSurface(t)

	s.OnTouch(pointerSample(ActionDown, 0, 4))
	if !s.OnDoubleTap(0, 1) {
		t.Fatal("double-tap notification rejected")
	}
	s.OnTouch(pointerSample(ActionUp, 0, 4))

	var e recordingEngine
	if n := s.Drain(&e); n != 2 {
		t.Fatalf("drained %d events, want 2", n)
	}

	var tapTwo, ups int
	for _, c := range e.calls {
		if c.Action == ActionUp {
			ups++
		}
		for _, r := range c.Active {
			if r.TapCount == 2 {
				tapTwo++
			}
		}
	}
	if ups != 1 {
		t.Errorf("got %d up snapshots, want 1", ups)
	}
	if tapTwo != 1 {
		t.Errorf("got %d tap-count-2 records, want 1", tapTwo)
	}
	if got := e.calls[0].Active[0].TapCount; got != 1 {
		t.Errorf("second down reported tap count %d, want 1 (the up carries 2)", got)
	}
	if e.calls[1].Active[0].ID != e.calls[0].Active[0].ID {
		t.Errorf("up labelled %d, down labelled %d", e.calls[1].Active[0].ID, e.calls[0].Active[0].ID)
	}
	if got := s.Stats().PromotedTaps; got != 1 {
		t.Errorf("PromotedTaps = %d, want 1", got)
	}
}

func TestSurfaceDoubleTapDisabled(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DoubleTap = false
	s, err := NewSurface(cfg)
	if err != nil {
		t.Fatal(err)
	}
	s.OnTouch(pointerSample(ActionDown, 0, 1))
	if s.OnDoubleTap(0, 1) {
		t.Error("notification accepted with double-tap disabled")
	}
	s.OnTouch(pointerSample(ActionUp, 0, 1))

	var e recordingEngine
	s.Drain(&e)
	if got := e.calls[1].Active[0].TapCount; got != 1 {
		t.Errorf("TapCount = %d, want 1", got)
	}
}

func TestSurfaceRecycledPointerScenario(t *testing.T) {
	s := newTestSurface(t)
	s.OnTouch(pointerSample(ActionDown, 0, 5))
	s.OnTouch(pointerSample(ActionMove, 0, 5))
	s.OnTouch(pointerSample(ActionMove, 0, 5))
	s.OnTouch(pointerSample(ActionUp, 0, 5))
	s.OnTouch(pointerSample(ActionDown, 0, 5))

	var e recordingEngine
	s.Drain(&e)

	var got []TrackedID
	for _, c := range e.calls {
		got = append(got, c.Active[0].ID)
	}
	want := []TrackedID{1, 1, 1, 1, 2}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("tracked ids mismatch (-want +got):\n%s", diff)
	}
}

func TestSurfaceKeysAreOrderedWithBatches(t *testing.T) {
	s := newTestSurface(t)
	s.OnTouch(pointerSample(ActionDown, 0, 1))
	s.OnKeyDown(96)
	s.OnKeyDown(96) // repeat while held
	s.OnTouch(pointerSample(ActionUp, 0, 1))
	s.OnKeyUp(96)
	s.OnKeyDown(96)

	var e recordingEngine
	s.Drain(&e)

	var kinds []EventKind
	for _, c := range e.calls {
		kinds = append(kinds, c.Kind)
	}
	want := []EventKind{EventBatch, EventKeyDown, EventBatch, EventKeyUp, EventKeyDown}
	if diff := cmp.Diff(want, kinds); diff != "" {
		t.Errorf("event order mismatch (-want +got):\n%s", diff)
	}
	if got := s.Stats().SuppressedRepeats; got != 1 {
		t.Errorf("SuppressedRepeats = %d, want 1", got)
	}
}

func TestSurfaceControllerMotion(t *testing.T) {
	s := newTestSurface(t)
	s.OnControllerMotion([]AxisValue{{Axis: AxisX, Value: 0.5}, {Axis: AxisY, Value: -0.3}}, time.Second)

	var e recordingEngine
	s.Drain(&e)
	if len(e.calls) != 1 {
		t.Fatalf("got %d calls, want 1", len(e.calls))
	}
	c := e.calls[0]
	if c.Action != ActionMove || c.Time != time.Second {
		t.Errorf("call = %+v, want a move at 1s", c)
	}
	if diff := cmp.Diff(c.All, c.Active); diff != "" {
		t.Errorf("active differs from all:\n%s", diff)
	}
	if len(c.All) != 2 || c.All[0].ID != 1 || c.All[1].ID != 2 {
		t.Errorf("all = %+v, want ids 1 and 2", c.All)
	}
}

func TestSurfaceControllerKeys(t *testing.T) {
	s := newTestSurface(t)
	s.OnControllerKey(100, true)
	s.OnControllerKey(100, true)
	s.OnControllerKey(100, false)

	var e recordingEngine
	s.Drain(&e)
	want := []engineCall{
		{Kind: EventKeyDown, Key: 100},
		{Kind: EventKeyUp, Key: 100},
	}
	if diff := cmp.Diff(want, e.calls); diff != "" {
		t.Errorf("calls mismatch (-want +got):\n%s", diff)
	}
}

func TestSurfaceGenericMotionJoystick(t *testing.T) {
	s := newTestSurface(t)
	s.OnGenericMotion(RawSample{
		Action: ActionMove,
		Source: SourceJoystick,
		Axes:   []AxisValue{{Axis: AxisRZ, Value: 1}},
	})
	var e recordingEngine
	s.Drain(&e)
	if got := e.calls[0].All[0].ID; got != 6 {
		t.Errorf("RZ id = %d, want 6", got)
	}
}

func TestSurfaceTeardownKeepsQueued(t *testing.T) {
	s := newTestSurface(t)
	s.OnTouch(pointerSample(ActionDown, 0, 1))
	s.OnKeyDown(20)
	s.Teardown(false)

	if s.Tracker().Live() != 0 {
		t.Errorf("Live = %d after teardown, want 0", s.Tracker().Live())
	}
	var e recordingEngine
	if n := s.Drain(&e); n != 2 {
		t.Errorf("drained %d after teardown, want 2", n)
	}

	// Held-key state was cleared: the same key goes through again.
	s.OnKeyDown(20)
	if s.Pending() != 1 {
		t.Errorf("Pending = %d, want 1", s.Pending())
	}
}

func TestSurfaceTeardownDiscard(t *testing.T) {
	s := newTestSurface(t)
	s.OnTouch(pointerSample(ActionDown, 0, 1))
	s.Teardown(true)

	var e recordingEngine
	if n := s.Drain(&e); n != 0 {
		t.Errorf("drained %d after discard, want 0", n)
	}

	// A touch after teardown gets a fresh id, never a reused one.
	s.OnTouch(pointerSample(ActionDown, 0, 1))
	s.Drain(&e)
	if got := e.calls[0].Active[0].ID; got != 2 {
		t.Errorf("id after teardown = %d, want 2", got)
	}
}

func TestSurfaceDrainWait(t *testing.T) {
	s := newTestSurface(t)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	var e recordingEngine
	if _, err := s.DrainWait(ctx, &e); err == nil {
		t.Fatal("expected timeout on empty surface")
	}
}

func TestSurfaceAcrossGoroutines(t *testing.T) {
	s := newTestSurface(t)
	const touches = 500

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < touches; i++ {
			pid := PlatformID(i % 3)
			s.OnTouch(pointerSample(ActionDown, 0, pid))
			s.OnTouch(pointerSample(ActionMove, 0, pid))
			s.OnTouch(pointerSample(ActionUp, 0, pid))
		}
	}()

	var e recordingEngine
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	for len(e.calls) < touches*3 {
		if _, err := s.DrainWait(ctx, &e); err != nil {
			t.Fatalf("DrainWait: %v", err)
		}
	}
	wg.Wait()

	for i := 0; i < touches; i++ {
		want := TrackedID(i + 1)
		for j, action := range []Action{ActionDown, ActionMove, ActionUp} {
			c := e.calls[i*3+j]
			if c.Action != action || c.Active[0].ID != want {
				t.Fatalf("call %d = %s id %d, want %s id %d", i*3+j, c.Action, c.Active[0].ID, action, want)
			}
		}
	}
}

func TestSurfaceDebugLogging(t *testing.T) {
	var buf bytes.Buffer
	cfg := DefaultConfig()
	cfg.Debug = true
	cfg.Logger = zerolog.New(&buf).Level(zerolog.DebugLevel)
	s, err := NewSurface(cfg)
	if err != nil {
		t.Fatal(err)
	}

	s.OnTouch(pointerSample(ActionPointerUp, 4, 1))
	s.LogStats()

	out := buf.String()
	for _, want := range []string{s.ID().String(), "action index out of range", "surface stats"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q:\n%s", want, out)
		}
	}
	if got := s.Stats().Clamped; got != 1 {
		t.Errorf("Clamped = %d, want 1", got)
	}
}

func TestSurfaceKeyEventsCarryNoSnapshot(t *testing.T) {
	s := newTestSurface(t)
	s.OnKeyDown(7)
	s.OnTouch(pointerSample(ActionDown, 0, 1))
	s.OnKeyUp(7)

	var kinds []EventKind
	s.queue.Drain(func(ev *Event) {
		kinds = append(kinds, ev.Kind)
		if (ev.Kind == EventBatch) != (ev.Snapshot != nil) {
			t.Errorf("%v event has snapshot %v", ev.Kind, ev.Snapshot != nil)
		}
	})
	if len(kinds) != 3 {
		t.Fatalf("got %d events, want 3", len(kinds))
	}
	if size := unsafe.Sizeof(Event{}); size > 32 {
		t.Errorf("Event is %d bytes, want a small header", size)
	}
}

func TestSurfaceReusedSnapshotsStartClean(t *testing.T) {
	s := newTestSurface(t)
	var e recordingEngine

	s.OnTouch(pointerSample(ActionDown, 0, 1))
	s.OnTouch(pointerSample(ActionPointerDown, 1, 1, 2))
	s.Drain(&e)
	s.OnTouch(pointerSample(ActionPointerUp, 1, 1, 2))
	s.OnTouch(pointerSample(ActionUp, 0, 1))
	s.Drain(&e)

	if len(e.calls) != 4 {
		t.Fatalf("got %d calls, want 4", len(e.calls))
	}
	last := e.calls[3]
	if last.Action != ActionUp || len(last.All) != 1 || len(last.Active) != 1 || last.Active[0].ID != 1 {
		t.Errorf("last batch = %+v", last)
	}
}
