package touchline

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Engine is the consuming side of a Surface. Its methods run on the goroutine
// that calls Surface.Drain, in the order the input was produced. Record slices
// are only valid for the duration of the call.
type Engine interface {
	OnInputBatch(action Action, active, all []EventRecord, t time.Duration)
	OnKeyDown(code KeyCode)
	OnKeyUp(code KeyCode)
}

// EventKind identifies the payload of an Event.
type EventKind uint8

const (
	EventBatch   EventKind = iota // Snapshot is set
	EventKeyDown                  // Key is set
	EventKeyUp                    // Key is set
)

// Event is one entry of a Surface's dispatch queue. Batches carry a pooled
// snapshot so key events and queue growth stay small.
type Event struct {
	Kind     EventKind
	Snapshot *Snapshot
	Key      KeyCode
}

// Surface owns the input pipeline of one input surface: it classifies and
// translates platform samples on the producer goroutine and queues the
// results for the engine goroutine.
//
// The On* methods and Teardown must be called from a single producer
// goroutine. Drain and DrainWait must be called from a single consumer
// goroutine.
type Surface struct {
	id    uuid.UUID
	cfg   Config
	log   zerolog.Logger
	debug bool

	tracker    *Tracker
	taps       TapClassifier
	translator *Translator
	controller *Controller
	queue      *Queue[Event]

	stats     Stats
	drained   atomic.Int64
	snapshots sync.Pool
}

// NewSurface creates a Surface from cfg. It returns an error if cfg does not
// validate.
func NewSurface(cfg Config) (*Surface, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	id := uuid.New()
	log := cfg.logger().With().Str("surface", id.String()).Logger()

	tlog := zerolog.Nop()
	if cfg.Debug {
		tlog = log
	}

	tracker := NewTracker()
	s := &Surface{
		id:         id,
		cfg:        cfg,
		log:        log,
		debug:      cfg.Debug,
		tracker:    tracker,
		translator: NewTranslator(tracker, cfg.JoystickAxes, tlog),
		controller: NewController(),
		queue:      NewQueue[Event](cfg.QueueCapacity),
	}
	log.Debug().
		Bool("double_tap", cfg.DoubleTap).
		Int("joystick_axes", cfg.JoystickAxes).
		Msg("surface created")
	return s, nil
}

// ID returns the surface's identifier, used to correlate log lines.
func (s *Surface) ID() uuid.UUID {
	return s.id
}

// Tracker returns the surface's identity tracker. Only the producer goroutine
// may use it.
func (s *Surface) Tracker() *Tracker {
	return s.tracker
}

// Pending returns the number of events waiting to be drained.
func (s *Surface) Pending() int {
	return s.queue.Len()
}

// OnTouch handles a pointer notification from the platform.
func (s *Surface) OnTouch(sample RawSample) {
	s.stats.Samples++
	tap := sample.tapCount()
	if s.cfg.DoubleTap {
		tap = s.taps.Classify(&sample)
		if tap == 2 && sample.tapCount() != 2 {
			s.stats.PromotedTaps++
		}
	}
	s.enqueueSample(&sample, tap)
}

// OnGenericMotion handles hover, scroll and native joystick motion.
func (s *Surface) OnGenericMotion(sample RawSample) {
	s.stats.Samples++
	s.enqueueSample(&sample, sample.tapCount())
}

// OnDoubleTap handles the platform double-tap detector's notification for
// the sample just delivered to OnTouch. It reports whether the notification
// was accepted.
func (s *Surface) OnDoubleTap(actionIndex, pointerCount int) bool {
	if !s.cfg.DoubleTap {
		return false
	}
	if !s.taps.NotifyDoubleTap(actionIndex, pointerCount) {
		s.log.Debug().Int("index", actionIndex).Int("pointers", pointerCount).
			Msg("double-tap index out of range, ignoring")
		return false
	}
	return true
}

// OnKeyDown queues a key-down unless the key is already held.
func (s *Surface) OnKeyDown(code KeyCode) {
	if !s.controller.Press(code) {
		s.stats.SuppressedRepeats++
		return
	}
	s.push(Event{Kind: EventKeyDown, Key: code})
}

// OnKeyUp queues a key-up. Key-ups go through the queue so they never
// overtake earlier batches.
func (s *Surface) OnKeyUp(code KeyCode) {
	s.controller.Release(code)
	s.push(Event{Kind: EventKeyUp, Key: code})
}

// OnControllerMotion handles an external controller's axis reading.
func (s *Surface) OnControllerMotion(axes []AxisValue, t time.Duration) {
	s.stats.Samples++
	sample := s.controller.Motion(axes, t)
	s.enqueueSample(&sample, 1)
}

// OnControllerKey handles an external controller's key event. Controller keys
// share the held-key table with platform keys.
func (s *Surface) OnControllerKey(code KeyCode, down bool) {
	if down {
		s.OnKeyDown(code)
		return
	}
	s.OnKeyUp(code)
}

// Teardown clears the identity and gesture state when the surface goes away.
// Events already queued are still delivered unless discard is set.
func (s *Surface) Teardown(discard bool) {
	live := s.tracker.Live()
	s.tracker.Reset()
	s.taps.Reset()
	s.controller.Reset()
	dropped := 0
	if discard {
		dropped = s.queue.Discard()
	}
	s.log.Debug().Int("live", live).Int("discarded", dropped).Msg("surface torn down")
}

func (s *Surface) enqueueSample(sample *RawSample, tap int) {
	snap, _ := s.snapshots.Get().(*Snapshot)
	if snap == nil {
		snap = new(Snapshot)
	}
	*snap = s.translator.Translate(sample, tap)
	ev := Event{Kind: EventBatch, Snapshot: snap}
	s.stats.Clamped = s.translator.Clamped()
	if s.debug {
		s.log.Debug().
			Stringer("action", sample.Action).
			Stringer("source", sample.Source).
			Int("active", len(ev.Snapshot.Active())).
			Int("all", len(ev.Snapshot.All())).
			Int("tap", tap).
			Int("live", s.tracker.Live()).
			Msg("sample translated")
	}
	s.push(ev)
}

func (s *Surface) push(ev Event) {
	s.stats.Queued++
	s.queue.Push(ev)
}

// Drain delivers every queued event to e in order and returns how many were
// delivered.
func (s *Surface) Drain(e Engine) int {
	return s.queue.Drain(func(ev *Event) { s.deliver(e, ev) })
}

// DrainWait is Drain with a wait of at most ctx's lifetime for the first
// event.
func (s *Surface) DrainWait(ctx context.Context, e Engine) (int, error) {
	return s.queue.DrainWait(ctx, func(ev *Event) { s.deliver(e, ev) })
}

func (s *Surface) deliver(e Engine, ev *Event) {
	s.drained.Add(1)
	switch ev.Kind {
	case EventBatch:
		snap := ev.Snapshot
		e.OnInputBatch(snap.Action, snap.Active(), snap.All(), snap.Time)
		ev.Snapshot = nil
		s.snapshots.Put(snap)
	case EventKeyDown:
		e.OnKeyDown(ev.Key)
	case EventKeyUp:
		e.OnKeyUp(ev.Key)
	}
}
