package ebitenpoll

import (
	"math"
	"time"

	"github.com/phanxgames/touchline"
)

const (
	defaultTapTimeout       = 300 * time.Millisecond
	defaultDoubleTapTimeout = 300 * time.Millisecond
	defaultTapSlop          = 24.0  // pixels a tap may wander
	defaultDoubleTapSlop    = 100.0 // pixels between the two taps
)

type touchPoint struct {
	id   touchline.PlatformID
	x, y float64
}

// touchDiff turns successive sets of touching pointers into the down / move /
// up notifications a platform would deliver, keeping pointers in arrival
// order.
type touchDiff struct {
	active  []touchPoint
	scratch []touchline.Pointer
	taps    doubleTap
}

func (d *touchDiff) index(id touchline.PlatformID) int {
	for i := range d.active {
		if d.active[i].id == id {
			return i
		}
	}
	return -1
}

func contains(cur []touchPoint, id touchline.PlatformID) (touchPoint, bool) {
	for _, c := range cur {
		if c.id == id {
			return c, true
		}
	}
	return touchPoint{}, false
}

// sample builds a pointer sample over the active pointers. The Pointers slice
// is reused by the next call; sinks translate synchronously.
func (d *touchDiff) sample(action touchline.Action, index int, now time.Duration) touchline.RawSample {
	d.scratch = d.scratch[:0]
	for _, p := range d.active {
		d.scratch = append(d.scratch, touchline.Pointer{ID: p.id, X: p.x, Y: p.y, Source: touchline.SourcePointer})
	}
	return touchline.RawSample{
		Action:      action,
		ActionIndex: index,
		Pointers:    d.scratch,
		Source:      touchline.SourcePointer,
		Time:        now,
		TapCount:    1,
	}
}

// update compares cur against the previous tick and notifies sink. Moves are
// reported first, then lifts, then new pointers.
func (d *touchDiff) update(cur []touchPoint, now time.Duration, sink Sink) {
	moved := false
	for i := range d.active {
		c, ok := contains(cur, d.active[i].id)
		if !ok {
			continue
		}
		if c.x != d.active[i].x || c.y != d.active[i].y {
			d.active[i].x, d.active[i].y = c.x, c.y
			moved = true
		}
	}
	if moved {
		sink.OnTouch(d.sample(touchline.ActionMove, 0, now))
	}

	for i := 0; i < len(d.active); {
		if _, ok := contains(cur, d.active[i].id); ok {
			i++
			continue
		}
		action := touchline.ActionPointerUp
		if len(d.active) == 1 {
			action = touchline.ActionUp
		}
		sink.OnTouch(d.sample(action, i, now))
		d.taps.up(d.active[i], now, action == touchline.ActionUp)
		d.active = append(d.active[:i], d.active[i+1:]...)
	}

	for _, c := range cur {
		if d.index(c.id) >= 0 {
			continue
		}
		d.active = append(d.active, c)
		idx := len(d.active) - 1
		action := touchline.ActionPointerDown
		if len(d.active) == 1 {
			action = touchline.ActionDown
		}
		sink.OnTouch(d.sample(action, idx, now))
		if d.taps.down(c, now, action == touchline.ActionDown) {
			sink.OnDoubleTap(idx, len(d.active))
		}
	}
}

// reset forgets every pointer without notifying, for focus loss.
func (d *touchDiff) reset() {
	d.active = d.active[:0]
	d.taps = doubleTap{timeout: d.taps.timeout, slop: d.taps.slop, tapTimeout: d.taps.tapTimeout, tapSlop: d.taps.tapSlop}
}

// doubleTap is the platform-side double-tap detector: two quick single
// pointer taps close together. It fires on the second down.
type doubleTap struct {
	timeout    time.Duration // max gap between first up and second down
	slop       float64       // max distance between the taps
	tapTimeout time.Duration // max down-to-up time of the first tap
	tapSlop    float64       // max wander during the first tap

	downAt       time.Duration
	downX, downY float64
	armed        bool
	upAt         time.Duration
	upX, upY     float64
	second       bool
}

func newDoubleTap() doubleTap {
	return doubleTap{
		timeout:    defaultDoubleTapTimeout,
		slop:       defaultDoubleTapSlop,
		tapTimeout: defaultTapTimeout,
		tapSlop:    defaultTapSlop,
	}
}

func (d *doubleTap) down(p touchPoint, now time.Duration, first bool) bool {
	if !first {
		d.armed = false
		d.second = false
		return false
	}
	hit := d.armed && now-d.upAt <= d.timeout && math.Hypot(p.x-d.upX, p.y-d.upY) <= d.slop
	d.armed = false
	d.second = hit
	d.downAt = now
	d.downX, d.downY = p.x, p.y
	return hit
}

func (d *doubleTap) up(p touchPoint, now time.Duration, last bool) {
	if !last || d.second {
		d.armed = false
		d.second = false
		return
	}
	d.armed = now-d.downAt <= d.tapTimeout && math.Hypot(p.x-d.downX, p.y-d.downY) <= d.tapSlop
	d.upAt = now
	d.upX, d.upY = p.x, p.y
}
