// Package ebitenpoll feeds a touchline surface from Ebitengine's polled input
// state. Call [Poller.Poll] once per tick from the game's Update.
package ebitenpoll

import (
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/phanxgames/touchline"
)

// KeyboardBase offsets keyboard keys so they never collide with the Android
// gamepad key codes.
const KeyboardBase touchline.KeyCode = 1 << 16

// KeyboardCode returns the key code reported for an ebiten keyboard key.
func KeyboardCode(k ebiten.Key) touchline.KeyCode {
	return KeyboardBase + touchline.KeyCode(k)
}

// Sink receives platform notifications. *touchline.Surface implements it.
type Sink interface {
	OnTouch(sample touchline.RawSample)
	OnDoubleTap(actionIndex, pointerCount int) bool
	OnKeyDown(code touchline.KeyCode)
	OnKeyUp(code touchline.KeyCode)
	OnControllerMotion(axes []touchline.AxisValue, t time.Duration)
	OnControllerKey(code touchline.KeyCode, down bool)
}

// Poller converts ebiten's per-tick input state into platform notifications.
type Poller struct {
	sink  Sink
	start time.Time
	axes  int

	touches  touchDiff
	touchIDs []ebiten.TouchID
	points   []touchPoint

	keys     []ebiten.Key
	pads     []ebiten.GamepadID
	gamepads padTable
	axisBuf  []touchline.AxisValue
}

// New creates a poller that reports up to axes joystick channels per gamepad
// frame. Use touchline.MaxAxes unless the surface is configured for fewer.
func New(sink Sink, axes int) *Poller {
	if axes < touchline.MinAxes || axes > touchline.MaxAxes {
		axes = touchline.MaxAxes
	}
	p := &Poller{sink: sink, start: time.Now(), axes: axes}
	p.touches.taps = newDoubleTap()
	return p
}

// Poll reads touches, keyboard keys and standard gamepads for this tick.
func (p *Poller) Poll() {
	now := time.Since(p.start)
	p.pollTouches(now)
	p.pollKeys()
	p.pollGamepads(now)
}

// Reset forgets tracked touches and gamepads without reporting lifts, for
// focus loss. Pair it with the surface's Teardown.
func (p *Poller) Reset() {
	p.touches.reset()
	p.gamepads = padTable{}
}

func (p *Poller) pollTouches(now time.Duration) {
	p.touchIDs = ebiten.AppendTouchIDs(p.touchIDs[:0])
	p.points = p.points[:0]
	for _, id := range p.touchIDs {
		x, y := ebiten.TouchPosition(id)
		p.points = append(p.points, touchPoint{id: touchline.PlatformID(id), x: float64(x), y: float64(y)})
	}
	p.touches.update(p.points, now, p.sink)
}

func (p *Poller) pollKeys() {
	p.keys = inpututil.AppendJustReleasedKeys(p.keys[:0])
	for _, k := range p.keys {
		p.sink.OnKeyUp(KeyboardCode(k))
	}
	p.keys = inpututil.AppendJustPressedKeys(p.keys[:0])
	for _, k := range p.keys {
		p.sink.OnKeyDown(KeyboardCode(k))
	}
}

func (p *Poller) pollGamepads(now time.Duration) {
	p.pads = ebiten.AppendGamepadIDs(p.pads[:0])
	p.gamepads.sweep(p.pads, p.sink)
	for _, id := range p.pads {
		if !ebiten.IsStandardGamepadLayoutAvailable(id) {
			p.gamepads.disconnect(id, p.sink)
			continue
		}
		p.gamepads.buttons(id, readStandardButtons(id), p.sink)
		f := readStandardAxes(id)
		if p.gamepads.changed(id, f) {
			p.axisBuf = f.axisValues(p.axisBuf[:0], p.axes)
			p.sink.OnControllerMotion(p.axisBuf, now)
		}
	}
}
