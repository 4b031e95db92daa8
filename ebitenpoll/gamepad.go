package ebitenpoll

import (
	"slices"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/phanxgames/touchline"
)

// Android key codes for gamepad buttons, so engines see the same codes
// whichever platform produced them.
const (
	KeycodeDpadUp       touchline.KeyCode = 19
	KeycodeDpadDown     touchline.KeyCode = 20
	KeycodeDpadLeft     touchline.KeyCode = 21
	KeycodeDpadRight    touchline.KeyCode = 22
	KeycodeButtonA      touchline.KeyCode = 96
	KeycodeButtonB      touchline.KeyCode = 97
	KeycodeButtonX      touchline.KeyCode = 99
	KeycodeButtonY      touchline.KeyCode = 100
	KeycodeButtonL1     touchline.KeyCode = 102
	KeycodeButtonR1     touchline.KeyCode = 103
	KeycodeButtonL2     touchline.KeyCode = 104
	KeycodeButtonR2     touchline.KeyCode = 105
	KeycodeButtonThumbL touchline.KeyCode = 106
	KeycodeButtonThumbR touchline.KeyCode = 107
	KeycodeButtonStart  touchline.KeyCode = 108
	KeycodeButtonSelect touchline.KeyCode = 109
	KeycodeButtonMode   touchline.KeyCode = 110
)

var standardButtons = [...]struct {
	button ebiten.StandardGamepadButton
	code   touchline.KeyCode
}{
	{ebiten.StandardGamepadButtonRightBottom, KeycodeButtonA},
	{ebiten.StandardGamepadButtonRightRight, KeycodeButtonB},
	{ebiten.StandardGamepadButtonRightLeft, KeycodeButtonX},
	{ebiten.StandardGamepadButtonRightTop, KeycodeButtonY},
	{ebiten.StandardGamepadButtonFrontTopLeft, KeycodeButtonL1},
	{ebiten.StandardGamepadButtonFrontTopRight, KeycodeButtonR1},
	{ebiten.StandardGamepadButtonFrontBottomLeft, KeycodeButtonL2},
	{ebiten.StandardGamepadButtonFrontBottomRight, KeycodeButtonR2},
	{ebiten.StandardGamepadButtonCenterLeft, KeycodeButtonSelect},
	{ebiten.StandardGamepadButtonCenterRight, KeycodeButtonStart},
	{ebiten.StandardGamepadButtonCenterCenter, KeycodeButtonMode},
	{ebiten.StandardGamepadButtonLeftStick, KeycodeButtonThumbL},
	{ebiten.StandardGamepadButtonRightStick, KeycodeButtonThumbR},
	{ebiten.StandardGamepadButtonLeftTop, KeycodeDpadUp},
	{ebiten.StandardGamepadButtonLeftBottom, KeycodeDpadDown},
	{ebiten.StandardGamepadButtonLeftLeft, KeycodeDpadLeft},
	{ebiten.StandardGamepadButtonLeftRight, KeycodeDpadRight},
}

// axisFrame is one reading of every logical axis.
type axisFrame [touchline.MaxAxes]float64

// readStandardAxes maps a standard-layout gamepad onto the logical axes the
// way Android reports them: right stick on Z/RZ, analog triggers, d-pad as
// hat.
func readStandardAxes(id ebiten.GamepadID) axisFrame {
	var f axisFrame
	f[touchline.AxisX] = ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisLeftStickHorizontal)
	f[touchline.AxisY] = ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisLeftStickVertical)
	f[touchline.AxisZ] = ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisRightStickHorizontal)
	f[touchline.AxisRZ] = ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisRightStickVertical)
	f[touchline.AxisLTrigger] = ebiten.StandardGamepadButtonValue(id, ebiten.StandardGamepadButtonFrontBottomLeft)
	f[touchline.AxisRTrigger] = ebiten.StandardGamepadButtonValue(id, ebiten.StandardGamepadButtonFrontBottomRight)
	f[touchline.AxisHatX] = hat(
		ebiten.IsStandardGamepadButtonPressed(id, ebiten.StandardGamepadButtonLeftLeft),
		ebiten.IsStandardGamepadButtonPressed(id, ebiten.StandardGamepadButtonLeftRight))
	f[touchline.AxisHatY] = hat(
		ebiten.IsStandardGamepadButtonPressed(id, ebiten.StandardGamepadButtonLeftTop),
		ebiten.IsStandardGamepadButtonPressed(id, ebiten.StandardGamepadButtonLeftBottom))
	return f
}

func hat(neg, pos bool) float64 {
	switch {
	case neg && !pos:
		return -1
	case pos && !neg:
		return 1
	default:
		return 0
	}
}

// axisValues appends the first n axes of f to buf.
func (f *axisFrame) axisValues(buf []touchline.AxisValue, n int) []touchline.AxisValue {
	for a := 0; a < n && a < len(f); a++ {
		buf = append(buf, touchline.AxisValue{Axis: touchline.Axis(a), Value: f[a]})
	}
	return buf
}

// buttonSet is the pressed state of every entry of standardButtons.
type buttonSet [len(standardButtons)]bool

func readStandardButtons(id ebiten.GamepadID) buttonSet {
	var b buttonSet
	for i, sb := range standardButtons {
		b[i] = ebiten.IsStandardGamepadButtonPressed(id, sb.button)
	}
	return b
}

type padState struct {
	axes    axisFrame
	hasAxes bool
	held    buttonSet
}

// padTable remembers what was last reported per gamepad, so motion is only
// sent when something moved and every held button gets its key-up, even when
// the pad is unplugged while held.
type padTable struct {
	pads map[ebiten.GamepadID]*padState
}

func (t *padTable) state(id ebiten.GamepadID) *padState {
	if t.pads == nil {
		t.pads = make(map[ebiten.GamepadID]*padState)
	}
	st, ok := t.pads[id]
	if !ok {
		st = &padState{}
		t.pads[id] = st
	}
	return st
}

// changed records f for id and reports whether it differs from the last
// frame recorded.
func (t *padTable) changed(id ebiten.GamepadID, f axisFrame) bool {
	st := t.state(id)
	moved := !st.hasAxes || st.axes != f
	st.axes, st.hasAxes = f, true
	return moved
}

// buttons reports every transition between the held set of id and pressed.
// Releases are sent before presses.
func (t *padTable) buttons(id ebiten.GamepadID, pressed buttonSet, sink Sink) {
	st := t.state(id)
	for i, sb := range standardButtons {
		if st.held[i] && !pressed[i] {
			sink.OnControllerKey(sb.code, false)
		}
	}
	for i, sb := range standardButtons {
		if pressed[i] && !st.held[i] {
			sink.OnControllerKey(sb.code, true)
		}
	}
	st.held = pressed
}

// disconnect releases every button id still holds and forgets the pad.
func (t *padTable) disconnect(id ebiten.GamepadID, sink Sink) {
	st, ok := t.pads[id]
	if !ok {
		return
	}
	for i, sb := range standardButtons {
		if st.held[i] {
			sink.OnControllerKey(sb.code, false)
		}
	}
	delete(t.pads, id)
}

// sweep disconnects every known pad missing from connected.
func (t *padTable) sweep(connected []ebiten.GamepadID, sink Sink) {
	for id := range t.pads {
		if !slices.Contains(connected, id) {
			t.disconnect(id, sink)
		}
	}
}
