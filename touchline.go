package touchline

import "time"

// Action identifies what a RawSample reports.
type Action uint8

const (
	ActionDown        Action = iota // first pointer touched down
	ActionUp                        // last pointer lifted
	ActionMove                      // one or more touching pointers moved
	ActionCancel                    // the platform aborted the whole gesture
	ActionPointerDown               // an additional pointer touched down
	ActionPointerUp                 // a non-last pointer lifted
	ActionGeneric                   // hover, scroll, or generic motion
)

var actionNames = [...]string{
	ActionDown:        "down",
	ActionUp:          "up",
	ActionMove:        "move",
	ActionCancel:      "cancel",
	ActionPointerDown: "pointer-down",
	ActionPointerUp:   "pointer-up",
	ActionGeneric:     "generic",
}

func (a Action) String() string {
	if int(a) < len(actionNames) {
		return actionNames[a]
	}
	return "unknown"
}

// Terminal reports whether the action ends the lifecycle of a pointer.
func (a Action) Terminal() bool {
	return a == ActionUp || a == ActionPointerUp || a == ActionCancel
}

// SourceClass distinguishes the device family a sample came from.
type SourceClass uint8

const (
	SourcePointer  SourceClass = iota // touchscreen, stylus, mouse
	SourceJoystick                    // analog controller axes
)

func (c SourceClass) String() string {
	switch c {
	case SourcePointer:
		return "pointer"
	case SourceJoystick:
		return "joystick"
	default:
		return "unknown"
	}
}

// PlatformID is the pointer identifier assigned by the platform. The platform
// recycles these as soon as a pointer lifts.
type PlatformID int32

// TrackedID is the stable identifier handed to the engine.
type TrackedID int32

// KeyCode is a platform key code.
type KeyCode int32

// Axis is a logical joystick axis. Each axis is a persistent channel with a
// fixed TrackedID of Axis+1.
type Axis uint8

const (
	AxisX Axis = iota
	AxisY
	AxisZ
	AxisRX
	AxisRY
	AxisRZ
	AxisLTrigger
	AxisRTrigger
	AxisHatX
	AxisHatY
)

var axisNames = [...]string{"x", "y", "z", "rx", "ry", "rz", "ltrigger", "rtrigger", "hatx", "haty"}

func (a Axis) String() string {
	if int(a) < len(axisNames) {
		return axisNames[a]
	}
	return "unknown"
}

const (
	// MinAxes is the number of axis channels every joystick translation
	// supports.
	MinAxes = 7
	// MaxAxes is the number of axis channels available when the device
	// exposes them.
	MaxAxes = 10
)

// Pointer is one pointer inside a RawSample.
type Pointer struct {
	ID     PlatformID
	X, Y   float64
	Source SourceClass
}

// AxisValue is the reading of one joystick axis.
type AxisValue struct {
	Axis  Axis
	Value float64
}

// RawSample is one platform input notification.
//
// For pointer samples, Pointers lists every pointer present and ActionIndex
// names the pointer that triggered a discrete action. For joystick samples,
// Axes lists the reported axis values. A zero TapCount is read as 1.
type RawSample struct {
	Action      Action
	ActionIndex int
	Pointers    []Pointer
	Axes        []AxisValue
	Source      SourceClass
	Time        time.Duration
	TapCount    int
}

func (s *RawSample) tapCount() int {
	if s.TapCount <= 0 {
		return 1
	}
	return s.TapCount
}

// EventRecord is one element of a Snapshot.
type EventRecord struct {
	ID       TrackedID
	X, Y     float64
	Source   SourceClass
	TapCount int
}
