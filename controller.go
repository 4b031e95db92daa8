package touchline

import "time"

// Controller adapts an external game controller to the sample shape the
// Translator consumes, and filters key repeats.
type Controller struct {
	down map[KeyCode]bool
}

// NewController creates a controller with no keys held.
func NewController() *Controller {
	return &Controller{down: make(map[KeyCode]bool)}
}

// Motion wraps a controller motion reading as a joystick move sample, so it
// translates exactly like a native joystick frame.
func (c *Controller) Motion(axes []AxisValue, t time.Duration) RawSample {
	return RawSample{
		Action:   ActionMove,
		Axes:     axes,
		Source:   SourceJoystick,
		Time:     t,
		TapCount: 1,
	}
}

// Press records a key-down and reports whether it should be forwarded:
// true once per physical press, false for repeats while the key is held.
func (c *Controller) Press(code KeyCode) bool {
	if c.down[code] {
		return false
	}
	c.down[code] = true
	return true
}

// Release records a key-up. Key-ups are always forwarded.
func (c *Controller) Release(code KeyCode) bool {
	delete(c.down, code)
	return true
}

// Down reports whether code is currently held.
func (c *Controller) Down(code KeyCode) bool {
	return c.down[code]
}

// Reset forgets every held key.
func (c *Controller) Reset() {
	clear(c.down)
}
