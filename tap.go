package touchline

// TapClassifier folds the platform's double-tap notification into the pointer
// stream. A notification arms a pending flag tagged with the triggering action
// index; the next ActionUp with the same index is translated with a tap count
// of 2 instead of being emitted again as a single tap.
//
// The second down of a double-tap is still reported with a tap count of 1;
// engines should read the tap count on the up.
//
// Matching is by action index alone. Two pointers lifting inside the same
// platform double-tap window can therefore be promoted against each other.
type TapClassifier struct {
	pending bool
	index   int
}

// NotifyDoubleTap arms the classifier. Notifications whose action index is
// outside the current pointer bounds are ignored and report false.
func (c *TapClassifier) NotifyDoubleTap(actionIndex, pointerCount int) bool {
	if actionIndex < 0 || actionIndex >= pointerCount {
		return false
	}
	c.pending = true
	c.index = actionIndex
	return true
}

// Pending reports whether a double-tap is waiting for its up, and for which
// action index.
func (c *TapClassifier) Pending() (int, bool) {
	return c.index, c.pending
}

// Classify returns the tap count to translate s with. Moves leave a pending
// double-tap armed; any other non-matching action discards it.
func (c *TapClassifier) Classify(s *RawSample) int {
	if !c.pending || s.Source != SourcePointer || s.Action == ActionMove {
		return s.tapCount()
	}
	c.Reset()
	if s.Action == ActionUp && s.ActionIndex == c.index {
		return 2
	}
	return s.tapCount()
}

// Reset drops any pending double-tap.
func (c *TapClassifier) Reset() {
	c.pending = false
}
