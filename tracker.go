package touchline

// Tracker maps recycled platform pointer ids to tracked ids that are never
// handed out twice. A mapping lives from the first sighting of a platform id
// until its terminal action.
//
// Tracker is owned by a single producer goroutine and is not safe for
// concurrent use.
type Tracker struct {
	ids  map[PlatformID]TrackedID
	next TrackedID
	axes [MaxAxes]TrackedID
}

// NewTracker creates an empty tracker whose first allocated id is 1, with
// the joystick axis channels pre-seeded.
func NewTracker() *Tracker {
	t := &Tracker{
		ids:  make(map[PlatformID]TrackedID),
		next: 1,
	}
	for i := range t.axes {
		t.axes[i] = TrackedID(i + 1)
	}
	return t
}

// Acquire returns the tracked id bound to pid, allocating the next counter
// value on first sighting.
func (t *Tracker) Acquire(pid PlatformID) TrackedID {
	if id, ok := t.ids[pid]; ok {
		return id
	}
	id := t.next
	t.next++
	t.ids[pid] = id
	return id
}

// Release retires the mapping for pid. Releasing an unknown id is a no-op.
func (t *Tracker) Release(pid PlatformID) {
	delete(t.ids, pid)
}

// Lookup returns the live mapping for pid without allocating.
func (t *Tracker) Lookup(pid PlatformID) (TrackedID, bool) {
	id, ok := t.ids[pid]
	return id, ok
}

// Live returns the number of platform ids currently mapped.
func (t *Tracker) Live() int {
	return len(t.ids)
}

// Reset drops every live mapping. The counter keeps running so ids handed
// out before the reset are never reissued.
func (t *Tracker) Reset() {
	clear(t.ids)
}

// AxisID returns the fixed tracked id of a joystick axis. Axes are persistent
// channels and are never released.
func (t *Tracker) AxisID(a Axis) (TrackedID, bool) {
	if int(a) >= len(t.axes) {
		return 0, false
	}
	return t.axes[a], true
}
