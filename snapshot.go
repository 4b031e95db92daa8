package touchline

import "time"

// MaxRecords is the capacity of each record list in a Snapshot. Pointers
// beyond it are ignored.
const MaxRecords = 32

// records is a fixed-capacity list so a Snapshot carries no per-sample
// allocation.
type records struct {
	buf [MaxRecords]EventRecord
	n   int
}

func (r *records) add(e EventRecord) bool {
	if r.n >= len(r.buf) {
		return false
	}
	r.buf[r.n] = e
	r.n++
	return true
}

func (r *records) slice() []EventRecord {
	return r.buf[:r.n]
}

// Snapshot is one translated input batch. It is built on the producer
// goroutine, copied into the dispatch queue, and must not be modified after
// that.
type Snapshot struct {
	Action Action
	Time   time.Duration
	Source SourceClass

	active records
	all    records
}

// Active returns the records that triggered the action: every touching
// pointer for a move, the action pointer for a discrete action, and every
// axis for a joystick frame. The slice aliases the snapshot.
func (s *Snapshot) Active() []EventRecord {
	return s.active.slice()
}

// All returns every pointer or axis present in the sample. The slice aliases
// the snapshot.
func (s *Snapshot) All() []EventRecord {
	return s.all.slice()
}
