package touchline

import "github.com/rs/zerolog"

// Translator turns RawSamples into Snapshots, labelling pointers through a
// Tracker and retiring ids whose lifecycle ended in the sample.
type Translator struct {
	tracker *Tracker
	axes    int
	log     zerolog.Logger

	clamped int
}

// NewTranslator creates a translator over tracker that emits at most axes
// joystick channels per frame. axes is clamped to [MinAxes, MaxAxes].
func NewTranslator(tracker *Tracker, axes int, log zerolog.Logger) *Translator {
	if axes < MinAxes {
		axes = MinAxes
	}
	if axes > MaxAxes {
		axes = MaxAxes
	}
	return &Translator{tracker: tracker, axes: axes, log: log}
}

// Clamped returns how many samples carried an action index outside the
// pointers they reported.
func (tr *Translator) Clamped() int {
	return tr.clamped
}

// Translate builds the Snapshot for s using tapCount for the emitted records.
// Ids ended by s are released only after the Snapshot holds their labels.
func (tr *Translator) Translate(s *RawSample, tapCount int) Snapshot {
	snap := Snapshot{Action: s.Action, Time: s.Time, Source: s.Source}
	if s.Source == SourceJoystick {
		tr.translateJoystick(s, tapCount, &snap)
		return snap
	}
	tr.translatePointers(s, tapCount, &snap)
	return snap
}

func (tr *Translator) translatePointers(s *RawSample, tapCount int, snap *Snapshot) {
	n := len(s.Pointers)
	if n > MaxRecords {
		tr.log.Debug().Int("pointers", n).Msg("pointer sample exceeds record capacity, truncating")
		n = MaxRecords
	}

	// Ids first seen in this sample; only generic samples need them.
	var fresh [MaxRecords]bool

	for i := 0; i < n; i++ {
		p := &s.Pointers[i]
		if s.Action == ActionGeneric {
			_, live := tr.tracker.Lookup(p.ID)
			fresh[i] = !live
		}
		rec := EventRecord{
			ID:       tr.tracker.Acquire(p.ID),
			X:        p.X,
			Y:        p.Y,
			Source:   p.Source,
			TapCount: tapCount,
		}
		snap.all.add(rec)
		if s.Action == ActionMove {
			snap.active.add(rec)
		}
	}

	inRange := s.ActionIndex >= 0 && s.ActionIndex < n
	if s.Action != ActionMove {
		if inRange {
			snap.active.add(snap.all.buf[s.ActionIndex])
		} else {
			tr.clamped++
			tr.log.Debug().
				Stringer("action", s.Action).
				Int("index", s.ActionIndex).
				Int("pointers", n).
				Msg("action index out of range, ignoring")
		}
	}

	switch s.Action {
	case ActionUp, ActionPointerUp:
		if inRange {
			tr.tracker.Release(s.Pointers[s.ActionIndex].ID)
		}
	case ActionCancel:
		for i := 0; i < n; i++ {
			tr.tracker.Release(s.Pointers[i].ID)
		}
	case ActionGeneric:
		for i := 0; i < n; i++ {
			if fresh[i] {
				tr.tracker.Release(s.Pointers[i].ID)
			}
		}
	}
}

func (tr *Translator) translateJoystick(s *RawSample, tapCount int, snap *Snapshot) {
	for _, av := range s.Axes {
		if int(av.Axis) >= tr.axes {
			continue
		}
		id, ok := tr.tracker.AxisID(av.Axis)
		if !ok {
			continue
		}
		rec := EventRecord{
			ID:       id,
			X:        av.Value,
			Source:   SourceJoystick,
			TapCount: tapCount,
		}
		if !snap.all.add(rec) {
			break
		}
		snap.active.add(rec)
	}
}
