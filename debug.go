package touchline

// Stats counts pipeline activity. Drained is maintained by the consumer;
// every other counter belongs to the producer goroutine and must be read
// there.
type Stats struct {
	Samples           int // platform samples received
	Queued            int // events pushed to the dispatch queue
	PromotedTaps      int // ups promoted to a tap count of 2
	SuppressedRepeats int // key-downs dropped while the key was held
	Clamped           int // samples with an out-of-range action index
	Drained           int // events delivered to an engine
}

// Stats returns a copy of the surface's counters.
func (s *Surface) Stats() Stats {
	st := s.stats
	st.Drained = int(s.drained.Load())
	return st
}

// LogStats writes the counters at debug level when the surface was created
// with Debug set.
func (s *Surface) LogStats() {
	if !s.debug {
		return
	}
	st := s.Stats()
	s.log.Debug().
		Int("samples", st.Samples).
		Int("queued", st.Queued).
		Int("promoted_taps", st.PromotedTaps).
		Int("suppressed_repeats", st.SuppressedRepeats).
		Int("clamped", st.Clamped).
		Int("drained", st.Drained).
		Int("live", s.tracker.Live()).
		Msg("surface stats")
}
