package core

// slot names one piece of store state that fetches write to.
type slot int

const (
	statsSlot slot = iota
	milestonesSlot
	trendSlot
	heatmapSlot
	languagesSlot
	hourlySlot
	syncSlot
	numSlots
)

// ticket records the sequence token each slot had when a request was issued.
// A result may only write a slot whose token is still the latest issued one.
type ticket struct {
	slots  []slot
	tokens [numSlots]uint64
}

// begin issues fresh tokens for slots and marks the store as loading.
func (s *Store) begin(slots ...slot) ticket {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := ticket{slots: slots}
	for _, sl := range slots {
		s.issued[sl]++
		t.tokens[sl] = s.issued[sl]
	}
	s.inflight++
	s.state.IsLoading = true
	s.publish()
	return t
}

// finish settles a request in one critical section. apply runs only when at least
// one of the ticket's slots is still current, and must write only slots for which
// live reports true. A superseded result, failure included, leaves the state alone.
func (s *Store) finish(t ticket, err error, apply func(st *State, live func(slot) bool)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	live := func(sl slot) bool { return s.issued[sl] == t.tokens[sl] }
	current := false
	for _, sl := range t.slots {
		current = current || live(sl)
	}

	s.inflight--
	s.state.IsLoading = s.inflight > 0
	if current {
		now := s.now()
		s.state.LastUpdated = &now
		s.state.Error = ""
		if err != nil {
			s.state.Error = err.Error()
		}
		if apply != nil {
			apply(&s.state, live)
		}
	}
	s.publish()
	return err
}
