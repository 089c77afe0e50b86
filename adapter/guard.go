package adapter

// ElectionGuard checks that all elements of a batch belong to the same
// election. The first observed election is recorded; every later one must
// match it.
type ElectionGuard struct {
	election  string
	confirmed bool
}

// Observe records the election of the element at index.
func (g *ElectionGuard) Observe(index int, election string) error {
	if !g.confirmed {
		g.election = election
		g.confirmed = true
		return nil
	}
	if election != g.election {
		return &InconsistentElectionError{Index: index, Want: g.election, Got: election}
	}
	return nil
}

// Election returns the recorded election, if any.
func (g *ElectionGuard) Election() (string, bool) {
	return g.election, g.confirmed
}
