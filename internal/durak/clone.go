package durak

// Clone returns a deep copy of the state so Apply can validate-then-mutate
// without ever corrupting the caller's copy on a rejected event.
func (g *GameState) Clone() *GameState {
	clone := &GameState{
		Config:       g.Config,
		Order:        append([]string{}, g.Order...),
		Active:       make(map[string]bool, len(g.Active)),
		Deck:         append([]Card{}, g.Deck...),
		TrumpSuit:    g.TrumpSuit,
		TrumpCard:    g.TrumpCard,
		Hands:        make(map[string][]Card, len(g.Hands)),
		Table:        make([]TablePair, len(g.Table)),
		Discard:      append([]Card{}, g.Discard...),
		AttackerID:   g.AttackerID,
		DefenderID:   g.DefenderID,
		RoundLimit:   g.RoundLimit,
		Passed:       make(map[string]bool, len(g.Passed)),
		TakeDeclared: g.TakeDeclared,
		Phase:        g.Phase,
		Loser:        g.Loser,
		rng:          g.rng,
	}
	for id, ok := range g.Active {
		clone.Active[id] = ok
	}
	for id, hand := range g.Hands {
		clone.Hands[id] = append([]Card{}, hand...)
	}
	for id, ok := range g.Passed {
		clone.Passed[id] = ok
	}
	for i, pair := range g.Table {
		clone.Table[i] = pair
		if pair.Defense != nil {
			d := *pair.Defense
			clone.Table[i].Defense = &d
		}
	}
	return clone
}
