package durak

// newTestState builds a GameState directly from fixed hands/deck, bypassing
// NewGame's shuffle, so scenario tests can pin exact preconditions per
// spec.md §8 without depending on PRNG output.
func newTestState(mode Mode, order []string, hands map[string][]Card, deck []Card, trumpSuit Suit, attacker, defender string) *GameState {
	g := &GameState{
		Config:     Config{Mode: mode, DeckSize: Deck36},
		Order:      append([]string{}, order...),
		Active:     make(map[string]bool, len(order)),
		Deck:       append([]Card{}, deck...),
		TrumpSuit:  trumpSuit,
		Hands:      make(map[string][]Card, len(order)),
		Passed:     make(map[string]bool),
		AttackerID: attacker,
		DefenderID: defender,
		Phase:      PhasePlaying,
		rng:        newSeededRandSource(1),
	}
	for _, id := range order {
		g.Active[id] = true
		hand := append([]Card{}, hands[id]...)
		sortHand(hand)
		g.Hands[id] = hand
	}
	g.resetRoundVars()
	return g
}

func mustCards(tokens ...string) []Card {
	cards := make([]Card, 0, len(tokens))
	for _, tok := range tokens {
		c, err := ParseCard(tok)
		if err != nil {
			panic(err)
		}
		cards = append(cards, c)
	}
	return cards
}
