package durak

// View is the per-player projection of a GameState: public fields every
// attached socket receives plus private fields for the addressee only.
// GameState itself is never sent over the wire; sending this instead is
// what makes the view-privacy invariant (spec.md §8) mechanical rather
// than a convention someone can forget.
type View struct {
	Order         []string       `json:"order"`
	HandCounts    map[string]int `json:"handCounts"`
	Table         []TablePair    `json:"table"`
	DiscardCount  int            `json:"discardCount"`
	TrumpSuit     Suit           `json:"trumpSuit"`
	TrumpCard     Card           `json:"trumpCard"`
	DeckCount     int            `json:"deckCount"`
	AttackerID    string         `json:"attackerId"`
	DefenderID    string         `json:"defenderId"`
	TakeDeclared  bool           `json:"takeDeclared"`
	Passed        []string       `json:"passed"`
	Phase         Phase          `json:"phase"`
	Loser         string         `json:"loser,omitempty"`

	YourHand []Card  `json:"yourHand"`
	Allowed  Allowed `json:"allowed"`
}

// Allowed is a precomputed set of action flags for the addressed player,
// derived from a single pure function over (GameState, playerId) so the
// gateway never re-derives legality by hand.
type Allowed struct {
	Attack   bool `json:"attack"`
	Defend   bool `json:"defend"`
	Transfer bool `json:"transfer"`
	Take     bool `json:"take"`
	Pass     bool `json:"pass"`
	Beat     bool `json:"beat"`
}

// ViewFor computes the view addressed to playerID. Every other player's
// hand is exposed only through its length.
func ViewFor(g *GameState, playerID string) View {
	counts := make(map[string]int, len(g.Order))
	for _, id := range g.Order {
		counts[id] = len(g.Hands[id])
	}
	passed := make([]string, 0, len(g.Passed))
	for id, ok := range g.Passed {
		if ok {
			passed = append(passed, id)
		}
	}

	v := View{
		Order:        append([]string{}, g.Order...),
		HandCounts:   counts,
		Table:        append([]TablePair{}, g.Table...),
		DiscardCount: len(g.Discard),
		TrumpSuit:    g.TrumpSuit,
		TrumpCard:    g.TrumpCard,
		DeckCount:    len(g.Deck),
		AttackerID:   g.AttackerID,
		DefenderID:   g.DefenderID,
		TakeDeclared: g.TakeDeclared,
		Passed:       passed,
		Phase:        g.Phase,
		Loser:        g.Loser,
		YourHand:     g.handOf(playerID),
		Allowed:      allowedFor(g, playerID),
	}
	return v
}

func allowedFor(g *GameState, playerID string) Allowed {
	if g.Phase != PhasePlaying || !g.Active[playerID] {
		return Allowed{}
	}

	isDefender := playerID == g.DefenderID
	isAttacker := !isDefender

	a := Allowed{}
	if isAttacker && !g.Passed[playerID] && len(g.Table) < g.RoundLimit {
		if len(g.Table) == 0 {
			a.Attack = playerID == g.AttackerID
		} else {
			a.Attack = !(!g.TakeDeclared && g.hasUndefendedPair())
		}
	}
	if isDefender && !g.TakeDeclared {
		a.Defend = g.hasUndefendedPair()
		if g.Config.Mode == ModePerevodnoy && len(g.Table) > 0 && !g.hasAnyDefended() {
			a.Transfer = true
		}
	}
	if isDefender && len(g.Table) > 0 && !g.TakeDeclared {
		a.Take = true
	}
	if isAttacker && len(g.Table) > 0 && !g.Passed[playerID] {
		a.Pass = true
	}
	if isDefender && g.allDefended() && len(g.Table) > 0 && g.allAttackersPassed() {
		a.Beat = true
	}
	return a
}

func (g *GameState) hasAnyDefended() bool {
	for _, pair := range g.Table {
		if pair.Defense != nil {
			return true
		}
	}
	return false
}
