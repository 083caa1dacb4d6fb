package durak

// maybeResolveRound triggers the TAKE-path resolution described in
// spec.md §4.1: "by the combination (takeDeclared ∧ all attackers
// passed)". The BEAT path resolves synchronously inside applyBeat.
func (g *GameState) maybeResolveRound() {
	if g.TakeDeclared && g.allAttackersPassed() {
		g.resolveTake()
	}
}

// resolveBeat moves the table to discard, refills hands in attacker-first/
// defender-last order, rotates roles, and resets round variables.
func (g *GameState) resolveBeat() {
	for _, pair := range g.Table {
		g.Discard = append(g.Discard, pair.Attack)
		if pair.Defense != nil {
			g.Discard = append(g.Discard, *pair.Defense)
		}
	}
	g.Table = nil

	refillOrder := g.refillOrderFrom(g.AttackerID, g.DefenderID)
	g.refill(refillOrder)

	newAttacker := g.DefenderID
	newDefender := g.nextActive(newAttacker)
	g.AttackerID = newAttacker
	g.DefenderID = newDefender
	g.resetRoundVars()
}

// resolveTake moves the table into the defender's hand (the "taker"),
// refills every active player including the taker (last in order per
// spec.md §4.1 and Open Question #2), then skips the taker's seat when
// rotating roles: the new attacker is the next active player after the
// old defender, and the new defender is the one after that.
func (g *GameState) resolveTake() {
	taker := g.DefenderID
	for _, pair := range g.Table {
		g.Hands[taker] = append(g.Hands[taker], pair.Attack)
		if pair.Defense != nil {
			g.Hands[taker] = append(g.Hands[taker], *pair.Defense)
		}
	}
	sortHand(g.Hands[taker])
	g.Table = nil

	refillOrder := g.refillOrderFrom(g.AttackerID, taker)
	if g.Config.TakerSkipsRefill {
		filtered := refillOrder[:0]
		for _, id := range refillOrder {
			if id != taker {
				filtered = append(filtered, id)
			}
		}
		refillOrder = filtered
	}
	g.refill(refillOrder)

	newAttacker := g.nextActive(taker)
	newDefender := g.nextActive(newAttacker)
	g.AttackerID = newAttacker
	g.DefenderID = newDefender
	g.resetRoundVars()
}

// refillOrderFrom lists each active player once, starting at attacker and
// visiting defender last, per spec.md §4.1.
func (g *GameState) refillOrderFrom(attacker, defender string) []string {
	order := make([]string, 0, len(g.Order))
	id := attacker
	for i := 0; i < len(g.Order); i++ {
		if g.Active[id] && id != defender {
			order = append(order, id)
		}
		id = g.nextActive(id)
	}
	order = append(order, defender)
	return order
}

// refill draws from the stock up to 6 cards per hand, in the given order,
// stopping once the deck is exhausted.
func (g *GameState) refill(order []string) {
	for _, id := range order {
		for len(g.Hands[id]) < handSize && len(g.Deck) > 0 {
			g.Hands[id] = append(g.Hands[id], g.Deck[0])
			g.Deck = g.Deck[1:]
		}
		sortHand(g.Hands[id])
	}
}

// checkTerminal evaluates the terminal condition: once the deck is empty,
// any player with an empty hand drops out of the round-robin; if at most
// one player remains active, the game finishes.
func (g *GameState) checkTerminal() {
	if len(g.Deck) > 0 {
		return
	}
	for _, id := range g.Order {
		if g.Active[id] && len(g.Hands[id]) == 0 {
			g.Active[id] = false
		}
	}
	if g.activeCount() <= 1 {
		g.Phase = PhaseFinished
		g.Loser = ""
		for _, id := range g.Order {
			if g.Active[id] {
				g.Loser = id
			}
		}
	}
}
