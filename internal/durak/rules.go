package durak

// Apply validates event against g and, if legal, returns the resulting
// state. g is never mutated; on error the caller's state is untouched.
func Apply(g *GameState, event Event) (*GameState, error) {
	if g.Phase == PhaseFinished {
		return nil, ruleErr(CodeGameFinished, "")
	}
	if g.Phase != PhasePlaying {
		return nil, ruleErr(CodeGameNotPlaying, "")
	}
	if !g.Active[event.PlayerID] {
		return nil, ruleErr(CodeNotActive, "")
	}

	next := g.Clone()
	var err error
	switch event.Type {
	case ActionAttack:
		err = next.applyAttack(event)
	case ActionDefend:
		err = next.applyDefend(event)
	case ActionTransfer:
		err = next.applyTransfer(event)
	case ActionTake:
		err = next.applyTake(event)
	case ActionPass:
		err = next.applyPass(event)
	case ActionBeat:
		err = next.applyBeat(event)
	default:
		err = ruleErr(CodeBadCard, "unknown action")
	}
	if err != nil {
		return nil, err
	}

	next.maybeResolveRound()
	next.checkTerminal()
	return next, nil
}

func (g *GameState) applyAttack(e Event) error {
	if e.PlayerID == g.DefenderID {
		return ruleErr(CodeDefenderCannotAttack, "")
	}
	if g.Passed[e.PlayerID] {
		return ruleErr(CodeYouPassed, "")
	}
	idx := g.cardIndexInHand(e.PlayerID, e.Card)
	if idx < 0 {
		return ruleErr(CodeCardNotInHand, "")
	}
	if len(g.Table) >= g.RoundLimit {
		return ruleErr(CodeRoundLimit, "")
	}
	if len(g.Table) == 0 {
		if e.PlayerID != g.AttackerID {
			return ruleErr(CodeOnlyMainAttackerStarts, "")
		}
	} else {
		ranks := g.rankSet(false)
		if !ranks[e.Card.Rank] {
			return ruleErr(CodeRankNotOnTable, "")
		}
		if !g.TakeDeclared && g.hasUndefendedPair() {
			return ruleErr(CodeDefenderMustRespond, "")
		}
	}

	g.removeFromHand(e.PlayerID, idx)
	g.Table = append(g.Table, TablePair{Attack: e.Card})
	return nil
}

func (g *GameState) applyDefend(e Event) error {
	if e.PlayerID != g.DefenderID {
		return ruleErr(CodeOnlyDefenderCanDefend, "")
	}
	if g.TakeDeclared {
		return ruleErr(CodeTakeAlreadyDeclared, "")
	}
	if e.AttackIndex < 0 || e.AttackIndex >= len(g.Table) {
		return ruleErr(CodeBadAttackIndex, "")
	}
	pair := g.Table[e.AttackIndex]
	if pair.Defense != nil {
		return ruleErr(CodeAlreadyDefended, "")
	}
	idx := g.cardIndexInHand(e.PlayerID, e.Card)
	if idx < 0 {
		return ruleErr(CodeCardNotInHand, "")
	}
	if !beats(e.Card, pair.Attack, g.TrumpSuit) {
		return ruleErr(CodeDoesNotBeat, "")
	}

	g.removeFromHand(e.PlayerID, idx)
	defCard := e.Card
	g.Table[e.AttackIndex].Defense = &defCard
	return nil
}

func (g *GameState) applyTransfer(e Event) error {
	if g.Config.Mode != ModePerevodnoy {
		return ruleErr(CodeModeNotPerevodnoy, "")
	}
	if e.PlayerID != g.DefenderID {
		return ruleErr(CodeOnlyDefenderCanTransfer, "")
	}
	if g.TakeDeclared {
		return ruleErr(CodeTakeAlreadyDeclared, "")
	}
	if len(g.Table) == 0 {
		return ruleErr(CodeNothingToTransfer, "")
	}
	for _, pair := range g.Table {
		if pair.Defense != nil {
			return ruleErr(CodeCannotTransferAfterDefend, "")
		}
	}
	idx := g.cardIndexInHand(e.PlayerID, e.Card)
	if idx < 0 {
		return ruleErr(CodeCardNotInHand, "")
	}
	attackRanks := g.rankSet(true)
	if !attackRanks[e.Card.Rank] {
		return ruleErr(CodeRankMustMatchAttack, "")
	}

	g.removeFromHand(e.PlayerID, idx)
	g.Table = append(g.Table, TablePair{Attack: e.Card})

	oldDefender := g.DefenderID
	g.AttackerID = oldDefender
	g.DefenderID = g.nextActive(oldDefender)
	g.RoundLimit = clampRoundLimit(len(g.Hands[g.DefenderID]))
	return nil
}

func (g *GameState) applyTake(e Event) error {
	if e.PlayerID != g.DefenderID {
		return ruleErr(CodeOnlyDefenderCanTake, "")
	}
	if len(g.Table) == 0 {
		return ruleErr(CodeNothingOnTable, "")
	}
	if g.TakeDeclared {
		return ruleErr(CodeTakeAlreadyDeclared, "")
	}
	g.TakeDeclared = true
	return nil
}

func (g *GameState) applyPass(e Event) error {
	if e.PlayerID == g.DefenderID {
		return ruleErr(CodeDefenderCannotPass, "")
	}
	if len(g.Table) == 0 {
		return ruleErr(CodeNothingOnTable, "")
	}
	if g.Passed[e.PlayerID] {
		return ruleErr(CodeYouPassed, "")
	}
	g.Passed[e.PlayerID] = true
	return nil
}

func (g *GameState) applyBeat(e Event) error {
	if e.PlayerID != g.DefenderID {
		return ruleErr(CodeOnlyDefenderCanBeat, "")
	}
	if !g.allDefended() {
		return ruleErr(CodeNotFullyDefended, "")
	}
	if !g.allAttackersPassed() {
		return ruleErr(CodeAttackersNotPassed, "")
	}
	g.resolveBeat()
	return nil
}

func (g *GameState) hasUndefendedPair() bool {
	for _, pair := range g.Table {
		if pair.Defense == nil {
			return true
		}
	}
	return false
}
