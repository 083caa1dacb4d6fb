package durak

import "testing"

// S1 — 2p podkidnoy, simple beat.
func TestScenarioSimpleBeat(t *testing.T) {
	deck := mustCards("C6", "C7")
	g := newTestState(ModePodkidnoy, []string{"A", "B"}, map[string][]Card{
		"A": mustCards("S6", "S7", "S8", "S9", "S10", "SJ"),
		"B": mustCards("SK", "H6", "H7", "H8", "H9", "H10"),
	}, deck, Spade, "A", "B")

	g, err := Apply(g, Event{PlayerID: "A", Type: ActionAttack, Card: mustCards("S6")[0]})
	if err != nil {
		t.Fatalf("attack: %v", err)
	}
	g, err = Apply(g, Event{PlayerID: "B", Type: ActionDefend, AttackIndex: 0, Card: mustCards("SK")[0]})
	if err != nil {
		t.Fatalf("defend: %v", err)
	}
	g, err = Apply(g, Event{PlayerID: "A", Type: ActionPass})
	if err != nil {
		t.Fatalf("pass: %v", err)
	}
	g, err = Apply(g, Event{PlayerID: "B", Type: ActionBeat})
	if err != nil {
		t.Fatalf("beat: %v", err)
	}

	if len(g.Table) != 0 {
		t.Errorf("table should be empty after beat, got %v", g.Table)
	}
	discardSet := map[Card]bool{}
	for _, c := range g.Discard {
		discardSet[c] = true
	}
	if !discardSet[mustCards("S6")[0]] || !discardSet[mustCards("SK")[0]] {
		t.Errorf("discard should contain S6 and SK, got %v", g.Discard)
	}
	if len(g.Hands["A"]) != 6 || len(g.Hands["B"]) != 6 {
		t.Errorf("both hands should be refilled to 6, got A=%d B=%d", len(g.Hands["A"]), len(g.Hands["B"]))
	}
	if g.AttackerID != "B" || g.DefenderID != "A" {
		t.Errorf("roles should rotate: attacker=B defender=A, got attacker=%s defender=%s", g.AttackerID, g.DefenderID)
	}
	if len(g.Passed) != 0 {
		t.Errorf("passed should reset, got %v", g.Passed)
	}
}

// S2 — TAKE.
func TestScenarioTake(t *testing.T) {
	deck := mustCards("C6", "C7", "C8", "C9")
	bHandBefore := mustCards("SK", "H6", "H8", "H9", "H10", "HJ")
	g := newTestState(ModePodkidnoy, []string{"A", "B"}, map[string][]Card{
		"A": mustCards("S6", "H7", "S8", "S9", "S10", "SJ"),
		"B": bHandBefore,
	}, deck, Spade, "A", "B")

	g, err := Apply(g, Event{PlayerID: "A", Type: ActionAttack, Card: mustCards("H7")[0]})
	if err != nil {
		t.Fatalf("attack: %v", err)
	}
	g, err = Apply(g, Event{PlayerID: "B", Type: ActionTake})
	if err != nil {
		t.Fatalf("take: %v", err)
	}
	g, err = Apply(g, Event{PlayerID: "A", Type: ActionPass})
	if err != nil {
		t.Fatalf("pass: %v", err)
	}

	if len(g.Table) != 0 {
		t.Errorf("table should be empty after take resolves, got %v", g.Table)
	}
	bSet := map[Card]bool{}
	for _, c := range g.Hands["B"] {
		bSet[c] = true
	}
	if !bSet[mustCards("H7")[0]] {
		t.Errorf("B's hand should contain the taken card H7, got %v", g.Hands["B"])
	}
	if len(g.Hands["A"]) != 6 {
		t.Errorf("A should be refilled to 6, got %d", len(g.Hands["A"]))
	}
	// In 2p, the taker (B) is skipped when advancing roles, so A remains
	// attacker and B remains defender.
	if g.AttackerID != "A" || g.DefenderID != "B" {
		t.Errorf("expected attacker=A defender=B after take in 2p, got attacker=%s defender=%s", g.AttackerID, g.DefenderID)
	}
}

// S3 — perevodnoy transfer.
func TestScenarioTransfer(t *testing.T) {
	deck := mustCards("C6", "C7", "C8")
	g := newTestState(ModePerevodnoy, []string{"A", "B", "C"}, map[string][]Card{
		"A": mustCards("D9", "S7", "S8", "S9", "S10", "SJ"),
		"B": mustCards("H9", "H6", "H7", "H8", "H10", "HJ"),
		"C": mustCards("CK", "C9", "C10", "CJ", "CQ", "S6"),
	}, deck, Spade, "A", "B")

	g, err := Apply(g, Event{PlayerID: "A", Type: ActionAttack, Card: mustCards("D9")[0]})
	if err != nil {
		t.Fatalf("attack: %v", err)
	}
	g, err = Apply(g, Event{PlayerID: "B", Type: ActionTransfer, Card: mustCards("H9")[0]})
	if err != nil {
		t.Fatalf("transfer: %v", err)
	}

	if len(g.Table) != 2 {
		t.Fatalf("expected 2 pairs on table after transfer, got %d", len(g.Table))
	}
	if g.Table[0].Attack != mustCards("D9")[0] || g.Table[1].Attack != mustCards("H9")[0] {
		t.Errorf("unexpected table contents: %v", g.Table)
	}
	if g.AttackerID != "B" || g.DefenderID != "C" {
		t.Errorf("expected attacker=B defender=C after transfer, got attacker=%s defender=%s", g.AttackerID, g.DefenderID)
	}
	if g.RoundLimit != clampRoundLimit(len(g.Hands["C"])) {
		t.Errorf("roundLimit should reflect new defender's hand size, got %d want %d", g.RoundLimit, clampRoundLimit(len(g.Hands["C"])))
	}
}

// S4 — rank-not-on-table rejection.
func TestScenarioRankNotOnTable(t *testing.T) {
	deck := mustCards("C6", "C7")
	g := newTestState(ModePodkidnoy, []string{"A", "B"}, map[string][]Card{
		"A": mustCards("S6", "H9", "S8", "S9", "S10", "SJ"),
		"B": mustCards("S10", "H6", "H7", "H8", "H10", "HJ"),
	}, deck, Diamond, "A", "B")

	g, err := Apply(g, Event{PlayerID: "A", Type: ActionAttack, Card: mustCards("S6")[0]})
	if err != nil {
		t.Fatalf("attack: %v", err)
	}
	before := g
	g, err = Apply(g, Event{PlayerID: "B", Type: ActionDefend, AttackIndex: 0, Card: mustCards("S10")[0]})
	if err != nil {
		t.Fatalf("defend: %v", err)
	}

	_, err = Apply(g, Event{PlayerID: "A", Type: ActionAttack, Card: mustCards("H9")[0]})
	if err == nil {
		t.Fatalf("expected RANK_NOT_ON_TABLE error")
	}
	ruleErr, ok := err.(*RuleError)
	if !ok || ruleErr.Code != CodeRankNotOnTable {
		t.Errorf("expected code %s, got %v", CodeRankNotOnTable, err)
	}
	_ = before
}

// S5 — terminal.
func TestScenarioTerminal(t *testing.T) {
	g := newTestState(ModePodkidnoy, []string{"A", "B"}, map[string][]Card{
		"A": nil,
		"B": mustCards("SA"),
	}, nil, Spade, "A", "B")
	g.Active["A"] = true
	g.Active["B"] = true

	g.checkTerminal()

	if g.Active["A"] {
		t.Errorf("A should become inactive once deck is empty and hand is empty")
	}
	if g.Phase != PhaseFinished {
		t.Errorf("expected phase finished, got %s", g.Phase)
	}
	if g.Loser != "B" {
		t.Errorf("expected loser B, got %q", g.Loser)
	}
}
