package durak

import "fmt"

// Mode selects the throw-in variant.
type Mode string

const (
	ModePodkidnoy  Mode = "podkidnoy"
	ModePerevodnoy Mode = "perevodnoy"
)

func (m Mode) validate() error {
	switch m {
	case ModePodkidnoy, ModePerevodnoy:
		return nil
	default:
		return fmt.Errorf("invalid mode %q", m)
	}
}

// Config pins the rules a GameState was dealt under. It is immutable for
// the lifetime of the game, mirroring RoomConfig in the room layer.
type Config struct {
	Mode     Mode
	DeckSize DeckSize

	// TakerSkipsRefill resolves Open Question #2 from spec.md §9: by
	// default the taker is included in the post-TAKE refill order (last),
	// matching the classical rule this spec documents. Operators that
	// need the taker excluded from refill can flip this instead of
	// changing engine semantics.
	TakerSkipsRefill bool
}

func (c Config) validate() error {
	if err := c.Mode.validate(); err != nil {
		return err
	}
	return c.DeckSize.validate()
}

const handSize = 6
const maxRoundLimit = 6

// Phase is the room's terminal/non-terminal game phase.
type Phase string

const (
	PhasePlaying  Phase = "playing"
	PhaseFinished Phase = "finished"
)

// TablePair is one attack slot and its optional covering card.
type TablePair struct {
	Attack  Card
	Defense *Card
}

// GameState is the full invariant-bearing authoritative state of one round
// of Durak. It carries no I/O and no knowledge of transport or persistence.
type GameState struct {
	Config Config

	Order  []string
	Active map[string]bool

	Deck        []Card
	TrumpSuit   Suit
	TrumpCard   Card
	Hands       map[string][]Card
	Table       []TablePair
	Discard     []Card
	AttackerID  string
	DefenderID  string
	RoundLimit  int
	Passed      map[string]bool
	TakeDeclared bool

	Phase Phase
	Loser string // empty = draw or game still playing

	rng *randSource
}

// NewGame deals a fresh GameState for the given player ids (2-4, fixed
// order) under cfg. The deck is shuffled with a cryptographically-seeded
// PRNG private to this game.
func NewGame(ids []string, cfg Config) (*GameState, error) {
	return newGame(ids, cfg, newRandSource())
}

// NewGameSeeded deals a game with a deterministic PRNG seed, for tests and
// the replay scenarios in spec.md §8.
func NewGameSeeded(ids []string, cfg Config, seed int64) (*GameState, error) {
	return newGame(ids, cfg, newSeededRandSource(seed))
}

func newGame(ids []string, cfg Config, rng *randSource) (*GameState, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if len(ids) < 2 || len(ids) > 4 {
		return nil, fmt.Errorf("durak: player count must be 2-4, got %d", len(ids))
	}
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if id == "" {
			return nil, fmt.Errorf("durak: empty player id")
		}
		if seen[id] {
			return nil, fmt.Errorf("durak: duplicate player id %q", id)
		}
		seen[id] = true
	}

	deck := buildDeck(cfg.DeckSize)
	shuffle(deck, rng.rand)

	g := &GameState{
		Config: cfg,
		Order:  append([]string{}, ids...),
		Active: make(map[string]bool, len(ids)),
		Hands:  make(map[string][]Card, len(ids)),
		Passed: make(map[string]bool),
		Phase:  PhasePlaying,
		rng:    rng,
	}
	for _, id := range ids {
		g.Active[id] = true
	}

	if err := g.deal(deck); err != nil {
		return nil, err
	}

	g.AttackerID = g.firstAttacker()
	g.DefenderID = g.nextActive(g.AttackerID)
	g.resetRoundVars()
	return g, nil
}

// deal distributes 6 cards per player in round-robin order from the
// shuffled deck; the bottom card of the shuffled deck fixes the trump.
func (g *GameState) deal(deck []Card) error {
	needed := handSize * len(g.Order)
	if len(deck) < needed {
		return fmt.Errorf("durak: deck too small (%d cards) for %d players", len(deck), len(g.Order))
	}

	// The card at the bottom of the deck is the trump. Draws pop from
	// index 0 (the "stock end"), so while the stock is non-empty the trump
	// sits at its tail; when the deal uses the whole deck (24 cards, 4
	// players) it ends up in the last dealt hand.
	trump := deck[len(deck)-1]

	for round := 0; round < handSize; round++ {
		for _, id := range g.Order {
			card := deck[0]
			deck = deck[1:]
			g.Hands[id] = append(g.Hands[id], card)
		}
	}
	for _, id := range g.Order {
		sortHand(g.Hands[id])
	}

	g.TrumpCard = trump
	g.TrumpSuit = trump.Suit
	g.Deck = deck
	return nil
}

// firstAttacker is the player holding the lowest-ranked trump; ties go to
// order position, and if nobody holds a trump the first player starts.
func (g *GameState) firstAttacker() string {
	best := ""
	bestRank := 0
	for _, id := range g.Order {
		for _, c := range g.Hands[id] {
			if c.Suit != g.TrumpSuit {
				continue
			}
			if best == "" || c.Rank < bestRank {
				best = id
				bestRank = c.Rank
			}
		}
	}
	if best == "" {
		return g.Order[0]
	}
	return best
}

// nextActive returns the next active player after id, wrapping around
// Order and skipping inactive players. It never returns id itself unless
// id is the only active player left.
func (g *GameState) nextActive(id string) string {
	n := len(g.Order)
	start := g.indexOf(id)
	for step := 1; step <= n; step++ {
		candidate := g.Order[(start+step)%n]
		if g.Active[candidate] {
			return candidate
		}
	}
	return id
}

func (g *GameState) indexOf(id string) int {
	for i, p := range g.Order {
		if p == id {
			return i
		}
	}
	return 0
}

func (g *GameState) activeCount() int {
	n := 0
	for _, ok := range g.Active {
		if ok {
			n++
		}
	}
	return n
}

func (g *GameState) resetRoundVars() {
	g.Passed = make(map[string]bool)
	g.TakeDeclared = false
	g.RoundLimit = clampRoundLimit(len(g.Hands[g.DefenderID]))
}

func clampRoundLimit(defenderHandSize int) int {
	if defenderHandSize > maxRoundLimit {
		return maxRoundLimit
	}
	return defenderHandSize
}

// handOf returns a defensive copy of a player's hand.
func (g *GameState) handOf(id string) []Card {
	return append([]Card{}, g.Hands[id]...)
}

func (g *GameState) cardIndexInHand(id string, c Card) int {
	for i, h := range g.Hands[id] {
		if h == c {
			return i
		}
	}
	return -1
}

func (g *GameState) removeFromHand(id string, idx int) Card {
	hand := g.Hands[id]
	c := hand[idx]
	g.Hands[id] = append(hand[:idx], hand[idx+1:]...)
	return c
}

// rankSet returns the set of ranks present on the table, split by whether
// the caller wants only attack-side ranks or both sides.
func (g *GameState) rankSet(attackOnly bool) map[int]bool {
	ranks := make(map[int]bool)
	for _, pair := range g.Table {
		ranks[pair.Attack.Rank] = true
		if !attackOnly && pair.Defense != nil {
			ranks[pair.Defense.Rank] = true
		}
	}
	return ranks
}

func (g *GameState) allDefended() bool {
	for _, pair := range g.Table {
		if pair.Defense == nil {
			return false
		}
	}
	return true
}

func (g *GameState) allAttackersPassed() bool {
	for _, id := range g.Order {
		if id == g.DefenderID {
			continue
		}
		if !g.Active[id] {
			continue
		}
		if !g.Passed[id] {
			return false
		}
	}
	return true
}
