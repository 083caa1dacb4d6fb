package durak

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
	mrand "math/rand"
	"sort"
)

// DeckSize is the closed set of supported deck sizes.
type DeckSize int

const (
	Deck24 DeckSize = 24
	Deck36 DeckSize = 36
)

func (d DeckSize) validate() error {
	switch d {
	case Deck24, Deck36:
		return nil
	default:
		return fmt.Errorf("invalid deck size %d", d)
	}
}

func ranksForDeck(size DeckSize) []int {
	if size == Deck24 {
		return []int{9, 10, 11, 12, 13, 14}
	}
	return []int{6, 7, 8, 9, 10, 11, 12, 13, 14}
}

// newDeckRNG seeds a math/rand source from crypto/rand so every game's
// shuffle is unpredictable without paying crypto/rand's cost per draw.
func newDeckRNG() *mrand.Rand {
	var seedBytes [8]byte
	if _, err := rand.Read(seedBytes[:]); err != nil {
		panic("durak: failed to seed deck RNG: " + err.Error())
	}
	seed := int64(binary.LittleEndian.Uint64(seedBytes[:]))
	return mrand.New(mrand.NewSource(seed))
}

// buildDeck constructs the Cartesian product of suits x ranks for the given
// deck size, in canonical (suit, rank) order.
func buildDeck(size DeckSize) []Card {
	ranks := ranksForDeck(size)
	deck := make([]Card, 0, len(suitOrder)*len(ranks))
	for _, s := range suitOrder {
		for _, r := range ranks {
			deck = append(deck, Card{Suit: s, Rank: r})
		}
	}
	return deck
}

// shuffle permutes the deck uniformly at random using rng.
func shuffle(deck []Card, rng *mrand.Rand) {
	rng.Shuffle(len(deck), func(i, j int) {
		deck[i], deck[j] = deck[j], deck[i]
	})
}

func sortHand(hand []Card) {
	sort.Slice(hand, func(i, j int) bool {
		return Less(hand[i], hand[j])
	})
}
