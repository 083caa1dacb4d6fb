package durak

import "testing"

func TestParseCardRoundTrip(t *testing.T) {
	tokens := []string{"S6", "H10", "DJ", "CQ", "SK", "HA"}
	for _, tok := range tokens {
		c, err := ParseCard(tok)
		if err != nil {
			t.Fatalf("ParseCard(%q): %v", tok, err)
		}
		if got := c.String(); got != tok {
			t.Errorf("round trip: ParseCard(%q).String() = %q", tok, got)
		}
	}
}

func TestParseCardInvalid(t *testing.T) {
	for _, tok := range []string{"", "X", "S1", "Z9", "S15"} {
		if _, err := ParseCard(tok); err == nil {
			t.Errorf("ParseCard(%q): expected error", tok)
		}
	}
}

func TestBeats(t *testing.T) {
	trump := Suit('H')
	cases := []struct {
		d, a Card
		want bool
	}{
		{Card{Spade, 10}, Card{Spade, 6}, true},
		{Card{Spade, 6}, Card{Spade, 10}, false},
		{Card{Heart, 6}, Card{Spade, 14}, true},
		{Card{Spade, 14}, Card{Heart, 6}, false},
		{Card{Club, 10}, Card{Spade, 6}, false},
	}
	for _, c := range cases {
		if got := beats(c.d, c.a, trump); got != c.want {
			t.Errorf("beats(%v, %v, %v) = %v, want %v", c.d, c.a, trump, got, c.want)
		}
	}
}
