package game

import "testing"

func TestCardValues(t *testing.T) {
	tests := []struct {
		name string
		rank Rank
		want int
	}{
		{name: "two", rank: Two, want: 2},
		{name: "nine", rank: Nine, want: 9},
		{name: "ten", rank: Ten, want: 10},
		{name: "jack", rank: Jack, want: 10},
		{name: "queen", rank: Queen, want: 10},
		{name: "king", rank: King, want: 10},
		{name: "ace is always eleven", rank: Ace, want: 11},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Card{Rank: tt.rank, Suit: Hearts}
			if got := c.Value(); got != tt.want {
				t.Errorf("Value() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestNewCardRejectsOutOfRangeIndexes(t *testing.T) {
	if _, err := NewCard(13, 0); err == nil {
		t.Error("NewCard() accepted rank index 13")
	}
	if _, err := NewCard(0, 4); err == nil {
		t.Error("NewCard() accepted suit index 4")
	}
	if _, err := NewCard(12, 3); err != nil {
		t.Errorf("NewCard(12, 3) returned unexpected error: %s", err)
	}
}

func TestCardFromNamesRoundTrip(t *testing.T) {
	for r := Rank(0); r < NumRanks; r++ {
		for s := Suit(0); s < NumSuits; s++ {
			card := Card{Rank: r, Suit: s}
			got, err := CardFromNames(card.RankName(), card.SuitName())
			if err != nil {
				t.Fatalf("CardFromNames(%q, %q) returned error: %s", card.RankName(), card.SuitName(), err)
			}
			if got != card {
				t.Errorf("CardFromNames(%q, %q) = %v, want %v", card.RankName(), card.SuitName(), got, card)
			}
		}
	}
}

func TestCardFromNamesRejectsUnknownNames(t *testing.T) {
	if _, err := CardFromNames("1", "H"); err == nil {
		t.Error("CardFromNames() accepted unknown rank")
	}
	if _, err := CardFromNames("A", "X"); err == nil {
		t.Error("CardFromNames() accepted unknown suit")
	}
}
