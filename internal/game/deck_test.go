package game

import "testing"

func TestNewDeckContainsEveryCardExactlyOnce(t *testing.T) {
	deck := NewDeck()
	if deck.Remaining() != DeckSize {
		t.Fatalf("Remaining() = %d, want %d", deck.Remaining(), DeckSize)
	}

	seen := make(map[Card]bool)
	for i := 0; i < DeckSize; i++ {
		card, ok := deck.Draw()
		if !ok {
			t.Fatalf("Draw() ran out after %d cards", i)
		}
		if seen[card] {
			t.Fatalf("Draw() returned %v twice", card)
		}
		seen[card] = true
	}

	if _, ok := deck.Draw(); ok {
		t.Error("Draw() succeeded on an empty deck")
	}
}

func TestStackedDeckDrawsLastCardFirst(t *testing.T) {
	bottom := Card{Rank: Two, Suit: Clubs}
	top := Card{Rank: Ace, Suit: Spades}
	deck := NewStackedDeck(bottom, top)

	if card, _ := deck.Draw(); card != top {
		t.Errorf("first Draw() = %v, want %v", card, top)
	}
	if card, _ := deck.Draw(); card != bottom {
		t.Errorf("second Draw() = %v, want %v", card, bottom)
	}
}
