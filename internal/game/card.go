// Package game implements the card, deck, and hand model for the simplified
// blackjack rules the server plays: fixed card values with no soft-ace
// reduction, a fresh 52-card deck per round, and a dealer that stands at 17.
package game

import "fmt"

// Rank of a card, indexed 0-12 in the order used by the wire protocol.
type Rank uint8

const (
	Two Rank = iota
	Three
	Four
	Five
	Six
	Seven
	Eight
	Nine
	Ten
	Jack
	Queen
	King
	Ace
)

// Suit of a card, indexed 0-3 in the order used by the wire protocol.
type Suit uint8

const (
	Hearts Suit = iota
	Diamonds
	Clubs
	Spades
)

const (
	NumRanks = 13
	NumSuits = 4
	DeckSize = NumRanks * NumSuits
)

// Card values are fixed; an ace always counts as 11. The reporting tooling
// computes a soft-ace adjusted value separately, but the game itself scores
// every hand with this table.
var rankValues = [NumRanks]int{2, 3, 4, 5, 6, 7, 8, 9, 10, 10, 10, 10, 11}

var rankNames = [NumRanks]string{"2", "3", "4", "5", "6", "7", "8", "9", "10", "J", "Q", "K", "A"}
var suitNames = [NumSuits]string{"H", "D", "C", "S"}

// Card is an immutable (rank, suit) pair.
type Card struct {
	Rank Rank
	Suit Suit
}

// NewCard returns the Card for the given wire indexes, or an error if either
// index is out of range. Out-of-range indexes coming off the wire must fail
// the session rather than produce an undefined card.
func NewCard(rank, suit uint8) (Card, error) {
	if rank >= NumRanks {
		return Card{}, fmt.Errorf("card rank index out of range: %d", rank)
	}
	if suit >= NumSuits {
		return Card{}, fmt.Errorf("card suit index out of range: %d", suit)
	}
	return Card{Rank: Rank(rank), Suit: Suit(suit)}, nil
}

// Value returns the number of points the card contributes to a hand.
func (c Card) Value() int { return rankValues[c.Rank] }

func (c Card) RankName() string { return rankNames[c.Rank] }
func (c Card) SuitName() string { return suitNames[c.Suit] }

func (c Card) String() string {
	return fmt.Sprintf("rank=%s suit=%s", c.RankName(), c.SuitName())
}

// CardFromNames is the inverse of RankName/SuitName, used when reading cards
// back out of stored game records.
func CardFromNames(rank, suit string) (Card, error) {
	card := Card{Rank: NumRanks, Suit: NumSuits}
	for i, n := range rankNames {
		if n == rank {
			card.Rank = Rank(i)
		}
	}
	for i, n := range suitNames {
		if n == suit {
			card.Suit = Suit(i)
		}
	}
	if card.Rank == NumRanks {
		return Card{}, fmt.Errorf("unknown card rank: %q", rank)
	}
	if card.Suit == NumSuits {
		return Card{}, fmt.Errorf("unknown card suit: %q", suit)
	}
	return card, nil
}
