package game

import "math/rand"

// Deck is an ordered stack of cards. Cards are drawn from the top (the end of
// the slice); a deck is created fresh and shuffled at the start of every round
// so it can never run dry mid-round.
type Deck struct {
	cards []Card
}

// NewDeck returns a shuffled deck containing all 52 (rank, suit) combinations.
func NewDeck() *Deck {
	d := &Deck{cards: make([]Card, 0, DeckSize)}
	for s := Suit(0); s < NumSuits; s++ {
		for r := Rank(0); r < NumRanks; r++ {
			d.cards = append(d.cards, Card{Rank: r, Suit: s})
		}
	}
	rand.Shuffle(len(d.cards), func(i, j int) {
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	})
	return d
}

// NewStackedDeck returns an unshuffled deck containing exactly the given
// cards, with the last card drawn first. Used to script deterministic deals.
func NewStackedDeck(cards ...Card) *Deck {
	d := &Deck{cards: make([]Card, len(cards))}
	copy(d.cards, cards)
	return d
}

// Draw removes and returns the top card. ok is false if the deck is empty.
func (d *Deck) Draw() (card Card, ok bool) {
	if len(d.cards) == 0 {
		return Card{}, false
	}
	card = d.cards[len(d.cards)-1]
	d.cards = d.cards[:len(d.cards)-1]
	return card, true
}

// Remaining returns the number of cards left in the deck.
func (d *Deck) Remaining() int { return len(d.cards) }
