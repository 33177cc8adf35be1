package game

// BustThreshold is the sum above which a hand is bust.
const BustThreshold = 21

// DealerStandMin is the sum at which the dealer stops drawing.
const DealerStandMin = 17

// Hand is the ordered set of cards held by one side in the current round,
// with its running sum maintained incrementally as cards are added.
type Hand struct {
	cards []Card
	sum   int
}

// Add appends a card to the hand and updates the running sum.
func (h *Hand) Add(c Card) {
	h.cards = append(h.cards, c)
	h.sum += c.Value()
}

// Sum returns the hand's current total using the fixed card values.
func (h *Hand) Sum() int { return h.sum }

// Busted reports whether the hand's sum exceeds 21.
func (h *Hand) Busted() bool { return h.sum > BustThreshold }

// Cards returns a copy of the cards in the order they were added.
func (h *Hand) Cards() []Card {
	out := make([]Card, len(h.cards))
	copy(out, h.cards)
	return out
}

// Size returns the number of cards in the hand.
func (h *Hand) Size() int { return len(h.cards) }

// SoftSum computes the soft-ace adjusted value of a set of cards: aces start
// at 11 and drop to 1 one at a time while the total is over 21. The protocol
// never uses this value; it exists for the offline statistics report, which
// intentionally diverges from the fixed-ace game scoring.
func SoftSum(cards []Card) int {
	total, aces := 0, 0
	for _, c := range cards {
		if c.Rank == Ace {
			aces++
		}
		total += c.Value()
	}
	for total > BustThreshold && aces > 0 {
		total -= 10
		aces--
	}
	return total
}
