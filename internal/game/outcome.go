package game

// Outcome is the result of a round as carried in a result payload.
type Outcome uint8

const (
	OutcomeNotOver Outcome = iota
	OutcomeTie
	OutcomeDealerWin
	OutcomePlayerWin
)

func (o Outcome) String() string {
	switch o {
	case OutcomeNotOver:
		return "NOT OVER"
	case OutcomeTie:
		return "TIE"
	case OutcomeDealerWin:
		return "DEALER WINS"
	case OutcomePlayerWin:
		return "PLAYER WINS"
	}
	return "UNKNOWN"
}

// CompareSums resolves a round in which neither side busted: higher sum wins,
// equal sums tie.
func CompareSums(playerSum, dealerSum int) Outcome {
	switch {
	case playerSum > dealerSum:
		return OutcomePlayerWin
	case playerSum < dealerSum:
		return OutcomeDealerWin
	default:
		return OutcomeTie
	}
}
