// Package client implements the client side of the game protocol: it mirrors
// the server's session state machine from the initiating endpoint, asking an
// abstract decision source for hit/stand choices and reporting everything
// that happens to an abstract event sink. It performs no I/O besides the
// protocol itself.
package client

import (
	"fmt"
	"net"

	"github.com/pitboss/pitboss/internal/game"
	"github.com/pitboss/pitboss/internal/packets"
)

// Action is a player decision as sent on the wire.
type Action string

const (
	ActionHit   Action = packets.ActionHit
	ActionStand Action = packets.ActionStand
)

// DecisionSource supplies the player's next action at each decision point.
// The call blocks until a decision is available (keyboard, GUI, bot).
type DecisionSource interface {
	NextAction(playerSum int) (Action, error)
}

// EventSink receives the discrete events of a game as they happen. The driver
// does no rendering or logging of its own.
type EventSink interface {
	RoundStarted(round, totalRounds int)
	DealerCardShown(card game.Card)
	DealerCardHidden()
	PlayerCardDealt(card game.Card, sum int)
	DealerCardRevealed(card game.Card)
	DealerCardDrawn(card game.Card)
	RoundEnded(round int, outcome game.Outcome)
}

// Stats tallies round outcomes over a game.
type Stats struct {
	PlayerWins int
	DealerWins int
	Ties       int
}

func (s *Stats) record(outcome game.Outcome) {
	switch outcome {
	case game.OutcomePlayerWin:
		s.PlayerWins++
	case game.OutcomeDealerWin:
		s.DealerWins++
	case game.OutcomeTie:
		s.Ties++
	}
}

// WinRate returns the fraction of rounds the player won.
func (s *Stats) WinRate(rounds int) float64 {
	if rounds == 0 {
		return 0
	}
	return float64(s.PlayerWins) / float64(rounds)
}

// Driver runs a game session against a connected server. Every exchange is
// strictly ping-pong: the driver never sends a frame before receiving the one
// the protocol owes it.
type Driver struct {
	conn      net.Conn
	decisions DecisionSource
	events    EventSink
}

func NewDriver(conn net.Conn, decisions DecisionSource, events EventSink) *Driver {
	return &Driver{conn: conn, decisions: decisions, events: events}
}

// RequestGame sends the game request and waits for the server's validation.
// A rejected request leaves the connection open; the caller can correct the
// settings and try again.
func (d *Driver) RequestGame(teamName string, rounds int) (bool, error) {
	if rounds < 1 || rounds > 255 {
		return false, fmt.Errorf("rounds must be between 1 and 255, got %d", rounds)
	}

	if err := packets.WriteFrame(d.conn, packets.EncodeRequest(uint8(rounds), teamName)); err != nil {
		return false, err
	}

	payload, err := packets.ReadFrame(d.conn, packets.ValidationType, packets.ValidationPayloadSize)
	if err != nil {
		return false, fmt.Errorf("awaiting request validation: %w", err)
	}
	return packets.ParseValidation(payload), nil
}

// PlayRounds plays the accepted number of rounds to completion and returns
// the outcome tally.
func (d *Driver) PlayRounds(rounds int) (*Stats, error) {
	stats := &Stats{}
	for round := 1; round <= rounds; round++ {
		d.events.RoundStarted(round, rounds)
		outcome, err := d.playRound(round)
		if err != nil {
			return nil, fmt.Errorf("round %d: %w", round, err)
		}
		stats.record(outcome)
	}
	return stats, nil
}

func (d *Driver) playRound(round int) (game.Outcome, error) {
	playerSum, err := d.receiveOpeningDeal()
	if err != nil {
		return game.OutcomeNotOver, err
	}

	outcome, playerSum, err := d.playerTurn(playerSum)
	if err != nil {
		return game.OutcomeNotOver, err
	}

	if outcome == game.OutcomeNotOver {
		if outcome, err = d.dealerTurn(); err != nil {
			return game.OutcomeNotOver, err
		}
	}

	d.events.RoundEnded(round, outcome)
	return outcome, nil
}

// receiveOpeningDeal reads the four opening card frames: dealer visible,
// dealer hidden, then the player's two cards. The hidden card's value is
// surfaced only when the dealer reveals it later.
func (d *Driver) receiveOpeningDeal() (playerSum int, err error) {
	for i := 0; i < 4; i++ {
		card, err := d.readCard()
		if err != nil {
			return 0, err
		}
		switch i {
		case 0:
			d.events.DealerCardShown(card)
		case 1:
			d.events.DealerCardHidden()
		default:
			playerSum += card.Value()
			d.events.PlayerCardDealt(card, playerSum)
		}
	}
	return playerSum, nil
}

// playerTurn consumes the opening result and runs the hit/stand loop. The
// returned outcome is NotOver if the player stood and the dealer still has to
// play.
func (d *Driver) playerTurn(playerSum int) (game.Outcome, int, error) {
	outcome, err := d.readResult()
	if err != nil {
		return game.OutcomeNotOver, playerSum, err
	}
	if outcome != game.OutcomeNotOver {
		return outcome, playerSum, nil
	}

	for {
		action, err := d.decisions.NextAction(playerSum)
		if err != nil {
			return game.OutcomeNotOver, playerSum, fmt.Errorf("getting player decision: %w", err)
		}

		if err := packets.WriteFrame(d.conn, packets.EncodeResponse(string(action))); err != nil {
			return game.OutcomeNotOver, playerSum, err
		}

		if action == ActionStand {
			return game.OutcomeNotOver, playerSum, nil
		}

		card, err := d.readCard()
		if err != nil {
			return game.OutcomeNotOver, playerSum, err
		}
		playerSum += card.Value()
		d.events.PlayerCardDealt(card, playerSum)

		if outcome, err = d.readResult(); err != nil {
			return game.OutcomeNotOver, playerSum, err
		}
		if outcome != game.OutcomeNotOver {
			return outcome, playerSum, nil
		}
	}
}

// dealerTurn receives the hidden card reveal and then alternating
// result/card frames until a final result arrives.
func (d *Driver) dealerTurn() (game.Outcome, error) {
	card, err := d.readCard()
	if err != nil {
		return game.OutcomeNotOver, err
	}
	d.events.DealerCardRevealed(card)

	for {
		outcome, err := d.readResult()
		if err != nil {
			return game.OutcomeNotOver, err
		}
		if outcome != game.OutcomeNotOver {
			return outcome, nil
		}

		if card, err = d.readCard(); err != nil {
			return game.OutcomeNotOver, err
		}
		d.events.DealerCardDrawn(card)
	}
}

func (d *Driver) readCard() (game.Card, error) {
	payload, err := packets.ReadFrame(d.conn, packets.PayloadType, packets.CardPayloadSize)
	if err != nil {
		return game.Card{}, err
	}
	return packets.ParseCard(payload)
}

func (d *Driver) readResult() (game.Outcome, error) {
	payload, err := packets.ReadFrame(d.conn, packets.PayloadType, packets.ResultPayloadSize)
	if err != nil {
		return game.OutcomeNotOver, err
	}
	return packets.ParseResult(payload), nil
}
