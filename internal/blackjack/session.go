package blackjack

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/pitboss/pitboss/internal/core/client"
	"github.com/pitboss/pitboss/internal/game"
	"github.com/pitboss/pitboss/internal/packets"
)

// session is the state machine for one connection. It is exclusively owned by
// the goroutine running Handle; no locking is needed because the protocol has
// exactly one exchange in flight at any time.
type session struct {
	client  *client.Client
	logger  *logrus.Logger
	newDeck func() *game.Deck

	teamName  string
	numRounds int

	// State for the round currently being played.
	round         int
	deck          *game.Deck
	player        *game.Hand
	dealer        *game.Hand
	responseTimes []time.Duration

	summary *Summary
}

func (s *session) run(ctx context.Context) (*Summary, error) {
	if err := s.handshake(); err != nil {
		return nil, err
	}

	s.summary = &Summary{
		SessionID: s.client.ID,
		TeamName:  s.teamName,
		NumRounds: s.numRounds,
	}

	s.logger.Infof("%s --- game started for team %s with %d rounds ---", s.client.IPAddr(), s.teamName, s.numRounds)
	start := time.Now()

	for s.round = 0; s.round < s.numRounds; s.round++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		s.logger.Infof("%s --- starting round %d of %d ---", s.client.IPAddr(), s.round+1, s.numRounds)
		if err := s.runRound(); err != nil {
			return nil, fmt.Errorf("round %d: %w", s.round+1, err)
		}
	}

	s.summary.TotalGameTime = time.Since(start)
	return s.summary, nil
}

// handshake loops on request frames until one passes validation, answering
// each with a validation frame. A rejected request leaves the connection open
// for a corrected one.
func (s *session) handshake() error {
	for {
		payload, err := packets.ReadFrame(s.client, packets.RequestType, packets.RequestPayloadSize)
		if err != nil {
			return fmt.Errorf("awaiting game request: %w", err)
		}

		req := packets.ParseRequest(payload)
		s.logger.Infof("%s received game request: team=%q rounds=%d", s.client.IPAddr(), req.TeamName, req.RoundCount)

		if req.RoundCount < 1 || len(req.TeamName) == 0 {
			s.logger.Warnf("%s invalid game request: team=%q rounds=%d", s.client.IPAddr(), req.TeamName, req.RoundCount)
			if err := packets.WriteFrame(s.client, packets.EncodeValidation(packets.ValidationInvalid)); err != nil {
				return err
			}
			continue
		}

		if err := packets.WriteFrame(s.client, packets.EncodeValidation(packets.ValidationValid)); err != nil {
			return err
		}

		s.teamName = req.TeamName
		s.numRounds = int(req.RoundCount)
		s.client.TeamName = req.TeamName
		return nil
	}
}

// runRound plays one full deal-through-resolution cycle and folds its result
// into the summary.
func (s *session) runRound() error {
	if err := s.dealOpeningHands(); err != nil {
		return err
	}

	outcome, err := s.playerTurn()
	if err != nil {
		return err
	}
	s.logger.Infof("%s player final card score is %d", s.client.IPAddr(), s.player.Sum())

	if outcome == game.OutcomeNotOver {
		if outcome, err = s.dealerTurn(); err != nil {
			return err
		}
	}

	s.recordRound(outcome)
	s.logger.Infof("%s --- round %d complete: %s ---", s.client.IPAddr(), s.round+1, outcome)
	return nil
}

// dealOpeningHands starts the round with a fresh shuffled deck, deals two
// cards to each side, and sends all four card frames: dealer's visible card,
// dealer's hidden card, then the player's two cards.
func (s *session) dealOpeningHands() error {
	s.deck = s.newDeck()
	s.player = &game.Hand{}
	s.dealer = &game.Hand{}
	s.responseTimes = nil

	for _, hand := range []*game.Hand{s.player, s.player, s.dealer, s.dealer} {
		card, ok := s.deck.Draw()
		if !ok {
			return fmt.Errorf("deck exhausted during opening deal")
		}
		hand.Add(card)
	}

	dealerCards, playerCards := s.dealer.Cards(), s.player.Cards()
	s.logger.Infof("%s dealer card (visible): %s", s.client.IPAddr(), dealerCards[0])
	s.logger.Infof("%s dealer card (hidden): %s", s.client.IPAddr(), dealerCards[1])
	s.logger.Infof("%s player card #1: %s", s.client.IPAddr(), playerCards[0])
	s.logger.Infof("%s player card #2: %s", s.client.IPAddr(), playerCards[1])

	for _, card := range []game.Card{dealerCards[0], dealerCards[1], playerCards[0], playerCards[1]} {
		if err := packets.WriteFrame(s.client, packets.EncodeCard(card)); err != nil {
			return err
		}
	}
	return nil
}

// playerTurn sends the opening result and then runs the hit/stand loop until
// the player stands or busts. A bust settles the round immediately with a
// dealer win; a stand leaves the outcome pending for the dealer turn.
func (s *session) playerTurn() (game.Outcome, error) {
	// Two opening cards can't exceed 21 with a max card value of 11, but the
	// protocol still settles the round up front if they somehow do.
	if s.player.Busted() {
		s.logger.Infof("%s player busted on the opening deal", s.client.IPAddr())
		return game.OutcomeDealerWin, packets.WriteFrame(s.client, packets.EncodeResult(game.OutcomeDealerWin))
	}
	if err := packets.WriteFrame(s.client, packets.EncodeResult(game.OutcomeNotOver)); err != nil {
		return game.OutcomeNotOver, err
	}

	s.logger.Infof("%s --- starting player turn ---", s.client.IPAddr())

	for {
		waitStart := time.Now()
		action, err := s.awaitDecision()
		if err != nil {
			return game.OutcomeNotOver, err
		}
		s.responseTimes = append(s.responseTimes, time.Since(waitStart))
		s.logger.Infof("%s player decision: %s", s.client.IPAddr(), action)

		if action == actionStand {
			return game.OutcomeNotOver, nil
		}

		card, ok := s.deck.Draw()
		if !ok {
			return game.OutcomeNotOver, fmt.Errorf("deck exhausted during player turn")
		}
		s.player.Add(card)
		s.logger.Infof("%s dealt new card to player: %s (sum %d)", s.client.IPAddr(), card, s.player.Sum())

		if err := packets.WriteFrame(s.client, packets.EncodeCard(card)); err != nil {
			return game.OutcomeNotOver, err
		}

		if s.player.Busted() {
			s.logger.Infof("%s player busted", s.client.IPAddr())
			s.summary.PlayerBustRounds = append(s.summary.PlayerBustRounds, s.round)
			return game.OutcomeDealerWin, packets.WriteFrame(s.client, packets.EncodeResult(game.OutcomeDealerWin))
		}
		if err := packets.WriteFrame(s.client, packets.EncodeResult(game.OutcomeNotOver)); err != nil {
			return game.OutcomeNotOver, err
		}
	}
}

const (
	actionHit   = "hittt"
	actionStand = "stand"
)

// awaitDecision reads response frames until one carries a recognized action,
// answering anything else with an invalid validation frame and re-entering
// the same wait.
func (s *session) awaitDecision() (string, error) {
	for {
		payload, err := packets.ReadFrame(s.client, packets.PayloadType, packets.ResponsePayloadSize)
		if err != nil {
			return "", fmt.Errorf("awaiting player decision: %w", err)
		}

		action := strings.ToLower(packets.ParseResponse(payload))
		if action != actionHit && action != actionStand {
			s.logger.Warnf("%s invalid player decision: %q", s.client.IPAddr(), action)
			if err := packets.WriteFrame(s.client, packets.EncodeValidation(packets.ValidationInvalid)); err != nil {
				return "", err
			}
			continue
		}
		return action, nil
	}
}

// dealerTurn reveals the hidden card and plays out the fixed dealer policy:
// draw below 17, stand at 17 or above, bust above 21.
func (s *session) dealerTurn() (game.Outcome, error) {
	s.logger.Infof("%s --- starting dealer turn ---", s.client.IPAddr())

	hidden := s.dealer.Cards()[1]
	s.logger.Infof("%s revealing dealer's hidden card: %s", s.client.IPAddr(), hidden)
	if err := packets.WriteFrame(s.client, packets.EncodeCard(hidden)); err != nil {
		return game.OutcomeNotOver, err
	}

	for {
		switch {
		case s.dealer.Busted():
			s.logger.Infof("%s dealer busted with sum %d", s.client.IPAddr(), s.dealer.Sum())
			s.summary.DealerBustRounds = append(s.summary.DealerBustRounds, s.round)
			return game.OutcomePlayerWin, packets.WriteFrame(s.client, packets.EncodeResult(game.OutcomePlayerWin))

		case s.dealer.Sum() >= game.DealerStandMin:
			outcome := game.CompareSums(s.player.Sum(), s.dealer.Sum())
			s.logger.Infof("%s dealer stands at %d, result: %s", s.client.IPAddr(), s.dealer.Sum(), outcome)
			return outcome, packets.WriteFrame(s.client, packets.EncodeResult(outcome))

		default:
			if err := packets.WriteFrame(s.client, packets.EncodeResult(game.OutcomeNotOver)); err != nil {
				return game.OutcomeNotOver, err
			}
			card, ok := s.deck.Draw()
			if !ok {
				return game.OutcomeNotOver, fmt.Errorf("deck exhausted during dealer turn")
			}
			s.dealer.Add(card)
			s.logger.Infof("%s dealer drew %s (sum %d)", s.client.IPAddr(), card, s.dealer.Sum())
			if err := packets.WriteFrame(s.client, packets.EncodeCard(card)); err != nil {
				return game.OutcomeNotOver, err
			}
		}
	}
}

// recordRound folds the finished round into the session summary.
func (s *session) recordRound(outcome game.Outcome) {
	switch outcome {
	case game.OutcomePlayerWin:
		s.summary.PlayerWins++
	case game.OutcomeDealerWin:
		s.summary.DealerWins++
	case game.OutcomeTie:
		s.summary.Ties++
	}

	s.summary.PlayerCards = append(s.summary.PlayerCards, s.player.Cards())
	s.summary.DealerCards = append(s.summary.DealerCards, s.dealer.Cards())
	s.summary.ResponseTimes = append(s.summary.ResponseTimes, s.responseTimes)
}
