// Package blackjack implements the server side of the game protocol: the
// per-connection state machine that validates the handshake, runs the
// requested number of rounds of dealer/player turns, and hands the finished
// game summary off to the store.
package blackjack

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/pitboss/pitboss/internal/core"
	"github.com/pitboss/pitboss/internal/core/client"
	"github.com/pitboss/pitboss/internal/game"
)

// Store persists one finished game summary. Summaries are only handed over
// after every round has completed; an interrupted session never reaches the
// store.
type Store interface {
	SaveGame(ctx context.Context, summary *Summary) error
}

// Summary is the complete record of one finished game.
type Summary struct {
	SessionID uuid.UUID
	TeamName  string
	NumRounds int

	PlayerWins int
	DealerWins int
	Ties       int

	// Full hands for each round, in play order.
	PlayerCards [][]game.Card
	DealerCards [][]game.Card

	// Zero-based indexes of the rounds in which that side busted.
	PlayerBustRounds []int
	DealerBustRounds []int

	// One sample per player decision, grouped by round, measured from the
	// moment the server starts waiting for a response.
	ResponseTimes [][]time.Duration

	// Wall time from an accepted handshake to the end of the final round.
	TotalGameTime time.Duration
}

// Server is the game Backend. Each accepted connection is handed to Handle,
// which owns the connection for the session's entire lifetime.
type Server struct {
	Name   string
	Config *core.Config
	Logger *logrus.Logger
	Store  Store

	// newDeck builds the deck used at the start of each round. Tests stack
	// it; production always deals a fresh shuffle.
	newDeck func() *game.Deck
}

func (s *Server) Identifier() string { return s.Name }

func (s *Server) Init(ctx context.Context) error { return nil }

// Handle runs the full game session for one connection: handshake, all
// rounds, and persistence of the summary. It returns once the game finishes
// or the connection fails; the caller closes the socket either way.
func (s *Server) Handle(ctx context.Context, c *client.Client) error {
	newDeck := s.newDeck
	if newDeck == nil {
		newDeck = game.NewDeck
	}

	sess := &session{
		client:  c,
		logger:  s.Logger,
		newDeck: newDeck,
	}

	summary, err := sess.run(ctx)
	if err != nil {
		return err
	}

	if err := s.Store.SaveGame(ctx, summary); err != nil {
		return err
	}
	s.Logger.Infof("[%s] recorded game %s for team %s", s.Name, summary.SessionID, summary.TeamName)
	return nil
}
