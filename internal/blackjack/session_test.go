package blackjack

import (
	"context"
	"io"
	"net"
	"testing"
	"time"

	"github.com/go-test/deep"
	"github.com/google/go-cmp/cmp"
	"github.com/sirupsen/logrus"

	gameclient "github.com/pitboss/pitboss/internal/client"
	"github.com/pitboss/pitboss/internal/core/client"
	"github.com/pitboss/pitboss/internal/game"
	"github.com/pitboss/pitboss/internal/packets"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

type captureStore struct {
	saved []*Summary
}

func (c *captureStore) SaveGame(_ context.Context, summary *Summary) error {
	c.saved = append(c.saved, summary)
	return nil
}

// scriptedDecisions plays back a fixed list of actions.
type scriptedDecisions struct {
	actions []gameclient.Action
}

func (s *scriptedDecisions) NextAction(int) (gameclient.Action, error) {
	if len(s.actions) == 0 {
		return gameclient.ActionStand, nil
	}
	action := s.actions[0]
	s.actions = s.actions[1:]
	return action, nil
}

// captureSink records the dealer-side events a round produced.
type captureSink struct {
	revealed    bool
	dealerDraws []game.Card
}

func (c *captureSink) RoundStarted(int, int)           {}
func (c *captureSink) DealerCardShown(game.Card)       {}
func (c *captureSink) DealerCardHidden()               {}
func (c *captureSink) PlayerCardDealt(game.Card, int)  {}
func (c *captureSink) DealerCardRevealed(game.Card)    { c.revealed = true }
func (c *captureSink) DealerCardDrawn(card game.Card)  { c.dealerDraws = append(c.dealerDraws, card) }
func (c *captureSink) RoundEnded(int, game.Outcome)    {}

// deckFor builds a deck that deals the given cards in order.
func deckFor(cards ...game.Card) *game.Deck {
	reversed := make([]game.Card, len(cards))
	for i, c := range cards {
		reversed[len(cards)-1-i] = c
	}
	return game.NewStackedDeck(reversed...)
}

// startSession runs a game server session over one end of a pipe and returns
// the peer connection, the store, and a channel carrying Handle's result.
func startSession(t *testing.T, decks ...*game.Deck) (net.Conn, *captureStore, chan error) {
	t.Helper()

	serverConn, clientConn := net.Pipe()
	t.Cleanup(func() {
		serverConn.Close()
		clientConn.Close()
	})

	store := &captureStore{}
	round := 0
	server := &Server{
		Name:   "GAME",
		Logger: testLogger(),
		Store:  store,
		newDeck: func() *game.Deck {
			deck := decks[round]
			round++
			return deck
		},
	}

	errs := make(chan error, 1)
	go func() {
		errs <- server.Handle(context.Background(), client.NewClient(serverConn))
	}()
	return clientConn, store, errs
}

func waitForSession(t *testing.T, errs chan error) error {
	t.Helper()
	select {
	case err := <-errs:
		return err
	case <-time.After(5 * time.Second):
		t.Fatal("session did not finish in time")
		return nil
	}
}

var (
	tenH   = game.Card{Rank: game.Ten, Suit: game.Hearts}
	tenD   = game.Card{Rank: game.Ten, Suit: game.Diamonds}
	tenC   = game.Card{Rank: game.Ten, Suit: game.Clubs}
	nineS  = game.Card{Rank: game.Nine, Suit: game.Spades}
	nineH  = game.Card{Rank: game.Nine, Suit: game.Hearts}
	eightD = game.Card{Rank: game.Eight, Suit: game.Diamonds}
	sevenC = game.Card{Rank: game.Seven, Suit: game.Clubs}
	sixH   = game.Card{Rank: game.Six, Suit: game.Hearts}
	sixD   = game.Card{Rank: game.Six, Suit: game.Diamonds}
	fiveS  = game.Card{Rank: game.Five, Suit: game.Spades}
	fiveD  = game.Card{Rank: game.Five, Suit: game.Diamonds}
)

func TestSessionPlayerStandsAndWins(t *testing.T) {
	// Player 10+9=19 stands; dealer 10+7=17 stands immediately; 19>17.
	conn, store, errs := startSession(t, deckFor(tenH, nineS, tenD, sevenC))

	sink := &captureSink{}
	driver := gameclient.NewDriver(conn, &scriptedDecisions{actions: []gameclient.Action{gameclient.ActionStand}}, sink)

	accepted, err := driver.RequestGame("Foo", 1)
	if err != nil {
		t.Fatalf("RequestGame() returned error: %s", err)
	}
	if !accepted {
		t.Fatal("RequestGame() was rejected")
	}

	stats, err := driver.PlayRounds(1)
	if err != nil {
		t.Fatalf("PlayRounds() returned error: %s", err)
	}
	if stats.PlayerWins != 1 {
		t.Errorf("PlayerWins = %d, want 1", stats.PlayerWins)
	}

	if err := waitForSession(t, errs); err != nil {
		t.Fatalf("session ended with error: %s", err)
	}
	if len(store.saved) != 1 {
		t.Fatalf("store received %d summaries, want 1", len(store.saved))
	}

	summary := store.saved[0]
	if summary.TeamName != "Foo" || summary.NumRounds != 1 {
		t.Errorf("summary team/rounds = %s/%d, want Foo/1", summary.TeamName, summary.NumRounds)
	}
	if summary.PlayerWins != 1 || summary.DealerWins != 0 || summary.Ties != 0 {
		t.Errorf("summary tally = %d/%d/%d, want 1/0/0", summary.PlayerWins, summary.DealerWins, summary.Ties)
	}
	if diff := deep.Equal([][]game.Card{{tenH, nineS}}, summary.PlayerCards); diff != nil {
		t.Errorf("player cards mismatch; diff: %v", diff)
	}
	if diff := deep.Equal([][]game.Card{{tenD, sevenC}}, summary.DealerCards); diff != nil {
		t.Errorf("dealer cards mismatch; diff: %v", diff)
	}
	if len(summary.ResponseTimes) != 1 || len(summary.ResponseTimes[0]) != 1 {
		t.Errorf("response times = %v, want one sample in one round", summary.ResponseTimes)
	}
	if len(summary.PlayerBustRounds) != 0 || len(summary.DealerBustRounds) != 0 {
		t.Errorf("bust rounds = %v/%v, want none", summary.PlayerBustRounds, summary.DealerBustRounds)
	}
}

func TestSessionPlayerBustEndsRoundWithoutDealerTurn(t *testing.T) {
	// Player 10+5=15 hits into a 10 and busts at 25; the dealer never plays.
	conn, store, errs := startSession(t, deckFor(tenH, fiveD, nineH, eightD, tenC))

	sink := &captureSink{}
	driver := gameclient.NewDriver(conn, &scriptedDecisions{actions: []gameclient.Action{gameclient.ActionHit}}, sink)

	if accepted, err := driver.RequestGame("Foo", 1); err != nil || !accepted {
		t.Fatalf("RequestGame() = %v, %v", accepted, err)
	}

	stats, err := driver.PlayRounds(1)
	if err != nil {
		t.Fatalf("PlayRounds() returned error: %s", err)
	}
	if stats.DealerWins != 1 {
		t.Errorf("DealerWins = %d, want 1", stats.DealerWins)
	}
	if sink.revealed {
		t.Error("dealer hole card was revealed after a player bust")
	}

	if err := waitForSession(t, errs); err != nil {
		t.Fatalf("session ended with error: %s", err)
	}

	summary := store.saved[0]
	if diff := cmp.Diff([]int{0}, summary.PlayerBustRounds); diff != "" {
		t.Errorf("player bust rounds mismatch; diff:\n%s", diff)
	}
	if diff := cmp.Diff([][]game.Card{{tenH, fiveD, tenC}}, summary.PlayerCards); diff != "" {
		t.Errorf("player cards mismatch; diff:\n%s", diff)
	}
	// Only the two opening dealer cards exist.
	if got := len(summary.DealerCards[0]); got != 2 {
		t.Errorf("dealer hand has %d cards, want 2", got)
	}
}

func TestSessionDealerDrawsToSeventeen(t *testing.T) {
	// Dealer 6+6=12 must draw; a 5 brings it to exactly 17 and it stands.
	// Player stood at 19, so the player wins.
	conn, store, errs := startSession(t, deckFor(tenH, nineH, sixH, sixD, fiveS))

	sink := &captureSink{}
	driver := gameclient.NewDriver(conn, &scriptedDecisions{}, sink)

	if accepted, err := driver.RequestGame("Foo", 1); err != nil || !accepted {
		t.Fatalf("RequestGame() = %v, %v", accepted, err)
	}
	stats, err := driver.PlayRounds(1)
	if err != nil {
		t.Fatalf("PlayRounds() returned error: %s", err)
	}

	if stats.PlayerWins != 1 {
		t.Errorf("PlayerWins = %d, want 1", stats.PlayerWins)
	}
	if !sink.revealed {
		t.Error("dealer hole card was never revealed")
	}
	if diff := cmp.Diff([]game.Card{fiveS}, sink.dealerDraws); diff != "" {
		t.Errorf("dealer draws mismatch; diff:\n%s", diff)
	}

	if err := waitForSession(t, errs); err != nil {
		t.Fatalf("session ended with error: %s", err)
	}
	if diff := cmp.Diff([][]game.Card{{sixH, sixD, fiveS}}, store.saved[0].DealerCards); diff != "" {
		t.Errorf("dealer cards mismatch; diff:\n%s", diff)
	}
}

func TestSessionDealerBustPaysThePlayer(t *testing.T) {
	// Dealer 10+6=16 draws a 10 and busts at 26.
	conn, store, errs := startSession(t, deckFor(tenH, nineH, tenD, sixD, tenC))

	driver := gameclient.NewDriver(conn, &scriptedDecisions{}, &captureSink{})
	if accepted, err := driver.RequestGame("Foo", 1); err != nil || !accepted {
		t.Fatalf("RequestGame() = %v, %v", accepted, err)
	}
	stats, err := driver.PlayRounds(1)
	if err != nil {
		t.Fatalf("PlayRounds() returned error: %s", err)
	}

	if stats.PlayerWins != 1 {
		t.Errorf("PlayerWins = %d, want 1", stats.PlayerWins)
	}
	if err := waitForSession(t, errs); err != nil {
		t.Fatalf("session ended with error: %s", err)
	}
	if diff := cmp.Diff([]int{0}, store.saved[0].DealerBustRounds); diff != "" {
		t.Errorf("dealer bust rounds mismatch; diff:\n%s", diff)
	}
}

func TestSessionRejectsInvalidRequestsAndKeepsListening(t *testing.T) {
	conn, store, errs := startSession(t, deckFor(tenH, nineH, tenD, sevenC))

	// Zero rounds is rejected.
	if err := packets.WriteFrame(conn, packets.EncodeRequest(0, "Foo")); err != nil {
		t.Fatalf("writing request: %s", err)
	}
	payload, err := packets.ReadFrame(conn, packets.ValidationType, packets.ValidationPayloadSize)
	if err != nil {
		t.Fatalf("reading validation: %s", err)
	}
	if packets.ParseValidation(payload) {
		t.Error("round_count=0 was accepted")
	}

	// An empty team name is rejected too.
	if err := packets.WriteFrame(conn, packets.EncodeRequest(3, "")); err != nil {
		t.Fatalf("writing request: %s", err)
	}
	if payload, err = packets.ReadFrame(conn, packets.ValidationType, packets.ValidationPayloadSize); err != nil {
		t.Fatalf("reading validation: %s", err)
	}
	if packets.ParseValidation(payload) {
		t.Error("empty team name was accepted")
	}

	// The connection is still usable for a corrected request.
	if err := packets.WriteFrame(conn, packets.EncodeRequest(1, "Foo")); err != nil {
		t.Fatalf("writing request: %s", err)
	}
	if payload, err = packets.ReadFrame(conn, packets.ValidationType, packets.ValidationPayloadSize); err != nil {
		t.Fatalf("reading validation: %s", err)
	}
	if !packets.ParseValidation(payload) {
		t.Error("corrected request was rejected")
	}

	// Abandon the game; nothing may be persisted for an interrupted session.
	conn.Close()
	if err := waitForSession(t, errs); err == nil {
		t.Error("session completed despite a dropped connection")
	}
	if len(store.saved) != 0 {
		t.Errorf("store received %d summaries for an interrupted session", len(store.saved))
	}
}

func TestSessionRejectsUnknownActionWithoutAdvancing(t *testing.T) {
	conn, store, errs := startSession(t, deckFor(tenH, nineH, tenD, sevenC))

	if err := packets.WriteFrame(conn, packets.EncodeRequest(1, "Foo")); err != nil {
		t.Fatalf("writing request: %s", err)
	}
	payload, err := packets.ReadFrame(conn, packets.ValidationType, packets.ValidationPayloadSize)
	if err != nil || !packets.ParseValidation(payload) {
		t.Fatalf("handshake failed: %v %v", payload, err)
	}

	// Opening deal: four cards and the initial result.
	for i := 0; i < 4; i++ {
		if _, err := packets.ReadFrame(conn, packets.PayloadType, packets.CardPayloadSize); err != nil {
			t.Fatalf("reading opening card %d: %s", i, err)
		}
	}
	if payload, err = packets.ReadFrame(conn, packets.PayloadType, packets.ResultPayloadSize); err != nil {
		t.Fatalf("reading opening result: %s", err)
	}
	if got := packets.ParseResult(payload); got != game.OutcomeNotOver {
		t.Fatalf("opening result = %v, want %v", got, game.OutcomeNotOver)
	}

	// Garbage action: the server answers invalid and waits again.
	if err := packets.WriteFrame(conn, packets.EncodeResponse("foo")); err != nil {
		t.Fatalf("writing response: %s", err)
	}
	if payload, err = packets.ReadFrame(conn, packets.ValidationType, packets.ValidationPayloadSize); err != nil {
		t.Fatalf("reading validation: %s", err)
	}
	if packets.ParseValidation(payload) {
		t.Error("unknown action was accepted")
	}

	// The same decision point still accepts a valid action, case-insensitively.
	if err := packets.WriteFrame(conn, packets.EncodeResponse("STAND")); err != nil {
		t.Fatalf("writing response: %s", err)
	}
	if _, err := packets.ReadFrame(conn, packets.PayloadType, packets.CardPayloadSize); err != nil {
		t.Fatalf("reading hole card reveal: %s", err)
	}
	if payload, err = packets.ReadFrame(conn, packets.PayloadType, packets.ResultPayloadSize); err != nil {
		t.Fatalf("reading final result: %s", err)
	}
	if got := packets.ParseResult(payload); got != game.OutcomePlayerWin {
		t.Errorf("final result = %v, want %v", got, game.OutcomePlayerWin)
	}

	if err := waitForSession(t, errs); err != nil {
		t.Fatalf("session ended with error: %s", err)
	}
	if len(store.saved) != 1 {
		t.Errorf("store received %d summaries, want 1", len(store.saved))
	}
}

func TestSessionPlaysMultipleRounds(t *testing.T) {
	conn, store, errs := startSession(t,
		deckFor(tenH, nineS, tenD, sevenC), // player 19 beats dealer 17
		deckFor(nineH, eightD, tenC, nineS), // player 17 loses to dealer 19
	)

	driver := gameclient.NewDriver(conn, &scriptedDecisions{}, &captureSink{})
	if accepted, err := driver.RequestGame("Foo", 2); err != nil || !accepted {
		t.Fatalf("RequestGame() = %v, %v", accepted, err)
	}
	stats, err := driver.PlayRounds(2)
	if err != nil {
		t.Fatalf("PlayRounds() returned error: %s", err)
	}

	if stats.PlayerWins != 1 || stats.DealerWins != 1 {
		t.Errorf("stats = %d won / %d lost, want 1/1", stats.PlayerWins, stats.DealerWins)
	}

	if err := waitForSession(t, errs); err != nil {
		t.Fatalf("session ended with error: %s", err)
	}
	summary := store.saved[0]
	if summary.PlayerWins != 1 || summary.DealerWins != 1 || summary.Ties != 0 {
		t.Errorf("summary tally = %d/%d/%d, want 1/1/0", summary.PlayerWins, summary.DealerWins, summary.Ties)
	}
	if len(summary.PlayerCards) != 2 || len(summary.DealerCards) != 2 {
		t.Errorf("summary has %d/%d card rounds, want 2/2", len(summary.PlayerCards), len(summary.DealerCards))
	}
	if summary.TotalGameTime <= 0 {
		t.Errorf("TotalGameTime = %v, want > 0", summary.TotalGameTime)
	}
}
