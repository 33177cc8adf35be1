package main

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	gameclient "github.com/pitboss/pitboss/internal/client"
	"github.com/pitboss/pitboss/internal/game"
)

// terminalPlayer is the keyboard decision source and log-based presentation
// for interactive play.
type terminalPlayer struct {
	logger *logrus.Logger
	stdin  *bufio.Reader
}

func (t *terminalPlayer) prompt(message string) string {
	fmt.Print(message)
	line, err := t.stdin.ReadString('\n')
	if err != nil {
		return ""
	}
	return strings.TrimSpace(line)
}

// NextAction asks the player to hit or stand until an intelligible answer
// comes back.
func (t *terminalPlayer) NextAction(playerSum int) (gameclient.Action, error) {
	for {
		answer := strings.ToLower(t.prompt(fmt.Sprintf("Your sum is %d. Hit (h) / Stand (s): ", playerSum)))
		switch answer {
		case "h", "hit":
			return gameclient.ActionHit, nil
		case "s", "stand":
			return gameclient.ActionStand, nil
		}
		fmt.Println("please type hit or stand")
	}
}

func (t *terminalPlayer) RoundStarted(round, totalRounds int) {
	t.logger.Infof("--- starting round %d of %d ---", round, totalRounds)
}

func (t *terminalPlayer) DealerCardShown(card game.Card) {
	t.logger.Infof("dealer card (visible): %s", card)
}

func (t *terminalPlayer) DealerCardHidden() {
	t.logger.Infof("dealer card (hidden): rank=? suit=?")
}

func (t *terminalPlayer) PlayerCardDealt(card game.Card, sum int) {
	t.logger.Infof("your card: %s (sum %d)", card, sum)
}

func (t *terminalPlayer) DealerCardRevealed(card game.Card) {
	t.logger.Infof("dealer reveals hidden card: %s", card)
}

func (t *terminalPlayer) DealerCardDrawn(card game.Card) {
	t.logger.Infof("dealer drew: %s", card)
}

func (t *terminalPlayer) RoundEnded(round int, outcome game.Outcome) {
	t.logger.Infof("--- round %d ended: %s ---", round, outcome)
}
