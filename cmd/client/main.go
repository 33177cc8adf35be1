// The client command discovers a game server on the local network and plays
// an interactive game against it from the terminal.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	gameclient "github.com/pitboss/pitboss/internal/client"
	"github.com/pitboss/pitboss/internal/discovery"
)

var (
	discoveryPortFlag = flag.Int("discovery-port", 13122, "UDP port to listen on for server offers")
	teamFlag          = flag.String("team", "", "Team name (prompted for if empty)")
	roundsFlag        = flag.Int("rounds", 0, "Number of rounds to play (prompted for if 0)")
)

func main() {
	flag.Parse()

	logger := &logrus.Logger{
		Out: os.Stdout,
		Formatter: &logrus.TextFormatter{
			TimestampFormat: "2006-01-02 15:04:05",
			FullTimestamp:   true,
			DisableSorting:  true,
		},
		Hooks: make(logrus.LevelHooks),
		Level: logrus.InfoLevel,
	}

	if err := run(logger); err != nil {
		logger.Errorf("%v", err)
		os.Exit(1)
	}
}

func run(logger *logrus.Logger) error {
	logger.Infof("listening for server offers on UDP port %d...", *discoveryPortFlag)

	server, err := discovery.Listen(context.Background(), *discoveryPortFlag)
	if err != nil {
		return fmt.Errorf("discovering server: %w", err)
	}
	logger.Infof("received offer from %q at %s", server.Name, server.Addr())

	conn, err := net.Dial("tcp", server.Addr())
	if err != nil {
		return fmt.Errorf("connecting to %s: %w", server.Addr(), err)
	}
	defer conn.Close()
	logger.Infof("connected to %s", server.Addr())

	stdin := bufio.NewReader(os.Stdin)
	terminal := &terminalPlayer{logger: logger, stdin: stdin}
	driver := gameclient.NewDriver(conn, terminal, terminal)

	team, rounds, err := negotiateSettings(driver, terminal, logger)
	if err != nil {
		return err
	}

	logger.Infof("--- game started for team %s with %d rounds ---", team, rounds)
	stats, err := driver.PlayRounds(rounds)
	if err != nil {
		return fmt.Errorf("playing game: %w", err)
	}

	logger.Infof("--- finished %d rounds: %d won, %d lost, %d tied (win rate %.2f) ---",
		rounds, stats.PlayerWins, stats.DealerWins, stats.Ties, stats.WinRate(rounds))
	return nil
}

// negotiateSettings sends game requests until the server validates one,
// re-prompting on rejection.
func negotiateSettings(driver *gameclient.Driver, terminal *terminalPlayer, logger *logrus.Logger) (string, int, error) {
	for {
		team := *teamFlag
		rounds := *roundsFlag

		if team == "" {
			team = terminal.prompt("Team name (1-32 chars): ")
		}
		if rounds == 0 {
			answer := terminal.prompt("Number of rounds (1-255): ")
			parsed, err := strconv.Atoi(strings.TrimSpace(answer))
			if err != nil {
				logger.Warnf("not a number: %q", answer)
				continue
			}
			rounds = parsed
		}

		accepted, err := driver.RequestGame(team, rounds)
		if err != nil {
			return "", 0, fmt.Errorf("requesting game: %w", err)
		}
		if !accepted {
			logger.Warnf("server rejected team name or round count, try again")
			// Flag-provided settings were rejected; fall back to prompting.
			*teamFlag, *roundsFlag = "", 0
			continue
		}
		return team, rounds, nil
	}
}
