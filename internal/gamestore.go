package internal

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/pitboss/pitboss/internal/blackjack"
	"github.com/pitboss/pitboss/internal/core/data"
)

// gameStore adapts the database layer to the game server's Store interface.
type gameStore struct {
	db *gorm.DB
}

func (s *gameStore) SaveGame(ctx context.Context, summary *blackjack.Summary) error {
	record, err := recordFromSummary(summary)
	if err != nil {
		return err
	}
	if err := data.CreateGameRecord(s.db.WithContext(ctx), record); err != nil {
		return fmt.Errorf("persisting game %s: %w", summary.SessionID, err)
	}
	return nil
}

func recordFromSummary(summary *blackjack.Summary) (*data.GameRecord, error) {
	playerCards, err := data.MarshalCardRounds(summary.PlayerCards)
	if err != nil {
		return nil, err
	}
	dealerCards, err := data.MarshalCardRounds(summary.DealerCards)
	if err != nil {
		return nil, err
	}
	playerBusts, err := data.MarshalIntSlice(summary.PlayerBustRounds)
	if err != nil {
		return nil, err
	}
	dealerBusts, err := data.MarshalIntSlice(summary.DealerBustRounds)
	if err != nil {
		return nil, err
	}

	responseTimes := make([][]float64, len(summary.ResponseTimes))
	for i, samples := range summary.ResponseTimes {
		responseTimes[i] = make([]float64, len(samples))
		for j, sample := range samples {
			responseTimes[i][j] = sample.Seconds()
		}
	}
	responseTimesColumn, err := data.MarshalResponseTimes(responseTimes)
	if err != nil {
		return nil, err
	}

	return &data.GameRecord{
		SessionID:        summary.SessionID.String(),
		TeamName:         summary.TeamName,
		NumRounds:        summary.NumRounds,
		PlayerWins:       summary.PlayerWins,
		DealerWins:       summary.DealerWins,
		Ties:             summary.Ties,
		PlayerCards:      playerCards,
		DealerCards:      dealerCards,
		PlayerBustRounds: playerBusts,
		DealerBustRounds: dealerBusts,
		ResponseTimes:    responseTimesColumn,
		TotalGameSeconds: summary.TotalGameTime.Seconds(),
	}, nil
}
