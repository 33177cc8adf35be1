package data

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/pitboss/pitboss/internal/game"
)

// GameRecord is the persisted summary of one fully completed game. Only games
// that ran all of their rounds are recorded; interrupted sessions are never
// written.
//
// The per-round collections are stored as JSON columns: sqlite has no native
// array type and nothing queries into individual rounds, so a single document
// per side keeps the schema flat.
type GameRecord struct {
	ID        uint64 `gorm:"primaryKey"`
	SessionID string `gorm:"uniqueIndex;not null"`
	TeamName  string `gorm:"index;not null"`
	NumRounds int    `gorm:"not null"`

	PlayerWins int
	DealerWins int
	Ties       int

	// JSON: one array of {rank, suit} objects per round.
	PlayerCards string
	DealerCards string
	// JSON: zero-based indexes of the rounds in which that side busted.
	PlayerBustRounds string
	DealerBustRounds string
	// JSON: one array of per-decision response times (seconds) per round.
	ResponseTimes string

	TotalGameSeconds float64
	CreatedAt        time.Time
}

type cardDocument struct {
	Rank string `json:"rank"`
	Suit string `json:"suit"`
}

// MarshalCardRounds encodes per-round card lists into the JSON layout used by
// the card columns.
func MarshalCardRounds(rounds [][]game.Card) (string, error) {
	docs := make([][]cardDocument, len(rounds))
	for i, cards := range rounds {
		docs[i] = make([]cardDocument, len(cards))
		for j, c := range cards {
			docs[i][j] = cardDocument{Rank: c.RankName(), Suit: c.SuitName()}
		}
	}
	b, err := json.Marshal(docs)
	if err != nil {
		return "", fmt.Errorf("marshaling card rounds: %w", err)
	}
	return string(b), nil
}

// UnmarshalCardRounds decodes a card column back into per-round card lists.
func UnmarshalCardRounds(column string) ([][]game.Card, error) {
	var docs [][]cardDocument
	if err := json.Unmarshal([]byte(column), &docs); err != nil {
		return nil, fmt.Errorf("unmarshaling card rounds: %w", err)
	}
	rounds := make([][]game.Card, len(docs))
	for i, cards := range docs {
		rounds[i] = make([]game.Card, len(cards))
		for j, doc := range cards {
			card, err := game.CardFromNames(doc.Rank, doc.Suit)
			if err != nil {
				return nil, err
			}
			rounds[i][j] = card
		}
	}
	return rounds, nil
}

// MarshalIntSlice encodes a bust-round index list for storage.
func MarshalIntSlice(v []int) (string, error) {
	if v == nil {
		v = []int{}
	}
	b, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("marshaling index list: %w", err)
	}
	return string(b), nil
}

// UnmarshalIntSlice decodes a bust-round index column.
func UnmarshalIntSlice(column string) ([]int, error) {
	var v []int
	if err := json.Unmarshal([]byte(column), &v); err != nil {
		return nil, fmt.Errorf("unmarshaling index list: %w", err)
	}
	return v, nil
}

// MarshalResponseTimes encodes per-round response time samples (in seconds).
func MarshalResponseTimes(rounds [][]float64) (string, error) {
	if rounds == nil {
		rounds = [][]float64{}
	}
	b, err := json.Marshal(rounds)
	if err != nil {
		return "", fmt.Errorf("marshaling response times: %w", err)
	}
	return string(b), nil
}

// UnmarshalResponseTimes decodes the response time column.
func UnmarshalResponseTimes(column string) ([][]float64, error) {
	var v [][]float64
	if err := json.Unmarshal([]byte(column), &v); err != nil {
		return nil, fmt.Errorf("unmarshaling response times: %w", err)
	}
	return v, nil
}

// CreateGameRecord persists the GameRecord to the database.
func CreateGameRecord(db *gorm.DB, record *GameRecord) error {
	return db.Create(record).Error
}

// FindGameRecordsByTeam returns every recorded game for the given team name,
// oldest first.
func FindGameRecordsByTeam(db *gorm.DB, teamName string) ([]GameRecord, error) {
	var records []GameRecord
	err := db.Where("team_name = ?", teamName).Order("id").Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

// FindGameRecordBySessionID returns the record for a session, or nil if the
// session was never persisted.
func FindGameRecordBySessionID(db *gorm.DB, sessionID string) (*GameRecord, error) {
	var record GameRecord
	err := db.Where("session_id = ?", sessionID).First(&record).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &record, nil
}

// AllGameRecords returns every recorded game, oldest first.
func AllGameRecords(db *gorm.DB) ([]GameRecord, error) {
	var records []GameRecord
	if err := db.Order("id").Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}
