// services/player_service.go
package services

import (
	"fmt"

	"github.com/wfunc/bingoserver/models"
	"github.com/wfunc/bingoserver/persistence"
)

// PlayerService is the balance-store collaborator the rooms talk to. Every
// monetary operation delegates to the persistence layer, which applies it
// transactionally.
type PlayerService struct {
	db persistence.Database
}

func NewPlayerService(db persistence.Database) *PlayerService {
	return &PlayerService{db: db}
}

// EnsurePlayer 登录时保证玩家记录存在
func (s *PlayerService) EnsurePlayer(playerID, name string) (*models.PlayerData, error) {
	return s.db.EnsurePlayer(playerID, name)
}

// Debit removes amount from the player's balance. Returns
// persistence.ErrInsufficientFunds (and leaves the balance untouched) when
// the player cannot afford it.
func (s *PlayerService) Debit(playerID string, amount float64) (float64, error) {
	if amount < 0 {
		return 0, fmt.Errorf("debit amount must not be negative: %v", amount)
	}
	return s.db.AdjustBalance(playerID, -amount)
}

// Credit adds amount to the player's balance and returns the new balance.
func (s *PlayerService) Credit(playerID string, amount float64) (float64, error) {
	if amount < 0 {
		return 0, fmt.Errorf("credit amount must not be negative: %v", amount)
	}
	return s.db.AdjustBalance(playerID, amount)
}

// RecordWin 累加玩家胜场
func (s *PlayerService) RecordWin(playerID string) error {
	return s.db.IncrementWins(playerID)
}

// SaveGameRecord archives a finished game.
func (s *PlayerService) SaveGameRecord(record *models.GameRecord) error {
	return s.db.SaveGameRecord(record)
}

// GetPlayerWithStats 获取玩家信息和统计
func (s *PlayerService) GetPlayerWithStats(playerID string) (*models.PlayerData, *models.PlayerStats, error) {
	player, err := s.db.GetPlayer(playerID)
	if err != nil {
		return nil, nil, err
	}
	stats, err := s.db.GetPlayerStats(playerID)
	if err != nil {
		return nil, nil, err
	}
	return player, stats, nil
}
