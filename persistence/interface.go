// persistence/interface.go
package persistence

import (
	"fmt"

	"github.com/wfunc/bingoserver/models"
)

// Database 数据库接口
// Both the GORM and the database/sql implementations satisfy it; the balance
// operations are transactional so a debit can never partially apply.
type Database interface {
	GetPlayer(playerID string) (*models.PlayerData, error)
	EnsurePlayer(playerID, name string) (*models.PlayerData, error)
	AdjustBalance(playerID string, delta float64) (float64, error)
	IncrementWins(playerID string) error
	SaveGameRecord(record *models.GameRecord) error
	GetPlayerStats(playerID string) (*models.PlayerStats, error)
	Close() error
}

// 错误定义
var (
	ErrRecordNotFound    = fmt.Errorf("record not found")
	ErrInsufficientFunds = fmt.Errorf("insufficient funds")
)
