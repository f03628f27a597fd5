// models/gorm_models.go
package models

import (
	"gorm.io/gorm"
)

// GormPlayer 玩家模型
type GormPlayer struct {
	gorm.Model
	PlayerID string  `gorm:"uniqueIndex;not null"`
	Name     string  `gorm:"not null"`
	Balance  float64 `gorm:"default:50"`
	Wins     int     `gorm:"default:0"`
}

// GormGameRecord 游戏记录模型
type GormGameRecord struct {
	gorm.Model
	RoomID       string  `gorm:"index;not null"`
	RoomName     string  `gorm:"not null"`
	WinnerID     string  `gorm:"index"`
	WinnerName   string
	Pattern      string
	PrizeAmount  float64 `gorm:"default:0"`
	NumbersDrawn int     `gorm:"default:0"`
	PlayerCount  int     `gorm:"default:0"`
}

// PlayerStats 玩家统计信息
type PlayerStats struct {
	TotalGames int     `json:"total_games"`
	Wins       int     `json:"wins"`
	Balance    float64 `json:"balance"`
}
