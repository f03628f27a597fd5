// models/models.go
package models

import (
	"time"
)

// PlayerData 玩家数据模型
type PlayerData struct {
	PlayerID  string    `json:"player_id"`
	Name      string    `json:"name"`
	Balance   float64   `json:"balance"`
	Wins      int       `json:"wins"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Card is one 5x5 bingo card, stored column-major the way clients send it.
// The centre cell (col3, row 3) is the free space; its face value is ignored.
type Card struct {
	Col1 []int `json:"col1"`
	Col2 []int `json:"col2"`
	Col3 []int `json:"col3"`
	Col4 []int `json:"col4"`
	Col5 []int `json:"col5"`
}

// Value returns the face value at the given 1-based column and row.
func (c Card) Value(col, row int) (int, bool) {
	if col < 1 || col > 5 || row < 1 || row > 5 {
		return 0, false
	}
	var column []int
	switch col {
	case 1:
		column = c.Col1
	case 2:
		column = c.Col2
	case 3:
		column = c.Col3
	case 4:
		column = c.Col4
	case 5:
		column = c.Col5
	}
	if row > len(column) {
		return 0, false
	}
	return column[row-1], true
}

// RoomSummary 房间概要，用于大厅列表与全局通知
type RoomSummary struct {
	ID                 string  `json:"id"`
	Name               string  `json:"name"`
	CurrentPlayerCount int     `json:"currentPlayerCount"`
	MaxPlayers         int     `json:"maxPlayers"`
	PrizeAmount        float64 `json:"prizeAmount"`
	MinPlayersToStart  int     `json:"minPlayersToStart"`
	IsRunning          bool    `json:"isRunning"`
}

// GameRecord 游戏记录模型
type GameRecord struct {
	RoomID       string    `json:"room_id"`
	RoomName     string    `json:"room_name"`
	WinnerID     string    `json:"winner_id"`
	WinnerName   string    `json:"winner_name"`
	Pattern      string    `json:"pattern"`
	PrizeAmount  float64   `json:"prize_amount"`
	NumbersDrawn int       `json:"numbers_drawn"`
	PlayerCount  int       `json:"player_count"`
	CreatedAt    time.Time `json:"created_at"`
}
