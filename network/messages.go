package network

import (
	"github.com/wfunc/bingoserver/models"
)

// Client requests. Each message ID maps to exactly one payload type; the
// server decodes strictly before any room logic sees the request.

type CreateRoomRequest struct {
	Name              string  `json:"name"`
	MaxPlayers        int     `json:"maxPlayers"`
	PrizeAmount       float64 `json:"prizeAmount"`
	MinPlayersToStart int     `json:"minPlayersToStart"`
}

type JoinRoomRequest struct {
	RoomID string `json:"roomId"`
}

type ReadyToPlayRequest struct {
	Cards     map[string]models.Card `json:"cards"`
	TotalCost float64                `json:"totalCost"`
}

type MarkAttemptRequest struct {
	Number int    `json:"number"`
	CellID string `json:"cellId"`
}

type RoomChatRequest struct {
	Message string `json:"message"`
}

// Requester-scoped responses.

type RoomCreatedMsg struct {
	RoomID      string             `json:"roomId"`
	RoomDetails models.RoomSummary `json:"roomDetails"`
}

type FailureMsg struct {
	RoomID string `json:"roomId,omitempty"`
	Reason string `json:"reason"`
}

type RoomsListMsg struct {
	Rooms []models.RoomSummary `json:"rooms"`
}

type JoinedRoomMsg struct {
	RoomID      string             `json:"roomId"`
	RoomDetails models.RoomSummary `json:"roomDetails"`
	Restored    bool               `json:"restored,omitempty"`
}

type BalanceUpdatedMsg struct {
	NewBalance float64 `json:"newBalance"`
}

type MarkApprovedMsg struct {
	RoomID string `json:"roomId"`
	Number int    `json:"number"`
	CellID string `json:"cellId"`
}

type RestoreDataMsg struct {
	RoomID      string                 `json:"roomId"`
	Cards       map[string]models.Card `json:"cards"`
	MarkedCells []string               `json:"markedCells"`
}

// Room broadcasts.

type PlayerJoinedMsg struct {
	RoomID      string `json:"roomId"`
	SessionID   string `json:"sessionId"`
	Name        string `json:"name"`
	PlayerCount int    `json:"playerCount"`
}

type PlayerLeftMsg struct {
	RoomID      string `json:"roomId"`
	SessionID   string `json:"sessionId"`
	Name        string `json:"name"`
	PlayerCount int    `json:"playerCount"`
}

type PlayerReadyMsg struct {
	RoomID      string `json:"roomId"`
	Name        string `json:"name"`
	ReadyCount  int    `json:"readyCount"`
	PlayerCount int    `json:"playerCount"`
}

type GameStartedMsg struct {
	RoomID string `json:"roomId"`
}

type NewNumberMsg struct {
	RoomID string `json:"roomId"`
	Number int    `json:"number"`
}

type GameWonMsg struct {
	RoomID         string   `json:"roomId"`
	WinnerID       string   `json:"winnerId"`
	WinnerName     string   `json:"winnerName"`
	WinningPattern string   `json:"winningPattern,omitempty"`
	WinningCells   []string `json:"winningCells,omitempty"`
	PrizeAmount    float64  `json:"prizeAmount"`
	NewBalance     *float64 `json:"newBalance,omitempty"`
}

type GameEndedMsg struct {
	RoomID string `json:"roomId"`
	Reason string `json:"reason"`
}

type GameStateMsg struct {
	RoomID       string `json:"roomId"`
	IsRunning    bool   `json:"isRunning"`
	DrawnNumbers []int  `json:"drawnNumbers"`
	PlayerCount  int    `json:"playerCount"`
	ReadyCount   int    `json:"readyCount"`
}

type GameResetMsg struct {
	RoomID string `json:"roomId"`
}

type NewHostMsg struct {
	RoomID   string `json:"roomId"`
	HostID   string `json:"hostId"`
	HostName string `json:"hostName"`
}

type RoomChatMsg struct {
	RoomID    string `json:"roomId"`
	Name      string `json:"name"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

// Global broadcasts.

type NewRoomAvailableMsg struct {
	Room models.RoomSummary `json:"room"`
}

type RoomUpdatedMsg struct {
	Room models.RoomSummary `json:"room"`
}

type RoomClosedMsg struct {
	RoomID string `json:"roomId"`
}
