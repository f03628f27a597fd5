package room

import (
	"github.com/wfunc/bingoserver/models"
)

// Broadcaster delivers lobby-wide notifications (room list changes).
// This is defined here to break the import cycle between room and broadcast.
// Room-scoped fanout never goes through it; the room sends to its own
// members directly.
type Broadcaster interface {
	BroadcastToAll(msgID uint16, data []byte) error
}

// Wallet is the external balance store. The debit is atomic: on
// persistence.ErrInsufficientFunds nothing has been charged.
type Wallet interface {
	Debit(playerID string, amount float64) (newBalance float64, err error)
	Credit(playerID string, amount float64) (newBalance float64, err error)
	RecordWin(playerID string) error
}

// Archive stores finished games. Failures are logged, never fatal.
type Archive interface {
	SaveGameRecord(record *models.GameRecord) error
}

// Stats receives game lifecycle counters. Implemented by the monitor.
type Stats interface {
	GameStarted()
	NumberDrawn()
	BingoWon()
}
