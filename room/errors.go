package room

import "errors"

// Rejection reasons for client actions. The server maps these to failure
// events for the requester; none of them mutate room state.
var (
	ErrRoomFull          = errors.New("room is full")
	ErrGameRunning       = errors.New("game already running")
	ErrGameNotRunning    = errors.New("game not running")
	ErrNotInRoom         = errors.New("player not in room")
	ErrInvalidCost       = errors.New("invalid total cost")
	ErrNoCards           = errors.New("no card data with cost")
	ErrAlreadyReady      = errors.New("player already ready")
	ErrNumberNotDrawn    = errors.New("number not drawn")
	ErrInvalidCell       = errors.New("invalid cell identifier")
	ErrCellAlreadyMarked = errors.New("cell already marked")
	ErrCellMismatch      = errors.New("cell does not contain number")
	ErrAlreadyMarked     = errors.New("already marked this turn")
	ErrNoBingo           = errors.New("no winning pattern on card")
	ErrEmptyMessage      = errors.New("empty chat message")
)
