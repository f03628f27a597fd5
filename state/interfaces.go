// state/interfaces.go
package state

// RoomContext defines the interface a Room must implement to be driven by the
// game states. This breaks the import cycle between room and state. Every
// method is invoked while the room's lock is held; implementations must not
// re-acquire it.
type RoomContext interface {
	GetID() string

	// BeginTurn clears every player's one-mark-per-draw flag.
	BeginTurn()

	// DrawNumber picks one unused number, records and announces it. ok is
	// false once the draw cap or the number pool is exhausted.
	DrawNumber() (num int, ok bool)

	// FinishExhausted ends the running game with no winner.
	FinishExhausted()

	// FinishReset clears the finished game and returns the room to the lobby.
	FinishReset()
}
