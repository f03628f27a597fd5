package state

import (
	"time"

	"github.com/wfunc/bingoserver/logger"
)

// PlayingState 游戏进行状态
// Each tick it accumulates time; every draw interval it opens a new turn and
// draws one number. Exhaustion of the pool or the draw cap ends the game with
// no winner. A win detected by a client action leaves this state through the
// room, never from here.
type PlayingState struct {
	RoomStateBase
	DrawInterval time.Duration
	Tick         time.Duration
	untilDraw    time.Duration
}

// NewPlayingState 创建新的游戏状态
func NewPlayingState(room RoomContext, drawInterval, tick time.Duration) *PlayingState {
	return &PlayingState{
		RoomStateBase: RoomStateBase{
			ID:   "playing",
			Room: room,
		},
		DrawInterval: drawInterval,
		Tick:         tick,
		untilDraw:    drawInterval,
	}
}

// OnEnter 进入游戏状态
func (s *PlayingState) OnEnter() {
	logger.Log.Infof("房间 %s 进入游戏状态，抽号间隔: %v", s.Room.GetID(), s.DrawInterval)
}

// OnExit 退出游戏状态
func (s *PlayingState) OnExit() {
	logger.Log.Infof("房间 %s 退出游戏状态", s.Room.GetID())
}

// OnUpdate advances the draw clock by one tick.
func (s *PlayingState) OnUpdate() {
	s.untilDraw -= s.Tick
	if s.untilDraw > 0 {
		return
	}
	s.untilDraw = s.DrawInterval

	// A new turn begins: everyone may mark again.
	s.Room.BeginTurn()

	if _, ok := s.Room.DrawNumber(); !ok {
		logger.Log.Infof("房间 %s 号码抽完，游戏结束", s.Room.GetID())
		s.Room.FinishExhausted()
	}
}

// EndingState 结算状态：倒计时结束后重置房间回到大厅
type EndingState struct {
	RoomStateBase
	Delay     time.Duration
	Tick      time.Duration
	remaining time.Duration
}

// NewEndingState creates the post-game countdown state.
func NewEndingState(room RoomContext, delay, tick time.Duration) *EndingState {
	return &EndingState{
		RoomStateBase: RoomStateBase{
			ID:   "ending",
			Room: room,
		},
		Delay:     delay,
		Tick:      tick,
		remaining: delay,
	}
}

func (s *EndingState) OnEnter() {
	logger.Log.Infof("房间 %s 进入结算状态，%v 后重置", s.Room.GetID(), s.Delay)
}

func (s *EndingState) OnUpdate() {
	s.remaining -= s.Tick
	if s.remaining > 0 {
		return
	}
	s.Room.FinishReset()
}
