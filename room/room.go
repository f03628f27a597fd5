// room/room.go
package room

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/wfunc/bingoserver/logger"
	"github.com/wfunc/bingoserver/models"
	"github.com/wfunc/bingoserver/network"
	"github.com/wfunc/bingoserver/session"
	"github.com/wfunc/bingoserver/state"
)

// bingo numbers run 1..75
const numberPoolSize = 75

// RoomStatus 表示房间的业务状态
type RoomStatus int

const (
	StatusLobby RoomStatus = iota
	StatusStarting
	StatusRunning
	StatusEnding
)

// Rules carries the pacing parameters every room runs with.
type Rules struct {
	TickInterval      time.Duration
	DrawInterval      time.Duration
	MaxDraws          int
	PostEndDelay      time.Duration
	DefaultMaxPlayers int
	DefaultPrize      float64
}

// DefaultRules matches the production pacing: one number every 4 seconds,
// at most 50 draws, 10 seconds between game end and lobby reset.
func DefaultRules() Rules {
	return Rules{
		TickInterval:      100 * time.Millisecond,
		DrawInterval:      4 * time.Second,
		MaxDraws:          50,
		PostEndDelay:      10 * time.Second,
		DefaultMaxPlayers: 10,
		DefaultPrize:      10,
	}
}

// PlayerState 房间内单个连接的游戏状态
type PlayerState struct {
	Session        *session.Session
	PlayerID       string
	Name           string
	Cards          map[string]models.Card
	MarkedCells    map[string]bool
	MarkedThisTurn bool
	HasPaid        bool
}

// Room 是游戏房间的核心结构
// One mutex serialises every client action and every scheduler tick; nothing
// reads or writes game state without it.
type Room struct {
	ID                string
	Name              string
	MaxPlayers        int
	PrizeAmount       float64
	MinPlayersToStart int
	HostID            string
	CreatedAt         time.Time

	status       RoomStatus
	players      map[string]*PlayerState // sessionID -> state
	drawnNumbers []int
	readyCount   int
	emptySince   time.Time

	machine     state.StateMachine
	rules       Rules
	broadcaster Broadcaster
	wallet      Wallet
	archive     Archive
	stats       Stats

	mu        sync.Mutex
	ticker    *time.Ticker
	closeChan chan struct{}
	closeOnce sync.Once
}

// NewRoom 创建一个新房间并启动其心跳循环
func NewRoom(id, name string, maxPlayers int, prizeAmount float64, minPlayers int, hostID string,
	rules Rules, broadcaster Broadcaster, wallet Wallet, archive Archive, stats Stats) *Room {

	room := &Room{
		ID:                id,
		Name:              name,
		MaxPlayers:        maxPlayers,
		PrizeAmount:       prizeAmount,
		MinPlayersToStart: minPlayers,
		HostID:            hostID,
		CreatedAt:         time.Now(),
		emptySince:        time.Now(),
		status:            StatusLobby,
		players:           make(map[string]*PlayerState),
		rules:             rules,
		broadcaster:       broadcaster,
		wallet:            wallet,
		archive:           archive,
		stats:             stats,
		closeChan:         make(chan struct{}),
	}

	// 初始化状态机，将房间自身(room)作为上下文传入
	room.machine = state.NewBaseStateMachine(state.NewLobbyState(room))

	// 启动房间心跳
	room.ticker = time.NewTicker(rules.TickInterval)
	go room.loop()

	return room
}

// --- 实现 state.RoomContext 接口（调用方已持有 r.mu） ---

// GetID 返回房间ID
func (r *Room) GetID() string {
	return r.ID
}

// BeginTurn 开启新回合：每个玩家本回合都还没标记
func (r *Room) BeginTurn() {
	for _, p := range r.players {
		p.MarkedThisTurn = false
	}
}

// DrawNumber picks one unused number by rejection sampling, records it and
// announces it to the room. ok is false once the draw cap or the pool is
// exhausted.
func (r *Room) DrawNumber() (int, bool) {
	if len(r.drawnNumbers) >= r.rules.MaxDraws || len(r.drawnNumbers) >= numberPoolSize {
		return 0, false
	}

	num := drawFrom(r.drawnNumbers)
	r.drawnNumbers = append(r.drawnNumbers, num)

	logger.Log.Infof("房间 %s 抽出号码 %d (%d/%d)", r.ID, num, len(r.drawnNumbers), r.rules.MaxDraws)
	if r.stats != nil {
		r.stats.NumberDrawn()
	}
	r.broadcastRoom(network.MsgTypeNewNumber, network.NewNumberMsg{RoomID: r.ID, Number: num})
	return num, true
}

// FinishExhausted ends the running game with no winner.
func (r *Room) FinishExhausted() {
	if r.status != StatusRunning {
		// A stale tick after the game already ended; ignore.
		return
	}
	r.endGame("All numbers drawn", r.rules.PostEndDelay)
}

// FinishReset clears the finished game and returns the room to the lobby.
func (r *Room) FinishReset() {
	r.resetGame()
}

// --- 房间核心逻辑 ---

// Status 获取房间的业务状态
func (r *Room) Status() RoomStatus {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.status
}

// IsRunning reports whether a game is in progress (including the instant of
// starting).
func (r *Room) IsRunning() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.isRunningLocked()
}

func (r *Room) isRunningLocked() bool {
	return r.status == StatusRunning || r.status == StatusStarting
}

// PlayerCount returns the current room population.
func (r *Room) PlayerCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.players)
}

// IdleSince reports when the room last became empty. ok is false while the
// room is occupied.
func (r *Room) IdleSince() (time.Time, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.players) > 0 {
		return time.Time{}, false
	}
	return r.emptySince, true
}

// DrawnNumbers returns a copy of the draw history.
func (r *Room) DrawnNumbers() []int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]int(nil), r.drawnNumbers...)
}

// Summary 房间概要，用于大厅列表与全局通知
func (r *Room) Summary() models.RoomSummary {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.summaryLocked()
}

func (r *Room) summaryLocked() models.RoomSummary {
	return models.RoomSummary{
		ID:                 r.ID,
		Name:               r.Name,
		CurrentPlayerCount: len(r.players),
		MaxPlayers:         r.MaxPlayers,
		PrizeAmount:        r.PrizeAmount,
		MinPlayersToStart:  r.MinPlayersToStart,
		IsRunning:          r.isRunningLocked(),
	}
}

// loop 是房间的主循环，定时驱动状态更新
func (r *Room) loop() {
	for {
		select {
		case <-r.ticker.C:
			r.Update()
		case <-r.closeChan:
			r.ticker.Stop()
			return
		}
	}
}

// Update 由主循环调用，驱动状态机更新
// Taking the room mutex here is what serialises scheduler ticks against
// client actions.
func (r *Room) Update() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if current := r.machine.GetCurrentState(); current != nil {
		current.OnUpdate()
	}
}

// Close 关闭房间，停止主循环
func (r *Room) Close() {
	r.closeOnce.Do(func() {
		close(r.closeChan)
	})
}

// --- 房间内广播（调用方已持有 r.mu） ---

func (r *Room) broadcastRoom(msgID uint16, v interface{}) {
	r.broadcastExcept("", msgID, v)
}

func (r *Room) broadcastExcept(excludeSessionID string, msgID uint16, v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		logger.Log.Errorf("房间 %s 广播消息编码失败: %v", r.ID, err)
		return
	}
	for sessionID, p := range r.players {
		if sessionID == excludeSessionID {
			continue
		}
		if err := p.Session.Send(msgID, data); err != nil {
			// 发送失败由连接层的断开处理收尾
			continue
		}
	}
}

// notifyLobby publishes a global (all sessions) notification.
func (r *Room) notifyLobby(msgID uint16, v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		logger.Log.Errorf("房间 %s 全局消息编码失败: %v", r.ID, err)
		return
	}
	if err := r.broadcaster.BroadcastToAll(msgID, data); err != nil {
		logger.Log.Warnf("房间 %s 全局广播失败: %v", r.ID, err)
	}
}
