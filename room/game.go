// room/game.go
package room

import (
	"errors"
	"html"
	"math/rand"
	"strconv"
	"strings"
	"time"

	"github.com/wfunc/bingoserver/logger"
	"github.com/wfunc/bingoserver/models"
	"github.com/wfunc/bingoserver/network"
	"github.com/wfunc/bingoserver/pattern"
	"github.com/wfunc/bingoserver/persistence"
	"github.com/wfunc/bingoserver/session"
	"github.com/wfunc/bingoserver/state"
)

// drawFrom 拒绝采样：在 1..75 中随机挑一个未出现过的号码
// The caller guarantees the pool is not exhausted.
func drawFrom(drawn []int) int {
	used := make(map[int]bool, len(drawn))
	for _, n := range drawn {
		used[n] = true
	}
	for {
		num := rand.Intn(numberPoolSize) + 1
		if !used[num] {
			return num
		}
	}
}

// parseCellID splits "cardN-<col><row>" into its card id and coordinates.
// Columns and rows run 1..5.
func parseCellID(cellID string) (cardID string, col, row int, ok bool) {
	idx := strings.LastIndex(cellID, "-")
	if idx <= 0 || idx != len(cellID)-3 {
		return "", 0, 0, false
	}
	cardID = cellID[:idx]
	if !strings.HasPrefix(cardID, "card") {
		return "", 0, 0, false
	}
	col, errC := strconv.Atoi(cellID[idx+1 : idx+2])
	row, errR := strconv.Atoi(cellID[idx+2:])
	if errC != nil || errR != nil || col < 1 || col > 5 || row < 1 || row > 5 {
		return "", 0, 0, false
	}
	return cardID, col, row, true
}

// markedCellsOf collects the coordinate parts of one card's marked cells.
func markedCellsOf(p *PlayerState, cardID string) []string {
	prefix := cardID + "-"
	var cells []string
	for cell, marked := range p.MarkedCells {
		if marked && strings.HasPrefix(cell, prefix) {
			cells = append(cells, strings.TrimPrefix(cell, prefix))
		}
	}
	return cells
}

// prefixCells restores the cardN- prefix the client uses on every cell id.
func prefixCells(cardID string, cells []string) []string {
	out := make([]string, 0, len(cells))
	for _, c := range cells {
		out = append(out, cardID+"-"+c)
	}
	return out
}

// Join adds a session to the room, or reattaches it to an existing player
// state when the same player identity reconnects. restored reports the
// reattach case.
func (r *Room) Join(sess *session.Session) (restored bool, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	// 断线重连：同一玩家ID直接接管原有状态，不占用新名额
	for _, p := range r.players {
		if p.PlayerID == sess.PlayerID {
			delete(r.players, p.Session.ID)
			p.Session = sess
			r.players[sess.ID] = p
			logger.Log.Infof("玩家 %s 重连房间 %s", p.PlayerID, r.ID)
			return true, nil
		}
	}

	if len(r.players) >= r.MaxPlayers {
		return false, ErrRoomFull
	}

	p := &PlayerState{
		Session:     sess,
		PlayerID:    sess.PlayerID,
		Name:        sess.Name,
		Cards:       make(map[string]models.Card),
		MarkedCells: make(map[string]bool),
	}
	r.players[sess.ID] = p
	r.emptySince = time.Time{}
	// 创建者可能从未加入；房主缺席时由新加入的玩家接任
	if !r.hostPresentLocked() {
		r.HostID = p.PlayerID
	}

	r.broadcastExcept(sess.ID, network.MsgTypePlayerJoinedRoom, network.PlayerJoinedMsg{
		RoomID:      r.ID,
		SessionID:   sess.ID,
		Name:        p.Name,
		PlayerCount: len(r.players),
	})
	r.notifyLobby(network.MsgTypeRoomUpdated, network.RoomUpdatedMsg{Room: r.summaryLocked()})

	// 游戏进行中加入的玩家先旁观，发送当前局面
	if r.isRunningLocked() {
		sess.SendJSON(network.MsgTypeGameState, r.gameStateLocked())
	}
	return false, nil
}

// Ready pays for a set of cards and flags the player ready. When the ready
// threshold is met the game starts inside this same critical section, so two
// concurrent readies can never both trigger the start.
func (r *Room) Ready(sessionID string, cards map[string]models.Card, totalCost float64) (newBalance float64, started bool, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.players[sessionID]
	if !ok {
		return 0, false, ErrNotInRoom
	}
	if r.isRunningLocked() {
		return 0, false, ErrGameRunning
	}
	if p.HasPaid {
		return 0, false, ErrAlreadyReady
	}
	// 免费入场（totalCost为0）是合法的，只拒绝负数和有费用却没有卡片的请求
	if totalCost < 0 {
		return 0, false, ErrInvalidCost
	}
	if totalCost > 0 && len(cards) == 0 {
		return 0, false, ErrNoCards
	}

	// 扣费在房间锁内完成，失败时房间状态保持不变
	newBalance, err = r.wallet.Debit(p.PlayerID, totalCost)
	if err != nil {
		if errors.Is(err, persistence.ErrInsufficientFunds) {
			return 0, false, err
		}
		logger.Log.Errorf("玩家 %s 扣费失败: %v", p.PlayerID, err)
		return 0, false, err
	}

	p.Cards = cards
	p.MarkedCells = make(map[string]bool)
	p.HasPaid = true
	r.readyCount++

	r.broadcastRoom(network.MsgTypePlayerReady, network.PlayerReadyMsg{
		RoomID:      r.ID,
		Name:        p.Name,
		ReadyCount:  r.readyCount,
		PlayerCount: len(r.players),
	})

	if r.readyCount >= r.MinPlayersToStart {
		r.startGame()
		started = true
	}
	return newBalance, started, nil
}

// startGame 开始新一局（调用方已持有 r.mu）
func (r *Room) startGame() {
	r.status = StatusStarting
	r.drawnNumbers = nil
	for _, p := range r.players {
		p.MarkedCells = make(map[string]bool)
		p.MarkedThisTurn = false
	}

	logger.Log.Infof("房间 %s 游戏开始，%d 名玩家已准备", r.ID, r.readyCount)
	if r.stats != nil {
		r.stats.GameStarted()
	}

	r.broadcastRoom(network.MsgTypeGameStarted, network.GameStartedMsg{RoomID: r.ID})
	r.machine.ChangeState(state.NewPlayingState(r, r.rules.DrawInterval, r.rules.TickInterval))
	r.status = StatusRunning

	r.notifyLobby(network.MsgTypeRoomUpdated, network.RoomUpdatedMsg{Room: r.summaryLocked()})
}

// Mark validates a mark attempt against the drawn numbers and the player's
// own card. An approved mark that completes a pattern on that card ends the
// game immediately. Rejections carry an error but cause no state change.
func (r *Room) Mark(sessionID string, number int, cellID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.players[sessionID]
	if !ok {
		return ErrNotInRoom
	}
	if r.status != StatusRunning {
		return ErrGameNotRunning
	}
	if p.MarkedThisTurn {
		return ErrAlreadyMarked
	}
	if !r.numberDrawn(number) {
		return ErrNumberNotDrawn
	}

	cardID, col, row, ok := parseCellID(cellID)
	if !ok {
		return ErrInvalidCell
	}
	if p.MarkedCells[cellID] {
		return ErrCellAlreadyMarked
	}
	card, ok := p.Cards[cardID]
	if !ok {
		return ErrInvalidCell
	}
	face, ok := card.Value(col, row)
	if !ok || face != number {
		return ErrCellMismatch
	}

	p.MarkedCells[cellID] = true
	p.MarkedThisTurn = true

	p.Session.SendJSON(network.MsgTypeMarkApproved, network.MarkApprovedMsg{
		RoomID: r.ID,
		Number: number,
		CellID: cellID,
	})

	// 只评估本次标记所在的卡片
	if res := pattern.Check(markedCellsOf(p, cardID)); res.IsBingo {
		r.finishWithWinner(p, cardID, res)
	}
	return nil
}

// Declare re-verifies a bingo claim on the server. Every card the player
// holds is evaluated; a claim with no winning card is rejected with no state
// change.
func (r *Room) Declare(sessionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.players[sessionID]
	if !ok {
		return ErrNotInRoom
	}
	if r.status != StatusRunning {
		return ErrGameNotRunning
	}

	for cardID := range p.Cards {
		if res := pattern.Check(markedCellsOf(p, cardID)); res.IsBingo {
			r.finishWithWinner(p, cardID, res)
			return nil
		}
	}
	return ErrNoBingo
}

func (r *Room) hostPresentLocked() bool {
	for _, p := range r.players {
		if p.PlayerID == r.HostID {
			return true
		}
	}
	return false
}

func (r *Room) numberDrawn(number int) bool {
	for _, n := range r.drawnNumbers {
		if n == number {
			return true
		}
	}
	return false
}

// finishWithWinner settles a won game: prize credit, win record, archive and
// the gameWon broadcast (the winner's copy carries the new balance). The
// scheduler stops by leaving the playing state.
func (r *Room) finishWithWinner(winner *PlayerState, cardID string, res pattern.Result) {
	r.status = StatusEnding

	winningCells := prefixCells(cardID, res.WinningCells)
	logger.Log.Infof("房间 %s 玩家 %s 获胜，图案: %s", r.ID, winner.PlayerID, res.PatternType)

	var newBalance *float64
	if balance, err := r.wallet.Credit(winner.PlayerID, r.PrizeAmount); err != nil {
		logger.Log.Errorf("玩家 %s 奖金发放失败: %v", winner.PlayerID, err)
	} else {
		newBalance = &balance
	}
	if err := r.wallet.RecordWin(winner.PlayerID); err != nil {
		logger.Log.Errorf("玩家 %s 胜场记录失败: %v", winner.PlayerID, err)
	}
	if r.stats != nil {
		r.stats.BingoWon()
	}
	if r.archive != nil {
		record := &models.GameRecord{
			RoomID:       r.ID,
			RoomName:     r.Name,
			WinnerID:     winner.PlayerID,
			WinnerName:   winner.Name,
			Pattern:      res.PatternType,
			PrizeAmount:  r.PrizeAmount,
			NumbersDrawn: len(r.drawnNumbers),
			PlayerCount:  len(r.players),
			CreatedAt:    time.Now(),
		}
		if err := r.archive.SaveGameRecord(record); err != nil {
			logger.Log.Errorf("房间 %s 游戏记录归档失败: %v", r.ID, err)
		}
	}

	won := network.GameWonMsg{
		RoomID:         r.ID,
		WinnerID:       winner.PlayerID,
		WinnerName:     winner.Name,
		WinningPattern: res.PatternType,
		WinningCells:   winningCells,
		PrizeAmount:    r.PrizeAmount,
	}
	r.broadcastExcept(winner.Session.ID, network.MsgTypeGameWon, won)
	won.NewBalance = newBalance
	winner.Session.SendJSON(network.MsgTypeGameWon, won)
	if newBalance != nil {
		winner.Session.SendJSON(network.MsgTypeBalanceUpdated, network.BalanceUpdatedMsg{NewBalance: *newBalance})
	}

	r.machine.ChangeState(state.NewEndingState(r, r.rules.PostEndDelay, r.rules.TickInterval))
}

// endGame settles a game that ended without a winner (调用方已持有 r.mu)
func (r *Room) endGame(reason string, delay time.Duration) {
	r.status = StatusEnding
	logger.Log.Infof("房间 %s 游戏结束: %s", r.ID, reason)

	r.broadcastRoom(network.MsgTypeGameEnded, network.GameEndedMsg{RoomID: r.ID, Reason: reason})
	r.machine.ChangeState(state.NewEndingState(r, delay, r.rules.TickInterval))
}

// resetGame 重置房间回到大厅（调用方已持有 r.mu）
func (r *Room) resetGame() {
	r.status = StatusLobby
	r.drawnNumbers = nil
	r.readyCount = 0
	for _, p := range r.players {
		p.MarkedCells = make(map[string]bool)
		p.MarkedThisTurn = false
		p.HasPaid = false
	}

	r.machine.ChangeState(state.NewLobbyState(r))

	r.broadcastRoom(network.MsgTypeGameState, r.gameStateLocked())
	r.broadcastRoom(network.MsgTypeGameReset, network.GameResetMsg{RoomID: r.ID})
	r.notifyLobby(network.MsgTypeRoomUpdated, network.RoomUpdatedMsg{Room: r.summaryLocked()})
}

func (r *Room) gameStateLocked() network.GameStateMsg {
	return network.GameStateMsg{
		RoomID:       r.ID,
		IsRunning:    r.isRunningLocked(),
		DrawnNumbers: append([]int(nil), r.drawnNumbers...),
		PlayerCount:  len(r.players),
		ReadyCount:   r.readyCount,
	}
}

// Chat relays a room-scoped chat message. The body is HTML-escaped before it
// is broadcast.
func (r *Room) Chat(sessionID, message string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.players[sessionID]
	if !ok {
		return ErrNotInRoom
	}
	message = strings.TrimSpace(message)
	if message == "" {
		return ErrEmptyMessage
	}

	r.broadcastRoom(network.MsgTypeRoomChatMessage, network.RoomChatMsg{
		RoomID:    r.ID,
		Name:      p.Name,
		Message:   html.EscapeString(message),
		Timestamp: time.Now().Format(time.RFC3339),
	})
	return nil
}

// Restore returns the caller's current cards and marked cells, for clients
// rebuilding their board after a reconnect.
func (r *Room) Restore(sessionID string) (network.RestoreDataMsg, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.players[sessionID]
	if !ok {
		return network.RestoreDataMsg{}, ErrNotInRoom
	}

	marked := make([]string, 0, len(p.MarkedCells))
	for cell, m := range p.MarkedCells {
		if m {
			marked = append(marked, cell)
		}
	}
	return network.RestoreDataMsg{
		RoomID:      r.ID,
		Cards:       p.Cards,
		MarkedCells: marked,
	}, nil
}

// Leave removes a session from the room. The host role falls to a surviving
// player; a running game dropping below the start minimum is force-ended with
// half the usual reset delay. closed reports that the room is now empty and
// should be removed by the registry.
func (r *Room) Leave(sessionID string) (closed bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.players[sessionID]
	if !ok {
		return false
	}
	delete(r.players, sessionID)
	if p.HasPaid && !r.isRunningLocked() {
		r.readyCount--
	}

	logger.Log.Infof("玩家 %s 离开房间 %s，剩余 %d 人", p.PlayerID, r.ID, len(r.players))

	if len(r.players) == 0 {
		r.emptySince = time.Now()
		return true
	}

	r.broadcastRoom(network.MsgTypePlayerLeftRoom, network.PlayerLeftMsg{
		RoomID:      r.ID,
		SessionID:   sessionID,
		Name:        p.Name,
		PlayerCount: len(r.players),
	})

	// 房主离开：任选一名幸存玩家接任
	if p.PlayerID == r.HostID {
		for _, next := range r.players {
			r.HostID = next.PlayerID
			r.broadcastRoom(network.MsgTypeNewHost, network.NewHostMsg{
				RoomID:   r.ID,
				HostID:   next.PlayerID,
				HostName: next.Name,
			})
			break
		}
	}

	if r.status == StatusRunning && len(r.players) < r.MinPlayersToStart {
		r.endGame("Not enough players", r.rules.PostEndDelay/2)
	}

	r.notifyLobby(network.MsgTypeRoomUpdated, network.RoomUpdatedMsg{Room: r.summaryLocked()})
	return false
}
