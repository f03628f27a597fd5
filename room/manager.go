// room/manager.go
package room

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/wfunc/bingoserver/logger"
	"github.com/wfunc/bingoserver/models"
)

// Manager 房间注册表
type Manager struct {
	rooms map[string]*Room
	mutex sync.RWMutex

	rules       Rules
	broadcaster Broadcaster
	wallet      Wallet
	archive     Archive
	stats       Stats
}

func NewManager(rules Rules, broadcaster Broadcaster, wallet Wallet, archive Archive, stats Stats) *Manager {
	return &Manager{
		rooms:       make(map[string]*Room),
		rules:       rules,
		broadcaster: broadcaster,
		wallet:      wallet,
		archive:     archive,
		stats:       stats,
	}
}

// CreateRoom registers a new room. Out-of-range parameters are normalised
// rather than rejected: maxPlayers and prize fall back to the configured
// defaults, minPlayersToStart is clamped to [2, maxPlayers]. The creator is
// not joined automatically.
func (m *Manager) CreateRoom(name string, maxPlayers int, prizeAmount float64, minPlayers int, hostID string) *Room {
	if name == "" {
		name = "Bingo Room"
	}
	if maxPlayers <= 0 {
		maxPlayers = m.rules.DefaultMaxPlayers
	}
	if prizeAmount <= 0 {
		prizeAmount = m.rules.DefaultPrize
	}
	if minPlayers < 2 {
		minPlayers = 2
	}
	if minPlayers > maxPlayers {
		minPlayers = maxPlayers
	}

	id := uuid.New().String()
	room := NewRoom(id, name, maxPlayers, prizeAmount, minPlayers, hostID,
		m.rules, m.broadcaster, m.wallet, m.archive, m.stats)

	m.mutex.Lock()
	m.rooms[id] = room
	m.mutex.Unlock()

	logger.Log.Infof("创建房间 %s (%s)，最大人数 %d，开局人数 %d，奖金 %.2f",
		id, name, maxPlayers, minPlayers, prizeAmount)
	return room
}

// GetRoom 获取房间
func (m *Manager) GetRoom(id string) (*Room, bool) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	room, exists := m.rooms[id]
	return room, exists
}

// RemoveRoom deregisters an empty room and stops its loop. Rooms that still
// hold players are left alone.
func (m *Manager) RemoveRoom(id string) bool {
	m.mutex.Lock()
	room, exists := m.rooms[id]
	if !exists {
		m.mutex.Unlock()
		return false
	}
	if room.PlayerCount() > 0 {
		m.mutex.Unlock()
		return false
	}
	delete(m.rooms, id)
	m.mutex.Unlock()

	room.Close()
	logger.Log.Infof("移除空房间 %s", id)
	return true
}

// ListJoinable returns summaries of rooms a player could enter now: not
// running and not full.
func (m *Manager) ListJoinable() []models.RoomSummary {
	m.mutex.RLock()
	rooms := make([]*Room, 0, len(m.rooms))
	for _, room := range m.rooms {
		rooms = append(rooms, room)
	}
	m.mutex.RUnlock()

	summaries := make([]models.RoomSummary, 0, len(rooms))
	for _, room := range rooms {
		s := room.Summary()
		if s.IsRunning || s.CurrentPlayerCount >= s.MaxPlayers {
			continue
		}
		summaries = append(summaries, s)
	}
	return summaries
}

// SweepIdle removes rooms that have sat empty for longer than maxIdle and
// returns their ids. Rooms emptied by a leave are removed on the spot; this
// reaps the ones that were created but never joined.
func (m *Manager) SweepIdle(maxIdle time.Duration) []string {
	m.mutex.RLock()
	rooms := make([]*Room, 0, len(m.rooms))
	for _, room := range m.rooms {
		rooms = append(rooms, room)
	}
	m.mutex.RUnlock()

	var removed []string
	for _, room := range rooms {
		since, idle := room.IdleSince()
		if !idle || time.Since(since) < maxIdle {
			continue
		}
		if m.RemoveRoom(room.ID) {
			removed = append(removed, room.ID)
		}
	}
	return removed
}

// RoomCount returns the number of registered rooms.
func (m *Manager) RoomCount() int {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return len(m.rooms)
}
