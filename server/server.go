package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/rpc"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/wfunc/bingoserver/auth"
	"github.com/wfunc/bingoserver/broadcast"
	"github.com/wfunc/bingoserver/config"
	"github.com/wfunc/bingoserver/logger"
	"github.com/wfunc/bingoserver/monitor"
	"github.com/wfunc/bingoserver/network"
	"github.com/wfunc/bingoserver/persistence"
	"github.com/wfunc/bingoserver/room"
	bingorpc "github.com/wfunc/bingoserver/rpc"
	"github.com/wfunc/bingoserver/services"
	"github.com/wfunc/bingoserver/session"
)

type GameServer struct {
	addr           string
	upgrader       websocket.Upgrader
	authenticator  auth.Authenticator
	roomManager    *room.Manager
	sessionManager *session.Manager
	playerService  *services.PlayerService
	broadcaster    *broadcast.GlobalBroadcaster
	monitor        *monitor.Monitor
	rpcServer      *bingorpc.Server
	shutdownChan   chan struct{}
}

func NewGameServer(cfg *config.Config, db persistence.Database, mon *monitor.Monitor) *GameServer {
	s := &GameServer{
		addr:           cfg.Server.HTTPAddress,
		authenticator:  auth.NewJWTAuthenticator(cfg.Server.JWTSecret),
		sessionManager: session.NewManager(),
		playerService:  services.NewPlayerService(db),
		monitor:        mon,
		shutdownChan:   make(chan struct{}),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true // 允许所有跨域请求
			},
		},
	}

	// 初始化广播器和房间注册表
	s.broadcaster = broadcast.NewGlobalBroadcaster(s.sessionManager)
	rules := room.Rules{
		TickInterval:      cfg.Game.TickInterval,
		DrawInterval:      cfg.Game.DrawInterval,
		MaxDraws:          cfg.Game.MaxDraws,
		PostEndDelay:      cfg.Game.PostEndDelay,
		DefaultMaxPlayers: cfg.Game.DefaultMaxPlayers,
		DefaultPrize:      cfg.Game.DefaultPrize,
	}
	s.roomManager = room.NewManager(rules, s.broadcaster, s.playerService, s.playerService, mon)

	// 初始化RPC服务器
	rpcServer, err := bingorpc.NewServer(cfg.Server.RPCAddress)
	if err != nil {
		logger.Log.Fatalf("Failed to create RPC server: %v", err)
	}
	s.rpcServer = rpcServer

	// 注册RPC服务
	bingoService := bingorpc.NewBingoService(s.playerService, s.roomManager, s.sessionManager)
	rpc.Register(bingoService)

	return s
}

func (s *GameServer) Start() error {
	go s.rpcServer.Start()
	go s.sweepIdleRooms()

	http.HandleFunc("/ws", s.handleWebSocket)
	logger.Log.Infof("Bingo server listening on %s", s.addr)
	return http.ListenAndServe(s.addr, nil)
}

// sweepIdleRooms reaps rooms that were created but never joined, so their
// ticker goroutines do not pile up.
func (s *GameServer) sweepIdleRooms() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-s.shutdownChan:
			return
		case <-ticker.C:
			removed := s.roomManager.SweepIdle(10 * time.Minute)
			for _, id := range removed {
				if data, err := json.Marshal(network.RoomClosedMsg{RoomID: id}); err == nil {
					s.broadcaster.BroadcastToAll(network.MsgTypeRoomClosed, data)
				}
			}
			if len(removed) > 0 {
				s.monitor.SetActiveRooms(s.roomManager.RoomCount())
			}
		}
	}
}

func (s *GameServer) Shutdown() {
	close(s.shutdownChan)
	s.rpcServer.Stop()
}

func (s *GameServer) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	// 升级前先认证，未登录的连接直接拒绝
	identity, err := s.authenticator.Authenticate(r)
	if err != nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Log.Infof("Failed to upgrade connection: %v", err)
		return
	}
	s.handleConnection(conn, identity)
}

func (s *GameServer) handleConnection(conn *websocket.Conn, identity auth.Identity) {
	wsConn := network.NewWSConnection(conn)
	sess := session.NewSession(uuid.New().String(), wsConn)
	sess.PlayerID = identity.PlayerID
	sess.Name = identity.Name

	// 登录时保证玩家记录存在，并下发当前余额
	player, err := s.playerService.EnsurePlayer(identity.PlayerID, identity.Name)
	if err != nil {
		logger.Log.Errorf("Failed to load player %s: %v", identity.PlayerID, err)
		wsConn.Close()
		return
	}

	s.sessionManager.Add(sess)
	s.monitor.IncOnlinePlayers()
	sess.SendJSON(network.MsgTypeBalanceUpdated, network.BalanceUpdatedMsg{NewBalance: player.Balance})

	logger.Log.Infof("Player %s connected from %s, session ID: %s", identity.PlayerID, wsConn.RemoteAddr(), sess.GetID())

	defer func() {
		logger.Log.Infof("Connection closed for player %s, session ID: %s", identity.PlayerID, sess.GetID())
		s.leaveCurrentRoom(sess)
		s.sessionManager.Remove(sess.GetID())
		s.monitor.DecOnlinePlayers()
		wsConn.Close()
	}()

	for {
		select {
		case <-s.shutdownChan:
			return
		default:
			packet, err := wsConn.ReadPacket()
			if err != nil {
				return
			}
			s.handlePacket(sess, packet)
		}
	}
}

func (s *GameServer) handlePacket(sess *session.Session, packet *network.Packet) {
	start := time.Now()
	s.monitor.IncMessagesReceived()
	defer func() {
		s.monitor.ObserveMessageLatency(time.Since(start))
	}()

	switch packet.MsgID {
	case network.MsgTypeHeartbeat:
		sess.LastActive = time.Now()
	case network.MsgTypeCreateRoom:
		s.handleCreateRoom(sess, packet)
	case network.MsgTypeListRooms:
		s.handleListRooms(sess)
	case network.MsgTypeJoinRoom:
		s.handleJoinRoom(sess, packet)
	case network.MsgTypeLeaveRoom:
		s.leaveCurrentRoom(sess)
	case network.MsgTypeReadyToPlay:
		s.handleReady(sess, packet)
	case network.MsgTypeMarkAttempt:
		s.handleMark(sess, packet)
	case network.MsgTypeDeclareBingo:
		s.handleDeclare(sess)
	case network.MsgTypeRoomChat:
		s.handleChat(sess, packet)
	case network.MsgTypeRequestRestore:
		s.handleRestore(sess)
	default:
		logger.Log.Infof("Unknown message type: %d", packet.MsgID)
	}
}

// roomOf resolves the session's current room.
func (s *GameServer) roomOf(sess *session.Session) (*room.Room, bool) {
	if sess.RoomID == "" {
		return nil, false
	}
	return s.roomManager.GetRoom(sess.RoomID)
}

func (s *GameServer) handleCreateRoom(sess *session.Session, packet *network.Packet) {
	var req network.CreateRoomRequest
	if err := json.Unmarshal(packet.Data, &req); err != nil {
		sess.SendJSON(network.MsgTypeRoomCreateFailed, network.FailureMsg{Reason: "malformed request"})
		return
	}

	newRoom := s.roomManager.CreateRoom(req.Name, req.MaxPlayers, req.PrizeAmount, req.MinPlayersToStart, sess.PlayerID)
	s.monitor.SetActiveRooms(s.roomManager.RoomCount())

	logger.Log.Infof("Player %s created room %s", sess.PlayerID, newRoom.ID)

	summary := newRoom.Summary()
	sess.SendJSON(network.MsgTypeRoomCreated, network.RoomCreatedMsg{
		RoomID:      newRoom.ID,
		RoomDetails: summary,
	})

	if data, err := json.Marshal(network.NewRoomAvailableMsg{Room: summary}); err == nil {
		s.broadcaster.BroadcastToAll(network.MsgTypeNewRoomAvailable, data)
	}
}

func (s *GameServer) handleListRooms(sess *session.Session) {
	sess.SendJSON(network.MsgTypeRoomsList, network.RoomsListMsg{
		Rooms: s.roomManager.ListJoinable(),
	})
}

func (s *GameServer) handleJoinRoom(sess *session.Session, packet *network.Packet) {
	var req network.JoinRoomRequest
	if err := json.Unmarshal(packet.Data, &req); err != nil {
		sess.SendJSON(network.MsgTypeJoinRoomFailed, network.FailureMsg{Reason: "malformed request"})
		return
	}
	if sess.RoomID != "" {
		sess.SendJSON(network.MsgTypeJoinRoomFailed, network.FailureMsg{RoomID: req.RoomID, Reason: "already in a room"})
		return
	}

	target, exists := s.roomManager.GetRoom(req.RoomID)
	if !exists {
		sess.SendJSON(network.MsgTypeJoinRoomFailed, network.FailureMsg{RoomID: req.RoomID, Reason: "room not found"})
		return
	}

	restored, err := target.Join(sess)
	if err != nil {
		sess.SendJSON(network.MsgTypeJoinRoomFailed, network.FailureMsg{RoomID: req.RoomID, Reason: err.Error()})
		return
	}
	sess.RoomID = target.ID

	sess.SendJSON(network.MsgTypeJoinedRoom, network.JoinedRoomMsg{
		RoomID:      target.ID,
		RoomDetails: target.Summary(),
		Restored:    restored,
	})

	// 重连的玩家补发卡片和标记状态
	if restored {
		if data, err := target.Restore(sess.ID); err == nil {
			sess.SendJSON(network.MsgTypeRestoreData, data)
		}
	}
}

// leaveCurrentRoom removes the session from its room, if any, and tears the
// room down when it empties.
func (s *GameServer) leaveCurrentRoom(sess *session.Session) {
	current, ok := s.roomOf(sess)
	if !ok {
		sess.RoomID = ""
		return
	}

	closed := current.Leave(sess.ID)
	sess.RoomID = ""

	if closed && s.roomManager.RemoveRoom(current.ID) {
		if data, err := json.Marshal(network.RoomClosedMsg{RoomID: current.ID}); err == nil {
			s.broadcaster.BroadcastToAll(network.MsgTypeRoomClosed, data)
		}
	}
	s.monitor.SetActiveRooms(s.roomManager.RoomCount())
}

func (s *GameServer) handleReady(sess *session.Session, packet *network.Packet) {
	current, ok := s.roomOf(sess)
	if !ok {
		sess.SendJSON(network.MsgTypeReadyFailed, network.FailureMsg{Reason: "not in a room"})
		return
	}

	var req network.ReadyToPlayRequest
	if err := json.Unmarshal(packet.Data, &req); err != nil {
		sess.SendJSON(network.MsgTypeReadyFailed, network.FailureMsg{RoomID: current.ID, Reason: "malformed request"})
		return
	}

	newBalance, _, err := current.Ready(sess.ID, req.Cards, req.TotalCost)
	if err != nil {
		sess.SendJSON(network.MsgTypeReadyFailed, network.FailureMsg{RoomID: current.ID, Reason: err.Error()})
		return
	}
	sess.SendJSON(network.MsgTypeBalanceUpdated, network.BalanceUpdatedMsg{NewBalance: newBalance})
}

func (s *GameServer) handleMark(sess *session.Session, packet *network.Packet) {
	current, ok := s.roomOf(sess)
	if !ok {
		return
	}

	var req network.MarkAttemptRequest
	if err := json.Unmarshal(packet.Data, &req); err != nil {
		return
	}

	// 无效的标记静默丢弃，只记录日志
	if err := current.Mark(sess.ID, req.Number, req.CellID); err != nil {
		logger.Log.Debugf("Rejected mark from %s in room %s: %v", sess.PlayerID, current.ID, err)
	}
}

func (s *GameServer) handleDeclare(sess *session.Session) {
	current, ok := s.roomOf(sess)
	if !ok {
		return
	}

	if err := current.Declare(sess.ID); err != nil {
		if errors.Is(err, room.ErrNoBingo) {
			sess.SendJSON(network.MsgTypeDeclareRejected, network.FailureMsg{RoomID: current.ID, Reason: "no winning pattern"})
			return
		}
		logger.Log.Debugf("Rejected bingo claim from %s in room %s: %v", sess.PlayerID, current.ID, err)
	}
}

func (s *GameServer) handleChat(sess *session.Session, packet *network.Packet) {
	current, ok := s.roomOf(sess)
	if !ok {
		return
	}

	var req network.RoomChatRequest
	if err := json.Unmarshal(packet.Data, &req); err != nil {
		return
	}
	if err := current.Chat(sess.ID, req.Message); err != nil {
		logger.Log.Debugf("Dropped chat from %s in room %s: %v", sess.PlayerID, current.ID, err)
	}
}

func (s *GameServer) handleRestore(sess *session.Session) {
	current, ok := s.roomOf(sess)
	if !ok {
		return
	}

	data, err := current.Restore(sess.ID)
	if err != nil {
		return
	}
	sess.SendJSON(network.MsgTypeRestoreData, data)
}
