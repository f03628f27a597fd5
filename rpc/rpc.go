package rpc

import (
	"net"
	"net/rpc"

	"github.com/wfunc/bingoserver/logger"
	"github.com/wfunc/bingoserver/models"
	"github.com/wfunc/bingoserver/room"
	"github.com/wfunc/bingoserver/services"
	"github.com/wfunc/bingoserver/session"
)

// Server manages the RPC listener.
type Server struct {
	listener net.Listener
	address  string
}

// NewServer creates a new RPC server. Services are registered with the
// net/rpc default server before Start is called.
func NewServer(addr string) (*Server, error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	return &Server{
		listener: listener,
		address:  addr,
	}, nil
}

// Start begins listening for RPC requests.
func (s *Server) Start() {
	logger.Log.Infof("RPC server listening on %s", s.address)
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			// Check if the error is due to the listener being closed.
			if _, ok := err.(*net.OpError); ok {
				logger.Log.Info("RPC server listener closed.")
				return
			}
			logger.Log.Errorf("RPC server accept error: %v", err)
			continue
		}
		go rpc.ServeConn(conn)
	}
}

// Stop closes the RPC listener.
func (s *Server) Stop() {
	if s.listener != nil {
		logger.Log.Info("Stopping RPC server.")
		s.listener.Close()
	}
}

// BingoService exposes the ops surface: player profiles and live server
// counts. Methods follow the net/rpc signature rules.
type BingoService struct {
	playerService  *services.PlayerService
	roomManager    *room.Manager
	sessionManager *session.Manager
}

func NewBingoService(ps *services.PlayerService, rm *room.Manager, sm *session.Manager) *BingoService {
	return &BingoService{
		playerService:  ps,
		roomManager:    rm,
		sessionManager: sm,
	}
}

type GetPlayerArgs struct {
	PlayerID string
}

type GetPlayerReply struct {
	Player *models.PlayerData
	Stats  *models.PlayerStats
}

// GetPlayerProfile returns the stored profile and aggregate stats for one
// player.
func (bs *BingoService) GetPlayerProfile(args *GetPlayerArgs, reply *GetPlayerReply) error {
	player, stats, err := bs.playerService.GetPlayerWithStats(args.PlayerID)
	if err != nil {
		return err
	}
	reply.Player = player
	reply.Stats = stats
	return nil
}

type ServerStatsArgs struct{}

type ServerStatsReply struct {
	OnlineSessions int
	ActiveRooms    int
}

// GetServerStats returns live connection and room counts.
func (bs *BingoService) GetServerStats(args *ServerStatsArgs, reply *ServerStatsReply) error {
	reply.OnlineSessions = bs.sessionManager.Count()
	reply.ActiveRooms = bs.roomManager.RoomCount()
	return nil
}
