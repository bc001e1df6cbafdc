package rpc

import (
	"net"
	"net/rpc"

	"github.com/maxiusi3/wordchallenge-sub000/logger"
	"github.com/maxiusi3/wordchallenge-sub000/services"
)

// Server manages the RPC listener.
type Server struct {
	listener net.Listener
	address  string
}

// NewServer creates a new RPC server. Services are registered by the
// caller before Start.
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

// StatsService exposes participant statistics over net/rpc for
// back-office tooling.
type StatsService struct {
	participants *services.ParticipantService
}

// NewStatsService creates a new StatsService.
func NewStatsService(ps *services.ParticipantService) *StatsService {
	return &StatsService{participants: ps}
}

// GetParticipantStats follows the net/rpc signature: exported method,
// exported arguments, second argument is a pointer, return type is error.
type GetStatsArgs struct {
	UserID int64
}

type GetStatsReply struct {
	TotalGames int
	Wins       int
	Losses     int
}

func (ss *StatsService) GetParticipantStats(args *GetStatsArgs, reply *GetStatsReply) error {
	stats, err := ss.participants.GetParticipantWithStats(args.UserID)
	if err != nil {
		return err
	}
	reply.TotalGames = stats.TotalGames
	reply.Wins = stats.Wins
	reply.Losses = stats.Losses
	return nil
}
