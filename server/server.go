package server

import (
	"encoding/json"
	"net/http"
	"net/rpc"
	"time"

	"github.com/gorilla/websocket"

	"github.com/maxiusi3/wordchallenge-sub000/game"
	"github.com/maxiusi3/wordchallenge-sub000/logger"
	"github.com/maxiusi3/wordchallenge-sub000/monitor"
	"github.com/maxiusi3/wordchallenge-sub000/network"
	matchrpc "github.com/maxiusi3/wordchallenge-sub000/rpc"
	"github.com/maxiusi3/wordchallenge-sub000/services"
	"github.com/maxiusi3/wordchallenge-sub000/session"
)

// GameServer 负责WebSocket接入层：升级连接、解码信封、
// 分发到Coordinator。所有对局语义都在game包里，这里只做传输。
type GameServer struct {
	addr         string
	upgrader     websocket.Upgrader
	registry     *session.Registry
	coordinator  *game.Coordinator
	monitor      *monitor.Monitor
	participants *services.ParticipantService
	rpcServer    *matchrpc.Server
	heartbeat    time.Duration
	shutdownCh   chan struct{}
}

func NewGameServer(addr, rpcAddr string, registry *session.Registry, coordinator *game.Coordinator, mon *monitor.Monitor, participants *services.ParticipantService) *GameServer {
	s := &GameServer{
		addr:         addr,
		registry:     registry,
		coordinator:  coordinator,
		monitor:      mon,
		participants: participants,
		heartbeat:    30 * time.Second,
		shutdownCh:   make(chan struct{}),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true // 允许所有跨域请求
			},
		},
	}

	rpcServer, err := matchrpc.NewServer(rpcAddr)
	if err != nil {
		logger.Log.Fatalf("Failed to create RPC server: %v", err)
	}
	s.rpcServer = rpcServer

	statsService := matchrpc.NewStatsService(participants)
	rpc.Register(statsService)

	return s
}

func (s *GameServer) Start() error {
	go s.rpcServer.Start()

	http.HandleFunc("/ws", s.handleWebSocket)
	logger.Log.Infof("Game server listening on %s", s.addr)
	return http.ListenAndServe(s.addr, nil)
}

func (s *GameServer) Shutdown() {
	close(s.shutdownCh)
	s.rpcServer.Stop()
}

func (s *GameServer) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Log.Infof("Failed to upgrade connection: %v", err)
		return
	}
	s.handleConnection(conn)
}

func (s *GameServer) handleConnection(conn *websocket.Conn) {
	wsConn := network.NewWSConnection(conn)
	wsConn.SetHeartbeat(s.heartbeat)

	logger.Log.Infof("New connection from %s", wsConn.RemoteAddr())

	defer func() {
		if p, ok := s.registry.GetByConn(wsConn); ok {
			logger.Log.Infof("Connection closed from %s, participant %s", wsConn.RemoteAddr(), p.ID)
			s.coordinator.Disconnect(p.ID)
		} else {
			logger.Log.Infof("Connection closed from %s before registration", wsConn.RemoteAddr())
		}
		wsConn.Close()
	}()

	for {
		select {
		case <-s.shutdownCh:
			return
		default:
			env, err := wsConn.ReadEnvelope()
			if err != nil {
				return
			}
			start := time.Now()
			s.handleEnvelope(wsConn, env)
			s.monitor.ObserveMessageLatency(time.Since(start))
		}
	}
}

// handleEnvelope 按消息类型分发。畸形消息只记日志，不断开连接。
func (s *GameServer) handleEnvelope(conn *network.WSConnection, env *network.Envelope) {
	if env.Type == network.TypeRegister {
		s.handleRegister(conn, env)
		return
	}

	p, ok := s.registry.GetByConn(conn)
	if !ok {
		logger.Log.Warnf("Message %q from unregistered connection %s dropped", env.Type, conn.RemoteAddr())
		return
	}
	p.Touch()

	switch env.Type {
	case network.TypeHeartbeat:
		reply, _ := network.NewEnvelope(network.TypeHeartbeat, nil)
		conn.Deliver(reply)
	case network.TypeJoinMatching:
		var payload network.JoinMatchingPayload
		if err := json.Unmarshal(env.Payload, &payload); err != nil {
			logger.Log.Warnf("Malformed joinMatching payload from %s: %v", p.ID, err)
			return
		}
		s.coordinator.JoinMatching(p.ID, payload.Cohort)
	case network.TypeLeaveMatching:
		s.coordinator.LeaveMatching(p.ID)
	case network.TypePlayerReady:
		s.coordinator.PlayerReady(p.ID)
	case network.TypeGameAction:
		var action network.GameActionPayload
		if err := json.Unmarshal(env.Payload, &action); err != nil {
			logger.Log.Warnf("Malformed gameAction payload from %s: %v", p.ID, err)
			return
		}
		s.coordinator.SubmitAction(p.ID, action)
	case network.TypeLevelEnded:
		// 旧客户端把levelEnded作为顶层消息发送，统一走动作通道
		var payload network.LevelEndedPayload
		if err := json.Unmarshal(env.Payload, &payload); err != nil {
			logger.Log.Warnf("Malformed levelEnded payload from %s: %v", p.ID, err)
			return
		}
		s.coordinator.SubmitAction(p.ID, network.GameActionPayload{
			Kind:            network.ActionLevelEnded,
			Payload:         env.Payload,
			ClientTimestamp: payload.ClientTimestamp,
		})
	default:
		logger.Log.Infof("Unknown message type %q from %s", env.Type, p.ID)
	}
}

func (s *GameServer) handleRegister(conn *network.WSConnection, env *network.Envelope) {
	var payload network.RegisterPayload
	if err := json.Unmarshal(env.Payload, &payload); err != nil {
		logger.Log.Warnf("Malformed register payload from %s: %v", conn.RemoteAddr(), err)
		return
	}

	if _, err := s.coordinator.Register(payload.Profile, conn); err != nil {
		logger.Log.Warnf("Register from %s rejected: %v", conn.RemoteAddr(), err)
		return
	}

	// 档案落库不阻塞接入
	profile := payload.Profile
	go func() {
		if err := s.participants.UpsertProfile(profile); err != nil {
			logger.Log.Errorw("profile upsert failed", "user_id", profile.UserID, "error", err)
		}
	}()
}
