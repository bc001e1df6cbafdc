package main

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/maxiusi3/wordchallenge-sub000/broadcast"
	"github.com/maxiusi3/wordchallenge-sub000/config"
	"github.com/maxiusi3/wordchallenge-sub000/game"
	"github.com/maxiusi3/wordchallenge-sub000/logger"
	"github.com/maxiusi3/wordchallenge-sub000/matching"
	"github.com/maxiusi3/wordchallenge-sub000/monitor"
	"github.com/maxiusi3/wordchallenge-sub000/persistence"
	"github.com/maxiusi3/wordchallenge-sub000/room"
	"github.com/maxiusi3/wordchallenge-sub000/server"
	"github.com/maxiusi3/wordchallenge-sub000/services"
	"github.com/maxiusi3/wordchallenge-sub000/session"
	"github.com/maxiusi3/wordchallenge-sub000/timer"
)

func main() {
	// Initialize logger
	logger.Init()

	// Load configuration
	cfg, err := config.LoadConfig(".")
	if err != nil {
		logger.Log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize Database
	var db persistence.Database
	switch cfg.Database.Driver {
	case "pq":
		db, err = persistence.NewPostgreSQL(
			cfg.Database.Postgres.Host,
			cfg.Database.Postgres.Port,
			cfg.Database.Postgres.User,
			cfg.Database.Postgres.Password,
			cfg.Database.Postgres.DBName,
		)
	default:
		db, err = persistence.NewGormPostgreSQL(
			cfg.Database.Postgres.Host,
			cfg.Database.Postgres.Port,
			cfg.Database.Postgres.User,
			cfg.Database.Postgres.Password,
			cfg.Database.Postgres.DBName,
		)
	}
	if err != nil {
		logger.Log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	logger.Log.Info("Database connection successful.")

	// Question bank
	questions, err := game.NewBankSource(cfg.Game.QuestionBankPath)
	if err != nil {
		logger.Log.Fatalf("Failed to load question bank: %v", err)
	}

	// Core components
	registry := session.NewRegistry()
	queue := matching.NewQueue()
	rooms := room.NewStore()
	notifier := broadcast.NewNotifier(registry)
	timers := timer.NewManager()
	defer timers.Stop()

	mon := monitor.NewMonitor("wordchallenge", prometheus.DefaultRegisterer)
	go mon.StartServer(cfg.Server.MetricsAddress)

	participantService := services.NewParticipantService(db)

	coordinator := game.NewCoordinator(
		game.Config{
			MatchWaitDeadline:   cfg.Match.WaitDeadline(),
			GameCeiling:         cfg.Game.Ceiling(),
			MaxLevels:           cfg.Game.MaxLevels,
			QuestionsPerLevel:   cfg.Game.QuestionsPerLevel,
			AttemptsPerQuestion: cfg.Game.AttemptsPerQuestion,
			PointsPerCorrect:    cfg.Game.PointsPerCorrect,
			RoomMaxAge:          cfg.Game.RoomMaxAge(),
			SweepInterval:       cfg.Game.SweepInterval(),
		},
		registry,
		queue,
		rooms,
		notifier,
		timers,
		questions,
		game.NewLoggingEventSink(),
		mon,
		participantService,
	)
	coordinator.StartSweeps()

	// Start Server
	gameServer := server.NewGameServer(cfg.Server.HTTPAddress, cfg.Server.RPCAddress, registry, coordinator, mon, participantService)
	logger.Log.Infof("Starting game server on %s", cfg.Server.HTTPAddress)
	if err := gameServer.Start(); err != nil {
		logger.Log.Fatalf("Failed to start server: %v", err)
	}
}
