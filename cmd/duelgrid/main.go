package main

import (
	"os"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ericogr/duelgrid/internal/api"
	"github.com/ericogr/duelgrid/internal/config"
	"github.com/ericogr/duelgrid/internal/constants"
	"github.com/ericogr/duelgrid/internal/logging"
	"github.com/ericogr/duelgrid/internal/service"
	"github.com/ericogr/duelgrid/internal/storage"
)

func main() {
	// Load card/server configuration (required). Path may be provided via
	// DUELGRID_CONFIG or defaults to ./duelgrid_config.json in the current
	// working directory.
	configPath := os.Getenv(constants.EnvConfig)
	if configPath == "" {
		configPath = "./duelgrid_config.json"
	}
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logging.Fatal("Missing or invalid duelgrid configuration", err, logging.Fields{
			"config_path": configPath,
			"hint":        "create a duelgrid_config.json with a 'card_list' array of card objects (name,speed,power,cost) and optional keys: server.address, action_timeout_seconds, rendezvous_timeout_seconds, cards_per_draw, pairing{prefer_same_kind,preferred_kind}",
		})
	}

	// Allow the DB path to be configured via DUELGRID_DB. Default to a
	// data/ directory for local development.
	dbPath := os.Getenv(constants.EnvDB)
	if dbPath == "" {
		dbPath = "./data/duelgrid.db"
	}
	db, err := storage.OpenAndMigrate(dbPath)
	if err != nil {
		logging.Fatal("Failed to initialize database", err, nil)
	}

	repo := storage.NewSQLiteRepository(db)
	manager := service.NewManager(cfg, repo)
	handler := api.NewSessionHandler(repo, manager, cfg)

	// Background scanner: force-end turns whose planning phase outlived the
	// action deadline, and retire live sessions whose combat concluded.
	go func() {
		ticker := time.NewTicker(1 * time.Second)
		defer ticker.Stop()
		for range ticker.C {
			manager.ScanStalledTurns()
		}
	}()

	router := gin.Default()

	apiRoutes := router.Group(constants.RouteAPIPrefix)
	{
		// Public endpoints
		apiRoutes.GET(constants.RouteCards, handler.ListCards)
		apiRoutes.GET(constants.RouteSessions, handler.ListSessions)
		apiRoutes.GET(constants.RouteSessionByCode, handler.GetSession)
		apiRoutes.GET(constants.RouteLeaderboard, handler.Leaderboard)
		apiRoutes.GET(constants.RouteVersion, handler.Version)
		apiRoutes.POST(constants.RouteSessions, handler.CreateSession)
		apiRoutes.POST(constants.RouteSessionJoin, handler.JoinSession)

		// Authenticated endpoints
		protected := apiRoutes.Group("")
		protected.Use(api.AuthRequired())
		protected.POST(constants.RouteSessionStart, handler.StartSession)
	}

	// Combat websocket: token is validated from the query parameter.
	router.GET(constants.RouteSessionSocket, handler.ServeCombatSocket)

	addr := cfg.ServerAddress
	logging.Info("Server started", logging.Fields{constants.LogFieldAddr: addr})
	if err := router.Run(addr); err != nil {
		logging.Fatal("Failed to start server", err, nil)
	}
}
