package main

import (
	"log"

	"github.com/Shaanmalik007/cricscore/config"
	_ "github.com/Shaanmalik007/cricscore/docs"
	"github.com/Shaanmalik007/cricscore/internal/auth"
	"github.com/Shaanmalik007/cricscore/internal/match"
	"github.com/Shaanmalik007/cricscore/internal/team"
	"github.com/Shaanmalik007/cricscore/internal/tournament"
	"github.com/Shaanmalik007/cricscore/pkg/logger"
	"github.com/Shaanmalik007/cricscore/routes"
)

// @title CricScore REST API
// @version 1.0
// @description Ball-by-ball limited-overs cricket scoring server 🏏
// @host localhost:8080
// @BasePath /api
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	if err := config.Initialize(); err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}

	cfg := config.GetConfig()
	if err := logger.Init(cfg.App.Env != "production"); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	err := config.DB.AutoMigrate(
		&auth.Scorer{}, &auth.RefreshToken{},
		&team.Team{}, &team.Player{},
		&match.Match{}, &match.BallLogEntry{}, &match.MatchHistory{},
		&tournament.Tournament{}, &tournament.GroupEntry{},
	)
	if err != nil {
		log.Fatalf("AutoMigrate failed: %v", err)
	}
	log.Println("AutoMigrate successful")

	r, standings := routes.SetupRoutes()

	sched, err := standings.StartWorker()
	if err != nil {
		log.Fatalf("Failed to start standings worker: %v", err)
	}
	defer func() { _ = sched.Shutdown() }()

	log.Printf("Starting server on port %s in %s mode\n", cfg.App.Port, cfg.App.Env)
	if err := r.Run(":" + cfg.App.Port); err != nil {
		log.Fatalf("Failed to run server: %v", err)
	}
}
