// @title Formation Quiz API
// @version 1.0
// @description Backend for training questionnaires: authoring, trainee parcours, scoring and reporting.

// @host localhost:8080
// @BasePath /api
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

package main

import (
	"flag"
	"log"

	"formation_quiz_backend/internal/app"
	"formation_quiz_backend/internal/config"
	"formation_quiz_backend/pkg/configwatcher"
	"formation_quiz_backend/pkg/logger"

	"go.uber.org/zap"
)

func main() {
	migrateOnly := flag.Bool("migrate-only", false, "run database migrations and exit")
	migrate := flag.Bool("migrate", false, "force database migrations on startup")
	flag.Parse()

	cfg, err := config.LoadConfig("configs")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	cfg.ForceMigrate = *migrate || *migrateOnly
	cfg.MigrateOnly = *migrateOnly

	application := app.NewApp(cfg)
	defer logger.Log.Sync()

	go configwatcher.WatchConfig("configs/config.yaml", cfg, func(newCfg interface{}) {
		reloaded, ok := newCfg.(*config.Config)
		if !ok {
			return
		}
		logger.Log.Info("Configuration reloaded", zap.String("mode", reloaded.Server.Mode))
		application.ApplyConfig(reloaded)
	})

	application.Run()
}
