// Manual trigger for the full statistics recomputation.
//
// The same recomputation is exposed over HTTP at
// POST /api/admin/maintenance/recompute-stats; this script covers first
// deployments and bulk imports where the API is not up yet.
//
// Usage: go run scripts/recompute_stats.go

package main

import (
	"context"
	"log"
	"os"

	"formation_quiz_backend/internal/config"
	"formation_quiz_backend/internal/repository"
	"formation_quiz_backend/internal/service"
	"formation_quiz_backend/pkg/database"
	"formation_quiz_backend/pkg/logger"

	"gopkg.in/yaml.v3"
)

func main() {
	data, err := os.ReadFile("configs/config.yaml")
	if err != nil {
		log.Fatalf("cannot read config file: %v", err)
	}

	var cfg config.Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		log.Fatalf("cannot parse config file: %v", err)
	}

	logger.InitLogger(&cfg)
	defer logger.Log.Sync()

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		log.Fatalf("cannot open database: %v", err)
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		log.Printf("redis unavailable, cache invalidation skipped: %v", err)
		rdb = nil
	}

	stats := service.NewStatsService(
		repository.NewStatsRepository(db),
		repository.NewParcoursRepository(db),
		repository.NewQuestionRepository(db),
		repository.NewQuestionnaireRepository(db),
		repository.NewUserRepository(db),
		rdb,
	)

	if err := stats.RecomputeAll(context.Background()); err != nil {
		log.Fatalf("recompute failed: %v", err)
	}
	log.Println("statistics recomputed")
}
