// One-off migration: gives every legacy user the subscriptionPlan and
// billing defaults the current schema expects. Safe to re-run; a second
// pass matches nothing.
package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/Joeykosseifi/JobLink-project-sub001/internal/backfill"
	"github.com/Joeykosseifi/JobLink-project-sub001/internal/config"
	"github.com/Joeykosseifi/JobLink-project-sub001/internal/database"
	"github.com/Joeykosseifi/JobLink-project-sub001/internal/logger"
	"github.com/Joeykosseifi/JobLink-project-sub001/internal/repository"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using system environment")
	}

	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	sugar := logger.New(cfg.Env)
	defer func() { _ = sugar.Sync() }()

	connectCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	db, client, err := database.Connect(connectCtx, cfg.Mongo.URI, cfg.Mongo.Database, sugar)
	cancel()
	if err != nil {
		sugar.Fatalf("could not connect to MongoDB: %v", err)
	}
	defer func() { _ = client.Disconnect(context.Background()) }()

	repo := repository.NewMongoUserRepo(db, cfg.Mongo.Collection)
	runner := backfill.NewRunner(repo, sugar, cfg.Backfill.Workers)

	summary, err := runner.Run(context.Background())
	if err != nil {
		sugar.Errorf("backfill aborted: %v", err)
		os.Exit(1)
	}

	sugar.Infow("backfill finished",
		"matched", summary.Matched,
		"updated", summary.Updated,
		"failed", len(summary.Failed),
	)
	for _, f := range summary.Failed {
		sugar.Errorw("record not updated", "id", f.ID, "error", f.Err)
	}
	if !summary.OK() {
		os.Exit(1)
	}
}
