package main

import (
	"context"
	"fmt"
	"time"

	"github.com/joho/godotenv"

	mongoMigration "trailbook/internal/migrations/mongo"
	"trailbook/pkg/config"
)

const JobName = "mongo-migration"

func main() {
	_ = godotenv.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)
	defer cancel()

	cfg := config.Load(JobName)
	cfg.SetMongo()
	cfg.Log.Info("Starting Mongo migration job")

	if err := mongoMigration.RunMigration(ctx, cfg.Client.Mongo, cfg.MongoDatabaseName); err != nil {
		cfg.Log.Fatal("Migration failed", "error", err)
	}

	cfg.Client.Close(ctx, cfg.Log)
	fmt.Println("Migration completed successfully.")
}
