// Command rehash converts every legacy plaintext password in usuario into a
// bcrypt digest.  It runs as one transaction: either every legacy row is
// converted or none is.
package main

import (
	"context"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/isuci/isuci-backend/internal/config"
	"github.com/isuci/isuci-backend/internal/database"
	"github.com/isuci/isuci-backend/internal/logger"
	"github.com/isuci/isuci-backend/internal/repository"
	"github.com/isuci/isuci-backend/internal/utils"
)

func main() {
	_ = godotenv.Load()
	cfg := config.LoadDB()
	logger.Init(logger.Config{Level: cfg.LogLevel, Output: os.Stderr, JSON: cfg.LogJSON})

	db, err := database.Open(cfg)
	if err != nil {
		logger.Error("database unavailable", "err", err)
		os.Exit(1)
	}
	defer db.Close()

	// Hashing is CPU bound; the store timeout is far too short for a table.
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	hasher := utils.BcryptHasher{Cost: cfg.BcryptCost}
	n, err := repository.NewUserRepo(db, cfg.DBDriver).RehashLegacyPasswords(ctx, hasher.Hash)
	if err != nil {
		logger.Error("rehash rolled back", "err", err)
		os.Exit(1)
	}
	logger.Info("rehash committed", "rows", n)
}
