package database

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/blogify-press/backend-go/internal/config"
)

const mongoRetryAttempts = 5

// ConnectMongo opens the document store used when activity logs are kept in
// MongoDB and returns the configured database.
func ConnectMongo(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*mongo.Client, *mongo.Database, error) {
	logger.Info("🔌 [Mongo] Connecting to MongoDB...", "database", cfg.MongoDatabase)

	var lastErr error
	for i := 0; i < mongoRetryAttempts; i++ {
		client, err := mongo.Connect(
			options.Client().
				ApplyURI(cfg.MongoURL).
				SetConnectTimeout(5 * time.Second).
				SetRetryWrites(true),
		)
		if err == nil {
			pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			err = client.Ping(pingCtx, nil)
			cancel()
			if err == nil {
				logger.Info("✅ [Mongo] MongoDB connection established")
				return client, client.Database(cfg.MongoDatabase), nil
			}
			_ = client.Disconnect(ctx)
		}
		lastErr = err

		logger.Warn("⏳ [Mongo] Connection failed, retrying...",
			"attempt", i+1,
			"max_retries", mongoRetryAttempts,
			"error", err,
		)
		time.Sleep(retryDelay)
	}

	return nil, nil, fmt.Errorf("failed to connect to MongoDB after %d attempts: %w", mongoRetryAttempts, lastErr)
}
