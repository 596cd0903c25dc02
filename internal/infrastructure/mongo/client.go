package mongo

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/thedon-dev/Final-Year-Project/internal/reliability/retry"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const connectTimeout = 10 * time.Second

// Connect opens a client and pings the primary, retrying with backoff while the server comes up
func Connect(ctx context.Context, uri string, logger *slog.Logger) (*mongo.Client, error) {
	if logger == nil {
		logger = slog.Default()
	}

	client, err := retry.Do(ctx, retry.DefaultConfig(), logger, "mongo connect", func(ctx context.Context) (*mongo.Client, error) {
		attemptCtx, cancel := context.WithTimeout(ctx, connectTimeout)
		defer cancel()

		client, err := mongo.Connect(attemptCtx, options.Client().ApplyURI(uri))
		if err != nil {
			// a URI that does not parse will never connect
			return nil, retry.Permanent(err)
		}
		if err := client.Ping(attemptCtx, readpref.Primary()); err != nil {
			_ = client.Disconnect(context.Background())
			return nil, err
		}
		return client, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}

	logger.Info("connected to MongoDB")
	return client, nil
}
