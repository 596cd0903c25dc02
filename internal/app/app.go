// Package app opens the backing services shared by the server and the admin CLI.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	mongoinfra "github.com/thedon-dev/Final-Year-Project/internal/infrastructure/mongo"
	"github.com/thedon-dev/Final-Year-Project/internal/reliability/retry"
	"github.com/thedon-dev/Final-Year-Project/internal/repository"
	"github.com/thedon-dev/Final-Year-Project/internal/repository/memory"
	"github.com/thedon-dev/Final-Year-Project/internal/security/audit"
	"github.com/thedon-dev/Final-Year-Project/pkg/config"
	"github.com/thedon-dev/Final-Year-Project/pkg/database"
	"go.mongodb.org/mongo-driver/mongo"
)

// Store is an opened repository set
type Store struct {
	Repos *repository.Repositories
	// DB is nil for the memory backend
	DB    *mongo.Database
	close func(context.Context) error
}

func (s *Store) Close(ctx context.Context) error {
	if s.close == nil {
		return nil
	}
	return s.close(ctx)
}

// OpenStore connects the configured backend and makes sure its indexes exist
func OpenStore(ctx context.Context, cfg *config.Config, log *slog.Logger) (*Store, error) {
	if cfg.StoreBackend == config.BackendMemory {
		log.Warn("using in-memory store; data is lost on restart")
		return &Store{Repos: memory.New()}, nil
	}

	client, err := mongoinfra.Connect(ctx, cfg.MongoURI, log)
	if err != nil {
		return nil, err
	}
	db := client.Database(cfg.MongoDatabase)

	idxCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if err := repository.EnsureIndexes(idxCtx, db, log); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}

	return &Store{
		Repos: repository.NewMongoRepositories(db, log),
		DB:    db,
		close: client.Disconnect,
	}, nil
}

// OpenAudit returns an audit logger that also writes to Postgres when
// AUDIT_DATABASE_URL is set. The returned close func is never nil.
func OpenAudit(ctx context.Context, cfg *config.Config, log *slog.Logger) (*audit.Logger, func() error, error) {
	if cfg.AuditDatabaseURL == "" {
		return audit.NewLogger(log, nil), func() error { return nil }, nil
	}

	dbCfg := &database.Config{
		URL:             cfg.AuditDatabaseURL,
		MaxOpenConns:    10,
		MaxIdleConns:    2,
		ConnMaxLifetime: 30 * time.Minute,
	}
	pool, err := retry.Do(ctx, retry.DefaultConfig(), log, "audit database connect", func(ctx context.Context) (*database.ConnectionPool, error) {
		return database.NewConnectionPool(ctx, dbCfg, log)
	})
	if err != nil {
		return nil, nil, fmt.Errorf("audit database: %w", err)
	}

	sink := audit.NewPostgresSink(pool.GetDB())
	if err := sink.EnsureSchema(ctx); err != nil {
		_ = pool.Close()
		return nil, nil, err
	}
	log.Info("audit events persisted to postgres")
	return audit.NewLogger(log, sink), pool.Close, nil
}
