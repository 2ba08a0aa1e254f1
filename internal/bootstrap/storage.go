package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/proposalcraft/proposalcraft-backend/config"
	"github.com/proposalcraft/proposalcraft-backend/internal/proposals/handoff"
	"github.com/proposalcraft/proposalcraft-backend/internal/proposals/repository"
	"github.com/proposalcraft/proposalcraft-backend/internal/storage/postgres"
)

// Storage bundles the persistence collaborators chosen by configuration.
type Storage struct {
	Repo    repository.ProposalRepository
	Handoff handoff.Handoff
	closers []func() error
}

// Close releases every connection opened by OpenStorage.
func (s *Storage) Close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](); err != nil {
			zap.L().Warn("closing storage", zap.Error(err))
		}
	}
}

// OpenRedis connects to Redis and verifies the connection.
func OpenRedis(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(pctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return client, nil
}

// OpenStorage opens the configured saved-proposal backend. Template handoffs
// go to Redis whenever the backend is Redis and stay in memory otherwise.
func OpenStorage(ctx context.Context, cfg *config.Config) (*Storage, error) {
	s := &Storage{}

	switch cfg.Storage.Backend {
	case config.BackendRedis:
		client, err := OpenRedis(ctx, cfg.Redis)
		if err != nil {
			return nil, err
		}
		s.closers = append(s.closers, client.Close)
		s.Repo = repository.NewRedisRepository(client, nil)
		s.Handoff = handoff.NewRedisHandoff(client, cfg.Session.HandoffTTL)

	case config.BackendPostgres:
		db, err := postgres.NewConnection(ctx, &cfg.Database)
		if err != nil {
			return nil, err
		}
		s.closers = append(s.closers, db.Close)
		repo := repository.NewPostgresRepository(db, nil)
		if err := repo.EnsureSchema(ctx); err != nil {
			s.Close()
			return nil, err
		}
		s.Repo = repo

	case config.BackendFile:
		s.Repo = repository.NewFileRepository(cfg.Storage.FilePath, nil)

	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}

	if s.Handoff == nil {
		s.Handoff = handoff.NewMemoryHandoff(cfg.Session.HandoffTTL)
	}
	zap.L().Info("storage ready", zap.String("backend", cfg.Storage.Backend))
	return s, nil
}
