package cmd

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/abhisek/bitlit/internal/chat"
	"github.com/abhisek/bitlit/internal/config"
	"github.com/abhisek/bitlit/internal/llm"
	"github.com/abhisek/bitlit/internal/store"
)

// newChatService builds the tutor backend from the environment. A missing
// credential is not fatal: the service answers every turn with the
// localized "not configured" error instead.
func newChatService(ctx context.Context, events store.LLMEventRepo, logger *zap.Logger) (*chat.Service, error) {
	cfg := llm.ConfigFromEnv()
	if cfg.Validate() != nil {
		if discovered, ok := llm.DiscoverConfig(); ok {
			cfg = discovered
		}
	}

	provider, err := llm.NewProvider(ctx, cfg, events, logger)
	var missing *llm.ErrMissingAPIKey
	switch {
	case errors.As(err, &missing):
		logger.Warn("LLM provider not configured; tutor turns will fail", zap.Error(err))
		return chat.NewService(nil, chat.WithSetupError(err), chat.WithLogger(logger)), nil
	case err != nil:
		return nil, fmt.Errorf("create LLM provider: %w", err)
	}

	logger.Info("LLM provider ready", zap.String("provider", cfg.Provider))
	return chat.NewService(provider,
		chat.WithTimeout(cfg.Timeout),
		chat.WithLogger(logger),
	), nil
}

// openStore connects to the configured database and, when Redis is
// configured, fronts the snapshot repo with the cache. The returned
// cleanup closes everything that was opened.
func openStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*store.Store, store.SnapshotRepo, func(), error) {
	st, err := store.OpenDriver(ctx, cfg.DBDriver, cfg.DBPath)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("open store: %w", err)
	}
	cleanup := func() {
		if err := st.Close(); err != nil {
			logger.Error("close store", zap.Error(err))
		}
	}

	var snapshots store.SnapshotRepo = st.SnapshotRepo()
	if cfg.Redis.Enabled() {
		client, err := store.NewRedisClient(ctx, store.RedisConfig{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			cleanup()
			return nil, nil, nil, fmt.Errorf("connect redis: %w", err)
		}
		snapshots = store.NewCachedSnapshotRepo(snapshots, client, cfg.Redis.TTL, logger)
		closeStore := cleanup
		cleanup = func() {
			_ = client.Close()
			closeStore()
		}
		logger.Info("snapshot cache enabled", zap.String("redis", cfg.Redis.Addr))
	}
	return st, snapshots, cleanup, nil
}

// loadConfig resolves the database path from --db and reads the
// environment configuration.
func loadConfig(cmdDB func() (string, error)) (*config.Config, error) {
	dbPath, err := cmdDB()
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}
	return config.Load(dbPath)
}
