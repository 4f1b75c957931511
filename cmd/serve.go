package cmd

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/abhisek/bitlit/internal/api"
	"github.com/abhisek/bitlit/internal/learner"
	"github.com/abhisek/bitlit/internal/tutor"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		logger, err := newLogger(cmd, "")
		if err != nil {
			return err
		}
		defer func() { _ = logger.Sync() }()

		cfg, err := loadConfig(func() (string, error) { return resolveDBPath(cmd) })
		if err != nil {
			return err
		}
		if p, _ := cmd.Flags().GetString("port"); p != "" {
			cfg.Port = p
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		st, snapshots, cleanup, err := openStore(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer cleanup()
		logger.Info("database connected", zap.String("driver", st.Dialect()))

		svc, err := newChatService(ctx, st.EventRepo(), logger.Named("llm"))
		if err != nil {
			return err
		}

		registry := learner.NewRegistry(snapshots, tutor.NewLocalTransport(svc),
			learner.WithLogger(logger.Named("learner")),
			learner.WithSnapshotKeep(cfg.SnapshotKeep),
		)
		handler := api.NewHandler(registry, svc, logger.Named("api"))
		router := api.NewRouter(handler, api.RouterConfig{
			AllowedOrigins: cfg.AllowedOrigins,
			Dev:            cfg.Dev,
		})

		srv := &http.Server{
			Addr:              cfg.Addr(),
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
			ReadTimeout:       30 * time.Second,
			WriteTimeout:      60 * time.Second,
			IdleTimeout:       120 * time.Second,
		}

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			logger.Info("listening", zap.String("addr", srv.Addr), zap.Bool("dev", cfg.Dev))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
		g.Go(func() error {
			maintain(gctx, registry, cfg.PruneInterval, cfg.LearnerIdle, logger)
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			logger.Info("shutting down")
			return srv.Shutdown(sctx)
		})

		err = g.Wait()

		fctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if perr := registry.PersistAll(fctx); perr != nil {
			logger.Error("final persist", zap.Error(perr))
		}
		return err
	},
}

// maintain periodically saves dirty learners, unloads idle ones and prunes
// old snapshots until ctx is done.
func maintain(ctx context.Context, registry *learner.Registry, every, idle time.Duration, logger *zap.Logger) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := registry.PersistAll(ctx); err != nil {
				logger.Warn("persist learners", zap.Error(err))
			}
			if _, err := registry.Evict(ctx, idle); err != nil {
				logger.Warn("evict learners", zap.Error(err))
			}
			if err := registry.Prune(ctx); err != nil {
				logger.Warn("prune snapshots", zap.Error(err))
			}
		}
	}
}

func init() {
	serveCmd.Flags().String("port", "", "Listen port (overrides BITLIT_PORT)")
}
