package main

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"connectrpc.com/connect"
	"github.com/spf13/cobra"

	"github.com/mmynk/standbys/internal/auth"
	"github.com/mmynk/standbys/internal/cache"
	"github.com/mmynk/standbys/internal/config"
	"github.com/mmynk/standbys/internal/metrics"
	"github.com/mmynk/standbys/internal/middleware"
	"github.com/mmynk/standbys/internal/roster"
	"github.com/mmynk/standbys/internal/server"
	"github.com/mmynk/standbys/internal/service"
	"github.com/mmynk/standbys/internal/settlement"
)

func newServeCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the Connect API server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg)
		},
	}
	cfg.ServerFlags(cmd.Flags())
	cfg.RosterFlags(cmd.Flags())
	return cmd
}

func serve(ctx context.Context, cfg *config.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if cfg.JWTSecret == "" {
		return errors.New("jwt-secret (JWT_SECRET) is required")
	}
	logger := slog.Default()

	loc, err := cfg.Location()
	if err != nil {
		return err
	}
	rotation, err := cfg.Rotation()
	if err != nil {
		return err
	}

	store, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close()
	logger.Info("Storage initialized", "driver", cfg.DBDriver)

	snapshots, closeCache, err := openCache(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeCache.Close()

	m := metrics.New()
	provider := roster.Chain{roster.NewTableProvider(store), rotation}
	engine := settlement.New(store,
		settlement.WithRoster(provider),
		settlement.WithCache(snapshots),
		settlement.WithRecorder(m),
		settlement.WithLocation(loc),
	)

	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL)
	authenticator := auth.NewPasswordAuthenticator(store)

	// Metrics outermost so rejected calls are timed too.
	interceptors := connect.WithInterceptors(
		m.Interceptor(),
		middleware.OptionalAuth(jwtManager),
		middleware.LoggingInterceptor(logger),
	)

	srv := server.New(server.Options{
		Addr:       cfg.Addr,
		CORSOrigin: cfg.CORSOrigin,
		Health:     store.DB().PingContext,
		Metrics:    m.Handler(),
	}, logger)
	srv.Mount(service.NewStandbyServiceHandler(service.NewStandbyService(engine, provider, m, logger), interceptors))
	srv.Mount(service.NewRosterServiceHandler(service.NewRosterService(provider, logger), interceptors))
	srv.Mount(service.NewAuthServiceHandler(service.NewAuthService(authenticator, jwtManager, store, logger), interceptors))

	return srv.Run(ctx)
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// openCache builds the configured snapshot cache.
func openCache(ctx context.Context, cfg *config.Config) (cache.Snapshots, io.Closer, error) {
	switch cfg.CacheBackend {
	case config.CacheRedis:
		r, err := cache.NewRedis(ctx, cfg.RedisURL, cfg.CacheTTL)
		if err != nil {
			return nil, nil, err
		}
		return r, r, nil
	case config.CacheNone:
		return cache.Nop{}, nopCloser{}, nil
	}
	return cache.NewMemory(cfg.CacheTTL), nopCloser{}, nil
}
