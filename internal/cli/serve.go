package cli

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/sxc/scholarhub/internal/api"
	"github.com/sxc/scholarhub/internal/api/handler"
	"github.com/sxc/scholarhub/internal/core/service"
	mongostore "github.com/sxc/scholarhub/internal/infrastructure/db/mongo"
	redisstore "github.com/sxc/scholarhub/internal/infrastructure/db/redis"
	"github.com/sxc/scholarhub/internal/infrastructure/queue"
	"github.com/sxc/scholarhub/pkg/logger"
)

const (
	shutdownTimeout = 10 * time.Second
	startupTimeout  = 15 * time.Second
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(cmd.Context())
		},
	}
}

func serve(parent context.Context) error {
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, log, err := bootstrap(ctx)
	if err != nil {
		return err
	}

	// --- Storage ---
	gw := newGateway(cfg)
	startCtx, cancelStart := context.WithTimeout(ctx, startupTimeout)
	if err := ensureIndexes(startCtx, gw); err != nil {
		// Each later connect retries the indexes before serving a request;
		// readiness reports the store as down until one succeeds.
		log.Warn().Err(err).Msg("could not connect to MongoDB at startup")
	}
	cancelStart()

	rdb := redisstore.NewClient(redisstore.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	users := mongostore.NewUserRepository(gw)
	resources := mongostore.NewResourceRepository(gw)
	events := mongostore.NewDownloadEventRepository(gw)

	// --- Audit workers ---
	workerCtx, cancelWorkers := context.WithCancel(context.Background())
	dispatcher := queue.NewDispatcher(cfg.AuditWorkers, service.NewAuditService(events, logger.Component("audit")), logger.Component("dispatcher"))
	dispatcher.Start(workerCtx)

	// --- Services ---
	tokens := service.NewTokenService(cfg.JWTSecret, cfg.TokenTTL)
	authService := service.NewAuthService(users, tokens, redisstore.NewRevocations(rdb), cfg.AdminEmails, logger.Component("auth"))

	e := api.NewRouter(api.Dependencies{
		Auth:       authService,
		Resources:  service.NewResourceService(resources, users, dispatcher, logger.Component("resources")),
		Users:      service.NewUserService(users),
		Dashboards: service.NewDashboardService(resources),
		UserLookup: users,
		Store:      gw,
		Health: map[string]handler.DependencyCheck{
			"mongodb": gw.Ensure,
			"redis": func(ctx context.Context) error {
				return redisstore.Ping(ctx, rdb, 0)
			},
		},
		Logger:         logger.Component("http"),
		CORSOrigins:    cfg.CORSOrigins,
		MaxUploadBytes: cfg.MaxUploadBytes,
	})

	serverErr := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("starting server")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	var runErr error
	select {
	case runErr = <-serverErr:
	case <-ctx.Done():
		log.Info().Msg("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http server shutdown")
	}
	cancelWorkers()
	if err := rdb.Close(); err != nil {
		log.Warn().Err(err).Msg("closing redis client")
	}
	if err := gw.Close(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("closing mongo gateway")
	}
	log.Info().Msg("server stopped")
	return runErr
}
