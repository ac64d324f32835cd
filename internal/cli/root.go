// Package cli wires the scholarhub command tree.
package cli

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/sxc/scholarhub/internal/core/domain"
	mongostore "github.com/sxc/scholarhub/internal/infrastructure/db/mongo"
	"github.com/sxc/scholarhub/internal/pkg/config"
	"github.com/sxc/scholarhub/pkg/logger"
)

// NewRootCmd returns the scholarhub command with every subcommand attached.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "scholarhub",
		Short:         "SXC ScholarHub - academic resource portal API",
		SilenceErrors: true,
		SilenceUsage:  true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}

	root.AddCommand(
		newServeCmd(),
		newMigrateCmd(),
		newPromoteCmd(openUserStore),
	)
	return root
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	return NewRootCmd().ExecuteContext(ctx)
}

// bootstrap loads configuration and initialises the process logger.
func bootstrap(ctx context.Context) (*config.Config, zerolog.Logger, error) {
	cfg, err := config.Load(ctx)
	if err != nil {
		return nil, zerolog.Nop(), err
	}
	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.IsDevelopment(),
	})
	return cfg, log, nil
}

func newGateway(cfg *config.Config) *mongostore.Gateway {
	return mongostore.NewGateway(mongostore.Config{
		URI:            cfg.Mongo.URL,
		Database:       cfg.Mongo.Database,
		ConnectTimeout: cfg.Mongo.ConnectTimeout,
		SocketTimeout:  cfg.Mongo.SocketTimeout,
		MaxPoolSize:    cfg.Mongo.MaxPoolSize,
		RetryWrites:    cfg.Mongo.RetryWrites,
		HealthInterval: cfg.Mongo.HealthInterval,
		OnConnect:      mongostore.EnsureIndexes,
	}, logger.Component("mongo"))
}

// ensureIndexes connects the gateway, which creates the indexes through
// its OnConnect hook.
func ensureIndexes(ctx context.Context, gw *mongostore.Gateway) error {
	if _, err := gw.Acquire(ctx); err != nil {
		return fmt.Errorf("ensure indexes: %w", err)
	}
	return nil
}

func validRole(role string) bool {
	return role == domain.RoleAdmin || role == domain.RoleStudent
}
