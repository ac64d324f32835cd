package cli

import (
	"context"

	"github.com/spf13/cobra"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the MongoDB indexes the API relies on",
		Long: "Create the MongoDB indexes the API relies on, including the unique " +
			"index on user email that rejects duplicate registrations.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			cfg, log, err := bootstrap(ctx)
			if err != nil {
				return err
			}

			gw := newGateway(cfg)
			defer func() {
				if err := gw.Close(context.WithoutCancel(ctx)); err != nil {
					log.Warn().Err(err).Msg("closing mongo gateway")
				}
			}()

			if err := ensureIndexes(ctx, gw); err != nil {
				return err
			}
			log.Info().Str("database", cfg.Mongo.Database).Msg("indexes ensured")
			return nil
		},
	}
}
