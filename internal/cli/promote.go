package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sxc/scholarhub/internal/core/domain"
	mongostore "github.com/sxc/scholarhub/internal/infrastructure/db/mongo"
)

var promoteExample = `
  scholarhub promote jane@sxc.edu
  scholarhub promote jane@sxc.edu --role student`

// roleSetter is the slice of the user store promote needs.
type roleSetter interface {
	SetRole(ctx context.Context, email, role string) error
}

// userStoreOpener returns a role setter and a func releasing it.
type userStoreOpener func(ctx context.Context) (roleSetter, func(), error)

func openUserStore(ctx context.Context) (roleSetter, func(), error) {
	cfg, log, err := bootstrap(ctx)
	if err != nil {
		return nil, nil, err
	}
	gw := newGateway(cfg)
	release := func() {
		if err := gw.Close(context.WithoutCancel(ctx)); err != nil {
			log.Warn().Err(err).Msg("closing mongo gateway")
		}
	}
	return mongostore.NewUserRepository(gw), release, nil
}

func newPromoteCmd(open userStoreOpener) *cobra.Command {
	var role string

	cmd := &cobra.Command{
		Use:     "promote <email>",
		Short:   "Change the role of an existing user",
		Example: promoteExample,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !validRole(role) {
				return fmt.Errorf("invalid role %q: must be %s or %s", role, domain.RoleAdmin, domain.RoleStudent)
			}

			users, release, err := open(cmd.Context())
			if err != nil {
				return err
			}
			defer release()

			email := args[0]
			if err := users.SetRole(cmd.Context(), email, role); err != nil {
				return fmt.Errorf("promote %s: %w", email, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s is now %s\n", email, role)
			return nil
		},
	}

	cmd.Flags().StringVar(&role, "role", domain.RoleAdmin, "role to assign (admin or student)")
	return cmd
}
