// AngelaMos | 2026
// commands.go

package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/carterperez-dev/coursemarket/internal/auth"
	"github.com/carterperez-dev/coursemarket/internal/category"
	"github.com/carterperez-dev/coursemarket/internal/creator"
	"github.com/carterperez-dev/coursemarket/internal/migrations"
	"github.com/carterperez-dev/coursemarket/internal/user"
)

func migrateCmd(open opener) *cobra.Command {
	var down, status bool

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		Long: `Apply the embedded SQL migrations in order. Applied versions are
recorded in schema_migrations, so running it twice is a no-op.

Examples:
  marketctl migrate
  marketctl migrate --status
  marketctl migrate --down`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := signalContext()
			defer cancel()

			db, err := open(ctx)
			if err != nil {
				return err
			}
			defer db.Close()

			switch {
			case status:
				return migrations.Status(ctx, db.DB.DB)
			case down:
				if err := migrations.Down(ctx, db.DB.DB); err != nil {
					return err
				}
			default:
				if err := migrations.Up(ctx, db.DB.DB); err != nil {
					return err
				}
			}

			version, err := migrations.Version(ctx, db.DB.DB)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "schema at version %d\n", version)
			return nil
		},
	}

	cmd.Flags().BoolVar(&down, "down", false, "roll back the most recent migration")
	cmd.Flags().BoolVar(&status, "status", false, "print applied and pending migrations")
	cmd.MarkFlagsMutuallyExclusive("down", "status")

	return cmd
}

func keygenCmd() *cobra.Command {
	var privatePath, publicPath string

	cmd := &cobra.Command{
		Use:   "keygen",
		Short: "Generate an ES256 key pair for signing access tokens",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := auth.GenerateKeyPair(privatePath, publicPath); err != nil {
				return fmt.Errorf("generate key pair: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s and %s\n", privatePath, publicPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&privatePath, "private", "keys/private.pem", "private key output path")
	cmd.Flags().StringVar(&publicPath, "public", "keys/public.pem", "public key output path")

	return cmd
}

func seedCategoriesCmd(open opener) *cobra.Command {
	return &cobra.Command{
		Use:   "seed-categories",
		Short: "Install the default category taxonomy",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := signalContext()
			defer cancel()

			db, err := open(ctx)
			if err != nil {
				return err
			}
			defer db.Close()

			n, err := category.NewService(category.NewRepository(db.DB)).
				Seed(ctx, category.Defaults)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "seeded %d categories\n", n)
			return nil
		},
	}
}

func promoteCmd(open opener) *cobra.Command {
	return &cobra.Command{
		Use:   "promote <email> <role>",
		Short: "Set a user's role (USER, CREATOR or ADMIN)",
		Example: `  marketctl promote dj@example.com CREATOR
  marketctl promote ops@example.com ADMIN`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signalContext()
			defer cancel()

			db, err := open(ctx)
			if err != nil {
				return err
			}
			defer db.Close()

			svc := user.NewService(
				user.NewRepository(db.DB),
				creator.NewService(creator.NewRepository(db.DB)),
			)

			u, err := svc.PromoteByEmail(ctx, args[0], args[1])
			if err != nil {
				return fmt.Errorf("promote %s: %w", args[0], err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s is now %s\n", u.Email, u.Role)
			return nil
		},
	}
}

func pruneSessionsCmd(open opener) *cobra.Command {
	var olderThan time.Duration

	cmd := &cobra.Command{
		Use:   "prune-sessions",
		Short: "Delete expired refresh tokens",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := signalContext()
			defer cancel()

			db, err := open(ctx)
			if err != nil {
				return err
			}
			defer db.Close()

			n, err := auth.NewRepository(db.DB).DeleteExpired(ctx, time.Now().Add(-olderThan))
			if err != nil {
				return fmt.Errorf("prune sessions: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "removed %d expired sessions\n", n)
			return nil
		},
	}

	cmd.Flags().DurationVar(&olderThan, "older-than", 0, "only remove tokens expired at least this long ago")

	return cmd
}
