// AngelaMos | 2026
// main.go

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/carterperez-dev/coursemarket/internal/config"
	"github.com/carterperez-dev/coursemarket/internal/core"
)

var Version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "marketctl",
		Short:         "Operator tooling for the course marketplace",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&configPath, "config", "config.yaml", "path to config file")

	open := func(ctx context.Context) (*core.Database, error) {
		cfg, err := config.LoadOperator(configPath)
		if err != nil {
			return nil, err
		}
		return core.NewDatabase(ctx, cfg.Database)
	}

	root.AddCommand(migrateCmd(open))
	root.AddCommand(keygenCmd())
	root.AddCommand(seedCategoriesCmd(open))
	root.AddCommand(promoteCmd(open))
	root.AddCommand(pruneSessionsCmd(open))

	return root
}

type opener func(ctx context.Context) (*core.Database, error)

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}
