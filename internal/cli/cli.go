package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/fx"

	"github.com/Additional-Code/purchasehub/internal/app"
	"github.com/Additional-Code/purchasehub/internal/client"
	"github.com/Additional-Code/purchasehub/internal/config"
	"github.com/Additional-Code/purchasehub/internal/migration"
	"github.com/Additional-Code/purchasehub/internal/seeder"
)

type options struct {
	api string
}

// client builds an API client from the environment; --api overrides the base URL.
func (o *options) client() (*client.Client, error) {
	cfg, err := config.New()
	if err != nil {
		return nil, err
	}
	if o.api != "" {
		cfg.Client.BaseURL = strings.TrimRight(o.api, "/")
	}
	return client.New(cfg.Client), nil
}

// NewRootCommand builds the root purchasehub CLI command.
func NewRootCommand() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:           "purchasehub",
		Short:         "Purchasing hub service and operator console",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.api, "api", "", "API base URL (defaults to API_BASE_URL)")

	root.AddCommand(newStartCmd())
	root.AddCommand(newMigrateCmd())
	root.AddCommand(newSeedCmd())
	root.AddCommand(newWorkerCmd())
	for _, p := range pages {
		root.AddCommand(newResourceCmd(p, opts))
	}

	return root
}

// Execute runs the purchasehub CLI.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := NewRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return err
	}
	return nil
}

func newStartCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "start",
		Aliases: []string{"run", "serve"},
		Short:   "Serve the REST API (and gRPC health) until interrupted",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(cmd.Context(), app.HTTP)
		},
	}
}

func newMigrateCmd() *cobra.Command {
	migrate := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the SQL schema (no-op for mongo and file storage)",
	}

	var (
		steps int
		all   bool
	)
	down := &cobra.Command{
		Use:   "down",
		Short: "Roll back the most recent migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withComponent(cmd, migration.Module, func(ctx context.Context, mig *migration.Migrator) error {
				if err := mig.Down(ctx, steps, all); err != nil {
					return err
				}
				return report(cmd, mig, "rolled back")
			})
		},
	}
	down.Flags().IntVar(&steps, "steps", 1, "number of migrations to roll back")
	down.Flags().BoolVar(&all, "all", false, "roll back every applied migration")

	migrate.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply pending migrations",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return withComponent(cmd, migration.Module, func(ctx context.Context, mig *migration.Migrator) error {
					if err := mig.Up(ctx); err != nil {
						return err
					}
					return report(cmd, mig, "applied")
				})
			},
		},
		down,
		&cobra.Command{
			Use:   "version",
			Short: "Print the applied schema version",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return withComponent(cmd, migration.Module, func(ctx context.Context, mig *migration.Migrator) error {
					return report(cmd, mig, "at")
				})
			},
		},
	)
	return migrate
}

// report prints "schema <verb> version N".
func report(cmd *cobra.Command, mig *migration.Migrator, verb string) error {
	v, err := mig.Version(cmd.Context())
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "schema %s version %d\n", verb, v)
	return nil
}

func newSeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Load a linked sample data set",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withComponent(cmd, seeder.Module, func(ctx context.Context, seed *seeder.Seeder) error {
				res, err := seed.Run(ctx)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "seed data applied: %d created, %d already present\n", res.Created, res.Skipped)
				return nil
			})
		},
	}
}

func newWorkerCmd() *cobra.Command {
	worker := &cobra.Command{
		Use:   "worker",
		Short: "Background event processing",
	}
	worker.AddCommand(&cobra.Command{
		Use:   "run",
		Short: "Consume document events and evict stale cache entries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(cmd.Context(), app.Worker)
		},
	})
	return worker
}

const stopTimeout = 10 * time.Second

// serve runs module until ctx is cancelled or the app asks to shut down.
func serve(ctx context.Context, module fx.Option) error {
	application := fx.New(module, app.EventLogger)
	if err := application.Start(ctx); err != nil {
		return err
	}
	select {
	case <-ctx.Done():
	case <-application.Done():
	}
	stopCtx, cancel := context.WithTimeout(context.Background(), stopTimeout)
	defer cancel()
	return application.Stop(stopCtx)
}

// withComponent starts the core graph plus module, hands the T it provides to
// fn, and stops the graph afterwards.
func withComponent[T any](cmd *cobra.Command, module fx.Option, fn func(context.Context, T) error) error {
	var component T
	application := fx.New(app.Core, module, fx.Populate(&component), fx.NopLogger)

	ctx := cmd.Context()
	if err := application.Start(ctx); err != nil {
		return err
	}
	defer func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), stopTimeout)
		defer cancel()
		_ = application.Stop(stopCtx)
	}()
	return fn(ctx, component)
}
