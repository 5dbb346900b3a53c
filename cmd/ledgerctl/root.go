package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/pethotel/backend/internal/app"
	"github.com/pethotel/backend/internal/infrastructure/config"
	"github.com/pethotel/backend/internal/infrastructure/logger"
	"github.com/pethotel/backend/internal/infrastructure/scheduler"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const dateLayout = "2006-01-02"

// environment is what the subcommands run against
type environment struct {
	sweeper  scheduler.Sweeper
	scanner  scheduler.CreditScanner
	location *time.Location
	clock    func() time.Time
	logger   *zap.Logger
	close    func(context.Context) error
}

type bootstrapFunc func(ctx context.Context) (*environment, error)

// bootstrap loads config and wires the same services the server uses
func bootstrap(ctx context.Context) (*environment, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: "stderr",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	ledger, err := app.New(ctx, cfg, log)
	if err != nil {
		_ = logger.Sync(log)
		return nil, err
	}
	return &environment{
		sweeper:  ledger.Services.Sweep,
		scanner:  ledger.Services.Credits,
		location: ledger.Location,
		clock:    time.Now,
		logger:   ledger.Logger,
		close: func(ctx context.Context) error {
			err := ledger.Shutdown(ctx)
			_ = logger.Sync(ledger.Logger)
			return err
		},
	}, nil
}

// newRootCmd returns the command tree and a cleanup that releases whatever
// the bootstrap opened. Cleanup runs even when a subcommand fails.
func newRootCmd(boot bootstrapFunc, out io.Writer) (*cobra.Command, func(context.Context) error) {
	var env *environment

	root := &cobra.Command{
		Use:   "ledgerctl",
		Short: "Operate the pet hotel ledger from the command line",
		Long: `ledgerctl runs the ledger maintenance jobs on demand, using the same
configuration and database as the API server.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			env, err = boot(cmd.Context())
			return err
		},
	}
	root.SetOut(out)

	current := func() *environment { return env }
	root.AddCommand(newSweepCmd(current), newScanCreditsCmd(current))

	cleanup := func(ctx context.Context) error {
		if env == nil || env.close == nil {
			return nil
		}
		return env.close(ctx)
	}
	return root, cleanup
}

// resolveToday parses --today in the business location, defaulting to now
func resolveToday(env *environment, value string) (time.Time, error) {
	if value == "" {
		return env.clock().In(env.location), nil
	}
	today, err := time.ParseInLocation(dateLayout, value, env.location)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --today %q, use YYYY-MM-DD: %w", value, err)
	}
	return today, nil
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
