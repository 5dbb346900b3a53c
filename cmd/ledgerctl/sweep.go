package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newSweepCmd(env func() *environment) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Post settled invoices, roll over settled_today and audit running totals",
		Example: `  # Sweep as of now
  ledgerctl sweep

  # Sweep as of a given business day
  ledgerctl sweep --today 2026-03-31`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e := env()
			value, _ := cmd.Flags().GetString("today")
			today, err := resolveToday(e, value)
			if err != nil {
				return err
			}

			result, err := e.sweeper.Sweep(cmd.Context(), today)
			if err != nil {
				return fmt.Errorf("sweep failed: %w", err)
			}
			if len(result.IntegrityViolations) > 0 {
				e.logger.Warn("Running total integrity violations found",
					zap.Int("count", len(result.IntegrityViolations)))
			}
			return printJSON(cmd, result)
		},
	}
	cmd.Flags().String("today", "", "Business day to sweep as (YYYY-MM-DD, default: today)")
	return cmd
}
