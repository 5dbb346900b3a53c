package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func newScanCreditsCmd(env func() *environment) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan-credits",
		Short: "Convert cancelled and missed appointments into replacement credits",
		Long: `scan-credits generates replacement credits for the past appointments
that qualify. Without --tenant every tenant with candidates is scanned.`,
		Example: `  ledgerctl scan-credits
  ledgerctl scan-credits --tenant 00000000-0000-0000-0000-000000000001 --today 2026-03-02`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e := env()
			value, _ := cmd.Flags().GetString("today")
			today, err := resolveToday(e, value)
			if err != nil {
				return err
			}

			tenant, _ := cmd.Flags().GetString("tenant")
			if tenant == "" {
				results, err := e.scanner.ScanAllTenants(cmd.Context(), today)
				if err != nil {
					return fmt.Errorf("credit scan failed: %w", err)
				}
				return printJSON(cmd, results)
			}

			tenantID, err := uuid.Parse(tenant)
			if err != nil {
				return fmt.Errorf("invalid --tenant %q: %w", tenant, err)
			}
			result, err := e.scanner.Scan(cmd.Context(), tenantID, today)
			if err != nil {
				return fmt.Errorf("credit scan failed: %w", err)
			}
			return printJSON(cmd, result)
		},
	}
	cmd.Flags().String("tenant", "", "Tenant to scan (default: all tenants)")
	cmd.Flags().String("today", "", "Business day to scan as (YYYY-MM-DD, default: today)")
	return cmd
}
