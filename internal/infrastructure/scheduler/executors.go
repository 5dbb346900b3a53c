package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	appfinance "github.com/pethotel/backend/internal/application/finance"
	appscheduling "github.com/pethotel/backend/internal/application/scheduling"
	"github.com/pethotel/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// Sweeper runs the posting recovery sweep
type Sweeper interface {
	Sweep(ctx context.Context, today time.Time) (*appfinance.SweepResult, error)
}

// CreditScanner runs replacement credit scans
type CreditScanner interface {
	Scan(ctx context.Context, tenantID uuid.UUID, today time.Time) (*appscheduling.ScanResult, error)
	ScanAllTenants(ctx context.Context, today time.Time) ([]appscheduling.ScanResult, error)
}

// PostingSweepExecutor runs POSTING_SWEEP jobs
type PostingSweepExecutor struct {
	sweeper Sweeper
	logger  *zap.Logger
}

// NewPostingSweepExecutor creates a new PostingSweepExecutor
func NewPostingSweepExecutor(sweeper Sweeper, logger *zap.Logger) *PostingSweepExecutor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PostingSweepExecutor{sweeper: sweeper, logger: logger}
}

// Execute runs one sweep. Integrity violations are logged and do not fail
// the job.
func (e *PostingSweepExecutor) Execute(ctx context.Context, job *Job) error {
	ctx, span := telemetry.StartSpan(ctx, "scheduler.posting_sweep",
		telemetry.WithAttribute("job.id", job.ID.String()))
	defer span.End()

	var (
		result *appfinance.SweepResult
		err    error
	)
	telemetry.WithProfilingLabels(ctx, telemetry.OperationLabels("posting_sweep", nil), func(ctx context.Context) {
		result, err = e.sweeper.Sweep(ctx, job.Today)
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return fmt.Errorf("posting sweep: %w", err)
	}

	for _, v := range result.IntegrityViolations {
		e.logger.Error("Transaction running total is inconsistent",
			zap.String("job_id", job.ID.String()),
			zap.String("tenant_id", v.TenantID.String()),
			zap.String("reference_code", v.ReferenceCode),
			zap.String("amount", v.Amount.StringFixed(2)),
			zap.String("linked_amount", v.LinkedAmount.StringFixed(2)),
			zap.String("link_sum", v.LinkSum.StringFixed(2)))
	}
	telemetry.SetAttributes(span,
		"sweep.posted", result.Posted,
		"sweep.rolled_over", result.RolledOver,
		"sweep.integrity_violations", len(result.IntegrityViolations))
	telemetry.SetOK(span)
	return nil
}

// CreditScanExecutor runs CREDIT_SCAN jobs, for one tenant when the job
// names one and otherwise for every tenant with candidates
type CreditScanExecutor struct {
	scanner CreditScanner
	logger  *zap.Logger
}

// NewCreditScanExecutor creates a new CreditScanExecutor
func NewCreditScanExecutor(scanner CreditScanner, logger *zap.Logger) *CreditScanExecutor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CreditScanExecutor{scanner: scanner, logger: logger}
}

// Execute runs the scan
func (e *CreditScanExecutor) Execute(ctx context.Context, job *Job) error {
	ctx, span := telemetry.StartSpan(ctx, "scheduler.credit_scan",
		telemetry.WithAttribute("job.id", job.ID.String()))
	defer span.End()

	generated := 0
	var err error
	telemetry.WithProfilingLabels(ctx, telemetry.OperationLabels("credit_scan", nil), func(ctx context.Context) {
		if job.TenantID != nil {
			var res *appscheduling.ScanResult
			res, err = e.scanner.Scan(ctx, *job.TenantID, job.Today)
			if res != nil {
				generated = res.Generated
			}
			return
		}
		var results []appscheduling.ScanResult
		results, err = e.scanner.ScanAllTenants(ctx, job.Today)
		for _, r := range results {
			generated += r.Generated
		}
	})

	telemetry.SetAttribute(span, "credits.generated", generated)
	if err != nil {
		telemetry.RecordError(span, err)
		return fmt.Errorf("credit scan: %w", err)
	}
	e.logger.Info("Credit scan job finished",
		zap.String("job_id", job.ID.String()),
		zap.Int("generated", generated))
	telemetry.SetOK(span)
	return nil
}

var (
	_ JobExecutor = (*PostingSweepExecutor)(nil)
	_ JobExecutor = (*CreditScanExecutor)(nil)
)
