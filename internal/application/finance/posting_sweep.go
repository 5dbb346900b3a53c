package finance

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pethotel/backend/internal/domain/finance"
	"github.com/pethotel/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const defaultSweepBatchSize = 500

// IntegrityViolation describes a transaction whose running total disagrees
// with its link rows or its amount
type IntegrityViolation struct {
	Code          string          `json:"code"`
	TenantID      uuid.UUID       `json:"tenant_id"`
	TransactionID uuid.UUID       `json:"transaction_id"`
	ReferenceCode string          `json:"reference_code"`
	Amount        decimal.Decimal `json:"amount"`
	LinkedAmount  decimal.Decimal `json:"linked_amount"`
	LinkSum       decimal.Decimal `json:"link_sum"`
}

// SweepResult summarises one sweep run
type SweepResult struct {
	Posted              int                  `json:"posted"`
	PostFailures        int                  `json:"post_failures"`
	RolledOver          int                  `json:"rolled_over"`
	IntegrityViolations []IntegrityViolation `json:"integrity_violations"`
}

// PostingSweep repairs invoices left between settlement and posting, rolls
// settled_today over to settled and audits transaction running totals.
type PostingSweep struct {
	invoiceRepo finance.InvoiceRepository
	txnRepo     finance.StatementTransactionRepository
	scope       TransactionScope
	posting     *PostingService
	location    *time.Location
	batchSize   int
	metrics     LedgerMetrics
	logger      *zap.Logger
}

// PostingSweepConfig holds the collaborators of PostingSweep
type PostingSweepConfig struct {
	InvoiceRepo     finance.InvoiceRepository
	TransactionRepo finance.StatementTransactionRepository
	Scope           TransactionScope
	Posting         *PostingService
	Location        *time.Location
	BatchSize       int
	Metrics         LedgerMetrics
	Logger          *zap.Logger
}

// NewPostingSweep creates a new PostingSweep
func NewPostingSweep(cfg PostingSweepConfig) *PostingSweep {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	loc := cfg.Location
	if loc == nil {
		loc = time.UTC
	}
	batch := cfg.BatchSize
	if batch <= 0 {
		batch = defaultSweepBatchSize
	}
	return &PostingSweep{
		invoiceRepo: cfg.InvoiceRepo,
		txnRepo:     cfg.TransactionRepo,
		scope:       cfg.Scope,
		posting:     cfg.Posting,
		location:    loc,
		batchSize:   batch,
		metrics:     metricsOrNop(cfg.Metrics),
		logger:      logger,
	}
}

// Sweep runs the three passes. A failure to post one invoice is counted and
// logged without stopping the run; repository failures abort it.
func (s *PostingSweep) Sweep(ctx context.Context, today time.Time) (*SweepResult, error) {
	result := &SweepResult{IntegrityViolations: make([]IntegrityViolation, 0)}

	if err := s.repostPending(ctx, result); err != nil {
		return result, err
	}
	if err := s.rollOver(ctx, today, result); err != nil {
		return result, err
	}
	if err := s.audit(ctx, result); err != nil {
		return result, err
	}

	s.logger.Info("Posting sweep completed",
		zap.Int("posted", result.Posted),
		zap.Int("post_failures", result.PostFailures),
		zap.Int("rolled_over", result.RolledOver),
		zap.Int("integrity_violations", len(result.IntegrityViolations)))
	return result, nil
}

func (s *PostingSweep) repostPending(ctx context.Context, result *SweepResult) error {
	pending, err := s.invoiceRepo.FindPendingPosting(ctx, s.batchSize)
	if err != nil {
		return fmt.Errorf("failed to load invoices pending posting: %w", err)
	}
	for i := range pending {
		inv := &pending[i]
		if _, err := s.posting.PostIfSettled(ctx, inv.TenantID, inv.ID); err != nil {
			result.PostFailures++
			s.logger.Error("Sweep failed to post invoice",
				zap.String("tenant_id", inv.TenantID.String()),
				zap.String("invoice_id", inv.ID.String()),
				zap.Error(err))
			continue
		}
		result.Posted++
	}
	return nil
}

func (s *PostingSweep) rollOver(ctx context.Context, today time.Time, result *SweepResult) error {
	startOfDay := shared.DateOf(today, s.location)
	candidates, err := s.invoiceRepo.FindSettledToday(ctx, startOfDay)
	if err != nil {
		return fmt.Errorf("failed to load settled_today invoices: %w", err)
	}
	for i := range candidates {
		candidate := &candidates[i]
		if !candidate.DueForRollOver(today, s.location) {
			continue
		}
		// The candidate may have been unlinked since the query; decide on the
		// locked row.
		rolled := false
		err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
			inv, err := repos.InvoiceRepo().FindByIDForTenant(ctx, candidate.TenantID, candidate.ID)
			if err != nil {
				return err
			}
			if !inv.RollOver(today, s.location) {
				return nil
			}
			rolled = true
			return repos.InvoiceRepo().Save(ctx, inv)
		})
		if err != nil {
			return fmt.Errorf("failed to roll over invoice %s: %w", candidate.ID, err)
		}
		if rolled {
			result.RolledOver++
		}
	}
	return nil
}

func (s *PostingSweep) audit(ctx context.Context, result *SweepResult) error {
	totals, err := s.txnRepo.LinkTotals(ctx)
	if err != nil {
		return fmt.Errorf("failed to load transaction link totals: %w", err)
	}
	for _, t := range totals {
		if t.Consistent() {
			continue
		}
		v := IntegrityViolation{
			Code:          shared.ErrDataIntegrity.Code,
			TenantID:      t.TenantID,
			TransactionID: t.TransactionID,
			ReferenceCode: t.ReferenceCode,
			Amount:        t.Amount,
			LinkedAmount:  t.LinkedAmount,
			LinkSum:       t.LinkSum,
		}
		result.IntegrityViolations = append(result.IntegrityViolations, v)
		s.logger.Error("Statement transaction totals are inconsistent",
			zap.String("tenant_id", t.TenantID.String()),
			zap.String("transaction_id", t.TransactionID.String()),
			zap.String("reference_code", t.ReferenceCode),
			zap.String("amount", t.Amount.StringFixed(2)),
			zap.String("linked_amount", t.LinkedAmount.StringFixed(2)),
			zap.String("link_sum", t.LinkSum.StringFixed(2)))
	}
	if n := len(result.IntegrityViolations); n > 0 {
		s.metrics.RecordIntegrityViolations(ctx, n)
	}
	return nil
}
