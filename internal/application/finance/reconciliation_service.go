package finance

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/pethotel/backend/internal/domain/finance"
	"github.com/pethotel/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// ReconciliationService links statement transactions to invoices and
// persists both sides of every change in one transaction scope.
type ReconciliationService struct {
	scope     TransactionScope
	txnRepo   finance.StatementTransactionRepository
	engine    *finance.ReconciliationEngine
	posting   *PostingService
	publisher shared.EventPublisher
	metrics   LedgerMetrics
	logger    *zap.Logger
}

// ReconciliationServiceConfig holds the collaborators of ReconciliationService
type ReconciliationServiceConfig struct {
	Scope           TransactionScope
	TransactionRepo finance.StatementTransactionRepository
	Engine          *finance.ReconciliationEngine
	Posting         *PostingService
	Publisher       shared.EventPublisher
	Metrics         LedgerMetrics
	Logger          *zap.Logger
}

// NewReconciliationService creates a new ReconciliationService
func NewReconciliationService(cfg ReconciliationServiceConfig) *ReconciliationService {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	engine := cfg.Engine
	if engine == nil {
		engine = finance.NewReconciliationEngine()
	}
	return &ReconciliationService{
		scope:     cfg.Scope,
		txnRepo:   cfg.TransactionRepo,
		engine:    engine,
		posting:   cfg.Posting,
		publisher: cfg.Publisher,
		metrics:   metricsOrNop(cfg.Metrics),
		logger:    logger,
	}
}

// LookupTransaction resolves a reference code to its linkable projection.
// Inflow transactions return DIRECTION_MISMATCH.
func (s *ReconciliationService) LookupTransaction(ctx context.Context, tenantID uuid.UUID, code string) (*finance.TransactionLookup, error) {
	txn, err := s.txnRepo.FindByReferenceCode(ctx, tenantID, strings.TrimSpace(code))
	if err != nil {
		return nil, err
	}
	return s.engine.Lookup(txn)
}

// Link links part of a transaction to an invoice. When the link settles the
// invoice the expense is posted before returning; a posting failure leaves
// the invoice pending_post for the sweep and is not returned as an error.
func (s *ReconciliationService) Link(ctx context.Context, tenantID, invoiceID uuid.UUID, req LinkTransactionRequest) (*LinkResult, error) {
	linkReq := finance.LinkRequest{Mode: finance.LinkMode(req.Mode)}
	if linkReq.Mode == finance.LinkModePartial {
		if req.Amount == nil {
			return nil, finance.ErrInvalidAmount
		}
		linkReq.PartialAmount = *req.Amount
	}

	var (
		inv     *finance.Invoice
		txn     *finance.StatementTransaction
		outcome *finance.LinkOutcome
	)
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		inv, err = repos.InvoiceRepo().FindByIDForTenant(ctx, tenantID, invoiceID)
		if err != nil {
			return err
		}
		txn, err = repos.StatementTransactionRepo().FindByReferenceCode(ctx, tenantID, strings.TrimSpace(req.TransactionCode))
		if err != nil {
			return err
		}

		outcome, err = s.engine.Link(inv, txn, linkReq)
		if err != nil {
			return err
		}

		if err := repos.InvoiceRepo().Save(ctx, inv); err != nil {
			return fmt.Errorf("failed to save invoice: %w", err)
		}
		if err := repos.StatementTransactionRepo().Save(ctx, txn); err != nil {
			return fmt.Errorf("failed to save statement transaction: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.RecordLinkCreated(ctx, tenantID, outcome.Amount)
	s.logger.Info("Transaction linked to invoice",
		zap.String("tenant_id", tenantID.String()),
		zap.String("invoice_id", inv.ID.String()),
		zap.String("transaction_code", txn.ReferenceCode),
		zap.String("amount", outcome.Amount.StringFixed(2)),
		zap.Bool("settled", outcome.Settled))
	publishAndClear(ctx, s.publisher, s.logger, inv, txn)

	resp := ToInvoiceResponse(inv)
	result := &LinkResult{
		Invoice: resp,
		Link:    resp.Links[len(resp.Links)-1],
		Settled: outcome.Settled,
	}

	if outcome.Settled {
		s.metrics.RecordInvoiceSettled(ctx, tenantID)
		if s.posting != nil {
			posted, err := s.posting.PostIfSettled(ctx, tenantID, inv.ID)
			if err != nil {
				s.logger.Warn("Posting deferred to sweep",
					zap.String("invoice_id", inv.ID.String()),
					zap.Error(err))
			} else {
				result.Invoice = posted.Invoice
				result.Posted = true
				result.ExpenseID = &posted.Expense.ID
			}
		}
	}

	return result, nil
}

// Unlink removes the link at index from the invoice and returns its amount
// to the transaction it came from.
func (s *ReconciliationService) Unlink(ctx context.Context, tenantID, invoiceID uuid.UUID, index int) (*InvoiceResponse, error) {
	var (
		inv     *finance.Invoice
		txn     *finance.StatementTransaction
		outcome *finance.UnlinkOutcome
	)
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		inv, err = repos.InvoiceRepo().FindByIDForTenant(ctx, tenantID, invoiceID)
		if err != nil {
			return err
		}
		link, err := inv.LinkAt(index)
		if err != nil {
			return err
		}
		txn, err = repos.StatementTransactionRepo().FindByIDForTenant(ctx, tenantID, link.TransactionID)
		if err != nil {
			return err
		}

		outcome, err = s.engine.Unlink(inv, txn, index)
		if err != nil {
			return err
		}

		if err := repos.InvoiceRepo().Save(ctx, inv); err != nil {
			return fmt.Errorf("failed to save invoice: %w", err)
		}
		if err := repos.StatementTransactionRepo().Save(ctx, txn); err != nil {
			return fmt.Errorf("failed to save statement transaction: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.RecordLinkReversed(ctx, tenantID, outcome.Removed.Amount)
	s.logger.Info("Invoice link reversed",
		zap.String("tenant_id", tenantID.String()),
		zap.String("invoice_id", inv.ID.String()),
		zap.String("transaction_code", outcome.Removed.TransactionCode),
		zap.Bool("reopened", outcome.Reopened))
	publishAndClear(ctx, s.publisher, s.logger, inv, txn)

	resp := ToInvoiceResponse(inv)
	return &resp, nil
}
