package finance

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/pethotel/backend/internal/domain/finance"
	"github.com/pethotel/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// PostingService writes the expense for a fully settled invoice and marks the
// invoice posted. Rerunning it for the same posting round reuses the expense
// already written, so the recovery sweep can call it blindly.
type PostingService struct {
	scope     TransactionScope
	poster    *finance.SettlementPoster
	publisher shared.EventPublisher
	metrics   LedgerMetrics
	logger    *zap.Logger
}

// PostingServiceConfig holds the collaborators of PostingService
type PostingServiceConfig struct {
	Scope     TransactionScope
	Poster    *finance.SettlementPoster
	Publisher shared.EventPublisher
	Metrics   LedgerMetrics
	Logger    *zap.Logger
}

// NewPostingService creates a new PostingService
func NewPostingService(cfg PostingServiceConfig) *PostingService {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	poster := cfg.Poster
	if poster == nil {
		poster = finance.NewSettlementPoster(nil, nil)
	}
	return &PostingService{
		scope:     cfg.Scope,
		poster:    poster,
		publisher: cfg.Publisher,
		metrics:   metricsOrNop(cfg.Metrics),
		logger:    logger,
	}
}

// PostIfSettled posts the invoice's current settlement round.
// Fails with NOT_SETTLED or ALREADY_POSTED when the preconditions do not hold.
func (s *PostingService) PostIfSettled(ctx context.Context, tenantID, invoiceID uuid.UUID) (*PostResult, error) {
	var (
		inv       *finance.Invoice
		expense   *finance.Expense
		recovered bool
	)

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		inv, err = repos.InvoiceRepo().FindByIDForTenant(ctx, tenantID, invoiceID)
		if err != nil {
			return err
		}
		if err := s.poster.CheckPostable(inv); err != nil {
			return err
		}

		// Step 2: expense creation, reusing one left by an interrupted run.
		expense, err = repos.ExpenseRepo().FindBySource(ctx, tenantID, inv.ID, inv.PostingRound)
		switch {
		case err == nil:
			recovered = true
		case errors.Is(err, shared.ErrNotFound):
			expense, err = s.poster.BuildExpense(inv)
			if err != nil {
				return err
			}
			if err := repos.ExpenseRepo().Create(ctx, expense); err != nil {
				return fmt.Errorf("failed to create expense: %w", err)
			}
		default:
			return fmt.Errorf("failed to look up expense: %w", err)
		}

		// Step 3: mark posted.
		if err := s.poster.Complete(inv, expense); err != nil {
			return err
		}
		if err := repos.InvoiceRepo().Save(ctx, inv); err != nil {
			return fmt.Errorf("failed to mark invoice posted: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.RecordExpensePosted(ctx, tenantID, expense.Amount, recovered)
	s.logger.Info("Invoice posted to expenses",
		zap.String("tenant_id", tenantID.String()),
		zap.String("invoice_id", inv.ID.String()),
		zap.String("expense_id", expense.ID.String()),
		zap.Int("posting_round", inv.PostingRound),
		zap.Bool("recovered", recovered))

	publishAndClear(ctx, s.publisher, s.logger, inv)

	return &PostResult{
		Invoice:   ToInvoiceResponse(inv),
		Expense:   ToExpenseResponse(expense),
		Recovered: recovered,
	}, nil
}

// eventSource is an aggregate with pending domain events
type eventSource interface {
	GetDomainEvents() []shared.DomainEvent
	ClearDomainEvents()
}

// publishAndClear publishes pending events after a successful commit.
// Publishing failures are logged; the write has already happened.
func publishAndClear(ctx context.Context, publisher shared.EventPublisher, logger *zap.Logger, sources ...eventSource) {
	for _, src := range sources {
		events := src.GetDomainEvents()
		src.ClearDomainEvents()
		if publisher == nil || len(events) == 0 {
			continue
		}
		if err := publisher.Publish(ctx, events...); err != nil {
			logger.Warn("Failed to publish domain events",
				zap.Int("event_count", len(events)),
				zap.Error(err))
		}
	}
}
