package finance

import (
	"context"
	"fmt"

	"github.com/pethotel/backend/internal/domain/finance"
	"github.com/pethotel/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// SettlementAuditHandler writes an audit log line for every settlement,
// posting and reversal. It is registered behind an idempotent wrapper so a
// redelivered event is logged once.
type SettlementAuditHandler struct {
	logger *zap.Logger
}

// NewSettlementAuditHandler creates a new SettlementAuditHandler
func NewSettlementAuditHandler(logger *zap.Logger) *SettlementAuditHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SettlementAuditHandler{logger: logger.Named("settlement_audit")}
}

// EventTypes returns the event types this handler is interested in
func (h *SettlementAuditHandler) EventTypes() []string {
	return []string{
		finance.EventTypeInvoiceSettled,
		finance.EventTypeInvoicePosted,
		finance.EventTypeInvoiceLinkReversed,
	}
}

// Handle logs the event with its ledger fields
func (h *SettlementAuditHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	base := []zap.Field{
		zap.String("event_id", event.EventID().String()),
		zap.String("tenant_id", event.TenantID().String()),
		zap.String("invoice_id", event.AggregateID().String()),
	}

	switch e := event.(type) {
	case *finance.InvoiceSettledEvent:
		h.logger.Info("invoice settled", append(base,
			zap.String("face_amount", e.FaceAmount.StringFixed(2)),
			zap.String("settled_amount", e.SettledAmount.StringFixed(2)),
			zap.Time("settlement_date", e.SettlementDate),
			zap.Int("posting_round", e.PostingRound))...)
	case *finance.InvoicePostedEvent:
		h.logger.Info("invoice posted", append(base,
			zap.String("expense_id", e.ExpenseID.String()),
			zap.String("expense_amount", e.ExpenseAmount.StringFixed(2)),
			zap.Int("posting_round", e.PostingRound))...)
	case *finance.InvoiceLinkReversedEvent:
		fields := append(base,
			zap.String("transaction_id", e.TransactionID.String()),
			zap.String("amount", e.Amount.StringFixed(2)),
			zap.String("settled_amount", e.SettledAmount.StringFixed(2)))
		if e.ReopenedPosting {
			h.logger.Warn("settlement reversed; invoice reopened", fields...)
		} else {
			h.logger.Info("invoice link reversed", fields...)
		}
	default:
		return fmt.Errorf("unexpected event type: %s", event.EventType())
	}
	return nil
}
