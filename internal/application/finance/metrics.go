package finance

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LedgerMetrics records reconciliation activity. Implemented by the
// telemetry package; a nil recorder is replaced by a no-op.
type LedgerMetrics interface {
	RecordLinkCreated(ctx context.Context, tenantID uuid.UUID, amount decimal.Decimal)
	RecordLinkReversed(ctx context.Context, tenantID uuid.UUID, amount decimal.Decimal)
	RecordInvoiceSettled(ctx context.Context, tenantID uuid.UUID)
	RecordExpensePosted(ctx context.Context, tenantID uuid.UUID, amount decimal.Decimal, recovered bool)
	RecordIntegrityViolations(ctx context.Context, count int)
}

type nopLedgerMetrics struct{}

func (nopLedgerMetrics) RecordLinkCreated(context.Context, uuid.UUID, decimal.Decimal) {}
func (nopLedgerMetrics) RecordLinkReversed(context.Context, uuid.UUID, decimal.Decimal) {}
func (nopLedgerMetrics) RecordInvoiceSettled(context.Context, uuid.UUID) {}
func (nopLedgerMetrics) RecordExpensePosted(context.Context, uuid.UUID, decimal.Decimal, bool) {}
func (nopLedgerMetrics) RecordIntegrityViolations(context.Context, int) {}

func metricsOrNop(m LedgerMetrics) LedgerMetrics {
	if m == nil {
		return nopLedgerMetrics{}
	}
	return m
}
