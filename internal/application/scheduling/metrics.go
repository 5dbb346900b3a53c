package scheduling

import (
	"context"

	"github.com/google/uuid"
)

// CreditMetrics records credit generation. A nil recorder is replaced by a no-op.
type CreditMetrics interface {
	RecordCreditsGenerated(ctx context.Context, tenantID uuid.UUID, count int)
}

type nopCreditMetrics struct{}

func (nopCreditMetrics) RecordCreditsGenerated(context.Context, uuid.UUID, int) {}
