package finance

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pethotel/backend/internal/domain/finance"
	"github.com/pethotel/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestSweep(d *testDeps, metrics LedgerMetrics) *PostingSweep {
	posting := NewPostingService(PostingServiceConfig{
		Scope:  d.scope,
		Poster: finance.NewSettlementPoster(clock, brt),
	})
	return NewPostingSweep(PostingSweepConfig{
		InvoiceRepo:     d.invoices,
		TransactionRepo: d.transactions,
		Scope:           d.scope,
		Posting:         posting,
		Location:        brt,
		BatchSize:       10,
		Metrics:         metrics,
	})
}

func TestPostingSweep_Sweep(t *testing.T) {
	ctx := context.Background()
	tomorrow := now.Add(24 * time.Hour)

	t.Run("reposts pending invoices and rolls over yesterday's settlements", func(t *testing.T) {
		d := newTestDeps()
		sweep := newTestSweep(d, nil)

		pending := settledInvoice(t, "80.00")
		broken := settledInvoice(t, "20.00")

		d.invoices.On("FindPendingPosting", ctx, 10).Return([]finance.Invoice{*pending, *broken}, nil)
		d.invoices.On("FindByIDForTenant", ctx, tenantID, pending.ID).Return(pending, nil)
		d.invoices.On("FindByIDForTenant", ctx, tenantID, broken.ID).Return(broken, nil)
		d.expenses.On("FindBySource", ctx, tenantID, pending.ID, 1).Return(nil, shared.ErrNotFound)
		d.expenses.On("FindBySource", ctx, tenantID, broken.ID, 1).Return(nil, errors.New("timeout"))
		d.expenses.On("Create", ctx, mock.Anything).Return(nil)
		d.invoices.On("Save", ctx, mock.Anything).Return(nil)

		d.invoices.On("FindSettledToday", ctx, shared.DateOf(tomorrow, brt)).
			Return([]finance.Invoice{*pending, *broken}, nil)
		d.transactions.On("LinkTotals", ctx).Return([]finance.TransactionLinkTotal{}, nil)

		result, err := sweep.Sweep(ctx, tomorrow)
		require.NoError(t, err)

		assert.Equal(t, 1, result.Posted)
		assert.Equal(t, 1, result.PostFailures)
		assert.Equal(t, 2, result.RolledOver)
		assert.Empty(t, result.IntegrityViolations)
		assert.True(t, pending.PostedToExpense())
		assert.True(t, broken.NeedsPosting())
	})

	t.Run("same-day settlements are not rolled over", func(t *testing.T) {
		d := newTestDeps()
		sweep := newTestSweep(d, nil)
		inv := settledInvoice(t, "80.00")

		d.invoices.On("FindPendingPosting", ctx, 10).Return([]finance.Invoice{}, nil)
		d.invoices.On("FindSettledToday", ctx, shared.DateOf(now, brt)).Return([]finance.Invoice{*inv}, nil)
		d.transactions.On("LinkTotals", ctx).Return([]finance.TransactionLinkTotal{}, nil)

		result, err := sweep.Sweep(ctx, now)
		require.NoError(t, err)
		assert.Zero(t, result.RolledOver)
		d.invoices.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("roll-over decides on the reloaded invoice", func(t *testing.T) {
		d := newTestDeps()
		sweep := newTestSweep(d, nil)
		listed := settledInvoice(t, "80.00")

		// Unlinked after the listing query ran
		fresh := *listed
		fresh.Links = nil
		fresh.SettledAmount = decimal.Zero
		fresh.Status = finance.InvoiceStatusPending
		fresh.SettlementDate = nil
		fresh.PostingState = finance.PostingStateNone

		d.invoices.On("FindPendingPosting", ctx, 10).Return([]finance.Invoice{}, nil)
		d.invoices.On("FindSettledToday", ctx, shared.DateOf(tomorrow, brt)).Return([]finance.Invoice{*listed}, nil)
		d.invoices.On("FindByIDForTenant", ctx, tenantID, listed.ID).Return(&fresh, nil)
		d.transactions.On("LinkTotals", ctx).Return([]finance.TransactionLinkTotal{}, nil)

		result, err := sweep.Sweep(ctx, tomorrow)
		require.NoError(t, err)
		assert.Zero(t, result.RolledOver)
		assert.Equal(t, finance.InvoiceStatusPending, fresh.Status)
		d.invoices.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("audit reports inconsistent running totals", func(t *testing.T) {
		d := newTestDeps()
		metrics := &recordingMetrics{}
		sweep := newTestSweep(d, metrics)

		good := finance.TransactionLinkTotal{
			TransactionID: uuid.New(), TenantID: tenantID, ReferenceCode: "OK",
			Amount: decimal.NewFromInt(100), LinkedAmount: decimal.NewFromInt(40), LinkSum: decimal.NewFromInt(40),
		}
		drifted := finance.TransactionLinkTotal{
			TransactionID: uuid.New(), TenantID: tenantID, ReferenceCode: "DRIFT",
			Amount: decimal.NewFromInt(100), LinkedAmount: decimal.NewFromInt(60), LinkSum: decimal.NewFromInt(40),
		}
		over := finance.TransactionLinkTotal{
			TransactionID: uuid.New(), TenantID: tenantID, ReferenceCode: "OVER",
			Amount: decimal.NewFromInt(100), LinkedAmount: decimal.NewFromInt(120), LinkSum: decimal.NewFromInt(120),
		}

		d.invoices.On("FindPendingPosting", ctx, 10).Return([]finance.Invoice{}, nil)
		d.invoices.On("FindSettledToday", ctx, mock.Anything).Return([]finance.Invoice{}, nil)
		d.transactions.On("LinkTotals", ctx).Return([]finance.TransactionLinkTotal{good, drifted, over}, nil)

		result, err := sweep.Sweep(ctx, now)
		require.NoError(t, err)

		require.Len(t, result.IntegrityViolations, 2)
		assert.Equal(t, "DRIFT", result.IntegrityViolations[0].ReferenceCode)
		assert.Equal(t, "OVER", result.IntegrityViolations[1].ReferenceCode)
		assert.Equal(t, shared.ErrDataIntegrity.Code, result.IntegrityViolations[0].Code)
		assert.Equal(t, 2, metrics.violations)
	})

	t.Run("repository failure aborts", func(t *testing.T) {
		d := newTestDeps()
		sweep := newTestSweep(d, nil)
		d.invoices.On("FindPendingPosting", ctx, 10).Return(nil, errors.New("db down"))

		_, err := sweep.Sweep(ctx, now)
		assert.Error(t, err)
		d.invoices.AssertNotCalled(t, "FindSettledToday", mock.Anything, mock.Anything)
	})
}
