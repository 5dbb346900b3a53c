package finance

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pethotel/backend/internal/domain/finance"
	"github.com/pethotel/backend/internal/domain/shared"
	"github.com/pethotel/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var (
	tenantID = uuid.MustParse("00000000-0000-0000-0000-000000000001")
	brt      = time.FixedZone("BRT", -3*3600)
	now      = time.Date(2024, 6, 14, 10, 0, 0, 0, brt)
)

func clock() time.Time { return now }

func newInvoice(t *testing.T, face string) *finance.Invoice {
	t.Helper()
	inv, err := finance.NewInvoice(tenantID, finance.InvoiceDetails{
		Category:   "Fornecedores",
		Payee:      "Racao Ltda",
		Reference:  "NF 9",
		FaceAmount: valueobject.NewMoneyBRL(decimal.RequireFromString(face)),
		LateFee:    valueobject.ZeroBRL(),
	})
	require.NoError(t, err)
	inv.ClearDomainEvents()
	return inv
}

func newOutflow(t *testing.T, code, amount string) *finance.StatementTransaction {
	t.Helper()
	txn, err := finance.NewStatementTransaction(tenantID, code, finance.TransactionDirectionOutflow,
		valueobject.NewMoneyBRL(decimal.RequireFromString(amount)), now, "PIX", "pix")
	require.NoError(t, err)
	txn.ClearDomainEvents()
	return txn
}

func newServices(d *testDeps) (*ReconciliationService, *PostingService) {
	posting := NewPostingService(PostingServiceConfig{
		Scope:     d.scope,
		Poster:    finance.NewSettlementPoster(clock, brt),
		Publisher: d.publisher,
	})
	recon := NewReconciliationService(ReconciliationServiceConfig{
		Scope:           d.scope,
		TransactionRepo: d.transactions,
		Engine:          finance.NewReconciliationEngine(finance.WithClock(clock), finance.WithLocation(brt)),
		Posting:         posting,
		Publisher:       d.publisher,
	})
	return recon, posting
}

func TestReconciliationService_LookupTransaction(t *testing.T) {
	ctx := context.Background()

	t.Run("outflow", func(t *testing.T) {
		d := newTestDeps()
		recon, _ := newServices(d)
		txn := newOutflow(t, "TX-1", "300.00")
		d.transactions.On("FindByReferenceCode", ctx, tenantID, "TX-1").Return(txn, nil)

		got, err := recon.LookupTransaction(ctx, tenantID, " TX-1 ")
		require.NoError(t, err)
		assert.True(t, got.Available.Equal(decimal.RequireFromString("300.00")))
	})

	t.Run("inflow is rejected", func(t *testing.T) {
		d := newTestDeps()
		recon, _ := newServices(d)
		txn, err := finance.NewStatementTransaction(tenantID, "IN-1", "", valueobject.NewMoneyBRL(decimal.NewFromInt(50)), now, "", "")
		require.NoError(t, err)
		d.transactions.On("FindByReferenceCode", ctx, tenantID, "IN-1").Return(txn, nil)

		_, err = recon.LookupTransaction(ctx, tenantID, "IN-1")
		assert.ErrorIs(t, err, finance.ErrDirectionMismatch)
	})

	t.Run("not found", func(t *testing.T) {
		d := newTestDeps()
		recon, _ := newServices(d)
		d.transactions.On("FindByReferenceCode", ctx, tenantID, "NOPE").Return(nil, shared.ErrNotFound)

		_, err := recon.LookupTransaction(ctx, tenantID, "NOPE")
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestReconciliationService_Link_SettlesAndPosts(t *testing.T) {
	ctx := context.Background()
	d := newTestDeps()
	recon, _ := newServices(d)

	inv := newInvoice(t, "1000.00")
	txn := newOutflow(t, "TX-A", "1000.00")

	d.invoices.On("FindByIDForTenant", ctx, tenantID, inv.ID).Return(inv, nil)
	d.transactions.On("FindByReferenceCode", ctx, tenantID, "TX-A").Return(txn, nil)
	d.invoices.On("Save", ctx, inv).Return(nil)
	d.transactions.On("Save", ctx, txn).Return(nil)
	d.expenses.On("FindBySource", ctx, tenantID, inv.ID, 1).Return(nil, shared.ErrNotFound)
	d.expenses.On("Create", ctx, mock.MatchedBy(func(e *finance.Expense) bool {
		return e.SourceInvoiceID == inv.ID && e.Amount.Equal(decimal.RequireFromString("1000.00"))
	})).Return(nil)

	result, err := recon.Link(ctx, tenantID, inv.ID, LinkTransactionRequest{TransactionCode: "TX-A", Mode: "full"})
	require.NoError(t, err)

	assert.True(t, result.Settled)
	assert.True(t, result.Posted)
	require.NotNil(t, result.ExpenseID)
	assert.Equal(t, "settled_today", result.Invoice.Status)
	assert.True(t, result.Invoice.PostedToExpense)
	assert.True(t, result.Link.Amount.Equal(decimal.RequireFromString("1000.00")))
	assert.True(t, txn.LinkedAmount.Equal(decimal.RequireFromString("1000.00")))
	assert.Equal(t, 2, d.scope.executions, "link and post run in separate scopes")
	d.expenses.AssertNumberOfCalls(t, "Create", 1)
	d.invoices.AssertNumberOfCalls(t, "Save", 2)
	assert.Empty(t, inv.GetDomainEvents(), "events are published and cleared")
}

func TestReconciliationService_Link_Partial(t *testing.T) {
	ctx := context.Background()
	d := newTestDeps()
	recon, _ := newServices(d)

	inv := newInvoice(t, "1000.00")
	txn := newOutflow(t, "TX-B", "400.00")
	d.invoices.On("FindByIDForTenant", ctx, tenantID, inv.ID).Return(inv, nil)
	d.transactions.On("FindByReferenceCode", ctx, tenantID, "TX-B").Return(txn, nil)
	d.invoices.On("Save", ctx, inv).Return(nil)
	d.transactions.On("Save", ctx, txn).Return(nil)

	amount := decimal.RequireFromString("400.00")
	result, err := recon.Link(ctx, tenantID, inv.ID, LinkTransactionRequest{TransactionCode: "TX-B", Mode: "partial", Amount: &amount})
	require.NoError(t, err)

	assert.False(t, result.Settled)
	assert.False(t, result.Posted)
	assert.Equal(t, "pending", result.Invoice.Status)
	d.expenses.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestReconciliationService_Link_ValidationFailsBeforeWrite(t *testing.T) {
	ctx := context.Background()
	d := newTestDeps()
	recon, _ := newServices(d)

	inv := newInvoice(t, "100.00")
	txn := newOutflow(t, "TX", "50.00")
	d.invoices.On("FindByIDForTenant", ctx, tenantID, inv.ID).Return(inv, nil)
	d.transactions.On("FindByReferenceCode", ctx, tenantID, "TX").Return(txn, nil)

	amount := decimal.RequireFromString("60.00")
	_, err := recon.Link(ctx, tenantID, inv.ID, LinkTransactionRequest{TransactionCode: "TX", Mode: "partial", Amount: &amount})
	assert.ErrorIs(t, err, finance.ErrExceedsAvailable)
	d.invoices.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	d.transactions.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	assert.Equal(t, 1, d.scope.rolledBack)

	_, err = recon.Link(ctx, tenantID, inv.ID, LinkTransactionRequest{TransactionCode: "TX", Mode: "partial"})
	assert.ErrorIs(t, err, finance.ErrInvalidAmount, "partial without amount")
}

func TestReconciliationService_Link_PostingFailureIsDeferred(t *testing.T) {
	ctx := context.Background()
	d := newTestDeps()
	recon, _ := newServices(d)

	inv := newInvoice(t, "100.00")
	txn := newOutflow(t, "TX", "100.00")
	d.invoices.On("FindByIDForTenant", ctx, tenantID, inv.ID).Return(inv, nil)
	d.transactions.On("FindByReferenceCode", ctx, tenantID, "TX").Return(txn, nil)
	d.invoices.On("Save", ctx, inv).Return(nil)
	d.transactions.On("Save", ctx, txn).Return(nil)
	d.expenses.On("FindBySource", ctx, tenantID, inv.ID, 1).Return(nil, errors.New("connection reset"))

	result, err := recon.Link(ctx, tenantID, inv.ID, LinkTransactionRequest{TransactionCode: "TX", Mode: "full"})
	require.NoError(t, err)
	assert.True(t, result.Settled)
	assert.False(t, result.Posted)
	assert.Equal(t, "pending_post", result.Invoice.PostingState)
}

func TestReconciliationService_Unlink(t *testing.T) {
	ctx := context.Background()
	d := newTestDeps()
	recon, _ := newServices(d)

	inv := newInvoice(t, "100.00")
	txn := newOutflow(t, "TX", "100.00")
	_, err := finance.NewReconciliationEngine(finance.WithClock(clock)).Link(inv, txn, finance.LinkRequest{Mode: finance.LinkModeFull})
	require.NoError(t, err)
	inv.ClearDomainEvents()

	d.invoices.On("FindByIDForTenant", ctx, tenantID, inv.ID).Return(inv, nil)
	d.transactions.On("FindByIDForTenant", ctx, tenantID, txn.ID).Return(txn, nil)
	d.invoices.On("Save", ctx, inv).Return(nil)
	d.transactions.On("Save", ctx, txn).Return(nil)

	resp, err := recon.Unlink(ctx, tenantID, inv.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, "pending", resp.Status)
	assert.Equal(t, "none", resp.PostingState)
	assert.Equal(t, 2, resp.PostingRound)
	assert.Empty(t, resp.Links)
	assert.True(t, txn.LinkedAmount.IsZero())

	_, err = recon.Unlink(ctx, tenantID, inv.ID, 0)
	assert.ErrorIs(t, err, finance.ErrLinkNotFound)
}
