package finance

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pethotel/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func settledInvoice(t *testing.T, face, lateFee string, due *time.Time) *Invoice {
	t.Helper()
	inv, err := NewInvoice(testTenant, InvoiceDetails{
		Category:      "Servicos",
		Payee:         "Vet Clinic",
		Reference:     "Boleto 77",
		DueDate:       due,
		FaceAmount:    brl(t, face),
		LateFee:       brl(t, lateFee),
		PaymentMethod: "boleto",
	})
	require.NoError(t, err)

	engine := newTestEngine()
	_, err = engine.Link(inv, newOutflow(t, "TX-P", face), LinkRequest{Mode: LinkModeFull})
	require.NoError(t, err)
	require.True(t, inv.NeedsPosting())
	return inv
}

func TestSettlementPoster_BuildExpense(t *testing.T) {
	poster := NewSettlementPoster(fixedClock(), testLoc)
	due := time.Date(2024, 6, 10, 0, 0, 0, 0, testLoc)
	inv := settledInvoice(t, "1000.00", "25.50", &due)

	expense, err := poster.BuildExpense(inv)
	require.NoError(t, err)

	assert.True(t, expense.Amount.Equal(dec("1025.50")), "face plus late fee")
	assert.Equal(t, "Servicos", expense.Category)
	assert.Equal(t, "Boleto 77", expense.Subcategory)
	assert.Equal(t, "Vet Clinic - Boleto 77", expense.Description)
	assert.Equal(t, "boleto", expense.PaymentMethod)
	assert.Equal(t, "Vet Clinic", expense.Payee)
	assert.Equal(t, inv.ID, expense.SourceInvoiceID)
	assert.Equal(t, inv.PostingRound, expense.PostingRound)
	assert.Equal(t, inv.TenantID, expense.TenantID)
	assert.Equal(t, *inv.SettlementDate, expense.PostingDate)

	assert.Equal(t, 4, expense.AuditNote.DaysLate)
	assert.Equal(t, &due, expense.AuditNote.OriginalDueDate)
	assert.True(t, expense.AuditNote.LateFee.Equal(dec("25.50")))
	require.Len(t, expense.AuditNote.Links, 1)
	assert.Equal(t, "TX-P", expense.AuditNote.Links[0].TransactionCode)
	assert.True(t, expense.AuditNote.Links[0].Amount.Equal(dec("1000.00")))

	assert.False(t, inv.PostedToExpense(), "building does not mark the invoice")
}

func TestSettlementPoster_NoDueDate(t *testing.T) {
	poster := NewSettlementPoster(fixedClock(), testLoc)
	inv := settledInvoice(t, "80.00", "0", nil)

	expense, err := poster.BuildExpense(inv)
	require.NoError(t, err)
	assert.Equal(t, 0, expense.AuditNote.DaysLate)
	assert.Equal(t, "Vet Clinic - Boleto 77", expense.Description)
}

func TestSettlementPoster_Preconditions(t *testing.T) {
	poster := NewSettlementPoster(fixedClock(), testLoc)

	_, err := poster.BuildExpense(nil)
	assert.ErrorIs(t, err, ErrInvoiceNotFound)

	pending := newTestInvoice(t, "10.00")
	_, err = poster.BuildExpense(pending)
	assert.ErrorIs(t, err, ErrNotSettled)

	inv := settledInvoice(t, "10.00", "0", nil)
	expense, err := poster.BuildExpense(inv)
	require.NoError(t, err)
	require.NoError(t, poster.Complete(inv, expense))

	_, err = poster.BuildExpense(inv)
	assert.ErrorIs(t, err, ErrAlreadyPosted)
	assert.ErrorIs(t, poster.Complete(inv, expense), ErrAlreadyPosted)
}

func TestSettlementPoster_CompleteRejectsForeignExpense(t *testing.T) {
	poster := NewSettlementPoster(fixedClock(), testLoc)
	inv := settledInvoice(t, "10.00", "0", nil)

	expense, err := poster.BuildExpense(inv)
	require.NoError(t, err)

	stale := *expense
	stale.PostingRound = inv.PostingRound + 1
	assert.True(t, shared.HasCode(poster.Complete(inv, &stale), "INVALID_STATE"))

	foreign := *expense
	foreign.SourceInvoiceID = uuid.New()
	assert.True(t, shared.HasCode(poster.Complete(inv, &foreign), "INVALID_STATE"))

	require.NoError(t, poster.Complete(inv, expense))
	events := inv.GetDomainEvents()
	assert.Equal(t, EventTypeInvoicePosted, events[len(events)-1].EventType())
}

func TestSettlementPoster_RepostAfterReversal(t *testing.T) {
	engine := newTestEngine()
	poster := NewSettlementPoster(fixedClock(), testLoc)
	inv := newTestInvoice(t, "100.00")
	txn := newOutflow(t, "TX", "100.00")

	_, err := engine.Link(inv, txn, LinkRequest{Mode: LinkModeFull})
	require.NoError(t, err)
	first, err := poster.BuildExpense(inv)
	require.NoError(t, err)
	require.NoError(t, poster.Complete(inv, first))

	_, err = engine.Unlink(inv, txn, 0)
	require.NoError(t, err)
	_, err = engine.Link(inv, txn, LinkRequest{Mode: LinkModeFull})
	require.NoError(t, err)

	second, err := poster.BuildExpense(inv)
	require.NoError(t, err)
	assert.Equal(t, first.PostingRound+1, second.PostingRound)
	require.NoError(t, poster.Complete(inv, second))
}
