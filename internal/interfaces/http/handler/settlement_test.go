package handler

import (
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	financeapp "github.com/pethotel/backend/internal/application/finance"
	"github.com/pethotel/backend/internal/domain/finance"
	"github.com/pethotel/backend/internal/interfaces/http/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type settlementMocks struct {
	reconciliation *MockReconciliationUseCases
	posting        *MockPostingUseCases
	sweep          *MockSweepRunner
}

func newSettlementEngine(t *testing.T, loc *time.Location, now time.Time) (*gin.Engine, settlementMocks) {
	t.Helper()
	m := settlementMocks{
		reconciliation: new(MockReconciliationUseCases),
		posting:        new(MockPostingUseCases),
		sweep:          new(MockSweepRunner),
	}
	h := NewSettlementHandler(m.reconciliation, m.posting, m.sweep, loc)
	h.clock = func() time.Time { return now }
	engine := newTestEngine(func(rg *gin.RouterGroup) {
		rg.POST("/finance/invoices/:id/links", h.Link)
		rg.DELETE("/finance/invoices/:id/links/:index", h.Unlink)
		rg.POST("/finance/invoices/:id/post", h.Post)
		rg.POST("/finance/sweep", h.Sweep)
	})
	return engine, m
}

func TestSettlementHandler_LinkPartial(t *testing.T) {
	engine, m := newSettlementEngine(t, time.UTC, time.Now())
	invoiceID := uuid.New()
	expenseID := uuid.New()

	m.reconciliation.On("Link", mock.Anything, testTenant, invoiceID, mock.MatchedBy(func(r financeapp.LinkTransactionRequest) bool {
		return r.TransactionCode == "PIX-1" && r.Mode == "partial" && r.Amount != nil && r.Amount.Equal(decimal.NewFromInt(120))
	})).Return(&financeapp.LinkResult{
		Invoice:   *sampleInvoice(invoiceID),
		Link:      financeapp.InvoiceLinkResponse{Index: 0, TransactionCode: "PIX-1", Amount: decimal.NewFromInt(120)},
		Settled:   true,
		Posted:    true,
		ExpenseID: &expenseID,
	}, nil)

	w := doRequest(engine, http.MethodPost, "/finance/invoices/"+invoiceID.String()+"/links",
		`{"transaction_code":"PIX-1","mode":"partial","amount":"120.00"}`)

	require.Equal(t, http.StatusCreated, w.Code)
	data := dataMap(t, decodeResponse(t, w))
	assert.Equal(t, true, data["settled"])
	assert.Equal(t, expenseID.String(), data["expense_id"])
	m.reconciliation.AssertExpectations(t)
}

func TestSettlementHandler_LinkErrors(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		err            error
		expectedStatus int
		expectedCode   string
	}{
		{"unknown mode", `{"transaction_code":"PIX-1","mode":"half"}`, nil, http.StatusBadRequest, dto.ErrCodeValidation},
		{"exceeds available", `{"transaction_code":"PIX-1","mode":"partial","amount":"999"}`, finance.ErrExceedsAvailable, http.StatusUnprocessableEntity, dto.ErrCodeExceedsAvailable},
		{"exceeds remaining", `{"transaction_code":"PIX-1","mode":"partial","amount":"999"}`, finance.ErrExceedsRemaining, http.StatusUnprocessableEntity, dto.ErrCodeExceedsRemaining},
		{"inflow transaction", `{"transaction_code":"DEP-9","mode":"full"}`, finance.ErrDirectionMismatch, http.StatusUnprocessableEntity, dto.ErrCodeDirectionMismatch},
		{"already posted", `{"transaction_code":"PIX-1","mode":"full"}`, finance.ErrInvoicePosted, http.StatusConflict, dto.ErrCodeInvoicePosted},
		{"unknown code", `{"transaction_code":"NOPE","mode":"full"}`, finance.ErrTransactionNotFound, http.StatusNotFound, dto.ErrCodeNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine, m := newSettlementEngine(t, time.UTC, time.Now())
			invoiceID := uuid.New()
			if tt.err != nil {
				m.reconciliation.On("Link", mock.Anything, testTenant, invoiceID, mock.Anything).Return(nil, tt.err)
			}

			w := doRequest(engine, http.MethodPost, "/finance/invoices/"+invoiceID.String()+"/links", tt.body)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Equal(t, tt.expectedCode, decodeResponse(t, w).Error.Code)
		})
	}
}

func TestSettlementHandler_Unlink(t *testing.T) {
	engine, m := newSettlementEngine(t, time.UTC, time.Now())
	invoiceID := uuid.New()

	m.reconciliation.On("Unlink", mock.Anything, testTenant, invoiceID, 1).Return(sampleInvoice(invoiceID), nil)
	m.reconciliation.On("Unlink", mock.Anything, testTenant, invoiceID, 7).Return(nil, finance.ErrLinkNotFound)

	w := doRequest(engine, http.MethodDelete, "/finance/invoices/"+invoiceID.String()+"/links/1", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = doRequest(engine, http.MethodDelete, "/finance/invoices/"+invoiceID.String()+"/links/7", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, dto.ErrCodeLinkNotFound, decodeResponse(t, w).Error.Code)

	w = doRequest(engine, http.MethodDelete, "/finance/invoices/"+invoiceID.String()+"/links/-1", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSettlementHandler_Post(t *testing.T) {
	engine, m := newSettlementEngine(t, time.UTC, time.Now())
	settled := uuid.New()
	open := uuid.New()

	m.posting.On("PostIfSettled", mock.Anything, testTenant, settled).Return(&financeapp.PostResult{
		Invoice: *sampleInvoice(settled),
		Expense: financeapp.ExpenseResponse{ID: uuid.New(), Category: "supplies"},
	}, nil)
	m.posting.On("PostIfSettled", mock.Anything, testTenant, open).Return(nil, finance.ErrNotSettled)

	w := doRequest(engine, http.MethodPost, "/finance/invoices/"+settled.String()+"/post", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, dataMap(t, decodeResponse(t, w))["recovered"])

	w = doRequest(engine, http.MethodPost, "/finance/invoices/"+open.String()+"/post", "")
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, dto.ErrCodeNotSettled, decodeResponse(t, w).Error.Code)
}

func TestSettlementHandler_Sweep(t *testing.T) {
	loc, err := time.LoadLocation("America/Sao_Paulo")
	require.NoError(t, err)
	now := time.Date(2026, 5, 10, 22, 0, 0, 0, loc)
	engine, m := newSettlementEngine(t, loc, now)

	m.sweep.On("Sweep", mock.Anything, mock.MatchedBy(func(d time.Time) bool { return d.Equal(now) })).
		Return(&financeapp.SweepResult{Posted: 1}, nil).Once()
	requested := time.Date(2026, 5, 12, 0, 0, 0, 0, loc)
	m.sweep.On("Sweep", mock.Anything, mock.MatchedBy(func(d time.Time) bool { return d.Equal(requested) })).
		Return(&financeapp.SweepResult{RolledOver: 3}, nil).Once()

	w := doRequest(engine, http.MethodPost, "/finance/sweep", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 1, dataMap(t, decodeResponse(t, w))["posted"])

	w = doRequest(engine, http.MethodPost, "/finance/sweep?today=2026-05-12", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 3, dataMap(t, decodeResponse(t, w))["rolled_over"])

	w = doRequest(engine, http.MethodPost, "/finance/sweep?today=12/05/2026", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	m.sweep.AssertExpectations(t)
}
