package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	financeapp "github.com/pethotel/backend/internal/application/finance"
	"github.com/pethotel/backend/internal/interfaces/http/dto"
)

// TransactionHandler handles bank statement intake and lookup
type TransactionHandler struct {
	BaseHandler
	transactions   TransactionUseCases
	reconciliation ReconciliationUseCases
}

// NewTransactionHandler creates a new TransactionHandler
func NewTransactionHandler(transactions TransactionUseCases, reconciliation ReconciliationUseCases) *TransactionHandler {
	return &TransactionHandler{transactions: transactions, reconciliation: reconciliation}
}

// Import handles POST /finance/transactions
func (h *TransactionHandler) Import(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	var req financeapp.ImportTransactionRequest
	if !h.bindJSON(c, &req) {
		return
	}

	txn, err := h.transactions.ImportTransaction(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, txn)
}

// Lookup handles GET /finance/transactions/:code. The projection includes
// the amount still available for linking.
func (h *TransactionHandler) Lookup(c *gin.Context) {
	tenantID, code, ok := h.codeParam(c)
	if !ok {
		return
	}

	lookup, err := h.reconciliation.LookupTransaction(c.Request.Context(), tenantID, code)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, lookup)
}

// Get handles GET /finance/transactions/:code/record. It returns the stored
// statement row of either direction.
func (h *TransactionHandler) Get(c *gin.Context) {
	tenantID, code, ok := h.codeParam(c)
	if !ok {
		return
	}

	txn, err := h.transactions.GetTransaction(c.Request.Context(), tenantID, code)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, txn)
}

func (h *TransactionHandler) codeParam(c *gin.Context) (uuid.UUID, string, bool) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return uuid.Nil, "", false
	}
	code := strings.TrimSpace(c.Param("code"))
	if code == "" {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidInput, "Reference code is required")
		return uuid.Nil, "", false
	}
	return tenantID, code, true
}
