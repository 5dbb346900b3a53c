package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	financeapp "github.com/pethotel/backend/internal/application/finance"
)

// InvoiceHandler handles invoice maintenance and expense listing
type InvoiceHandler struct {
	BaseHandler
	invoices InvoiceUseCases
}

// NewInvoiceHandler creates a new InvoiceHandler
func NewInvoiceHandler(invoices InvoiceUseCases) *InvoiceHandler {
	return &InvoiceHandler{invoices: invoices}
}

// Create handles POST /finance/invoices
func (h *InvoiceHandler) Create(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	var req financeapp.InvoiceRequest
	if !h.bindJSON(c, &req) {
		return
	}

	inv, err := h.invoices.CreateInvoice(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, inv)
}

// List handles GET /finance/invoices
func (h *InvoiceHandler) List(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	var filter financeapp.InvoiceListFilter
	if !h.bindQuery(c, &filter) {
		return
	}

	invoices, total, err := h.invoices.ListInvoices(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	page, pageSize := pageMeta(filter.Page, filter.PageSize)
	h.SuccessWithMeta(c, invoices, total, page, pageSize)
}

// GetByID handles GET /finance/invoices/:id
func (h *InvoiceHandler) GetByID(c *gin.Context) {
	tenantID, id, ok := h.invoiceTarget(c)
	if !ok {
		return
	}
	inv, err := h.invoices.GetInvoice(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, inv)
}

// Update handles PUT /finance/invoices/:id
func (h *InvoiceHandler) Update(c *gin.Context) {
	tenantID, id, ok := h.invoiceTarget(c)
	if !ok {
		return
	}
	var req financeapp.InvoiceRequest
	if !h.bindJSON(c, &req) {
		return
	}

	inv, err := h.invoices.UpdateInvoice(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, inv)
}

// Suspend handles POST /finance/invoices/:id/suspend
func (h *InvoiceHandler) Suspend(c *gin.Context) {
	tenantID, id, ok := h.invoiceTarget(c)
	if !ok {
		return
	}
	inv, err := h.invoices.SuspendInvoice(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, inv)
}

// Cancel handles POST /finance/invoices/:id/cancel
func (h *InvoiceHandler) Cancel(c *gin.Context) {
	tenantID, id, ok := h.invoiceTarget(c)
	if !ok {
		return
	}
	inv, err := h.invoices.CancelInvoice(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, inv)
}

// ListExpenses handles GET /finance/expenses
func (h *InvoiceHandler) ListExpenses(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	var filter financeapp.ExpenseListFilter
	if !h.bindQuery(c, &filter) {
		return
	}

	expenses, total, err := h.invoices.ListExpenses(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	page, pageSize := pageMeta(filter.Page, filter.PageSize)
	h.SuccessWithMeta(c, expenses, total, page, pageSize)
}

func (h *BaseHandler) invoiceTarget(c *gin.Context) (uuid.UUID, uuid.UUID, bool) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return uuid.Nil, uuid.Nil, false
	}
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return uuid.Nil, uuid.Nil, false
	}
	return tenantID, id, true
}
