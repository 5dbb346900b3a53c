package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	financeapp "github.com/pethotel/backend/internal/application/finance"
	"github.com/pethotel/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// SettlementHandler handles invoice links, posting and the recovery sweep
type SettlementHandler struct {
	BaseHandler
	reconciliation ReconciliationUseCases
	posting        PostingUseCases
	sweep          SweepRunner
	location       *time.Location
	clock          func() time.Time
}

// NewSettlementHandler creates a new SettlementHandler. Dates supplied to
// the sweep are interpreted in loc.
func NewSettlementHandler(reconciliation ReconciliationUseCases, posting PostingUseCases, sweep SweepRunner, loc *time.Location) *SettlementHandler {
	if loc == nil {
		loc = time.UTC
	}
	return &SettlementHandler{
		reconciliation: reconciliation,
		posting:        posting,
		sweep:          sweep,
		location:       loc,
		clock:          time.Now,
	}
}

// Link handles POST /finance/invoices/:id/links
func (h *SettlementHandler) Link(c *gin.Context) {
	tenantID, invoiceID, ok := h.invoiceTarget(c)
	if !ok {
		return
	}
	var req financeapp.LinkTransactionRequest
	if !h.bindJSON(c, &req) {
		return
	}

	result, err := h.reconciliation.Link(c.Request.Context(), tenantID, invoiceID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if result.Settled && !result.Posted {
		logger.GetGinLogger(c).Warn("Invoice settled but not posted; the sweep will retry",
			zap.String("invoice_id", invoiceID.String()))
	}
	h.Created(c, result)
}

// Unlink handles DELETE /finance/invoices/:id/links/:index
func (h *SettlementHandler) Unlink(c *gin.Context) {
	tenantID, invoiceID, ok := h.invoiceTarget(c)
	if !ok {
		return
	}
	index, ok := h.intParam(c, "index")
	if !ok {
		return
	}

	inv, err := h.reconciliation.Unlink(c.Request.Context(), tenantID, invoiceID, index)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, inv)
}

// Post handles POST /finance/invoices/:id/post
func (h *SettlementHandler) Post(c *gin.Context) {
	tenantID, invoiceID, ok := h.invoiceTarget(c)
	if !ok {
		return
	}
	result, err := h.posting.PostIfSettled(c.Request.Context(), tenantID, invoiceID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// Sweep handles POST /finance/sweep; ?today=YYYY-MM-DD overrides the current day
func (h *SettlementHandler) Sweep(c *gin.Context) {
	today, ok := h.dateQuery(c, "today", h.location, h.clock().In(h.location))
	if !ok {
		return
	}
	result, err := h.sweep.Sweep(c.Request.Context(), today)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}
