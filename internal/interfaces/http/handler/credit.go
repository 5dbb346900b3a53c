package handler

import (
	"github.com/gin-gonic/gin"
	schedulingapp "github.com/pethotel/backend/internal/application/scheduling"
)

// CreditHandler handles replacement credits
type CreditHandler struct {
	BaseHandler
	credits CreditUseCases
}

// NewCreditHandler creates a new CreditHandler
func NewCreditHandler(credits CreditUseCases) *CreditHandler {
	return &CreditHandler{credits: credits}
}

// Scan handles POST /scheduling/credits/scan. The body is optional; when it
// carries today the scan runs as of that instant.
func (h *CreditHandler) Scan(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	var req schedulingapp.ScanRequest
	if c.Request.ContentLength != 0 && !h.bindJSON(c, &req) {
		return
	}
	today := h.credits.Today()
	if req.Today != nil {
		today = *req.Today
	}

	result, err := h.credits.Scan(c.Request.Context(), tenantID, today)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// List handles GET /scheduling/credits
func (h *CreditHandler) List(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	var filter schedulingapp.CreditListFilter
	if !h.bindQuery(c, &filter) {
		return
	}

	credits, total, err := h.credits.ListCredits(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	page, pageSize := pageMeta(filter.Page, filter.PageSize)
	h.SuccessWithMeta(c, credits, total, page, pageSize)
}

// Consume handles POST /scheduling/credits/:id/consume
func (h *CreditHandler) Consume(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	creditID, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	var req schedulingapp.ConsumeCreditRequest
	if !h.bindJSON(c, &req) {
		return
	}

	credit, err := h.credits.ConsumeCredit(c.Request.Context(), tenantID, creditID, req.AppointmentID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, credit)
}
