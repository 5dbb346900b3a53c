package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	attendanceapp "github.com/pethotel/backend/internal/application/attendance"
)

// AttendanceHandler handles check-ins and attendance gaps
type AttendanceHandler struct {
	BaseHandler
	attendance AttendanceUseCases
	location   *time.Location
	clock      func() time.Time
}

// NewAttendanceHandler creates a new AttendanceHandler. ?today= is read in loc.
func NewAttendanceHandler(attendance AttendanceUseCases, loc *time.Location) *AttendanceHandler {
	if loc == nil {
		loc = time.UTC
	}
	return &AttendanceHandler{attendance: attendance, location: loc, clock: time.Now}
}

// Gaps handles GET /attendance/dogs/:dog_id/gaps
func (h *AttendanceHandler) Gaps(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	dogID, ok := h.uuidParam(c, "dog_id")
	if !ok {
		return
	}
	today, ok := h.dateQuery(c, "today", h.location, h.clock().In(h.location))
	if !ok {
		return
	}

	gaps, err := h.attendance.GetGaps(c.Request.Context(), tenantID, dogID, today)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gaps)
}

// RecordCheckin handles POST /attendance/checkins
func (h *AttendanceHandler) RecordCheckin(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	var req attendanceapp.RecordCheckinRequest
	if !h.bindJSON(c, &req) {
		return
	}

	checkin, err := h.attendance.RecordCheckin(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, checkin)
}
