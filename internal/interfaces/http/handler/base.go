package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/pethotel/backend/internal/domain/shared"
	"github.com/pethotel/backend/internal/infrastructure/logger"
	"github.com/pethotel/backend/internal/interfaces/http/dto"
	"github.com/pethotel/backend/internal/interfaces/http/middleware"
	"go.uber.org/zap"
)

// DateLayout is the format of date-only query parameters such as ?today=
const DateLayout = "2006-01-02"

// BaseHandler provides common handler utilities
type BaseHandler struct{}

// Success sends a success response
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// SuccessWithMeta sends a success response with pagination meta
func (h *BaseHandler) SuccessWithMeta(c *gin.Context, data any, total int64, page, pageSize int) {
	c.JSON(http.StatusOK, dto.NewSuccessResponseWithMeta(data, total, page, pageSize))
}

// Created sends a 201 created response
func (h *BaseHandler) Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(data))
}

// Error sends an error response with the given status code
func (h *BaseHandler) Error(c *gin.Context, statusCode int, code, message string) {
	c.JSON(statusCode, dto.NewErrorResponseWithRequestID(code, message, middleware.GetRequestID(c)))
}

// BadRequest sends a 400 bad request response
func (h *BaseHandler) BadRequest(c *gin.Context, message string) {
	h.Error(c, http.StatusBadRequest, dto.ErrCodeBadRequest, message)
}

// InternalError sends a 500 internal server error response
func (h *BaseHandler) InternalError(c *gin.Context, message string) {
	h.Error(c, http.StatusInternalServerError, dto.ErrCodeInternal, message)
}

// ValidationError sends a 400 validation error response with details
func (h *BaseHandler) ValidationError(c *gin.Context, details []dto.ValidationDetail) {
	c.JSON(http.StatusBadRequest, dto.NewValidationErrorResponse(
		"Request validation failed",
		middleware.GetRequestID(c),
		details,
	))
}

// HandleError converts an application error to an HTTP response. Domain
// errors keep their code; anything else is logged and reported as a 500
// without leaking the cause.
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)

	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		code := dto.NormalizeErrorCode(domainErr.Code)
		statusCode := dto.GetHTTPStatus(code)
		if statusCode >= http.StatusInternalServerError {
			logger.GetGinLogger(c).Error("Request failed", zap.String("code", code), zap.Error(err))
		}
		h.Error(c, statusCode, code, domainErr.Message)
		return
	}

	logger.GetGinLogger(c).Error("Unexpected error", zap.Error(err))
	h.InternalError(c, "An unexpected error occurred")
}

// bindJSON binds the body into dst, writing a 400 on failure. Validator
// failures carry per-field details; malformed JSON does not.
func (h *BaseHandler) bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		if details := middleware.ValidationDetails(err); details != nil {
			h.ValidationError(c, details)
			return false
		}
		h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidJSON, "Request body is not valid JSON")
		return false
	}
	return true
}

// bindQuery binds query parameters into dst, writing a 400 on failure
func (h *BaseHandler) bindQuery(c *gin.Context, dst any) bool {
	if err := c.ShouldBindQuery(dst); err != nil {
		if details := middleware.ValidationDetails(err); details != nil {
			h.ValidationError(c, details)
			return false
		}
		h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidInput, "Invalid query parameters")
		return false
	}
	return true
}

// tenantID returns the request tenant, writing a 400 when none was resolved
func (h *BaseHandler) tenantID(c *gin.Context) (uuid.UUID, bool) {
	id := middleware.GetTenantID(c)
	if id == uuid.Nil {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidInput, "Tenant could not be resolved")
		return uuid.Nil, false
	}
	return id, true
}

// uuidParam parses a path parameter as a UUID, writing a 400 on failure
func (h *BaseHandler) uuidParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidID, "Invalid "+name+" format")
		return uuid.Nil, false
	}
	return id, true
}

// intParam parses a non-negative integer path parameter
func (h *BaseHandler) intParam(c *gin.Context, name string) (int, bool) {
	n, err := strconv.Atoi(c.Param(name))
	if err != nil || n < 0 {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidInput, "Invalid "+name)
		return 0, false
	}
	return n, true
}

// dateQuery parses an optional YYYY-MM-DD query parameter in loc. It
// returns fallback when the parameter is absent.
func (h *BaseHandler) dateQuery(c *gin.Context, name string, loc *time.Location, fallback time.Time) (time.Time, bool) {
	raw := c.Query(name)
	if raw == "" {
		return fallback, true
	}
	d, err := time.ParseInLocation(DateLayout, raw, loc)
	if err != nil {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidInput, name+" must be a date in YYYY-MM-DD format")
		return time.Time{}, false
	}
	return d, true
}

// pageMeta mirrors the paging defaults the services apply so the response
// meta describes the page actually returned
func pageMeta(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = dto.DefaultPageSize
	}
	return page, pageSize
}
