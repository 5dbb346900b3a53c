package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/pethotel/backend/internal/infrastructure/logger"
	"github.com/pethotel/backend/internal/interfaces/http/dto"
)

const (
	TenantIDKey     = "tenant_id"
	TenantHeaderKey = "X-Tenant-ID"
)

// Tenant resolves the tenant from X-Tenant-ID, falling back to
// defaultTenant when the header is absent. A malformed header is a 400.
// The tenant is stored in the gin context and on the request logger.
func Tenant(defaultTenant uuid.UUID) gin.HandlerFunc {
	return func(c *gin.Context) {
		tenantID := defaultTenant
		if header := c.GetHeader(TenantHeaderKey); header != "" {
			parsed, err := uuid.Parse(header)
			if err != nil || parsed == uuid.Nil {
				c.AbortWithStatusJSON(http.StatusBadRequest, dto.NewErrorResponseWithRequestID(
					dto.ErrCodeInvalidInput, "Invalid tenant ID format", GetRequestID(c)))
				return
			}
			tenantID = parsed
		}

		c.Set(TenantIDKey, tenantID.String())
		ctx, reqLogger := logger.WithTenantID(c.Request.Context(), logger.FromContext(c.Request.Context()), tenantID.String())
		c.Request = c.Request.WithContext(ctx)
		logger.SetGinLogger(c, reqLogger)
		c.Next()
	}
}

// GetTenantID returns the tenant resolved by Tenant, or uuid.Nil
func GetTenantID(c *gin.Context) uuid.UUID {
	id, err := uuid.Parse(c.GetString(TenantIDKey))
	if err != nil {
		return uuid.Nil
	}
	return id
}
