package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/pethotel/backend/internal/infrastructure/logger"
	"github.com/pethotel/backend/internal/interfaces/http/dto"
)

func TestTenant(t *testing.T) {
	defaultTenant := uuid.MustParse("00000000-0000-0000-0000-000000000001")
	core, logs := observer.New(zap.InfoLevel)

	var seen uuid.UUID
	r := gin.New()
	r.Use(RequestID(), logger.GinMiddleware(zap.New(core)), Tenant(defaultTenant))
	r.GET("/test", func(c *gin.Context) {
		seen = GetTenantID(c)
		logger.GetGinLogger(c).Info("handled")
		c.Status(http.StatusOK)
	})

	t.Run("defaults when header absent", func(t *testing.T) {
		w := serve(r, httptest.NewRequest(http.MethodGet, "/test", nil))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, defaultTenant, seen)
	})

	t.Run("uses header", func(t *testing.T) {
		tenant := uuid.New()
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set(TenantHeaderKey, tenant.String())
		w := serve(r, req)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, tenant, seen)

		handled := logs.FilterMessage("handled").All()
		require.NotEmpty(t, handled)
		assert.Equal(t, tenant.String(), handled[len(handled)-1].ContextMap()["tenant_id"])
	})

	t.Run("rejects malformed header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set(TenantHeaderKey, "not-a-uuid")
		w := serve(r, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)

		var resp dto.Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, dto.ErrCodeInvalidInput, resp.Error.Code)
		assert.NotEmpty(t, resp.Error.RequestID)
	})
}

func TestGetTenantID_Missing(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.Equal(t, uuid.Nil, GetTenantID(c))
}
