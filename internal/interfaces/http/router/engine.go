package router

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/pethotel/backend/internal/infrastructure/config"
	"github.com/pethotel/backend/internal/infrastructure/logger"
	"github.com/pethotel/backend/internal/interfaces/http/handler"
	"github.com/pethotel/backend/internal/interfaces/http/middleware"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// Handlers bundles the HTTP handlers mounted by NewEngine
type Handlers struct {
	Invoice     *handler.InvoiceHandler
	Settlement  *handler.SettlementHandler
	Transaction *handler.TransactionHandler
	Credit      *handler.CreditHandler
	Attendance  *handler.AttendanceHandler
	Health      *handler.HealthHandler
}

// EngineConfig controls the middleware stack
type EngineConfig struct {
	Env              string
	HTTP             config.HTTPConfig
	DefaultTenant    uuid.UUID
	ServiceName      string
	TracingEnabled   bool
	ProfilingEnabled bool
	// Meter records HTTP server metrics when set
	Meter metric.Meter
}

// EngineConfigFrom derives the engine settings from application config
func EngineConfigFrom(cfg *config.Config, meter metric.Meter) EngineConfig {
	return EngineConfig{
		Env:              cfg.App.Env,
		HTTP:             cfg.HTTP,
		DefaultTenant:    cfg.Ledger.TenantID(),
		ServiceName:      cfg.Telemetry.ServiceName,
		TracingEnabled:   cfg.Telemetry.Enabled,
		ProfilingEnabled: cfg.Telemetry.ProfilingEnabled,
		Meter:            meter,
	}
}

// NewEngine builds the gin engine with the full middleware stack, the
// health endpoint and the versioned API routes.
func NewEngine(cfg EngineConfig, h Handlers, log *zap.Logger) (*gin.Engine, error) {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	tracing := middleware.DefaultTracingConfig()
	tracing.Enabled = cfg.TracingEnabled
	if cfg.ServiceName != "" {
		tracing.ServiceName = cfg.ServiceName
	}

	// Order: request id, tracing, logging and recovery, security headers,
	// CORS, body limit.
	engine.Use(middleware.RequestID())
	engine.Use(middleware.TracingWithConfig(tracing), middleware.SpanErrorMarker())
	if cfg.Meter != nil {
		metrics, err := middleware.HTTPMetrics(cfg.Meter)
		if err != nil {
			return nil, fmt.Errorf("failed to create HTTP metrics: %w", err)
		}
		engine.Use(metrics)
	}
	engine.Use(logger.GinMiddleware(log), logger.Recovery(log))
	engine.Use(middleware.Secure())
	engine.Use(middleware.CORSWithConfig(middleware.CORSConfigFrom(cfg.HTTP)))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	if h.Health != nil {
		engine.GET("/health", h.Health.Health)
	}

	r := NewRouter(engine, WithAPIVersion("v1"))
	r.Use(
		middleware.Tenant(cfg.DefaultTenant),
		middleware.SpanEnricher(),
		middleware.Profiling(cfg.ProfilingEnabled),
	)
	r.Register(FinanceRoutes(h)).
		Register(SchedulingRoutes(h)).
		Register(AttendanceRoutes(h))
	r.Setup()

	return engine, nil
}

// FinanceRoutes mounts invoices, links, posting, statement intake and the sweep
func FinanceRoutes(h Handlers) *DomainGroup {
	g := NewDomainGroup("finance", "/finance")
	if h.Invoice != nil {
		g.POST("/invoices", h.Invoice.Create)
		g.GET("/invoices", h.Invoice.List)
		g.GET("/invoices/:id", h.Invoice.GetByID)
		g.PUT("/invoices/:id", h.Invoice.Update)
		g.POST("/invoices/:id/suspend", h.Invoice.Suspend)
		g.POST("/invoices/:id/cancel", h.Invoice.Cancel)
		g.GET("/expenses", h.Invoice.ListExpenses)
	}
	if h.Settlement != nil {
		g.POST("/invoices/:id/links", h.Settlement.Link)
		g.DELETE("/invoices/:id/links/:index", h.Settlement.Unlink)
		g.POST("/invoices/:id/post", h.Settlement.Post)
		g.POST("/sweep", h.Settlement.Sweep)
	}
	if h.Transaction != nil {
		g.POST("/transactions", h.Transaction.Import)
		g.GET("/transactions/:code", h.Transaction.Lookup)
		g.GET("/transactions/:code/record", h.Transaction.Get)
	}
	return g
}

// SchedulingRoutes mounts replacement credits
func SchedulingRoutes(h Handlers) *DomainGroup {
	g := NewDomainGroup("scheduling", "/scheduling")
	if h.Credit != nil {
		g.POST("/credits/scan", h.Credit.Scan)
		g.GET("/credits", h.Credit.List)
		g.POST("/credits/:id/consume", h.Credit.Consume)
	}
	return g
}

// AttendanceRoutes mounts check-ins and gap counts
func AttendanceRoutes(h Handlers) *DomainGroup {
	g := NewDomainGroup("attendance", "/attendance")
	if h.Attendance != nil {
		g.GET("/dogs/:dog_id/gaps", h.Attendance.Gaps)
		g.POST("/checkins", h.Attendance.RecordCheckin)
	}
	return g
}
