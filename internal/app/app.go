// Package app assembles the ledger: telemetry, database, repositories,
// event bus and application services. The HTTP server and ledgerctl share it.
package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	attendanceapp "github.com/pethotel/backend/internal/application/attendance"
	financeapp "github.com/pethotel/backend/internal/application/finance"
	schedulingapp "github.com/pethotel/backend/internal/application/scheduling"
	"github.com/pethotel/backend/internal/domain/finance"
	"github.com/pethotel/backend/internal/domain/shared"
	"github.com/pethotel/backend/internal/infrastructure/cache"
	"github.com/pethotel/backend/internal/infrastructure/config"
	"github.com/pethotel/backend/internal/infrastructure/event"
	"github.com/pethotel/backend/internal/infrastructure/logger"
	"github.com/pethotel/backend/internal/infrastructure/persistence"
	"github.com/pethotel/backend/internal/infrastructure/scheduler"
	"github.com/pethotel/backend/internal/infrastructure/telemetry"
	"github.com/pethotel/backend/internal/interfaces/http/handler"
	"github.com/pethotel/backend/internal/interfaces/http/router"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// Services holds the application services
type Services struct {
	Invoices       *financeapp.InvoiceService
	Reconciliation *financeapp.ReconciliationService
	Posting        *financeapp.PostingService
	Sweep          *financeapp.PostingSweep
	Transactions   *financeapp.TransactionService
	Credits        *schedulingapp.CreditService
	Attendance     *attendanceapp.AttendanceService
}

// App owns every long-lived resource of a process
type App struct {
	Config   *config.Config
	Logger   *zap.Logger
	Location *time.Location
	Database *persistence.Database
	Bus      *event.InMemoryEventBus
	Meter    metric.Meter
	Services Services

	tracer      *telemetry.TracerProvider
	meters      *telemetry.MeterProvider
	logs        *telemetry.LoggerProvider
	profiler    *telemetry.Profiler
	idempotency shared.IdempotencyStore
	poolMetrics metric.Registration
}

// New wires the ledger from cfg. On error every resource opened so far is
// released before returning.
func New(ctx context.Context, cfg *config.Config, log *zap.Logger) (a *App, err error) {
	a = &App{
		Config:   cfg,
		Logger:   log,
		Location: cfg.Ledger.Location(),
	}
	defer func() {
		if err != nil {
			_ = a.Shutdown(context.Background())
			a = nil
		}
	}()

	if err = a.initTelemetry(ctx); err != nil {
		return nil, err
	}
	if err = a.initDatabase(); err != nil {
		return nil, err
	}

	a.idempotency, err = cache.NewIdempotencyStore(ctx, cfg.Event, cfg.Redis, a.Logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create idempotency store: %w", err)
	}
	a.Bus = event.NewInMemoryEventBus(a.Logger)
	a.Bus.Subscribe(event.NewIdempotentHandler(
		financeapp.NewSettlementAuditHandler(a.Logger),
		a.idempotency,
		a.Logger,
		event.WithHandlerName("settlement_audit"),
		event.WithIdempotencyConfig(cache.IdempotencyConfig(cfg.Event)),
	))

	if err = a.initServices(); err != nil {
		return nil, err
	}
	if err = a.Bus.Start(ctx); err != nil {
		return nil, fmt.Errorf("failed to start event bus: %w", err)
	}
	return a, nil
}

func (a *App) initTelemetry(ctx context.Context) error {
	cfg := a.Config
	var err error

	a.tracer, err = telemetry.NewTracerProvider(ctx, cfg.Telemetry, cfg.App.Env, a.Logger)
	if err != nil {
		return fmt.Errorf("failed to initialize tracing: %w", err)
	}
	a.meters, err = telemetry.NewMeterProvider(ctx, cfg.Telemetry, cfg.App.Env, a.Logger)
	if err != nil {
		return fmt.Errorf("failed to initialize metrics: %w", err)
	}
	a.Meter = a.meters.Meter("pethotel/ledger")

	a.logs, err = telemetry.NewLoggerProvider(ctx, cfg.Telemetry, cfg.App.Env, a.Logger)
	if err != nil {
		return fmt.Errorf("failed to initialize log export: %w", err)
	}
	if a.logs.IsEnabled() {
		a.Logger = a.logs.Bridge(a.Logger)
	}

	a.profiler, err = telemetry.NewProfiler(telemetry.ProfilerConfigFrom(cfg.Telemetry, cfg.App.Env), a.Logger)
	if err != nil {
		// Profiling is best effort
		a.Logger.Warn("Profiler not started", zap.Error(err))
	} else if a.profiler.IsEnabled() {
		a.tracer.EnableSpanProfiles()
	}
	return nil
}

func (a *App) initDatabase() error {
	cfg := a.Config
	gormLogger := logger.NewGormLogger(a.Logger, logger.MapGormLogLevel(cfg.Log.Level),
		logger.WithSlowThreshold(cfg.Telemetry.DBSlowQueryThresh),
		logger.WithIgnoreRecordNotFoundError(true),
	)
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLogger)
	if err != nil {
		return err
	}
	a.Database = db

	schemaCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.CheckLedgerSchema(schemaCtx); err != nil {
		return err
	}

	if err := telemetry.RegisterDBTracing(db.DB, telemetry.DBTracingConfigFrom(cfg.Telemetry, cfg.Database.DBName), a.Logger); err != nil {
		return fmt.Errorf("failed to register database tracing: %w", err)
	}
	sqlDB, err := db.DB.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	a.poolMetrics, err = telemetry.RegisterDBPoolMetrics(a.Meter, cfg.Database.DBName, sqlDB.Stats)
	if err != nil {
		return fmt.Errorf("failed to register pool metrics: %w", err)
	}
	a.Logger.Info("Database connected",
		zap.String("host", cfg.Database.Host),
		zap.String("database", cfg.Database.DBName),
	)
	return nil
}

func (a *App) initServices() error {
	ledgerMetrics, err := telemetry.NewLedgerMetrics(a.Meter)
	if err != nil {
		return fmt.Errorf("failed to create ledger metrics: %w", err)
	}

	db := a.Database.DB
	invoiceRepo := persistence.NewGormInvoiceRepository(db)
	txnRepo := persistence.NewGormStatementTransactionRepository(db)
	expenseRepo := persistence.NewGormExpenseRepository(db)
	appointmentRepo := persistence.NewGormAppointmentRepository(db)
	creditRepo := persistence.NewGormReplacementCreditRepository(db)
	checkinRepo := persistence.NewGormCheckinRepository(db)
	ledgerScope := persistence.NewGormLedgerScope(db)

	posting := financeapp.NewPostingService(financeapp.PostingServiceConfig{
		Scope:     ledgerScope,
		Poster:    finance.NewSettlementPoster(time.Now, a.Location),
		Publisher: a.Bus,
		Metrics:   ledgerMetrics,
		Logger:    a.Logger,
	})
	a.Services = Services{
		Invoices: financeapp.NewInvoiceService(invoiceRepo, expenseRepo, ledgerScope, a.Bus, a.Logger),
		Reconciliation: financeapp.NewReconciliationService(financeapp.ReconciliationServiceConfig{
			Scope:           ledgerScope,
			TransactionRepo: txnRepo,
			Engine:          finance.NewReconciliationEngine(finance.WithLocation(a.Location)),
			Posting:         posting,
			Publisher:       a.Bus,
			Metrics:         ledgerMetrics,
			Logger:          a.Logger,
		}),
		Posting: posting,
		Sweep: financeapp.NewPostingSweep(financeapp.PostingSweepConfig{
			InvoiceRepo:     invoiceRepo,
			TransactionRepo: txnRepo,
			Scope:           ledgerScope,
			Posting:         posting,
			Location:        a.Location,
			BatchSize:       a.Config.Ledger.SweepBatchSize,
			Metrics:         ledgerMetrics,
			Logger:          a.Logger,
		}),
		Transactions: financeapp.NewTransactionService(txnRepo, a.Bus, a.Logger),
		Credits: schedulingapp.NewCreditService(schedulingapp.CreditServiceConfig{
			Scope:           persistence.NewGormSchedulingScope(db),
			AppointmentRepo: appointmentRepo,
			CreditRepo:      creditRepo,
			Location:        a.Location,
			Publisher:       a.Bus,
			Metrics:         ledgerMetrics,
			Logger:          a.Logger,
		}),
		Attendance: attendanceapp.NewAttendanceService(appointmentRepo, checkinRepo, a.Location, a.Logger),
	}
	return nil
}

// NewScheduler returns a scheduler with the sweep and credit scan executors
// registered. The caller starts it.
func (a *App) NewScheduler() (*scheduler.Scheduler, error) {
	s, err := scheduler.NewScheduler(scheduler.SchedulerConfigFrom(a.Config.Scheduler), a.Logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}
	s.Register(scheduler.JobKindPostingSweep, scheduler.NewPostingSweepExecutor(a.Services.Sweep, a.Logger))
	s.Register(scheduler.JobKindCreditScan, scheduler.NewCreditScanExecutor(a.Services.Credits, a.Logger))
	return s, nil
}

// Handlers builds the HTTP handlers over the services
func (a *App) Handlers() router.Handlers {
	s := a.Services
	return router.Handlers{
		Invoice:     handler.NewInvoiceHandler(s.Invoices),
		Settlement:  handler.NewSettlementHandler(s.Reconciliation, s.Posting, s.Sweep, a.Location),
		Transaction: handler.NewTransactionHandler(s.Transactions, s.Reconciliation),
		Credit:      handler.NewCreditHandler(s.Credits),
		Attendance:  handler.NewAttendanceHandler(s.Attendance, a.Location),
		Health:      handler.NewHealthHandler(a.Database),
	}
}

// Shutdown releases resources in reverse order of creation. It is safe to
// call on a partially built App.
func (a *App) Shutdown(ctx context.Context) error {
	var errs []error
	if a.Bus != nil {
		errs = append(errs, a.Bus.Stop(ctx))
	}
	if a.idempotency != nil {
		errs = append(errs, a.idempotency.Close())
	}
	if a.poolMetrics != nil {
		errs = append(errs, a.poolMetrics.Unregister())
	}
	if a.Database != nil {
		errs = append(errs, a.Database.Close())
	}
	if a.profiler != nil {
		errs = append(errs, a.profiler.Stop())
	}
	if a.logs != nil {
		errs = append(errs, a.logs.Shutdown(ctx))
	}
	if a.meters != nil {
		errs = append(errs, a.meters.Shutdown(ctx))
	}
	if a.tracer != nil {
		errs = append(errs, a.tracer.Shutdown(ctx))
	}
	return errors.Join(errs...)
}
