package scheduling

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pethotel/backend/internal/domain/scheduling"
	"github.com/pethotel/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// CreditService converts missed paid appointments into replacement credits
// and lets them be spent on new appointments.
type CreditService struct {
	scope           TransactionScope
	appointmentRepo scheduling.AppointmentRepository
	creditRepo      scheduling.ReplacementCreditRepository
	generator       *scheduling.CreditGenerator
	location        *time.Location
	clock           func() time.Time
	publisher       shared.EventPublisher
	metrics         CreditMetrics
	logger          *zap.Logger
}

// CreditServiceConfig holds the collaborators of CreditService
type CreditServiceConfig struct {
	Scope           TransactionScope
	AppointmentRepo scheduling.AppointmentRepository
	CreditRepo      scheduling.ReplacementCreditRepository
	Location        *time.Location
	Clock           func() time.Time
	Publisher       shared.EventPublisher
	Metrics         CreditMetrics
	Logger          *zap.Logger
}

// NewCreditService creates a new CreditService
func NewCreditService(cfg CreditServiceConfig) *CreditService {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	loc := cfg.Location
	if loc == nil {
		loc = time.UTC
	}
	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}
	var metrics CreditMetrics = nopCreditMetrics{}
	if cfg.Metrics != nil {
		metrics = cfg.Metrics
	}
	return &CreditService{
		scope:           cfg.Scope,
		appointmentRepo: cfg.AppointmentRepo,
		creditRepo:      cfg.CreditRepo,
		generator:       scheduling.NewCreditGenerator(loc),
		location:        loc,
		clock:           clock,
		publisher:       cfg.Publisher,
		metrics:         metrics,
		logger:          logger,
	}
}

// Today returns the current instant in the business location
func (s *CreditService) Today() time.Time {
	return s.clock().In(s.location)
}

// Scan converts every qualifying appointment of the tenant. Each conversion
// commits on its own; a candidate that another run already converted is
// counted as skipped.
func (s *CreditService) Scan(ctx context.Context, tenantID uuid.UUID, today time.Time) (*ScanResult, error) {
	candidates, err := s.appointmentRepo.FindCreditCandidates(ctx, tenantID, shared.DateOf(today, s.location))
	if err != nil {
		return nil, fmt.Errorf("failed to load credit candidates: %w", err)
	}

	ptrs := make([]*scheduling.Appointment, len(candidates))
	for i := range candidates {
		ptrs[i] = &candidates[i]
	}
	conversions := s.generator.Scan(ptrs, today)

	result := &ScanResult{TenantID: tenantID, Credits: make([]CreditResponse, 0, len(conversions))}
	for _, conv := range conversions {
		err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
			if err := repos.CreditRepo().Create(ctx, conv.Credit); err != nil {
				return err
			}
			return repos.AppointmentRepo().Save(ctx, conv.Appointment)
		})
		switch {
		case err == nil:
		case errors.Is(err, shared.ErrAlreadyExists), errors.Is(err, shared.ErrConcurrencyConflict):
			result.Skipped++
			s.logger.Debug("Appointment already converted",
				zap.String("appointment_id", conv.Appointment.ID.String()))
			continue
		default:
			return result, fmt.Errorf("failed to persist credit for appointment %s: %w", conv.Appointment.ID, err)
		}

		result.Generated++
		result.Credits = append(result.Credits, ToCreditResponse(conv.Credit))
		s.publish(ctx, conv.Credit)
	}

	if result.Generated > 0 {
		s.metrics.RecordCreditsGenerated(ctx, tenantID, result.Generated)
	}
	s.logger.Info("Replacement credit scan completed",
		zap.String("tenant_id", tenantID.String()),
		zap.Int("candidates", len(candidates)),
		zap.Int("generated", result.Generated),
		zap.Int("skipped", result.Skipped))
	return result, nil
}

// ScanAllTenants runs Scan for every tenant that has candidates. A failing
// tenant is logged and does not stop the others; the first error is returned.
func (s *CreditService) ScanAllTenants(ctx context.Context, today time.Time) ([]ScanResult, error) {
	tenants, err := s.appointmentRepo.TenantsWithCreditCandidates(ctx, shared.DateOf(today, s.location))
	if err != nil {
		return nil, fmt.Errorf("failed to list tenants with credit candidates: %w", err)
	}

	results := make([]ScanResult, 0, len(tenants))
	var firstErr error
	for _, tenantID := range tenants {
		res, err := s.Scan(ctx, tenantID, today)
		if err != nil {
			s.logger.Error("Credit scan failed for tenant",
				zap.String("tenant_id", tenantID.String()),
				zap.Error(err))
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		results = append(results, *res)
	}
	return results, firstErr
}

// ConsumeCredit spends an available credit on another appointment of the
// same dog, which is marked paid.
func (s *CreditService) ConsumeCredit(ctx context.Context, tenantID, creditID, appointmentID uuid.UUID) (*CreditResponse, error) {
	var credit *scheduling.ReplacementCredit
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		credit, err = repos.CreditRepo().FindByIDForTenant(ctx, tenantID, creditID)
		if err != nil {
			return err
		}
		target, err := repos.AppointmentRepo().FindByIDForTenant(ctx, tenantID, appointmentID)
		if err != nil {
			return err
		}
		if target.DogID != credit.DogID {
			return shared.NewDomainError("INVALID_INPUT", "Credit belongs to another dog")
		}
		if target.IsCancelled() {
			return shared.NewDomainError("INVALID_STATE", "Cannot apply a credit to a cancelled appointment")
		}
		if err := credit.Consume(target.ID, s.clock()); err != nil {
			return err
		}
		target.MarkPaid()

		if err := repos.CreditRepo().Save(ctx, credit); err != nil {
			return fmt.Errorf("failed to save credit: %w", err)
		}
		return repos.AppointmentRepo().Save(ctx, target)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Replacement credit consumed",
		zap.String("tenant_id", tenantID.String()),
		zap.String("credit_id", credit.ID.String()),
		zap.String("appointment_id", appointmentID.String()))
	s.publish(ctx, credit)

	resp := ToCreditResponse(credit)
	return &resp, nil
}

// ListCredits lists credits with optional dog and status filters
func (s *CreditService) ListCredits(ctx context.Context, tenantID uuid.UUID, f CreditListFilter) ([]CreditResponse, int64, error) {
	filter := scheduling.CreditFilter{Filter: shared.DefaultFilter()}
	if f.Page > 0 {
		filter.Page = f.Page
	}
	if f.PageSize > 0 && f.PageSize <= 100 {
		filter.PageSize = f.PageSize
	}
	if f.DogID != "" {
		dogID, err := uuid.Parse(f.DogID)
		if err != nil {
			return nil, 0, shared.NewDomainError("INVALID_ID", "Invalid dog ID format")
		}
		filter.DogID = &dogID
	}
	if f.Status != "" {
		status := scheduling.CreditStatus(f.Status)
		if !status.IsValid() {
			return nil, 0, shared.NewDomainError("INVALID_STATUS", "Unknown credit status")
		}
		filter.Status = &status
	}

	credits, err := s.creditRepo.FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.creditRepo.CountForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, 0, err
	}

	out := make([]CreditResponse, 0, len(credits))
	for i := range credits {
		out = append(out, ToCreditResponse(&credits[i]))
	}
	return out, total, nil
}

func (s *CreditService) publish(ctx context.Context, credit *scheduling.ReplacementCredit) {
	events := credit.GetDomainEvents()
	credit.ClearDomainEvents()
	if s.publisher == nil || len(events) == 0 {
		return
	}
	if err := s.publisher.Publish(ctx, events...); err != nil {
		s.logger.Warn("Failed to publish credit events", zap.Error(err))
	}
}
