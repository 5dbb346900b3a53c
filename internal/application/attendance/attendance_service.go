package attendance

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pethotel/backend/internal/domain/attendance"
	"github.com/pethotel/backend/internal/domain/scheduling"
	"github.com/pethotel/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// AttendanceService reports missed sessions and records front-desk check-ins
type AttendanceService struct {
	appointmentRepo scheduling.AppointmentRepository
	checkinRepo     attendance.CheckinRepository
	calculator      *attendance.GapCalculator
	location        *time.Location
	logger          *zap.Logger
}

// NewAttendanceService creates a new AttendanceService
func NewAttendanceService(
	appointmentRepo scheduling.AppointmentRepository,
	checkinRepo attendance.CheckinRepository,
	loc *time.Location,
	logger *zap.Logger,
) *AttendanceService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if loc == nil {
		loc = time.UTC
	}
	return &AttendanceService{
		appointmentRepo: appointmentRepo,
		checkinRepo:     checkinRepo,
		calculator:      attendance.NewGapCalculator(loc),
		location:        loc,
		logger:          logger,
	}
}

// GapsResponse is the per-bucket gap count for one dog
type GapsResponse struct {
	DogID uuid.UUID       `json:"dog_id"`
	Today time.Time       `json:"today"`
	Gaps  attendance.Gaps `json:"gaps"`
	Total int             `json:"total"`
}

// GetGaps counts the dog's past appointments without a matching check-in
func (s *AttendanceService) GetGaps(ctx context.Context, tenantID, dogID uuid.UUID, today time.Time) (*GapsResponse, error) {
	startOfDay := shared.DateOf(today, s.location)

	// PageSize 0 loads the full history.
	filter := scheduling.AppointmentFilter{
		Filter: shared.Filter{OrderBy: "scheduled_at", OrderDir: "asc"},
		DogID:  &dogID,
		Before: &startOfDay,
	}
	appointments, err := s.appointmentRepo.FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to load appointments: %w", err)
	}
	checkins, err := s.checkinRepo.FindByDog(ctx, tenantID, dogID, startOfDay)
	if err != nil {
		return nil, fmt.Errorf("failed to load check-ins: %w", err)
	}

	gaps := s.calculator.ComputeGaps(dogID, appointments, checkins, today)
	s.logger.Debug("Attendance gaps computed",
		zap.String("tenant_id", tenantID.String()),
		zap.String("dog_id", dogID.String()),
		zap.Int("appointments", len(appointments)),
		zap.Int("checkins", len(checkins)),
		zap.Int("gaps", gaps.Total()))

	return &GapsResponse{DogID: dogID, Today: startOfDay, Gaps: gaps, Total: gaps.Total()}, nil
}

// RecordCheckinRequest is a front-desk check-in
type RecordCheckinRequest struct {
	DogID        uuid.UUID  `json:"dog_id" binding:"required"`
	ServiceLabel string     `json:"service_label" binding:"required,max=100"`
	CheckedInAt  *time.Time `json:"checked_in_at"`
}

// CheckinResponse represents a check-in in API responses
type CheckinResponse struct {
	ID           uuid.UUID `json:"id"`
	DogID        uuid.UUID `json:"dog_id"`
	CheckedInAt  time.Time `json:"checked_in_at"`
	ServiceLabel string    `json:"service_label"`
}

// RecordCheckin stores a check-in; CheckedInAt defaults to now
func (s *AttendanceService) RecordCheckin(ctx context.Context, tenantID uuid.UUID, req RecordCheckinRequest) (*CheckinResponse, error) {
	at := time.Now().In(s.location)
	if req.CheckedInAt != nil {
		at = *req.CheckedInAt
	}
	checkin, err := attendance.NewCheckin(tenantID, req.DogID, at, req.ServiceLabel)
	if err != nil {
		return nil, err
	}
	if err := s.checkinRepo.Create(ctx, checkin); err != nil {
		return nil, fmt.Errorf("failed to save check-in: %w", err)
	}

	s.logger.Info("Check-in recorded",
		zap.String("tenant_id", tenantID.String()),
		zap.String("dog_id", checkin.DogID.String()),
		zap.String("service_label", checkin.ServiceLabel))

	return &CheckinResponse{
		ID:           checkin.ID,
		DogID:        checkin.DogID,
		CheckedInAt:  checkin.CheckedInAt,
		ServiceLabel: checkin.ServiceLabel,
	}, nil
}
