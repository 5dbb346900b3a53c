package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pethotel/backend/internal/domain/scheduling"
	"github.com/pethotel/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormAppointmentRepository implements scheduling.AppointmentRepository using GORM
type GormAppointmentRepository struct {
	db       *gorm.DB
	lockRows bool
}

// NewGormAppointmentRepository creates a new GormAppointmentRepository
func NewGormAppointmentRepository(db *gorm.DB) *GormAppointmentRepository {
	return &GormAppointmentRepository{db: db}
}

// FindByIDForTenant finds an appointment by ID
func (r *GormAppointmentRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*scheduling.Appointment, error) {
	query := r.db.WithContext(ctx)
	if r.lockRows {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var model models.AppointmentModel
	if err := query.Where("tenant_id = ? AND id = ?", tenantID, id).First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindAllForTenant lists appointments with filtering
func (r *GormAppointmentRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter scheduling.AppointmentFilter) ([]scheduling.Appointment, error) {
	query := r.db.WithContext(ctx).Where("tenant_id = ?", tenantID)
	if filter.DogID != nil {
		query = query.Where("dog_id = ?", *filter.DogID)
	}
	if filter.ServiceType != nil {
		query = query.Where("service_type = ?", *filter.ServiceType)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.PaymentStatus != nil {
		query = query.Where("payment_status = ?", *filter.PaymentStatus)
	}
	if filter.From != nil {
		query = query.Where("scheduled_at >= ?", *filter.From)
	}
	if filter.Before != nil {
		query = query.Where("scheduled_at < ?", *filter.Before)
	}

	var rows []models.AppointmentModel
	if err := applyListOptions(query, filter.Filter, AppointmentSortFields, "scheduled_at").Find(&rows).Error; err != nil {
		return nil, err
	}
	return toAppointments(rows), nil
}

func (r *GormAppointmentRepository) candidates(ctx context.Context, before time.Time) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.AppointmentModel{}).
		Where("payment_status = ? AND used = ? AND replaced = ? AND scheduled_at < ?",
			scheduling.PaymentStatusPaid, false, false, before)
}

// FindCreditCandidates finds paid, unused, unreplaced appointments scheduled before the given instant
func (r *GormAppointmentRepository) FindCreditCandidates(ctx context.Context, tenantID uuid.UUID, before time.Time) ([]scheduling.Appointment, error) {
	var rows []models.AppointmentModel
	if err := r.candidates(ctx, before).
		Where("tenant_id = ?", tenantID).
		Order("scheduled_at ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return toAppointments(rows), nil
}

// TenantsWithCreditCandidates lists tenants that have at least one candidate
func (r *GormAppointmentRepository) TenantsWithCreditCandidates(ctx context.Context, before time.Time) ([]uuid.UUID, error) {
	var tenants []uuid.UUID
	if err := r.candidates(ctx, before).
		Distinct("tenant_id").
		Order("tenant_id").
		Pluck("tenant_id", &tenants).Error; err != nil {
		return nil, err
	}
	return tenants, nil
}

// Save creates or updates an appointment
func (r *GormAppointmentRepository) Save(ctx context.Context, appointment *scheduling.Appointment) error {
	var model models.AppointmentModel
	model.FromDomain(appointment)
	if err := saveVersioned(r.db.WithContext(ctx), &model, model.ID, appointment.PersistedVersion()); err != nil {
		return err
	}
	appointment.MarkPersisted()
	return nil
}

func toAppointments(rows []models.AppointmentModel) []scheduling.Appointment {
	out := make([]scheduling.Appointment, 0, len(rows))
	for i := range rows {
		out = append(out, *rows[i].ToDomain())
	}
	return out
}

var _ scheduling.AppointmentRepository = (*GormAppointmentRepository)(nil)
