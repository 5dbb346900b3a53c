package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pethotel/backend/internal/domain/attendance"
	"github.com/pethotel/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormCheckinRepository implements attendance.CheckinRepository using GORM
type GormCheckinRepository struct {
	db *gorm.DB
}

// NewGormCheckinRepository creates a new GormCheckinRepository
func NewGormCheckinRepository(db *gorm.DB) *GormCheckinRepository {
	return &GormCheckinRepository{db: db}
}

// FindByDog lists a dog's check-ins before the given instant, oldest first
func (r *GormCheckinRepository) FindByDog(ctx context.Context, tenantID, dogID uuid.UUID, before time.Time) ([]attendance.Checkin, error) {
	var rows []models.CheckinModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND dog_id = ? AND checked_in_at < ?", tenantID, dogID, before).
		Order("checked_in_at ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]attendance.Checkin, 0, len(rows))
	for i := range rows {
		out = append(out, *rows[i].ToDomain())
	}
	return out, nil
}

// Create inserts a check-in
func (r *GormCheckinRepository) Create(ctx context.Context, checkin *attendance.Checkin) error {
	var model models.CheckinModel
	model.FromDomain(checkin)
	return translateError(r.db.WithContext(ctx).Create(&model).Error)
}

var _ attendance.CheckinRepository = (*GormCheckinRepository)(nil)
