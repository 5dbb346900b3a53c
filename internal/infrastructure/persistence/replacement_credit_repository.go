package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/pethotel/backend/internal/domain/scheduling"
	"github.com/pethotel/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormReplacementCreditRepository implements scheduling.ReplacementCreditRepository using GORM
type GormReplacementCreditRepository struct {
	db       *gorm.DB
	lockRows bool
}

// NewGormReplacementCreditRepository creates a new GormReplacementCreditRepository
func NewGormReplacementCreditRepository(db *gorm.DB) *GormReplacementCreditRepository {
	return &GormReplacementCreditRepository{db: db}
}

// FindByIDForTenant finds a credit by ID
func (r *GormReplacementCreditRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*scheduling.ReplacementCredit, error) {
	query := r.db.WithContext(ctx)
	if r.lockRows {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var model models.ReplacementCreditModel
	if err := query.Where("tenant_id = ? AND id = ?", tenantID, id).First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

func (r *GormReplacementCreditRepository) filtered(ctx context.Context, tenantID uuid.UUID, filter scheduling.CreditFilter) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&models.ReplacementCreditModel{}).Where("tenant_id = ?", tenantID)
	if filter.DogID != nil {
		query = query.Where("dog_id = ?", *filter.DogID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	return query
}

// FindAllForTenant lists credits with filtering
func (r *GormReplacementCreditRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter scheduling.CreditFilter) ([]scheduling.ReplacementCredit, error) {
	var rows []models.ReplacementCreditModel
	query := applyListOptions(r.filtered(ctx, tenantID, filter), filter.Filter, CreditSortFields, "generated_at")
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]scheduling.ReplacementCredit, 0, len(rows))
	for i := range rows {
		out = append(out, *rows[i].ToDomain())
	}
	return out, nil
}

// CountForTenant counts credits matching the filter
func (r *GormReplacementCreditRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter scheduling.CreditFilter) (int64, error) {
	var count int64
	if err := r.filtered(ctx, tenantID, filter).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Create inserts a credit. The unique source appointment column turns a
// second conversion into shared.ErrAlreadyExists.
func (r *GormReplacementCreditRepository) Create(ctx context.Context, credit *scheduling.ReplacementCredit) error {
	var model models.ReplacementCreditModel
	model.FromDomain(credit)
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		return translateError(err)
	}
	credit.MarkPersisted()
	return nil
}

// Save updates a credit
func (r *GormReplacementCreditRepository) Save(ctx context.Context, credit *scheduling.ReplacementCredit) error {
	var model models.ReplacementCreditModel
	model.FromDomain(credit)
	if err := saveVersioned(r.db.WithContext(ctx), &model, model.ID, credit.PersistedVersion()); err != nil {
		return err
	}
	credit.MarkPersisted()
	return nil
}

var _ scheduling.ReplacementCreditRepository = (*GormReplacementCreditRepository)(nil)
