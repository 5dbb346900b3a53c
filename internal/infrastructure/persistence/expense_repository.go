package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/pethotel/backend/internal/domain/finance"
	"github.com/pethotel/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormExpenseRepository implements finance.ExpenseRepository using GORM.
// Expenses are insert-only.
type GormExpenseRepository struct {
	db *gorm.DB
}

// NewGormExpenseRepository creates a new GormExpenseRepository
func NewGormExpenseRepository(db *gorm.DB) *GormExpenseRepository {
	return &GormExpenseRepository{db: db}
}

// Create inserts an expense. The (source_invoice_id, posting_round) unique
// index turns a second posting of the same round into shared.ErrAlreadyExists.
func (r *GormExpenseRepository) Create(ctx context.Context, expense *finance.Expense) error {
	var model models.ExpenseModel
	model.FromDomain(expense)
	return translateError(r.db.WithContext(ctx).Create(&model).Error)
}

// FindBySource finds the expense of one posting round
func (r *GormExpenseRepository) FindBySource(ctx context.Context, tenantID, invoiceID uuid.UUID, round int) (*finance.Expense, error) {
	var model models.ExpenseModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND source_invoice_id = ? AND posting_round = ?", tenantID, invoiceID, round).
		First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

func (r *GormExpenseRepository) filtered(ctx context.Context, tenantID uuid.UUID, filter finance.ExpenseFilter) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&models.ExpenseModel{}).Where("tenant_id = ?", tenantID)
	if filter.SourceInvoiceID != nil {
		query = query.Where("source_invoice_id = ?", *filter.SourceInvoiceID)
	}
	if filter.FromDate != nil {
		query = query.Where("posting_date >= ?", *filter.FromDate)
	}
	if filter.ToDate != nil {
		query = query.Where("posting_date <= ?", *filter.ToDate)
	}
	return query
}

// FindAllForTenant lists expenses for a tenant
func (r *GormExpenseRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter finance.ExpenseFilter) ([]finance.Expense, error) {
	var rows []models.ExpenseModel
	query := applyListOptions(r.filtered(ctx, tenantID, filter), filter.Filter, ExpenseSortFields, "posting_date")
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]finance.Expense, 0, len(rows))
	for i := range rows {
		out = append(out, *rows[i].ToDomain())
	}
	return out, nil
}

// CountForTenant counts expenses matching the filter
func (r *GormExpenseRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter finance.ExpenseFilter) (int64, error) {
	var count int64
	if err := r.filtered(ctx, tenantID, filter).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

var _ finance.ExpenseRepository = (*GormExpenseRepository)(nil)
