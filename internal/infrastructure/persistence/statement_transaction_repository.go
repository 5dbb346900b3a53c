package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/pethotel/backend/internal/domain/finance"
	"github.com/pethotel/backend/internal/infrastructure/persistence/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormStatementTransactionRepository implements finance.StatementTransactionRepository using GORM
type GormStatementTransactionRepository struct {
	db       *gorm.DB
	lockRows bool
}

// NewGormStatementTransactionRepository creates a new GormStatementTransactionRepository
func NewGormStatementTransactionRepository(db *gorm.DB) *GormStatementTransactionRepository {
	return &GormStatementTransactionRepository{db: db}
}

func (r *GormStatementTransactionRepository) query(ctx context.Context) *gorm.DB {
	q := r.db.WithContext(ctx)
	if r.lockRows {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return q
}

// FindByReferenceCode resolves the human-entered code for a tenant
func (r *GormStatementTransactionRepository) FindByReferenceCode(ctx context.Context, tenantID uuid.UUID, code string) (*finance.StatementTransaction, error) {
	var model models.StatementTransactionModel
	if err := r.query(ctx).
		Where("tenant_id = ? AND reference_code = ?", tenantID, code).
		First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindByIDForTenant finds a transaction by ID
func (r *GormStatementTransactionRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*finance.StatementTransaction, error) {
	var model models.StatementTransactionModel
	if err := r.query(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindAllForTenant lists transactions for a tenant
func (r *GormStatementTransactionRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter finance.StatementTransactionFilter) ([]finance.StatementTransaction, error) {
	query := r.db.WithContext(ctx).Where("tenant_id = ?", tenantID)
	if filter.Direction != nil {
		query = query.Where("direction = ?", *filter.Direction)
	}
	if filter.FromDate != nil {
		query = query.Where("date >= ?", *filter.FromDate)
	}
	if filter.ToDate != nil {
		query = query.Where("date <= ?", *filter.ToDate)
	}
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		query = query.Where("LOWER(reference_code) LIKE LOWER(?) OR LOWER(description) LIKE LOWER(?)", like, like)
	}

	var rows []models.StatementTransactionModel
	if err := applyListOptions(query, filter.Filter, StatementTransactionSortFields, "date").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]finance.StatementTransaction, 0, len(rows))
	for i := range rows {
		out = append(out, *rows[i].ToDomain())
	}
	return out, nil
}

// ExistsByReferenceCode checks whether the code is taken for a tenant
func (r *GormStatementTransactionRepository) ExistsByReferenceCode(ctx context.Context, tenantID uuid.UUID, code string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.StatementTransactionModel{}).
		Where("tenant_id = ? AND reference_code = ?", tenantID, code).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

type linkTotalRow struct {
	ID            uuid.UUID
	TenantID      uuid.UUID
	ReferenceCode string
	Amount        decimal.Decimal
	LinkedAmount  decimal.Decimal
	LinkSum       decimal.Decimal
}

// LinkTotals returns the running total and link-row sum of every transaction
// that has either a running total or a link
func (r *GormStatementTransactionRepository) LinkTotals(ctx context.Context) ([]finance.TransactionLinkTotal, error) {
	var rows []linkTotalRow
	err := r.db.WithContext(ctx).
		Table("statement_transactions AS t").
		Select("t.id, t.tenant_id, t.reference_code, t.amount, t.linked_amount, COALESCE(SUM(l.amount), 0) AS link_sum").
		Joins("LEFT JOIN invoice_links AS l ON l.transaction_id = t.id").
		Group("t.id, t.tenant_id, t.reference_code, t.amount, t.linked_amount").
		Having("t.linked_amount <> 0 OR COUNT(l.id) > 0").
		Order("t.reference_code ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make([]finance.TransactionLinkTotal, 0, len(rows))
	for _, row := range rows {
		out = append(out, finance.TransactionLinkTotal{
			TransactionID: row.ID,
			TenantID:      row.TenantID,
			ReferenceCode: row.ReferenceCode,
			Amount:        row.Amount,
			LinkedAmount:  row.LinkedAmount,
			LinkSum:       row.LinkSum,
		})
	}
	return out, nil
}

// Save creates or updates a transaction
func (r *GormStatementTransactionRepository) Save(ctx context.Context, txn *finance.StatementTransaction) error {
	var model models.StatementTransactionModel
	model.FromDomain(txn)
	if err := saveVersioned(r.db.WithContext(ctx), &model, model.ID, txn.PersistedVersion()); err != nil {
		return err
	}
	txn.MarkPersisted()
	return nil
}

var _ finance.StatementTransactionRepository = (*GormStatementTransactionRepository)(nil)
