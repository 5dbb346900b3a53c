package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pethotel/backend/internal/domain/finance"
	"github.com/pethotel/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormInvoiceRepository implements finance.InvoiceRepository using GORM
type GormInvoiceRepository struct {
	db       *gorm.DB
	lockRows bool
}

// NewGormInvoiceRepository creates a new GormInvoiceRepository
func NewGormInvoiceRepository(db *gorm.DB) *GormInvoiceRepository {
	return &GormInvoiceRepository{db: db}
}

func (r *GormInvoiceRepository) preloadLinks(query *gorm.DB) *gorm.DB {
	return query.Preload("Links", func(db *gorm.DB) *gorm.DB {
		return db.Order("position ASC")
	})
}

// FindByIDForTenant finds an invoice with its links. Inside a transaction
// scope the invoice row is locked until commit.
func (r *GormInvoiceRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*finance.Invoice, error) {
	query := r.db.WithContext(ctx)
	if r.lockRows {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var model models.InvoiceModel
	if err := r.preloadLinks(query).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

func (r *GormInvoiceRepository) filtered(ctx context.Context, tenantID uuid.UUID, filter finance.InvoiceFilter) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&models.InvoiceModel{}).Where("tenant_id = ?", tenantID)
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.PostingState != nil {
		query = query.Where("posting_state = ?", *filter.PostingState)
	}
	if filter.Payee != "" {
		query = query.Where("LOWER(payee) LIKE LOWER(?)", "%"+filter.Payee+"%")
	}
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		query = query.Where("LOWER(payee) LIKE LOWER(?) OR LOWER(reference) LIKE LOWER(?) OR LOWER(category) LIKE LOWER(?)", like, like, like)
	}
	if filter.DueFrom != nil {
		query = query.Where("due_date >= ?", *filter.DueFrom)
	}
	if filter.DueTo != nil {
		query = query.Where("due_date <= ?", *filter.DueTo)
	}
	return query
}

// FindAllForTenant lists invoices for a tenant
func (r *GormInvoiceRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter finance.InvoiceFilter) ([]finance.Invoice, error) {
	var rows []models.InvoiceModel
	query := applyListOptions(r.filtered(ctx, tenantID, filter), filter.Filter, InvoiceSortFields, "created_at")
	if err := r.preloadLinks(query).Find(&rows).Error; err != nil {
		return nil, err
	}
	return toInvoices(rows), nil
}

// CountForTenant counts invoices matching the filter
func (r *GormInvoiceRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter finance.InvoiceFilter) (int64, error) {
	var count int64
	if err := r.filtered(ctx, tenantID, filter).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// FindPendingPosting finds invoices stuck between settlement and posting, oldest first
func (r *GormInvoiceRepository) FindPendingPosting(ctx context.Context, limit int) ([]finance.Invoice, error) {
	var rows []models.InvoiceModel
	query := r.db.WithContext(ctx).
		Where("posting_state = ?", finance.PostingStatePendingPost).
		Order("settlement_date ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := r.preloadLinks(query).Find(&rows).Error; err != nil {
		return nil, err
	}
	return toInvoices(rows), nil
}

// FindSettledToday finds settled_today invoices settled before settledBefore
func (r *GormInvoiceRepository) FindSettledToday(ctx context.Context, settledBefore time.Time) ([]finance.Invoice, error) {
	var rows []models.InvoiceModel
	err := r.preloadLinks(r.db.WithContext(ctx)).
		Where("status = ? AND settlement_date < ?", finance.InvoiceStatusSettledToday, settledBefore).
		Order("settlement_date ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return toInvoices(rows), nil
}

// Save upserts the invoice row and rewrites its link rows
func (r *GormInvoiceRepository) Save(ctx context.Context, invoice *finance.Invoice) error {
	var model models.InvoiceModel
	model.FromDomain(invoice)

	save := func(tx *gorm.DB) error {
		if err := saveVersioned(tx, &model, model.ID, invoice.PersistedVersion(), "Links"); err != nil {
			return err
		}
		if err := tx.Where("invoice_id = ?", model.ID).Delete(&models.InvoiceLinkModel{}).Error; err != nil {
			return fmt.Errorf("failed to clear invoice links: %w", err)
		}
		if len(model.Links) == 0 {
			return nil
		}
		return tx.Create(&model.Links).Error
	}

	var err error
	if r.lockRows {
		err = save(r.db.WithContext(ctx))
	} else {
		err = r.db.WithContext(ctx).Transaction(save)
	}
	if err != nil {
		return err
	}
	invoice.MarkPersisted()
	return nil
}

func toInvoices(rows []models.InvoiceModel) []finance.Invoice {
	out := make([]finance.Invoice, 0, len(rows))
	for i := range rows {
		out = append(out, *rows[i].ToDomain())
	}
	return out
}

var _ finance.InvoiceRepository = (*GormInvoiceRepository)(nil)
