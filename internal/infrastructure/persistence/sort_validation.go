package persistence

import (
	"strings"

	"github.com/pethotel/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// ValidateSortOrder normalizes the sort order to ASC or DESC, defaulting to DESC
func ValidateSortOrder(orderDir string) string {
	if strings.ToUpper(strings.TrimSpace(orderDir)) == "ASC" {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField returns sortField when it is whitelisted, otherwise defaultField
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed != "" && allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

// InvoiceSortFields contains allowed sort fields for invoices
var InvoiceSortFields = map[string]bool{
	"created_at":      true,
	"updated_at":      true,
	"due_date":        true,
	"payee":           true,
	"face_amount":     true,
	"status":          true,
	"settlement_date": true,
}

// StatementTransactionSortFields contains allowed sort fields for statement rows
var StatementTransactionSortFields = map[string]bool{
	"created_at":     true,
	"date":           true,
	"amount":         true,
	"reference_code": true,
}

// ExpenseSortFields contains allowed sort fields for expenses
var ExpenseSortFields = map[string]bool{
	"created_at":   true,
	"posting_date": true,
	"amount":       true,
	"payee":        true,
}

// AppointmentSortFields contains allowed sort fields for appointments
var AppointmentSortFields = map[string]bool{
	"created_at":   true,
	"scheduled_at": true,
	"value":        true,
}

// CreditSortFields contains allowed sort fields for replacement credits
var CreditSortFields = map[string]bool{
	"created_at":   true,
	"generated_at": true,
	"value":        true,
}

// applyListOptions orders by a whitelisted column and paginates.
// A zero PageSize returns every row.
func applyListOptions(query *gorm.DB, filter shared.Filter, allowed map[string]bool, defaultField string) *gorm.DB {
	field := ValidateSortField(filter.OrderBy, allowed, defaultField)
	query = query.Order(field + " " + ValidateSortOrder(filter.OrderDir))
	if filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}
	return query
}
