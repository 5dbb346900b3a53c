package persistence

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateSortOrder(t *testing.T) {
	tests := map[string]string{
		"asc":   "ASC",
		" ASC ": "ASC",
		"desc":  "DESC",
		"":      "DESC",
		"drop":  "DESC",
	}
	for in, want := range tests {
		assert.Equal(t, want, ValidateSortOrder(in), in)
	}
}

func TestValidateSortField(t *testing.T) {
	assert.Equal(t, "due_date", ValidateSortField("due_date", InvoiceSortFields, "created_at"))
	assert.Equal(t, "created_at", ValidateSortField("", InvoiceSortFields, "created_at"))
	assert.Equal(t, "created_at", ValidateSortField("1; DROP TABLE invoices", InvoiceSortFields, "created_at"))
	assert.Equal(t, "posting_date", ValidateSortField("face_amount", ExpenseSortFields, "posting_date"))
}
