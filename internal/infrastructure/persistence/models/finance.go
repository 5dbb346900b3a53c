package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/pethotel/backend/internal/domain/finance"
	"github.com/shopspring/decimal"
)

// InvoiceModel is the persistence model for the Invoice aggregate root
type InvoiceModel struct {
	TenantAggregateModel
	Category        string                `gorm:"type:varchar(100);not null"`
	Payee           string                `gorm:"type:varchar(200);not null;index"`
	Reference       string                `gorm:"type:varchar(100)"`
	DueDate         *time.Time            `gorm:"index"`
	FaceAmount      decimal.Decimal       `gorm:"type:decimal(18,2);not null"`
	LateFee         decimal.Decimal       `gorm:"type:decimal(18,2);not null;default:0"`
	PaymentMethod   string                `gorm:"type:varchar(50)"`
	AttachmentRef   string                `gorm:"type:varchar(500)"`
	NegotiationNote string                `gorm:"type:text"`
	Status          finance.InvoiceStatus `gorm:"type:varchar(20);not null;default:'pending';index"`
	SettledAmount   decimal.Decimal       `gorm:"type:decimal(18,2);not null;default:0"`
	SettlementDate  *time.Time
	PostingState    finance.PostingState `gorm:"type:varchar(20);not null;default:'none';index"`
	PostingRound    int                  `gorm:"not null;default:1"`
	Links           []InvoiceLinkModel   `gorm:"foreignKey:InvoiceID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (InvoiceModel) TableName() string {
	return "invoices"
}

// ToDomain converts the model to a domain Invoice. Links keep their stored order.
func (m *InvoiceModel) ToDomain() *finance.Invoice {
	inv := &finance.Invoice{
		TenantAggregateRoot: m.ToTenantAggregateRoot(),
		Category:            m.Category,
		Payee:               m.Payee,
		Reference:           m.Reference,
		DueDate:             m.DueDate,
		FaceAmount:          m.FaceAmount,
		LateFee:             m.LateFee,
		PaymentMethod:       m.PaymentMethod,
		AttachmentRef:       m.AttachmentRef,
		NegotiationNote:     m.NegotiationNote,
		Status:              m.Status,
		SettledAmount:       m.SettledAmount,
		SettlementDate:      m.SettlementDate,
		PostingState:        m.PostingState,
		PostingRound:        m.PostingRound,
		Links:               make([]finance.InvoiceLink, 0, len(m.Links)),
	}
	for _, l := range m.Links {
		inv.Links = append(inv.Links, l.ToDomain())
	}
	return inv
}

// FromDomain populates the model from a domain Invoice
func (m *InvoiceModel) FromDomain(inv *finance.Invoice) {
	m.FromDomainTenantAggregateRoot(inv.TenantAggregateRoot)
	m.Category = inv.Category
	m.Payee = inv.Payee
	m.Reference = inv.Reference
	m.DueDate = inv.DueDate
	m.FaceAmount = inv.FaceAmount
	m.LateFee = inv.LateFee
	m.PaymentMethod = inv.PaymentMethod
	m.AttachmentRef = inv.AttachmentRef
	m.NegotiationNote = inv.NegotiationNote
	m.Status = inv.Status
	m.SettledAmount = inv.SettledAmount
	m.SettlementDate = inv.SettlementDate
	m.PostingState = inv.PostingState
	m.PostingRound = inv.PostingRound
	m.Links = make([]InvoiceLinkModel, 0, len(inv.Links))
	for i, l := range inv.Links {
		m.Links = append(m.Links, InvoiceLinkModelFromDomain(l, i))
	}
}

// InvoiceLinkModel is a link row. Position preserves the invoice's list order.
type InvoiceLinkModel struct {
	ID              uuid.UUID       `gorm:"type:uuid;primary_key"`
	InvoiceID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	TransactionID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	TransactionCode string          `gorm:"type:varchar(100);not null"`
	Amount          decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Position        int             `gorm:"not null"`
	LinkedAt        time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (InvoiceLinkModel) TableName() string {
	return "invoice_links"
}

// ToDomain converts the row to a domain InvoiceLink
func (m *InvoiceLinkModel) ToDomain() finance.InvoiceLink {
	return finance.InvoiceLink{
		ID:              m.ID,
		InvoiceID:       m.InvoiceID,
		TransactionID:   m.TransactionID,
		TransactionCode: m.TransactionCode,
		Amount:          m.Amount,
		LinkedAt:        m.LinkedAt,
	}
}

// InvoiceLinkModelFromDomain builds the row for the link at position
func InvoiceLinkModelFromDomain(l finance.InvoiceLink, position int) InvoiceLinkModel {
	return InvoiceLinkModel{
		ID:              l.ID,
		InvoiceID:       l.InvoiceID,
		TransactionID:   l.TransactionID,
		TransactionCode: l.TransactionCode,
		Amount:          l.Amount,
		Position:        position,
		LinkedAt:        l.LinkedAt,
	}
}

// StatementTransactionModel is the persistence model for imported bank rows
type StatementTransactionModel struct {
	TenantAggregateModel
	ReferenceCode string                       `gorm:"type:varchar(100);not null;uniqueIndex:idx_statement_tenant_reference,priority:2"`
	Direction     finance.TransactionDirection `gorm:"type:varchar(10);not null"`
	Amount        decimal.Decimal              `gorm:"type:decimal(18,2);not null"`
	Date          time.Time                    `gorm:"not null;index"`
	Description   string                       `gorm:"type:varchar(500)"`
	PaymentMethod string                       `gorm:"type:varchar(50)"`
	LinkedAmount  decimal.Decimal              `gorm:"type:decimal(18,2);not null;default:0"`
}

// TableName returns the table name for GORM
func (StatementTransactionModel) TableName() string {
	return "statement_transactions"
}

// ToDomain converts the model to a domain StatementTransaction
func (m *StatementTransactionModel) ToDomain() *finance.StatementTransaction {
	return &finance.StatementTransaction{
		TenantAggregateRoot: m.ToTenantAggregateRoot(),
		ReferenceCode:       m.ReferenceCode,
		Direction:           m.Direction,
		Amount:              m.Amount,
		Date:                m.Date,
		Description:         m.Description,
		PaymentMethod:       m.PaymentMethod,
		LinkedAmount:        m.LinkedAmount,
	}
}

// FromDomain populates the model from a domain StatementTransaction
func (m *StatementTransactionModel) FromDomain(t *finance.StatementTransaction) {
	m.FromDomainTenantAggregateRoot(t.TenantAggregateRoot)
	m.ReferenceCode = t.ReferenceCode
	m.Direction = t.Direction
	m.Amount = t.Amount
	m.Date = t.Date
	m.Description = t.Description
	m.PaymentMethod = t.PaymentMethod
	m.LinkedAmount = t.LinkedAmount
}

// AuditNote stores finance.ExpenseAuditNote as a JSON column
type AuditNote finance.ExpenseAuditNote

// Value implements driver.Valuer
func (a AuditNote) Value() (driver.Value, error) {
	b, err := json.Marshal(a)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner
func (a *AuditNote) Scan(value any) error {
	var data []byte
	switch v := value.(type) {
	case nil:
		*a = AuditNote{}
		return nil
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return errors.New("audit note: unsupported column type")
	}
	return json.Unmarshal(data, a)
}

// ExpenseModel is the persistence model for posted expenses.
// (source_invoice_id, posting_round) is unique so a settlement posts once.
type ExpenseModel struct {
	TenantAggregateModel
	PostingDate     time.Time       `gorm:"not null;index"`
	Category        string          `gorm:"type:varchar(100);not null"`
	Subcategory     string          `gorm:"type:varchar(100)"`
	Description     string          `gorm:"type:varchar(500)"`
	Amount          decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	PaymentMethod   string          `gorm:"type:varchar(50)"`
	Payee           string          `gorm:"type:varchar(200)"`
	SourceInvoiceID uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_expense_source_round,priority:1"`
	PostingRound    int             `gorm:"not null;uniqueIndex:idx_expense_source_round,priority:2"`
	AuditNote       AuditNote       `gorm:"type:jsonb"`
}

// TableName returns the table name for GORM
func (ExpenseModel) TableName() string {
	return "expenses"
}

// ToDomain converts the model to a domain Expense
func (m *ExpenseModel) ToDomain() *finance.Expense {
	return &finance.Expense{
		TenantAggregateRoot: m.ToTenantAggregateRoot(),
		PostingDate:         m.PostingDate,
		Category:            m.Category,
		Subcategory:         m.Subcategory,
		Description:         m.Description,
		Amount:              m.Amount,
		PaymentMethod:       m.PaymentMethod,
		Payee:               m.Payee,
		SourceInvoiceID:     m.SourceInvoiceID,
		PostingRound:        m.PostingRound,
		AuditNote:           finance.ExpenseAuditNote(m.AuditNote),
	}
}

// FromDomain populates the model from a domain Expense
func (m *ExpenseModel) FromDomain(e *finance.Expense) {
	m.FromDomainTenantAggregateRoot(e.TenantAggregateRoot)
	m.PostingDate = e.PostingDate
	m.Category = e.Category
	m.Subcategory = e.Subcategory
	m.Description = e.Description
	m.Amount = e.Amount
	m.PaymentMethod = e.PaymentMethod
	m.Payee = e.Payee
	m.SourceInvoiceID = e.SourceInvoiceID
	m.PostingRound = e.PostingRound
	m.AuditNote = AuditNote(e.AuditNote)
}
