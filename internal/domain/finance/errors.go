package finance

import "github.com/pethotel/backend/internal/domain/shared"

// Error codes raised by the reconciliation and posting rules
const (
	CodeDirectionMismatch  = "DIRECTION_MISMATCH"
	CodeExceedsAvailable   = "EXCEEDS_AVAILABLE"
	CodeExceedsRemaining   = "EXCEEDS_REMAINING"
	CodeInvalidAmount      = "INVALID_AMOUNT"
	CodeLinkNotFound       = "LINK_NOT_FOUND"
	CodeInvoicePosted      = "INVOICE_POSTED"
	CodeNotSettled         = "NOT_SETTLED"
	CodeAlreadyPosted      = "ALREADY_POSTED"
	CodeDuplicateReference = "DUPLICATE_REFERENCE"
)

var (
	ErrTransactionNotFound = shared.NewDomainError("NOT_FOUND", "No statement transaction carries that reference")
	ErrInvoiceNotFound     = shared.NewDomainError("NOT_FOUND", "Invoice not found")
	ErrDirectionMismatch   = shared.NewDomainError(CodeDirectionMismatch, "Only outflow transactions can settle payables")
	ErrExceedsAvailable    = shared.NewDomainError(CodeExceedsAvailable, "Amount exceeds the transaction's available balance")
	ErrExceedsRemaining    = shared.NewDomainError(CodeExceedsRemaining, "Amount exceeds the invoice's remaining balance")
	ErrInvalidAmount       = shared.NewDomainError(CodeInvalidAmount, "Amount to link must be greater than zero")
	ErrLinkNotFound        = shared.NewDomainError(CodeLinkNotFound, "Link index out of range")
	ErrInvoicePosted       = shared.NewDomainError(CodeInvoicePosted, "Invoice already posted to expenses; reverse a link first")
	ErrNotSettled          = shared.NewDomainError(CodeNotSettled, "Invoice is not fully settled")
	ErrAlreadyPosted       = shared.NewDomainError(CodeAlreadyPosted, "Invoice already posted to expenses")
	ErrDuplicateReference  = shared.NewDomainError(CodeDuplicateReference, "A transaction with this reference code already exists")
)
