package finance

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pethotel/backend/internal/domain/finance"
	"github.com/pethotel/backend/internal/domain/shared"
	"github.com/pethotel/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// TransactionService registers bank-statement rows
type TransactionService struct {
	txnRepo   finance.StatementTransactionRepository
	publisher shared.EventPublisher
	logger    *zap.Logger
}

// NewTransactionService creates a new TransactionService
func NewTransactionService(txnRepo finance.StatementTransactionRepository, publisher shared.EventPublisher, logger *zap.Logger) *TransactionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TransactionService{txnRepo: txnRepo, publisher: publisher, logger: logger}
}

// ImportTransactionRequest describes one bank-statement row.
// Amount may be signed; Direction is inferred from the sign when empty.
type ImportTransactionRequest struct {
	ReferenceCode string          `json:"reference_code" binding:"required,max=64"`
	Direction     string          `json:"direction" binding:"omitempty,oneof=inflow outflow"`
	Amount        decimal.Decimal `json:"amount" binding:"required"`
	Date          time.Time       `json:"date" binding:"required"`
	Description   string          `json:"description"`
	PaymentMethod string          `json:"payment_method"`
}

// ImportTransaction stores a new statement row; reference codes are unique per tenant
func (s *TransactionService) ImportTransaction(ctx context.Context, tenantID uuid.UUID, req ImportTransactionRequest) (*TransactionResponse, error) {
	code := strings.TrimSpace(req.ReferenceCode)
	exists, err := s.txnRepo.ExistsByReferenceCode(ctx, tenantID, code)
	if err != nil {
		return nil, fmt.Errorf("failed to check reference code: %w", err)
	}
	if exists {
		return nil, finance.ErrDuplicateReference
	}

	txn, err := finance.NewStatementTransaction(
		tenantID,
		code,
		finance.TransactionDirection(req.Direction),
		valueobject.NewMoneyBRL(req.Amount),
		req.Date,
		req.Description,
		req.PaymentMethod,
	)
	if err != nil {
		return nil, err
	}
	if err := s.txnRepo.Save(ctx, txn); err != nil {
		return nil, err
	}

	s.logger.Info("Statement transaction imported",
		zap.String("tenant_id", tenantID.String()),
		zap.String("reference_code", txn.ReferenceCode),
		zap.String("direction", txn.Direction.String()),
		zap.String("amount", txn.Amount.StringFixed(2)))
	publishAndClear(ctx, s.publisher, s.logger, txn)

	resp := ToTransactionResponse(txn)
	return &resp, nil
}

// GetTransaction returns a statement row by reference code regardless of direction
func (s *TransactionService) GetTransaction(ctx context.Context, tenantID uuid.UUID, code string) (*TransactionResponse, error) {
	txn, err := s.txnRepo.FindByReferenceCode(ctx, tenantID, strings.TrimSpace(code))
	if err != nil {
		return nil, err
	}
	resp := ToTransactionResponse(txn)
	return &resp, nil
}
