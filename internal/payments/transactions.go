package payments

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/harborline/vaultpay-go/internal/gateway"
)

// CreateTransaction charges a single-use nonce or a vaulted token. The
// returned transaction renders the amount with exactly two decimal
// digits regardless of how the input was scaled. A processor decline is
// not an error: the result carries Success=false and the declined
// transaction.
func (s *Service) CreateTransaction(ctx context.Context, input TransactionInput) (_ *TransactionResult, err error) {
	const op = "create_transaction"
	start := time.Now()
	defer func() { s.observe(op, start, err) }()

	if err := validate.Struct(input); err != nil {
		return nil, invalidInput(op, err)
	}
	txn, gwErr := s.gw.CreateTransaction(ctx, gateway.TransactionRequest{
		Amount:              input.Amount.StringFixed(2),
		PaymentMethodNonce:  input.PaymentMethodNonce,
		PaymentMethodToken:  input.PaymentMethodToken,
		CustomerID:          input.CustomerID,
		OrderID:             input.OrderID,
		SubmitForSettlement: input.SubmitForSettlement,
	})
	if gwErr != nil {
		return nil, classify(op, gwErr)
	}
	return s.transactionResult(txn), nil
}

// CloneTransaction re-runs an existing transaction's payment context for
// a new amount, producing a transaction with a distinct id.
func (s *Service) CloneTransaction(ctx context.Context, transactionID string, amount decimal.Decimal) (_ *TransactionResult, err error) {
	const op = "clone_transaction"
	start := time.Now()
	defer func() { s.observe(op, start, err) }()

	if transactionID == "" {
		return nil, &Error{Type: ErrValidation, Op: op, Message: "transaction id is required"}
	}
	if !amount.IsPositive() || amount.Exponent() < -2 {
		return nil, &Error{Type: ErrValidation, Op: op, Message: "amount must be positive with at most two decimal places"}
	}
	txn, gwErr := s.gw.CloneTransaction(ctx, transactionID, gateway.TransactionCloneRequest{
		Amount: amount.StringFixed(2),
	})
	if gwErr != nil {
		return nil, classify(op, gwErr)
	}
	return s.transactionResult(txn), nil
}

// FindTransaction fetches one transaction by id.
func (s *Service) FindTransaction(ctx context.Context, id string) (_ *TransactionResult, err error) {
	const op = "find_transaction"
	start := time.Now()
	defer func() { s.observe(op, start, err) }()

	if id == "" {
		return nil, &Error{Type: ErrValidation, Op: op, Message: "transaction id is required"}
	}
	txn, gwErr := s.gw.FindTransaction(ctx, id)
	if gwErr != nil {
		return nil, classify(op, gwErr)
	}
	return s.transactionResult(txn), nil
}

func (s *Service) transactionResult(txn *gateway.Transaction) *TransactionResult {
	if txn.Status == gateway.TransactionStatusProcessorDeclined {
		s.logger.Warn("transaction declined",
			"transaction_id", txn.ID,
			"processor_response_code", txn.ProcessorResponseCode,
			"processor_response_text", txn.ProcessorResponseText)
		return &TransactionResult{Success: false, Transaction: *txn}
	}
	return &TransactionResult{Success: true, Transaction: *txn}
}
