package service

import (
	"context"
	"fmt"
	"time"

	"mywallet/internal/domain"

	"github.com/shopspring/decimal"
)

// LedgerService appends and lists a user's transactions.
type LedgerService struct {
	store   LedgerStore
	timeout time.Duration
}

// NewLedgerService creates a new ledger service. A zero timeout selects the default.
func NewLedgerService(store LedgerStore, timeout time.Duration) *LedgerService {
	if timeout <= 0 {
		timeout = defaultStoreTimeout
	}
	return &LedgerService{store: store, timeout: timeout}
}

// Append records a transaction and returns once the store confirmed it.
func (s *LedgerService) Append(ctx context.Context, userID int64, value decimal.Decimal, description string, kind domain.TransactionType) (*domain.Transaction, error) {
	tx := &domain.Transaction{
		UserID:      userID,
		Value:       value,
		Description: description,
		Type:        kind,
	}
	if err := tx.Validate(); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if err := s.store.AppendTransaction(ctx, tx); err != nil {
		return nil, fmt.Errorf("append transaction: %w", err)
	}

	TransactionsCreated.WithLabelValues(string(kind)).Inc()
	return tx, nil
}

// List returns the user's transactions oldest first.
func (s *LedgerService) List(ctx context.Context, userID int64) ([]domain.Transaction, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	list, err := s.store.ListTransactions(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return list, nil
}
