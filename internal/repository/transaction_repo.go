package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"mywallet/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type TransactionRepository struct {
	db *pgxpool.Pool
}

func NewTransactionRepository(db *pgxpool.Pool) *TransactionRepository {
	return &TransactionRepository{db: db}
}

// AppendTransaction inserts tx dated NOW() and fills in ID and Date.
// The owner is checked in the same statement, so a missing user is reported
// as domain.ErrUnknownUser instead of depending on the foreign key.
func (r *TransactionRepository) AppendTransaction(ctx context.Context, tx *domain.Transaction) error {
	err := r.db.QueryRow(ctx,
		`INSERT INTO transactions ("userId", date, value, description, type)
		 SELECT $1, NOW(), $2::numeric, $3, $4
		 WHERE EXISTS (SELECT 1 FROM users WHERE id = $1)
		 RETURNING id, date`,
		tx.UserID, tx.Value.String(), tx.Description, string(tx.Type),
	).Scan(&tx.ID, &tx.Date)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrUnknownUser
	}
	return err
}

// ListTransactions returns the user's ledger oldest first.
func (r *TransactionRepository) ListTransactions(ctx context.Context, userID int64) ([]domain.Transaction, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, "userId", date, value::text, description, type
		 FROM transactions
		 WHERE "userId" = $1
		 ORDER BY date, id`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return r.scanRows(rows)
}

func (r *TransactionRepository) scanRows(rows pgx.Rows) ([]domain.Transaction, error) {
	result := []domain.Transaction{}

	for rows.Next() {
		var (
			tx      domain.Transaction
			value   string
			txType  string
			created time.Time
		)

		if err := rows.Scan(&tx.ID, &tx.UserID, &created, &value, &tx.Description, &txType); err != nil {
			return nil, err
		}

		v, err := decimal.NewFromString(value)
		if err != nil {
			return nil, fmt.Errorf("transaction %d: bad value %q: %w", tx.ID, value, err)
		}
		tx.Value = v
		tx.Date = created
		tx.Type = domain.TransactionType(txType)

		result = append(result, tx)
	}

	return result, rows.Err()
}
