package service

import (
	"context"
	"strings"
	"testing"

	"mywallet/internal/domain"
	"mywallet/internal/storage"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLedger(t *testing.T) (*LedgerService, int64) {
	t.Helper()
	db, err := storage.NewDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	u := &domain.User{Name: "Fulano", Email: "fulano@email.com", PasswordHash: "x"}
	require.NoError(t, db.CreateUser(context.Background(), u))

	return NewLedgerService(db, 0), u.ID
}

func TestLedgerAppendAndList(t *testing.T) {
	ledger, userID := newTestLedger(t)
	ctx := context.Background()

	before := testutil.ToFloat64(TransactionsCreated.WithLabelValues(string(domain.Credit)))

	tx, err := ledger.Append(ctx, userID, decimal.NewFromInt(50), "salary", domain.Credit)
	require.NoError(t, err)
	assert.NotZero(t, tx.ID)
	assert.False(t, tx.Date.IsZero())

	_, err = ledger.Append(ctx, userID, decimal.RequireFromString("12.30"), "lunch", domain.Debit)
	require.NoError(t, err)

	list, err := ledger.List(ctx, userID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "salary", list[0].Description)
	assert.Equal(t, "lunch", list[1].Description)

	assert.Equal(t, before+1, testutil.ToFloat64(TransactionsCreated.WithLabelValues(string(domain.Credit))))
}

func TestLedgerRejectsInvalidInput(t *testing.T) {
	ledger, userID := newTestLedger(t)
	ctx := context.Background()

	_, err := ledger.Append(ctx, userID, decimal.NewFromInt(1), strings.Repeat("x", 21), domain.Credit)
	assert.ErrorIs(t, err, domain.ErrInvalidTransaction)

	_, err = ledger.Append(ctx, userID, decimal.NewFromInt(1), "ok", domain.TransactionType("refund"))
	assert.ErrorIs(t, err, domain.ErrInvalidTransaction)

	list, err := ledger.List(ctx, userID)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestLedgerUnknownUser(t *testing.T) {
	ledger, userID := newTestLedger(t)

	_, err := ledger.Append(context.Background(), userID+1, decimal.NewFromInt(1), "ghost", domain.Credit)
	assert.ErrorIs(t, err, domain.ErrUnknownUser)
}
