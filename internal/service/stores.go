package service

import (
	"context"

	"mywallet/internal/domain"
)

// UserStore persists credentials.
type UserStore interface {
	FindUserByEmail(ctx context.Context, email string) (*domain.User, error)
	CreateUser(ctx context.Context, u *domain.User) error
}

// SessionStore maps opaque tokens to user ids.
type SessionStore interface {
	CreateSession(ctx context.Context, token string, userID int64) error
	FindSessionByToken(ctx context.Context, token string) (int64, error)
	DeleteSessionsForUser(ctx context.Context, userID int64) (int64, error)
}

// LedgerStore is the append-only transaction log.
type LedgerStore interface {
	AppendTransaction(ctx context.Context, tx *domain.Transaction) error
	ListTransactions(ctx context.Context, userID int64) ([]domain.Transaction, error)
}
