package repository

import (
	"context"
	"errors"

	"mywallet/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type SessionRepository struct {
	db *pgxpool.Pool
}

func NewSessionRepository(db *pgxpool.Pool) *SessionRepository {
	return &SessionRepository{db: db}
}

func (r *SessionRepository) CreateSession(ctx context.Context, token string, userID int64) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO sessions ("userId", token) VALUES ($1, $2)`,
		userID, token,
	)
	return err
}

func (r *SessionRepository) FindSessionByToken(ctx context.Context, token string) (int64, error) {
	var userID int64
	err := r.db.QueryRow(ctx,
		`SELECT "userId" FROM sessions WHERE token = $1`,
		token,
	).Scan(&userID)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, domain.ErrNotFound
	}
	return userID, err
}

// DeleteSessionsForUser removes every session of the user, not only the
// one used for the request.
func (r *SessionRepository) DeleteSessionsForUser(ctx context.Context, userID int64) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM sessions WHERE "userId" = $1`, userID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
