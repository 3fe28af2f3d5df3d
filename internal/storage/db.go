package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"mywallet/internal/domain"

	"github.com/shopspring/decimal"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// Fixed-width UTC layout so that text ordering matches time ordering.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// DB is the sqlite implementation of the credential, session and ledger
// stores. It is used for local development and in tests.
type DB struct {
	conn *sql.DB
	now  func() time.Time
}

// NewDB opens a database connection and runs migrations.
func NewDB(path string) (*DB, error) {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	// A single connection serializes writers and keeps :memory: databases
	// alive for the lifetime of the pool.
	conn.SetMaxOpenConns(1)

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, err
	}

	db := &DB{conn: conn, now: time.Now}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, err
	}

	return db, nil
}

func (db *DB) migrate() error {
	migrations := []string{
		`PRAGMA foreign_keys = ON`,
		`CREATE TABLE IF NOT EXISTS users (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			email TEXT NOT NULL UNIQUE,
			password TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS sessions (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			"userId" INTEGER NOT NULL,
			token TEXT NOT NULL UNIQUE,
			FOREIGN KEY ("userId") REFERENCES users(id) ON DELETE CASCADE
		)`,
		`CREATE INDEX IF NOT EXISTS sessions_user_id_idx ON sessions ("userId")`,
		`CREATE TABLE IF NOT EXISTS transactions (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			"userId" INTEGER NOT NULL,
			date TEXT NOT NULL,
			value TEXT NOT NULL,
			description TEXT NOT NULL,
			type TEXT NOT NULL CHECK (type IN ('entrada', 'saída')),
			FOREIGN KEY ("userId") REFERENCES users(id)
		)`,
		`CREATE INDEX IF NOT EXISTS transactions_user_date_idx ON transactions ("userId", date, id)`,
	}

	for _, m := range migrations {
		if _, err := db.conn.Exec(m); err != nil {
			return err
		}
	}
	return nil
}

// Ping checks the connection.
func (db *DB) Ping(ctx context.Context) error {
	return db.conn.PingContext(ctx)
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// FindUserByEmail retrieves a user by exact email.
func (db *DB) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	row := db.conn.QueryRowContext(ctx,
		"SELECT id, name, email, password FROM users WHERE email = ?",
		email,
	)

	var u domain.User
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// CreateUser inserts u and sets its ID.
func (db *DB) CreateUser(ctx context.Context, u *domain.User) error {
	result, err := db.conn.ExecContext(ctx,
		"INSERT INTO users (name, email, password) VALUES (?, ?, ?)",
		u.Name, u.Email, u.PasswordHash,
	)
	if err != nil {
		if isConstraintError(err) {
			return domain.ErrDuplicateEmail
		}
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	u.ID = id
	return nil
}

// CreateSession stores token for userID.
func (db *DB) CreateSession(ctx context.Context, token string, userID int64) error {
	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO sessions ("userId", token) VALUES (?, ?)`,
		userID, token,
	)
	return err
}

// FindSessionByToken returns the owner of token.
func (db *DB) FindSessionByToken(ctx context.Context, token string) (int64, error) {
	var userID int64
	err := db.conn.QueryRowContext(ctx,
		`SELECT "userId" FROM sessions WHERE token = ?`,
		token,
	).Scan(&userID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, domain.ErrNotFound
	}
	return userID, err
}

// DeleteSessionsForUser removes all sessions of a user.
func (db *DB) DeleteSessionsForUser(ctx context.Context, userID int64) (int64, error) {
	result, err := db.conn.ExecContext(ctx, `DELETE FROM sessions WHERE "userId" = ?`, userID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

// AppendTransaction inserts tx dated now and fills in ID and Date.
func (db *DB) AppendTransaction(ctx context.Context, tx *domain.Transaction) error {
	date := db.now().UTC()
	result, err := db.conn.ExecContext(ctx,
		`INSERT INTO transactions ("userId", date, value, description, type)
		 SELECT ?, ?, ?, ?, ?
		 WHERE EXISTS (SELECT 1 FROM users WHERE id = ?)`,
		tx.UserID, date.Format(timeLayout), tx.Value.String(), tx.Description, string(tx.Type), tx.UserID,
	)
	if err != nil {
		return err
	}

	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrUnknownUser
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	tx.ID = id
	tx.Date = date
	return nil
}

// ListTransactions retrieves the user's transactions ordered by date ascending.
func (db *DB) ListTransactions(ctx context.Context, userID int64) ([]domain.Transaction, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, "userId", date, value, description, type
		 FROM transactions
		 WHERE "userId" = ?
		 ORDER BY date, id`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	transactions := []domain.Transaction{}
	for rows.Next() {
		var (
			t           domain.Transaction
			date, value string
			kind        string
		)
		if err := rows.Scan(&t.ID, &t.UserID, &date, &value, &t.Description, &kind); err != nil {
			return nil, err
		}
		if t.Date, err = time.Parse(timeLayout, date); err != nil {
			return nil, fmt.Errorf("transaction %d: bad date %q: %w", t.ID, date, err)
		}
		if t.Value, err = decimal.NewFromString(value); err != nil {
			return nil, fmt.Errorf("transaction %d: bad value %q: %w", t.ID, value, err)
		}
		t.Type = domain.TransactionType(kind)
		transactions = append(transactions, t)
	}

	return transactions, rows.Err()
}

func isConstraintError(err error) bool {
	var se *sqlite.Error
	return errors.As(err, &se) && se.Code()&0xff == sqlite3.SQLITE_CONSTRAINT
}
