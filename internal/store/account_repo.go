package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/quizgate/internal/domain"
	"github.com/abhisek/quizgate/internal/identity"
)

// AccountRepo persists local logins.
type AccountRepo struct {
	db *sql.DB
}

var _ identity.AccountStore = (*AccountRepo)(nil)

var accountColumns = []string{
	"id", "email", "password_hash", "full_name", "username",
	"failed_attempts", "locked_until", "created_at",
}

// CreateAccount inserts a. A second account with the same email yields
// identity.ErrEmailTaken.
func (r *AccountRepo) CreateAccount(ctx context.Context, a *identity.Account) error {
	query, args := entsql.Dialect(dialect.SQLite).
		Insert(accountsTable).
		Columns(accountColumns...).
		Values(a.ID, a.Email, a.PasswordHash, a.FullName, a.Username,
			a.FailedAttempts, toMillis(a.LockedUntil), toMillis(a.CreatedAt)).
		OnConflict(entsql.ConflictColumns("email"), entsql.DoNothing()).
		Query()

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("create account: %w: %w", domain.ErrPersistenceUnavailable, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("create account: %w: %w", domain.ErrPersistenceUnavailable, err)
	}
	if n == 0 {
		return identity.ErrEmailTaken
	}
	return nil
}

// AccountByEmail returns the account registered under email.
func (r *AccountRepo) AccountByEmail(ctx context.Context, email string) (*identity.Account, error) {
	query, args := entsql.Dialect(dialect.SQLite).
		Select(accountColumns...).
		From(entsql.Table(accountsTable)).
		Where(entsql.EQ("email", email)).
		Query()

	var (
		a                      identity.Account
		lockedUntil, createdAt int64
	)
	err := r.db.QueryRowContext(ctx, query, args...).Scan(
		&a.ID, &a.Email, &a.PasswordHash, &a.FullName, &a.Username,
		&a.FailedAttempts, &lockedUntil, &createdAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, identity.ErrAccountNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read account: %w: %w", domain.ErrPersistenceUnavailable, err)
	}
	a.LockedUntil = fromMillis(lockedUntil)
	a.CreatedAt = fromMillis(createdAt)
	return &a, nil
}

// UpdateAccount saves the mutable fields of a.
func (r *AccountRepo) UpdateAccount(ctx context.Context, a *identity.Account) error {
	query, args := entsql.Dialect(dialect.SQLite).
		Update(accountsTable).
		Set("password_hash", a.PasswordHash).
		Set("full_name", a.FullName).
		Set("username", a.Username).
		Set("failed_attempts", a.FailedAttempts).
		Set("locked_until", toMillis(a.LockedUntil)).
		Where(entsql.EQ("id", a.ID)).
		Query()

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update account: %w: %w", domain.ErrPersistenceUnavailable, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return identity.ErrAccountNotFound
	}
	return nil
}

func toMillis(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixMilli()
}

func fromMillis(ms int64) time.Time {
	if ms == 0 {
		return time.Time{}
	}
	return time.UnixMilli(ms).UTC()
}
