package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/quizgate/internal/domain"
	"github.com/abhisek/quizgate/internal/profile"
)

// ProfileRepo stores one JSON progress document per learner. Writes are
// compare-and-swap on the version column.
type ProfileRepo struct {
	db *sql.DB
}

var _ profile.Store = (*ProfileRepo)(nil)

// Read implements profile.Store.
func (r *ProfileRepo) Read(ctx context.Context, userID string) (*profile.Profile, error) {
	query, args := entsql.Dialect(dialect.SQLite).
		Select("data", "version").
		From(entsql.Table(profilesTable)).
		Where(entsql.EQ("user_id", userID)).
		Query()

	var (
		data    string
		version int64
	)
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&data, &version)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, profile.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read profile: %w: %w", domain.ErrPersistenceUnavailable, err)
	}

	var p profile.Profile
	if err := json.Unmarshal([]byte(data), &p); err != nil {
		return nil, fmt.Errorf("decode profile %s: %w: %w", userID, domain.ErrPersistenceUnavailable, err)
	}
	p.UserID = userID
	p.Version = version
	return &p, nil
}

// Write implements profile.Store.
func (r *ProfileRepo) Write(ctx context.Context, p *profile.Profile) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode profile: %w", err)
	}
	now := time.Now().UnixMilli()

	var query string
	var args []any
	if p.Version == 0 {
		query, args = entsql.Dialect(dialect.SQLite).
			Insert(profilesTable).
			Columns("user_id", "data", "version", "created_at", "updated_at").
			Values(p.UserID, string(data), 1, now, now).
			OnConflict(entsql.ConflictColumns("user_id"), entsql.DoNothing()).
			Query()
	} else {
		query, args = entsql.Dialect(dialect.SQLite).
			Update(profilesTable).
			Set("data", string(data)).
			Set("version", p.Version+1).
			Set("updated_at", now).
			Where(entsql.And(
				entsql.EQ("user_id", p.UserID),
				entsql.EQ("version", p.Version),
			)).
			Query()
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("write profile: %w: %w", domain.ErrPersistenceUnavailable, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("write profile: %w: %w", domain.ErrPersistenceUnavailable, err)
	}
	if n == 0 {
		return profile.ErrConflict
	}
	p.Version++
	return nil
}

// Delete removes a learner's progress document. Missing documents are not
// an error.
func (r *ProfileRepo) Delete(ctx context.Context, userID string) error {
	query, args := entsql.Dialect(dialect.SQLite).
		Delete(profilesTable).
		Where(entsql.EQ("user_id", userID)).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("delete profile: %w: %w", domain.ErrPersistenceUnavailable, err)
	}
	return nil
}
