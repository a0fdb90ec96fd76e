package store

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/quizgate/internal/domain"
	"github.com/abhisek/quizgate/internal/journal"
)

// sequenceCounter hands out the global monotonic sequence stamped on every
// journal event, so a learner's history replays in the order it happened
// even when two events share a millisecond timestamp.
//
// The mutex serializes within the process; the RETURNING clause makes the
// increment atomic at the database level.
type sequenceCounter struct {
	mu sync.Mutex
	db *sql.DB
}

// newSequenceCounter creates a counter and ensures the tracking table exists.
func newSequenceCounter(db *sql.DB) (*sequenceCounter, error) {
	_, err := db.Exec(`CREATE TABLE IF NOT EXISTS global_sequence (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		next_val INTEGER NOT NULL DEFAULT 1
	)`)
	if err != nil {
		return nil, fmt.Errorf("create sequence table: %w", err)
	}

	_, err = db.Exec(`INSERT OR IGNORE INTO global_sequence (id, next_val) VALUES (1, 1)`)
	if err != nil {
		return nil, fmt.Errorf("seed sequence: %w", err)
	}

	return &sequenceCounter{db: db}, nil
}

// Next atomically returns the next sequence number and increments the counter.
func (sc *sequenceCounter) Next(ctx context.Context) (int64, error) {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	var seq int64
	err := sc.db.QueryRowContext(ctx,
		`UPDATE global_sequence SET next_val = next_val + 1 WHERE id = 1 RETURNING next_val - 1`,
	).Scan(&seq)
	if err != nil {
		return 0, fmt.Errorf("next sequence: %w", err)
	}
	return seq, nil
}

// EventRepo is the SQLite-backed journal sink.
type EventRepo struct {
	db  *sql.DB
	seq *sequenceCounter
}

var _ journal.Sink = (*EventRepo)(nil)

var eventColumns = []string{
	"sequence", "timestamp", "user_id", "kind",
	"quiz_id", "course_id", "score", "passed", "detail",
}

// Append implements journal.Sink. Sequence is always assigned here;
// Timestamp defaults to now.
func (r *EventRepo) Append(ctx context.Context, ev journal.Event) error {
	seq, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("append event: %w: %w", domain.ErrPersistenceUnavailable, err)
	}
	ts := ev.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}

	query, args := entsql.Dialect(dialect.SQLite).
		Insert(eventsTable).
		Columns(eventColumns...).
		Values(seq, ts.UnixMilli(), ev.UserID, string(ev.Kind),
			ev.QuizID, ev.CourseID, ev.Score, ev.Passed, ev.Detail).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("append event: %w: %w", domain.ErrPersistenceUnavailable, err)
	}
	return nil
}

// List returns userID's events in sequence order.
func (r *EventRepo) List(ctx context.Context, userID string, opts QueryOpts) ([]journal.Event, error) {
	preds := []*entsql.Predicate{entsql.EQ("user_id", userID)}
	if opts.After > 0 {
		preds = append(preds, entsql.GT("sequence", opts.After))
	}
	if opts.Before > 0 {
		preds = append(preds, entsql.LT("sequence", opts.Before))
	}
	if !opts.From.IsZero() {
		preds = append(preds, entsql.GTE("timestamp", opts.From.UnixMilli()))
	}
	if !opts.To.IsZero() {
		preds = append(preds, entsql.LTE("timestamp", opts.To.UnixMilli()))
	}
	if opts.Kind != "" {
		preds = append(preds, entsql.EQ("kind", string(opts.Kind)))
	}

	sel := entsql.Dialect(dialect.SQLite).
		Select(eventColumns...).
		From(entsql.Table(eventsTable)).
		Where(entsql.And(preds...))
	if opts.Newest {
		sel.OrderBy(entsql.Desc("sequence"))
	} else {
		sel.OrderBy(entsql.Asc("sequence"))
	}
	if opts.Limit > 0 {
		sel.Limit(opts.Limit)
	}
	query, args := sel.Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list events: %w: %w", domain.ErrPersistenceUnavailable, err)
	}
	defer rows.Close()

	var out []journal.Event
	for rows.Next() {
		var (
			ev   journal.Event
			ts   int64
			kind string
		)
		if err := rows.Scan(&ev.Sequence, &ts, &ev.UserID, &kind,
			&ev.QuizID, &ev.CourseID, &ev.Score, &ev.Passed, &ev.Detail); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		ev.Timestamp = time.UnixMilli(ts)
		ev.Kind = journal.Kind(kind)
		out = append(out, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list events: %w: %w", domain.ErrPersistenceUnavailable, err)
	}
	return out, nil
}
