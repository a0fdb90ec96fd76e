// Package attempts counts quiz attempts per learner and enforces the
// attempt lockout.
package attempts

import (
	"context"
	"fmt"
	"time"

	"github.com/abhisek/quizgate/internal/domain"
	"github.com/abhisek/quizgate/internal/profile"
)

// DefaultMaxAttempts is the number of failed attempts that locks a quiz.
const DefaultMaxAttempts = 5

// QuizRegistry reports whether a quiz id exists.
type QuizRegistry interface {
	Has(quizID string) bool
}

// State is the attempt state of one quiz for one learner.
type State struct {
	QuizID        string
	Count         int
	Passed        bool
	LastAttemptAt time.Time
	Locked        bool
	Remaining     int

	// Recorded is set by RecordAttempt when the attempt was stored. A quiz
	// already locked at write time leaves it false.
	Recorded bool
}

// Tracker records attempts in the learner profile.
type Tracker struct {
	profiles *profile.Updater
	quizzes  QuizRegistry
	max      int
	now      func() time.Time
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithClock overrides the time source used for attempt stamps.
func WithClock(now func() time.Time) Option {
	return func(t *Tracker) { t.now = now }
}

// New returns a Tracker. maxAttempts below 1 falls back to the default.
func New(profiles *profile.Updater, quizzes QuizRegistry, maxAttempts int, opts ...Option) *Tracker {
	if maxAttempts < 1 {
		maxAttempts = DefaultMaxAttempts
	}
	t := &Tracker{profiles: profiles, quizzes: quizzes, max: maxAttempts, now: time.Now}
	for _, o := range opts {
		o(t)
	}
	return t
}

// MaxAttempts returns the lockout threshold.
func (t *Tracker) MaxAttempts() int { return t.max }

// RecordAttempt increments the attempt count for quizID and stores the
// outcome. Recording against a locked quiz changes nothing and returns the
// locked state.
func (t *Tracker) RecordAttempt(ctx context.Context, userID, quizID string, passed bool) (State, error) {
	if err := t.check(quizID); err != nil {
		return State{}, err
	}

	var st State
	_, err := t.profiles.Update(ctx, userID, func(p *profile.Profile) (profile.Patch, error) {
		cur := p.QuizAttempts[quizID]
		if t.locked(cur) {
			st = t.state(quizID, cur)
			return profile.Patch{}, nil
		}
		next := profile.Attempt{
			Count:         cur.Count + 1,
			Passed:        passed,
			LastAttemptAt: t.now(),
		}
		st = t.state(quizID, next)
		st.Recorded = true
		return profile.Patch{QuizAttempts: map[string]*profile.Attempt{quizID: &next}}, nil
	})
	if err != nil {
		return State{}, fmt.Errorf("record attempt %s: %w", quizID, err)
	}
	return st, nil
}

// Get returns the current attempt state. A quiz never attempted has a zero
// count and is not locked.
func (t *Tracker) Get(ctx context.Context, userID, quizID string) (State, error) {
	if err := t.check(quizID); err != nil {
		return State{}, err
	}
	p, err := t.profiles.Load(ctx, userID)
	if err != nil {
		return State{}, fmt.Errorf("load attempts %s: %w", quizID, err)
	}
	return t.state(quizID, p.QuizAttempts[quizID]), nil
}

// IsLocked reports whether quizID is locked: attempted at least MaxAttempts
// times without a pass.
func (t *Tracker) IsLocked(ctx context.Context, userID, quizID string) (bool, error) {
	st, err := t.Get(ctx, userID, quizID)
	if err != nil {
		return false, err
	}
	return st.Locked, nil
}

// Remaining returns how many attempts are left before the quiz locks.
func (t *Tracker) Remaining(ctx context.Context, userID, quizID string) (int, error) {
	st, err := t.Get(ctx, userID, quizID)
	if err != nil {
		return 0, err
	}
	return st.Remaining, nil
}

// Reset deletes the attempt record for quizID. Resetting a quiz with no
// record is a no-op.
func (t *Tracker) Reset(ctx context.Context, userID, quizID string) error {
	if err := t.check(quizID); err != nil {
		return err
	}
	_, err := t.profiles.Update(ctx, userID, func(p *profile.Profile) (profile.Patch, error) {
		if _, ok := p.QuizAttempts[quizID]; !ok {
			return profile.Patch{}, nil
		}
		return ResetPatch(quizID), nil
	})
	if err != nil {
		return fmt.Errorf("reset attempts %s: %w", quizID, err)
	}
	return nil
}

// ResetPatch returns the patch that deletes the attempt record of quizID.
func ResetPatch(quizID string) profile.Patch {
	return profile.Patch{QuizAttempts: map[string]*profile.Attempt{quizID: nil}}
}

// StateFrom derives the attempt state of quizID from an already loaded
// profile.
func (t *Tracker) StateFrom(p *profile.Profile, quizID string) State {
	return t.state(quizID, p.QuizAttempts[quizID])
}

func (t *Tracker) check(quizID string) error {
	if t.quizzes != nil && !t.quizzes.Has(quizID) {
		return fmt.Errorf("quiz %q: %w", quizID, domain.ErrUnknownQuiz)
	}
	return nil
}

func (t *Tracker) locked(a profile.Attempt) bool {
	return !a.Passed && a.Count >= t.max
}

func (t *Tracker) state(quizID string, a profile.Attempt) State {
	st := State{
		QuizID:        quizID,
		Count:         a.Count,
		Passed:        a.Passed,
		LastAttemptAt: a.LastAttemptAt,
		Locked:        t.locked(a),
	}
	if !st.Locked {
		st.Remaining = max(t.max-a.Count, 0)
	}
	return st
}
