package attempts

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/abhisek/quizgate/internal/answerkey"
	"github.com/abhisek/quizgate/internal/catalog"
	"github.com/abhisek/quizgate/internal/domain"
	"github.com/abhisek/quizgate/internal/profile"
)

var now = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func newTracker(t *testing.T) (*Tracker, *profile.MemoryStore) {
	t.Helper()
	store := profile.NewMemoryStore()
	tr := New(profile.NewUpdater(store), answerkey.FromCatalog(catalog.Default()), DefaultMaxAttempts,
		WithClock(func() time.Time { return now }))
	return tr, store
}

func TestRecordAttempt_Increments(t *testing.T) {
	tr, _ := newTracker(t)
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		st, err := tr.RecordAttempt(ctx, "u1", "quiz2", false)
		if err != nil {
			t.Fatalf("attempt %d: %v", i, err)
		}
		if st.Count != i {
			t.Errorf("attempt %d: count = %d", i, st.Count)
		}
		if st.Remaining != DefaultMaxAttempts-i {
			t.Errorf("attempt %d: remaining = %d", i, st.Remaining)
		}
		if !st.LastAttemptAt.Equal(now) {
			t.Errorf("attempt %d: stamp = %v", i, st.LastAttemptAt)
		}
	}
}

func TestRecordAttempt_LocksAtMax(t *testing.T) {
	tr, _ := newTracker(t)
	ctx := context.Background()

	var st State
	for i := 0; i < 5; i++ {
		var err error
		st, err = tr.RecordAttempt(ctx, "u1", "quiz2", false)
		if err != nil {
			t.Fatal(err)
		}
		if i < 4 && st.Locked {
			t.Fatalf("locked after %d attempts", i+1)
		}
	}
	if !st.Locked || st.Count != 5 || st.Remaining != 0 || !st.Recorded {
		t.Fatalf("after 5 failures: %+v", st)
	}

	// A sixth failure does not increment.
	st, err := tr.RecordAttempt(ctx, "u1", "quiz2", false)
	if err != nil {
		t.Fatal(err)
	}
	if st.Count != 5 || !st.Locked {
		t.Errorf("sixth attempt changed state: %+v", st)
	}
	if st.Recorded {
		t.Error("sixth attempt reported as recorded")
	}

	// A passing submission against the locked quiz is not stored either.
	st, err = tr.RecordAttempt(ctx, "u1", "quiz2", true)
	if err != nil {
		t.Fatal(err)
	}
	if st.Recorded || st.Passed || !st.Locked {
		t.Errorf("pass on locked quiz: %+v", st)
	}

	locked, err := tr.IsLocked(ctx, "u1", "quiz2")
	if err != nil || !locked {
		t.Errorf("IsLocked = %v, %v", locked, err)
	}
}

func TestIsLocked_PassedNeverLocks(t *testing.T) {
	tr, _ := newTracker(t)
	ctx := context.Background()
	for i := 0; i < 4; i++ {
		tr.RecordAttempt(ctx, "u1", "quiz3", false)
	}
	tr.RecordAttempt(ctx, "u1", "quiz3", true)

	locked, err := tr.IsLocked(ctx, "u1", "quiz3")
	if err != nil {
		t.Fatal(err)
	}
	if locked {
		t.Error("passed quiz reported locked")
	}
}

func TestIsLocked_NoRecord(t *testing.T) {
	tr, _ := newTracker(t)
	locked, err := tr.IsLocked(context.Background(), "u1", "quiz1")
	if err != nil || locked {
		t.Errorf("IsLocked(no record) = %v, %v", locked, err)
	}
	remaining, _ := tr.Remaining(context.Background(), "u1", "quiz1")
	if remaining != DefaultMaxAttempts {
		t.Errorf("Remaining = %d, want %d", remaining, DefaultMaxAttempts)
	}
}

func TestReset_UnlocksAndIsIdempotent(t *testing.T) {
	tr, store := newTracker(t)
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		tr.RecordAttempt(ctx, "u1", "quiz2", false)
	}

	if err := tr.Reset(ctx, "u1", "quiz2"); err != nil {
		t.Fatal(err)
	}
	if err := tr.Reset(ctx, "u1", "quiz2"); err != nil {
		t.Fatalf("second reset: %v", err)
	}

	p, _ := store.Read(ctx, "u1")
	if _, ok := p.QuizAttempts["quiz2"]; ok {
		t.Error("attempt record still present after reset")
	}
	locked, _ := tr.IsLocked(ctx, "u1", "quiz2")
	if locked {
		t.Error("quiz still locked after reset")
	}
}

func TestUnknownQuiz(t *testing.T) {
	tr, store := newTracker(t)
	ctx := context.Background()
	if _, err := tr.RecordAttempt(ctx, "u1", "quiz42", false); !errors.Is(err, domain.ErrUnknownQuiz) {
		t.Errorf("RecordAttempt: got %v, want ErrUnknownQuiz", err)
	}
	if _, err := store.Read(ctx, "u1"); !errors.Is(err, profile.ErrNotFound) {
		t.Errorf("unknown quiz reached storage: %v", err)
	}
}

func TestRecordAttempt_StoreFailure(t *testing.T) {
	tr, store := newTracker(t)
	store.FailWith(domain.ErrPersistenceUnavailable)
	_, err := tr.RecordAttempt(context.Background(), "u1", "quiz1", false)
	if !errors.Is(err, domain.ErrPersistenceUnavailable) {
		t.Errorf("got %v, want ErrPersistenceUnavailable", err)
	}
}

func TestCustomMaxAttempts(t *testing.T) {
	store := profile.NewMemoryStore()
	tr := New(profile.NewUpdater(store), nil, 2)
	ctx := context.Background()
	tr.RecordAttempt(ctx, "u1", "anything", false)
	st, _ := tr.RecordAttempt(ctx, "u1", "anything", false)
	if !st.Locked {
		t.Errorf("expected lock after 2 attempts, got %+v", st)
	}
}
