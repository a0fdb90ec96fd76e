package profile

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var epoch = time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

func TestApply_ScoreFirstPassWins(t *testing.T) {
	p := New("u1")
	p.Apply(Patch{QuizScores: map[string]int{"quiz1": 53}}, epoch)
	p.Apply(Patch{QuizScores: map[string]int{"quiz1": 100}}, epoch)
	assert.Equal(t, 53, p.QuizScores["quiz1"])
}

func TestApply_SetsAreUnioned(t *testing.T) {
	p := New("u1")
	p.Apply(Patch{AddCourses: []string{"course1"}, AddQuizzes: []string{"quiz1"}}, epoch)
	p.Apply(Patch{AddCourses: []string{"course1", "course2"}, AddQuizzes: []string{"quiz1"}}, epoch)
	assert.Equal(t, []string{"course1", "course2"}, p.CoursesCompleted)
	assert.Equal(t, []string{"quiz1"}, p.CompletedQuizzes)
}

func TestApply_AttemptDeletion(t *testing.T) {
	p := New("u1")
	p.Apply(Patch{QuizAttempts: map[string]*Attempt{"quiz2": {Count: 3}}}, epoch)
	require.Equal(t, 3, p.QuizAttempts["quiz2"].Count)

	p.Apply(Patch{QuizAttempts: map[string]*Attempt{"quiz2": nil}}, epoch)
	_, ok := p.QuizAttempts["quiz2"]
	assert.False(t, ok, "attempt record should be deleted")
}

func TestApply_CertificateImmutable(t *testing.T) {
	p := New("u1")
	p.Apply(Patch{Certificate: &Certificate{CertificateID: "CERT-1"}}, epoch)
	p.Apply(Patch{Certificate: &Certificate{CertificateID: "CERT-2"}}, epoch.Add(time.Hour))

	require.NotNil(t, p.Certificate)
	assert.Equal(t, "CERT-1", p.Certificate.CertificateID)
	assert.True(t, p.CertificateGenerated)
	assert.Equal(t, epoch, p.CertificateGeneratedAt)
}

func TestApply_CertificateFillsMissingRecord(t *testing.T) {
	p := New("u1")
	p.CertificateGenerated = true
	p.CertificateGeneratedAt = epoch

	p.Apply(Patch{Certificate: &Certificate{CertificateID: "CERT-1"}}, epoch.Add(time.Hour))

	require.NotNil(t, p.Certificate)
	assert.Equal(t, "CERT-1", p.Certificate.CertificateID)
	assert.Equal(t, epoch, p.CertificateGeneratedAt)
}

func TestApply_ClearProgressKeepsIdentity(t *testing.T) {
	p := New("u1")
	p.Apply(Patch{
		FullName:     String("Ada"),
		QuizScores:   map[string]int{"quiz1": 90},
		QuizAttempts: map[string]*Attempt{"quiz2": {Count: 1}},
		AddCourses:   []string{"course1"},
		AddQuizzes:   []string{"quiz1"},
		Certificate:  &Certificate{CertificateID: "CERT-1"},
	}, epoch)

	p.Apply(Patch{ClearProgress: true}, epoch)

	assert.Equal(t, "Ada", p.FullName)
	assert.Empty(t, p.QuizScores)
	assert.Empty(t, p.QuizAttempts)
	assert.Empty(t, p.CoursesCompleted)
	assert.Empty(t, p.CompletedQuizzes)
	assert.NotNil(t, p.Certificate)
}

func TestApply_Timestamps(t *testing.T) {
	p := New("u1")
	p.Apply(Patch{Email: String("a@b.c")}, epoch)
	later := epoch.Add(time.Minute)
	p.Apply(Patch{Username: String("ada")}, later)
	assert.Equal(t, epoch, p.CreatedAt)
	assert.Equal(t, later, p.LastUpdated)
}

func TestClone_Independent(t *testing.T) {
	p := New("u1")
	p.Apply(Patch{QuizScores: map[string]int{"quiz1": 70}, AddCourses: []string{"course1"}}, epoch)
	c := p.Clone()
	c.QuizScores["quiz1"] = 1
	c.CoursesCompleted[0] = "x"
	assert.Equal(t, 70, p.QuizScores["quiz1"])
	assert.Equal(t, "course1", p.CoursesCompleted[0])
}

func TestPatch_IsZero(t *testing.T) {
	assert.True(t, Patch{}.IsZero())
	assert.False(t, Patch{ClearProgress: true}.IsZero())
	assert.False(t, Patch{AddCourses: []string{"c"}}.IsZero())
}

func TestUpdater_CreatesProfile(t *testing.T) {
	store := NewMemoryStore()
	u := NewUpdater(store, WithClock(func() time.Time { return epoch }))
	ctx := context.Background()

	p, err := u.Update(ctx, "u1", func(p *Profile) (Patch, error) {
		return Patch{AddCourses: []string{"course1"}}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), p.Version)

	got, err := store.Read(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, []string{"course1"}, got.CoursesCompleted)
	assert.Equal(t, epoch, got.LastUpdated)
}

func TestUpdater_ZeroPatchSkipsWrite(t *testing.T) {
	store := NewMemoryStore()
	u := NewUpdater(store)
	_, err := u.Update(context.Background(), "u1", func(p *Profile) (Patch, error) {
		return Patch{}, nil
	})
	require.NoError(t, err)
	_, err = store.Read(context.Background(), "u1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdater_MutatorErrorAborts(t *testing.T) {
	boom := errors.New("boom")
	u := NewUpdater(NewMemoryStore())
	_, err := u.Update(context.Background(), "u1", func(p *Profile) (Patch, error) {
		return Patch{}, boom
	})
	assert.ErrorIs(t, err, boom)
}

func TestUpdater_StoreFailure(t *testing.T) {
	store := NewMemoryStore()
	unavailable := errors.New("disk gone")
	store.FailWith(unavailable)
	u := NewUpdater(store)
	_, err := u.Update(context.Background(), "u1", func(p *Profile) (Patch, error) {
		return Patch{AddCourses: []string{"course1"}}, nil
	})
	assert.ErrorIs(t, err, unavailable)
}

// conflictOnce rejects the first write to simulate a concurrent writer.
type conflictOnce struct {
	*MemoryStore
	once sync.Once
}

func (c *conflictOnce) Write(ctx context.Context, p *Profile) error {
	var conflict bool
	c.once.Do(func() { conflict = true })
	if conflict {
		return ErrConflict
	}
	return c.MemoryStore.Write(ctx, p)
}

func TestUpdater_RetriesConflict(t *testing.T) {
	store := &conflictOnce{MemoryStore: NewMemoryStore()}
	u := NewUpdater(store)
	calls := 0
	_, err := u.Update(context.Background(), "u1", func(p *Profile) (Patch, error) {
		calls++
		return Patch{AddCourses: []string{"course1"}}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 2, calls, "mutator should rerun after a conflict")
}

func TestUpdater_ConcurrentWritersBothLand(t *testing.T) {
	store := NewMemoryStore()
	u := NewUpdater(store)
	ctx := context.Background()

	var wg sync.WaitGroup
	for _, id := range []string{"course1", "course2"} {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			_, err := u.Update(ctx, "u1", func(p *Profile) (Patch, error) {
				return Patch{AddCourses: []string{id}}, nil
			})
			assert.NoError(t, err)
		}(id)
	}
	wg.Wait()

	p, err := store.Read(ctx, "u1")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"course1", "course2"}, p.CoursesCompleted)
}

func TestMemoryStore_StaleWrite(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	p := New("u1")
	require.NoError(t, store.Write(ctx, p))

	stale := New("u1")
	assert.ErrorIs(t, store.Write(ctx, stale), ErrConflict)
}
