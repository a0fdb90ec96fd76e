package quiz

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/quizgate/internal/catalog"
	"github.com/abhisek/quizgate/internal/journal"
	"github.com/abhisek/quizgate/internal/profile"
	"github.com/abhisek/quizgate/internal/session"
)

func TestAssembleDefaults(t *testing.T) {
	sink := &journal.MemorySink{}
	svc, err := Assemble(Settings{
		Catalog: catalog.Default(),
		Store:   profile.NewMemoryStore(),
		Sink:    sink,
	})
	require.NoError(t, err)

	assert.Equal(t, 5, svc.MaxAttempts())
	assert.Equal(t, 12, svc.Graph().Len())
	assert.NotNil(t, svc.Profiles())

	m, err := svc.CourseMap(context.Background(), &session.Session{UserID: "u1"})
	require.NoError(t, err)
	assert.Equal(t, 12, m.Total)

	_, err = svc.Submit(context.Background(), &session.Session{UserID: "u1"}, "quiz1", map[string]string{"q1": "b"})
	require.NoError(t, err)
	assert.Equal(t, []journal.Kind{journal.KindAttempt}, sink.Kinds())
}

func TestAssembleOverrides(t *testing.T) {
	svc, err := Assemble(Settings{
		Catalog:      catalog.Default(),
		Store:        profile.NewMemoryStore(),
		MaxAttempts:  3,
		TotalCourses: 2,
	})
	require.NoError(t, err)
	assert.Equal(t, 3, svc.MaxAttempts())

	m, err := svc.CourseMap(context.Background(), &session.Session{UserID: "u1"})
	require.NoError(t, err)
	assert.Equal(t, 2, m.Total)
}

func TestAssembleRejectsBrokenChain(t *testing.T) {
	cat := catalog.Default()
	cat.Courses = cat.Courses[1:]

	_, err := Assemble(Settings{Catalog: cat, Store: profile.NewMemoryStore()})
	assert.Error(t, err)
}

func TestAssembleRejectsTotalBeyondCatalog(t *testing.T) {
	_, err := Assemble(Settings{
		Catalog:      catalog.Default(),
		Store:        profile.NewMemoryStore(),
		TotalCourses: 13,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "total_courses 13")
}
