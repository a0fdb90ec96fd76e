package screen

import (
	"context"

	"go.uber.org/zap"

	"github.com/abhisek/quizgate/internal/catalog"
	"github.com/abhisek/quizgate/internal/identity"
	"github.com/abhisek/quizgate/internal/journal"
	"github.com/abhisek/quizgate/internal/profile"
	"github.com/abhisek/quizgate/internal/quiz"
	"github.com/abhisek/quizgate/internal/session"
	"github.com/abhisek/quizgate/internal/store"
)

// Backend is the progression surface the screens drive. *quiz.Service
// implements it.
type Backend interface {
	CourseMap(ctx context.Context, sess *session.Session) (*quiz.CourseMap, error)
	Access(ctx context.Context, sess *session.Session, quizID string) (quiz.Access, error)
	Submit(ctx context.Context, sess *session.Session, quizID string, answers map[string]string) (*quiz.Outcome, error)
	RedoCourse(ctx context.Context, sess *session.Session, courseID string) error
	Certificate(ctx context.Context, sess *session.Session) (*profile.Certificate, error)
}

// EventLister reads a learner's journal.
type EventLister interface {
	List(ctx context.Context, userID string, opts store.QueryOpts) ([]journal.Event, error)
}

// Env is shared by every screen of one TUI run. Session is replaced in
// place when the learner signs in.
type Env struct {
	Backend Backend
	Catalog *catalog.Catalog
	Events  EventLister
	Auth    identity.Provider
	// SaveSession persists a fresh session; nil skips persistence.
	SaveSession func(*session.Session) error
	Session     *session.Session
	Log         *zap.Logger
}

// Learner returns the display name of the signed-in learner, or "".
func (e *Env) Learner() string {
	if e.Session == nil {
		return ""
	}
	return e.Session.DisplayName()
}
