// Package screentest wires a screen.Env over an in-memory database for
// screen tests.
package screentest

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"golang.org/x/crypto/bcrypt"

	"github.com/abhisek/quizgate/internal/catalog"
	"github.com/abhisek/quizgate/internal/identity"
	"github.com/abhisek/quizgate/internal/quiz"
	"github.com/abhisek/quizgate/internal/screen"
	"github.com/abhisek/quizgate/internal/session"
	"github.com/abhisek/quizgate/internal/store"
)

var dbCounter atomic.Int64

// Env is a screen.Env plus the concrete pieces behind it.
type Env struct {
	*screen.Env
	Service *quiz.Service
	Store   *store.Store
}

// New returns an Env signed in as learner "u1".
func New(t testing.TB) *Env {
	t.Helper()
	st, err := store.Open(fmt.Sprintf("file:screentest_%d?mode=memory&cache=shared", dbCounter.Add(1)))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	cat := catalog.Default()
	svc, err := quiz.Assemble(quiz.Settings{
		Catalog: cat,
		Store:   st.ProfileRepo(),
		Sink:    st.EventRepo(),
	})
	if err != nil {
		t.Fatalf("assemble: %v", err)
	}

	return &Env{
		Env: &screen.Env{
			Backend: svc,
			Catalog: cat,
			Events:  st.EventRepo(),
			Auth: identity.NewLocalProvider(st.AccountRepo(), svc.Profiles(), identity.LocalOptions{
				BcryptCost: bcrypt.MinCost,
			}),
			Session: session.New("u1", "ada@example.com", "Ada Lovelace", "ada", time.Now()),
		},
		Service: svc,
		Store:   st,
	}
}

// Answers returns a submission for quizID with exactly n correct answers.
func (e *Env) Answers(t testing.TB, quizID string, n int) map[string]string {
	t.Helper()
	q, ok := e.Catalog.Quiz(quizID)
	if !ok {
		t.Fatalf("quiz %s missing", quizID)
	}
	out := make(map[string]string, len(q.Questions))
	for i, qq := range q.Questions {
		switch {
		case i < n:
			out[qq.ID] = qq.Answer
		case qq.Answer == "a":
			out[qq.ID] = "b"
		default:
			out[qq.ID] = "a"
		}
	}
	return out
}

// Submit submits n correct answers to quizID as the signed-in learner.
func (e *Env) Submit(t testing.TB, quizID string, n int) *quiz.Outcome {
	t.Helper()
	out, err := e.Service.Submit(context.Background(), e.Session, quizID, e.Answers(t, quizID, n))
	if err != nil {
		t.Fatalf("submit %s: %v", quizID, err)
	}
	return out
}

// Run executes cmd and returns its message, or nil for a nil command.
func Run(cmd tea.Cmd) tea.Msg {
	if cmd == nil {
		return nil
	}
	return cmd()
}
