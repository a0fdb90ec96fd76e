// Package journal records progression events. Recording is best-effort:
// a failed append is logged and never fails the learner's action.
package journal

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Kind identifies an event type.
type Kind string

const (
	KindAttempt           Kind = "attempt"
	KindCourseCompleted   Kind = "course-completed"
	KindCertificateIssued Kind = "certificate-issued"
	KindCourseRedo        Kind = "course-redo"
	KindProgressReset     Kind = "progress-reset"
)

// Event is one journal entry. Sequence and Timestamp are assigned by the sink.
type Event struct {
	Sequence  int64
	Timestamp time.Time
	UserID    string
	Kind      Kind
	QuizID    string
	CourseID  string
	Score     int
	Passed    bool
	Detail    string
}

// Sink persists events.
type Sink interface {
	Append(ctx context.Context, ev Event) error
}

// Journal wraps a Sink with failure logging. A nil Journal or nil Sink drops
// events silently.
type Journal struct {
	sink Sink
	log  *zap.Logger
}

// New returns a Journal over sink.
func New(sink Sink, log *zap.Logger) *Journal {
	if log == nil {
		log = zap.NewNop()
	}
	return &Journal{sink: sink, log: log}
}

// Record appends ev, logging any failure.
func (j *Journal) Record(ctx context.Context, ev Event) {
	if j == nil || j.sink == nil {
		return
	}
	if err := j.sink.Append(ctx, ev); err != nil {
		j.log.Warn("journal append failed",
			zap.String("user_id", ev.UserID),
			zap.String("kind", string(ev.Kind)),
			zap.Error(err))
	}
}

// MemorySink keeps events in process, for tests.
type MemorySink struct {
	Events []Event
	Err    error
}

func (m *MemorySink) Append(_ context.Context, ev Event) error {
	if m.Err != nil {
		return m.Err
	}
	ev.Sequence = int64(len(m.Events) + 1)
	m.Events = append(m.Events, ev)
	return nil
}

// Kinds returns the recorded kinds in order.
func (m *MemorySink) Kinds() []Kind {
	out := make([]Kind, len(m.Events))
	for i, ev := range m.Events {
		out[i] = ev.Kind
	}
	return out
}
