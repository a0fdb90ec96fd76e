// Package quiz orchestrates a quiz submission across grading, attempt
// tracking, progress and certification, and builds the views the CLI and
// TUI render.
package quiz

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/abhisek/quizgate/internal/attempts"
	"github.com/abhisek/quizgate/internal/certificate"
	"github.com/abhisek/quizgate/internal/domain"
	"github.com/abhisek/quizgate/internal/grading"
	"github.com/abhisek/quizgate/internal/journal"
	"github.com/abhisek/quizgate/internal/ledger"
	"github.com/abhisek/quizgate/internal/profile"
	"github.com/abhisek/quizgate/internal/progression"
	"github.com/abhisek/quizgate/internal/session"
)

// WarnRemaining is the remaining-attempt count at which learners are warned.
const WarnRemaining = 2

// Status is the result class of a submission.
type Status string

const (
	StatusPassed Status = "passed"
	StatusFailed Status = "failed"
	StatusLocked Status = "locked"
)

// Outcome is everything the adapters show after a submission.
type Outcome struct {
	Status Status

	// Record is nil when the submission was rejected before grading.
	Record *grading.Record

	Attempt  attempts.State
	CourseID string

	// NextCourseID is the following course, empty after the last one.
	NextCourseID string
	NextUnlocked bool

	// Certificate is set once every course is complete.
	Certificate *profile.Certificate
}

// Options wires a Service.
type Options struct {
	Profiles *profile.Updater
	Graph    *progression.Graph
	Grader   *grading.Grader
	Tracker  *attempts.Tracker
	Ledger   *ledger.Ledger
	Issuer   *certificate.Issuer
	Journal  *journal.Journal
	Logger   *zap.Logger
}

// Service is the entry point for adapters.
type Service struct {
	profiles *profile.Updater
	graph    *progression.Graph
	grader   *grading.Grader
	tracker  *attempts.Tracker
	ledger   *ledger.Ledger
	issuer   *certificate.Issuer
	journal  *journal.Journal
	log      *zap.Logger
}

// NewService returns a Service from opts.
func NewService(opts Options) *Service {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		profiles: opts.Profiles,
		graph:    opts.Graph,
		grader:   opts.Grader,
		tracker:  opts.Tracker,
		ledger:   opts.Ledger,
		issuer:   opts.Issuer,
		journal:  opts.Journal,
		log:      log,
	}
}

// Graph returns the progression graph.
func (s *Service) Graph() *progression.Graph { return s.graph }

// Profiles returns the profile updater the service writes through.
func (s *Service) Profiles() *profile.Updater { return s.profiles }

// MaxAttempts returns the lockout threshold.
func (s *Service) MaxAttempts() int { return s.tracker.MaxAttempts() }

// Submit grades a submission and applies its consequences. A locked quiz
// is rejected before grading and reported with StatusLocked.
func (s *Service) Submit(ctx context.Context, sess *session.Session, quizID string, answers map[string]string) (*Outcome, error) {
	userID, err := sess.CurrentUserID()
	if err != nil {
		return nil, err
	}
	courseID, err := s.graph.CourseForQuiz(quizID)
	if err != nil {
		return nil, err
	}

	p, err := s.profiles.Load(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load progress: %w", err)
	}
	if ok, _ := s.graph.Accessible(courseID, p.CompletedSet()); !ok {
		return nil, fmt.Errorf("quiz %s: %w", quizID, domain.ErrQuizInaccessible)
	}

	current := s.tracker.StateFrom(p, quizID)
	if current.Locked {
		s.log.Info("submission rejected: quiz locked",
			zap.String("user_id", userID),
			zap.String("quiz_id", quizID),
			zap.Int("attempts", current.Count))
		return &Outcome{Status: StatusLocked, Attempt: current, CourseID: courseID}, nil
	}

	rec, err := s.grader.Grade(quizID, answers)
	if err != nil {
		return nil, err
	}

	st, err := s.tracker.RecordAttempt(ctx, userID, quizID, rec.Passed)
	if err != nil {
		return nil, err
	}
	if !st.Recorded {
		// Locked by a concurrent submission after the check above.
		s.log.Info("submission rejected: quiz locked before recording",
			zap.String("user_id", userID),
			zap.String("quiz_id", quizID),
			zap.Int("attempts", st.Count))
		return &Outcome{Status: StatusLocked, Attempt: st, CourseID: courseID}, nil
	}
	s.journal.Record(ctx, journal.Event{
		UserID:   userID,
		Kind:     journal.KindAttempt,
		QuizID:   quizID,
		CourseID: courseID,
		Score:    rec.Score,
		Passed:   rec.Passed,
	})
	s.log.Info("quiz attempt recorded",
		zap.String("user_id", userID),
		zap.String("quiz_id", quizID),
		zap.Int("score", rec.Score),
		zap.Bool("passed", rec.Passed),
		zap.Int("attempts", st.Count))

	out := &Outcome{Status: StatusFailed, Record: &rec, Attempt: st, CourseID: courseID}
	if !rec.Passed {
		if st.Locked {
			out.Status = StatusLocked
		}
		return out, nil
	}

	out.Status = StatusPassed
	if err := s.ledger.MarkQuizCompleted(ctx, userID, quizID, rec.Score); err != nil {
		return nil, err
	}
	out.Attempt = attempts.State{QuizID: quizID, Remaining: s.tracker.MaxAttempts()}

	out.NextCourseID, _ = s.graph.Next(courseID)
	if out.NextCourseID != "" {
		out.NextUnlocked, _ = s.ledger.IsCourseAccessible(ctx, userID, out.NextCourseID)
	}
	if cert, err := s.issuer.Get(ctx, userID); err == nil {
		out.Certificate = cert
	}
	return out, nil
}

// Access is the pre-quiz view: whether the quiz may be taken and how many
// attempts are left.
type Access struct {
	QuizID      string
	CourseID    string
	Accessible  bool
	Locked      bool
	Completed   bool
	Attempts    int
	Remaining   int
	MaxAttempts int
	// Warn is set when few attempts remain.
	Warn bool
}

// Access reports the state of quizID. Authentication and storage failures
// resolve to an inaccessible, locked quiz.
func (s *Service) Access(ctx context.Context, sess *session.Session, quizID string) (Access, error) {
	courseID, err := s.graph.CourseForQuiz(quizID)
	if err != nil {
		return Access{}, err
	}
	a := Access{QuizID: quizID, CourseID: courseID, Locked: true, MaxAttempts: s.tracker.MaxAttempts()}

	p, err := s.loadProfile(ctx, sess)
	if err != nil {
		if domain.IsRecoverable(err) {
			return a, nil
		}
		return Access{}, err
	}

	st := s.tracker.StateFrom(p, quizID)
	a.Accessible, _ = s.graph.Accessible(courseID, p.CompletedSet())
	a.Locked = st.Locked
	a.Completed = p.HasCompletedQuiz(quizID)
	a.Attempts = st.Count
	a.Remaining = st.Remaining
	a.Warn = !st.Locked && st.Count > 0 && st.Remaining <= WarnRemaining
	return a, nil
}

// CourseStatus is one row of the course map.
type CourseStatus struct {
	CourseID     string
	Title        string
	QuizID       string
	Accessible   bool
	Completed    bool
	Score        int
	HasScore     bool
	RedoRequired bool
	Attempts     int
	Remaining    int
}

// CourseMap is the learner's progress over the whole chain.
type CourseMap struct {
	Courses     []CourseStatus
	Completed   int
	Total       int
	Percentage  int
	Certificate *profile.Certificate
}

// CourseMap builds the course map. Authentication and storage failures
// yield a map with every course locked and no progress.
func (s *Service) CourseMap(ctx context.Context, sess *session.Session) (*CourseMap, error) {
	total := s.ledger.TotalCourses()
	p, err := s.loadProfile(ctx, sess)
	if err != nil {
		if !domain.IsRecoverable(err) {
			return nil, err
		}
		m := &CourseMap{Total: total}
		for _, n := range s.graph.Courses() {
			m.Courses = append(m.Courses, CourseStatus{CourseID: n.CourseID, Title: n.Title, QuizID: n.QuizID})
		}
		return m, nil
	}

	completed := p.CompletedSet()
	m := &CourseMap{
		Completed:  len(p.CoursesCompleted),
		Total:      total,
		Percentage: ledger.Percentage(len(p.CoursesCompleted), total),
	}
	if p.CertificateGenerated {
		m.Certificate = p.Certificate
	}
	for _, n := range s.graph.Courses() {
		st := s.tracker.StateFrom(p, n.QuizID)
		accessible, _ := s.graph.Accessible(n.CourseID, completed)
		score, hasScore := p.QuizScores[n.QuizID]
		m.Courses = append(m.Courses, CourseStatus{
			CourseID:     n.CourseID,
			Title:        n.Title,
			QuizID:       n.QuizID,
			Accessible:   accessible,
			Completed:    completed[n.CourseID],
			Score:        score,
			HasScore:     hasScore,
			RedoRequired: st.Locked,
			Attempts:     st.Count,
			Remaining:    st.Remaining,
		})
	}
	return m, nil
}

// RedoCourse clears the attempts of the course's quiz.
func (s *Service) RedoCourse(ctx context.Context, sess *session.Session, courseID string) error {
	userID, err := sess.CurrentUserID()
	if err != nil {
		return err
	}
	return s.ledger.RedoCourse(ctx, userID, courseID)
}

// ResetProgress clears the learner's progress.
func (s *Service) ResetProgress(ctx context.Context, sess *session.Session) error {
	userID, err := sess.CurrentUserID()
	if err != nil {
		return err
	}
	return s.ledger.ResetProgress(ctx, userID)
}

// Certificate returns the learner's certificate, issuing it first if the
// learner is eligible but none exists yet. Returns domain.ErrIneligible
// while courses remain.
func (s *Service) Certificate(ctx context.Context, sess *session.Session) (*profile.Certificate, error) {
	userID, err := sess.CurrentUserID()
	if err != nil {
		return nil, err
	}
	cert, err := s.issuer.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if cert != nil {
		return cert, nil
	}
	cert, err = s.issuer.Generate(ctx, userID)
	if err != nil {
		return nil, err
	}
	s.journal.Record(ctx, journal.Event{UserID: userID, Kind: journal.KindCertificateIssued, Detail: cert.CertificateID})
	return cert, nil
}

func (s *Service) loadProfile(ctx context.Context, sess *session.Session) (*profile.Profile, error) {
	userID, err := sess.CurrentUserID()
	if err != nil {
		s.log.Warn("progress check without session, reporting locked")
		return nil, err
	}
	p, err := s.profiles.Load(ctx, userID)
	if err != nil {
		if domain.IsRecoverable(err) {
			s.log.Warn("progress read failed, reporting locked",
				zap.String("user_id", userID),
				zap.Error(err))
		}
		return nil, err
	}
	return p, nil
}

// UserMessage maps an error from this package to the text shown to the
// learner.
func UserMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, domain.ErrNotAuthenticated):
		return "Please log in to continue."
	case errors.Is(err, domain.ErrQuizInaccessible):
		return "Complete the previous course to unlock this quiz."
	case errors.Is(err, domain.ErrIneligible):
		return "Complete all courses to earn your certificate."
	default:
		return "Something went wrong. Please try again."
	}
}
