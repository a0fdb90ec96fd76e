// Package ledger tracks completed quizzes and courses and answers unlock
// questions against the progression graph.
package ledger

import (
	"context"
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/abhisek/quizgate/internal/attempts"
	"github.com/abhisek/quizgate/internal/certificate"
	"github.com/abhisek/quizgate/internal/domain"
	"github.com/abhisek/quizgate/internal/journal"
	"github.com/abhisek/quizgate/internal/profile"
	"github.com/abhisek/quizgate/internal/progression"
)

// Ledger is the source of truth for learner progress.
type Ledger struct {
	profiles *profile.Updater
	graph    *progression.Graph
	tracker  *attempts.Tracker
	issuer   *certificate.Issuer
	journal  *journal.Journal
	log      *zap.Logger
}

// New wires a Ledger. journal may be nil.
func New(profiles *profile.Updater, graph *progression.Graph, tracker *attempts.Tracker,
	issuer *certificate.Issuer, j *journal.Journal, log *zap.Logger) *Ledger {
	if log == nil {
		log = zap.NewNop()
	}
	return &Ledger{
		profiles: profiles,
		graph:    graph,
		tracker:  tracker,
		issuer:   issuer,
		journal:  j,
		log:      log,
	}
}

// TotalCourses returns the number of courses needed for a certificate.
func (l *Ledger) TotalCourses() int { return l.issuer.TotalCourses() }

// MarkQuizCompleted records a passed quiz in one write: the quiz joins the
// completed set, its score is stored if it has none yet, the owning course
// is completed and the quiz's attempt record is cleared.
func (l *Ledger) MarkQuizCompleted(ctx context.Context, userID, quizID string, score int) error {
	courseID, err := l.graph.CourseForQuiz(quizID)
	if err != nil {
		return err
	}

	patch := attempts.ResetPatch(quizID)
	patch.AddQuizzes = []string{quizID}
	patch.QuizScores = map[string]int{quizID: score}
	if err := l.completeCourse(ctx, userID, courseID, patch); err != nil {
		return fmt.Errorf("mark quiz %s completed: %w", quizID, err)
	}
	return nil
}

// MarkCourseCompleted adds courseID to the completed set. Completing the
// last outstanding course issues the certificate.
func (l *Ledger) MarkCourseCompleted(ctx context.Context, userID, courseID string) error {
	if _, err := l.graph.Course(courseID); err != nil {
		return err
	}
	if err := l.completeCourse(ctx, userID, courseID, profile.Patch{}); err != nil {
		return fmt.Errorf("mark course %s completed: %w", courseID, err)
	}
	return nil
}

func (l *Ledger) completeCourse(ctx context.Context, userID, courseID string, patch profile.Patch) error {
	var added bool
	p, err := l.profiles.Update(ctx, userID, func(p *profile.Profile) (profile.Patch, error) {
		added = !p.HasCompletedCourse(courseID)
		patch.AddCourses = []string{courseID}
		return patch, nil
	})
	if err != nil {
		return err
	}

	if added {
		l.log.Info("course completed",
			zap.String("user_id", userID),
			zap.String("course_id", courseID),
			zap.Int("completed", len(p.CoursesCompleted)))
		l.journal.Record(ctx, journal.Event{UserID: userID, Kind: journal.KindCourseCompleted, CourseID: courseID})
	}

	if len(p.CoursesCompleted) >= l.TotalCourses() && !p.CertificateGenerated {
		l.issueCertificate(ctx, userID)
	}
	return nil
}

// issueCertificate runs the issuer after the final course. A failure here
// leaves the course completion in place; the certificate can be generated
// again on demand.
func (l *Ledger) issueCertificate(ctx context.Context, userID string) {
	cert, err := l.issuer.Generate(ctx, userID)
	if err != nil {
		l.log.Warn("certificate generation failed", zap.String("user_id", userID), zap.Error(err))
		return
	}
	l.journal.Record(ctx, journal.Event{UserID: userID, Kind: journal.KindCertificateIssued, Detail: cert.CertificateID})
}

// IsCourseAccessible reports whether courseID is unlocked for the learner.
// Storage failures resolve to locked.
func (l *Ledger) IsCourseAccessible(ctx context.Context, userID, courseID string) (bool, error) {
	required, err := l.graph.Required(courseID)
	if err != nil {
		return false, err
	}
	if required == "" {
		return true, nil
	}

	p, err := l.profiles.Load(ctx, userID)
	if err != nil {
		if domain.IsRecoverable(err) {
			l.log.Warn("accessibility check failed, reporting locked",
				zap.String("user_id", userID),
				zap.String("course_id", courseID),
				zap.Error(err))
			return false, nil
		}
		return false, err
	}
	return l.graph.Accessible(courseID, p.CompletedSet())
}

// IsQuizAccessible reports whether the course owning quizID is unlocked.
func (l *Ledger) IsQuizAccessible(ctx context.Context, userID, quizID string) (bool, error) {
	courseID, err := l.graph.CourseForQuiz(quizID)
	if err != nil {
		return false, err
	}
	return l.IsCourseAccessible(ctx, userID, courseID)
}

// CompletedCourses returns the completed course ids. Storage failures
// resolve to an empty list.
func (l *Ledger) CompletedCourses(ctx context.Context, userID string) ([]string, error) {
	p, err := l.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	return p.CoursesCompleted, nil
}

// CompletedQuizzes returns the completed quiz ids.
func (l *Ledger) CompletedQuizzes(ctx context.Context, userID string) ([]string, error) {
	p, err := l.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	return p.CompletedQuizzes, nil
}

// Scores returns the first-pass score of every completed quiz.
func (l *Ledger) Scores(ctx context.Context, userID string) (map[string]int, error) {
	p, err := l.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	return p.QuizScores, nil
}

// CompletionPercentage returns round(100 * completed / total).
func (l *Ledger) CompletionPercentage(ctx context.Context, userID string) (int, error) {
	done, err := l.CompletedCourses(ctx, userID)
	if err != nil {
		return 0, err
	}
	return Percentage(len(done), l.TotalCourses()), nil
}

// Percentage is the rounded completion ratio. A zero total yields 0.
func Percentage(completed, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(100 * float64(completed) / float64(total)))
}

// IsRedoRequired reports whether the course's quiz is locked out.
func (l *Ledger) IsRedoRequired(ctx context.Context, userID, courseID string) (bool, error) {
	quizID, err := l.graph.QuizForCourse(courseID)
	if err != nil {
		return false, err
	}
	return l.tracker.IsLocked(ctx, userID, quizID)
}

// RedoCourse clears the attempts on the course's quiz so it can be retaken.
func (l *Ledger) RedoCourse(ctx context.Context, userID, courseID string) error {
	quizID, err := l.graph.QuizForCourse(courseID)
	if err != nil {
		return err
	}
	if err := l.tracker.Reset(ctx, userID, quizID); err != nil {
		return err
	}
	l.journal.Record(ctx, journal.Event{UserID: userID, Kind: journal.KindCourseRedo, CourseID: courseID, QuizID: quizID})
	return nil
}

// ResetProgress clears scores, attempts and completion. Identity fields and
// an issued certificate are kept.
func (l *Ledger) ResetProgress(ctx context.Context, userID string) error {
	_, err := l.profiles.Update(ctx, userID, func(p *profile.Profile) (profile.Patch, error) {
		return profile.Patch{ClearProgress: true}, nil
	})
	if err != nil {
		return fmt.Errorf("reset progress: %w", err)
	}
	l.journal.Record(ctx, journal.Event{UserID: userID, Kind: journal.KindProgressReset})
	return nil
}

func (l *Ledger) load(ctx context.Context, userID string) (*profile.Profile, error) {
	p, err := l.profiles.Load(ctx, userID)
	if err != nil {
		if domain.IsRecoverable(err) {
			l.log.Warn("progress read failed, reporting empty",
				zap.String("user_id", userID),
				zap.Error(err))
			return profile.New(userID), nil
		}
		return nil, err
	}
	return p, nil
}
