// Package profile defines the per-learner progress document and the merge
// operation every core service uses to mutate it.
package profile

import (
	"slices"
	"time"
)

// Attempt is the per-quiz attempt counter.
type Attempt struct {
	Count         int       `json:"count"`
	Passed        bool      `json:"passed"`
	LastAttemptAt time.Time `json:"last_attempt_at"`
}

// Certificate is issued once a learner completes every course. It is never
// rewritten after issuance.
type Certificate struct {
	CertificateID    string    `json:"certificate_id"`
	UserID           string    `json:"user_id"`
	UserName         string    `json:"user_name"`
	UserEmail        string    `json:"user_email"`
	CompletionDate   time.Time `json:"completion_date"`
	CoursesCompleted int       `json:"courses_completed"`
	TotalCourses     int       `json:"total_courses"`
}

// Profile is the full progress document of one learner.
type Profile struct {
	UserID   string `json:"user_id"`
	FullName string `json:"full_name,omitempty"`
	Username string `json:"username,omitempty"`
	Email    string `json:"email,omitempty"`

	QuizScores       map[string]int     `json:"quiz_scores"`
	QuizAttempts     map[string]Attempt `json:"quiz_attempts"`
	CoursesCompleted []string           `json:"courses_completed"`
	CompletedQuizzes []string           `json:"completed_quizzes"`

	Certificate            *Certificate `json:"certificate,omitempty"`
	CertificateGenerated   bool         `json:"certificate_generated"`
	CertificateGeneratedAt time.Time    `json:"certificate_generated_at,omitempty"`

	CreatedAt   time.Time `json:"created_at"`
	LastUpdated time.Time `json:"last_updated"`

	// Version is the store revision this copy was read at. Zero means the
	// document has never been written.
	Version int64 `json:"-"`
}

// New returns an empty profile for userID.
func New(userID string) *Profile {
	return &Profile{
		UserID:       userID,
		QuizScores:   map[string]int{},
		QuizAttempts: map[string]Attempt{},
	}
}

// Clone returns a deep copy.
func (p *Profile) Clone() *Profile {
	c := *p
	c.QuizScores = make(map[string]int, len(p.QuizScores))
	for k, v := range p.QuizScores {
		c.QuizScores[k] = v
	}
	c.QuizAttempts = make(map[string]Attempt, len(p.QuizAttempts))
	for k, v := range p.QuizAttempts {
		c.QuizAttempts[k] = v
	}
	c.CoursesCompleted = slices.Clone(p.CoursesCompleted)
	c.CompletedQuizzes = slices.Clone(p.CompletedQuizzes)
	if p.Certificate != nil {
		cert := *p.Certificate
		c.Certificate = &cert
	}
	return &c
}

// HasCompletedCourse reports whether courseID is in the completed set.
func (p *Profile) HasCompletedCourse(courseID string) bool {
	return slices.Contains(p.CoursesCompleted, courseID)
}

// HasCompletedQuiz reports whether quizID is in the completed set.
func (p *Profile) HasCompletedQuiz(quizID string) bool {
	return slices.Contains(p.CompletedQuizzes, quizID)
}

// CompletedSet returns the completed courses as a lookup set.
func (p *Profile) CompletedSet() map[string]bool {
	set := make(map[string]bool, len(p.CoursesCompleted))
	for _, id := range p.CoursesCompleted {
		set[id] = true
	}
	return set
}

// normalize fills nil maps left by decoding older documents.
func (p *Profile) normalize() {
	if p.QuizScores == nil {
		p.QuizScores = map[string]int{}
	}
	if p.QuizAttempts == nil {
		p.QuizAttempts = map[string]Attempt{}
	}
}
