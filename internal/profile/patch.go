package profile

import (
	"slices"
	"time"
)

// Patch is a partial update merged into a profile. Nil fields are left
// untouched. It is the only way core services change a profile.
type Patch struct {
	FullName *string
	Username *string
	Email    *string

	// QuizScores entries are written only when the quiz has no score yet.
	QuizScores map[string]int

	// QuizAttempts entries replace the stored attempt; a nil value deletes it.
	QuizAttempts map[string]*Attempt

	// AddCourses and AddQuizzes are unioned into the completed sets.
	AddCourses []string
	AddQuizzes []string

	// Certificate is stored only if no record is held yet. A profile flagged
	// as certified without a record gets the record and keeps its issue time.
	Certificate *Certificate

	// ClearProgress empties scores, attempts and completed sets before the
	// rest of the patch is applied. Identity and any issued certificate stay.
	ClearProgress bool
}

// IsZero reports whether applying the patch would change nothing.
func (pt Patch) IsZero() bool {
	return pt.FullName == nil && pt.Username == nil && pt.Email == nil &&
		len(pt.QuizScores) == 0 && len(pt.QuizAttempts) == 0 &&
		len(pt.AddCourses) == 0 && len(pt.AddQuizzes) == 0 &&
		pt.Certificate == nil && !pt.ClearProgress
}

// Apply merges pt into p and stamps LastUpdated.
func (p *Profile) Apply(pt Patch, now time.Time) {
	p.normalize()

	if pt.ClearProgress {
		p.QuizScores = map[string]int{}
		p.QuizAttempts = map[string]Attempt{}
		p.CoursesCompleted = nil
		p.CompletedQuizzes = nil
	}

	if pt.FullName != nil {
		p.FullName = *pt.FullName
	}
	if pt.Username != nil {
		p.Username = *pt.Username
	}
	if pt.Email != nil {
		p.Email = *pt.Email
	}

	for quizID, score := range pt.QuizScores {
		if _, ok := p.QuizScores[quizID]; !ok {
			p.QuizScores[quizID] = score
		}
	}
	for quizID, a := range pt.QuizAttempts {
		if a == nil {
			delete(p.QuizAttempts, quizID)
			continue
		}
		p.QuizAttempts[quizID] = *a
	}
	for _, id := range pt.AddCourses {
		if !slices.Contains(p.CoursesCompleted, id) {
			p.CoursesCompleted = append(p.CoursesCompleted, id)
		}
	}
	for _, id := range pt.AddQuizzes {
		if !slices.Contains(p.CompletedQuizzes, id) {
			p.CompletedQuizzes = append(p.CompletedQuizzes, id)
		}
	}

	if pt.Certificate != nil && p.Certificate == nil {
		cert := *pt.Certificate
		p.Certificate = &cert
		p.CertificateGenerated = true
		if p.CertificateGeneratedAt.IsZero() {
			p.CertificateGeneratedAt = now
		}
	}

	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.LastUpdated = now
}

// String returns a pointer to s, for building patches.
func String(s string) *string { return &s }
