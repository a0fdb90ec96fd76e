package domain

import "errors"

// Configuration defects. A quiz or course id that is not part of the
// catalog never reaches storage.
var (
	ErrUnknownQuiz   = errors.New("unknown quiz")
	ErrUnknownCourse = errors.New("unknown course")
)

// Progression errors.
var (
	ErrIneligible       = errors.New("not eligible for certificate")
	ErrQuizInaccessible = errors.New("quiz is not accessible yet")
)

// Collaborator errors. Background checks recover from these by reporting
// the locked or empty state.
var (
	ErrPersistenceUnavailable = errors.New("persistence unavailable")
	ErrNotAuthenticated       = errors.New("not authenticated")
)

// IsRecoverable reports whether err is a collaborator failure that
// background accessibility checks should absorb (fail safe) instead of
// surfacing to the learner.
func IsRecoverable(err error) bool {
	return errors.Is(err, ErrPersistenceUnavailable) || errors.Is(err, ErrNotAuthenticated)
}

// IsConfigDefect reports whether err stems from an id missing in the catalog.
func IsConfigDefect(err error) bool {
	return errors.Is(err, ErrUnknownQuiz) || errors.Is(err, ErrUnknownCourse)
}
