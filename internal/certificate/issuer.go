// Package certificate issues the completion certificate once a learner has
// finished every course.
package certificate

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/abhisek/quizgate/internal/domain"
	"github.com/abhisek/quizgate/internal/profile"
)

// DateLayout is the human-readable completion date format.
const DateLayout = "January 2, 2006"

// Issuer creates at most one certificate per learner.
type Issuer struct {
	profiles *profile.Updater
	total    int
	now      func() time.Time
	log      *zap.Logger
}

// Option configures an Issuer.
type Option func(*Issuer)

// WithClock overrides the time source for ids and completion dates.
func WithClock(now func() time.Time) Option {
	return func(i *Issuer) { i.now = now }
}

// NewIssuer returns an Issuer that requires totalCourses completed courses.
func NewIssuer(profiles *profile.Updater, totalCourses int, log *zap.Logger, opts ...Option) *Issuer {
	if log == nil {
		log = zap.NewNop()
	}
	i := &Issuer{profiles: profiles, total: totalCourses, now: time.Now, log: log}
	for _, o := range opts {
		o(i)
	}
	return i
}

// TotalCourses returns the completion threshold.
func (i *Issuer) TotalCourses() int { return i.total }

// Generate issues the certificate, or returns the one already issued.
// Returns domain.ErrIneligible while fewer than TotalCourses are completed.
func (i *Issuer) Generate(ctx context.Context, userID string) (*profile.Certificate, error) {
	var cert *profile.Certificate
	_, err := i.profiles.Update(ctx, userID, func(p *profile.Profile) (profile.Patch, error) {
		if p.Certificate != nil {
			cert = p.Certificate
			return profile.Patch{}, nil
		}
		if p.CertificateGenerated {
			// Flagged as issued with the record missing: store one rebuilt record.
			cert = i.build(p)
			i.log.Warn("certificate record missing, reissuing", zap.String("user_id", userID))
			return profile.Patch{Certificate: cert}, nil
		}
		if len(p.CoursesCompleted) < i.total {
			return profile.Patch{}, domain.ErrIneligible
		}
		cert = i.build(p)
		return profile.Patch{Certificate: cert}, nil
	})
	if errors.Is(err, domain.ErrIneligible) {
		i.log.Info("certificate not issued: courses incomplete",
			zap.String("user_id", userID),
			zap.Int("total_courses", i.total))
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("generate certificate: %w", err)
	}
	return cert, nil
}

// Get returns the issued certificate, or nil when none exists.
func (i *Issuer) Get(ctx context.Context, userID string) (*profile.Certificate, error) {
	p, err := i.profiles.Load(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load certificate: %w", err)
	}
	if !p.CertificateGenerated {
		return nil, nil
	}
	return p.Certificate, nil
}

// Eligible reports whether the learner has completed enough courses.
func (i *Issuer) Eligible(ctx context.Context, userID string) (bool, error) {
	p, err := i.profiles.Load(ctx, userID)
	if err != nil {
		return false, fmt.Errorf("load profile: %w", err)
	}
	return len(p.CoursesCompleted) >= i.total, nil
}

func (i *Issuer) build(p *profile.Profile) *profile.Certificate {
	now := i.now()
	return &profile.Certificate{
		CertificateID:    fmt.Sprintf("CERT-%s-%d", p.UserID, now.UnixNano()),
		UserID:           p.UserID,
		UserName:         DisplayName(p),
		UserEmail:        p.Email,
		CompletionDate:   now,
		CoursesCompleted: len(p.CoursesCompleted),
		TotalCourses:     i.total,
	}
}

// DisplayName picks the name printed on the certificate.
func DisplayName(p *profile.Profile) string {
	switch {
	case p.FullName != "":
		return p.FullName
	case p.Username != "":
		return p.Username
	default:
		return "Student"
	}
}

// FormatDate renders a completion date, e.g. "March 4, 2026".
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}
