// Package identity authenticates learners. The bundled LocalProvider keeps
// bcrypt-hashed accounts in the local database.
package identity

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/abhisek/quizgate/internal/profile"
	"github.com/abhisek/quizgate/internal/session"
)

// Lockout policy for repeated sign-in failures.
const (
	MaxFailedSignIns = 5
	LockoutDuration  = 15 * time.Minute
)

var (
	// ErrAccountNotFound is returned by AccountStore lookups.
	ErrAccountNotFound = errors.New("account not found")

	// ErrEmailTaken is returned by AccountStore.CreateAccount.
	ErrEmailTaken = errors.New("email already registered")
)

// Provider signs learners up, in and out.
type Provider interface {
	SignUp(ctx context.Context, reg Registration) (*session.Session, error)
	SignIn(ctx context.Context, creds Credentials) (*session.Session, error)
	SignOut(ctx context.Context, sess *session.Session) error
}

// Account is a stored local login.
type Account struct {
	ID             string
	Email          string
	PasswordHash   []byte
	FullName       string
	Username       string
	FailedAttempts int
	LockedUntil    time.Time
	CreatedAt      time.Time
}

// AccountStore persists accounts.
type AccountStore interface {
	CreateAccount(ctx context.Context, a *Account) error
	AccountByEmail(ctx context.Context, email string) (*Account, error)
	UpdateAccount(ctx context.Context, a *Account) error
}

// LocalOptions configures a LocalProvider.
type LocalOptions struct {
	// SignUpDisabled rejects new registrations.
	SignUpDisabled bool
	// BcryptCost defaults to bcrypt.DefaultCost.
	BcryptCost int
	Now        func() time.Time
	Logger     *zap.Logger
}

// LocalProvider authenticates against the accounts table.
type LocalProvider struct {
	accounts AccountStore
	profiles *profile.Updater
	opts     LocalOptions
	log      *zap.Logger
}

// NewLocalProvider returns a LocalProvider. profiles is used to seed the
// learner's progress document at sign-up.
func NewLocalProvider(accounts AccountStore, profiles *profile.Updater, opts LocalOptions) *LocalProvider {
	if opts.BcryptCost == 0 {
		opts.BcryptCost = bcrypt.DefaultCost
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &LocalProvider{accounts: accounts, profiles: profiles, opts: opts, log: log}
}

// SignUp validates the form, creates the account and seeds the profile.
func (p *LocalProvider) SignUp(ctx context.Context, reg Registration) (*session.Session, error) {
	if err := reg.Validate(); err != nil {
		return nil, err
	}
	if p.opts.SignUpDisabled {
		return nil, newError(CodeOperationNotAllowed, nil)
	}
	if len(reg.Password) < MinPasswordLength {
		return nil, newError(CodeWeakPassword, nil)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(reg.Password), p.opts.BcryptCost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return nil, newError(CodeWeakPassword, err)
		}
		return nil, newError(CodeInternal, err)
	}

	now := p.opts.Now()
	acct := &Account{
		ID:           uuid.NewString(),
		Email:        normalizeEmail(reg.Email),
		PasswordHash: hash,
		FullName:     reg.FullName,
		Username:     reg.Username,
		CreatedAt:    now,
	}
	if err := p.accounts.CreateAccount(ctx, acct); err != nil {
		if errors.Is(err, ErrEmailTaken) {
			return nil, newError(CodeEmailAlreadyInUse, err)
		}
		return nil, newError(CodeInternal, err)
	}

	_, err = p.profiles.Update(ctx, acct.ID, func(*profile.Profile) (profile.Patch, error) {
		return profile.Patch{
			FullName: profile.String(reg.FullName),
			Username: profile.String(reg.Username),
			Email:    profile.String(acct.Email),
		}, nil
	})
	if err != nil {
		return nil, newError(CodeInternal, fmt.Errorf("seed profile: %w", err))
	}

	p.log.Info("account created", zap.String("user_id", acct.ID))
	return session.New(acct.ID, acct.Email, acct.FullName, acct.Username, now), nil
}

// SignIn checks the password. Five consecutive failures block the account
// for LockoutDuration.
func (p *LocalProvider) SignIn(ctx context.Context, creds Credentials) (*session.Session, error) {
	if err := creds.Validate(); err != nil {
		return nil, err
	}
	email := normalizeEmail(creds.Email)
	if !validEmail(email) {
		return nil, newError(CodeInvalidEmail, nil)
	}

	acct, err := p.accounts.AccountByEmail(ctx, email)
	if errors.Is(err, ErrAccountNotFound) {
		return nil, newError(CodeUserNotFound, err)
	}
	if err != nil {
		return nil, newError(CodeInternal, err)
	}

	now := p.opts.Now()
	if now.Before(acct.LockedUntil) {
		return nil, newError(CodeTooManyRequests, nil)
	}

	if err := bcrypt.CompareHashAndPassword(acct.PasswordHash, []byte(creds.Password)); err != nil {
		acct.FailedAttempts++
		if acct.FailedAttempts >= MaxFailedSignIns {
			acct.LockedUntil = now.Add(LockoutDuration)
			acct.FailedAttempts = 0
			p.log.Warn("sign-in locked after repeated failures", zap.String("user_id", acct.ID))
		}
		if uerr := p.accounts.UpdateAccount(ctx, acct); uerr != nil {
			p.log.Warn("record failed sign-in", zap.String("user_id", acct.ID), zap.Error(uerr))
		}
		if !acct.LockedUntil.IsZero() && now.Before(acct.LockedUntil) {
			return nil, newError(CodeTooManyRequests, err)
		}
		return nil, newError(CodeWrongPassword, err)
	}

	if acct.FailedAttempts != 0 || !acct.LockedUntil.IsZero() {
		acct.FailedAttempts = 0
		acct.LockedUntil = time.Time{}
		if err := p.accounts.UpdateAccount(ctx, acct); err != nil {
			p.log.Warn("clear failed sign-ins", zap.String("user_id", acct.ID), zap.Error(err))
		}
	}
	return session.New(acct.ID, acct.Email, acct.FullName, acct.Username, now), nil
}

// SignOut ends the session. Local sessions hold no server state.
func (p *LocalProvider) SignOut(_ context.Context, sess *session.Session) error {
	if sess != nil {
		p.log.Info("signed out", zap.String("user_id", sess.UserID))
	}
	return nil
}
