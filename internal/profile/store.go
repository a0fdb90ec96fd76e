package profile

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/felixgeelhaar/fortify/retry"
)

var (
	// ErrNotFound is returned by Store.Read when no document exists.
	ErrNotFound = errors.New("profile not found")

	// ErrConflict is returned by Store.Write when the document changed since
	// it was read.
	ErrConflict = errors.New("profile was modified concurrently")
)

// Store persists whole profile documents.
type Store interface {
	// Read returns the stored profile with Version set, or ErrNotFound.
	Read(ctx context.Context, userID string) (*Profile, error)

	// Write replaces the stored document if its revision still equals
	// p.Version, then advances p.Version. Returns ErrConflict otherwise.
	Write(ctx context.Context, p *Profile) error
}

// Mutator inspects the current profile and returns the patch to merge.
// A zero patch skips the write.
type Mutator func(p *Profile) (Patch, error)

// Updater runs read-modify-write cycles against a Store, retrying when a
// concurrent writer wins the compare-and-swap.
type Updater struct {
	store   Store
	retrier retry.Retry[*Profile]
	now     func() time.Time
}

// Option configures an Updater.
type Option func(*Updater)

// WithClock overrides the time source used for LastUpdated stamps.
func WithClock(now func() time.Time) Option {
	return func(u *Updater) { u.now = now }
}

// NewUpdater returns an Updater over store.
func NewUpdater(store Store, opts ...Option) *Updater {
	u := &Updater{
		store: store,
		now:   time.Now,
		retrier: retry.New[*Profile](retry.Config{
			MaxAttempts:   5,
			InitialDelay:  5 * time.Millisecond,
			MaxDelay:      100 * time.Millisecond,
			Multiplier:    2.0,
			BackoffPolicy: retry.BackoffExponential,
			Jitter:        true,
			IsRetryable: func(err error) bool {
				return errors.Is(err, ErrConflict)
			},
		}),
	}
	for _, o := range opts {
		o(u)
	}
	return u
}

// Load returns the stored profile, or an empty one if none exists yet.
func (u *Updater) Load(ctx context.Context, userID string) (*Profile, error) {
	p, err := u.store.Read(ctx, userID)
	if errors.Is(err, ErrNotFound) {
		return New(userID), nil
	}
	if err != nil {
		return nil, err
	}
	p.normalize()
	return p, nil
}

// Update reads the profile, applies the patch returned by fn and writes it
// back. The whole cycle is retried on ErrConflict, so fn may run more than
// once and must not have side effects.
func (u *Updater) Update(ctx context.Context, userID string, fn Mutator) (*Profile, error) {
	var lastErr error
	p, err := u.retrier.Do(ctx, func(ctx context.Context) (*Profile, error) {
		p, err := u.updateOnce(ctx, userID, fn)
		lastErr = err
		return p, err
	})
	if err != nil {
		if lastErr != nil {
			return nil, lastErr
		}
		return nil, err
	}
	return p, nil
}

func (u *Updater) updateOnce(ctx context.Context, userID string, fn Mutator) (*Profile, error) {
	p, err := u.Load(ctx, userID)
	if err != nil {
		return nil, err
	}
	patch, err := fn(p.Clone())
	if err != nil {
		return nil, err
	}
	if patch.IsZero() {
		return p, nil
	}
	p.Apply(patch, u.now())
	if err := u.store.Write(ctx, p); err != nil {
		return nil, fmt.Errorf("write profile %s: %w", userID, err)
	}
	return p, nil
}

// MemoryStore is an in-process Store used by tests and dry runs.
type MemoryStore struct {
	mu   sync.Mutex
	docs map[string]*Profile
	err  error
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{docs: make(map[string]*Profile)}
}

// FailWith makes every subsequent call return err. Pass nil to recover.
func (m *MemoryStore) FailWith(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

func (m *MemoryStore) Read(_ context.Context, userID string) (*Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	p, ok := m.docs[userID]
	if !ok {
		return nil, ErrNotFound
	}
	return p.Clone(), nil
}

func (m *MemoryStore) Write(_ context.Context, p *Profile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	var current int64
	if existing, ok := m.docs[p.UserID]; ok {
		current = existing.Version
	}
	if current != p.Version {
		return ErrConflict
	}
	p.Version++
	m.docs[p.UserID] = p.Clone()
	return nil
}
