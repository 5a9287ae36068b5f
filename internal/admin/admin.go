// Package admin implements the short-lived elevation that gates destructive actions.
// Elevation is verified against the same credential check as a normal login but
// never reads or replaces the primary session token, and it is not persisted.
package admin

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/and161185/school-portal/internal/errs"
	"github.com/and161185/school-portal/internal/model"
	"github.com/and161185/school-portal/internal/storage"
)

// Defaults for the time box and the safety sweep.
const (
	DefaultTTL   = 10 * time.Minute
	DefaultSweep = time.Minute
)

// DefaultExpiryMessage is shown when no localized message is configured.
const DefaultExpiryMessage = "Сеанс администратора истек"

// Authenticator verifies credentials without establishing a session.
type Authenticator interface {
	Authenticate(ctx context.Context, email, password string) (model.LoginResponse, error)
}

// Notifier shows a user-visible message.
type Notifier interface {
	Notify(message string)
}

// State is a published snapshot. ExpiresAt is zero when elevation is not time-boxed.
type State struct {
	IsAdminMode bool
	ExpiresAt   time.Time
}

// Store owns admin-mode state.
type Store struct {
	auth     Authenticator
	notifier Notifier
	log      *zap.Logger

	ttl       time.Duration
	timeBoxed bool
	now       func() time.Time
	message   func() string
	legacy    storage.Storage

	mu     sync.Mutex
	state  State
	timer  *time.Timer
	gen    uint64
	subs   map[int]func(State)
	nextID int
}

// Option customizes a Store.
type Option func(*Store)

// WithTimeBox enables expiry after ttl (the default is DefaultTTL).
func WithTimeBox(ttl time.Duration) Option {
	return func(s *Store) {
		s.timeBoxed = true
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// WithoutTimeBox keeps elevation until Exit.
func WithoutTimeBox() Option { return func(s *Store) { s.timeBoxed = false } }

// WithClock replaces time.Now for expiry bookkeeping.
func WithClock(now func() time.Time) Option { return func(s *Store) { s.now = now } }

// WithExpiryMessage sets the source of the expiry notification text.
func WithExpiryMessage(fn func() string) Option { return func(s *Store) { s.message = fn } }

// WithStorage removes admin keys left in st by older clients.
func WithStorage(st storage.Storage) Option { return func(s *Store) { s.legacy = st } }

// New constructs a Store; elevation is time-boxed to DefaultTTL unless overridden.
func New(auth Authenticator, notifier Notifier, log *zap.Logger, opts ...Option) *Store {
	s := &Store{
		auth:      auth,
		notifier:  notifier,
		log:       log,
		ttl:       DefaultTTL,
		timeBoxed: true,
		now:       time.Now,
		message:   func() string { return DefaultExpiryMessage },
		subs:      map[int]func(State){},
	}
	for _, o := range opts {
		o(s)
	}
	if s.legacy != nil {
		s.clearLegacy()
	}
	return s
}

func (s *Store) clearLegacy() {
	ctx := context.Background()
	for _, k := range []string{storage.KeyAdminMode, storage.KeyAdminData} {
		if err := s.legacy.Remove(ctx, k); err != nil {
			s.log.Warn("remove legacy admin key", zap.String("key", k), zap.Error(err))
		}
	}
}

// Enter verifies credentials and elevates. A repeated Enter re-arms the timer.
// On failure state is left as it was.
func (s *Store) Enter(ctx context.Context, email, password string) error {
	if _, err := s.auth.Authenticate(ctx, email, password); err != nil {
		return fmt.Errorf("enter admin mode: %w", err)
	}

	s.mu.Lock()
	s.gen++
	s.stopTimerLocked()
	s.state = State{IsAdminMode: true}
	if s.timeBoxed {
		s.state.ExpiresAt = s.now().Add(s.ttl)
		gen := s.gen
		s.timer = time.AfterFunc(s.ttl, func() { s.expire(gen) })
	}
	exp := s.state.ExpiresAt
	s.mu.Unlock()

	s.log.Info("admin mode entered", zap.Time("expires_at", exp))
	s.publish()
	return nil
}

// Exit clears elevation and cancels any pending expiry. Safe to call repeatedly.
func (s *Store) Exit() {
	s.mu.Lock()
	s.gen++
	s.stopTimerLocked()
	was := s.state.IsAdminMode
	s.state = State{}
	s.mu.Unlock()

	if was {
		s.publish()
	}
}

// Sweep clears elevation whose expiry has passed and reports whether it did.
func (s *Store) Sweep() bool {
	s.mu.Lock()
	if !s.expiredLocked() {
		s.mu.Unlock()
		return false
	}
	s.gen++
	s.stopTimerLocked()
	s.state = State{}
	s.mu.Unlock()

	s.expired()
	return true
}

// Run sweeps every interval until ctx is done.
func (s *Store) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = DefaultSweep
	}
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			s.Sweep()
		}
	}
}

// IsAdminMode reports live elevation; an elapsed expiry counts as not elevated.
func (s *Store) IsAdminMode() bool {
	s.mu.Lock()
	active, stale := s.state.IsAdminMode, s.expiredLocked()
	s.mu.Unlock()
	if stale {
		s.Sweep()
		return false
	}
	return active
}

// Require fails with errs.ErrAdminRequired unless elevated.
func (s *Store) Require() error {
	if !s.IsAdminMode() {
		return errs.ErrAdminRequired
	}
	return nil
}

// Snapshot returns the current state, with an elapsed expiry already applied.
func (s *Store) Snapshot() State {
	s.IsAdminMode()
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Subscribe calls fn with the current state and after every change, until cancel is called.
func (s *Store) Subscribe(fn func(State)) (cancel func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	cur := s.state
	s.mu.Unlock()

	fn(cur)
	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

func (s *Store) expiredLocked() bool {
	return s.state.IsAdminMode && !s.state.ExpiresAt.IsZero() && !s.now().Before(s.state.ExpiresAt)
}

func (s *Store) stopTimerLocked() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

// expire runs on the timer goroutine; a stale generation means the timer was superseded.
func (s *Store) expire(gen uint64) {
	s.mu.Lock()
	if gen != s.gen || !s.state.IsAdminMode {
		s.mu.Unlock()
		return
	}
	s.gen++
	s.timer = nil
	s.state = State{}
	s.mu.Unlock()

	s.expired()
}

func (s *Store) expired() {
	s.log.Info("admin mode expired")
	s.publish()
	if s.notifier != nil {
		s.notifier.Notify(s.message())
	}
}

func (s *Store) publish() {
	s.mu.Lock()
	cur := s.state
	fns := make([]func(State), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(cur)
	}
}
