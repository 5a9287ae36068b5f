// Package session holds the bearer credential and the school it resolves to.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/and161185/school-portal/internal/errs"
	"github.com/and161185/school-portal/internal/model"
	"github.com/and161185/school-portal/internal/storage"
	"github.com/and161185/school-portal/internal/token"
)

// Directory resolves the identity behind the current token and its school.
type Directory interface {
	GetMe(ctx context.Context) (model.Identity, error)
	GetSchool(ctx context.Context, id int) (model.School, error)
}

// State is a published snapshot of the session.
// IsAuthenticated is true exactly when Token is non-empty; school fields may still be empty.
type State struct {
	Token           string
	IsAuthenticated bool
	SchoolID        int
	School          *model.School
}

// Store is the single source of truth for "am I logged in and as whom".
type Store struct {
	st  storage.Storage
	log *zap.Logger
	now func() time.Time

	mu     sync.Mutex
	dir    Directory
	state  State
	subs   map[int]func(State)
	nextID int
}

// New constructs an empty, logged-out store persisting to st.
func New(st storage.Storage, log *zap.Logger) *Store {
	return &Store{st: st, log: log, now: time.Now, subs: map[int]func(State){}}
}

// SetDirectory wires the identity source; it is set after construction
// because the directory itself reads the token from this store.
func (s *Store) SetDirectory(d Directory) {
	s.mu.Lock()
	s.dir = d
	s.mu.Unlock()
}

// Login persists token, publishes the authenticated state and tries to load school data.
// A failed school fetch is logged and leaves the session authenticated without school data.
func (s *Store) Login(ctx context.Context, tok string) error {
	if tok == "" {
		return fmt.Errorf("%w: empty token", errs.ErrMissingParameter)
	}
	if err := s.st.Set(ctx, storage.KeyAuthToken, tok); err != nil {
		return fmt.Errorf("persist token: %w", err)
	}
	s.update(func(st *State) { *st = State{Token: tok, IsAuthenticated: true} })

	if err := s.LoadSchoolData(ctx); err != nil {
		s.log.Warn("school data not loaded after login", zap.Error(err))
	}
	return nil
}

// Logout drops the token from storage and memory. Safe to call when logged out.
func (s *Store) Logout() {
	if err := s.st.Remove(context.Background(), storage.KeyAuthToken); err != nil {
		s.log.Warn("remove persisted token", zap.Error(err))
	}
	s.update(func(st *State) { *st = State{} })
}

// LoadSchoolData runs the identity then school fetch and publishes both at once.
// The result is dropped if the token changed meanwhile. On failure the school
// fields are cleared and the error is returned.
func (s *Store) LoadSchoolData(ctx context.Context) error {
	s.mu.Lock()
	tok, dir := s.state.Token, s.dir
	s.mu.Unlock()

	if tok == "" {
		return fmt.Errorf("%w: not logged in", errs.ErrUnauthorized)
	}
	if dir == nil {
		return errors.New("session: directory not configured")
	}

	school, err := fetchSchool(ctx, dir)
	if err != nil {
		s.update(func(st *State) {
			if st.Token == tok {
				st.SchoolID, st.School = 0, nil
			}
		})
		return err
	}
	s.update(func(st *State) {
		if st.Token == tok {
			st.SchoolID, st.School = school.ID, &school
		}
	})
	return nil
}

func fetchSchool(ctx context.Context, dir Directory) (model.School, error) {
	me, err := dir.GetMe(ctx)
	if err != nil {
		return model.School{}, fmt.Errorf("get identity: %w", err)
	}
	id := me.School()
	if id <= 0 {
		return model.School{}, fmt.Errorf("%w: identity has no school", errs.ErrMissingParameter)
	}
	school, err := dir.GetSchool(ctx, id)
	if err != nil {
		return model.School{}, fmt.Errorf("get school %d: %w", id, err)
	}
	if school.ID == 0 {
		school.ID = id
	}
	return school, nil
}

// Initialize restores a persisted token and eagerly loads school data for it.
// With nothing persisted it is a no-op.
func (s *Store) Initialize(ctx context.Context) error {
	tok := s.PersistedToken(ctx)
	if tok == "" {
		return nil
	}
	s.Adopt(tok)
	return s.LoadSchoolData(ctx)
}

// Adopt publishes tok as the in-memory credential without touching storage.
func (s *Store) Adopt(tok string) {
	if tok == "" {
		return
	}
	s.mu.Lock()
	if s.state.Token == tok {
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()
	s.update(func(st *State) { *st = State{Token: tok, IsAuthenticated: true} })
}

// Token returns the in-memory token, "" when logged out.
func (s *Store) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Token
}

// PersistedToken reads the stored token. Expired JWTs are removed and reported as absent.
func (s *Store) PersistedToken(ctx context.Context) string {
	tok, err := s.st.Get(ctx, storage.KeyAuthToken)
	if err != nil {
		if !errors.Is(err, errs.ErrNotFound) {
			s.log.Warn("read persisted token", zap.Error(err))
		}
		return ""
	}
	if token.Expired(tok, s.now()) {
		s.log.Info("persisted token expired, discarding")
		if err := s.st.Remove(ctx, storage.KeyAuthToken); err != nil {
			s.log.Warn("remove expired token", zap.Error(err))
		}
		return ""
	}
	return tok
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Store) snapshotLocked() State {
	out := s.state
	if out.School != nil {
		sc := *out.School
		out.School = &sc
	}
	return out
}

// Subscribe calls fn with the current state and after every change, until cancel is called.
func (s *Store) Subscribe(fn func(State)) (cancel func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	cur := s.snapshotLocked()
	s.mu.Unlock()

	fn(cur)
	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

// update mutates state under the lock and notifies subscribers outside it.
func (s *Store) update(mut func(*State)) {
	s.mu.Lock()
	mut(&s.state)
	cur := s.snapshotLocked()
	fns := make([]func(State), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(cur)
	}
}
