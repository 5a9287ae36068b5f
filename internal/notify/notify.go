// Package notify keeps the list of user-visible toasts.
package notify

import (
	"slices"
	"sync"
	"time"

	"github.com/gofrs/uuid/v5"
)

// Kind is the toast severity.
type Kind string

// Toast kinds.
const (
	Success Kind = "success"
	Error   Kind = "error"
	Info    Kind = "info"
)

// DefaultDuration is how long a toast stays unless told otherwise.
const DefaultDuration = 5 * time.Second

// Toast is one message. A zero Duration means it stays until removed.
type Toast struct {
	ID       string        `json:"id"`
	Message  string        `json:"message"`
	Kind     Kind          `json:"type"`
	Duration time.Duration `json:"duration"`
}

// Store holds active toasts in display order.
type Store struct {
	mu     sync.Mutex
	toasts []Toast
	timers map[string]*time.Timer
	subs   map[int]func([]Toast)
	nextID int
}

// New constructs an empty Store.
func New() *Store {
	return &Store{timers: map[string]*time.Timer{}, subs: map[int]func([]Toast){}}
}

// Show appends a toast and returns its id; a positive d removes it after d.
func (s *Store) Show(msg string, kind Kind, d time.Duration) string {
	id := uuid.Must(uuid.NewV4()).String()
	s.mu.Lock()
	s.toasts = append(s.toasts, Toast{ID: id, Message: msg, Kind: kind, Duration: d})
	if d > 0 {
		s.timers[id] = time.AfterFunc(d, func() { s.Remove(id) })
	}
	s.mu.Unlock()
	s.publish()
	return id
}

func (s *Store) Success(msg string) string { return s.Show(msg, Success, DefaultDuration) }
func (s *Store) Error(msg string) string   { return s.Show(msg, Error, DefaultDuration) }
func (s *Store) Info(msg string) string    { return s.Show(msg, Info, DefaultDuration) }

// Notify shows an info toast; it lets the store serve as the admin expiry notifier.
func (s *Store) Notify(msg string) { s.Info(msg) }

// Remove drops the toast with id, if still present.
func (s *Store) Remove(id string) {
	s.mu.Lock()
	i := slices.IndexFunc(s.toasts, func(t Toast) bool { return t.ID == id })
	if t, ok := s.timers[id]; ok {
		t.Stop()
		delete(s.timers, id)
	}
	if i < 0 {
		s.mu.Unlock()
		return
	}
	s.toasts = slices.Delete(s.toasts, i, i+1)
	s.mu.Unlock()
	s.publish()
}

// Clear drops every toast.
func (s *Store) Clear() {
	s.mu.Lock()
	for id, t := range s.timers {
		t.Stop()
		delete(s.timers, id)
	}
	s.toasts = nil
	s.mu.Unlock()
	s.publish()
}

// List returns the active toasts, oldest first.
func (s *Store) List() []Toast {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.toasts)
}

// Subscribe calls fn with the current toasts and after every change.
func (s *Store) Subscribe(fn func([]Toast)) (cancel func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	cur := slices.Clone(s.toasts)
	s.mu.Unlock()

	fn(cur)
	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

func (s *Store) publish() {
	s.mu.Lock()
	cur := slices.Clone(s.toasts)
	fns := make([]func([]Toast), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(cur)
	}
}
