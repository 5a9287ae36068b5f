package i18n

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/and161185/school-portal/internal/errs"
	"github.com/and161185/school-portal/internal/model"
	"github.com/and161185/school-portal/internal/storage"
)

// LanguageStore is the UI language preference, persisted under storage.KeyLanguage.
type LanguageStore struct {
	st  storage.Storage
	log *zap.Logger

	mu     sync.Mutex
	cur    model.Language
	subs   map[int]func(model.Language)
	nextID int
}

// NewLanguageStore reads the saved preference; anything unreadable means Russian.
func NewLanguageStore(ctx context.Context, st storage.Storage, log *zap.Logger) *LanguageStore {
	s := &LanguageStore{st: st, log: log, cur: model.LangRU, subs: map[int]func(model.Language){}}
	v, err := st.Get(ctx, storage.KeyLanguage)
	switch {
	case err == nil && model.Language(v).Valid():
		s.cur = model.Language(v)
	case err != nil && !errors.Is(err, errs.ErrNotFound):
		log.Warn("read language preference", zap.Error(err))
	}
	return s
}

// Current returns the active language.
func (s *LanguageStore) Current() model.Language {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cur
}

// Set persists and publishes lang.
func (s *LanguageStore) Set(ctx context.Context, lang model.Language) error {
	if !lang.Valid() {
		return fmt.Errorf("%w: unsupported language %q", errs.ErrValidation, lang)
	}
	if err := s.st.Set(ctx, storage.KeyLanguage, string(lang)); err != nil {
		return fmt.Errorf("persist language: %w", err)
	}
	s.mu.Lock()
	s.cur = lang
	fns := make([]func(model.Language), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(lang)
	}
	return nil
}

// Toggle switches between ru and kz.
func (s *LanguageStore) Toggle(ctx context.Context) (model.Language, error) {
	next := model.LangKZ
	if s.Current() == model.LangKZ {
		next = model.LangRU
	}
	return next, s.Set(ctx, next)
}

// Subscribe calls fn with the current language and on every change.
func (s *LanguageStore) Subscribe(fn func(model.Language)) (cancel func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	cur := s.cur
	s.mu.Unlock()

	fn(cur)
	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}
