// Package app is the composition root: it owns every store and wires them together.
package app

import (
	"context"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/and161185/school-portal/internal/admin"
	"github.com/and161185/school-portal/internal/api"
	"github.com/and161185/school-portal/internal/config"
	"github.com/and161185/school-portal/internal/errs"
	"github.com/and161185/school-portal/internal/i18n"
	"github.com/and161185/school-portal/internal/notify"
	"github.com/and161185/school-portal/internal/session"
	"github.com/and161185/school-portal/internal/storage"
)

// App holds the wired client core.
type App struct {
	Log     *zap.Logger
	Storage storage.Storage
	Session *session.Store
	API     *api.Client
	Admin   *admin.Store
	Toasts  *notify.Store
	Lang    *i18n.LanguageStore
	Tr      *i18n.Translator

	sweep time.Duration
	close func()
}

// Option overrides a dependency New would otherwise build from config.
type Option func(*options)

type options struct {
	st   storage.Storage
	http *http.Client
}

// WithStorage uses st instead of the configured backend.
func WithStorage(st storage.Storage) Option { return func(o *options) { o.st = st } }

// WithHTTPClient sets the client used for backend calls.
func WithHTTPClient(c *http.Client) Option { return func(o *options) { o.http = c } }

// NewLogger returns a development logger when dev is set, a production one otherwise.
func NewLogger(dev bool) (*zap.Logger, error) {
	if dev {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

// New wires Session, API client, admin mode, toasts and language from cfg.
func New(ctx context.Context, cfg *config.Config, log *zap.Logger, opts ...Option) (*App, error) {
	var o options
	for _, fn := range opts {
		fn(&o)
	}

	a := &App{Log: log, sweep: cfg.Admin.Sweep, close: func() {}}
	if o.st != nil {
		a.Storage = o.st
	} else {
		st, closeFn, err := OpenStorage(ctx, cfg.Storage, log)
		if err != nil {
			return nil, err
		}
		a.Storage, a.close = st, closeFn
	}

	tr, err := i18n.New()
	if err != nil {
		a.close()
		return nil, err
	}
	a.Tr = tr
	a.Lang = i18n.NewLanguageStore(ctx, a.Storage, log)
	a.Toasts = notify.New()

	a.Session = session.New(a.Storage, log)
	var apiOpts []api.Option
	if o.http != nil {
		apiOpts = append(apiOpts, api.WithHTTPClient(o.http))
	}
	a.API = api.New(cfg.BaseURL, a.Session, log, apiOpts...)
	a.Session.SetDirectory(a.API)

	adminOpts := []admin.Option{
		admin.WithStorage(a.Storage),
		admin.WithExpiryMessage(func() string { return tr.T("admin.sessionExpired", a.Lang.Current()) }),
	}
	if cfg.Admin.TimeBoxed {
		adminOpts = append(adminOpts, admin.WithTimeBox(cfg.Admin.TTL))
	} else {
		adminOpts = append(adminOpts, admin.WithoutTimeBox())
	}
	a.Admin = admin.New(a.API, a.Toasts, log, adminOpts...)
	return a, nil
}

// Start restores a persisted session and starts the admin sweep until ctx is done.
// A failed restore is returned for display; the app stays usable.
func (a *App) Start(ctx context.Context) error {
	go a.Admin.Run(ctx, a.sweep)
	if err := a.Session.Initialize(ctx); err != nil {
		a.Log.Warn("session restore incomplete", zap.Error(err))
		return err
	}
	return nil
}

// Close exits admin mode and releases storage connections.
func (a *App) Close() {
	a.Admin.Exit()
	a.close()
}

// EnsureSchool is the page-load guard: it requires a session and loads school
// data when it is missing.
func (a *App) EnsureSchool(ctx context.Context) (session.State, error) {
	st := a.Session.Snapshot()
	if !st.IsAuthenticated {
		return st, errs.ErrUnauthorized
	}
	if st.School == nil {
		if err := a.Session.LoadSchoolData(ctx); err != nil {
			return a.Session.Snapshot(), err
		}
	}
	return a.Session.Snapshot(), nil
}

// Action is what the UI should do about an error.
type Action int

const (
	ActionNone Action = iota
	ActionRedirectLogin
	ActionToast
)

// Handle maps err to a UI action; toast-worthy errors are shown in the current language.
func (a *App) Handle(err error) Action {
	if err == nil {
		return ActionNone
	}
	if errors.Is(err, errs.ErrUnauthorized) {
		return ActionRedirectLogin
	}
	a.Toasts.Error(a.Message(err))
	return ActionToast
}

// Message renders err for display.
func (a *App) Message(err error) string {
	lang := a.Lang.Current()
	var re *errs.RequestError
	switch {
	case errors.Is(err, errs.ErrUnauthorized):
		return a.Tr.T("auth.sessionEnded", lang)
	case errors.Is(err, errs.ErrAdminRequired):
		return a.Tr.T("admin.required", lang)
	case errors.As(err, &re):
		return re.Error()
	case err.Error() != "":
		return err.Error()
	default:
		return a.Tr.T("errors.unknown", lang)
	}
}
