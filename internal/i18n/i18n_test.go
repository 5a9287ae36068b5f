package i18n

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/and161185/school-portal/internal/errs"
	"github.com/and161185/school-portal/internal/model"
	"github.com/and161185/school-portal/internal/storage"
)

func TestTranslator_T(t *testing.T) {
	tr, err := New()
	require.NoError(t, err)

	require.Equal(t, "Главная", tr.T("navigation.home", model.LangRU))
	require.Equal(t, "Басты бет", tr.T("navigation.home", model.LangKZ))
	require.Equal(t, "Әкімші сеансының мерзімі аяқталды", tr.T("admin.sessionExpired", model.LangKZ))

	require.Equal(t, "navigation.nope", tr.T("navigation.nope", model.LangRU))
	require.Equal(t, "navigation", tr.T("navigation", model.LangKZ))
	require.Equal(t, "Ошибка", tr.T("common.error", "en"))
}

func TestTableComplete(t *testing.T) {
	for k, e := range table {
		require.NotEmpty(t, e.ru, k)
		require.NotEmpty(t, e.kz, k)
	}
}

func TestFormatDate(t *testing.T) {
	tr, err := New()
	require.NoError(t, err)
	d := time.Date(2024, time.September, 1, 12, 0, 0, 0, time.UTC)

	require.Equal(t, "01 сентября 2024", tr.FormatDate(d, model.LangRU))
	kz := tr.FormatDate(d, model.LangKZ)
	require.Regexp(t, `^01 \S+ 2024$`, kz)
	require.NotEqual(t, "01 сентября 2024", kz)
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-09-01")
	require.NoError(t, err)
	require.Equal(t, time.September, d.Month())

	d, err = ParseDate("2024-09-01T08:30:00Z")
	require.NoError(t, err)
	require.Equal(t, 8, d.Hour())

	_, err = ParseDate("yesterday")
	require.Error(t, err)
}

func TestLocalize(t *testing.T) {
	require.Equal(t, "ru", Localize("ru", "kz", model.LangRU))
	require.Equal(t, "kz", Localize("ru", "kz", model.LangKZ))
	require.Equal(t, "ru", Localize("ru", "kz", ""))
}

func TestLanguageStore(t *testing.T) {
	ctx := context.Background()
	st := storage.NewMemory()
	log := zaptest.NewLogger(t)

	s := NewLanguageStore(ctx, st, log)
	require.Equal(t, model.LangRU, s.Current())

	var seen []model.Language
	cancel := s.Subscribe(func(l model.Language) { seen = append(seen, l) })
	defer cancel()

	got, err := s.Toggle(ctx)
	require.NoError(t, err)
	require.Equal(t, model.LangKZ, got)
	v, err := st.Get(ctx, storage.KeyLanguage)
	require.NoError(t, err)
	require.Equal(t, "kz", v)

	require.ErrorIs(t, s.Set(ctx, "en"), errs.ErrValidation)
	require.Equal(t, model.LangKZ, s.Current())

	// a fresh store picks up the saved value
	require.Equal(t, model.LangKZ, NewLanguageStore(ctx, st, log).Current())

	got, err = s.Toggle(ctx)
	require.NoError(t, err)
	require.Equal(t, model.LangRU, got)
	require.Equal(t, []model.Language{model.LangRU, model.LangKZ, model.LangRU}, seen)
}

func TestLanguageStore_IgnoresGarbage(t *testing.T) {
	ctx := context.Background()
	st := storage.NewMemory()
	require.NoError(t, st.Set(ctx, storage.KeyLanguage, "fr"))
	require.Equal(t, model.LangRU, NewLanguageStore(ctx, st, zaptest.NewLogger(t)).Current())
}
