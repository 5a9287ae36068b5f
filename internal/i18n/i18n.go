// Package i18n holds the static ru/kz string table, localized dates and the
// persisted UI language preference.
package i18n

import (
	"fmt"
	"time"

	"github.com/go-playground/locales"
	"github.com/go-playground/locales/kk"
	"github.com/go-playground/locales/ru"
	ut "github.com/go-playground/universal-translator"

	"github.com/and161185/school-portal/internal/model"
)

// Translator looks up table keys in either language.
type Translator struct {
	byLang map[model.Language]ut.Translator
}

// localeOf maps the backend's language tag to a CLDR locale; Kazakh is "kk" in CLDR.
var localeOf = map[model.Language]string{
	model.LangRU: "ru",
	model.LangKZ: "kk",
}

// New loads the table into a universal translator.
func New() (*Translator, error) {
	ruLoc, kkLoc := ru.New(), kk.New()
	uni := ut.New(ruLoc, ruLoc, kkLoc)

	t := &Translator{byLang: map[model.Language]ut.Translator{}}
	for lang, loc := range localeOf {
		tr, found := uni.GetTranslator(loc)
		if !found {
			return nil, fmt.Errorf("i18n: locale %q not registered", loc)
		}
		t.byLang[lang] = tr
	}
	for key, e := range table {
		if err := t.byLang[model.LangRU].Add(key, e.ru, false); err != nil {
			return nil, fmt.Errorf("i18n: add %s: %w", key, err)
		}
		if err := t.byLang[model.LangKZ].Add(key, e.kz, false); err != nil {
			return nil, fmt.Errorf("i18n: add %s: %w", key, err)
		}
	}
	return t, nil
}

// T returns key translated into lang, or key itself when unknown.
// An unsupported lang falls back to Russian.
func (t *Translator) T(key string, lang model.Language) string {
	s, err := t.locale(lang).T(key)
	if err != nil || s == "" {
		return key
	}
	return s
}

func (t *Translator) locale(lang model.Language) ut.Translator {
	if tr, ok := t.byLang[lang]; ok {
		return tr
	}
	return t.byLang[model.LangRU]
}

// FormatDate renders t as "dd <month> yyyy" with CLDR month names of lang.
func (t *Translator) FormatDate(d time.Time, lang model.Language) string {
	var loc locales.Translator = t.locale(lang)
	return fmt.Sprintf("%02d %s %d", d.Day(), loc.MonthWide(d.Month()), d.Year())
}

// ParseDate accepts the backend's date forms: RFC 3339 or a bare date.
func ParseDate(s string) (time.Time, error) {
	if d, err := time.Parse(time.RFC3339, s); err == nil {
		return d, nil
	}
	return time.Parse(time.DateOnly, s)
}

// Localize picks the text for lang; anything but kz reads Russian.
func Localize(ruText, kzText string, lang model.Language) string {
	if lang == model.LangKZ {
		return kzText
	}
	return ruText
}
