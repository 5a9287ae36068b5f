// Package validate implements the client-side checks that fail with errs.ErrValidation.
package validate

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"net/http"
	"net/url"
	"reflect"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/and161185/school-portal/internal/errs"
)

var (
	v = newValidator()

	imageExtensions = []string{".jpg", ".jpeg", ".png", ".gif", ".webp", ".svg"}
)

func newValidator() *validator.Validate {
	val := validator.New()
	// Use JSON tag names for errors instead of Go struct names.
	val.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return val
}

// Struct validates `validate` tags of s; failing fields are listed by JSON name.
func Struct(s any) error {
	err := v.Struct(s)
	if err == nil {
		return nil
	}
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return fmt.Errorf("%w: %v", errs.ErrValidation, err)
	}
	fields := make([]string, 0, len(ve))
	for _, fe := range ve {
		fields = append(fields, fe.Field()+" ("+fe.Tag()+")")
	}
	return fmt.Errorf("%w: %s", errs.ErrValidation, strings.Join(fields, ", "))
}

// Email reports whether s looks like an email address.
func Email(s string) bool {
	return v.Var(s, "required,email") == nil
}

// Required returns one message per empty field; an empty result means all present.
// Nil, zero numbers and blank strings count as empty.
func Required(fields map[string]any) []string {
	var out []string
	for _, name := range slices.Sorted(maps.Keys(fields)) {
		val := fields[name]
		if s, ok := val.(string); ok {
			if strings.TrimSpace(s) == "" {
				out = append(out, fmt.Sprintf("Поле %s обязательно для заполнения", name))
			}
			continue
		}
		if v.Var(val, "required") != nil {
			out = append(out, fmt.Sprintf("Поле %s обязательно для заполнения", name))
		}
	}
	return out
}

// RequiredErr wraps Required into a single ErrValidation error.
func RequiredErr(fields map[string]any) error {
	if msgs := Required(fields); len(msgs) > 0 {
		return fmt.Errorf("%w: %s", errs.ErrValidation, strings.Join(msgs, "; "))
	}
	return nil
}

// HTTPDoer is the part of *http.Client used for image probes.
type HTTPDoer interface {
	Do(*http.Request) (*http.Response, error)
}

// ImageURL checks an optional image URL: empty passes; otherwise it must be
// http(s), carry an image extension and answer HEAD with 2xx image/*.
func ImageURL(ctx context.Context, client HTTPDoer, raw string) error {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: image url must be http(s)", errs.ErrValidation)
	}
	if !HasImageExtension(u.Path) {
		return fmt.Errorf("%w: image url has no image extension", errs.ErrValidation)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, raw, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", errs.ErrValidation, err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: image unreachable: %v", errs.ErrValidation, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: image unreachable: status %d", errs.ErrValidation, resp.StatusCode)
	}
	if !strings.HasPrefix(resp.Header.Get("Content-Type"), "image/") {
		return fmt.Errorf("%w: not an image", errs.ErrValidation)
	}
	return nil
}

// HasImageExtension reports whether path mentions a known image extension.
func HasImageExtension(path string) bool {
	p := strings.ToLower(path)
	for _, ext := range imageExtensions {
		if strings.Contains(p, ext) {
			return true
		}
	}
	return false
}

// ImageChanged reports whether the form's image differs from the stored one;
// unchanged images skip validation.
func ImageChanged(original, current string) bool { return original != current }
