package proxy

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/api/image-proxy?url="+url.QueryEscape(target), nil)
	if target == "" {
		req = httptest.NewRequest(http.MethodGet, "/api/image-proxy", nil)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestAllowed(t *testing.T) {
	h := NewHandler(http.DefaultClient, "", zaptest.NewLogger(t))
	require.True(t, h.Allowed("https://school.fra1.digitaloceanspaces.com/a.png"))
	require.True(t, h.Allowed("https://DigitalOceanSpaces.com/a.png"))
	require.False(t, h.Allowed("https://digitaloceanspaces.com.evil.io/a.png"))
	require.False(t, h.Allowed("https://evil.io/digitaloceanspaces.com/a.png"))
	require.False(t, h.Allowed("ftp://x.digitaloceanspaces.com/a.png"))
	require.False(t, h.Allowed("::not a url"))
}

func TestProxy_Streams(t *testing.T) {
	up := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/img.png" {
			w.Header().Set("Content-Type", "image/png")
			_, _ = w.Write([]byte("PNG"))
			return
		}
		http.NotFound(w, r)
	}))
	defer up.Close()

	h := NewHandler(up.Client(), "127.0.0.1", zaptest.NewLogger(t))

	rec := get(t, h, up.URL+"/img.png")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "PNG", rec.Body.String())
	require.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	require.Equal(t, "public, max-age=3600", rec.Header().Get("Cache-Control"))
	require.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	require.Equal(t, "GET", rec.Header().Get("Access-Control-Allow-Methods"))

	rec = get(t, h, up.URL+"/missing.png")
	require.Equal(t, http.StatusNotFound, rec.Code)
}

type doerFunc func(*http.Request) (*http.Response, error)

func (f doerFunc) Do(r *http.Request) (*http.Response, error) { return f(r) }

func TestProxy_DefaultContentType(t *testing.T) {
	up := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header()["Content-Type"] = nil
		_, _ = w.Write([]byte{0xff, 0xd8, 0xff})
	}))
	defer up.Close()

	h := NewHandler(up.Client(), "127.0.0.1", zaptest.NewLogger(t))
	rec := get(t, h, up.URL+"/x")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "image/jpeg", rec.Header().Get("Content-Type"))
}

func TestProxy_Errors(t *testing.T) {
	failing := doerFunc(func(*http.Request) (*http.Response, error) { return nil, errors.New("dial") })
	h := NewHandler(failing, "", zaptest.NewLogger(t))

	require.Equal(t, http.StatusBadRequest, get(t, h, "").Code)
	require.Equal(t, http.StatusBadRequest, get(t, h, "https://example.com/a.png").Code)
	require.Equal(t, http.StatusInternalServerError, get(t, h, "https://b.digitaloceanspaces.com/a.png").Code)
}
