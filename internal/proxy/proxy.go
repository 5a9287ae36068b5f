// Package proxy relays images from the object storage domain so pages can
// embed them without cross-origin trouble.
package proxy

import (
	"io"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"
)

// DefaultDomain is the storage domain images may be fetched from.
const DefaultDomain = "digitaloceanspaces.com"

// Doer sends the upstream request.
type Doer interface {
	Do(*http.Request) (*http.Response, error)
}

// Handler serves GET ?url=<image>.
type Handler struct {
	client Doer
	domain string
	log    *zap.Logger
}

// NewHandler constructs the proxy; an empty domain means DefaultDomain.
func NewHandler(client Doer, domain string, log *zap.Logger) *Handler {
	if domain == "" {
		domain = DefaultDomain
	}
	return &Handler{client: client, domain: strings.ToLower(domain), log: log}
}

// Allowed reports whether raw is an http(s) URL on the storage domain or a subdomain of it.
func (h *Handler) Allowed(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return false
	}
	host := strings.ToLower(u.Hostname())
	return host == h.domain || strings.HasSuffix(host, "."+h.domain)
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("url")
	if raw == "" {
		http.Error(w, "Missing image URL parameter", http.StatusBadRequest)
		return
	}
	if !h.Allowed(raw) {
		http.Error(w, "Invalid image URL domain", http.StatusBadRequest)
		return
	}

	req, err := http.NewRequestWithContext(r.Context(), http.MethodGet, raw, nil)
	if err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	resp, err := h.client.Do(req)
	if err != nil {
		h.log.Warn("image fetch failed", zap.String("url", raw), zap.Error(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		h.log.Debug("image upstream status", zap.String("url", raw), zap.Int("status", resp.StatusCode))
		http.Error(w, "Image not found", http.StatusNotFound)
		return
	}

	ct := resp.Header.Get("Content-Type")
	if ct == "" {
		ct = "image/jpeg"
	}
	hd := w.Header()
	hd.Set("Content-Type", ct)
	hd.Set("Cache-Control", "public, max-age=3600")
	hd.Set("Access-Control-Allow-Origin", "*")
	hd.Set("Access-Control-Allow-Methods", "GET")
	hd.Set("Access-Control-Allow-Headers", "Content-Type")
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, resp.Body); err != nil {
		h.log.Debug("image copy interrupted", zap.Error(err))
	}
}
