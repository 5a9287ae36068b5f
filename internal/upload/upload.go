// Package upload accepts image uploads and stores them in object storage.
package upload

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"path"
	"path/filepath"
	"strings"

	"github.com/gofrs/uuid/v5"
	"go.uber.org/zap"
)

// MaxSize is the largest accepted file.
const MaxSize = 10 << 20

// DefaultFolder prefixes generated keys when the form names no folder.
const DefaultFolder = "uploads"

// ObjectStore stores a public object and returns its URL.
type ObjectStore interface {
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) (url string, err error)
}

// Response is the JSON reply of the upload endpoint.
type Response struct {
	Success bool   `json:"success"`
	URL     string `json:"url,omitempty"`
	Key     string `json:"key,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Handler serves POST multipart uploads with fields file, folder and fileName.
type Handler struct {
	store ObjectStore
	log   *zap.Logger
}

// NewHandler constructs the upload endpoint.
func NewHandler(store ObjectStore, log *zap.Logger) *Handler {
	return &Handler{store: store, log: log}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// Room for the multipart envelope around a maximal file.
	r.Body = http.MaxBytesReader(w, r.Body, MaxSize+1<<20)
	if err := r.ParseMultipartForm(MaxSize); err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			h.fail(w, http.StatusBadRequest, "File too large. Maximum size is 10MB")
			return
		}
		h.fail(w, http.StatusBadRequest, "No file provided")
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	file, hdr, err := r.FormFile("file")
	if err != nil {
		h.fail(w, http.StatusBadRequest, "No file provided")
		return
	}
	defer file.Close()

	if hdr.Size > MaxSize {
		h.fail(w, http.StatusBadRequest, "File too large. Maximum size is 10MB")
		return
	}
	ct := hdr.Header.Get("Content-Type")
	if !strings.HasPrefix(ct, "image/") {
		h.fail(w, http.StatusBadRequest, "Only image files are allowed")
		return
	}

	key := objectKey(r.FormValue("folder"), r.FormValue("fileName"), hdr.Filename)
	url, err := h.store.Put(r.Context(), key, file, hdr.Size, ct)
	if err != nil {
		h.log.Error("upload failed", zap.String("key", key), zap.Error(err))
		h.fail(w, http.StatusInternalServerError, err.Error())
		return
	}
	h.log.Info("uploaded", zap.String("key", key), zap.Int64("size", hdr.Size))
	writeJSON(w, http.StatusOK, Response{Success: true, URL: url, Key: key})
}

// objectKey uses the caller's fileName when given, else folder/<uuid><ext>.
func objectKey(folder, fileName, original string) string {
	if name := clean(fileName); name != "" {
		return name
	}
	folder = clean(folder)
	if folder == "" {
		folder = DefaultFolder
	}
	ext := strings.ToLower(filepath.Ext(original))
	return folder + "/" + uuid.Must(uuid.NewV4()).String() + ext
}

// clean normalizes a client-supplied key and keeps it from climbing out of the bucket root.
func clean(p string) string {
	p = strings.TrimSpace(p)
	if p == "" {
		return ""
	}
	p = strings.TrimPrefix(path.Clean("/"+p), "/")
	if p == "." {
		return ""
	}
	return p
}

func (h *Handler) fail(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, Response{Error: msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
