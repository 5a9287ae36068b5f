package upload

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type fakeStore struct {
	mu   sync.Mutex
	key  string
	ct   string
	body []byte
	err  error
}

func (f *fakeStore) Put(_ context.Context, key string, r io.Reader, _ int64, ct string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	f.mu.Lock()
	f.key, f.ct, f.body = key, ct, b
	f.mu.Unlock()
	return "https://cdn.example/" + key, nil
}

type part struct {
	name, filename, ct string
	data               []byte
}

func multipartBody(t *testing.T, parts ...part) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for _, p := range parts {
		if p.filename == "" {
			require.NoError(t, mw.WriteField(p.name, string(p.data)))
			continue
		}
		h := textproto.MIMEHeader{}
		h.Set("Content-Disposition", `form-data; name="`+p.name+`"; filename="`+p.filename+`"`)
		h.Set("Content-Type", p.ct)
		w, err := mw.CreatePart(h)
		require.NoError(t, err)
		_, err = w.Write(p.data)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func do(t *testing.T, h http.Handler, parts ...part) (int, Response) {
	t.Helper()
	body, ct := multipartBody(t, parts...)
	req := httptest.NewRequest(http.MethodPost, "/api/upload", body)
	req.Header.Set("Content-Type", ct)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	var resp Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return rec.Code, resp
}

func TestUpload_GeneratedKey(t *testing.T) {
	st := &fakeStore{}
	h := NewHandler(st, zaptest.NewLogger(t))

	code, resp := do(t, h, part{name: "file", filename: "Photo.PNG", ct: "image/png", data: []byte("png")})
	require.Equal(t, http.StatusOK, code)
	require.True(t, resp.Success)
	require.Regexp(t, `^uploads/[0-9a-f-]{36}\.png$`, resp.Key)
	require.Equal(t, "https://cdn.example/"+resp.Key, resp.URL)
	require.Equal(t, "image/png", st.ct)
	require.Equal(t, []byte("png"), st.body)
}

func TestUpload_FolderAndFileName(t *testing.T) {
	st := &fakeStore{}
	h := NewHandler(st, zaptest.NewLogger(t))

	_, resp := do(t, h,
		part{name: "folder", data: []byte("news")},
		part{name: "file", filename: "a.jpg", ct: "image/jpeg", data: []byte("x")},
	)
	require.True(t, strings.HasPrefix(resp.Key, "news/"))

	_, resp = do(t, h,
		part{name: "fileName", data: []byte("../../etc/teachers/1.jpg")},
		part{name: "file", filename: "a.jpg", ct: "image/jpeg", data: []byte("x")},
	)
	require.Equal(t, "etc/teachers/1.jpg", resp.Key)
}

func TestUpload_Rejections(t *testing.T) {
	h := NewHandler(&fakeStore{}, zaptest.NewLogger(t))

	code, resp := do(t, h, part{name: "folder", data: []byte("x")})
	require.Equal(t, http.StatusBadRequest, code)
	require.False(t, resp.Success)
	require.Equal(t, "No file provided", resp.Error)

	code, resp = do(t, h, part{name: "file", filename: "a.txt", ct: "text/plain", data: []byte("x")})
	require.Equal(t, http.StatusBadRequest, code)
	require.Equal(t, "Only image files are allowed", resp.Error)

	big := make([]byte, MaxSize+1)
	code, resp = do(t, h, part{name: "file", filename: "big.jpg", ct: "image/jpeg", data: big})
	require.Equal(t, http.StatusBadRequest, code)
	require.Equal(t, "File too large. Maximum size is 10MB", resp.Error)
}

func TestUpload_NotMultipart(t *testing.T) {
	h := NewHandler(&fakeStore{}, zaptest.NewLogger(t))
	req := httptest.NewRequest(http.MethodPost, "/api/upload", strings.NewReader("{}"))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpload_StoreFailure(t *testing.T) {
	h := NewHandler(&fakeStore{err: errors.New("bucket gone")}, zaptest.NewLogger(t))
	code, resp := do(t, h, part{name: "file", filename: "a.jpg", ct: "image/jpeg", data: []byte("x")})
	require.Equal(t, http.StatusInternalServerError, code)
	require.False(t, resp.Success)
	require.Contains(t, resp.Error, "bucket gone")
}

func TestSpaces_PutPublicRead(t *testing.T) {
	var (
		gotPath, gotACL, gotCT string
		gotBody                []byte
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotACL = r.Header.Get("X-Amz-Acl")
		gotCT = r.Header.Get("Content-Type")
		gotBody, _ = io.ReadAll(r.Body)
		w.Header().Set("ETag", `"d41d8cd98f00b204e9800998ecf8427e"`)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	s, err := NewSpaces(SpacesConfig{
		Endpoint:  srv.URL,
		Region:    "us-east-1",
		Bucket:    "school",
		AccessKey: "k",
		SecretKey: "s",
		CDN:       "fra1.cdn.digitaloceanspaces.com",
	})
	require.NoError(t, err)

	url, err := s.Put(context.Background(), "news/1.jpg", bytes.NewReader([]byte("img")), 3, "image/jpeg")
	require.NoError(t, err)
	require.Equal(t, "https://school.fra1.cdn.digitaloceanspaces.com/news/1.jpg", url)
	require.Equal(t, "/school/news/1.jpg", gotPath)
	require.Equal(t, "public-read", gotACL)
	require.Equal(t, "image/jpeg", gotCT)
	// plain-http uploads may be aws-chunked, so only look for the payload
	require.Contains(t, string(gotBody), "img")
}

func TestSpaces_URLWithoutCDN(t *testing.T) {
	s, err := NewSpaces(SpacesConfig{Endpoint: "http://127.0.0.1:9000", Bucket: "b", Region: "us-east-1"})
	require.NoError(t, err)
	require.Equal(t, "http://127.0.0.1:9000/b/k.png", s.URL("k.png"))
}
