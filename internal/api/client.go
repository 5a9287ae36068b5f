// Package api is the single HTTP boundary to the school backend.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/and161185/school-portal/internal/errs"
)

// Session is the part of the session store the client reads and mutates.
type Session interface {
	// Token returns the in-memory bearer token ("" when logged out).
	Token() string
	// PersistedToken returns a usable token from durable storage, or "".
	PersistedToken(ctx context.Context) string
	// Adopt publishes a token found in durable storage without any I/O.
	Adopt(token string)
	// Login persists a freshly issued token and loads school data.
	Login(ctx context.Context, token string) error
	// Logout clears the session; called on 401.
	Logout()
}

// Client issues requests against baseURL with the session's bearer token.
type Client struct {
	baseURL string
	http    *http.Client
	sess    Session
	log     *zap.Logger
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client (no timeout is set by this layer).
func WithHTTPClient(h *http.Client) Option { return func(c *Client) { c.http = h } }

// New constructs a Client.
func New(baseURL string, sess Session, log *zap.Logger, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    http.DefaultClient,
		sess:    sess,
		log:     log,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Result is a successful reply. NoContent marks "no value", which differs from
// a real empty value such as `[]` or `""`.
type Result struct {
	NoContent bool
	JSON      bool
	Body      []byte
}

// Decode unmarshals a JSON result into v. A NoContent result leaves v untouched.
func (r Result) Decode(v any) error {
	if r.NoContent || v == nil {
		return nil
	}
	if !r.JSON {
		if s, ok := v.(*string); ok {
			*s = string(r.Body)
			return nil
		}
		return fmt.Errorf("%w: expected JSON response", errs.ErrRequestFailed)
	}
	if err := json.Unmarshal(r.Body, v); err != nil {
		return fmt.Errorf("%w: decode response: %v", errs.ErrRequestFailed, err)
	}
	return nil
}

// Text returns the raw body of a non-JSON result.
func (r Result) Text() string { return string(r.Body) }

// apiError is the backend's structured error body; message is a string or a list.
type apiError struct {
	StatusCode int             `json:"statusCode"`
	Message    json.RawMessage `json:"message"`
	Error      string          `json:"error"`
}

// Request sends method endpoint with an optional JSON body and classifies the reply.
func (c *Client) Request(ctx context.Context, method, endpoint string, body any, headers http.Header) (Result, error) {
	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return Result{}, fmt.Errorf("encode body: %w", err)
		}
		rdr = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, rdr)
	if err != nil {
		return Result{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	for k, vs := range headers {
		req.Header.Del(k)
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	if tok := c.bearer(ctx); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn("api transport error",
			zap.String("method", method),
			zap.String("path", endpoint),
			zap.Error(err),
		)
		return Result{}, fmt.Errorf("%s %s: %w", method, endpoint, err)
	}
	defer resp.Body.Close()

	c.log.Debug("api",
		zap.String("method", method),
		zap.String("path", endpoint),
		zap.Int("status", resp.StatusCode),
		zap.Duration("dur", time.Since(start)),
	)
	return c.classify(resp)
}

// bearer prefers the in-memory token and falls back to durable storage,
// hydrating the session when the fallback finds one.
func (c *Client) bearer(ctx context.Context) string {
	if tok := c.sess.Token(); tok != "" {
		return tok
	}
	tok := c.sess.PersistedToken(ctx)
	if tok != "" {
		c.sess.Adopt(tok)
	}
	return tok
}

func (c *Client) classify(resp *http.Response) (Result, error) {
	if resp.StatusCode == http.StatusUnauthorized {
		c.sess.Logout()
		return Result{}, fmt.Errorf("%w: please login again", errs.ErrUnauthorized)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Result{}, &errs.RequestError{Status: resp.StatusCode, Message: errorMessage(resp)}
	}

	if resp.StatusCode == http.StatusNoContent || resp.ContentLength == 0 {
		return Result{NoContent: true}, nil
	}
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return Result{}, fmt.Errorf("read response: %w", err)
	}
	// Length unknown (chunked or decompressed by the transport): decide by the body.
	if len(b) == 0 {
		return Result{NoContent: true}, nil
	}
	if isJSON(resp.Header.Get("Content-Type")) {
		return Result{JSON: true, Body: b}, nil
	}
	return Result{Body: b}, nil
}

func errorMessage(resp *http.Response) string {
	fallback := http.StatusText(resp.StatusCode)
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return fallback
	}
	var ae apiError
	if err := json.Unmarshal(b, &ae); err != nil {
		return fallback
	}
	var list []string
	if err := json.Unmarshal(ae.Message, &list); err == nil {
		return strings.Join(list, ", ")
	}
	var msg string
	if err := json.Unmarshal(ae.Message, &msg); err == nil && msg != "" {
		return msg
	}
	if ae.Error != "" {
		return ae.Error
	}
	return fallback
}

func isJSON(ct string) bool {
	mt, _, err := mime.ParseMediaType(ct)
	if err != nil {
		return false
	}
	return mt == "application/json" || strings.HasSuffix(mt, "+json")
}

// get is Request+Decode for reads.
func (c *Client) get(ctx context.Context, endpoint string, out any) error {
	res, err := c.Request(ctx, http.MethodGet, endpoint, nil, nil)
	if err != nil {
		return err
	}
	return res.Decode(out)
}

// send is Request+Decode for mutations.
func (c *Client) send(ctx context.Context, method, endpoint string, body, out any) error {
	res, err := c.Request(ctx, method, endpoint, body, nil)
	if err != nil {
		return err
	}
	return res.Decode(out)
}
