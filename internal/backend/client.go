package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"event-ticketing-storefront/internal/auth"
	"event-ticketing-storefront/internal/models"
)

const (
	// IdempotencyKeyHeader carries the per-submission key on booking creation
	IdempotencyKeyHeader = "X-Idempotency-Key"

	// RootPath is where the 401 interceptor sends the caller
	RootPath = "/"

	maxResponseBytes = 4 << 20
)

// Navigator is the caller's notion of "current location". The storefront
// maps it onto an HTTP redirect, ticketctl onto a virtual path.
type Navigator interface {
	CurrentPath() string
	Replace(path string)
}

// Client talks to the ticketing REST backend. It is safe for concurrent use;
// per-caller credentials are bound with WithSession.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
	cache      *CatalogCache
}

// NewClient creates a backend client rooted at baseURL (e.g. http://host/api)
func NewClient(baseURL string, timeout time.Duration, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// WithCache enables the read-through catalog cache
func (c *Client) WithCache(cache *CatalogCache) *Client {
	c.cache = cache
	return c
}

// WithSession binds a credential store and navigator to the client. A nil
// navigator disables the redirect half of the 401 interceptor.
func (c *Client) WithSession(store auth.Store, nav Navigator) *Session {
	if store == nil {
		store = auth.NewMemoryStore()
	}
	return &Session{client: c, store: store, nav: nav}
}

// Session is a Client bound to one caller's credentials
type Session struct {
	client *Client
	store  auth.Store
	nav    Navigator
}

// Store returns the bound credential store
func (s *Session) Store() auth.Store {
	return s.store
}

type request struct {
	method string
	path   string
	query  url.Values
	body   any

	// raw bodies (multipart) bypass JSON encoding
	rawBody     io.Reader
	contentType string

	header http.Header

	// authenticated requests carry the bearer token
	authenticated bool

	// auth endpoints answer 401 for bad credentials and must not
	// tear down the session
	skipInterceptor bool
}

// envelope is the part of every backend answer the classifier looks at
type envelope struct {
	Success *bool  `json:"success"`
	Message string `json:"message"`
	Error   string `json:"error"`
}

func (e envelope) text() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Error
}

// do sends the request and returns the body of a successful answer. Every
// failure is classified into a *models.APIError here and nowhere else. There
// are no retries.
func (s *Session) do(ctx context.Context, r *request) ([]byte, error) {
	req, err := s.newHTTPRequest(ctx, r)
	if err != nil {
		return nil, &models.APIError{Kind: models.KindUnknown, Message: "failed to build request", Err: err}
	}

	start := time.Now()
	resp, err := s.client.httpClient.Do(req)
	if err != nil {
		s.client.logger.Warn("Backend request failed",
			zap.String("method", r.method),
			zap.String("path", r.path),
			zap.Duration("latency", time.Since(start)),
			zap.Error(err),
		)
		return nil, &models.APIError{Kind: models.KindUnknown, Message: "backend unreachable", Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, &models.APIError{Kind: models.KindUnknown, Status: resp.StatusCode, Message: "failed to read response", Err: err}
	}

	s.client.logger.Debug("Backend request completed",
		zap.String("method", r.method),
		zap.String("path", r.path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("latency", time.Since(start)),
	)

	if err := s.classify(r, resp.StatusCode, data); err != nil {
		return nil, err
	}
	return data, nil
}

func (s *Session) newHTTPRequest(ctx context.Context, r *request) (*http.Request, error) {
	target := s.client.baseURL + r.path
	if len(r.query) > 0 {
		target += "?" + r.query.Encode()
	}

	var body io.Reader
	contentType := ""
	switch {
	case r.rawBody != nil:
		body = r.rawBody
		contentType = r.contentType
	case r.body != nil:
		payload, err := json.Marshal(r.body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		body = bytes.NewReader(payload)
		contentType = "application/json"
	}

	req, err := http.NewRequestWithContext(ctx, r.method, target, body)
	if err != nil {
		return nil, err
	}

	for key, values := range r.header {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if r.authenticated {
		if token := s.store.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}
	return req, nil
}

func (s *Session) classify(r *request, status int, data []byte) error {
	var env envelope
	decodeErr := json.Unmarshal(data, &env)

	switch {
	case status >= 200 && status < 300:
		if decodeErr == nil && env.Success != nil && !*env.Success {
			return &models.APIError{Kind: models.KindInvalidRequest, Status: status, Message: env.text()}
		}
		return nil

	case status == http.StatusUnauthorized:
		if r.skipInterceptor {
			return &models.APIError{Kind: models.KindUnauthorized, Status: status, Message: env.text()}
		}
		return s.intercept(env.text())

	case status == http.StatusForbidden:
		return &models.APIError{Kind: models.KindUnauthorized, Status: status, Message: messageOr(env.text(), "You do not have permission to access this resource.")}

	case status >= 400 && status < 500:
		return &models.APIError{Kind: models.KindInvalidRequest, Status: status, Message: messageOr(env.text(), http.StatusText(status))}

	default:
		return &models.APIError{Kind: models.KindUnknown, Status: status, Message: messageOr(env.text(), http.StatusText(status))}
	}
}

// intercept implements the global 401 policy: forget the credentials and
// send the caller to the root route unless already there
func (s *Session) intercept(backendMessage string) error {
	if err := s.store.Clear(); err != nil {
		s.client.logger.Warn("Failed to clear session after 401", zap.Error(err))
	}
	if s.nav != nil && s.nav.CurrentPath() != RootPath {
		s.nav.Replace(RootPath)
	}

	message := "You do not have permission to access this resource."
	if strings.Contains(backendMessage, "JWT expired") {
		message = "Your session has expired. Please sign in again."
	}
	return &models.APIError{Kind: models.KindUnauthorized, Status: http.StatusUnauthorized, Message: message}
}

func messageOr(message, fallback string) string {
	if message != "" {
		return message
	}
	return fallback
}

// decode unmarshals a successful body; a body that does not match the
// expected shape is an Unknown failure
func decode(data []byte, v any) error {
	if err := json.Unmarshal(data, v); err != nil {
		return &models.APIError{Kind: models.KindUnknown, Message: "unexpected response from backend", Err: err}
	}
	return nil
}

// decodePage reads a paginated list. The backend names the item array either
// "items" or after the resource (users, events, ...).
func decodePage[T any](data []byte, key string) (*models.Page[T], error) {
	var raw map[string]json.RawMessage
	if err := decode(data, &raw); err != nil {
		return nil, err
	}

	page := &models.Page[T]{Items: []T{}}
	items, ok := raw["items"]
	if !ok {
		items = raw[key]
	}
	if len(items) > 0 && string(items) != "null" {
		if err := decode(items, &page.Items); err != nil {
			return nil, err
		}
	}

	for field, dst := range map[string]*int{"total": &page.Total, "page": &page.Page, "totalPages": &page.TotalPages} {
		if v, ok := raw[field]; ok {
			var n models.Amount
			if err := decode(v, &n); err != nil {
				return nil, err
			}
			*dst = n.Int()
		}
	}
	if page.Total == 0 {
		page.Total = len(page.Items)
	}
	return page, nil
}

// pageQuery builds the common page/limit parameters plus non-empty filters
func pageQuery(page, limit int, filters map[string]string) url.Values {
	q := url.Values{}
	if page > 0 {
		q.Set("page", fmt.Sprint(page))
	}
	if limit > 0 {
		q.Set("limit", fmt.Sprint(limit))
	}
	for k, v := range filters {
		if v != "" {
			q.Set(k, v)
		}
	}
	return q
}

// IsUnauthorized reports whether err is an authorization failure
func IsUnauthorized(err error) bool {
	return errors.Is(err, models.ErrUnauthorized)
}

// PathNavigator is a Navigator over a plain string, used by ticketctl and
// in tests
type PathNavigator struct {
	path     string
	replaced []string
}

// NewPathNavigator starts at path
func NewPathNavigator(path string) *PathNavigator {
	return &PathNavigator{path: path}
}

func (n *PathNavigator) CurrentPath() string { return n.path }

func (n *PathNavigator) Replace(path string) {
	n.path = path
	n.replaced = append(n.replaced, path)
}

// Replaced returns every path navigated to, in order
func (n *PathNavigator) Replaced() []string {
	return n.replaced
}
