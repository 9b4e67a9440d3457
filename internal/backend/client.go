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
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"bookcurator/internal/book"
	"bookcurator/internal/logger"
	"bookcurator/internal/metrics"
)

var (
	// ErrDecode means the backend answered with something that is not JSON.
	ErrDecode = errors.New("backend: response is not valid JSON")
	// ErrSchema means the JSON does not have the expected shape.
	ErrSchema = errors.New("backend: unexpected response shape")
)

const maxBody = 4 << 20

// Client talks to the recommendation backend over JSON HTTP.
type Client struct {
	baseURL string
	client  *http.Client
	log     *logrus.Logger
	schemas schemaSet
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.client = hc }
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.client.Timeout = d }
}

func WithLogger(l *logrus.Logger) Option {
	return func(c *Client) { c.log = l }
}

// WithoutSchemaChecks skips JSON shape validation; bodies are still decoded.
func WithoutSchemaChecks() Option {
	return func(c *Client) { c.schemas = nil }
}

func New(baseURL string, opts ...Option) (*Client, error) {
	if _, err := url.ParseRequestURI(baseURL); err != nil {
		return nil, fmt.Errorf("backend url %q: %w", baseURL, err)
	}
	schemas, err := compileSchemas()
	if err != nil {
		return nil, err
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  newHTTPClient(30 * time.Second),
		log:     logrus.StandardLogger(),
		schemas: schemas,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func newHTTPClient(timeout time.Duration) *http.Client {
	t := &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		ForceAttemptHTTP2:   true,
	}
	return &http.Client{Transport: t, Timeout: timeout}
}

func (c *Client) BaseURL() string { return c.baseURL }

// Recommend calls POST /api/recommend.
func (c *Client) Recommend(ctx context.Context, req book.RecommendRequest) (*book.RecommendationResponse, error) {
	var out book.RecommendationResponse
	if err := c.do(ctx, http.MethodPost, "/api/recommend", nil, req, "recommendation", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// RecommendMood calls POST /api/recommend/mood.
func (c *Client) RecommendMood(ctx context.Context, req book.MoodRequest) (*book.RecommendationResponse, error) {
	var out book.RecommendationResponse
	if err := c.do(ctx, http.MethodPost, "/api/recommend/mood", nil, req, "recommendation", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Chat calls POST /api/recommend/chat.
func (c *Client) Chat(ctx context.Context, req book.ChatRequest) (*book.ChatResponse, error) {
	var out book.ChatResponse
	if err := c.do(ctx, http.MethodPost, "/api/recommend/chat", nil, req, "chat", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Search calls GET /api/search.
func (c *Client) Search(ctx context.Context, q book.ListQuery) (*book.SearchResponse, error) {
	return c.list(ctx, "/api/search", q)
}

// Bestsellers calls GET /api/bestsellers.
func (c *Client) Bestsellers(ctx context.Context, q book.ListQuery) (*book.SearchResponse, error) {
	return c.list(ctx, "/api/bestsellers", q)
}

// NewReleases calls GET /api/new-releases.
func (c *Client) NewReleases(ctx context.Context, q book.ListQuery) (*book.SearchResponse, error) {
	return c.list(ctx, "/api/new-releases", q)
}

// Categories calls GET /api/categories.
func (c *Client) Categories(ctx context.Context) ([]string, error) {
	var out book.CategoriesResponse
	if err := c.do(ctx, http.MethodGet, "/api/categories", nil, nil, "categories", &out); err != nil {
		return nil, err
	}
	return out.Categories, nil
}

func (c *Client) list(ctx context.Context, path string, q book.ListQuery) (*book.SearchResponse, error) {
	var out book.SearchResponse
	if err := c.do(ctx, http.MethodGet, path, listParams(q), nil, "search", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func listParams(q book.ListQuery) url.Values {
	v := url.Values{}
	if q.Query != "" {
		v.Set("query", q.Query)
	}
	if q.Type != "" {
		v.Set("type", q.Type)
	}
	if q.Category != "" {
		v.Set("category", q.Category)
	}
	if q.Limit > 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
	}
	return v
}

// do sends one request and decodes the JSON answer into out.
// The body is decoded whatever the status code: error payloads are JSON too.
func (c *Client) do(ctx context.Context, method, path string, params url.Values, body any, schema string, out any) (err error) {
	start := time.Now()
	defer logger.Track(ctx, "backend "+method+" "+path)()
	defer func() {
		outcome := "ok"
		switch {
		case errors.Is(err, ErrDecode), errors.Is(err, ErrSchema):
			outcome = "bad_response"
		case err != nil:
			outcome = "transport_error"
		}
		metrics.BackendCallsTotal.WithLabelValues(path, outcome).Inc()
		metrics.BackendCallDuration.WithLabelValues(path).Observe(time.Since(start).Seconds())
	}()

	target := c.baseURL + path
	if len(params) > 0 {
		target += "?" + params.Encode()
	}

	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal body: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if id := logger.IDFrom(ctx); id != "" {
		req.Header.Set("X-Request-ID", id)
	}

	if c.log.IsLevelEnabled(logrus.DebugLevel) {
		c.log.WithFields(logrus.Fields{
			"method": method,
			"url":    target,
			"body":   body,
		}).Debug("backend.request")
	}

	res, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("upstream do: %w", err)
	}
	defer res.Body.Close()

	data, err := io.ReadAll(io.LimitReader(res.Body, maxBody))
	if err != nil {
		return fmt.Errorf("read body: %w", err)
	}

	if c.log.IsLevelEnabled(logrus.DebugLevel) {
		c.log.WithFields(logrus.Fields{
			"url":           target,
			"status":        res.StatusCode,
			"response_body": string(data),
		}).Debug("backend.response")
	}

	if !json.Valid(data) {
		return fmt.Errorf("%w (status %d)", ErrDecode, res.StatusCode)
	}
	if c.schemas != nil {
		if err := c.schemas.check(schema, data); err != nil {
			return err
		}
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return nil
}
