// Package rest implements the service.Service interface against a JSON REST
// collection such as json-server.
package rest

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

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"google.golang.org/api/googleapi"

	"todo/internal/config"
	"todo/internal/logging"
	"todo/internal/service"
)

const (
	// RequestIDHeader carries a per-request UUID for log correlation.
	RequestIDHeader = "X-Request-ID"

	collectionPath = "tasks"
	itemPath       = "tasks/{id}"
)

// Client implements service.Service over HTTP.
type Client struct {
	basePath   string
	httpClient *http.Client
	timeout    time.Duration
	log        logrus.FieldLogger
	registry   *prometheus.Registry
	metrics    *Metrics
}

// New creates a client for cfg.BaseURL. Requests are instrumented and the
// metrics are exposed through Gatherer.
func New(cfg *config.Config) (*Client, error) {
	reg := prometheus.NewRegistry()
	metrics := NewMetrics(reg)
	httpClient := &http.Client{
		Transport: metrics.InstrumentRoundTripper(http.DefaultTransport),
	}

	c, err := NewWithHTTPClient(cfg.BaseURL, httpClient, cfg.Logger)
	if err != nil {
		return nil, err
	}
	c.registry = reg
	c.metrics = metrics
	if cfg.Timeout > 0 {
		c.timeout = cfg.Timeout
	}
	return c, nil
}

// NewWithHTTPClient creates a client with a custom HTTP client (for testing).
// A nil logger discards logs.
func NewWithHTTPClient(baseURL string, httpClient *http.Client, logger *logrus.Logger) (*Client, error) {
	basePath, err := normalizeBaseURL(baseURL)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = logging.Discard()
	}
	return &Client{
		basePath:   basePath,
		httpClient: httpClient,
		timeout:    config.DefaultTimeout,
		log:        logger.WithField("component", "rest_client"),
		registry:   prometheus.NewRegistry(),
	}, nil
}

// normalizeBaseURL validates the base URL and gives it a trailing slash so
// relative paths resolve beneath it.
func normalizeBaseURL(raw string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", fmt.Errorf("%w: base url: %v", config.ErrInvalidConfig, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("%w: base url must be http or https: %q", config.ErrInvalidConfig, raw)
	}
	if u.Host == "" {
		return "", fmt.Errorf("%w: base url has no host: %q", config.ErrInvalidConfig, raw)
	}
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	u.RawQuery = ""
	u.Fragment = ""
	return u.String(), nil
}

// Gatherer exposes the request metrics.
func (c *Client) Gatherer() prometheus.Gatherer {
	return c.registry
}

// ListTasks returns the whole collection in store order.
func (c *Client) ListTasks(ctx context.Context) ([]service.Task, error) {
	var tasks []service.Task
	if err := c.do(ctx, http.MethodGet, collectionPath, nil, nil, &tasks); err != nil {
		return nil, err
	}
	if tasks == nil {
		tasks = []service.Task{}
	}
	return tasks, nil
}

// CreateTask creates a task and returns it with its store-assigned ID.
func (c *Client) CreateTask(ctx context.Context, in service.Input) (service.Task, error) {
	var task service.Task
	if err := c.do(ctx, http.MethodPost, collectionPath, nil, in, &task); err != nil {
		return service.Task{}, err
	}
	return task, nil
}

// ReplaceTask overwrites the task with the given ID.
func (c *Client) ReplaceTask(ctx context.Context, id service.ID, in service.Input) (service.Task, error) {
	var task service.Task
	params := map[string]string{"id": id.String()}
	if err := c.do(ctx, http.MethodPut, itemPath, params, in, &task); err != nil {
		return service.Task{}, err
	}
	return task, nil
}

// DeleteTask deletes a task. The response body is ignored.
func (c *Client) DeleteTask(ctx context.Context, id service.ID) error {
	params := map[string]string{"id": id.String()}
	return c.do(ctx, http.MethodDelete, itemPath, params, nil, nil)
}

// do sends one request. in, when non-nil, is sent as the JSON body; out,
// when non-nil, receives the decoded JSON response.
func (c *Client) do(ctx context.Context, method, path string, params map[string]string, in, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	urls := googleapi.ResolveRelative(c.basePath, path)
	req, err := http.NewRequestWithContext(ctx, method, urls, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if params != nil {
		googleapi.Expand(req.URL, params)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	requestID := uuid.NewString()
	req.Header.Set(RequestIDHeader, requestID)

	entry := c.log.WithFields(logrus.Fields{
		"method":     method,
		"path":       req.URL.Path,
		"request_id": requestID,
	})

	start := time.Now()
	res, err := c.httpClient.Do(req)
	if err != nil {
		entry.WithError(err).Debug("request failed")
		return wrapError(err)
	}
	defer googleapi.CloseBody(res)

	entry.WithFields(logrus.Fields{
		"status":      res.StatusCode,
		"duration_ms": time.Since(start).Milliseconds(),
	}).Debug("request completed")

	if err := googleapi.CheckResponse(res); err != nil {
		return wrapError(err)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		if errors.Is(err, service.ErrDecode) {
			return err
		}
		if errors.Is(err, context.DeadlineExceeded) {
			return wrapError(err)
		}
		return fmt.Errorf("%w: %v", service.ErrDecode, err)
	}
	return nil
}

// wrapError wraps transport and status errors with user-friendly messages.
func wrapError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("request timed out: %w", err)
	}

	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) && apiErr.Code == http.StatusNotFound {
		return fmt.Errorf("%w: %w", service.ErrNotFound, err)
	}

	return err
}
