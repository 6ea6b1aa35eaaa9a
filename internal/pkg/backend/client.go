package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"

	"github.com/penfolio/penfolio/internal/app/models"
	"github.com/penfolio/penfolio/internal/app/observability/metrics"
	"github.com/penfolio/penfolio/internal/pkg/config"
)

// Client talks to the remote PenFolio API, the single owner of
// authentication and persistence. Every call takes the request context
// and runs under the configured per-call timeout so a hung backend can
// never block a request indefinitely.
type Client struct {
	baseURL string
	httpc   *http.Client
	timeout time.Duration
	logger  *zap.Logger
}

func NewClient(cfg config.BackendConfig, logger *zap.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		httpc:   &http.Client{},
		timeout: cfg.Timeout,
		logger:  logger,
	}
}

// StatusError is an HTTP-level rejection from the backend, as opposed
// to a connectivity failure. Message carries the backend's own wording
// when the response body had one.
type StatusError struct {
	Status  int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("backend returned %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("backend returned %d", e.Status)
}

// LoginResult is the body of a successful POST /api/auth/login.
type LoginResult struct {
	User    models.User `json:"user"`
	Access  string      `json:"access"`
	Refresh string      `json:"refresh"`
}

type dataEnvelope struct {
	Data json.RawMessage `json:"data"`
}

type itemsEnvelope struct {
	Items []models.Note `json:"items"`
}

// errorBody matches the two error shapes the backend uses. "detail"
// comes from its validation layer, "message" from everything else.
type errorBody struct {
	Message string `json:"message"`
	Detail  string `json:"detail"`
}

func (c *Client) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	body := map[string]string{"username": username, "password": password}

	var out LoginResult
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", "", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Register(ctx context.Context, username, email, password string) error {
	body := map[string]string{"username": username, "email": email, "password": password}
	return c.do(ctx, http.MethodPost, "/api/auth/register", "", body, nil)
}

func (c *Client) ListJournals(ctx context.Context, token string) ([]models.Note, error) {
	var env dataEnvelope
	if err := c.do(ctx, http.MethodGet, "/api/journals/", token, nil, &env); err != nil {
		return nil, err
	}
	var items itemsEnvelope
	if len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, &items); err != nil {
			return nil, errors.Wrap(err, "decoding journal list")
		}
	}
	if items.Items == nil {
		return []models.Note{}, nil
	}
	return items.Items, nil
}

func (c *Client) CreateJournal(ctx context.Context, token string, draft models.NoteDraft) (*models.Note, error) {
	var env dataEnvelope
	if err := c.do(ctx, http.MethodPost, "/api/journals/", token, draft, &env); err != nil {
		return nil, err
	}
	return decodeNote(env.Data)
}

func (c *Client) UpdateJournal(ctx context.Context, token string, id int64, update models.NoteUpdate) (*models.Note, error) {
	var env dataEnvelope
	path := fmt.Sprintf("/api/journals/%d", id)
	if err := c.do(ctx, http.MethodPut, path, token, update, &env); err != nil {
		return nil, err
	}
	return decodeNote(env.Data)
}

func (c *Client) DeleteJournal(ctx context.Context, token string, id int64) error {
	path := fmt.Sprintf("/api/journals/%d", id)
	return c.do(ctx, http.MethodDelete, path, token, nil, nil)
}

func decodeNote(raw json.RawMessage) (*models.Note, error) {
	var note models.Note
	if err := json.Unmarshal(raw, &note); err != nil {
		return nil, errors.Wrap(err, "decoding journal entry")
	}
	return &note, nil
}

// do issues one request and decodes the response into out (when out is
// non-nil and the response has a body). Non-2xx statuses become a
// *StatusError carrying whatever message the body had; transport
// failures wrap models.ErrUnreachable so callers can tell the two
// apart.
func (c *Client) do(ctx context.Context, method, path, token string, in, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var reqBody io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return errors.Wrap(err, "encoding request body")
		}
		reqBody = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return errors.Wrap(err, "building request")
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.httpc.Do(req)
	if err != nil {
		c.logger.Warn("Backend request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.Error(err),
		)
		return errors.Wrapf(models.ErrUnreachable, "%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	elapsed := time.Since(start)
	metrics.Get().BackendRequestDuration.Record(ctx, elapsed.Seconds(),
		metric.WithAttributes(
			attribute.String("method", method),
			attribute.String("path", path),
		))
	c.logger.Debug("Backend request completed",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", elapsed),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{Status: resp.StatusCode, Message: readErrorMessage(resp.Body)}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.Wrap(err, "decoding response body")
	}
	return nil
}

// readErrorMessage pulls the backend's own wording out of an error
// body. A missing or malformed body yields "" and the caller's generic
// fallback applies.
func readErrorMessage(r io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(r, 1<<16))
	if err != nil || len(raw) == 0 {
		return ""
	}
	var body errorBody
	if err := json.Unmarshal(raw, &body); err != nil {
		return ""
	}
	if body.Message != "" {
		return body.Message
	}
	return body.Detail
}
