package mcp

import (
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

	"github.com/meltforce/barload/internal/models"
	"github.com/meltforce/barload/internal/planner"
	"github.com/meltforce/barload/internal/plates"
)

// HTTPClient implements Backend by calling the barload REST API.
// Used for remote MCP mode where the binary runs locally (stdio) but
// the calculator and history live on the server (accessed over Tailscale).
// The server identifies the caller itself, so the user arguments are ignored.
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
	attempts   int
	backoff    time.Duration
}

// Compile-time check: HTTPClient satisfies Backend.
var _ Backend = (*HTTPClient)(nil)

// NewHTTPClient creates an HTTPClient targeting the given base URL.
func NewHTTPClient(baseURL string) *HTTPClient {
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
		attempts:   3,
		backoff:    time.Second,
	}
}

// remoteError is a calculator error reported by the server. It unwraps to
// the matching plates error kind so callers can use errors.Is as they would
// locally.
type remoteError struct {
	kind error
	msg  string
}

func (e *remoteError) Error() string { return e.msg }
func (e *remoteError) Unwrap() error { return e.kind }

// statusError is a non-2xx response that is not a calculator error.
type statusError struct {
	path   string
	status int
	body   string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("httpclient: %s returned %d: %s", e.path, e.status, e.body)
}

// get fetches path and returns the body of a 200 response. Network errors
// and 5xx responses are retried with exponential backoff; anything else is
// returned at once.
func (c *HTTPClient) get(ctx context.Context, path string, params url.Values) ([]byte, error) {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	var lastErr error
	for attempt := range c.attempts {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(c.backoff << (attempt - 1)):
			}
		}

		body, err := c.do(ctx, u, path)
		if err == nil {
			return body, nil
		}
		lastErr = err
		var se *statusError
		if errors.As(err, &se) && se.status < 500 {
			return nil, err
		}
		if ctx.Err() != nil {
			return nil, err
		}
	}
	return nil, fmt.Errorf("httpclient: %s failed after %d attempts: %w", path, c.attempts, lastErr)
}

func (c *HTTPClient) do(ctx context.Context, u, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("httpclient: create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("httpclient: %s: %w", path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("httpclient: read body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &statusError{path: path, status: resp.StatusCode, body: strings.TrimSpace(string(body))}
	}
	return body, nil
}

// Calculate calls GET /api/v1/plates. Calculator errors come back with the
// same kinds the local planner returns.
func (c *HTTPClient) Calculate(ctx context.Context, _ string, in planner.Input) (*plates.Result, error) {
	params := url.Values{}
	params.Set("weight", in.Weight)
	if in.Barbell != "" {
		params.Set("barbell", in.Barbell)
	}
	params.Set("collar", strconv.FormatBool(in.Collar))

	body, err := c.get(ctx, "/api/v1/plates", params)
	if err != nil {
		var se *statusError
		if errors.As(err, &se) {
			return nil, calcError(se)
		}
		return nil, err
	}

	var res plates.Result
	if err := json.Unmarshal(body, &res); err != nil {
		return nil, fmt.Errorf("httpclient: decode plates: %w", err)
	}
	if res.PerSide == nil {
		res.PerSide = []float64{}
	}
	return &res, nil
}

// calcError maps an error body {"error": ..., "kind": ...} back to a typed
// error. Bodies without a known kind are returned as they are.
func calcError(se *statusError) error {
	var body struct {
		Error string `json:"error"`
		Kind  string `json:"kind"`
	}
	if err := json.Unmarshal([]byte(se.body), &body); err != nil || body.Error == "" {
		return se
	}
	switch body.Kind {
	case "invalid_input":
		return &remoteError{kind: plates.ErrInvalidInput, msg: body.Error}
	case "infeasible":
		return &remoteError{kind: plates.ErrInfeasible, msg: body.Error}
	default:
		return se
	}
}

func (c *HTTPClient) Inventory(ctx context.Context) (*planner.InventoryInfo, error) {
	body, err := c.get(ctx, "/api/v1/inventory", nil)
	if err != nil {
		return nil, err
	}

	var inv planner.InventoryInfo
	if err := json.Unmarshal(body, &inv); err != nil {
		return nil, fmt.Errorf("httpclient: decode inventory: %w", err)
	}
	return &inv, nil
}

func (c *HTTPClient) RecentLoads(ctx context.Context, _ string, limit int) ([]models.LoadRecord, error) {
	params := url.Values{}
	params.Set("limit", strconv.Itoa(limit))

	body, err := c.get(ctx, "/api/v1/history", params)
	if err != nil {
		return nil, err
	}

	var recs []models.LoadRecord
	if err := json.Unmarshal(body, &recs); err != nil {
		return nil, fmt.Errorf("httpclient: decode history: %w", err)
	}
	if recs == nil {
		recs = []models.LoadRecord{}
	}
	return recs, nil
}
