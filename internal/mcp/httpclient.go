package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/claude/routinetimer/internal/routine"
)

// HTTPClient implements DataSource by calling the routinetimer HTTP API.
// Used when the MCP binary runs locally over stdio but the routines live
// on a remote server (for example over Tailscale).
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
}

// Compile-time check: HTTPClient satisfies DataSource.
var _ DataSource = (*HTTPClient)(nil)

// NewHTTPClient creates an HTTPClient targeting the given base URL.
func NewHTTPClient(baseURL string) *HTTPClient {
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *HTTPClient) get(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
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
		return nil, fmt.Errorf("httpclient: %s returned %d: %s", path, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	return body, nil
}

func (c *HTTPClient) ListRoutines(ctx context.Context) ([]string, error) {
	body, err := c.get(ctx, "/api/v1/routines")
	if err != nil {
		return nil, err
	}

	var names []string
	if err := json.Unmarshal(body, &names); err != nil {
		return nil, fmt.Errorf("httpclient: decode routines: %w", err)
	}
	return names, nil
}

func (c *HTTPClient) GetRoutine(ctx context.Context, name string) (*routine.Routine, error) {
	body, err := c.get(ctx, "/routine/"+url.PathEscape(name))
	if err != nil {
		return nil, err
	}

	var r routine.Routine
	if err := json.Unmarshal(body, &r); err != nil {
		return nil, fmt.Errorf("httpclient: decode routine: %w", err)
	}
	return &r, nil
}
