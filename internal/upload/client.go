package upload

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"
)

// Result mirrors the server's upload response.
type Result struct {
	Filename      string `json:"filename"`
	Valid         bool   `json:"valid"`
	TotalDuration int    `json:"total_duration"`
	Error         string `json:"error,omitempty"`
}

// Client sends routines to a routinetimer server over HTTP.
type Client struct {
	serverURL  string
	httpClient *http.Client
	backoff    time.Duration
}

// NewClient creates a new HTTP client for the routinetimer server.
func NewClient(serverURL string) *Client {
	return &Client{
		serverURL: strings.TrimRight(serverURL, "/"),
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
		backoff: time.Second,
	}
}

// ServerURL returns the base URL the client talks to.
func (c *Client) ServerURL() string {
	return c.serverURL
}

// FetchCatalog retrieves the routine filenames stored on the server.
func (c *Client) FetchCatalog(ctx context.Context) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.serverURL+"/api/v1/routines", nil)
	if err != nil {
		return nil, fmt.Errorf("creating catalog request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching catalog: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("catalog request failed (status %d): %s", resp.StatusCode, body)
	}

	var names []string
	if err := json.NewDecoder(resp.Body).Decode(&names); err != nil {
		return nil, fmt.Errorf("decoding catalog: %w", err)
	}
	return names, nil
}

// UploadRoutine POSTs a routine file as multipart form data. Network errors
// and 5xx responses are retried up to 3 times with exponential backoff;
// any other non-200 response fails immediately.
func (c *Client) UploadRoutine(ctx context.Context, name string, data []byte) (*Result, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("routine_file", name)
	if err != nil {
		return nil, fmt.Errorf("building form: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return nil, fmt.Errorf("building form: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("building form: %w", err)
	}

	var lastErr error
	for attempt := range 3 {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(c.backoff << uint(attempt-1)):
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.serverURL+"/api/v1/routines", bytes.NewReader(body.Bytes()))
		if err != nil {
			return nil, fmt.Errorf("creating upload request: %w", err)
		}
		req.Header.Set("Content-Type", mw.FormDataContentType())

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
			continue
		}
		respBody, _ := io.ReadAll(resp.Body)
		resp.Body.Close()

		switch {
		case resp.StatusCode == http.StatusOK:
			var res Result
			if err := json.Unmarshal(respBody, &res); err != nil {
				return nil, fmt.Errorf("decoding upload result: %w", err)
			}
			return &res, nil
		case resp.StatusCode >= 500:
			lastErr = fmt.Errorf("upload failed (status %d): %s", resp.StatusCode, bytes.TrimSpace(respBody))
		default:
			return nil, fmt.Errorf("upload rejected (status %d): %s", resp.StatusCode, bytes.TrimSpace(respBody))
		}
	}

	return nil, fmt.Errorf("after 3 attempts: %w", lastErr)
}
