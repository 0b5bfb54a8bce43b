// Package insight implements the client for the categorization inference
// service. The service is advisory only: callers swallow its failures and
// never block a save on it.
package insight

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/finbrains/finbrains/internal/suggest"
)

// DefaultBaseURL is used when no inference address is configured.
const DefaultBaseURL = "http://localhost:8000"

// Client calls the inference service. It is configured independently of the
// backend client and carries no session credentials.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// NewClient creates an inference client for the given base address.
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// WithHTTPClient overrides the underlying HTTP client.
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	c.httpClient = hc
	return c
}

// Categorize requests a category suggestion for a draft. Errors are
// reported to the caller, which treats them as advisory and shows nothing.
func (c *Client) Categorize(ctx context.Context, req suggest.Request) (suggest.Suggestion, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return suggest.Suggestion{}, fmt.Errorf("failed to encode categorize request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/categorize-expense", bytes.NewReader(payload))
	if err != nil {
		return suggest.Suggestion{}, fmt.Errorf("failed to create categorize request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return suggest.Suggestion{}, fmt.Errorf("categorize request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return suggest.Suggestion{}, fmt.Errorf("failed to read categorize response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return suggest.Suggestion{}, fmt.Errorf("categorize returned status %d", resp.StatusCode)
	}

	var out suggest.Suggestion
	if err := json.Unmarshal(body, &out); err != nil {
		return suggest.Suggestion{}, fmt.Errorf("failed to decode categorize response: %w", err)
	}
	return out, nil
}
