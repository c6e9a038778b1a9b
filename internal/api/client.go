// Package api implements the HTTP client for the GLM usage monitor endpoint.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/glm-tools/glm-usage-tui/internal/models"
)

// Client fetches quota limit data from the upstream monitor API.
type Client struct {
	httpClient    *http.Client
	authToken     string
	quotaLimitURL string
}

// New creates a client for the given endpoint URL and bearer token.
func New(quotaLimitURL, authToken string, timeout time.Duration) *Client {
	return &Client{
		httpClient:    &http.Client{Timeout: timeout},
		authToken:     authToken,
		quotaLimitURL: quotaLimitURL,
	}
}

// envelope is the optional response wrapper used by some deployments.
type envelope struct {
	Data json.RawMessage `json:"data"`
}

// FetchQuotaLimits performs one GET against the quota limit endpoint.
// A single attempt per call; retry policy is the caller's business.
func (c *Client) FetchQuotaLimits(ctx context.Context) (*models.QuotaSnapshot, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.quotaLimitURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", c.authToken)
	req.Header.Set("Accept-Language", "en-US,en")
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request to quota limit endpoint failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("HTTP %d: failed to fetch quota limit\nURL: %s\nResponse: %s",
			resp.StatusCode, c.quotaLimitURL, string(body))
	}

	return decodeSnapshot(body)
}

// decodeSnapshot tries the {"data": ...} envelope first, then falls back to
// decoding the body directly. The envelope parse error is deliberately
// swallowed; only the direct-decode error surfaces when both attempts fail.
func decodeSnapshot(body []byte) (*models.QuotaSnapshot, error) {
	var wrapper envelope
	if err := json.Unmarshal(body, &wrapper); err == nil &&
		len(wrapper.Data) > 0 && string(wrapper.Data) != "null" {
		var snap models.QuotaSnapshot
		if err := json.Unmarshal(wrapper.Data, &snap); err == nil {
			return &snap, nil
		}
	}

	var snap models.QuotaSnapshot
	if err := json.Unmarshal(body, &snap); err != nil {
		return nil, fmt.Errorf("failed to parse quota limit response: %w", err)
	}
	return &snap, nil
}
