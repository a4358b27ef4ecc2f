// Package issuance submits validated purchase payloads to the external
// UIC policy-creation API.
package issuance

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"uic-travel-backend/internal/model"
)

// Client handles policy creation against the UIC issuance API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// NewClient creates an issuance client. The API base URL is taken from
// UIC_API_BASE when set.
func NewClient() *Client {
	return NewClientWithBase(getenv("UIC_API_BASE", "https://uicbackend-production.up.railway.app"))
}

// NewClientWithBase creates an issuance client against an explicit base URL.
func NewClientWithBase(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Create posts the issuance payload and returns the issued policy, the
// first element of the response data array. A non-OK status or an empty
// data array is a terminal failure for this attempt; the caller retries
// only by explicit user re-submission.
func (c *Client) Create(ctx context.Context, payload model.IssuanceRequest) (*model.IssuedPolicy, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode payload: %w", err)
	}

	url := c.baseURL + "/api/uic/policy/create"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to reach issuance API: %w", err)
	}
	defer resp.Body.Close()

	var result model.IssuanceResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("server returned invalid response (not JSON): %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		switch {
		case result.Message != "":
			return nil, fmt.Errorf("%s", result.Message)
		case result.ResponseDescription != "":
			return nil, fmt.Errorf("%s", result.ResponseDescription)
		default:
			return nil, fmt.Errorf("issuance API error (status %d)", resp.StatusCode)
		}
	}

	if len(result.Data) == 0 {
		return nil, fmt.Errorf("policy generated but no data returned from API")
	}

	policy := result.Data[0]
	return &policy, nil
}
