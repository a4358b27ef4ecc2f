// Package quote calls the external UIC packages API to price insurance
// packages for a traveler and date range.
package quote

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

// Client handles quote requests against the UIC packages API.
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

// NewClient creates a quote client. The API base URL is taken from
// UIC_API_BASE when set.
func NewClient() *Client {
	return NewClientWithBase(getenv("UIC_API_BASE", "https://uicbackend-production.up.railway.app"))
}

// NewClientWithBase creates a quote client against an explicit base URL.
func NewClientWithBase(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// envelope keeps data raw so a non-array payload can be told apart from
// a decode failure of the packages themselves.
type envelope struct {
	Data json.RawMessage `json:"data"`
}

// Search posts the quote request and returns the full package array.
// Any non-OK status, non-array data field, or non-success ResponseCode
// on the first element is a failure carrying the server's own
// description when it supplied one.
func (c *Client) Search(ctx context.Context, reqBody model.QuoteRequest) ([]model.InsurancePackage, error) {
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	url := c.baseURL + "/api/uic/packages"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to reach quote API: %w", err)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, fmt.Errorf("server returned invalid response (not JSON): %w", err)
	}

	var packages []model.InsurancePackage
	trimmed := bytes.TrimSpace(env.Data)
	dataIsArray := len(trimmed) > 0 && trimmed[0] == '[' && json.Unmarshal(trimmed, &packages) == nil

	if resp.StatusCode != http.StatusOK {
		if dataIsArray && len(packages) > 0 && packages[0].ResponseDescription != "" {
			return nil, fmt.Errorf("%s", packages[0].ResponseDescription)
		}
		return nil, fmt.Errorf("quote API error (status %d)", resp.StatusCode)
	}

	if !dataIsArray {
		return nil, fmt.Errorf("quote API returned unexpected data format")
	}

	if len(packages) > 0 && packages[0].ResponseCode != model.QuoteSuccessCode {
		if desc := packages[0].ResponseDescription; desc != "" {
			return nil, fmt.Errorf("%s", desc)
		}
		return nil, fmt.Errorf("quote API returned a non-success code")
	}

	return packages, nil
}
