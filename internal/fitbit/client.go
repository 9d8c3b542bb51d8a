package fitbit

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const defaultBaseURL = "https://api.fitbit.com"

// requestTimeout bounds each upstream call so a provider outage cannot hang
// the request indefinitely.
const requestTimeout = 10 * time.Second

// MetricsClient performs authenticated GET requests against the Fitbit
// resource API using a bearer token.
type MetricsClient struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewMetricsClient creates a Fitbit resource API client. baseURL is empty in
// production and points at a test server in tests.
func NewMetricsClient(baseURL string) *MetricsClient {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &MetricsClient{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: requestTimeout,
		},
	}
}

// Get issues a bearer-authenticated GET for the given resource path and
// returns the status code and raw body.
func (c *MetricsClient) Get(ctx context.Context, resourcePath, accessToken string) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+resourcePath, nil)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to call fitbit API: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("failed to read fitbit response: %w", err)
	}
	return resp.StatusCode, body, nil
}
