// Package apiclient provides a client for the orchestrator HTTP API. Test
// harnesses use it to fabricate a route, resubmit the signed intent and poll
// the resulting record without hand-rolling requests.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/intenthub/orchestrator/pkg/logger"
	"github.com/intenthub/orchestrator/pkg/models"
)

// Client represents an orchestrator API client
type Client struct {
	endpoint   string
	httpClient *http.Client
	logger     logger.Logger
}

// New creates a new orchestrator API client
func New(endpoint string, log logger.Logger) *Client {
	if log == nil {
		log = &logger.EmptyLogger{}
	}
	return &Client{
		endpoint:   endpoint,
		httpClient: createHTTPClient(),
		logger:     log,
	}
}

// CreateRoute fabricates an intent operation for the given request
func (c *Client) CreateRoute(ctx context.Context, req *models.RouteRequest) (*models.RouteResponse, error) {
	var resp models.RouteResponse
	if err := c.post(ctx, "/intents/route", req, &resp); err != nil {
		return nil, fmt.Errorf("failed to create route: %v", err)
	}
	return &resp, nil
}

// SubmitIntent submits a signed intent operation for execution
func (c *Client) SubmitIntent(ctx context.Context, op *models.IntentOp) (*models.SubmitResponse, error) {
	var resp models.SubmitResponse
	if err := c.post(ctx, "/intent-operations", models.SubmitRequest{SignedIntentOp: op}, &resp); err != nil {
		return nil, fmt.Errorf("failed to submit intent: %v", err)
	}
	return &resp, nil
}

// IntentStatus fetches the lifecycle record for an intent id
func (c *Client) IntentStatus(ctx context.Context, id string) (*models.IntentRecord, error) {
	var record models.IntentRecord
	if err := c.get(ctx, "/intent-operation/"+id, &record); err != nil {
		return nil, fmt.Errorf("failed to fetch intent status: %v", err)
	}
	return &record, nil
}

// Portfolio fetches the aggregated balances for an account
func (c *Client) Portfolio(ctx context.Context, address string) (*models.PortfolioResponse, error) {
	var resp models.PortfolioResponse
	if err := c.get(ctx, fmt.Sprintf("/accounts/%s/portfolio", address), &resp); err != nil {
		return nil, fmt.Errorf("failed to fetch portfolio: %v", err)
	}
	return &resp, nil
}

func (c *Client) post(ctx context.Context, path string, body, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to encode request: %v", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *Client) get(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+path, nil)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out interface{}) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func(Body io.ReadCloser) {
		if err := Body.Close(); err != nil {
			c.logger.Error("Failed to close response body: %v", err)
		}
	}(resp.Body)

	// Read the response body regardless of status code
	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %v", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("unexpected status code: %d, body: %s", resp.StatusCode, string(bodyBytes))
	}

	if err := json.Unmarshal(bodyBytes, out); err != nil {
		return fmt.Errorf("failed to decode response: %v, body: %s", err, string(bodyBytes))
	}
	return nil
}

// Helper function to create an HTTP client with timeouts
func createHTTPClient() *http.Client {
	return &http.Client{
		Timeout: 10 * time.Second,
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 100,
			IdleConnTimeout:     90 * time.Second,
		},
	}
}
