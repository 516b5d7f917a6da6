package loadgen

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// ErrNotFound is returned by Client.Award for unknown request ids.
var ErrNotFound = errors.New("award not found")

// Client talks to the bonus HTTP API.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a client with a per-request timeout.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

// Health checks GET /healthz.
func (c *Client) Health(ctx context.Context) error {
	status, _, err := c.do(ctx, http.MethodGet, "/healthz", nil)
	if err != nil {
		return err
	}
	if status != http.StatusOK {
		return fmt.Errorf("health check failed with status %d", status)
	}
	return nil
}

// Submit posts one award request and returns the HTTP status and ack.
func (c *Client) Submit(ctx context.Context, req Request) (int, Ack, error) { //nolint:gocritic // hugeParam: requests travel by value
	body, err := json.Marshal(req)
	if err != nil {
		return 0, Ack{}, fmt.Errorf("marshal request: %w", err)
	}
	status, data, err := c.do(ctx, http.MethodPost, "/awards", body)
	if err != nil {
		return 0, Ack{}, err
	}
	var ack Ack
	if status == http.StatusOK || status == http.StatusAccepted {
		if err := json.Unmarshal(data, &ack); err != nil {
			return status, Ack{}, fmt.Errorf("decode ack: %w", err)
		}
	}
	return status, ack, nil
}

// Award fetches a stored award.
func (c *Client) Award(ctx context.Context, requestID string) (Award, error) {
	status, data, err := c.do(ctx, http.MethodGet, "/awards/"+requestID, nil)
	if err != nil {
		return Award{}, err
	}
	switch status {
	case http.StatusOK:
	case http.StatusNotFound:
		return Award{}, ErrNotFound
	default:
		return Award{}, fmt.Errorf("get award %s: status %d", requestID, status)
	}
	var a Award
	if err := json.Unmarshal(data, &a); err != nil {
		return Award{}, fmt.Errorf("decode award: %w", err)
	}
	return a, nil
}

func (c *Client) do(ctx context.Context, method, path string, body []byte) (int, []byte, error) {
	var rd io.Reader
	if body != nil {
		rd = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rd)
	if err != nil {
		return 0, nil, fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("read response: %w", err)
	}
	return resp.StatusCode, data, nil
}
