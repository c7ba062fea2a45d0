// Package apiclient is the rider daemon's HTTP client for the marketplace
// API. It backs the telemetry pipeline's sends, the route gate's polling and
// the offline queue's replays.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"lastmile/internal/core/domain/model/kernel"
	"lastmile/internal/core/domain/model/pending"
	"lastmile/internal/pkg/errs"
	"lastmile/internal/services/offline"
	"lastmile/internal/services/telemetry"
)

// DefaultTimeout bounds every request the client makes.
const DefaultTimeout = 10 * time.Second

// Client talks to the marketplace API as an authenticated rider.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

var (
	_ telemetry.Sender      = &Client{}
	_ telemetry.RouteSource = &Client{}
	_ offline.Replayer      = &Client{}
)

// NewClient creates a client for the given API base URL, authenticating
// every request with the rider's bearer token.
func NewClient(baseURL, token string, httpClient *http.Client) (*Client, error) {
	if baseURL == "" {
		return nil, errs.NewValueIsRequiredError("base url")
	}
	if token == "" {
		return nil, errs.NewValueIsRequiredError("token")
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: DefaultTimeout}
	}

	return &Client{baseURL: baseURL, token: token, httpClient: httpClient}, nil
}

// SendLocation pushes one accepted GPS sample.
func (c *Client) SendLocation(ctx context.Context, sample telemetry.Sample) error {
	payload, err := json.Marshal(sample)
	if err != nil {
		return err
	}

	return c.post(ctx, "/api/v1/riders/location", payload)
}

type routeStop struct {
	OrderID string `json:"order_id"`
}

// ActiveRoute reports whether the rider has an active route and which order
// heads it.
func (c *Client) ActiveRoute(ctx context.Context) (kernel.UUID, bool, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/api/v1/riders/route", nil)
	if err != nil {
		return kernel.UUID{}, false, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return kernel.UUID{}, false, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return kernel.UUID{}, false, fmt.Errorf("route poll: unexpected status %d", resp.StatusCode)
	}

	var stops []routeStop
	if err = json.NewDecoder(resp.Body).Decode(&stops); err != nil {
		return kernel.UUID{}, false, err
	}
	if len(stops) == 0 {
		return kernel.UUID{}, false, nil
	}

	orderID, err := kernel.UUIDFromString(stops[0].OrderID)
	if err != nil {
		return kernel.UUID{}, false, err
	}

	return orderID, true, nil
}

// Replay retries a queued action's original operation. Conflict and gone
// responses count as settled: the server state has moved past the action,
// so replaying again can never succeed.
func (c *Client) Replay(ctx context.Context, action pending.Action) error {
	path, err := replayPath(action)
	if err != nil {
		return err
	}

	return c.post(ctx, path, action.Payload)
}

func replayPath(action pending.Action) (string, error) {
	orderID := action.OrderID.String()

	switch action.Type {
	case pending.ActionStatusUpdate:
		return "/api/v1/orders/" + orderID + "/status", nil
	case pending.ActionVerifyOtp:
		return "/api/v1/orders/" + orderID + "/verify-otp", nil
	case pending.ActionCollectCod:
		return "/api/v1/orders/" + orderID + "/cod", nil
	case pending.ActionFailedAttempt:
		return "/api/v1/orders/" + orderID + "/failed-attempt", nil
	case pending.ActionLocationUpdate:
		return "/api/v1/riders/location", nil
	}

	return "", errs.NewValueIsInvalidError("action type: " + string(action.Type))
}

func (c *Client) post(ctx context.Context, path string, payload []byte) error {
	req, err := c.newRequest(ctx, http.MethodPost, path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return nil
	case resp.StatusCode == http.StatusConflict, resp.StatusCode == http.StatusGone:
		return nil
	}

	return fmt.Errorf("%s: unexpected status %d", path, resp.StatusCode)
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}

	req.Header.Set("Authorization", "Bearer "+c.token)
	return req, nil
}
