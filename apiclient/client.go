/*
Package apiclient is the HTTP client for the remote inventory service.

PURPOSE:
  Everything in this repository is a thin surface over the inventory
  backend's HTTP API: the ledger, reservation arithmetic, and concurrency
  control all live server-side. This package owns the wire details so the
  rest of the code deals in typed values and typed errors.

ERROR CONTRACT:
  - Non-2xx responses become *APIError (status + decoded body), which the
    classify package turns into display copy.
  - Transport failures (DNS, refused connection, timeout, cancelled
    context) are returned as ordinary wrapped errors.

ENDPOINTS:
  GET    /api/skus                        List SKUs
  GET    /api/skus/{code}/snapshot        Inventory snapshot (optionally per location)
  POST   /api/skus/{code}/reservations    Reserve stock
  DELETE /api/reservations/{id}           Release a reservation

SEE ALSO:
  - errors.go: APIError and envelope decoding
  - classify: Maps APIError to user-facing messages
*/
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/shopspring/decimal"

	"github.com/warp/inventory-console/derive"
)

// maxErrorBody caps how much of a failed response is read for decoding.
const maxErrorBody = 1 << 20

// Client talks to the inventory backend. Safe for concurrent use.
type Client struct {
	baseURL string
	http    *http.Client
}

// New creates a client for the given base URL (scheme + host, no trailing
// slash required).
func New(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: trimTrailingSlash(baseURL),
		http:    &http.Client{Timeout: timeout},
	}
}

// =============================================================================
// WIRE TYPES
// =============================================================================

// SKU is one entry of the SKU listing.
type SKU struct {
	Code          string          `json:"code"`
	Name          string          `json:"name"`
	OnHand        decimal.Decimal `json:"on_hand"`
	LocationCount int             `json:"location_count"`
}

// Reservation is the backend's record of stock committed to an order.
type Reservation struct {
	ID       string          `json:"id"`
	SKUCode  string          `json:"sku_code"`
	Location string          `json:"location,omitempty"`
	Quantity decimal.Decimal `json:"quantity"`
	Status   string          `json:"status"`
	Created  time.Time       `json:"created_at"`
}

// CreateReservationInput is the payload for reserving stock.
type CreateReservationInput struct {
	Quantity decimal.Decimal `json:"quantity"`
	Location string          `json:"location,omitempty"`

	// IdempotencyKey lets the backend dedupe retried submissions.
	IdempotencyKey string `json:"idempotency_key,omitempty"`
}

// =============================================================================
// OPERATIONS
// =============================================================================

// ListSKUs returns every SKU visible to the caller.
func (c *Client) ListSKUs(ctx context.Context) ([]SKU, error) {
	var skus []SKU
	if err := c.do(ctx, http.MethodGet, "/api/skus", nil, nil, &skus); err != nil {
		return nil, fmt.Errorf("list skus: %w", err)
	}
	return skus, nil
}

// GetSnapshot fetches the inventory snapshot for one SKU. An empty
// location requests the aggregate view.
func (c *Client) GetSnapshot(ctx context.Context, skuCode, location string) (derive.Snapshot, error) {
	var query url.Values
	if location != "" {
		query = url.Values{"location": []string{location}}
	}
	var snap derive.Snapshot
	path := "/api/skus/" + url.PathEscape(skuCode) + "/snapshot"
	if err := c.do(ctx, http.MethodGet, path, query, nil, &snap); err != nil {
		return derive.Snapshot{}, fmt.Errorf("get snapshot for %s: %w", skuCode, err)
	}
	return snap, nil
}

// CreateReservation reserves stock against a SKU.
func (c *Client) CreateReservation(ctx context.Context, skuCode string, in CreateReservationInput) (*Reservation, error) {
	var res Reservation
	path := "/api/skus/" + url.PathEscape(skuCode) + "/reservations"
	if err := c.do(ctx, http.MethodPost, path, nil, in, &res); err != nil {
		return nil, fmt.Errorf("create reservation for %s: %w", skuCode, err)
	}
	return &res, nil
}

// ReleaseReservation releases previously reserved stock.
func (c *Client) ReleaseReservation(ctx context.Context, reservationID string) error {
	path := "/api/reservations/" + url.PathEscape(reservationID)
	if err := c.do(ctx, http.MethodDelete, path, nil, nil, nil); err != nil {
		return fmt.Errorf("release reservation %s: %w", reservationID, err)
	}
	return nil
}

// =============================================================================
// TRANSPORT
// =============================================================================

// do executes one request. body (if non-nil) is JSON-encoded; out (if
// non-nil) receives the decoded 2xx response.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var payload io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		payload = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, payload)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newAPIError(resp.StatusCode, raw)
	}

	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

func trimTrailingSlash(s string) string {
	for len(s) > 0 && s[len(s)-1] == '/' {
		s = s[:len(s)-1]
	}
	return s
}
