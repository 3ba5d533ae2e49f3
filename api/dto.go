/*
dto.go - Data Transfer Objects for gateway requests and responses

PURPOSE:
  Defines the JSON structures of the gateway's own API. These types
  decouple what dashboards receive from the upstream wire types, so the
  backend contract can move without breaking console clients.

NAMING CONVENTION:
  - *Response: Response types returned to clients
  - *Request: Request body types from clients

ERROR SHAPE:
  Every error the gateway returns uses ErrorResponse, which carries the
  classified severity + message. Raw upstream error strings never reach
  clients.

SEE ALSO:
  - handlers.go: Uses these types
  - classify: Produces the severity/message/context triple
*/
package api

import (
	"github.com/shopspring/decimal"

	"github.com/warp/inventory-console/apiclient"
	"github.com/warp/inventory-console/classify"
	"github.com/warp/inventory-console/derive"
)

// =============================================================================
// REQUEST/RESPONSE TYPES
// =============================================================================

// SnapshotResponse is a snapshot plus its derived card copy.
type SnapshotResponse struct {
	Snapshot derive.Snapshot `json:"snapshot"`
	Cards    derive.Cards    `json:"cards"`

	// CacheSource reports how the read was served: fresh, stale, fetch.
	CacheSource string `json:"cache_source"`
}

// SKUListResponse wraps the SKU listing.
type SKUListResponse struct {
	SKUs        []apiclient.SKU `json:"skus"`
	CacheSource string          `json:"cache_source"`
}

// CreateReservationRequest is the request to reserve stock. Quantity
// travels as a JSON number or numeric string; decimal accepts both.
type CreateReservationRequest struct {
	Quantity       decimal.Decimal `json:"quantity"`
	Location       string          `json:"location,omitempty"`
	IdempotencyKey string          `json:"idempotency_key,omitempty"`
}

// ReservationResponse wraps a created reservation.
type ReservationResponse struct {
	Reservation *apiclient.Reservation `json:"reservation"`
}

// PreferenceResponse is one stored preference flag.
type PreferenceResponse struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// SetPreferenceRequest is the request body for PUT /api/preferences/{key}.
type SetPreferenceRequest struct {
	Value string `json:"value"`
}

// ErrorResponse is the gateway's one error shape: display-ready copy from
// the classifier.
type ErrorResponse struct {
	Severity classify.Severity `json:"severity"`
	Message  string            `json:"message"`
	Context  map[string]string `json:"context,omitempty"`
}
