/*
handlers.go - HTTP handlers for the inventory console gateway

PURPOSE:
  The gateway is the Go stand-in for the dashboard's data-binding layer:
  it reads from the remote inventory API through the snapshot cache,
  attaches derived card copy, and converts every upstream failure into
  display-ready classified errors.

ENDPOINTS:
  SKUs:
    GET    /api/skus                        List SKUs (cached)
    GET    /api/skus/{sku}/snapshot         Snapshot + derived cards (cached)

  Reservations:
    POST   /api/skus/{sku}/reservations     Reserve stock
    DELETE /api/reservations/{id}           Release a reservation

  Preferences:
    GET    /api/preferences/{key}           Read a preference flag
    PUT    /api/preferences/{key}           Set a preference flag
    DELETE /api/preferences/{key}           Clear a preference flag

ERROR HANDLING:
  Upstream failures keep their upstream status code (a backend 422 stays a
  422 to the dashboard) but the body is always the classified
  severity/message pair from the classify package. Failures with no HTTP
  response at all are reported as 502.

CACHING:
  Snapshot and SKU reads go through the stale-while-revalidate cache;
  mutations invalidate the affected snapshot keys so the next read
  refetches.

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
  - classify: Error copy
  - derive: Card copy
*/
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/warp/inventory-console/apiclient"
	"github.com/warp/inventory-console/classify"
	"github.com/warp/inventory-console/derive"
	"github.com/warp/inventory-console/fetch"
	"github.com/warp/inventory-console/kv"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Client    *apiclient.Client
	Snapshots *fetch.Cache[derive.Snapshot]
	SKUs      *fetch.Cache[[]apiclient.SKU]
	Prefs     kv.Store
	Metrics   *Metrics
	Log       *zap.Logger
}

// NewHandler wires a handler from its dependencies. A nil logger is
// replaced with a no-op one.
func NewHandler(client *apiclient.Client, snapshots *fetch.Cache[derive.Snapshot], skus *fetch.Cache[[]apiclient.SKU], prefs kv.Store, metrics *Metrics, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{
		Client:    client,
		Snapshots: snapshots,
		SKUs:      skus,
		Prefs:     prefs,
		Metrics:   metrics,
		Log:       log,
	}
}

// skuListKey is the cache key for the SKU listing.
const skuListKey = "skus"

func snapshotKey(sku, location string) string {
	if location == "" {
		return "snapshot/" + sku
	}
	return "snapshot/" + sku + "/" + location
}

// =============================================================================
// SKU HANDLERS
// =============================================================================

// ListSKUs returns the cached SKU listing.
func (h *Handler) ListSKUs(w http.ResponseWriter, r *http.Request) {
	res, err := h.SKUs.Get(r.Context(), skuListKey, func(ctx context.Context) ([]apiclient.SKU, error) {
		skus, err := h.Client.ListSKUs(ctx)
		h.countUpstream("list_skus", err)
		return skus, err
	})
	if err != nil {
		h.writeClassified(w, r, err)
		return
	}
	h.Metrics.CacheReads.WithLabelValues(string(res.Source)).Inc()

	writeJSON(w, http.StatusOK, SKUListResponse{
		SKUs:        res.Data,
		CacheSource: string(res.Source),
	})
}

// GetSnapshot returns a SKU's snapshot with the four derived cards.
func (h *Handler) GetSnapshot(w http.ResponseWriter, r *http.Request) {
	sku := chi.URLParam(r, "sku")
	location := r.URL.Query().Get("location")

	res, err := h.Snapshots.Get(r.Context(), snapshotKey(sku, location), func(ctx context.Context) (derive.Snapshot, error) {
		snap, err := h.Client.GetSnapshot(ctx, sku, location)
		h.countUpstream("get_snapshot", err)
		return snap, err
	})
	if err != nil {
		h.writeClassified(w, r, err)
		return
	}
	h.Metrics.CacheReads.WithLabelValues(string(res.Source)).Inc()

	writeJSON(w, http.StatusOK, SnapshotResponse{
		Snapshot:    res.Data,
		Cards:       derive.Compose(res.Data),
		CacheSource: string(res.Source),
	})
}

// =============================================================================
// RESERVATION HANDLERS
// =============================================================================

// CreateReservation reserves stock against a SKU and invalidates the
// affected snapshot entries.
func (h *Handler) CreateReservation(w http.ResponseWriter, r *http.Request) {
	sku := chi.URLParam(r, "sku")

	var req CreateReservationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "Couldn't read the reservation request. Check the payload and try again.")
		return
	}

	reservation, err := h.Client.CreateReservation(r.Context(), sku, apiclient.CreateReservationInput{
		Quantity:       req.Quantity,
		Location:       req.Location,
		IdempotencyKey: req.IdempotencyKey,
	})
	h.countUpstream("create_reservation", err)
	if err != nil {
		h.writeClassified(w, r, err)
		return
	}

	h.Snapshots.InvalidatePrefix("snapshot/" + sku)
	h.SKUs.Invalidate(skuListKey)

	writeJSON(w, http.StatusCreated, ReservationResponse{Reservation: reservation})
}

// ReleaseReservation releases reserved stock. The reservation id doesn't
// tell us which SKU it touched, so all snapshot entries are dropped.
func (h *Handler) ReleaseReservation(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	err := h.Client.ReleaseReservation(r.Context(), id)
	h.countUpstream("release_reservation", err)
	if err != nil {
		h.writeClassified(w, r, err)
		return
	}

	h.Snapshots.InvalidatePrefix("snapshot/")
	h.SKUs.Invalidate(skuListKey)

	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// PREFERENCE HANDLERS
// =============================================================================

// GetPreference reads one preference flag.
func (h *Handler) GetPreference(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")

	value, found, err := h.Prefs.Get(r.Context(), key)
	if err != nil {
		h.Log.Error("preference read failed", zap.String("key", key), zap.Error(err))
		writeStoreError(w)
		return
	}
	if !found {
		writeJSON(w, http.StatusNotFound, ErrorResponse{
			Severity: classify.SeverityError,
			Message:  fmt.Sprintf("No preference stored under '%s'.", key),
		})
		return
	}
	writeJSON(w, http.StatusOK, PreferenceResponse{Key: key, Value: value})
}

// SetPreference writes one preference flag.
func (h *Handler) SetPreference(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")

	var req SetPreferenceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "Couldn't read the preference value. Check the payload and try again.")
		return
	}

	if err := h.Prefs.Set(r.Context(), key, req.Value); err != nil {
		h.Log.Error("preference write failed", zap.String("key", key), zap.Error(err))
		writeStoreError(w)
		return
	}
	writeJSON(w, http.StatusOK, PreferenceResponse{Key: key, Value: req.Value})
}

// DeletePreference clears one preference flag.
func (h *Handler) DeletePreference(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")

	if err := h.Prefs.Delete(r.Context(), key); err != nil {
		h.Log.Error("preference delete failed", zap.String("key", key), zap.Error(err))
		writeStoreError(w)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Health reports liveness.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// =============================================================================
// RESPONSE HELPERS
// =============================================================================

// writeClassified converts an upstream failure to the gateway's error
// shape. The upstream status is preserved when there is one; failures
// without a response report 502.
func (h *Handler) writeClassified(w http.ResponseWriter, r *http.Request, err error) {
	classified := classify.Classify(err)
	h.Metrics.ClassifiedErrors.WithLabelValues(string(classified.Severity)).Inc()

	status := http.StatusBadGateway
	var apiErr *apiclient.APIError
	if errors.As(err, &apiErr) {
		status = apiErr.Status
	}

	h.Log.Warn("upstream call failed",
		zap.String("path", r.URL.Path),
		zap.Int("status", status),
		zap.String("severity", string(classified.Severity)),
		zap.Error(err))

	writeJSON(w, status, ErrorResponse{
		Severity: classified.Severity,
		Message:  classified.Message,
		Context:  classified.Context,
	})
}

// countUpstream records one backend call outcome.
func (h *Handler) countUpstream(operation string, err error) {
	outcome := "ok"
	if err != nil {
		var apiErr *apiclient.APIError
		if errors.As(err, &apiErr) {
			outcome = "api_error"
		} else {
			outcome = "network_error"
		}
	}
	h.Metrics.UpstreamRequests.WithLabelValues(operation, outcome).Inc()
}

func writeBadRequest(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusBadRequest, ErrorResponse{
		Severity: classify.SeverityError,
		Message:  message,
	})
}

func writeStoreError(w http.ResponseWriter) {
	writeJSON(w, http.StatusInternalServerError, ErrorResponse{
		Severity: classify.SeverityError,
		Message:  "Couldn't access saved preferences. Please try again.",
	})
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
