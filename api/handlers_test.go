/*
handlers_test.go - Gateway tests against a fake inventory backend

Covers:
- Snapshot responses carrying derived card copy and cache provenance
- Upstream failures surfacing as classified errors with upstream status
- Cache invalidation after reservations
- Preference flag round trips
*/
package api_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/inventory-console/api"
	"github.com/warp/inventory-console/apiclient"
	"github.com/warp/inventory-console/derive"
	"github.com/warp/inventory-console/fetch"
	"github.com/warp/inventory-console/kv"
)

// =============================================================================
// TEST SETUP
// =============================================================================

const snapshotJSON = `{
	"sku_code": "ABC123",
	"name": "Steel Bracket",
	"summary": {
		"on_hand": {"value": "120", "delta_pct": "12.5"},
		"available": "90",
		"reserved": "30"
	},
	"location_count": 3,
	"location_share_pct": "0"
}`

func newTestGateway(t *testing.T, upstream http.Handler) http.Handler {
	t.Helper()
	srv := httptest.NewServer(upstream)
	t.Cleanup(srv.Close)

	client := apiclient.New(srv.URL, 2*time.Second)
	snapshots := fetch.New[derive.Snapshot](time.Minute, 5*time.Minute, nil)
	skus := fetch.New[[]apiclient.SKU](time.Minute, 5*time.Minute, nil)
	h := api.NewHandler(client, snapshots, skus, kv.NewMemory(), api.NewMetrics(), nil)
	return api.NewRouter(h, []string{"http://localhost:5173"})
}

func doJSON(t *testing.T, gw http.Handler, method, path, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var payload *strings.Reader
	if body == "" {
		payload = strings.NewReader("")
	} else {
		payload = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, payload)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	gw.ServeHTTP(rec, req)

	var decoded map[string]any
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decoded))
	}
	return rec, decoded
}

// =============================================================================
// SNAPSHOTS
// =============================================================================

func TestGetSnapshot_AttachesDerivedCards(t *testing.T) {
	gw := newTestGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/skus/ABC123/snapshot", r.URL.Path)
		w.Write([]byte(snapshotJSON))
	}))

	rec, body := doJSON(t, gw, http.MethodGet, "/api/skus/ABC123/snapshot", "")
	require.Equal(t, http.StatusOK, rec.Code)

	cards := body["cards"].(map[string]any)
	onHand := cards["on_hand"].(map[string]any)
	assert.Equal(t, "Trending up this week", onHand["description"])
	assert.Equal(t, "Up 12.5% from last week", onHand["subtitle"])

	location := cards["location"].(map[string]any)
	assert.Equal(t, "Spread across 3 locations", location["subtitle"])

	assert.Equal(t, "fetch", body["cache_source"])
}

func TestGetSnapshot_SecondReadServedFromCache(t *testing.T) {
	var hits atomic.Int64
	gw := newTestGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Write([]byte(snapshotJSON))
	}))

	_, _ = doJSON(t, gw, http.MethodGet, "/api/skus/ABC123/snapshot", "")
	rec, body := doJSON(t, gw, http.MethodGet, "/api/skus/ABC123/snapshot", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "fresh", body["cache_source"])
	assert.EqualValues(t, 1, hits.Load())
}

func TestGetSnapshot_LocationViewsAreCachedSeparately(t *testing.T) {
	var hits atomic.Int64
	gw := newTestGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Write([]byte(snapshotJSON))
	}))

	_, _ = doJSON(t, gw, http.MethodGet, "/api/skus/ABC123/snapshot", "")
	_, _ = doJSON(t, gw, http.MethodGet, "/api/skus/ABC123/snapshot?location=WH-EAST", "")

	assert.EqualValues(t, 2, hits.Load())
}

// =============================================================================
// CLASSIFIED ERRORS
// =============================================================================

func TestCreateReservation_ShortfallSurfacesSpecificTemplate(t *testing.T) {
	gw := newTestGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"detail": "Not enough available stock to reserve", "available": 3, "requested": 10}`))
	}))

	rec, body := doJSON(t, gw, http.MethodPost, "/api/skus/ABC123/reservations",
		`{"quantity": "10"}`)

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code, "upstream status is preserved")
	assert.Equal(t, "error", body["severity"])
	assert.Equal(t, "Only 3 of the 10 units you asked for are available to reserve.", body["message"])
}

func TestCreateReservation_RateLimitBecomesWarning(t *testing.T) {
	gw := newTestGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"detail": "Rate limit exceeded"}`))
	}))

	rec, body := doJSON(t, gw, http.MethodPost, "/api/skus/ABC123/reservations",
		`{"quantity": "1"}`)

	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "warning", body["severity"])
	assert.Contains(t, body["message"], "60 seconds")
}

func TestUnreachableUpstream_Reports502WithConnectionMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // gateway now points at a dead address

	client := apiclient.New(srv.URL, time.Second)
	snapshots := fetch.New[derive.Snapshot](time.Minute, 5*time.Minute, nil)
	skus := fetch.New[[]apiclient.SKU](time.Minute, 5*time.Minute, nil)
	h := api.NewHandler(client, snapshots, skus, kv.NewMemory(), api.NewMetrics(), nil)
	gw := api.NewRouter(h, nil)

	rec, body := doJSON(t, gw, http.MethodGet, "/api/skus", "")

	require.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Equal(t, "error", body["severity"])
	assert.Contains(t, body["message"], "Couldn't reach the inventory service")
}

// =============================================================================
// CACHE INVALIDATION
// =============================================================================

func TestCreateReservation_InvalidatesSnapshotCache(t *testing.T) {
	var snapshotHits atomic.Int64
	gw := newTestGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/snapshot") {
			snapshotHits.Add(1)
			w.Write([]byte(snapshotJSON))
			return
		}
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id": "res-1", "sku_code": "ABC123", "quantity": "5", "status": "active"}`))
	}))

	_, _ = doJSON(t, gw, http.MethodGet, "/api/skus/ABC123/snapshot", "")

	rec, _ := doJSON(t, gw, http.MethodPost, "/api/skus/ABC123/reservations", `{"quantity": "5"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	_, body := doJSON(t, gw, http.MethodGet, "/api/skus/ABC123/snapshot", "")
	assert.Equal(t, "fetch", body["cache_source"], "reservation must drop the cached snapshot")
	assert.EqualValues(t, 2, snapshotHits.Load())
}

// =============================================================================
// PREFERENCES
// =============================================================================

func TestPreferences_RoundTrip(t *testing.T) {
	gw := newTestGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	rec, _ := doJSON(t, gw, http.MethodGet, "/api/preferences/feedback_card_dismissed", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, body := doJSON(t, gw, http.MethodPut, "/api/preferences/feedback_card_dismissed",
		`{"value": "true"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "true", body["value"])

	rec, body = doJSON(t, gw, http.MethodGet, "/api/preferences/feedback_card_dismissed", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "true", body["value"])

	rec, _ = doJSON(t, gw, http.MethodDelete, "/api/preferences/feedback_card_dismissed", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec, _ = doJSON(t, gw, http.MethodGet, "/api/preferences/feedback_card_dismissed", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSetPreference_RejectsMalformedBody(t *testing.T) {
	gw := newTestGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	rec, body := doJSON(t, gw, http.MethodPut, "/api/preferences/x", `{not json`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "error", body["severity"])
}

// =============================================================================
// HEALTH
// =============================================================================

func TestHealth(t *testing.T) {
	gw := newTestGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	rec, body := doJSON(t, gw, http.MethodGet, "/healthz", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", body["status"])
}
