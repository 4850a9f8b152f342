package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Simplici0/printdesk/internal/pricing"
)

func TestMain(m *testing.M) {
	// Matches the process-wide setting made at startup.
	decimal.MarshalJSONWithoutQuotes = true
	os.Exit(m.Run())
}

func newTestClient(t *testing.T, r chi.Router) *Client {
	t.Helper()
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	c, err := New(srv.URL+"/api", 2*time.Second)
	require.NoError(t, err)
	return c
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestNew_RejectsRelativeURL(t *testing.T) {
	_, err := New("backend.local/api", time.Second)
	assert.Error(t, err)
}

func TestListAgentServices_SendsBranchAndToken(t *testing.T) {
	r := chi.NewRouter()
	r.Get("/api/agent-services", func(w http.ResponseWriter, req *http.Request) {
		assert.Equal(t, "Bearer tok-1", req.Header.Get("Authorization"))
		assert.Equal(t, "br-7", req.URL.Query().Get("branchId"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"id":"svc-1","branchId":"br-7","subCategory":{"id":"s","name":"Bond Paper"},"supportsColor":true,"unitPrice":"2.50"}]`))
	})
	c := newTestClient(t, r).WithToken("tok-1", nil)

	services, err := c.ListAgentServices(context.Background(), "br-7")
	require.NoError(t, err)

	require.Len(t, services, 1)
	assert.Equal(t, "svc-1", services[0].ID)
	assert.True(t, services[0].SupportsColor)
	assert.Equal(t, "2.5", services[0].UnitPrice.String())
	assert.Nil(t, services[0].PricingConfig)
}

func TestUpdatePricingConfig_PutsWholeConfig(t *testing.T) {
	var got map[string]json.RawMessage
	r := chi.NewRouter()
	r.Put("/api/agent-services/{id}/pricing-config", func(w http.ResponseWriter, req *http.Request) {
		assert.Equal(t, "svc-1", chi.URLParam(req, "id"))
		assert.NoError(t, json.NewDecoder(req.Body).Decode(&got))
		writeJSON(w, http.StatusOK, map[string]any{"id": "svc-1"})
	})
	c := newTestClient(t, r)

	cfg := pricing.Config{
		BaseConfigurations:   []pricing.BaseConfiguration{{ID: "b1", Name: "A4", Type: pricing.ConfigTypePreset, UnitPrice: decimal.RequireFromString("0.60")}},
		Options:              []pricing.PricingOption{},
		CustomSpecifications: []pricing.CustomSpecification{},
	}
	svc, err := c.UpdatePricingConfig(context.Background(), "svc-1", cfg)
	require.NoError(t, err)
	assert.Equal(t, "svc-1", svc.ID)

	require.Contains(t, got, "pricingConfig")
	var sent pricing.Config
	require.NoError(t, json.Unmarshal(got["pricingConfig"], &sent))
	require.Len(t, sent.BaseConfigurations, 1)
	assert.True(t, sent.BaseConfigurations[0].UnitPrice.Equal(decimal.RequireFromString("0.6")))
	assert.Contains(t, string(got["pricingConfig"]), `"unitPrice":0.6`)
}

func TestHTTPErrorCarriesBackendMessage(t *testing.T) {
	r := chi.NewRouter()
	r.Post("/api/branches", func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, http.StatusConflict, map[string]string{"message": "Branch name already exists"})
	})
	r.Delete("/api/branches/{id}", func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, http.StatusBadRequest, map[string]any{"message": []string{"id must be a UUID", "branch in use"}})
	})
	c := newTestClient(t, r)

	_, err := c.CreateBranch(context.Background(), Branch{Name: "Main"})
	var herr *HTTPError
	require.True(t, errors.As(err, &herr))
	assert.Equal(t, http.StatusConflict, herr.StatusCode)
	assert.Equal(t, "Branch name already exists", err.Error())
	assert.False(t, errors.Is(err, ErrUnauthorized))

	err = c.DeleteBranch(context.Background(), "x")
	assert.EqualError(t, err, "id must be a UUID; branch in use")
}

func TestUnauthorizedFiresHook(t *testing.T) {
	r := chi.NewRouter()
	r.Get("/api/branches", func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Token expired"})
	})
	var fired atomic.Int32
	c := newTestClient(t, r).WithToken("stale", func() { fired.Add(1) })

	_, err := c.ListBranches(context.Background())

	assert.True(t, errors.Is(err, ErrUnauthorized))
	assert.Equal(t, int32(1), fired.Load())
}

func TestTransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()

	c, err := New(base, 500*time.Millisecond)
	require.NoError(t, err)

	_, err = c.ListBranches(context.Background())
	var terr *TransportError
	require.True(t, errors.As(err, &terr))
	assert.Equal(t, http.MethodGet, terr.Method)
	assert.Equal(t, "/branches", terr.Path)
}

func TestMutationsAreNotRetried(t *testing.T) {
	var calls atomic.Int32
	r := chi.NewRouter()
	r.Patch("/api/orders/{id}/complete", func(w http.ResponseWriter, req *http.Request) {
		calls.Add(1)
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": "upstream down"})
	})
	c := newTestClient(t, r)

	_, err := c.CompleteOrder(context.Background(), "ord-1")

	assert.EqualError(t, err, "upstream down")
	assert.Equal(t, int32(1), calls.Load())
}

func TestListOrderItemsNormalizesSnapshots(t *testing.T) {
	r := chi.NewRouter()
	r.Get("/api/orders/{id}/items", func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"id":"i1","orderId":"ord-1","calculatedPrice":12,"selectedConfigDetails":"{\"options\":[{\"name\":\"Color\",\"priceModifier\":0.25}]}"}]`))
	})
	c := newTestClient(t, r)

	items, err := c.ListOrderItems(context.Background(), "ord-1")
	require.NoError(t, err)

	require.Len(t, items, 1)
	require.Len(t, items[0].Snapshot.Options(), 1)
	assert.Equal(t, "Color", items[0].Snapshot.Options()[0].Name)
}

func TestDailyActivityQuery(t *testing.T) {
	r := chi.NewRouter()
	r.Get("/api/dashboard/daily-activity", func(w http.ResponseWriter, req *http.Request) {
		q := req.URL.Query()
		assert.Equal(t, "2026-03-01", q.Get("from"))
		assert.Equal(t, "2026-03-31", q.Get("to"))
		writeJSON(w, http.StatusOK, []map[string]any{{"date": "2026-03-05", "orders": 3, "revenue": 45.5}})
	})
	c := newTestClient(t, r)

	from := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	days, err := c.DailyActivity(context.Background(), "br-1", from, from.AddDate(0, 1, -1))
	require.NoError(t, err)

	require.Len(t, days, 1)
	assert.Equal(t, 3, days[0].Orders)
	require.NotNil(t, days[0].Revenue)
	assert.Equal(t, "45.5", days[0].Revenue.String())
}
