package console

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/Simplici0/printdesk/internal/apiclient"
	"github.com/Simplici0/printdesk/internal/pricing"
)

// fakeBackend is an in-memory stand-in for the REST backend.
type fakeBackend struct {
	mu        sync.Mutex
	services  map[string]pricing.AgentService
	completed map[string]bool

	pricingPuts atomic.Int32
	orderCalls  atomic.Int32
}

var fakeUsers = map[string]apiclient.LoginResult{
	"manager@shop.test": {Token: "tok-manager", User: apiclient.User{ID: "u-manager", Email: "manager@shop.test", Role: apiclient.RoleManager, BranchID: "br-1"}},
	"clerk@shop.test":   {Token: "tok-clerk", User: apiclient.User{ID: "u-clerk", Email: "clerk@shop.test", Role: apiclient.RoleClerk, BranchID: "br-1"}},
	"floater@shop.test": {Token: "tok-floater", User: apiclient.User{ID: "u-floater", Email: "floater@shop.test", Role: apiclient.RoleManager}},
	"revoked@shop.test": {Token: "tok-revoked", User: apiclient.User{ID: "u-revoked", Email: "revoked@shop.test", Role: apiclient.RoleManager, BranchID: "br-1"}},
}

const fakeOrderItems = `[
	{
		"id": "item-1",
		"orderId": "o-1",
		"serviceName": "Document Printing",
		"quantity": 20,
		"calculatedPrice": 17.85,
		"status": "PENDING",
		"selectedConfigDetails": {
			"baseConfiguration": {"id": "b1", "name": "A4", "type": "PRESET", "unitPrice": 0.6},
			"options": [{"id": "o1", "name": "Color", "priceModifier": 0.25}],
			"customSpecs": "[{\"name\":\"Lamination\",\"priceModifier\":5}]"
		}
	}
]`

func newFakeBackend(t *testing.T) (*fakeBackend, *httptest.Server) {
	t.Helper()
	fb := &fakeBackend{
		services: map[string]pricing.AgentService{
			"svc-1": {
				ID:              "svc-1",
				BranchID:        "br-1",
				ServiceTemplate: &pricing.ServiceTemplate{ID: "tpl-1", Name: "Document Printing"},
				SubCategory:     &pricing.SubCategory{ID: "sub-1", Name: "Bond Paper"},
				SupportsColor:   true,
				IsActive:        true,
			},
		},
		completed: make(map[string]bool),
	}

	r := chi.NewRouter()
	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/login", func(w http.ResponseWriter, req *http.Request) {
			var body struct {
				Email string `json:"email"`
			}
			_ = json.NewDecoder(req.Body).Decode(&body)
			res, ok := fakeUsers[body.Email]
			if !ok {
				writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Invalid credentials"})
				return
			}
			writeJSON(w, http.StatusOK, res)
		})

		r.Get("/branches", func(w http.ResponseWriter, req *http.Request) {
			writeJSON(w, http.StatusOK, []apiclient.Branch{
				{ID: "br-1", Name: "Main", Address: "1 Rizal Ave", IsActive: true},
				{ID: "br-2", Name: "North", Address: "9 Quezon Blvd", IsActive: true},
			})
		})
		r.Post("/branches", func(w http.ResponseWriter, req *http.Request) {
			var b apiclient.Branch
			_ = json.NewDecoder(req.Body).Decode(&b)
			b.ID = "br-3"
			writeJSON(w, http.StatusCreated, b)
		})

		r.Get("/agent-services", func(w http.ResponseWriter, req *http.Request) {
			fb.mu.Lock()
			defer fb.mu.Unlock()
			out := []pricing.AgentService{}
			for _, svc := range fb.services {
				if svc.BranchID == req.URL.Query().Get("branchId") {
					out = append(out, svc)
				}
			}
			writeJSON(w, http.StatusOK, out)
		})
		r.Get("/agent-services/{id}", func(w http.ResponseWriter, req *http.Request) {
			fb.mu.Lock()
			svc, ok := fb.services[chi.URLParam(req, "id")]
			fb.mu.Unlock()
			if !ok {
				writeJSON(w, http.StatusNotFound, map[string]string{"message": "Service not found"})
				return
			}
			writeJSON(w, http.StatusOK, svc)
		})
		r.Put("/agent-services/{id}/pricing-config", func(w http.ResponseWriter, req *http.Request) {
			var body struct {
				PricingConfig pricing.Config `json:"pricingConfig"`
			}
			if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
				writeJSON(w, http.StatusBadRequest, map[string]string{"message": err.Error()})
				return
			}
			fb.pricingPuts.Add(1)
			fb.mu.Lock()
			svc := fb.services[chi.URLParam(req, "id")]
			svc.PricingConfig = &body.PricingConfig
			fb.services[svc.ID] = svc
			fb.mu.Unlock()
			writeJSON(w, http.StatusOK, svc)
		})

		r.Get("/orders", func(w http.ResponseWriter, req *http.Request) {
			if req.Header.Get("Authorization") == "Bearer tok-revoked" {
				writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Session expired"})
				return
			}
			fb.orderCalls.Add(1)
			fb.mu.Lock()
			status := "PENDING"
			if fb.completed["o-1"] {
				status = "COMPLETED"
			}
			fb.mu.Unlock()
			writeJSON(w, http.StatusOK, []map[string]any{
				{"id": "o-1", "orderNumber": "ORD-0001", "branchId": "br-1", "status": status, "category": "Printing", "totalAmount": 17.85, "createdAt": "2024-05-03T09:15:00Z"},
				{"id": "o-2", "orderNumber": "ORD-0002", "branchId": "br-1", "status": "PENDING", "category": "", "totalAmount": 40, "createdAt": "2024-05-04T10:00:00Z"},
			})
		})
		r.Get("/orders/{id}/items", func(w http.ResponseWriter, req *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(fakeOrderItems))
		})
		r.Patch("/orders/{id}/complete", func(w http.ResponseWriter, req *http.Request) {
			id := chi.URLParam(req, "id")
			fb.mu.Lock()
			fb.completed[id] = true
			fb.mu.Unlock()
			writeJSON(w, http.StatusOK, map[string]any{"id": id, "status": "COMPLETED", "totalAmount": decimal.RequireFromString("17.85")})
		})

		r.Get("/dashboard/daily-activity", func(w http.ResponseWriter, req *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`[
				{"date": "2024-05-03", "orders": 2, "revenue": 10},
				{"date": "2024-05-03T00:00:00Z", "orders": 1, "revenue": 5.5},
				{"date": "2024-05-04", "orders": 4},
				{"date": "not-a-date", "orders": 9}
			]`))
		})
	})

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return fb, srv
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
