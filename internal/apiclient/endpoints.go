package apiclient

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/Simplici0/printdesk/internal/dashboard"
	"github.com/Simplici0/printdesk/internal/orders"
	"github.com/Simplici0/printdesk/internal/pricing"
)

func (c *Client) Login(ctx context.Context, email, password string) (LoginResult, error) {
	var out LoginResult
	body := map[string]string{"email": email, "password": password}
	err := c.do(ctx, http.MethodPost, "/auth/login", nil, body, &out)
	return out, err
}

func (c *Client) ListBranches(ctx context.Context) ([]Branch, error) {
	var out []Branch
	err := c.do(ctx, http.MethodGet, "/branches", nil, nil, &out)
	return out, err
}

func (c *Client) CreateBranch(ctx context.Context, b Branch) (Branch, error) {
	var out Branch
	err := c.do(ctx, http.MethodPost, "/branches", nil, b, &out)
	return out, err
}

func (c *Client) UpdateBranch(ctx context.Context, id string, b Branch) (Branch, error) {
	var out Branch
	err := c.do(ctx, http.MethodPut, "/branches/"+url.PathEscape(id), nil, b, &out)
	return out, err
}

func (c *Client) DeleteBranch(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/branches/"+url.PathEscape(id), nil, nil, nil)
}

func (c *Client) ListAgentServices(ctx context.Context, branchID string) ([]pricing.AgentService, error) {
	var out []pricing.AgentService
	err := c.do(ctx, http.MethodGet, "/agent-services", url.Values{"branchId": {branchID}}, nil, &out)
	return out, err
}

func (c *Client) GetAgentService(ctx context.Context, id string) (pricing.AgentService, error) {
	var out pricing.AgentService
	err := c.do(ctx, http.MethodGet, "/agent-services/"+url.PathEscape(id), nil, nil, &out)
	return out, err
}

// UpdatePricingConfig replaces the whole pricing config of a service.
func (c *Client) UpdatePricingConfig(ctx context.Context, id string, cfg pricing.Config) (pricing.AgentService, error) {
	var out pricing.AgentService
	body := struct {
		PricingConfig pricing.Config `json:"pricingConfig"`
	}{cfg}
	err := c.do(ctx, http.MethodPut, "/agent-services/"+url.PathEscape(id)+"/pricing-config", nil, body, &out)
	return out, err
}

// CreateAgentService uses the legacy per-unit pricing fields.
func (c *Client) CreateAgentService(ctx context.Context, svc pricing.AgentService) (pricing.AgentService, error) {
	var out pricing.AgentService
	err := c.do(ctx, http.MethodPost, "/agent-services", nil, svc, &out)
	return out, err
}

func (c *Client) UpdateAgentService(ctx context.Context, id string, svc pricing.AgentService) (pricing.AgentService, error) {
	var out pricing.AgentService
	err := c.do(ctx, http.MethodPut, "/agent-services/"+url.PathEscape(id), nil, svc, &out)
	return out, err
}

func (c *Client) DeleteAgentService(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/agent-services/"+url.PathEscape(id), nil, nil, nil)
}

func (c *Client) ListOrders(ctx context.Context, branchID string) ([]orders.Order, error) {
	var out []orders.Order
	err := c.do(ctx, http.MethodGet, "/orders", url.Values{"branchId": {branchID}}, nil, &out)
	return out, err
}

func (c *Client) ListOrderItems(ctx context.Context, orderID string) ([]orders.ClerkOrderItem, error) {
	var out []orders.ClerkOrderItem
	err := c.do(ctx, http.MethodGet, "/orders/"+url.PathEscape(orderID)+"/items", nil, nil, &out)
	return out, err
}

func (c *Client) CompleteOrder(ctx context.Context, orderID string) (orders.Order, error) {
	var out orders.Order
	err := c.do(ctx, http.MethodPatch, "/orders/"+url.PathEscape(orderID)+"/complete", nil, nil, &out)
	return out, err
}

// DailyActivity fetches per-day order aggregates for [from, to].
func (c *Client) DailyActivity(ctx context.Context, branchID string, from, to time.Time) ([]dashboard.DailyActivity, error) {
	var out []dashboard.DailyActivity
	q := url.Values{
		"branchId": {branchID},
		"from":     {from.Format("2006-01-02")},
		"to":       {to.Format("2006-01-02")},
	}
	err := c.do(ctx, http.MethodGet, "/dashboard/daily-activity", q, nil, &out)
	return out, err
}
