package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"restaurant-dashboard/internal/domain"
)

// DummyToken stands in when the backend accepts a login without issuing a token.
const DummyToken = "dummy-token"

type LoginResult struct {
	Token   string
	Profile domain.AdminProfile
}

func (c *Client) Login(ctx context.Context, email, password string) (LoginResult, error) {
	in := map[string]string{"email": email, "password": password}
	b, err := c.do(ctx, http.MethodPost, c.tenantPath("Admin", "login"), in)
	if err != nil {
		return LoginResult{}, err
	}
	var body struct {
		Token string          `json:"token"`
		Admin json.RawMessage `json:"admin"`
	}
	if err := json.Unmarshal(b, &body); err != nil {
		return LoginResult{}, fmt.Errorf("decode login response: %w", err)
	}
	res := LoginResult{Token: body.Token}
	if res.Token == "" {
		res.Token = DummyToken
	}
	profile := b
	if len(body.Admin) > 0 && string(body.Admin) != "null" {
		profile = body.Admin
	}
	if err := json.Unmarshal(profile, &res.Profile); err != nil {
		return LoginResult{}, fmt.Errorf("decode login profile: %w", err)
	}
	return res, nil
}

func (c *Client) FetchCustomers(ctx context.Context) ([]domain.Customer, error) {
	return getList[domain.Customer](ctx, c, c.tenantPath("Customer"))
}

func (c *Client) FetchCustomerByID(ctx context.Context, id domain.ID) (domain.Customer, error) {
	var cu domain.Customer
	b, err := c.do(ctx, http.MethodGet, c.tenantPath("Customer", id.String()), nil)
	if err != nil {
		return cu, err
	}
	if err := json.Unmarshal(unwrap(b, "customer", "data"), &cu); err != nil {
		return cu, fmt.Errorf("decode customer %s: %w", id, err)
	}
	return cu, nil
}

func (c *Client) CreateCustomer(ctx context.Context, cu domain.Customer) (domain.Customer, error) {
	out := cu
	err := c.doJSON(ctx, http.MethodPost, c.tenantPath("Customer"), cu, &out)
	return out, err
}

func (c *Client) UpdateCustomer(ctx context.Context, cu domain.Customer) (domain.Customer, error) {
	out := cu
	err := c.doJSON(ctx, http.MethodPut, c.tenantPath("Customer", cu.ID.String()), cu, &out)
	return out, err
}

func (c *Client) FetchChefs(ctx context.Context) ([]domain.Chef, error) {
	return getList[domain.Chef](ctx, c, c.tenantPath("Admin", "Chefs"))
}

func (c *Client) CreateChef(ctx context.Context, ch domain.Chef) (domain.Chef, error) {
	out := ch
	err := c.doJSON(ctx, http.MethodPost, c.tenantPath("Admin"), ch, &out)
	out.Password = ""
	return out, err
}

func (c *Client) DeleteChef(ctx context.Context, id domain.ID) error {
	return c.doJSON(ctx, http.MethodDelete, c.tenantPath("Admin", id.String()), nil, nil)
}
