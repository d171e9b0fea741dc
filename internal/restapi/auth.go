package restapi

import (
	"context"
	"net/http"
)

type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type Registration struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type ProfileUpdate struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// RoleEnvelope mirrors the backend's role entity shape.
type RoleEnvelope struct {
	RoleEnum string `json:"roleEnum"`
}

// MeResponse is the authoritative session profile from GET /auth/me.
type MeResponse struct {
	ID    int64          `json:"id"`
	Name  string         `json:"name"`
	Email string         `json:"email"`
	Roles []RoleEnvelope `json:"roles"`
}

// RoleNames flattens the role envelopes to raw tokens. Normalization to the
// canonical uppercase set happens in the session store.
func (m *MeResponse) RoleNames() []string {
	names := make([]string, 0, len(m.Roles))
	for _, r := range m.Roles {
		names = append(names, r.RoleEnum)
	}
	return names
}

func (c *Client) Login(ctx context.Context, creds Credentials) error {
	return c.do(ctx, http.MethodPost, "/auth/log-in", creds, nil)
}

func (c *Client) Register(ctx context.Context, reg Registration) error {
	return c.do(ctx, http.MethodPost, "/auth/sign-up", reg, nil)
}

func (c *Client) Me(ctx context.Context) (*MeResponse, error) {
	var me MeResponse
	if err := c.do(ctx, http.MethodGet, "/auth/me", nil, &me); err != nil {
		return nil, err
	}
	return &me, nil
}

func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/auth/logout", nil, nil)
}

func (c *Client) UpdateProfile(ctx context.Context, update ProfileUpdate) (*MeResponse, error) {
	var me MeResponse
	if err := c.do(ctx, http.MethodPut, "/auth/me", update, &me); err != nil {
		return nil, err
	}
	return &me, nil
}
