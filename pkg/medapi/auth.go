package medapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// TokenPair is what the backend issues on login or account creation.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
}

// Profile is the backend's /user/me object, kept as-is.
type Profile map[string]interface{}

// DisplayName picks the first non-empty name-like field.
func (p Profile) DisplayName() string {
	for _, key := range []string{"user_name", "name", "full_name", "username", "email"} {
		if v, ok := p[key].(string); ok && strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

// Role returns the role indicator as a string, whatever JSON type it came as.
func (p Profile) Role() string {
	for _, key := range []string{"user_role", "user_role_id", "role"} {
		switch v := p[key].(type) {
		case string:
			if v != "" {
				return v
			}
		case float64:
			return fmt.Sprintf("%g", v)
		case bool:
			return fmt.Sprintf("%t", v)
		}
	}
	return ""
}

type AccountRequest struct {
	Name      string `json:"name"`
	UserIdent string `json:"user_ident"`
	Password  string `json:"password"`
}

// Login posts form-encoded credentials. Any failure answer is ErrInvalidCredentials.
func (c *Client) Login(ctx context.Context, username, password string) (*TokenPair, error) {
	form := url.Values{}
	form.Set("username", username)
	form.Set("password", password)

	req, err := c.newRequest(ctx, http.MethodPost, LoginEndpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	body, err := c.send(ctx, "medapi.Login", req)
	if err != nil {
		var statusErr *StatusError
		if errors.As(err, &statusErr) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	var pair TokenPair
	if err := json.Unmarshal(body, &pair); err != nil || pair.AccessToken == "" {
		return nil, ErrInvalidCredentials
	}
	return &pair, nil
}

// Logout tells the backend to drop the token. Callers treat it as best-effort.
func (c *Client) Logout(ctx context.Context, accessToken string) error {
	req, err := c.newRequest(ctx, http.MethodPost, LogoutEndpoint, nil)
	if err != nil {
		return err
	}
	withBearer(req, accessToken)

	_, err = c.send(ctx, "medapi.Logout", req)
	return err
}

func (c *Client) Me(ctx context.Context, accessToken string) (Profile, error) {
	req, err := c.newRequest(ctx, http.MethodGet, ProfileEndpoint, nil)
	if err != nil {
		return nil, err
	}
	withBearer(req, accessToken)

	body, err := c.send(ctx, "medapi.Me", req)
	if err != nil {
		return nil, err
	}

	var profile Profile
	if err := json.Unmarshal(body, &profile); err != nil || profile == nil {
		return nil, fmt.Errorf("%w: user profile", ErrUnexpectedResponse)
	}
	return profile, nil
}

func (c *Client) CheckAccount(ctx context.Context, ident string) (bool, error) {
	payload, err := json.Marshal(map[string]string{"user_ident": ident})
	if err != nil {
		return false, fmt.Errorf("marshal request: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, CheckAccountEndpoint, bytes.NewReader(payload))
	if err != nil {
		return false, err
	}
	req.Header.Set("Content-Type", "application/json")

	body, err := c.send(ctx, "medapi.CheckAccount", req)
	if err != nil {
		return false, err
	}

	var res struct {
		IsExist *bool `json:"isExist"`
	}
	if err := json.Unmarshal(body, &res); err != nil || res.IsExist == nil {
		return false, fmt.Errorf("%w: account check", ErrUnexpectedResponse)
	}
	return *res.IsExist, nil
}

func (c *Client) CreateAccount(ctx context.Context, account AccountRequest) (*TokenPair, error) {
	payload, err := json.Marshal(account)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, CreateAccountEndpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	body, err := c.send(ctx, "medapi.CreateAccount", req)
	if err != nil {
		return nil, err
	}

	var pair TokenPair
	if err := json.Unmarshal(body, &pair); err != nil || pair.AccessToken == "" {
		return nil, fmt.Errorf("%w: account creation", ErrUnexpectedResponse)
	}
	return &pair, nil
}
