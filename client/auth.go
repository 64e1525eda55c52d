package client

import (
	"context"
	"fmt"
	"net/http"

	"github.com/rs/zerolog/log"
)

// GetMe fetches the profile of the user owning the current bearer token.
// Any non-2xx response, expired tokens included, is returned as an error.
func (c *Client) GetMe(ctx context.Context) (*Profile, error) {
	req, err := createRequest(ctx, http.MethodGet, c.endpoint(c.MePath), c.Token(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create profile request: %w", err)
	}

	var out meResponse
	if err := doJSON(c.httpClient(), req, &out); err != nil {
		return nil, fmt.Errorf("failed to fetch profile: %w", err)
	}
	if out.User == nil {
		return nil, fmt.Errorf("failed to fetch profile: %w: missing user", ErrMalformedResponse)
	}

	log.Debug().Str("user_id", out.User.ID).Msg("Fetched profile")
	return out.User, nil
}

// Login exchanges an email and password for a credential pair and profile.
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResponse, error) {
	req, err := createRequest(ctx, http.MethodPost, c.endpoint(c.LoginPath), "", loginRequest{Email: email, Password: password})
	if err != nil {
		return nil, fmt.Errorf("failed to create login request: %w", err)
	}

	var out LoginResponse
	if err := doJSON(c.httpClient(), req, &out); err != nil {
		return nil, fmt.Errorf("login request failed: %w", err)
	}
	switch {
	case out.AccessToken == "":
		return nil, fmt.Errorf("login request failed: %w: missing accessToken", ErrMalformedResponse)
	case out.RefreshToken == "":
		return nil, fmt.Errorf("login request failed: %w: missing refreshToken", ErrMalformedResponse)
	case out.User == nil:
		return nil, fmt.Errorf("login request failed: %w: missing user", ErrMalformedResponse)
	}
	return &out, nil
}

// Refresh exchanges a refresh token for a new access token. The refresh token
// travels in the body; no bearer header is sent.
func (c *Client) Refresh(ctx context.Context, refreshToken string) (*RefreshResponse, error) {
	req, err := createRequest(ctx, http.MethodPost, c.endpoint(c.RefreshPath), "", refreshRequest{RefreshToken: refreshToken})
	if err != nil {
		return nil, fmt.Errorf("failed to create refresh request: %w", err)
	}

	var out RefreshResponse
	if err := doJSON(c.httpClient(), req, &out); err != nil {
		return nil, fmt.Errorf("token refresh failed: %w", err)
	}
	if out.AccessToken == "" {
		return nil, fmt.Errorf("token refresh failed: %w: missing accessToken", ErrMalformedResponse)
	}
	return &out, nil
}
