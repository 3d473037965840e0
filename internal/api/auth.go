package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/roosthq/roost-cli/pkg/models"
)

// AuthWithPassword authenticates with an email/password pair. On success the
// returned session token is held by the client and persisted.
func (c *Client) AuthWithPassword(ctx context.Context, identity, password string) (models.AuthResponse, error) {
	var resp models.AuthResponse
	err := c.DoJSON(ctx, RequestOptions{
		Method: http.MethodPost,
		Path:   fmt.Sprintf("/api/collections/%s/auth-with-password", CollectionUsers),
		Body: map[string]string{
			"identity": identity,
			"password": password,
		},
	}, &resp)
	if err != nil {
		return models.AuthResponse{}, err
	}

	c.setToken(ctx, resp.Token)
	return resp, nil
}

// AuthWithOAuth2 completes an OAuth2 code flow. The authorization code and
// PKCE verifier obtained from the provider are exchanged by the backend,
// which creates or links the user record.
func (c *Client) AuthWithOAuth2(ctx context.Context, provider, code, verifier, redirectURL string) (models.AuthResponse, error) {
	var resp models.AuthResponse
	err := c.DoJSON(ctx, RequestOptions{
		Method: http.MethodPost,
		Path:   fmt.Sprintf("/api/collections/%s/auth-with-oauth2", CollectionUsers),
		Body: map[string]string{
			"provider":     provider,
			"code":         code,
			"codeVerifier": verifier,
			"redirectUrl":  redirectURL,
		},
	}, &resp)
	if err != nil {
		return models.AuthResponse{}, err
	}

	c.setToken(ctx, resp.Token)
	return resp, nil
}

// AuthRefresh exchanges the held session token for a fresh one and returns
// the current user record. Fails when the session is no longer valid.
func (c *Client) AuthRefresh(ctx context.Context) (models.AuthResponse, error) {
	var resp models.AuthResponse
	err := c.DoJSON(ctx, RequestOptions{
		Method: http.MethodPost,
		Path:   fmt.Sprintf("/api/collections/%s/auth-refresh", CollectionUsers),
	}, &resp)
	if err != nil {
		return models.AuthResponse{}, err
	}

	c.setToken(ctx, resp.Token)
	return resp, nil
}

// RequestEmailChange asks the backend to start the email-change flow for the
// authenticated user. Confirmation happens out of band.
func (c *Client) RequestEmailChange(ctx context.Context, newEmail string) error {
	return c.DoJSON(ctx, RequestOptions{
		Method: http.MethodPost,
		Path:   fmt.Sprintf("/api/collections/%s/request-email-change", CollectionUsers),
		Body: map[string]string{
			"newEmail": newEmail,
		},
	}, nil)
}

// TokenExpired reports whether the session token's exp claim has passed.
// The signature is not verified; only the server can do that. A token that
// cannot be parsed is treated as expired.
func TokenExpired(token string) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return true
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return true
	}
	return time.Now().After(exp.Time)
}
