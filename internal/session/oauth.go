package session

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os/exec"
	"runtime"
	"time"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/google/uuid"
	"golang.org/x/oauth2"

	"github.com/roosthq/roost-cli/internal/api"
)

// OAuthOptions configures the browser-based OAuth login flow. The provider
// endpoints are discovered from the OIDC issuer; the backend performs the
// actual code exchange and account linking.
type OAuthOptions struct {
	Provider string // backend provider key, e.g. "google"
	Issuer   string // OIDC issuer URL, e.g. https://accounts.google.com
	ClientID string
}

// oauthCallbackTimeout bounds how long we wait for the user to finish the
// consent screen.
const oauthCallbackTimeout = 3 * time.Minute

// LoginWithOAuth runs the authorization-code flow with PKCE through the
// system browser and a loopback redirect, then hands the code to the
// backend for exchange. On success the controller transitions to
// Authenticated exactly as with a password login.
func (c *Controller) LoginWithOAuth(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.oauth.Issuer == "" || c.oauth.ClientID == "" {
		return errors.New("OAuth login is not configured; set oauth.issuer and oauth.client_id")
	}

	provider, err := oidc.NewProvider(ctx, c.oauth.Issuer)
	if err != nil {
		return fmt.Errorf("failed to discover OAuth provider: %w", err)
	}

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return fmt.Errorf("failed to open loopback listener: %w", err)
	}
	defer ln.Close()

	redirectURL := fmt.Sprintf("http://%s/callback", ln.Addr().String())

	cfg := oauth2.Config{
		ClientID:    c.oauth.ClientID,
		Endpoint:    provider.Endpoint(),
		RedirectURL: redirectURL,
		Scopes:      []string{oidc.ScopeOpenID, "profile", "email"},
	}

	state := uuid.NewString()
	verifier := oauth2.GenerateVerifier()
	authURL := cfg.AuthCodeURL(state, oauth2.S256ChallengeOption(verifier))

	code, err := c.awaitCallback(ctx, ln, authURL, state)
	if err != nil {
		return err
	}

	resp, err := c.api.AuthWithOAuth2(ctx, c.oauth.Provider, code, verifier, redirectURL)
	if err != nil {
		return api.Normalize(err, loginFallbackMessage)
	}

	c.profiles.Set(c.mapAuthResponse(resp))
	c.log.Debug("signed in via oauth", "provider", c.oauth.Provider)
	return nil
}

// awaitCallback opens the browser at authURL and serves the loopback
// redirect until the provider delivers an authorization code or the flow
// times out.
func (c *Controller) awaitCallback(ctx context.Context, ln net.Listener, authURL, state string) (string, error) {
	type result struct {
		code string
		err  error
	}
	results := make(chan result, 1)

	srv := &http.Server{
		Handler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/callback" {
				http.NotFound(w, r)
				return
			}
			q := r.URL.Query()
			if q.Get("state") != state {
				http.Error(w, "state mismatch", http.StatusBadRequest)
				results <- result{err: errors.New("oauth state mismatch")}
				return
			}
			if errMsg := q.Get("error"); errMsg != "" {
				http.Error(w, errMsg, http.StatusBadRequest)
				results <- result{err: fmt.Errorf("provider rejected the request: %s", errMsg)}
				return
			}
			fmt.Fprintln(w, "Signed in. You can close this window and return to the terminal.")
			results <- result{code: q.Get("code")}
		}),
	}
	go srv.Serve(ln) //nolint:errcheck // closed via Shutdown below
	defer srv.Shutdown(context.Background())

	if err := openBrowser(authURL); err != nil {
		c.log.Debug("could not open browser", "error", err)
	}
	fmt.Printf("Open the following URL to sign in:\n\n  %s\n\n", authURL)

	timer := time.NewTimer(oauthCallbackTimeout)
	defer timer.Stop()

	select {
	case res := <-results:
		return res.code, res.err
	case <-timer.C:
		return "", errors.New("timed out waiting for the browser sign-in")
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// openBrowser launches the system browser at url, best effort.
func openBrowser(url string) error {
	switch runtime.GOOS {
	case "darwin":
		return exec.Command("open", url).Start()
	case "windows":
		return exec.Command("rundll32", "url.dll,FileProtocolHandler", url).Start()
	default:
		return exec.Command("xdg-open", url).Start()
	}
}
