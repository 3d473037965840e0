// Package session implements the authentication controller: the state
// machine over the session lifecycle (login, registration, OAuth, refresh,
// logout, account management) and the normalization of backend auth
// responses into the local profile shape.
package session

import (
	"context"
	"log/slog"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/roosthq/roost-cli/internal/api"
	"github.com/roosthq/roost-cli/internal/localstore"
	"github.com/roosthq/roost-cli/internal/profile"
	"github.com/roosthq/roost-cli/internal/theme"
	"github.com/roosthq/roost-cli/pkg/models"
)

// sessionKey is the durable local storage key holding the session token.
// The key is owned here: the API client writes through SessionTokenStore,
// and only the controller clears it.
const sessionKey = "session"

// Fallback messages for remote failures that arrive without a usable
// server-supplied message.
const (
	loginFallbackMessage       = "failed to sign in"
	registerFallbackMessage    = "failed to create account"
	emailChangeFallbackMessage = "failed to request email change"
	deleteFallbackMessage      = "failed to delete account"
)

// SessionTokenStore adapts the durable local store to the API client's
// TokenStore contract under the session key.
type SessionTokenStore struct {
	kv *localstore.Store
}

// NewSessionTokenStore wraps kv as the persistence surface for the session
// token.
func NewSessionTokenStore(kv *localstore.Store) *SessionTokenStore {
	return &SessionTokenStore{kv: kv}
}

func (s *SessionTokenStore) SaveToken(ctx context.Context, token string) error {
	return s.kv.Set(ctx, sessionKey, token)
}

func (s *SessionTokenStore) LoadToken(ctx context.Context) (string, error) {
	return s.kv.Get(ctx, sessionKey)
}

func (s *SessionTokenStore) ClearToken(ctx context.Context) error {
	return s.kv.Delete(ctx, sessionKey)
}

// Controller orchestrates authentication transitions. All transitions are
// serialized by a mutex: overlapping triggers queue rather than race for the
// single profile slot.
type Controller struct {
	mu       sync.Mutex
	api      *api.Client
	profiles *profile.Store
	themes   *theme.Store
	validate *validator.Validate
	oauth    OAuthOptions
	log      *slog.Logger
}

// Options holds the collaborators a Controller needs.
type Options struct {
	API      *api.Client
	Profiles *profile.Store
	Themes   *theme.Store
	OAuth    OAuthOptions
	Logger   *slog.Logger
}

// New creates a Controller.
func New(opts Options) *Controller {
	return &Controller{
		api:      opts.API,
		profiles: opts.Profiles,
		themes:   opts.Themes,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		oauth:    opts.OAuth,
		log:      opts.Logger.With("component", "session"),
	}
}

// Authenticated reports whether a profile is currently held.
func (c *Controller) Authenticated() bool {
	return c.profiles.Current() != nil
}

// Login authenticates with credentials and transitions to Authenticated.
// On failure the state is unchanged and a normalized error is returned.
func (c *Controller) Login(ctx context.Context, email, password string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.login(ctx, email, password)
}

// login is the lock-held body of Login, shared with CreateAccount.
func (c *Controller) login(ctx context.Context, email, password string) error {
	resp, err := c.api.AuthWithPassword(ctx, email, password)
	if err != nil {
		return api.Normalize(err, loginFallbackMessage)
	}

	c.profiles.Set(c.mapAuthResponse(resp))
	c.log.Debug("signed in", "email", email)
	return nil
}

// CreateAccount validates the registration request, creates the user record,
// then signs in with the new credentials. If login fails after the record
// was created, the partial creation is surfaced to the caller as-is.
func (c *Controller) CreateAccount(ctx context.Context, req models.NewAccountRequest) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.validate.Struct(req); err != nil {
		return err
	}

	_, err := c.api.CreateRecord(ctx, api.CollectionUsers, map[string]any{
		"email":           req.Email,
		"name":            req.Name,
		"themeMode":       string(req.ThemeMode),
		"password":        req.Password,
		"passwordConfirm": req.PasswordConfirm,
	})
	if err != nil {
		return api.Normalize(err, registerFallbackMessage)
	}

	return c.login(ctx, req.Email, req.Password)
}

// Logout clears the session token, its persisted copy, and the held
// profile. Best-effort; it never fails.
func (c *Controller) Logout(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.reset(ctx)
	c.log.Debug("signed out")
}

// Refresh validates the persisted session at startup. An absent or expired
// token forces a transition to Unauthenticated without touching the network;
// any remote failure does the same. Session invalidity is a normal path
// here, never an error. Returns whether a session is now active.
func (c *Controller) Refresh(ctx context.Context) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	token := c.api.Token()
	if token == "" || api.TokenExpired(token) {
		c.reset(ctx)
		return false
	}

	resp, err := c.api.AuthRefresh(ctx)
	if err != nil {
		c.log.Debug("session refresh rejected, signing out", "error", err)
		c.reset(ctx)
		return false
	}

	c.profiles.Set(c.mapAuthResponse(resp))
	return true
}

// ChangeEmail starts the email-change flow for the authenticated user.
func (c *Controller) ChangeEmail(ctx context.Context, newEmail string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.api.RequestEmailChange(ctx, newEmail); err != nil {
		return api.Normalize(err, emailChangeFallbackMessage)
	}
	return nil
}

// DeleteAccount removes the held profile's record on the backend. It does
// not transition to Unauthenticated by itself; callers that want the local
// session gone follow up with Logout.
func (c *Controller) DeleteAccount(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.profiles.Current()
	if p == nil {
		panic("session: DeleteAccount called with no active profile")
	}

	if err := c.api.DeleteRecord(ctx, api.CollectionUsers, p.ID); err != nil {
		return api.Normalize(err, deleteFallbackMessage)
	}
	return nil
}

// reset drops all session state: in-memory token, durable session key, and
// the held profile.
func (c *Controller) reset(ctx context.Context) {
	c.api.ClearSession(ctx)
	c.profiles.Clear()
}

// mapAuthResponse normalizes a raw backend auth result into the local
// UserProfile shape: avatar thumbnail URL (or empty), creation date
// formatted from the record's own timestamp, a concrete theme value (the
// theme store's current one when the record holds none), and empty
// transient fields regardless of input.
func (c *Controller) mapAuthResponse(resp models.AuthResponse) models.UserProfile {
	record := resp.Record

	avatar := ""
	if record.Avatar != "" {
		avatar = c.api.FileURL(api.CollectionUsers, record.ID, record.Avatar, api.AvatarThumbSize)
	}

	mode := models.ThemePreference(record.ThemeMode)
	if mode == "" {
		mode = c.themes.Current()
	}

	return models.UserProfile{
		ID:        record.ID,
		Token:     resp.Token,
		Name:      record.Name,
		Email:     record.Email,
		Avatar:    avatar,
		Created:   record.Created.Format(models.CreatedDateFormat),
		ThemeMode: mode,
	}
}
