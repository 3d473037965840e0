package commands

import (
	"context"
	"fmt"

	"github.com/roosthq/roost-cli/internal/api"
	"github.com/roosthq/roost-cli/internal/cli/config"
	"github.com/roosthq/roost-cli/internal/localstore"
	"github.com/roosthq/roost-cli/internal/profile"
	"github.com/roosthq/roost-cli/internal/session"
	"github.com/roosthq/roost-cli/internal/theme"
	"github.com/roosthq/roost-cli/pkg/logger"
)

// runtime wires the stores and the API client together for one command
// invocation. Construction order matters: the profile store feeds the theme
// store, and both feed the authentication controller.
type runtime struct {
	kv       *localstore.Store
	api      *api.Client
	profiles *profile.Store
	themes   *theme.Store
	auth     *session.Controller
}

func (a *App) initRuntime(ctx context.Context) (*runtime, error) {
	if a.Config.Server.URL == "" {
		return nil, fmt.Errorf("server URL not configured; set server.url in %s or ROOST_SERVER_URL", config.ConfigDir())
	}

	log := logger.New(a.Debug)

	kv, err := localstore.Open(localstore.Options{
		Path:   a.Config.State.Path,
		Logger: log,
	})
	if err != nil {
		return nil, err
	}

	apiClient, err := api.New(ctx, api.Options{
		BaseURL: a.Config.Server.URL,
		Timeout: a.Config.Server.Timeout,
		Tokens:  session.NewSessionTokenStore(kv),
		Logger:  log,
	})
	if err != nil {
		kv.Close()
		return nil, err
	}

	profiles := profile.New(apiClient, log)
	themes := theme.New(kv, profiles, log)
	auth := session.New(session.Options{
		API:      apiClient,
		Profiles: profiles,
		Themes:   themes,
		OAuth: session.OAuthOptions{
			Provider: a.Config.OAuth.Provider,
			Issuer:   a.Config.OAuth.Issuer,
			ClientID: a.Config.OAuth.ClientID,
		},
		Logger: log,
	})

	return &runtime{
		kv:       kv,
		api:      apiClient,
		profiles: profiles,
		themes:   themes,
		auth:     auth,
	}, nil
}

// startup runs the session-then-theme sequence every authenticated command
// begins with: validate the persisted session (fail-closed) and resolve the
// active theme from whatever state is left.
func (r *runtime) startup(ctx context.Context) bool {
	authenticated := r.auth.Refresh(ctx)
	r.themes.ResolveInitial(ctx)
	return authenticated
}

func (r *runtime) Close() {
	r.kv.Close()
}
