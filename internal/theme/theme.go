// Package theme owns the active theme preference: one of two named variants,
// resolved from the user profile, the durable local store, or the default.
package theme

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/roosthq/roost-cli/internal/localstore"
	"github.com/roosthq/roost-cli/pkg/models"
)

// storageKey is the durable local storage key holding the theme name.
const storageKey = "theme"

// Storage is the durable key-value surface the store persists into.
type Storage interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
}

// ProfileReader exposes the currently held user profile, nil when
// unauthenticated.
type ProfileReader interface {
	Current() *models.UserProfile
}

// Store holds the active theme. It is the only component permitted to
// mutate the theme value.
type Store struct {
	mu       sync.Mutex
	local    Storage
	profiles ProfileReader
	current  models.ThemePreference
	subs     []func(models.ThemePreference)
	log      *slog.Logger
}

// New creates a Store. The active theme starts at the default until
// ResolveInitial runs.
func New(local Storage, profiles ProfileReader, log *slog.Logger) *Store {
	return &Store{
		local:    local,
		profiles: profiles,
		current:  models.DefaultTheme,
		log:      log.With("component", "theme"),
	}
}

// ResolveInitial picks the startup theme: the authenticated user's stored
// preference when a profile is active, else the durable local value, else
// the default. The resolved value is always written back to durable storage.
// Missing or invalid inputs fall through; resolution never fails.
func (s *Store) ResolveInitial(ctx context.Context) models.ThemePreference {
	s.mu.Lock()
	defer s.mu.Unlock()

	resolved := models.DefaultTheme

	if p := s.profiles.Current(); p != nil && p.ThemeMode.Valid() {
		resolved = p.ThemeMode
	} else if stored, err := s.local.Get(ctx, storageKey); err == nil && models.ThemePreference(stored).Valid() {
		resolved = models.ThemePreference(stored)
	} else if err != nil && !errors.Is(err, localstore.ErrNotFound) {
		s.log.Warn("failed to read stored theme, using default", "error", err)
	}

	s.setLocked(ctx, resolved)
	return resolved
}

// Toggle flips between the two variants and persists the new value.
func (s *Store) Toggle(ctx context.Context) models.ThemePreference {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.setLocked(ctx, s.current.Other())
	return s.current
}

// Current returns the active theme. Never empty while the process runs.
func (s *Store) Current() models.ThemePreference {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Subscribe registers fn to run after every theme change. Callbacks run
// synchronously on the mutating goroutine.
func (s *Store) Subscribe(fn func(models.ThemePreference)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs = append(s.subs, fn)
}

func (s *Store) setLocked(ctx context.Context, t models.ThemePreference) {
	s.current = t
	if err := s.local.Set(ctx, storageKey, string(t)); err != nil {
		s.log.Warn("failed to persist theme", "error", err)
	}
	for _, fn := range s.subs {
		fn(t)
	}
}
