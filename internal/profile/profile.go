// Package profile owns the locally cached user profile: the single mutable
// slot representing the authenticated user, or nil when signed out.
package profile

import (
	"context"
	"log/slog"
	"reflect"
	"sync"

	"github.com/roosthq/roost-cli/internal/api"
	"github.com/roosthq/roost-cli/pkg/models"
)

// updateFallbackMessage is surfaced when the backend fails without a usable
// message of its own.
const updateFallbackMessage = "failed to update profile"

// RecordUpdater is the remote capability the store needs to push profile
// changes.
type RecordUpdater interface {
	UpdateRecord(ctx context.Context, collection, id string, fields map[string]any) (models.Record, error)
}

// Store exclusively holds the current UserProfile value. Only the
// authentication controller writes whole profiles into it; everything else
// reads through Current.
type Store struct {
	mu      sync.RWMutex
	remote  RecordUpdater
	current *models.UserProfile
	subs    []func(*models.UserProfile)
	log     *slog.Logger
}

// New creates an empty Store in the unauthenticated state.
func New(remote RecordUpdater, log *slog.Logger) *Store {
	return &Store{
		remote: remote,
		log:    log.With("component", "profile"),
	}
}

// Set replaces the held profile wholesale. No validation happens here; the
// authentication controller is responsible for handing over a normalized
// profile.
func (s *Store) Set(p models.UserProfile) {
	s.mu.Lock()
	s.current = &p
	subs := s.subs
	s.mu.Unlock()

	for _, fn := range subs {
		fn(&p)
	}
}

// Clear drops the held profile, returning to the unauthenticated state.
func (s *Store) Clear() {
	s.mu.Lock()
	s.current = nil
	subs := s.subs
	s.mu.Unlock()

	for _, fn := range subs {
		fn(nil)
	}
}

// Current returns a copy of the held profile, or nil when none is held.
func (s *Store) Current() *models.UserProfile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return nil
	}
	cp := *s.current
	return &cp
}

// Update pushes fields to the backend for the held profile's record.
// The held profile must exist; calling Update while signed out is a
// programmer error and panics. On success the locally held profile is
// deliberately NOT refreshed from the server response; callers merge their
// changes into the held copy (via Set) themselves.
func (s *Store) Update(ctx context.Context, fields map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil {
		panic("profile: Update called with no active profile")
	}

	if _, err := s.remote.UpdateRecord(ctx, api.CollectionUsers, s.current.ID, fields); err != nil {
		s.log.Debug("profile update rejected", "error", err)
		return api.Normalize(err, updateFallbackMessage)
	}
	return nil
}

// HasUnsavedChanges reports whether candidate differs structurally from the
// held profile in any field, transient write-only fields included. Callers
// must construct candidates with clean transient fields to avoid false
// positives. With no held profile any candidate counts as changed.
func (s *Store) HasUnsavedChanges(candidate models.UserProfile) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return true
	}
	return !reflect.DeepEqual(*s.current, candidate)
}

// Subscribe registers fn to run after Set and Clear. The argument is the new
// profile, nil on Clear.
func (s *Store) Subscribe(fn func(*models.UserProfile)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs = append(s.subs, fn)
}
