package profile

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roosthq/roost-cli/internal/api"
	"github.com/roosthq/roost-cli/pkg/models"
)

// fakeUpdater records UpdateRecord calls and returns a preset error.
type fakeUpdater struct {
	collection string
	id         string
	fields     map[string]any
	calls      int
	err        error
}

func (f *fakeUpdater) UpdateRecord(_ context.Context, collection, id string, fields map[string]any) (models.Record, error) {
	f.calls++
	f.collection = collection
	f.id = id
	f.fields = fields
	if f.err != nil {
		return models.Record{}, f.err
	}
	return models.Record{ID: id, Name: "Server Name"}, nil
}

func newTestStore(updater *fakeUpdater) *Store {
	return New(updater, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func testProfile() models.UserProfile {
	return models.UserProfile{
		ID:        "u1",
		Token:     "tok1",
		Name:      "Ann",
		Email:     "a@x.com",
		Created:   "05-03-2024",
		ThemeMode: models.ThemeForest,
	}
}

func TestSetAndCurrent(t *testing.T) {
	store := newTestStore(&fakeUpdater{})

	assert.Nil(t, store.Current())

	store.Set(testProfile())
	p := store.Current()
	require.NotNil(t, p)
	assert.Equal(t, "Ann", p.Name)

	// Current returns a copy; mutating it must not leak into the store.
	p.Name = "Mutated"
	assert.Equal(t, "Ann", store.Current().Name)
}

func TestClear(t *testing.T) {
	store := newTestStore(&fakeUpdater{})
	store.Set(testProfile())

	store.Clear()

	assert.Nil(t, store.Current())
}

func TestUpdate_NoProfilePanics(t *testing.T) {
	store := newTestStore(&fakeUpdater{})

	assert.Panics(t, func() {
		_ = store.Update(context.Background(), map[string]any{"name": "Bea"})
	})
}

func TestUpdate_PushesRemote(t *testing.T) {
	updater := &fakeUpdater{}
	store := newTestStore(updater)
	store.Set(testProfile())

	err := store.Update(context.Background(), map[string]any{"name": "Bea"})
	require.NoError(t, err)

	assert.Equal(t, api.CollectionUsers, updater.collection)
	assert.Equal(t, "u1", updater.id)
	assert.Equal(t, "Bea", updater.fields["name"])

	// The held profile is deliberately not refreshed from the server
	// response; the caller merges.
	assert.Equal(t, "Ann", store.Current().Name)
}

func TestUpdate_RemoteMessagePassthrough(t *testing.T) {
	updater := &fakeUpdater{err: &api.APIError{Message: "name must not be empty", StatusCode: 400}}
	store := newTestStore(updater)
	store.Set(testProfile())

	err := store.Update(context.Background(), map[string]any{"name": ""})
	require.Error(t, err)
	assert.Equal(t, "name must not be empty", err.Error())
}

func TestUpdate_FallbackMessage(t *testing.T) {
	updater := &fakeUpdater{err: errors.New("dial tcp: connection refused")}
	store := newTestStore(updater)
	store.Set(testProfile())

	err := store.Update(context.Background(), map[string]any{"name": "Bea"})
	require.Error(t, err)
	assert.Equal(t, "failed to update profile", err.Error())
}

func TestHasUnsavedChanges(t *testing.T) {
	store := newTestStore(&fakeUpdater{})
	store.Set(testProfile())

	assert.False(t, store.HasUnsavedChanges(testProfile()))

	changed := testProfile()
	changed.Name = "Bea"
	assert.True(t, store.HasUnsavedChanges(changed))

	// Transient write-only fields participate in the comparison too.
	stale := testProfile()
	stale.Password = "leftover"
	assert.True(t, store.HasUnsavedChanges(stale))
}

func TestHasUnsavedChanges_NoProfile(t *testing.T) {
	store := newTestStore(&fakeUpdater{})

	assert.True(t, store.HasUnsavedChanges(testProfile()))
}

func TestSubscribe(t *testing.T) {
	store := newTestStore(&fakeUpdater{})

	var events []*models.UserProfile
	store.Subscribe(func(p *models.UserProfile) {
		events = append(events, p)
	})

	store.Set(testProfile())
	store.Clear()

	require.Len(t, events, 2)
	assert.Equal(t, "u1", events[0].ID)
	assert.Nil(t, events[1])
}
