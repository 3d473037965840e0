package localstore

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T, path string) *Store {
	t.Helper()
	store, err := Open(Options{
		Path:   path,
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStore_SetGet(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t, filepath.Join(t.TempDir(), "state.db"))

	if err := store.Set(ctx, "theme", "forest"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	got, err := store.Get(ctx, "theme")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got != "forest" {
		t.Errorf("Get() = %q, want %q", got, "forest")
	}
}

func TestStore_Overwrite(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t, filepath.Join(t.TempDir(), "state.db"))

	if err := store.Set(ctx, "theme", "forest"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if err := store.Set(ctx, "theme", "dawn"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	got, _ := store.Get(ctx, "theme")
	if got != "dawn" {
		t.Errorf("Get() = %q, want %q", got, "dawn")
	}
}

func TestStore_GetMissing(t *testing.T) {
	store := openTestStore(t, filepath.Join(t.TempDir(), "state.db"))

	_, err := store.Get(context.Background(), "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() error = %v, want ErrNotFound", err)
	}
}

func TestStore_Delete(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t, filepath.Join(t.TempDir(), "state.db"))

	if err := store.Set(ctx, "session", "tok1"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if err := store.Delete(ctx, "session"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := store.Get(ctx, "session"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() after Delete error = %v, want ErrNotFound", err)
	}

	// Deleting again is fine.
	if err := store.Delete(ctx, "session"); err != nil {
		t.Errorf("Delete() second call error = %v", err)
	}
}

func TestStore_PersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "state.db")

	first := openTestStore(t, path)
	if err := first.Set(ctx, "theme", "dawn"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	first.Close()

	second := openTestStore(t, path)
	got, err := second.Get(ctx, "theme")
	if err != nil {
		t.Fatalf("Get() after reopen error = %v", err)
	}
	if got != "dawn" {
		t.Errorf("Get() after reopen = %q, want %q", got, "dawn")
	}
}
