package lifecycle

import (
	"context"
	"errors"
	"sync"
	"testing"
)

type fakeDataset struct {
	mu       sync.Mutex
	name     string
	loadErr  error
	loaded   []string
	cleared  int
	released int
}

func (f *fakeDataset) Name() string {
	return f.name
}

func (f *fakeDataset) LoadUserData(_ context.Context, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.loadErr != nil {
		return f.loadErr
	}
	f.loaded = append(f.loaded, userID)
	return nil
}

func (f *fakeDataset) ClearData() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cleared++
}

func (f *fakeDataset) Release() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.released++
}

func TestManager(t *testing.T) {
	t.Run("activate loads every dataset", func(t *testing.T) {
		songs := &fakeDataset{name: "songs"}
		setlists := &fakeDataset{name: "setlists"}
		manager := NewManager(nil, songs, setlists)

		manager.Activate(context.Background(), "user-1")

		if manager.ActiveUser() != "user-1" {
			t.Errorf("expected active user user-1, got %q", manager.ActiveUser())
		}
		for _, d := range []*fakeDataset{songs, setlists} {
			if len(d.loaded) != 1 || d.loaded[0] != "user-1" {
				t.Errorf("dataset %s: expected one load for user-1, got %v", d.name, d.loaded)
			}
		}
	})

	t.Run("one failing dataset does not block the rest", func(t *testing.T) {
		broken := &fakeDataset{name: "broken", loadErr: errors.New("backend down")}
		healthy := &fakeDataset{name: "healthy"}
		manager := NewManager(nil, broken, healthy)

		manager.Activate(context.Background(), "user-1")

		if len(healthy.loaded) != 1 {
			t.Errorf("expected healthy dataset loaded, got %v", healthy.loaded)
		}
	})

	t.Run("deactivate releases before clearing", func(t *testing.T) {
		chat := &fakeDataset{name: "chat"}
		manager := NewManager(nil, chat)

		manager.Activate(context.Background(), "user-1")
		manager.Deactivate()

		if chat.released != 1 {
			t.Errorf("expected one release, got %d", chat.released)
		}
		if chat.cleared != 1 {
			t.Errorf("expected one clear, got %d", chat.cleared)
		}
		if manager.ActiveUser() != "" {
			t.Errorf("expected no active user, got %q", manager.ActiveUser())
		}
	})

	t.Run("deactivate before activate is safe", func(t *testing.T) {
		dataset := &fakeDataset{name: "songs"}
		manager := NewManager(nil, dataset)

		manager.Deactivate()
		manager.Deactivate()

		if dataset.cleared != 2 {
			t.Errorf("expected clears to run, got %d", dataset.cleared)
		}
	})

	t.Run("switching users reloads datasets", func(t *testing.T) {
		dataset := &fakeDataset{name: "songs"}
		manager := NewManager(nil, dataset)

		manager.Activate(context.Background(), "user-1")
		manager.Activate(context.Background(), "user-2")

		if len(dataset.loaded) != 2 || dataset.loaded[1] != "user-2" {
			t.Errorf("expected reload for user-2, got %v", dataset.loaded)
		}
		if manager.ActiveUser() != "user-2" {
			t.Errorf("expected active user user-2, got %q", manager.ActiveUser())
		}
	})
}
