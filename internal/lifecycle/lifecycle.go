// Package lifecycle coordinates per-user data across every registered
// dataset: one call loads a signed-in user's data everywhere, one call
// tears it down on sign-out.
package lifecycle

import (
	"context"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/setmaster/internal/shared"
)

// Dataset is one unit of per-user state the manager controls.
type Dataset interface {
	Name() string
	LoadUserData(ctx context.Context, userID string) error
	ClearData()
}

// Releaser is implemented by datasets holding live resources, such as
// open chat subscriptions, that must be shut down before their data is
// cleared.
type Releaser interface {
	Release()
}

// Manager activates and deactivates a user's data across datasets.
type Manager struct {
	mu       sync.Mutex
	datasets []Dataset
	logger   *log.Logger
	userID   string
}

// NewManager creates a manager over the given datasets.
func NewManager(logger *log.Logger, datasets ...Dataset) *Manager {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	return &Manager{
		datasets: datasets,
		logger:   shared.WithLogger(logger, "component", "lifecycle"),
	}
}

// Register adds a dataset to the manager. Datasets registered after an
// Activate are not retroactively loaded.
func (m *Manager) Register(dataset Dataset) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.datasets = append(m.datasets, dataset)
}

// ActiveUser returns the id of the activated user, or "".
func (m *Manager) ActiveUser() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.userID
}

// Activate loads the user's data into every dataset in parallel. A
// dataset that fails to load is logged and left with empty state; the
// failure never blocks the others. Calling Activate again, for the same
// user or a different one, reloads every dataset.
func (m *Manager) Activate(ctx context.Context, userID string) {
	m.mu.Lock()
	datasets := append([]Dataset(nil), m.datasets...)
	m.userID = userID
	m.mu.Unlock()

	m.logger.Info("activating user data", "user", userID, "datasets", len(datasets))

	var wg sync.WaitGroup
	for _, dataset := range datasets {
		wg.Add(1)
		go func(d Dataset) {
			defer wg.Done()
			if err := d.LoadUserData(ctx, userID); err != nil {
				m.logger.Error("failed to load dataset", "dataset", d.Name(), "user", userID, "err", err)
			}
		}(dataset)
	}
	wg.Wait()

	m.logger.Info("user data activated", "user", userID)
}

// Deactivate releases live resources, then clears every dataset. Safe to
// call before any Activate and safe to call twice.
func (m *Manager) Deactivate() {
	m.mu.Lock()
	datasets := append([]Dataset(nil), m.datasets...)
	userID := m.userID
	m.userID = ""
	m.mu.Unlock()

	if userID != "" {
		m.logger.Info("deactivating user data", "user", userID)
	}

	// Releasing first stops background deliveries from repopulating
	// state that is about to be cleared.
	for _, dataset := range datasets {
		if releaser, ok := dataset.(Releaser); ok {
			releaser.Release()
		}
	}

	for _, dataset := range datasets {
		dataset.ClearData()
	}
}
