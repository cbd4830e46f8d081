package stores

import (
	"context"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/setmaster/internal/models"
	"github.com/desertthunder/setmaster/internal/services"
	"github.com/desertthunder/setmaster/internal/shared"
)

// SharedSetlistStore caches the setlists each band has shared.
type SharedSetlistStore struct {
	mu       sync.Mutex
	service  *services.SharedSetlistService
	logger   *log.Logger
	userID   string
	setlists map[string][]models.SharedSetlist
}

// NewSharedSetlistStore creates a shared setlist store over the given
// service.
func NewSharedSetlistStore(service *services.SharedSetlistService, logger *log.Logger) *SharedSetlistStore {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	return &SharedSetlistStore{
		service:  service,
		logger:   shared.WithLogger(logger, "dataset", "shared-setlists"),
		setlists: make(map[string][]models.SharedSetlist),
	}
}

// Name identifies the dataset.
func (s *SharedSetlistStore) Name() string {
	return "shared-setlists"
}

// LoadUserData resets the cache for a new user. Per-band lists load
// lazily through LoadForBand.
func (s *SharedSetlistStore) LoadUserData(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.userID = userID
	s.setlists = make(map[string][]models.SharedSetlist)
	return nil
}

// ClearData evicts all cached shared setlists.
func (s *SharedSetlistStore) ClearData() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.userID = ""
	s.setlists = make(map[string][]models.SharedSetlist)
}

// ForBand returns a copy of the cached shared setlists for a band.
func (s *SharedSetlistStore) ForBand(bandID string) []models.SharedSetlist {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.SharedSetlist(nil), s.setlists[bandID]...)
}

// LoadForBand fetches a band's shared setlists into the cache.
func (s *SharedSetlistStore) LoadForBand(ctx context.Context, bandID string) error {
	setlists, err := s.service.ForBand(ctx, bandID)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.setlists[bandID] = setlists
	return nil
}

// Share publishes a setlist snapshot to a band and prepends it to the
// cache so it shows first.
func (s *SharedSetlistStore) Share(ctx context.Context, req services.ShareRequest) (*models.SharedSetlist, error) {
	setlist, err := s.service.Share(ctx, req)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.setlists[req.BandID] = append([]models.SharedSetlist{*setlist}, s.setlists[req.BandID]...)
	s.mu.Unlock()

	return setlist, nil
}

// Delete removes a shared setlist through the backend and from the cache.
func (s *SharedSetlistStore) Delete(ctx context.Context, bandID, sharedSetlistID string) error {
	if err := s.service.Delete(ctx, sharedSetlistID); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	list := s.setlists[bandID]
	for i := range list {
		if list[i].ID == sharedSetlistID {
			s.setlists[bandID] = append(list[:i], list[i+1:]...)
			return nil
		}
	}
	return nil
}
