package stores

import (
	"context"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/setmaster/internal/models"
	"github.com/desertthunder/setmaster/internal/services"
	"github.com/desertthunder/setmaster/internal/shared"
)

// BandStore caches the current user's bands and pending invitations.
// Mutations write through the collaboration backend, then refresh the
// cache from the response.
type BandStore struct {
	mu          sync.Mutex
	service     *services.BandService
	logger      *log.Logger
	userID      string
	email       string
	bands       []models.Band
	invitations []models.BandInvitation
}

// NewBandStore creates a band store over the given service.
func NewBandStore(service *services.BandService, logger *log.Logger) *BandStore {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	return &BandStore{service: service, logger: shared.WithLogger(logger, "dataset", "bands")}
}

// Name identifies the dataset.
func (s *BandStore) Name() string {
	return "bands"
}

// SetEmail records the address invitations are looked up by. Must be set
// before LoadUserData for invitations to load.
func (s *BandStore) SetEmail(email string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.email = email
}

// LoadUserData fetches the user's bands and, when an email is set, their
// pending invitations. A failing invitation fetch is logged but does not
// fail the load.
func (s *BandStore) LoadUserData(ctx context.Context, userID string) error {
	bands, err := s.service.Bands(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to load bands: %w", err)
	}

	s.mu.Lock()
	email := s.email
	s.userID = userID
	s.bands = bands
	s.invitations = nil
	s.mu.Unlock()

	if email == "" {
		return nil
	}

	invitations, err := s.service.Invitations(ctx, email)
	if err != nil {
		s.logger.Warn("failed to load invitations", "user", userID, "err", err)
		return nil
	}

	s.mu.Lock()
	s.invitations = invitations
	s.mu.Unlock()

	return nil
}

// ClearData evicts the cached bands and invitations.
func (s *BandStore) ClearData() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.userID = ""
	s.bands = nil
	s.invitations = nil
}

// Bands returns a copy of the cached bands.
func (s *BandStore) Bands() []models.Band {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Band(nil), s.bands...)
}

// Band returns the cached band with the given id, or nil.
func (s *BandStore) Band(id string) *models.Band {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.bands {
		if s.bands[i].ID == id {
			copied := s.bands[i]
			return &copied
		}
	}
	return nil
}

// Invitations returns a copy of the cached pending invitations.
func (s *BandStore) Invitations() []models.BandInvitation {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.BandInvitation(nil), s.invitations...)
}

// CreateBand creates a band on the backend and adds it to the cache.
func (s *BandStore) CreateBand(ctx context.Context, name, description string) (*models.Band, error) {
	band, err := s.service.CreateBand(ctx, name, description)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.bands = append(s.bands, *band)
	s.mu.Unlock()

	return band, nil
}

// DeleteBand deletes a band on the backend and drops it from the cache.
func (s *BandStore) DeleteBand(ctx context.Context, bandID string) error {
	if err := s.service.DeleteBand(ctx, bandID); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.bands {
		if s.bands[i].ID == bandID {
			s.bands = append(s.bands[:i], s.bands[i+1:]...)
			break
		}
	}

	return nil
}

// Invite sends a band invitation through the backend.
func (s *BandStore) Invite(ctx context.Context, bandID, email string) (*models.BandInvitation, error) {
	return s.service.Invite(ctx, bandID, email)
}

// AcceptInvitation accepts a pending invitation and refreshes the band
// list so the new membership shows up.
func (s *BandStore) AcceptInvitation(ctx context.Context, invitationID string) error {
	if err := s.service.RespondInvitation(ctx, invitationID, models.InvitationAccepted); err != nil {
		return err
	}

	s.removeInvitation(invitationID)

	s.mu.Lock()
	userID := s.userID
	s.mu.Unlock()

	bands, err := s.service.Bands(ctx, userID)
	if err != nil {
		s.logger.Warn("failed to refresh bands after accept", "err", err)
		return nil
	}

	s.mu.Lock()
	s.bands = bands
	s.mu.Unlock()

	return nil
}

// DeclineInvitation declines a pending invitation.
func (s *BandStore) DeclineInvitation(ctx context.Context, invitationID string) error {
	if err := s.service.RespondInvitation(ctx, invitationID, models.InvitationDeclined); err != nil {
		return err
	}

	s.removeInvitation(invitationID)
	return nil
}

func (s *BandStore) removeInvitation(invitationID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.invitations {
		if s.invitations[i].ID == invitationID {
			s.invitations = append(s.invitations[:i], s.invitations[i+1:]...)
			return
		}
	}
}
