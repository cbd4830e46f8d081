package services

import (
	"context"
	"fmt"
	"net/url"

	"github.com/desertthunder/setmaster/internal/models"
)

// BandService reads and manages bands, memberships and invitations on the
// collaboration backend.
type BandService struct {
	client *Client
}

// NewBandService creates a band service over the given client.
func NewBandService(client *Client) *BandService {
	return &BandService{client: client}
}

// Bands returns the bands the given user belongs to.
func (s *BandService) Bands(ctx context.Context, userID string) ([]models.Band, error) {
	var bands []models.Band
	path := "/bands?member=" + url.QueryEscape(userID)
	if err := s.client.Get(ctx, path, &bands); err != nil {
		return nil, fmt.Errorf("failed to fetch bands: %w", err)
	}

	return bands, nil
}

// Band returns a single band with its members.
func (s *BandService) Band(ctx context.Context, bandID string) (*models.Band, error) {
	var band models.Band
	if err := s.client.Get(ctx, "/bands/"+url.PathEscape(bandID), &band); err != nil {
		return nil, fmt.Errorf("failed to fetch band %s: %w", bandID, err)
	}

	return &band, nil
}

// CreateBand creates a band owned by the current user.
func (s *BandService) CreateBand(ctx context.Context, name, description string) (*models.Band, error) {
	body := map[string]string{"name": name, "description": description}

	var band models.Band
	if err := s.client.Post(ctx, "/bands", body, &band); err != nil {
		return nil, fmt.Errorf("failed to create band: %w", err)
	}

	return &band, nil
}

// UpdateBand updates a band's name or description.
func (s *BandService) UpdateBand(ctx context.Context, bandID string, fields map[string]any) (*models.Band, error) {
	var band models.Band
	if err := s.client.Patch(ctx, "/bands/"+url.PathEscape(bandID), fields, &band); err != nil {
		return nil, fmt.Errorf("failed to update band %s: %w", bandID, err)
	}

	return &band, nil
}

// DeleteBand deletes a band. Only the owner may do this.
func (s *BandService) DeleteBand(ctx context.Context, bandID string) error {
	if err := s.client.Delete(ctx, "/bands/"+url.PathEscape(bandID)); err != nil {
		return fmt.Errorf("failed to delete band %s: %w", bandID, err)
	}

	return nil
}

// Members returns a band's member list with profiles.
func (s *BandService) Members(ctx context.Context, bandID string) ([]models.BandMember, error) {
	var members []models.BandMember
	path := "/bands/" + url.PathEscape(bandID) + "/members"
	if err := s.client.Get(ctx, path, &members); err != nil {
		return nil, fmt.Errorf("failed to fetch members of band %s: %w", bandID, err)
	}

	return members, nil
}

// RemoveMember removes a member from a band.
func (s *BandService) RemoveMember(ctx context.Context, bandID, userID string) error {
	path := "/bands/" + url.PathEscape(bandID) + "/members/" + url.PathEscape(userID)
	if err := s.client.Delete(ctx, path); err != nil {
		return fmt.Errorf("failed to remove member %s from band %s: %w", userID, bandID, err)
	}

	return nil
}

// Invitations returns the pending invitations addressed to the given email.
func (s *BandService) Invitations(ctx context.Context, email string) ([]models.BandInvitation, error) {
	var invitations []models.BandInvitation
	path := "/invitations?email=" + url.QueryEscape(email) + "&status=" + string(models.InvitationPending)
	if err := s.client.Get(ctx, path, &invitations); err != nil {
		return nil, fmt.Errorf("failed to fetch invitations: %w", err)
	}

	return invitations, nil
}

// Invite sends a band invitation to the given email address.
func (s *BandService) Invite(ctx context.Context, bandID, email string) (*models.BandInvitation, error) {
	body := map[string]string{"band_id": bandID, "invitee_email": email}

	var invitation models.BandInvitation
	if err := s.client.Post(ctx, "/invitations", body, &invitation); err != nil {
		return nil, fmt.Errorf("failed to invite %s to band %s: %w", email, bandID, err)
	}

	return &invitation, nil
}

// RespondInvitation accepts or declines a pending invitation.
func (s *BandService) RespondInvitation(ctx context.Context, invitationID string, status models.InvitationStatus) error {
	body := map[string]any{"status": status}
	if err := s.client.Patch(ctx, "/invitations/"+url.PathEscape(invitationID), body, nil); err != nil {
		return fmt.Errorf("failed to respond to invitation %s: %w", invitationID, err)
	}

	return nil
}
