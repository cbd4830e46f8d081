package services

import (
	"context"
	"fmt"
	"io"
	"net/url"

	"github.com/desertthunder/setmaster/internal/models"
)

// SharedSetlistService reads and publishes setlists shared with a band.
type SharedSetlistService struct {
	client *Client
}

// NewSharedSetlistService creates a shared setlist service over the given
// client.
func NewSharedSetlistService(client *Client) *SharedSetlistService {
	return &SharedSetlistService{client: client}
}

// ForBand returns the setlists shared with a band, newest first, with
// their songs ordered by position.
func (s *SharedSetlistService) ForBand(ctx context.Context, bandID string) ([]models.SharedSetlist, error) {
	var setlists []models.SharedSetlist
	path := "/bands/" + url.PathEscape(bandID) + "/shared-setlists"
	if err := s.client.Get(ctx, path, &setlists); err != nil {
		return nil, fmt.Errorf("failed to fetch shared setlists for band %s: %w", bandID, err)
	}

	return setlists, nil
}

// SharedSetlist returns one shared setlist with its songs.
func (s *SharedSetlistService) SharedSetlist(ctx context.Context, sharedSetlistID string) (*models.SharedSetlist, error) {
	var setlist models.SharedSetlist
	if err := s.client.Get(ctx, "/shared-setlists/"+url.PathEscape(sharedSetlistID), &setlist); err != nil {
		return nil, fmt.Errorf("failed to fetch shared setlist %s: %w", sharedSetlistID, err)
	}

	return &setlist, nil
}

// ShareRequest carries a local setlist's snapshot for publication to a
// band. Songs must already be in performance order.
type ShareRequest struct {
	BandID string              `json:"band_id"`
	Name   string              `json:"name"`
	Venue  string              `json:"venue,omitempty"`
	Date   string              `json:"date,omitempty"`
	Songs  []models.SharedSong `json:"songs"`
}

// Share publishes a snapshot of a local setlist to a band.
func (s *SharedSetlistService) Share(ctx context.Context, req ShareRequest) (*models.SharedSetlist, error) {
	var setlist models.SharedSetlist
	if err := s.client.Post(ctx, "/shared-setlists", req, &setlist); err != nil {
		return nil, fmt.Errorf("failed to share setlist with band %s: %w", req.BandID, err)
	}

	return &setlist, nil
}

// Delete removes a shared setlist. Only the sharer or the band owner may
// do this.
func (s *SharedSetlistService) Delete(ctx context.Context, sharedSetlistID string) error {
	if err := s.client.Delete(ctx, "/shared-setlists/"+url.PathEscape(sharedSetlistID)); err != nil {
		return fmt.Errorf("failed to delete shared setlist %s: %w", sharedSetlistID, err)
	}

	return nil
}

// UploadAsset uploads an attachment for a shared song, a chart or a
// backing track, and returns its URL.
func (s *SharedSetlistService) UploadAsset(ctx context.Context, name, contentType string, r io.Reader) (string, error) {
	assetURL, err := s.client.Upload(ctx, "/assets?name="+url.QueryEscape(name), contentType, r)
	if err != nil {
		return "", fmt.Errorf("failed to upload asset %s: %w", name, err)
	}

	return assetURL, nil
}
