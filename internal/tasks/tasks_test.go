package tasks

import (
	"context"
	"errors"
	"testing"

	"github.com/desertthunder/setmaster/internal/models"
	"github.com/desertthunder/setmaster/internal/shared"
	tu "github.com/desertthunder/setmaster/internal/testing"
)

func testSources() (*tu.MockSetlistSource, *tu.MockSongSource) {
	setlists := &tu.MockSetlistSource{
		Setlists: []models.Setlist{
			{
				ID:        "set-1",
				Name:      "Friday Set",
				Venue:     "The Basement",
				EventDate: 1757116800000,
				Songs:     []string{"song-2", "song-1"},
			},
			{
				ID:    "set-2",
				Name:  "Acoustic Night",
				Songs: []string{"song-1"},
			},
		},
	}
	songs := &tu.MockSongSource{
		Songs: []models.Song{
			{ID: "song-1", Title: "Opener", Artist: "The Regulars", Duration: 180, Key: "C"},
			{ID: "song-2", Title: "Closer", Artist: "The Regulars", Duration: 240, Key: "Am"},
		},
	}
	return setlists, songs
}

func TestPublish(t *testing.T) {
	t.Run("shares and announces a setlist", func(t *testing.T) {
		setlists, songs := testSources()
		publisher := &tu.MockPublisher{}
		announcer := &tu.MockAnnouncer{}
		engine := NewExportEngine(setlists, songs, publisher, announcer)

		prog := make(chan ProgressUpdate, 32)
		result, err := engine.Publish(context.Background(), prog, "user-1", "set-1", "band-1")
		if err != nil {
			t.Fatalf("Publish failed: %v", err)
		}

		if result.ID != "shared-1" {
			t.Errorf("unexpected shared setlist %+v", result)
		}

		if len(publisher.Shared) != 1 {
			t.Fatalf("expected one share, got %d", len(publisher.Shared))
		}
		req := publisher.Shared[0]
		if req.BandID != "band-1" || req.Name != "Friday Set" {
			t.Errorf("unexpected share request %+v", req)
		}
		if req.Date != "2025-09-06" {
			t.Errorf("expected formatted event date, got %q", req.Date)
		}
		if len(req.Songs) != 2 || req.Songs[0].Title != "Closer" {
			t.Errorf("expected songs in setlist order, got %+v", req.Songs)
		}

		if len(announcer.Announced) != 1 || announcer.Announced[0] != "shared-1" {
			t.Errorf("expected announcement, got %v", announcer.Announced)
		}
	})

	t.Run("missing setlist", func(t *testing.T) {
		setlists, songs := testSources()
		engine := NewExportEngine(setlists, songs, &tu.MockPublisher{}, nil)

		_, err := engine.Publish(context.Background(), nil, "user-1", "nope", "band-1")
		if !errors.Is(err, shared.ErrSetlistNotFound) {
			t.Errorf("expected ErrSetlistNotFound, got %v", err)
		}
	})

	t.Run("without publisher", func(t *testing.T) {
		setlists, songs := testSources()
		engine := NewExportEngine(setlists, songs, nil, nil)

		_, err := engine.Publish(context.Background(), nil, "user-1", "set-1", "band-1")
		if !errors.Is(err, shared.ErrServiceUnavailable) {
			t.Errorf("expected ErrServiceUnavailable, got %v", err)
		}
	})

	t.Run("announce failure still returns the share", func(t *testing.T) {
		setlists, songs := testSources()
		announcer := &tu.MockAnnouncer{Err: errors.New("chat down")}
		engine := NewExportEngine(setlists, songs, &tu.MockPublisher{}, announcer)

		result, err := engine.Publish(context.Background(), nil, "user-1", "set-1", "band-1")
		if err == nil {
			t.Error("expected announce error")
		}
		if result == nil || result.ID != "shared-1" {
			t.Errorf("expected shared setlist despite announce failure, got %+v", result)
		}
	})
}
