// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"io"
	"os"
	"testing"

	"github.com/desertthunder/setmaster/internal/models"
	"github.com/desertthunder/setmaster/internal/services"
)

// MockSetlistSource is a test double for [tasks.SetlistSource]
type MockSetlistSource struct {
	Setlists []models.Setlist
	Err      error
}

func (m *MockSetlistSource) All(userID string) ([]models.Setlist, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Setlists, nil
}

func (m *MockSetlistSource) Get(setlistID, userID string) (*models.Setlist, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	for i := range m.Setlists {
		if m.Setlists[i].ID == setlistID {
			return &m.Setlists[i], nil
		}
	}
	return nil, nil
}

// MockSongSource is a test double for [tasks.SongSource]
type MockSongSource struct {
	Songs []models.Song
	Err   error
}

func (m *MockSongSource) ByIDs(songIDs []string, userID string) ([]models.Song, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	matched := []models.Song{}
	for _, id := range songIDs {
		for _, song := range m.Songs {
			if song.ID == id {
				matched = append(matched, song)
				break
			}
		}
	}
	return matched, nil
}

// MockPublisher is a test double for [tasks.Publisher]
type MockPublisher struct {
	Shared []services.ShareRequest
	Err    error
}

func (m *MockPublisher) Share(ctx context.Context, req services.ShareRequest) (*models.SharedSetlist, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	m.Shared = append(m.Shared, req)
	return &models.SharedSetlist{ID: "shared-1", BandID: req.BandID, Name: req.Name}, nil
}

// MockAnnouncer is a test double for [tasks.Announcer]
type MockAnnouncer struct {
	Announced []string
	Err       error
}

func (m *MockAnnouncer) ShareSetlist(ctx context.Context, bandID, sharedSetlistID, name string) (*models.BandMessage, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	m.Announced = append(m.Announced, sharedSetlistID)
	return &models.BandMessage{ID: "msg-1", BandID: bandID, Type: models.MessageSetlistShare}, nil
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

// TempDir creates a directory that is removed when the test ends
func TempDir(t *testing.T) string {
	t.Helper()

	dir, err := os.MkdirTemp("", "setmaster-test-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(dir) })

	return dir
}
