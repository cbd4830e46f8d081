package tasks

import (
	"context"
	"fmt"
	"time"

	"github.com/desertthunder/setmaster/internal/formatter"
	"github.com/desertthunder/setmaster/internal/models"
	"github.com/desertthunder/setmaster/internal/services"
	"github.com/desertthunder/setmaster/internal/shared"
)

// SetlistSource resolves a user's setlists. Implemented by
// repositories.SetlistRepository.
type SetlistSource interface {
	All(userID string) ([]models.Setlist, error)
	Get(setlistID, userID string) (*models.Setlist, error)
}

// SongSource resolves songs by id. Implemented by
// repositories.SongRepository.
type SongSource interface {
	ByIDs(songIDs []string, userID string) ([]models.Song, error)
}

// Publisher pushes a setlist snapshot to the collaboration backend.
// Implemented by services.SharedSetlistService.
type Publisher interface {
	Share(ctx context.Context, req services.ShareRequest) (*models.SharedSetlist, error)
}

// Announcer posts a share notice to a band's chat channel. Implemented by
// services.ChatService.
type Announcer interface {
	ShareSetlist(ctx context.Context, bandID, sharedSetlistID, name string) (*models.BandMessage, error)
}

// ExportEngine drives bulk exports and band publication of setlists.
type ExportEngine struct {
	setlists  SetlistSource
	songs     SongSource
	publisher Publisher
	announcer Announcer
}

// NewExportEngine creates an engine. publisher and announcer may be nil
// when only local exports are needed.
func NewExportEngine(setlists SetlistSource, songs SongSource, publisher Publisher, announcer Announcer) *ExportEngine {
	return &ExportEngine{
		setlists:  setlists,
		songs:     songs,
		publisher: publisher,
		announcer: announcer,
	}
}

// sendProgress delivers an update without blocking a slow consumer.
func (e *ExportEngine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

// resolve loads a setlist with its songs realigned to performance order.
func (e *ExportEngine) resolve(setlistID, userID string) (*formatter.SetlistExport, error) {
	setlist, err := e.setlists.Get(setlistID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch setlist: %w", err)
	}
	if setlist == nil {
		return nil, shared.ErrSetlistNotFound
	}

	songs, err := e.songs.ByIDs(setlist.Songs, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch setlist songs: %w", err)
	}

	byID := make(map[string]models.Song, len(songs))
	for _, song := range songs {
		byID[song.ID] = song
	}
	ordered := make([]models.Song, 0, len(setlist.Songs))
	for _, id := range setlist.Songs {
		if song, ok := byID[id]; ok {
			ordered = append(ordered, song)
		}
	}

	return &formatter.SetlistExport{Setlist: *setlist, Songs: ordered}, nil
}

// Publish uploads a setlist snapshot to a band and announces it in chat.
func (e *ExportEngine) Publish(ctx context.Context, prog chan<- ProgressUpdate, userID, setlistID, bandID string) (*models.SharedSetlist, error) {
	if e.publisher == nil {
		return nil, fmt.Errorf("%w: publisher not initialized", shared.ErrServiceUnavailable)
	}

	e.sendProgress(prog, resolvingUpdate(1, 1))
	export, err := e.resolve(setlistID, userID)
	if err != nil {
		return nil, err
	}

	snapshot := make([]models.SharedSong, 0, len(export.Songs))
	for i, song := range export.Songs {
		e.sendProgress(prog, uploadingAssetUpdate(i+1, len(export.Songs), &song))
		snapshot = append(snapshot, models.SharedSong{
			Title:    song.Title,
			Artist:   song.Artist,
			Duration: song.Duration,
			AudioURL: song.AudioUri,
			AlbumArt: song.AlbumArt,
			Lyrics:   song.Lyrics,
			Notes:    song.Notes,
			Bpm:      song.Bpm,
			Key:      song.Key,
		})
	}

	e.sendProgress(prog, publishingUpdate(export.Setlist.Name))
	req := services.ShareRequest{
		BandID: bandID,
		Name:   export.Setlist.Name,
		Venue:  export.Setlist.Venue,
		Songs:  snapshot,
	}
	if export.Setlist.EventDate != 0 {
		req.Date = time.UnixMilli(export.Setlist.EventDate).UTC().Format("2006-01-02")
	}

	sharedSetlist, err := e.publisher.Share(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to publish setlist: %w", err)
	}

	if e.announcer != nil {
		if _, err := e.announcer.ShareSetlist(ctx, bandID, sharedSetlist.ID, sharedSetlist.Name); err != nil {
			return sharedSetlist, fmt.Errorf("published but failed to announce: %w", err)
		}
	}

	e.sendProgress(prog, announcedUpdate(sharedSetlist))
	return sharedSetlist, nil
}
