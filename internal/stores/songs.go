package stores

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/setmaster/internal/docstore"
	"github.com/desertthunder/setmaster/internal/models"
	"github.com/desertthunder/setmaster/internal/shared"
)

type songState struct {
	Songs []models.Song `json:"songs"`
}

// SongStore keeps the current user's song library.
type SongStore struct {
	store *docstore.Store[songState]
}

// NewSongStore creates a song store persisting through blobs.
func NewSongStore(blobs *docstore.Blobs, logger *log.Logger) *SongStore {
	return &SongStore{
		store: docstore.NewStore(blobs, "setmaster-songs", logger, func() songState {
			return songState{}
		}),
	}
}

// Name identifies the dataset.
func (s *SongStore) Name() string {
	return "songs"
}

// LoadUserData loads the given user's song library into memory.
func (s *SongStore) LoadUserData(_ context.Context, userID string) error {
	return s.store.LoadUserData(userID)
}

// ClearData evicts the current user's songs from memory.
func (s *SongStore) ClearData() {
	s.store.ClearData()
}

// Flush blocks until pending persistence writes complete.
func (s *SongStore) Flush() {
	s.store.Flush()
}

// Songs returns a copy of the song library.
func (s *SongStore) Songs() []models.Song {
	var songs []models.Song
	s.store.Read(func(st songState) {
		songs = append(songs, st.Songs...)
	})
	return songs
}

// Song returns the song with the given id, or nil.
func (s *SongStore) Song(id string) *models.Song {
	var song *models.Song
	s.store.Read(func(st songState) {
		for i := range st.Songs {
			if st.Songs[i].ID == id {
				copied := st.Songs[i]
				song = &copied
				return
			}
		}
	})
	return song
}

// AddSong validates and appends a song, assigning id and timestamps.
func (s *SongStore) AddSong(song models.Song) (models.Song, error) {
	if err := song.Validate(); err != nil {
		return models.Song{}, fmt.Errorf("invalid song: %w", err)
	}

	if song.ID == "" {
		song.ID = shared.GenerateID()
	}
	now := shared.NowMillis()
	song.CreatedAt = now
	song.UpdatedAt = now

	s.store.Mutate(func(st *songState) {
		st.Songs = append(st.Songs, song)
	})

	return song, nil
}

// UpdateSong applies the non-nil fields of u to the song with the given id.
func (s *SongStore) UpdateSong(id string, u models.SongUpdate) {
	s.store.Mutate(func(st *songState) {
		for i := range st.Songs {
			if st.Songs[i].ID != id {
				continue
			}

			song := &st.Songs[i]
			if u.Title != nil {
				song.Title = *u.Title
			}
			if u.Artist != nil {
				song.Artist = *u.Artist
			}
			if u.Duration != nil {
				song.Duration = *u.Duration
			}
			if u.Uri != nil {
				song.Uri = *u.Uri
			}
			if u.AudioUri != nil {
				song.AudioUri = *u.AudioUri
			}
			if u.AlbumArt != nil {
				song.AlbumArt = *u.AlbumArt
			}
			if u.Lyrics != nil {
				song.Lyrics = *u.Lyrics
			}
			if u.Notes != nil {
				song.Notes = *u.Notes
			}
			if u.Bpm != nil {
				song.Bpm = *u.Bpm
			}
			if u.Key != nil {
				song.Key = *u.Key
			}
			song.UpdatedAt = shared.NowMillis()
			return
		}
	})
}

// ReplaceAll swaps the whole library for the given songs. Used when
// mirroring the relational rows into the snapshot.
func (s *SongStore) ReplaceAll(songs []models.Song) {
	s.store.Mutate(func(st *songState) {
		st.Songs = append([]models.Song(nil), songs...)
	})
}

// DeleteSong removes the song with the given id. Stripping the id from
// setlists is the setlist store's job.
func (s *SongStore) DeleteSong(id string) {
	s.store.Mutate(func(st *songState) {
		for i := range st.Songs {
			if st.Songs[i].ID == id {
				st.Songs = append(st.Songs[:i], st.Songs[i+1:]...)
				return
			}
		}
	})
}
