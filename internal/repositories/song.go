package repositories

import (
	"database/sql"
	"fmt"

	"github.com/desertthunder/setmaster/internal/models"
	"github.com/desertthunder/setmaster/internal/shared"
)

// SongRepository provides user-scoped CRUD over the songs table.
//
// Deleting a song cascades to its cues and to any setlist_songs rows that
// reference it (enforced by the schema's foreign keys).
type SongRepository struct {
	db *sql.DB
}

// NewSongRepository creates a new SongRepository with the given database connection
func NewSongRepository(db *sql.DB) *SongRepository {
	return &SongRepository{db: db}
}

const songColumns = "id, title, artist, duration, uri, audio_uri, album_art, lyrics, notes, bpm, key, created_at, updated_at"

// All retrieves every song owned by the user.
func (r *SongRepository) All(userID string) ([]models.Song, error) {
	rows, err := r.db.Query("SELECT "+songColumns+" FROM songs WHERE user_id = ?", userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query songs: %w", err)
	}
	defer rows.Close()

	return collectSongs(rows)
}

// Get retrieves a song by id, scoped to the user. Returns (nil, nil) when
// the song is absent or owned by someone else.
func (r *SongRepository) Get(songID, userID string) (*models.Song, error) {
	row := r.db.QueryRow("SELECT "+songColumns+" FROM songs WHERE id = ? AND user_id = ?", songID, userID)

	song, err := scanSong(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan song: %w", err)
	}

	return song, nil
}

// ByIDs retrieves the user's songs matching the given ids. Unknown ids are
// silently omitted from the result.
func (r *SongRepository) ByIDs(songIDs []string, userID string) ([]models.Song, error) {
	if len(songIDs) == 0 {
		return nil, nil
	}

	args := make([]any, 0, len(songIDs)+1)
	args = append(args, userID)
	for _, id := range songIDs {
		args = append(args, id)
	}

	query := fmt.Sprintf(
		"SELECT %s FROM songs WHERE user_id = ? AND id IN (%s)",
		songColumns, placeholders(len(songIDs)),
	)

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query songs by ids: %w", err)
	}
	defer rows.Close()

	return collectSongs(rows)
}

// Create inserts a new song for the user. A missing id is generated;
// timestamps default to now.
func (r *SongRepository) Create(song *models.Song, userID string) error {
	if err := song.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	if song.ID == "" {
		song.ID = shared.GenerateID()
	}

	now := shared.NowMillis()
	if song.CreatedAt == 0 {
		song.CreatedAt = now
	}
	if song.UpdatedAt == 0 {
		song.UpdatedAt = now
	}

	_, err := r.db.Exec(`
		INSERT INTO songs (id, user_id, title, artist, duration, uri, audio_uri, album_art, lyrics, notes, bpm, key, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		song.ID,
		userID,
		song.Title,
		song.Artist,
		song.Duration,
		nullString(song.Uri),
		nullString(song.AudioUri),
		nullString(song.AlbumArt),
		nullString(song.Lyrics),
		nullString(song.Notes),
		nullInt(song.Bpm),
		nullString(song.Key),
		song.CreatedAt,
		song.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert song: %w", err)
	}

	return nil
}

// Update applies a partial update to the user's song and refreshes
// updated_at. Returns shared.ErrSongNotFound when no owned row matches.
func (r *SongRepository) Update(songID, userID string, upd models.SongUpdate) error {
	var set setClause

	if upd.Title != nil {
		set.add("title", *upd.Title)
	}
	if upd.Artist != nil {
		set.add("artist", *upd.Artist)
	}
	if upd.Duration != nil {
		set.add("duration", *upd.Duration)
	}
	if upd.Uri != nil {
		set.add("uri", nullString(*upd.Uri))
	}
	if upd.AudioUri != nil {
		set.add("audio_uri", nullString(*upd.AudioUri))
	}
	if upd.AlbumArt != nil {
		set.add("album_art", nullString(*upd.AlbumArt))
	}
	if upd.Lyrics != nil {
		set.add("lyrics", nullString(*upd.Lyrics))
	}
	if upd.Notes != nil {
		set.add("notes", nullString(*upd.Notes))
	}
	if upd.Bpm != nil {
		set.add("bpm", nullInt(*upd.Bpm))
	}
	if upd.Key != nil {
		set.add("key", nullString(*upd.Key))
	}
	if set.empty() {
		return nil
	}
	set.add("updated_at", shared.NowMillis())

	args := append(set.args, songID, userID)
	result, err := r.db.Exec("UPDATE songs SET "+set.sql()+" WHERE id = ? AND user_id = ?", args...)
	if err != nil {
		return fmt.Errorf("failed to update song: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", shared.ErrSongNotFound, songID)
	}

	return nil
}

// Delete removes the user's song. Cues and setlist associations referencing
// it are removed by cascade. Returns shared.ErrSongNotFound when no owned
// row matches.
func (r *SongRepository) Delete(songID, userID string) error {
	result, err := r.db.Exec("DELETE FROM songs WHERE id = ? AND user_id = ?", songID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete song: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", shared.ErrSongNotFound, songID)
	}

	return nil
}

// scanSong scans one songs row via the given scan function.
func scanSong(scan func(dest ...any) error) (*models.Song, error) {
	var (
		song               models.Song
		uri, audioUri      sql.NullString
		albumArt, lyrics   sql.NullString
		notes, key         sql.NullString
		bpm                sql.NullInt64
	)

	err := scan(
		&song.ID, &song.Title, &song.Artist, &song.Duration,
		&uri, &audioUri, &albumArt, &lyrics, &notes, &bpm, &key,
		&song.CreatedAt, &song.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	song.Uri = uri.String
	song.AudioUri = audioUri.String
	song.AlbumArt = albumArt.String
	song.Lyrics = lyrics.String
	song.Notes = notes.String
	song.Bpm = int(bpm.Int64)
	song.Key = key.String

	return &song, nil
}

// collectSongs drains rows into a slice.
func collectSongs(rows *sql.Rows) ([]models.Song, error) {
	var songs []models.Song
	for rows.Next() {
		song, err := scanSong(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan song: %w", err)
		}
		songs = append(songs, *song)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return songs, nil
}
