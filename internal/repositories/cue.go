package repositories

import (
	"database/sql"
	"fmt"

	"github.com/desertthunder/setmaster/internal/models"
	"github.com/desertthunder/setmaster/internal/shared"
)

// CueRepository provides CRUD over song cues.
//
// Cue rows carry no user_id; they are scoped to their song, and song access
// is already user-filtered. Deleting a song removes its cues by cascade.
type CueRepository struct {
	db *sql.DB
}

// NewCueRepository creates a new CueRepository with the given database connection
func NewCueRepository(db *sql.DB) *CueRepository {
	return &CueRepository{db: db}
}

const cueColumns = "id, song_id, time_in_seconds, type, content, color, created_at, updated_at"

// BySong retrieves a song's cues ordered by time offset.
func (r *CueRepository) BySong(songID string) ([]models.Cue, error) {
	rows, err := r.db.Query(
		"SELECT "+cueColumns+" FROM cues WHERE song_id = ? ORDER BY time_in_seconds",
		songID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query cues: %w", err)
	}
	defer rows.Close()

	var cues []models.Cue
	for rows.Next() {
		cue, err := scanCue(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan cue: %w", err)
		}
		cues = append(cues, *cue)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return cues, nil
}

// Get retrieves a cue by id. Returns (nil, nil) when absent.
func (r *CueRepository) Get(cueID string) (*models.Cue, error) {
	row := r.db.QueryRow("SELECT "+cueColumns+" FROM cues WHERE id = ?", cueID)

	cue, err := scanCue(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan cue: %w", err)
	}

	return cue, nil
}

// Create inserts a new cue. A missing id is generated; timestamps default
// to now.
func (r *CueRepository) Create(cue *models.Cue) error {
	if err := cue.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	if cue.ID == "" {
		cue.ID = shared.GenerateID()
	}

	now := shared.NowMillis()
	if cue.CreatedAt == 0 {
		cue.CreatedAt = now
	}
	if cue.UpdatedAt == 0 {
		cue.UpdatedAt = now
	}

	_, err := r.db.Exec(`
		INSERT INTO cues (id, song_id, time_in_seconds, type, content, color, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`,
		cue.ID,
		cue.SongID,
		cue.TimeInSeconds,
		string(cue.Type),
		cue.Content,
		nullString(cue.Color),
		cue.CreatedAt,
		cue.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert cue: %w", err)
	}

	return nil
}

// Update applies a partial update to a cue and refreshes updated_at.
// Returns shared.ErrCueNotFound when no row matches.
func (r *CueRepository) Update(cueID string, upd models.CueUpdate) error {
	var set setClause

	if upd.TimeInSeconds != nil {
		set.add("time_in_seconds", *upd.TimeInSeconds)
	}
	if upd.Type != nil {
		set.add("type", string(*upd.Type))
	}
	if upd.Content != nil {
		set.add("content", *upd.Content)
	}
	if upd.Color != nil {
		set.add("color", nullString(*upd.Color))
	}
	if set.empty() {
		return nil
	}
	set.add("updated_at", shared.NowMillis())

	args := append(set.args, cueID)
	result, err := r.db.Exec("UPDATE cues SET "+set.sql()+" WHERE id = ?", args...)
	if err != nil {
		return fmt.Errorf("failed to update cue: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", shared.ErrCueNotFound, cueID)
	}

	return nil
}

// Delete removes a cue. Returns shared.ErrCueNotFound when no row matches.
func (r *CueRepository) Delete(cueID string) error {
	result, err := r.db.Exec("DELETE FROM cues WHERE id = ?", cueID)
	if err != nil {
		return fmt.Errorf("failed to delete cue: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", shared.ErrCueNotFound, cueID)
	}

	return nil
}

// DeleteBySong removes every cue for a song. Removing zero rows is not an
// error.
func (r *CueRepository) DeleteBySong(songID string) error {
	if _, err := r.db.Exec("DELETE FROM cues WHERE song_id = ?", songID); err != nil {
		return fmt.Errorf("failed to delete cues for song: %w", err)
	}
	return nil
}

// scanCue scans one cues row via the given scan function.
func scanCue(scan func(dest ...any) error) (*models.Cue, error) {
	var (
		cue     models.Cue
		cueType string
		color   sql.NullString
	)

	err := scan(
		&cue.ID, &cue.SongID, &cue.TimeInSeconds, &cueType, &cue.Content,
		&color, &cue.CreatedAt, &cue.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	cue.Type = models.CueType(cueType)
	cue.Color = color.String

	return &cue, nil
}
