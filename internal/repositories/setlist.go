package repositories

import (
	"database/sql"
	"fmt"

	"github.com/desertthunder/setmaster/internal/models"
	"github.com/desertthunder/setmaster/internal/shared"
)

// SetlistRepository provides user-scoped CRUD over setlists and their
// ordered song associations.
//
// Song order lives in setlist_songs with dense zero-based positions. Every
// edit to the order replaces the association rows wholesale inside one
// transaction; a crash can therefore never leave a half-renumbered list.
type SetlistRepository struct {
	db *sql.DB
}

// NewSetlistRepository creates a new SetlistRepository with the given database connection
func NewSetlistRepository(db *sql.DB) *SetlistRepository {
	return &SetlistRepository{db: db}
}

const setlistColumns = "id, name, description, venue, event_date, duration, created_at, updated_at"

// All retrieves every setlist owned by the user, songs in position order.
func (r *SetlistRepository) All(userID string) ([]models.Setlist, error) {
	rows, err := r.db.Query("SELECT "+setlistColumns+" FROM setlists WHERE user_id = ?", userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query setlists: %w", err)
	}
	defer rows.Close()

	var setlists []models.Setlist
	for rows.Next() {
		setlist, err := scanSetlist(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan setlist: %w", err)
		}
		setlists = append(setlists, *setlist)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	for i := range setlists {
		songs, err := r.songIDs(setlists[i].ID)
		if err != nil {
			return nil, err
		}
		setlists[i].Songs = songs
	}

	return setlists, nil
}

// Get retrieves a setlist by id, scoped to the user, songs in position
// order. Returns (nil, nil) when absent or owned by someone else.
func (r *SetlistRepository) Get(setlistID, userID string) (*models.Setlist, error) {
	row := r.db.QueryRow("SELECT "+setlistColumns+" FROM setlists WHERE id = ? AND user_id = ?", setlistID, userID)

	setlist, err := scanSetlist(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan setlist: %w", err)
	}

	songs, err := r.songIDs(setlist.ID)
	if err != nil {
		return nil, err
	}
	setlist.Songs = songs

	return setlist, nil
}

// Create inserts a new setlist and its association rows for the user.
func (r *SetlistRepository) Create(setlist *models.Setlist, userID string) error {
	if err := setlist.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	if setlist.ID == "" {
		setlist.ID = shared.GenerateID()
	}

	now := shared.NowMillis()
	if setlist.CreatedAt == 0 {
		setlist.CreatedAt = now
	}
	if setlist.UpdatedAt == 0 {
		setlist.UpdatedAt = now
	}

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO setlists (id, user_id, name, description, venue, event_date, duration, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		setlist.ID,
		userID,
		setlist.Name,
		nullString(setlist.Description),
		nullString(setlist.Venue),
		nullInt64(setlist.EventDate),
		setlist.Duration,
		setlist.CreatedAt,
		setlist.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert setlist: %w", err)
	}

	if err := replaceSongRows(tx, setlist.ID, setlist.Songs, now); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit setlist: %w", err)
	}

	return nil
}

// Update applies a partial update to the user's setlist. A non-nil Songs
// replaces the association rows with freshly numbered positions matching
// the new order. Returns shared.ErrSetlistNotFound when no owned row
// matches.
func (r *SetlistRepository) Update(setlistID, userID string, upd models.SetlistUpdate) error {
	var set setClause

	if upd.Name != nil {
		set.add("name", *upd.Name)
	}
	if upd.Description != nil {
		set.add("description", nullString(*upd.Description))
	}
	if upd.Venue != nil {
		set.add("venue", nullString(*upd.Venue))
	}
	if upd.EventDate != nil {
		set.add("event_date", nullInt64(*upd.EventDate))
	}
	if upd.Duration != nil {
		set.add("duration", *upd.Duration)
	}

	now := shared.NowMillis()
	set.add("updated_at", now)

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// The metadata update always runs (at minimum the timestamp bump) so
	// that ownership is verified before touching association rows.
	args := append(set.args, setlistID, userID)
	result, err := tx.Exec("UPDATE setlists SET "+set.sql()+" WHERE id = ? AND user_id = ?", args...)
	if err != nil {
		return fmt.Errorf("failed to update setlist: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", shared.ErrSetlistNotFound, setlistID)
	}

	if upd.Songs != nil {
		if _, err := tx.Exec("DELETE FROM setlist_songs WHERE setlist_id = ?", setlistID); err != nil {
			return fmt.Errorf("failed to clear setlist songs: %w", err)
		}
		if err := replaceSongRows(tx, setlistID, *upd.Songs, now); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit setlist update: %w", err)
	}

	return nil
}

// ReorderSongs replaces the setlist's song order and bumps updated_at.
// Returns shared.ErrSetlistNotFound when the setlist is absent or owned by
// another user.
func (r *SetlistRepository) ReorderSongs(setlistID, userID string, songIDs []string) error {
	songs := songIDs
	return r.Update(setlistID, userID, models.SetlistUpdate{Songs: &songs})
}

// Delete removes the user's setlist; association rows go with it by
// cascade. Returns shared.ErrSetlistNotFound when no owned row matches.
func (r *SetlistRepository) Delete(setlistID, userID string) error {
	result, err := r.db.Exec("DELETE FROM setlists WHERE id = ? AND user_id = ?", setlistID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete setlist: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", shared.ErrSetlistNotFound, setlistID)
	}

	return nil
}

// songIDs returns the setlist's song ids ordered by position.
func (r *SetlistRepository) songIDs(setlistID string) ([]string, error) {
	rows, err := r.db.Query(
		"SELECT song_id FROM setlist_songs WHERE setlist_id = ? ORDER BY position",
		setlistID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query setlist songs: %w", err)
	}
	defer rows.Close()

	songs := []string{}
	for rows.Next() {
		var songID string
		if err := rows.Scan(&songID); err != nil {
			return nil, fmt.Errorf("failed to scan setlist song: %w", err)
		}
		songs = append(songs, songID)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return songs, nil
}

// replaceSongRows inserts association rows with dense zero-based positions.
// Callers are responsible for deleting any existing rows first.
func replaceSongRows(tx *sql.Tx, setlistID string, songIDs []string, now int64) error {
	for position, songID := range songIDs {
		_, err := tx.Exec(`
			INSERT INTO setlist_songs (id, setlist_id, song_id, position, created_at)
			VALUES (?, ?, ?, ?, ?)
		`, shared.GenerateID(), setlistID, songID, position, now)
		if err != nil {
			return fmt.Errorf("failed to insert setlist song at position %d: %w", position, err)
		}
	}
	return nil
}

// scanSetlist scans one setlists row via the given scan function. Songs are
// loaded separately.
func scanSetlist(scan func(dest ...any) error) (*models.Setlist, error) {
	var (
		setlist            models.Setlist
		description, venue sql.NullString
		eventDate          sql.NullInt64
	)

	err := scan(
		&setlist.ID, &setlist.Name, &description, &venue, &eventDate,
		&setlist.Duration, &setlist.CreatedAt, &setlist.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	setlist.Description = description.String
	setlist.Venue = venue.String
	setlist.EventDate = eventDate.Int64

	return &setlist, nil
}
