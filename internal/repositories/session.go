package repositories

import (
	"database/sql"
	"fmt"

	"github.com/desertthunder/setmaster/internal/models"
	"github.com/desertthunder/setmaster/internal/shared"
)

// SessionRepository provides user-scoped CRUD over rehearsal sessions.
//
// Sessions without a saved setlist carry their own ordered song list in
// rehearsal_session_songs; edits replace those rows wholesale inside a
// transaction, like setlist associations.
type SessionRepository struct {
	db *sql.DB
}

// NewSessionRepository creates a new SessionRepository with the given database connection
func NewSessionRepository(db *sql.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

const sessionColumns = "id, title, date, duration, setlist_id, notes, completed, practice_goals, focus_areas, is_active, started_at, current_song_index, temporary_setlist_id, time_remaining, created_at, updated_at"

// All retrieves every rehearsal session owned by the user.
func (r *SessionRepository) All(userID string) ([]models.RehearsalSession, error) {
	rows, err := r.db.Query("SELECT "+sessionColumns+" FROM rehearsal_sessions WHERE user_id = ?", userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query sessions: %w", err)
	}
	defer rows.Close()

	var sessions []models.RehearsalSession
	for rows.Next() {
		session, err := scanSession(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		sessions = append(sessions, *session)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	for i := range sessions {
		songs, err := r.songIDs(sessions[i].ID)
		if err != nil {
			return nil, err
		}
		sessions[i].Songs = songs
	}

	return sessions, nil
}

// Get retrieves a session by id, scoped to the user. Returns (nil, nil)
// when absent or owned by someone else.
func (r *SessionRepository) Get(sessionID, userID string) (*models.RehearsalSession, error) {
	row := r.db.QueryRow("SELECT "+sessionColumns+" FROM rehearsal_sessions WHERE id = ? AND user_id = ?", sessionID, userID)

	session, err := scanSession(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan session: %w", err)
	}

	songs, err := r.songIDs(session.ID)
	if err != nil {
		return nil, err
	}
	session.Songs = songs

	return session, nil
}

// Active retrieves the user's in-progress session, if any. Returns
// (nil, nil) when no session is active.
func (r *SessionRepository) Active(userID string) (*models.RehearsalSession, error) {
	row := r.db.QueryRow("SELECT "+sessionColumns+" FROM rehearsal_sessions WHERE user_id = ? AND is_active = 1", userID)

	session, err := scanSession(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan session: %w", err)
	}

	songs, err := r.songIDs(session.ID)
	if err != nil {
		return nil, err
	}
	session.Songs = songs

	return session, nil
}

// Create inserts a new rehearsal session and its ad-hoc song rows for the
// user.
func (r *SessionRepository) Create(session *models.RehearsalSession, userID string) error {
	if err := session.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	if session.ID == "" {
		session.ID = shared.GenerateID()
	}

	now := shared.NowMillis()
	if session.CreatedAt == 0 {
		session.CreatedAt = now
	}
	if session.UpdatedAt == 0 {
		session.UpdatedAt = now
	}

	goals, err := encodeJSONColumn(session.PracticeGoals)
	if err != nil {
		return err
	}
	focus, err := encodeJSONColumn(session.FocusAreas)
	if err != nil {
		return err
	}

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO rehearsal_sessions (id, user_id, title, date, duration, setlist_id, notes, completed, practice_goals, focus_areas, is_active, started_at, current_song_index, temporary_setlist_id, time_remaining, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		session.ID,
		userID,
		session.Title,
		session.Date,
		session.Duration,
		nullString(session.SetlistID),
		nullString(session.Notes),
		session.Completed,
		goals,
		focus,
		session.IsActive,
		nullInt64(session.StartedAt),
		session.CurrentSongIndex,
		nullString(session.TemporarySetlistID),
		session.TimeRemaining,
		session.CreatedAt,
		session.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert session: %w", err)
	}

	if err := replaceSessionSongRows(tx, session.ID, session.Songs, now); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit session: %w", err)
	}

	return nil
}

// Update applies a partial update to the user's session. A non-nil Songs
// replaces the ad-hoc song rows. Returns shared.ErrSessionNotFound when no
// owned row matches.
func (r *SessionRepository) Update(sessionID, userID string, upd models.SessionUpdate) error {
	var set setClause

	if upd.Title != nil {
		set.add("title", *upd.Title)
	}
	if upd.Date != nil {
		set.add("date", *upd.Date)
	}
	if upd.Duration != nil {
		set.add("duration", *upd.Duration)
	}
	if upd.SetlistID != nil {
		set.add("setlist_id", nullString(*upd.SetlistID))
	}
	if upd.Notes != nil {
		set.add("notes", nullString(*upd.Notes))
	}
	if upd.Completed != nil {
		set.add("completed", *upd.Completed)
	}
	if upd.PracticeGoals != nil {
		goals, err := encodeJSONColumn(*upd.PracticeGoals)
		if err != nil {
			return err
		}
		set.add("practice_goals", goals)
	}
	if upd.FocusAreas != nil {
		focus, err := encodeJSONColumn(*upd.FocusAreas)
		if err != nil {
			return err
		}
		set.add("focus_areas", focus)
	}
	if upd.IsActive != nil {
		set.add("is_active", *upd.IsActive)
	}
	if upd.StartedAt != nil {
		set.add("started_at", nullInt64(*upd.StartedAt))
	}
	if upd.CurrentSongIndex != nil {
		set.add("current_song_index", *upd.CurrentSongIndex)
	}
	if upd.TimeRemaining != nil {
		set.add("time_remaining", *upd.TimeRemaining)
	}

	now := shared.NowMillis()
	set.add("updated_at", now)

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	args := append(set.args, sessionID, userID)
	result, err := tx.Exec("UPDATE rehearsal_sessions SET "+set.sql()+" WHERE id = ? AND user_id = ?", args...)
	if err != nil {
		return fmt.Errorf("failed to update session: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", shared.ErrSessionNotFound, sessionID)
	}

	if upd.Songs != nil {
		if _, err := tx.Exec("DELETE FROM rehearsal_session_songs WHERE session_id = ?", sessionID); err != nil {
			return fmt.Errorf("failed to clear session songs: %w", err)
		}
		if err := replaceSessionSongRows(tx, sessionID, *upd.Songs, now); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit session update: %w", err)
	}

	return nil
}

// Delete removes the user's session; its song rows go with it by cascade.
// Returns shared.ErrSessionNotFound when no owned row matches.
func (r *SessionRepository) Delete(sessionID, userID string) error {
	result, err := r.db.Exec("DELETE FROM rehearsal_sessions WHERE id = ? AND user_id = ?", sessionID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", shared.ErrSessionNotFound, sessionID)
	}

	return nil
}

// songIDs returns the session's ad-hoc song ids ordered by position.
func (r *SessionRepository) songIDs(sessionID string) ([]string, error) {
	rows, err := r.db.Query(
		"SELECT song_id FROM rehearsal_session_songs WHERE session_id = ? ORDER BY position",
		sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query session songs: %w", err)
	}
	defer rows.Close()

	var songs []string
	for rows.Next() {
		var songID string
		if err := rows.Scan(&songID); err != nil {
			return nil, fmt.Errorf("failed to scan session song: %w", err)
		}
		songs = append(songs, songID)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return songs, nil
}

// replaceSessionSongRows inserts session song rows with dense zero-based
// positions. Callers delete any existing rows first.
func replaceSessionSongRows(tx *sql.Tx, sessionID string, songIDs []string, now int64) error {
	for position, songID := range songIDs {
		_, err := tx.Exec(`
			INSERT INTO rehearsal_session_songs (id, session_id, song_id, position, created_at)
			VALUES (?, ?, ?, ?, ?)
		`, shared.GenerateID(), sessionID, songID, position, now)
		if err != nil {
			return fmt.Errorf("failed to insert session song at position %d: %w", position, err)
		}
	}
	return nil
}

// scanSession scans one rehearsal_sessions row via the given scan function.
// Ad-hoc songs are loaded separately.
func scanSession(scan func(dest ...any) error) (*models.RehearsalSession, error) {
	var (
		session          models.RehearsalSession
		setlistID, notes sql.NullString
		goals, focus     sql.NullString
		isActive         sql.NullBool
		startedAt        sql.NullInt64
		songIndex        sql.NullInt64
		tempSetlistID    sql.NullString
		timeRemaining    sql.NullInt64
	)

	err := scan(
		&session.ID, &session.Title, &session.Date, &session.Duration,
		&setlistID, &notes, &session.Completed, &goals, &focus,
		&isActive, &startedAt, &songIndex, &tempSetlistID, &timeRemaining,
		&session.CreatedAt, &session.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	session.SetlistID = setlistID.String
	session.Notes = notes.String
	session.PracticeGoals = decodeJSONColumn[string](goals)
	session.FocusAreas = decodeJSONColumn[string](focus)
	session.IsActive = isActive.Bool
	session.StartedAt = startedAt.Int64
	session.CurrentSongIndex = int(songIndex.Int64)
	session.TemporarySetlistID = tempSetlistID.String
	session.TimeRemaining = int(timeRemaining.Int64)

	return &session, nil
}
