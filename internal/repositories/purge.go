package repositories

import (
	"database/sql"
	"fmt"
)

// PurgeUserData deletes every row owned by the user across all tables, in
// dependency order, inside one transaction. Rows belonging to other local
// accounts are untouched.
func PurgeUserData(db *sql.DB, userID string) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	statements := []string{
		"DELETE FROM rehearsal_session_songs WHERE session_id IN (SELECT id FROM rehearsal_sessions WHERE user_id = ?)",
		"DELETE FROM rehearsal_sessions WHERE user_id = ?",
		"DELETE FROM rehearsal_plans WHERE user_id = ?",
		"DELETE FROM setlist_songs WHERE setlist_id IN (SELECT id FROM setlists WHERE user_id = ?)",
		"DELETE FROM cues WHERE song_id IN (SELECT id FROM songs WHERE user_id = ?)",
		"DELETE FROM practice_schedules WHERE user_id = ?",
		"DELETE FROM setlists WHERE user_id = ?",
		"DELETE FROM songs WHERE user_id = ?",
	}

	for _, stmt := range statements {
		if _, err := tx.Exec(stmt, userID); err != nil {
			return fmt.Errorf("failed to purge user data: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit purge: %w", err)
	}

	return nil
}
