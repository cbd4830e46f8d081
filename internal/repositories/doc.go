// Package repositories implements SQLite persistence for all local domain entities.
//
// Each repository wraps a *sql.DB and exposes user-scoped CRUD: every read
// and write is filtered by the calling user's id, since the underlying
// database file is shared by every account that has signed in on the device.
// The store itself has no ambient session concept.
//
// Key Implementations:
//   - [SongRepository] : Song persistence, cascading to cues and setlist rows
//   - [SetlistRepository] : Setlist metadata plus ordered song associations
//   - [CueRepository] : Timestamp-anchored song annotations
//   - [ScheduleRepository] : Recurring practice schedules
//   - [SessionRepository] : Rehearsal sessions with ad-hoc song lists
//   - [PlanRepository] : Generated rehearsal plans
//
// Partial updates go through per-entity update-command types
// (models.SongUpdate and friends); a nil field leaves the column untouched
// and every applied update refreshes updated_at. Missing rows on write
// paths surface as sentinel errors (shared.ErrSongNotFound, ...); missing
// rows on read paths return nil without error.
//
// Setlist song order lives in the setlist_songs join table as dense,
// zero-based positions. Any edit to the order deletes and re-inserts the
// association rows inside one transaction; there is no in-place position
// arithmetic.
package repositories
