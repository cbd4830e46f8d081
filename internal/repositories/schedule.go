package repositories

import (
	"database/sql"
	"fmt"

	"github.com/desertthunder/setmaster/internal/models"
	"github.com/desertthunder/setmaster/internal/shared"
)

// ScheduleRepository provides user-scoped CRUD over practice schedules.
//
// DaysOfWeek and Goals are stored as JSON text columns.
type ScheduleRepository struct {
	db *sql.DB
}

// NewScheduleRepository creates a new ScheduleRepository with the given database connection
func NewScheduleRepository(db *sql.DB) *ScheduleRepository {
	return &ScheduleRepository{db: db}
}

const scheduleColumns = "id, title, description, start_date, end_date, frequency, days_of_week, reminder_enabled, reminder_minutes, goals, completed, created_at, updated_at"

// All retrieves every practice schedule owned by the user.
func (r *ScheduleRepository) All(userID string) ([]models.PracticeSchedule, error) {
	rows, err := r.db.Query("SELECT "+scheduleColumns+" FROM practice_schedules WHERE user_id = ?", userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query schedules: %w", err)
	}
	defer rows.Close()

	var schedules []models.PracticeSchedule
	for rows.Next() {
		schedule, err := scanSchedule(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan schedule: %w", err)
		}
		schedules = append(schedules, *schedule)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return schedules, nil
}

// Get retrieves a schedule by id, scoped to the user. Returns (nil, nil)
// when absent or owned by someone else.
func (r *ScheduleRepository) Get(scheduleID, userID string) (*models.PracticeSchedule, error) {
	row := r.db.QueryRow("SELECT "+scheduleColumns+" FROM practice_schedules WHERE id = ? AND user_id = ?", scheduleID, userID)

	schedule, err := scanSchedule(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan schedule: %w", err)
	}

	return schedule, nil
}

// Create inserts a new practice schedule for the user.
func (r *ScheduleRepository) Create(schedule *models.PracticeSchedule, userID string) error {
	if err := schedule.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	if schedule.ID == "" {
		schedule.ID = shared.GenerateID()
	}

	now := shared.NowMillis()
	if schedule.CreatedAt == 0 {
		schedule.CreatedAt = now
	}
	if schedule.UpdatedAt == 0 {
		schedule.UpdatedAt = now
	}

	days, err := encodeJSONColumn(schedule.DaysOfWeek)
	if err != nil {
		return err
	}
	goals, err := encodeJSONColumn(schedule.Goals)
	if err != nil {
		return err
	}

	_, err = r.db.Exec(`
		INSERT INTO practice_schedules (id, user_id, title, description, start_date, end_date, frequency, days_of_week, reminder_enabled, reminder_minutes, goals, completed, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		schedule.ID,
		userID,
		schedule.Title,
		nullString(schedule.Description),
		schedule.StartDate,
		nullInt64(schedule.EndDate),
		string(schedule.Frequency),
		days,
		schedule.ReminderEnabled,
		nullInt(schedule.ReminderMinutes),
		goals,
		schedule.Completed,
		schedule.CreatedAt,
		schedule.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert schedule: %w", err)
	}

	return nil
}

// Update applies a partial update to the user's schedule and refreshes
// updated_at. Returns shared.ErrScheduleNotFound when no owned row matches.
func (r *ScheduleRepository) Update(scheduleID, userID string, upd models.ScheduleUpdate) error {
	var set setClause

	if upd.Title != nil {
		set.add("title", *upd.Title)
	}
	if upd.Description != nil {
		set.add("description", nullString(*upd.Description))
	}
	if upd.StartDate != nil {
		set.add("start_date", *upd.StartDate)
	}
	if upd.EndDate != nil {
		set.add("end_date", nullInt64(*upd.EndDate))
	}
	if upd.Frequency != nil {
		set.add("frequency", string(*upd.Frequency))
	}
	if upd.DaysOfWeek != nil {
		days, err := encodeJSONColumn(*upd.DaysOfWeek)
		if err != nil {
			return err
		}
		set.add("days_of_week", days)
	}
	if upd.ReminderEnabled != nil {
		set.add("reminder_enabled", *upd.ReminderEnabled)
	}
	if upd.ReminderMinutes != nil {
		set.add("reminder_minutes", nullInt(*upd.ReminderMinutes))
	}
	if upd.Goals != nil {
		goals, err := encodeJSONColumn(*upd.Goals)
		if err != nil {
			return err
		}
		set.add("goals", goals)
	}
	if upd.Completed != nil {
		set.add("completed", *upd.Completed)
	}
	if set.empty() {
		return nil
	}
	set.add("updated_at", shared.NowMillis())

	args := append(set.args, scheduleID, userID)
	result, err := r.db.Exec("UPDATE practice_schedules SET "+set.sql()+" WHERE id = ? AND user_id = ?", args...)
	if err != nil {
		return fmt.Errorf("failed to update schedule: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", shared.ErrScheduleNotFound, scheduleID)
	}

	return nil
}

// Delete removes the user's schedule. Returns shared.ErrScheduleNotFound
// when no owned row matches.
func (r *ScheduleRepository) Delete(scheduleID, userID string) error {
	result, err := r.db.Exec("DELETE FROM practice_schedules WHERE id = ? AND user_id = ?", scheduleID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete schedule: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", shared.ErrScheduleNotFound, scheduleID)
	}

	return nil
}

// scanSchedule scans one practice_schedules row via the given scan function.
func scanSchedule(scan func(dest ...any) error) (*models.PracticeSchedule, error) {
	var (
		schedule        models.PracticeSchedule
		description     sql.NullString
		endDate         sql.NullInt64
		frequency       string
		daysOfWeek      sql.NullString
		reminderMinutes sql.NullInt64
		goals           sql.NullString
	)

	err := scan(
		&schedule.ID, &schedule.Title, &description, &schedule.StartDate, &endDate,
		&frequency, &daysOfWeek, &schedule.ReminderEnabled, &reminderMinutes,
		&goals, &schedule.Completed, &schedule.CreatedAt, &schedule.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	schedule.Description = description.String
	schedule.EndDate = endDate.Int64
	schedule.Frequency = models.Frequency(frequency)
	schedule.DaysOfWeek = decodeJSONColumn[int](daysOfWeek)
	schedule.ReminderMinutes = int(reminderMinutes.Int64)
	schedule.Goals = decodeJSONColumn[string](goals)

	return &schedule, nil
}
