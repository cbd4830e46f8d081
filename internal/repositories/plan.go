package repositories

import (
	"database/sql"
	"fmt"

	"github.com/desertthunder/setmaster/internal/models"
	"github.com/desertthunder/setmaster/internal/shared"
)

// PlanRepository provides user-scoped CRUD over rehearsal plans.
type PlanRepository struct {
	db *sql.DB
}

// NewPlanRepository creates a new PlanRepository with the given database connection
func NewPlanRepository(db *sql.DB) *PlanRepository {
	return &PlanRepository{db: db}
}

// All retrieves every rehearsal plan owned by the user.
func (r *PlanRepository) All(userID string) ([]models.RehearsalPlan, error) {
	rows, err := r.db.Query(
		"SELECT id, name, total_duration, ai_generated, created_at, updated_at FROM rehearsal_plans WHERE user_id = ?",
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query plans: %w", err)
	}
	defer rows.Close()

	var plans []models.RehearsalPlan
	for rows.Next() {
		var plan models.RehearsalPlan
		if err := rows.Scan(&plan.ID, &plan.Name, &plan.TotalDuration, &plan.AiGenerated, &plan.CreatedAt, &plan.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan plan: %w", err)
		}
		plans = append(plans, plan)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return plans, nil
}

// Get retrieves a plan by id, scoped to the user. Returns (nil, nil) when
// absent or owned by someone else.
func (r *PlanRepository) Get(planID, userID string) (*models.RehearsalPlan, error) {
	var plan models.RehearsalPlan
	err := r.db.QueryRow(
		"SELECT id, name, total_duration, ai_generated, created_at, updated_at FROM rehearsal_plans WHERE id = ? AND user_id = ?",
		planID, userID,
	).Scan(&plan.ID, &plan.Name, &plan.TotalDuration, &plan.AiGenerated, &plan.CreatedAt, &plan.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan plan: %w", err)
	}

	return &plan, nil
}

// Create inserts a new rehearsal plan for the user.
func (r *PlanRepository) Create(plan *models.RehearsalPlan, userID string) error {
	if err := plan.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	if plan.ID == "" {
		plan.ID = shared.GenerateID()
	}

	now := shared.NowMillis()
	if plan.CreatedAt == 0 {
		plan.CreatedAt = now
	}
	if plan.UpdatedAt == 0 {
		plan.UpdatedAt = now
	}

	_, err := r.db.Exec(`
		INSERT INTO rehearsal_plans (id, user_id, name, total_duration, ai_generated, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, plan.ID, userID, plan.Name, plan.TotalDuration, plan.AiGenerated, plan.CreatedAt, plan.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert plan: %w", err)
	}

	return nil
}

// Update applies a partial update to the user's plan and refreshes
// updated_at. Returns shared.ErrPlanNotFound when no owned row matches.
func (r *PlanRepository) Update(planID, userID string, upd models.PlanUpdate) error {
	var set setClause

	if upd.Name != nil {
		set.add("name", *upd.Name)
	}
	if upd.TotalDuration != nil {
		set.add("total_duration", *upd.TotalDuration)
	}
	if upd.AiGenerated != nil {
		set.add("ai_generated", *upd.AiGenerated)
	}
	if set.empty() {
		return nil
	}
	set.add("updated_at", shared.NowMillis())

	args := append(set.args, planID, userID)
	result, err := r.db.Exec("UPDATE rehearsal_plans SET "+set.sql()+" WHERE id = ? AND user_id = ?", args...)
	if err != nil {
		return fmt.Errorf("failed to update plan: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", shared.ErrPlanNotFound, planID)
	}

	return nil
}

// Delete removes the user's plan. Returns shared.ErrPlanNotFound when no
// owned row matches.
func (r *PlanRepository) Delete(planID, userID string) error {
	result, err := r.db.Exec("DELETE FROM rehearsal_plans WHERE id = ? AND user_id = ?", planID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete plan: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", shared.ErrPlanNotFound, planID)
	}

	return nil
}
