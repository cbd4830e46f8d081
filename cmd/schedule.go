package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/setmaster/internal/models"
	"github.com/desertthunder/setmaster/internal/shared"
	"github.com/urfave/cli/v3"
)

// ScheduleAdd creates a practice schedule starting now.
func (r *Runner) ScheduleAdd(ctx context.Context, cmd *cli.Command) error {
	if err := r.ensureDatabase(cmd); err != nil {
		return err
	}
	userID, err := r.requireUser(cmd)
	if err != nil {
		return err
	}

	schedule := models.PracticeSchedule{
		Title:     cmd.String("title"),
		StartDate: shared.NowMillis(),
		Frequency: models.Frequency(cmd.String("frequency")),
		Goals:     cmd.StringSlice("goal"),
	}
	if err := schedule.Validate(); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrInvalidInput, err)
	}

	if err := r.schedules.Create(&schedule, userID); err != nil {
		return fmt.Errorf("failed to create schedule: %w", err)
	}

	r.logger.Info("schedule created", "id", schedule.ID, "title", schedule.Title)
	r.writePlain("%s %s (%s)\n", styles.OK("Added"), schedule.Title, schedule.ID)
	return nil
}

// ScheduleList lists the acting user's practice schedules.
func (r *Runner) ScheduleList(ctx context.Context, cmd *cli.Command) error {
	if err := r.ensureDatabase(cmd); err != nil {
		return err
	}
	userID, err := r.requireUser(cmd)
	if err != nil {
		return err
	}

	schedules, err := r.schedules.All(userID)
	if err != nil {
		return fmt.Errorf("failed to list schedules: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(schedules, true)
	}

	r.writeHeader(fmt.Sprintf("Practice schedules (%d)", len(schedules)))
	for _, schedule := range schedules {
		status := " "
		if schedule.Completed {
			status = styles.OK("✓")
		}
		r.writePlain("[%s] %s (%s) %s\n",
			status, schedule.Title, schedule.Frequency, styles.Help(schedule.ID))
	}
	return nil
}

// ScheduleDone marks a schedule completed.
func (r *Runner) ScheduleDone(ctx context.Context, cmd *cli.Command) error {
	if err := r.ensureDatabase(cmd); err != nil {
		return err
	}
	userID, err := r.requireUser(cmd)
	if err != nil {
		return err
	}

	scheduleID := cmd.String("id")
	done := true
	if err := r.schedules.Update(scheduleID, userID, models.ScheduleUpdate{Completed: &done}); err != nil {
		return fmt.Errorf("failed to complete schedule: %w", err)
	}

	r.logger.Info("schedule completed", "id", scheduleID)
	r.writePlain("%s %s\n", styles.OK("Completed"), scheduleID)
	return nil
}

// ScheduleRemove deletes a schedule.
func (r *Runner) ScheduleRemove(ctx context.Context, cmd *cli.Command) error {
	if err := r.ensureDatabase(cmd); err != nil {
		return err
	}
	userID, err := r.requireUser(cmd)
	if err != nil {
		return err
	}

	scheduleID := cmd.String("id")
	if err := r.schedules.Delete(scheduleID, userID); err != nil {
		return fmt.Errorf("failed to delete schedule: %w", err)
	}

	r.logger.Info("schedule deleted", "id", scheduleID)
	r.writePlain("%s %s\n", styles.OK("Deleted"), scheduleID)
	return nil
}
