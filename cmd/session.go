package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/setmaster/internal/models"
	"github.com/desertthunder/setmaster/internal/shared"
	"github.com/urfave/cli/v3"
)

// SessionStart creates a rehearsal session and activates it, deactivating
// any session already in progress.
func (r *Runner) SessionStart(ctx context.Context, cmd *cli.Command) error {
	if err := r.ensureDatabase(cmd); err != nil {
		return err
	}
	userID, err := r.requireUser(cmd)
	if err != nil {
		return err
	}

	if active, err := r.sessions.Active(userID); err != nil {
		return fmt.Errorf("failed to check active session: %w", err)
	} else if active != nil {
		inactive := false
		if err := r.sessions.Update(active.ID, userID, models.SessionUpdate{IsActive: &inactive}); err != nil {
			return fmt.Errorf("failed to deactivate session: %w", err)
		}
		r.logger.Info("deactivated previous session", "id", active.ID)
	}

	now := shared.NowMillis()
	duration := cmd.Int("duration")
	session := models.RehearsalSession{
		Title:         cmd.String("title"),
		Date:          now,
		Duration:      duration,
		SetlistID:     cmd.String("setlist"),
		Songs:         cmd.StringSlice("song"),
		IsActive:      true,
		StartedAt:     now,
		TimeRemaining: duration * 60,
	}
	if err := session.Validate(); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrInvalidInput, err)
	}

	if err := r.sessions.Create(&session, userID); err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}

	r.logger.Info("session started", "id", session.ID, "title", session.Title)
	r.writePlain("%s %s (%s)\n", styles.OK("Started"), session.Title, session.ID)
	return nil
}

// SessionList lists the acting user's rehearsal sessions.
func (r *Runner) SessionList(ctx context.Context, cmd *cli.Command) error {
	if err := r.ensureDatabase(cmd); err != nil {
		return err
	}
	userID, err := r.requireUser(cmd)
	if err != nil {
		return err
	}

	sessions, err := r.sessions.All(userID)
	if err != nil {
		return fmt.Errorf("failed to list sessions: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(sessions, true)
	}

	r.writeHeader(fmt.Sprintf("Rehearsal sessions (%d)", len(sessions)))
	for _, session := range sessions {
		status := " "
		if session.IsActive {
			status = styles.OK("▶")
		} else if session.Completed {
			status = styles.OK("✓")
		}
		r.writePlain("[%s] %s - %dm %s\n",
			status, session.Title, session.Duration, styles.Help(session.ID))
	}
	return nil
}

// SessionComplete ends the active session, marking it completed.
func (r *Runner) SessionComplete(ctx context.Context, cmd *cli.Command) error {
	if err := r.ensureDatabase(cmd); err != nil {
		return err
	}
	userID, err := r.requireUser(cmd)
	if err != nil {
		return err
	}

	active, err := r.sessions.Active(userID)
	if err != nil {
		return fmt.Errorf("failed to check active session: %w", err)
	}
	if active == nil {
		return fmt.Errorf("%w: no active session", shared.ErrSessionNotFound)
	}

	inactive := false
	done := true
	zero := 0
	upd := models.SessionUpdate{IsActive: &inactive, Completed: &done, TimeRemaining: &zero}
	if err := r.sessions.Update(active.ID, userID, upd); err != nil {
		return fmt.Errorf("failed to complete session: %w", err)
	}

	r.logger.Info("session completed", "id", active.ID)
	r.writePlain("%s %s\n", styles.OK("Completed"), active.Title)
	return nil
}
