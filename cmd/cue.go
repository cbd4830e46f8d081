package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/setmaster/internal/models"
	"github.com/desertthunder/setmaster/internal/shared"
	"github.com/urfave/cli/v3"
)

// CueAdd attaches a cue annotation to one of the user's songs.
func (r *Runner) CueAdd(ctx context.Context, cmd *cli.Command) error {
	if err := r.ensureDatabase(cmd); err != nil {
		return err
	}
	userID, err := r.requireUser(cmd)
	if err != nil {
		return err
	}

	songID := cmd.String("song")
	song, err := r.songs.Get(songID, userID)
	if err != nil {
		return fmt.Errorf("failed to fetch song: %w", err)
	}
	if song == nil {
		return shared.ErrSongNotFound
	}

	cue := models.Cue{
		SongID:        songID,
		TimeInSeconds: cmd.Float("time"),
		Type:          models.CueType(cmd.String("type")),
		Content:       cmd.String("content"),
	}
	if err := cue.Validate(); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrInvalidInput, err)
	}

	if err := r.cues.Create(&cue); err != nil {
		return fmt.Errorf("failed to create cue: %w", err)
	}

	r.logger.Info("cue created", "id", cue.ID, "song", songID)
	r.writePlain("%s cue at %s (%s)\n",
		styles.OK("Added"), shared.FormatDuration(int(cue.TimeInSeconds)), cue.ID)
	return nil
}

// CueList prints a song's cues in time order.
func (r *Runner) CueList(ctx context.Context, cmd *cli.Command) error {
	if err := r.ensureDatabase(cmd); err != nil {
		return err
	}
	userID, err := r.requireUser(cmd)
	if err != nil {
		return err
	}

	songID := cmd.String("song")
	song, err := r.songs.Get(songID, userID)
	if err != nil {
		return fmt.Errorf("failed to fetch song: %w", err)
	}
	if song == nil {
		return shared.ErrSongNotFound
	}

	cues, err := r.cues.BySong(songID)
	if err != nil {
		return fmt.Errorf("failed to list cues: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(cues, true)
	}

	r.writeHeader(fmt.Sprintf("Cues for %s (%d)", song.Title, len(cues)))
	for _, cue := range cues {
		r.writePlain("[%s] %s: %s %s\n",
			shared.FormatDuration(int(cue.TimeInSeconds)), cue.Type, cue.Content, styles.Help(cue.ID))
	}
	return nil
}

// CueRemove deletes a cue.
func (r *Runner) CueRemove(ctx context.Context, cmd *cli.Command) error {
	if err := r.ensureDatabase(cmd); err != nil {
		return err
	}
	if _, err := r.requireUser(cmd); err != nil {
		return err
	}

	cueID := cmd.String("id")
	if err := r.cues.Delete(cueID); err != nil {
		return fmt.Errorf("failed to delete cue: %w", err)
	}

	r.logger.Info("cue deleted", "id", cueID)
	r.writePlain("%s %s\n", styles.OK("Deleted"), cueID)
	return nil
}
