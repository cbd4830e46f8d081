package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/setmaster/internal/models"
	"github.com/desertthunder/setmaster/internal/shared"
	"github.com/urfave/cli/v3"
)

// SongAdd creates a song owned by the acting user.
func (r *Runner) SongAdd(ctx context.Context, cmd *cli.Command) error {
	if err := r.ensureDatabase(cmd); err != nil {
		return err
	}
	userID, err := r.requireUser(cmd)
	if err != nil {
		return err
	}

	song := models.Song{
		Title:    cmd.String("title"),
		Artist:   cmd.String("artist"),
		Duration: cmd.Int("duration"),
		Bpm:      cmd.Int("bpm"),
		Key:      cmd.String("key"),
		Notes:    cmd.String("notes"),
	}
	if err := song.Validate(); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrInvalidInput, err)
	}

	if err := r.songs.Create(&song, userID); err != nil {
		return fmt.Errorf("failed to create song: %w", err)
	}

	r.logger.Info("song created", "id", song.ID, "title", song.Title)
	r.writePlain("%s %s (%s)\n", styles.OK("Added"), song.Title, song.ID)
	return nil
}

// SongList lists the acting user's song library.
func (r *Runner) SongList(ctx context.Context, cmd *cli.Command) error {
	if err := r.ensureDatabase(cmd); err != nil {
		return err
	}
	userID, err := r.requireUser(cmd)
	if err != nil {
		return err
	}

	songs, err := r.songs.All(userID)
	if err != nil {
		return fmt.Errorf("failed to list songs: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(songs, true)
	}

	r.writeHeader(fmt.Sprintf("Songs (%d)", len(songs)))
	for _, song := range songs {
		r.writePlain("%s - %s [%s] %s\n",
			song.Artist, song.Title, shared.FormatDuration(song.Duration), styles.Help(song.ID))
	}
	return nil
}

// SongShow prints one song with its cues.
func (r *Runner) SongShow(ctx context.Context, cmd *cli.Command) error {
	if err := r.ensureDatabase(cmd); err != nil {
		return err
	}
	userID, err := r.requireUser(cmd)
	if err != nil {
		return err
	}

	song, err := r.songs.Get(cmd.String("id"), userID)
	if err != nil {
		return fmt.Errorf("failed to fetch song: %w", err)
	}
	if song == nil {
		return shared.ErrSongNotFound
	}

	cues, err := r.cues.BySong(song.ID)
	if err != nil {
		return fmt.Errorf("failed to fetch cues: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(map[string]any{"song": song, "cues": cues}, true)
	}

	r.writeHeader(fmt.Sprintf("%s - %s", song.Artist, song.Title))
	r.writePlain("Duration: %s\n", shared.FormatDuration(song.Duration))
	if song.Bpm > 0 {
		r.writePlain("BPM: %d\n", song.Bpm)
	}
	if song.Key != "" {
		r.writePlain("Key: %s\n", song.Key)
	}
	if song.Notes != "" {
		r.writePlain("Notes: %s\n", song.Notes)
	}

	if len(cues) > 0 {
		r.writePlainln("Cues:")
		for _, cue := range cues {
			r.writePlain("  [%s] %s: %s\n",
				shared.FormatDuration(int(cue.TimeInSeconds)), cue.Type, cue.Content)
		}
	}
	return nil
}

// SongRemove deletes a song; its cues and setlist rows cascade.
func (r *Runner) SongRemove(ctx context.Context, cmd *cli.Command) error {
	if err := r.ensureDatabase(cmd); err != nil {
		return err
	}
	userID, err := r.requireUser(cmd)
	if err != nil {
		return err
	}

	songID := cmd.String("id")
	if err := r.songs.Delete(songID, userID); err != nil {
		return fmt.Errorf("failed to delete song: %w", err)
	}

	r.logger.Info("song deleted", "id", songID)
	r.writePlain("%s %s\n", styles.OK("Deleted"), songID)
	return nil
}
