package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/desertthunder/setmaster/internal/formatter"
	"github.com/desertthunder/setmaster/internal/models"
	"github.com/desertthunder/setmaster/internal/services"
	"github.com/desertthunder/setmaster/internal/shared"
	"github.com/desertthunder/setmaster/internal/tasks"
	"github.com/urfave/cli/v3"
)

// SetlistCreate creates a setlist owned by the acting user.
func (r *Runner) SetlistCreate(ctx context.Context, cmd *cli.Command) error {
	if err := r.ensureDatabase(cmd); err != nil {
		return err
	}
	userID, err := r.requireUser(cmd)
	if err != nil {
		return err
	}

	setlist := models.Setlist{
		Name:  cmd.String("name"),
		Venue: cmd.String("venue"),
		Songs: cmd.StringSlice("song"),
	}
	if err := setlist.Validate(); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrInvalidInput, err)
	}

	if err := r.setlists.Create(&setlist, userID); err != nil {
		return fmt.Errorf("failed to create setlist: %w", err)
	}

	r.logger.Info("setlist created", "id", setlist.ID, "name", setlist.Name, "songs", len(setlist.Songs))
	r.writePlain("%s %s (%s)\n", styles.OK("Created"), setlist.Name, setlist.ID)
	return nil
}

// SetlistList lists the acting user's setlists.
func (r *Runner) SetlistList(ctx context.Context, cmd *cli.Command) error {
	if err := r.ensureDatabase(cmd); err != nil {
		return err
	}
	userID, err := r.requireUser(cmd)
	if err != nil {
		return err
	}

	setlists, err := r.setlists.All(userID)
	if err != nil {
		return fmt.Errorf("failed to list setlists: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(setlists, true)
	}

	r.writeHeader(fmt.Sprintf("Setlists (%d)", len(setlists)))
	for _, setlist := range setlists {
		venue := ""
		if setlist.Venue != "" {
			venue = " @ " + setlist.Venue
		}
		r.writePlain("%s%s - %d songs %s\n",
			setlist.Name, venue, len(setlist.Songs), styles.Help(setlist.ID))
	}
	return nil
}

// SetlistShow prints one setlist with its songs resolved in order.
func (r *Runner) SetlistShow(ctx context.Context, cmd *cli.Command) error {
	if err := r.ensureDatabase(cmd); err != nil {
		return err
	}
	userID, err := r.requireUser(cmd)
	if err != nil {
		return err
	}

	export, err := r.resolveSetlist(cmd.String("id"), userID)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(export, true)
	}

	r.writeHeader(export.Setlist.Name)
	if export.Setlist.Venue != "" {
		r.writePlain("Venue: %s\n", export.Setlist.Venue)
	}
	for i, song := range export.Songs {
		r.writePlain("%d. %s - %s [%s]\n",
			i+1, song.Artist, song.Title, shared.FormatDuration(song.Duration))
	}
	return nil
}

// SetlistReorder replaces a setlist's song order.
func (r *Runner) SetlistReorder(ctx context.Context, cmd *cli.Command) error {
	if err := r.ensureDatabase(cmd); err != nil {
		return err
	}
	userID, err := r.requireUser(cmd)
	if err != nil {
		return err
	}

	setlistID := cmd.String("id")
	songIDs := cmd.StringSlice("song")

	if err := r.setlists.ReorderSongs(setlistID, userID, songIDs); err != nil {
		return fmt.Errorf("failed to reorder setlist: %w", err)
	}

	r.logger.Info("setlist reordered", "id", setlistID, "songs", len(songIDs))
	r.writePlain("%s %s\n", styles.OK("Reordered"), setlistID)
	return nil
}

// SetlistExport writes a setlist to CSV, Markdown or plain text.
func (r *Runner) SetlistExport(ctx context.Context, cmd *cli.Command) error {
	if err := r.ensureDatabase(cmd); err != nil {
		return err
	}
	userID, err := r.requireUser(cmd)
	if err != nil {
		return err
	}

	export, err := r.resolveSetlist(cmd.String("id"), userID)
	if err != nil {
		return err
	}

	output := cmd.String("output")
	format := strings.ToLower(cmd.String("format"))

	switch format {
	case "csv":
		result, err := formatter.WriteCSVExport(export, output)
		if err != nil {
			return fmt.Errorf("failed to export setlist: %w", err)
		}
		r.writePlain("%s %s\n", styles.OK("Wrote"), result.SongsFile)
		r.writePlain("%s %s\n", styles.OK("Wrote"), result.MetadataFile)
	case "markdown", "md":
		result, err := formatter.WriteMarkdownExport(export, output, "")
		if err != nil {
			return fmt.Errorf("failed to export setlist: %w", err)
		}
		for _, file := range result.Files {
			r.writePlain("%s %s\n", styles.OK("Wrote"), file)
		}
	case "text", "txt":
		written, err := formatter.WriteTextExport(export, output)
		if err != nil {
			return fmt.Errorf("failed to export setlist: %w", err)
		}
		r.writePlain("%s %s\n", styles.OK("Wrote"), written)
	default:
		return fmt.Errorf("%w: unknown format %q", shared.ErrInvalidArgument, format)
	}

	return nil
}

// SetlistExportAll exports many setlists at once through the worker pool.
func (r *Runner) SetlistExportAll(ctx context.Context, cmd *cli.Command) error {
	if err := r.ensureDatabase(cmd); err != nil {
		return err
	}
	userID, err := r.requireUser(cmd)
	if err != nil {
		return err
	}

	engine := tasks.NewExportEngine(r.setlists, r.songs, nil, nil)

	prog := make(chan tasks.ProgressUpdate, 64)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range prog {
			r.writePlain("%s\n", update.Message)
		}
	}()

	result, err := engine.BulkExport(ctx, prog, userID, cmd.StringSlice("id"), tasks.BulkExportOpts{
		Format:    cmd.String("format"),
		OutputDir: cmd.String("output"),
	})
	close(prog)
	<-done
	if err != nil {
		return err
	}

	r.writePlain("%s %d/%d setlists to %s\n",
		styles.OK("Exported"), result.SuccessfulExports, result.TotalSetlists, result.OutputDirectory)
	if result.FailedExports > 0 {
		r.writePlain("%s %d setlists failed, see %s\n",
			styles.Err("Warning:"), result.FailedExports, result.ManifestPath)
	}
	return nil
}

// SetlistPublish shares a setlist with a band and announces it in chat.
func (r *Runner) SetlistPublish(ctx context.Context, cmd *cli.Command) error {
	if err := r.ensureDatabase(cmd); err != nil {
		return err
	}
	userID, err := r.requireUser(cmd)
	if err != nil {
		return err
	}

	if r.config.Remote.BaseURL == "" || r.config.Remote.Token == "" {
		return fmt.Errorf("%w: remote backend not configured", shared.ErrMissingConfig)
	}

	client := services.NewClient(services.ClientOpts{
		BaseURL:   r.config.Remote.BaseURL,
		Token:     r.config.Remote.Token,
		RateLimit: r.config.Remote.RateLimit,
	})
	engine := tasks.NewExportEngine(
		r.setlists,
		r.songs,
		services.NewSharedSetlistService(client),
		services.NewChatService(client, r.config.Remote.WebsocketURL, r.logger),
	)

	prog := make(chan tasks.ProgressUpdate, 64)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range prog {
			r.writePlain("%s\n", update.Message)
		}
	}()

	sharedSetlist, err := engine.Publish(ctx, prog, userID, cmd.String("id"), cmd.String("band"))
	close(prog)
	<-done
	if err != nil {
		return err
	}

	r.writePlain("%s %s (%s)\n", styles.OK("Published"), sharedSetlist.Name, sharedSetlist.ID)
	return nil
}

// SetlistRemove deletes a setlist; its association rows cascade.
func (r *Runner) SetlistRemove(ctx context.Context, cmd *cli.Command) error {
	if err := r.ensureDatabase(cmd); err != nil {
		return err
	}
	userID, err := r.requireUser(cmd)
	if err != nil {
		return err
	}

	setlistID := cmd.String("id")
	if err := r.setlists.Delete(setlistID, userID); err != nil {
		return fmt.Errorf("failed to delete setlist: %w", err)
	}

	r.logger.Info("setlist deleted", "id", setlistID)
	r.writePlain("%s %s\n", styles.OK("Deleted"), setlistID)
	return nil
}

func (r *Runner) resolveSetlist(setlistID, userID string) (*formatter.SetlistExport, error) {
	setlist, err := r.setlists.Get(setlistID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch setlist: %w", err)
	}
	if setlist == nil {
		return nil, shared.ErrSetlistNotFound
	}

	songs, err := r.songs.ByIDs(setlist.Songs, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch setlist songs: %w", err)
	}

	// ByIDs does not guarantee order; realign to the setlist's sequence.
	byID := make(map[string]models.Song, len(songs))
	for _, song := range songs {
		byID[song.ID] = song
	}
	ordered := make([]models.Song, 0, len(setlist.Songs))
	for _, id := range setlist.Songs {
		if song, ok := byID[id]; ok {
			ordered = append(ordered, song)
		}
	}

	return &formatter.SetlistExport{Setlist: *setlist, Songs: ordered}, nil
}
