package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/setmaster/internal/docstore"
	"github.com/desertthunder/setmaster/internal/lifecycle"
	"github.com/desertthunder/setmaster/internal/services"
	"github.com/desertthunder/setmaster/internal/stores"
	"github.com/urfave/cli/v3"
)

// syncCommand refreshes a user's workspace snapshot
func syncCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "sync",
		Usage: "Mirror the library into the local snapshot and refresh band data",
		Flags: []cli.Flag{
			configFlag(),
			userFlag(),
			&cli.StringFlag{
				Name:  "email",
				Usage: "Address pending band invitations are looked up by",
			},
		},
		Action: r.SyncWorkspace,
	}
}

// SyncWorkspace mirrors the user's relational library into the per-user
// document snapshot and, when a remote backend is configured, refreshes
// the cached band and chat data.
func (r *Runner) SyncWorkspace(ctx context.Context, cmd *cli.Command) error {
	if err := r.ensureDatabase(cmd); err != nil {
		return err
	}
	userID, err := r.requireUser(cmd)
	if err != nil {
		return err
	}

	blobs, err := docstore.OpenBlobs(r.config.Documents.Path)
	if err != nil {
		return fmt.Errorf("failed to open document store: %w", err)
	}
	defer blobs.Close()

	songStore := stores.NewSongStore(blobs, r.logger)
	setlistStore := stores.NewSetlistStore(blobs, r.logger)
	rehearsalStore := stores.NewRehearsalStore(blobs, r.logger)

	manager := lifecycle.NewManager(r.logger, songStore, setlistStore, rehearsalStore)
	defer manager.Deactivate()

	var bandStore *stores.BandStore
	if r.config.Remote.BaseURL != "" && r.config.Remote.Token != "" {
		client := services.NewClient(services.ClientOpts{
			BaseURL:   r.config.Remote.BaseURL,
			Token:     r.config.Remote.Token,
			RateLimit: r.config.Remote.RateLimit,
		})
		bandStore = stores.NewBandStore(services.NewBandService(client), r.logger)
		bandStore.SetEmail(cmd.String("email"))
		chatStore := stores.NewChatStore(services.NewChatService(client, r.config.Remote.WebsocketURL, r.logger), r.logger)
		manager.Register(bandStore)
		manager.Register(chatStore)
	}

	manager.Activate(ctx, userID)

	songs, err := r.songs.All(userID)
	if err != nil {
		return fmt.Errorf("failed to load songs: %w", err)
	}
	setlists, err := r.setlists.All(userID)
	if err != nil {
		return fmt.Errorf("failed to load setlists: %w", err)
	}
	schedules, err := r.schedules.All(userID)
	if err != nil {
		return fmt.Errorf("failed to load schedules: %w", err)
	}
	sessions, err := r.sessions.All(userID)
	if err != nil {
		return fmt.Errorf("failed to load sessions: %w", err)
	}
	plans, err := r.plans.All(userID)
	if err != nil {
		return fmt.Errorf("failed to load plans: %w", err)
	}

	songStore.ReplaceAll(songs)
	setlistStore.ReplaceAll(setlists)
	rehearsalStore.ReplaceAll(schedules, sessions, plans)

	songStore.Flush()
	setlistStore.Flush()
	rehearsalStore.Flush()

	r.writePlain("%s snapshot for %s\n", styles.OK("Synced"), userID)
	r.writePlain("  songs: %d  setlists: %d  schedules: %d  sessions: %d  plans: %d\n",
		len(songs), len(setlists), len(schedules), len(sessions), len(plans))
	if bandStore != nil {
		r.writePlain("  bands: %d  invitations: %d\n", len(bandStore.Bands()), len(bandStore.Invitations()))
	}

	return nil
}
