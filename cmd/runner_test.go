package main

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/desertthunder/setmaster/internal/docstore"
	"github.com/desertthunder/setmaster/internal/shared"
	"github.com/desertthunder/setmaster/internal/stores"
	"github.com/urfave/cli/v3"
)

func testRunner(t *testing.T) (*Runner, *bytes.Buffer) {
	t.Helper()

	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := shared.RunMigrations(db); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	output := &bytes.Buffer{}
	runner := NewRunner(RunnerOpts{
		Config: shared.DefaultConfig(),
		DB:     db,
		Output: output,
	})

	return runner, output
}

func run(t *testing.T, runner *Runner, args ...string) error {
	t.Helper()

	app := &cli.Command{
		Name:     "setmaster",
		Commands: runner.register(),
	}
	return app.Run(context.Background(), append([]string{"setmaster"}, args...))
}

func TestRunner(t *testing.T) {
	t.Run("NewRunner", func(t *testing.T) {
		t.Run("with all dependencies provided", func(t *testing.T) {
			config := shared.DefaultConfig()
			logger := shared.NewLogger(nil)
			output := &bytes.Buffer{}

			runner := NewRunner(RunnerOpts{
				Config: config,
				Logger: logger,
				Output: output,
			})

			if runner.config != config {
				t.Error("expected config to be set")
			}
			if runner.logger != logger {
				t.Error("expected logger to be set")
			}
			if runner.output != output {
				t.Error("expected output to be set")
			}
		})

		t.Run("with nil logger uses default", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{})

			if runner.logger == nil {
				t.Error("expected default logger to be set")
			}
			if runner.output == nil {
				t.Error("expected default output to be set")
			}
		})

		t.Run("attaches repositories with a database", func(t *testing.T) {
			runner, _ := testRunner(t)

			if runner.songs == nil || runner.setlists == nil || runner.sessions == nil {
				t.Error("expected repositories wired")
			}
		})
	})
}

func TestSongCommands(t *testing.T) {
	t.Run("add and list", func(t *testing.T) {
		runner, output := testRunner(t)

		err := run(t, runner, "song", "add", "--user", "user-1",
			"--title", "Opener", "--artist", "The Regulars", "--duration", "180")
		if err != nil {
			t.Fatalf("song add failed: %v", err)
		}
		if !strings.Contains(output.String(), "Opener") {
			t.Errorf("expected confirmation, got: %s", output.String())
		}

		output.Reset()
		if err := run(t, runner, "song", "list", "--user", "user-1"); err != nil {
			t.Fatalf("song list failed: %v", err)
		}
		if !strings.Contains(output.String(), "The Regulars - Opener") {
			t.Errorf("expected listed song, got: %s", output.String())
		}
	})

	t.Run("list scopes by user", func(t *testing.T) {
		runner, output := testRunner(t)

		run(t, runner, "song", "add", "--user", "user-1", "--title", "Mine", "--artist", "Me")
		output.Reset()

		if err := run(t, runner, "song", "list", "--user", "user-2"); err != nil {
			t.Fatalf("song list failed: %v", err)
		}
		if strings.Contains(output.String(), "Mine") {
			t.Errorf("expected no foreign songs, got: %s", output.String())
		}
	})

	t.Run("requires a user", func(t *testing.T) {
		runner, _ := testRunner(t)

		err := run(t, runner, "song", "list")
		if err == nil {
			t.Fatal("expected error without --user")
		}
	})
}

func TestSetlistCommands(t *testing.T) {
	t.Run("create show reorder", func(t *testing.T) {
		runner, output := testRunner(t)

		first := addSongFor(t, runner, "user-1", "First")
		second := addSongFor(t, runner, "user-1", "Second")

		output.Reset()
		err := run(t, runner, "setlist", "create", "--user", "user-1",
			"--name", "Friday Set", "--song", first, "--song", second)
		if err != nil {
			t.Fatalf("setlist create failed: %v", err)
		}

		setlists, err := runner.setlists.All("user-1")
		if err != nil || len(setlists) != 1 {
			t.Fatalf("expected one setlist, got %v (%v)", setlists, err)
		}
		setlistID := setlists[0].ID

		output.Reset()
		err = run(t, runner, "setlist", "reorder", "--user", "user-1",
			"--id", setlistID, "--song", second, "--song", first)
		if err != nil {
			t.Fatalf("setlist reorder failed: %v", err)
		}

		output.Reset()
		if err := run(t, runner, "setlist", "show", "--user", "user-1", "--id", setlistID); err != nil {
			t.Fatalf("setlist show failed: %v", err)
		}
		text := output.String()
		if strings.Index(text, "Second") > strings.Index(text, "First") {
			t.Errorf("expected reordered output, got: %s", text)
		}
	})

	t.Run("reorder foreign setlist fails", func(t *testing.T) {
		runner, _ := testRunner(t)

		songID := addSongFor(t, runner, "user-1", "Solo")
		run(t, runner, "setlist", "create", "--user", "user-1", "--name", "Private", "--song", songID)

		setlists, _ := runner.setlists.All("user-1")
		err := run(t, runner, "setlist", "reorder", "--user", "user-2",
			"--id", setlists[0].ID, "--song", songID)
		if err == nil {
			t.Fatal("expected error reordering a foreign setlist")
		}
	})
}

func TestSessionCommands(t *testing.T) {
	t.Run("start then complete", func(t *testing.T) {
		runner, output := testRunner(t)

		err := run(t, runner, "session", "start", "--user", "user-1",
			"--title", "Tuesday run-through", "--duration", "45")
		if err != nil {
			t.Fatalf("session start failed: %v", err)
		}

		active, err := runner.sessions.Active("user-1")
		if err != nil || active == nil {
			t.Fatalf("expected active session, got %v (%v)", active, err)
		}
		if active.TimeRemaining != 45*60 {
			t.Errorf("expected fresh cursor, got %d", active.TimeRemaining)
		}

		output.Reset()
		if err := run(t, runner, "session", "complete", "--user", "user-1"); err != nil {
			t.Fatalf("session complete failed: %v", err)
		}

		if active, _ := runner.sessions.Active("user-1"); active != nil {
			t.Errorf("expected no active session, got %+v", active)
		}
	})

	t.Run("complete without active session fails", func(t *testing.T) {
		runner, _ := testRunner(t)

		if err := run(t, runner, "session", "complete", "--user", "user-1"); err == nil {
			t.Fatal("expected error without an active session")
		}
	})
}

func TestPurgeCommand(t *testing.T) {
	t.Run("removes only the named user", func(t *testing.T) {
		runner, _ := testRunner(t)

		addSongFor(t, runner, "user-1", "Gone")
		addSongFor(t, runner, "user-2", "Kept")

		if err := run(t, runner, "purge", "--user", "user-1", "--yes"); err != nil {
			t.Fatalf("purge failed: %v", err)
		}

		if songs, _ := runner.songs.All("user-1"); len(songs) != 0 {
			t.Errorf("expected user-1 songs purged, got %v", songs)
		}
		if songs, _ := runner.songs.All("user-2"); len(songs) != 1 {
			t.Errorf("expected user-2 songs kept, got %v", songs)
		}
	})
}

func addSongFor(t *testing.T, runner *Runner, userID, title string) string {
	t.Helper()

	err := run(t, runner, "song", "add", "--user", userID, "--title", title, "--artist", "The Regulars")
	if err != nil {
		t.Fatalf("song add failed: %v", err)
	}

	songs, err := runner.songs.All(userID)
	if err != nil {
		t.Fatalf("failed to list songs: %v", err)
	}
	for _, song := range songs {
		if song.Title == title {
			return song.ID
		}
	}
	t.Fatalf("song %q not found after add", title)
	return ""
}

func TestEnsureDatabaseRunsMigrations(t *testing.T) {
	config := shared.DefaultConfig()
	config.Database.Path = filepath.Join(t.TempDir(), "setmaster.db")

	output := &bytes.Buffer{}
	runner := NewRunner(RunnerOpts{Config: config, Output: output})
	defer runner.Close()

	// No setup command ran; the first command against a fresh database
	// must bring the schema up itself.
	err := run(t, runner, "song", "add", "--user", "u1", "--title", "Opener", "--artist", "X")
	if err != nil {
		t.Fatalf("song add on fresh database failed: %v", err)
	}

	songs, err := runner.songs.All("u1")
	if err != nil {
		t.Fatalf("failed to list songs: %v", err)
	}
	if len(songs) != 1 {
		t.Errorf("expected 1 song, got %d", len(songs))
	}

	if !runner.sharedDB {
		t.Error("expected runner to hold the process-wide handle")
	}
}

func TestSyncWorkspace(t *testing.T) {
	runner, output := testRunner(t)
	runner.config.Documents.Path = filepath.Join(t.TempDir(), "documents.db")

	addSongFor(t, runner, "u1", "Opener")
	addSongFor(t, runner, "u1", "Closer")
	addSongFor(t, runner, "u2", "Other")

	if err := run(t, runner, "sync", "--user", "u1"); err != nil {
		t.Fatalf("sync failed: %v", err)
	}
	if !strings.Contains(output.String(), "songs: 2") {
		t.Errorf("expected sync summary with 2 songs, got %q", output.String())
	}

	// A fresh store over the same file must see the persisted snapshot,
	// and only for the synced user.
	blobs, err := docstore.OpenBlobs(runner.config.Documents.Path)
	if err != nil {
		t.Fatalf("failed to reopen document store: %v", err)
	}
	defer blobs.Close()

	store := stores.NewSongStore(blobs, nil)
	if err := store.LoadUserData(context.Background(), "u1"); err != nil {
		t.Fatalf("failed to load snapshot: %v", err)
	}
	if got := len(store.Songs()); got != 2 {
		t.Errorf("expected 2 songs in snapshot, got %d", got)
	}

	if err := store.LoadUserData(context.Background(), "u2"); err != nil {
		t.Fatalf("failed to load snapshot: %v", err)
	}
	if got := len(store.Songs()); got != 0 {
		t.Errorf("expected empty snapshot for unsynced user, got %d songs", got)
	}
}
