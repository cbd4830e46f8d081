package shared

import (
	"context"
	"path/filepath"
	"testing"
)

func TestNewDatabase(t *testing.T) {
	t.Run("opens in-memory database", func(t *testing.T) {
		db, err := NewDatabase(":memory:")
		if err != nil {
			t.Fatalf("failed to open database: %v", err)
		}
		defer db.Close()

		if err := db.Ping(); err != nil {
			t.Errorf("ping failed: %v", err)
		}
	})

	t.Run("in-memory databases are isolated from each other", func(t *testing.T) {
		a, err := NewDatabase(":memory:")
		if err != nil {
			t.Fatalf("failed to open database: %v", err)
		}
		defer a.Close()
		b, err := NewDatabase(":memory:")
		if err != nil {
			t.Fatalf("failed to open database: %v", err)
		}
		defer b.Close()

		if _, err := a.Exec("CREATE TABLE only_in_a (id TEXT)"); err != nil {
			t.Fatalf("create failed: %v", err)
		}
		if _, err := b.Exec("SELECT * FROM only_in_a"); err == nil {
			t.Error("expected second database to not see the first database's table")
		}
	})
}

func TestSharedDatabaseHandle(t *testing.T) {
	db, err := OpenSharedDatabase(filepath.Join(t.TempDir(), "shared.db"))
	if err != nil {
		t.Fatalf("failed to open shared database: %v", err)
	}

	again, err := OpenSharedDatabase(filepath.Join(t.TempDir(), "other.db"))
	if err != nil {
		t.Fatalf("failed to reopen shared database: %v", err)
	}
	if again != db {
		t.Error("expected the same handle regardless of path")
	}

	if err := CloseSharedDatabase(); err != nil {
		t.Errorf("failed to close shared database: %v", err)
	}
	if err := CloseSharedDatabase(); err != nil {
		t.Errorf("close without an open handle should be a no-op, got %v", err)
	}
}

func TestForeignKeysAcrossPool(t *testing.T) {
	ctx := context.Background()

	db, err := NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()
	ConfigureDatabase(db, 4, 2)

	if err := RunMigrations(db); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	if _, err := db.Exec(
		"INSERT INTO songs (id, user_id, title, artist, duration, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?)",
		"song-1", "u1", "Opener", "X", 180, 1, 1,
	); err != nil {
		t.Fatalf("failed to insert song: %v", err)
	}
	if _, err := db.Exec(
		"INSERT INTO cues (id, song_id, time_in_seconds, type, content, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?)",
		"cue-1", "song-1", 12.5, "lyric", "verse", 1, 1,
	); err != nil {
		t.Fatalf("failed to insert cue: %v", err)
	}

	// Hold one connection so the delete is forced onto another one from
	// the pool. The cascade must fire there too.
	pinned, err := db.Conn(ctx)
	if err != nil {
		t.Fatalf("failed to pin connection: %v", err)
	}
	defer pinned.Close()

	var enabled int
	if err := pinned.QueryRowContext(ctx, "PRAGMA foreign_keys").Scan(&enabled); err != nil {
		t.Fatalf("failed to read pragma: %v", err)
	}
	if enabled != 1 {
		t.Fatalf("foreign_keys = %d on pinned connection, want 1", enabled)
	}

	if _, err := db.ExecContext(ctx, "DELETE FROM songs WHERE id = ?", "song-1"); err != nil {
		t.Fatalf("failed to delete song: %v", err)
	}

	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM cues WHERE song_id = ?", "song-1").Scan(&count); err != nil {
		t.Fatalf("failed to count cues: %v", err)
	}
	if count != 0 {
		t.Errorf("cascade left %d cue rows after song delete", count)
	}
}
