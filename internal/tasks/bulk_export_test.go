package tasks

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/desertthunder/setmaster/internal/formatter"
	tu "github.com/desertthunder/setmaster/internal/testing"
)

func TestBulkExport(t *testing.T) {
	t.Run("exports every setlist by default", func(t *testing.T) {
		setlists, songs := testSources()
		engine := NewExportEngine(setlists, songs, nil, nil)
		outputDir := filepath.Join(t.TempDir(), "export")

		prog := make(chan ProgressUpdate, 64)
		result, err := engine.BulkExport(context.Background(), prog, "user-1", nil, BulkExportOpts{
			Format:    "json",
			OutputDir: outputDir,
		})
		if err != nil {
			t.Fatalf("BulkExport failed: %v", err)
		}

		if result.TotalSetlists != 2 || result.SuccessfulExports != 2 || result.FailedExports != 0 {
			t.Errorf("unexpected result %+v", result)
		}

		for _, id := range []string{"set-1", "set-2"} {
			path := filepath.Join(outputDir, id+".json")
			data, err := os.ReadFile(path)
			if err != nil {
				t.Fatalf("missing export file %s: %v", path, err)
			}
			var export formatter.SetlistExport
			if err := json.Unmarshal(data, &export); err != nil {
				t.Fatalf("invalid export JSON: %v", err)
			}
			if export.Setlist.ID != id {
				t.Errorf("expected setlist %s, got %s", id, export.Setlist.ID)
			}
		}
	})

	t.Run("csv export writes songs and metadata", func(t *testing.T) {
		setlists, songs := testSources()
		engine := NewExportEngine(setlists, songs, nil, nil)
		outputDir := filepath.Join(t.TempDir(), "export")

		result, err := engine.BulkExport(context.Background(), nil, "user-1", []string{"set-1"}, BulkExportOpts{
			Format:    "csv",
			OutputDir: outputDir,
		})
		if err != nil {
			t.Fatalf("BulkExport failed: %v", err)
		}

		if result.SuccessfulExports != 1 {
			t.Fatalf("unexpected result %+v", result)
		}
		if len(result.Results[0].Files) != 2 {
			t.Errorf("expected songs + metadata files, got %v", result.Results[0].Files)
		}
	})

	t.Run("partial failure is recorded in the manifest", func(t *testing.T) {
		setlists, songs := testSources()
		engine := NewExportEngine(setlists, songs, nil, nil)
		outputDir := filepath.Join(t.TempDir(), "export")

		result, err := engine.BulkExport(context.Background(), nil, "user-1", []string{"set-1", "missing"}, BulkExportOpts{
			Format:    "json",
			OutputDir: outputDir,
		})
		if err != nil {
			t.Fatalf("BulkExport failed: %v", err)
		}

		if result.SuccessfulExports != 1 || result.FailedExports != 1 {
			t.Errorf("unexpected counts %+v", result)
		}

		data, err := os.ReadFile(result.ManifestPath)
		if err != nil {
			t.Fatalf("missing manifest: %v", err)
		}
		var manifest formatter.Manifest
		if err := json.Unmarshal(data, &manifest); err != nil {
			t.Fatalf("invalid manifest JSON: %v", err)
		}
		if manifest.Total != 2 || manifest.Failed != 1 {
			t.Errorf("unexpected manifest %+v", manifest)
		}
	})

	t.Run("source failure aborts", func(t *testing.T) {
		setlists := &tu.MockSetlistSource{Err: os.ErrPermission}
		_, songs := testSources()
		engine := NewExportEngine(setlists, songs, nil, nil)

		if _, err := engine.BulkExport(context.Background(), nil, "user-1", nil, BulkExportOpts{}); err == nil {
			t.Error("expected error when listing setlists fails")
		}
	})
}
