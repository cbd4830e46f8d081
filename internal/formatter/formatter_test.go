package formatter

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/desertthunder/setmaster/internal/models"
)

func sampleExport() *SetlistExport {
	return &SetlistExport{
		Setlist: models.Setlist{
			ID:          "set123",
			Name:        "Friday Night",
			Description: "Weekend gig",
			Venue:       "The Basement",
			EventDate:   1757116800000,
			Songs:       []string{"song1", "song2"},
		},
		Songs: []models.Song{
			{
				ID:       "song1",
				Title:    "Opener",
				Artist:   "The Regulars",
				Duration: 180,
				Bpm:      120,
				Key:      "C",
			},
			{
				ID:       "song2",
				Title:    "Closer",
				Artist:   "The Regulars",
				Duration: 240,
				Bpm:      90,
				Key:      "Am",
			},
		},
	}
}

func TestExporters(t *testing.T) {
	t.Run("ExportToCSV", func(t *testing.T) {
		data, err := ExportToCSV(sampleExport())
		if err != nil {
			t.Fatalf("ExportToCSV failed: %v", err)
		}

		output := string(data)

		if !strings.Contains(output, "Position,Title,Artist,Duration,BPM,Key") {
			t.Errorf("CSV missing headers, got: %s", output)
		}
		if !strings.Contains(output, "1,Opener,The Regulars,180,120,C") {
			t.Errorf("CSV missing first song row, got: %s", output)
		}
		if !strings.Contains(output, "2,Closer") {
			t.Errorf("CSV missing second song position")
		}
	})

	t.Run("ExportToMarkdown", func(t *testing.T) {
		data, err := ExportToMarkdown(sampleExport(), "cover.jpg")
		if err != nil {
			t.Fatalf("ExportToMarkdown failed: %v", err)
		}

		output := string(data)

		if !strings.Contains(output, "# Friday Night") {
			t.Errorf("Markdown missing title heading")
		}
		if !strings.Contains(output, "![Cover](cover.jpg)") {
			t.Errorf("Markdown missing cover image")
		}
		if !strings.Contains(output, "**Venue**: The Basement") {
			t.Errorf("Markdown missing venue")
		}
		if !strings.Contains(output, "**Date**: 2025-09-06") {
			t.Errorf("Markdown missing event date, got: %s", output)
		}
		if !strings.Contains(output, "**Total time**: 7:00") {
			t.Errorf("Markdown missing total time, got: %s", output)
		}
		if !strings.Contains(output, "1. The Regulars - Opener (C) [3:00]") {
			t.Errorf("Markdown missing first song line, got: %s", output)
		}
	})

	t.Run("ExportToMarkdown without cover", func(t *testing.T) {
		data, err := ExportToMarkdown(sampleExport(), "")
		if err != nil {
			t.Fatalf("ExportToMarkdown failed: %v", err)
		}

		if strings.Contains(string(data), "![Cover]") {
			t.Errorf("Markdown should not include a cover image")
		}
	})

	t.Run("ExportToText", func(t *testing.T) {
		data, err := ExportToText(sampleExport())
		if err != nil {
			t.Fatalf("ExportToText failed: %v", err)
		}

		output := string(data)

		if !strings.Contains(output, "Setlist: Friday Night") {
			t.Errorf("text missing setlist name")
		}
		if !strings.Contains(output, "Songs: 2") {
			t.Errorf("text missing song count")
		}
		if !strings.Contains(output, "2. The Regulars - Closer") {
			t.Errorf("text missing numbered song line")
		}
	})
}

func TestFileExports(t *testing.T) {
	t.Run("WriteCSVExport", func(t *testing.T) {
		base := filepath.Join(t.TempDir(), "friday")

		result, err := WriteCSVExport(sampleExport(), base)
		if err != nil {
			t.Fatalf("WriteCSVExport failed: %v", err)
		}

		if result.SongsFile != base+"_songs.csv" {
			t.Errorf("unexpected songs file %s", result.SongsFile)
		}

		csvData, err := os.ReadFile(result.SongsFile)
		if err != nil {
			t.Fatalf("failed to read CSV file: %v", err)
		}
		if !strings.Contains(string(csvData), "Opener") {
			t.Errorf("CSV file missing song data")
		}

		metaData, err := os.ReadFile(result.MetadataFile)
		if err != nil {
			t.Fatalf("failed to read metadata file: %v", err)
		}
		if !strings.Contains(string(metaData), `"name": "Friday Night"`) {
			t.Errorf("metadata missing setlist name, got: %s", metaData)
		}
	})

	t.Run("WriteMarkdownExport", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "friday")

		result, err := WriteMarkdownExport(sampleExport(), dir, "")
		if err != nil {
			t.Fatalf("WriteMarkdownExport failed: %v", err)
		}

		if result.Directory != dir {
			t.Errorf("unexpected directory %s", result.Directory)
		}
		if len(result.Files) != 1 || !strings.HasSuffix(result.Files[0], "README.md") {
			t.Errorf("unexpected files %v", result.Files)
		}

		mdData, err := os.ReadFile(result.Files[0])
		if err != nil {
			t.Fatalf("failed to read Markdown file: %v", err)
		}
		if !strings.Contains(string(mdData), "# Friday Night") {
			t.Errorf("Markdown file missing heading")
		}
	})

	t.Run("WriteTextExport", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "friday.txt")

		written, err := WriteTextExport(sampleExport(), path)
		if err != nil {
			t.Fatalf("WriteTextExport failed: %v", err)
		}
		if written != path {
			t.Errorf("unexpected path %s", written)
		}

		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("failed to read text file: %v", err)
		}
		if !strings.Contains(string(data), "Setlist: Friday Night") {
			t.Errorf("text file missing setlist name")
		}
	})
}

func TestDownloadImage(t *testing.T) {
	t.Run("empty URL", func(t *testing.T) {
		if _, err := DownloadImage(""); err == nil {
			t.Error("expected error for empty URL")
		}
	})
}
