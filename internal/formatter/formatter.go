// package formatter provides functions to export setlist data to various formats (CSV, Markdown, plain text)
package formatter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/desertthunder/setmaster/internal/models"
	"github.com/desertthunder/setmaster/internal/shared"
)

// SetlistExport bundles a setlist with its songs resolved into full
// records, in performance order.
type SetlistExport struct {
	Setlist models.Setlist
	Songs   []models.Song
}

// ExportToCSV converts a SetlistExport to CSV format with columns: Position, Title, Artist, Duration, BPM, Key
func ExportToCSV(export *SetlistExport) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"Position", "Title", "Artist", "Duration", "BPM", "Key"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for i, song := range export.Songs {
		record := []string{
			strconv.Itoa(i + 1),
			song.Title,
			song.Artist,
			strconv.Itoa(song.Duration),
			strconv.Itoa(song.Bpm),
			song.Key,
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown converts a SetlistExport to Markdown format with optional cover image
func ExportToMarkdown(export *SetlistExport, imageFilename string) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("# %s\n\n", export.Setlist.Name))

	if imageFilename != "" {
		buf.WriteString(fmt.Sprintf("![Cover](%s)\n\n", imageFilename))
	}

	if export.Setlist.Description != "" {
		buf.WriteString(fmt.Sprintf("**Description**: %s\n\n", export.Setlist.Description))
	}
	if export.Setlist.Venue != "" {
		buf.WriteString(fmt.Sprintf("**Venue**: %s\n", export.Setlist.Venue))
	}
	if export.Setlist.EventDate != 0 {
		buf.WriteString(fmt.Sprintf("**Date**: %s\n", formatEventDate(export.Setlist.EventDate)))
	}

	buf.WriteString(fmt.Sprintf("**Songs**: %d\n", len(export.Songs)))
	buf.WriteString(fmt.Sprintf("**Total time**: %s\n\n", shared.FormatDuration(totalSeconds(export.Songs))))

	buf.WriteString("## Songs\n\n")
	for i, song := range export.Songs {
		duration := shared.FormatDuration(song.Duration)
		keyPart := ""
		if song.Key != "" {
			keyPart = fmt.Sprintf(" (%s)", song.Key)
		}
		buf.WriteString(fmt.Sprintf("%d. %s - %s%s [%s]\n", i+1, song.Artist, song.Title, keyPart, duration))
	}

	return buf.Bytes(), nil
}

// ExportToText converts a SetlistExport to plain text format
func ExportToText(export *SetlistExport) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Setlist: %s\n", export.Setlist.Name))
	if export.Setlist.Venue != "" {
		buf.WriteString(fmt.Sprintf("Venue: %s\n", export.Setlist.Venue))
	}
	buf.WriteString(fmt.Sprintf("Songs: %d\n\n", len(export.Songs)))

	for i, song := range export.Songs {
		buf.WriteString(fmt.Sprintf("%d. %s - %s\n", i+1, song.Artist, song.Title))
	}

	return buf.Bytes(), nil
}

// DownloadImage downloads an image from the given URL and returns the raw bytes
func DownloadImage(url string) ([]byte, error) {
	if url == "" {
		return nil, fmt.Errorf("empty URL provided")
	}

	client := &http.Client{
		Timeout: 30 * time.Second,
	}

	resp, err := client.Get(url)
	if err != nil {
		return nil, fmt.Errorf("failed to download image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to download image: status %d", resp.StatusCode)
	}

	imageData, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read image data: %w", err)
	}

	return imageData, nil
}

// ToMetadataJSON generates a JSON representation of setlist metadata (without resolved songs)
func ToMetadataJSON(setlist models.Setlist) ([]byte, error) {
	return json.MarshalIndent(setlist, "", "  ")
}

// CSVExportResult contains the paths of files created by WriteCSVExport
type CSVExportResult struct {
	SongsFile    string
	MetadataFile string
}

// WriteCSVExport exports a setlist to CSV format with accompanying metadata JSON file.
//
// Defaults to setlist ID as the base filename & creates {base}_songs.csv and {base}_metadata.json
func WriteCSVExport(export *SetlistExport, baseFilepath string) (*CSVExportResult, error) {
	if baseFilepath == "" {
		baseFilepath = export.Setlist.ID
	}

	csvData, err := ExportToCSV(export)
	if err != nil {
		return nil, fmt.Errorf("failed to generate CSV: %w", err)
	}

	songsFile := baseFilepath + "_songs.csv"
	if err := os.WriteFile(songsFile, csvData, 0644); err != nil {
		return nil, fmt.Errorf("failed to write CSV file: %w", err)
	}

	metadataJSON, err := ToMetadataJSON(export.Setlist)
	if err != nil {
		return nil, fmt.Errorf("failed to generate metadata JSON: %w", err)
	}

	metadataFile := baseFilepath + "_metadata.json"
	if err := os.WriteFile(metadataFile, metadataJSON, 0644); err != nil {
		return nil, fmt.Errorf("failed to write metadata file: %w", err)
	}

	return &CSVExportResult{
		SongsFile:    songsFile,
		MetadataFile: metadataFile,
	}, nil
}

// MarkdownExportResult contains information about files created by WriteMarkdownExport
type MarkdownExportResult struct {
	Directory  string
	Files      []string
	CoverImage string
}

// WriteMarkdownExport exports a setlist to Markdown format in a dedicated directory.
//
// Directory name defaults to the setlist ID.
// The imageURL parameter is optional - if provided, attempts to download the cover image.
// Creates a directory structure: {dir}/README.md and optionally {dir}/cover.jpg
func WriteMarkdownExport(export *SetlistExport, outputDir string, imageURL string) (*MarkdownExportResult, error) {
	if outputDir == "" {
		outputDir = export.Setlist.ID
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	result := &MarkdownExportResult{
		Directory: outputDir,
		Files:     []string{},
	}

	var coverImageFilename string
	if imageURL != "" {
		imageData, err := DownloadImage(imageURL)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to download cover image: %v\n", err)
		} else {
			coverImageFilename = "cover.jpg"
			coverImagePath := fmt.Sprintf("%s/%s", outputDir, coverImageFilename)
			if err := os.WriteFile(coverImagePath, imageData, 0644); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: failed to save cover image: %v\n", err)
				coverImageFilename = ""
			} else {
				result.CoverImage = coverImagePath
				result.Files = append(result.Files, coverImagePath)
			}
		}
	}

	mdData, err := ExportToMarkdown(export, coverImageFilename)
	if err != nil {
		return nil, fmt.Errorf("failed to generate Markdown: %w", err)
	}

	mdFile := fmt.Sprintf("%s/README.md", outputDir)
	if err := os.WriteFile(mdFile, mdData, 0644); err != nil {
		return nil, fmt.Errorf("failed to write Markdown file: %w", err)
	}

	result.Files = append(result.Files, mdFile)

	return result, nil
}

// WriteTextExport exports a setlist to plain text format.
//
// Defaults to {setlist.ID}_songs.txt as the filename.
func WriteTextExport(export *SetlistExport, filepath string) (string, error) {
	if filepath == "" {
		filepath = fmt.Sprintf("%s_songs.txt", export.Setlist.ID)
	}

	textData, err := ExportToText(export)
	if err != nil {
		return "", fmt.Errorf("failed to generate text: %w", err)
	}

	if err := os.WriteFile(filepath, textData, 0644); err != nil {
		return "", fmt.Errorf("failed to write text file: %w", err)
	}

	return filepath, nil
}

// ManifestEntry summarizes one setlist within a bulk export manifest.
type ManifestEntry struct {
	SetlistID   string   `json:"setlistId"`
	SetlistName string   `json:"setlistName"`
	Success     bool     `json:"success"`
	Files       []string `json:"files,omitempty"`
	Error       string   `json:"error,omitempty"`
}

// Manifest summarizes a bulk setlist export.
type Manifest struct {
	GeneratedAt string          `json:"generatedAt"`
	Format      string          `json:"format"`
	Total       int             `json:"total"`
	Succeeded   int             `json:"succeeded"`
	Failed      int             `json:"failed"`
	Entries     []ManifestEntry `json:"entries"`
}

// WriteBulkExportManifest writes the manifest JSON file for a bulk export.
func WriteBulkExportManifest(manifest *Manifest, path string) error {
	data, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal manifest: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}

	return nil
}

func totalSeconds(songs []models.Song) int {
	total := 0
	for _, song := range songs {
		total += song.Duration
	}
	return total
}

func formatEventDate(millis int64) string {
	return time.UnixMilli(millis).UTC().Format("2006-01-02")
}
