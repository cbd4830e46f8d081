package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/desertthunder/setmaster/internal/formatter"
	"golang.org/x/time/rate"
)

// BulkExportOpts contains configuration for bulk setlist exports.
type BulkExportOpts struct {
	Format     string  // Export format: json, csv, markdown, txt
	OutputDir  string  // Base output directory (default: setlist_export_{epoch})
	NumWorkers int     // Concurrent workers (default: 5)
	RateLimit  float64 // Setlist resolutions per second (default: 5)
}

// SetlistExportJob carries one resolved setlist to a worker.
type SetlistExportJob struct {
	SetlistID string
	Export    *formatter.SetlistExport
}

// SetlistExportResult records the outcome of exporting one setlist.
type SetlistExportResult struct {
	SetlistID   string
	SetlistName string
	Success     bool
	Files       []string
	Error       error
}

// BulkExportResult aggregates the outcome of a bulk export run.
type BulkExportResult struct {
	TotalSetlists     int
	SuccessfulExports int
	FailedExports     int
	OutputDirectory   string
	ManifestPath      string
	Results           []SetlistExportResult
}

// BulkExport exports a user's setlists concurrently with rate limiting and progress tracking.
//
// Pass an empty ids slice to export every setlist the user owns. Partial
// failures are recorded per setlist and never abort the run; a manifest
// file summarizing the outcome is written last.
func (e *ExportEngine) BulkExport(
	ctx context.Context,
	prog chan<- ProgressUpdate,
	userID string,
	ids []string,
	opts BulkExportOpts,
) (*BulkExportResult, error) {
	if opts.OutputDir == "" {
		opts.OutputDir = fmt.Sprintf("setlist_export_%d", time.Now().Unix())
	}
	if opts.NumWorkers <= 0 {
		opts.NumWorkers = 5
	}
	if opts.NumWorkers > 10 {
		opts.NumWorkers = 10
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = 5.0
	}

	if len(ids) == 0 {
		all, err := e.setlists.All(userID)
		if err != nil {
			return nil, fmt.Errorf("failed to list setlists: %w", err)
		}
		for _, setlist := range all {
			ids = append(ids, setlist.ID)
		}
	}

	if err := os.MkdirAll(opts.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	result := &BulkExportResult{
		TotalSetlists:   len(ids),
		OutputDirectory: opts.OutputDir,
		Results:         make([]SetlistExportResult, 0, len(ids)),
	}

	limiter := rate.NewLimiter(rate.Limit(opts.RateLimit), 1)

	jobs := make(chan SetlistExportJob, len(ids))
	results := make(chan SetlistExportResult, len(ids))

	var wg sync.WaitGroup
	for i := 0; i < opts.NumWorkers; i++ {
		wg.Add(1)
		go e.exportWorker(ctx, &wg, jobs, results, opts)
	}

	go func() {
		e.sendProgress(prog, resolvingUpdate(1, len(ids)))
		for i, setlistID := range ids {
			select {
			case <-ctx.Done():
				close(jobs)
				return
			default:
			}

			if err := limiter.Wait(ctx); err != nil {
				close(jobs)
				return
			}

			export, err := e.resolve(setlistID, userID)
			if err != nil {
				results <- SetlistExportResult{
					SetlistID:   setlistID,
					SetlistName: fmt.Sprintf("Unknown (%s)", setlistID),
					Success:     false,
					Error:       err,
				}
				continue
			}

			jobs <- SetlistExportJob{
				SetlistID: setlistID,
				Export:    export,
			}

			e.sendProgress(prog, exportingSetlistUpdate(i+1, len(ids), export.Setlist.Name))
		}
		close(jobs)
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	completed := 0
	for res := range results {
		completed++
		result.Results = append(result.Results, res)

		if res.Success {
			result.SuccessfulExports++
			e.sendProgress(prog, exportCompletedUpdate(
				completed,
				len(ids),
				res.SetlistName,
				len(res.Files),
			))
		} else {
			result.FailedExports++
			e.sendProgress(prog, exportFailedUpdate(
				completed,
				len(ids),
				res.SetlistName,
				res.Error,
			))
		}
	}

	manifestPath := filepath.Join(opts.OutputDir, "export_manifest.json")
	if err := formatter.WriteBulkExportManifest(result.manifest(opts.Format), manifestPath); err != nil {
		return result, fmt.Errorf("export completed but failed to write manifest: %w", err)
	}
	result.ManifestPath = manifestPath
	return result, nil
}

func (r *BulkExportResult) manifest(format string) *formatter.Manifest {
	manifest := &formatter.Manifest{
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
		Format:      format,
		Total:       r.TotalSetlists,
		Succeeded:   r.SuccessfulExports,
		Failed:      r.FailedExports,
		Entries:     make([]formatter.ManifestEntry, 0, len(r.Results)),
	}

	for _, res := range r.Results {
		entry := formatter.ManifestEntry{
			SetlistID:   res.SetlistID,
			SetlistName: res.SetlistName,
			Success:     res.Success,
			Files:       res.Files,
		}
		if res.Error != nil {
			entry.Error = res.Error.Error()
		}
		manifest.Entries = append(manifest.Entries, entry)
	}

	return manifest
}

// exportWorker is a worker goroutine that exports setlists from the jobs channel.
func (e *ExportEngine) exportWorker(
	ctx context.Context,
	wg *sync.WaitGroup,
	jobs <-chan SetlistExportJob,
	results chan<- SetlistExportResult,
	opts BulkExportOpts,
) {
	defer wg.Done()

	for job := range jobs {
		select {
		case <-ctx.Done():
			return
		default:
		}

		res := e.exportSingleSetlist(job, opts)
		results <- res
	}
}

// exportSingleSetlist exports a single setlist to the appropriate format.
func (e *ExportEngine) exportSingleSetlist(
	j SetlistExportJob,
	opts BulkExportOpts,
) SetlistExportResult {
	result := SetlistExportResult{
		SetlistID:   j.SetlistID,
		SetlistName: j.Export.Setlist.Name,
		Success:     false,
		Files:       []string{},
	}

	switch opts.Format {
	case "csv":
		baseFilepath := filepath.Join(opts.OutputDir, j.Export.Setlist.ID)
		csvRes, err := formatter.WriteCSVExport(j.Export, baseFilepath)
		if err != nil {
			result.Error = fmt.Errorf("CSV export failed: %w", err)
			return result
		}
		result.Files = []string{csvRes.SongsFile, csvRes.MetadataFile}
		result.Success = true

	case "markdown":
		outputDir := filepath.Join(opts.OutputDir, j.Export.Setlist.ID)

		mdRes, err := formatter.WriteMarkdownExport(j.Export, outputDir, "")
		if err != nil {
			result.Error = fmt.Errorf("markdown export failed: %w", err)
			return result
		}
		result.Files = mdRes.Files
		result.Success = true

	case "txt":
		txtPath := filepath.Join(opts.OutputDir, fmt.Sprintf("%s_songs.txt", j.Export.Setlist.ID))
		filepath, err := formatter.WriteTextExport(j.Export, txtPath)
		if err != nil {
			result.Error = fmt.Errorf("text export failed: %w", err)
			return result
		}
		result.Files = []string{filepath}
		result.Success = true
	case "json":
		fallthrough
	default:
		jsonPath := filepath.Join(opts.OutputDir, fmt.Sprintf("%s.json", j.Export.Setlist.ID))
		data, err := json.MarshalIndent(j.Export, "", "  ")
		if err != nil {
			result.Error = fmt.Errorf("JSON marshal failed: %w", err)
			return result
		}
		if err := os.WriteFile(jsonPath, data, 0644); err != nil {
			result.Error = fmt.Errorf("JSON write failed: %w", err)
			return result
		}
		result.Files = []string{jsonPath}
		result.Success = true
	}
	return result
}
