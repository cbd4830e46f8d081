package tasks

import (
	"fmt"

	"github.com/desertthunder/setmaster/internal/models"
)

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	ResolveSetlist Phase = iota
	ExportSetlist
	UploadAssets
	PublishShare
	AnnounceShare
)

func (p Phase) String() string {
	switch p {
	case ResolveSetlist:
		return "resolve_setlist"
	case ExportSetlist:
		return "export_setlist"
	case UploadAssets:
		return "upload_assets"
	case PublishShare:
		return "publish_share"
	case AnnounceShare:
		return "announce_share"
	default:
		return ""
	}
}

func resolvingUpdate(step, total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ResolveSetlist,
		Step:    step,
		Total:   total,
		Message: "Resolving setlists...",
	}
}

func exportingSetlistUpdate(step, total int, name string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ExportSetlist,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Exporting: %s...", step, total, name),
	}
}

func exportCompletedUpdate(step, total int, name string, filesCount int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ExportSetlist,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✓ %s (%d files)", step, total, name, filesCount),
	}
}

func exportFailedUpdate(step, total int, name string, err error) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ExportSetlist,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✗ %s: %v", step, total, name, err),
	}
}

func uploadingAssetUpdate(step, total int, song *models.Song) ProgressUpdate {
	if song == nil {
		return ProgressUpdate{
			Phase:   UploadAssets,
			Step:    step,
			Total:   total,
			Message: "Uploading audio assets...",
		}
	}
	return ProgressUpdate{
		Phase:   UploadAssets,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] %s - %s", step, total, song.Artist, song.Title),
	}
}

func publishingUpdate(name string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   PublishShare,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Publishing %s to band...", name),
	}
}

func announcedUpdate(setlist *models.SharedSetlist) ProgressUpdate {
	return ProgressUpdate{
		Phase:   AnnounceShare,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Shared setlist announced: %s (ID: %s)", setlist.Name, setlist.ID),
		Data:    setlist,
	}
}
