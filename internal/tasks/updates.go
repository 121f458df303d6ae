package tasks

import (
	"fmt"

	"github.com/desertthunder/chdm3u/internal/models"
)

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
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
	Scan Phase = iota
	Group
	Rename
	WritePlaylist
	Record
	Restore
	Done
)

func (p Phase) String() string {
	switch p {
	case Scan:
		return "scan"
	case Group:
		return "group"
	case Rename:
		return "rename"
	case WritePlaylist:
		return "write_playlist"
	case Record:
		return "record"
	case Restore:
		return "restore"
	case Done:
		return "done"
	default:
		return ""
	}
}

func scanUpdate(dir string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Scan,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Processing files in: %s", dir),
	}
}

func groupUpdate(files, series int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Group,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Found %d multi-disc series among %d file(s)", series, files),
	}
}

func renameUpdate(step, total int, entry models.RenamedEntry) ProgressUpdate {
	var msg string
	switch entry.Status {
	case models.StatusRenamed:
		msg = fmt.Sprintf("[%d/%d] Renamed: %s -> %s", step, total, entry.OriginalName, entry.NewName)
	case models.StatusSkipped:
		msg = fmt.Sprintf("[%d/%d] Already renamed: %s", step, total, entry.NewName)
	default:
		msg = fmt.Sprintf("[%d/%d] ✗ %s: %v", step, total, entry.OriginalName, entry.Err)
	}
	return ProgressUpdate{
		Phase:   Rename,
		Step:    step,
		Total:   total,
		Message: msg,
		Data:    entry,
	}
}

func playlistUpdate(step, total int, pl models.PlaylistFile) ProgressUpdate {
	msg := fmt.Sprintf("[%d/%d] ✓ %s (%d disc(s))", step, total, pl.Name, len(pl.Entries))
	if pl.Err != nil {
		msg = fmt.Sprintf("[%d/%d] ✗ %s: %v", step, total, pl.Name, pl.Err)
	}
	return ProgressUpdate{
		Phase:   WritePlaylist,
		Step:    step,
		Total:   total,
		Message: msg,
		Data:    pl,
	}
}

func journalUpdate() ProgressUpdate {
	return ProgressUpdate{
		Phase:   Record,
		Step:    1,
		Total:   1,
		Message: "Recording run in journal...",
	}
}

func restoreUpdate(step, total int, entry models.RunEntry) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Restore,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Restoring: %s -> %s", step, total, entry.NewName, entry.OriginalName),
	}
}

func doneUpdate(result *models.RunResult) ProgressUpdate {
	msg := fmt.Sprintf("Total: Created %d playlist(s)", result.Created)
	if result.NoMatches {
		msg = "No multi-disc files found"
	}
	return ProgressUpdate{
		Phase:   Done,
		Step:    1,
		Total:   1,
		Message: msg,
		Data:    result,
	}
}
