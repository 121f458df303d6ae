package formatter

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/desertthunder/chdm3u/internal/models"
	"github.com/desertthunder/chdm3u/internal/shared"
)

// Format names a report rendering.
type Format string

const (
	FormatText     Format = "text"
	FormatJSON     Format = "json"
	FormatMarkdown Format = "markdown"
)

// ParseFormat validates a --report value.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatText, FormatJSON, FormatMarkdown:
		return f, nil
	case "md":
		return FormatMarkdown, nil
	case "":
		return FormatText, nil
	default:
		return "", fmt.Errorf("%w: unknown report format %q (want text, json or markdown)", shared.ErrInvalidFlag, s)
	}
}

// Report renders result in the given format.
func Report(result *models.RunResult, f Format) ([]byte, error) {
	switch f {
	case FormatJSON:
		return ReportJSON(result)
	case FormatMarkdown:
		return ReportMarkdown(result), nil
	default:
		return ReportText(result), nil
	}
}

// ReportText renders the console summary of a run.
func ReportText(result *models.RunResult) []byte {
	var buf bytes.Buffer

	if result.NoMatches {
		buf.WriteString("No multi-disc files found\n")
		return buf.Bytes()
	}

	for _, pl := range result.Playlists {
		for _, e := range entriesFor(result, pl.SeriesKey) {
			switch e.Status {
			case models.StatusRenamed:
				fmt.Fprintf(&buf, "Renamed: %s -> %s\n", e.OriginalName, e.NewName)
			case models.StatusPlanned:
				fmt.Fprintf(&buf, "Would rename: %s -> %s\n", e.OriginalName, e.NewName)
			case models.StatusFailed:
				fmt.Fprintf(&buf, "Error renaming %s: %v\n", e.OriginalName, e.Err)
			}
		}

		switch {
		case pl.Err != nil:
			fmt.Fprintf(&buf, "Error writing playlist %s: %v\n", pl.Path, pl.Err)
		case result.DryRun:
			fmt.Fprintf(&buf, "Would create playlist: %s with %d disc(s) for '%s'\n", pl.Path, len(pl.Entries), pl.SeriesKey)
		default:
			fmt.Fprintf(&buf, "Created playlist: %s with %d disc(s) for '%s'\n", pl.Path, len(pl.Entries), pl.SeriesKey)
		}
	}
	buf.WriteByte('\n')

	if result.DryRun {
		fmt.Fprintf(&buf, "Total: Would create %d playlist(s)\n", len(result.Playlists))
	} else {
		fmt.Fprintf(&buf, "Total: Created %d playlist(s)\n", result.Created)
	}
	return buf.Bytes()
}

type jsonEntry struct {
	Series       string `json:"series"`
	Disc         int    `json:"disc"`
	OriginalName string `json:"original_name"`
	NewName      string `json:"new_name"`
	Status       string `json:"status"`
	Error        string `json:"error,omitempty"`
}

type jsonPlaylist struct {
	Series  string   `json:"series"`
	Path    string   `json:"path"`
	Entries []string `json:"entries"`
	Error   string   `json:"error,omitempty"`
}

type jsonReport struct {
	RunID     string         `json:"run_id,omitempty"`
	Directory string         `json:"directory"`
	DryRun    bool           `json:"dry_run"`
	NoMatches bool           `json:"no_matches"`
	Renamed   int            `json:"renamed"`
	Skipped   int            `json:"skipped"`
	Failed    int            `json:"failed"`
	Created   int            `json:"playlists_created"`
	Entries   []jsonEntry    `json:"entries"`
	Playlists []jsonPlaylist `json:"playlists"`
}

// ReportJSON renders result as indented JSON.
func ReportJSON(result *models.RunResult) ([]byte, error) {
	report := jsonReport{
		RunID:     result.RunID,
		Directory: result.Directory,
		DryRun:    result.DryRun,
		NoMatches: result.NoMatches,
		Renamed:   result.Renamed,
		Skipped:   result.Skipped,
		Failed:    result.Failed,
		Created:   result.Created,
		Entries:   make([]jsonEntry, 0, len(result.Entries)),
		Playlists: make([]jsonPlaylist, 0, len(result.Playlists)),
	}

	for _, e := range result.Entries {
		report.Entries = append(report.Entries, jsonEntry{
			Series:       e.SeriesKey,
			Disc:         e.DiscIndex,
			OriginalName: e.OriginalName,
			NewName:      e.NewName,
			Status:       string(e.Status),
			Error:        errString(e.Err),
		})
	}

	for _, pl := range result.Playlists {
		report.Playlists = append(report.Playlists, jsonPlaylist{
			Series:  pl.SeriesKey,
			Path:    pl.Path,
			Entries: pl.Entries,
			Error:   errString(pl.Err),
		})
	}

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal report: %w", err)
	}
	return append(data, '\n'), nil
}

// ReportMarkdown renders result as a Markdown document with one section per series.
func ReportMarkdown(result *models.RunResult) []byte {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "# %s\n\n", result.Directory)

	if result.NoMatches {
		buf.WriteString("No multi-disc files found.\n")
		return buf.Bytes()
	}

	fmt.Fprintf(&buf, "**Playlists**: %d\n", result.Created)
	fmt.Fprintf(&buf, "**Renamed**: %d\n", result.Renamed)
	fmt.Fprintf(&buf, "**Skipped**: %d\n", result.Skipped)
	fmt.Fprintf(&buf, "**Failed**: %d\n", result.Failed)

	for _, pl := range result.Playlists {
		fmt.Fprintf(&buf, "\n## %s\n\n", pl.SeriesKey)
		if pl.Err != nil {
			fmt.Fprintf(&buf, "> playlist not written: %v\n\n", pl.Err)
		}
		for _, e := range entriesFor(result, pl.SeriesKey) {
			fmt.Fprintf(&buf, "- Disc %d: `%s` (%s)\n", e.DiscIndex, e.NewName, e.Status)
		}
	}

	return buf.Bytes()
}

func entriesFor(result *models.RunResult, seriesKey string) []models.RenamedEntry {
	var out []models.RenamedEntry
	for _, e := range result.Entries {
		if e.SeriesKey == seriesKey {
			out = append(out, e)
		}
	}
	return out
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
