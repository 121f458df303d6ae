package tasks

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/chdm3u/internal/discset"
	"github.com/desertthunder/chdm3u/internal/formatter"
	"github.com/desertthunder/chdm3u/internal/models"
	"github.com/desertthunder/chdm3u/internal/shared"
)

const DefaultPlaylistExtension = ".m3u"

// Journal persists runs so they can be listed and reverted.
type Journal interface {
	Record(result *models.RunResult) (string, error) // Record stores result and returns the run ID
	Latest() (*models.Run, error)                    // Latest returns the most recent run with its entries
	Get(id string) (*models.Run, error)              // Get returns a run with its entries
	MarkUndone(id string) error                      // MarkUndone flags a run as reverted
}

// Options configures an [Organizer]. Zero values fall back to defaults.
type Options struct {
	Prefix            string
	Extension         string
	PlaylistExtension string
	Journal           Journal
	Logger            *log.Logger
}

// Organizer groups disc images into playlists.
type Organizer struct {
	matcher     *discset.Matcher
	playlistExt string
	journal     Journal
	logger      *log.Logger

	// rename is swapped in tests to simulate failures.
	rename func(src, dst string) error
}

// NewOrganizer creates an Organizer from opts.
func NewOrganizer(opts Options) *Organizer {
	if opts.PlaylistExtension == "" {
		opts.PlaylistExtension = DefaultPlaylistExtension
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}

	return &Organizer{
		matcher:     discset.NewMatcher(opts.Prefix, opts.Extension),
		playlistExt: opts.PlaylistExtension,
		journal:     opts.Journal,
		logger:      opts.Logger,
		rename:      os.Rename,
	}
}

// SetLogger replaces the logger used for diagnostics.
func (o *Organizer) SetLogger(l *log.Logger) {
	o.logger = l
}

// SetJournal replaces the run journal; nil disables journaling.
func (o *Organizer) SetJournal(j Journal) {
	o.journal = j
}

// Matcher returns the filename matcher used by the organizer.
func (o *Organizer) Matcher() *discset.Matcher {
	return o.matcher
}

// sendProgress sends a progress update through the channel without blocking.
func (o *Organizer) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

// Plan scans dir and returns the renames and playlists a run would produce, without touching the filesystem.
//
// Entries whose prefixed name already exists are reported as skipped; all others as planned.
func (o *Organizer) Plan(dir string) (*models.RunResult, error) {
	result, err := o.scan(dir, nil)
	if err != nil {
		return nil, err
	}
	result.DryRun = true

	for _, group := range result.Groups {
		pl := o.playlistFor(dir, group)
		for _, disc := range group.Discs {
			entry := o.entryFor(group.SeriesKey, disc)
			if o.exists(dir, entry.NewName) {
				entry.Status = models.StatusSkipped
				result.Skipped++
			} else {
				entry.Status = models.StatusPlanned
			}
			result.Entries = append(result.Entries, entry)
		}
		result.Playlists = append(result.Playlists, pl)
	}

	return result, nil
}

// Run processes dir: every disc image of a multi-disc series is prefixed and one playlist per series is written.
//
// The returned error is non-nil only for directory-level failures (wrapping [shared.ErrInvalidDirectory]
// or [shared.ErrDirectoryRead]) and for context cancellation, in which case the partial result is returned too.
// Cancellation is observed between series groups, so a group whose discs were renamed always gets its playlist.
func (o *Organizer) Run(ctx context.Context, dir string, progress chan<- ProgressUpdate) (*models.RunResult, error) {
	logger := shared.WithLogger(o.logger, "dir", dir)

	result, err := o.scan(dir, progress)
	if err != nil {
		return nil, err
	}

	if result.NoMatches {
		logger.Info("no multi-disc files found")
		o.sendProgress(progress, doneUpdate(result))
		return result, nil
	}

	total := 0
	for _, g := range result.Groups {
		total += len(g.Discs)
	}

	step := 0
	for gi, group := range result.Groups {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		glog := shared.WithLogger(logger, "series", group.SeriesKey)
		pl := o.playlistFor(dir, group)

		for _, disc := range group.Discs {
			step++
			entry := o.entryFor(group.SeriesKey, disc)
			o.apply(dir, &entry, glog)

			switch entry.Status {
			case models.StatusRenamed:
				result.Renamed++
			case models.StatusSkipped:
				result.Skipped++
			case models.StatusFailed:
				result.Failed++
			}

			result.Entries = append(result.Entries, entry)
			o.sendProgress(progress, renameUpdate(step, total, entry))
		}

		path, err := formatter.WritePlaylist(dir, pl.Name, pl.Entries)
		pl.Path = path
		if err != nil {
			pl.Err = fmt.Errorf("%w: %v", shared.ErrPlaylistWrite, err)
			glog.Error("failed to write playlist", "playlist", pl.Name, "error", err)
		} else {
			result.Created++
			glog.Info("created playlist", "playlist", pl.Name, "discs", len(pl.Entries))
		}
		result.Playlists = append(result.Playlists, pl)
		o.sendProgress(progress, playlistUpdate(gi+1, len(result.Groups), pl))
	}

	if o.journal != nil {
		o.sendProgress(progress, journalUpdate())
		id, err := o.journal.Record(result)
		if err != nil {
			logger.Error("failed to record run in journal", "error", err)
		} else {
			result.RunID = id
			logger.Debug("recorded run", "run_id", id)
		}
	}

	logger.Info("run complete", "playlists", result.Created, "renamed", result.Renamed, "skipped", result.Skipped, "failed", result.Failed)
	o.sendProgress(progress, doneUpdate(result))
	return result, nil
}

// scan lists dir and groups its disc images.
func (o *Organizer) scan(dir string, progress chan<- ProgressUpdate) (*models.RunResult, error) {
	if err := discset.CheckDirectory(dir); err != nil {
		return nil, err
	}

	o.sendProgress(progress, scanUpdate(dir))

	names, err := discset.ListFiles(dir)
	if err != nil {
		return nil, err
	}

	groups := discset.Group(o.matcher.MatchAll(names))
	o.sendProgress(progress, groupUpdate(len(names), len(groups)))

	return &models.RunResult{
		Directory: dir,
		Groups:    groups,
		NoMatches: len(groups) == 0,
	}, nil
}

// apply renames a single disc image unless its prefixed name is already taken.
func (o *Organizer) apply(dir string, entry *models.RenamedEntry, logger *log.Logger) {
	if o.exists(dir, entry.NewName) {
		entry.Status = models.StatusSkipped
		logger.Debug("already renamed", "file", entry.NewName)
		return
	}

	src := filepath.Join(dir, entry.OriginalName)
	dst := filepath.Join(dir, entry.NewName)
	if err := o.rename(src, dst); err != nil {
		entry.Status = models.StatusFailed
		entry.Err = fmt.Errorf("%w: %v", shared.ErrRename, err)
		logger.Error("failed to rename", "file", entry.OriginalName, "error", err)
		return
	}

	entry.Status = models.StatusRenamed
	logger.Info("renamed", "from", entry.OriginalName, "to", entry.NewName)
}

func (o *Organizer) entryFor(seriesKey string, disc models.DiscMatch) models.RenamedEntry {
	return models.RenamedEntry{
		SeriesKey:    seriesKey,
		DiscIndex:    disc.DiscIndex,
		OriginalName: disc.OriginalName,
		NewName:      o.matcher.NewName(disc.OriginalName),
	}
}

// playlistFor lists the prefixed names of group in disc order, whatever the rename outcome.
func (o *Organizer) playlistFor(dir string, group models.SeriesGroup) models.PlaylistFile {
	name := formatter.PlaylistName(group.SeriesKey, o.playlistExt)
	entries := make([]string, 0, len(group.Discs))
	for _, disc := range group.Discs {
		entries = append(entries, o.matcher.NewName(disc.OriginalName))
	}
	return models.PlaylistFile{
		SeriesKey: group.SeriesKey,
		Name:      name,
		Path:      filepath.Join(dir, name),
		Entries:   entries,
	}
}

func (o *Organizer) exists(dir, name string) bool {
	_, err := os.Lstat(filepath.Join(dir, name))
	return err == nil
}
