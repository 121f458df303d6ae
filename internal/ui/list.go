package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/chdm3u/internal/models"
)

var _ list.Item = seriesItem{}

// seriesItem wraps [models.SeriesGroup] and its planned playlist to implement [list.Item].
type seriesItem struct {
	group    models.SeriesGroup
	playlist string
}

func (i seriesItem) FilterValue() string { return i.group.SeriesKey }
func (i seriesItem) Title() string       { return i.group.SeriesKey }
func (i seriesItem) Description() string {
	discs := make([]string, len(i.group.Discs))
	for n, d := range i.group.Discs {
		discs[n] = fmt.Sprintf("%d", d.DiscIndex)
	}
	return fmt.Sprintf("%d disc(s) [%s] • %s", len(i.group.Discs), strings.Join(discs, ", "), i.playlist)
}

// seriesItems builds list items for every group in a planned run
func seriesItems(plan *models.RunResult) []list.Item {
	playlistOf := make(map[string]string, len(plan.Playlists))
	for _, pl := range plan.Playlists {
		playlistOf[pl.SeriesKey] = pl.Name
	}

	items := make([]list.Item, len(plan.Groups))
	for i, g := range plan.Groups {
		items[i] = seriesItem{group: g, playlist: playlistOf[g.SeriesKey]}
	}
	return items
}
