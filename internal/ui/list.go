package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/sofar/internal/insights"
	"github.com/desertthunder/sofar/internal/models"
)

var (
	_ list.Item = artistItem{}
	_ list.Item = trackItem{}
)

// artistItem wraps [models.ArtistSummary] to implement [list.Item].
type artistItem struct {
	rank   int
	artist models.ArtistSummary
}

func (i artistItem) FilterValue() string { return i.artist.Name }
func (i artistItem) Title() string       { return fmt.Sprintf("#%d %s", i.rank, i.artist.Name) }
func (i artistItem) Description() string {
	desc := fmt.Sprintf("Popularity: %d%%", i.artist.Popularity)
	if len(i.artist.Genres) > 0 {
		genres := strings.Join(i.artist.Genres[:min(len(i.artist.Genres), 2)], ", ")
		desc = fmt.Sprintf("%s • %s", genres, desc)
	}
	return desc
}

// trackItem wraps [models.TrackSummary] to implement [list.Item].
type trackItem struct {
	rank  int
	track models.TrackSummary
}

func (i trackItem) FilterValue() string { return i.track.Name }
func (i trackItem) Title() string       { return fmt.Sprintf("#%d %s", i.rank, i.track.Name) }
func (i trackItem) Description() string {
	desc := i.track.ArtistNames()
	if i.track.Album.Name != "" {
		desc = fmt.Sprintf("%s • %s", desc, i.track.Album.Name)
	}
	return fmt.Sprintf("%s • %s", desc, insights.FormatDuration(i.track.DurationMS))
}

func artistItems(artists []models.ArtistSummary) []list.Item {
	items := make([]list.Item, len(artists))
	for i, a := range artists {
		items[i] = artistItem{rank: i + 1, artist: a}
	}
	return items
}

func trackItems(tracks []models.TrackSummary) []list.Item {
	items := make([]list.Item, len(tracks))
	for i, t := range tracks {
		items[i] = trackItem{rank: i + 1, track: t}
	}
	return items
}
