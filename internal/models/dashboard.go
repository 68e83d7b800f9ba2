package models

import (
	"encoding/json"
	"slices"
	"time"
)

// DashboardParts collects the results of one load before they are frozen into a [DashboardViewModel].
type DashboardParts struct {
	LoadID      string
	LoadedAt    time.Time
	Profile     UserProfile
	TopArtists  []ArtistSummary
	TopTracks   []TrackSummary
	Stats       Optional[ListeningStats]
	Personality Optional[[]PersonalityProfile]
}

// DashboardViewModel is the merged, read-only result of a dashboard load.
//
// Accessors hand out copies of the lists and maps so a view-model can be shared between renderers.
type DashboardViewModel struct {
	parts DashboardParts
}

// NewDashboard freezes the given parts into a view-model.
func NewDashboard(p DashboardParts) *DashboardViewModel {
	p.TopArtists = slices.Clone(p.TopArtists)
	p.TopTracks = slices.Clone(p.TopTracks)
	if v, ok := p.Stats.Get(); ok {
		p.Stats = Present(v.Clone())
	}
	if v, ok := p.Personality.Get(); ok {
		p.Personality = Present(slices.Clone(v))
	}
	return &DashboardViewModel{parts: p}
}

func (d *DashboardViewModel) LoadID() string              { return d.parts.LoadID }
func (d *DashboardViewModel) LoadedAt() time.Time         { return d.parts.LoadedAt }
func (d *DashboardViewModel) Profile() UserProfile        { return d.parts.Profile }
func (d *DashboardViewModel) TopArtists() []ArtistSummary { return slices.Clone(d.parts.TopArtists) }
func (d *DashboardViewModel) TopTracks() []TrackSummary   { return slices.Clone(d.parts.TopTracks) }

// Stats returns a copy of the listening stats, which may be unavailable.
func (d *DashboardViewModel) Stats() Optional[ListeningStats] {
	if v, ok := d.parts.Stats.Get(); ok {
		return Present(v.Clone())
	}
	return d.parts.Stats
}

// Personality returns the breakdown with a copied slice.
func (d *DashboardViewModel) Personality() Optional[[]PersonalityProfile] {
	if v, ok := d.parts.Personality.Get(); ok {
		return Present(slices.Clone(v))
	}
	return d.parts.Personality
}

// StatsAvailable reports whether listening stats were loaded.
func (d *DashboardViewModel) StatsAvailable() bool { return d.parts.Stats.Ok() }

// PersonalityAvailable reports whether the personality breakdown was loaded.
func (d *DashboardViewModel) PersonalityAvailable() bool { return d.parts.Personality.Ok() }

type dashboardJSON struct {
	LoadID               string                         `json:"load_id"`
	LoadedAt             time.Time                      `json:"loaded_at"`
	Profile              UserProfile                    `json:"profile"`
	TopArtists           []ArtistSummary                `json:"top_artists"`
	TopTracks            []TrackSummary                 `json:"top_tracks"`
	Stats                Optional[ListeningStats]       `json:"stats"`
	StatsAvailable       bool                           `json:"stats_available"`
	Personality          Optional[[]PersonalityProfile] `json:"personality"`
	PersonalityAvailable bool                           `json:"personality_available"`
}

// MarshalJSON encodes the view-model with explicit availability flags.
func (d *DashboardViewModel) MarshalJSON() ([]byte, error) {
	return json.Marshal(dashboardJSON{
		LoadID:               d.parts.LoadID,
		LoadedAt:             d.parts.LoadedAt,
		Profile:              d.parts.Profile,
		TopArtists:           d.parts.TopArtists,
		TopTracks:            d.parts.TopTracks,
		Stats:                d.parts.Stats,
		StatsAvailable:       d.StatsAvailable(),
		Personality:          d.parts.Personality,
		PersonalityAvailable: d.PersonalityAvailable(),
	})
}
