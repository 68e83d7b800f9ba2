package models

import (
	"strings"
	"time"
)

// Image is a sized artwork reference.
type Image struct {
	URL    string `json:"url"`
	Height int    `json:"height,omitempty"`
	Width  int    `json:"width,omitempty"`
}

// UserProfile is the identity snapshot of the authenticated listener.
type UserProfile struct {
	ID          string  `json:"id"`
	DisplayName string  `json:"display_name"`
	Email       string  `json:"email,omitempty"`
	Images      []Image `json:"images,omitempty"`
	Followers   int     `json:"followers"`
	URL         string  `json:"url,omitempty"`
}

// Avatar returns the first image URL, or an empty string.
func (u UserProfile) Avatar() string {
	return firstImage(u.Images)
}

// Name returns the display name, falling back to the ID.
func (u UserProfile) Name() string {
	if u.DisplayName != "" {
		return u.DisplayName
	}
	return u.ID
}

// ArtistRef is an artist credited on a track.
type ArtistRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ArtistSummary is a ranked top artist.
type ArtistSummary struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Images     []Image  `json:"images,omitempty"`
	Genres     []string `json:"genres"`
	Popularity int      `json:"popularity"`
	URL        string   `json:"url,omitempty"`
}

// Image returns the first image URL, or an empty string.
func (a ArtistSummary) Image() string {
	return firstImage(a.Images)
}

// AlbumRef is the album a track appears on.
type AlbumRef struct {
	Name   string  `json:"name"`
	Images []Image `json:"images,omitempty"`
}

// TrackSummary is a ranked top track.
type TrackSummary struct {
	ID         string      `json:"id"`
	Name       string      `json:"name"`
	Artists    []ArtistRef `json:"artists"`
	Album      AlbumRef    `json:"album"`
	DurationMS int         `json:"duration_ms"`
	Popularity int         `json:"popularity"`
	URL        string      `json:"url,omitempty"`
}

// ArtistNames joins the credited artist names with ", ".
func (t TrackSummary) ArtistNames() string {
	names := make([]string, 0, len(t.Artists))
	for _, a := range t.Artists {
		names = append(names, a.Name)
	}
	return strings.Join(names, ", ")
}

// RecentTrack is one entry of the recently played feed.
type RecentTrack struct {
	PlayedAt time.Time    `json:"played_at"`
	Track    TrackSummary `json:"track"`
}

func firstImage(images []Image) string {
	if len(images) == 0 {
		return ""
	}
	return images[0].URL
}
