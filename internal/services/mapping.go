package services

import (
	"time"

	"github.com/desertthunder/sofar/internal/models"
	"github.com/zmb3/spotify/v2"
)

func profileFromSpotify(u spotify.PrivateUser) models.UserProfile {
	return models.UserProfile{
		ID:          string(u.ID),
		DisplayName: u.DisplayName,
		Email:       u.Email,
		Images:      imagesFromSpotify(u.Images),
		Followers:   int(u.Followers.Count),
		URL:         u.ExternalURLs["spotify"],
	}
}

func imagesFromSpotify(images []spotify.Image) []models.Image {
	if len(images) == 0 {
		return nil
	}
	out := make([]models.Image, len(images))
	for i, img := range images {
		out[i] = models.Image{URL: img.URL, Height: int(img.Height), Width: int(img.Width)}
	}
	return out
}

func artistsFromSpotify(artists []spotify.FullArtist) []models.ArtistSummary {
	out := make([]models.ArtistSummary, len(artists))
	for i, a := range artists {
		genres := a.Genres
		if genres == nil {
			genres = []string{}
		}
		out[i] = models.ArtistSummary{
			ID:         a.ID.String(),
			Name:       a.Name,
			Images:     imagesFromSpotify(a.Images),
			Genres:     genres,
			Popularity: int(a.Popularity),
			URL:        a.ExternalURLs["spotify"],
		}
	}
	return out
}

func trackFromSpotify(t spotify.FullTrack) models.TrackSummary {
	artists := make([]models.ArtistRef, len(t.Artists))
	for i, a := range t.Artists {
		artists[i] = models.ArtistRef{ID: a.ID.String(), Name: a.Name}
	}

	return models.TrackSummary{
		ID:         t.ID.String(),
		Name:       t.Name,
		Artists:    artists,
		Album:      models.AlbumRef{Name: t.Album.Name, Images: imagesFromSpotify(t.Album.Images)},
		DurationMS: int(t.Duration),
		Popularity: int(t.Popularity),
		URL:        t.ExternalURLs["spotify"],
	}
}

func tracksFromSpotify(tracks []spotify.FullTrack) []models.TrackSummary {
	out := make([]models.TrackSummary, len(tracks))
	for i, t := range tracks {
		out[i] = trackFromSpotify(t)
	}
	return out
}

// recentFromSpotify maps recently played items; an unparsable played_at becomes the zero time.
func recentFromSpotify(items []recentItem) []models.RecentTrack {
	out := make([]models.RecentTrack, len(items))
	for i, item := range items {
		playedAt, _ := time.Parse(time.RFC3339, item.PlayedAt)
		out[i] = models.RecentTrack{PlayedAt: playedAt, Track: trackFromSpotify(item.Track)}
	}
	return out
}
