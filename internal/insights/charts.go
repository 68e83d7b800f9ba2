package insights

import (
	"fmt"
	"math"
	"slices"

	"github.com/desertthunder/sofar/internal/models"
)

const (
	chartSlices = 8
	peakHours   = 6
	topGenres   = 5
)

// GenreColors is the palette assigned to genre chart slices in order.
var GenreColors = []string{
	"#FF6B6B", "#4ECDC4", "#45B7D1", "#96CEB4", "#FFEAA7",
	"#DDA0DD", "#FFB347", "#87CEEB", "#98FB98", "#F0E68C",
}

// RadarPoint is one axis of the audio feature radar.
type RadarPoint struct {
	Feature     string `json:"feature"`
	Label       string `json:"label"`
	Description string `json:"description"`
	Value       int    `json:"value"` // 0..100 for in-range features
}

var radarAxes = []struct {
	feature, label, description string
}{
	{Danceability, "Danceability", "How suitable the music is for dancing"},
	{Energy, "Energy", "Intensity and powerful feeling"},
	{Valence, "Valence", "Musical positivity (happiness)"},
	{Acousticness, "Acousticness", "Whether the track is acoustic"},
	{Liveness, "Liveness", "Presence of audience in recording"},
	{Speechiness, "Speechiness", "Presence of spoken words"},
}

// RadarFeatures scales the six radar axes to whole percentages.
func RadarFeatures(features map[string]float64) []RadarPoint {
	points := make([]RadarPoint, len(radarAxes))
	for i, axis := range radarAxes {
		points[i] = RadarPoint{
			Feature:     axis.feature,
			Label:       axis.label,
			Description: axis.description,
			Value:       Percent(features[axis.feature]),
		}
	}
	return points
}

// Percent renders a 0..1 score as a rounded percentage.
func Percent(v float64) int {
	return int(math.Round(v * 100))
}

// GenreSlice is one segment of the genre distribution chart.
type GenreSlice struct {
	Genre      string  `json:"genre"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"` // rounded to one decimal
	Color      string  `json:"color"`
}

// PercentLabel formats the slice percentage with one decimal.
func (g GenreSlice) PercentLabel() string {
	return fmt.Sprintf("%.1f%%", g.Percentage)
}

// GenreChart keeps the first eight genres and folds the remainder into an "Others" slice.
func GenreChart(genres []models.GenreCount) []GenreSlice {
	if len(genres) == 0 {
		return []GenreSlice{}
	}

	shown := genres[:min(len(genres), chartSlices)]
	others := 0
	for _, g := range genres[len(shown):] {
		others += g.Count
	}

	chart := make([]GenreSlice, 0, len(shown)+1)
	for _, g := range shown {
		chart = append(chart, GenreSlice{Genre: g.Genre, Count: g.Count})
	}
	if others > 0 {
		chart = append(chart, GenreSlice{Genre: "Others", Count: others})
	}

	total := 0
	for _, s := range chart {
		total += s.Count
	}
	for i := range chart {
		chart[i].Color = GenreColors[i%len(GenreColors)]
		if total > 0 {
			chart[i].Percentage = math.Round(float64(chart[i].Count)/float64(total)*1000) / 10
		}
	}
	return chart
}

// TopGenres returns up to the first five genres.
func TopGenres(genres []models.GenreCount) []models.GenreCount {
	return slices.Clone(genres[:min(len(genres), topGenres)])
}

// DiversityScore grades how many distinct genres appear.
func DiversityScore(genres []models.GenreCount) string {
	switch n := len(genres); {
	case n >= 8:
		return "High"
	case n >= 4:
		return "Medium"
	default:
		return "Low"
	}
}

// MoodLabel describes a mood score.
func MoodLabel(score float64) string {
	return tier(score, "😊 Happy", "😐 Neutral", "😔 Chill")
}

// EnergyLabel describes an average energy value.
func EnergyLabel(energy float64) string {
	return tier(energy, "⚡ High Energy", "🔋 Medium Energy", "🕯️ Low Energy")
}

// DanceLabel describes an average danceability value.
func DanceLabel(danceability float64) string {
	return tier(danceability, "💃 Dance Party", "🎵 Groovy", "🎼 Chill Vibes")
}

func tier(v float64, high, medium, low string) string {
	switch {
	case v > 0.7:
		return high
	case v > 0.5:
		return medium
	default:
		return low
	}
}

// ListeningTime converts a millisecond total to rounded hours and minutes.
//
// Both are rounded independently, so 90 minutes is reported as 2 hours and 90 minutes.
func ListeningTime(ms int64) (hours, minutes int64) {
	hours = int64(math.Round(float64(ms) / float64(60*60*1000)))
	minutes = int64(math.Round(float64(ms) / float64(60*1000)))
	return hours, minutes
}

// HourBar is one row of the listening trend chart.
type HourBar struct {
	Hour    int     `json:"hour"`
	Label   string  `json:"label"`
	Count   int     `json:"count"`
	Percent float64 `json:"percent"` // relative to the busiest hour
}

// PeakHours returns the six busiest hours, busiest first. Ties keep ascending hour order.
func PeakHours(trends map[int]int) []HourBar {
	hours := make([]int, 0, len(trends))
	maxCount := 0
	for h, c := range trends {
		hours = append(hours, h)
		maxCount = max(maxCount, c)
	}
	slices.Sort(hours)
	slices.SortStableFunc(hours, func(a, b int) int {
		return trends[b] - trends[a]
	})

	bars := make([]HourBar, 0, min(len(hours), peakHours))
	for _, h := range hours[:min(len(hours), peakHours)] {
		bar := HourBar{Hour: h, Label: HourLabel(h), Count: trends[h]}
		if maxCount > 0 {
			bar.Percent = float64(trends[h]) / float64(maxCount) * 100
		}
		bars = append(bars, bar)
	}
	return bars
}

// HourLabel formats a 0..23 hour on a 12-hour clock.
func HourLabel(hour int) string {
	switch {
	case hour == 0:
		return "12 AM"
	case hour == 12:
		return "12 PM"
	case hour < 12:
		return fmt.Sprintf("%d AM", hour)
	default:
		return fmt.Sprintf("%d PM", hour-12)
	}
}

// FormatDuration renders a track length in milliseconds as m:ss.
func FormatDuration(ms int) string {
	if ms < 0 {
		ms = 0
	}
	return fmt.Sprintf("%d:%02d", ms/60000, (ms%60000)/1000)
}
