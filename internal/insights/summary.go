package insights

import "github.com/desertthunder/sofar/internal/models"

// Summary gathers every derived value shown for a dashboard.
//
// Stats and Personality are nil when the corresponding optional data is unavailable.
type Summary struct {
	Stats       *StatsSummary      `json:"stats"`
	Personality []PersonalityEntry `json:"personality"`
}

// StatsSummary holds values derived from [models.ListeningStats].
type StatsSummary struct {
	ListeningHours   int64               `json:"listening_hours"`
	ListeningMinutes int64               `json:"listening_minutes"`
	MoodPercent      int                 `json:"mood_percent"`
	Mood             string              `json:"mood"`
	EnergyPercent    int                 `json:"energy_percent"`
	Energy           string              `json:"energy"`
	DancePercent     int                 `json:"dance_percent"`
	Dance            string              `json:"dance"`
	Diversity        string              `json:"diversity"`
	GenreCount       int                 `json:"genre_count"`
	TopGenres        []models.GenreCount `json:"top_genres"`
	GenreChart       []GenreSlice        `json:"genre_chart"`
	GenreInsights    []string            `json:"genre_insights"`
	Radar            []RadarPoint        `json:"radar"`
	AudioInsights    []string            `json:"audio_insights"`
	PeakHours        []HourBar           `json:"peak_hours"`
}

// PersonalityEntry is a personality profile paired with its display label.
type PersonalityEntry struct {
	Category    models.PersonalityCategory `json:"category"`
	Label       string                     `json:"label"`
	Emoji       string                     `json:"emoji"`
	Color       string                     `json:"color"`
	Percentage  float64                    `json:"percentage"`
	Description string                     `json:"description"`
	Traits      []string                   `json:"traits"`
}

// Summarize derives the dashboard summary from a loaded view-model.
func Summarize(vm *models.DashboardViewModel) Summary {
	var s Summary
	if stats, ok := vm.Stats().Get(); ok {
		summary := SummarizeStats(stats)
		s.Stats = &summary
	}
	if profiles, ok := vm.Personality().Get(); ok {
		s.Personality = PersonalityEntries(profiles)
	}
	return s
}

// SummarizeStats derives the header cards, genre section, radar and peak hours.
func SummarizeStats(stats models.ListeningStats) StatsSummary {
	hours, minutes := ListeningTime(stats.TotalListeningMS)
	energy := stats.Feature(Energy)
	dance := stats.Feature(Danceability)

	return StatsSummary{
		ListeningHours:   hours,
		ListeningMinutes: minutes,
		MoodPercent:      Percent(stats.MoodScore),
		Mood:             MoodLabel(stats.MoodScore),
		EnergyPercent:    Percent(energy),
		Energy:           EnergyLabel(energy),
		DancePercent:     Percent(dance),
		Dance:            DanceLabel(dance),
		Diversity:        DiversityScore(stats.TopGenres),
		GenreCount:       len(stats.TopGenres),
		TopGenres:        TopGenres(stats.TopGenres),
		GenreChart:       GenreChart(stats.TopGenres),
		GenreInsights:    GenreInsights(stats.TopGenres),
		Radar:            RadarFeatures(stats.AverageFeatures),
		AudioInsights:    AudioFeatureInsights(stats.AverageFeatures),
		PeakHours:        PeakHours(stats.ListeningTrends),
	}
}

// PersonalityEntries labels each profile, keeping the backend's ranking.
func PersonalityEntries(profiles []models.PersonalityProfile) []PersonalityEntry {
	entries := make([]PersonalityEntry, len(profiles))
	for i, p := range profiles {
		label := Personality(p.Category)
		entries[i] = PersonalityEntry{
			Category:    p.Category,
			Label:       label.Label,
			Emoji:       label.Emoji,
			Color:       label.Color,
			Percentage:  p.Percentage,
			Description: p.Description,
			Traits:      p.Traits,
		}
	}
	return entries
}
