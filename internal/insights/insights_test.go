package insights

import (
	"errors"
	"maps"
	"math"
	"slices"
	"testing"

	"github.com/desertthunder/sofar/internal/models"
	"github.com/desertthunder/sofar/internal/shared"
	tu "github.com/desertthunder/sofar/internal/testing"
)

const (
	lessDanceable = "🎼 You prefer less danceable, more contemplative music"
	highEnergy    = "⚡ You love high-energy, intense tracks"
)

func TestAudioFeatureInsights(t *testing.T) {
	t.Run("high energy and low danceability", func(t *testing.T) {
		got := AudioFeatureInsights(map[string]float64{Energy: 0.9, Danceability: 0.2, Valence: 0.5})
		want := []string{lessDanceable, highEnergy}
		if !slices.Equal(got, want) {
			t.Errorf("got %q, want %q", got, want)
		}
	})

	t.Run("every high statement in feature order", func(t *testing.T) {
		got := AudioFeatureInsights(map[string]float64{
			Instrumentalness: 0.9,
			Acousticness:     0.9,
			Valence:          0.9,
			Energy:           0.9,
			Danceability:     0.9,
		})
		want := []string{
			"🕺 Your music is highly danceable - perfect for parties!",
			highEnergy,
			"😊 Your music taste is very upbeat and positive",
			"🎸 You have a preference for acoustic, organic sounds",
			"🎹 You enjoy instrumental music without vocals",
		}
		if !slices.Equal(got, want) {
			t.Errorf("got %q, want %q", got, want)
		}
	})

	t.Run("missing features count as zero", func(t *testing.T) {
		got := AudioFeatureInsights(nil)
		want := []string{
			lessDanceable,
			"🕯️ You gravitate toward calm, peaceful music",
			"🖤 You appreciate melancholic or darker moods",
		}
		if !slices.Equal(got, want) {
			t.Errorf("got %q, want %q", got, want)
		}
	})

	t.Run("thresholds are exclusive", func(t *testing.T) {
		got := AudioFeatureInsights(map[string]float64{
			Danceability:     0.7,
			Energy:           0.3,
			Valence:          0.7,
			Acousticness:     0.5,
			Instrumentalness: 0.3,
		})
		if len(got) != 0 {
			t.Errorf("expected no statements at the boundaries, got %q", got)
		}
	})

	// Acousticness (>0.5) and instrumentalness (>0.3) have their own high cutoffs and no low statement.
	t.Run("acoustic and instrumental cutoffs", func(t *testing.T) {
		base := map[string]float64{Danceability: 0.5, Energy: 0.5, Valence: 0.5}

		high := maps.Clone(base)
		high[Acousticness] = 0.6
		high[Instrumentalness] = 0.4
		want := []string{
			"🎸 You have a preference for acoustic, organic sounds",
			"🎹 You enjoy instrumental music without vocals",
		}
		if got := AudioFeatureInsights(high); !slices.Equal(got, want) {
			t.Errorf("got %q, want %q", got, want)
		}

		low := maps.Clone(base)
		low[Acousticness] = 0.05
		low[Instrumentalness] = 0
		if got := AudioFeatureInsights(low); len(got) != 0 {
			t.Errorf("expected no low statements, got %q", got)
		}
	})

	t.Run("out of range values are used as given", func(t *testing.T) {
		got := AudioFeatureInsights(map[string]float64{Danceability: 1.5, Energy: -1, Valence: 0.5})
		want := []string{
			"🕺 Your music is highly danceable - perfect for parties!",
			"🕯️ You gravitate toward calm, peaceful music",
		}
		if !slices.Equal(got, want) {
			t.Errorf("got %q, want %q", got, want)
		}
	})

	t.Run("deterministic", func(t *testing.T) {
		features := map[string]float64{Energy: 0.9, Danceability: 0.2, Acousticness: 0.8}
		first := AudioFeatureInsights(features)
		for range 10 {
			if got := AudioFeatureInsights(features); !slices.Equal(got, first) {
				t.Fatalf("expected stable output, got %q then %q", first, got)
			}
		}
	})
}

func TestGenreInsights(t *testing.T) {
	tests := []struct {
		name   string
		genres []models.GenreCount
		want   []string
	}{
		{
			name:   "focused with keywords",
			genres: []models.GenreCount{{Genre: "pop", Count: 10}, {Genre: "rock", Count: 5}, {Genre: "jazz", Count: 2}},
			want: []string{
				"🎵 Your top genre is pop with 10 artists",
				"🎯 You have focused taste with 3 main genres",
				"📻 You enjoy mainstream pop music",
				"🎸 Rock music is part of your identity",
				"🎺 You appreciate the sophistication of jazz",
			},
		},
		{
			name:   "empty",
			genres: nil,
			want:   []string{},
		},
		{
			name: "four genres are neither diverse nor focused",
			genres: []models.GenreCount{
				{Genre: "folk", Count: 4}, {Genre: "blues", Count: 3}, {Genre: "country", Count: 2}, {Genre: "soul", Count: 1},
			},
			want: []string{"🎵 Your top genre is folk with 4 artists"},
		},
		{
			name: "diverse",
			genres: []models.GenreCount{
				{Genre: "folk", Count: 4}, {Genre: "blues", Count: 3}, {Genre: "country", Count: 2},
				{Genre: "soul", Count: 1}, {Genre: "ambient", Count: 1},
			},
			want: []string{
				"🎵 Your top genre is folk with 4 artists",
				"🌈 You have diverse taste with 5 different genres",
			},
		},
		{
			name: "keywords match case-insensitive substrings once",
			genres: []models.GenreCount{
				{Genre: "K-Pop", Count: 3}, {Genre: "indie pop", Count: 2}, {Genre: "EDM", Count: 1},
			},
			want: []string{
				"🎵 Your top genre is K-Pop with 3 artists",
				"🎯 You have focused taste with 3 main genres",
				"📻 You enjoy mainstream pop music",
				"🎹 Electronic beats energize your playlist",
			},
		},
		{
			name: "electronic and edm share one statement",
			genres: []models.GenreCount{
				{Genre: "electronic", Count: 2}, {Genre: "edm", Count: 2},
			},
			want: []string{
				"🎵 Your top genre is electronic with 2 artists",
				"🎯 You have focused taste with 2 main genres",
				"🎹 Electronic beats energize your playlist",
			},
		},
		{
			name: "top genre is the highest count",
			genres: []models.GenreCount{
				{Genre: "ambient", Count: 1}, {Genre: "jazz", Count: 7},
			},
			want: []string{
				"🎵 Your top genre is jazz with 7 artists",
				"🎯 You have focused taste with 2 main genres",
				"🎺 You appreciate the sophistication of jazz",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := GenreInsights(tt.genres)
			if !slices.Equal(got, tt.want) {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTopGenre(t *testing.T) {
	t.Run("first wins ties", func(t *testing.T) {
		top, ok := TopGenre([]models.GenreCount{{Genre: "a", Count: 3}, {Genre: "b", Count: 3}})
		if !ok || top.Genre != "a" {
			t.Errorf("expected a, got %+v", top)
		}
	})

	t.Run("empty", func(t *testing.T) {
		if _, ok := TopGenre(nil); ok {
			t.Error("expected no top genre")
		}
	})
}

func TestPersonality(t *testing.T) {
	tests := []struct {
		category models.PersonalityCategory
		want     Label
	}{
		{models.Performative, Label{Label: "Performative", Emoji: "🎭", Color: "#FF6B6B"}},
		{models.AvantGarde, Label{Label: "Avant-garde", Emoji: "🎨", Color: "#4ECDC4"}},
		{models.Pandering, Label{Label: "Feel-good", Emoji: "😊", Color: "#45B7D1"}},
		{models.Sophisticated, Label{Label: "Sophisticated", Emoji: "🎼", Color: "#96CEB4"}},
		{models.Explorer, Label{Label: "Explorer", Emoji: "🌍", Color: "#FFEAA7"}},
		{models.Trendsetter, Label{Label: "Trendsetter", Emoji: "🚀", Color: "#DDA0DD"}},
		{"mystic", Label{Label: "mystic", Color: DefaultPersonalityColor}},
		{"", Label{Color: DefaultPersonalityColor}},
	}

	for _, tt := range tests {
		t.Run(string(tt.category), func(t *testing.T) {
			if got := Personality(tt.category); got != tt.want {
				t.Errorf("Personality(%q) = %+v, want %+v", tt.category, got, tt.want)
			}
		})
	}
}

func TestRadarFeatures(t *testing.T) {
	points := RadarFeatures(map[string]float64{Danceability: 0.456, Energy: 0.9, Speechiness: 0.004})
	if len(points) != 6 {
		t.Fatalf("expected 6 axes, got %d", len(points))
	}

	want := map[string]int{
		Danceability: 46,
		Energy:       90,
		Valence:      0,
		Acousticness: 0,
		Liveness:     0,
		Speechiness:  0,
	}
	for _, p := range points {
		if p.Value != want[p.Feature] {
			t.Errorf("%s: expected %d, got %d", p.Feature, want[p.Feature], p.Value)
		}
		if p.Label == "" || p.Description == "" {
			t.Errorf("%s: expected label and description", p.Feature)
		}
	}
	if points[0].Feature != Danceability || points[5].Feature != Speechiness {
		t.Errorf("unexpected axis order: %s..%s", points[0].Feature, points[5].Feature)
	}
}

func TestGenreChart(t *testing.T) {
	t.Run("folds the tail into others", func(t *testing.T) {
		var genres []models.GenreCount
		for i := 10; i >= 1; i-- {
			genres = append(genres, models.GenreCount{Genre: string(rune('a' + 10 - i)), Count: i})
		}

		chart := GenreChart(genres)
		if len(chart) != 9 {
			t.Fatalf("expected 8 genres plus others, got %d", len(chart))
		}

		others := chart[8]
		if others.Genre != "Others" || others.Count != 3 {
			t.Errorf("expected Others with 3, got %+v", others)
		}
		if chart[0].Percentage != 18.2 {
			t.Errorf("expected 18.2%%, got %v", chart[0].Percentage)
		}
		if chart[0].PercentLabel() != "18.2%" {
			t.Errorf("expected label 18.2%%, got %s", chart[0].PercentLabel())
		}
		for i, s := range chart {
			if s.Color != GenreColors[i] {
				t.Errorf("slice %d: expected color %s, got %s", i, GenreColors[i], s.Color)
			}
		}
	})

	t.Run("no others when everything fits", func(t *testing.T) {
		chart := GenreChart(tu.FixtureStats().TopGenres)
		if len(chart) != 3 {
			t.Fatalf("expected 3 slices, got %d", len(chart))
		}
		total := 0.0
		for _, s := range chart {
			total += s.Percentage
		}
		if math.Abs(total-100) > 0.2 {
			t.Errorf("expected percentages to sum to ~100, got %v", total)
		}
	})

	t.Run("zero counts", func(t *testing.T) {
		chart := GenreChart([]models.GenreCount{{Genre: "silence", Count: 0}})
		if len(chart) != 1 || chart[0].Percentage != 0 {
			t.Errorf("expected one empty slice, got %+v", chart)
		}
	})

	t.Run("empty", func(t *testing.T) {
		if chart := GenreChart(nil); len(chart) != 0 {
			t.Errorf("expected empty chart, got %+v", chart)
		}
	})
}

func TestTopGenres(t *testing.T) {
	genres := make([]models.GenreCount, 7)
	top := TopGenres(genres)
	if len(top) != 5 {
		t.Errorf("expected 5 genres, got %d", len(top))
	}
	top[0].Genre = "mutated"
	if genres[0].Genre == "mutated" {
		t.Error("expected a copy")
	}
	if got := TopGenres(nil); len(got) != 0 {
		t.Errorf("expected empty, got %+v", got)
	}
}

func TestDiversityScore(t *testing.T) {
	tests := []struct {
		n    int
		want string
	}{
		{0, "Low"}, {3, "Low"}, {4, "Medium"}, {7, "Medium"}, {8, "High"}, {20, "High"},
	}
	for _, tt := range tests {
		if got := DiversityScore(make([]models.GenreCount, tt.n)); got != tt.want {
			t.Errorf("DiversityScore(%d genres) = %s, want %s", tt.n, got, tt.want)
		}
	}
}

func TestLabels(t *testing.T) {
	tests := []struct {
		name string
		fn   func(float64) string
		v    float64
		want string
	}{
		{"mood high", MoodLabel, 0.71, "😊 Happy"},
		{"mood boundary", MoodLabel, 0.7, "😐 Neutral"},
		{"mood low", MoodLabel, 0.5, "😔 Chill"},
		{"energy high", EnergyLabel, 0.9, "⚡ High Energy"},
		{"energy medium", EnergyLabel, 0.6, "🔋 Medium Energy"},
		{"energy low", EnergyLabel, 0, "🕯️ Low Energy"},
		{"dance high", DanceLabel, 0.8, "💃 Dance Party"},
		{"dance medium", DanceLabel, 0.51, "🎵 Groovy"},
		{"dance low", DanceLabel, 0.2, "🎼 Chill Vibes"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.fn(tt.v); got != tt.want {
				t.Errorf("got %s, want %s", got, tt.want)
			}
		})
	}
}

func TestListeningTime(t *testing.T) {
	tests := []struct {
		ms            int64
		hours, minute int64
	}{
		{36_000_000, 10, 600},
		{5_400_000, 2, 90},
		{1_799_999, 0, 30},
		{0, 0, 0},
	}
	for _, tt := range tests {
		h, m := ListeningTime(tt.ms)
		if h != tt.hours || m != tt.minute {
			t.Errorf("ListeningTime(%d) = %d, %d; want %d, %d", tt.ms, h, m, tt.hours, tt.minute)
		}
	}
}

func TestPeakHours(t *testing.T) {
	t.Run("busiest first with relative bars", func(t *testing.T) {
		bars := PeakHours(map[int]int{9: 4, 13: 12, 22: 6})
		want := []struct {
			hour    int
			label   string
			percent float64
		}{
			{13, "1 PM", 100},
			{22, "10 PM", 50},
			{9, "9 AM", 100.0 / 3},
		}
		if len(bars) != len(want) {
			t.Fatalf("expected %d bars, got %d", len(want), len(bars))
		}
		for i, w := range want {
			if bars[i].Hour != w.hour || bars[i].Label != w.label || math.Abs(bars[i].Percent-w.percent) > 1e-9 {
				t.Errorf("bar %d: got %+v, want %+v", i, bars[i], w)
			}
		}
	})

	t.Run("keeps six with ties in hour order", func(t *testing.T) {
		trends := map[int]int{}
		for h := range 10 {
			trends[h] = 5
		}
		bars := PeakHours(trends)
		if len(bars) != 6 {
			t.Fatalf("expected 6 bars, got %d", len(bars))
		}
		for i, b := range bars {
			if b.Hour != i {
				t.Errorf("bar %d: expected hour %d, got %d", i, i, b.Hour)
			}
		}
	})

	t.Run("zero counts", func(t *testing.T) {
		bars := PeakHours(map[int]int{3: 0})
		if len(bars) != 1 || bars[0].Percent != 0 {
			t.Errorf("expected a single empty bar, got %+v", bars)
		}
	})

	t.Run("empty", func(t *testing.T) {
		if bars := PeakHours(nil); len(bars) != 0 {
			t.Errorf("expected no bars, got %+v", bars)
		}
	})
}

func TestHourLabel(t *testing.T) {
	tests := map[int]string{0: "12 AM", 1: "1 AM", 11: "11 AM", 12: "12 PM", 13: "1 PM", 23: "11 PM"}
	for hour, want := range tests {
		if got := HourLabel(hour); got != want {
			t.Errorf("HourLabel(%d) = %s, want %s", hour, got, want)
		}
	}
}

func TestFormatDuration(t *testing.T) {
	tests := map[int]string{
		215_000: "3:35",
		59_999:  "0:59",
		60_000:  "1:00",
		605_000: "10:05",
		0:       "0:00",
		-5:      "0:00",
	}
	for ms, want := range tests {
		if got := FormatDuration(ms); got != want {
			t.Errorf("FormatDuration(%d) = %s, want %s", ms, got, want)
		}
	}
}

func TestSummarize(t *testing.T) {
	t.Run("all data available", func(t *testing.T) {
		vm := models.NewDashboard(models.DashboardParts{
			Profile:     tu.FixtureProfile(),
			Stats:       models.Present(tu.FixtureStats()),
			Personality: models.Present(tu.FixturePersonality()),
		})

		s := Summarize(vm)
		if s.Stats == nil {
			t.Fatal("expected stats summary")
		}
		if s.Stats.ListeningHours != 10 || s.Stats.ListeningMinutes != 600 {
			t.Errorf("expected 10h / 600m, got %dh / %dm", s.Stats.ListeningHours, s.Stats.ListeningMinutes)
		}
		if s.Stats.Energy != "⚡ High Energy" || s.Stats.EnergyPercent != 90 {
			t.Errorf("unexpected energy card: %s %d", s.Stats.Energy, s.Stats.EnergyPercent)
		}
		if s.Stats.Mood != "😔 Chill" || s.Stats.MoodPercent != 50 {
			t.Errorf("unexpected mood card: %s %d", s.Stats.Mood, s.Stats.MoodPercent)
		}
		if s.Stats.Diversity != "Low" || s.Stats.GenreCount != 3 {
			t.Errorf("unexpected diversity: %s (%d)", s.Stats.Diversity, s.Stats.GenreCount)
		}
		if !slices.Contains(s.Stats.AudioInsights, highEnergy) {
			t.Errorf("expected high energy insight in %q", s.Stats.AudioInsights)
		}
		if len(s.Stats.PeakHours) != 3 || s.Stats.PeakHours[0].Label != "1 PM" {
			t.Errorf("unexpected peak hours: %+v", s.Stats.PeakHours)
		}

		if len(s.Personality) != 2 {
			t.Fatalf("expected 2 personality entries, got %d", len(s.Personality))
		}
		if s.Personality[0].Label != "Explorer" || s.Personality[0].Percentage != 45 {
			t.Errorf("expected Explorer 45 first, got %+v", s.Personality[0])
		}
	})

	t.Run("optional data unavailable", func(t *testing.T) {
		reason := shared.OptionalDataUnavailable("stats", errors.New("down"))
		vm := models.NewDashboard(models.DashboardParts{
			Profile:     tu.FixtureProfile(),
			Stats:       models.Absent[models.ListeningStats](reason),
			Personality: models.Absent[[]models.PersonalityProfile](reason),
		})

		s := Summarize(vm)
		if s.Stats != nil || s.Personality != nil {
			t.Errorf("expected empty summary, got %+v", s)
		}
	})
}
