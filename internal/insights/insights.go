package insights

import (
	"fmt"
	"strings"

	"github.com/desertthunder/sofar/internal/models"
)

// Audio feature names as reported in [models.ListeningStats.AverageFeatures].
const (
	Danceability     = "danceability"
	Energy           = "energy"
	Valence          = "valence"
	Acousticness     = "acousticness"
	Instrumentalness = "instrumentalness"
	Liveness         = "liveness"
	Speechiness      = "speechiness"
)

// featureRule emits high when value > above and low when value < below.
// An empty low statement disables the lower bound.
type featureRule struct {
	feature string
	above   float64
	high    string
	below   float64
	low     string
}

// featureRules is evaluated in order; the order is part of the output.
var featureRules = []featureRule{
	{Danceability, 0.7, "🕺 Your music is highly danceable - perfect for parties!", 0.3, "🎼 You prefer less danceable, more contemplative music"},
	{Energy, 0.7, "⚡ You love high-energy, intense tracks", 0.3, "🕯️ You gravitate toward calm, peaceful music"},
	{Valence, 0.7, "😊 Your music taste is very upbeat and positive", 0.3, "🖤 You appreciate melancholic or darker moods"},
	{Acousticness, 0.5, "🎸 You have a preference for acoustic, organic sounds", 0, ""},
	{Instrumentalness, 0.3, "🎹 You enjoy instrumental music without vocals", 0, ""},
}

// AudioFeatureInsights returns at most one statement per feature, in a fixed feature order.
func AudioFeatureInsights(features map[string]float64) []string {
	insights := []string{}
	for _, rule := range featureRules {
		v := features[rule.feature]
		switch {
		case v > rule.above:
			insights = append(insights, rule.high)
		case rule.low != "" && v < rule.below:
			insights = append(insights, rule.low)
		}
	}
	return insights
}

// genreKeyword emits statement once when any genre name contains one of words.
type genreKeyword struct {
	words     []string
	statement string
}

var genreKeywords = []genreKeyword{
	{words: []string{"pop"}, statement: "📻 You enjoy mainstream pop music"},
	{words: []string{"rock"}, statement: "🎸 Rock music is part of your identity"},
	{words: []string{"jazz"}, statement: "🎺 You appreciate the sophistication of jazz"},
	{words: []string{"electronic", "edm"}, statement: "🎹 Electronic beats energize your playlist"},
}

// GenreInsights summarizes a genre distribution.
//
// Statements come in order: top genre, diversity, then keyword matches.
// Five or more genres are diverse, three or fewer are focused, and four says nothing.
func GenreInsights(genres []models.GenreCount) []string {
	insights := []string{}
	if len(genres) == 0 {
		return insights
	}

	top, _ := TopGenre(genres)
	insights = append(insights, fmt.Sprintf("🎵 Your top genre is %s with %d artists", top.Genre, top.Count))

	switch n := len(genres); {
	case n >= 5:
		insights = append(insights, fmt.Sprintf("🌈 You have diverse taste with %d different genres", n))
	case n <= 3:
		insights = append(insights, fmt.Sprintf("🎯 You have focused taste with %d main genres", n))
	}

	names := make([]string, len(genres))
	for i, g := range genres {
		names[i] = strings.ToLower(g.Genre)
	}
	for _, kw := range genreKeywords {
		if anyContains(names, kw.words) {
			insights = append(insights, kw.statement)
		}
	}
	return insights
}

// TopGenre returns the genre with the highest count. Ties go to the earliest entry.
func TopGenre(genres []models.GenreCount) (models.GenreCount, bool) {
	if len(genres) == 0 {
		return models.GenreCount{}, false
	}
	top := genres[0]
	for _, g := range genres[1:] {
		if g.Count > top.Count {
			top = g
		}
	}
	return top, true
}

func anyContains(names, words []string) bool {
	for _, name := range names {
		for _, w := range words {
			if strings.Contains(name, w) {
				return true
			}
		}
	}
	return false
}

// Label is the display form of a personality category.
type Label struct {
	Label string `json:"label"`
	Emoji string `json:"emoji"`
	Color string `json:"color"`
}

// DefaultPersonalityColor is used for categories outside the known set.
const DefaultPersonalityColor = "#8884d8"

// Personality maps a category to its display label. Unknown categories keep their raw id.
func Personality(category models.PersonalityCategory) Label {
	switch category {
	case models.Performative:
		return Label{Label: "Performative", Emoji: "🎭", Color: "#FF6B6B"}
	case models.AvantGarde:
		return Label{Label: "Avant-garde", Emoji: "🎨", Color: "#4ECDC4"}
	case models.Pandering:
		return Label{Label: "Feel-good", Emoji: "😊", Color: "#45B7D1"}
	case models.Sophisticated:
		return Label{Label: "Sophisticated", Emoji: "🎼", Color: "#96CEB4"}
	case models.Explorer:
		return Label{Label: "Explorer", Emoji: "🌍", Color: "#FFEAA7"}
	case models.Trendsetter:
		return Label{Label: "Trendsetter", Emoji: "🚀", Color: "#DDA0DD"}
	default:
		return Label{Label: string(category), Color: DefaultPersonalityColor}
	}
}
