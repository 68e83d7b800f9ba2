package models

import (
	"maps"
	"slices"
)

// GenreCount pairs a genre with the number of top artists tagged with it.
type GenreCount struct {
	Genre string `json:"genre"`
	Count int    `json:"count"`
}

// ListeningStats are the aggregate numbers returned by the stats endpoint.
//
// ListeningTrends maps hour of day (0..23) to play count and is sparse.
// AverageFeatures values are usually within [0,1] but are not validated.
type ListeningStats struct {
	TotalListeningMS int64              `json:"total_listening_time_ms"`
	TopGenres        []GenreCount       `json:"top_genres"`
	ListeningTrends  map[int]int        `json:"listening_trends"`
	AverageFeatures  map[string]float64 `json:"average_features"`
	MoodScore        float64            `json:"mood_score"`
}

// Feature returns the named average, treating a missing entry as 0.
func (s ListeningStats) Feature(name string) float64 {
	return s.AverageFeatures[name]
}

// Clone returns a copy that shares no slices or maps with s.
func (s ListeningStats) Clone() ListeningStats {
	s.TopGenres = slices.Clone(s.TopGenres)
	s.ListeningTrends = maps.Clone(s.ListeningTrends)
	s.AverageFeatures = maps.Clone(s.AverageFeatures)
	return s
}

// PersonalityCategory identifies a listening personality.
type PersonalityCategory string

const (
	Performative  PersonalityCategory = "performative"
	AvantGarde    PersonalityCategory = "avant_garde"
	Pandering     PersonalityCategory = "pandering"
	Sophisticated PersonalityCategory = "sophisticated"
	Explorer      PersonalityCategory = "explorer"
	Trendsetter   PersonalityCategory = "trendsetter"
)

// PersonalityProfile is one scored entry of a personality breakdown.
//
// Percentages are independent scores and need not sum to 100.
type PersonalityProfile struct {
	Category    PersonalityCategory `json:"category"`
	Percentage  float64             `json:"percentage"`
	Description string              `json:"description"`
	Traits      []string            `json:"traits"`
}

// PersonalityBreakdown is the envelope of the personality endpoint.
type PersonalityBreakdown struct {
	Breakdown []PersonalityProfile `json:"personality_breakdown"`
}
