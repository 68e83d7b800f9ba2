// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/sofar/internal/models"
)

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites int, target io.Writer) *LimitedWriter {
	return &LimitedWriter{maxWrites: maxWrites, target: target}
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

// DiscardLogger returns a logger that writes nowhere.
func DiscardLogger() *log.Logger {
	return log.New(io.Discard)
}

// Clock is a settable time source.
type Clock struct {
	mu  sync.Mutex
	now time.Time
}

func NewClock(now time.Time) *Clock {
	return &Clock{now: now}
}

func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// FakeAPI is a test double for the dashboard reads. Nil funcs return fixture data.
type FakeAPI struct {
	ProfileFn     func(ctx context.Context) (*models.UserProfile, error)
	TopArtistsFn  func(ctx context.Context, limit int) ([]models.ArtistSummary, error)
	TopTracksFn   func(ctx context.Context, limit int) ([]models.TrackSummary, error)
	StatsFn       func(ctx context.Context) (*models.ListeningStats, error)
	PersonalityFn func(ctx context.Context) ([]models.PersonalityProfile, error)

	calls atomic.Int32
}

// Calls returns the number of reads issued.
func (f *FakeAPI) Calls() int { return int(f.calls.Load()) }

func (f *FakeAPI) Profile(ctx context.Context) (*models.UserProfile, error) {
	f.calls.Add(1)
	if f.ProfileFn != nil {
		return f.ProfileFn(ctx)
	}
	p := FixtureProfile()
	return &p, nil
}

func (f *FakeAPI) TopArtists(ctx context.Context, limit int) ([]models.ArtistSummary, error) {
	f.calls.Add(1)
	if f.TopArtistsFn != nil {
		return f.TopArtistsFn(ctx, limit)
	}
	return FixtureArtists(), nil
}

func (f *FakeAPI) TopTracks(ctx context.Context, limit int) ([]models.TrackSummary, error) {
	f.calls.Add(1)
	if f.TopTracksFn != nil {
		return f.TopTracksFn(ctx, limit)
	}
	return FixtureTracks(), nil
}

func (f *FakeAPI) Stats(ctx context.Context) (*models.ListeningStats, error) {
	f.calls.Add(1)
	if f.StatsFn != nil {
		return f.StatsFn(ctx)
	}
	s := FixtureStats()
	return &s, nil
}

func (f *FakeAPI) Personality(ctx context.Context) ([]models.PersonalityProfile, error) {
	f.calls.Add(1)
	if f.PersonalityFn != nil {
		return f.PersonalityFn(ctx)
	}
	return FixturePersonality(), nil
}

func FixtureProfile() models.UserProfile {
	return models.UserProfile{
		ID:          "listener-1",
		DisplayName: "Test Listener",
		Email:       "listener@example.com",
		Images:      []models.Image{{URL: "https://img.example.com/me.jpg", Height: 300, Width: 300}},
		Followers:   42,
	}
}

func FixtureArtists() []models.ArtistSummary {
	return []models.ArtistSummary{
		{ID: "a1", Name: "Phoebe Bridgers", Genres: []string{"indie pop", "singer-songwriter", "indie rock"}, Popularity: 75},
		{ID: "a2", Name: "Kamasi Washington", Genres: []string{"jazz", "jazz saxophone"}, Popularity: 60},
		{ID: "a3", Name: "Bicep", Genres: []string{"electronic"}, Popularity: 65},
	}
}

func FixtureTracks() []models.TrackSummary {
	return []models.TrackSummary{
		{
			ID:         "t1",
			Name:       "Motion Sickness",
			Artists:    []models.ArtistRef{{ID: "a1", Name: "Phoebe Bridgers"}},
			Album:      models.AlbumRef{Name: "Stranger in the Alps"},
			DurationMS: 229_000,
			Popularity: 70,
		},
		{
			ID:         "t2",
			Name:       "Glue",
			Artists:    []models.ArtistRef{{ID: "a3", Name: "Bicep"}},
			Album:      models.AlbumRef{Name: "Bicep"},
			DurationMS: 269_000,
			Popularity: 68,
		},
	}
}

func FixtureStats() models.ListeningStats {
	return models.ListeningStats{
		TotalListeningMS: 36_000_000,
		TopGenres: []models.GenreCount{
			{Genre: "indie pop", Count: 10},
			{Genre: "indie rock", Count: 5},
			{Genre: "jazz", Count: 2},
		},
		ListeningTrends: map[int]int{9: 4, 13: 12, 22: 7},
		AverageFeatures: map[string]float64{
			"danceability": 0.2,
			"energy":       0.9,
			"valence":      0.5,
		},
		MoodScore: 0.5,
	}
}

func FixturePersonality() []models.PersonalityProfile {
	return []models.PersonalityProfile{
		{Category: models.Explorer, Percentage: 45, Description: "Always digging", Traits: []string{"curious"}},
		{Category: models.Sophisticated, Percentage: 30, Description: "Refined ear", Traits: []string{"patient"}},
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
