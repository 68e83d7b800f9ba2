// package formatter renders dashboards, insights and recent plays as plain text or Markdown
package formatter

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/desertthunder/sofar/internal/insights"
	"github.com/desertthunder/sofar/internal/models"
	"github.com/mattn/go-runewidth"
)

const (
	nameWidth  = 28
	labelWidth = 14
	barWidth   = 20

	// LoadFailedMessage is shown when a dashboard load cannot complete.
	LoadFailedMessage = "Failed to load your Spotify data. Your session may have expired."
)

// pad fits text to a fixed display width, truncating with an ellipsis.
func pad(text string, width int) string {
	if width <= 0 {
		return text
	}
	return runewidth.FillRight(runewidth.Truncate(text, width, "…"), width)
}

// Bar draws a horizontal bar for a 0..100 percentage.
func Bar(percent float64, width int) string {
	filled := int(percent / 100 * float64(width))
	filled = max(0, min(filled, width))
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

func genreList(genres []string, n int) string {
	return strings.Join(genres[:min(len(genres), n)], ", ")
}

// DashboardToText renders a dashboard as plain text for terminal output.
func DashboardToText(vm *models.DashboardViewModel) []byte {
	var buf bytes.Buffer
	summary := insights.Summarize(vm)
	profile := vm.Profile()

	fmt.Fprintf(&buf, "🎵 Spotify Wrapped So Far: %s\n", profile.Name())
	if profile.Email != "" {
		fmt.Fprintf(&buf, "%s\n", profile.Email)
	}
	fmt.Fprintf(&buf, "%d followers\n\n", profile.Followers)

	writeStatsText(&buf, summary.Stats)
	writePersonalityText(&buf, summary.Personality)
	writeArtistsText(&buf, vm.TopArtists())
	writeTracksText(&buf, vm.TopTracks())

	buf.WriteString("🎉 Your Spotify Wrapped So Far!\n")
	return buf.Bytes()
}

func writeStatsText(buf *bytes.Buffer, s *insights.StatsSummary) {
	buf.WriteString("Your Listening Stats\n")
	if s == nil {
		buf.WriteString("  No listening stats available\n\n")
		return
	}

	fmt.Fprintf(buf, "  %s %dh (%d minutes)\n", pad("Listening time", labelWidth), s.ListeningHours, s.ListeningMinutes)
	fmt.Fprintf(buf, "  %s %3d%%  %s\n", pad("Mood score", labelWidth), s.MoodPercent, s.Mood)
	fmt.Fprintf(buf, "  %s %3d%%  %s\n", pad("Energy level", labelWidth), s.EnergyPercent, s.Energy)
	fmt.Fprintf(buf, "  %s %3d%%  %s\n\n", pad("Danceability", labelWidth), s.DancePercent, s.Dance)

	buf.WriteString("📊 Your Audio DNA\n")
	for _, p := range s.Radar {
		fmt.Fprintf(buf, "  %s %s %3d%%\n", pad(p.Label, labelWidth), Bar(float64(p.Value), barWidth), p.Value)
	}
	for _, line := range s.AudioInsights {
		fmt.Fprintf(buf, "  %s\n", line)
	}
	buf.WriteString("\n")

	buf.WriteString("🎭 Your Genre Universe\n")
	if len(s.GenreChart) == 0 {
		buf.WriteString("  No genre data available\n\n")
	} else {
		for _, g := range s.GenreChart {
			fmt.Fprintf(buf, "  %s %s %3d  %6s\n", pad(g.Genre, nameWidth), Bar(g.Percentage, barWidth), g.Count, g.PercentLabel())
		}
		for _, line := range s.GenreInsights {
			fmt.Fprintf(buf, "  %s\n", line)
		}
		fmt.Fprintf(buf, "  Total genres: %d  Diversity score: %s\n\n", s.GenreCount, s.Diversity)
	}

	buf.WriteString("Your Top Genres\n")
	for i, g := range s.TopGenres {
		fmt.Fprintf(buf, "  #%d %s %d artists\n", i+1, pad(g.Genre, nameWidth), g.Count)
	}
	buf.WriteString("\n")

	buf.WriteString("When You Listen Most\n")
	if len(s.PeakHours) == 0 {
		buf.WriteString("  No listening trends available\n")
	}
	for _, h := range s.PeakHours {
		fmt.Fprintf(buf, "  %s %s %d\n", pad(h.Label, 6), Bar(h.Percent, barWidth), h.Count)
	}
	buf.WriteString("\n")
}

func writePersonalityText(buf *bytes.Buffer, entries []insights.PersonalityEntry) {
	buf.WriteString("🎵 Your Music Personality\n")
	if len(entries) == 0 {
		buf.WriteString("  No personality data available\n\n")
		return
	}
	for _, p := range entries {
		label := strings.TrimSpace(p.Emoji + " " + p.Label)
		fmt.Fprintf(buf, "  %s %s %g%%\n", pad(label, nameWidth), Bar(p.Percentage, barWidth), p.Percentage)
		if p.Description != "" {
			fmt.Fprintf(buf, "    %s\n", p.Description)
		}
		if len(p.Traits) > 0 {
			fmt.Fprintf(buf, "    %s\n", strings.Join(p.Traits, " · "))
		}
	}
	buf.WriteString("\n")
}

func writeArtistsText(buf *bytes.Buffer, artists []models.ArtistSummary) {
	buf.WriteString("Your Top Artists\n")
	if len(artists) == 0 {
		buf.WriteString("  No top artists yet\n")
	}
	for i, a := range artists {
		fmt.Fprintf(buf, "  #%-2d %s %s Popularity: %d%%\n", i+1, pad(a.Name, nameWidth), pad(genreList(a.Genres, 2), nameWidth), a.Popularity)
	}
	buf.WriteString("\n")
}

func writeTracksText(buf *bytes.Buffer, tracks []models.TrackSummary) {
	buf.WriteString("Your Top Tracks\n")
	if len(tracks) == 0 {
		buf.WriteString("  No top tracks yet\n")
	}
	for i, tr := range tracks {
		fmt.Fprintf(buf, "  #%-2d %s %s\n", i+1, pad(tr.Name, nameWidth), tr.ArtistNames()+" • "+tr.Album.Name)
		fmt.Fprintf(buf, "      %s • Popularity: %d%%\n", insights.FormatDuration(tr.DurationMS), tr.Popularity)
	}
	buf.WriteString("\n")
}

// InsightsToText renders only the derived statements and personality labels.
func InsightsToText(summary insights.Summary) []byte {
	var buf bytes.Buffer

	if summary.Stats == nil {
		buf.WriteString("No listening stats available\n")
	} else {
		buf.WriteString("Audio insights\n")
		for _, line := range summary.Stats.AudioInsights {
			fmt.Fprintf(&buf, "  %s\n", line)
		}
		buf.WriteString("Genre insights\n")
		for _, line := range summary.Stats.GenreInsights {
			fmt.Fprintf(&buf, "  %s\n", line)
		}
		fmt.Fprintf(&buf, "Mood: %s  Energy: %s  Dance: %s\n", summary.Stats.Mood, summary.Stats.Energy, summary.Stats.Dance)
	}

	if len(summary.Personality) == 0 {
		buf.WriteString("No personality data available\n")
		return buf.Bytes()
	}
	buf.WriteString("Personality\n")
	for _, p := range summary.Personality {
		fmt.Fprintf(&buf, "  %s %s %g%%\n", p.Emoji, p.Label, p.Percentage)
	}
	return buf.Bytes()
}

// RecentToText renders recently played tracks, newest first as returned by the backend.
func RecentToText(tracks []models.RecentTrack, loc *time.Location) []byte {
	var buf bytes.Buffer
	if len(tracks) == 0 {
		buf.WriteString("No recently played tracks\n")
		return buf.Bytes()
	}
	if loc == nil {
		loc = time.Local
	}

	for _, r := range tracks {
		fmt.Fprintf(&buf, "%s  %s %s %s\n",
			r.PlayedAt.In(loc).Format("Jan 02 15:04"),
			pad(r.Track.Name, nameWidth),
			pad(r.Track.ArtistNames(), nameWidth),
			insights.FormatDuration(r.Track.DurationMS),
		)
	}
	return buf.Bytes()
}

// DashboardToMarkdown renders a dashboard as a Markdown report with an optional avatar image.
func DashboardToMarkdown(vm *models.DashboardViewModel, avatarFilename string) []byte {
	var buf bytes.Buffer
	summary := insights.Summarize(vm)
	profile := vm.Profile()

	fmt.Fprintf(&buf, "# Spotify Wrapped So Far: %s\n\n", profile.Name())
	if avatarFilename != "" {
		fmt.Fprintf(&buf, "![Avatar](%s)\n\n", avatarFilename)
	}
	fmt.Fprintf(&buf, "**Followers**: %d\n\n", profile.Followers)
	fmt.Fprintf(&buf, "_Generated %s_\n\n", vm.LoadedAt().Format("January 2, 2006 15:04"))

	if s := summary.Stats; s != nil {
		buf.WriteString("## Listening Stats\n\n")
		buf.WriteString("| Stat | Value | |\n|---|---|---|\n")
		fmt.Fprintf(&buf, "| Total listening time | %dh | %d minutes |\n", s.ListeningHours, s.ListeningMinutes)
		fmt.Fprintf(&buf, "| Mood score | %d%% | %s |\n", s.MoodPercent, s.Mood)
		fmt.Fprintf(&buf, "| Energy level | %d%% | %s |\n", s.EnergyPercent, s.Energy)
		fmt.Fprintf(&buf, "| Danceability | %d%% | %s |\n\n", s.DancePercent, s.Dance)

		buf.WriteString("## Audio DNA\n\n")
		for _, p := range s.Radar {
			fmt.Fprintf(&buf, "- **%s**: %d%%\n", p.Label, p.Value)
		}
		buf.WriteString("\n")
		for _, line := range s.AudioInsights {
			fmt.Fprintf(&buf, "> %s\n>\n", line)
		}

		buf.WriteString("\n## Genre Universe\n\n")
		buf.WriteString("| Genre | Artists | Share |\n|---|---|---|\n")
		for _, g := range s.GenreChart {
			fmt.Fprintf(&buf, "| %s | %d | %s |\n", g.Genre, g.Count, g.PercentLabel())
		}
		fmt.Fprintf(&buf, "\n**Diversity score**: %s\n\n", s.Diversity)
		for _, line := range s.GenreInsights {
			fmt.Fprintf(&buf, "- %s\n", line)
		}

		buf.WriteString("\n## When You Listen Most\n\n")
		for _, h := range s.PeakHours {
			fmt.Fprintf(&buf, "- %s: %d plays\n", h.Label, h.Count)
		}
		buf.WriteString("\n")
	} else {
		buf.WriteString("## Listening Stats\n\nNo listening stats available.\n\n")
	}

	buf.WriteString("## Music Personality\n\n")
	if len(summary.Personality) == 0 {
		buf.WriteString("No personality data available.\n\n")
	}
	for _, p := range summary.Personality {
		fmt.Fprintf(&buf, "### %s %s (%g%%)\n\n", p.Emoji, p.Label, p.Percentage)
		if p.Description != "" {
			fmt.Fprintf(&buf, "%s\n\n", p.Description)
		}
		if len(p.Traits) > 0 {
			fmt.Fprintf(&buf, "_%s_\n\n", strings.Join(p.Traits, ", "))
		}
	}

	buf.WriteString("## Top Artists\n\n")
	for i, a := range vm.TopArtists() {
		fmt.Fprintf(&buf, "%d. **%s**", i+1, a.Name)
		if genres := genreList(a.Genres, 2); genres != "" {
			fmt.Fprintf(&buf, " (%s)", genres)
		}
		fmt.Fprintf(&buf, " [popularity %d%%]\n", a.Popularity)
	}

	buf.WriteString("\n## Top Tracks\n\n")
	for i, tr := range vm.TopTracks() {
		fmt.Fprintf(&buf, "%d. %s - %s", i+1, tr.ArtistNames(), tr.Name)
		if tr.Album.Name != "" {
			fmt.Fprintf(&buf, " (%s)", tr.Album.Name)
		}
		fmt.Fprintf(&buf, " [%s]\n", insights.FormatDuration(tr.DurationMS))
	}

	return buf.Bytes()
}

// DownloadImage downloads an image from the given URL and returns the raw bytes
func DownloadImage(client *http.Client, url string) ([]byte, error) {
	if url == "" {
		return nil, fmt.Errorf("empty URL provided")
	}
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}

	resp, err := client.Get(url)
	if err != nil {
		return nil, fmt.Errorf("failed to download image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to download image: status %d", resp.StatusCode)
	}

	imageData, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read image data: %w", err)
	}

	return imageData, nil
}

// MarkdownExportResult contains information about files created by WriteMarkdownExport
type MarkdownExportResult struct {
	Directory string
	Files     []string
	Avatar    string
	Warnings  []error
}

// WriteMarkdownExport writes a dashboard report to {dir}/README.md, plus {dir}/avatar.jpg when the
// profile has an image and client is non-nil.
//
// Directory name defaults to wrapped-{date}. A failed avatar download is recorded as a warning.
func WriteMarkdownExport(vm *models.DashboardViewModel, outputDir string, client *http.Client) (*MarkdownExportResult, error) {
	if outputDir == "" {
		outputDir = "wrapped-" + vm.LoadedAt().Format("2006-01-02")
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	result := &MarkdownExportResult{
		Directory: outputDir,
		Files:     []string{},
	}

	var avatarFilename string
	if url := vm.Profile().Avatar(); url != "" && client != nil {
		imageData, err := DownloadImage(client, url)
		if err != nil {
			result.Warnings = append(result.Warnings, err)
		} else {
			avatarFilename = "avatar.jpg"
			avatarPath := filepath.Join(outputDir, avatarFilename)
			if err := os.WriteFile(avatarPath, imageData, 0644); err != nil {
				result.Warnings = append(result.Warnings, fmt.Errorf("failed to save avatar: %w", err))
				avatarFilename = ""
			} else {
				result.Avatar = avatarPath
				result.Files = append(result.Files, avatarPath)
			}
		}
	}

	mdFile := filepath.Join(outputDir, "README.md")
	if err := os.WriteFile(mdFile, DashboardToMarkdown(vm, avatarFilename), 0644); err != nil {
		return nil, fmt.Errorf("failed to write Markdown file: %w", err)
	}
	result.Files = append(result.Files, mdFile)

	return result, nil
}
