package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/desertthunder/sofar/internal/formatter"
	"github.com/desertthunder/sofar/internal/insights"
	"github.com/desertthunder/sofar/internal/models"
)

const barWidth = 20

func (m *Model) renderLoading() string {
	var b strings.Builder
	b.WriteString(styles.title.Render("Spotify Wrapped So Far"))
	b.WriteString("\n")

	msg := "Checking your session..."
	if m.progress.Message != "" {
		msg = m.progress.Message
	} else if m.progressChan != nil {
		msg = "Loading your Spotify data..."
	}
	fmt.Fprintf(&b, "%s %s\n", m.spinner.View(), msg)
	if m.progress.Total > 0 {
		percent := float64(m.progress.Step) / float64(m.progress.Total) * 100
		fmt.Fprintf(&b, "\n%s %s\n", formatter.Bar(percent, barWidth), m.progress.Phase)
	}

	b.WriteString("\n")
	b.WriteString(styles.help.Render("q: quit"))
	return b.String()
}

func (m *Model) renderUnauthenticated() string {
	var b strings.Builder
	b.WriteString(styles.title.Render("Spotify Wrapped So Far"))
	b.WriteString("\n")
	b.WriteString("Discover your music personality and listening habits.\n\n")
	b.WriteString(styles.warn.Render("You are not logged in."))
	b.WriteString("\n\n")
	b.WriteString(styles.help.Render("l: log in with Spotify • q: quit"))
	return b.String()
}

func (m *Model) renderLoadFailed() string {
	var b strings.Builder
	b.WriteString(styles.title.Render("Spotify Wrapped So Far"))
	b.WriteString("\n")
	b.WriteString(styles.err.Render(formatter.LoadFailedMessage))
	b.WriteString("\n\n")
	b.WriteString(styles.help.Render("r: retry • l: log in again • q: quit"))
	return b.String()
}

func (m *Model) renderDashboard() string {
	if m.dashboard == nil {
		return ""
	}

	var b strings.Builder
	b.WriteString(renderHeader(m.dashboard.Profile()))
	b.WriteString("\n")
	b.WriteString(m.renderTabs())
	b.WriteString("\n\n")

	switch m.section {
	case OverviewSection:
		b.WriteString(m.overview.View())
	case ArtistsSection:
		b.WriteString(m.artistList.View())
	case TracksSection:
		b.WriteString(m.trackList.View())
	}

	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m *Model) renderTabs() string {
	tabs := make([]string, 0, sectionCount)
	for s := OverviewSection; s < sectionCount; s++ {
		if s == m.section {
			tabs = append(tabs, styles.active.Render(s.String()))
		} else {
			tabs = append(tabs, styles.tab.Render(s.String()))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func renderHeader(p models.UserProfile) string {
	header := styles.title.Render("Welcome back, " + p.Name())
	details := []string{}
	if p.Email != "" {
		details = append(details, p.Email)
	}
	details = append(details, fmt.Sprintf("%d followers", p.Followers))
	return header + "\n" + styles.help.Render(strings.Join(details, " • "))
}

// renderOverview draws the stats cards, audio profile, genres and personality.
func renderOverview(vm *models.DashboardViewModel, width int) string {
	summary := insights.Summarize(vm)

	var b strings.Builder
	b.WriteString(styles.section.Render("Your Listening Stats"))
	b.WriteString("\n")
	if summary.Stats == nil {
		b.WriteString(styles.help.Render("No listening stats available"))
		b.WriteString("\n")
	} else {
		b.WriteString(renderStats(summary.Stats, width))
	}

	b.WriteString(styles.section.Render("🎵 Your Music Personality"))
	b.WriteString("\n")
	if len(summary.Personality) == 0 {
		b.WriteString(styles.help.Render("No personality data available"))
		b.WriteString("\n")
	} else {
		b.WriteString(renderPersonality(summary.Personality))
	}

	b.WriteString("\n🎉 Your Spotify Wrapped So Far!\n")
	return b.String()
}

func renderStats(s *insights.StatsSummary, width int) string {
	cards := []string{
		styles.card.Render(fmt.Sprintf("Listening time\n%dh\n%d minutes", s.ListeningHours, s.ListeningMinutes)),
		styles.card.Render(fmt.Sprintf("Mood score\n%d%%\n%s", s.MoodPercent, s.Mood)),
		styles.card.Render(fmt.Sprintf("Energy level\n%d%%\n%s", s.EnergyPercent, s.Energy)),
		styles.card.Render(fmt.Sprintf("Danceability\n%d%%\n%s", s.DancePercent, s.Dance)),
	}

	var b strings.Builder
	row := lipgloss.JoinHorizontal(lipgloss.Top, cards...)
	if width > 0 && lipgloss.Width(row) > width {
		row = lipgloss.JoinVertical(lipgloss.Left,
			lipgloss.JoinHorizontal(lipgloss.Top, cards[:2]...),
			lipgloss.JoinHorizontal(lipgloss.Top, cards[2:]...),
		)
	}
	b.WriteString(row)
	b.WriteString("\n")

	b.WriteString(styles.section.Render("📊 Your Audio DNA"))
	b.WriteString("\n")
	for _, p := range s.Radar {
		fmt.Fprintf(&b, "  %-18s %s %3d%%\n", p.Label, formatter.Bar(float64(p.Value), barWidth), p.Value)
	}
	for _, line := range s.AudioInsights {
		fmt.Fprintf(&b, "  %s\n", line)
	}

	b.WriteString(styles.section.Render("🎭 Your Genre Universe"))
	b.WriteString("\n")
	if len(s.GenreChart) == 0 {
		b.WriteString(styles.help.Render("No genre data available"))
		b.WriteString("\n")
	}
	for _, g := range s.GenreChart {
		bar := styles.As(formatter.Bar(g.Percentage, barWidth), lipgloss.Color(g.Color))
		fmt.Fprintf(&b, "  %-20s %s %6s\n", truncate(g.Genre, 20), bar, g.PercentLabel())
	}
	for _, line := range s.GenreInsights {
		fmt.Fprintf(&b, "  %s\n", line)
	}
	if len(s.GenreChart) > 0 {
		fmt.Fprintf(&b, "  Total genres: %d • Diversity score: %s\n", s.GenreCount, s.Diversity)
	}

	b.WriteString(styles.section.Render("When You Listen Most"))
	b.WriteString("\n")
	if len(s.PeakHours) == 0 {
		b.WriteString(styles.help.Render("No listening trends available"))
		b.WriteString("\n")
	}
	for _, h := range s.PeakHours {
		fmt.Fprintf(&b, "  %-6s %s %d\n", h.Label, formatter.Bar(h.Percent, barWidth), h.Count)
	}
	return b.String()
}

func renderPersonality(entries []insights.PersonalityEntry) string {
	var b strings.Builder
	for _, p := range entries {
		color := lipgloss.Color(p.Color)
		label := strings.TrimSpace(p.Emoji + " " + p.Label)
		fmt.Fprintf(&b, "  %s %s %g%%\n",
			styles.As(label, color),
			styles.As(formatter.Bar(p.Percentage, barWidth), color),
			p.Percentage,
		)
		if p.Description != "" {
			fmt.Fprintf(&b, "    %s\n", p.Description)
		}
		if len(p.Traits) > 0 {
			b.WriteString("    ")
			b.WriteString(styles.help.Render(strings.Join(p.Traits, " · ")))
			b.WriteString("\n")
		}
	}
	return b.String()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
