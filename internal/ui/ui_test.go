package ui

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/sofar/internal/models"
	"github.com/desertthunder/sofar/internal/session"
	"github.com/desertthunder/sofar/internal/shared"
	"github.com/desertthunder/sofar/internal/tasks"
	tu "github.com/desertthunder/sofar/internal/testing"
)

type fakeGate struct {
	sess  models.Session
	state session.State
	calls int
}

func (g *fakeGate) Evaluate() (models.Session, session.State) {
	g.calls++
	return g.sess, g.state
}

type fakeLoader struct {
	vm      *models.DashboardViewModel
	err     error
	updates []tasks.ProgressUpdate
	calls   int
}

func (l *fakeLoader) Load(_ context.Context, _ models.Session, progress chan<- tasks.ProgressUpdate) (*models.DashboardViewModel, error) {
	l.calls++
	for _, u := range l.updates {
		progress <- u
	}
	return l.vm, l.err
}

type watchingGate struct {
	*fakeGate
	changes      chan session.State
	unsubscribed bool
}

func (g *watchingGate) Subscribe() <-chan session.State { return g.changes }

func (g *watchingGate) Unsubscribe(ch <-chan session.State) {
	if ch == g.changes {
		g.unsubscribed = true
	}
}

func validGate() *fakeGate {
	return &fakeGate{
		sess:  models.Session{Token: "tok", ExpiresAt: time.Now().Add(time.Hour)},
		state: session.StateAuthenticated,
	}
}

func fixtureDashboard() *models.DashboardViewModel {
	return models.NewDashboard(models.DashboardParts{
		LoadID:      "load-1",
		LoadedAt:    time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC),
		Profile:     tu.FixtureProfile(),
		TopArtists:  tu.FixtureArtists(),
		TopTracks:   tu.FixtureTracks(),
		Stats:       models.Present(tu.FixtureStats()),
		Personality: models.Present(tu.FixturePersonality()),
	})
}

// settle runs cmd and every command it produces, feeding [Msg] results back into the model.
//
// Batches are expanded. Spinner ticks and other foreign messages are dropped.
func settle(t *testing.T, m *Model, cmd tea.Cmd) {
	t.Helper()
	queue := []tea.Cmd{cmd}
	for steps := 0; len(queue) > 0; steps++ {
		if steps > 64 {
			t.Fatal("model did not settle")
		}
		next := queue[0]
		queue = queue[1:]
		if next == nil {
			continue
		}

		switch msg := next().(type) {
		case tea.BatchMsg:
			queue = append(queue, msg...)
		case Msg:
			_, c := m.Update(msg)
			queue = append(queue, c)
		}
	}
}

func keyPress(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestModelLoad(t *testing.T) {
	ctx := context.Background()

	t.Run("starts loading", func(t *testing.T) {
		m := NewModel(ctx, validGate(), &fakeLoader{})
		if m.ViewState() != LoadingView {
			t.Errorf("expected loading view, got %s", m.ViewState())
		}
		if !strings.Contains(m.View(), "Checking your session") {
			t.Errorf("unexpected loading view %q", m.View())
		}
	})

	t.Run("unauthenticated session shows login prompt", func(t *testing.T) {
		loader := &fakeLoader{}
		m := NewModel(ctx, &fakeGate{state: session.StateUnauthenticated}, loader)
		settle(t, m, m.checkSession())

		if m.ViewState() != UnauthenticatedView {
			t.Fatalf("expected unauthenticated view, got %s", m.ViewState())
		}
		if loader.calls != 0 {
			t.Errorf("expected no load, got %d calls", loader.calls)
		}
		if !strings.Contains(m.View(), "not logged in") {
			t.Errorf("unexpected view %q", m.View())
		}
	})

	t.Run("successful load shows dashboard", func(t *testing.T) {
		loader := &fakeLoader{
			vm: fixtureDashboard(),
			updates: []tasks.ProgressUpdate{
				{Phase: tasks.FetchRequired, Total: 3, Message: "Loading profile"},
				{Phase: tasks.Merge, Step: 1, Total: 1, Message: "Dashboard ready"},
			},
		}
		m := NewModel(ctx, validGate(), loader)
		settle(t, m, m.checkSession())

		if m.ViewState() != DashboardView {
			t.Fatalf("expected dashboard view, got %s", m.ViewState())
		}
		if m.Dashboard() == nil || m.Dashboard().LoadID() != "load-1" {
			t.Errorf("expected dashboard load-1, got %+v", m.Dashboard())
		}
		view := m.View()
		for _, want := range []string{"Welcome back, Test Listener", "42 followers", "Your Listening Stats", "Explorer"} {
			if !strings.Contains(view, want) {
				t.Errorf("expected %q in dashboard view", want)
			}
		}
	})

	t.Run("session invalid during load returns to login", func(t *testing.T) {
		loader := &fakeLoader{err: shared.ErrSessionInvalid}
		m := NewModel(ctx, validGate(), loader)
		settle(t, m, m.checkSession())

		if m.ViewState() != UnauthenticatedView {
			t.Errorf("expected unauthenticated view, got %s", m.ViewState())
		}
	})

	t.Run("required failure shows load failed", func(t *testing.T) {
		err := errors.Join(shared.ErrRequiredDataUnavailable, shared.ErrUnauthorized)
		m := NewModel(ctx, validGate(), &fakeLoader{err: err})
		settle(t, m, m.checkSession())

		if m.ViewState() != LoadFailedView {
			t.Fatalf("expected load failed view, got %s", m.ViewState())
		}
		if !strings.Contains(m.View(), "Your session may have expired") {
			t.Errorf("unexpected view %q", m.View())
		}
	})

	t.Run("missing view-model is a failure", func(t *testing.T) {
		m := NewModel(ctx, validGate(), &fakeLoader{})
		settle(t, m, m.checkSession())

		if m.ViewState() != LoadFailedView {
			t.Errorf("expected load failed view, got %s", m.ViewState())
		}
	})

	t.Run("optional sections unavailable", func(t *testing.T) {
		reason := shared.OptionalDataUnavailable("stats", errors.New("down"))
		vm := models.NewDashboard(models.DashboardParts{
			Profile:     tu.FixtureProfile(),
			TopArtists:  tu.FixtureArtists(),
			Stats:       models.Absent[models.ListeningStats](reason),
			Personality: models.Absent[[]models.PersonalityProfile](reason),
		})
		m := NewModel(ctx, validGate(), &fakeLoader{vm: vm})
		settle(t, m, m.checkSession())

		view := m.View()
		for _, want := range []string{"No listening stats available", "No personality data available"} {
			if !strings.Contains(view, want) {
				t.Errorf("expected %q in view", want)
			}
		}
	})
}

func TestModelKeys(t *testing.T) {
	ctx := context.Background()

	loaded := func(t *testing.T) (*Model, *fakeGate, *fakeLoader) {
		t.Helper()
		gate := validGate()
		loader := &fakeLoader{vm: fixtureDashboard()}
		m := NewModel(ctx, gate, loader)
		settle(t, m, m.checkSession())
		if m.ViewState() != DashboardView {
			t.Fatalf("expected dashboard view, got %s", m.ViewState())
		}
		return m, gate, loader
	}

	t.Run("quit", func(t *testing.T) {
		m, _, _ := loaded(t)
		_, cmd := m.Update(keyPress("q"))
		if cmd == nil {
			t.Fatal("expected quit command")
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Error("expected tea.QuitMsg")
		}
	})

	t.Run("tab cycles sections", func(t *testing.T) {
		m, _, _ := loaded(t)
		tab := tea.KeyMsg{Type: tea.KeyTab}

		m.Update(tab)
		if m.section != ArtistsSection {
			t.Errorf("expected artists, got %s", m.section)
		}
		if !strings.Contains(m.View(), "Phoebe Bridgers") {
			t.Error("expected artist list in view")
		}

		m.Update(tab)
		m.Update(tab)
		if m.section != OverviewSection {
			t.Errorf("expected wrap to overview, got %s", m.section)
		}

		m.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
		if m.section != TracksSection {
			t.Errorf("expected tracks, got %s", m.section)
		}
	})

	t.Run("refresh re-checks the session", func(t *testing.T) {
		m, gate, loader := loaded(t)
		gate.state = session.StateUnauthenticated

		_, _ = m.Update(keyPress("r"))
		if m.ViewState() != LoadingView {
			t.Errorf("expected loading view, got %s", m.ViewState())
		}
		settle(t, m, m.checkSession())

		if m.ViewState() != UnauthenticatedView {
			t.Errorf("expected unauthenticated view, got %s", m.ViewState())
		}
		if gate.calls < 2 {
			t.Errorf("expected gate re-evaluated, got %d calls", gate.calls)
		}
		if loader.calls != 1 {
			t.Errorf("expected a single load, got %d", loader.calls)
		}
	})

	t.Run("login from unauthenticated view", func(t *testing.T) {
		m := NewModel(ctx, &fakeGate{state: session.StateUnauthenticated}, &fakeLoader{})
		settle(t, m, m.checkSession())

		_, cmd := m.Update(keyPress("l"))
		if !m.LoginRequested() {
			t.Error("expected login requested")
		}
		if cmd == nil {
			t.Fatal("expected quit command")
		}
	})

	t.Run("login ignored on dashboard", func(t *testing.T) {
		m, _, _ := loaded(t)
		m.Update(keyPress("l"))
		if m.LoginRequested() {
			t.Error("expected no login request from dashboard")
		}
	})

	t.Run("retry after failure", func(t *testing.T) {
		loader := &fakeLoader{err: shared.ErrRequiredDataUnavailable}
		m := NewModel(ctx, validGate(), loader)
		settle(t, m, m.checkSession())

		loader.err = nil
		loader.vm = fixtureDashboard()
		m.Update(keyPress("r"))
		settle(t, m, m.checkSession())

		if m.ViewState() != DashboardView {
			t.Errorf("expected dashboard after retry, got %s", m.ViewState())
		}
	})
}

func TestGateChanges(t *testing.T) {
	ctx := context.Background()

	t.Run("revoked session leaves the dashboard", func(t *testing.T) {
		gate := &watchingGate{fakeGate: validGate(), changes: make(chan session.State, 1)}
		m := NewModel(ctx, gate, &fakeLoader{vm: fixtureDashboard()})
		settle(t, m, m.checkSession())
		if m.ViewState() != DashboardView {
			t.Fatalf("expected dashboard view, got %s", m.ViewState())
		}

		gate.changes <- session.StateUnauthenticated
		msg := m.watchGate()()
		_, cmd := m.Update(msg)

		if m.ViewState() != UnauthenticatedView {
			t.Errorf("expected unauthenticated view, got %s", m.ViewState())
		}
		if m.Dashboard() != nil {
			t.Error("expected dashboard to be dropped")
		}
		if cmd == nil {
			t.Error("expected the watch to be re-armed")
		}
	})

	t.Run("loading ignores transitions", func(t *testing.T) {
		gate := &watchingGate{fakeGate: validGate(), changes: make(chan session.State, 1)}
		m := NewModel(ctx, gate, &fakeLoader{})

		m.Update(gateChangedMsg(session.StateUnauthenticated))
		if m.ViewState() != LoadingView {
			t.Errorf("expected loading view, got %s", m.ViewState())
		}
	})

	t.Run("close unsubscribes", func(t *testing.T) {
		gate := &watchingGate{fakeGate: validGate(), changes: make(chan session.State, 1)}
		m := NewModel(ctx, gate, &fakeLoader{})

		m.Close()
		if !gate.unsubscribed {
			t.Error("expected model to unsubscribe from the gate")
		}
		if m.watchGate() != nil {
			t.Error("expected no watch after close")
		}
	})

	t.Run("plain checker has no watch", func(t *testing.T) {
		m := NewModel(ctx, validGate(), &fakeLoader{})
		if m.watchGate() != nil {
			t.Error("expected no watch without a subscribable gate")
		}
	})
}

func TestWindowResize(t *testing.T) {
	m := NewModel(context.Background(), validGate(), &fakeLoader{vm: fixtureDashboard()})
	settle(t, m, m.checkSession())

	m.Update(tea.WindowSizeMsg{Width: 40, Height: 20})
	if m.overview.Width != 40 || m.overview.Height != 14 {
		t.Errorf("unexpected viewport size %dx%d", m.overview.Width, m.overview.Height)
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("indie pop", 20); got != "indie pop" {
		t.Errorf("expected unchanged, got %q", got)
	}
	if got := truncate("progressive bluegrass", 10); got != "progressi…" {
		t.Errorf("unexpected truncation %q", got)
	}
}
