package ui

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/sofar/internal/models"
	"github.com/desertthunder/sofar/internal/session"
	"github.com/desertthunder/sofar/internal/shared"
	"github.com/desertthunder/sofar/internal/tasks"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	LoadingView ViewState = iota
	UnauthenticatedView
	LoadFailedView
	DashboardView
)

func (v ViewState) String() string {
	switch v {
	case LoadingView:
		return "loading"
	case UnauthenticatedView:
		return "unauthenticated"
	case LoadFailedView:
		return "load_failed"
	case DashboardView:
		return "dashboard"
	default:
		return ""
	}
}

// Section is a tab within [DashboardView].
type Section int

const (
	OverviewSection Section = iota
	ArtistsSection
	TracksSection
	sectionCount
)

func (s Section) String() string {
	switch s {
	case OverviewSection:
		return "Overview"
	case ArtistsSection:
		return "Top Artists"
	case TracksSection:
		return "Top Tracks"
	default:
		return ""
	}
}

// SessionChecker re-evaluates the stored session. Implemented by [session.Gate].
type SessionChecker interface {
	Evaluate() (models.Session, session.State)
}

// SessionWatcher publishes gate transitions. Implemented by [session.Gate].
type SessionWatcher interface {
	Subscribe() <-chan session.State
	Unsubscribe(<-chan session.State)
}

// Loader performs a dashboard load. Implemented by [tasks.DashboardEngine].
type Loader interface {
	Load(ctx context.Context, sess models.Session, progress chan<- tasks.ProgressUpdate) (*models.DashboardViewModel, error)
}

// Model represents the TUI application state.
type Model struct {
	ctx            context.Context
	view           ViewState
	section        Section
	gate           SessionChecker
	watcher        SessionWatcher
	gateChanges    <-chan session.State
	loader         Loader
	width          int
	height         int
	spinner        spinner.Model
	overview       viewport.Model
	artistList     list.Model
	trackList      list.Model
	dashboard      *models.DashboardViewModel
	progressChan   chan tasks.ProgressUpdate
	done           chan loadResult
	progress       tasks.ProgressUpdate
	err            error
	loginRequested bool
	help           help.Model
	keys           keyMap
}

// NewModel creates a new TUI model with the provided dependencies.
func NewModel(ctx context.Context, gate SessionChecker, loader Loader) *Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = styles.ok

	m := &Model{
		ctx:        ctx,
		view:       LoadingView,
		gate:       gate,
		loader:     loader,
		width:      80,
		height:     24,
		spinner:    s,
		overview:   viewport.New(80, 18),
		artistList: newList("Your Top Artists"),
		trackList:  newList("Your Top Tracks"),
		help:       help.New(),
		keys:       newKeyMap(),
	}
	if w, ok := gate.(SessionWatcher); ok {
		m.watcher = w
		m.gateChanges = w.Subscribe()
	}
	return m
}

// Close stops listening for gate transitions.
func (m *Model) Close() {
	if m.watcher != nil && m.gateChanges != nil {
		m.watcher.Unsubscribe(m.gateChanges)
		m.gateChanges = nil
	}
}

func newList(title string) list.Model {
	l := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	l.Title = title
	l.SetShowHelp(false)
	return l
}

// ViewState returns the current view state.
func (m *Model) ViewState() ViewState { return m.view }

// Dashboard returns the last loaded view-model, if any.
func (m *Model) Dashboard() *models.DashboardViewModel { return m.dashboard }

// LoginRequested reports whether the user asked to log in before quitting.
func (m *Model) LoginRequested() bool { return m.loginRequested }

// Init initializes the TUI by checking the session.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.checkSession(), m.watchGate())
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		return m.handleKeys(msg)

	case spinner.TickMsg:
		if m.view != LoadingView {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case Msg:
		return m.handleMsg(msg)
	}

	return m.updateSection(msg)
}

func (m *Model) handleMsg(msg Msg) (tea.Model, tea.Cmd) {
	switch msg.kind {
	case MsgSessionChecked:
		checked := msg.data.(sessionChecked)
		if checked.state != session.StateAuthenticated {
			m.view = UnauthenticatedView
			m.err = nil
			return m, nil
		}
		m.view = LoadingView
		return m, tea.Batch(m.spinner.Tick, m.startLoad(checked.session))

	case MsgProgressUpdate:
		m.progress = msg.data.(tasks.ProgressUpdate)
		return m, waitForProgress(m.progressChan, m.done)

	case MsgLoadComplete:
		result := msg.data.(loadResult)
		m.progressChan, m.done = nil, nil
		m.progress = tasks.ProgressUpdate{}

		switch {
		case errors.Is(result.err, shared.ErrSessionInvalid):
			m.view = UnauthenticatedView
			m.err = nil
		case result.err != nil || result.vm == nil:
			m.view = LoadFailedView
			m.err = result.err
		default:
			m.view = DashboardView
			m.err = nil
			m.setDashboard(result.vm)
		}
		return m, nil

	case MsgGateChanged:
		// A load in flight reports its own outcome.
		if msg.data.(session.State) == session.StateUnauthenticated && m.view == DashboardView {
			m.view = UnauthenticatedView
			m.dashboard = nil
			m.err = nil
		}
		return m, m.watchGate()
	}
	return m, nil
}

func (m *Model) handleKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.quit) {
		return m, tea.Quit
	}

	switch m.view {
	case UnauthenticatedView:
		if key.Matches(msg, m.keys.login) {
			m.loginRequested = true
			return m, tea.Quit
		}

	case LoadFailedView:
		switch {
		case key.Matches(msg, m.keys.login):
			m.loginRequested = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.refresh):
			return m.reload()
		}

	case DashboardView:
		switch {
		case key.Matches(msg, m.keys.refresh):
			return m.reload()
		case msg.String() == "shift+tab":
			m.section = (m.section + sectionCount - 1) % sectionCount
			return m, nil
		case key.Matches(msg, m.keys.tab):
			m.section = (m.section + 1) % sectionCount
			return m, nil
		}
		return m.updateSection(msg)
	}
	return m, nil
}

// reload re-checks the gate before loading again.
func (m *Model) reload() (tea.Model, tea.Cmd) {
	m.view = LoadingView
	m.err = nil
	return m, tea.Batch(m.spinner.Tick, m.checkSession())
}

func (m *Model) updateSection(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.view != DashboardView {
		return m, nil
	}

	var cmd tea.Cmd
	switch m.section {
	case OverviewSection:
		m.overview, cmd = m.overview.Update(msg)
	case ArtistsSection:
		m.artistList, cmd = m.artistList.Update(msg)
	case TracksSection:
		m.trackList, cmd = m.trackList.Update(msg)
	}
	return m, cmd
}

func (m *Model) resize(width, height int) {
	m.width, m.height = width, height
	bodyHeight := max(height-6, 3)
	m.overview.Width = width
	m.overview.Height = bodyHeight
	m.artistList.SetSize(width, bodyHeight)
	m.trackList.SetSize(width, bodyHeight)
	if m.dashboard != nil {
		m.overview.SetContent(renderOverview(m.dashboard, width))
	}
}

func (m *Model) setDashboard(vm *models.DashboardViewModel) {
	m.dashboard = vm
	m.artistList.SetItems(artistItems(vm.TopArtists()))
	m.trackList.SetItems(trackItems(vm.TopTracks()))
	m.overview.SetContent(renderOverview(vm, m.width))
	m.overview.GotoTop()
}

func (m *Model) checkSession() tea.Cmd {
	return func() tea.Msg {
		sess, state := m.gate.Evaluate()
		return sessionCheckedMsg(sess, state)
	}
}

// watchGate waits for the next gate transition. It returns nil when nothing is subscribed.
func (m *Model) watchGate() tea.Cmd {
	changes := m.gateChanges
	if changes == nil {
		return nil
	}
	return func() tea.Msg {
		select {
		case state, ok := <-changes:
			if !ok {
				return nil
			}
			return gateChangedMsg(state)
		case <-m.ctx.Done():
			return nil
		}
	}
}

func (m *Model) startLoad(sess models.Session) tea.Cmd {
	progress := make(chan tasks.ProgressUpdate, 16)
	done := make(chan loadResult, 1)
	m.progressChan, m.done = progress, done

	go func() {
		vm, err := m.loader.Load(m.ctx, sess, progress)
		done <- loadResult{vm: vm, err: err}
		close(progress)
	}()

	return waitForProgress(progress, done)
}

func waitForProgress(progress <-chan tasks.ProgressUpdate, done <-chan loadResult) tea.Cmd {
	return func() tea.Msg {
		if progress == nil || done == nil {
			return loadCompleteMsg(nil, fmt.Errorf("%w: no load in progress", shared.ErrRequiredDataUnavailable))
		}
		update, ok := <-progress
		if !ok {
			result := <-done
			return loadCompleteMsg(result.vm, result.err)
		}
		return progressUpdateMsg(update)
	}
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	switch m.view {
	case LoadingView:
		return m.renderLoading()
	case UnauthenticatedView:
		return m.renderUnauthenticated()
	case LoadFailedView:
		return m.renderLoadFailed()
	case DashboardView:
		return m.renderDashboard()
	default:
		return ""
	}
}
