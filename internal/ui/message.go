package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/sofar/internal/models"
	"github.com/desertthunder/sofar/internal/session"
	"github.com/desertthunder/sofar/internal/tasks"
)

// MsgKind enumerates all message types in the application.
type MsgKind int

// Msg represents all possible messages in the TUI (Elm-style message union).
type Msg struct {
	kind MsgKind
	data any
}

var (
	_ tea.Msg = Msg{}
)

const (
	MsgSessionChecked MsgKind = iota
	MsgProgressUpdate
	MsgLoadComplete
	MsgGateChanged
)

type sessionChecked struct {
	session models.Session
	state   session.State
}

type loadResult struct {
	vm  *models.DashboardViewModel
	err error
}

// sessionCheckedMsg is the constructor for [MsgSessionChecked]
func sessionCheckedMsg(sess models.Session, state session.State) Msg {
	return Msg{kind: MsgSessionChecked, data: sessionChecked{session: sess, state: state}}
}

// progressUpdateMsg is the constructor for [MsgProgressUpdate]
func progressUpdateMsg(update tasks.ProgressUpdate) Msg {
	return Msg{kind: MsgProgressUpdate, data: update}
}

// loadCompleteMsg is the constructor for [MsgLoadComplete]
func loadCompleteMsg(vm *models.DashboardViewModel, err error) Msg {
	return Msg{kind: MsgLoadComplete, data: loadResult{vm: vm, err: err}}
}

// gateChangedMsg is the constructor for [MsgGateChanged]
func gateChangedMsg(state session.State) Msg {
	return Msg{kind: MsgGateChanged, data: state}
}
