package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/chdm3u/internal/models"
	"github.com/desertthunder/chdm3u/internal/tasks"
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
	MsgPlanFetched MsgKind = iota
	MsgProgressUpdate
	MsgRunComplete
)

// resultPayload carries the outcome of a plan or a run
type resultPayload struct {
	result *models.RunResult
	err    error
}

// planFetchedMsg is the constructor for [MsgPlanFetched]
func planFetchedMsg(plan *models.RunResult, err error) Msg {
	return Msg{kind: MsgPlanFetched, data: resultPayload{plan, err}}
}

// progressUpdateMsg is the constructor for [MsgProgressUpdate]
func progressUpdateMsg(update tasks.ProgressUpdate) Msg {
	return Msg{kind: MsgProgressUpdate, data: update}
}

// runCompleteMsg is the constructor for [MsgRunComplete]
func runCompleteMsg(result *models.RunResult, err error) Msg {
	return Msg{kind: MsgRunComplete, data: resultPayload{result, err}}
}
