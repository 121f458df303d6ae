package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/chdm3u/internal/formatter"
	"github.com/desertthunder/chdm3u/internal/models"
	"github.com/desertthunder/chdm3u/internal/tasks"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	PreviewView ViewState = iota
	ConfirmView
	RunningView
	ResultView
)

// runState holds the channel and outcome of an in-flight run.
//
// result and err are written before progress is closed, so readers observe them after the close.
type runState struct {
	progress chan tasks.ProgressUpdate
	cancel   context.CancelFunc
	result   *models.RunResult
	err      error
}

// Model represents the TUI application state.
type Model struct {
	ctx         context.Context
	view        ViewState
	dir         string
	organizer   *tasks.Organizer
	width       int
	height      int
	seriesList  list.Model
	plan        *models.RunResult
	run         *runState
	progress    tasks.ProgressUpdate
	spinner     spinner.Model
	result      *models.RunResult
	confirmed   bool
	interrupted bool
	err         error
	help        help.Model
	keys        keyMap
}

// NewModel creates a new TUI model that organizes dir with organizer.
func NewModel(ctx context.Context, dir string, organizer *tasks.Organizer) *Model {
	return &Model{
		ctx:        ctx,
		view:       PreviewView,
		dir:        dir,
		organizer:  organizer,
		seriesList: list.New(nil, list.NewDefaultDelegate(), 0, 0),
		spinner:    spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(styles.title.UnsetMarginBottom())),
		help:       help.New(),
		keys:       newKeyMap(),
	}
}

// Result returns the completed run, or nil when the user quit before confirming.
// After an interrupted run it holds the partial result and [Model.Err] is [context.Canceled].
func (m *Model) Result() *models.RunResult { return m.result }

// Err returns the error that ended the session, if any.
func (m *Model) Err() error { return m.err }

// Confirmed reports whether the user accepted the plan.
func (m *Model) Confirmed() bool { return m.confirmed }

// Init initializes the TUI by planning the run without touching the directory.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.fetchPlan(), m.spinner.Tick)
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.seriesList.SetSize(msg.Width-4, msg.Height-8)
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case PreviewView:
			return m.handlePreviewKeys(msg)
		case ConfirmView:
			return m.handleConfirmKeys(msg)
		case RunningView:
			return m.handleRunningKeys(msg)
		case ResultView:
			return m.handleResultKeys(msg)
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case Msg:
		return m.handleMsg(msg)
	}

	return m.updateList(msg)
}

func (m *Model) handleMsg(msg Msg) (tea.Model, tea.Cmd) {
	switch msg.kind {
	case MsgPlanFetched:
		payload := msg.data.(resultPayload)
		if payload.err != nil {
			m.err = payload.err
			return m, tea.Quit
		}
		m.plan = payload.result
		if m.plan.NoMatches {
			m.result = m.plan
			m.view = ResultView
			return m, nil
		}
		m.seriesList.Title = fmt.Sprintf("Multi-disc series in %s", m.dir)
		return m, m.seriesList.SetItems(seriesItems(m.plan))

	case MsgProgressUpdate:
		m.progress = msg.data.(tasks.ProgressUpdate)
		return m, m.waitForProgress()

	case MsgRunComplete:
		payload := msg.data.(resultPayload)
		m.result = payload.result
		m.err = payload.err
		m.run = nil
		m.view = ResultView
		if m.interrupted {
			return m, tea.Quit
		}
		return m, nil
	}
	return m, nil
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	if m.err != nil && m.view != ResultView {
		return styles.err.Render(fmt.Sprintf("Error: %v\n\nPress q to quit", m.err))
	}

	switch m.view {
	case PreviewView:
		return m.renderPreview()
	case ConfirmView:
		return m.renderConfirm()
	case RunningView:
		return m.renderRunning()
	case ResultView:
		return m.renderResult()
	default:
		return ""
	}
}

func (m *Model) handlePreviewKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.plan == nil {
		if key.Matches(msg, m.keys.quit) {
			return m, tea.Quit
		}
		return m, nil
	}

	if m.seriesList.FilterState() != list.Filtering {
		switch {
		case key.Matches(msg, m.keys.quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.enter):
			m.view = ConfirmView
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.seriesList, cmd = m.seriesList.Update(msg)
	return m, cmd
}

func (m *Model) handleConfirmKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.String() == "ctrl+c":
		return m, tea.Quit
	case key.Matches(msg, m.keys.no), key.Matches(msg, m.keys.back), key.Matches(msg, m.keys.quit):
		m.view = PreviewView
		return m, nil
	case key.Matches(msg, m.keys.yes):
		m.confirmed = true
		m.view = RunningView
		return m, m.startRun()
	}
	return m, nil
}

// handleRunningKeys stops an in-flight run on ctrl+c. The session ends once the run
// reports back, so the partial result is never lost.
func (m *Model) handleRunningKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() != "ctrl+c" {
		return m, nil
	}
	if m.run == nil {
		return m, tea.Quit
	}
	m.interrupted = true
	m.run.cancel()
	return m, nil
}

func (m *Model) handleResultKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.quit) || key.Matches(msg, m.keys.enter) {
		return m, tea.Quit
	}
	return m, nil
}

func (m *Model) updateList(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.view != PreviewView || m.plan == nil {
		return m, nil
	}
	var cmd tea.Cmd
	m.seriesList, cmd = m.seriesList.Update(msg)
	return m, cmd
}

func (m *Model) fetchPlan() tea.Cmd {
	return func() tea.Msg {
		plan, err := m.organizer.Plan(m.dir)
		return planFetchedMsg(plan, err)
	}
}

// startRun returns a command that launches the run and waits for its first update.
func (m *Model) startRun() tea.Cmd {
	ctx, cancel := context.WithCancel(m.ctx)
	run := &runState{progress: make(chan tasks.ProgressUpdate, 50), cancel: cancel}
	m.run = run
	wait := m.waitForProgress()

	return func() tea.Msg {
		go func() {
			defer cancel()
			run.result, run.err = m.organizer.Run(ctx, m.dir, run.progress)
			close(run.progress)
		}()
		return wait()
	}
}

func (m *Model) waitForProgress() tea.Cmd {
	run := m.run
	return func() tea.Msg {
		if run == nil {
			return runCompleteMsg(m.result, m.err)
		}

		update, ok := <-run.progress
		if !ok {
			return runCompleteMsg(run.result, run.err)
		}
		return progressUpdateMsg(update)
	}
}

func (m *Model) renderPreview() string {
	if m.plan == nil {
		return fmt.Sprintf("%s Scanning %s...", m.spinner.View(), m.dir)
	}

	helpKeys := []key.Binding{m.keys.enter, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)
	return fmt.Sprintf("%s\n\n%s", m.seriesList.View(), helpView)
}

func (m *Model) renderConfirm() string {
	title := styles.title.Render(fmt.Sprintf("Organize %d series in '%s'?", len(m.plan.Groups), m.dir))

	var pending, done int
	for _, e := range m.plan.Entries {
		if e.Status == models.StatusSkipped {
			done++
		} else {
			pending++
		}
	}
	info := fmt.Sprintf("\nFiles to rename: %d\nAlready renamed: %d\nPlaylists to write: %d\n", pending, done, len(m.plan.Playlists))

	helpKeys := []key.Binding{m.keys.yes, m.keys.no, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	return fmt.Sprintf("%s\n%s\n%s", title, info, helpView)
}

func (m *Model) renderRunning() string {
	title := styles.title.Render("Organizing Disc Sets")

	var phase string
	switch m.progress.Phase {
	case tasks.Scan, tasks.Group:
		phase = "Scanning directory..."
	case tasks.Rename:
		phase = fmt.Sprintf("Renaming files (%d/%d)", m.progress.Step, m.progress.Total)
	case tasks.WritePlaylist:
		phase = fmt.Sprintf("Writing playlists (%d/%d)", m.progress.Step, m.progress.Total)
	case tasks.Record:
		phase = "Recording run..."
	default:
		phase = "Processing..."
	}

	if m.interrupted {
		phase = "Stopping after the current series..."
	}

	return fmt.Sprintf("%s\n\n%s %s\n%s", title, m.spinner.View(), phase, m.progress.Message)
}

func (m *Model) renderResult() string {
	helpKeys := []key.Binding{m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	if m.err != nil {
		return fmt.Sprintf("%s\n\n%s", styles.err.Render(fmt.Sprintf("Run failed: %v", m.err)), helpView)
	}

	if m.result == nil {
		return fmt.Sprintf("%s\n\n%s", styles.err.Render("No result available"), helpView)
	}

	if m.result.NoMatches {
		return fmt.Sprintf("%s\n\n%s", styles.warn.Render("No multi-disc files found"), helpView)
	}

	title := styles.ok.Render("✓ Playlists Created!")
	if m.result.Failed > 0 {
		title = styles.warn.Render("Playlists created with errors")
	}

	var b strings.Builder
	for _, pl := range m.result.Playlists {
		b.WriteString(styles.title.UnsetMarginBottom().Render(pl.Name))
		b.WriteString("\n")
		for _, e := range m.result.Entries {
			if e.SeriesKey != pl.SeriesKey {
				continue
			}
			fmt.Fprintf(&b, "  %s %s\n", statusStyle(string(e.Status)).Render(fmt.Sprintf("[%s]", e.Status)), e.NewName)
		}
	}

	summary := strings.TrimRight(string(formatter.ReportText(m.result)), "\n")
	return fmt.Sprintf("%s\n\n%s\n%s\n\n%s", title, b.String(), styles.help.Render(summary), helpView)
}
