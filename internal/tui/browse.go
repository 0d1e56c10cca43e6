// Package tui provides the interactive terminal browser for catalog searches.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/lepinkainen/pdbrowse/internal/fileutil"
	"github.com/lepinkainen/pdbrowse/internal/openlibrary"
	"github.com/lepinkainen/pdbrowse/internal/search"
)

const (
	defaultListWidth  = 72
	defaultListHeight = 18
	// rows used by the input, mode line and help line
	chromeHeight = 6
)

var runProgram = func(m tea.Model) (tea.Model, error) {
	return tea.NewProgram(m, tea.WithAltScreen()).Run()
}

// Controller is the part of the search controller the browser drives.
type Controller interface {
	Submit(raw string)
	Retry()
	Subscribe() (<-chan search.State, func())
}

// CoverFunc downloads the cover art of a work.
type CoverFunc func(ctx context.Context, work openlibrary.Work) (*fileutil.CoverDownloadResult, error)

// Options configures the browser.
type Options struct {
	// InitialQuery is submitted before the first frame
	InitialQuery string
	// DownloadCover handles the detail page "d" key; nil disables it
	DownloadCover CoverFunc
}

type screen int

const (
	screenSearch screen = iota
	screenDetail
)

type stateMsg search.State

type subscriptionClosedMsg struct{}

type coverDownloadedMsg struct {
	key    string
	result *fileutil.CoverDownloadResult
	err    error
}

type model struct {
	ctx    context.Context
	ctrl   Controller
	states <-chan search.State
	cover  CoverFunc

	input    textinput.Model
	spinner  spinner.Model
	list     list.Model
	spinning bool

	state  search.State
	screen screen
	detail openlibrary.Work
	status string
}

func newModel(ctx context.Context, ctrl Controller, states <-chan search.State, opts Options) *model {
	ti := textinput.New()
	ti.Placeholder = "Search Open Library by title or author"
	ti.Prompt = "> "
	ti.CharLimit = 200
	ti.Width = defaultListWidth - 4
	ti.Focus()

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = spinnerStyle

	l := list.New(nil, newDelegate(), defaultListWidth, defaultListHeight)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)
	l.SetShowTitle(false)
	l.DisableQuitKeybindings()
	l.Styles.NoItems = lipgloss.NewStyle()

	m := &model{
		ctx:     ctx,
		ctrl:    ctrl,
		states:  states,
		cover:   opts.DownloadCover,
		input:   ti,
		spinner: s,
		list:    l,
	}

	if opts.InitialQuery != "" {
		m.input.SetValue(opts.InitialQuery)
		ctrl.Submit(opts.InitialQuery)
	}

	return m
}

func waitForState(states <-chan search.State) tea.Cmd {
	return func() tea.Msg {
		state, ok := <-states
		if !ok {
			return subscriptionClosedMsg{}
		}
		return stateMsg(state)
	}
}

func (m *model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, waitForState(m.states))
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if m.screen == screenDetail {
			return m.updateDetail(msg)
		}
		return m.updateSearch(msg)

	case stateMsg:
		return m, m.applyState(search.State(msg))

	case subscriptionClosedMsg:
		return m, tea.Quit

	case spinner.TickMsg:
		if !m.state.IsLoading {
			m.spinning = false
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case coverDownloadedMsg:
		m.status = coverStatus(msg)
		return m, nil

	case tea.WindowSizeMsg:
		width := clamp(defaultListWidth, msg.Width-2, 30)
		height := clamp(defaultListHeight, msg.Height-chromeHeight, 3)
		m.list.SetSize(width, height)
		m.input.Width = width - 4
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		if selected, ok := m.list.SelectedItem().(workItem); ok && m.state.Mode() == search.ModeResults {
			m.detail = selected.Work
			m.status = ""
			m.screen = screenDetail
		}
		return m, nil
	case tea.KeyCtrlR:
		m.ctrl.Retry()
		return m, nil
	case tea.KeyUp, tea.KeyDown, tea.KeyPgUp, tea.KeyPgDown:
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		return m, cmd
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if value := m.input.Value(); value != before {
		m.ctrl.Submit(value)
	}
	return m, cmd
}

func (m *model) updateDetail(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "backspace":
		m.screen = screenSearch
		m.status = ""
	case "d":
		if m.cover == nil {
			m.status = "Cover downloads are not configured."
			return m, nil
		}
		if _, ok := m.detail.CoverArtURL(); !ok {
			m.status = "No cover available to download."
			return m, nil
		}
		m.status = "Downloading cover..."
		return m, downloadCoverCmd(m.ctx, m.cover, m.detail)
	}
	return m, nil
}

func (m *model) applyState(state search.State) tea.Cmd {
	m.state = state
	cmds := []tea.Cmd{waitForState(m.states)}

	if cmd := m.list.SetItems(toListItems(state.Results)); cmd != nil {
		cmds = append(cmds, cmd)
	}

	if state.IsLoading && !m.spinning {
		m.spinning = true
		cmds = append(cmds, m.spinner.Tick)
	}

	return tea.Batch(cmds...)
}

func downloadCoverCmd(ctx context.Context, download CoverFunc, work openlibrary.Work) tea.Cmd {
	return func() tea.Msg {
		result, err := download(ctx, work)
		return coverDownloadedMsg{key: work.Key, result: result, err: err}
	}
}

func coverStatus(msg coverDownloadedMsg) string {
	switch {
	case msg.err != nil:
		return "Cover download failed: " + msg.err.Error()
	case msg.result == nil:
		return "No cover available to download."
	case msg.result.Downloaded:
		return "Saved cover to " + msg.result.LocalPath
	default:
		return "Cover already saved at " + msg.result.LocalPath
	}
}

func (m *model) View() string {
	if m.screen == screenDetail {
		return m.detailView()
	}

	sections := []string{
		headerStyle.Render("Open Library"),
		m.input.View(),
		m.modeLine(),
	}
	if m.state.Mode() == search.ModeResults {
		sections = append(sections, m.list.View())
	}
	sections = append(sections, helpStyle.Render("type to search | Up/Down navigate | Enter details | ctrl+r retry | ctrl+c quit"))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m *model) modeLine() string {
	switch m.state.Mode() {
	case search.ModeLoading:
		return fmt.Sprintf("%s Searching for %q...", m.spinner.View(), strings.TrimSpace(m.state.Query))
	case search.ModeError:
		line := errorStyle.Render(m.state.ErrorMessage)
		if m.state.ErrorMessage != search.KeepTypingMessage {
			line += hintStyle.Render("  (ctrl+r to retry)")
		}
		return line
	case search.ModeResults:
		return statusStyle.Render(resultCount(len(m.state.Results)))
	default:
		if query := strings.TrimSpace(m.state.Query); query != "" {
			return statusStyle.Render(fmt.Sprintf("No books found for %q.", query))
		}
		return statusStyle.Render("Start typing to search the catalog.")
	}
}

func resultCount(n int) string {
	if n == 1 {
		return "1 book"
	}
	return fmt.Sprintf("%d books", n)
}

func (m *model) detailView() string {
	w := m.detail

	lines := []string{headerStyle.Render(w.Title)}
	if w.Subtitle != "" {
		lines = append(lines, subtitleStyle.Render(w.Subtitle))
	}
	lines = append(lines,
		"",
		detailRow("Authors", w.DisplayAuthors()),
		detailRow("First published", w.DisplayYear()),
		detailRow("Key", w.Key),
		detailRow("Open Library", w.DetailURL()),
	)
	if coverURL, ok := w.CoverArtURL(); ok {
		lines = append(lines, detailRow("Cover", coverURL))
	} else {
		lines = append(lines, detailRow("Cover", "No cover available"))
	}
	if m.status != "" {
		lines = append(lines, "", statusStyle.Render(m.status))
	}
	lines = append(lines, helpStyle.Render("d download cover | esc back | ctrl+c quit"))

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func detailRow(label, value string) string {
	return labelStyle.Render(label+":") + " " + value
}

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("214")).
			MarginBottom(1)

	subtitleStyle = lipgloss.NewStyle().
			Italic(true).
			Foreground(lipgloss.Color("110"))

	labelStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("248")).
			Width(16)

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("247"))

	errorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("161"))

	hintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("244"))

	spinnerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("69"))

	helpStyle = lipgloss.NewStyle().
			MarginTop(1).
			Foreground(lipgloss.Color("244"))
)

// Run starts the interactive browser and blocks until the user quits.
func Run(ctx context.Context, ctrl Controller, opts Options) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	states, unsubscribe := ctrl.Subscribe()
	defer unsubscribe()

	m := newModel(ctx, ctrl, states, opts)
	if _, err := runProgram(m); err != nil {
		return fmt.Errorf("browser failed: %w", err)
	}
	return nil
}

func clamp(preferred, available, minimum int) int {
	if available <= 0 {
		return preferred
	}
	if available < minimum {
		return minimum
	}
	if available < preferred {
		return available
	}
	return preferred
}
