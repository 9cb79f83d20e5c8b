// Package tui implements the side-by-side terminal view: the loaded document
// on the left, the lines matching the last search on the right.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/acarl005/stripansi"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/ccollicutt/streamfilter/pkg/document"
	"github.com/ccollicutt/streamfilter/pkg/filter"
	"github.com/ccollicutt/streamfilter/pkg/session"
)

const (
	defaultWidth  = 80
	defaultHeight = 24

	// title, prompt/help and status rows plus pane borders and pane title
	chromeHeight = 6
)

var (
	errEmptyPath = errors.New("please enter a file path")
	errStdinPath = errors.New("standard input can only be viewed when passed on the command line")
)

type mode int

const (
	modeNormal mode = iota
	modeOpen
	modeQuery
)

type pane int

const (
	paneOriginal pane = iota
	paneFiltered
)

type statusKind int

const (
	statusInfo statusKind = iota
	statusSuccess
	statusError
)

// Options configures the view.
type Options struct {
	// InitialPath is loaded before the first frame when set.
	InitialPath string
	LineNumbers bool
	Logger      zerolog.Logger
}

// Model is the bubbletea model for the view.
type Model struct {
	ctx     context.Context
	session *session.Session
	logger  zerolog.Logger
	keys    keyMap
	styles  *Styles
	help    help.Model

	original viewport.Model
	filtered viewport.Model
	input    textinput.Model

	mode        mode
	focus       pane
	lineNumbers bool
	lastQuery   string

	width  int
	height int

	status     string
	statusKind statusKind
}

// New creates the view over s. Documents already held by s are shown as is.
func New(ctx context.Context, s *session.Session, opts Options) Model {
	styles := NewStyles()
	ti := textinput.New()
	ti.CharLimit = 4096
	ti.PromptStyle = styles.Prompt

	m := Model{
		ctx:         ctx,
		session:     s,
		logger:      opts.Logger,
		keys:        defaultKeyMap(),
		styles:      styles,
		help:        help.New(),
		original:    viewport.New(0, 0),
		filtered:    viewport.New(0, 0),
		input:       ti,
		lineNumbers: opts.LineNumbers,
		status:      "Press o to open a file",
	}
	m.resize(defaultWidth, defaultHeight)

	if opts.InitialPath != "" {
		m.open(opts.InitialPath)
	} else if doc := s.Document(); doc != nil {
		m.refresh()
		m.setStatus(statusSuccess, loadedMessage(doc))
	}

	return m
}

// Run starts the view and blocks until the user quits.
func Run(ctx context.Context, s *session.Session, opts Options, progOpts ...tea.ProgramOption) error {
	progOpts = append([]tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}, progOpts...)
	_, err := tea.NewProgram(New(ctx, s, opts), progOpts...).Run()
	return err
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if m.mode != modeNormal {
			return m.updatePrompt(msg)
		}
		return m.updateNormal(msg)
	}
	return m, nil
}

func (m Model) updateNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Open):
		return m, m.startPrompt(modeOpen, "")
	case key.Matches(msg, m.keys.Search):
		return m, m.startPrompt(modeQuery, m.lastQuery)
	case key.Matches(msg, m.keys.Switch):
		if m.focus == paneOriginal {
			m.focus = paneFiltered
		} else {
			m.focus = paneOriginal
		}
		return m, nil
	}

	var cmd tea.Cmd
	if m.focus == paneOriginal {
		m.original, cmd = m.original.Update(msg)
	} else {
		m.filtered, cmd = m.filtered.Update(msg)
	}
	return m, cmd
}

func (m Model) updatePrompt(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.endPrompt()
		return m, nil
	case key.Matches(msg, m.keys.Submit):
		value := m.input.Value()
		current := m.mode
		m.endPrompt()
		if current == modeOpen {
			m.open(strings.TrimSpace(value))
		} else {
			m.search(value)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) startPrompt(md mode, value string) tea.Cmd {
	m.mode = md
	if md == modeOpen {
		m.input.Prompt = "File: "
		m.input.Placeholder = "path to a text file"
	} else {
		m.input.Prompt = "Search: "
		m.input.Placeholder = "substring"
	}
	m.input.SetValue(value)
	m.input.CursorEnd()
	return m.input.Focus()
}

func (m *Model) endPrompt() {
	m.mode = modeNormal
	m.input.Blur()
	m.input.Reset()
}

// open loads path into the session. On failure the current content stays.
func (m *Model) open(path string) {
	switch path {
	case "":
		m.setError(errEmptyPath)
		return
	case document.StdinSource:
		m.setError(errStdinPath)
		return
	}

	if err := m.session.Load(m.ctx, path); err != nil {
		m.logger.Warn().Err(err).Str("path", path).Msg("load failed")
		m.setError(err)
		return
	}

	m.lastQuery = ""
	m.refresh()
	m.setStatus(statusSuccess, loadedMessage(m.session.Document()))
}

// search filters the loaded document. On failure the current view stays.
func (m *Model) search(query string) {
	view, err := m.session.Search(query)
	if err != nil {
		m.setError(err)
		return
	}

	m.lastQuery = query
	m.refreshFiltered()
	m.focus = paneFiltered
	m.setStatus(statusSuccess, fmt.Sprintf("%d matching line(s) for %q", view.Len(), query))
}

func (m *Model) setError(err error) {
	m.setStatus(statusError, "Error: "+err.Error())
}

func (m *Model) setStatus(kind statusKind, msg string) {
	m.statusKind = kind
	m.status = msg
}

func loadedMessage(doc *document.Document) string {
	return fmt.Sprintf("Loaded %d line(s) from %s", doc.Len(), doc.Source())
}

// refresh re-renders both panes from the session.
func (m *Model) refresh() {
	m.refreshOriginal()
	m.refreshFiltered()
}

// refreshOriginal renders the loaded document and scrolls to its top.
func (m *Model) refreshOriginal() {
	doc := m.session.Document()
	if doc == nil {
		m.original.SetContent("")
		return
	}

	nums := make([]int, doc.Len())
	for i := range nums {
		nums[i] = i + 1
	}
	m.original.SetContent(m.renderLines(doc.Lines(), nums))
	m.original.GotoTop()
}

// refreshFiltered renders the current view and scrolls to its top.
func (m *Model) refreshFiltered() {
	view := m.session.View()
	switch {
	case m.session.Document() == nil || view == nil:
		m.filtered.SetContent("")
	case view.IsEmpty():
		m.filtered.SetContent(m.styles.Dim.Render("(no matching lines)"))
	default:
		m.filtered.SetContent(m.renderMatches(view))
	}
	m.filtered.GotoTop()
}

func (m *Model) renderMatches(view *filter.View) string {
	nums := make([]int, view.Len())
	for i, match := range view.Matches {
		nums[i] = match.LineNum
	}
	return m.renderLines(view.Lines(), nums)
}

func (m *Model) renderLines(lines []string, nums []int) string {
	var sb strings.Builder
	for i, line := range lines {
		if i > 0 {
			sb.WriteByte('\n')
		}
		if m.lineNumbers {
			sb.WriteString(m.styles.LineNumber.Render(fmt.Sprintf("%5d ", nums[i])))
		}
		sb.WriteString(displayLine(line))
	}
	return sb.String()
}

// displayLine removes control sequences that would corrupt the terminal.
func displayLine(line string) string {
	line = stripansi.Strip(line)
	return strings.ReplaceAll(line, "\t", "    ")
}

func (m *Model) resize(width, height int) {
	m.width = width
	m.height = height

	paneWidth := width/2 - 2
	if paneWidth < 1 {
		paneWidth = 1
	}
	paneHeight := height - chromeHeight
	if paneHeight < 1 {
		paneHeight = 1
	}

	m.original.Width = paneWidth
	m.original.Height = paneHeight
	m.filtered.Width = paneWidth
	m.filtered.Height = paneHeight
	m.input.Width = width - 12
}

func (m Model) View() string {
	title := m.styles.Title.Render("streamfilter")
	if doc := m.session.Document(); doc != nil {
		title += m.styles.Dim.Render("  " + doc.Source())
	}

	filteredTitle := "Filtered"
	if m.lastQuery != "" {
		filteredTitle = fmt.Sprintf("Filtered: %q", m.lastQuery)
	}

	panes := lipgloss.JoinHorizontal(lipgloss.Top,
		m.renderPane("Original", m.original, m.focus == paneOriginal),
		m.renderPane(filteredTitle, m.filtered, m.focus == paneFiltered),
	)

	var bottom string
	if m.mode != modeNormal {
		bottom = m.input.View()
	} else {
		bottom = m.help.ShortHelpView(m.keys.normalHelp())
	}

	return lipgloss.JoinVertical(lipgloss.Left, title, panes, bottom, m.renderStatus())
}

func (m Model) renderPane(title string, vp viewport.Model, focused bool) string {
	style := m.styles.Pane
	if focused {
		style = m.styles.FocusedPane
	}
	header := m.styles.PaneTitle.Render(truncate(title, vp.Width))
	return style.Render(lipgloss.JoinVertical(lipgloss.Left, header, vp.View()))
}

func (m Model) renderStatus() string {
	switch m.statusKind {
	case statusError:
		return m.styles.StatusError.Render(m.status)
	case statusSuccess:
		return m.styles.StatusSuccess.Render(m.status)
	default:
		return m.styles.StatusInfo.Render(m.status)
	}
}

func truncate(s string, width int) string {
	r := []rune(s)
	if width <= 0 || len(r) <= width {
		return s
	}
	if width == 1 {
		return string(r[:1])
	}
	return string(r[:width-1]) + "…"
}
