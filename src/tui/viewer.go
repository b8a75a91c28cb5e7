// Package tui provides an interactive terminal viewer for one log analysis
// result: a status header and a scrollable body with the error details and
// the relevant log excerpt, error lines highlighted.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"gh-triage-mcp/src/loganalysis"
	"gh-triage-mcp/src/sanitize"
)

// ResultModel is the Bubble Tea model for the result viewer.
type ResultModel struct {
	result     loganalysis.Result
	source     string
	indicators []string
	styles     *StyleConfig

	viewport viewport.Model
	width    int
	height   int
	ready    bool
}

// NewResultModel creates a viewer for result. source names where the logs
// came from (a directory or URL) and is shown in the header.
func NewResultModel(result loganalysis.Result, source string) ResultModel {
	return ResultModel{
		result:     result,
		source:     source,
		indicators: loganalysis.DefaultRules().ErrorIndicators,
		styles:     DefaultStyles(),
	}
}

// Init initializes the model. Required by tea.Model interface.
func (m ResultModel) Init() tea.Cmd {
	return nil
}

// Update handles resize, quit and scroll keys.
func (m ResultModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "g", "home":
			m.viewport.GotoTop()
			return m, nil
		case "G", "end":
			m.viewport.GotoBottom()
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// resize recomputes the viewport size and re-renders the body for the new width.
func (m *ResultModel) resize() {
	headerHeight := lipgloss.Height(m.renderHeader())
	// header + help line + viewport border (2)
	height := m.height - headerHeight - 1 - 2
	if height < 1 {
		height = 1
	}
	width := m.width - 2
	if width < 1 {
		width = 1
	}

	if !m.ready {
		m.viewport = viewport.New(width, height)
		m.ready = true
	} else {
		m.viewport.Width = width
		m.viewport.Height = height
	}
	// 1 char padding on each side
	m.viewport.SetContent(m.renderBody(width - 2))
}

// View renders the complete TUI layout
func (m ResultModel) View() string {
	if !m.ready {
		return "\n  Initializing..."
	}

	body := m.styles.ViewportStyle(true).
		Width(m.viewport.Width).
		Render(m.viewport.View())

	return lipgloss.JoinVertical(lipgloss.Left, m.renderHeader(), body, m.renderHelpText())
}

func (m ResultModel) renderHeader() string {
	status := "FAILURE"
	if m.result.Success {
		status = "SUCCESS"
	}
	badge := m.styles.BadgeStyle(m.result.Success).Render(status)
	summary := m.styles.TitleStyle().Render(m.result.ErrorSummary)
	line := lipgloss.JoinHorizontal(lipgloss.Top, badge, summary)

	var meta []string
	if m.result.SourceFile != "" {
		meta = append(meta, "file: "+m.result.SourceFile)
	}
	if m.source != "" {
		meta = append(meta, "from: "+m.source)
	}
	if len(meta) == 0 {
		return line
	}

	width := m.width - 2
	if width < 10 {
		width = 10
	}
	metaLine := m.styles.HelpStyle().Render(Truncate(strings.Join(meta, "  •  "), width, true))
	return lipgloss.JoinVertical(lipgloss.Left, line, metaLine)
}

// renderBody renders the error details and the relevant log content. A
// build-log excerpt is both, so it is shown once.
func (m ResultModel) renderBody(width int) string {
	details := sanitize.Clean(m.result.ErrorDetails)
	content := sanitize.Clean(m.result.RelevantLogContent)

	var sections []string
	if details != "" && details != content {
		sections = append(sections, m.styles.SectionStyle().Render("Error details:")+"\n"+Wrap(details, width))
	}
	if content != "" {
		lines := []string{m.styles.SectionStyle().Render("Relevant log content:")}
		for _, line := range SplitLines(content) {
			lines = append(lines, m.renderLogLine(line, width))
		}
		sections = append(sections, strings.Join(lines, "\n"))
	}

	if len(sections) == 0 {
		return m.styles.ContextLineStyle().Faint(true).Render("No log content to show.")
	}
	return strings.Join(sections, "\n\n")
}

// renderLogLine wraps before styling so highlights cover every wrapped row.
func (m ResultModel) renderLogLine(line string, width int) string {
	wrapped := WrapLogLine(line, width)
	if m.isErrorLine(line) {
		return m.styles.ErrorLineStyle().Render(wrapped)
	}
	return m.styles.ContextLineStyle().Render(wrapped)
}

func (m ResultModel) isErrorLine(line string) bool {
	for _, ind := range m.indicators {
		if strings.Contains(line, ind) {
			return true
		}
	}
	return false
}

// renderHelpText renders the key help at the bottom
func (m ResultModel) renderHelpText() string {
	keyStyle := lipgloss.NewStyle().Foreground(m.styles.PrimaryBlue).Bold(true)
	sepStyle := lipgloss.NewStyle().Foreground(m.styles.TextSecondary)

	helpText := fmt.Sprintf("%s: Scroll %s %s: Top/Bottom %s %s: Quit  %3.f%%",
		keyStyle.Render("j/k"), sepStyle.Render("•"),
		keyStyle.Render("g/G"), sepStyle.Render("•"),
		keyStyle.Render("q"), m.viewport.ScrollPercent()*100)

	return m.styles.HelpStyle().Render(helpText)
}

// Run shows the viewer full screen until the user quits.
func Run(result loganalysis.Result, source string) error {
	p := tea.NewProgram(NewResultModel(result, source), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
