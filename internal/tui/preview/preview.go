package preview

import (
	"strings"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/querydesk/querydesk/internal/tui/theme"
)

// CopiedMsg reports the outcome of a copy-to-clipboard action.
type CopiedMsg struct {
	Err error
}

// leading clause keywords highlighted in the rendered SQL.
var clauseKeywords = []string{
	"SELECT", "FROM", "INNER JOIN", "LEFT JOIN", "RIGHT JOIN", "FULL JOIN",
	"WHERE", "GROUP BY", "ORDER BY", "LIMIT",
}

// Model is the SQL preview component. It always shows the latest compiled
// text, including the no-tables sentinel, so the user can see exactly what
// will run (or why nothing will).
type Model struct {
	sql     string
	width   int
	height  int
	focused bool
	scrollY int
}

// New creates a new preview model.
func New() Model {
	return Model{}
}

// SetSQL replaces the displayed SQL text.
func (m *Model) SetSQL(sql string) {
	m.sql = sql
	m.scrollY = 0
}

// SQL returns the displayed text.
func (m Model) SQL() string {
	return m.sql
}

// SetSize updates the component dimensions.
func (m *Model) SetSize(w, h int) {
	m.width = w
	m.height = h
}

// SetFocused sets the focus state.
func (m *Model) SetFocused(f bool) {
	m.focused = f
}

// Focused returns whether the preview has focus.
func (m Model) Focused() bool {
	return m.focused
}

// Init returns the initial command (none).
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages for the preview.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if !m.focused {
		return m, nil
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if m.scrollY > 0 {
				m.scrollY--
			}
		case "down", "j":
			if m.scrollY < strings.Count(m.sql, "\n") {
				m.scrollY++
			}
		case "y", "c":
			sql := m.sql
			return m, func() tea.Msg {
				return CopiedMsg{Err: clipboard.WriteAll(sql)}
			}
		}
	}

	return m, nil
}

// View renders the preview.
func (m Model) View() string {
	titleStyle := lipgloss.NewStyle().
		Foreground(theme.ColorPrimary).
		Bold(true).
		Padding(0, 1)

	header := titleStyle.Render("SQL") + "  " + theme.StyleMuted.Render("y: copy")

	var b strings.Builder
	b.WriteString(header)

	lines := strings.Split(m.sql, "\n")
	visible := m.height - 2
	if visible < 1 {
		visible = 1
	}
	for i := m.scrollY; i < len(lines) && i < m.scrollY+visible; i++ {
		b.WriteString("\n  ")
		b.WriteString(highlight(lines[i]))
	}

	return b.String()
}

// highlight styles a leading clause keyword, leaving the rest plain.
func highlight(line string) string {
	for _, kw := range clauseKeywords {
		if strings.HasPrefix(line, kw) {
			return theme.StyleKeyword.Render(kw) + line[len(kw):]
		}
	}
	return line
}
