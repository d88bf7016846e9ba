package builder

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/querydesk/querydesk/internal/query"
	"github.com/querydesk/querydesk/internal/tui/theme"
)

// ModelChangedMsg tells the app the query model was mutated, so the SQL
// preview must be refreshed.
type ModelChangedMsg struct{}

// StatusMsg asks the app to show a message in the status bar.
type StatusMsg struct {
	Text    string
	IsError bool
}

type section int

const (
	secJoins section = iota
	secFilters
	secSorts
	secGroups
	secAggregates
	secLimit
)

var sectionTitles = map[section]string{
	secJoins:      "Joins",
	secFilters:    "Filters",
	secSorts:      "Sorts",
	secGroups:     "Grouping",
	secAggregates: "Aggregates",
	secLimit:      "Limit",
}

// entryRef points at one removable entry of the query model.
type entryRef struct {
	sec section
	idx int
}

// Model is the query builder component: it lists the structural parts of the
// query under construction and edits them through small input forms.
type Model struct {
	qm      *query.Model
	rows    []entryRef
	cursor  int
	width   int
	height  int
	focused bool

	form *form // nil while browsing
}

// New creates a new builder model.
func New() Model {
	return Model{}
}

// SetQuery binds the live query model.
func (m *Model) SetQuery(qm *query.Model) {
	m.qm = qm
	m.form = nil
	m.cursor = 0
	m.rebuild()
}

// SetSize updates the component dimensions.
func (m *Model) SetSize(w, h int) {
	m.width = w
	m.height = h
}

// SetFocused sets the focus state.
func (m *Model) SetFocused(f bool) {
	m.focused = f
	if !f {
		m.form = nil
	}
}

// Focused returns whether the builder has focus.
func (m Model) Focused() bool {
	return m.focused
}

// Editing reports whether a form is open, so the app keeps global single-key
// shortcuts out of the way.
func (m Model) Editing() bool {
	return m.form != nil
}

// Refresh rebuilds the entry list after an external model mutation (e.g. a
// cascade triggered from the explorer).
func (m *Model) Refresh() {
	m.rebuild()
}

// rebuild flattens the model's collections into the navigable row list.
func (m *Model) rebuild() {
	m.rows = nil
	if m.qm == nil {
		return
	}
	for i := range m.qm.Joins() {
		m.rows = append(m.rows, entryRef{sec: secJoins, idx: i})
	}
	for i := range m.qm.Filters() {
		m.rows = append(m.rows, entryRef{sec: secFilters, idx: i})
	}
	for i := range m.qm.Sorts() {
		m.rows = append(m.rows, entryRef{sec: secSorts, idx: i})
	}
	for i := range m.qm.Groups() {
		m.rows = append(m.rows, entryRef{sec: secGroups, idx: i})
	}
	for i := range m.qm.Aggregates() {
		m.rows = append(m.rows, entryRef{sec: secAggregates, idx: i})
	}
	if _, ok := m.qm.Limit(); ok {
		m.rows = append(m.rows, entryRef{sec: secLimit})
	}
	if m.cursor >= len(m.rows) {
		m.cursor = len(m.rows) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// Init returns the initial command.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages for the builder.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if !m.focused || m.qm == nil {
		return m, nil
	}

	if m.form != nil {
		return m.updateForm(msg)
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.rows)-1 {
				m.cursor++
			}
		case "d", "backspace":
			return m, m.deleteCurrent()
		case "F":
			m.openForm(newFilterForm())
		case "J":
			m.openForm(newJoinForm())
		case "S":
			m.openForm(newSortForm())
		case "G":
			m.openForm(newGroupForm())
		case "A":
			m.openForm(newAggregateForm())
		case "L":
			m.openForm(newLimitForm())
		}
	}

	return m, nil
}

func (m *Model) openForm(f *form) {
	m.form = f
	f.fields[0].Focus()
}

func (m Model) updateForm(msg tea.Msg) (Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		var cmd tea.Cmd
		f := m.form.fields[m.form.active]
		m.form.fields[m.form.active], cmd = f.Update(msg)
		return m, cmd
	}

	switch keyMsg.String() {
	case "esc":
		m.form = nil
		return m, nil

	case "enter", "tab":
		if m.form.active < len(m.form.fields)-1 {
			m.form.fields[m.form.active].Blur()
			m.form.active++
			m.form.fields[m.form.active].Focus()
			return m, nil
		}
		if keyMsg.String() == "tab" {
			// Tab on the last field wraps around instead of submitting.
			m.form.fields[m.form.active].Blur()
			m.form.active = 0
			m.form.fields[m.form.active].Focus()
			return m, nil
		}
		return m.submitForm()

	case "shift+tab":
		if m.form.active > 0 {
			m.form.fields[m.form.active].Blur()
			m.form.active--
			m.form.fields[m.form.active].Focus()
		}
		return m, nil
	}

	var cmd tea.Cmd
	f := m.form.fields[m.form.active]
	m.form.fields[m.form.active], cmd = f.Update(msg)
	return m, cmd
}

func (m Model) submitForm() (Model, tea.Cmd) {
	values := make([]string, len(m.form.fields))
	for i, f := range m.form.fields {
		values[i] = strings.TrimSpace(f.Value())
	}

	err := m.form.apply(m.qm, values)
	if err != nil {
		return m, func() tea.Msg {
			return StatusMsg{Text: err.Error(), IsError: true}
		}
	}

	m.form = nil
	m.rebuild()
	return m, func() tea.Msg { return ModelChangedMsg{} }
}

// deleteCurrent removes the entry under the cursor. Pointer receiver: the
// row list must be rebuilt on the model the Update call returns, not on a
// copy.
func (m *Model) deleteCurrent() tea.Cmd {
	if m.cursor < 0 || m.cursor >= len(m.rows) {
		return nil
	}
	row := m.rows[m.cursor]
	switch row.sec {
	case secJoins:
		m.qm.RemoveJoin(row.idx)
	case secFilters:
		m.qm.RemoveFilter(row.idx)
	case secSorts:
		m.qm.RemoveSort(row.idx)
	case secGroups:
		m.qm.RemoveGroup(row.idx)
	case secAggregates:
		m.qm.RemoveAggregate(row.idx)
	case secLimit:
		m.qm.ClearLimit()
	}
	m.rebuild()
	return func() tea.Msg { return ModelChangedMsg{} }
}

// View renders the builder.
func (m Model) View() string {
	titleStyle := lipgloss.NewStyle().
		Foreground(theme.ColorPrimary).
		Bold(true).
		Padding(0, 1)

	title := titleStyle.Render("Query Builder")

	if m.qm == nil {
		return title + "\n" + theme.StyleMuted.Render("  No connection")
	}

	if m.form != nil {
		return title + "\n" + m.form.view()
	}

	var b strings.Builder
	b.WriteString(title)
	if m.qm.IsEmpty() {
		b.WriteString("\n")
		b.WriteString(theme.StyleMuted.Render("  Place a table from the catalog to start"))
		return b.String()
	}

	b.WriteString("  ")
	b.WriteString(theme.StyleMuted.Render("F/J/S/G/A/L: add  d: delete"))
	b.WriteString("\n")

	rowIdx := 0
	for _, sec := range []section{secJoins, secFilters, secSorts, secGroups, secAggregates, secLimit} {
		lines := m.sectionLines(sec)
		if len(lines) == 0 {
			continue
		}
		b.WriteString(theme.StyleTitle.Render(" " + sectionTitles[sec]))
		b.WriteString("\n")
		for _, line := range lines {
			prefix := "   "
			rendered := line
			if m.focused && rowIdx == m.cursor {
				prefix = " > "
				rendered = lipgloss.NewStyle().
					Foreground(theme.ColorHighlight).
					Bold(true).
					Render(line)
			}
			b.WriteString(prefix + rendered)
			b.WriteString("\n")
			rowIdx++
		}
	}

	if rowIdx == 0 {
		b.WriteString(theme.StyleMuted.Render("  No joins, filters or sorts yet"))
	}

	return strings.TrimRight(b.String(), "\n")
}

// sectionLines renders the display line for every entry of a section.
func (m Model) sectionLines(sec section) []string {
	var lines []string
	switch sec {
	case secJoins:
		for _, j := range m.qm.Joins() {
			lines = append(lines, fmt.Sprintf("%s JOIN %s ON %s.%s = %s.%s",
				j.Kind, j.RightTable, j.LeftTable, j.LeftColumn, j.RightTable, j.RightColumn))
		}
	case secFilters:
		for i, f := range m.qm.Filters() {
			line := describeFilter(f)
			if i > 0 {
				line = string(f.Connective) + " " + line
			}
			lines = append(lines, line)
		}
	case secSorts:
		for _, s := range m.qm.Sorts() {
			lines = append(lines, fmt.Sprintf("%s.%s %s", s.Table, s.Column, s.Direction))
		}
	case secGroups:
		for _, g := range m.qm.Groups() {
			lines = append(lines, g.Table+"."+g.Column)
		}
	case secAggregates:
		for _, a := range m.qm.Aggregates() {
			line := fmt.Sprintf("%s(%s.%s)", a.Fn, a.Table, a.Column)
			if a.Alias != "" {
				line += " AS " + a.Alias
			}
			lines = append(lines, line)
		}
	case secLimit:
		if n, ok := m.qm.Limit(); ok {
			lines = append(lines, strconv.Itoa(n))
		}
	}
	return lines
}

func describeFilter(f query.Filter) string {
	col := f.Table + "." + f.Column
	switch f.Op {
	case query.OpEquals:
		return col + " = " + f.Value.Display()
	case query.OpNotEquals:
		return col + " != " + f.Value.Display()
	case query.OpGreaterThan:
		return col + " > " + f.Value.Display()
	case query.OpLessThan:
		return col + " < " + f.Value.Display()
	case query.OpLike:
		return col + " contains " + f.Value.Display()
	case query.OpIn:
		return col + " in (" + f.Value.Display() + ")"
	case query.OpBetween:
		return col + " between " + f.Value.Display()
	case query.OpIsNull:
		return col + " is null"
	case query.OpIsNotNull:
		return col + " is not null"
	}
	return col
}
