package explorer

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/querydesk/querydesk/internal/catalog"
	"github.com/querydesk/querydesk/internal/query"
	"github.com/querydesk/querydesk/internal/tui/theme"
)

// NodeKind identifies the type of a tree node.
type NodeKind int

const (
	NodeDatabase NodeKind = iota
	NodeTable
	NodeColumn
)

// TreeNode represents a single node in the catalog tree.
type TreeNode struct {
	Kind     NodeKind
	Name     string
	Children []*TreeNode
	Expanded bool

	// Metadata
	Table    string // parent table name (for columns)
	DataType string // column data type
	Key      string // "PK", "FK" or empty
	RowCount int64  // table row count, -1 until probed
}

// flatItem is a visible item in the flattened tree view.
type flatItem struct {
	node  *TreeNode
	depth int
}

// TableToggledMsg asks the app to place or remove a table in the query.
type TableToggledMsg struct {
	Table string
}

// ColumnToggledMsg asks the app to toggle a column of a placed table.
type ColumnToggledMsg struct {
	Table  string
	Column string
}

// Model is the catalog tree component. It renders the schema snapshot and
// marks which tables and columns are part of the query under construction.
type Model struct {
	tree    *TreeNode
	query   *query.Model
	items   []flatItem
	cursor  int
	width   int
	height  int
	focused bool
	loading bool
}

// New creates a new explorer model.
func New() Model {
	return Model{}
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

// Focused returns whether the explorer has focus.
func (m Model) Focused() bool {
	return m.focused
}

// SetLoading sets the loading state.
func (m *Model) SetLoading(l bool) {
	m.loading = l
}

// SetCatalog populates the tree from a catalog snapshot and binds the query
// model whose membership marks are rendered.
func (m *Model) SetCatalog(dbName string, cat *catalog.Catalog, qm *query.Model) {
	root := &TreeNode{
		Kind:     NodeDatabase,
		Name:     dbName,
		Expanded: true,
	}

	for _, name := range cat.Tables() {
		info, _ := cat.Lookup(name)
		tableNode := &TreeNode{
			Kind:     NodeTable,
			Name:     name,
			RowCount: -1,
		}
		for _, col := range info.Columns {
			key := ""
			if col.IsPrimaryKey {
				key = "PK"
			} else if col.IsForeignKey {
				key = "FK"
			}
			tableNode.Children = append(tableNode.Children, &TreeNode{
				Kind:     NodeColumn,
				Name:     col.Name,
				Table:    name,
				DataType: col.DataType,
				Key:      key,
			})
		}
		root.Children = append(root.Children, tableNode)
	}

	m.tree = root
	m.query = qm
	m.flatten()
	m.loading = false
}

// SetRowCount records a probed row count on a table node.
func (m *Model) SetRowCount(table string, count int64) {
	if m.tree == nil {
		return
	}
	for _, t := range m.tree.Children {
		if t.Name == table {
			t.RowCount = count
			return
		}
	}
}

// flatten rebuilds the flat item list from the tree.
func (m *Model) flatten() {
	m.items = nil
	if m.tree != nil {
		m.flattenNode(m.tree, 0)
	}
	if m.cursor >= len(m.items) {
		m.cursor = max(0, len(m.items)-1)
	}
}

func (m *Model) flattenNode(node *TreeNode, depth int) {
	m.items = append(m.items, flatItem{node: node, depth: depth})
	if node.Expanded {
		for _, child := range node.Children {
			m.flattenNode(child, depth+1)
		}
	}
}

// Init returns the initial command (none).
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages for the explorer.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if !m.focused {
		return m, nil
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.items)-1 {
				m.cursor++
			}
		case "enter", " ":
			return m, m.toggle()
		case "right", "l":
			m.expand(true)
		case "left", "h":
			m.expand(false)
		}
	}

	return m, nil
}

// toggle emits the placement/selection message for the node under the cursor.
func (m *Model) toggle() tea.Cmd {
	if m.cursor < 0 || m.cursor >= len(m.items) {
		return nil
	}
	node := m.items[m.cursor].node

	switch node.Kind {
	case NodeTable:
		table := node.Name
		return func() tea.Msg {
			return TableToggledMsg{Table: table}
		}
	case NodeColumn:
		table, column := node.Table, node.Name
		return func() tea.Msg {
			return ColumnToggledMsg{Table: table, Column: column}
		}
	}
	return nil
}

func (m *Model) expand(open bool) {
	if m.cursor < 0 || m.cursor >= len(m.items) {
		return
	}
	node := m.items[m.cursor].node
	if node.Kind == NodeColumn || node.Expanded == open {
		return
	}
	node.Expanded = open
	m.flatten()
}

// View renders the explorer.
func (m Model) View() string {
	titleStyle := lipgloss.NewStyle().
		Foreground(theme.ColorPrimary).
		Bold(true).
		Padding(0, 1)

	title := titleStyle.Render("Catalog")

	if m.loading {
		return title + "\n" + theme.StyleMuted.Render("  Loading...")
	}

	if m.tree == nil {
		return title + "\n" + theme.StyleMuted.Render("  No connection")
	}

	var b strings.Builder
	b.WriteString(title)
	b.WriteString("\n")

	visibleHeight := m.height - 2 // title + padding
	if visibleHeight < 1 {
		visibleHeight = 1
	}

	// Scroll offset to keep cursor visible
	scrollOffset := 0
	if m.cursor >= visibleHeight {
		scrollOffset = m.cursor - visibleHeight + 1
	}

	for i := scrollOffset; i < len(m.items) && i < scrollOffset+visibleHeight; i++ {
		item := m.items[i]
		line := m.renderNode(item, i == m.cursor)
		b.WriteString(line)
		if i < scrollOffset+visibleHeight-1 {
			b.WriteString("\n")
		}
	}

	return b.String()
}

func (m Model) renderNode(item flatItem, selected bool) string {
	node := item.node
	indent := strings.Repeat("  ", item.depth)

	var mark string
	inQuery := false
	switch node.Kind {
	case NodeDatabase:
		mark = "▼ "
	case NodeTable:
		if node.Expanded {
			mark = "▼ "
		} else {
			mark = "▶ "
		}
		if m.query != nil && m.query.HasTable(node.Name) {
			mark += "[+] "
			inQuery = true
		} else {
			mark += "[ ] "
		}
	case NodeColumn:
		if m.query != nil && m.query.IsColumnSelected(node.Table, node.Name) {
			mark = "[x] "
			inQuery = true
		} else {
			mark = "[ ] "
		}
	}

	var meta string
	switch node.Kind {
	case NodeTable:
		if node.RowCount >= 0 {
			meta = fmt.Sprintf("~%d", node.RowCount)
		}
	case NodeColumn:
		meta = node.DataType
		if node.Key != "" {
			meta += " " + node.Key
		}
	}

	// Measure and truncate on the plain text, trimming whole runes. Styles
	// are applied afterwards so an escape sequence is never cut mid-way.
	plain := indent + mark + node.Name
	if meta != "" {
		plain += " " + meta
	}
	truncated := false
	if m.width > 4 && lipgloss.Width(plain) > m.width-2 {
		runes := []rune(plain)
		for len(runes) > 0 && lipgloss.Width(string(runes)) > m.width-4 {
			runes = runes[:len(runes)-1]
		}
		plain = string(runes) + ".."
		truncated = true
	}

	if selected {
		return lipgloss.NewStyle().
			Foreground(theme.ColorHighlight).
			Bold(true).
			Render(plain)
	}
	if truncated {
		return plain
	}

	styledMark := mark
	if inQuery {
		styledMark = theme.StyleSelected.Render(mark)
	}
	line := indent + styledMark + node.Name
	if meta != "" {
		line += " " + theme.StyleMuted.Render(meta)
	}
	return line
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
