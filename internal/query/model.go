package query

import (
	"github.com/querydesk/querydesk/internal/catalog"
)

// Model is the mutable description of one query under construction. Every
// mutator validates against the catalog the model was created with and is
// all-or-nothing: on error the model is unchanged. After any mutator
// returns, no collection holds a reference to a table outside the model's
// table set.
//
// A Model is not safe for concurrent use; each interactive session owns
// exactly one.
type Model struct {
	cat        *catalog.Catalog
	tables     []string // insertion order; first entry is the FROM table
	selected   []SelectedColumn
	joins      []Join
	filters    []Filter
	sorts      []Sort
	groups     []Group
	aggregates []Aggregate
	limit      *int
}

// NewModel creates an empty model bound to a catalog snapshot.
func NewModel(cat *catalog.Catalog) *Model {
	return &Model{cat: cat}
}

// HasTable reports whether the table is part of the query.
func (m *Model) HasTable(name string) bool {
	for _, t := range m.tables {
		if t == name {
			return true
		}
	}
	return false
}

// checkColumn validates that the table is part of the query and the column
// exists on it in the catalog.
func (m *Model) checkColumn(table, column string) error {
	if !m.HasTable(table) {
		return &ReferenceError{Table: table}
	}
	if _, ok := m.cat.Column(table, column); !ok {
		return &ReferenceError{Table: table, Column: column}
	}
	return nil
}

// AddTable places a catalog table in the query. Adding a table that is
// already present is a no-op.
func (m *Model) AddTable(name string) error {
	if _, ok := m.cat.Lookup(name); !ok {
		return &ReferenceError{Table: name}
	}
	if m.HasTable(name) {
		return nil
	}
	m.tables = append(m.tables, name)
	return nil
}

// RemoveTable removes a table and cascades removal of every dependent
// selected column, join, filter, sort, group and aggregate. Removing a table
// that is not present is a no-op.
func (m *Model) RemoveTable(name string) {
	idx := -1
	for i, t := range m.tables {
		if t == name {
			idx = i
			break
		}
	}
	if idx < 0 {
		return
	}
	m.tables = append(m.tables[:idx], m.tables[idx+1:]...)

	m.selected = filterInPlace(m.selected, func(c SelectedColumn) bool {
		return c.Table != name
	})
	m.joins = filterInPlace(m.joins, func(j Join) bool {
		return j.LeftTable != name && j.RightTable != name
	})
	m.filters = filterInPlace(m.filters, func(f Filter) bool {
		return f.Table != name
	})
	m.sorts = filterInPlace(m.sorts, func(s Sort) bool {
		return s.Table != name
	})
	m.groups = filterInPlace(m.groups, func(g Group) bool {
		return g.Table != name
	})
	m.aggregates = filterInPlace(m.aggregates, func(a Aggregate) bool {
		return a.Table != name
	})
}

// ToggleColumn adds the (table, column) pair to the SELECT list if absent
// and removes it if present. Toggling twice restores the original state.
func (m *Model) ToggleColumn(table, column string) error {
	if err := m.checkColumn(table, column); err != nil {
		return err
	}
	for i, c := range m.selected {
		if c.Table == table && c.Column == column {
			m.selected = append(m.selected[:i], m.selected[i+1:]...)
			return nil
		}
	}
	m.selected = append(m.selected, SelectedColumn{Table: table, Column: column})
	return nil
}

// IsColumnSelected reports whether the pair is in the SELECT list.
func (m *Model) IsColumnSelected(table, column string) bool {
	for _, c := range m.selected {
		if c.Table == table && c.Column == column {
			return true
		}
	}
	return false
}

// SetColumnAlias sets or clears the alias of an already-selected column.
func (m *Model) SetColumnAlias(table, column, alias string) error {
	for i, c := range m.selected {
		if c.Table == table && c.Column == column {
			m.selected[i].Alias = alias
			return nil
		}
	}
	return &ReferenceError{Table: table, Column: column}
}

// AddJoin appends a join edge. Both tables must already be in the query and
// both columns must exist on their tables.
func (m *Model) AddJoin(j Join) error {
	if !j.Kind.valid() {
		return &ValidationError{Reason: "unknown join kind " + string(j.Kind)}
	}
	if err := m.checkColumn(j.LeftTable, j.LeftColumn); err != nil {
		return err
	}
	if err := m.checkColumn(j.RightTable, j.RightColumn); err != nil {
		return err
	}
	m.joins = append(m.joins, j)
	return nil
}

// AddFilter appends a WHERE condition. The value's shape must match the
// operator; the connective defaults to AND.
func (m *Model) AddFilter(f Filter) error {
	if !f.Op.valid() {
		return &ValidationError{Reason: "unknown operator " + string(f.Op)}
	}
	if !f.Op.wantsKind(f.Value.Kind()) {
		return &ValidationError{Reason: "value shape does not match operator " + string(f.Op)}
	}
	switch f.Connective {
	case ConnAnd, ConnOr:
	case "":
		f.Connective = ConnAnd
	default:
		return &ValidationError{Reason: "unknown connective " + string(f.Connective)}
	}
	if err := m.checkColumn(f.Table, f.Column); err != nil {
		return err
	}
	m.filters = append(m.filters, f)
	return nil
}

// AddSort appends an ORDER BY key.
func (m *Model) AddSort(s Sort) error {
	switch s.Direction {
	case SortAsc, SortDesc:
	case "":
		s.Direction = SortAsc
	default:
		return &ValidationError{Reason: "unknown sort direction " + string(s.Direction)}
	}
	if err := m.checkColumn(s.Table, s.Column); err != nil {
		return err
	}
	m.sorts = append(m.sorts, s)
	return nil
}

// AddGroup appends a GROUP BY key.
func (m *Model) AddGroup(g Group) error {
	if err := m.checkColumn(g.Table, g.Column); err != nil {
		return err
	}
	m.groups = append(m.groups, g)
	return nil
}

// AddAggregate appends an aggregate expression to the SELECT list.
func (m *Model) AddAggregate(a Aggregate) error {
	if !a.Fn.valid() {
		return &ValidationError{Reason: "unknown aggregate function " + string(a.Fn)}
	}
	if err := m.checkColumn(a.Table, a.Column); err != nil {
		return err
	}
	m.aggregates = append(m.aggregates, a)
	return nil
}

// SetLimit sets the row limit. Negative values are rejected and leave the
// previous limit in place.
func (m *Model) SetLimit(n int) error {
	if n < 0 {
		return &ValidationError{Reason: "limit must not be negative"}
	}
	m.limit = &n
	return nil
}

// ClearLimit removes the row limit.
func (m *Model) ClearLimit() {
	m.limit = nil
}

// Removal by index; out-of-range indexes are no-ops so the builder UI can
// issue them without guarding against a stale cursor.

func (m *Model) RemoveJoin(i int) {
	if i >= 0 && i < len(m.joins) {
		m.joins = append(m.joins[:i], m.joins[i+1:]...)
	}
}

func (m *Model) RemoveFilter(i int) {
	if i >= 0 && i < len(m.filters) {
		m.filters = append(m.filters[:i], m.filters[i+1:]...)
	}
}

func (m *Model) RemoveSort(i int) {
	if i >= 0 && i < len(m.sorts) {
		m.sorts = append(m.sorts[:i], m.sorts[i+1:]...)
	}
}

func (m *Model) RemoveGroup(i int) {
	if i >= 0 && i < len(m.groups) {
		m.groups = append(m.groups[:i], m.groups[i+1:]...)
	}
}

func (m *Model) RemoveAggregate(i int) {
	if i >= 0 && i < len(m.aggregates) {
		m.aggregates = append(m.aggregates[:i], m.aggregates[i+1:]...)
	}
}

// Reset empties the model, keeping its catalog binding.
func (m *Model) Reset() {
	*m = Model{cat: m.cat}
}

// IsEmpty reports whether no tables are placed in the query.
func (m *Model) IsEmpty() bool {
	return len(m.tables) == 0
}

// Accessors return copies so callers cannot bypass mutator validation.

func (m *Model) Tables() []string {
	out := make([]string, len(m.tables))
	copy(out, m.tables)
	return out
}

func (m *Model) SelectedColumns() []SelectedColumn {
	out := make([]SelectedColumn, len(m.selected))
	copy(out, m.selected)
	return out
}

func (m *Model) Joins() []Join {
	out := make([]Join, len(m.joins))
	copy(out, m.joins)
	return out
}

func (m *Model) Filters() []Filter {
	out := make([]Filter, len(m.filters))
	copy(out, m.filters)
	return out
}

func (m *Model) Sorts() []Sort {
	out := make([]Sort, len(m.sorts))
	copy(out, m.sorts)
	return out
}

func (m *Model) Groups() []Group {
	out := make([]Group, len(m.groups))
	copy(out, m.groups)
	return out
}

func (m *Model) Aggregates() []Aggregate {
	out := make([]Aggregate, len(m.aggregates))
	copy(out, m.aggregates)
	return out
}

// Limit returns the row limit and whether one is set.
func (m *Model) Limit() (int, bool) {
	if m.limit == nil {
		return 0, false
	}
	return *m.limit, true
}

// Catalog returns the catalog snapshot the model validates against.
func (m *Model) Catalog() *catalog.Catalog {
	return m.cat
}

func filterInPlace[T any](s []T, keep func(T) bool) []T {
	out := s[:0]
	for _, v := range s {
		if keep(v) {
			out = append(out, v)
		}
	}
	return out
}
