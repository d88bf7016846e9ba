package builder

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/querydesk/querydesk/internal/catalog"
	"github.com/querydesk/querydesk/internal/database"
	"github.com/querydesk/querydesk/internal/query"
)

type fakeIntrospector struct {
	tables map[string][]database.Column
}

func (f *fakeIntrospector) ListTables(ctx context.Context) ([]string, error) {
	names := make([]string, 0, len(f.tables))
	for name := range f.tables {
		names = append(names, name)
	}
	return names, nil
}

func (f *fakeIntrospector) ListColumns(ctx context.Context, table string) ([]database.Column, error) {
	return f.tables[table], nil
}

func testQuery(t *testing.T) *query.Model {
	t.Helper()

	intro := &fakeIntrospector{tables: map[string][]database.Column{
		"customers": {
			{Name: "id", DataType: "integer", IsPrimaryKey: true},
			{Name: "name", DataType: "text"},
		},
		"orders": {
			{Name: "id", DataType: "integer", IsPrimaryKey: true},
			{Name: "customer_id", DataType: "integer", IsForeignKey: true, ReferencedTable: "customers", ReferencedColumn: "id"},
			{Name: "total", DataType: "numeric"},
		},
	}}

	cat, err := catalog.Load(context.Background(), intro, nil)
	require.NoError(t, err)

	qm := query.NewModel(cat)
	require.NoError(t, qm.AddTable("orders"))
	require.NoError(t, qm.AddTable("customers"))
	return qm
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestDeleteKeyRemovesRow(t *testing.T) {
	qm := testQuery(t)
	require.NoError(t, qm.AddJoin(query.Join{
		LeftTable: "orders", LeftColumn: "customer_id",
		RightTable: "customers", RightColumn: "id",
		Kind: query.JoinInner,
	}))
	require.NoError(t, qm.AddFilter(query.Filter{
		Table: "customers", Column: "name",
		Op: query.OpEquals, Value: query.String("a"),
		Connective: query.ConnAnd,
	}))
	require.NoError(t, qm.AddFilter(query.Filter{
		Table: "orders", Column: "total",
		Op: query.OpGreaterThan, Value: query.Number(5),
		Connective: query.ConnAnd,
	}))

	b := New()
	b.SetQuery(qm)
	b.SetFocused(true)
	require.Len(t, b.rows, 3)

	// Delete the join under the cursor; the returned model's row list must
	// shrink in the same step, not wait for an external refresh.
	b, _ = b.Update(keyRunes("d"))
	assert.Len(t, b.rows, 2)
	assert.Empty(t, qm.Joins())
	assert.Equal(t, entryRef{sec: secFilters, idx: 0}, b.rows[0])

	// Move to the second filter and delete it: the remaining filter must be
	// the first one, matching what the cursor pointed at.
	b, _ = b.Update(tea.KeyMsg{Type: tea.KeyDown})
	b, _ = b.Update(keyRunes("d"))
	assert.Len(t, b.rows, 1)
	filters := qm.Filters()
	require.Len(t, filters, 1)
	assert.Equal(t, "name", filters[0].Column)
}

func TestDeleteKeyClampsCursor(t *testing.T) {
	qm := testQuery(t)
	require.NoError(t, qm.AddSort(query.Sort{Table: "orders", Column: "total", Direction: query.SortDesc}))
	require.NoError(t, qm.SetLimit(10))

	b := New()
	b.SetQuery(qm)
	b.SetFocused(true)
	require.Len(t, b.rows, 2)

	// Delete the last row; the cursor must land on the remaining one.
	b, _ = b.Update(tea.KeyMsg{Type: tea.KeyDown})
	b, _ = b.Update(keyRunes("d"))
	require.Len(t, b.rows, 1)
	assert.Equal(t, 0, b.cursor)

	_, ok := qm.Limit()
	assert.False(t, ok)

	b, _ = b.Update(keyRunes("d"))
	assert.Empty(t, b.rows)
	assert.Empty(t, qm.Sorts())
	assert.Equal(t, 0, b.cursor)
}
