package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/querydesk/querydesk/internal/database"
)

type fakeIntrospector struct {
	mu       sync.Mutex
	tables   []string
	columns  map[string][]database.Column
	failFor  map[string]bool
	failList bool

	inFlight    atomic.Int32
	maxInFlight atomic.Int32
}

func (f *fakeIntrospector) ListTables(ctx context.Context) ([]string, error) {
	if f.failList {
		return nil, errors.New("introspection endpoint down")
	}
	return f.tables, nil
}

func (f *fakeIntrospector) ListColumns(ctx context.Context, table string) ([]database.Column, error) {
	n := f.inFlight.Add(1)
	defer f.inFlight.Add(-1)
	for {
		max := f.maxInFlight.Load()
		if n <= max || f.maxInFlight.CompareAndSwap(max, n) {
			break
		}
	}
	time.Sleep(2 * time.Millisecond) // let fan-out overlap

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failFor[table] {
		return nil, fmt.Errorf("permission denied for %q", table)
	}
	return f.columns[table], nil
}

func fixture() *fakeIntrospector {
	return &fakeIntrospector{
		tables: []string{"customers", "equipment", "leads", "orders"},
		columns: map[string][]database.Column{
			"customers": {
				{Name: "id", DataType: "integer", IsPrimaryKey: true},
				{Name: "name", DataType: "text"},
			},
			"equipment": {
				{Name: "id", DataType: "integer", IsPrimaryKey: true},
				{Name: "serial", DataType: "text"},
			},
			"leads": {
				{Name: "id", DataType: "integer", IsPrimaryKey: true},
			},
			"orders": {
				{Name: "id", DataType: "integer", IsPrimaryKey: true},
				{Name: "customer_id", DataType: "integer", IsForeignKey: true, ReferencedTable: "customers", ReferencedColumn: "id"},
			},
		},
		failFor: map[string]bool{},
	}
}

func TestLoad(t *testing.T) {
	cat, err := Load(context.Background(), fixture(), slog.Default())
	require.NoError(t, err)

	assert.Equal(t, 4, cat.Len())
	assert.Equal(t, []string{"customers", "equipment", "leads", "orders"}, cat.Tables())
	assert.Empty(t, cat.Skipped())

	tbl, ok := cat.Lookup("orders")
	require.True(t, ok)
	assert.Equal(t, "orders", tbl.Name)
	require.Len(t, tbl.Columns, 2)

	col, ok := cat.Column("orders", "customer_id")
	require.True(t, ok)
	assert.True(t, col.IsForeignKey)
	assert.Equal(t, "customers", col.ReferencedTable)
	assert.Equal(t, "id", col.ReferencedColumn)

	_, ok = cat.Lookup("invoices")
	assert.False(t, ok)
	_, ok = cat.Column("orders", "nope")
	assert.False(t, ok)
	_, ok = cat.Column("invoices", "id")
	assert.False(t, ok)
}

func TestLoadToleratesPartialFailure(t *testing.T) {
	intro := fixture()
	intro.failFor["equipment"] = true
	intro.failFor["leads"] = true

	cat, err := Load(context.Background(), intro, slog.Default())
	require.NoError(t, err, "a failed column fetch must not abort the load")

	assert.Equal(t, 2, cat.Len())
	assert.Equal(t, []string{"equipment", "leads"}, cat.Skipped())
	_, ok := cat.Lookup("equipment")
	assert.False(t, ok)
	_, ok = cat.Lookup("customers")
	assert.True(t, ok)
}

func TestLoadFailsWhenTableListFails(t *testing.T) {
	intro := fixture()
	intro.failList = true

	_, err := Load(context.Background(), intro, slog.Default())
	require.Error(t, err)
}

func TestLoadCapsConcurrency(t *testing.T) {
	intro := fixture()
	// Widen the schema so the fan-out actually queues.
	for i := 0; i < 40; i++ {
		name := fmt.Sprintf("t%02d", i)
		intro.tables = append(intro.tables, name)
		intro.columns[name] = []database.Column{{Name: "id", DataType: "integer"}}
	}

	cat, err := Load(context.Background(), intro, slog.Default())
	require.NoError(t, err)
	assert.Equal(t, 44, cat.Len())
	assert.LessOrEqual(t, intro.maxInFlight.Load(), int32(maxColumnFetches))
}

func TestTableInfoColumn(t *testing.T) {
	tbl := TableInfo{Name: "customers", Columns: []ColumnInfo{
		{Name: "id"}, {Name: "name"},
	}}
	c, ok := tbl.Column("name")
	require.True(t, ok)
	assert.Equal(t, "name", c.Name)
	_, ok = tbl.Column("age")
	assert.False(t, ok)
}
