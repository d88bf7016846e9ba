package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/querydesk/querydesk/internal/database"
)

// maxColumnFetches caps the concurrent ListColumns calls during a load so a
// wide schema does not flood the introspection endpoint. The pool holds five
// connections; one is left free for the UI's row-count probes.
const maxColumnFetches = 4

// ColumnInfo describes one column of a cataloged table. Immutable after load.
type ColumnInfo struct {
	Name             string
	DataType         string
	IsPrimaryKey     bool
	IsForeignKey     bool
	IsNullable       bool
	ReferencedTable  string // set only when IsForeignKey
	ReferencedColumn string // set only when IsForeignKey
}

// TableInfo describes one cataloged table and its columns in ordinal order.
// Immutable after load.
type TableInfo struct {
	Name    string
	Columns []ColumnInfo
}

// Column returns the named column, if the table has it.
func (t TableInfo) Column(name string) (ColumnInfo, bool) {
	for _, c := range t.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return ColumnInfo{}, false
}

// Catalog is a read-only snapshot of the schema available to the query
// builder. It is replaced wholesale on reload, never patched.
type Catalog struct {
	tables  map[string]TableInfo
	names   []string // sorted
	skipped []string // tables whose column fetch failed
}

// Load builds a catalog from the introspector: one ListTables call, then one
// ListColumns call per table, fanned out with a small concurrency cap.
//
// A failed column fetch is non-fatal: the table is logged and omitted so the
// session gets a usable partial catalog instead of nothing. Only a ListTables
// failure aborts the load.
func Load(ctx context.Context, intro database.Introspector, logger *slog.Logger) (*Catalog, error) {
	if logger == nil {
		logger = slog.Default()
	}

	names, err := intro.ListTables(ctx)
	if err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}

	// Each goroutine writes only its own slot, so no lock is needed on the
	// result slices.
	columns := make([][]database.Column, len(names))
	errs := make([]error, len(names))

	var wg sync.WaitGroup
	sem := make(chan struct{}, maxColumnFetches)
	for i, name := range names {
		wg.Add(1)
		go func(i int, name string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			columns[i], errs[i] = intro.ListColumns(ctx, name)
		}(i, name)
	}
	wg.Wait()

	cat := &Catalog{tables: make(map[string]TableInfo, len(names))}
	for i, name := range names {
		if errs[i] != nil {
			logger.Warn("skipping table: column introspection failed",
				"table", name, "error", errs[i])
			cat.skipped = append(cat.skipped, name)
			continue
		}
		info := TableInfo{Name: name, Columns: make([]ColumnInfo, 0, len(columns[i]))}
		for _, c := range columns[i] {
			info.Columns = append(info.Columns, ColumnInfo{
				Name:             c.Name,
				DataType:         c.DataType,
				IsPrimaryKey:     c.IsPrimaryKey,
				IsForeignKey:     c.IsForeignKey,
				IsNullable:       c.IsNullable,
				ReferencedTable:  c.ReferencedTable,
				ReferencedColumn: c.ReferencedColumn,
			})
		}
		cat.tables[name] = info
		cat.names = append(cat.names, name)
	}
	sort.Strings(cat.names)
	sort.Strings(cat.skipped)

	return cat, nil
}

// Lookup returns the named table, if present.
func (c *Catalog) Lookup(table string) (TableInfo, bool) {
	t, ok := c.tables[table]
	return t, ok
}

// Column returns a column of a cataloged table.
func (c *Catalog) Column(table, column string) (ColumnInfo, bool) {
	t, ok := c.tables[table]
	if !ok {
		return ColumnInfo{}, false
	}
	return t.Column(column)
}

// Tables returns the cataloged table names in sorted order.
func (c *Catalog) Tables() []string {
	out := make([]string, len(c.names))
	copy(out, c.names)
	return out
}

// Len returns the number of cataloged tables.
func (c *Catalog) Len() int {
	return len(c.tables)
}

// Skipped returns the names of tables omitted because their column fetch
// failed. Empty on a clean load.
func (c *Catalog) Skipped() []string {
	out := make([]string, len(c.skipped))
	copy(out, c.skipped)
	return out
}
