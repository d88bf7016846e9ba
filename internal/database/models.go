package database

import "time"

// Column represents a table column with its metadata.
type Column struct {
	Name             string
	DataType         string
	IsNullable       bool
	IsPrimaryKey     bool
	IsForeignKey     bool
	ReferencedTable  string // set only when IsForeignKey
	ReferencedColumn string // set only when IsForeignKey
	OrdinalPos       int
}

// QueryResult holds the result of a SQL query execution.
type QueryResult struct {
	Columns  []string
	Rows     [][]string
	RowCount int
	Duration time.Duration
}
