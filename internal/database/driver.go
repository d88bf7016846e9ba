package database

import "context"

// Introspector enumerates the tables and columns available to the query
// builder. Implementations must be safe for concurrent use: catalog loading
// fans out one ListColumns call per table.
type Introspector interface {
	// ListTables returns all table names visible to the session.
	ListTables(ctx context.Context) ([]string, error)

	// ListColumns returns all columns for a table, in ordinal order.
	ListColumns(ctx context.Context, table string) ([]Column, error)
}

// Executor runs compiled SQL against the backend. Implementations are
// expected to restrict execution to read-only statements.
type Executor interface {
	// ExecuteQuery runs a SQL query and returns results.
	ExecuteQuery(ctx context.Context, query string) (*QueryResult, error)
}

// Driver defines the full set of database operations the application needs.
// All implementations must be safe for concurrent use.
type Driver interface {
	Introspector
	Executor

	// Connect establishes a connection to the database.
	Connect(ctx context.Context, dsn string) error

	// Close closes the database connection.
	Close() error

	// Ping checks if the connection is alive.
	Ping(ctx context.Context) error

	// GetTableRowCount returns the approximate row count for a table.
	GetTableRowCount(ctx context.Context, table string) (int64, error)

	// DatabaseName returns the name of the connected database.
	DatabaseName() string
}
