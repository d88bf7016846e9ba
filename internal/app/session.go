package app

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/querydesk/querydesk/internal/catalog"
	"github.com/querydesk/querydesk/internal/database"
	"github.com/querydesk/querydesk/internal/query"
)

// DefaultQueryTimeout bounds a single execution unless the config overrides it.
const DefaultQueryTimeout = 30 * time.Second

// HistoryEntry records one successful execution.
type HistoryEntry struct {
	ID       uuid.UUID
	SQL      string
	RowCount int
	Duration time.Duration
	At       time.Time
}

// Session owns one catalog snapshot, one query model under construction, and
// the latest execution result. The model itself is not synchronized; the
// session assumes a single interactive owner and only guards the execution
// state, which is the one place background work overlaps UI calls.
type Session struct {
	driver  database.Driver
	logger  *slog.Logger
	timeout time.Duration

	catalog *catalog.Catalog
	model   *query.Model

	mu         sync.Mutex
	executing  bool
	lastResult *database.QueryResult
	history    []HistoryEntry
}

// NewSession creates a session around a driver. A zero timeout falls back to
// DefaultQueryTimeout.
func NewSession(driver database.Driver, logger *slog.Logger, timeout time.Duration) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	if timeout <= 0 {
		timeout = DefaultQueryTimeout
	}
	return &Session{driver: driver, logger: logger, timeout: timeout}
}

// Connect establishes the database connection.
func (s *Session) Connect(ctx context.Context, dsn string) error {
	if err := s.driver.Connect(ctx, dsn); err != nil {
		return &ErrConnection{Cause: err}
	}
	return nil
}

// Disconnect closes the database connection.
func (s *Session) Disconnect() error {
	return s.driver.Close()
}

// Start loads the catalog and creates an empty model against it. The driver
// must already be connected.
func (s *Session) Start(ctx context.Context) error {
	cat, err := catalog.Load(ctx, s.driver, s.logger)
	if err != nil {
		return err
	}
	if skipped := cat.Skipped(); len(skipped) > 0 {
		s.logger.Warn("catalog loaded partially", "skipped", skipped)
	}
	s.catalog = cat
	s.model = query.NewModel(cat)
	return nil
}

// Reload replaces the catalog with a fresh snapshot and resets the model.
// The old catalog is never patched in place.
func (s *Session) Reload(ctx context.Context) error {
	return s.Start(ctx)
}

// NewQuery discards the current model and starts an empty one against the
// held catalog.
func (s *Session) NewQuery() {
	s.model = query.NewModel(s.catalog)
}

// Catalog returns the current catalog snapshot.
func (s *Session) Catalog() *catalog.Catalog {
	return s.catalog
}

// Model returns the live query model.
func (s *Session) Model() *query.Model {
	return s.model
}

// CurrentSQL recompiles from the live model on every call. It is never
// cached across a mutation, so the text always matches the model's state.
func (s *Session) CurrentSQL() string {
	if s.model == nil {
		return query.EmptySQL
	}
	return query.Compile(s.model)
}

// Execute compiles the model and runs the SQL through the executor.
//
// It rejects the empty-model sentinel locally with ErrNothingToRun, without
// calling the executor. While an execution is outstanding a second call is
// rejected with ErrBusy. The session timeout applies on top of any caller
// deadline; exceeding it yields ErrTimeout. Executor failures are wrapped in
// ErrExecution and never retried here.
func (s *Session) Execute(ctx context.Context) (*database.QueryResult, error) {
	sql := s.CurrentSQL()
	if sql == query.EmptySQL {
		return nil, ErrNothingToRun
	}

	s.mu.Lock()
	if s.executing {
		s.mu.Unlock()
		return nil, ErrBusy
	}
	s.executing = true
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.executing = false
		s.mu.Unlock()
	}()

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	result, err := s.driver.ExecuteQuery(ctx, sql)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, &ErrTimeout{Limit: s.timeout}
		}
		return nil, &ErrExecution{SQL: sql, Cause: err}
	}

	s.mu.Lock()
	s.lastResult = result
	s.history = append(s.history, HistoryEntry{
		ID:       uuid.New(),
		SQL:      sql,
		RowCount: result.RowCount,
		Duration: result.Duration,
		At:       time.Now(),
	})
	s.mu.Unlock()

	return result, nil
}

// Executing reports whether an execution is outstanding.
func (s *Session) Executing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.executing
}

// LastResult returns the most recent successful result, if any.
func (s *Session) LastResult() *database.QueryResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastResult
}

// History returns the executed-query log, oldest first.
func (s *Session) History() []HistoryEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]HistoryEntry, len(s.history))
	copy(out, s.history)
	return out
}

// GetTableRowCount returns the approximate row count for a table.
func (s *Session) GetTableRowCount(ctx context.Context, table string) (int64, error) {
	return s.driver.GetTableRowCount(ctx, table)
}

// DatabaseName returns the current database name.
func (s *Session) DatabaseName() string {
	return s.driver.DatabaseName()
}
