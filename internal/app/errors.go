package app

import (
	"errors"
	"fmt"
	"time"
)

// ErrBusy is returned by Execute while a prior execution is outstanding.
// The call is rejected, never queued.
var ErrBusy = errors.New("a query is already executing")

// ErrNothingToRun is returned by Execute when the model compiles to the
// no-tables sentinel. The executor is not called.
var ErrNothingToRun = errors.New("no tables selected, nothing to run")

// ErrConnection represents a database connection error.
type ErrConnection struct {
	Cause error
}

func (e *ErrConnection) Error() string {
	return fmt.Sprintf("connection error: %v", e.Cause)
}

func (e *ErrConnection) Unwrap() error {
	return e.Cause
}

// ErrExecution represents a query execution error surfaced by the executor.
type ErrExecution struct {
	SQL   string
	Cause error
}

func (e *ErrExecution) Error() string {
	return fmt.Sprintf("execution error: %v", e.Cause)
}

func (e *ErrExecution) Unwrap() error {
	return e.Cause
}

// ErrTimeout is returned when an execution exceeds the session timeout.
type ErrTimeout struct {
	Limit time.Duration
}

func (e *ErrTimeout) Error() string {
	return fmt.Sprintf("query timed out after %s", e.Limit)
}
