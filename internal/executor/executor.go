// Package executor defines the query collaborator the repositories run SQL
// through. Implementations live in the sqldb (database/sql drivers) and
// dataapi (Aurora Data API) subpackages.
package executor

import (
	"context"
	"errors"

	"holdings-api/internal/mapper"
)

// Supported driver names
const (
	DriverMySQL   = "mysql"
	DriverSQLite  = "sqlite"
	DriverDataAPI = "dataapi"
)

// ErrClosed is returned by executors used after Close
var ErrClosed = errors.New("executor is closed")

// Result summarizes a statement that returns no rows
type Result struct {
	LastInsertID int64
	RowsAffected int64
}

// Executor runs parameterized SQL. Statements use :name placeholders that
// are bound from params by name.
type Executor interface {
	// Query runs a statement and returns its rows in the driver's shape.
	Query(ctx context.Context, query string, params mapper.StorageParams) (mapper.RawRows, error)

	// Exec runs a statement that returns no rows.
	Exec(ctx context.Context, query string, params mapper.StorageParams) (Result, error)

	// ServerTime asks the database for its current time.
	ServerTime(ctx context.Context) (string, error)

	Ping(ctx context.Context) error
	Close() error

	// Driver names the backend, one of the Driver constants.
	Driver() string
}
