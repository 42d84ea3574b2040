// Package sqldb runs statements over database/sql drivers (MySQL and SQLite)
// through sqlx.
package sqldb

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"time"

	"holdings-api/internal/executor"
	"holdings-api/internal/mapper"

	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/sirupsen/logrus"
)

// DefaultConnectTimeout bounds how long a MySQL dial may take
const DefaultConnectTimeout = 5 * time.Second

// MySQLConfig holds the settings needed to reach a MySQL server
type MySQLConfig struct {
	Host           string
	Port           int
	User           string
	Password       string
	Name           string
	ConnectTimeout time.Duration
}

// DSN renders the configuration as a go-sql-driver/mysql data source name.
// Dates are left as raw text so the record mapper decides how to render them.
func (c MySQLConfig) DSN() string {
	cfg := mysql.NewConfig()
	cfg.Net = "tcp"
	port := c.Port
	if port == 0 {
		port = 3306
	}
	cfg.Addr = net.JoinHostPort(c.Host, strconv.Itoa(port))
	cfg.User = c.User
	cfg.Passwd = c.Password
	cfg.DBName = c.Name
	cfg.Timeout = c.ConnectTimeout
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultConnectTimeout
	}
	cfg.ParseTime = false
	return cfg.FormatDSN()
}

// Executor implements executor.Executor on top of a *sqlx.DB
type Executor struct {
	db     *sqlx.DB
	driver string
	logger *logrus.Logger
}

var _ executor.Executor = (*Executor)(nil)

// OpenMySQL opens a MySQL-backed executor
func OpenMySQL(cfg MySQLConfig, logger *logrus.Logger) (*Executor, error) {
	db, err := sqlx.Open("mysql", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open mysql: %w", err)
	}
	return New(db, executor.DriverMySQL, logger), nil
}

// OpenSQLite opens a SQLite-backed executor. path may be ":memory:".
func OpenSQLite(path string, logger *logrus.Logger) (*Executor, error) {
	db, err := sqlx.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite: %w", err)
	}
	// SQLite serializes writers; a single connection also keeps an
	// in-memory database alive and shared.
	db.SetMaxOpenConns(1)
	return New(db, executor.DriverSQLite, logger), nil
}

// New wraps an existing connection. driver is one of the executor.Driver
// constants and selects the server-time query.
func New(db *sqlx.DB, driver string, logger *logrus.Logger) *Executor {
	if logger == nil {
		logger = logrus.New()
	}
	return &Executor{
		db:     db,
		driver: driver,
		logger: logger,
	}
}

// DB exposes the underlying connection
func (e *Executor) DB() *sqlx.DB {
	return e.db
}

// Driver implements executor.Executor
func (e *Executor) Driver() string {
	return e.driver
}

// Query implements executor.Executor
func (e *Executor) Query(ctx context.Context, query string, params mapper.StorageParams) (mapper.RawRows, error) {
	start := time.Now()

	bound, args, err := e.bind(query, params)
	if err != nil {
		return nil, err
	}

	rows, err := e.db.QueryxContext(ctx, bound, args...)
	if err != nil {
		e.logQuery("query", bound, args, time.Since(start), err)
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to read columns: %w", err)
	}
	types, err := rows.ColumnTypes()
	if err != nil {
		return nil, fmt.Errorf("failed to read column types: %w", err)
	}
	kinds := columnKinds(types)

	result := mapper.Positional{Columns: columns, Rows: [][]any{}}
	for rows.Next() {
		values, err := rows.SliceScan()
		if err != nil {
			e.logQuery("query", bound, args, time.Since(start), err)
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		typeNumbers(values, kinds)
		result.Rows = append(result.Rows, values)
	}
	err = rows.Err()
	e.logQuery("query", bound, args, time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("failed to iterate rows: %w", err)
	}

	return result, nil
}

// Exec implements executor.Executor
func (e *Executor) Exec(ctx context.Context, query string, params mapper.StorageParams) (executor.Result, error) {
	start := time.Now()

	bound, args, err := e.bind(query, params)
	if err != nil {
		return executor.Result{}, err
	}

	res, err := e.db.ExecContext(ctx, bound, args...)
	e.logQuery("exec", bound, args, time.Since(start), err)
	if err != nil {
		return executor.Result{}, fmt.Errorf("exec failed: %w", err)
	}

	var out executor.Result
	if out.RowsAffected, err = res.RowsAffected(); err != nil {
		return executor.Result{}, fmt.Errorf("failed to read rows affected: %w", err)
	}
	// Not every statement produces an id; a failure here is not an error.
	if id, err := res.LastInsertId(); err == nil {
		out.LastInsertID = id
	}
	return out, nil
}

// ServerTime implements executor.Executor
func (e *Executor) ServerTime(ctx context.Context) (string, error) {
	query := "SELECT NOW()"
	if e.driver == executor.DriverSQLite {
		query = "SELECT CURRENT_TIMESTAMP"
	}

	start := time.Now()
	var now any
	err := e.db.QueryRowxContext(ctx, query).Scan(&now)
	e.logQuery("server_time", query, nil, time.Since(start), err)
	if err != nil {
		return "", fmt.Errorf("failed to read server time: %w", err)
	}

	return fmt.Sprint(mapper.Scalar(now)), nil
}

// Ping implements executor.Executor
func (e *Executor) Ping(ctx context.Context) error {
	return e.db.PingContext(ctx)
}

// Close implements executor.Executor
func (e *Executor) Close() error {
	return e.db.Close()
}

// bind rewrites :name placeholders into the driver's bindvars.
func (e *Executor) bind(query string, params mapper.StorageParams) (string, []any, error) {
	if len(params) == 0 {
		return query, nil, nil
	}

	bound, args, err := sqlx.Named(query, params.Named())
	if err != nil {
		return "", nil, fmt.Errorf("failed to bind parameters: %w", err)
	}
	return e.db.Rebind(bound), args, nil
}

// logQuery logs a statement with its execution time
func (e *Executor) logQuery(operation string, query string, args []any, duration time.Duration, err error) {
	fields := logrus.Fields{
		"operation": operation,
		"driver":    e.driver,
		"query":     query,
		"args":      args,
		"duration":  duration,
	}

	if err != nil {
		fields["error"] = err.Error()
		e.logger.WithFields(fields).Error("Query failed")
	} else {
		e.logger.WithFields(fields).Debug("Query executed")
	}
}
