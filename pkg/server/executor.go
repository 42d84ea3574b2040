package server

import (
	"fmt"
	"os"
	"path/filepath"

	"holdings-api/internal/config"
	"holdings-api/internal/executor"
	"holdings-api/internal/executor/dataapi"
	"holdings-api/internal/executor/sqldb"

	"github.com/sirupsen/logrus"
)

// sqliteBusyTimeoutMS is how long a writer waits on a locked database
const sqliteBusyTimeoutMS = 5000

// NewExecutor opens the executor selected by cfg.Database.Driver. Reads are
// retried on transient driver failures.
func NewExecutor(cfg *config.Config, logger *logrus.Logger) (executor.Executor, error) {
	if logger == nil {
		logger = logrus.New()
	}

	exec, isTransient, err := openExecutor(cfg.Database, logger)
	if err != nil {
		return nil, err
	}

	retry := executor.DefaultRetryConfig(isTransient)
	retry.MaxAttempts = cfg.Database.RetryAttempts
	return executor.NewRetrying(exec, retry, logger), nil
}

func openExecutor(db config.DatabaseConfig, logger *logrus.Logger) (executor.Executor, func(error) bool, error) {
	switch db.Driver {
	case executor.DriverMySQL:
		logger.WithFields(logrus.Fields{
			"driver":   db.Driver,
			"host":     db.Host,
			"port":     db.Port,
			"database": db.Name,
		}).Info("Creating MySQL connection")

		exec, err := sqldb.OpenMySQL(sqldb.MySQLConfig{
			Host:           db.Host,
			Port:           db.Port,
			User:           db.User,
			Password:       db.Password,
			Name:           db.Name,
			ConnectTimeout: db.ConnectTimeout,
		}, logger)
		return exec, sqldb.IsTransient, err

	case executor.DriverSQLite:
		dsn, err := sqliteDSN(db.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		logger.WithFields(logrus.Fields{
			"driver": db.Driver,
			"dsn":    dsn,
		}).Info("Creating SQLite connection")

		exec, err := sqldb.OpenSQLite(dsn, logger)
		return exec, sqldb.IsTransient, err

	case executor.DriverDataAPI:
		logger.WithFields(logrus.Fields{
			"driver":   db.Driver,
			"cluster":  db.ClusterARN,
			"database": db.Name,
			"region":   db.Region,
		}).Info("Creating Data API client")

		exec, err := dataapi.New(dataapi.Config{
			ClusterARN: db.ClusterARN,
			SecretARN:  db.SecretARN,
			Database:   db.Name,
			Region:     db.Region,
		}, logger)
		return exec, dataapi.IsTransient, err

	default:
		return nil, nil, fmt.Errorf("unsupported database driver: %s", db.Driver)
	}
}

// sqliteDSN makes sure the database directory exists and adds connection
// options. In-memory databases are passed through untouched.
func sqliteDSN(path string) (string, error) {
	if path == "" || path == ":memory:" {
		return ":memory:", nil
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to get absolute path: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(absPath), 0o755); err != nil {
		return "", fmt.Errorf("failed to create database directory: %w", err)
	}

	return fmt.Sprintf("%s?_busy_timeout=%d&_foreign_keys=on", absPath, sqliteBusyTimeoutMS), nil
}
