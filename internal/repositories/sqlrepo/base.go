// Package sqlrepo implements the repositories on top of an executor.Executor,
// so the same SQL runs against MySQL, SQLite and the Aurora Data API.
package sqlrepo

import (
	"context"
	"strconv"
	"strings"

	"holdings-api/internal/executor"
	"holdings-api/internal/mapper"
	"holdings-api/internal/repositories"

	"github.com/sirupsen/logrus"
)

// baseRepository provides common functionality for all repositories
type baseRepository struct {
	exec   executor.Executor
	table  string
	entity string
	logger *logrus.Logger
}

func newBaseRepository(exec executor.Executor, table, entity string, logger *logrus.Logger) baseRepository {
	if logger == nil {
		logger = logrus.New()
	}
	return baseRepository{
		exec:   exec,
		table:  table,
		entity: entity,
		logger: logger,
	}
}

// query runs a statement and normalizes its rows
func (r *baseRepository) query(ctx context.Context, op, id, query string, params mapper.StorageParams) ([]mapper.Record, error) {
	raw, err := r.exec.Query(ctx, query, params)
	if err != nil {
		return nil, repositories.NewRepositoryError(op, r.entity, id, err)
	}

	recs := mapper.NormalizeRows(raw)
	r.logger.WithFields(logrus.Fields{
		"operation": op,
		"table":     r.table,
		"rows":      len(recs),
	}).Debug("Rows fetched")
	return recs, nil
}

// execute runs a statement that returns no rows
func (r *baseRepository) execute(ctx context.Context, op, id, query string, params mapper.StorageParams) (executor.Result, error) {
	res, err := r.exec.Exec(ctx, query, params)
	if err != nil {
		return executor.Result{}, repositories.NewRepositoryError(op, r.entity, id, err)
	}
	return res, nil
}

// validateID rejects ids the table can never hold
func (r *baseRepository) validateID(id int64) error {
	if id <= 0 {
		return repositories.InvalidIDError(r.entity, formatID(id))
	}
	return nil
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}

// quoteIdent quotes an identifier for MySQL and SQLite
func quoteIdent(name string) string {
	return "`" + strings.ReplaceAll(name, "`", "``") + "`"
}

func quoteIdents(names []string) string {
	quoted := make([]string, len(names))
	for i, n := range names {
		quoted[i] = quoteIdent(n)
	}
	return strings.Join(quoted, ", ")
}
