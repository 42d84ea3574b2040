package sqlrepo

import (
	"context"
	"fmt"
	"strings"

	"holdings-api/internal/executor"
	"holdings-api/internal/mapper"
	"holdings-api/internal/models"
	"holdings-api/internal/repositories"

	"github.com/sirupsen/logrus"
)

// HoldingRepository implements repositories.HoldingRepository
type HoldingRepository struct {
	baseRepository
}

// NewHoldingRepository creates a new holding repository
func NewHoldingRepository(exec executor.Executor, logger *logrus.Logger) repositories.HoldingRepository {
	return &HoldingRepository{
		baseRepository: newBaseRepository(exec, models.HoldingsTable, "holding", logger),
	}
}

// List retrieves all holdings, newest first
func (r *HoldingRepository) List(ctx context.Context) ([]mapper.Record, error) {
	query := fmt.Sprintf("SELECT * FROM %s ORDER BY %s DESC", quoteIdent(r.table), quoteIdent("id"))
	return r.query(ctx, "list", "", query, nil)
}

// GetByID retrieves a holding by ID
func (r *HoldingRepository) GetByID(ctx context.Context, id int64) (mapper.Record, error) {
	if err := r.validateID(id); err != nil {
		return nil, err
	}

	recs, err := r.selectByID(ctx, "get_by_id", id)
	if err != nil {
		return nil, err
	}
	if len(recs) == 0 {
		return nil, repositories.NotFoundError(r.entity, formatID(id))
	}
	return recs[0], nil
}

// Create inserts a holding and reads it back
func (r *HoldingRepository) Create(ctx context.Context, params mapper.StorageParams) (mapper.Record, error) {
	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		quoteIdent(r.table),
		quoteIdents(params.Columns()),
		strings.Join(params.Placeholders(), ", "),
	)

	res, err := r.execute(ctx, "create", "", query, params)
	if err != nil {
		return nil, err
	}
	if res.LastInsertID <= 0 {
		return nil, repositories.EmptyResultError("create", r.entity, "")
	}

	recs, err := r.selectByID(ctx, "create", res.LastInsertID)
	if err != nil {
		return nil, err
	}
	if len(recs) == 0 {
		return nil, repositories.EmptyResultError("create", r.entity, formatID(res.LastInsertID))
	}

	r.logger.WithFields(logrus.Fields{
		"holding_id": res.LastInsertID,
	}).Info("Holding created")
	return recs[0], nil
}

// Delete deletes a holding by ID
func (r *HoldingRepository) Delete(ctx context.Context, id int64) error {
	if err := r.validateID(id); err != nil {
		return err
	}

	query := fmt.Sprintf("DELETE FROM %s WHERE %s = :id", quoteIdent(r.table), quoteIdent("id"))
	res, err := r.execute(ctx, "delete", formatID(id), query, mapper.StorageParams{mapper.LongParam("id", id)})
	if err != nil {
		return err
	}
	if res.RowsAffected == 0 {
		return repositories.NotFoundError(r.entity, formatID(id))
	}
	return nil
}

func (r *HoldingRepository) selectByID(ctx context.Context, op string, id int64) ([]mapper.Record, error) {
	query := fmt.Sprintf("SELECT * FROM %s WHERE %s = :id", quoteIdent(r.table), quoteIdent("id"))
	return r.query(ctx, op, formatID(id), query, mapper.StorageParams{mapper.LongParam("id", id)})
}
