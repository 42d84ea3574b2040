package sqlrepo

import (
	"context"

	"holdings-api/internal/executor"
	"holdings-api/internal/repositories"

	"github.com/sirupsen/logrus"
)

// HealthRepository implements repositories.HealthRepository
type HealthRepository struct {
	exec   executor.Executor
	logger *logrus.Logger
}

// NewHealthRepository creates a new health repository
func NewHealthRepository(exec executor.Executor, logger *logrus.Logger) repositories.HealthRepository {
	if logger == nil {
		logger = logrus.New()
	}
	return &HealthRepository{
		exec:   exec,
		logger: logger,
	}
}

// ServerTime asks the database for its clock
func (r *HealthRepository) ServerTime(ctx context.Context) (string, error) {
	now, err := r.exec.ServerTime(ctx)
	if err != nil {
		return "", repositories.ConnectionError(err)
	}
	return now, nil
}

// Ping checks connectivity
func (r *HealthRepository) Ping(ctx context.Context) error {
	if err := r.exec.Ping(ctx); err != nil {
		return repositories.ConnectionError(err)
	}
	return nil
}
