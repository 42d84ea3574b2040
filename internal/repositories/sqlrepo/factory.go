package sqlrepo

import (
	"holdings-api/internal/executor"
	"holdings-api/internal/repositories"

	"github.com/sirupsen/logrus"
)

// Factory implements repositories.Factory over a single executor
type Factory struct {
	exec   executor.Executor
	logger *logrus.Logger
}

// NewFactory creates a new repository factory
func NewFactory(exec executor.Executor, logger *logrus.Logger) repositories.Factory {
	if logger == nil {
		logger = logrus.New()
	}
	return &Factory{
		exec:   exec,
		logger: logger,
	}
}

// CreateHoldingRepository creates a holding repository
func (f *Factory) CreateHoldingRepository() repositories.HoldingRepository {
	return NewHoldingRepository(f.exec, f.logger)
}

// CreateEmployeeRepository creates an employee repository
func (f *Factory) CreateEmployeeRepository() repositories.EmployeeRepository {
	return NewEmployeeRepository(f.exec, f.logger)
}

// CreateHealthRepository creates a health repository
func (f *Factory) CreateHealthRepository() repositories.HealthRepository {
	return NewHealthRepository(f.exec, f.logger)
}
