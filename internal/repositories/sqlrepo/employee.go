package sqlrepo

import (
	"context"
	"fmt"

	"holdings-api/internal/executor"
	"holdings-api/internal/mapper"
	"holdings-api/internal/models"
	"holdings-api/internal/repositories"

	"github.com/sirupsen/logrus"
)

// EmployeeRepository implements repositories.EmployeeRepository
type EmployeeRepository struct {
	baseRepository
}

// NewEmployeeRepository creates a new employee repository
func NewEmployeeRepository(exec executor.Executor, logger *logrus.Logger) repositories.EmployeeRepository {
	return &EmployeeRepository{
		baseRepository: newBaseRepository(exec, models.EmployeesTable, "employee", logger),
	}
}

// List retrieves all employees. The table has no declared schema, so rows are
// ordered by their first column.
func (r *EmployeeRepository) List(ctx context.Context) ([]mapper.Record, error) {
	query := fmt.Sprintf("SELECT * FROM %s ORDER BY 1 DESC", quoteIdent(r.table))
	return r.query(ctx, "list", "", query, nil)
}
