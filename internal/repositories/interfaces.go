package repositories

import (
	"context"

	"holdings-api/internal/mapper"
)

// HoldingRepository reads and writes rows of the holdings table. Rows are
// returned normalized but not yet mapped to the API shape.
type HoldingRepository interface {
	// List returns every holding, newest first
	List(ctx context.Context) ([]mapper.Record, error)

	// GetByID returns a single holding
	GetByID(ctx context.Context, id int64) (mapper.Record, error)

	// Create inserts a holding and returns the stored row
	Create(ctx context.Context, params mapper.StorageParams) (mapper.Record, error)

	// Delete removes a holding
	Delete(ctx context.Context, id int64) error
}

// EmployeeRepository reads the employees table
type EmployeeRepository interface {
	// List returns every employee, ordered by the first column descending
	List(ctx context.Context) ([]mapper.Record, error)
}

// HealthRepository checks the database
type HealthRepository interface {
	// ServerTime returns the database's current time
	ServerTime(ctx context.Context) (string, error)

	// Ping checks connectivity
	Ping(ctx context.Context) error
}

// Factory creates repository implementations
type Factory interface {
	CreateHoldingRepository() HoldingRepository
	CreateEmployeeRepository() EmployeeRepository
	CreateHealthRepository() HealthRepository
}
