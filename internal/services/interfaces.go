package services

import (
	"context"
	"errors"

	"holdings-api/internal/mapper"
	"holdings-api/internal/models"
)

// ErrInvalidStoredRecord is returned when a row read from the database does
// not satisfy its schema. It is a server-side fault, not a client one.
var ErrInvalidStoredRecord = errors.New("stored record failed validation")

// HoldingService defines the business operations on holdings
type HoldingService interface {
	// ListHoldings returns every holding in the API shape
	ListHoldings(ctx context.Context) ([]mapper.Record, error)

	// GetHolding returns a single holding
	GetHolding(ctx context.Context, id int64) (mapper.Record, error)

	// CreateHolding validates input, stores it and returns the stored holding
	CreateHolding(ctx context.Context, input map[string]any) (mapper.Record, error)

	// DeleteHolding removes a holding
	DeleteHolding(ctx context.Context, id int64) error
}

// EmployeeService exposes the employees table
type EmployeeService interface {
	ListEmployees(ctx context.Context) ([]mapper.Record, error)
}

// HealthService reports whether the database is reachable
type HealthService interface {
	Check(ctx context.Context) (*models.HealthStatus, error)
}

// GreetingService builds the /hello message
type GreetingService interface {
	Greet(name string) *models.Greeting
}
