package services

import (
	"context"
	"fmt"

	"holdings-api/internal/mapper"
	"holdings-api/internal/repositories"

	"github.com/samber/lo"
)

type employeeService struct {
	employeeRepo repositories.EmployeeRepository
}

// NewEmployeeService creates a new employee service instance
func NewEmployeeService(employeeRepo repositories.EmployeeRepository) EmployeeService {
	return &employeeService{employeeRepo: employeeRepo}
}

// ListEmployees returns every employee with its columns as stored
func (s *employeeService) ListEmployees(ctx context.Context) ([]mapper.Record, error) {
	recs, err := s.employeeRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	return lo.Map(recs, func(rec mapper.Record, _ int) mapper.Record {
		return mapper.ToScalars(rec)
	}), nil
}
