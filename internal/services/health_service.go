package services

import (
	"context"
	"fmt"

	"holdings-api/internal/models"
	"holdings-api/internal/repositories"
)

type healthService struct {
	healthRepo repositories.HealthRepository
}

// NewHealthService creates a new health service instance
func NewHealthService(healthRepo repositories.HealthRepository) HealthService {
	return &healthService{healthRepo: healthRepo}
}

// Check reads the database clock
func (s *healthService) Check(ctx context.Context) (*models.HealthStatus, error) {
	now, err := s.healthRepo.ServerTime(ctx)
	if err != nil {
		return nil, fmt.Errorf("DB error: %w", err)
	}
	return &models.HealthStatus{OK: true, ServerTime: now}, nil
}
