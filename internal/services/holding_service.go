package services

import (
	"context"
	"fmt"

	"holdings-api/internal/mapper"
	"holdings-api/internal/models"
	"holdings-api/internal/repositories"

	"github.com/sirupsen/logrus"
)

// holdingService implements the HoldingService interface
type holdingService struct {
	holdingRepo repositories.HoldingRepository
	schema      *mapper.Schema
	logger      *logrus.Logger
}

// NewHoldingService creates a new holding service instance
func NewHoldingService(holdingRepo repositories.HoldingRepository, logger *logrus.Logger) HoldingService {
	if logger == nil {
		logger = logrus.New()
	}
	return &holdingService{
		holdingRepo: holdingRepo,
		schema:      models.HoldingSchema,
		logger:      logger,
	}
}

// ListHoldings returns every holding
func (s *holdingService) ListHoldings(ctx context.Context) ([]mapper.Record, error) {
	recs, err := s.holdingRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list holdings: %w", err)
	}

	out, err := mapper.ToAPIRecords(recs, s.schema)
	if err != nil {
		return nil, s.invalidStored(err)
	}
	return out, nil
}

// GetHolding returns a single holding
func (s *holdingService) GetHolding(ctx context.Context, id int64) (mapper.Record, error) {
	rec, err := s.holdingRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get holding: %w", err)
	}

	out, err := mapper.ToAPIRecord(rec, s.schema)
	if err != nil {
		return nil, s.invalidStored(err)
	}
	return out, nil
}

// CreateHolding validates and stores a new holding
func (s *holdingService) CreateHolding(ctx context.Context, input map[string]any) (mapper.Record, error) {
	if input == nil {
		return nil, fmt.Errorf("create holding request cannot be nil")
	}

	params, err := mapper.FromAPIInput(input, s.schema)
	if err != nil {
		return nil, err
	}

	rec, err := s.holdingRepo.Create(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("failed to create holding: %w", err)
	}

	out, err := mapper.ToAPIRecord(rec, s.schema)
	if err != nil {
		return nil, s.invalidStored(err)
	}
	return out, nil
}

// DeleteHolding removes a holding
func (s *holdingService) DeleteHolding(ctx context.Context, id int64) error {
	if err := s.holdingRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete holding: %w", err)
	}
	return nil
}

// invalidStored marks a read-side validation failure as a server fault
func (s *holdingService) invalidStored(err error) error {
	s.logger.WithError(err).Error("Stored holding does not match its schema")
	return fmt.Errorf("%w: %w", ErrInvalidStoredRecord, err)
}
