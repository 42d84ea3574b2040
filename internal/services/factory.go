package services

import (
	"fmt"

	"holdings-api/internal/repositories"

	"github.com/sirupsen/logrus"
)

// ServiceContainer holds all service instances
type ServiceContainer struct {
	HoldingService  HoldingService
	EmployeeService EmployeeService
	HealthService   HealthService
	GreetingService GreetingService
}

// ServiceConfig holds configuration for services
type ServiceConfig struct {
	// HelloDefaultName is greeted when /hello gets no name
	HelloDefaultName string
}

// NewServiceContainer creates a new service container with all services
func NewServiceContainer(repos repositories.Factory, config *ServiceConfig, logger *logrus.Logger) (*ServiceContainer, error) {
	if repos == nil {
		return nil, fmt.Errorf("repository factory cannot be nil")
	}

	if config == nil {
		config = &ServiceConfig{}
	}

	return &ServiceContainer{
		HoldingService:  NewHoldingService(repos.CreateHoldingRepository(), logger),
		EmployeeService: NewEmployeeService(repos.CreateEmployeeRepository()),
		HealthService:   NewHealthService(repos.CreateHealthRepository()),
		GreetingService: NewGreetingService(config.HelloDefaultName),
	}, nil
}
