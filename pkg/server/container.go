package server

import (
	"context"
	"fmt"

	"holdings-api/internal/config"
	"holdings-api/internal/executor"
	"holdings-api/internal/repositories/sqlrepo"
	"holdings-api/internal/services"

	"github.com/sirupsen/logrus"
)

// Container holds all application dependencies
type Container struct {
	Config          *config.Config
	Logger          *logrus.Logger
	HoldingService  services.HoldingService
	EmployeeService services.EmployeeService
	HealthService   services.HealthService
	GreetingService services.GreetingService

	// Internal dependencies
	exec     executor.Executor
	services *services.ServiceContainer
}

// NewContainer creates a new dependency injection container. The database is
// pinged once; an unreachable database is logged, not fatal, so /hello and
// /api/health keep answering.
func NewContainer(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (*Container, error) {
	if logger == nil {
		logger = logrus.New()
	}

	exec, err := NewExecutor(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create executor: %w", err)
	}

	return newContainer(ctx, cfg, exec, logger)
}

// NewContainerWithExecutor builds a container around an already open executor
func NewContainerWithExecutor(ctx context.Context, cfg *config.Config, exec executor.Executor, logger *logrus.Logger) (*Container, error) {
	if logger == nil {
		logger = logrus.New()
	}
	return newContainer(ctx, cfg, exec, logger)
}

func newContainer(ctx context.Context, cfg *config.Config, exec executor.Executor, logger *logrus.Logger) (*Container, error) {
	pingCtx := ctx
	if cfg.Database.ConnectTimeout > 0 {
		var cancel context.CancelFunc
		pingCtx, cancel = context.WithTimeout(ctx, cfg.Database.ConnectTimeout)
		defer cancel()
	}
	if err := exec.Ping(pingCtx); err != nil {
		logger.WithError(err).WithField("driver", exec.Driver()).Warn("Database is not reachable yet")
	}

	serviceContainer, err := services.NewServiceContainer(
		sqlrepo.NewFactory(exec, logger),
		&services.ServiceConfig{HelloDefaultName: cfg.HelloDefaultName},
		logger,
	)
	if err != nil {
		_ = exec.Close()
		return nil, fmt.Errorf("failed to create service container: %w", err)
	}

	return &Container{
		Config:          cfg,
		Logger:          logger,
		HoldingService:  serviceContainer.HoldingService,
		EmployeeService: serviceContainer.EmployeeService,
		HealthService:   serviceContainer.HealthService,
		GreetingService: serviceContainer.GreetingService,
		exec:            exec,
		services:        serviceContainer,
	}, nil
}

// Services returns the service container
func (c *Container) Services() *services.ServiceContainer {
	return c.services
}

// Executor returns the executor shared by all repositories
func (c *Container) Executor() executor.Executor {
	return c.exec
}

// Close cleans up all resources
func (c *Container) Close() error {
	if c.exec != nil {
		if err := c.exec.Close(); err != nil {
			return fmt.Errorf("failed to close database: %w", err)
		}
	}
	return nil
}
