package lambda

import (
	"context"
	"errors"
	"sync"
	"time"

	"holdings-api/internal/config"
	"holdings-api/pkg/server"

	"github.com/sirupsen/logrus"
)

// staleAfter is how long an idle container is still reported healthy
const staleAfter = 5 * time.Minute

// ConnectionManager keeps one container alive across warm Lambda invocations
type ConnectionManager struct {
	container   *server.Container
	lastUsed    time.Time
	mu          sync.RWMutex
	initialized bool
	initMu      sync.Mutex
	config      *config.Config
	logger      *logrus.Logger

	// newContainer is swapped in tests
	newContainer func(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (*server.Container, error)
}

var (
	globalConnectionManager *ConnectionManager
	connectionManagerOnce   sync.Once
)

// GetConnectionManager returns the global connection manager instance
func GetConnectionManager() *ConnectionManager {
	connectionManagerOnce.Do(func() {
		globalConnectionManager = NewConnectionManager(nil)
	})
	return globalConnectionManager
}

// NewConnectionManager creates an uninitialized manager
func NewConnectionManager(logger *logrus.Logger) *ConnectionManager {
	if logger == nil {
		logger = logrus.New()
	}
	return &ConnectionManager{
		logger:       logger,
		newContainer: server.NewContainer,
	}
}

// Initialize builds the container from cfg. It is a no-op while a container
// is live. A failed attempt leaves the manager empty, so the next call tries
// again.
func (cm *ConnectionManager) Initialize(ctx context.Context, cfg *config.Config) error {
	cm.initMu.Lock()
	defer cm.initMu.Unlock()

	cm.mu.RLock()
	live := cm.initialized && cm.container != nil
	cm.mu.RUnlock()
	if live {
		return nil
	}

	cm.mu.Lock()
	cm.config = cfg
	cm.mu.Unlock()

	container, err := cm.newContainer(ctx, cfg, cm.logger)
	if err != nil {
		cm.logger.WithError(err).Error("Failed to initialize Lambda container")
		return err
	}

	cm.mu.Lock()
	defer cm.mu.Unlock()
	cm.container = container
	cm.lastUsed = time.Now()
	cm.initialized = true
	cm.logger.WithFields(logrus.Fields{
		"driver": cfg.Database.Driver,
		"mode":   config.GetDeploymentMode(),
	}).Info("Lambda container initialized")
	return nil
}

// GetContainer returns the service container, initializing if necessary
func (cm *ConnectionManager) GetContainer(ctx context.Context) (*server.Container, error) {
	cm.mu.Lock()
	if cm.initialized && cm.container != nil {
		cm.lastUsed = time.Now()
		container := cm.container
		cm.mu.Unlock()
		return container, nil
	}
	cfg := cm.config
	cm.mu.Unlock()

	if cfg == nil {
		loaded, err := config.GetOptimizedConfig()
		if err != nil {
			return nil, err
		}
		if err := config.ConfigureLogger(cm.logger, loaded); err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if err := cm.Initialize(ctx, cfg); err != nil {
		return nil, err
	}

	cm.mu.RLock()
	defer cm.mu.RUnlock()
	if cm.container == nil {
		return nil, errors.New("container is not initialized")
	}
	return cm.container, nil
}

// IsHealthy checks if the connection manager is healthy
func (cm *ConnectionManager) IsHealthy() bool {
	cm.mu.RLock()
	defer cm.mu.RUnlock()

	if !cm.initialized || cm.container == nil {
		return false
	}
	return time.Since(cm.lastUsed) < staleAfter
}

// Cleanup closes the container's database resources. The config is kept, so
// the next GetContainer builds a fresh container from it.
func (cm *ConnectionManager) Cleanup() error {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	if cm.container != nil {
		if err := cm.container.Close(); err != nil {
			return err
		}
		cm.container = nil
	}

	cm.initialized = false
	return nil
}
