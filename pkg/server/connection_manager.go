package server

import (
	"context"
	"sync"

	"law-ai-api/internal/config"
)

// ConnectionManager keeps one container alive across warm Lambda invocations.
// Build failures are not cached, so the next invocation retries.
type ConnectionManager struct {
	mu        sync.Mutex
	container *Container

	loadConfig func() (*config.Config, error)
	options    []ContainerOption
}

// NewConnectionManager creates a manager that builds its container on first use
func NewConnectionManager(loadConfig func() (*config.Config, error), opts ...ContainerOption) *ConnectionManager {
	if loadConfig == nil {
		loadConfig = config.GetOptimizedConfig
	}
	return &ConnectionManager{
		loadConfig: loadConfig,
		options:    opts,
	}
}

// GetContainer returns the cached container, building it if necessary
func (cm *ConnectionManager) GetContainer(ctx context.Context) (*Container, error) {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	if cm.container == nil {
		cfg, err := cm.loadConfig()
		if err != nil {
			return nil, err
		}

		container, err := NewContainer(ctx, cfg, cm.options...)
		if err != nil {
			return nil, err
		}
		cm.container = container
	}

	return cm.container, nil
}
