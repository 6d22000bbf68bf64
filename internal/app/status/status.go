package status

import (
	"context"
	"fmt"

	"github.com/onebox-dev/onebox/internal/log"
	"github.com/onebox-dev/onebox/internal/model"
	"github.com/onebox-dev/onebox/internal/sandbox"
)

// ServiceConfig is the configuration for the status service.
type ServiceConfig struct {
	Engine sandbox.Engine
	Logger log.Logger
}

func (c *ServiceConfig) defaults() error {
	if c.Engine == nil {
		return fmt.Errorf("engine is required")
	}
	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "app.Status"})
	return nil
}

// Service reports sandbox state.
type Service struct {
	engine sandbox.Engine
	logger log.Logger
}

// NewService creates a new status service.
func NewService(cfg ServiceConfig) (*Service, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Service{
		engine: cfg.Engine,
		logger: cfg.Logger,
	}, nil
}

// Request contains the parameters for a status query.
type Request struct {
	SandboxName string
}

// Run returns a fresh snapshot of the sandbox state.
func (s *Service) Run(ctx context.Context, req Request) (*model.Sandbox, error) {
	if req.SandboxName == "" {
		return nil, fmt.Errorf("sandbox name is required: %w", model.ErrNotValid)
	}

	sandbox, err := s.engine.Status(ctx, req.SandboxName)
	if err != nil {
		return nil, fmt.Errorf("could not get sandbox status: %w", err)
	}

	return sandbox, nil
}
