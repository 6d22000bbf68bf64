package ensure

import (
	"context"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/onebox-dev/onebox/internal/log"
	"github.com/onebox-dev/onebox/internal/model"
	"github.com/onebox-dev/onebox/internal/sandbox"
	"github.com/onebox-dev/onebox/internal/storage"
)

// ServiceConfig is the configuration for the ensure service.
type ServiceConfig struct {
	Engine     sandbox.Engine
	Repository storage.Repository
	Logger     log.Logger
}

func (c *ServiceConfig) defaults() error {
	if c.Engine == nil {
		return fmt.Errorf("engine is required")
	}
	if c.Repository == nil {
		return fmt.Errorf("repository is required")
	}
	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "app.Ensure"})
	return nil
}

// Service makes sure sandboxes exist and are running.
type Service struct {
	engine sandbox.Engine
	repo   storage.Repository
	logger log.Logger
}

// NewService creates a new ensure service.
func NewService(cfg ServiceConfig) (*Service, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Service{
		engine: cfg.Engine,
		repo:   cfg.Repository,
		logger: cfg.Logger,
	}, nil
}

// Request contains the parameters for ensuring a sandbox.
type Request struct {
	Config model.SandboxConfig
}

// Run makes sure the requested sandbox exists and is running. The call is
// idempotent: repeating it against an already running sandbox changes
// nothing.
func (s *Service) Run(ctx context.Context, req Request) (*model.Sandbox, error) {
	if err := req.Config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid sandbox config: %w", err)
	}

	op := model.Operation{
		ID:          ulid.Make().String(),
		Kind:        model.OperationKindEnsure,
		SandboxName: req.Config.Name,
		Status:      model.OperationStatusRunning,
		Detail:      req.Config.Image,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.repo.CreateOperation(ctx, op); err != nil {
		// The journal never blocks the sandbox operation itself.
		s.logger.Warningf("Could not journal ensure operation: %s", err)
	}

	result, err := s.engine.EnsureRunning(ctx, req.Config)

	now := time.Now().UTC()
	op.FinishedAt = &now
	if err != nil {
		op.Status = model.OperationStatusFailed
		op.Error = err.Error()
	} else {
		op.Status = model.OperationStatusSucceeded
	}
	if uerr := s.repo.UpdateOperation(ctx, op); uerr != nil {
		s.logger.Warningf("Could not journal ensure result: %s", uerr)
	}

	if err != nil {
		return nil, fmt.Errorf("could not ensure sandbox: %w", err)
	}

	s.logger.Infof("Sandbox %s is running (container: %s)", result.Name, result.ID)

	return result, nil
}
