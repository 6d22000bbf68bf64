package remove

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

// ServiceConfig is the configuration for the remove service.
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
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "app.Remove"})
	return nil
}

// Service handles sandbox removal.
type Service struct {
	engine sandbox.Engine
	repo   storage.Repository
	logger log.Logger
}

// NewService creates a new remove service.
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

// Request contains the parameters for removing a sandbox.
type Request struct {
	SandboxName string
	Opts        model.RemoveOpts
}

// Run removes a sandbox. Removing an absent sandbox succeeds with
// removed=false, so the call is safe to repeat.
func (s *Service) Run(ctx context.Context, req Request) (removed bool, err error) {
	if req.SandboxName == "" {
		return false, fmt.Errorf("sandbox name is required: %w", model.ErrNotValid)
	}

	op := model.Operation{
		ID:          ulid.Make().String(),
		Kind:        model.OperationKindRemove,
		SandboxName: req.SandboxName,
		Status:      model.OperationStatusRunning,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.repo.CreateOperation(ctx, op); err != nil {
		// The journal never blocks the sandbox operation itself.
		s.logger.Warningf("Could not journal remove operation: %s", err)
	}

	removed, err = s.engine.Remove(ctx, req.SandboxName, req.Opts)

	now := time.Now().UTC()
	op.FinishedAt = &now
	if err != nil {
		op.Status = model.OperationStatusFailed
		op.Error = err.Error()
	} else {
		op.Status = model.OperationStatusSucceeded
		op.Detail = fmt.Sprintf("removed=%t", removed)
	}
	if uerr := s.repo.UpdateOperation(ctx, op); uerr != nil {
		s.logger.Warningf("Could not journal remove result: %s", uerr)
	}

	if err != nil {
		return false, fmt.Errorf("could not remove sandbox: %w", err)
	}

	if removed {
		s.logger.Infof("Removed sandbox: %s", req.SandboxName)
	} else {
		s.logger.Infof("Sandbox %s does not exist, nothing removed", req.SandboxName)
	}

	return removed, nil
}
