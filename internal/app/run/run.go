package run

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/onebox-dev/onebox/internal/log"
	"github.com/onebox-dev/onebox/internal/model"
	"github.com/onebox-dev/onebox/internal/sandbox"
	"github.com/onebox-dev/onebox/internal/storage"
)

// ServiceConfig is the configuration for the run service.
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
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "app.Run"})
	return nil
}

// Service handles command execution in sandboxes.
type Service struct {
	engine sandbox.Engine
	repo   storage.Repository
	logger log.Logger
}

// NewService creates a new run service.
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

// Request contains the parameters for executing a command.
type Request struct {
	SandboxName string
	Spec        model.CommandSpec
}

// Run executes a command in a running sandbox. The sandbox must already
// exist: a missing sandbox fails with model.ErrNotFound instead of being
// created on the fly.
//
// A command that runs and exits nonzero is a successful execution with a
// nonzero exit code, not an error.
func (s *Service) Run(ctx context.Context, req Request) (*model.ExecutionResult, error) {
	if req.SandboxName == "" {
		return nil, fmt.Errorf("sandbox name is required: %w", model.ErrNotValid)
	}
	if err := req.Spec.Validate(); err != nil {
		return nil, fmt.Errorf("invalid command spec: %w", err)
	}

	op := model.Operation{
		ID:          ulid.Make().String(),
		Kind:        model.OperationKindRun,
		SandboxName: req.SandboxName,
		Status:      model.OperationStatusRunning,
		Detail:      strings.Join(req.Spec.Command, " "),
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.repo.CreateOperation(ctx, op); err != nil {
		// The journal never blocks the sandbox operation itself.
		s.logger.Warningf("Could not journal run operation: %s", err)
	}

	result, err := s.engine.Run(ctx, req.SandboxName, req.Spec)

	now := time.Now().UTC()
	op.FinishedAt = &now
	if err != nil {
		op.Status = model.OperationStatusFailed
		op.Error = err.Error()
	} else {
		op.Status = model.OperationStatusSucceeded
		op.ExitCode = result.ExitCode
	}
	if uerr := s.repo.UpdateOperation(ctx, op); uerr != nil {
		s.logger.Warningf("Could not journal run result: %s", uerr)
	}

	if err != nil {
		return nil, fmt.Errorf("could not execute command: %w", err)
	}

	s.logger.Debugf("Executed command in sandbox %s: exit code %v", req.SandboxName, result.ExitCode)

	return result, nil
}
