package history

import (
	"context"
	"fmt"

	"github.com/onebox-dev/onebox/internal/log"
	"github.com/onebox-dev/onebox/internal/model"
	"github.com/onebox-dev/onebox/internal/storage"
)

// ServiceConfig is the configuration for the history service.
type ServiceConfig struct {
	Repository storage.Repository
	Logger     log.Logger
}

func (c *ServiceConfig) defaults() error {
	if c.Repository == nil {
		return fmt.Errorf("repository is required")
	}
	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "app.History"})
	return nil
}

// Service lists the operation journal.
type Service struct {
	repo   storage.Repository
	logger log.Logger
}

// NewService creates a new history service.
func NewService(cfg ServiceConfig) (*Service, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Service{
		repo:   cfg.Repository,
		logger: cfg.Logger,
	}, nil
}

// Request contains the parameters for a history listing.
type Request struct {
	// Limit caps the number of returned operations, newest first. Zero or
	// negative means all.
	Limit int
}

// Run lists journaled operations, newest first.
func (s *Service) Run(ctx context.Context, req Request) ([]model.Operation, error) {
	operations, err := s.repo.ListOperations(ctx, req.Limit)
	if err != nil {
		return nil, fmt.Errorf("could not list operations: %w", err)
	}

	return operations, nil
}
