package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/onebox-dev/onebox/internal/log"
	"github.com/onebox-dev/onebox/internal/model"
)

// RepositoryConfig is the configuration for the memory repository.
type RepositoryConfig struct {
	Logger log.Logger
}

func (c *RepositoryConfig) defaults() error {
	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "storage.Memory"})
	return nil
}

// Repository is an in-memory implementation of storage.Repository.
type Repository struct {
	operations map[string]model.Operation
	mu         sync.RWMutex
	logger     log.Logger
}

// NewRepository creates a new memory repository.
func NewRepository(cfg RepositoryConfig) (*Repository, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Repository{
		operations: make(map[string]model.Operation),
		logger:     cfg.Logger,
	}, nil
}

// CreateOperation creates a new operation in the journal.
func (r *Repository) CreateOperation(ctx context.Context, op model.Operation) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.operations[op.ID]; ok {
		return fmt.Errorf("operation with id %s: %w", op.ID, model.ErrAlreadyExists)
	}

	r.operations[op.ID] = op
	r.logger.Debugf("Created operation in journal: %s", op.ID)

	return nil
}

// UpdateOperation updates an existing operation.
func (r *Repository) UpdateOperation(ctx context.Context, op model.Operation) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.operations[op.ID]; !ok {
		return fmt.Errorf("operation %s: %w", op.ID, model.ErrNotFound)
	}

	r.operations[op.ID] = op
	r.logger.Debugf("Updated operation in journal: %s", op.ID)

	return nil
}

// GetOperation retrieves an operation by ID.
func (r *Repository) GetOperation(ctx context.Context, id string) (*model.Operation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	op, ok := r.operations[id]
	if !ok {
		return nil, fmt.Errorf("operation %s: %w", id, model.ErrNotFound)
	}

	// Return a copy
	opCopy := op
	return &opCopy, nil
}

// ListOperations returns operations newest first, up to limit (<=0 means all).
func (r *Repository) ListOperations(ctx context.Context, limit int) ([]model.Operation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	operations := make([]model.Operation, 0, len(r.operations))
	for _, op := range r.operations {
		operations = append(operations, op)
	}

	// ULIDs are lexicographically ordered by creation time, so sorting the IDs
	// descending sorts the operations newest first.
	sort.Slice(operations, func(i, j int) bool {
		return operations[i].ID > operations[j].ID
	})

	if limit > 0 && len(operations) > limit {
		operations = operations[:limit]
	}

	return operations, nil
}
