package storage

import (
	"context"

	"github.com/onebox-dev/onebox/internal/model"
)

// Repository is the interface for the operation journal persistence.
type Repository interface {
	CreateOperation(ctx context.Context, op model.Operation) error
	UpdateOperation(ctx context.Context, op model.Operation) error
	GetOperation(ctx context.Context, id string) (*model.Operation, error)
	ListOperations(ctx context.Context, limit int) ([]model.Operation, error)
}
