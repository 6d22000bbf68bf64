// Package storagemock contains test mocks for the storage package.
package storagemock

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/onebox-dev/onebox/internal/model"
)

// MockRepository is a mock implementation of storage.Repository.
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) CreateOperation(ctx context.Context, op model.Operation) error {
	args := m.Called(ctx, op)
	return args.Error(0)
}

func (m *MockRepository) UpdateOperation(ctx context.Context, op model.Operation) error {
	args := m.Called(ctx, op)
	return args.Error(0)
}

func (m *MockRepository) GetOperation(ctx context.Context, id string) (*model.Operation, error) {
	args := m.Called(ctx, id)
	var op *model.Operation
	if v := args.Get(0); v != nil {
		op = v.(*model.Operation)
	}
	return op, args.Error(1)
}

func (m *MockRepository) ListOperations(ctx context.Context, limit int) ([]model.Operation, error) {
	args := m.Called(ctx, limit)
	var ops []model.Operation
	if v := args.Get(0); v != nil {
		ops = v.([]model.Operation)
	}
	return ops, args.Error(1)
}
