// Package sandboxmock contains test mocks for the sandbox package.
package sandboxmock

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/onebox-dev/onebox/internal/model"
)

// MockEngine is a mock implementation of sandbox.Engine.
type MockEngine struct {
	mock.Mock
}

func (m *MockEngine) EnsureRunning(ctx context.Context, cfg model.SandboxConfig) (*model.Sandbox, error) {
	args := m.Called(ctx, cfg)
	var s *model.Sandbox
	if v := args.Get(0); v != nil {
		s = v.(*model.Sandbox)
	}
	return s, args.Error(1)
}

func (m *MockEngine) Run(ctx context.Context, name string, spec model.CommandSpec) (*model.ExecutionResult, error) {
	args := m.Called(ctx, name, spec)
	var r *model.ExecutionResult
	if v := args.Get(0); v != nil {
		r = v.(*model.ExecutionResult)
	}
	return r, args.Error(1)
}

func (m *MockEngine) Remove(ctx context.Context, name string, opts model.RemoveOpts) (bool, error) {
	args := m.Called(ctx, name, opts)
	return args.Bool(0), args.Error(1)
}

func (m *MockEngine) Status(ctx context.Context, name string) (*model.Sandbox, error) {
	args := m.Called(ctx, name)
	var s *model.Sandbox
	if v := args.Get(0); v != nil {
		s = v.(*model.Sandbox)
	}
	return s, args.Error(1)
}
