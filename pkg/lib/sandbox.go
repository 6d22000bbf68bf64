package lib

import (
	"context"
	"fmt"

	"github.com/onebox-dev/onebox/internal/app/ensure"
	"github.com/onebox-dev/onebox/internal/app/remove"
	"github.com/onebox-dev/onebox/internal/app/status"
)

// EnsureSandbox makes sure the named sandbox exists and is running and
// returns it.
//
// The call is idempotent: it creates the sandbox on first use, starts it when
// it is found stopped, and returns it untouched when it is already running.
// It never recreates an existing sandbox, even when the desired config
// differs from the one the sandbox was created with.
//
// Returns [ErrNotValid] when the config is missing required fields.
func (c *Client) EnsureSandbox(ctx context.Context, cfg SandboxConfig) (*Sandbox, error) {
	svc, err := ensure.NewService(ensure.ServiceConfig{
		Engine:     c.engine,
		Repository: c.repo,
		Logger:     c.logger,
	})
	if err != nil {
		return nil, fmt.Errorf("could not create service: %w", err)
	}

	sb, err := svc.Run(ctx, ensure.Request{Config: toInternalSandboxConfig(cfg)})
	if err != nil {
		return nil, mapError(err)
	}

	result := fromInternalSandbox(*sb)
	return &result, nil
}

// RemoveSandbox tears the named sandbox down. Pass nil opts for defaults.
//
// Removing an absent sandbox is a successful no-op reported as
// removed=false, so the call is safe to repeat.
func (c *Client) RemoveSandbox(ctx context.Context, name string, opts *RemoveOpts) (removed bool, err error) {
	svc, err := remove.NewService(remove.ServiceConfig{
		Engine:     c.engine,
		Repository: c.repo,
		Logger:     c.logger,
	})
	if err != nil {
		return false, fmt.Errorf("could not create service: %w", err)
	}

	removed, err = svc.Run(ctx, remove.Request{
		SandboxName: name,
		Opts:        toInternalRemoveOpts(opts),
	})
	if err != nil {
		return false, mapError(err)
	}

	return removed, nil
}

// SandboxStatus returns a fresh snapshot of the named sandbox state.
//
// Returns [ErrNotFound] when the sandbox does not exist.
func (c *Client) SandboxStatus(ctx context.Context, name string) (*Sandbox, error) {
	svc, err := status.NewService(status.ServiceConfig{
		Engine: c.engine,
		Logger: c.logger,
	})
	if err != nil {
		return nil, fmt.Errorf("could not create service: %w", err)
	}

	sb, err := svc.Run(ctx, status.Request{SandboxName: name})
	if err != nil {
		return nil, mapError(err)
	}

	result := fromInternalSandbox(*sb)
	return &result, nil
}
