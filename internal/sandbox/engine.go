package sandbox

import (
	"context"

	"github.com/onebox-dev/onebox/internal/model"
)

// Engine manages the lifecycle of a single named sandbox container and
// executes commands inside it. The sandbox is always addressed by its
// configuration-supplied name, never by the runtime-assigned ID, so every
// method is safe to repeat.
type Engine interface {
	// EnsureRunning makes sure the named sandbox exists and is running and
	// returns it. It creates the container on first use and starts it when it
	// is found stopped; it never recreates an existing sandbox.
	EnsureRunning(ctx context.Context, cfg model.SandboxConfig) (*model.Sandbox, error)

	// Run executes one command inside the running sandbox and returns its
	// captured output and exit status. It never creates the sandbox: when the
	// sandbox does not exist the call fails with model.ErrNotFound and the
	// caller must use EnsureRunning first.
	Run(ctx context.Context, name string, spec model.CommandSpec) (*model.ExecutionResult, error)

	// Remove tears the sandbox down. Removing an absent sandbox is a
	// successful no-op reported as removed=false.
	Remove(ctx context.Context, name string, opts model.RemoveOpts) (removed bool, err error)

	// Status returns a fresh snapshot of the sandbox state from the runtime.
	Status(ctx context.Context, name string) (*model.Sandbox, error)
}
