package lib

import (
	"context"
	"fmt"

	apprun "github.com/onebox-dev/onebox/internal/app/run"
)

// RunCommand executes a command inside the running sandbox and returns its
// captured output and exit status.
//
// The command must be non-empty. Use opts to configure working directory,
// environment variables, and TTY mode. Pass nil opts for defaults.
//
// RunCommand never creates the sandbox: when it does not exist the call
// fails with [ErrNotFound] and the caller must use [Client.EnsureSandbox]
// first. A command that runs and exits nonzero is a successful execution
// with a nonzero [RunResult.ExitCode], not an error.
func (c *Client) RunCommand(ctx context.Context, name string, command []string, opts *RunOpts) (*RunResult, error) {
	svc, err := apprun.NewService(apprun.ServiceConfig{
		Engine:     c.engine,
		Repository: c.repo,
		Logger:     c.logger,
	})
	if err != nil {
		return nil, fmt.Errorf("could not create service: %w", err)
	}

	result, err := svc.Run(ctx, apprun.Request{
		SandboxName: name,
		Spec:        toInternalCommandSpec(command, opts),
	})
	if err != nil {
		return nil, mapError(err)
	}

	return &RunResult{
		Stdout:   result.Stdout,
		Stderr:   result.Stderr,
		ExitCode: result.ExitCode,
	}, nil
}
