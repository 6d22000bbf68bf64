package model

import "fmt"

// CommandSpec describes one command invocation inside the sandbox.
// Immutable, constructed per call. Use NewCommandSpec to get the attach
// defaults (both output channels attached).
type CommandSpec struct {
	// Command is the command and its arguments (argv form, non-empty).
	Command []string
	// WorkingDir is the directory to run the command in (optional).
	WorkingDir string
	// Env contains additional environment variables for this invocation.
	Env map[string]string
	// Tty allocates a pseudo-TTY. In this mode the runtime does not separate
	// output channels, so everything the command writes lands on stdout and
	// stderr is always empty.
	Tty bool
	// AttachStdout and AttachStderr select which output channels the exec
	// captures. NewCommandSpec sets both to true.
	AttachStdout bool
	AttachStderr bool
}

// NewCommandSpec returns a CommandSpec for the given argv with both output
// channels attached.
func NewCommandSpec(command []string) CommandSpec {
	return CommandSpec{
		Command:      command,
		AttachStdout: true,
		AttachStderr: true,
	}
}

// Validate validates the command spec.
func (s *CommandSpec) Validate() error {
	if len(s.Command) == 0 {
		return fmt.Errorf("command cannot be empty: %w", ErrNotValid)
	}
	return nil
}

// ExecutionResult is the result of one command invocation.
type ExecutionResult struct {
	Stdout []byte
	// Stderr is always empty when the command ran with a TTY.
	Stderr []byte
	// ExitCode is nil when the runtime could not report a final exit code,
	// for example when the output stream was closed before the command
	// finished. It is never silently coerced to 0.
	ExitCode *int
}
