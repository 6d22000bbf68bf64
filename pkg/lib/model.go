package lib

import (
	"errors"
	"time"

	"github.com/onebox-dev/onebox/internal/model"
)

// EngineType identifies the sandbox engine implementation.
type EngineType string

const (
	// EngineDocker runs the sandbox as a Docker container.
	// Requires a reachable Docker daemon.
	EngineDocker EngineType = "docker"

	// EngineFake uses an in-memory simulation (no real containers).
	// Use this for unit testing without infrastructure dependencies.
	EngineFake EngineType = "fake"
)

var (
	// ErrNotFound is returned when the requested resource does not exist.
	ErrNotFound = errors.New("resource not found")
	// ErrAlreadyExists is returned when a resource with the same identity already exists.
	ErrAlreadyExists = errors.New("resource already exists")
	// ErrNotValid is returned when an input or operation is not valid.
	ErrNotValid = errors.New("not valid")
)

// Sandbox represents the sandbox container returned by the SDK.
//
// This is a read-only snapshot of the sandbox state at the time of the API
// call. Use [Client.SandboxStatus] to get the latest state.
type Sandbox struct {
	// ID is the runtime-assigned container ID.
	ID string
	// Name is the human-friendly name and the sandbox identity.
	Name string
	// Image is the container image the sandbox runs.
	Image string
	// Running indicates whether the sandbox container is currently running.
	Running bool
	// CreatedAt is when the sandbox container was created.
	CreatedAt time.Time
	// StartedAt is when the sandbox was last started. Nil if never started.
	StartedAt *time.Time
}

// SandboxConfig is the desired sandbox configuration for [Client.EnsureSandbox].
//
// Name and Image are required. Everything else is optional.
type SandboxConfig struct {
	// Name is the sandbox name (required). It is the sandbox identity: the
	// same name always addresses the same sandbox.
	Name string
	// Image is the container image (required).
	Image string
	// WorkingDir sets the container working directory.
	WorkingDir string
	// Env contains environment variables set on the container.
	Env map[string]string
	// Network is the container network mode. Empty means the runtime default.
	Network string
	// Resources defines optional compute limits. Zero values mean no limit.
	Resources Resources
}

// Resources defines optional compute limits for the sandbox.
type Resources struct {
	// CPUs is the CPU limit. Can be fractional (e.g. 0.5). 0 means no limit.
	CPUs float64
	// MemoryMB is the memory limit in megabytes. 0 means no limit.
	MemoryMB int
}

// RunOpts configures command execution inside the sandbox.
//
// Pass nil to [Client.RunCommand] to use defaults (no working dir, no extra
// env, no TTY).
type RunOpts struct {
	// WorkingDir sets the working directory for the command inside the sandbox.
	WorkingDir string
	// Env contains additional environment variables for this execution only.
	Env map[string]string
	// Tty allocates a pseudo-TTY for the command. With a TTY the runtime
	// does not separate output channels: everything is captured as Stdout
	// and Stderr is always empty.
	Tty bool
}

// RunResult contains the result of a command execution.
type RunResult struct {
	// Stdout is the captured standard output.
	Stdout []byte
	// Stderr is the captured standard error. Always empty in TTY mode.
	Stderr []byte
	// ExitCode is the exit status of the executed command. Nil when the
	// command had not finished when the output stream ended; it is never
	// reported as 0 in that case.
	ExitCode *int
}

// RemoveOpts configures sandbox removal.
//
// Pass nil to [Client.RemoveSandbox] to use defaults (graceful stop, keep
// volumes).
type RemoveOpts struct {
	// Force removes the sandbox even when a graceful stop fails.
	Force bool
	// RemoveVolumes removes anonymous volumes together with the sandbox.
	RemoveVolumes bool
}

// OperationKind identifies a journaled sandbox operation.
type OperationKind string

const (
	// OperationKindEnsure is an EnsureSandbox operation.
	OperationKindEnsure OperationKind = "ensure"
	// OperationKindRun is a RunCommand operation.
	OperationKindRun OperationKind = "run"
	// OperationKindRemove is a RemoveSandbox operation.
	OperationKindRemove OperationKind = "remove"
)

// OperationStatus is the lifecycle state of a journaled operation.
type OperationStatus string

const (
	// OperationStatusRunning indicates the operation is in progress.
	OperationStatusRunning OperationStatus = "running"
	// OperationStatusSucceeded indicates the operation finished successfully.
	OperationStatusSucceeded OperationStatus = "succeeded"
	// OperationStatusFailed indicates the operation failed.
	OperationStatusFailed OperationStatus = "failed"
)

// Operation is one journaled sandbox operation.
type Operation struct {
	// ID is the unique identifier (ULID) assigned when the operation started.
	ID string
	// Kind is the operation kind.
	Kind OperationKind
	// SandboxName is the sandbox the operation targeted.
	SandboxName string
	// Status is the operation outcome.
	Status OperationStatus
	// Detail is a short human-readable description (e.g. the command line).
	Detail string
	// Error holds the failure message for failed operations.
	Error string
	// ExitCode is the command exit code for run operations. Nil otherwise.
	ExitCode *int
	// CreatedAt is when the operation started.
	CreatedAt time.Time
	// FinishedAt is when the operation finished. Nil while in progress.
	FinishedAt *time.Time
}

// --- Conversion helpers ---

func toInternalSandboxConfig(cfg SandboxConfig) model.SandboxConfig {
	return model.SandboxConfig{
		Name:       cfg.Name,
		Image:      cfg.Image,
		WorkingDir: cfg.WorkingDir,
		Env:        cfg.Env,
		Network:    cfg.Network,
		Resources: model.Resources{
			CPUs:     cfg.Resources.CPUs,
			MemoryMB: cfg.Resources.MemoryMB,
		},
	}
}

func toInternalCommandSpec(command []string, opts *RunOpts) model.CommandSpec {
	spec := model.NewCommandSpec(command)
	if opts != nil {
		spec.WorkingDir = opts.WorkingDir
		spec.Env = opts.Env
		spec.Tty = opts.Tty
	}
	return spec
}

func toInternalRemoveOpts(opts *RemoveOpts) model.RemoveOpts {
	if opts == nil {
		return model.RemoveOpts{}
	}
	return model.RemoveOpts{
		Force:         opts.Force,
		RemoveVolumes: opts.RemoveVolumes,
	}
}

func fromInternalSandbox(s model.Sandbox) Sandbox {
	return Sandbox{
		ID:        s.ID,
		Name:      s.Name,
		Image:     s.Image,
		Running:   s.Running,
		CreatedAt: s.CreatedAt,
		StartedAt: s.StartedAt,
	}
}

func fromInternalOperation(op model.Operation) Operation {
	return Operation{
		ID:          op.ID,
		Kind:        OperationKind(op.Kind),
		SandboxName: op.SandboxName,
		Status:      OperationStatus(op.Status),
		Detail:      op.Detail,
		Error:       op.Error,
		ExitCode:    op.ExitCode,
		CreatedAt:   op.CreatedAt,
		FinishedAt:  op.FinishedAt,
	}
}

func fromInternalOperationList(ops []model.Operation) []Operation {
	result := make([]Operation, len(ops))
	for i, op := range ops {
		result[i] = fromInternalOperation(op)
	}
	return result
}

func mapError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, model.ErrNotFound):
		return joinErrors(err, ErrNotFound)
	case errors.Is(err, model.ErrAlreadyExists):
		return joinErrors(err, ErrAlreadyExists)
	case errors.Is(err, model.ErrNotValid):
		return joinErrors(err, ErrNotValid)
	default:
		return err
	}
}

func joinErrors(original, sentinel error) error {
	return &mappedError{original: original, sentinel: sentinel}
}

type mappedError struct {
	original error
	sentinel error
}

func (e *mappedError) Error() string { return e.original.Error() }

func (e *mappedError) Is(target error) bool {
	return target == e.sentinel
}

func (e *mappedError) Unwrap() error { return e.original }
