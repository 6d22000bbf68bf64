package model

import "time"

// OperationKind identifies a caller-facing operation.
type OperationKind string

const (
	OperationKindEnsure OperationKind = "ensure"
	OperationKindRun    OperationKind = "run"
	OperationKindRemove OperationKind = "remove"
)

// OperationStatus represents the state of a journaled operation.
type OperationStatus string

const (
	OperationStatusRunning   OperationStatus = "running"
	OperationStatusSucceeded OperationStatus = "succeeded"
	OperationStatusFailed    OperationStatus = "failed"
)

// Operation is one journaled invocation of a caller-facing operation.
type Operation struct {
	ID          string
	Kind        OperationKind
	SandboxName string
	Status      OperationStatus
	// Detail is a short human-readable summary (the command line for run
	// operations, the image for ensure operations).
	Detail string
	Error  string
	// ExitCode is set for finished run operations when the runtime reported one.
	ExitCode   *int
	CreatedAt  time.Time
	FinishedAt *time.Time
}
