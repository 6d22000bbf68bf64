package model

import (
	"fmt"
	"time"
)

// Sandbox represents the single named sandbox container as reported by the
// container runtime. It is never cached: every operation re-queries the
// runtime and builds a fresh snapshot.
type Sandbox struct {
	// ID is the runtime-assigned container ID, stable until removal.
	ID string
	// Name is the configuration-supplied fixed name that addresses the sandbox.
	Name string
	// Image is the container image reference.
	Image string
	// Running mirrors the runtime-reported state.
	Running bool

	CreatedAt time.Time
	StartedAt *time.Time
}

// SandboxConfig is the static configuration for the sandbox container.
// The Name is the identity: all operations address the sandbox by it, which
// makes repeated EnsureRunning calls idempotent by construction.
type SandboxConfig struct {
	Name       string
	Image      string
	WorkingDir string
	Env        map[string]string
	// Network is the container network mode (e.g. "none", "bridge").
	// Empty uses the runtime default.
	Network   string
	Resources Resources
}

// Resources defines the compute resources for the sandbox.
type Resources struct {
	CPUs     float64
	MemoryMB int
}

// Validate validates the sandbox configuration.
func (c *SandboxConfig) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("name is required: %w", ErrNotValid)
	}

	if c.Image == "" {
		return fmt.Errorf("image is required: %w", ErrNotValid)
	}

	if c.Resources.CPUs < 0 {
		return fmt.Errorf("cpus cannot be negative: %w", ErrNotValid)
	}
	if c.Resources.MemoryMB < 0 {
		return fmt.Errorf("memory_mb cannot be negative: %w", ErrNotValid)
	}

	return nil
}

// RemoveOpts contains options for removing the sandbox.
type RemoveOpts struct {
	// Force removes the container even if the graceful stop fails.
	Force bool
	// RemoveVolumes removes anonymous volumes associated with the container.
	RemoveVolumes bool
}
