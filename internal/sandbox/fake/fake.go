package fake

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/onebox-dev/onebox/internal/log"
	"github.com/onebox-dev/onebox/internal/model"
)

// EngineConfig is the configuration for the fake engine.
type EngineConfig struct {
	Logger log.Logger
}

func (c *EngineConfig) defaults() error {
	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "sandbox.Fake"})
	return nil
}

// Engine is a fake implementation of the sandbox.Engine interface.
// It simulates the sandbox lifecycle in memory without a container runtime,
// for tests and dry runs. Every command "succeeds" with exit code 0 and
// echoes its argv on stdout.
type Engine struct {
	sandboxes map[string]*model.Sandbox
	mu        sync.RWMutex
	logger    log.Logger
}

// NewEngine creates a new fake engine.
func NewEngine(cfg EngineConfig) (*Engine, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Engine{
		sandboxes: make(map[string]*model.Sandbox),
		logger:    cfg.Logger,
	}, nil
}

// EnsureRunning creates the sandbox on first use and marks it running.
func (e *Engine) EnsureRunning(ctx context.Context, cfg model.SandboxConfig) (*model.Sandbox, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid sandbox config: %w", err)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if existing, ok := e.sandboxes[cfg.Name]; ok {
		if !existing.Running {
			now := time.Now().UTC()
			existing.Running = true
			existing.StartedAt = &now
			e.logger.Infof("Started fake sandbox: %s", cfg.Name)
		}
		copied := *existing
		return &copied, nil
	}

	now := time.Now().UTC()
	sandbox := &model.Sandbox{
		ID:        ulid.Make().String(),
		Name:      cfg.Name,
		Image:     cfg.Image,
		Running:   true,
		CreatedAt: now,
		StartedAt: &now,
	}
	e.sandboxes[cfg.Name] = sandbox
	e.logger.Infof("Created fake sandbox: %s (id: %s)", cfg.Name, sandbox.ID)

	copied := *sandbox
	return &copied, nil
}

// Run simulates a command execution.
func (e *Engine) Run(ctx context.Context, name string, spec model.CommandSpec) (*model.ExecutionResult, error) {
	if err := spec.Validate(); err != nil {
		return nil, fmt.Errorf("invalid command spec: %w", err)
	}

	e.mu.RLock()
	defer e.mu.RUnlock()

	if _, ok := e.sandboxes[name]; !ok {
		return nil, fmt.Errorf("sandbox %q is not available, ensure it first: %w", name, model.ErrNotFound)
	}

	var stdout []byte
	for i, arg := range spec.Command {
		if i > 0 {
			stdout = append(stdout, ' ')
		}
		stdout = append(stdout, arg...)
	}
	stdout = append(stdout, '\n')

	exitCode := 0
	return &model.ExecutionResult{
		Stdout:   stdout,
		Stderr:   []byte{},
		ExitCode: &exitCode,
	}, nil
}

// Remove deletes the sandbox, reporting removed=false when it was absent.
func (e *Engine) Remove(ctx context.Context, name string, opts model.RemoveOpts) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, ok := e.sandboxes[name]; !ok {
		return false, nil
	}

	delete(e.sandboxes, name)
	e.logger.Infof("Removed fake sandbox: %s", name)
	return true, nil
}

// Status returns the sandbox state.
func (e *Engine) Status(ctx context.Context, name string) (*model.Sandbox, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	sandbox, ok := e.sandboxes[name]
	if !ok {
		return nil, fmt.Errorf("sandbox %q: %w", name, model.ErrNotFound)
	}

	copied := *sandbox
	return &copied, nil
}
