package docker

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sort"
	"time"

	cerrdefs "github.com/containerd/errdefs"
	"github.com/docker/docker/api/types"
	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/image"
	"github.com/docker/docker/api/types/network"
	"github.com/docker/docker/client"
	ocispec "github.com/opencontainers/image-spec/specs-go/v1"

	"github.com/onebox-dev/onebox/internal/log"
	"github.com/onebox-dev/onebox/internal/model"
	"github.com/onebox-dev/onebox/internal/stream"
)

// keepAliveCmd keeps the container alive independent of any later exec.
var keepAliveCmd = []string{"sleep", "infinity"}

// stopTimeoutSeconds is the graceful stop timeout before the runtime kills
// the container process.
const stopTimeoutSeconds = 10

// managedLabel marks containers created by this engine.
const managedLabel = "onebox.sandbox"

// DockerClient is the interface for the Docker operations that we use.
// This allows us to mock the Docker client for testing.
type DockerClient interface {
	ContainerInspect(ctx context.Context, containerID string) (types.ContainerJSON, error)
	ContainerCreate(ctx context.Context, config *container.Config, hostConfig *container.HostConfig, networkingConfig *network.NetworkingConfig, platform *ocispec.Platform, containerName string) (container.CreateResponse, error)
	ContainerStart(ctx context.Context, containerID string, options container.StartOptions) error
	ContainerStop(ctx context.Context, containerID string, options container.StopOptions) error
	ContainerRemove(ctx context.Context, containerID string, options container.RemoveOptions) error
	ContainerExecCreate(ctx context.Context, containerID string, options container.ExecOptions) (types.IDResponse, error)
	ContainerExecAttach(ctx context.Context, execID string, options container.ExecAttachOptions) (types.HijackedResponse, error)
	ContainerExecInspect(ctx context.Context, execID string) (container.ExecInspect, error)
	ImagePull(ctx context.Context, refStr string, options image.PullOptions) (io.ReadCloser, error)
}

// EngineConfig is the configuration for the Docker engine.
type EngineConfig struct {
	Client DockerClient
	Logger log.Logger
}

func (c *EngineConfig) defaults() error {
	if c.Client == nil {
		cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
		if err != nil {
			return fmt.Errorf("could not create Docker client: %w", err)
		}
		c.Client = cli
	}
	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "sandbox.Docker"})
	return nil
}

// Engine is the Docker implementation of the sandbox.Engine interface.
type Engine struct {
	client DockerClient
	logger log.Logger
}

// NewEngine creates a new Docker engine.
func NewEngine(cfg EngineConfig) (*Engine, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Engine{
		client: cfg.Client,
		logger: cfg.Logger,
	}, nil
}

// EnsureRunning makes sure the sandbox container exists and is running.
//
// The container name is the sandbox identity, so the call is idempotent: an
// existing container is started when stopped and returned as-is otherwise,
// and a create that loses a race against a concurrent EnsureRunning resolves
// to the winner's container instead of failing.
func (e *Engine) EnsureRunning(ctx context.Context, cfg model.SandboxConfig) (*model.Sandbox, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid sandbox config: %w", err)
	}

	info, err := e.client.ContainerInspect(ctx, cfg.Name)
	switch {
	case err == nil:
		return e.startIfStopped(ctx, cfg.Name, info)
	case cerrdefs.IsNotFound(err):
		return e.create(ctx, cfg)
	default:
		return nil, fmt.Errorf("could not inspect sandbox %q: %w", cfg.Name, err)
	}
}

// startIfStopped starts an existing container when it is not running and
// returns a fresh snapshot. It never recreates.
func (e *Engine) startIfStopped(ctx context.Context, name string, info types.ContainerJSON) (*model.Sandbox, error) {
	if !info.State.Running {
		e.logger.Infof("Sandbox %s exists but is stopped, starting it", name)
		if err := e.client.ContainerStart(ctx, name, container.StartOptions{}); err != nil {
			return nil, fmt.Errorf("could not start sandbox %q: %w", name, err)
		}
		return e.Status(ctx, name)
	}

	e.logger.Debugf("Sandbox %s is already running (container: %s)", name, info.ID)
	return sandboxFromInspect(name, info), nil
}

// create creates and starts the sandbox container.
func (e *Engine) create(ctx context.Context, cfg model.SandboxConfig) (*model.Sandbox, error) {
	containerConfig := &container.Config{
		Image:      cfg.Image,
		Cmd:        keepAliveCmd,
		WorkingDir: cfg.WorkingDir,
		Env:        envSlice(cfg.Env),
		Labels:     map[string]string{managedLabel: cfg.Name},
	}

	hostConfig := &container.HostConfig{
		Resources: container.Resources{
			NanoCPUs: int64(cfg.Resources.CPUs * 1e9),
			Memory:   int64(cfg.Resources.MemoryMB) * 1024 * 1024,
		},
	}
	if cfg.Network != "" {
		hostConfig.NetworkMode = container.NetworkMode(cfg.Network)
	}

	e.logger.Infof("Creating sandbox container: %s (image: %s)", cfg.Name, cfg.Image)
	resp, err := e.client.ContainerCreate(ctx, containerConfig, hostConfig, nil, nil, cfg.Name)
	switch {
	case err == nil:
	case cerrdefs.IsConflict(err):
		// A concurrent EnsureRunning created the container between our
		// inspect and create. The name now exists, which is what we wanted:
		// resolve to the existing container instead of failing.
		e.logger.Debugf("Sandbox %s was created concurrently, reusing it", cfg.Name)
		info, inspectErr := e.client.ContainerInspect(ctx, cfg.Name)
		if inspectErr != nil {
			return nil, fmt.Errorf("could not inspect sandbox %q after create conflict: %w", cfg.Name, inspectErr)
		}
		return e.startIfStopped(ctx, cfg.Name, info)
	case cerrdefs.IsNotFound(err):
		// Missing image locally. Pull it and retry the create once.
		if pullErr := e.pullImage(ctx, cfg.Image); pullErr != nil {
			return nil, fmt.Errorf("could not pull image for sandbox %q: %w", cfg.Name, pullErr)
		}
		resp, err = e.client.ContainerCreate(ctx, containerConfig, hostConfig, nil, nil, cfg.Name)
		if err != nil {
			return nil, fmt.Errorf("could not create sandbox %q: %w", cfg.Name, err)
		}
	default:
		return nil, fmt.Errorf("could not create sandbox %q: %w", cfg.Name, err)
	}

	if err := e.client.ContainerStart(ctx, cfg.Name, container.StartOptions{}); err != nil {
		return nil, fmt.Errorf("could not start sandbox %q: %w", cfg.Name, err)
	}

	e.logger.Infof("Created sandbox %s (container: %s)", cfg.Name, resp.ID)

	return e.Status(ctx, cfg.Name)
}

func (e *Engine) pullImage(ctx context.Context, ref string) error {
	e.logger.Infof("Pulling image: %s", ref)
	rc, err := e.client.ImagePull(ctx, ref, image.PullOptions{})
	if err != nil {
		return fmt.Errorf("could not pull image %s: %w", ref, err)
	}
	defer rc.Close()

	// Drain the pull progress so the pull actually completes.
	if _, err := io.Copy(io.Discard, rc); err != nil {
		return fmt.Errorf("could not finish pulling image %s: %w", ref, err)
	}
	return nil
}

// Run executes one command inside the running sandbox.
//
// Without a TTY the runtime multiplexes both output channels over a single
// hijacked stream, which is split by the stream package. With a TTY the
// runtime sends raw bytes without channel separation, so everything is
// captured as stdout and stderr is always empty.
func (e *Engine) Run(ctx context.Context, name string, spec model.CommandSpec) (*model.ExecutionResult, error) {
	if err := spec.Validate(); err != nil {
		return nil, fmt.Errorf("invalid command spec: %w", err)
	}

	if _, err := e.client.ContainerInspect(ctx, name); err != nil {
		if cerrdefs.IsNotFound(err) {
			return nil, fmt.Errorf("sandbox %q is not available, ensure it first: %w", name, model.ErrNotFound)
		}
		return nil, fmt.Errorf("could not inspect sandbox %q: %w", name, err)
	}

	execResp, err := e.client.ContainerExecCreate(ctx, name, container.ExecOptions{
		Cmd:          spec.Command,
		WorkingDir:   spec.WorkingDir,
		Env:          envSlice(spec.Env),
		AttachStdout: spec.AttachStdout,
		AttachStderr: spec.AttachStderr,
		Tty:          spec.Tty,
	})
	if err != nil {
		return nil, fmt.Errorf("could not create exec in sandbox %q: %w", name, err)
	}

	attach, err := e.client.ContainerExecAttach(ctx, execResp.ID, container.ExecAttachOptions{Tty: spec.Tty})
	if err != nil {
		return nil, fmt.Errorf("could not attach to exec in sandbox %q: %w", name, err)
	}
	defer attach.Close()

	// Closing the hijacked stream is the only cancellation primitive the
	// runtime gives us: force it closed when the context ends so the read
	// below cannot block forever on a hung command.
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			attach.Close()
		case <-done:
		}
	}()

	var stdout, stderr bytes.Buffer
	if spec.Tty {
		_, err = io.Copy(&stdout, attach.Reader)
	} else {
		_, err = stream.Copy(&stdout, &stderr, attach.Reader)
	}
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("command in sandbox %q interrupted: %w", name, ctxErr)
		}
		return nil, fmt.Errorf("could not read command output from sandbox %q: %w", name, err)
	}

	inspect, err := e.client.ContainerExecInspect(ctx, execResp.ID)
	if err != nil {
		return nil, fmt.Errorf("could not get exit status from sandbox %q: %w", name, err)
	}

	result := &model.ExecutionResult{
		Stdout: stdout.Bytes(),
		Stderr: stderr.Bytes(),
	}
	// A still-running exec has no final exit code. Leave it absent instead of
	// reporting a bogus 0.
	if !inspect.Running {
		exitCode := inspect.ExitCode
		result.ExitCode = &exitCode
	}

	e.logger.Debugf("Executed command in sandbox %s: exit=%v stdout=%dB stderr=%dB", name, result.ExitCode, stdout.Len(), stderr.Len())

	return result, nil
}

// Remove tears the sandbox container down. A sandbox that does not exist is
// reported as removed=false without an error.
func (e *Engine) Remove(ctx context.Context, name string, opts model.RemoveOpts) (bool, error) {
	info, err := e.client.ContainerInspect(ctx, name)
	if err != nil {
		if cerrdefs.IsNotFound(err) {
			e.logger.Debugf("Sandbox %s does not exist, nothing to remove", name)
			return false, nil
		}
		return false, fmt.Errorf("could not inspect sandbox %q: %w", name, err)
	}

	if info.State.Running {
		e.logger.Infof("Stopping sandbox: %s", name)
		timeout := stopTimeoutSeconds
		if err := e.client.ContainerStop(ctx, name, container.StopOptions{Timeout: &timeout}); err != nil && !opts.Force {
			return false, fmt.Errorf("could not stop sandbox %q: %w", name, err)
		}
	}

	e.logger.Infof("Removing sandbox: %s", name)
	err = e.client.ContainerRemove(ctx, name, container.RemoveOptions{
		Force:         opts.Force,
		RemoveVolumes: opts.RemoveVolumes,
	})
	if err != nil {
		if cerrdefs.IsNotFound(err) {
			// Removed concurrently between our inspect and remove.
			return false, nil
		}
		return false, fmt.Errorf("could not remove sandbox %q: %w", name, err)
	}

	return true, nil
}

// Status returns a fresh snapshot of the sandbox from the runtime.
func (e *Engine) Status(ctx context.Context, name string) (*model.Sandbox, error) {
	info, err := e.client.ContainerInspect(ctx, name)
	if err != nil {
		if cerrdefs.IsNotFound(err) {
			return nil, fmt.Errorf("sandbox %q: %w", name, model.ErrNotFound)
		}
		return nil, fmt.Errorf("could not inspect sandbox %q: %w", name, err)
	}

	return sandboxFromInspect(name, info), nil
}

func sandboxFromInspect(name string, info types.ContainerJSON) *model.Sandbox {
	s := &model.Sandbox{
		ID:      info.ID,
		Name:    name,
		Running: info.State != nil && info.State.Running,
	}
	if info.Config != nil {
		s.Image = info.Config.Image
	}

	if t, err := time.Parse(time.RFC3339Nano, info.Created); err == nil {
		s.CreatedAt = t
	}
	if info.State != nil && info.State.StartedAt != "" {
		if t, err := time.Parse(time.RFC3339Nano, info.State.StartedAt); err == nil && !t.IsZero() {
			s.StartedAt = &t
		}
	}

	return s
}

// envSlice renders an env map as the runtime's KEY=VALUE list, sorted for
// deterministic container configs.
func envSlice(env map[string]string) []string {
	if len(env) == 0 {
		return nil
	}

	keys := make([]string, 0, len(env))
	for k := range env {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]string, 0, len(keys))
	for _, k := range keys {
		out = append(out, fmt.Sprintf("%s=%s", k, env[k]))
	}
	return out
}
