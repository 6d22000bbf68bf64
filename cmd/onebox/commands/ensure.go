package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/alecthomas/kingpin/v2"

	"github.com/onebox-dev/onebox/internal/app/ensure"
	"github.com/onebox-dev/onebox/internal/model"
	storageio "github.com/onebox-dev/onebox/internal/storage/io"
	"github.com/onebox-dev/onebox/internal/storage/sqlite"
	utilsenv "github.com/onebox-dev/onebox/internal/utils/env"
)

type EnsureCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand

	name       string
	image      string
	configFile string
	workingDir string
	envSpecs   []string
	network    string
	cpu        float64
	mem        int
}

// NewEnsureCommand returns the ensure command.
func NewEnsureCommand(rootCmd *RootCommand, app *kingpin.Application) *EnsureCommand {
	c := &EnsureCommand{rootCmd: rootCmd}

	c.Cmd = app.Command("ensure", "Make sure a sandbox exists and is running. Safe to repeat.")
	c.Cmd.Flag("name", "Name for the sandbox.").Short('n').StringVar(&c.name)
	c.Cmd.Flag("image", "Container image for the sandbox.").Short('i').StringVar(&c.image)
	c.Cmd.Flag("config", "Path to a sandbox YAML config file (flags override it).").Short('c').StringVar(&c.configFile)
	c.Cmd.Flag("workdir", "Working directory inside the sandbox.").Short('w').StringVar(&c.workingDir)
	c.Cmd.Flag("env", "Environment variables (KEY=VALUE or KEY from current environment). Can be repeated.").Short('e').StringsVar(&c.envSpecs)
	c.Cmd.Flag("network", "Container network mode.").StringVar(&c.network)
	c.Cmd.Flag("cpu", "CPU limit (can be fractional, e.g., 0.5, 1.5). 0 means no limit.").Float64Var(&c.cpu)
	c.Cmd.Flag("mem", "Memory limit in MB. 0 means no limit.").IntVar(&c.mem)

	return c
}

func (c EnsureCommand) Name() string { return c.Cmd.FullCommand() }

func (c EnsureCommand) Run(ctx context.Context) error {
	logger := c.rootCmd.Logger

	cfg, err := c.sandboxConfig(ctx)
	if err != nil {
		return err
	}

	// Initialize storage (SQLite).
	repo, err := sqlite.NewRepository(ctx, sqlite.RepositoryConfig{
		DBPath: c.rootCmd.DBPath,
		Logger: logger,
	})
	if err != nil {
		return fmt.Errorf("could not create repository: %w", err)
	}
	defer repo.Close()

	// Initialize engine.
	eng, err := newEngine(c.rootCmd.Engine, logger)
	if err != nil {
		return fmt.Errorf("could not create engine: %w", err)
	}

	// Create ensure service.
	svc, err := ensure.NewService(ensure.ServiceConfig{
		Engine:     eng,
		Repository: repo,
		Logger:     logger,
	})
	if err != nil {
		return fmt.Errorf("could not create service: %w", err)
	}

	sandbox, err := svc.Run(ctx, ensure.Request{Config: cfg})
	if err != nil {
		return fmt.Errorf("could not ensure sandbox: %w", err)
	}

	fmt.Fprintf(c.rootCmd.Stdout, "Sandbox %s is running (container: %s)\n", sandbox.Name, sandbox.ID)

	return nil
}

// sandboxConfig builds the sandbox config from the optional config file and
// the CLI flags, flags winning over the file.
func (c EnsureCommand) sandboxConfig(ctx context.Context) (model.SandboxConfig, error) {
	cfg := model.SandboxConfig{}

	if c.configFile != "" {
		abs, err := filepath.Abs(c.configFile)
		if err != nil {
			return model.SandboxConfig{}, fmt.Errorf("invalid config path: %w", err)
		}
		loader := storageio.NewConfigYAMLRepository(os.DirFS(filepath.Dir(abs)))
		cfg, err = loader.GetConfig(ctx, filepath.Base(abs))
		if err != nil {
			return model.SandboxConfig{}, fmt.Errorf("could not load config file: %w", err)
		}
	}

	if c.name != "" {
		cfg.Name = c.name
	}
	if c.image != "" {
		cfg.Image = c.image
	}
	if c.workingDir != "" {
		cfg.WorkingDir = c.workingDir
	}
	if c.network != "" {
		cfg.Network = c.network
	}
	if c.cpu != 0 {
		cfg.Resources.CPUs = c.cpu
	}
	if c.mem != 0 {
		cfg.Resources.MemoryMB = c.mem
	}

	cliEnv, err := utilsenv.ParseSpecs(c.envSpecs)
	if err != nil {
		return model.SandboxConfig{}, fmt.Errorf("invalid --env value: %w", err)
	}
	if len(cliEnv) > 0 || len(cfg.Env) > 0 {
		cfg.Env = utilsenv.MergeMaps(cfg.Env, cliEnv)
	}

	if err := cfg.Validate(); err != nil {
		return model.SandboxConfig{}, fmt.Errorf("invalid sandbox config: %w", err)
	}

	return cfg, nil
}
