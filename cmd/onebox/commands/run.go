package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/alecthomas/kingpin/v2"

	"github.com/onebox-dev/onebox/internal/app/run"
	"github.com/onebox-dev/onebox/internal/model"
	"github.com/onebox-dev/onebox/internal/storage/sqlite"
	utilsenv "github.com/onebox-dev/onebox/internal/utils/env"
)

type RunCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand

	sandboxName string
	command     []string
	workingDir  string
	envSpecs    []string
	tty         bool
}

// NewRunCommand returns the run command.
func NewRunCommand(rootCmd *RootCommand, app *kingpin.Application) *RunCommand {
	c := &RunCommand{rootCmd: rootCmd}

	c.Cmd = app.Command("run", "Execute a command in a running sandbox.")
	c.Cmd.Arg("name", "Sandbox name.").Required().StringVar(&c.sandboxName)
	c.Cmd.Arg("command", "Command to execute (use -- before command).").Required().StringsVar(&c.command)
	c.Cmd.Flag("workdir", "Working directory for command execution.").Short('w').StringVar(&c.workingDir)
	c.Cmd.Flag("env", "Environment variables (KEY=VALUE or KEY from current environment). Can be repeated.").Short('e').StringsVar(&c.envSpecs)
	c.Cmd.Flag("tty", "Allocate a pseudo-TTY (raw output, no stdout/stderr split).").Short('t').BoolVar(&c.tty)

	return c
}

func (c RunCommand) Name() string { return c.Cmd.FullCommand() }

func (c RunCommand) Run(ctx context.Context) error {
	logger := c.rootCmd.Logger

	cmdEnv, err := utilsenv.ParseSpecs(c.envSpecs)
	if err != nil {
		return fmt.Errorf("invalid --env value: %w", err)
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

	// Create run service.
	svc, err := run.NewService(run.ServiceConfig{
		Engine:     eng,
		Repository: repo,
		Logger:     logger,
	})
	if err != nil {
		return fmt.Errorf("could not create service: %w", err)
	}

	spec := model.NewCommandSpec(c.command)
	spec.WorkingDir = c.workingDir
	spec.Env = cmdEnv
	spec.Tty = c.tty

	result, err := svc.Run(ctx, run.Request{
		SandboxName: c.sandboxName,
		Spec:        spec,
	})
	if err != nil {
		return fmt.Errorf("could not execute command: %w", err)
	}

	// Write the captured channels to their terminal counterparts.
	if _, err := c.rootCmd.Stdout.Write(result.Stdout); err != nil {
		return fmt.Errorf("could not write stdout: %w", err)
	}
	if _, err := c.rootCmd.Stderr.Write(result.Stderr); err != nil {
		return fmt.Errorf("could not write stderr: %w", err)
	}

	// Exit with the command's exit code.
	if result.ExitCode != nil && *result.ExitCode != 0 {
		os.Exit(*result.ExitCode)
	}

	return nil
}
