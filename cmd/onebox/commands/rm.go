package commands

import (
	"context"
	"fmt"

	"github.com/alecthomas/kingpin/v2"

	"github.com/onebox-dev/onebox/internal/app/remove"
	"github.com/onebox-dev/onebox/internal/model"
	"github.com/onebox-dev/onebox/internal/printer"
	"github.com/onebox-dev/onebox/internal/storage/sqlite"
)

type RemoveCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand

	sandboxName   string
	force         bool
	removeVolumes bool
}

// NewRemoveCommand returns the remove command.
func NewRemoveCommand(rootCmd *RootCommand, app *kingpin.Application) *RemoveCommand {
	c := &RemoveCommand{rootCmd: rootCmd}

	c.Cmd = app.Command("rm", "Remove a sandbox. Removing an absent sandbox is a no-op.")
	c.Cmd.Arg("name", "Sandbox name.").Required().StringVar(&c.sandboxName)
	c.Cmd.Flag("force", "Force removal of a running sandbox.").BoolVar(&c.force)
	c.Cmd.Flag("volumes", "Remove anonymous volumes with the sandbox.").BoolVar(&c.removeVolumes)

	return c
}

func (c RemoveCommand) Name() string { return c.Cmd.FullCommand() }

func (c RemoveCommand) Run(ctx context.Context) error {
	logger := c.rootCmd.Logger

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

	// Create remove service.
	svc, err := remove.NewService(remove.ServiceConfig{
		Engine:     eng,
		Repository: repo,
		Logger:     logger,
	})
	if err != nil {
		return fmt.Errorf("could not create service: %w", err)
	}

	removed, err := svc.Run(ctx, remove.Request{
		SandboxName: c.sandboxName,
		Opts: model.RemoveOpts{
			Force:         c.force,
			RemoveVolumes: c.removeVolumes,
		},
	})
	if err != nil {
		return fmt.Errorf("could not remove sandbox: %w", err)
	}

	// Print result message.
	p := printer.NewTablePrinter(c.rootCmd.Stdout)
	msg := fmt.Sprintf("Removed sandbox: %s", c.sandboxName)
	if !removed {
		msg = fmt.Sprintf("Sandbox %s does not exist, nothing removed", c.sandboxName)
	}
	if err := p.PrintMessage(msg); err != nil {
		return fmt.Errorf("could not print message: %w", err)
	}

	return nil
}
