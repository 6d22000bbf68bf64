package commands

import (
	"context"
	"fmt"

	"github.com/alecthomas/kingpin/v2"

	"github.com/onebox-dev/onebox/internal/app/status"
	"github.com/onebox-dev/onebox/internal/printer"
)

const (
	outputTable = "table"
	outputJSON  = "json"
)

type StatusCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand

	sandboxName string
	output      string
}

// NewStatusCommand returns the status command.
func NewStatusCommand(rootCmd *RootCommand, app *kingpin.Application) *StatusCommand {
	c := &StatusCommand{rootCmd: rootCmd}

	c.Cmd = app.Command("status", "Show sandbox status.")
	c.Cmd.Arg("name", "Sandbox name.").Required().StringVar(&c.sandboxName)
	c.Cmd.Flag("output", "Output format.").Short('o').Default(outputTable).EnumVar(&c.output, outputTable, outputJSON)

	return c
}

func (c StatusCommand) Name() string { return c.Cmd.FullCommand() }

func (c StatusCommand) Run(ctx context.Context) error {
	logger := c.rootCmd.Logger

	// Initialize engine.
	eng, err := newEngine(c.rootCmd.Engine, logger)
	if err != nil {
		return fmt.Errorf("could not create engine: %w", err)
	}

	// Create status service.
	svc, err := status.NewService(status.ServiceConfig{
		Engine: eng,
		Logger: logger,
	})
	if err != nil {
		return fmt.Errorf("could not create service: %w", err)
	}

	sandbox, err := svc.Run(ctx, status.Request{SandboxName: c.sandboxName})
	if err != nil {
		return fmt.Errorf("could not get sandbox status: %w", err)
	}

	var p printer.Printer
	switch c.output {
	case outputJSON:
		p = printer.NewJSONPrinter(c.rootCmd.Stdout)
	default:
		p = printer.NewTablePrinter(c.rootCmd.Stdout)
	}

	if err := p.PrintStatus(*sandbox); err != nil {
		return fmt.Errorf("could not print status: %w", err)
	}

	return nil
}
