package commands

import (
	"context"
	"fmt"

	"github.com/alecthomas/kingpin/v2"

	"github.com/onebox-dev/onebox/internal/app/history"
	"github.com/onebox-dev/onebox/internal/printer"
	"github.com/onebox-dev/onebox/internal/storage/sqlite"
)

type HistoryCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand

	limit  int
	output string
}

// NewHistoryCommand returns the history command.
func NewHistoryCommand(rootCmd *RootCommand, app *kingpin.Application) *HistoryCommand {
	c := &HistoryCommand{rootCmd: rootCmd}

	c.Cmd = app.Command("history", "List journaled sandbox operations, newest first.")
	c.Cmd.Flag("limit", "Maximum number of operations to list (0 means all).").Default("20").IntVar(&c.limit)
	c.Cmd.Flag("output", "Output format.").Short('o').Default(outputTable).EnumVar(&c.output, outputTable, outputJSON)

	return c
}

func (c HistoryCommand) Name() string { return c.Cmd.FullCommand() }

func (c HistoryCommand) Run(ctx context.Context) error {
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

	// Create history service.
	svc, err := history.NewService(history.ServiceConfig{
		Repository: repo,
		Logger:     logger,
	})
	if err != nil {
		return fmt.Errorf("could not create service: %w", err)
	}

	operations, err := svc.Run(ctx, history.Request{Limit: c.limit})
	if err != nil {
		return fmt.Errorf("could not list operations: %w", err)
	}

	var p printer.Printer
	switch c.output {
	case outputJSON:
		p = printer.NewJSONPrinter(c.rootCmd.Stdout)
	default:
		p = printer.NewTablePrinter(c.rootCmd.Stdout)
	}

	if err := p.PrintHistory(operations); err != nil {
		return fmt.Errorf("could not print history: %w", err)
	}

	return nil
}
