package printer

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/onebox-dev/onebox/internal/model"
)

// TablePrinter prints sandbox information in a table format.
type TablePrinter struct {
	writer io.Writer
}

// NewTablePrinter creates a new table printer.
func NewTablePrinter(w io.Writer) *TablePrinter {
	return &TablePrinter{writer: w}
}

// PrintStatus prints detailed sandbox status.
func (t *TablePrinter) PrintStatus(sandbox model.Sandbox) error {
	status := "stopped"
	if sandbox.Running {
		status = "running"
	}

	fmt.Fprintf(t.writer, "Name:       %s\n", sandbox.Name)
	fmt.Fprintf(t.writer, "ID:         %s\n", sandbox.ID)
	fmt.Fprintf(t.writer, "Image:      %s\n", sandbox.Image)
	fmt.Fprintf(t.writer, "Status:     %s\n", status)
	fmt.Fprintf(t.writer, "Created:    %s\n", FormatTimestamp(sandbox.CreatedAt))

	if sandbox.StartedAt != nil {
		fmt.Fprintf(t.writer, "Started:    %s\n", FormatTimestamp(*sandbox.StartedAt))
	}

	return nil
}

// PrintHistory prints journaled operations in a table format.
func (t *TablePrinter) PrintHistory(operations []model.Operation) error {
	if len(operations) == 0 {
		return nil
	}

	tw := tabwriter.NewWriter(t.writer, 0, 0, 2, ' ', 0)
	defer tw.Flush()

	// Print header
	fmt.Fprintln(tw, "KIND\tSANDBOX\tSTATUS\tEXIT\tDETAIL\tWHEN")

	// Print rows
	for _, op := range operations {
		exit := "-"
		if op.ExitCode != nil {
			exit = fmt.Sprintf("%d", *op.ExitCode)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			op.Kind,
			op.SandboxName,
			op.Status,
			exit,
			op.Detail,
			TimeAgo(op.CreatedAt),
		)
	}

	return nil
}

// PrintMessage prints a simple text message.
func (t *TablePrinter) PrintMessage(msg string) error {
	fmt.Fprintln(t.writer, msg)
	return nil
}
