package printer

import (
	"encoding/json"
	"io"
	"time"

	"github.com/onebox-dev/onebox/internal/model"
)

// JSONPrinter prints sandbox information in JSON format.
type JSONPrinter struct {
	writer io.Writer
}

// NewJSONPrinter creates a new JSON printer.
func NewJSONPrinter(w io.Writer) *JSONPrinter {
	return &JSONPrinter{writer: w}
}

// statusOutput represents the full sandbox status output.
type statusOutput struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Image     string     `json:"image"`
	Running   bool       `json:"running"`
	CreatedAt time.Time  `json:"created_at"`
	StartedAt *time.Time `json:"started_at"`
}

// historyItem represents one journaled operation in the history output.
type historyItem struct {
	ID          string     `json:"id"`
	Kind        string     `json:"kind"`
	SandboxName string     `json:"sandbox_name"`
	Status      string     `json:"status"`
	Detail      string     `json:"detail,omitempty"`
	Error       string     `json:"error,omitempty"`
	ExitCode    *int       `json:"exit_code"`
	CreatedAt   time.Time  `json:"created_at"`
	FinishedAt  *time.Time `json:"finished_at"`
}

// messageOutput represents a simple message output.
type messageOutput struct {
	Message string `json:"message"`
}

// PrintStatus prints detailed sandbox status in JSON format.
func (j *JSONPrinter) PrintStatus(sandbox model.Sandbox) error {
	output := statusOutput{
		ID:        sandbox.ID,
		Name:      sandbox.Name,
		Image:     sandbox.Image,
		Running:   sandbox.Running,
		CreatedAt: sandbox.CreatedAt.UTC(),
	}

	if sandbox.StartedAt != nil {
		utcTime := sandbox.StartedAt.UTC()
		output.StartedAt = &utcTime
	}

	enc := json.NewEncoder(j.writer)
	enc.SetIndent("", "  ")
	return enc.Encode(output)
}

// PrintHistory prints journaled operations in JSON format.
func (j *JSONPrinter) PrintHistory(operations []model.Operation) error {
	items := make([]historyItem, len(operations))
	for i, op := range operations {
		items[i] = historyItem{
			ID:          op.ID,
			Kind:        string(op.Kind),
			SandboxName: op.SandboxName,
			Status:      string(op.Status),
			Detail:      op.Detail,
			Error:       op.Error,
			ExitCode:    op.ExitCode,
			CreatedAt:   op.CreatedAt.UTC(),
		}
		if op.FinishedAt != nil {
			utcTime := op.FinishedAt.UTC()
			items[i].FinishedAt = &utcTime
		}
	}

	enc := json.NewEncoder(j.writer)
	enc.SetIndent("", "  ")
	return enc.Encode(items)
}

// PrintMessage prints a simple message in JSON format.
func (j *JSONPrinter) PrintMessage(msg string) error {
	output := messageOutput{Message: msg}
	enc := json.NewEncoder(j.writer)
	enc.SetIndent("", "  ")
	return enc.Encode(output)
}
