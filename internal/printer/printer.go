package printer

import "github.com/onebox-dev/onebox/internal/model"

// Printer knows how to print sandbox information in different formats.
type Printer interface {
	PrintStatus(sandbox model.Sandbox) error
	PrintHistory(operations []model.Operation) error
	PrintMessage(msg string) error
}
