package lib

import (
	"context"
	"fmt"

	"github.com/onebox-dev/onebox/internal/app/history"
)

// History lists journaled sandbox operations, newest first. A limit of zero
// or less returns all operations.
func (c *Client) History(ctx context.Context, limit int) ([]Operation, error) {
	svc, err := history.NewService(history.ServiceConfig{
		Repository: c.repo,
		Logger:     c.logger,
	})
	if err != nil {
		return nil, fmt.Errorf("could not create service: %w", err)
	}

	operations, err := svc.Run(ctx, history.Request{Limit: limit})
	if err != nil {
		return nil, mapError(err)
	}

	return fromInternalOperationList(operations), nil
}
