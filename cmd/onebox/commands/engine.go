package commands

import (
	"fmt"

	"github.com/onebox-dev/onebox/internal/log"
	"github.com/onebox-dev/onebox/internal/sandbox"
	"github.com/onebox-dev/onebox/internal/sandbox/docker"
	"github.com/onebox-dev/onebox/internal/sandbox/fake"
)

// newEngine creates the sandbox engine selected by the global --engine flag.
func newEngine(engineType string, logger log.Logger) (sandbox.Engine, error) {
	switch engineType {
	case EngineDocker:
		eng, err := docker.NewEngine(docker.EngineConfig{Logger: logger})
		if err != nil {
			return nil, fmt.Errorf("could not create Docker engine: %w", err)
		}
		return eng, nil
	case EngineFake:
		eng, err := fake.NewEngine(fake.EngineConfig{Logger: logger})
		if err != nil {
			return nil, fmt.Errorf("could not create fake engine: %w", err)
		}
		return eng, nil
	}

	return nil, fmt.Errorf("unknown engine type: %s", engineType)
}
