package lib

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/onebox-dev/onebox/internal/log"
	"github.com/onebox-dev/onebox/internal/sandbox"
	"github.com/onebox-dev/onebox/internal/sandbox/docker"
	"github.com/onebox-dev/onebox/internal/sandbox/fake"
	"github.com/onebox-dev/onebox/internal/storage"
	"github.com/onebox-dev/onebox/internal/storage/sqlite"
)

const (
	defaultDataDir = ".onebox"
	defaultDBFile  = "onebox.db"
)

// Config configures the SDK client.
//
// All fields are optional and have sensible defaults. At minimum, an empty
// Config{} will use ~/.onebox/onebox.db for storage and the Docker engine.
type Config struct {
	// DBPath is the SQLite database path for the operation journal.
	// Default: ~/.onebox/onebox.db.
	DBPath string

	// Logger receives structured log output from the SDK.
	// Default: noop (silent). See the log sub-package for the interface.
	Logger log.Logger

	// Engine selects the sandbox engine.
	// Default: [EngineDocker]. Set this to [EngineFake] for testing without
	// a Docker daemon.
	Engine EngineType
}

func (c *Config) defaults() error {
	if c.DBPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("could not get user home dir: %w", err)
		}
		c.DBPath = filepath.Join(home, defaultDataDir, defaultDBFile)
	}

	if c.Logger == nil {
		c.Logger = log.Noop
	}

	if c.Engine == "" {
		c.Engine = EngineDocker
	}

	return nil
}

// Client is the main SDK entry point for managing the sandbox programmatically.
//
// Create a Client with [New] and release its resources with [Client.Close].
// A Client is safe for concurrent use.
type Client struct {
	repo    storage.Repository
	engine  sandbox.Engine
	logger  log.Logger
	closeFn func() error
}

// New creates a new SDK client backed by a SQLite operation journal.
//
// The caller must call [Client.Close] when done to release the database
// connection. Typically used with defer:
//
//	client, err := lib.New(ctx, lib.Config{})
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
func New(ctx context.Context, cfg Config) (*Client, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	repo, err := sqlite.NewRepository(ctx, sqlite.RepositoryConfig{
		DBPath: cfg.DBPath,
		Logger: cfg.Logger,
	})
	if err != nil {
		return nil, fmt.Errorf("could not create repository: %w", err)
	}

	eng, err := newEngine(cfg.Engine, cfg.Logger)
	if err != nil {
		repo.Close()
		return nil, mapError(fmt.Errorf("could not create engine: %w", err))
	}

	return &Client{
		repo:    repo,
		engine:  eng,
		logger:  cfg.Logger,
		closeFn: repo.Close,
	}, nil
}

// Close releases resources held by the client, including the database connection.
// After Close returns, the client must not be used.
func (c *Client) Close() error {
	if c.closeFn != nil {
		return c.closeFn()
	}
	return nil
}

// newEngine creates the sandbox engine for the given type.
func newEngine(engineType EngineType, logger log.Logger) (sandbox.Engine, error) {
	switch engineType {
	case EngineDocker:
		return docker.NewEngine(docker.EngineConfig{
			Logger: logger,
		})
	case EngineFake:
		return fake.NewEngine(fake.EngineConfig{
			Logger: logger,
		})
	default:
		return nil, fmt.Errorf("unsupported engine type: %s: %w", engineType, ErrNotValid)
	}
}
