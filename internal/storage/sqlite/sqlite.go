package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/onebox-dev/onebox/internal/log"
	"github.com/onebox-dev/onebox/internal/model"
	"github.com/onebox-dev/onebox/internal/storage/sqlite/migrations"
)

// RepositoryConfig is the configuration for the SQLite repository.
type RepositoryConfig struct {
	DBPath string
	Logger log.Logger
}

func (c *RepositoryConfig) defaults() error {
	if c.DBPath == "" {
		return fmt.Errorf("db path is required")
	}
	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "storage.SQLite"})
	return nil
}

// Repository is a SQLite implementation of storage.Repository.
type Repository struct {
	db     *sql.DB
	logger log.Logger
}

// NewRepository creates a new SQLite repository.
func NewRepository(ctx context.Context, cfg RepositoryConfig) (*Repository, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	dir := filepath.Dir(cfg.DBPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("could not create db directory: %w", err)
	}

	dsn := fmt.Sprintf("%s?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)", cfg.DBPath)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("could not open database: %w", err)
	}

	migrator, err := migrations.NewMigrator(db, cfg.Logger)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("could not create migrator: %w", err)
	}
	if err := migrator.Up(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("could not run migrations: %w", err)
	}

	cfg.Logger.Debugf("SQLite repository initialized at %s", cfg.DBPath)

	return &Repository{db: db, logger: cfg.Logger}, nil
}

// Close closes the database connection.
func (r *Repository) Close() error { return r.db.Close() }

// CreateOperation creates a new operation in the journal.
func (r *Repository) CreateOperation(ctx context.Context, op model.Operation) error {
	var exitCode *int64
	if op.ExitCode != nil {
		c := int64(*op.ExitCode)
		exitCode = &c
	}
	var finishedAt *int64
	if op.FinishedAt != nil {
		u := op.FinishedAt.Unix()
		finishedAt = &u
	}

	query := `
		INSERT INTO operations (
			id, kind, sandbox_name, status,
			detail, error, exit_code,
			created_at, finished_at
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(
		ctx,
		query,
		op.ID,
		op.Kind,
		op.SandboxName,
		op.Status,
		op.Detail,
		op.Error,
		exitCode,
		op.CreatedAt.Unix(),
		finishedAt,
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed: operations.") {
			return fmt.Errorf("operation already exists: %w", model.ErrAlreadyExists)
		}
		return fmt.Errorf("could not insert operation: %w", err)
	}

	r.logger.Debugf("Created operation in journal: %s", op.ID)
	return nil
}

// UpdateOperation updates an existing operation.
func (r *Repository) UpdateOperation(ctx context.Context, op model.Operation) error {
	var exitCode *int64
	if op.ExitCode != nil {
		c := int64(*op.ExitCode)
		exitCode = &c
	}
	var finishedAt *int64
	if op.FinishedAt != nil {
		u := op.FinishedAt.Unix()
		finishedAt = &u
	}

	query := `
		UPDATE operations
		SET
			kind = ?,
			sandbox_name = ?,
			status = ?,
			detail = ?,
			error = ?,
			exit_code = ?,
			created_at = ?,
			finished_at = ?
		WHERE id = ?
	`

	result, err := r.db.ExecContext(
		ctx,
		query,
		op.Kind,
		op.SandboxName,
		op.Status,
		op.Detail,
		op.Error,
		exitCode,
		op.CreatedAt.Unix(),
		finishedAt,
		op.ID,
	)
	if err != nil {
		return fmt.Errorf("could not update operation: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("could not get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("operation %s: %w", op.ID, model.ErrNotFound)
	}

	r.logger.Debugf("Updated operation in journal: %s", op.ID)
	return nil
}

// GetOperation retrieves an operation by ID.
func (r *Repository) GetOperation(ctx context.Context, id string) (*model.Operation, error) {
	query := `
		SELECT
			id, kind, sandbox_name, status,
			detail, error, exit_code,
			created_at, finished_at
		FROM operations
		WHERE id = ?
	`

	row := r.db.QueryRowContext(ctx, query, id)
	op, err := r.scanRow(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("operation %s: %w", id, model.ErrNotFound)
		}
		return nil, fmt.Errorf("could not query operation: %w", err)
	}

	return &op, nil
}

// ListOperations returns operations newest first, up to limit (<=0 means all).
func (r *Repository) ListOperations(ctx context.Context, limit int) ([]model.Operation, error) {
	query := `
		SELECT
			id, kind, sandbox_name, status,
			detail, error, exit_code,
			created_at, finished_at
		FROM operations
		ORDER BY id DESC
	`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("could not query operations: %w", err)
	}
	defer rows.Close()

	var operations []model.Operation
	for rows.Next() {
		op, err := r.scanRow(rows)
		if err != nil {
			return nil, fmt.Errorf("could not scan row: %w", err)
		}
		operations = append(operations, op)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return operations, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func (r *Repository) scanRow(s scanner) (model.Operation, error) {
	var op model.Operation
	var exitCode sql.NullInt64
	var createdAt, finishedAt sql.NullInt64

	err := s.Scan(
		&op.ID,
		&op.Kind,
		&op.SandboxName,
		&op.Status,
		&op.Detail,
		&op.Error,
		&exitCode,
		&createdAt,
		&finishedAt,
	)
	if err != nil {
		return model.Operation{}, err
	}

	if exitCode.Valid {
		c := int(exitCode.Int64)
		op.ExitCode = &c
	}
	if !createdAt.Valid {
		return model.Operation{}, fmt.Errorf("created_at is required")
	}
	op.CreatedAt = timeFromUnix(createdAt.Int64)
	if finishedAt.Valid {
		t := timeFromUnix(finishedAt.Int64)
		op.FinishedAt = &t
	}

	return op, nil
}

func timeFromUnix(unix int64) time.Time { return time.Unix(unix, 0).UTC() }
