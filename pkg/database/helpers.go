package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// ArtifactsTable holds the stored model documents.
const ArtifactsTable = "model_artifacts"

var ErrSchemaMissing = errors.New("database schema is missing, run migrate")

type TxFunc func(tx *sql.Tx) error

func (db *DB) WithTransaction(ctx context.Context, fn TxFunc) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("tx error: %v, rollback error: %w", err, rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// CheckSchema returns ErrSchemaMissing naming the first absent table.
func (db *DB) CheckSchema(ctx context.Context, tables ...string) error {
	const query = `
		SELECT EXISTS (
			SELECT FROM information_schema.tables
			WHERE table_schema = current_schema()
			AND table_name = $1
		)`

	for _, table := range tables {
		var exists bool
		if err := db.QueryRowContext(ctx, query, table).Scan(&exists); err != nil {
			return fmt.Errorf("failed to check table %s: %w", table, err)
		}
		if !exists {
			return fmt.Errorf("%w: table %s not found", ErrSchemaMissing, table)
		}
	}
	return nil
}
