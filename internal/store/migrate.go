package store

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"log/slog"
	"strings"
)

//go:embed migrations/001_meals.sql
var createMealsSQL string

// Schema version tracking:
// 0 - Empty database
// 1 - meals table with CHECK (calories > 0)
// 2 - Added meals.time
// 3 - Added meals.ingredients
const currentSchemaVersion = 3

// createIndexesSQL runs after the last step because the index covers
// meals.time, which only exists from version 2.
const createIndexesSQL = `CREATE INDEX IF NOT EXISTS idx_meals_date_time ON meals(date, time, created_at)`

// migration is one additive schema step. apply runs inside the transaction
// that also records the new version, so a failed step leaves the version
// untouched and is retried on the next open.
type migration struct {
	version int
	name    string
	apply   func(ctx context.Context, tx *sql.Tx) error
}

var migrations = []migration{
	{version: 1, name: "create meals", apply: execSQL(createMealsSQL)},
	{version: 2, name: "add meals.time", apply: addColumn("meals", "time", "TEXT DEFAULT '12:00'")},
	{version: 3, name: "add meals.ingredients", apply: addColumn("meals", "ingredients", "TEXT")},
}

// Column describes one live column of the meals table.
type Column struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// SchemaInfo reports the applied schema version and the live meals columns.
type SchemaInfo struct {
	Version int      `json:"version"`
	Columns []Column `json:"columns"`
}

// Migrate brings the schema to the latest version. Opening a Store already
// does this; calling it again is a no-op.
func (s *Store) Migrate(ctx context.Context) error {
	db, err := s.conn(ctx)
	if err != nil {
		return err
	}
	return migrate(ctx, db, s.logger)
}

// SchemaInfo returns the schema version and the columns of the meals table.
func (s *Store) SchemaInfo(ctx context.Context) (SchemaInfo, error) {
	db, err := s.conn(ctx)
	if err != nil {
		return SchemaInfo{}, err
	}

	version, err := schemaVersion(ctx, db)
	if err != nil {
		return SchemaInfo{}, err
	}
	cols, err := tableColumns(ctx, db, "meals")
	if err != nil {
		return SchemaInfo{}, fmt.Errorf("schema info: %w", err)
	}
	return SchemaInfo{Version: version, Columns: cols}, nil
}

// migrate applies pending migrations in order, one transaction each.
func migrate(ctx context.Context, db *sql.DB, logger *slog.Logger) error {
	version, err := schemaVersion(ctx, db)
	if err != nil {
		return err
	}

	for _, m := range migrations {
		if m.version <= version {
			continue
		}
		applied, err := applyMigration(ctx, db, m)
		if err != nil {
			return fmt.Errorf("migrate to v%d (%s): %w", m.version, m.name, err)
		}
		if applied {
			logger.Info("schema migrated", "version", m.version, "step", m.name)
		}
		version = m.version
	}

	if _, err := db.ExecContext(ctx, createIndexesSQL); err != nil {
		return fmt.Errorf("create indexes: %w", err)
	}
	return nil
}

// applyMigration runs one step and bumps user_version as the last statement
// of the same transaction. The version is re-read under the write lock so a
// concurrent migrator that got there first turns this call into a no-op.
func applyMigration(ctx context.Context, db *sql.DB, m migration) (bool, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	var current int
	if err := tx.QueryRowContext(ctx, "PRAGMA user_version").Scan(&current); err != nil {
		return false, fmt.Errorf("get user_version: %w", err)
	}
	if current >= m.version {
		return false, nil
	}

	if err := m.apply(ctx, tx); err != nil {
		return false, err
	}

	// PRAGMA does not accept bound parameters.
	if _, err := tx.ExecContext(ctx, fmt.Sprintf("PRAGMA user_version = %d", m.version)); err != nil {
		return false, fmt.Errorf("set user_version: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("commit: %w", err)
	}
	return true, nil
}

func schemaVersion(ctx context.Context, db *sql.DB) (int, error) {
	var version int
	if err := db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&version); err != nil {
		return 0, fmt.Errorf("get user_version: %w", err)
	}
	return version, nil
}

func execSQL(stmt string) func(context.Context, *sql.Tx) error {
	return func(ctx context.Context, tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, stmt)
		return err
	}
}

// addColumn adds a column unless the live schema already has it, which
// happens when an earlier run altered the table but never recorded the
// version.
func addColumn(table, column, definition string) func(context.Context, *sql.Tx) error {
	return func(ctx context.Context, tx *sql.Tx) error {
		cols, err := tableColumns(ctx, tx, table)
		if err != nil {
			return err
		}
		for _, c := range cols {
			if strings.EqualFold(c.Name, column) {
				return nil
			}
		}

		_, err = tx.ExecContext(ctx, fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s %s", table, column, definition))
		if err != nil && isDuplicateColumn(err) {
			return nil
		}
		return err
	}
}

type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// tableColumns lists a table's columns in declaration order. A missing table
// yields no columns.
func tableColumns(ctx context.Context, q queryer, table string) ([]Column, error) {
	rows, err := q.QueryContext(ctx, fmt.Sprintf("PRAGMA table_info(%s)", table))
	if err != nil {
		return nil, fmt.Errorf("table info %s: %w", table, err)
	}
	defer rows.Close()

	cols := []Column{}
	for rows.Next() {
		var cid, notNull, pk int
		var name, typ string
		var defaultValue any
		if err := rows.Scan(&cid, &name, &typ, &notNull, &defaultValue, &pk); err != nil {
			return nil, fmt.Errorf("scan table info %s: %w", table, err)
		}
		cols = append(cols, Column{Name: name, Type: typ})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate table info %s: %w", table, err)
	}
	return cols, nil
}

// isDuplicateColumn reports whether an ALTER TABLE failed only because the
// column is already there.
func isDuplicateColumn(err error) bool {
	return strings.Contains(strings.ToLower(err.Error()), "duplicate column")
}
