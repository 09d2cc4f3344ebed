package database

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"slices"
	"strings"

	"go.uber.org/zap"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

type Direction string

const (
	Up   Direction = "up"
	Down Direction = "down"
)

func ParseDirection(s string) (Direction, error) {
	switch Direction(s) {
	case Up, Down:
		return Direction(s), nil
	}
	return "", fmt.Errorf("direction must be 'up' or 'down', got %q", s)
}

// Migrations lists the embedded files for d in the order they apply.
func Migrations(d Direction) ([]string, error) {
	entries, err := fs.ReadDir(migrationFS, "migrations")
	if err != nil {
		return nil, fmt.Errorf("read migrations: %w", err)
	}

	suffix := "." + string(d) + ".sql"
	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), suffix) {
			names = append(names, e.Name())
		}
	}

	slices.Sort(names)
	if d == Down {
		slices.Reverse(names)
	}
	return names, nil
}

// Migrate runs every embedded migration for d inside one transaction. The
// files are idempotent so re-running up is harmless.
func Migrate(ctx context.Context, db *sql.DB, d Direction, logger *zap.Logger) (int, error) {
	names, err := Migrations(d)
	if err != nil {
		return 0, err
	}

	err = WithTransaction(ctx, db, DefaultTxOptions(), func(tx *sql.Tx) error {
		for _, name := range names {
			content, err := migrationFS.ReadFile("migrations/" + name)
			if err != nil {
				return fmt.Errorf("read migration %s: %w", name, err)
			}

			logger.Info("running migration", zap.String("file", name))
			if _, err := tx.ExecContext(ctx, string(content)); err != nil {
				return fmt.Errorf("execute migration %s: %w", name, err)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	return len(names), nil
}
