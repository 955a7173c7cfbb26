// Package migrate applies plain SQL migration files.
package migrate

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"

	"github.com/jmoiron/sqlx"

	"kitflip/pkg/contextx"
)

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

// FromFile executes all SQL queries from the files over a database
// connection, in the given order.
func FromFile(ctx context.Context, db *sqlx.DB, fileNames ...string) error {
	for _, fileName := range fileNames {
		fileBytes, err := os.ReadFile(fileName)
		if err != nil {
			return fmt.Errorf("os.ReadFile: %w", err)
		}

		if _, err = db.ExecContext(ctx, string(fileBytes)); err != nil {
			return fmt.Errorf("db.ExecContext(%s): %w", filepath.Base(fileName), err)
		}

		logger(ctx).Info("migration applied", slog.String("file", filepath.Base(fileName)))
	}

	return nil
}

// FromDir executes every *.sql file of the directory in lexical order.
func FromDir(ctx context.Context, db *sqlx.DB, dir string) error {
	fileNames, err := filepath.Glob(filepath.Join(dir, "*.sql"))
	if err != nil {
		return fmt.Errorf("filepath.Glob: %w", err)
	}

	slices.Sort(fileNames)

	return FromFile(ctx, db, fileNames...)
}
