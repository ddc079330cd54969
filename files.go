package portal

import (
	"context"
	"embed"
	"io/fs"
	"sort"
	"strings"

	"github.com/goliatone/go-errors"
	"github.com/uptrace/bun"
)

//go:embed data/sql/migrations
var migrationsFS embed.FS

// GetMigrationsFS returns the migration files for this package
func GetMigrationsFS() embed.FS {
	return migrationsFS
}

// RunMigrations executes the embedded migrations in lexical order. Every
// statement is idempotent so re-running on startup is safe.
func RunMigrations(ctx context.Context, db *bun.DB) error {
	var files []string
	err := fs.WalkDir(migrationsFS, "data/sql/migrations", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(path, ".sql") {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "failed to read migrations")
	}

	sort.Strings(files)

	for _, file := range files {
		raw, err := migrationsFS.ReadFile(file)
		if err != nil {
			return errors.Wrap(err, errors.CategoryInternal, "failed to read migration").
				WithMetadata(map[string]any{"file": file})
		}

		if _, err := db.ExecContext(ctx, string(raw)); err != nil {
			return errors.Wrap(err, errors.CategoryInternal, "failed to apply migration").
				WithMetadata(map[string]any{"file": file})
		}
	}

	return nil
}
