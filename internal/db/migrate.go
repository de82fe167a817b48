package db

import (
	"bytes"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"sort"
)

//go:embed migrations/*.sql
var embeddedMigrations embed.FS

// RunMigrations applies the schema migrations in lexical order. When dir is
// non-empty its *.sql files take precedence over the embedded set, which
// allows schema experiments without rebuilding the binary.
func RunMigrations(db *sql.DB, dir string) error {
	fsys := fs.FS(embeddedMigrations)
	root := "migrations"
	if dir != "" {
		if _, err := os.Stat(dir); err == nil {
			fsys, root = os.DirFS(dir), "."
		} else if !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("stat migrations dir: %w", err)
		}
	}

	names, err := fs.Glob(fsys, path.Join(root, "*.sql"))
	if err != nil {
		return fmt.Errorf("list migrations: %w", err)
	}
	sort.Strings(names)

	for _, name := range names {
		stmt, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("read migration %s: %w", path.Base(name), err)
		}
		if len(bytes.TrimSpace(stmt)) == 0 {
			continue
		}
		if _, err := db.Exec(string(stmt)); err != nil {
			return fmt.Errorf("apply migration %s: %w", path.Base(name), err)
		}
	}
	return nil
}
