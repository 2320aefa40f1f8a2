package database

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/glebarez/sqlite"
	"github.com/rfberaldo/sqlz"
	"github.com/rfberaldo/sqlz/binds"
)

//go:embed sql-migrations
var sqlMigrationsFs embed.FS

func init() {
	binds.Register("sqlite", binds.BindByDriver("sqlite3"))
}

/*
Connect opens the SQLite database at dsn. Foreign keys are switched on for
every connection through the DSN pragma.
*/
func Connect(dsn string) (*sqlz.DB, error) {
	var (
		err error
		db  *sqlz.DB
	)

	if !strings.Contains(dsn, "_pragma=foreign_keys") {
		sep := "?"
		if strings.Contains(dsn, "?") {
			sep = "&"
		}

		dsn += sep + "_pragma=foreign_keys(1)"
	}

	if db, err = sqlz.Connect("sqlite", dsn); err != nil {
		return nil, fmt.Errorf("error connecting to database: %w", err)
	}

	return db, nil
}

/*
Migrate runs every embedded script whose name starts with "commit", in file
name order. Scripts are written to be re-runnable, so this is safe on every
startup.
*/
func Migrate(db *sqlz.DB) error {
	var (
		err  error
		dirs []fs.DirEntry
		b    []byte
	)

	if dirs, err = sqlMigrationsFs.ReadDir("sql-migrations"); err != nil {
		return fmt.Errorf("error reading migrations: %w", err)
	}

	for _, d := range dirs {
		if d.IsDir() {
			continue
		}

		if strings.HasPrefix(d.Name(), "commit") {
			if b, err = fs.ReadFile(sqlMigrationsFs, path.Join("sql-migrations", d.Name())); err != nil {
				return fmt.Errorf("error reading migration %s: %w", d.Name(), err)
			}

			if err = runSqlScript(db, b); err != nil {
				if !isIgnorableError(err) {
					return fmt.Errorf("error running migration %s: %w", d.Name(), err)
				}
			}
		}
	}

	return nil
}

func runSqlScript(db *sqlz.DB, script []byte) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*30)
	defer cancel()

	_, err := db.Exec(ctx, string(script))
	return err
}

func isIgnorableError(err error) bool {
	if strings.Contains(err.Error(), "duplicate column") {
		return true
	}

	return false
}

/*
EnsureDataDir creates the directory a file DSN points into, so a fresh
checkout can start without any setup.
*/
func EnsureDataDir(dsn string) error {
	file := strings.TrimPrefix(dsn, "file:")

	if i := strings.Index(file, "?"); i >= 0 {
		file = file[:i]
	}

	if file == "" || file == ":memory:" {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(file), 0o755); err != nil {
		return fmt.Errorf("error creating data directory for '%s': %w", file, err)
	}

	return nil
}
