// Package migrate applies embedded goose migrations to a database/sql handle.
package migrate

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"sync"

	"github.com/JonMunkholm/contactdesk/internal/logging"
	"github.com/pressly/goose/v3"
)

// goose keeps its base filesystem and dialect in package globals.
var gooseMu sync.Mutex

// Up applies every pending migration found under dir in fsys.
// dialect is a goose dialect name such as "postgres" or "sqlserver".
func Up(ctx context.Context, db *sql.DB, fsys fs.FS, dialect, dir string) error {
	gooseMu.Lock()
	defer gooseMu.Unlock()

	goose.SetBaseFS(fsys)
	defer goose.SetBaseFS(nil)

	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}
	if err := goose.UpContext(ctx, db, dir); err != nil {
		return fmt.Errorf("migrate up: %w", err)
	}

	version, err := goose.GetDBVersionContext(ctx, db)
	if err != nil {
		return fmt.Errorf("read migration version: %w", err)
	}
	logging.FromContext(ctx).Info("migrations applied", "dialect", dialect, "version", version)
	return nil
}
