// Package migrations versions the SQLite schema. Plain steps live in
// embedded NNN_name.up.sql / .down.sql pairs; steps that must rewrite rows
// register themselves as Go code.
package migrations

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"slices"
	"strings"
)

//go:embed *.sql
var migrationsFS embed.FS

// GoMigrationFunc is a migration step that needs code rather than plain SQL.
type GoMigrationFunc func(tx *sql.Tx) error

type Migration struct {
	Version  int
	Up       string
	Down     string
	UpFunc   GoMigrationFunc
	DownFunc GoMigrationFunc
}

func (m Migration) up(ctx context.Context, tx *sql.Tx) error {
	return step(ctx, tx, m.Up, m.UpFunc)
}

func (m Migration) down(ctx context.Context, tx *sql.Tx) error {
	return step(ctx, tx, m.Down, m.DownFunc)
}

var goMigrations = map[int]Migration{}

// RegisterGoMigration adds a code migration. It panics on a duplicate version.
func RegisterGoMigration(version int, up, down GoMigrationFunc) {
	if _, dup := goMigrations[version]; dup {
		panic(fmt.Sprintf("migration %d registered twice", version))
	}
	goMigrations[version] = Migration{Version: version, UpFunc: up, DownFunc: down}
}

const schemaTable = `
CREATE TABLE IF NOT EXISTS migrations (
	version INTEGER PRIMARY KEY,
	applied_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	dirty BOOLEAN DEFAULT FALSE
)`

// RunMigrations applies every pending migration in version order. A
// database left dirty by an earlier failure is refused.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schemaTable); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	all, err := loadMigrations()
	if err != nil {
		return fmt.Errorf("failed to load migrations: %w", err)
	}

	applied, dirty, err := appliedVersions(ctx, db)
	if err != nil {
		return fmt.Errorf("failed to get applied migrations: %w", err)
	}
	if len(dirty) > 0 {
		return fmt.Errorf("database is in a dirty state, failed migration(s): %v", dirty)
	}

	for _, m := range all {
		if applied[m.Version] {
			continue
		}
		err := inTx(ctx, db, func(tx *sql.Tx) error {
			if err := m.up(ctx, tx); err != nil {
				return err
			}
			_, err := tx.ExecContext(ctx, "INSERT INTO migrations (version) VALUES (?)", m.Version)
			return err
		})
		if err != nil {
			// Later runs refuse to continue until the database is repaired by hand.
			_, _ = db.ExecContext(ctx, "INSERT OR REPLACE INTO migrations (version, dirty) VALUES (?, TRUE)", m.Version)
			return fmt.Errorf("failed to apply migration %d: %w", m.Version, err)
		}
	}
	return nil
}

// Rollback reverts the most recently applied migration, if any.
func Rollback(ctx context.Context, db *sql.DB) error {
	var version int
	err := db.QueryRowContext(ctx, "SELECT COALESCE(MAX(version), 0) FROM migrations WHERE dirty = 0").Scan(&version)
	if err != nil {
		return fmt.Errorf("failed to read current version: %w", err)
	}
	if version == 0 {
		return nil
	}

	all, err := loadMigrations()
	if err != nil {
		return fmt.Errorf("failed to load migrations: %w", err)
	}
	i := slices.IndexFunc(all, func(m Migration) bool { return m.Version == version })
	if i < 0 {
		return fmt.Errorf("no migration found for version %d", version)
	}

	return inTx(ctx, db, func(tx *sql.Tx) error {
		if err := all[i].down(ctx, tx); err != nil {
			return fmt.Errorf("failed to revert migration %d: %w", version, err)
		}
		_, err := tx.ExecContext(ctx, "DELETE FROM migrations WHERE version = ?", version)
		return err
	})
}

func inTx(ctx context.Context, db *sql.DB, fn func(*sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

func step(ctx context.Context, tx *sql.Tx, stmt string, fn GoMigrationFunc) error {
	switch {
	case fn != nil:
		return fn(tx)
	case strings.TrimSpace(stmt) == "":
		return nil
	}
	_, err := tx.ExecContext(ctx, stmt)
	return err
}

// loadMigrations merges the embedded SQL pairs with the registered Go
// steps, sorted by version.
func loadMigrations() ([]Migration, error) {
	ups, err := fs.Glob(migrationsFS, "*.up.sql")
	if err != nil {
		return nil, err
	}

	byVersion := make(map[int]Migration, len(ups)+len(goMigrations))
	for _, name := range ups {
		version := extractVersion(name)
		if version == 0 {
			continue
		}
		up, err := migrationsFS.ReadFile(name)
		if err != nil {
			return nil, err
		}
		down, err := migrationsFS.ReadFile(strings.TrimSuffix(name, ".up.sql") + ".down.sql")
		if err != nil {
			return nil, err
		}
		byVersion[version] = Migration{Version: version, Up: string(up), Down: string(down)}
	}

	for version, m := range goMigrations {
		if _, clash := byVersion[version]; clash {
			return nil, fmt.Errorf("migration %d defined as both SQL and Go", version)
		}
		byVersion[version] = m
	}

	out := make([]Migration, 0, len(byVersion))
	for _, m := range byVersion {
		out = append(out, m)
	}
	slices.SortFunc(out, func(a, b Migration) int { return a.Version - b.Version })
	return out, nil
}

// appliedVersions splits recorded versions into clean and dirty ones.
func appliedVersions(ctx context.Context, db *sql.DB) (map[int]bool, []int, error) {
	rows, err := db.QueryContext(ctx, "SELECT version, COALESCE(dirty, 0) FROM migrations ORDER BY version")
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	applied := make(map[int]bool)
	var dirty []int
	for rows.Next() {
		var version int
		var isDirty bool
		if err := rows.Scan(&version, &isDirty); err != nil {
			return nil, nil, err
		}
		if isDirty {
			dirty = append(dirty, version)
		} else {
			applied[version] = true
		}
	}
	return applied, dirty, rows.Err()
}

// extractVersion reads the numeric prefix of "012_name.up.sql"; 0 means none.
func extractVersion(filename string) int {
	var version int
	_, _ = fmt.Sscanf(filename, "%d_", &version)
	return version
}
