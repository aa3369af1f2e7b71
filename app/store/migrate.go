package store

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	log "github.com/go-pkgz/lgr"
	"github.com/jmoiron/sqlx"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Migration is a ledger record of an applied schema change
type Migration struct {
	Version   int    `db:"version"`
	Name      string `db:"name"`
	AppliedAt string `db:"applied_at"`
}

type migrationFile struct {
	version int
	name    string
	file    string
}

// Migrate applies all pending embedded migrations in version order. Applied versions are tracked
// in schema_migrations, so calling it on every start is a no-op once the ledger is current.
func Migrate(ctx context.Context, pool *Pool) error {
	return migrate(ctx, pool, migrationsFS)
}

// AppliedMigrations returns the ledger ordered by version
func AppliedMigrations(ctx context.Context, pool *Pool) ([]Migration, error) {
	res := []Migration{}
	if err := pool.db.SelectContext(ctx, &res,
		"SELECT version, name, applied_at FROM schema_migrations ORDER BY version"); err != nil {
		return nil, fmt.Errorf("failed to load migrations ledger: %w", err)
	}
	return res, nil
}

func migrate(ctx context.Context, pool *Pool, fsys fs.FS) error {
	_, err := pool.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			applied_at TEXT NOT NULL
		)`)
	if err != nil {
		return fmt.Errorf("%w: can't create ledger: %w", ErrMigration, err)
	}

	files, err := listMigrations(fsys)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrMigration, err)
	}

	applied := []int{}
	if err = pool.db.SelectContext(ctx, &applied, "SELECT version FROM schema_migrations"); err != nil {
		return fmt.Errorf("%w: can't read ledger: %w", ErrMigration, err)
	}
	done := make(map[int]bool, len(applied))
	for _, v := range applied {
		done[v] = true
	}

	count := 0
	for _, m := range files {
		if done[m.version] {
			continue
		}
		if err := applyMigration(ctx, pool, fsys, m); err != nil {
			return fmt.Errorf("%w: %s: %w", ErrMigration, m.file, err)
		}
		log.Printf("[INFO] applied migration %d %s", m.version, m.name)
		count++
	}
	log.Printf("[DEBUG] migrations complete, %d applied, %d total", count, len(files))
	return nil
}

// applyMigration runs migration body and its ledger record in a single transaction
func applyMigration(ctx context.Context, pool *Pool, fsys fs.FS, m migrationFile) error {
	body, err := fs.ReadFile(fsys, m.file)
	if err != nil {
		return fmt.Errorf("can't read: %w", err)
	}

	tx, err := pool.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() // nolint

	if _, err = tx.ExecContext(ctx, string(body)); err != nil {
		return fmt.Errorf("failed to execute: %w", err)
	}
	if err = recordMigration(ctx, tx, m, pool.stamp()); err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}
	return nil
}

func recordMigration(ctx context.Context, tx *sqlx.Tx, m migrationFile, appliedAt string) error {
	_, err := tx.NamedExecContext(ctx,
		"INSERT INTO schema_migrations (version, name, applied_at) VALUES (:version, :name, :applied_at)",
		Migration{Version: m.version, Name: m.name, AppliedAt: appliedAt})
	if err != nil {
		return fmt.Errorf("failed to record version %d: %w", m.version, err)
	}
	return nil
}

// listMigrations finds migrations/NNNN_name.sql files, sorted by version
func listMigrations(fsys fs.FS) ([]migrationFile, error) {
	names, err := fs.Glob(fsys, "migrations/*.sql")
	if err != nil {
		return nil, fmt.Errorf("can't list migrations: %w", err)
	}

	res := make([]migrationFile, 0, len(names))
	seen := map[int]string{}
	for _, file := range names {
		base := strings.TrimSuffix(path.Base(file), ".sql")
		var version int
		if _, err := fmt.Sscanf(base, "%d_", &version); err != nil || version <= 0 {
			return nil, fmt.Errorf("bad migration file name %s", file)
		}
		if prev, ok := seen[version]; ok {
			return nil, fmt.Errorf("duplicate migration version %d in %s and %s", version, prev, file)
		}
		seen[version] = file
		_, name, _ := strings.Cut(base, "_")
		res = append(res, migrationFile{version: version, name: name, file: file})
	}

	sort.Slice(res, func(i, j int) bool { return res[i].version < res[j].version })
	return res, nil
}
