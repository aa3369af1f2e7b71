package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	log "github.com/go-pkgz/lgr"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite" // sqlite driver

	"github.com/gotnoklu/crane/app/store/enums"
)

// DefaultFileName is the store file name inside the data directory
const DefaultFileName = "crane_app.db"

// timeFormat is used for all stored timestamps, matches strftime('%Y-%m-%dT%H:%M:%fZ')
const timeFormat = "2006-01-02T15:04:05.000Z"

// Config defines how the pool is opened
type Config struct {
	DataDir     string           // directory holding the store file, created if missing
	FileName    string           // store file name, DefaultFileName if empty
	MaxConns    int              // max open connections, 4 if not set
	BusyTimeout time.Duration    // how long a writer waits for the lock, 5s if not set
	Clock       func() time.Time // source of created_at/modified_at, time.Now if nil
}

// Pool is a shared handle to the store, safe for concurrent use by all repositories
type Pool struct {
	db   *sqlx.DB
	path string
	dsn  string
	now  func() time.Time
}

// Open resolves the store file in cfg.DataDir, creates the directory and the file if needed
// and opens a pool with WAL journaling and foreign keys enabled on every connection.
func Open(ctx context.Context, cfg Config) (*Pool, error) {
	cfg = cfg.withDefaults()
	if cfg.DataDir == "" {
		return nil, fmt.Errorf("%w: data directory not set", ErrIO)
	}

	if err := os.MkdirAll(cfg.DataDir, 0o700); err != nil {
		return nil, fmt.Errorf("%w: can't create data directory %s: %w", ErrIO, cfg.DataDir, err)
	}

	path, err := filepath.Abs(filepath.Join(cfg.DataDir, cfg.FileName))
	if err != nil {
		return nil, fmt.Errorf("%w: can't resolve store path: %w", ErrIO, err)
	}

	// pragmas in DSN are applied by the driver to each new connection
	source := fmt.Sprintf("%s?_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)&_pragma=busy_timeout(%d)",
		path, cfg.BusyTimeout.Milliseconds())

	db, err := sqlx.Open("sqlite", source)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open %s: %w", ErrStoreOpen, path, err)
	}
	db.SetMaxOpenConns(cfg.MaxConns)
	db.SetMaxIdleConns(cfg.MaxConns)

	var mode string
	if err := db.GetContext(ctx, &mode, "PRAGMA journal_mode"); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			log.Printf("[WARN] failed to close %s, %v", path, closeErr)
		}
		return nil, fmt.Errorf("%w: failed to connect to %s: %w", ErrStoreOpen, path, err)
	}

	res := &Pool{db: db, path: path, dsn: "sqlite://" + path, now: cfg.Clock}
	log.Printf("[INFO] store opened %s, journal mode %s, max connections %d", path, mode, cfg.MaxConns)
	return res, nil
}

// DSN returns the connection string of the store, for external tooling
func (p *Pool) DSN() string { return p.dsn }

// Path returns the absolute path of the store file
func (p *Pool) Path() string { return p.path }

// Close closes all connections
func (p *Pool) Close() error {
	if err := p.db.Close(); err != nil {
		return fmt.Errorf("failed to close store: %w", err)
	}
	return nil
}

// stamp returns the current time in stored format
func (p *Pool) stamp() string {
	return p.now().UTC().Format(timeFormat)
}

func (c Config) withDefaults() Config {
	if c.FileName == "" {
		c.FileName = DefaultFileName
	}
	if c.MaxConns <= 0 {
		c.MaxConns = 4
	}
	if c.BusyTimeout <= 0 {
		c.BusyTimeout = 5 * time.Second
	}
	if c.Clock == nil {
		c.Clock = time.Now
	}
	return c
}

// outcome converts affected rows of a write to enums.Outcome
func outcome(res sql.Result) (enums.Outcome, error) {
	n, err := res.RowsAffected()
	if err != nil {
		return enums.NotFound, fmt.Errorf("can't get affected rows: %w", err)
	}
	return enums.OutcomeOf(n), nil
}
