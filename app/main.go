package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"syscall"
	"time"

	log "github.com/go-pkgz/lgr"
	"github.com/go-pkgz/repeater"
	"github.com/go-pkgz/repeater/strategy"
	"github.com/umputun/go-flags"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/gotnoklu/crane/app/bootstrap"
	"github.com/gotnoklu/crane/app/command"
	"github.com/gotnoklu/crane/app/shell"
	"github.com/gotnoklu/crane/app/store"
)

var opts struct {
	DataDir     string        `short:"d" long:"data-dir" env:"CRANE_DATA_DIR" description:"data directory, <user config dir>/crane if not set"`
	DBFile      string        `long:"db-file" env:"CRANE_DB_FILE" default:"crane_app.db" description:"store file name"`
	MaxConns    int           `long:"max-conns" env:"CRANE_MAX_CONNS" default:"4" description:"max open store connections"`
	BusyTimeout time.Duration `long:"busy-timeout" env:"CRANE_BUSY_TIMEOUT" default:"5s" description:"store write lock timeout"`
	Concurrency int           `long:"concurrency" env:"CRANE_CONCURRENCY" default:"4" description:"max concurrent commands"`
	MainWindow  string        `long:"main-window" env:"CRANE_MAIN_WINDOW" default:"main" description:"window focused on tray click"`
	Schema      bool          `long:"schema" description:"print json schema of command arguments and exit"`
	DSN         bool          `long:"dsn" description:"print store connection string and exit"`
	Dbg         bool          `long:"dbg" env:"CRANE_DEBUG" description:"debug mode"`

	Log struct {
		Enabled         bool   `long:"enabled" env:"ENABLED" description:"enable logging"`
		Filename        string `long:"filename" env:"FILENAME" description:"file to write logs to, stderr if not set"`
		MaxSize         int    `long:"max-size" env:"MAX_SIZE" default:"100" description:"max log file size in megabytes"`
		MaxBackups      int    `long:"max-backups" env:"MAX_BACKUPS" default:"7" description:"max number of old log files"`
		MaxAge          int    `long:"max-age" env:"MAX_AGE" default:"30" description:"max days to keep old log files"`
		EnabledCompress bool   `long:"enabled-compress" env:"ENABLED_COMPRESS" description:"compress rotated log files"`
	} `group:"log" namespace:"log" env-namespace:"CRANE_LOG"`

	Open struct {
		Attempts int           `long:"attempts" env:"ATTEMPTS" default:"1" description:"how many times to try opening the store"`
		Duration time.Duration `long:"duration" env:"DURATION" default:"100ms" description:"initial delay between attempts"`
		Factor   float64       `long:"factor" env:"FACTOR" default:"2" description:"backoff factor"`
		Jitter   bool          `long:"jitter" env:"JITTER" description:"jitter"`
	} `group:"open" namespace:"open" env-namespace:"CRANE_OPEN"`
}

var revision = "unknown"

func main() {
	if _, err := flags.Parse(&opts); err != nil {
		os.Exit(2)
	}
	setupLogs()
	log.Printf("[INFO] crane %s", revision)

	if opts.Schema {
		if err := printSchema(os.Stdout); err != nil {
			log.Fatalf("[ERROR] %v", err)
		}
		return
	}

	defer func() {
		if x := recover(); x != nil {
			log.Printf("[WARN] run time panic:\n%v", x)
			panic(x)
		}
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	signals(cancel) // handle SIGQUIT, SIGINT and SIGTERM

	if err := run(ctx, os.Stdin, os.Stdout); err != nil {
		log.Fatalf("[ERROR] %v", err)
	}
	log.Printf("[INFO] crane stopped")
}

// run performs startup and serves the shell on in/out until quit or end of input
func run(ctx context.Context, in io.Reader, out io.Writer) error {
	cfg, err := storeConfig()
	if err != nil {
		return err
	}

	if opts.DSN {
		pool, openErr := store.Open(ctx, cfg)
		if openErr != nil {
			return openErr
		}
		defer pool.Close()
		_, err = fmt.Fprintln(out, pool.DSN())
		return err
	}

	bridge := shell.New(out)
	bridge.Concurrency = opts.Concurrency
	bridge.MainWindow = opts.MainWindow

	seq := bootstrap.Sequencer{Store: cfg, Presenter: bridge, Repeater: makeRepeater()}
	app, err := seq.Run(ctx)
	if err != nil {
		return fmt.Errorf("startup failed: %w", err)
	}
	defer func() {
		if err := app.Close(); err != nil {
			log.Printf("[WARN] %v", err)
		}
	}()

	bridge.Invoker = &command.Dispatcher{
		Workspaces:   app.Workspaces,
		Chronographs: app.Chronographs,
		Settings:     app.Settings,
		Events:       app.Events,
	}
	bridge.Events = app.Events

	if err := bridge.Run(ctx, in); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("bridge failed: %w", err)
	}
	return nil
}

func storeConfig() (store.Config, error) {
	dir := opts.DataDir
	if dir == "" {
		confDir, err := os.UserConfigDir()
		if err != nil {
			return store.Config{}, fmt.Errorf("can't detect data directory, set --data-dir: %w", err)
		}
		dir = filepath.Join(confDir, "crane")
	}
	return store.Config{DataDir: dir, FileName: opts.DBFile, MaxConns: opts.MaxConns, BusyTimeout: opts.BusyTimeout}, nil
}

func makeRepeater() *repeater.Repeater {
	attempts := opts.Open.Attempts
	if attempts < 1 {
		attempts = 1
	}
	return repeater.New(&strategy.Backoff{Repeats: attempts, Duration: opts.Open.Duration,
		Factor: opts.Open.Factor, Jitter: opts.Open.Jitter})
}

func printSchema(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(command.Schema()); err != nil {
		return fmt.Errorf("failed to write schema: %w", err)
	}
	return nil
}

// setupLogs configures lgr and returns the log destination. Stdout is reserved for the shell bridge.
func setupLogs() io.Writer {
	if !opts.Log.Enabled {
		log.Setup(log.Out(io.Discard), log.Err(io.Discard))
		return io.Discard
	}

	var out io.Writer = os.Stderr
	if opts.Log.Filename != "" {
		out = &lumberjack.Logger{
			Filename:   opts.Log.Filename,
			MaxSize:    opts.Log.MaxSize,
			MaxBackups: opts.Log.MaxBackups,
			MaxAge:     opts.Log.MaxAge,
			Compress:   opts.Log.EnabledCompress,
		}
	}

	logOpts := []log.Option{log.Msec, log.Out(out), log.Err(out)}
	if opts.Dbg {
		logOpts = append(logOpts, log.Debug, log.CallerFunc, log.CallerPkg, log.CallerFile)
	}
	log.Setup(logOpts...)
	return out
}

func signals(cancel context.CancelFunc) {
	sigChan := make(chan os.Signal, 1)
	go func() {
		stacktrace := make([]byte, 8192)
		for sig := range sigChan {
			if sig == syscall.SIGQUIT { // catch SIGQUIT and print stack traces
				length := runtime.Stack(stacktrace, true)
				fmt.Fprintln(os.Stderr, string(stacktrace[:length]))
				continue
			}
			log.Printf("[INFO] %s received", sig)
			cancel() // terminate on SIGINT and SIGTERM
		}
	}()
	signal.Notify(sigChan, syscall.SIGQUIT, syscall.SIGINT, syscall.SIGTERM)
}
