// Package bootstrap sequences application startup: open the store, apply migrations, load user
// settings and, if enabled in settings, build the system tray. Nothing is served until Run returns
// an App in Ready state; any failure is fatal for the startup.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"sync"

	log "github.com/go-pkgz/lgr"

	"github.com/gotnoklu/crane/app/store"
	"github.com/gotnoklu/crane/app/tray"
)

//go:generate moq -out mocks/presenter.go -pkg mocks -skip-ensure -fmt goimports . TrayPresenter

// State of the startup sequence
type State int

// startup states, Failed is reachable from any state and terminal, as is Ready
const (
	Uninitialized State = iota
	PoolOpen
	Migrated
	SettingsLoaded
	Ready
	Failed
)

var stateNames = []string{"uninitialized", "pool-open", "migrated", "settings-loaded", "ready", "failed"}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return fmt.Sprintf("state(%d)", int(s))
	}
	return stateNames[s]
}

// TrayPresenter shows the tray built by the sequencer, implemented by the GUI shell adapter
type TrayPresenter interface {
	Install(t *tray.Tray) error
}

// Repeater repeats failed function
type Repeater interface {
	Do(ctx context.Context, fun func() error, errors ...error) (err error)
}

// Sequencer runs the startup sequence once
type Sequencer struct {
	Store        store.Config
	Presenter    TrayPresenter // receives the tray if enabled in settings
	Repeater     Repeater      // wraps store opening, single attempt if nil
	EventsBuffer int           // size of the events channel, 16 if not set

	mu    sync.Mutex
	state State
}

// App is the result of a completed startup
type App struct {
	Pool         *store.Pool
	Workspaces   *store.Workspaces
	Chronographs *store.Chronographs
	Settings     *store.Settings
	UserSettings store.UserSettings // settings loaded at startup
	Tray         *tray.Tray         // nil if tray disabled
	Events       chan tray.Event    // tray and notification events for the shell adapter
}

// Close releases the store
func (a *App) Close() error {
	return a.Pool.Close()
}

// State returns the current state of the sequence
func (s *Sequencer) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Run performs the startup sequence. On error the sequencer moves to Failed and the opened pool, if any,
// is closed.
func (s *Sequencer) Run(ctx context.Context) (app *App, err error) {
	if st := s.State(); st != Uninitialized {
		return nil, fmt.Errorf("startup already performed, state %s", st)
	}

	var pool *store.Pool
	defer func() {
		if err == nil {
			return
		}
		log.Printf("[ERROR] startup failed in %s state, %v", s.State(), err)
		s.moveTo(Failed)
		if pool != nil {
			if closeErr := pool.Close(); closeErr != nil {
				log.Printf("[WARN] %v", closeErr)
			}
		}
	}()

	openFn := func() error {
		var e error
		pool, e = store.Open(ctx, s.Store)
		return e
	}
	if s.Repeater != nil {
		err = s.Repeater.Do(ctx, openFn)
	} else {
		err = openFn()
	}
	if err != nil {
		return nil, err
	}
	log.Printf("[INFO] store connection %s", pool.DSN())
	s.moveTo(PoolOpen)

	if err = store.Migrate(ctx, pool); err != nil {
		return nil, err
	}
	s.moveTo(Migrated)

	app = &App{
		Pool:         pool,
		Workspaces:   store.NewWorkspaces(pool),
		Chronographs: store.NewChronographs(pool),
		Settings:     store.NewSettings(pool),
		Events:       make(chan tray.Event, s.eventsBuffer()),
	}

	if app.UserSettings, err = app.Settings.Fetch(ctx); err != nil {
		if errors.Is(err, store.ErrSettingsMissing) {
			err = fmt.Errorf("settings row is not seeded: %w", err)
		}
		return nil, err
	}
	s.moveTo(SettingsLoaded)

	if app.UserSettings.ShowAppInSystemTray {
		if err = s.installTray(app); err != nil {
			return nil, err
		}
	}
	s.moveTo(Ready)
	return app, nil
}

func (s *Sequencer) installTray(app *App) error {
	app.Tray = tray.New(app.Events)
	if s.Presenter == nil {
		log.Printf("[WARN] tray enabled in settings, but no tray presenter set")
		return nil
	}
	if err := s.Presenter.Install(app.Tray); err != nil {
		return fmt.Errorf("failed to add app to tray: %w", err)
	}
	log.Printf("[INFO] tray installed with %d menu items", len(app.Tray.Menu))
	return nil
}

func (s *Sequencer) moveTo(st State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	log.Printf("[DEBUG] startup %s -> %s", s.state, st)
	s.state = st
}

func (s *Sequencer) eventsBuffer() int {
	if s.EventsBuffer <= 0 {
		return 16
	}
	return s.EventsBuffer
}
