// Package shell connects the core to the GUI shell over newline-delimited JSON on stdio.
// The shell sends command requests and UI events, the bridge answers requests and forwards
// tray and notification events back.
package shell

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"

	log "github.com/go-pkgz/lgr"
	"github.com/go-pkgz/syncs"

	"github.com/gotnoklu/crane/app/tray"
)

// maxLineSize limits a single inbound message
const maxLineSize = 1024 * 1024

// Invoker runs a named command
type Invoker interface {
	Invoke(ctx context.Context, name string, args json.RawMessage) (any, error)
}

// Bridge serves the shell. It's also the tray presenter for the startup sequence,
// so it's made before the store is ready and gets Invoker and Events afterwards.
type Bridge struct {
	Invoker     Invoker
	Events      <-chan tray.Event
	Concurrency int    // max concurrent commands, 4 if not set
	MainWindow  string // window focused on tray click, tray.MainWindow if empty

	out   io.Writer
	outMu sync.Mutex

	trayMu sync.RWMutex
	tray   *tray.Tray

	inflight *inflight
}

// inbound is either a command request (Cmd set) or a UI event (UI set)
type inbound struct {
	ID   int64           `json:"id"`
	Cmd  string          `json:"cmd"`
	Args json.RawMessage `json:"args"`

	UI   string `json:"ui"`
	Item string `json:"item"`
	tray.Click
}

type response struct {
	ID     int64 `json:"id"`
	Result any   `json:"result"`
}

type errResponse struct {
	ID    int64  `json:"id"`
	Error string `json:"error"`
}

type trayAnnounce struct {
	Event string    `json:"event"`
	Menu  tray.Menu `json:"menu"`
}

// New makes bridge writing to out
func New(out io.Writer) *Bridge {
	return &Bridge{out: out, inflight: newInflight()}
}

// Install announces the tray menu to the shell and keeps the tray for UI events
func (b *Bridge) Install(t *tray.Tray) error {
	if b.MainWindow != "" {
		t.Window = b.MainWindow
	}
	if err := b.write(trayAnnounce{Event: "tray", Menu: t.Menu}); err != nil {
		return fmt.Errorf("failed to announce tray: %w", err)
	}
	b.trayMu.Lock()
	b.tray = t
	b.trayMu.Unlock()
	return nil
}

// Run reads messages from r until end of input, quit event or context cancellation.
// Commands run concurrently, responses may come out of order and are matched by id.
func (b *Bridge) Run(ctx context.Context, r io.Reader) error {
	if b.Invoker == nil {
		return fmt.Errorf("no command invoker set")
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	lines := make(chan []byte)
	readErr := make(chan error, 1)
	go b.readLines(ctx, r, lines, readErr)

	// no group context, a request accepted into inflight is always answered, with ctx error if canceled
	gr := syncs.NewSizedGroup(b.concurrency(), syncs.Preemptive)
	log.Printf("[INFO] bridge started, concurrency %d", b.concurrency())

	var err error
loop:
	for {
		select {
		case <-ctx.Done():
			err = ctx.Err()
			break loop
		case line, ok := <-lines:
			if !ok {
				err = <-readErr
				log.Printf("[INFO] end of input")
				break loop
			}
			b.handleLine(ctx, gr, line)
		case ev := <-b.Events:
			if e := b.write(ev); e != nil {
				log.Printf("[WARN] failed to send %s event, %v", ev.Type, e)
			}
			if ev.Type == tray.EventQuit {
				log.Printf("[INFO] quit requested")
				break loop
			}
		}
	}

	gr.Wait()
	if n := b.inflight.len(); n > 0 {
		log.Printf("[WARN] %d requests left unanswered", n)
	}
	b.drainEvents()
	return err
}

func (b *Bridge) readLines(ctx context.Context, r io.Reader, lines chan<- []byte, readErr chan<- error) {
	defer close(lines)
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxLineSize)
	for scanner.Scan() {
		line := append([]byte(nil), scanner.Bytes()...)
		if len(line) == 0 {
			continue
		}
		select {
		case lines <- line:
		case <-ctx.Done():
			readErr <- nil
			return
		}
	}
	if err := scanner.Err(); err != nil {
		readErr <- fmt.Errorf("failed to read input: %w", err)
		return
	}
	readErr <- nil
}

func (b *Bridge) handleLine(ctx context.Context, gr *syncs.SizedGroup, line []byte) {
	var msg inbound
	if err := json.Unmarshal(line, &msg); err != nil {
		log.Printf("[WARN] malformed message %q, %v", string(line), err)
		b.reply(errResponse{Error: "malformed message"})
		return
	}

	switch {
	case msg.Cmd != "":
		if !b.inflight.add(msg.ID) {
			log.Printf("[WARN] request %d is already in progress, %s rejected", msg.ID, msg.Cmd)
			b.reply(errResponse{ID: msg.ID, Error: "duplicate request id"})
			return
		}
		gr.Go(func(context.Context) {
			res, err := b.Invoker.Invoke(ctx, msg.Cmd, msg.Args)
			log.Printf("[DEBUG] request %d %s done in %v", msg.ID, msg.Cmd, b.inflight.remove(msg.ID))
			if err != nil {
				b.reply(errResponse{ID: msg.ID, Error: err.Error()})
				return
			}
			b.reply(response{ID: msg.ID, Result: res})
		})
	case msg.UI != "":
		b.handleUI(msg)
	default:
		log.Printf("[WARN] message %d has neither cmd nor ui", msg.ID)
		b.reply(errResponse{ID: msg.ID, Error: "unknown message"})
	}
}

func (b *Bridge) handleUI(msg inbound) {
	b.trayMu.RLock()
	t := b.tray
	b.trayMu.RUnlock()
	if t == nil {
		log.Printf("[DEBUG] ui %s event ignored, no tray", msg.UI)
		return
	}
	switch msg.UI {
	case "menu":
		t.OnMenuEvent(msg.Item)
	case "click":
		t.OnIconEvent(msg.Click)
	default:
		log.Printf("[DEBUG] unknown ui event %q", msg.UI)
	}
}

// drainEvents writes events left in the channel, e.g. notices published by the last commands
func (b *Bridge) drainEvents() {
	for {
		select {
		case ev := <-b.Events:
			if ev.Type == tray.EventQuit {
				continue
			}
			if err := b.write(ev); err != nil {
				log.Printf("[WARN] failed to send %s event, %v", ev.Type, err)
			}
		default:
			return
		}
	}
}

func (b *Bridge) reply(v any) {
	if err := b.write(v); err != nil {
		log.Printf("[WARN] failed to send response, %v", err)
	}
}

// write sends a single JSON line, safe for concurrent use
func (b *Bridge) write(v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal %T: %w", v, err)
	}
	data = append(data, '\n')
	b.outMu.Lock()
	defer b.outMu.Unlock()
	if _, err := b.out.Write(data); err != nil {
		return fmt.Errorf("failed to write: %w", err)
	}
	return nil
}

func (b *Bridge) concurrency() int {
	if b.Concurrency <= 0 {
		return 4
	}
	return b.Concurrency
}
