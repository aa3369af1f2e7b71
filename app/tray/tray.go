// Package tray models the system tray presence. The tray itself is drawn by the GUI shell;
// this package keeps the menu definition and the handlers translating shell UI events
// into Event values published on a channel, so the core never deals with UI callbacks.
package tray

import (
	log "github.com/go-pkgz/lgr"
)

// menu item ids
const (
	ItemHide = "hide"
	ItemQuit = "quit"
)

// MainWindow is the name of the top-level window focused on tray click
const MainWindow = "main"

// EventType enumerates events published for the shell adapter
type EventType string

// event types
const (
	EventHideWindows   EventType = "hide_windows"   // close all open windows
	EventQuit          EventType = "quit"           // terminate the process
	EventFocusWindow   EventType = "focus_window"   // show and focus Window
	EventTimerComplete EventType = "timer_complete" // timer Name reached completion
)

// Event is a directive for the shell adapter
type Event struct {
	Type   EventType `json:"event"`
	Window string    `json:"window,omitempty"`
	Name   string    `json:"name,omitempty"`
}

// Item is a single tray menu entry
type Item struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// Menu is an ordered list of tray menu entries
type Menu []Item

// DefaultMenu returns hide/quit menu
func DefaultMenu() Menu {
	return Menu{{ID: ItemHide, Label: "Hide Windows"}, {ID: ItemQuit, Label: "Quit"}}
}

// Button is a mouse button reported with a tray click
type Button string

// ButtonState is the state of the button reported with a tray click
type ButtonState string

// buttons and states
const (
	ButtonLeft   Button      = "left"
	ButtonRight  Button      = "right"
	ButtonMiddle Button      = "middle"
	ButtonUp     ButtonState = "up"
	ButtonDown   ButtonState = "down"
)

// Click is a tray icon click reported by the shell
type Click struct {
	Button Button      `json:"button"`
	State  ButtonState `json:"state"`
}

// Tray holds the menu and publishes events triggered by menu and icon handlers
type Tray struct {
	Menu   Menu
	Window string // window focused on click, MainWindow by default
	events chan<- Event
}

// New makes Tray with the default menu publishing to events
func New(events chan<- Event) *Tray {
	return &Tray{Menu: DefaultMenu(), Window: MainWindow, events: events}
}

// OnMenuEvent handles activation of the menu item id
func (t *Tray) OnMenuEvent(id string) {
	switch id {
	case ItemHide:
		Publish(t.events, Event{Type: EventHideWindows})
	case ItemQuit:
		Publish(t.events, Event{Type: EventQuit})
	default:
		log.Printf("[DEBUG] unknown tray menu item %q", id)
	}
}

// OnIconEvent handles a click on the tray icon. Only left button release focuses the window.
func (t *Tray) OnIconEvent(c Click) {
	if c.Button != ButtonLeft || c.State != ButtonUp {
		return
	}
	Publish(t.events, Event{Type: EventFocusWindow, Window: t.Window})
}

// Publish sends event without blocking, drops it if the channel is full
func Publish(ch chan<- Event, e Event) {
	if ch == nil {
		return
	}
	select {
	case ch <- e:
	default:
		log.Printf("[WARN] event channel full, dropping %s event", e.Type)
	}
}
