// Package command implements the named commands invoked by the GUI shell. Each command decodes
// its arguments, calls the store and returns a record, a list or a bool. Any fault is reported to the
// shell as ErrInvocation, the cause is logged only.
package command

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	log "github.com/go-pkgz/lgr"

	"github.com/gotnoklu/crane/app/store"
	"github.com/gotnoklu/crane/app/store/enums"
	"github.com/gotnoklu/crane/app/tray"
)

// ErrInvocation is the only error the shell sees
var ErrInvocation = errors.New("command invocation failed")

// WorkspaceStore is the workspace repository used by commands
type WorkspaceStore interface {
	List(ctx context.Context) ([]store.Workspace, error)
	Current(ctx context.Context) (store.Workspace, error)
	Create(ctx context.Context, in store.WorkspaceInput) (enums.Outcome, error)
	Update(ctx context.Context, id int64, in store.WorkspaceInput) (enums.Outcome, error)
	Delete(ctx context.Context, id int64) (enums.Outcome, error)
}

// ChronographStore is the chronograph repository used by commands
type ChronographStore interface {
	List(ctx context.Context, workspaceID int64, kind enums.Kind) ([]store.Chronograph, error)
	Create(ctx context.Context, in store.ChronographInput) (enums.Outcome, error)
	Update(ctx context.Context, id, workspaceID int64, in store.ChronographUpdateInput) (enums.Outcome, error)
	Transition(ctx context.Context, id, workspaceID int64, in store.ChronographUpdateInput) (enums.Outcome, bool, error)
	Delete(ctx context.Context, workspaceID, id int64) (enums.Outcome, error)
}

// SettingsStore is the settings repository used by commands
type SettingsStore interface {
	Fetch(ctx context.Context) (store.UserSettings, error)
	Update(ctx context.Context, in store.SettingsInput) (enums.Outcome, error)
}

// Dispatcher routes named commands to repositories
type Dispatcher struct {
	Workspaces   WorkspaceStore
	Chronographs ChronographStore
	Settings     SettingsStore
	Events       chan<- tray.Event // timer completion notices, optional
}

type handler func(d *Dispatcher, ctx context.Context, args json.RawMessage) (any, error)

// command arguments, field names follow the shell's snake_case
type (
	// NoArgs is accepted by fetch commands
	NoArgs struct{}

	// AddWorkspaceArgs for add_workspace
	AddWorkspaceArgs struct {
		Workspace store.WorkspaceInput `json:"workspace"`
	}

	// UpdateWorkspaceArgs for update_workspace
	UpdateWorkspaceArgs struct {
		ID        int64               `json:"id"`
		Workspace store.WorkspaceInput `json:"workspace"`
	}

	// DeleteWorkspaceArgs for delete_workspace
	DeleteWorkspaceArgs struct {
		ID int64 `json:"id"`
	}

	// FetchChronographsArgs for fetch_all_chronographs
	FetchChronographsArgs struct {
		WorkspaceID int64      `json:"workspace_id"`
		Kind        enums.Kind `json:"kind"`
	}

	// AddChronographArgs for add_chronograph
	AddChronographArgs struct {
		Chronograph store.ChronographInput `json:"chronograph"`
	}

	// UpdateChronographArgs for update_chronograph
	UpdateChronographArgs struct {
		ID          int64                        `json:"id"`
		WorkspaceID int64                        `json:"workspace_id"`
		Chronograph store.ChronographUpdateInput `json:"chronograph"`
	}

	// DeleteChronographArgs for delete_chronograph
	DeleteChronographArgs struct {
		WorkspaceID int64 `json:"workspace_id"`
		ID          int64 `json:"id"`
	}

	// UpdateSettingsArgs for update_user_settings
	UpdateSettingsArgs struct {
		Settings store.SettingsInput `json:"settings"`
	}
)

type command struct {
	args   any // zero value of the arguments type, used for schema
	handle handler
}

var commands = map[string]command{
	"fetch_all_workspaces":    {NoArgs{}, (*Dispatcher).fetchAllWorkspaces},
	"fetch_current_workspace": {NoArgs{}, (*Dispatcher).fetchCurrentWorkspace},
	"add_workspace":           {AddWorkspaceArgs{}, (*Dispatcher).addWorkspace},
	"update_workspace":        {UpdateWorkspaceArgs{}, (*Dispatcher).updateWorkspace},
	"delete_workspace":        {DeleteWorkspaceArgs{}, (*Dispatcher).deleteWorkspace},
	"fetch_all_chronographs":  {FetchChronographsArgs{}, (*Dispatcher).fetchAllChronographs},
	"add_chronograph":         {AddChronographArgs{}, (*Dispatcher).addChronograph},
	"update_chronograph":      {UpdateChronographArgs{}, (*Dispatcher).updateChronograph},
	"delete_chronograph":      {DeleteChronographArgs{}, (*Dispatcher).deleteChronograph},
	"fetch_user_settings":     {NoArgs{}, (*Dispatcher).fetchUserSettings},
	"update_user_settings":    {UpdateSettingsArgs{}, (*Dispatcher).updateUserSettings},
}

// Names returns all command names, sorted
func Names() []string {
	res := make([]string, 0, len(commands))
	for name := range commands {
		res = append(res, name)
	}
	sort.Strings(res)
	return res
}

// Invoke runs the named command with JSON encoded args. Mutating commands return a bool,
// false means no row matched. All failures are ErrInvocation.
func (d *Dispatcher) Invoke(ctx context.Context, name string, args json.RawMessage) (any, error) {
	cmd, ok := commands[name]
	if !ok {
		log.Printf("[WARN] unknown command %q", name)
		return nil, ErrInvocation
	}
	res, err := cmd.handle(d, ctx, args)
	if err != nil {
		log.Printf("[WARN] command %s failed, %v", name, err)
		return nil, ErrInvocation
	}
	log.Printf("[DEBUG] command %s completed", name)
	return res, nil
}

func (d *Dispatcher) fetchAllWorkspaces(ctx context.Context, _ json.RawMessage) (any, error) {
	return d.Workspaces.List(ctx)
}

// fetchCurrentWorkspace returns nil result if nothing is selected, it's not a fault
func (d *Dispatcher) fetchCurrentWorkspace(ctx context.Context, _ json.RawMessage) (any, error) {
	ws, err := d.Workspaces.Current(ctx)
	if errors.Is(err, store.ErrNoSelection) {
		log.Printf("[DEBUG] no workspace selected")
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return ws, nil
}

func (d *Dispatcher) addWorkspace(ctx context.Context, raw json.RawMessage) (any, error) {
	var args AddWorkspaceArgs
	if err := decode(raw, &args); err != nil {
		return nil, err
	}
	return applied(d.Workspaces.Create(ctx, args.Workspace))
}

func (d *Dispatcher) updateWorkspace(ctx context.Context, raw json.RawMessage) (any, error) {
	var args UpdateWorkspaceArgs
	if err := decode(raw, &args); err != nil {
		return nil, err
	}
	return applied(d.Workspaces.Update(ctx, args.ID, args.Workspace))
}

func (d *Dispatcher) deleteWorkspace(ctx context.Context, raw json.RawMessage) (any, error) {
	var args DeleteWorkspaceArgs
	if err := decode(raw, &args); err != nil {
		return nil, err
	}
	return applied(d.Workspaces.Delete(ctx, args.ID))
}

func (d *Dispatcher) fetchAllChronographs(ctx context.Context, raw json.RawMessage) (any, error) {
	var args FetchChronographsArgs
	if err := decode(raw, &args); err != nil {
		return nil, err
	}
	if !args.Kind.Valid() {
		return nil, fmt.Errorf("%w: kind is required", store.ErrInvalidInput)
	}
	return d.Chronographs.List(ctx, args.WorkspaceID, args.Kind)
}

func (d *Dispatcher) addChronograph(ctx context.Context, raw json.RawMessage) (any, error) {
	var args AddChronographArgs
	if err := decode(raw, &args); err != nil {
		return nil, err
	}
	return applied(d.Chronographs.Create(ctx, args.Chronograph))
}

// updateChronograph publishes timer completion notice if this update moved the timer to completed state
// and notifications are enabled in settings
func (d *Dispatcher) updateChronograph(ctx context.Context, raw json.RawMessage) (any, error) {
	var args UpdateChronographArgs
	if err := decode(raw, &args); err != nil {
		return nil, err
	}

	completing := args.Chronograph.Kind == enums.KindTimer && args.Chronograph.State == enums.StateCompleted
	if !completing || d.Events == nil {
		return applied(d.Chronographs.Update(ctx, args.ID, args.WorkspaceID, args.Chronograph))
	}

	res, entered, err := d.Chronographs.Transition(ctx, args.ID, args.WorkspaceID, args.Chronograph)
	if err != nil {
		return nil, err
	}
	if entered {
		d.notifyCompleted(ctx, args.Chronograph.Name)
	}
	return res.Applied(), nil
}

func (d *Dispatcher) deleteChronograph(ctx context.Context, raw json.RawMessage) (any, error) {
	var args DeleteChronographArgs
	if err := decode(raw, &args); err != nil {
		return nil, err
	}
	return applied(d.Chronographs.Delete(ctx, args.WorkspaceID, args.ID))
}

func (d *Dispatcher) fetchUserSettings(ctx context.Context, _ json.RawMessage) (any, error) {
	return d.Settings.Fetch(ctx)
}

func (d *Dispatcher) updateUserSettings(ctx context.Context, raw json.RawMessage) (any, error) {
	var args UpdateSettingsArgs
	if err := decode(raw, &args); err != nil {
		return nil, err
	}
	return applied(d.Settings.Update(ctx, args.Settings))
}

func (d *Dispatcher) notifyCompleted(ctx context.Context, name string) {
	if d.Events == nil {
		return
	}
	us, err := d.Settings.Fetch(ctx)
	if err != nil {
		log.Printf("[WARN] can't check notification settings, %v", err)
		return
	}
	if !us.NotifyOnTimerComplete {
		return
	}
	log.Printf("[INFO] timer %q completed", name)
	tray.Publish(d.Events, tray.Event{Type: tray.EventTimerComplete, Name: name})
}

// decode unmarshals args, empty args leave v untouched
func decode(raw json.RawMessage, v any) error {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("failed to decode arguments: %w", err)
	}
	return nil
}

func applied(res enums.Outcome, err error) (any, error) {
	if err != nil {
		return nil, err
	}
	return res.Applied(), nil
}
