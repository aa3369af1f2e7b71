package store

import (
	"context"
	"fmt"

	log "github.com/go-pkgz/lgr"

	"github.com/gotnoklu/crane/app/store/enums"
)

// Workspace groups chronographs. Rows are hard-deleted, DeletedAt stays empty.
type Workspace struct {
	ID          int64  `db:"id" json:"id"`
	Title       string `db:"title" json:"title"`
	Description string `db:"description" json:"description"`
	IsFavourite bool   `db:"is_favourite" json:"is_favourite"`
	IsSelected  bool   `db:"is_selected" json:"is_selected"`
	CreatedAt   string `db:"created_at" json:"created_at"`
	ModifiedAt  string `db:"modified_at" json:"modified_at"`
	DeletedAt   string `db:"deleted_at" json:"deleted_at"`
}

// WorkspaceInput has all mutable fields of Workspace
type WorkspaceInput struct {
	Title       string `db:"title" json:"title"`
	Description string `db:"description" json:"description"`
	IsFavourite bool   `db:"is_favourite" json:"is_favourite"`
	IsSelected  bool   `db:"is_selected" json:"is_selected"`
}

// Workspaces is a repository of workspace records
type Workspaces struct {
	pool *Pool
}

// NewWorkspaces makes workspace repository on top of the pool
func NewWorkspaces(pool *Pool) *Workspaces {
	return &Workspaces{pool: pool}
}

// List returns all workspaces, most recently created first
func (w *Workspaces) List(ctx context.Context) ([]Workspace, error) {
	res := []Workspace{}
	if err := w.pool.db.SelectContext(ctx, &res, "SELECT * FROM workspaces ORDER BY id DESC"); err != nil {
		return nil, fmt.Errorf("failed to list workspaces: %w", err)
	}
	return res, nil
}

// Current returns the selected workspace. Selection uniqueness is not enforced by the schema;
// if several workspaces are selected the most recently modified one wins, ties go to the highest id.
// Returns ErrNoSelection if nothing is selected.
func (w *Workspaces) Current(ctx context.Context) (Workspace, error) {
	selected := []Workspace{}
	err := w.pool.db.SelectContext(ctx, &selected,
		"SELECT * FROM workspaces WHERE is_selected = 1 ORDER BY modified_at DESC, id DESC")
	if err != nil {
		return Workspace{}, fmt.Errorf("failed to get current workspace: %w", err)
	}
	if len(selected) == 0 {
		return Workspace{}, ErrNoSelection
	}
	if len(selected) > 1 {
		log.Printf("[WARN] %d workspaces selected, using %d %q", len(selected), selected[0].ID, selected[0].Title)
	}
	return selected[0], nil
}

// Create inserts a new workspace with caller supplied flags
func (w *Workspaces) Create(ctx context.Context, in WorkspaceInput) (enums.Outcome, error) {
	ts := w.pool.stamp()
	rec := struct {
		WorkspaceInput
		CreatedAt  string `db:"created_at"`
		ModifiedAt string `db:"modified_at"`
	}{WorkspaceInput: in, CreatedAt: ts, ModifiedAt: ts}

	res, err := w.pool.db.NamedExecContext(ctx, `
		INSERT INTO workspaces (title, description, is_favourite, is_selected, created_at, modified_at)
		VALUES (:title, :description, :is_favourite, :is_selected, :created_at, :modified_at)`, rec)
	if err != nil {
		return enums.NotFound, fmt.Errorf("failed to add workspace %q: %w", in.Title, err)
	}
	return outcome(res)
}

// Update replaces all mutable fields of workspace id, NotFound if there is no such workspace
func (w *Workspaces) Update(ctx context.Context, id int64, in WorkspaceInput) (enums.Outcome, error) {
	res, err := w.pool.db.ExecContext(ctx, `
		UPDATE workspaces
		SET title = ?, description = ?, is_favourite = ?, is_selected = ?, modified_at = ?
		WHERE id = ?`,
		in.Title, in.Description, in.IsFavourite, in.IsSelected, w.pool.stamp(), id)
	if err != nil {
		return enums.NotFound, fmt.Errorf("failed to update workspace %d: %w", id, err)
	}
	return outcome(res)
}

// Delete removes workspace id together with its chronographs, NotFound if there is no such workspace
func (w *Workspaces) Delete(ctx context.Context, id int64) (enums.Outcome, error) {
	res, err := w.pool.db.ExecContext(ctx, "DELETE FROM workspaces WHERE id = ?", id)
	if err != nil {
		return enums.NotFound, fmt.Errorf("failed to delete workspace %d: %w", id, err)
	}
	return outcome(res)
}
