package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/gotnoklu/crane/app/store/enums"
)

// transitionAttempts limits retries of Transition when the state flips between its writes
const transitionAttempts = 3

// Chronograph is a timer or a stopwatch owned by a workspace. Duration is in seconds.
type Chronograph struct {
	ID          int64       `db:"id" json:"id"`
	WorkspaceID int64       `db:"workspace_id" json:"workspace_id"`
	Name        string      `db:"name" json:"name"`
	Kind        enums.Kind  `db:"kind" json:"kind"`
	State       enums.State `db:"state" json:"state"`
	Duration    int64       `db:"duration" json:"duration"`
	IsFavourite bool        `db:"is_favourite" json:"is_favourite"`
	CreatedAt   string      `db:"created_at" json:"created_at"`
	ModifiedAt  string      `db:"modified_at" json:"modified_at"`
}

// ChronographInput defines a new chronograph
type ChronographInput struct {
	WorkspaceID int64       `db:"workspace_id" json:"workspace_id"`
	Name        string      `db:"name" json:"name"`
	Kind        enums.Kind  `db:"kind" json:"kind"`
	State       enums.State `db:"state" json:"state"`
	Duration    int64       `db:"duration" json:"duration"`
	IsFavourite bool        `db:"is_favourite" json:"is_favourite"`
}

// ChronographUpdateInput has all mutable fields of a chronograph
type ChronographUpdateInput struct {
	Name        string      `db:"name" json:"name"`
	Kind        enums.Kind  `db:"kind" json:"kind"`
	State       enums.State `db:"state" json:"state"`
	Duration    int64       `db:"duration" json:"duration"`
	IsFavourite bool        `db:"is_favourite" json:"is_favourite"`
}

// Validate checks enum fields and duration
func (c ChronographUpdateInput) Validate() error {
	if !c.Kind.Valid() {
		return fmt.Errorf("%w: kind %q", ErrInvalidInput, c.Kind)
	}
	if !c.State.Valid() {
		return fmt.Errorf("%w: state %q", ErrInvalidInput, c.State)
	}
	if c.Duration < 0 {
		return fmt.Errorf("%w: negative duration %d", ErrInvalidInput, c.Duration)
	}
	return nil
}

// Validate checks enum fields and duration
func (c ChronographInput) Validate() error {
	return ChronographUpdateInput{Name: c.Name, Kind: c.Kind, State: c.State, Duration: c.Duration}.Validate()
}

// Chronographs is a repository of chronograph records. Updates and deletes are scoped
// by (id, workspace_id) so a row of another workspace can't be touched by id alone.
type Chronographs struct {
	pool *Pool
}

// NewChronographs makes chronograph repository on top of the pool
func NewChronographs(pool *Pool) *Chronographs {
	return &Chronographs{pool: pool}
}

// List returns chronographs of the workspace with given kind, most recently created first
func (c *Chronographs) List(ctx context.Context, workspaceID int64, kind enums.Kind) ([]Chronograph, error) {
	res := []Chronograph{}
	err := c.pool.db.SelectContext(ctx, &res,
		"SELECT * FROM chronographs WHERE workspace_id = ? AND kind = ? ORDER BY id DESC", workspaceID, kind.String())
	if err != nil {
		return nil, fmt.Errorf("failed to list %s chronographs of workspace %d: %w", kind, workspaceID, err)
	}
	return res, nil
}

// Get returns a single chronograph, ErrNotFound if (workspaceID, id) doesn't exist
func (c *Chronographs) Get(ctx context.Context, workspaceID, id int64) (Chronograph, error) {
	var res Chronograph
	err := c.pool.db.GetContext(ctx, &res, "SELECT * FROM chronographs WHERE workspace_id = ? AND id = ?", workspaceID, id)
	if errors.Is(err, sql.ErrNoRows) {
		return Chronograph{}, fmt.Errorf("chronograph %d of workspace %d: %w", id, workspaceID, ErrNotFound)
	}
	if err != nil {
		return Chronograph{}, fmt.Errorf("failed to get chronograph %d: %w", id, err)
	}
	return res, nil
}

// Create inserts a new chronograph. The workspace must exist, a missing one fails on the foreign key.
func (c *Chronographs) Create(ctx context.Context, in ChronographInput) (enums.Outcome, error) {
	if err := in.Validate(); err != nil {
		return enums.NotFound, err
	}

	ts := c.pool.stamp()
	rec := struct {
		ChronographInput
		CreatedAt  string `db:"created_at"`
		ModifiedAt string `db:"modified_at"`
	}{ChronographInput: in, CreatedAt: ts, ModifiedAt: ts}

	res, err := c.pool.db.NamedExecContext(ctx, `
		INSERT INTO chronographs (workspace_id, name, kind, state, duration, is_favourite, created_at, modified_at)
		VALUES (:workspace_id, :name, :kind, :state, :duration, :is_favourite, :created_at, :modified_at)`, rec)
	if err != nil {
		return enums.NotFound, fmt.Errorf("failed to add chronograph %q to workspace %d: %w", in.Name, in.WorkspaceID, err)
	}
	return outcome(res)
}

// Update replaces all mutable fields, NotFound if (id, workspaceID) doesn't exist
func (c *Chronographs) Update(ctx context.Context, id, workspaceID int64, in ChronographUpdateInput) (enums.Outcome, error) {
	if err := in.Validate(); err != nil {
		return enums.NotFound, err
	}
	return c.update(ctx, id, workspaceID, in, "")
}

// Transition is Update which also reports whether the chronograph entered in.State from another state.
// State check and write are one statement, so of concurrent transitions into the same state
// exactly one reports entered.
func (c *Chronographs) Transition(ctx context.Context, id, workspaceID int64,
	in ChronographUpdateInput) (res enums.Outcome, entered bool, err error) {
	if err = in.Validate(); err != nil {
		return enums.NotFound, false, err
	}

	for attempt := 0; attempt < transitionAttempts; attempt++ {
		if res, err = c.update(ctx, id, workspaceID, in, "state <> ?", in.State); err != nil || res.Applied() {
			return res, res.Applied(), err
		}
		if res, err = c.update(ctx, id, workspaceID, in, "state = ?", in.State); err != nil || res.Applied() {
			return res, false, err
		}
		// neither matched, either no such row or the state was changed between the two writes
		var found bool
		err = c.pool.db.GetContext(ctx, &found,
			"SELECT EXISTS(SELECT 1 FROM chronographs WHERE id = ? AND workspace_id = ?)", id, workspaceID)
		if err != nil {
			return enums.NotFound, false, fmt.Errorf("failed to check chronograph %d: %w", id, err)
		}
		if !found {
			return enums.NotFound, false, nil
		}
	}
	return enums.NotFound, false, fmt.Errorf("chronograph %d state keeps changing, %d attempts made", id, transitionAttempts)
}

// update writes in to (id, workspaceID), cond with its args narrows the match if set
func (c *Chronographs) update(ctx context.Context, id, workspaceID int64, in ChronographUpdateInput,
	cond string, condArgs ...any) (enums.Outcome, error) {
	query := `
		UPDATE chronographs
		SET name = ?, kind = ?, state = ?, duration = ?, is_favourite = ?, modified_at = ?
		WHERE id = ? AND workspace_id = ?`
	if cond != "" {
		query += " AND " + cond
	}
	args := append([]any{in.Name, in.Kind, in.State, in.Duration, in.IsFavourite, c.pool.stamp(), id, workspaceID},
		condArgs...)

	res, err := c.pool.db.ExecContext(ctx, query, args...)
	if err != nil {
		return enums.NotFound, fmt.Errorf("failed to update chronograph %d: %w", id, err)
	}
	return outcome(res)
}

// Delete removes a chronograph, NotFound if (workspaceID, id) doesn't exist
func (c *Chronographs) Delete(ctx context.Context, workspaceID, id int64) (enums.Outcome, error) {
	res, err := c.pool.db.ExecContext(ctx, "DELETE FROM chronographs WHERE workspace_id = ? AND id = ?", workspaceID, id)
	if err != nil {
		return enums.NotFound, fmt.Errorf("failed to delete chronograph %d: %w", id, err)
	}
	return outcome(res)
}
