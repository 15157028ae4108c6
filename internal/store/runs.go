package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/piwi3910/PanelNest/internal/model"
)

// Run is a saved optimization: the project inputs with their result and the
// headline figures used for listing.
type Run struct {
	ID           string        `json:"id"`
	Name         string        `json:"name"`
	CreatedAt    time.Time     `json:"createdAt"`
	SheetCount   int           `json:"sheetCount"`
	WastePercent int           `json:"wastePercent"`
	Unplaced     int           `json:"unplaced"`
	Project      model.Project `json:"project"`
}

// RunRepo stores runs in SQLite.
type RunRepo struct {
	db  *sql.DB
	now func() time.Time
}

// NewRunRepo creates a RunRepo.
func NewRunRepo(db *sql.DB) *RunRepo {
	return &RunRepo{db: db, now: time.Now}
}

// Save stores the project under a new id. The headline figures come from the
// project's result, or are zero when it has none.
func (r *RunRepo) Save(ctx context.Context, name string, p model.Project) (Run, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return Run{}, fmt.Errorf("encoding project: %w", err)
	}

	run := Run{
		ID:        uuid.New().String(),
		Name:      name,
		CreatedAt: r.now().UTC().Truncate(time.Second),
		Project:   p,
	}
	if run.Name == "" {
		run.Name = p.Name
	}
	if p.Result != nil {
		run.SheetCount = p.Result.SheetCount
		run.WastePercent = p.Result.Stats.WastePercent
		run.Unplaced = len(p.Result.Errors)
	}

	query := `INSERT INTO runs (id, name, created_at, sheet_count, waste_percent, unplaced, project_json)
		VALUES (?, ?, ?, ?, ?, ?, ?)`
	_, err = r.db.ExecContext(ctx, query,
		run.ID,
		run.Name,
		run.CreatedAt.Format(time.RFC3339),
		run.SheetCount,
		run.WastePercent,
		run.Unplaced,
		string(data),
	)
	if err != nil {
		return Run{}, fmt.Errorf("inserting run: %w", err)
	}
	return run, nil
}

// Get returns the run with the given id, including its project.
func (r *RunRepo) Get(ctx context.Context, id string) (Run, error) {
	query := `SELECT id, name, created_at, sheet_count, waste_percent, unplaced, project_json
		FROM runs WHERE id = ?`

	var run Run
	var createdAt, projectJSON string
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&run.ID, &run.Name, &createdAt, &run.SheetCount, &run.WastePercent, &run.Unplaced, &projectJSON,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	if err != nil {
		return Run{}, fmt.Errorf("scanning run: %w", err)
	}

	if run.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
		return Run{}, fmt.Errorf("parsing created_at: %w", err)
	}
	if err := json.Unmarshal([]byte(projectJSON), &run.Project); err != nil {
		return Run{}, fmt.Errorf("decoding project: %w", err)
	}
	return run, nil
}

// List returns the most recent runs first, without their projects. A limit of
// zero or less returns every run.
func (r *RunRepo) List(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = -1
	}
	query := `SELECT id, name, created_at, sheet_count, waste_percent, unplaced
		FROM runs ORDER BY created_at DESC, rowid DESC LIMIT ?`
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}
	defer rows.Close()

	runs := []Run{}
	for rows.Next() {
		var run Run
		var createdAt string
		if err := rows.Scan(&run.ID, &run.Name, &createdAt, &run.SheetCount, &run.WastePercent, &run.Unplaced); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		if run.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
			return nil, fmt.Errorf("parsing created_at: %w", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating runs: %w", err)
	}
	return runs, nil
}

// Delete removes a run. Deleting an unknown id returns ErrRunNotFound.
func (r *RunRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM runs WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting run: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting run: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	return nil
}
