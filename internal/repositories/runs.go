package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/ytlist/ytlist/internal/models"
	"github.com/ytlist/ytlist/internal/shared"
)

// RunRepository implements models.Repository[*models.Run] for run history.
//
// Rows are written once per mutating invocation and updated as the run
// finishes, so `ytlist history` can show what happened and when.
type RunRepository struct {
	db *sql.DB
}

// NewRunRepository creates a new RunRepository with the given database connection
func NewRunRepository(db *sql.DB) *RunRepository {
	return &RunRepository{db: db}
}

// Create inserts a new run into the database with generated ID and sequence
func (r *RunRepository) Create(run *models.Run) error {
	sequence, err := NextSequence(r.db, "runs")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	id := shared.GenerateID()
	run.SetID(id)

	if err := run.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	query := `
		INSERT INTO runs (
			id, sequence, operation, document, title, playlist_id,
			added, skipped, moved, removed, unknown_kept, not_found,
			quota_spent, status, started_at, finished_at, created_at, updated_at
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	var finishedAt any = run.FinishedAt()
	if run.FinishedAt().IsZero() {
		finishedAt = nil
	}

	_, err = r.db.Exec(query,
		id,
		sequence,
		run.Operation(),
		run.Document(),
		run.Title(),
		run.PlaylistID(),
		run.Added(),
		run.Skipped(),
		run.Moved(),
		run.Removed(),
		run.Unknown(),
		run.NotFound(),
		run.QuotaSpent(),
		run.Status(),
		run.StartedAt(),
		finishedAt,
		run.CreatedAt(),
		run.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}

	return nil
}

// Get retrieves a run by ID
func (r *RunRepository) Get(id string) (*models.Run, error) {
	query := `
		SELECT
			id, operation, document, title, playlist_id,
			added, skipped, moved, removed, unknown_kept, not_found,
			quota_spent, status, started_at, finished_at, created_at, updated_at
		FROM runs
		WHERE id = ?
	`

	return r.scanOne(r.db.QueryRow(query, id))
}

// Update modifies an existing run in the database.
//
// Only the fields that change over a run's lifetime are written; operation,
// document and started_at are fixed at Create.
func (r *RunRepository) Update(run *models.Run) error {
	if err := run.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	now := time.Now()
	run.SetUpdatedAt(now)

	query := `
		UPDATE runs
		SET playlist_id = ?, added = ?, skipped = ?, moved = ?,
			removed = ?, unknown_kept = ?, not_found = ?, quota_spent = ?,
			status = ?, finished_at = ?, updated_at = ?
		WHERE id = ?
	`

	var finishedAt any = run.FinishedAt()
	if run.FinishedAt().IsZero() {
		finishedAt = nil
	}

	result, err := r.db.Exec(query,
		run.PlaylistID(),
		run.Added(),
		run.Skipped(),
		run.Moved(),
		run.Removed(),
		run.Unknown(),
		run.NotFound(),
		run.QuotaSpent(),
		run.Status(),
		finishedAt,
		now,
		run.ID(),
	)
	if err != nil {
		return fmt.Errorf("failed to update run: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("run not found: %s", run.ID())
	}

	return nil
}

// Delete removes a run by ID. History rows carry no references, so this is a
// hard delete.
func (r *RunRepository) Delete(id string) error {
	result, err := r.db.Exec("DELETE FROM runs WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete run: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("run not found: %s", id)
	}

	return nil
}

// List retrieves all runs matching the given criteria, newest first.
//
// Supported criteria: "operation", "status", "document" (strings) and
// "limit" (int).
func (r *RunRepository) List(criteria map[string]any) ([]*models.Run, error) {
	query := `
		SELECT
			id, operation, document, title, playlist_id,
			added, skipped, moved, removed, unknown_kept, not_found,
			quota_spent, status, started_at, finished_at, created_at, updated_at
		FROM runs
		WHERE 1 = 1
	`

	args := []any{}

	if operation, ok := criteria["operation"].(string); ok && operation != "" {
		query += " AND operation = ?"
		args = append(args, operation)
	}

	if status, ok := criteria["status"].(string); ok && status != "" {
		query += " AND status = ?"
		args = append(args, status)
	}

	if document, ok := criteria["document"].(string); ok && document != "" {
		query += " AND document = ?"
		args = append(args, document)
	}

	query += " ORDER BY sequence DESC"

	if limit, ok := criteria["limit"].(int); ok && limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []*models.Run
	for rows.Next() {
		run, err := r.scanRow(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return runs, nil
}

// scanOne scans a single [sql.Row] into a [models.Run]
func (r *RunRepository) scanOne(row *sql.Row) (*models.Run, error) {
	var (
		id         string
		operation  string
		document   string
		title      string
		playlistID string
		added      int
		skipped    int
		moved      int
		removed    int
		unknown    int
		notFound   int
		quotaSpent int
		status     string
		startedAt  time.Time
		finishedAt sql.NullTime
		createdAt  time.Time
		updatedAt  time.Time
	)

	err := row.Scan(
		&id, &operation, &document, &title, &playlistID,
		&added, &skipped, &moved, &removed, &unknown, &notFound,
		&quotaSpent, &status, &startedAt, &finishedAt, &createdAt, &updatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("run not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan run: %w", err)
	}

	var finished time.Time
	if finishedAt.Valid {
		finished = finishedAt.Time
	}

	return models.RestoreRun(
		id, operation, document, title, playlistID,
		added, skipped, moved, removed, unknown, notFound, quotaSpent,
		status, startedAt, finished, createdAt, updatedAt,
	), nil
}

// scanRow scans a row from [sql.Rows] into a [models.Run]
func (r *RunRepository) scanRow(rows *sql.Rows) (*models.Run, error) {
	var (
		id         string
		operation  string
		document   string
		title      string
		playlistID string
		added      int
		skipped    int
		moved      int
		removed    int
		unknown    int
		notFound   int
		quotaSpent int
		status     string
		startedAt  time.Time
		finishedAt sql.NullTime
		createdAt  time.Time
		updatedAt  time.Time
	)

	err := rows.Scan(
		&id, &operation, &document, &title, &playlistID,
		&added, &skipped, &moved, &removed, &unknown, &notFound,
		&quotaSpent, &status, &startedAt, &finishedAt, &createdAt, &updatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to scan run: %w", err)
	}

	var finished time.Time
	if finishedAt.Valid {
		finished = finishedAt.Time
	}

	return models.RestoreRun(
		id, operation, document, title, playlistID,
		added, skipped, moved, removed, unknown, notFound, quotaSpent,
		status, startedAt, finished, createdAt, updatedAt,
	), nil
}
