package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/chdm3u/internal/models"
	"github.com/desertthunder/chdm3u/internal/shared"
)

// RunRepository stores journaled runs and their entries.
type RunRepository struct {
	db *sql.DB
}

// NewRunRepository creates a new RunRepository with the given database connection
func NewRunRepository(db *sql.DB) *RunRepository {
	return &RunRepository{db: db}
}

// Create inserts run and its entries with a generated ID and sequence.
func (r *RunRepository) Create(run *models.Run) error {
	if run.Directory == "" {
		return fmt.Errorf("%w: run directory is required", shared.ErrInvalidInput)
	}

	sequence, err := NextSequence(r.db, "runs")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	run.ID = shared.GenerateID()
	run.Sequence = sequence
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now()
	}

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO runs (id, sequence, directory, playlists, renamed, skipped, failed, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, run.ID, run.Sequence, run.Directory, run.Playlists, run.Renamed, run.Skipped, run.Failed, run.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}

	for i := range run.Entries {
		e := &run.Entries[i]
		e.ID = shared.GenerateID()
		e.RunID = run.ID

		var errMsg any = e.Error
		if e.Error == "" {
			errMsg = nil
		}

		_, err := tx.Exec(`
			INSERT INTO run_entries (id, run_id, position, series_key, disc_index, original_name, new_name, playlist, status, error)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, e.ID, e.RunID, e.Position, e.SeriesKey, e.DiscIndex, e.OriginalName, e.NewName, e.Playlist, string(e.Status), errMsg)
		if err != nil {
			return fmt.Errorf("failed to insert run entry: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit run: %w", err)
	}

	return nil
}

// Get retrieves a run and its entries by ID
func (r *RunRepository) Get(id string) (*models.Run, error) {
	run, err := r.scanOne(r.db.QueryRow(`
		SELECT id, sequence, directory, playlists, renamed, skipped, failed, created_at, undone_at
		FROM runs
		WHERE id = ?
	`, id))
	if err != nil {
		return nil, err
	}

	if run.Entries, err = r.entries(run.ID); err != nil {
		return nil, err
	}
	return run, nil
}

// Latest retrieves the most recent run and its entries
func (r *RunRepository) Latest() (*models.Run, error) {
	run, err := r.scanOne(r.db.QueryRow(`
		SELECT id, sequence, directory, playlists, renamed, skipped, failed, created_at, undone_at
		FROM runs
		ORDER BY sequence DESC
		LIMIT 1
	`))
	if err != nil {
		return nil, err
	}

	if run.Entries, err = r.entries(run.ID); err != nil {
		return nil, err
	}
	return run, nil
}

// List retrieves runs newest first, without entries. A non-positive limit returns every run.
// A non-empty directory restricts the list to runs over that directory.
func (r *RunRepository) List(directory string, limit int) ([]*models.Run, error) {
	query := `
		SELECT id, sequence, directory, playlists, renamed, skipped, failed, created_at, undone_at
		FROM runs
	`
	args := []any{}

	if directory != "" {
		query += " WHERE directory = ?"
		args = append(args, directory)
	}

	query += " ORDER BY sequence DESC"

	if limit > 0 {
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

// MarkUndone records that a run was reverted
func (r *RunRepository) MarkUndone(id string) error {
	result, err := r.db.Exec(`
		UPDATE runs
		SET undone_at = ?
		WHERE id = ? AND undone_at IS NULL
	`, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to update run: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", shared.ErrRunNotFound, id)
	}

	return nil
}

// entries loads the entries of a run in processing order
func (r *RunRepository) entries(runID string) ([]models.RunEntry, error) {
	rows, err := r.db.Query(`
		SELECT id, run_id, position, series_key, disc_index, original_name, new_name, playlist, status, error
		FROM run_entries
		WHERE run_id = ?
		ORDER BY position ASC
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query run entries: %w", err)
	}
	defer rows.Close()

	var entries []models.RunEntry
	for rows.Next() {
		var (
			e      models.RunEntry
			status string
			errMsg sql.NullString
		)
		if err := rows.Scan(&e.ID, &e.RunID, &e.Position, &e.SeriesKey, &e.DiscIndex, &e.OriginalName, &e.NewName, &e.Playlist, &status, &errMsg); err != nil {
			return nil, fmt.Errorf("failed to scan run entry: %w", err)
		}
		e.Status = models.RenameStatus(status)
		e.Error = errMsg.String
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return entries, nil
}

// scanOne scans a single row into a [models.Run]
func (r *RunRepository) scanOne(row *sql.Row) (*models.Run, error) {
	run, err := scanRun(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, shared.ErrRunNotFound
	}
	return run, err
}

// scanRow scans a row from [sql.Rows] into a [models.Run]
func (r *RunRepository) scanRow(rows *sql.Rows) (*models.Run, error) {
	return scanRun(rows.Scan)
}

func scanRun(scan func(dest ...any) error) (*models.Run, error) {
	var (
		run      models.Run
		undoneAt sql.NullTime
	)

	err := scan(&run.ID, &run.Sequence, &run.Directory, &run.Playlists, &run.Renamed, &run.Skipped, &run.Failed, &run.CreatedAt, &undoneAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan run: %w", err)
	}

	if undoneAt.Valid {
		run.UndoneAt = &undoneAt.Time
	}
	return &run, nil
}
