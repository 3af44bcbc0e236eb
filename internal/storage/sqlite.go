// Package storage provides SQLite-based persistence for run statistics.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// Store manages the SQLite database connection for run statistics.
type Store struct {
	db *sql.DB
}

// Run is one finished engine run.
type Run struct {
	ID         int64
	SceneID    string
	Backend    string // "tui", "tcell", "ssh" or "headless"
	UpdateRate int
	Ticks      uint64
	Updates    uint64
	Renders    uint64
	Simulated  time.Duration
	Elapsed    time.Duration
	ExitReason string // "closed", "cancelled" or "error"
	CreatedAt  time.Time
}

// SceneStats aggregates the runs of one scene.
type SceneStats struct {
	SceneID      string
	Runs         int
	TotalElapsed time.Duration
	TotalUpdates uint64
	TotalRenders uint64
	LastRun      time.Time
}

// AvgRenderRate returns renders per second of wall time over all runs.
func (s SceneStats) AvgRenderRate() float64 {
	if s.TotalElapsed <= 0 {
		return 0
	}
	return float64(s.TotalRenders) / s.TotalElapsed.Seconds()
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	// Create parent directories
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}

	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			scene_id TEXT NOT NULL,
			backend TEXT NOT NULL,
			update_rate INTEGER NOT NULL,
			ticks INTEGER NOT NULL DEFAULT 0,
			updates INTEGER NOT NULL DEFAULT 0,
			renders INTEGER NOT NULL DEFAULT 0,
			simulated_ns INTEGER NOT NULL DEFAULT 0,
			elapsed_ns INTEGER NOT NULL DEFAULT 0,
			exit_reason TEXT NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_runs_scene_id ON runs(scene_id);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveRun records a finished run and returns its ID.
func (s *Store) SaveRun(r Run) (int64, error) {
	result, err := s.db.Exec(
		`INSERT INTO runs
		 (scene_id, backend, update_rate, ticks, updates, renders, simulated_ns, elapsed_ns, exit_reason)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.SceneID,
		r.Backend,
		r.UpdateRate,
		int64(r.Ticks),
		int64(r.Updates),
		int64(r.Renders),
		int64(r.Simulated),
		int64(r.Elapsed),
		r.ExitReason,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save run: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	return id, nil
}

// RecentRuns retrieves the latest runs, newest first. An empty sceneID
// selects every scene.
func (s *Store) RecentRuns(sceneID string, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT id, scene_id, backend, update_rate, ticks, updates, renders,
		        simulated_ns, elapsed_ns, exit_reason, created_at
		 FROM runs
		 WHERE ? = '' OR scene_id = ?
		 ORDER BY id DESC
		 LIMIT ?`,
		sceneID, sceneID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var (
			r                       Run
			ticks, updates, renders int64
			simulated, elapsed      int64
			createdAt               any
		)
		if err := rows.Scan(
			&r.ID,
			&r.SceneID,
			&r.Backend,
			&r.UpdateRate,
			&ticks,
			&updates,
			&renders,
			&simulated,
			&elapsed,
			&r.ExitReason,
			&createdAt,
		); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}

		r.Ticks, r.Updates, r.Renders = uint64(ticks), uint64(updates), uint64(renders)
		r.Simulated, r.Elapsed = time.Duration(simulated), time.Duration(elapsed)
		r.CreatedAt = parseTime(createdAt)
		runs = append(runs, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return runs, nil
}

// GetSceneStats retrieves aggregated statistics for one scene.
func (s *Store) GetSceneStats(sceneID string) (*SceneStats, error) {
	stats := &SceneStats{SceneID: sceneID}

	var elapsed, updates, renders int64
	err := s.db.QueryRow(
		`SELECT COUNT(*), COALESCE(SUM(elapsed_ns), 0), COALESCE(SUM(updates), 0), COALESCE(SUM(renders), 0)
		 FROM runs WHERE scene_id = ?`,
		sceneID,
	).Scan(&stats.Runs, &elapsed, &updates, &renders)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get scene stats: %w", err)
	}
	stats.TotalElapsed = time.Duration(elapsed)
	stats.TotalUpdates, stats.TotalRenders = uint64(updates), uint64(renders)

	var lastRun any
	err = s.db.QueryRow(
		`SELECT created_at FROM runs WHERE scene_id = ? ORDER BY id DESC LIMIT 1`,
		sceneID,
	).Scan(&lastRun)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("storage: cannot get last run: %w", err)
	}
	if err == nil {
		stats.LastRun = parseTime(lastRun)
	}

	return stats, nil
}

// GetAllSceneStats retrieves statistics for every scene that has run.
func (s *Store) GetAllSceneStats() (map[string]*SceneStats, error) {
	rows, err := s.db.Query(
		`SELECT scene_id, COUNT(*), SUM(elapsed_ns), SUM(updates), SUM(renders), MAX(created_at)
		 FROM runs
		 GROUP BY scene_id`,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get all scene stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[string]*SceneStats)
	for rows.Next() {
		var (
			st                        SceneStats
			elapsed, updates, renders int64
			lastRun                   any
		)
		if err := rows.Scan(&st.SceneID, &st.Runs, &elapsed, &updates, &renders, &lastRun); err != nil {
			return nil, fmt.Errorf("storage: cannot scan stats row: %w", err)
		}
		st.TotalElapsed = time.Duration(elapsed)
		st.TotalUpdates, st.TotalRenders = uint64(updates), uint64(renders)
		st.LastRun = parseTime(lastRun)
		stats[st.SceneID] = &st
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return stats, nil
}

// ClearRuns deletes all runs of the given scene.
func (s *Store) ClearRuns(sceneID string) error {
	_, err := s.db.Exec("DELETE FROM runs WHERE scene_id = ?", sceneID)
	if err != nil {
		return fmt.Errorf("storage: cannot clear runs: %w", err)
	}
	return nil
}

// parseTime handles both time.Time and string datetimes from the driver.
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
