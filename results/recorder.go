// Package results persists finished simulation runs so sweeps can be compared
// across invocations. Backends: a SQLite database and CSV export.
package results

import (
	"database/sql"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	// SQLite driver registration.
	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/xid"

	"github.com/cachesim/cachesim/sim"
)

// Run is one row of the results table: a configuration label plus the run's
// flattened summary.
type Run struct {
	RunID   string
	Label   string
	Summary sim.Summary
}

// NewRunID returns a fresh globally unique run identifier.
func NewRunID() string {
	return xid.New().String()
}

// Recorder writes runs into a SQLite database.
type Recorder struct {
	db *sql.DB
}

const createTableStmt = `
CREATE TABLE IF NOT EXISTS runs (
	run_id            TEXT NOT NULL,
	label             TEXT NOT NULL,
	total_size        INTEGER NOT NULL,
	block_size        INTEGER NOT NULL,
	associativity     INTEGER NOT NULL,
	write_policy      TEXT NOT NULL,
	way_prediction    INTEGER NOT NULL,
	accesses          INTEGER NOT NULL,
	hits              INTEGER NOT NULL,
	misses            INTEGER NOT NULL,
	evictions         INTEGER NOT NULL,
	dirty_evictions   INTEGER NOT NULL,
	prediction_hits   INTEGER NOT NULL,
	prediction_misses INTEGER NOT NULL,
	hit_rate          REAL NOT NULL,
	miss_rate         REAL NOT NULL
)`

// Open connects to (creating if needed) the results database at path.
func Open(path string) (*Recorder, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("opening results database: %w", err)
	}
	if _, err := db.Exec(createTableStmt); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating results table: %w", err)
	}
	return &Recorder{db: db}, nil
}

// Insert appends one run to the results table.
func (r *Recorder) Insert(run Run) error {
	s := run.Summary
	_, err := r.db.Exec(
		`INSERT INTO runs VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.RunID, run.Label,
		s.TotalSize, s.BlockSize, s.Associativity, s.WritePolicy, s.WayPrediction,
		s.Accesses, s.Hits, s.Misses, s.Evictions, s.DirtyEvictions,
		s.PredictionHits, s.PredictionMisses, s.HitRate, s.MissRate,
	)
	if err != nil {
		return fmt.Errorf("inserting run %s: %w", run.RunID, err)
	}
	return nil
}

// List returns every recorded run in insertion order.
func (r *Recorder) List() ([]Run, error) {
	rows, err := r.db.Query(`SELECT run_id, label, total_size, block_size,
		associativity, write_policy, way_prediction, accesses, hits, misses,
		evictions, dirty_evictions, prediction_hits, prediction_misses,
		hit_rate, miss_rate FROM runs`)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var run Run
		s := &run.Summary
		if err := rows.Scan(&run.RunID, &run.Label, &s.TotalSize, &s.BlockSize,
			&s.Associativity, &s.WritePolicy, &s.WayPrediction, &s.Accesses,
			&s.Hits, &s.Misses, &s.Evictions, &s.DirtyEvictions,
			&s.PredictionHits, &s.PredictionMisses, &s.HitRate, &s.MissRate); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// Close flushes and closes the underlying database.
func (r *Recorder) Close() error {
	return r.db.Close()
}

// csvColumns is the CSV header, matching the SQLite schema.
var csvColumns = []string{
	"run_id", "label", "total_size", "block_size", "associativity",
	"write_policy", "way_prediction", "accesses", "hits", "misses",
	"evictions", "dirty_evictions", "prediction_hits", "prediction_misses",
	"hit_rate", "miss_rate",
}

// WriteCSV exports runs to a CSV file at path.
func WriteCSV(path string, runs []Run) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating results CSV: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(csvColumns); err != nil {
		return fmt.Errorf("writing CSV header: %w", err)
	}
	for _, run := range runs {
		s := run.Summary
		row := []string{
			run.RunID, run.Label,
			strconv.FormatUint(s.TotalSize, 10),
			strconv.FormatUint(s.BlockSize, 10),
			strconv.FormatUint(s.Associativity, 10),
			s.WritePolicy,
			strconv.FormatBool(s.WayPrediction),
			strconv.FormatUint(s.Accesses, 10),
			strconv.FormatUint(s.Hits, 10),
			strconv.FormatUint(s.Misses, 10),
			strconv.FormatUint(s.Evictions, 10),
			strconv.FormatUint(s.DirtyEvictions, 10),
			strconv.FormatUint(s.PredictionHits, 10),
			strconv.FormatUint(s.PredictionMisses, 10),
			strconv.FormatFloat(s.HitRate, 'f', 6, 64),
			strconv.FormatFloat(s.MissRate, 'f', 6, 64),
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("writing CSV row: %w", err)
		}
	}
	w.Flush()
	return w.Error()
}
