// Package telemetry collects and reports what happens inside the pipeline.
package telemetry

import (
	"database/sql"
	"fmt"
	"os"
	"sync"

	// Need to use SQLite connections.
	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/xid"
	"github.com/sarchlab/akita/v4/sim"
	"github.com/tebeka/atexit"

	"github.com/sarchlab/tomasim/timing/pipeline"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	run_id       TEXT PRIMARY KEY,
	label        TEXT,
	cycles       INTEGER,
	instructions INTEGER,
	cpi          REAL
);
CREATE TABLE IF NOT EXISTS instructions (
	run_id    TEXT,
	idx       INTEGER,
	class     TEXT,
	dispatch  INTEGER,
	issue     INTEGER,
	execute   INTEGER,
	broadcast INTEGER,
	retire    INTEGER
);`

type row struct {
	runID  string
	timing pipeline.Timing
}

// SQLiteRecorder stores per-instruction timings of one or more runs in a
// SQLite database. Rows are buffered and written in batches. It is safe to
// record several runs concurrently.
type SQLiteRecorder struct {
	*sql.DB

	mu        sync.Mutex
	path      string
	batchSize int
	pending   []row
}

// NewSQLiteRecorder creates a database at path. An empty path picks a unique
// file name in the working directory. The file must not exist yet. Buffered
// rows are flushed when the program exits through atexit.
func NewSQLiteRecorder(path string) (*SQLiteRecorder, error) {
	if path == "" {
		path = "tomasim_" + xid.New().String() + ".sqlite3"
	}

	if _, err := os.Stat(path); err == nil {
		return nil, fmt.Errorf("file %s already exists", path)
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	r, err := NewSQLiteRecorderWithDB(db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	r.path = path

	return r, nil
}

// NewSQLiteRecorderWithDB creates a recorder on an open database.
func NewSQLiteRecorderWithDB(db *sql.DB) (*SQLiteRecorder, error) {
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	r := &SQLiteRecorder{
		DB:        db,
		batchSize: 10000,
	}

	atexit.Register(func() { _ = r.Flush() })

	return r, nil
}

// Path returns the database file, or an empty string if the recorder was
// created on an existing connection.
func (r *SQLiteRecorder) Path() string {
	return r.path
}

// SetBatchSize sets how many rows are buffered before they are written.
func (r *SQLiteRecorder) SetBatchSize(n int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.batchSize = n
}

// StartRun registers a new run and returns the hook that records its
// instructions.
func (r *SQLiteRecorder) StartRun(label string) (*Run, error) {
	id := xid.New().String()

	_, err := r.Exec(`INSERT INTO runs (run_id, label) VALUES (?, ?)`, id, label)
	if err != nil {
		return nil, fmt.Errorf("failed to register run: %w", err)
	}

	return &Run{recorder: r, id: id, label: label}, nil
}

func (r *SQLiteRecorder) add(runID string, t pipeline.Timing) error {
	r.mu.Lock()
	r.pending = append(r.pending, row{runID: runID, timing: t})
	full := len(r.pending) >= r.batchSize
	r.mu.Unlock()

	if full {
		return r.Flush()
	}
	return nil
}

// Flush writes every buffered row in a single transaction.
func (r *SQLiteRecorder) Flush() error {
	r.mu.Lock()
	rows := r.pending
	r.pending = nil
	r.mu.Unlock()

	if len(rows) == 0 {
		return nil
	}

	tx, err := r.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	stmt, err := tx.Prepare(`INSERT INTO instructions VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, rw := range rows {
		t := rw.timing
		_, err := stmt.Exec(rw.runID, int64(t.Index), t.Class.String(),
			int64(t.DispatchCycle), int64(t.IssueCycle), int64(t.ExecuteCycle),
			int64(t.BroadcastCycle), int64(t.RetireCycle))
		if err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to insert instruction %d: %w", t.Index, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}

	return nil
}

// Close flushes buffered rows and closes the database.
func (r *SQLiteRecorder) Close() error {
	if err := r.Flush(); err != nil {
		return err
	}
	return r.DB.Close()
}

// Run records the retired instructions of one simulation. Attach it to a
// pipeline with AcceptHook.
type Run struct {
	recorder *SQLiteRecorder
	id       string
	label    string
	err      error
}

// ID returns the unique run identifier.
func (r *Run) ID() string {
	return r.id
}

// Label returns the run label.
func (r *Run) Label() string {
	return r.label
}

// Func records an instruction when it retires.
func (r *Run) Func(ctx sim.HookCtx) {
	if ctx.Pos != pipeline.HookPosRetire {
		return
	}

	if err := r.recorder.add(r.id, ctx.Item.(pipeline.Timing)); err != nil && r.err == nil {
		r.err = err
	}
}

// Finish stores the run summary.
func (r *Run) Finish(stats pipeline.Statistics) error {
	if r.err != nil {
		return r.err
	}

	_, err := r.recorder.Exec(
		`UPDATE runs SET cycles = ?, instructions = ?, cpi = ? WHERE run_id = ?`,
		int64(stats.Cycles), int64(stats.Instructions), stats.CPI(), r.id)
	if err != nil {
		return fmt.Errorf("failed to finish run %s: %w", r.id, err)
	}

	return nil
}
