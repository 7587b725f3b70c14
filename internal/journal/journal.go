package journal

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/gitship/gitship/internal/db"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

const schema = `
CREATE TABLE IF NOT EXISTS sync_runs (
    id TEXT PRIMARY KEY,
    action TEXT NOT NULL,
    started_at TEXT NOT NULL,  -- RFC3339
    finished_at TEXT NOT NULL, -- RFC3339
    earlier_rev TEXT NOT NULL,
    package_rev TEXT NOT NULL,
    files_changed INTEGER NOT NULL,
    files_packed INTEGER NOT NULL,
    files_uploaded INTEGER NOT NULL,
    status TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_runs_started_at ON sync_runs(started_at);
`

// Run statuses recorded in the journal.
const (
	StatusOK        = "ok"
	StatusFailed    = "failed"
	StatusCancelled = "cancelled"
	StatusNoChanges = "no-changes"
)

// Run is one completed (or aborted) packer/uploader/pipeline action.
type Run struct {
	ID            string
	Action        string
	StartedAt     time.Time
	FinishedAt    time.Time
	EarlierRev    string
	PackageRev    string
	FilesChanged  int
	FilesPacked   int
	FilesUploaded int
	Status        string
}

// dbRun is the scan target; timestamps are stored as TEXT.
type dbRun struct {
	ID            string `db:"id"`
	Action        string `db:"action"`
	StartedAt     string `db:"started_at"`
	FinishedAt    string `db:"finished_at"`
	EarlierRev    string `db:"earlier_rev"`
	PackageRev    string `db:"package_rev"`
	FilesChanged  int    `db:"files_changed"`
	FilesPacked   int    `db:"files_packed"`
	FilesUploaded int    `db:"files_uploaded"`
	Status        string `db:"status"`
}

// Journal keeps a local history of sync runs in SQLite.
type Journal struct {
	db     *sqlx.DB
	dbPath string
}

func New(dbPath string) *Journal {
	return &Journal{dbPath: dbPath}
}

func (j *Journal) Open() error {
	if j.db != nil {
		return fmt.Errorf("journal already open")
	}

	database, err := db.NewSqliteDB(db.WithPath(j.dbPath), db.WithMaxOpenConns(1))
	if err != nil {
		return fmt.Errorf("open journal: %w", err)
	}

	if _, err := database.Exec(schema); err != nil {
		database.Close()
		return fmt.Errorf("initialize journal schema: %w", err)
	}

	j.db = database
	return nil
}

func (j *Journal) Close() error {
	if j.db == nil {
		return fmt.Errorf("journal not open")
	}
	if err := j.db.Close(); err != nil {
		slog.Error("failed to close journal database", "error", err)
		return err
	}
	j.db = nil
	return nil
}

// Record inserts a run row, assigning an ID when the caller left it empty.
func (j *Journal) Record(run *Run) error {
	if run == nil {
		return fmt.Errorf("cannot record nil run")
	}
	if run.ID == "" {
		run.ID = uuid.NewString()
	}

	data := dbRun{
		ID:            run.ID,
		Action:        run.Action,
		StartedAt:     run.StartedAt.Format(time.RFC3339),
		FinishedAt:    run.FinishedAt.Format(time.RFC3339),
		EarlierRev:    run.EarlierRev,
		PackageRev:    run.PackageRev,
		FilesChanged:  run.FilesChanged,
		FilesPacked:   run.FilesPacked,
		FilesUploaded: run.FilesUploaded,
		Status:        run.Status,
	}

	query := `INSERT INTO sync_runs (id, action, started_at, finished_at, earlier_rev, package_rev, files_changed, files_packed, files_uploaded, status)
	          VALUES (:id, :action, :started_at, :finished_at, :earlier_rev, :package_rev, :files_changed, :files_packed, :files_uploaded, :status)`
	if _, err := j.db.NamedExec(query, data); err != nil {
		return fmt.Errorf("record run %s: %w", run.ID, err)
	}
	return nil
}

// Recent returns up to n runs, newest first.
func (j *Journal) Recent(n int) ([]*Run, error) {
	var rows []dbRun
	err := j.db.Select(&rows, "SELECT * FROM sync_runs ORDER BY started_at DESC, id LIMIT ?", n)
	if err != nil {
		return nil, fmt.Errorf("query recent runs: %w", err)
	}

	runs := make([]*Run, 0, len(rows))
	for _, row := range rows {
		startedAt, err := time.Parse(time.RFC3339, row.StartedAt)
		if err != nil {
			slog.Error("failed to parse started_at", "id", row.ID, "value", row.StartedAt, "error", err)
			continue
		}
		finishedAt, err := time.Parse(time.RFC3339, row.FinishedAt)
		if err != nil {
			slog.Error("failed to parse finished_at", "id", row.ID, "value", row.FinishedAt, "error", err)
			continue
		}
		runs = append(runs, &Run{
			ID:            row.ID,
			Action:        row.Action,
			StartedAt:     startedAt,
			FinishedAt:    finishedAt,
			EarlierRev:    row.EarlierRev,
			PackageRev:    row.PackageRev,
			FilesChanged:  row.FilesChanged,
			FilesPacked:   row.FilesPacked,
			FilesUploaded: row.FilesUploaded,
			Status:        row.Status,
		})
	}

	return runs, nil
}

// Count returns the number of recorded runs.
func (j *Journal) Count() (int, error) {
	var count int
	if err := j.db.Get(&count, "SELECT COUNT(*) FROM sync_runs"); err != nil {
		return 0, fmt.Errorf("count runs: %w", err)
	}
	return count, nil
}
