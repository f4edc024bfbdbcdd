package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/viant/deskly/model"
	"github.com/viant/deskly/runtime/run"
	"github.com/viant/deskly/service/dao"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id          TEXT PRIMARY KEY,
	ticket_id   TEXT NOT NULL,
	status      TEXT NOT NULL,
	state_json  TEXT NOT NULL,
	error       TEXT,
	created_at  TEXT NOT NULL,
	updated_at  TEXT NOT NULL,
	finished_at TEXT
);

CREATE INDEX IF NOT EXISTS runs_status ON runs(status);
`

// Service implements a SQLite-backed run store.  Case state is kept as a JSON
// column while run metadata lives in scalar columns so status queries do not
// have to parse state.
type Service struct {
	db *sql.DB
}

var _ dao.Service[string, run.Run] = (*Service)(nil)

// New opens a SQLite database and runs migrations.  Use ":memory:" for an
// ephemeral store.
func New(dbPath string) (*Service, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, fmt.Errorf("pragma: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Service{db: db}, nil
}

// Close closes the underlying database connection.
func (s *Service) Close() error {
	return s.db.Close()
}

// DB returns the underlying *sql.DB.
func (s *Service) DB() *sql.DB {
	return s.db
}

// Save upserts a run.
func (s *Service) Save(ctx context.Context, r *run.Run) error {
	if r == nil {
		return dao.ErrNilEntity
	}
	if r.ID == "" {
		return dao.ErrInvalidID
	}

	stateJSON, err := json.Marshal(r.State)
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}

	var finishedPtr interface{}
	if r.FinishedAt != nil {
		finishedPtr = r.FinishedAt.Format(time.RFC3339Nano)
	}

	var errPtr interface{}
	if r.Error != "" {
		errPtr = r.Error
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO runs (id, ticket_id, status, state_json, error, created_at, updated_at, finished_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			status      = excluded.status,
			state_json  = excluded.state_json,
			error       = excluded.error,
			updated_at  = excluded.updated_at,
			finished_at = excluded.finished_at`,
		r.ID, r.TicketID, r.GetStatus(), string(stateJSON), errPtr,
		r.CreatedAt.Format(time.RFC3339Nano), r.UpdatedAt.Format(time.RFC3339Nano), finishedPtr,
	)
	if err != nil {
		return fmt.Errorf("save run %s: %w", r.ID, err)
	}
	return nil
}

// Load retrieves a run by ID.
func (s *Service) Load(ctx context.Context, id string) (*run.Run, error) {
	if id == "" {
		return nil, dao.ErrInvalidID
	}

	row := s.db.QueryRowContext(ctx,
		`SELECT id, ticket_id, status, state_json, error, created_at, updated_at, finished_at
		 FROM runs WHERE id = ?`, id)

	r, err := scanRun(row.Scan)
	if err == sql.ErrNoRows {
		return nil, dao.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load run %s: %w", id, err)
	}
	return r, nil
}

// Delete removes a run by ID.
func (s *Service) Delete(ctx context.Context, id string) error {
	if id == "" {
		return dao.ErrInvalidID
	}

	result, err := s.db.ExecContext(ctx, `DELETE FROM runs WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete run %s: %w", id, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete run %s: %w", id, err)
	}
	if affected == 0 {
		return dao.ErrNotFound
	}
	return nil
}

// List returns runs, optionally narrowed by a Status parameter; the filter is
// pushed down into the query rather than applied in memory.
func (s *Service) List(ctx context.Context, parameters ...*dao.Parameter) ([]*run.Run, error) {
	query := `SELECT id, ticket_id, status, state_json, error, created_at, updated_at, finished_at FROM runs`
	var args []interface{}

	if len(parameters) == 1 && parameters[0].Name == "Status" {
		switch actual := parameters[0].Value.(type) {
		case string:
			query += ` WHERE status = ?`
			args = append(args, actual)
		case []string:
			if len(actual) > 0 {
				placeholders := strings.Repeat("?,", len(actual))
				query += ` WHERE status IN (` + placeholders[:len(placeholders)-1] + `)`
				for _, status := range actual {
					args = append(args, status)
				}
			}
		}
	}
	query += ` ORDER BY created_at`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []*run.Run
	for rows.Next() {
		r, err := scanRun(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

func scanRun(scan func(dest ...any) error) (*run.Run, error) {
	var (
		r           run.Run
		stateJSON   string
		errMsg      sql.NullString
		createdStr  string
		updatedStr  string
		finishedStr sql.NullString
	)

	err := scan(&r.ID, &r.TicketID, &r.Status, &stateJSON, &errMsg, &createdStr, &updatedStr, &finishedStr)
	if err != nil {
		return nil, err
	}

	if stateJSON != "" && stateJSON != "null" {
		var state model.CaseState
		if err := json.Unmarshal([]byte(stateJSON), &state); err != nil {
			return nil, fmt.Errorf("unmarshal state: %w", err)
		}
		r.State = &state
	}
	if errMsg.Valid {
		r.Error = errMsg.String
	}
	r.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdStr)
	r.UpdatedAt, _ = time.Parse(time.RFC3339Nano, updatedStr)
	if finishedStr.Valid {
		finished, _ := time.Parse(time.RFC3339Nano, finishedStr.String)
		r.FinishedAt = &finished
	}
	return &r, nil
}
