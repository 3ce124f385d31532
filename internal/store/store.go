// Package store persists finished runs so earlier traces can be listed
// and reviewed from the CLI. The engine itself never touches this; a run
// is saved only on explicit request.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/vmihailenco/msgpack/v5"
	_ "modernc.org/sqlite"

	"github.com/varlens/varlens/pkg/varlens"
)

// Schema version for the msgpack trace payload - increment when the
// event encoding changes.
const payloadSchemaVersion uint16 = 1

// ErrNotFound is returned when no run has the requested id.
var ErrNotFound = errors.New("run not found")

// Run is one persisted execution.
type Run struct {
	ID           string
	CreatedAt    time.Time
	Source       string
	Output       string
	ErrorMessage string
	Trace        map[string][]varlens.TraceEvent
}

// Summary is the listing view of a persisted run.
type Summary struct {
	ID           string
	CreatedAt    time.Time
	SourcePrefix string
	Failed       bool
}

type payload struct {
	Schema uint16
	Events map[string][]eventRecord
}

type eventRecord struct {
	Line       int
	Value      string
	Function   string
	AssignedIn string
}

type Store struct {
	db *sql.DB
}

// Open opens (and if needed initializes) the run-history database.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening history db: %w", err)
	}

	const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id         TEXT PRIMARY KEY,
	created_at INTEGER NOT NULL,
	source     TEXT NOT NULL,
	output     TEXT NOT NULL,
	error      TEXT NOT NULL DEFAULT '',
	trace      BLOB NOT NULL
);
CREATE INDEX IF NOT EXISTS runs_created_at ON runs(created_at DESC);`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing history db: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error { return s.db.Close() }

// SaveRun persists a finished run and returns its id.
func (s *Store) SaveRun(source string, rep *varlens.Report) (string, error) {
	blob, err := encodeTrace(rep.TraceMap)
	if err != nil {
		return "", err
	}

	id := uuid.NewString()
	_, err = s.db.Exec(
		`INSERT INTO runs (id, created_at, source, output, error, trace) VALUES (?, ?, ?, ?, ?, ?)`,
		id, time.Now().Unix(), source, rep.PrintedOutput, rep.ErrorMessage, blob,
	)
	if err != nil {
		return "", fmt.Errorf("saving run: %w", err)
	}
	return id, nil
}

// ListRuns returns the most recent runs, newest first.
func (s *Store) ListRuns(limit int) ([]Summary, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.Query(
		`SELECT id, created_at, substr(source, 1, 40), error FROM runs ORDER BY created_at DESC, id LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}
	defer rows.Close()

	var out []Summary
	for rows.Next() {
		var (
			sum     Summary
			created int64
			errMsg  string
		)
		if err := rows.Scan(&sum.ID, &created, &sum.SourcePrefix, &errMsg); err != nil {
			return nil, fmt.Errorf("scanning run row: %w", err)
		}
		sum.CreatedAt = time.Unix(created, 0)
		sum.Failed = errMsg != ""
		out = append(out, sum)
	}
	return out, rows.Err()
}

// GetRun loads one persisted run with its full trace.
func (s *Store) GetRun(id string) (*Run, error) {
	row := s.db.QueryRow(
		`SELECT id, created_at, source, output, error, trace FROM runs WHERE id = ?`, id,
	)

	var (
		run     Run
		created int64
		blob    []byte
	)
	err := row.Scan(&run.ID, &created, &run.Source, &run.Output, &run.ErrorMessage, &blob)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("loading run %s: %w", id, err)
	}
	run.CreatedAt = time.Unix(created, 0)

	run.Trace, err = decodeTrace(blob)
	if err != nil {
		return nil, err
	}
	return &run, nil
}

func encodeTrace(tm map[string][]varlens.TraceEvent) ([]byte, error) {
	p := payload{
		Schema: payloadSchemaVersion,
		Events: make(map[string][]eventRecord, len(tm)),
	}
	for key, events := range tm {
		records := make([]eventRecord, len(events))
		for i, ev := range events {
			records[i] = eventRecord{
				Line:       ev.Line,
				Value:      ev.Value,
				Function:   ev.Function,
				AssignedIn: ev.AssignedIn,
			}
		}
		p.Events[key] = records
	}

	blob, err := msgpack.Marshal(&p)
	if err != nil {
		return nil, fmt.Errorf("encoding trace: %w", err)
	}
	return blob, nil
}

func decodeTrace(blob []byte) (map[string][]varlens.TraceEvent, error) {
	var p payload
	if err := msgpack.Unmarshal(blob, &p); err != nil {
		return nil, fmt.Errorf("decoding trace: %w", err)
	}
	if p.Schema != payloadSchemaVersion {
		return nil, fmt.Errorf("unsupported trace payload schema %d", p.Schema)
	}

	tm := make(map[string][]varlens.TraceEvent, len(p.Events))
	for key, records := range p.Events {
		events := make([]varlens.TraceEvent, len(records))
		for i, rec := range records {
			events[i] = varlens.TraceEvent{
				Line:       rec.Line,
				Value:      rec.Value,
				Function:   rec.Function,
				AssignedIn: rec.AssignedIn,
			}
		}
		tm[key] = events
	}
	return tm, nil
}
