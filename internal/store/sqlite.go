package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/abhisek/learntool/internal/question"
	"github.com/abhisek/learntool/internal/record"

	// Pure Go SQLite driver (no CGO).
	_ "modernc.org/sqlite"
)

// Rows hold the same pipe-delimited lines the flat files use, so both
// backends share one encoding.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS questions (
		id       INTEGER PRIMARY KEY,
		position INTEGER NOT NULL,
		line     TEXT    NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS statistics (
		id       INTEGER PRIMARY KEY,
		position INTEGER NOT NULL,
		line     TEXT    NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS results (
		id         TEXT    PRIMARY KEY,
		taken_at   TEXT    NOT NULL,
		percentage REAL    NOT NULL,
		correct    INTEGER NOT NULL,
		total      INTEGER NOT NULL
	)`,
}

// SQLStore is the SQLite backend.
type SQLStore struct {
	db  *sql.DB
	log *zap.Logger
}

// OpenSQLite connects to the SQLite database at dsn, applies pragmas and
// creates the schema.
func OpenSQLite(dsn string, opts ...Option) (*SQLStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply pragmas: %w", err)
	}

	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("create schema: %w", err)
		}
	}

	o := buildOptions(opts)
	return &SQLStore{db: db, log: o.log}, nil
}

// DB returns the underlying *sql.DB for raw queries.
func (s *SQLStore) DB() *sql.DB {
	return s.db
}

// Close closes the database connection.
func (s *SQLStore) Close() error {
	return s.db.Close()
}

// applyPragmas configures SQLite for single-user use.
func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
	}
	return nil
}

// LoadQuestions returns questions in saved order. Position doubles as the
// line number of malformed rows.
func (s *SQLStore) LoadQuestions(ctx context.Context) ([]*question.Question, []*record.MalformedRecordError, error) {
	var (
		qs      []*question.Question
		skipped []*record.MalformedRecordError
	)
	err := s.scanLines(ctx, "questions", func(pos int, line string) {
		q, err := record.ParseQuestion(line)
		if err != nil {
			skipped = append(skipped, &record.MalformedRecordError{Line: pos, Reason: err.Error()})
			return
		}
		qs = append(qs, q)
	})
	if err != nil {
		return nil, nil, fmt.Errorf("load questions: %w", err)
	}
	return qs, skipped, nil
}

// SaveQuestions replaces every question row in one transaction.
func (s *SQLStore) SaveQuestions(ctx context.Context, qs []*question.Question) error {
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		return replaceRows(ctx, tx, "questions", questionLines(qs))
	})
	if err != nil {
		return fmt.Errorf("save questions: %w", err)
	}
	return nil
}

// LoadStats returns statistics rows in saved order.
func (s *SQLStore) LoadStats(ctx context.Context) ([]record.Stat, []*record.MalformedRecordError, error) {
	var (
		stats   []record.Stat
		skipped []*record.MalformedRecordError
	)
	err := s.scanLines(ctx, "statistics", func(pos int, line string) {
		st, err := record.ParseStat(line)
		if err != nil {
			skipped = append(skipped, &record.MalformedRecordError{Line: pos, Reason: err.Error()})
			return
		}
		stats = append(stats, st)
	})
	if err != nil {
		return nil, nil, fmt.Errorf("load statistics: %w", err)
	}
	return stats, skipped, nil
}

// SaveSnapshot replaces questions and statistics in a single transaction,
// so a failed save leaves both tables as they were.
func (s *SQLStore) SaveSnapshot(ctx context.Context, qs []*question.Question, stats []record.Stat) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		if err := replaceRows(ctx, tx, "questions", questionLines(qs)); err != nil {
			return fmt.Errorf("save questions: %w", err)
		}
		if err := replaceRows(ctx, tx, "statistics", statLines(stats)); err != nil {
			return fmt.Errorf("save statistics: %w", err)
		}
		return nil
	})
}

// SaveStats replaces every statistics row in one transaction.
func (s *SQLStore) SaveStats(ctx context.Context, stats []record.Stat) error {
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		return replaceRows(ctx, tx, "statistics", statLines(stats))
	})
	if err != nil {
		return fmt.Errorf("save statistics: %w", err)
	}
	return nil
}

// ClearStats deletes every statistics row.
func (s *SQLStore) ClearStats(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM statistics`); err != nil {
		return fmt.Errorf("clear statistics: %w", err)
	}
	return nil
}

// AppendResult inserts one result row. Results without an id get a fresh
// UUID.
func (s *SQLStore) AppendResult(ctx context.Context, r record.Result) error {
	id := r.ID
	if id == "" {
		id = uuid.NewString()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO results (id, taken_at, percentage, correct, total) VALUES (?, ?, ?, ?, ?)`,
		id, r.Time.Format(time.RFC3339Nano), r.Percentage, r.Correct, r.Total)
	if err != nil {
		return fmt.Errorf("append result: %w", err)
	}
	return nil
}

// Results returns recorded results in insertion order.
func (s *SQLStore) Results(ctx context.Context) ([]record.Result, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, taken_at, percentage, correct, total FROM results ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("query results: %w", err)
	}
	defer rows.Close()

	var out []record.Result
	for rows.Next() {
		var (
			r       record.Result
			takenAt string
		)
		if err := rows.Scan(&r.ID, &takenAt, &r.Percentage, &r.Correct, &r.Total); err != nil {
			return nil, fmt.Errorf("scan result: %w", err)
		}
		t, err := time.Parse(time.RFC3339Nano, takenAt)
		if err != nil {
			s.log.Warn("skipped result with bad timestamp", zap.String("id", r.ID), zap.Error(err))
			continue
		}
		r.Time = t.Local()
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate results: %w", err)
	}
	return out, nil
}

type idLine struct {
	id   int
	line string
}

func questionLines(qs []*question.Question) []idLine {
	lines := make([]idLine, len(qs))
	for i, q := range qs {
		lines[i] = idLine{id: q.ID, line: record.FormatQuestion(q)}
	}
	return lines
}

func statLines(stats []record.Stat) []idLine {
	lines := make([]idLine, len(stats))
	for i, st := range stats {
		lines[i] = idLine{id: st.ID, line: record.FormatStat(st)}
	}
	return lines
}

// inTx runs fn in a transaction and commits when it succeeds.
func (s *SQLStore) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

// replaceRows swaps the contents of table for lines.
func replaceRows(ctx context.Context, tx *sql.Tx, table string, lines []idLine) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM `+table); err != nil {
		return fmt.Errorf("delete: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO `+table+` (id, position, line) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, l := range lines {
		if _, err := stmt.ExecContext(ctx, l.id, i+1, l.line); err != nil {
			return fmt.Errorf("insert id %d: %w", l.id, err)
		}
	}
	return nil
}

func (s *SQLStore) scanLines(ctx context.Context, table string, fn func(pos int, line string)) error {
	rows, err := s.db.QueryContext(ctx, `SELECT position, line FROM `+table+` ORDER BY position`)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			pos  int
			line string
		)
		if err := rows.Scan(&pos, &line); err != nil {
			return err
		}
		fn(pos, line)
	}
	return rows.Err()
}
