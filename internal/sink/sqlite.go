package sink

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"

	"modernc.org/sqlite"

	"github.com/Rahamath-Saniya-ms/edi-pipeline/internal/projector"
)

// SQLite result codes that mean another writer holds the database.
const (
	sqliteBusy   = 5
	sqliteLocked = 6
)

// BusyError wraps a transient lock failure so callers can retry the write.
type BusyError struct {
	Err error
}

func (e *BusyError) Error() string   { return "sqlite busy: " + e.Err.Error() }
func (e *BusyError) Unwrap() error   { return e.Err }
func (e *BusyError) Retryable() bool { return true }

func classify(err error) error {
	var se *sqlite.Error
	if errors.As(err, &se) {
		switch se.Code() & 0xff {
		case sqliteBusy, sqliteLocked:
			return &BusyError{Err: err}
		}
	}
	return err
}

// SQLite stores rows in one SQLite table per projector table. Tables are
// created from the first rows written and gain columns as new fields appear.
type SQLite struct {
	db *sql.DB
	mu sync.Mutex // one writing transaction at a time
}

// OpenSQLite opens the database at path with WAL mode enabled.
func OpenSQLite(ctx context.Context, path string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// Pragmas are per connection.
	db.SetMaxOpenConns(1)

	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
	} {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("%s: %w", pragma, err)
		}
	}
	return &SQLite{db: db}, nil
}

// Close closes the database connection.
func (s *SQLite) Close() error {
	return s.db.Close()
}

// Write stores every non-empty table of one run in a single transaction.
// Rows are keyed by RowKey, so replaying runID inserts nothing new.
func (s *SQLite) Write(ctx context.Context, runID string, tables *projector.Tables) (WriteResult, error) {
	res := newResult()
	if err := checkTables(tables); err != nil {
		return res, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return res, classify(err)
	}
	defer tx.Rollback()

	for _, table := range projector.AllTables {
		rows := tables.Rows(table)
		if len(rows) == 0 {
			continue
		}
		if err := ensureTable(ctx, tx, table, rows); err != nil {
			return res, classify(err)
		}
		for i, r := range rows {
			inserted, err := insertRow(ctx, tx, table, RowKey(runID, table, i), r.Fields())
			if err != nil {
				return res, classify(fmt.Errorf("insert %s row %d: %w", table, i, err))
			}
			if inserted {
				res.Inserted[table]++
			} else {
				res.Duplicates++
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return newResult(), classify(err)
	}
	return res, nil
}

// EnsureTable creates table from the shape of rows, or adds columns that
// rows carry and the existing table lacks.
func (s *SQLite) EnsureTable(ctx context.Context, table projector.Table, rows []projector.Record) error {
	if !table.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownTable, table)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return classify(err)
	}
	defer tx.Rollback()
	if err := ensureTable(ctx, tx, table, rows); err != nil {
		return classify(err)
	}
	return classify(tx.Commit())
}

func ensureTable(ctx context.Context, tx *sql.Tx, table projector.Table, rows []projector.Record) error {
	if len(rows) == 0 {
		return nil
	}
	existing, err := columns(ctx, tx, table)
	if err != nil {
		return err
	}

	if len(existing) == 0 {
		defs := []string{`"row_key" TEXT PRIMARY KEY`}
		for _, f := range rows[0].Fields() {
			defs = append(defs, fmt.Sprintf("%s %s", quote(f.Name), columnType(f.Value)))
			existing[f.Name] = true
		}
		stmt := fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)", quote(string(table)), strings.Join(defs, ", "))
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("create table %s: %w", table, err)
		}
	}

	for _, r := range rows {
		for _, f := range r.Fields() {
			if existing[f.Name] {
				continue
			}
			stmt := fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s %s", quote(string(table)), quote(f.Name), columnType(f.Value))
			if _, err := tx.ExecContext(ctx, stmt); err != nil {
				return fmt.Errorf("add column %s.%s: %w", table, f.Name, err)
			}
			existing[f.Name] = true
		}
	}
	return nil
}

// columns returns the existing column names of table; empty when the table
// does not exist.
func columns(ctx context.Context, tx *sql.Tx, table projector.Table) (map[string]bool, error) {
	rows, err := tx.QueryContext(ctx, fmt.Sprintf("PRAGMA table_info(%s)", quote(string(table))))
	if err != nil {
		return nil, fmt.Errorf("table info %s: %w", table, err)
	}
	defer rows.Close()

	cols := make(map[string]bool)
	for rows.Next() {
		var (
			cid       int
			name      string
			ctype     string
			notNull   int
			dfltValue sql.NullString
			pk        int
		)
		if err := rows.Scan(&cid, &name, &ctype, &notNull, &dfltValue, &pk); err != nil {
			return nil, err
		}
		cols[name] = true
	}
	return cols, rows.Err()
}

func insertRow(ctx context.Context, tx *sql.Tx, table projector.Table, key string, fields []projector.Field) (bool, error) {
	names := []string{quote("row_key")}
	marks := []string{"?"}
	args := []any{key}
	for _, f := range fields {
		names = append(names, quote(f.Name))
		marks = append(marks, "?")
		args = append(args, f.Value)
	}
	stmt := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) ON CONFLICT(row_key) DO NOTHING",
		quote(string(table)), strings.Join(names, ", "), strings.Join(marks, ", "))

	result, err := tx.ExecContext(ctx, stmt, args...)
	if err != nil {
		return false, err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func columnType(v any) string {
	switch v.(type) {
	case int, int64:
		return "INTEGER"
	case float64:
		return "REAL"
	default:
		return "TEXT"
	}
}

func quote(ident string) string {
	return `"` + strings.ReplaceAll(ident, `"`, `""`) + `"`
}

// Seen reports whether an interchange row from filename is stored.
func (s *SQLite) Seen(ctx context.Context, filename string) (bool, error) {
	ok, err := s.tableExists(ctx, projector.Interchanges)
	if err != nil || !ok {
		return false, err
	}
	var one int
	err = s.db.QueryRowContext(ctx,
		`SELECT 1 FROM "EDI_Interchanges" WHERE source_filename = ? LIMIT 1`, filename).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, classify(fmt.Errorf("lookup %s: %w", filename, err))
	}
	return true, nil
}

func (s *SQLite) tableExists(ctx context.Context, table projector.Table) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?", string(table)).Scan(&n)
	if err != nil {
		return false, classify(err)
	}
	return n > 0, nil
}

// ListInterchanges returns the most recently stored interchanges first.
func (s *SQLite) ListInterchanges(ctx context.Context, limit int) ([]projector.InterchangeRow, error) {
	if limit <= 0 {
		limit = 50
	}
	ok, err := s.tableExists(ctx, projector.Interchanges)
	if err != nil || !ok {
		return []projector.InterchangeRow{}, err
	}

	rows, err := s.db.QueryContext(ctx, `SELECT interchange_id, sender_id, receiver_id,
		interchange_date, interchange_time, control_number, source_filename
		FROM "EDI_Interchanges" ORDER BY rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, classify(err)
	}
	defer rows.Close()

	out := []projector.InterchangeRow{}
	for rows.Next() {
		var id, sender, receiver, date, tm, control, filename sql.NullString
		if err := rows.Scan(&id, &sender, &receiver, &date, &tm, &control, &filename); err != nil {
			return nil, err
		}
		out = append(out, projector.InterchangeRow{
			InterchangeID:   id.String,
			SenderID:        sender.String,
			ReceiverID:      receiver.String,
			InterchangeDate: date.String,
			InterchangeTime: tm.String,
			ControlNumber:   control.String,
			SourceFilename:  filename.String,
		})
	}
	return out, rows.Err()
}

// Count returns the number of stored rows in table.
func (s *SQLite) Count(ctx context.Context, table projector.Table) (int, error) {
	if !table.Valid() {
		return 0, fmt.Errorf("%w: %q", ErrUnknownTable, table)
	}
	ok, err := s.tableExists(ctx, table)
	if err != nil || !ok {
		return 0, err
	}
	var n int
	err = s.db.QueryRowContext(ctx, fmt.Sprintf("SELECT COUNT(*) FROM %s", quote(string(table)))).Scan(&n)
	return n, classify(err)
}
