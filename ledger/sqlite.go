package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

const scansSchema = `
CREATE TABLE IF NOT EXISTS scans (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	recorded_at INTEGER NOT NULL,
	time        TEXT NOT NULL,
	card_uid    TEXT NOT NULL,
	owner       TEXT NOT NULL,
	photo       TEXT NOT NULL
);
`

const writeTimeout = 5 * time.Second

// SQLite stores the log in a SQLite database table. The table columns
// follow Header.
type SQLite struct {
	db   *sql.DB
	path string
}

// NewSQLite opens or creates the database at path.
func NewSQLite(path string) (*SQLite, error) {
	// synchronous(FULL): a committed insert survives power loss, which is
	// what the log promises per Append.
	dsn := fmt.Sprintf(
		"file:%s?_pragma=journal_mode(WAL)&_pragma=synchronous(FULL)&_pragma=busy_timeout(5000)",
		path,
	)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sql.Open: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db ping: %w", err)
	}
	if _, err := db.ExecContext(ctx, scansSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create scans table: %w", err)
	}

	return &SQLite{db: db, path: path}, nil
}

// Append implements Appender.Append.
func (s *SQLite) Append(rec Record) error {
	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO scans (recorded_at, time, card_uid, owner, photo) VALUES (?, ?, ?, ?, ?)`,
		rec.Time.UnixMilli(), rec.Time.Format(TimeLayout), rec.UID, rec.Owner, rec.Photo,
	)
	if err != nil {
		return fmt.Errorf("%w: insert into %s: %v", ErrLogWrite, s.path, err)
	}
	return nil
}

// Rows implements Store.Rows.
func (s *SQLite) Rows() ([][]string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()

	rows, err := s.db.QueryContext(ctx, `SELECT time, card_uid, owner, photo FROM scans ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query scans: %w", err)
	}
	defer rows.Close()

	var out [][]string
	for rows.Next() {
		var ts, uid, owner, photo string
		if err := rows.Scan(&ts, &uid, &owner, &photo); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		out = append(out, []string{ts, uid, owner, photo})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return append([][]string{Header}, out...), nil
}

// Close implements Store.Close.
func (s *SQLite) Close() error {
	return s.db.Close()
}
