// Package ledger keeps the append-only scan log: one row per processed
// card with the time, UID, owner and photo path.
package ledger

import (
	"errors"
	"fmt"
	"os"
	"time"
)

// TimeLayout is the timestamp format written to the log.
const TimeLayout = "02.01.2006 15:04:05"

// ErrLogWrite is returned when a record could not be stored.
var ErrLogWrite = errors.New("log write failed")

// Header is the column row written when a log store is created.
var Header = []string{"Time", "Card UID", "Owner", "Photo"}

// Record is one processed scan.
type Record struct {
	Time  time.Time
	UID   string
	Owner string
	Photo string
}

// Row returns the record's fields in Header order.
func (r Record) Row() []string {
	return []string{r.Time.Format(TimeLayout), r.UID, r.Owner, r.Photo}
}

// Appender appends records to a log store.
//
// Implementations are single-writer: Append must not be called from more
// than one goroutine at a time, and only one process may write a given
// store. Every successful Append is flushed to disk before it returns.
type Appender interface {
	Append(rec Record) error
}

// Store is an Appender that can also be read back.
type Store interface {
	Appender

	// Rows returns the header followed by every record, oldest first.
	// A store that has never been written returns no rows.
	Rows() ([][]string, error)

	// Close releases any resources held by the store.
	Close() error
}

// Config holds configuration for the scan log.
type Config struct {
	Type string `yaml:"type"` // "xlsx", "sqlite"
	Path string `yaml:"path"` // e.g., "./logs/rfid_log.xlsx"
}

// New opens the log store described by cfg.
func New(cfg Config) (Store, error) {
	if cfg.Path == "" {
		return nil, errors.New("log path not configured")
	}
	switch cfg.Type {
	case "sqlite":
		return NewSQLite(cfg.Path)
	case "xlsx", "":
		return NewXLSX(cfg.Path), nil
	default:
		return nil, fmt.Errorf("unknown log type %q", cfg.Type)
	}
}

// syncPath flushes a file written by a library that does not fsync.
func syncPath(path string) error {
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return err
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
