// Package runlog records analytics runs and locally-recovered failures to an
// append-only CSV file. The generators swallow store failures by contract;
// the run log is what makes that recovery policy observable.
package runlog

import (
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// Entry is one row in the run log.
type Entry struct {
	Timestamp time.Time
	Component string
	TenantID  string
	CompanyID string
	Outcome   string
	Detail    string
}

// Outcomes recorded per run.
const (
	OutcomeOK        = "ok"
	OutcomeRecovered = "recovered"
	OutcomeSkipped   = "skipped"
)

// Header is the CSV header for run-log.csv.
const Header = "timestamp,component,tenant_id,company_id,outcome,detail"

const (
	numFields    = 6
	logFile      = "run-log.csv"
	colTimestamp = 0
	colComponent = 1
	colTenant    = 2
	colCompany   = 3
	colOutcome   = 4
	colDetail    = 5
)

// MarshalEntry converts an Entry to a CSV row.
func MarshalEntry(e Entry) []string {
	row := make([]string, numFields)
	row[colTimestamp] = e.Timestamp.Format(time.RFC3339)
	row[colComponent] = e.Component
	row[colTenant] = e.TenantID
	row[colCompany] = e.CompanyID
	row[colOutcome] = e.Outcome
	row[colDetail] = e.Detail
	return row
}

// UnmarshalEntry converts a CSV row to an Entry.
func UnmarshalEntry(record []string) (Entry, error) {
	if len(record) != numFields {
		return Entry{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	ts, err := time.Parse(time.RFC3339, record[colTimestamp])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing timestamp %q: %w", record[colTimestamp], err)
	}

	return Entry{
		Timestamp: ts,
		Component: record[colComponent],
		TenantID:  record[colTenant],
		CompanyID: record[colCompany],
		Outcome:   record[colOutcome],
		Detail:    record[colDetail],
	}, nil
}

// Logger appends entries to <dir>/run-log.csv.
type Logger struct {
	dir string
	mu  sync.Mutex
}

// New creates a Logger writing under dir.
func New(dir string) *Logger {
	return &Logger{dir: dir}
}

// Record appends one entry, stamping it with the current time. Logging is
// itself best-effort: a write failure goes to the process log and is
// otherwise ignored.
func (l *Logger) Record(component, tenantID, companyID, outcome, detail string) {
	e := Entry{
		Timestamp: time.Now().UTC(),
		Component: component,
		TenantID:  tenantID,
		CompanyID: companyID,
		Outcome:   outcome,
		Detail:    detail,
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if err := Append(l.dir, []Entry{e}); err != nil {
		log.Printf("runlog: %v", err)
	}
}

// Append writes entries to <dir>/run-log.csv, creating the file and header if
// needed.
func Append(dir string, entries []Entry) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating log dir: %w", err)
	}

	path := filepath.Join(dir, logFile)
	needsHeader := false
	if _, err := os.Stat(path); os.IsNotExist(err) {
		needsHeader = true
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening run log: %w", err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	defer cw.Flush()

	if needsHeader {
		if err := cw.Write(strings.Split(Header, ",")); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}

	for i, e := range entries {
		if err := cw.Write(MarshalEntry(e)); err != nil {
			return fmt.Errorf("writing entry %d: %w", i, err)
		}
	}

	return cw.Error()
}

// Read returns all entries from <dir>/run-log.csv. Returns an empty slice if
// the file does not exist.
func Read(dir string) ([]Entry, error) {
	f, err := os.Open(filepath.Join(dir, logFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening run log: %w", err)
	}
	defer f.Close()

	return readEntries(f)
}

func readEntries(r io.Reader) ([]Entry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading run log CSV: %w", err)
	}

	if len(records) <= 1 {
		return nil, nil
	}

	var entries []Entry
	for i, rec := range records[1:] {
		e, err := UnmarshalEntry(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}
