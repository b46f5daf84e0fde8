package fs

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/bft-labs/docship/internal/domain"
)

const ledgerFileName = "unloaded.csv"

var ledgerHeader = []string{domain.LedgerFieldFilename, domain.LedgerFieldError}

// CSVLedger implements ports.FailureLedger as a CSV file with a
// "filename,error" header.
//
// Every record is a single line that is fsynced before Record returns, so a
// crash leaves at most one torn trailing line, which LoadAll discards.
type CSVLedger struct {
	dir string
	mu  sync.Mutex
}

// NewCSVLedger creates a ledger stored in dir.
func NewCSVLedger(dir string) *CSVLedger {
	return &CSVLedger{dir: dir}
}

// Path returns the full path to the ledger file.
func (l *CSVLedger) Path() string {
	return filepath.Join(l.dir, ledgerFileName)
}

// Reset replaces the ledger with a header-only file.
// Uses atomic write (write to temp file, then rename) so readers never see a
// half-written header.
func (l *CSVLedger) Reset(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := os.MkdirAll(l.dir, 0o700); err != nil {
		return fmt.Errorf("create ledger dir: %w", err)
	}

	path := l.Path()
	tmp := path + ".tmp"

	if err := writeSynced(tmp, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, ledgerHeader); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("replace ledger: %w", err)
	}
	return nil
}

// Record appends one failure and syncs it to disk.
// A missing ledger file is created with its header first.
func (l *CSVLedger) Record(ctx context.Context, id, errMsg string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	path := l.Path()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := os.MkdirAll(l.dir, 0o700); err != nil {
			return fmt.Errorf("create ledger dir: %w", err)
		}
		if err := writeSynced(path, os.O_CREATE|os.O_WRONLY|os.O_EXCL, ledgerHeader); err != nil {
			return err
		}
	}

	return writeSynced(path, os.O_WRONLY|os.O_APPEND, []string{id, singleLine(errMsg)})
}

// LoadAll returns the recorded identifiers in recording order.
// Returns an empty list and nil error if no ledger exists.
func (l *CSVLedger) LoadAll(ctx context.Context) ([]string, error) {
	entries, err := l.Entries(ctx)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		ids = append(ids, e.Filename)
	}
	return ids, nil
}

// Entries returns the recorded failures with their error text.
// Repeated identifiers are collapsed, the last recorded error wins.
func (l *CSVLedger) Entries(ctx context.Context) ([]domain.LedgerEntry, error) {
	l.mu.Lock()
	data, err := os.ReadFile(l.Path())
	l.mu.Unlock()
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read ledger: %w", err)
	}

	// a crash mid-append leaves a torn trailing line; keep its identifier
	// when the first field made it to disk
	var torn []byte
	if i := bytes.LastIndexByte(data, '\n'); i != len(data)-1 {
		if i >= 0 {
			torn = data[i+1:]
		}
		data = data[:i+1]
	}

	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = len(ledgerHeader)

	header, err := r.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("parse ledger header: %w", err)
	}
	if header[0] != ledgerHeader[0] || header[1] != ledgerHeader[1] {
		return nil, fmt.Errorf("unexpected ledger header %q", strings.Join(header, ","))
	}

	var entries []domain.LedgerEntry
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse ledger: %w", err)
		}
		entries = append(entries, domain.LedgerEntry{Filename: rec[0], Error: rec[1]})
	}
	if id, ok := tornFilename(torn); ok {
		entries = append(entries, domain.LedgerEntry{Filename: id, Error: tornRecordError})
	}
	return domain.DedupEntries(entries), nil
}

// tornRecordError replaces the error text of a record cut short by a crash.
const tornRecordError = "record interrupted before it was complete"

// tornFilename extracts the first field of a partial CSV line. The field
// counts only when its terminating comma was written.
func tornFilename(line []byte) (string, bool) {
	s := string(line)
	if !strings.HasPrefix(s, `"`) {
		i := strings.IndexByte(s, ',')
		if i <= 0 {
			return "", false
		}
		return s[:i], true
	}

	var b strings.Builder
	for i := 1; i < len(s); i++ {
		if s[i] != '"' {
			b.WriteByte(s[i])
			continue
		}
		switch {
		case i+1 < len(s) && s[i+1] == '"':
			b.WriteByte('"')
			i++
		case i+1 < len(s) && s[i+1] == ',':
			return b.String(), b.Len() > 0
		default:
			return "", false
		}
	}
	return "", false
}

func writeSynced(path string, flag int, record []string) error {
	f, err := os.OpenFile(path, flag, 0o600)
	if err != nil {
		return fmt.Errorf("open ledger: %w", err)
	}

	w := csv.NewWriter(f)
	if err := w.Write(record); err != nil {
		f.Close()
		return fmt.Errorf("write ledger: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return fmt.Errorf("write ledger: %w", err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return fmt.Errorf("sync ledger: %w", err)
	}
	return f.Close()
}

// singleLine keeps every record on one physical line.
func singleLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
