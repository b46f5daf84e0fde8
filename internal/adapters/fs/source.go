package fs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/bft-labs/docship/internal/domain"
	"github.com/bft-labs/docship/internal/ports"
)

// DefaultPattern selects the documents submitted by a directory pass.
const DefaultPattern = "*.xml"

// documentList is the shared ports.DocumentSource behavior: a fixed list
// resolved at construction time.
type documentList struct {
	docs []domain.DocumentRef
}

// Len returns the number of documents in the source.
func (l documentList) Len() int {
	return len(l.docs)
}

// Items returns the documents in submission order.
func (l documentList) Items() []domain.DocumentRef {
	return append([]domain.DocumentRef(nil), l.docs...)
}

// DirectorySource lists the regular files of a directory whose name matches a pattern.
type DirectorySource struct {
	documentList
	dir string
}

// NewDirectorySource reads dir once and keeps the matching regular files in
// listing order. Subdirectories and non-matching names are skipped.
// An empty pattern selects DefaultPattern.
func NewDirectorySource(dir, pattern string) (*DirectorySource, error) {
	if pattern == "" {
		pattern = DefaultPattern
	}
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("invalid document pattern %q", pattern)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read documents dir: %w", err)
	}

	var docs []domain.DocumentRef
	for _, e := range entries {
		if ok, _ := doublestar.Match(pattern, e.Name()); !ok {
			continue
		}
		path := filepath.Join(dir, e.Name())
		// Stat follows symlinks, so a link to a regular file counts
		info, err := os.Stat(path)
		if err != nil || !info.Mode().IsRegular() {
			continue
		}
		docs = append(docs, domain.DocumentRef{ID: e.Name(), Path: path})
	}

	return &DirectorySource{documentList: documentList{docs: docs}, dir: dir}, nil
}

// Dir returns the listed directory.
func (s *DirectorySource) Dir() string {
	return s.dir
}

// LedgerSource replays the identifiers recorded in a failure ledger.
type LedgerSource struct {
	documentList
}

// NewLedgerSource snapshots the ledger and resolves every identifier under dir.
// The snapshot is taken here, before the next pass resets the ledger.
// Identifiers whose file has since disappeared are still yielded so the
// failure is recorded again instead of being silently dropped.
func NewLedgerSource(ctx context.Context, ledger ports.FailureLedger, dir string) (*LedgerSource, error) {
	ids, err := ledger.LoadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load ledger: %w", err)
	}

	docs := make([]domain.DocumentRef, 0, len(ids))
	for _, id := range ids {
		docs = append(docs, domain.DocumentRef{ID: id, Path: filepath.Join(dir, id)})
	}
	return &LedgerSource{documentList: documentList{docs: docs}}, nil
}
