package server

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/foliodash/folio"
)

// Store owns the ledger file. It keeps the decoded ledger in memory and
// serializes every mutation; reads work on an independent clone.
type Store struct {
	mu     sync.Mutex
	path   string
	ledger *folio.Ledger
}

// OpenStore reads the ledger from path. A missing file is an empty ledger,
// not an error; a corrupt file is.
func OpenStore(path string) (*Store, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &Store{path: path, ledger: folio.NewLedger()}, nil
		}
		return nil, fmt.Errorf("could not open ledger file %q: %w", path, err)
	}
	defer f.Close()

	ledger, err := folio.DecodeLedger(f)
	if err != nil {
		return nil, fmt.Errorf("could not decode ledger file %q: %w", path, err)
	}
	return &Store{path: path, ledger: ledger}, nil
}

// Ledger returns a snapshot of the current ledger.
func (s *Store) Ledger() *folio.Ledger {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.Clone()
}

// Append validates and records a transaction, appending one line to the
// ledger file. When the file write fails the in-memory append is undone, so
// a failed call never leaves the served ledger ahead of the file.
func (s *Store) Append(tx folio.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ledger.Append(tx); err != nil {
		return err
	}
	if err := s.appendLine(tx); err != nil {
		s.ledger.Delete(tx.ID)
		return fmt.Errorf("could not persist transaction: %w", err)
	}
	return nil
}

func (s *Store) appendLine(tx folio.Transaction) error {
	f, err := os.OpenFile(s.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()
	return folio.EncodeTransaction(f, tx)
}

// Delete removes a transaction by id and rewrites the ledger file. It
// reports whether a record was removed.
func (s *Store) Delete(id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.ledger.Delete(id) {
		return false, nil
	}
	return true, s.rewrite()
}

// rewrite saves the whole ledger through a temp file and a rename, so a
// crash mid-write never truncates the ledger.
func (s *Store) rewrite() error {
	// Same directory as the target, so the rename stays on one filesystem.
	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".folio-ledger-*.jsonl")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if err := folio.EncodeLedger(tmp, s.ledger); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), s.path)
}
