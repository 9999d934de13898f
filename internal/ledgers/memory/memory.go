package memory

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"ledgerboard/internal/core"
	"ledgerboard/internal/ledgers"
)

// Store keeps ledger documents in memory, backed by <dir>/<userId>.json
// files when a directory is configured.
type Store struct {
	mu   sync.RWMutex
	dir  string
	docs map[string][]byte
}

var (
	_ ledgers.LedgerReader = (*Store)(nil)
	_ ledgers.LedgerWriter = (*Store)(nil)
	_ ledgers.Pinger       = (*Store)(nil)
)

// New returns a store reading from dir. An empty dir keeps everything in
// memory.
func New(dir string) *Store {
	return &Store{dir: dir, docs: map[string][]byte{}}
}

// Put seeds a document without touching disk.
func (s *Store) Put(userID string, document []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[userID] = append([]byte(nil), document...)
}

// ReadLedger implements ledgers.LedgerReader.
func (s *Store) ReadLedger(ctx context.Context, userID string) (core.Ledger, error) {
	if !ledgers.ValidUserID(userID) {
		return nil, core.ErrNotFound
	}
	doc, err := s.load(userID)
	if err != nil {
		return nil, err
	}
	return core.DecodeLedger(doc)
}

func (s *Store) load(userID string) ([]byte, error) {
	s.mu.RLock()
	doc, ok := s.docs[userID]
	s.mu.RUnlock()
	if ok {
		return doc, nil
	}
	if s.dir == "" {
		return nil, core.ErrNotFound
	}

	doc, err := os.ReadFile(s.path(userID))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, core.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read ledger file: %w", err)
	}
	return doc, nil
}

// SaveLedger implements ledgers.LedgerWriter. Files are replaced through a
// rename so readers never observe a partial document.
func (s *Store) SaveLedger(ctx context.Context, userID string, document []byte) error {
	if !ledgers.ValidUserID(userID) {
		return fmt.Errorf("invalid user id %q", userID)
	}
	if s.dir == "" {
		s.Put(userID, document)
		return nil
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}
	tmp, err := os.CreateTemp(s.dir, userID+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(document); err != nil {
		tmp.Close()
		return fmt.Errorf("write ledger file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close ledger file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path(userID)); err != nil {
		return fmt.Errorf("replace ledger file: %w", err)
	}

	s.mu.Lock()
	delete(s.docs, userID)
	s.mu.Unlock()
	return nil
}

// Ping implements ledgers.Pinger.
func (s *Store) Ping(ctx context.Context) error {
	if s.dir == "" {
		return nil
	}
	info, err := os.Stat(s.dir)
	if err != nil {
		return fmt.Errorf("stat data directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("data path %s is not a directory", s.dir)
	}
	return nil
}

func (s *Store) path(userID string) string {
	return filepath.Join(s.dir, userID+".json")
}
