// Package state persists the user's basket and favorites across runs.
//
// Storage is a single JSON file mapping set names to string arrays, the
// moral equivalent of the browser's localStorage keys. Persistence is
// best-effort by contract: a missing or corrupt file reads as empty, and
// write failures are logged and swallowed -- the in-memory sets stay
// authoritative for the rest of the session.
package state

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/snapbasket/snapbasket/internal/domain"
	"github.com/snapbasket/snapbasket/internal/logger"
)

// Set names used by the application.
const (
	KeyBasket    = "basket"
	KeyFavorites = "favorites"
)

// Compile-time interface check.
var _ domain.StateStore = (*FileStore)(nil)

// FileStore is a JSON-file-backed StateStore. Safe for concurrent use.
// Writes are last-writer-wins; there is no cross-process conflict handling.
type FileStore struct {
	mu   sync.Mutex
	path string
	log  *logger.Logger
}

// NewFileStore creates a store persisting to the given file path.
func NewFileStore(path string, log *logger.Logger) *FileStore {
	return &FileStore{path: path, log: log}
}

// Load reads the named set from disk. Missing files, unreadable JSON, and
// absent keys all yield an empty set -- never an error.
func (s *FileStore) Load(key string) map[string]struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()

	set := make(map[string]struct{})
	for _, v := range s.read()[key] {
		if v != "" {
			set[v] = struct{}{}
		}
	}
	s.log.Debug("state: loaded %q (%d entries)", key, len(set))
	return set
}

// Save writes the named set to disk, preserving the other sets in the file.
// Failures (permissions, full disk) are logged and ignored.
func (s *FileStore) Save(key string, set map[string]struct{}) {
	s.mu.Lock()
	defer s.mu.Unlock()

	all := s.read()
	items := make([]string, 0, len(set))
	for v := range set {
		items = append(items, v)
	}
	sort.Strings(items)
	all[key] = items

	data, err := json.MarshalIndent(all, "", "  ")
	if err != nil {
		s.log.Error("state: marshal: %v", err)
		return
	}

	if dir := filepath.Dir(s.path); dir != "" && dir != "." {
		os.MkdirAll(dir, 0o755)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		s.log.Error("state: write %s: %v", s.path, err)
		return
	}
	s.log.Debug("state: saved %q (%d entries)", key, len(items))
}

// read loads the whole state file, treating any failure as empty state.
func (s *FileStore) read() map[string][]string {
	out := make(map[string][]string)
	data, err := os.ReadFile(s.path)
	if err != nil {
		return out
	}
	if err := json.Unmarshal(data, &out); err != nil {
		s.log.Warn("state: corrupt state file %s, starting empty: %v", s.path, err)
		return make(map[string][]string)
	}
	return out
}
