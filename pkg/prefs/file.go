package prefs

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// entryMeta is the JSON structure persisted alongside each value.
type entryMeta struct {
	Name    string `json:"name"`
	Created int64  `json:"created"` // UnixNano
	TTLNS   int64  `json:"ttl_ns"`  // 0 = no expiry
}

// FileStore keeps each preference as two files in Dir: {hash}.pref holds
// the value and {hash}.meta the JSON metadata. Writes are atomic via
// temp-file-then-rename.
type FileStore struct {
	dir string
	now func() time.Time

	mu sync.Mutex
}

// FileOption configures a FileStore.
type FileOption func(*FileStore)

// WithClock sets the time source used for expiry.
func WithClock(now func() time.Time) FileOption {
	return func(s *FileStore) { s.now = now }
}

// NewFileStore creates dir if needed and removes entries that have
// already expired.
func NewFileStore(dir string, opts ...FileOption) (*FileStore, error) {
	if dir == "" {
		return nil, fmt.Errorf("prefs: empty directory")
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("prefs: create directory %s: %w", dir, err)
	}
	s := &FileStore{dir: dir, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	if err := s.sweep(); err != nil {
		return nil, fmt.Errorf("prefs: scan directory: %w", err)
	}
	return s, nil
}

// Get implements Store.
func (s *FileStore) Get(name string) (string, bool) {
	h := hashName(name)

	s.mu.Lock()
	defer s.mu.Unlock()

	meta, err := s.readMeta(h)
	if err != nil || meta.Name != name {
		return "", false
	}
	if s.expired(meta) {
		s.removeLocked(h)
		return "", false
	}
	data, err := os.ReadFile(s.dataPath(h))
	if err != nil || len(data) == 0 {
		return "", false
	}
	return string(data), true
}

// Set implements Store. An empty value removes the entry.
func (s *FileStore) Set(name, value string, ttlDays int) error {
	if value == "" {
		return s.Delete(name)
	}
	h := hashName(name)
	meta := entryMeta{
		Name:    name,
		Created: s.now().UnixNano(),
		TTLNS:   int64(ttl(ttlDays)),
	}
	metaBytes, err := json.Marshal(meta)
	if err != nil {
		return fmt.Errorf("prefs: marshal meta for %q: %w", name, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := atomicWrite(s.dataPath(h), []byte(value), s.dir); err != nil {
		return fmt.Errorf("prefs: write %q: %w", name, err)
	}
	if err := atomicWrite(s.metaPath(h), metaBytes, s.dir); err != nil {
		_ = os.Remove(s.dataPath(h))
		return fmt.Errorf("prefs: write meta for %q: %w", name, err)
	}
	return nil
}

// Delete removes a preference. Missing names are not an error.
func (s *FileStore) Delete(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.removeLocked(hashName(name))
	return nil
}

func (s *FileStore) dataPath(hash string) string {
	return filepath.Join(s.dir, hash+".pref")
}

func (s *FileStore) metaPath(hash string) string {
	return filepath.Join(s.dir, hash+".meta")
}

func (s *FileStore) readMeta(hash string) (entryMeta, error) {
	var m entryMeta
	data, err := os.ReadFile(s.metaPath(hash))
	if err != nil {
		return m, err
	}
	err = json.Unmarshal(data, &m)
	return m, err
}

func (s *FileStore) expired(m entryMeta) bool {
	if m.TTLNS <= 0 {
		return false
	}
	return s.now().Sub(time.Unix(0, m.Created)) > time.Duration(m.TTLNS)
}

func (s *FileStore) removeLocked(hash string) {
	_ = os.Remove(s.dataPath(hash))
	_ = os.Remove(s.metaPath(hash))
}

// sweep drops expired, orphaned and corrupted entries.
func (s *FileStore) sweep() error {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, e := range entries {
		name := e.Name()
		if e.IsDir() {
			continue
		}
		if strings.HasPrefix(name, ".tmp-") {
			_ = os.Remove(filepath.Join(s.dir, name))
			continue
		}
		if !strings.HasSuffix(name, ".meta") {
			continue
		}
		hash := strings.TrimSuffix(name, ".meta")
		if _, err := os.Stat(s.dataPath(hash)); err != nil {
			s.removeLocked(hash)
			continue
		}
		meta, err := s.readMeta(hash)
		if err != nil || s.expired(meta) {
			s.removeLocked(hash)
		}
	}
	return nil
}

// atomicWrite writes data to path via a temporary file and rename.
func atomicWrite(path string, data []byte, tmpDir string) error {
	tmp, err := os.CreateTemp(tmpDir, ".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	success := false
	defer func() {
		if !success {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		return err
	}
	success = true
	return nil
}
