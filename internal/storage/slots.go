// internal/storage/slots.go
//
// Slots are named durable values. The task list lives in exactly one of
// them; the interface exists so tests can swap the directory-backed
// implementation for an in-memory one.

package storage

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/gofrs/flock"
)

// ErrInvalidKey is returned for slot keys that cannot name a file.
var ErrInvalidKey = errors.New("storage: invalid slot key")

const slotExt = ".json"

// Slots reads and writes whole values by key.
type Slots interface {
	// Get returns the stored value. ok is false when nothing is stored.
	Get(key string) (value []byte, ok bool, err error)
	// Set overwrites the value stored under key.
	Set(key string, value []byte) error
	// Delete removes key. Missing keys are not an error.
	Delete(key string) error
}

// ValidateKey reports whether key can be used as a slot name.
func ValidateKey(key string) error {
	trimmed := strings.TrimSpace(key)
	if trimmed == "" || trimmed != key {
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	if strings.ContainsAny(key, `/\:`) || key == "." || key == ".." || strings.HasPrefix(key, ".") {
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return nil
}

// DirSlots stores each slot as <dir>/<key>.json. Writes go through a temp
// file and a rename under an exclusive lock on <key>.json.lock, so a reader
// in another process never sees a half-written value.
type DirSlots struct {
	dir string
}

// NewDirSlots returns slots rooted at dir, creating it if needed.
func NewDirSlots(dir string) (*DirSlots, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, fmt.Errorf("storage: data dir is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: ensure data dir: %w", err)
	}
	return &DirSlots{dir: dir}, nil
}

// Dir returns the directory backing these slots.
func (d *DirSlots) Dir() string { return d.dir }

// Path returns the file that holds key.
func (d *DirSlots) Path(key string) string {
	return filepath.Join(d.dir, key+slotExt)
}

func (d *DirSlots) lock(key string) *flock.Flock {
	return flock.New(d.Path(key) + ".lock")
}

// Get implements Slots.
func (d *DirSlots) Get(key string) ([]byte, bool, error) {
	if err := ValidateKey(key); err != nil {
		return nil, false, err
	}
	lk := d.lock(key)
	if err := lk.RLock(); err != nil {
		return nil, false, fmt.Errorf("storage: lock %s: %w", key, err)
	}
	defer func() { _ = lk.Unlock() }()

	data, err := os.ReadFile(d.Path(key))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("storage: read %s: %w", key, err)
	}
	return data, true, nil
}

// Set implements Slots.
func (d *DirSlots) Set(key string, value []byte) error {
	if err := ValidateKey(key); err != nil {
		return err
	}
	lk := d.lock(key)
	if err := lk.Lock(); err != nil {
		return fmt.Errorf("storage: lock %s: %w", key, err)
	}
	defer func() { _ = lk.Unlock() }()

	tmp, err := os.CreateTemp(d.dir, "."+key+"-*.tmp")
	if err != nil {
		return fmt.Errorf("storage: create temp for %s: %w", key, err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(value); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("storage: write %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("storage: close temp for %s: %w", key, err)
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("storage: chmod %s: %w", key, err)
	}
	if err := os.Rename(tmpPath, d.Path(key)); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("storage: replace %s: %w", key, err)
	}
	return nil
}

// Delete implements Slots.
func (d *DirSlots) Delete(key string) error {
	if err := ValidateKey(key); err != nil {
		return err
	}
	lk := d.lock(key)
	if err := lk.Lock(); err != nil {
		return fmt.Errorf("storage: lock %s: %w", key, err)
	}
	defer func() { _ = lk.Unlock() }()

	if err := os.Remove(d.Path(key)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("storage: delete %s: %w", key, err)
	}
	return nil
}

// MemorySlots keeps values in process memory.
type MemorySlots struct {
	mu     sync.Mutex
	values map[string][]byte
}

// NewMemorySlots returns an empty in-memory slot set.
func NewMemorySlots() *MemorySlots {
	return &MemorySlots{values: map[string][]byte{}}
}

// Get implements Slots.
func (m *MemorySlots) Get(key string) ([]byte, bool, error) {
	if err := ValidateKey(key); err != nil {
		return nil, false, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	value, ok := m.values[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), value...), true, nil
}

// Set implements Slots.
func (m *MemorySlots) Set(key string, value []byte) error {
	if err := ValidateKey(key); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = append([]byte(nil), value...)
	return nil
}

// Delete implements Slots.
func (m *MemorySlots) Delete(key string) error {
	if err := ValidateKey(key); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}
