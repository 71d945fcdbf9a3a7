package stats

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Stats holds persistent operator statistics. Scan results are never
// stored here.
type Stats struct {
	FreedLifetime uint64 `json:"freed_lifetime"`
	LastRoot      string `json:"last_root,omitempty"` // last directory scanned
}

// Manager loads the stats file once and writes changes back after a
// quiet period
type Manager struct {
	path         string
	stats        Stats
	mu           sync.RWMutex
	dirty        bool
	saveTimer    *time.Timer
	saveDuration time.Duration
}

// NewManager creates a stats manager backed by path. An empty path uses
// DefaultPath.
func NewManager(path string) *Manager {
	if path == "" {
		path = DefaultPath()
	}
	return &Manager{
		path:         path,
		saveDuration: 2 * time.Second, // Debounce saves
	}
}

// DefaultPath returns the default stats file path
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".diskprune-stats.json"
	}
	return filepath.Join(home, ".diskprune", "stats.json")
}

// Path returns the stats file location
func (m *Manager) Path() string {
	return m.path
}

// Load reads the stats file. A missing file starts from zero; a corrupt
// one is reset and reported.
func (m *Manager) Load() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	data, err := os.ReadFile(m.path)
	if err != nil {
		if os.IsNotExist(err) {
			m.stats = Stats{}
			return nil
		}
		return fmt.Errorf("read stats: %w", err)
	}

	if err := json.Unmarshal(data, &m.stats); err != nil {
		m.stats = Stats{}
		return fmt.Errorf("decode stats %s: %w", m.path, err)
	}
	return nil
}

// Save saves stats to disk immediately
func (m *Manager) Save() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.saveLocked()
}

// saveLocked replaces the file via a temp file; caller must hold the lock
func (m *Manager) saveLocked() error {
	if err := os.MkdirAll(filepath.Dir(m.path), 0755); err != nil {
		return fmt.Errorf("create stats dir: %w", err)
	}

	data, err := json.MarshalIndent(m.stats, "", "  ")
	if err != nil {
		return fmt.Errorf("encode stats: %w", err)
	}

	tmp := m.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("write stats: %w", err)
	}
	if err := os.Rename(tmp, m.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("replace stats: %w", err)
	}
	m.dirty = false
	return nil
}

// FreedLifetime returns the lifetime freed bytes
func (m *Manager) FreedLifetime() uint64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.stats.FreedLifetime
}

// LastRoot returns the last directory scanned
func (m *Manager) LastRoot() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.stats.LastRoot
}

// SetLastRoot records the last directory scanned
func (m *Manager) SetLastRoot(path string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.stats.LastRoot == path {
		return
	}
	m.stats.LastRoot = path
	m.scheduleLocked()
}

// AddFreed adds to the lifetime freed counter and schedules a debounced save
func (m *Manager) AddFreed(bytes uint64) {
	if bytes == 0 {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	m.stats.FreedLifetime += bytes
	m.scheduleLocked()
}

func (m *Manager) scheduleLocked() {
	m.dirty = true

	if m.saveTimer != nil {
		m.saveTimer.Stop()
	}
	m.saveTimer = time.AfterFunc(m.saveDuration, func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		if m.dirty {
			_ = m.saveLocked() // Ignore errors for background save
		}
	})
}

// Close stops the pending timer and flushes unsaved changes
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.saveTimer != nil {
		m.saveTimer.Stop()
		m.saveTimer = nil
	}

	if m.dirty {
		return m.saveLocked()
	}
	return nil
}
