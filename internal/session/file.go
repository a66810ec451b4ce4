package session

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/and161185/shopfront/internal/model"
)

// FileKV persists the session as a JSON file under the user config dir.
type FileKV struct {
	dir string
}

// NewFileKV creates a file store rooted at dir; an empty dir selects
// $XDG_CONFIG_HOME/shopfront (or ~/.config/shopfront).
func NewFileKV(dir string) *FileKV {
	if dir == "" {
		dir = cfgDir()
	}
	return &FileKV{dir: dir}
}

func cfgDir() string {
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return filepath.Join(v, "shopfront")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "shopfront")
}

func (f *FileKV) path() string { return filepath.Join(f.dir, "session.json") }

// Save writes the session record, creating the config dir as needed.
func (f *FileKV) Save(s model.Session) error {
	if err := os.MkdirAll(f.dir, 0o700); err != nil {
		return err
	}
	out, err := os.OpenFile(f.path(), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return err
	}
	defer out.Close()
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(s)
}

// Load reads the session record. A missing file is "no session", not an
// error.
func (f *FileKV) Load() (model.Session, bool, error) {
	b, err := os.ReadFile(f.path())
	if err != nil {
		if os.IsNotExist(err) {
			return model.Session{}, false, nil
		}
		return model.Session{}, false, err
	}
	var s model.Session
	if err := json.Unmarshal(b, &s); err != nil {
		return model.Session{}, false, err
	}
	if !s.LoggedIn() {
		return model.Session{}, false, nil
	}
	return s, true, nil
}

// Clear removes the session record. Idempotent.
func (f *FileKV) Clear() error {
	err := os.Remove(f.path())
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// MemKV is an in-memory KV for tests.
type MemKV struct {
	mu sync.Mutex
	s  model.Session
	ok bool
}

func (m *MemKV) Save(s model.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.s, m.ok = s, true
	return nil
}

func (m *MemKV) Load() (model.Session, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.s, m.ok, nil
}

func (m *MemKV) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.s, m.ok = model.Session{}, false
	return nil
}
