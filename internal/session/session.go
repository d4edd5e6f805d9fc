// Package session holds the identified user's display name as an explicit
// object passed to the client and UI, persisted between runs as a small
// JSON file under the user config directory.
package session

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
)

type state struct {
	Name string `json:"name"`
}

// Session is the current user identity. Zero value means nobody has
// identified yet.
type Session struct {
	path string
	name string
}

// DefaultPath returns the session file location
// (~/.config/taskdeck/session.json).
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "taskdeck", "session.json"), nil
}

// Load reads the session at path, if any. A missing file is an empty
// session, not an error.
func Load(path string) (*Session, error) {
	s := &Session{path: path}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, err
	}
	defer f.Close()

	var st state
	if err := json.NewDecoder(f).Decode(&st); err != nil {
		// A corrupt session file is treated as no session.
		return s, nil
	}
	s.name = strings.TrimSpace(st.Name)
	return s, nil
}

// Name returns the current display name, empty if not identified.
func (s *Session) Name() string {
	return s.name
}

// SetName stores the trimmed display name and persists it.
func (s *Session) SetName(name string) error {
	s.name = strings.TrimSpace(name)
	return s.save()
}

// Clear forgets the user and removes the session file.
func (s *Session) Clear() error {
	s.name = ""
	if s.path == "" {
		return nil
	}
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func (s *Session) save() error {
	if s.path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return err
	}
	f, err := os.Create(s.path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(state{Name: s.name})
}
