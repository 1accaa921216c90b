package witness

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// State is a saved snapshot with its provenance.
type State struct {
	Name      string    `json:"name"`
	Timestamp time.Time `json:"timestamp"`
	Path      string    `json:"path"`
	Files     Snapshot  `json:"state"`
}

// StateInfo is the listing view of a saved state.
type StateInfo struct {
	Name      string    `json:"name"`
	Timestamp time.Time `json:"timestamp"`
	Path      string    `json:"path"`
	Files     int       `json:"files"`
}

// Store persists named snapshot states as JSON files in a directory.
type Store struct {
	dir string
}

// DefaultStateDir returns the per-user state directory, ~/.witness.
func DefaultStateDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving home directory: %w", err)
	}
	return filepath.Join(home, ".witness"), nil
}

// NewStore creates a store rooted at dir. The directory is created lazily
// on first save.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Save writes a snapshot under name and returns the file it was stored in.
func (s *Store) Save(name, root string, snap Snapshot) (string, error) {
	if err := validName(name); err != nil {
		return "", err
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("creating state directory: %w", err)
	}

	state := State{
		Name:      name,
		Timestamp: time.Now(),
		Path:      root,
		Files:     snap,
	}
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return "", err
	}

	path := s.statePath(name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("saving state %s: %w", name, err)
	}
	return path, nil
}

// Load reads a named state. A missing state returns os.ErrNotExist.
func (s *Store) Load(name string) (*State, error) {
	if err := validName(name); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.statePath(name))
	if err != nil {
		return nil, err
	}
	var state State
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("state %s is unreadable: %w", name, err)
	}
	if state.Name == "" {
		state.Name = name
	}
	return &state, nil
}

// List returns all readable saved states ordered by timestamp. Corrupt
// state files are skipped rather than failing the listing.
func (s *Store) List() ([]StateInfo, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var infos []StateInfo
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		name := strings.TrimSuffix(e.Name(), ".json")
		state, err := s.Load(name)
		if err != nil {
			continue
		}
		infos = append(infos, StateInfo{
			Name:      state.Name,
			Timestamp: state.Timestamp,
			Path:      state.Path,
			Files:     len(state.Files),
		})
	}
	sort.Slice(infos, func(i, j int) bool {
		return infos[i].Timestamp.Before(infos[j].Timestamp)
	})
	return infos, nil
}

// LastFor returns the most recent saved state observing root, or nil when
// no saved state matches.
func (s *Store) LastFor(root string) (*State, error) {
	infos, err := s.List()
	if err != nil {
		return nil, err
	}
	for i := len(infos) - 1; i >= 0; i-- {
		if infos[i].Path == root {
			return s.Load(infos[i].Name)
		}
	}
	return nil, nil
}

func (s *Store) statePath(name string) string {
	return filepath.Join(s.dir, name+".json")
}

// validName keeps state names from escaping the state directory.
func validName(name string) error {
	if name == "" {
		return fmt.Errorf("state name is empty")
	}
	if strings.ContainsAny(name, "/\\") || name == "." || name == ".." {
		return fmt.Errorf("invalid state name %q", name)
	}
	return nil
}
