package settings

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"
)

// Settings is the small JSON side file next to the store. One key is
// recognized: the destination directory for copied attachments. Unknown
// keys written by older versions are preserved on save.
type Settings struct {
	AttachmentsPath string `json:"attachments_path"`
}

// Store loads and persists the settings file.
type Store struct {
	path string

	mu    sync.Mutex
	extra map[string]json.RawMessage
}

// NewStore returns a settings store bound to the given file path.
func NewStore(path string) *Store {
	return &Store{path: path, extra: map[string]json.RawMessage{}}
}

// Load reads the settings file. A missing or corrupt file yields zero-value
// settings, matching how the desktop application treated it.
func (s *Store) Load() (Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Settings{}, nil
		}
		return Settings{}, fmt.Errorf("read settings: %w", err)
	}

	var all map[string]json.RawMessage
	if err := json.Unmarshal(raw, &all); err != nil {
		return Settings{}, nil
	}
	s.extra = all

	var out Settings
	if v, ok := all["attachments_path"]; ok {
		_ = json.Unmarshal(v, &out.AttachmentsPath)
	}
	return out, nil
}

// Save writes the settings back, carrying along any unrecognized keys.
func (s *Store) Save(in Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	all := map[string]json.RawMessage{}
	for k, v := range s.extra {
		all[k] = v
	}
	encoded, err := json.Marshal(in.AttachmentsPath)
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	all["attachments_path"] = encoded

	raw, err := json.MarshalIndent(all, "", "    ")
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	if err := os.WriteFile(s.path, raw, 0o644); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}
	s.extra = all
	return nil
}
