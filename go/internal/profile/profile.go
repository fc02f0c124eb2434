// Package profile persists the operator's session identity between runs:
// role, assigned player name, auth token, and UI preferences. It is read
// once at startup and rewritten when a login or join flow refreshes it.
package profile

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rvbops/warroom/go/internal/models"
)

// Profile is the on-disk session blob.
type Profile struct {
	Role       models.Role         `json:"role,omitempty"`
	PlayerName string              `json:"player_name,omitempty"`
	DarkMode   bool                `json:"dark_mode"`
	AuthToken  string              `json:"auth_token,omitempty"`
	SessionID  string              `json:"session_id,omitempty"`
	Session    *models.GameSession `json:"session,omitempty"`
}

// Store reads and writes a Profile at a fixed path.
type Store struct {
	path string
}

// NewStore returns a store writing to path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// DefaultPath places the profile under the user config directory,
// falling back to the working directory when none is resolvable.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".warroom-profile.json"
	}
	return filepath.Join(dir, "warroom", "profile.json")
}

// Load reads the stored profile. A missing file is not an error and
// returns an empty profile.
func (s *Store) Load() (*Profile, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return &Profile{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read profile: %w", err)
	}
	var p Profile
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("decode profile: %w", err)
	}
	return &p, nil
}

// Save writes the profile atomically via a temp file and rename, so a
// crash mid-write never leaves a truncated blob.
func (s *Store) Save(p *Profile) error {
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("encode profile: %w", err)
	}
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create profile dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, "profile-*.json")
	if err != nil {
		return fmt.Errorf("create profile temp: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write profile: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close profile temp: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace profile: %w", err)
	}
	return nil
}

// Clear removes the stored profile. A missing file is not an error.
func (s *Store) Clear() error {
	err := os.Remove(s.path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("clear profile: %w", err)
	}
	return nil
}
