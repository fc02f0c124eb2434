package profile

import (
	"path/filepath"
	"testing"

	"github.com/rvbops/warroom/go/internal/models"
)

func TestLoadMissingFileReturnsEmpty(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "profile.json"))
	p, err := s.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if p.Role != "" || p.PlayerName != "" || p.AuthToken != "" {
		t.Fatalf("profile = %+v, want empty", p)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "nested", "profile.json"))

	in := &Profile{
		Role:       models.RoleRed,
		PlayerName: "CrimsonFox",
		DarkMode:   true,
		AuthToken:  "token-123",
		SessionID:  "sess-1",
	}
	if err := s.Save(in); err != nil {
		t.Fatalf("Save: %v", err)
	}

	out, err := s.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if out.Role != models.RoleRed || out.PlayerName != "CrimsonFox" {
		t.Fatalf("profile = %+v", out)
	}
	if !out.DarkMode || out.AuthToken != "token-123" || out.SessionID != "sess-1" {
		t.Fatalf("profile = %+v", out)
	}
}

func TestSaveOverwrites(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "profile.json"))

	if err := s.Save(&Profile{PlayerName: "first"}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := s.Save(&Profile{PlayerName: "second"}); err != nil {
		t.Fatalf("Save: %v", err)
	}

	out, err := s.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if out.PlayerName != "second" {
		t.Fatalf("player name = %q, want second", out.PlayerName)
	}
}

func TestClear(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "profile.json"))
	if err := s.Save(&Profile{PlayerName: "gone"}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := s.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	// Clearing an already-missing file is fine.
	if err := s.Clear(); err != nil {
		t.Fatalf("Clear twice: %v", err)
	}

	p, err := s.Load()
	if err != nil {
		t.Fatalf("Load after clear: %v", err)
	}
	if p.PlayerName != "" {
		t.Fatalf("profile = %+v, want empty", p)
	}
}
