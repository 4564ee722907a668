package tui

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func newTestStore(t *testing.T) *TokenStore {
	t.Helper()
	return NewTokenStore(filepath.Join(t.TempDir(), "tokens.json"))
}

func TestTokenStoreRoundTrip(t *testing.T) {
	s := newTestStore(t)

	if _, ok := s.Load("http://localhost:8080"); ok {
		t.Fatal("Load on empty store returned an entry")
	}

	if err := s.Save("http://localhost:8080", "auth-1", "refresh-1"); err != nil {
		t.Fatalf("Save: %v", err)
	}
	entry, ok := s.Load("http://localhost:8080")
	if !ok {
		t.Fatal("entry not found after Save")
	}
	if entry.Auth != "auth-1" || entry.Refresh != "refresh-1" {
		t.Errorf("entry = %+v", entry)
	}
	if entry.SavedAt == 0 {
		t.Error("SavedAt not set")
	}
}

func TestTokenStoreNormalizesURL(t *testing.T) {
	s := newTestStore(t)

	if err := s.Save("http://localhost:8080///", "auth", "refresh"); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, ok := s.Load("http://localhost:8080"); !ok {
		t.Error("lookup without trailing slash missed")
	}
	if _, ok := s.Load("http://localhost:8080/"); !ok {
		t.Error("lookup with trailing slash missed")
	}
}

func TestTokenStoreMultipleServers(t *testing.T) {
	s := newTestStore(t)

	if err := s.Save("http://a:8080", "auth-a", "ra"); err != nil {
		t.Fatalf("Save a: %v", err)
	}
	if err := s.Save("http://b:8080", "auth-b", "rb"); err != nil {
		t.Fatalf("Save b: %v", err)
	}
	// Overwrite keeps the other server intact.
	if err := s.Save("http://a:8080", "auth-a2", "ra2"); err != nil {
		t.Fatalf("Save a again: %v", err)
	}

	a, ok := s.Load("http://a:8080")
	if !ok || a.Auth != "auth-a2" {
		t.Errorf("a = %+v, ok=%v", a, ok)
	}
	b, ok := s.Load("http://b:8080")
	if !ok || b.Auth != "auth-b" {
		t.Errorf("b = %+v, ok=%v", b, ok)
	}
}

func TestTokenStoreDelete(t *testing.T) {
	s := newTestStore(t)

	// Deleting from a missing file is not an error.
	if err := s.Delete("http://localhost:8080"); err != nil {
		t.Fatalf("Delete on missing file: %v", err)
	}

	if err := s.Save("http://a:8080", "auth", "refresh"); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := s.Delete("http://a:8080"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, ok := s.Load("http://a:8080"); ok {
		t.Error("entry still present after Delete")
	}
	// Deleting an absent entry is not an error either.
	if err := s.Delete("http://a:8080"); err != nil {
		t.Fatalf("second Delete: %v", err)
	}
}

func TestTokenStorePermissions(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("POSIX permissions only")
	}
	dir := filepath.Join(t.TempDir(), "nested")
	path := filepath.Join(dir, "tokens.json")
	s := NewTokenStore(path)

	if err := s.Save("http://a:8080", "auth", "refresh"); err != nil {
		t.Fatalf("Save: %v", err)
	}

	di, err := os.Stat(dir)
	if err != nil {
		t.Fatalf("stat dir: %v", err)
	}
	if perm := di.Mode().Perm(); perm != 0o700 {
		t.Errorf("dir perm = %o, want 700", perm)
	}

	fi, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat file: %v", err)
	}
	if perm := fi.Mode().Perm(); perm != 0o600 {
		t.Errorf("file perm = %o, want 600", perm)
	}
}
