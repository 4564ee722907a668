package tui

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// TokenEntry is one persisted session, keyed by server URL.
type TokenEntry struct {
	Auth    string `json:"auth"`
	Refresh string `json:"refresh"`
	SavedAt int64  `json:"savedAt"`
}

// TokenStore persists session tokens for multiple servers in a single JSON
// file under the user config directory. Writes are full
// read-modify-write-replace; concurrent external writers are not guarded
// against, which is acceptable for a single-user local tool.
type TokenStore struct {
	path string
}

// DefaultTokenPath returns $XDG_CONFIG_HOME/clustertop/tokens.json,
// falling back to ~/.config/clustertop/tokens.json if unset.
func DefaultTokenPath() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		dir = filepath.Join(os.Getenv("HOME"), ".config")
	}
	return filepath.Join(dir, "clustertop", "tokens.json")
}

// NewTokenStore creates a store backed by the given file path.
// An empty path selects the default location.
func NewTokenStore(path string) *TokenStore {
	if path == "" {
		path = DefaultTokenPath()
	}
	return &TokenStore{path: path}
}

// normalizeURL strips trailing slashes so saves and lookups agree on keys.
func normalizeURL(url string) string {
	return strings.TrimRight(url, "/")
}

// Load returns the entry saved for url, if any.
func (s *TokenStore) Load(url string) (TokenEntry, bool) {
	entries, err := s.read()
	if err != nil {
		return TokenEntry{}, false
	}
	e, ok := entries[normalizeURL(url)]
	return e, ok
}

// Save inserts or replaces the entry for url, keeping entries for other
// servers intact. The parent directory is created 0700 and the file written
// 0600: tokens are credentials.
func (s *TokenStore) Save(url, auth, refresh string) error {
	entries, err := s.read()
	if err != nil {
		entries = make(map[string]TokenEntry)
	}
	entries[normalizeURL(url)] = TokenEntry{
		Auth:    auth,
		Refresh: refresh,
		SavedAt: time.Now().Unix(),
	}
	return s.write(entries)
}

// Delete removes the entry for url. A missing file or entry is not an error.
func (s *TokenStore) Delete(url string) error {
	entries, err := s.read()
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		entries = make(map[string]TokenEntry)
	}
	delete(entries, normalizeURL(url))
	return s.write(entries)
}

func (s *TokenStore) read() (map[string]TokenEntry, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, err
	}
	var entries map[string]TokenEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, err
	}
	if entries == nil {
		entries = make(map[string]TokenEntry)
	}
	return entries, nil
}

func (s *TokenStore) write(entries map[string]TokenEntry) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("create token dir: %w", err)
	}
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("encode tokens: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("write tokens: %w", err)
	}
	return nil
}
