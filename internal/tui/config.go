package tui

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/lipgloss"
)

// ThemeConfig holds optional color overrides. Empty strings use ANSI defaults.
// Values can be ANSI numbers ("1"), 256-palette numbers ("196"), or hex ("#ff0000").
type ThemeConfig struct {
	Fg       string `toml:"fg"`
	FgDim    string `toml:"fg_dim"`
	Border   string `toml:"border"`
	Accent   string `toml:"accent"`
	Healthy  string `toml:"healthy"`
	Warning  string `toml:"warning"`
	Critical string `toml:"critical"`
}

// Config is the client-side configuration. CLI flags take precedence over
// any value set here.
type Config struct {
	URL     string      `toml:"url"`     // cluster API base URL
	Refresh int         `toml:"refresh"` // auto-refresh interval in seconds
	Theme   ThemeConfig `toml:"theme"`
}

// DefaultConfigPath returns $XDG_CONFIG_HOME/clustertop/config.toml,
// falling back to ~/.config/clustertop/config.toml if unset.
func DefaultConfigPath() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		dir = filepath.Join(os.Getenv("HOME"), ".config")
	}
	return filepath.Join(dir, "clustertop", "config.toml")
}

const defaultConfigContent = `# clustertop configuration.
# CLI flags override anything set here.
#
# url = "http://localhost:8080"
# refresh = 5        # auto-refresh interval in seconds, 0 disables
#
# [theme]
# Colors default to ANSI (0-15) so the TUI inherits your terminal theme.
# Override with ANSI numbers, 256-palette numbers, or hex values.
#
# fg = "7"           # normal white
# fg_dim = "8"       # bright black
# border = "8"       # bright black
# accent = "4"       # blue
# healthy = "2"      # green
# warning = "3"      # yellow
# critical = "1"     # red
`

// EnsureDefaultConfig creates the default config file if it does not exist.
// Returns the path to the config file.
func EnsureDefaultConfig(path string) (string, error) {
	if path == "" {
		path = DefaultConfigPath()
	}
	if _, err := os.Stat(path); err == nil {
		return path, nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return "", fmt.Errorf("stat config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("create config dir: %w", err)
	}
	if err := os.WriteFile(path, []byte(defaultConfigContent), 0o644); err != nil {
		return "", fmt.Errorf("write default config: %w", err)
	}
	return path, nil
}

// LoadConfig reads and parses a TOML config file.
func LoadConfig(path string) (*Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if cfg.Refresh < 0 {
		return nil, fmt.Errorf("load config: refresh must be >= 0, got %d", cfg.Refresh)
	}
	return &cfg, nil
}

// BuildTheme returns a Theme starting from ANSI defaults with any
// non-empty ThemeConfig fields applied as overrides.
func BuildTheme(tc ThemeConfig) Theme {
	t := DefaultTheme()
	override := func(dst *lipgloss.Color, src string) {
		if src != "" {
			*dst = lipgloss.Color(src)
		}
	}
	override(&t.Fg, tc.Fg)
	override(&t.FgDim, tc.FgDim)
	override(&t.Border, tc.Border)
	override(&t.Accent, tc.Accent)
	override(&t.Healthy, tc.Healthy)
	override(&t.Warning, tc.Warning)
	override(&t.Critical, tc.Critical)
	return t
}
