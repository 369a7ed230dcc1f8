package store

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"lunarlog/internal/model"
)

// Config is the local client state kept under ~/.lunarlog. It carries the
// backend base URL plus the current session; entity data never lives here
// (the backend is the source of truth, the cache holds read snapshots).
type Config struct {
	BackendURL string `json:"backendUrl,omitempty"`

	// Token is the active session token, empty when logged out.
	Token string `json:"token,omitempty"`

	// User caches the session user so commands can show identity and the TUI
	// can gate the project form before the first /session/me round trip.
	User *model.User `json:"user,omitempty"`
}

func ConfigDir() (string, error) {
	// Test/advanced override (keeps unit tests from touching ~/.lunarlog).
	if v := strings.TrimSpace(os.Getenv("LUNARLOG_CONFIG_DIR")); v != "" {
		return v, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".lunarlog"), nil
}

func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

func LoadConfig() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, err
	}
	var cfg Config
	if err := json.Unmarshal(b, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func atomicWriteFile(dir, tmpPattern, path string, b []byte, perm os.FileMode) error {
	f, err := os.CreateTemp(dir, tmpPattern)
	if err != nil {
		return err
	}
	tmp := f.Name()
	defer func() { _ = os.Remove(tmp) }()
	if _, err := f.Write(b); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	_ = os.Chmod(tmp, perm)
	return os.Rename(tmp, path)
}

func SaveConfig(cfg *Config) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	b, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}

	// Best-effort safety net: keep the previous config around so a botched
	// login can be undone by hand. Ignore errors to avoid blocking logins.
	if prev, err := os.ReadFile(path); err == nil && len(prev) > 0 {
		_ = atomicWriteFile(dir, "config.json.bak.*.tmp", path+".bak", prev, 0o644)
	}

	// Unique temp file + atomic rename avoids corruption when the CLI and the
	// TUI write config concurrently.
	return atomicWriteFile(dir, "config.json.*.tmp", path, b, 0o600)
}

// ClearSession drops the token and cached user but keeps the backend URL.
func (c *Config) ClearSession() {
	c.Token = ""
	c.User = nil
}
