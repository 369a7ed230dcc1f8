package store

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"lunarlog/internal/model"
)

func TestConfigRoundTrip(t *testing.T) {
	t.Setenv("LUNARLOG_CONFIG_DIR", t.TempDir())

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("load empty config: %v", err)
	}
	if cfg.Token != "" || cfg.User != nil {
		t.Fatalf("fresh config should be empty, got %+v", cfg)
	}

	cfg.BackendURL = "http://localhost:1111"
	cfg.Token = "tok-123"
	cfg.User = &model.User{ID: "usr-1", Name: "Ada", Role: model.RoleLeadScientist}
	if err := SaveConfig(cfg); err != nil {
		t.Fatalf("save config: %v", err)
	}

	loaded, err := LoadConfig()
	if err != nil {
		t.Fatalf("reload config: %v", err)
	}
	if loaded.Token != "tok-123" || loaded.User == nil || loaded.User.Role != model.RoleLeadScientist {
		t.Fatalf("loaded = %+v", loaded)
	}

	loaded.ClearSession()
	if loaded.Token != "" || loaded.User != nil {
		t.Fatalf("clear session left %+v", loaded)
	}
	if loaded.BackendURL != "http://localhost:1111" {
		t.Fatalf("clear session must keep backend url, got %q", loaded.BackendURL)
	}
}

func TestSaveConfigKeepsBackup(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("LUNARLOG_CONFIG_DIR", dir)

	first := &Config{Token: "tok-old"}
	if err := SaveConfig(first); err != nil {
		t.Fatalf("save: %v", err)
	}
	second := &Config{Token: "tok-new"}
	if err := SaveConfig(second); err != nil {
		t.Fatalf("resave: %v", err)
	}
	b, err := os.ReadFile(filepath.Join(dir, "config.json.bak"))
	if err != nil {
		t.Fatalf("read backup: %v", err)
	}
	if !strings.Contains(string(b), "tok-old") {
		t.Fatalf("backup should hold previous config, got %s", b)
	}
}
