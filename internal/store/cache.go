package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"lunarlog/internal/model"

	_ "modernc.org/sqlite"
)

// Cache persists the last successful collection load per backend, so a client
// started against an unreachable backend can still show the previous state.
// Writes are whole-snapshot replacements, mirroring the read-side consistency
// strategy (full replace, never merge).
type Cache struct {
	db *sql.DB
}

func cachePath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "cache.sqlite"), nil
}

// OpenCache opens (and if needed creates) the snapshot cache.
func OpenCache() (*Cache, error) {
	path, err := cachePath()
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open cache: %w", err)
	}
	// Single-writer usage; modernc's driver does not tolerate concurrent writes.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(`
CREATE TABLE IF NOT EXISTS snapshots (
  backend_url TEXT NOT NULL,
  collection  TEXT NOT NULL,
  payload     TEXT NOT NULL,
  saved_at    TEXT NOT NULL,
  PRIMARY KEY (backend_url, collection)
)`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init cache schema: %w", err)
	}
	return &Cache{db: db}, nil
}

func (c *Cache) Close() error {
	if c == nil || c.db == nil {
		return nil
	}
	return c.db.Close()
}

func (c *Cache) save(ctx context.Context, backendURL, collection string, v any) error {
	if c == nil || c.db == nil {
		return errors.New("cache is not open")
	}
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	_, err = c.db.ExecContext(ctx, `
INSERT INTO snapshots (backend_url, collection, payload, saved_at)
VALUES (?, ?, ?, ?)
ON CONFLICT (backend_url, collection) DO UPDATE SET
  payload = excluded.payload,
  saved_at = excluded.saved_at`,
		backendURL, collection, string(payload), time.Now().UTC().Format(time.RFC3339))
	return err
}

func (c *Cache) load(ctx context.Context, backendURL, collection string, v any) (time.Time, error) {
	if c == nil || c.db == nil {
		return time.Time{}, errors.New("cache is not open")
	}
	var payload, savedAt string
	err := c.db.QueryRowContext(ctx, `
SELECT payload, saved_at FROM snapshots WHERE backend_url = ? AND collection = ?`,
		backendURL, collection).Scan(&payload, &savedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, err
	}
	if err := json.Unmarshal([]byte(payload), v); err != nil {
		return time.Time{}, fmt.Errorf("decode snapshot: %w", err)
	}
	ts, _ := time.Parse(time.RFC3339, savedAt)
	return ts, nil
}

func (c *Cache) SaveProjects(ctx context.Context, backendURL string, projects []model.Project) error {
	return c.save(ctx, backendURL, model.EntityProject.String(), projects)
}

func (c *Cache) SaveLogs(ctx context.Context, backendURL string, logs []model.ObservationLog) error {
	return c.save(ctx, backendURL, model.EntityObservationLog.String(), logs)
}

// LoadProjects returns the cached projects snapshot and its save time; a zero
// time means no snapshot exists for this backend.
func (c *Cache) LoadProjects(ctx context.Context, backendURL string) ([]model.Project, time.Time, error) {
	var projects []model.Project
	ts, err := c.load(ctx, backendURL, model.EntityProject.String(), &projects)
	if err != nil {
		return nil, time.Time{}, err
	}
	return projects, ts, nil
}

func (c *Cache) LoadLogs(ctx context.Context, backendURL string) ([]model.ObservationLog, time.Time, error) {
	var logs []model.ObservationLog
	ts, err := c.load(ctx, backendURL, model.EntityObservationLog.String(), &logs)
	if err != nil {
		return nil, time.Time{}, err
	}
	return logs, ts, nil
}
