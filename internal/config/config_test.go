package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kingrea/todo/internal/storage"
)

func TestNewConfigDefaultsWhenMissing(t *testing.T) {
	projectDir := t.TempDir()
	clearEnv(t)
	c, err := NewConfig(projectDir)
	if err != nil {
		t.Fatalf("NewConfig returned error: %v", err)
	}
	if c.Project.Version != 1 {
		t.Fatalf("expected default version == 1, got %d", c.Project.Version)
	}
	if c.StorageKey() != storage.DefaultKey {
		t.Fatalf("expected default key %q, got %q", storage.DefaultKey, c.StorageKey())
	}
	if want := filepath.Join(projectDir, TodoDir, "data"); c.DataDir() != want {
		t.Fatalf("data dir = %s, want %s", c.DataDir(), want)
	}
	if !c.ShowLog() {
		t.Fatalf("log panel should default on")
	}
}

func TestInitDirWritesDefaultConfig(t *testing.T) {
	projectDir := t.TempDir()
	clearEnv(t)
	if err := InitDir(projectDir); err != nil {
		t.Fatalf("InitDir: %v", err)
	}
	for _, sub := range []string{"data", "logs"} {
		if info, err := os.Stat(filepath.Join(projectDir, TodoDir, sub)); err != nil || !info.IsDir() {
			t.Fatalf("expected %s dir, err=%v", sub, err)
		}
	}
	c, err := NewConfig(projectDir)
	if err != nil {
		t.Fatalf("NewConfig after init: %v", err)
	}
	if c.Title() != "To-Do" {
		t.Fatalf("title = %q", c.Title())
	}
	// a second init must not clobber edits
	custom := []byte("version: 1\nui:\n  title: Groceries\n")
	if err := os.WriteFile(c.ProjectConfigPath(), custom, 0644); err != nil {
		t.Fatal(err)
	}
	if err := InitDir(projectDir); err != nil {
		t.Fatalf("second InitDir: %v", err)
	}
	data, _ := os.ReadFile(c.ProjectConfigPath())
	if string(data) != string(custom) {
		t.Fatalf("InitDir overwrote existing config")
	}
}

func TestNewConfigParsesYaml(t *testing.T) {
	projectDir := t.TempDir()
	clearEnv(t)
	todoDir := filepath.Join(projectDir, TodoDir)
	if err := os.MkdirAll(todoDir, 0755); err != nil {
		t.Fatal(err)
	}
	configYAML := strings.TrimSpace(`
version: 1
storage:
  dir: ../shared
  key: groceries
ui:
  title: "  Groceries  "
  show_log: false
`)
	if err := os.WriteFile(filepath.Join(todoDir, "config.yaml"), []byte(configYAML), 0644); err != nil {
		t.Fatal(err)
	}
	c, err := NewConfig(projectDir)
	if err != nil {
		t.Fatalf("NewConfig returned error: %v", err)
	}
	if want := filepath.Join(projectDir, "shared"); c.DataDir() != want {
		t.Fatalf("data dir = %s, want %s", c.DataDir(), want)
	}
	if c.StorageKey() != "groceries" {
		t.Fatalf("key = %s", c.StorageKey())
	}
	if c.Title() != "Groceries" {
		t.Fatalf("title = %q", c.Title())
	}
	if c.ShowLog() {
		t.Fatalf("show_log: false was ignored")
	}
}

func TestNewConfigValidation(t *testing.T) {
	projectDir := t.TempDir()
	clearEnv(t)
	todoDir := filepath.Join(projectDir, TodoDir)
	if err := os.MkdirAll(todoDir, 0755); err != nil {
		t.Fatal(err)
	}
	configYAML := "version: 1\nstorage:\n  key: ../escape\n"
	if err := os.WriteFile(filepath.Join(todoDir, "config.yaml"), []byte(configYAML), 0644); err != nil {
		t.Fatal(err)
	}
	_, err := NewConfig(projectDir)
	if !errors.Is(err, storage.ErrInvalidKey) {
		t.Fatalf("expected ErrInvalidKey, got %v", err)
	}
}

func TestDotEnvOverridesStorage(t *testing.T) {
	projectDir := t.TempDir()
	clearEnv(t)
	env := "TODO_DATA_DIR=elsewhere\nTODO_STORAGE_KEY=fromEnv\n"
	if err := os.WriteFile(filepath.Join(projectDir, ".env"), []byte(env), 0644); err != nil {
		t.Fatal(err)
	}
	c, err := NewConfig(projectDir)
	if err != nil {
		t.Fatalf("NewConfig returned error: %v", err)
	}
	if c.StorageKey() != "fromEnv" {
		t.Fatalf("key = %s, want fromEnv", c.StorageKey())
	}
	if want := filepath.Join(projectDir, TodoDir, "elsewhere"); c.DataDir() != want {
		t.Fatalf("data dir = %s, want %s", c.DataDir(), want)
	}
}

func TestProcessEnvBeatsDotEnv(t *testing.T) {
	projectDir := t.TempDir()
	clearEnv(t)
	t.Setenv(EnvStorageKey, "fromProcess")
	if err := os.WriteFile(filepath.Join(projectDir, ".env"), []byte("TODO_STORAGE_KEY=fromFile\n"), 0644); err != nil {
		t.Fatal(err)
	}
	c, err := NewConfig(projectDir)
	if err != nil {
		t.Fatalf("NewConfig returned error: %v", err)
	}
	if c.StorageKey() != "fromProcess" {
		t.Fatalf("key = %s, want fromProcess", c.StorageKey())
	}
}

// clearEnv blanks the overrides for the test and restores them afterwards.
// godotenv sets variables through os.Setenv, so the cleanup also removes
// anything a .env file introduced.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{EnvDataDir, EnvStorageKey} {
		t.Setenv(key, "")
		if err := os.Unsetenv(key); err != nil {
			t.Fatal(err)
		}
	}
}
