// internal/config/config.go
//
// This package handles configuration and the .todo directory structure.
// Every project that keeps a task list gets a .todo/ folder in its root.

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/kingrea/todo/internal/storage"
)

const (
	// TodoDir is the name of the directory we create in each project
	TodoDir = ".todo"

	defaultDataDir = "data"
	defaultTitle   = "To-Do"
)

// Environment overrides. Values in a project .env are applied only when the
// variable is not already set.
const (
	EnvDataDir    = "TODO_DATA_DIR"
	EnvStorageKey = "TODO_STORAGE_KEY"
)

const defaultProjectConfigYAML = `# todo project configuration
version: 1

# Where the task list snapshot lives. dir is relative to .todo/.
storage:
  dir: data
  key: todoTasks

ui:
  title: To-Do
  show_log: true
`

// StorageConfig locates the durable slot.
type StorageConfig struct {
	Dir string `yaml:"dir"`
	Key string `yaml:"key"`
}

// UIConfig tweaks the terminal view.
type UIConfig struct {
	Title   string `yaml:"title"`
	ShowLog *bool  `yaml:"show_log,omitempty"`
}

// ProjectConfig models .todo/config.yaml.
type ProjectConfig struct {
	Version int           `yaml:"version"`
	Storage StorageConfig `yaml:"storage"`
	UI      UIConfig      `yaml:"ui"`
}

// Config holds the runtime configuration.
type Config struct {
	// ProjectDir is the directory the user ran `todo` from
	ProjectDir string

	// TodoProjectDir is ProjectDir/.todo
	TodoProjectDir string

	Project ProjectConfig
}

// InitDir creates the .todo directory structure in projectDir.
//
// Structure created:
// .todo/
// ├── config.yaml
// ├── data/   <- slot files
// └── logs/   <- journal and process log
func InitDir(projectDir string) error {
	todoDir := filepath.Join(projectDir, TodoDir)
	dirs := []string{
		filepath.Join(todoDir, defaultDataDir),
		filepath.Join(todoDir, "logs"),
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return ensureProjectConfig(filepath.Join(todoDir, "config.yaml"))
}

// NewConfig loads the project .env (if any) and .todo/config.yaml.
func NewConfig(projectDir string) (*Config, error) {
	if err := loadDotEnv(projectDir); err != nil {
		return nil, err
	}
	cfg := &Config{
		ProjectDir:     projectDir,
		TodoProjectDir: filepath.Join(projectDir, TodoDir),
		Project:        defaultProjectConfig(),
	}
	if err := cfg.loadProjectConfig(); err != nil {
		return nil, err
	}
	cfg.applyEnvOverrides()
	if err := cfg.Project.validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

// DataDir returns the directory holding slot files.
func (c *Config) DataDir() string {
	return c.Project.Storage.Dir
}

// StorageKey returns the slot key of the task list.
func (c *Config) StorageKey() string {
	return c.Project.Storage.Key
}

// LogsDir returns the path to the logs directory
func (c *Config) LogsDir() string {
	return filepath.Join(c.TodoProjectDir, "logs")
}

// JournalPath returns the activity journal file.
func (c *Config) JournalPath() string {
	return filepath.Join(c.LogsDir(), "journal.log")
}

// ProjectConfigPath returns the on-disk location for the project config file.
func (c *Config) ProjectConfigPath() string {
	return filepath.Join(c.TodoProjectDir, "config.yaml")
}

// Title returns the heading shown above the list.
func (c *Config) Title() string {
	return c.Project.UI.Title
}

// ShowLog reports whether the TUI renders the journal panel.
func (c *Config) ShowLog() bool {
	if c.Project.UI.ShowLog == nil {
		return true
	}
	return *c.Project.UI.ShowLog
}

func (c *Config) loadProjectConfig() error {
	path := c.ProjectConfigPath()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			c.Project.normalize(c.TodoProjectDir)
			return nil
		}
		return fmt.Errorf("config: read %s: %w", path, err)
	}

	var parsed ProjectConfig
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}

	parsed.applyDefaults()
	parsed.normalize(c.TodoProjectDir)
	if err := parsed.validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	c.Project = parsed
	return nil
}

func (c *Config) applyEnvOverrides() {
	if dir := strings.TrimSpace(os.Getenv(EnvDataDir)); dir != "" {
		c.Project.Storage.Dir = resolvePath(c.TodoProjectDir, dir)
	}
	if key := strings.TrimSpace(os.Getenv(EnvStorageKey)); key != "" {
		c.Project.Storage.Key = key
	}
}

func defaultProjectConfig() ProjectConfig {
	return ProjectConfig{
		Version: 1,
		Storage: StorageConfig{Dir: defaultDataDir, Key: storage.DefaultKey},
		UI:      UIConfig{Title: defaultTitle},
	}
}

func (pc *ProjectConfig) applyDefaults() {
	if pc.Version == 0 {
		pc.Version = 1
	}
	if strings.TrimSpace(pc.Storage.Dir) == "" {
		pc.Storage.Dir = defaultDataDir
	}
	if strings.TrimSpace(pc.Storage.Key) == "" {
		pc.Storage.Key = storage.DefaultKey
	}
	if strings.TrimSpace(pc.UI.Title) == "" {
		pc.UI.Title = defaultTitle
	}
}

func (pc *ProjectConfig) normalize(base string) {
	pc.Storage.Dir = resolvePath(base, pc.Storage.Dir)
	pc.Storage.Key = strings.TrimSpace(pc.Storage.Key)
	pc.UI.Title = strings.TrimSpace(pc.UI.Title)
}

func (pc *ProjectConfig) validate() error {
	if pc.Version < 1 {
		return fmt.Errorf("config version must be >= 1")
	}
	if pc.Storage.Dir == "" {
		return fmt.Errorf("storage.dir is required")
	}
	if err := storage.ValidateKey(pc.Storage.Key); err != nil {
		return fmt.Errorf("storage.key: %w", err)
	}
	return nil
}

func resolvePath(base, candidate string) string {
	trimmed := strings.TrimSpace(candidate)
	if trimmed == "" {
		return ""
	}
	if filepath.IsAbs(trimmed) {
		return filepath.Clean(trimmed)
	}
	return filepath.Clean(filepath.Join(base, trimmed))
}

func ensureProjectConfig(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return os.WriteFile(path, []byte(defaultProjectConfigYAML), 0644)
}

// loadDotEnv applies <projectDir>/.env without overriding variables that
// are already set.
func loadDotEnv(projectDir string) error {
	path := filepath.Join(projectDir, ".env")
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("config: load %s: %w", path, err)
	}
	return nil
}
