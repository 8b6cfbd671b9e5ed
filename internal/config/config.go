package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/cleared-dev/expenses/internal/model"
)

// FileName is the config file looked up in the data directory.
const FileName = "expenses.yaml"

// EnvDir names the environment variable that selects the data directory.
const EnvDir = "EXPENSES_DIR"

// Config represents expenses.yaml.
type Config struct {
	Files      FilesConfig `yaml:"files"`
	Categories []string    `yaml:"categories" validate:"required,min=1,dive,required"`
	LogLevel   string      `yaml:"log_level" validate:"oneof=debug info warn error"`
	Git        GitConfig   `yaml:"git"`
}

// FilesConfig names the storage files, relative to the data directory.
type FilesConfig struct {
	Expenses  string `yaml:"expenses" validate:"required"`
	Budgets   string `yaml:"budgets" validate:"required"`
	ExportDir string `yaml:"export_dir" validate:"required"`
}

// GitConfig controls git integration.
type GitConfig struct {
	AutoCommit  bool   `yaml:"auto_commit"`
	AuthorName  string `yaml:"author_name" validate:"required_if=AutoCommit true"`
	AuthorEmail string `yaml:"author_email" validate:"omitempty,email"`
}

var validate = validator.New()

// Load reads an expenses.yaml file from disk. Unset fields keep their defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadOrDefault reads dir/expenses.yaml, or returns defaults if it does not exist.
func LoadOrDefault(dir string) (*Config, error) {
	cfg, err := Load(filepath.Join(dir, FileName))
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Validate checks field constraints and reports every violation.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validating config: %w", err)
	}
	msgs := make([]string, len(verrs))
	for i, fe := range verrs {
		msgs[i] = fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag())
	}
	return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
}

// Default returns a Config with the standard file layout.
func Default() *Config {
	return &Config{
		Files: FilesConfig{
			Expenses:  "expenses.json",
			Budgets:   "budgets.json",
			ExportDir: ".",
		},
		Categories: slices.Clone(model.PredefinedCategories),
		LogLevel:   "warn",
		Git: GitConfig{
			AutoCommit:  false,
			AuthorName:  "Expenses",
			AuthorEmail: "expenses@example.com",
		},
	}
}

// HasCategory reports whether category is one of the configured categories.
func (c *Config) HasCategory(category string) bool {
	return slices.Contains(c.Categories, category)
}

// Path resolves a configured file name against the data directory.
func (c *Config) Path(dir, name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(dir, name)
}

// ResolveDir picks the data directory: the flag value if set, then
// EXPENSES_DIR from the environment or a .env file in the working
// directory, then ".".
func ResolveDir(flagValue string) (string, error) {
	dir := flagValue
	if dir == "" {
		// A missing .env is the normal case.
		_ = godotenv.Load()
		dir = os.Getenv(EnvDir)
	}
	if dir == "" {
		dir = "."
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolving data dir: %w", err)
	}
	return abs, nil
}
