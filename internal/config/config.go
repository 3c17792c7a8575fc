package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

// DatabaseConfig selects the persistence backend.
type DatabaseConfig struct {
	// Driver is "sqlite" (default) or "postgres".
	Driver string `yaml:"driver" json:"driver"`
	// Path is the SQLite database file (sqlite driver only).
	Path string `yaml:"path" json:"path"`
	// DSN is the connection string (postgres driver only).
	DSN string `yaml:"dsn" json:"dsn"`
}

// AIConfig holds settings for the external AI plan-drafting service.
type AIConfig struct {
	Endpoint string `yaml:"endpoint" json:"endpoint"`
	APIKey   string `yaml:"api_key" json:"-"`
}

// EmailConfig holds transactional email settings.
type EmailConfig struct {
	// Provider is "resend" or "noop" (default).
	Provider string `yaml:"provider" json:"provider"`
	APIKey   string `yaml:"api_key" json:"-"`
	// From is the sender address, e.g. "FitPlan <noreply@fitplan.app>".
	From    string `yaml:"from" json:"from"`
	ReplyTo string `yaml:"reply_to" json:"reply_to"`
}

// Config is the top-level application configuration.
type Config struct {
	// Listen is the HTTP listen address.
	Listen string `yaml:"listen" json:"listen"`

	// Env is "development" (default) or "production". Production requires
	// a CSRF key and enables secure cookies.
	Env string `yaml:"env" json:"env"`

	// BaseURL is the externally reachable URL used in activation links.
	BaseURL string `yaml:"base_url" json:"base_url"`

	// StaticDir is the directory served at /.
	StaticDir string `yaml:"static_dir" json:"static_dir"`

	Database DatabaseConfig `yaml:"database" json:"database"`

	// PlanSource is "template" (default) or "ai".
	PlanSource string `yaml:"plan_source" json:"plan_source"`

	AI    AIConfig    `yaml:"ai" json:"ai"`
	Email EmailConfig `yaml:"email" json:"email"`

	// ReminderCron is a 5-field cron expression for the milestone digest.
	ReminderCron string `yaml:"reminder_cron" json:"reminder_cron"`

	// ReminderWindowDays is how far ahead the digest looks.
	ReminderWindowDays int `yaml:"reminder_window_days" json:"reminder_window_days"`

	// CSRFKey is a 64-char hex string (32 bytes). Required in production.
	CSRFKey string `yaml:"csrf_key" json:"-"`
}

// DefaultConfig returns an in-memory default configuration.
func DefaultConfig() *Config {
	return &Config{
		Listen:    "127.0.0.1:8080",
		Env:       "development",
		BaseURL:   "http://localhost:8080",
		StaticDir: "static",
		Database: DatabaseConfig{
			Driver: "sqlite",
			Path:   "fitplan.db",
		},
		PlanSource: "template",
		Email: EmailConfig{
			Provider: "noop",
			From:     "FitPlan <noreply@fitplan.app>",
		},
		ReminderCron:       "0 8 * * *",
		ReminderWindowDays: 7,
	}
}

// Normalize fills in missing/zero values with sensible defaults so that
// partially-filled configs still behave correctly.
func (c *Config) Normalize() {
	if c.Listen == "" {
		c.Listen = "127.0.0.1:8080"
	}
	switch c.Env {
	case "development", "production":
	default:
		c.Env = "development"
	}
	if c.BaseURL == "" {
		c.BaseURL = "http://localhost:8080"
	}
	if c.StaticDir == "" {
		c.StaticDir = "static"
	}
	switch c.Database.Driver {
	case "sqlite", "postgres":
	default:
		c.Database.Driver = "sqlite"
	}
	if c.Database.Driver == "sqlite" && c.Database.Path == "" {
		c.Database.Path = "fitplan.db"
	}
	switch c.PlanSource {
	case "template", "ai":
	default:
		c.PlanSource = "template"
	}
	switch c.Email.Provider {
	case "noop", "resend":
	default:
		c.Email.Provider = "noop"
	}
	if c.Email.From == "" {
		c.Email.From = "FitPlan <noreply@fitplan.app>"
	}
	if c.ReminderCron == "" {
		c.ReminderCron = "0 8 * * *"
	}
	if c.ReminderWindowDays <= 0 {
		c.ReminderWindowDays = 7
	}
}

// applyEnvOverrides lets deployment environments override file settings
// without editing the config on disk. Secrets in particular are better
// passed through the environment.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("FITPLAN_LISTEN"); v != "" {
		c.Listen = v
	}
	if v := os.Getenv("FITPLAN_ENV"); v != "" {
		c.Env = v
	}
	if v := os.Getenv("FITPLAN_BASE_URL"); v != "" {
		c.BaseURL = v
	}
	if v := os.Getenv("FITPLAN_DB_DRIVER"); v != "" {
		c.Database.Driver = v
	}
	if v := os.Getenv("FITPLAN_DB_PATH"); v != "" {
		c.Database.Path = v
	}
	if v := os.Getenv("FITPLAN_DB_DSN"); v != "" {
		c.Database.DSN = v
	}
	if v := os.Getenv("FITPLAN_PLAN_SOURCE"); v != "" {
		c.PlanSource = v
	}
	if v := os.Getenv("FITPLAN_AI_ENDPOINT"); v != "" {
		c.AI.Endpoint = v
	}
	if v := os.Getenv("FITPLAN_AI_API_KEY"); v != "" {
		c.AI.APIKey = v
	}
	if v := os.Getenv("FITPLAN_EMAIL_PROVIDER"); v != "" {
		c.Email.Provider = v
	}
	if v := os.Getenv("FITPLAN_EMAIL_API_KEY"); v != "" {
		c.Email.APIKey = v
	}
	if v := os.Getenv("FITPLAN_EMAIL_FROM"); v != "" {
		c.Email.From = v
	}
	if v := os.Getenv("FITPLAN_REMINDER_CRON"); v != "" {
		c.ReminderCron = v
	}
	if v := os.Getenv("FITPLAN_REMINDER_WINDOW_DAYS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.ReminderWindowDays = n
		}
	}
	if v := os.Getenv("FITPLAN_CSRF_KEY"); v != "" {
		c.CSRFKey = v
	}
}

// Load loads configuration from the given YAML path.
//
// Behavior:
//   - If the file does not exist: create parent directory if needed, write a
//     default config with 0600 perms, and return the default config.
//   - If the file exists: read YAML, normalize defaults.
//   - FITPLAN_* environment variables override file values either way.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is empty")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			cfg := DefaultConfig()
			if err := Save(path, cfg); err != nil {
				return cfg, err
			}
			cfg.applyEnvOverrides()
			cfg.Normalize()
			return cfg, nil
		}
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.applyEnvOverrides()
	cfg.Normalize()

	return &cfg, nil
}

// Save writes the given configuration to the specified path.
// Parent directory is created with 0700; the file is written atomically
// via a temp file + rename and ends up with 0600 perms (it can hold secrets).
func Save(path string, cfg *Config) error {
	if path == "" {
		return errors.New("config path is empty")
	}
	if cfg == nil {
		return errors.New("config is nil")
	}

	cfg.Normalize()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".fitplan-config-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}
