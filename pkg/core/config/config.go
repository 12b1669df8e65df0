// Package config resolves dashboard settings: built-in defaults, then an
// optional YAML file, then DASHBOARD_* environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"

	"investor_dashboard/pkg/core/logging"
)

// DefaultPath is where Load looks for the YAML file when none is given.
const DefaultPath = "config/dashboard.yaml"

// Config holds the dashboard settings.
type Config struct {
	Addr              string        `yaml:"addr" json:"addr"`
	WorkbookPath      string        `yaml:"workbook" json:"workbook"`
	AssetsDir         string        `yaml:"assets_dir" json:"assets_dir"`
	ContentPath       string        `yaml:"content" json:"content,omitempty"`
	Reader            string        `yaml:"workbook_reader" json:"workbook_reader"`
	SessionTTL        time.Duration `yaml:"-" json:"session_ttl"`
	MaxUploadMB       int           `yaml:"max_upload_mb" json:"max_upload_mb"`
	EchartsAssetsHost string        `yaml:"echarts_assets_host" json:"echarts_assets_host,omitempty"`
}

// fileConfig mirrors Config with durations kept as text ("90m", "2h").
type fileConfig struct {
	Config     `yaml:",inline"`
	SessionTTL string `yaml:"session_ttl"`
}

// Defaults returns the settings used when nothing overrides them.
func Defaults() Config {
	return Config{
		Addr:         ":8080",
		WorkbookPath: "Financial_Model_Acai_Lite.xlsx",
		AssetsDir:    "assets_investor",
		Reader:       "excelize",
		SessionTTL:   2 * time.Hour,
		MaxUploadMB:  10,
	}
}

// MaxUploadBytes is the upload limit in bytes.
func (c Config) MaxUploadBytes() int64 {
	return int64(c.MaxUploadMB) << 20
}

// Load resolves the configuration. An empty path selects DefaultPath; a
// missing file is not an error. A .env file in the working directory is
// loaded into the environment first.
func Load(path string) (Config, error) {
	if err := godotenv.Load(); err == nil {
		logging.Logf("[CONFIG] loaded .env")
	}

	cfg := Defaults()
	if path == "" {
		path = DefaultPath
	}
	if err := applyFile(&cfg, path); err != nil {
		return cfg, err
	}
	if err := applyEnv(&cfg); err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate rejects settings the server cannot run with.
func (c Config) Validate() error {
	if c.Addr == "" {
		return errors.New("config: addr is empty")
	}
	if c.MaxUploadMB <= 0 {
		return fmt.Errorf("config: max_upload_mb must be positive, got %d", c.MaxUploadMB)
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("config: session_ttl must be positive, got %v", c.SessionTTL)
	}
	return nil
}

func applyFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("config: read %s: %w", path, err)
	}

	fc := fileConfig{Config: *cfg}
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}
	ttl := cfg.SessionTTL
	if fc.SessionTTL != "" {
		ttl, err = time.ParseDuration(fc.SessionTTL)
		if err != nil {
			return fmt.Errorf("config: session_ttl: %w", err)
		}
	}
	*cfg = fc.Config
	cfg.SessionTTL = ttl
	logging.Logf("[CONFIG] loaded %s", path)
	return nil
}

func applyEnv(cfg *Config) error {
	cfg.Addr = getenv("DASHBOARD_ADDR", cfg.Addr)
	cfg.WorkbookPath = getenv("DASHBOARD_WORKBOOK", cfg.WorkbookPath)
	cfg.AssetsDir = getenv("DASHBOARD_ASSETS_DIR", cfg.AssetsDir)
	cfg.ContentPath = getenv("DASHBOARD_CONTENT", cfg.ContentPath)
	cfg.Reader = getenv("DASHBOARD_READER", cfg.Reader)
	cfg.EchartsAssetsHost = getenv("DASHBOARD_ECHARTS_ASSETS", cfg.EchartsAssetsHost)

	if v := getenv("DASHBOARD_MAX_UPLOAD_MB", ""); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("config: DASHBOARD_MAX_UPLOAD_MB: %w", err)
		}
		cfg.MaxUploadMB = n
	}
	if v := getenv("DASHBOARD_SESSION_TTL", ""); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("config: DASHBOARD_SESSION_TTL: %w", err)
		}
		cfg.SessionTTL = d
	}
	return nil
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
