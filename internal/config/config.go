package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"kleinimg/internal/logging"

	"github.com/joho/godotenv"
)

const (
	appName               = "KleinIMG"
	defaultHTTPAddr       = "127.0.0.1:8787"
	defaultMaxUploadBytes = 25 << 20
)

// Config holds application configuration
type Config struct {
	WorkingDir     string
	AppDataDir     string
	DatabasePath   string
	StorageDir     string
	PublicBaseURL  string
	HTTPAddr       string
	MaxUploadBytes int64
	Logger         *slog.Logger
}

// New creates a new configuration instance.
// Values come from defaults, then an optional .env file, then KLEINIMG_* variables.
func New() *Config {
	cfg := &Config{
		AppDataDir:     getAppDataDir(),
		WorkingDir:     filepath.Join(os.TempDir(), "kleinimg"),
		HTTPAddr:       defaultHTTPAddr,
		MaxUploadBytes: defaultMaxUploadBytes,
		Logger:         logging.CreateLogger(),
	}

	cfg.loadDotEnv()
	cfg.applyEnv()
	cfg.setupDirectories()

	return cfg
}

// loadDotEnv reads .env from the app data dir and the cwd. Existing
// environment variables win over file values.
func (c *Config) loadDotEnv() {
	for _, path := range []string{filepath.Join(c.AppDataDir, ".env"), ".env"} {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			c.Logger.Warn("Failed to load env file", "path", path, "error", err)
			continue
		}
		c.Logger.Debug("Loaded env file", "path", path)
	}
}

func (c *Config) applyEnv() {
	if v := os.Getenv("KLEINIMG_APP_DATA_DIR"); v != "" {
		c.AppDataDir = v
	}
	if v := os.Getenv("KLEINIMG_WORKING_DIR"); v != "" {
		c.WorkingDir = v
	}
	if v := os.Getenv("KLEINIMG_STORAGE_DIR"); v != "" {
		c.StorageDir = v
	}
	if v := os.Getenv("KLEINIMG_PUBLIC_BASE_URL"); v != "" {
		c.PublicBaseURL = strings.TrimRight(v, "/")
	}
	if v := os.Getenv("KLEINIMG_HTTP_ADDR"); v != "" {
		c.HTTPAddr = v
	}
	if v := os.Getenv("KLEINIMG_MAX_UPLOAD_MB"); v != "" {
		if mb, err := strconv.ParseInt(v, 10, 64); err == nil && mb > 0 {
			c.MaxUploadBytes = mb << 20
		} else {
			c.Logger.Warn("Ignoring invalid KLEINIMG_MAX_UPLOAD_MB", "value", v)
		}
	}
}

func (c *Config) setupDirectories() {
	// Working directory holds per-file temp output
	os.MkdirAll(c.WorkingDir, 0755)

	// App data directory holds the database and published images
	os.MkdirAll(c.AppDataDir, 0755)

	c.DatabasePath = filepath.Join(c.AppDataDir, "database.sqlite3")

	if c.StorageDir == "" {
		c.StorageDir = filepath.Join(c.AppDataDir, "storage")
	}
	os.MkdirAll(c.StorageDir, 0755)
}

func getAppDataDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, appName)
	}
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, "."+strings.ToLower(appName))
}
