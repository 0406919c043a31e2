package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env  string
	Port int

	Store       StoreConfig
	Backup      BackupConfig
	Attachments AttachmentsConfig
	Exports     ExportsConfig
	Session     SessionConfig
	Log         LogConfig
}

// StoreConfig locates the SQLite case store.
type StoreConfig struct {
	Path        string
	BusyTimeout time.Duration
}

// BackupConfig controls snapshot rotation of the store file.
type BackupConfig struct {
	Dir      string
	Keep     int
	Interval time.Duration
}

// AttachmentsConfig holds the default copy destination and the settings
// side file through which the user can override it at runtime.
type AttachmentsConfig struct {
	DefaultDir   string
	SettingsFile string
}

// ExportsConfig locates generated CSV/PDF reports.
type ExportsConfig struct {
	Dir string
}

// SessionConfig configures the login session token.
type SessionConfig struct {
	Secret     string
	Expiration time.Duration
}

type LogConfig struct {
	Level  string
	Format string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")

	cfg.Store = StoreConfig{
		Path:        v.GetString("STORE_PATH"),
		BusyTimeout: parseDuration(v.GetString("STORE_BUSY_TIMEOUT"), 5*time.Second),
	}

	cfg.Backup = BackupConfig{
		Dir:      v.GetString("BACKUP_DIR"),
		Keep:     v.GetInt("BACKUP_KEEP"),
		Interval: parseDuration(v.GetString("BACKUP_INTERVAL"), 6*time.Hour),
	}

	cfg.Attachments = AttachmentsConfig{
		DefaultDir:   v.GetString("ATTACHMENTS_DIR"),
		SettingsFile: v.GetString("SETTINGS_FILE"),
	}

	cfg.Exports = ExportsConfig{
		Dir: v.GetString("EXPORTS_DIR"),
	}

	cfg.Session = SessionConfig{
		Secret:     v.GetString("SESSION_SECRET"),
		Expiration: parseDuration(v.GetString("SESSION_EXPIRATION"), 12*time.Hour),
	}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8750)

	v.SetDefault("STORE_PATH", "./data/customer_issues.db")
	v.SetDefault("STORE_BUSY_TIMEOUT", "5s")

	v.SetDefault("BACKUP_DIR", "./backups")
	v.SetDefault("BACKUP_KEEP", 5)
	v.SetDefault("BACKUP_INTERVAL", "6h")

	v.SetDefault("ATTACHMENTS_DIR", "./files")
	v.SetDefault("SETTINGS_FILE", "./config.json")

	v.SetDefault("EXPORTS_DIR", "./reports")

	v.SetDefault("SESSION_SECRET", "dev_secret")
	v.SetDefault("SESSION_EXPIRATION", "12h")

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}
