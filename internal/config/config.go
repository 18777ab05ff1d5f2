package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	JWT       JWTConfig       `yaml:"jwt"`
	OAuth     OAuthConfig     `yaml:"oauth"`
	Email     EmailConfig     `yaml:"email"`
	Push      PushConfig      `yaml:"push"`
	Storage   StorageConfig   `yaml:"storage"`
	Log       LogConfig       `yaml:"log"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Host                string   `yaml:"host"`
	Port                int      `yaml:"port" validate:"min=1,max=65535"`
	ClientURL           string   `yaml:"client_url"`
	AllowedOrigins      []string `yaml:"allowed_origins"`
	ReadTimeoutSeconds  int      `yaml:"read_timeout_seconds"`
	WriteTimeoutSeconds int      `yaml:"write_timeout_seconds"`
}

// DatabaseConfig selects the backing store and its connection settings
type DatabaseConfig struct {
	Driver string `yaml:"driver" validate:"oneof=mongo postgres"`

	// PostgreSQL
	Host         string `yaml:"host"`
	Port         int    `yaml:"port"`
	User         string `yaml:"user"`
	Password     string `yaml:"password"`
	Database     string `yaml:"database"`
	SSLMode      string `yaml:"ssl_mode"`
	MaxOpenConns int    `yaml:"max_open_conns"`
	MaxIdleConns int    `yaml:"max_idle_conns"`

	// MongoDB
	MongoURI              string `yaml:"mongo_uri"`
	MongoDatabase         string `yaml:"mongo_database"`
	ConnectTimeoutSeconds int    `yaml:"connect_timeout_seconds"`
}

// JWTConfig contains JWT token settings
type JWTConfig struct {
	Secret             string `yaml:"secret" validate:"min=32"`
	AccessTokenExpiry  int    `yaml:"access_token_expiry_minutes"`
	RefreshTokenExpiry int    `yaml:"refresh_token_expiry_minutes"`
}

// OAuthConfig contains Google sign-in settings. Sign-in is disabled when ClientID is empty.
type OAuthConfig struct {
	GoogleClientID     string `yaml:"google_client_id"`
	GoogleClientSecret string `yaml:"google_client_secret"`
	GoogleRedirectURL  string `yaml:"google_redirect_url"`
}

// EmailConfig selects the outbound email provider
type EmailConfig struct {
	Provider       string     `yaml:"provider" validate:"oneof=smtp sendgrid log"`
	From           string     `yaml:"from"`
	FromName       string     `yaml:"from_name"`
	SMTP           SMTPConfig `yaml:"smtp"`
	SendGridAPIKey string     `yaml:"sendgrid_api_key"`
}

// SMTPConfig contains SMTP relay settings
type SMTPConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
}

// PushConfig contains Firebase Cloud Messaging settings
type PushConfig struct {
	Enabled         bool   `yaml:"enabled"`
	ProjectID       string `yaml:"project_id"`
	CredentialsFile string `yaml:"credentials_file"`
}

// StorageConfig contains media storage settings
type StorageConfig struct {
	Type         string   `yaml:"type" validate:"oneof=local"`
	UploadDir    string   `yaml:"upload_dir"`
	BaseURL      string   `yaml:"base_url"`
	MaxFileSize  int64    `yaml:"max_file_size_mb"`
	AllowedTypes []string `yaml:"allowed_types"`
}

// LogConfig contains logging settings
type LogConfig struct {
	Level  string `yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `yaml:"format"` // "json" or "text"
}

// SchedulerConfig contains cron schedule settings
type SchedulerConfig struct {
	PurgeResetTokens        string `yaml:"purge_reset_tokens"`
	SendAttendanceReminders string `yaml:"send_attendance_reminders"`
	AttendanceLookbackHours int    `yaml:"attendance_lookback_hours"`
}

var validate = validator.New()

// Load reads configuration from a YAML file. A missing file is not an error
// so the service can be configured from the environment alone.
func Load(configPath string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(configPath)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	case os.IsNotExist(err):
	default:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg.overrideWithEnv()
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

func envString(key string, dst *string) {
	if val := os.Getenv(key); val != "" {
		*dst = val
	}
}

func envInt(key string, dst *int) {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			*dst = n
		}
	}
}

func envBool(key string, dst *bool) {
	if val := os.Getenv(key); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			*dst = b
		}
	}
}

// overrideWithEnv overrides config values with environment variables
func (c *Config) overrideWithEnv() {
	// Server
	envString("SERVER_HOST", &c.Server.Host)
	envInt("SERVER_PORT", &c.Server.Port)
	envInt("PORT", &c.Server.Port)
	envString("CLIENT_URL", &c.Server.ClientURL)
	if val := os.Getenv("ALLOWED_ORIGINS"); val != "" {
		c.Server.AllowedOrigins = strings.Split(val, ",")
	}

	// Database
	envString("DB_DRIVER", &c.Database.Driver)
	envString("DB_HOST", &c.Database.Host)
	envInt("DB_PORT", &c.Database.Port)
	envString("DB_USER", &c.Database.User)
	envString("DB_PASSWORD", &c.Database.Password)
	envString("DB_NAME", &c.Database.Database)
	envString("DB_SSL_MODE", &c.Database.SSLMode)
	envString("MONGO_URI", &c.Database.MongoURI)
	envString("MONGO_DATABASE", &c.Database.MongoDatabase)

	// JWT
	envString("JWT_SECRET", &c.JWT.Secret)

	// OAuth
	envString("GOOGLE_CLIENT_ID", &c.OAuth.GoogleClientID)
	envString("GOOGLE_CLIENT_SECRET", &c.OAuth.GoogleClientSecret)
	envString("GOOGLE_REDIRECT_URL", &c.OAuth.GoogleRedirectURL)

	// Email
	envString("EMAIL_PROVIDER", &c.Email.Provider)
	envString("EMAIL_FROM", &c.Email.From)
	envString("SMTP_HOST", &c.Email.SMTP.Host)
	envInt("SMTP_PORT", &c.Email.SMTP.Port)
	envString("SMTP_USER", &c.Email.SMTP.User)
	envString("SMTP_PASSWORD", &c.Email.SMTP.Password)
	envString("SENDGRID_API_KEY", &c.Email.SendGridAPIKey)

	// Push
	envBool("PUSH_ENABLED", &c.Push.Enabled)
	envString("FIREBASE_PROJECT_ID", &c.Push.ProjectID)
	envString("FIREBASE_CREDENTIALS_FILE", &c.Push.CredentialsFile)

	// Storage
	envString("UPLOAD_DIR", &c.Storage.UploadDir)
	envString("STORAGE_BASE_URL", &c.Storage.BaseURL)

	// Log
	envString("LOG_LEVEL", &c.Log.Level)
	envString("LOG_FORMAT", &c.Log.Format)
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 5000
	}
	if c.Server.ClientURL == "" {
		c.Server.ClientURL = "http://localhost:3000"
	}
	if len(c.Server.AllowedOrigins) == 0 {
		c.Server.AllowedOrigins = []string{c.Server.ClientURL}
	}
	if c.Server.ReadTimeoutSeconds == 0 {
		c.Server.ReadTimeoutSeconds = 15
	}
	if c.Server.WriteTimeoutSeconds == 0 {
		c.Server.WriteTimeoutSeconds = 30
	}

	if c.Database.Driver == "" {
		c.Database.Driver = "mongo"
	}
	if c.Database.MongoURI == "" {
		c.Database.MongoURI = "mongodb://localhost:27017"
	}
	if c.Database.MongoDatabase == "" {
		c.Database.MongoDatabase = "volunteer_hub"
	}
	if c.Database.ConnectTimeoutSeconds == 0 {
		c.Database.ConnectTimeoutSeconds = 10
	}
	if c.Database.Port == 0 {
		c.Database.Port = 5432
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = "disable"
	}

	if c.JWT.AccessTokenExpiry == 0 {
		c.JWT.AccessTokenExpiry = 60
	}
	if c.JWT.RefreshTokenExpiry == 0 {
		c.JWT.RefreshTokenExpiry = 7 * 24 * 60
	}

	if c.Email.Provider == "" {
		c.Email.Provider = "log"
	}
	if c.Email.From == "" {
		c.Email.From = "no-reply@volunteerhub.local"
	}
	if c.Email.FromName == "" {
		c.Email.FromName = "Volunteer Hub"
	}
	if c.Email.SMTP.Port == 0 {
		c.Email.SMTP.Port = 587
	}

	if c.Storage.Type == "" {
		c.Storage.Type = "local"
	}
	if c.Storage.UploadDir == "" {
		c.Storage.UploadDir = "./uploads"
	}
	if c.Storage.MaxFileSize == 0 {
		c.Storage.MaxFileSize = 5
	}
	if len(c.Storage.AllowedTypes) == 0 {
		c.Storage.AllowedTypes = []string{"image/jpeg", "image/png", "image/gif", "image/webp"}
	}

	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}

	if c.Scheduler.PurgeResetTokens == "" {
		c.Scheduler.PurgeResetTokens = "0 0 * * * *" // hourly
	}
	if c.Scheduler.SendAttendanceReminders == "" {
		c.Scheduler.SendAttendanceReminders = "0 0 9 * * *" // 9 AM UTC
	}
	if c.Scheduler.AttendanceLookbackHours == 0 {
		c.Scheduler.AttendanceLookbackHours = 24
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return err
	}

	switch c.Database.Driver {
	case "postgres":
		if c.Database.Host == "" {
			return fmt.Errorf("database host is required")
		}
		if c.Database.User == "" {
			return fmt.Errorf("database user is required")
		}
		if c.Database.Database == "" {
			return fmt.Errorf("database name is required")
		}
	case "mongo":
		if c.Database.MongoURI == "" {
			return fmt.Errorf("mongo uri is required")
		}
	}

	switch c.Email.Provider {
	case "smtp":
		if c.Email.SMTP.Host == "" {
			return fmt.Errorf("SMTP host is required")
		}
		if c.Email.SMTP.Port <= 0 || c.Email.SMTP.Port > 65535 {
			return fmt.Errorf("invalid SMTP port: %d", c.Email.SMTP.Port)
		}
	case "sendgrid":
		if c.Email.SendGridAPIKey == "" {
			return fmt.Errorf("SendGrid API key is required")
		}
	}

	if c.OAuth.GoogleClientID != "" && (c.OAuth.GoogleClientSecret == "" || c.OAuth.GoogleRedirectURL == "") {
		return fmt.Errorf("google client secret and redirect URL are required when google sign-in is enabled")
	}

	if c.Push.Enabled && c.Push.ProjectID == "" {
		return fmt.Errorf("firebase project id is required when push is enabled")
	}
	return nil
}

// GetDatabaseConnectionString returns a PostgreSQL connection string
func (c *Config) GetDatabaseConnectionString() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Database,
		c.Database.SSLMode,
	)
}

// GetServerAddress returns the HTTP listen address
func (c *Config) GetServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

func (c *Config) AccessTokenTTL() time.Duration {
	return time.Duration(c.JWT.AccessTokenExpiry) * time.Minute
}

func (c *Config) RefreshTokenTTL() time.Duration {
	return time.Duration(c.JWT.RefreshTokenExpiry) * time.Minute
}

func (c *Config) MongoConnectTimeout() time.Duration {
	return time.Duration(c.Database.ConnectTimeoutSeconds) * time.Second
}

// GoogleSignInEnabled reports whether OAuth credentials are configured.
func (c *Config) GoogleSignInEnabled() bool {
	return c.OAuth.GoogleClientID != ""
}
