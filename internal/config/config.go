package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Auth     AuthConfig     `yaml:"auth"`
	WhatsApp WhatsAppConfig `yaml:"whatsapp"`
	Uploads  UploadsConfig  `yaml:"uploads"`
	Search   SearchConfig   `yaml:"search"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Port        string   `yaml:"port"`
	CORSOrigins []string `yaml:"cors_origins"`
}

// DatabaseConfig contains database settings
type DatabaseConfig struct {
	Type     string         `yaml:"type"` // mysql, postgres or sqlite
	MySQL    MySQLConfig    `yaml:"mysql"`
	Postgres PostgresConfig `yaml:"postgres"`
	SQLite   SQLiteConfig   `yaml:"sqlite"`
}

// MySQLConfig contains MySQL connection settings
type MySQLConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
}

// PostgresConfig contains PostgreSQL connection settings
type PostgresConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
	SSLMode  string `yaml:"sslmode"`
}

// SQLiteConfig contains the SQLite database file location
type SQLiteConfig struct {
	Path string `yaml:"path"`
}

// AuthConfig contains the admin credentials and token signing settings
type AuthConfig struct {
	AdminUser       string `yaml:"admin_user"`
	AdminPassword   string `yaml:"admin_password"`
	SecretKey       string `yaml:"secret_key"`
	TokenTTLMinutes int    `yaml:"token_ttl_minutes"`
}

// WhatsAppConfig contains the Graph API relay settings
type WhatsAppConfig struct {
	Token          string `yaml:"token"`
	PhoneNumberID  string `yaml:"phone_number_id"`
	GraphBase      string `yaml:"graph_base"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// UploadsConfig contains image upload settings
type UploadsConfig struct {
	Dir          string `yaml:"dir"`
	MaxSizeBytes int64  `yaml:"max_size_bytes"`
}

// SearchConfig contains search engine settings
type SearchConfig struct {
	Meilisearch MeilisearchConfig `yaml:"meilisearch"`
}

// MeilisearchConfig contains Meilisearch connection settings.
// An empty host disables the index.
type MeilisearchConfig struct {
	Host   string `yaml:"host"`
	APIKey string `yaml:"api_key"`
	Index  string `yaml:"index"`
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// DefaultConfig returns default configuration
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:        "8000",
			CORSOrigins: []string{"*"},
		},
		Database: DatabaseConfig{
			Type: "sqlite",
			MySQL: MySQLConfig{
				Host:     "mysql",
				Port:     3306,
				User:     "crm_user",
				Password: "crm_pass",
				Database: "crm_db",
			},
			Postgres: PostgresConfig{
				Host:     "db",
				Port:     5432,
				User:     "crm_user",
				Password: "crm_pass",
				Database: "crm_db",
				SSLMode:  "disable",
			},
			SQLite: SQLiteConfig{Path: "data/crm.db"},
		},
		Auth: AuthConfig{
			AdminUser:       "pietro",
			AdminPassword:   "pietro",
			SecretKey:       "supersecret-pietro",
			TokenTTLMinutes: 24 * 60,
		},
		WhatsApp: WhatsAppConfig{
			GraphBase:      "https://graph.facebook.com/v17.0",
			TimeoutSeconds: 20,
		},
		Uploads: UploadsConfig{
			Dir:          "uploads",
			MaxSizeBytes: 10 << 20,
		},
		Search: SearchConfig{
			Meilisearch: MeilisearchConfig{Index: "clients"},
		},
		Logging: LoggingConfig{Level: "info"},
	}
}

// LoadConfig loads configuration from a YAML file and applies environment overrides
func LoadConfig(filepath string) (*Config, error) {
	// Start with default config
	config := DefaultConfig()

	if _, err := os.Stat(filepath); err == nil {
		data, err := os.ReadFile(filepath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}

	config.ApplyEnv()
	return config, nil
}

// ApplyEnv overrides file values with environment variables when they are set
func (c *Config) ApplyEnv() {
	c.Server.Port = getEnvOrConfig(c.Server.Port, "PORT")
	if origins := os.Getenv("CORS_ORIGINS"); origins != "" {
		c.Server.CORSOrigins = splitList(origins)
	}

	c.Database.Type = getEnvOrConfig(c.Database.Type, "DB_TYPE")
	switch c.Database.Type {
	case "mysql":
		m := &c.Database.MySQL
		m.Host = getEnvOrConfig(m.Host, "DB_HOST")
		m.Port = getEnvIntOrConfig(m.Port, "DB_PORT")
		m.User = getEnvOrConfig(m.User, "DB_USER")
		m.Password = getEnvOrConfig(m.Password, "DB_PASSWORD")
		m.Database = getEnvOrConfig(m.Database, "DB_NAME")
	case "postgres":
		p := &c.Database.Postgres
		p.Host = getEnvOrConfig(p.Host, "DB_HOST")
		p.Port = getEnvIntOrConfig(p.Port, "DB_PORT")
		p.User = getEnvOrConfig(p.User, "DB_USER")
		p.Password = getEnvOrConfig(p.Password, "DB_PASSWORD")
		p.Database = getEnvOrConfig(p.Database, "DB_NAME")
	}
	c.Database.SQLite.Path = getEnvOrConfig(c.Database.SQLite.Path, "SQLITE_PATH")

	c.Auth.AdminUser = getEnvOrConfig(c.Auth.AdminUser, "ADMIN_USER")
	c.Auth.AdminPassword = getEnvOrConfig(c.Auth.AdminPassword, "ADMIN_PASSWORD")
	c.Auth.SecretKey = getEnvOrConfig(c.Auth.SecretKey, "SECRET_KEY")

	c.WhatsApp.Token = getEnvOrConfig(c.WhatsApp.Token, "WHATSAPP_TOKEN")
	c.WhatsApp.PhoneNumberID = getEnvOrConfig(c.WhatsApp.PhoneNumberID, "PHONE_NUMBER_ID")
	c.WhatsApp.GraphBase = getEnvOrConfig(c.WhatsApp.GraphBase, "WHATSAPP_GRAPH_BASE")

	c.Uploads.Dir = getEnvOrConfig(c.Uploads.Dir, "UPLOAD_DIR")

	c.Search.Meilisearch.Host = getEnvOrConfig(c.Search.Meilisearch.Host, "MEILISEARCH_HOST")
	c.Search.Meilisearch.APIKey = getEnvOrConfig(c.Search.Meilisearch.APIKey, "MEILISEARCH_KEY")

	c.Logging.Level = getEnvOrConfig(c.Logging.Level, "LOG_LEVEL")
}

// TokenTTL returns the bearer token lifetime as a duration
func (c *AuthConfig) TokenTTL() time.Duration {
	if c.TokenTTLMinutes <= 0 {
		return 24 * time.Hour
	}
	return time.Duration(c.TokenTTLMinutes) * time.Minute
}

// GetTimeout returns the outbound HTTP timeout as a duration
func (c *WhatsAppConfig) GetTimeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// Configured reports whether the relay credentials are present
func (c *WhatsAppConfig) Configured() bool {
	return c.Token != "" && c.PhoneNumberID != ""
}

// Enabled reports whether a Meilisearch host was configured
func (c *MeilisearchConfig) Enabled() bool {
	return c.Host != ""
}

// getEnvOrConfig returns the environment value if set, otherwise the config value
func getEnvOrConfig(configValue, envKey string) string {
	if value := os.Getenv(envKey); value != "" {
		return value
	}
	return configValue
}

func getEnvIntOrConfig(configValue int, envKey string) int {
	if value := os.Getenv(envKey); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return configValue
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
