package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port           int           `yaml:"port"`
		AllowedOrigins []string      `yaml:"allowed_origins"`
		MaxUploadMB    int64         `yaml:"max_upload_mb"`
		WriteTimeout   time.Duration `yaml:"write_timeout"`
	} `yaml:"server"`

	Database struct {
		Driver      string `yaml:"driver"` // mysql | postgres
		Host        string `yaml:"host"`
		Port        int    `yaml:"port"`
		User        string `yaml:"user"`
		Password    string `yaml:"password"`
		Name        string `yaml:"name"`
		SSLMode     string `yaml:"sslmode"`
		AutoMigrate bool   `yaml:"auto_migrate"`
	} `yaml:"database"`

	// Endpoint kosong = archive media dimatikan
	Minio struct {
		Endpoint   string `yaml:"endpoint"`
		AccessKey  string `yaml:"accessKey"`
		SecretKey  string `yaml:"secretKey"`
		BucketName string `yaml:"bucketName"`
		Region     string `yaml:"region"`
		UseSSL     bool   `yaml:"useSSL"`
	} `yaml:"minio"`

	AI struct {
		Provider   string        `yaml:"provider"` // gemini | openai
		BaseURL    string        `yaml:"base_url"`
		APIKey     string        `yaml:"api_key"`
		APIVersion string        `yaml:"api_version"`
		Models     []string      `yaml:"models"`
		Timeout    time.Duration `yaml:"timeout"`
	} `yaml:"ai"`

	Auth struct {
		Secret   string        `yaml:"secret"`
		TokenTTL time.Duration `yaml:"token_ttl"`
	} `yaml:"auth"`

	Trend struct {
		FallbackUnits float64 `yaml:"fallback_units"`
		AverageUnits  float64 `yaml:"average_units"`
	} `yaml:"trend"`

	Analytics struct {
		SampleTotalUnits    float64 `yaml:"sample_total_units"`
		SamplePeakPenalties float64 `yaml:"sample_peak_penalties"`
	} `yaml:"analytics"`

	RateLimit struct {
		Capacity   int `yaml:"capacity"`
		RefillRate int `yaml:"refill_rate"` // tokens per second
	} `yaml:"rate_limit"`

	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"` // json | console
	} `yaml:"log"`
}

var DefaultModels = []string{"gemini-2.5-flash", "gemini-2.5-pro", "gemini-1.5-flash-002"}

// Load baca .env (kalau ada) lalu file config.yaml.
// A missing config file is fine; defaults and environment fill the rest.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	var cfg Config
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	case errors.Is(err, fs.ErrNotExist):
	default:
		return nil, err
	}

	cfg.applyEnv()
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyEnv() {
	if v := firstEnv("GEMINI_API_KEY", "AI_API_KEY"); v != "" {
		c.AI.APIKey = v
	}
	if v := os.Getenv("AUTH_SECRET"); v != "" {
		c.Auth.Secret = v
	}
	if v := os.Getenv("DATABASE_PASSWORD"); v != "" {
		c.Database.Password = v
	}
	if v := os.Getenv("MINIO_SECRET_KEY"); v != "" {
		c.Minio.SecretKey = v
	}
}

func firstEnv(keys ...string) string {
	for _, k := range keys {
		if v := strings.TrimSpace(os.Getenv(k)); v != "" {
			return v
		}
	}
	return ""
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.MaxUploadMB <= 0 {
		c.Server.MaxUploadMB = 10
	}
	if c.Server.WriteTimeout <= 0 {
		c.Server.WriteTimeout = 120 * time.Second
	}
	if c.Database.Driver == "" {
		c.Database.Driver = "mysql"
	}
	if c.Database.Host == "" {
		c.Database.Host = "localhost"
	}
	if c.Database.Port == 0 {
		if c.Database.Driver == "postgres" {
			c.Database.Port = 5432
		} else {
			c.Database.Port = 3306
		}
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = "disable"
	}
	if c.Minio.BucketName == "" {
		c.Minio.BucketName = "millwatt-media"
	}
	if c.AI.Provider == "" {
		c.AI.Provider = "gemini"
	}
	if c.AI.APIVersion == "" {
		c.AI.APIVersion = "v1"
	}
	if len(c.AI.Models) == 0 {
		c.AI.Models = append([]string(nil), DefaultModels...)
	}
	if c.AI.Timeout <= 0 {
		c.AI.Timeout = 30 * time.Second
	}
	if c.Auth.TokenTTL <= 0 {
		c.Auth.TokenTTL = 24 * time.Hour
	}
	if c.Trend.FallbackUnits <= 0 {
		c.Trend.FallbackUnits = 10000
	}
	if c.Trend.AverageUnits <= 0 {
		c.Trend.AverageUnits = 10000
	}
	if c.Analytics.SampleTotalUnits <= 0 {
		c.Analytics.SampleTotalUnits = 12500
	}
	if c.Analytics.SamplePeakPenalties <= 0 {
		c.Analytics.SamplePeakPenalties = 45000
	}
	if c.RateLimit.Capacity <= 0 {
		c.RateLimit.Capacity = 30
	}
	if c.RateLimit.RefillRate <= 0 {
		c.RateLimit.RefillRate = 1
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "json"
	}
}

// Validate rejects values no component can work with. A missing AI key is
// not an error here; the pipeline reports it per call as a configuration error.
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "mysql", "postgres":
	default:
		return fmt.Errorf("database.driver %q not supported (mysql, postgres)", c.Database.Driver)
	}
	switch c.AI.Provider {
	case "gemini", "openai":
	default:
		return fmt.Errorf("ai.provider %q not supported (gemini, openai)", c.AI.Provider)
	}
	for i, m := range c.AI.Models {
		if strings.TrimSpace(m) == "" {
			return fmt.Errorf("ai.models[%d] is empty", i)
		}
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		return fmt.Errorf("log.format %q not supported (json, console)", c.Log.Format)
	}
	return nil
}

// DSN builds the connection string for the configured driver.
func (c *Config) DSN() string {
	if c.Database.Driver == "postgres" {
		return c.PostgresDSN()
	}
	return c.MySQLDSN()
}

// Helper untuk build DSN MySQL
func (c *Config) MySQLDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true&charset=utf8mb4&loc=UTC",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
	)
}

func (c *Config) PostgresDSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// MinioEnabled reports whether uploaded media should be archived.
func (c *Config) MinioEnabled() bool { return strings.TrimSpace(c.Minio.Endpoint) != "" }
