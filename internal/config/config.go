// Package config loads runtime settings from .env, a YAML file and
// environment variables, in that order of precedence (lowest first).
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"BERTool/internal/calc/ber"
	"BERTool/internal/calc/tables"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const DefaultPath = "configs/config.yaml"

type Config struct {
	Env      string         `yaml:"env"`
	HTTP     HTTPConfig     `yaml:"http"`
	Auth     AuthConfig     `yaml:"auth"`
	Database DatabaseConfig `yaml:"database"`
	Log      LogConfig      `yaml:"log"`
	Engine   EngineConfig   `yaml:"engine"`
	Batch    BatchConfig    `yaml:"batch"`
}

type HTTPConfig struct {
	Address         string          `yaml:"address"`
	ReadTimeout     time.Duration   `yaml:"readTimeout"`
	WriteTimeout    time.Duration   `yaml:"writeTimeout"`
	ShutdownTimeout time.Duration   `yaml:"shutdownTimeout"`
	TLSCert         string          `yaml:"tlsCert"`
	TLSKey          string          `yaml:"tlsKey"`
	RateLimit       RateLimitConfig `yaml:"rateLimit"`
	AllowedOrigin   string          `yaml:"allowedOrigin"`
}

type RateLimitConfig struct {
	RequestsPerSecond float64 `yaml:"requestsPerSecond"`
	Burst             int     `yaml:"burst"`
}

type AuthConfig struct {
	TokenKey     string        `yaml:"tokenKey"`
	TokenTTL     time.Duration `yaml:"tokenTtl"`
	SecureCookie bool          `yaml:"secureCookie"`
}

// DatabaseConfig selects the repository. An empty URL keeps users and
// assessments in memory.
type DatabaseConfig struct {
	URL string `yaml:"url"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type EngineConfig struct {
	PrimaryEnergyFactor  float64            `yaml:"primaryEnergyFactor"`
	PrimaryEnergyFactors map[string]float64 `yaml:"primaryEnergyFactors"`
	// PrimaryEnergyProfile "seai" seeds the per-system factors; explicit
	// PrimaryEnergyFactors entries still win.
	PrimaryEnergyProfile string `yaml:"primaryEnergyProfile"`
	CorrectedVolume      bool   `yaml:"correctedVolume"`
}

type BatchConfig struct {
	Concurrency int `yaml:"concurrency"`
}

// Load reads .env (if present), then CONFIG_PATH or configs/config.yaml (if
// present), then environment overrides, and validates the result.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := defaultConfig()
	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if err := hydrateFromFile(cfg, path); err != nil {
			return nil, err
		}
	} else if _, err := os.Stat(DefaultPath); err == nil {
		if err := hydrateFromFile(cfg, DefaultPath); err != nil {
			return nil, err
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func hydrateFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("APP_ENV"); v != "" {
		cfg.Env = v
	}
	if v := os.Getenv("HTTP_ADDR"); v != "" {
		cfg.HTTP.Address = v
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.Database.URL = v
	}
	if v := os.Getenv("TOKEN_KEY"); v != "" {
		cfg.Auth.TokenKey = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
	if v := os.Getenv("PRIMARY_ENERGY_FACTOR"); v != "" {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Engine.PrimaryEnergyFactor = parsed
		}
	}
	if v := os.Getenv("PRIMARY_ENERGY_PROFILE"); v != "" {
		cfg.Engine.PrimaryEnergyProfile = v
	}
	if v := os.Getenv("CORRECTED_VOLUME"); v != "" {
		cfg.Engine.CorrectedVolume = v == "1" || strings.EqualFold(v, "true")
	}
	if v := os.Getenv("BATCH_CONCURRENCY"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Batch.Concurrency = parsed
		}
	}
}

func defaultConfig() *Config {
	return &Config{
		Env: "development",
		HTTP: HTTPConfig{
			Address:         ":8080",
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 5 * time.Second,
			RateLimit: RateLimitConfig{
				RequestsPerSecond: 5,
				Burst:             20,
			},
			AllowedOrigin: "*",
		},
		Auth: AuthConfig{
			TokenTTL: 30 * 24 * time.Hour,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Batch: BatchConfig{
			Concurrency: 8,
		},
	}
}

// Validate checks the loaded configuration.
func (c *Config) Validate() error {
	var problems []string
	if strings.TrimSpace(c.HTTP.Address) == "" {
		problems = append(problems, "http.address is required")
	}
	if (c.HTTP.TLSCert == "") != (c.HTTP.TLSKey == "") {
		problems = append(problems, "http.tlsCert and http.tlsKey must be set together")
	}
	if c.HTTP.RateLimit.RequestsPerSecond <= 0 || c.HTTP.RateLimit.Burst <= 0 {
		problems = append(problems, "http.rateLimit values must be positive")
	}
	if c.Auth.TokenKey == "" {
		problems = append(problems, "auth.tokenKey (TOKEN_KEY) is required")
	}
	if c.Auth.TokenTTL <= 0 {
		problems = append(problems, "auth.tokenTtl must be positive")
	}
	if c.Engine.PrimaryEnergyFactor < 0 {
		problems = append(problems, "engine.primaryEnergyFactor must not be negative")
	}
	if p := c.Engine.PrimaryEnergyProfile; p != "" && !strings.EqualFold(p, "seai") {
		problems = append(problems, fmt.Sprintf("engine.primaryEnergyProfile %q is unknown", p))
	}
	for name, f := range c.Engine.PrimaryEnergyFactors {
		if _, err := tables.ParseHeatingSystem(name); err != nil {
			problems = append(problems, "engine.primaryEnergyFactors: "+err.Error())
		} else if f <= 0 {
			problems = append(problems, fmt.Sprintf("engine.primaryEnergyFactors[%s] must be positive", name))
		}
	}
	if c.Batch.Concurrency <= 0 {
		problems = append(problems, "batch.concurrency must be positive")
	}
	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

// EngineOptions converts the engine section into calculator options.
func (c *Config) EngineOptions() (ber.Options, error) {
	opts := ber.Options{
		PrimaryEnergyFactor:  c.Engine.PrimaryEnergyFactor,
		PrimaryEnergyFactors: map[tables.HeatingSystem]float64{},
		CorrectedVolume:      c.Engine.CorrectedVolume,
	}
	if strings.EqualFold(c.Engine.PrimaryEnergyProfile, "seai") {
		for k, v := range tables.SEAIPrimaryEnergyFactors {
			opts.PrimaryEnergyFactors[k] = v
		}
	}
	for name, f := range c.Engine.PrimaryEnergyFactors {
		h, err := tables.ParseHeatingSystem(name)
		if err != nil {
			return ber.Options{}, err
		}
		opts.PrimaryEnergyFactors[h] = f
	}
	return opts, nil
}

// IsDevelopment reports whether the service runs in development mode.
func (c *Config) IsDevelopment() bool {
	return strings.EqualFold(c.Env, "development")
}
