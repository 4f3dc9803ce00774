// Package config loads the DiscoverMe server configuration from defaults,
// an optional YAML file, and environment variable overrides (in that order).
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is the full application configuration.
type Config struct {
	Server  ServerConfig  `yaml:"server" json:"server"`
	Storage StorageConfig `yaml:"storage" json:"storage"`
	Redis   RedisConfig   `yaml:"redis" json:"redis"`
	Search  SearchConfig  `yaml:"search" json:"search"`
	Profile ProfileConfig `yaml:"profile" json:"profile"`
	Logging LoggingConfig `yaml:"logging" json:"logging"`
}

// ServerConfig controls the transport the MCP server runs on.
type ServerConfig struct {
	Mode         string `yaml:"mode" json:"mode"` // "stdio" or "http"
	Host         string `yaml:"host" json:"host"`
	Port         int    `yaml:"port" json:"port"`
	ReadTimeout  int    `yaml:"read_timeout_seconds" json:"read_timeout_seconds"`
	WriteTimeout int    `yaml:"write_timeout_seconds" json:"write_timeout_seconds"`
}

// StorageConfig selects and configures the profile store.
type StorageConfig struct {
	Provider string `yaml:"provider" json:"provider"` // "sqlite" or "memory"
	Path     string `yaml:"path" json:"path"`         // sqlite database file
}

// RedisConfig configures the optional read-through profile cache.
type RedisConfig struct {
	Enabled    bool   `yaml:"enabled" json:"enabled"`
	Addr       string `yaml:"addr" json:"addr"`
	Password   string `yaml:"-" json:"-"` // never serialized
	DB         int    `yaml:"db" json:"db"`
	TTLSeconds int    `yaml:"ttl_seconds" json:"ttl_seconds"`
}

// SearchConfig carries the relevance-scoring weight table and result limits.
type SearchConfig struct {
	BaseWeight         float64 `yaml:"base_weight" json:"base_weight"`
	NameMatchWeight    float64 `yaml:"name_match_weight" json:"name_match_weight"`
	SkillRatioWeight   float64 `yaml:"skill_ratio_weight" json:"skill_ratio_weight"`
	CompanyMatchWeight float64 `yaml:"company_match_weight" json:"company_match_weight"`
	OpenToWorkWeight   float64 `yaml:"open_to_work_weight" json:"open_to_work_weight"`
	DefaultLimit       int     `yaml:"default_limit" json:"default_limit"`
}

// ProfileConfig holds profile-surface settings.
type ProfileConfig struct {
	// DefaultProfileID is the profile served when a request omits an ID.
	DefaultProfileID string `yaml:"default_profile_id" json:"default_profile_id"`
}

// LoggingConfig controls log output.
type LoggingConfig struct {
	Level  string `yaml:"level" json:"level"`
	Format string `yaml:"format" json:"format"` // "json" or "text"
}

// DefaultConfig returns the configuration used when nothing else is set.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Mode:         "stdio",
			Host:         "localhost",
			Port:         8080,
			ReadTimeout:  30,
			WriteTimeout: 30,
		},
		Storage: StorageConfig{
			Provider: "sqlite",
			Path:     "./data/discoverme.db",
		},
		Redis: RedisConfig{
			Enabled:    false,
			Addr:       "localhost:6379",
			DB:         0,
			TTLSeconds: 300,
		},
		Search: SearchConfig{
			BaseWeight:         0.5,
			NameMatchWeight:    0.3,
			SkillRatioWeight:   0.3,
			CompanyMatchWeight: 0.2,
			OpenToWorkWeight:   0.1,
			DefaultLimit:       10,
		},
		Profile: ProfileConfig{
			DefaultProfileID: "default-user",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// LoadConfig builds the configuration from defaults, the optional YAML file
// named by DISCOVERME_CONFIG, and environment variable overrides.
func LoadConfig() (*Config, error) {
	// .env is optional
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("error loading .env file: %w", err)
		}
	}

	config := DefaultConfig()

	if path := os.Getenv("DISCOVERME_CONFIG"); path != "" {
		if err := loadFromFile(config, path); err != nil {
			return nil, err
		}
	}

	loadFromEnv(config)

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// loadFromFile overlays a YAML config file onto the current config.
func loadFromFile(config *Config, path string) error {
	data, err := os.ReadFile(path) // #nosec G304 -- operator-provided path
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, config); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

func loadFromEnv(config *Config) {
	loadServerConfig(config)
	loadStorageConfig(config)
	loadRedisConfig(config)
	loadSearchConfig(config)
	loadProfileConfig(config)
	loadLoggingConfig(config)
}

func loadServerConfig(config *Config) {
	if mode := os.Getenv("DISCOVERME_MODE"); mode != "" {
		config.Server.Mode = mode
	}
	if host := os.Getenv("DISCOVERME_HOST"); host != "" {
		config.Server.Host = host
	}
	if port := os.Getenv("DISCOVERME_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}
	if readTimeout := os.Getenv("DISCOVERME_READ_TIMEOUT_SECONDS"); readTimeout != "" {
		if rt, err := strconv.Atoi(readTimeout); err == nil {
			config.Server.ReadTimeout = rt
		}
	}
	if writeTimeout := os.Getenv("DISCOVERME_WRITE_TIMEOUT_SECONDS"); writeTimeout != "" {
		if wt, err := strconv.Atoi(writeTimeout); err == nil {
			config.Server.WriteTimeout = wt
		}
	}
}

func loadStorageConfig(config *Config) {
	if provider := os.Getenv("DISCOVERME_STORAGE_PROVIDER"); provider != "" {
		config.Storage.Provider = provider
	}
	if path := os.Getenv("DISCOVERME_STORAGE_PATH"); path != "" {
		config.Storage.Path = path
	}
}

func loadRedisConfig(config *Config) {
	if enabled := os.Getenv("DISCOVERME_REDIS_ENABLED"); enabled != "" {
		if e, err := strconv.ParseBool(enabled); err == nil {
			config.Redis.Enabled = e
		}
	}
	if addr := os.Getenv("DISCOVERME_REDIS_ADDR"); addr != "" {
		config.Redis.Addr = addr
	}
	if password := os.Getenv("DISCOVERME_REDIS_PASSWORD"); password != "" {
		config.Redis.Password = password
	}
	if db := os.Getenv("DISCOVERME_REDIS_DB"); db != "" {
		if d, err := strconv.Atoi(db); err == nil {
			config.Redis.DB = d
		}
	}
	if ttl := os.Getenv("DISCOVERME_REDIS_TTL_SECONDS"); ttl != "" {
		if t, err := strconv.Atoi(ttl); err == nil {
			config.Redis.TTLSeconds = t
		}
	}
}

func loadSearchConfig(config *Config) {
	if base := os.Getenv("DISCOVERME_SEARCH_BASE_WEIGHT"); base != "" {
		if b, err := strconv.ParseFloat(base, 64); err == nil {
			config.Search.BaseWeight = b
		}
	}
	if name := os.Getenv("DISCOVERME_SEARCH_NAME_WEIGHT"); name != "" {
		if n, err := strconv.ParseFloat(name, 64); err == nil {
			config.Search.NameMatchWeight = n
		}
	}
	if skill := os.Getenv("DISCOVERME_SEARCH_SKILL_WEIGHT"); skill != "" {
		if s, err := strconv.ParseFloat(skill, 64); err == nil {
			config.Search.SkillRatioWeight = s
		}
	}
	if company := os.Getenv("DISCOVERME_SEARCH_COMPANY_WEIGHT"); company != "" {
		if c, err := strconv.ParseFloat(company, 64); err == nil {
			config.Search.CompanyMatchWeight = c
		}
	}
	if open := os.Getenv("DISCOVERME_SEARCH_OPEN_TO_WORK_WEIGHT"); open != "" {
		if o, err := strconv.ParseFloat(open, 64); err == nil {
			config.Search.OpenToWorkWeight = o
		}
	}
	if limit := os.Getenv("DISCOVERME_SEARCH_DEFAULT_LIMIT"); limit != "" {
		if l, err := strconv.Atoi(limit); err == nil {
			config.Search.DefaultLimit = l
		}
	}
}

func loadProfileConfig(config *Config) {
	if id := os.Getenv("DISCOVERME_DEFAULT_PROFILE_ID"); id != "" {
		config.Profile.DefaultProfileID = id
	}
}

func loadLoggingConfig(config *Config) {
	if level := os.Getenv("DISCOVERME_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
	if format := os.Getenv("DISCOVERME_LOG_FORMAT"); format != "" {
		config.Logging.Format = format
	}
}

// Validate checks the configuration for contradictions.
func (c *Config) Validate() error {
	if c.Server.Mode != "stdio" && c.Server.Mode != "http" {
		return fmt.Errorf("invalid server mode: %q (want stdio or http)", c.Server.Mode)
	}
	if c.Server.Mode == "http" {
		if c.Server.Port < 1 || c.Server.Port > 65535 {
			return fmt.Errorf("invalid server port: %d", c.Server.Port)
		}
		if c.Server.Host == "" {
			return fmt.Errorf("server host cannot be empty")
		}
	}

	switch c.Storage.Provider {
	case "sqlite":
		if c.Storage.Path == "" {
			return fmt.Errorf("sqlite storage requires a database path")
		}
	case "memory":
	default:
		return fmt.Errorf("invalid storage provider: %q (want sqlite or memory)", c.Storage.Provider)
	}

	if c.Redis.Enabled {
		if c.Redis.Addr == "" {
			return fmt.Errorf("redis address cannot be empty when the cache is enabled")
		}
		if c.Redis.TTLSeconds <= 0 {
			return fmt.Errorf("redis ttl must be positive, got %d", c.Redis.TTLSeconds)
		}
	}

	for name, w := range map[string]float64{
		"base_weight":          c.Search.BaseWeight,
		"name_match_weight":    c.Search.NameMatchWeight,
		"skill_ratio_weight":   c.Search.SkillRatioWeight,
		"company_match_weight": c.Search.CompanyMatchWeight,
		"open_to_work_weight":  c.Search.OpenToWorkWeight,
	} {
		if w < 0 || w > 1 {
			return fmt.Errorf("search %s must be between 0 and 1, got %v", name, w)
		}
	}
	if c.Search.DefaultLimit <= 0 {
		return fmt.Errorf("search default limit must be positive, got %d", c.Search.DefaultLimit)
	}

	if c.Profile.DefaultProfileID == "" {
		return fmt.Errorf("default profile id cannot be empty")
	}

	return nil
}
