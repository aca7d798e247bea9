package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server ServerConfig
	DB     DBConfig
	LLM    LLMConfig
	Redis  RedisConfig
	Cache  CacheConfig
	Logger LoggerConfig
	CORS   CORSConfig
}

type ServerConfig struct {
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	BodyLimitMB  int
}

type DBConfig struct {
	Driver        string // sqlite | postgres
	DSN           string
	AutoMigrate   bool
	MigrationsDir string
}

type LLMConfig struct {
	Provider         string // openai | ollama | gemini
	Model            string
	APIKey           string
	ServerURL        string // ollama endpoint, or an OpenAI-compatible base URL
	Timeout          time.Duration
	Temperature      float64
	StrictValidation bool
}

type RedisConfig struct {
	Address  string
	Password string
	DB       int
}

type CacheConfig struct {
	GenerationTTL time.Duration
}

type LoggerConfig struct {
	Level string
	Env   string
}

type CORSConfig struct {
	AllowOrigins string
}

var defaultModels = map[string]string{
	"openai": "gpt-4o-mini",
	"ollama": "qwen3:0.6b",
	"gemini": "gemini-2.0-flash",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 5001)
	v.SetDefault("server.read_timeout", "20s")
	v.SetDefault("server.write_timeout", "120s")
	v.SetDefault("server.body_limit_mb", 20)

	v.SetDefault("db.driver", "sqlite")
	v.SetDefault("db.dsn", "file:studybuddy.db?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)")
	v.SetDefault("db.auto_migrate", true)

	v.SetDefault("llm.provider", "openai")
	v.SetDefault("llm.timeout", "90s")
	v.SetDefault("llm.temperature", 0.5)
	v.SetDefault("llm.strict_validation", false)

	v.SetDefault("redis.db", 0)
	v.SetDefault("cache.generation_ttl", "24h")

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.env", "development")

	v.SetDefault("cors.allow_origins", "*")
}

// LoadConfig reads config.yaml (if present) and applies APP_* environment
// overrides, e.g. APP_LLM_PROVIDER or APP_DB_DSN.
func LoadConfig(paths ...string) (*Config, error) {
	cfg, err := load(paths)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadDBConfig loads the same sources as LoadConfig but only validates the
// database section, for tools that never call a model.
func LoadDBConfig(paths ...string) (DBConfig, error) {
	cfg, err := load(paths)
	if err != nil {
		return DBConfig{}, err
	}
	if err := cfg.DB.Validate(); err != nil {
		return DBConfig{}, err
	}
	return cfg.DB, nil
}

func load(paths []string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	if len(paths) == 0 {
		paths = []string{".", "./config", "./configs"}
	}
	for _, p := range paths {
		v.AddConfigPath(p)
	}

	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if configFile := v.ConfigFileUsed(); configFile != "" {
		absPath, _ := filepath.Abs(configFile)
		fmt.Printf("Using config file: %s\n", absPath)
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:         v.GetInt("server.port"),
			ReadTimeout:  v.GetDuration("server.read_timeout"),
			WriteTimeout: v.GetDuration("server.write_timeout"),
			BodyLimitMB:  v.GetInt("server.body_limit_mb"),
		},
		DB: DBConfig{
			Driver:        v.GetString("db.driver"),
			DSN:           v.GetString("db.dsn"),
			AutoMigrate:   v.GetBool("db.auto_migrate"),
			MigrationsDir: v.GetString("db.migrations_dir"),
		},
		LLM: LLMConfig{
			Provider:         strings.ToLower(v.GetString("llm.provider")),
			Model:            v.GetString("llm.model"),
			APIKey:           v.GetString("llm.api_key"),
			ServerURL:        v.GetString("llm.server_url"),
			Timeout:          v.GetDuration("llm.timeout"),
			Temperature:      v.GetFloat64("llm.temperature"),
			StrictValidation: v.GetBool("llm.strict_validation"),
		},
		Redis: RedisConfig{
			Address:  v.GetString("redis.address"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
		Cache: CacheConfig{
			GenerationTTL: v.GetDuration("cache.generation_ttl"),
		},
		Logger: LoggerConfig{
			Level: v.GetString("logger.level"),
			Env:   v.GetString("logger.env"),
		},
		CORS: CORSConfig{
			AllowOrigins: v.GetString("cors.allow_origins"),
		},
	}

	if cfg.LLM.Model == "" {
		cfg.LLM.Model = defaultModels[cfg.LLM.Provider]
	}

	// Keys the original deployment kept in .env
	if cfg.LLM.APIKey == "" {
		switch cfg.LLM.Provider {
		case "openai":
			cfg.LLM.APIKey = firstEnv("OPENAI_API_KEY", "OPEN_API_KEY")
		case "gemini":
			cfg.LLM.APIKey = firstEnv("GEMINI_API_KEY", "GOOGLE_API_KEY")
		}
	}

	return cfg, nil
}

// Validate checks settings that have no usable default.
func (c *Config) Validate() error {
	if err := c.DB.Validate(); err != nil {
		return err
	}
	switch c.LLM.Provider {
	case "openai", "gemini":
		if c.LLM.APIKey == "" {
			return fmt.Errorf("llm.api_key is required for provider %q", c.LLM.Provider)
		}
	case "ollama":
	default:
		return fmt.Errorf("unsupported llm.provider %q", c.LLM.Provider)
	}
	if c.LLM.Timeout <= 0 {
		return errors.New("llm.timeout must be positive")
	}
	return nil
}

func (d DBConfig) Validate() error {
	switch d.Driver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("unsupported db.driver %q", d.Driver)
	}
	if d.DSN == "" {
		return errors.New("db.dsn is required")
	}
	return nil
}

func firstEnv(keys ...string) string {
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}
	return ""
}
