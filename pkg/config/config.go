package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
	_ "time/tzdata"

	xutil "Velra/pkg/util"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// APIKeyEnvVars lists the accepted credential variables; the first non-empty one wins.
var APIKeyEnvVars = []string{"GEMINI_API_KEY", "GOOGLE_API_KEY"}

type Config struct {
	Environment string `yaml:"environment" default:"development" validate:"required"`
	Log         struct {
		Level  string `yaml:"level" default:"info" validate:"oneof=debug info warn error"`
		Format string `yaml:"format" default:"console" validate:"oneof=console json"`
		Output string `yaml:"output" default:"stdout" validate:"required"`
	} `yaml:"log"`
	Server struct {
		Host             string        `yaml:"host" default:"0.0.0.0"`
		Port             int           `yaml:"port" default:"5000" validate:"gte=1,lte=65535"`
		StaticDir        string        `yaml:"static_dir" default:"." validate:"required"`
		ReadTimeout      time.Duration `yaml:"read_timeout" default:"10s"`
		WriteTimeout     time.Duration `yaml:"write_timeout" default:"10s"`
		ShutdownTimeout  time.Duration `yaml:"shutdown_timeout" default:"10s"`
		RateLimitPerMin  int           `yaml:"rate_limit_per_min" default:"240" validate:"gte=0"`
		LivePollInterval time.Duration `yaml:"live_poll_interval" default:"5s" validate:"gt=0"`
		SlowRequest      time.Duration `yaml:"slow_request" default:"1s"`
	} `yaml:"server"`
	Metrics struct {
		Enabled bool `yaml:"enabled" default:"true"`
		Port    int  `yaml:"port" default:"9091" validate:"gte=1,lte=65535"`
	} `yaml:"metrics"`
	Snapshot struct {
		Path                string        `yaml:"path" default:"data.json" validate:"required"`
		Timezone            string        `yaml:"timezone" default:"Asia/Jakarta" validate:"required"`
		LivewireCapacity    int           `yaml:"livewire_capacity" default:"10" validate:"gte=1"`
		StaleAfter          time.Duration `yaml:"stale_after" default:"1h" validate:"gt=0"`
		PersistFirstFailure bool          `yaml:"persist_first_failure"`
	} `yaml:"snapshot"`
	Scheduler struct {
		PollInterval time.Duration `yaml:"poll_interval" default:"30s" validate:"gt=0"`
		Cooldown     time.Duration `yaml:"cooldown" default:"61s" validate:"gte=0"`
		LockTTL      time.Duration `yaml:"lock_ttl" default:"5m" validate:"gt=0"`
	} `yaml:"scheduler"`
	Gemini struct {
		APIKey     string        `yaml:"api_key"`
		BaseURL    string        `yaml:"base_url" default:"https://generativelanguage.googleapis.com/" validate:"url"`
		APIVersion string        `yaml:"api_version" default:"v1beta" validate:"required"`
		Model      string        `yaml:"model" default:"gemini-2.0-flash" validate:"required"`
		UseSearch  bool          `yaml:"use_search" default:"true"`
		Timeout    time.Duration `yaml:"timeout" default:"120s" validate:"gt=0"`
	} `yaml:"gemini"`
	Kafka struct {
		Brokers      []string      `yaml:"brokers"`
		Topic        string        `yaml:"topic" default:"velra.snapshot.refreshed"`
		LogsTopic    string        `yaml:"logs_topic" default:"velra.logs"`
		RequiredAcks int           `yaml:"required_acks" default:"-1" validate:"oneof=-1 0 1"`
		Compression  string        `yaml:"compression" default:"gzip" validate:"oneof=gzip snappy lz4 zstd"`
		MaxAttempts  int           `yaml:"max_attempts" default:"3" validate:"gte=1"`
		WriteTimeout time.Duration `yaml:"write_timeout" default:"10s"`
	} `yaml:"kafka"`
	Redis struct {
		Enabled  bool   `yaml:"enabled"`
		Host     string `yaml:"host" default:"localhost"`
		Port     int    `yaml:"port" default:"6379" validate:"gte=1,lte=65535"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db" validate:"gte=0"`
		Prefix   string `yaml:"prefix" default:"velra"`
	} `yaml:"redis"`
}

var validate = validator.New()

// Default returns a configuration populated only from struct defaults.
func Default() (*Config, error) {
	var c Config
	if err := defaults.Set(&c); err != nil {
		return nil, fmt.Errorf("apply defaults: %w", err)
	}
	return &c, nil
}

// Load reads a YAML configuration file on top of the defaults.
// A missing file yields the defaults unchanged.
func Load(path string) (*Config, error) {
	c, err := Default()
	if err != nil {
		return nil, err
	}

	b, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return c, nil
	case err != nil:
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := yaml.Unmarshal(b, c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return c, nil
}

// LoadWithEnv loads config from YAML, applies environment overrides and validates.
func LoadWithEnv(path string) (*Config, error) {
	c, err := Load(path)
	if err != nil {
		return nil, err
	}

	if v := xutil.FirstEnv(APIKeyEnvVars...); v != "" {
		c.Gemini.APIKey = v
	}
	if v := os.Getenv("PORT"); v != "" {
		c.Server.Port = xutil.ParseIntDefault(v, c.Server.Port)
	}
	if v := os.Getenv("SNAPSHOT_PATH"); v != "" {
		c.Snapshot.Path = v
	}
	if v := os.Getenv("STATIC_DIR"); v != "" {
		c.Server.StaticDir = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Log.Level = strings.ToLower(v)
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		c.Kafka.Brokers = strings.Split(v, ",")
	}
	if v := os.Getenv("REDIS_HOST"); v != "" {
		c.Redis.Host = v
		c.Redis.Enabled = true
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return c, nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return err
	}
	if _, err := time.LoadLocation(c.Snapshot.Timezone); err != nil {
		return fmt.Errorf("snapshot.timezone: %w", err)
	}
	return nil
}

// KafkaEnabled reports whether any broker is configured.
func (c *Config) KafkaEnabled() bool {
	for _, b := range c.Kafka.Brokers {
		if strings.TrimSpace(b) != "" {
			return true
		}
	}
	return false
}
