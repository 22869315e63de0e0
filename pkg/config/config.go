package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"LaunchCast/pkg/util"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// EnvPrefix namespaces every environment override.
const EnvPrefix = "LAUNCHCAST_"

type Config struct {
	Environment string          `yaml:"environment" default:"development" validate:"required,oneof=development staging production test"`
	Server      ServerConfig    `yaml:"server"`
	Log         LogConfig       `yaml:"log"`
	Metrics     MetricsConfig   `yaml:"metrics"`
	Engine      EngineConfig    `yaml:"engine"`
	Lookup      LookupConfig    `yaml:"lookup"`
	Cache       CacheConfig     `yaml:"cache"`
	Kafka       KafkaConfig     `yaml:"kafka"`
	RateLimit   RateLimitConfig `yaml:"rate_limit"`
}

type ServerConfig struct {
	Port            int           `yaml:"port" default:"8080" validate:"gt=0,lte=65535"`
	ReadTimeout     time.Duration `yaml:"read_timeout" default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" default:"30s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" default:"15s"`
	BodyLimit       string        `yaml:"body_limit" default:"2M"`
}

type LogConfig struct {
	Level  string `yaml:"level" default:"info" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" default:"json" validate:"oneof=json console"`
	Output string `yaml:"output" default:"stdout"`
}

type MetricsConfig struct {
	Enabled bool   `yaml:"enabled" default:"true"`
	Path    string `yaml:"path" default:"/metrics"`
}

// EngineConfig holds the server-wide defaults for per-call engine knobs.
type EngineConfig struct {
	LookbackMonths          int      `yaml:"lookback_months" default:"36" validate:"gte=1,lte=120"`
	HorizonMonths           int      `yaml:"horizon_months" default:"12" validate:"gte=1,lte=60"`
	TopN                    int      `yaml:"top_n" default:"10" validate:"gte=1,lte=100"`
	IncompatibilitySeverity float64  `yaml:"incompatibility_severity" default:"0.05" validate:"gt=0,lte=1"`
	VarianceAmplitude       float64  `yaml:"variance_amplitude" default:"0.1" validate:"gte=0,lte=0.5"`
	Seed                    int64    `yaml:"seed"`
	FutureProducts          []string `yaml:"future_products"`
}

type LookupConfig struct {
	Timeout time.Duration  `yaml:"timeout" default:"5s"`
	Sources []SourceConfig `yaml:"sources" validate:"dive"`
}

type SourceConfig struct {
	Name string `yaml:"name" validate:"required"`
	Type string `yaml:"type" validate:"required,oneof=http static"`
	URL  string `yaml:"url" validate:"required_if=Type http"`
	File string `yaml:"file" validate:"required_if=Type static"`
}

type CacheConfig struct {
	Enabled bool          `yaml:"enabled"`
	Backend string        `yaml:"backend" default:"memory" validate:"oneof=memory redis"`
	TTL     time.Duration `yaml:"ttl" default:"15m"`
	Redis   RedisConfig   `yaml:"redis"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr" default:"localhost:6379"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type KafkaConfig struct {
	Enabled      bool     `yaml:"enabled"`
	Brokers      []string `yaml:"brokers"`
	Topic        string   `yaml:"topic" default:"launchcast.plans"`
	RequiredAcks int      `yaml:"required_acks" default:"-1"`
	Compression  string   `yaml:"compression" default:"gzip" validate:"oneof=gzip snappy lz4 zstd"`
	Producer     struct {
		MaxAttempts  int           `yaml:"max_attempts" default:"3"`
		Linger       time.Duration `yaml:"linger" default:"500ms"`
		BatchBytes   int           `yaml:"batch_bytes" default:"1048576"`
		BatchSize    int           `yaml:"batch_size" default:"50"`
		WriteTimeout time.Duration `yaml:"write_timeout" default:"10s"`
		ReadTimeout  time.Duration `yaml:"read_timeout" default:"10s"`
		Async        bool          `yaml:"async"`
	} `yaml:"producer"`
}

type RateLimitConfig struct {
	Enabled bool    `yaml:"enabled" default:"true"`
	Rate    float64 `yaml:"rate" default:"5" validate:"gt=0"`
	Burst   int     `yaml:"burst" default:"10" validate:"gt=0"`
}

// Default returns a config populated only from default tags.
func Default() *Config {
	var c Config
	_ = defaults.Set(&c)
	return &c
}

// Load reads and parses a YAML configuration file. Fields the file leaves out
// keep their defaults.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Parse(b)
}

// Parse decodes YAML over the defaults and validates the result.
func Parse(b []byte) (*Config, error) {
	c := Default()
	if err := yaml.Unmarshal(b, c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return c, nil
}

// LoadWithEnv loads a .env file when present, then config from YAML, then
// applies LAUNCHCAST_* environment overrides.
func LoadWithEnv(path string) (*Config, error) {
	_ = godotenv.Load()

	c, err := Load(path)
	if err != nil {
		return nil, err
	}
	c.ApplyEnv(os.Getenv)
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return c, nil
}

// ApplyEnv overrides fields from environment variables read through getenv.
func (c *Config) ApplyEnv(getenv func(string) string) {
	env := func(key string) string { return strings.TrimSpace(getenv(EnvPrefix + key)) }

	if v := env("ENV"); v != "" {
		c.Environment = v
	}
	if v := env("PORT"); v != "" {
		c.Server.Port = util.ParseIntDefault(v, c.Server.Port)
	}
	if v := env("LOG_LEVEL"); v != "" {
		c.Log.Level = strings.ToLower(v)
	}
	if v := env("LOG_FORMAT"); v != "" {
		c.Log.Format = strings.ToLower(v)
	}
	if v := env("CACHE_ENABLED"); v != "" {
		c.Cache.Enabled = v == "true" || v == "1"
	}
	if v := env("REDIS_ADDR"); v != "" {
		c.Cache.Redis.Addr = v
	}
	if v := env("REDIS_PASSWORD"); v != "" {
		c.Cache.Redis.Password = v
	}
	if v := env("KAFKA_BROKERS"); v != "" {
		c.Kafka.Brokers = util.SplitCSV(v)
	}
	if v := env("KAFKA_TOPIC"); v != "" {
		c.Kafka.Topic = v
	}
	if v := env("KAFKA_ENABLED"); v != "" {
		c.Kafka.Enabled = v == "true" || v == "1"
	}
	if v := env("FUTURE_PRODUCTS"); v != "" {
		c.Engine.FutureProducts = util.SplitCSV(v)
	}
	if v := env("RATE_LIMIT"); v != "" {
		c.RateLimit.Rate = util.ParseFloatDefault(v, c.RateLimit.Rate)
	}
	if v := env("SEED"); v != "" {
		c.Engine.Seed = int64(util.ParseIntDefault(v, int(c.Engine.Seed)))
	}
}

var validate = validator.New()

// Validate checks struct tags plus the cross-field rules tags cannot express.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return err
	}
	if c.Kafka.Enabled {
		if len(c.Kafka.Brokers) == 0 {
			return fmt.Errorf("kafka.brokers cannot be empty when kafka is enabled")
		}
		if c.Kafka.Topic == "" {
			return fmt.Errorf("kafka.topic is required when kafka is enabled")
		}
	}
	if c.Cache.Enabled && c.Cache.Backend == "redis" && c.Cache.Redis.Addr == "" {
		return fmt.Errorf("cache.redis.addr is required for the redis backend")
	}
	seen := make(map[string]struct{}, len(c.Lookup.Sources))
	for _, s := range c.Lookup.Sources {
		if _, dup := seen[s.Name]; dup {
			return fmt.Errorf("lookup source %q declared twice", s.Name)
		}
		seen[s.Name] = struct{}{}
	}
	return nil
}
