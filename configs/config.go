package configs

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	DBDriver string `mapstructure:"DB_DRIVER"`
	DBSource string `mapstructure:"DB_SOURCE"`
	Port     string `mapstructure:"PORT"`
	LogLevel string `mapstructure:"LOG_LEVEL"`

	JWTSecret string        `mapstructure:"JWT_SECRET"`
	JWTTTL    time.Duration `mapstructure:"JWT_TTL"`

	RedisAddr      string        `mapstructure:"REDIS_ADDR"`
	IdempotencyTTL time.Duration `mapstructure:"IDEMPOTENCY_TTL"`

	ThrottleAnonPerMin int `mapstructure:"THROTTLE_ANON_PER_MIN"`
	ThrottleUserPerMin int `mapstructure:"THROTTLE_USER_PER_MIN"`

	KafkaBrokers string `mapstructure:"KAFKA_BROKERS"`
	KafkaTopic   string `mapstructure:"KAFKA_TOPIC"`

	TracingExporter string `mapstructure:"TRACING_EXPORTER"`
	OTLPEndpoint    string `mapstructure:"OTLP_ENDPOINT"`

	AdminUsername string `mapstructure:"ADMIN_USERNAME"`
	AdminPassword string `mapstructure:"ADMIN_PASSWORD"`
}

var defaults = map[string]any{
	"DB_DRIVER":             "sqlite",
	"DB_SOURCE":             "littlelemon.db",
	"PORT":                  "8000",
	"LOG_LEVEL":             "info",
	"JWT_SECRET":            "changeme",
	"JWT_TTL":               24 * time.Hour,
	"REDIS_ADDR":            "",
	"IDEMPOTENCY_TTL":       24 * time.Hour,
	"THROTTLE_ANON_PER_MIN": 30,
	"THROTTLE_USER_PER_MIN": 120,
	"KAFKA_BROKERS":         "",
	"KAFKA_TOPIC":           "littlelemon.orders",
	"TRACING_EXPORTER":      "none",
	"OTLP_ENDPOINT":         "localhost:4317",
	"ADMIN_USERNAME":        "",
	"ADMIN_PASSWORD":        "",
}

// LoadConfig reads .env (if present), then config.yaml (if present), then
// the environment. Later sources win.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./configs")
	for k, d := range defaults {
		v.SetDefault(k, d)
	}
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if cfg.JWTSecret == "changeme" {
		log.Println("warning: JWT_SECRET is the default value")
	}
	return &cfg, cfg.Validate()
}

func (c *Config) Validate() error {
	switch c.DBDriver {
	case "sqlite", "postgres", "mysql":
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
	if c.Port == "" {
		return errors.New("PORT is required")
	}
	if c.JWTTTL <= 0 {
		return errors.New("JWT_TTL must be positive")
	}
	return nil
}

func (c *Config) Brokers() []string {
	var out []string
	for _, b := range strings.Split(c.KafkaBrokers, ",") {
		if b = strings.TrimSpace(b); b != "" {
			out = append(out, b)
		}
	}
	return out
}
