package config

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix is prepended to every environment variable, e.g. CART_TAX.
const EnvPrefix = "CART"

type Config struct {
	// Tax is the default tax rate in percent applied to every added item.
	Tax             float64       `envconfig:"TAX" default:"21" validate:"gte=0,lte=100"`
	Format          FormatConfig  `envconfig:"FORMAT"`
	DestroyOnLogout bool          `envconfig:"DESTROY_ON_LOGOUT" default:"false"`
	Guard           string        `envconfig:"GUARD" default:"web"`
	Session         SessionConfig `envconfig:"SESSION"`
	Log             LogConfig     `envconfig:"LOG"`
}

type FormatConfig struct {
	Decimals          int    `envconfig:"DECIMALS" default:"2" validate:"gte=0,lte=12"`
	DecimalPoint      string `envconfig:"DECIMAL_POINT" default:"."`
	ThousandSeparator string `envconfig:"THOUSAND_SEPARATOR" default:","`
}

type SessionConfig struct {
	Driver         string        `envconfig:"DRIVER" default:"memory" validate:"oneof=memory redis database"`
	KeyPrefix      string        `envconfig:"KEY_PREFIX" default:"session:"`
	RedisURL       string        `envconfig:"REDIS_URL" validate:"required_if=Driver redis"`
	RedisTTL       time.Duration `envconfig:"REDIS_TTL" default:"24h"`
	DatabaseDriver string        `envconfig:"DATABASE_DRIVER" default:"postgres" validate:"oneof=postgres sqlite"`
	DatabaseDSN    string        `envconfig:"DATABASE_DSN" validate:"required_if=Driver database"`
	Table          string        `envconfig:"TABLE" default:"cart_sessions"`
}

type LogConfig struct {
	Level  string `envconfig:"LEVEL" default:"info"`
	Format string `envconfig:"FORMAT" default:"json" validate:"oneof=json console"`
}

// Default returns the documented defaults without reading the environment.
func Default() Config {
	return Config{
		Tax: 21,
		Format: FormatConfig{
			Decimals:          2,
			DecimalPoint:      ".",
			ThousandSeparator: ",",
		},
		Guard: "web",
		Session: SessionConfig{
			Driver:         "memory",
			KeyPrefix:      "session:",
			RedisTTL:       24 * time.Hour,
			DatabaseDriver: "postgres",
			Table:          "cart_sessions",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load reads the configuration from the environment. Any dotenv files given are
// loaded first; variables already set in the environment take precedence.
func Load(files ...string) (*Config, error) {
	if len(files) > 0 {
		if err := godotenv.Load(files...); err != nil {
			return nil, fmt.Errorf("loading env files: %w", err)
		}
	}

	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

var validate = validator.New()

// Validate checks ranges and driver requirements.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}
