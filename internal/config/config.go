package config

import (
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds all runtime configuration, loaded from the environment.
type Config struct {
	Environment string `env:"FACTURA_ENV" envDefault:"development"`
	ServiceName string `env:"FACTURA_SERVICE_NAME" envDefault:"factura"`

	HTTPAddr string `env:"FACTURA_HTTP_ADDR" envDefault:":8080"`

	Database Database `envPrefix:"FACTURA_DB_"`

	OTLPEndpoint  string `env:"FACTURA_OTLP_ENDPOINT"`
	MetricsEnable bool   `env:"FACTURA_METRICS_ENABLE" envDefault:"true"`

	Recurring Recurring `envPrefix:"FACTURA_RECURRING_"`

	Bootstrap Bootstrap `envPrefix:"FACTURA_BOOTSTRAP_"`
}

// Database selects the gorm driver and DSN.
type Database struct {
	Driver string `env:"DRIVER" envDefault:"sqlite"`
	DSN    string `env:"DSN" envDefault:"factura.db"`
}

// Recurring controls the recurring invoice generation worker.
type Recurring struct {
	Enabled      bool          `env:"ENABLED" envDefault:"true"`
	PollInterval time.Duration `env:"POLL_INTERVAL" envDefault:"1h"`
	BatchSize    int           `env:"BATCH_SIZE" envDefault:"50"`
}

// Bootstrap controls first-run seeding.
type Bootstrap struct {
	EnsureDefaultUser bool `env:"ENSURE_DEFAULT_USER" envDefault:"true"`
}

// IsProduction reports whether the service runs in production mode.
func (c Config) IsProduction() bool {
	return strings.EqualFold(c.Environment, "production")
}

// Load reads configuration from the environment, honoring a local .env file
// when present.
func Load() (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
