package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v9"
)

const (
	DriverMySQL  = "mysql"
	DriverSQLite = "sqlite"
)

type Config struct {
	Port                   string `env:"PORT" envDefault:"8080"`
	DBDriver               string `env:"DB_DRIVER" envDefault:"mysql"`
	DBUser                 string `env:"DB_USER"`
	DBPassword             string `env:"DB_PASSWORD"`
	DBHost                 string `env:"DB_HOST"` // e.g. tcp(host:3306) or unix(/cloudsql/instance)
	DBName                 string `env:"DB_NAME"`
	DBPort                 string `env:"DB_PORT" envDefault:"3306"`
	InstanceConnectionName string `env:"INSTANCE_CONNECTION_NAME"`
	SQLitePath             string `env:"SQLITE_PATH" envDefault:"overbid.db"`

	// ProgramID seeds the collection address derivation.
	ProgramID         string `env:"PROGRAM_ID" envDefault:"8y7t2oh2JyvYUBGKYKt5i1EGXtwEG17xPHJ3RmP9jHqi"`
	RequireSignatures bool   `env:"REQUIRE_SIGNATURES" envDefault:"true"`
	// SignatureWindow bounds how far a request timestamp may drift from the server clock.
	SignatureWindow time.Duration `env:"SIGNATURE_WINDOW" envDefault:"2m"`
	EnableAirdrop   bool          `env:"ENABLE_AIRDROP" envDefault:"false"`
	// BidIncrementHint is only surfaced to clients as a suggested next bid; it is never enforced.
	BidIncrementHint    uint64 `env:"BID_INCREMENT_HINT" envDefault:"10000000"`
	LogLevel            string `env:"LOG_LEVEL" envDefault:"info"`
	AllowedOriginSuffix string `env:"ALLOWED_ORIGIN_SUFFIX" envDefault:"vercel.app"`

	GitSHA    string `env:"GIT_SHA" envDefault:"dev"`
	BuildTime string `env:"BUILD_TIME"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks driver-specific settings that struct tags cannot express.
func (c *Config) Validate() error {
	switch c.DBDriver {
	case DriverMySQL:
		var missing []error
		if c.DBUser == "" {
			missing = append(missing, errors.New("DB_USER is required"))
		}
		if c.DBPassword == "" {
			missing = append(missing, errors.New("DB_PASSWORD is required"))
		}
		if c.DBHost == "" && c.InstanceConnectionName == "" {
			missing = append(missing, errors.New("DB_HOST or INSTANCE_CONNECTION_NAME is required"))
		}
		if c.DBName == "" {
			missing = append(missing, errors.New("DB_NAME is required"))
		}
		return errors.Join(missing...)
	case DriverSQLite:
		if c.SQLitePath == "" {
			return errors.New("SQLITE_PATH is required")
		}
		return nil
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
}
