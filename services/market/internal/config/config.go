package config

import (
	"fmt"
	"time"

	pkgconfig "github.com/Skotchmaster/market/pkg/config"
)

type Config struct {
	pkgconfig.Config

	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

// Load reads the environment and checks the keys the market service cannot
// start without.
func Load() (*Config, error) {
	var cfg Config
	if err := pkgconfig.ParseEnv(&cfg); err != nil {
		return nil, err
	}

	required := map[string]string{"JWT_SECRET": cfg.JWTAccessSecret}
	if cfg.DBDriver == "" || cfg.DBDriver == "postgres" {
		required["DATABASE_URL"] = cfg.DatabaseURL
	}
	if err := pkgconfig.Require(required); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}

func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.ServerPort)
}

func (c *Config) Replicas() []string {
	return pkgconfig.CSV(c.ReplicaURLs)
}

func (c *Config) Brokers() []string {
	return pkgconfig.CSV(c.KafkaBrokers)
}
