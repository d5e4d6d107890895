package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Env      string   `yml:"env" default:"local"`
	Postgres Postgres `yml:"postgres"`
	Redis    Redis    `yml:"redis"`
	Server   Server   `yml:"server" env-required:"true"`
	Matching Matching `yml:"matching"`
}

type Postgres struct {
	Username        string        `env:"POSTGRES_USER" env-required:"true"`
	Password        string        `env:"POSTGRES_PASSWORD" env-required:"true"`
	Host            string        `yml:"host" env-required:"true"`
	Port            string        `env:"POSTGRES_PORT" env-required:"true"`
	Database        string        `env:"POSTGRES_DB" env-required:"true"`
	MaxOpenConns    int           `yml:"max_open_conns" default:"50"`
	MaxIdleConns    int           `yml:"max_idle_conns" default:"10"`
	ConnMaxLifetime time.Duration `yml:"conn_max_lifetime" default:"5m"`
	ConnMaxIdleTime time.Duration `yml:"conn_max_idle_time" default:"1m"`
}

// Redis configures the outbound notification queue. An empty URL disables
// enqueueing entirely; the engine works without it.
type Redis struct {
	URL   string `env:"REDIS_URL" yml:"url"`
	Queue string `yml:"queue" default:"match:notify"`
}

type Server struct {
	Host    string        `yml:"host" default:"localhost"`
	Port    string        `yml:"port" default:"8080"`
	Timeout time.Duration `yml:"timeout" default:"5s"`
}

// Matching holds the orchestrator's threshold policy and sweep cadence.
// Scoring weights are compiled in (scoring.DefaultWeights), not
// configured here.
type Matching struct {
	MinScore        float64       `yml:"min_score" default:"35"`
	RushingMinScore float64       `yml:"rushing_min_score" default:"25"`
	SweepInterval   time.Duration `yml:"sweep_interval" default:"5m"`
	SweepEnabled    bool          `yml:"sweep_enabled" default:"true"`
}

func Load() (*Config, error) {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		return nil, errors.New("CONFIG_PATH is not set")
	}

	if _, err := os.Stat(configPath); err != nil {
		return nil, fmt.Errorf("config file does not exist: %w", err)
	}

	var cfg Config
	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		return nil, fmt.Errorf("cannot read config: %w", err)
	}

	return &cfg, nil
}

func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}

	return cfg
}
