// Package config reads the server configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Storage drivers.
const (
	DriverSQLite = "sqlite"
	DriverMemory = "memory"
)

// Duration parses "10s", "5m" or a bare number of seconds.
type Duration time.Duration

// SetValue implements cleanenv.Setter.
func (d *Duration) SetValue(data string) error {
	v, err := parseDuration(data)
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

func (d *Duration) UnmarshalText(text []byte) error {
	return d.SetValue(string(text))
}

func (d Duration) Duration() time.Duration { return time.Duration(d) }

func parseDuration(s string) (time.Duration, error) {
	s = strings.Trim(strings.TrimSpace(s), `"'`)
	if s == "" {
		return 0, errors.New("empty duration")
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Duration(n) * time.Second, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("duration must be like 10s, 5m or a number of seconds: %w", err)
	}
	return d, nil
}

type Config struct {
	HTTP    HTTPConfig
	Storage StorageConfig
	Auth    AuthConfig
	Shop    ShopConfig
	Log     LogConfig
}

type HTTPConfig struct {
	Port            int      `env:"HTTP_PORT" env-default:"8080"`
	ReadTimeout     Duration `env:"HTTP_READ_TIMEOUT" env-default:"10s"`
	WriteTimeout    Duration `env:"HTTP_WRITE_TIMEOUT" env-default:"10s"`
	ShutdownTimeout Duration `env:"HTTP_SHUTDOWN_TIMEOUT" env-default:"10s"`
}

// Addr is the listen address for the HTTP server.
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

type StorageConfig struct {
	Driver string `env:"STORAGE_DRIVER" env-default:"sqlite"`
	DBPath string `env:"DB_PATH" env-default:"./data/storefront.db"`
}

type AuthConfig struct {
	// An empty secret makes the server generate a random one at startup,
	// invalidating every token on restart.
	JWTSecret  string   `env:"JWT_SECRET"`
	JWTTTL     Duration `env:"JWT_TTL" env-default:"24h"`
	BcryptCost int      `env:"BCRYPT_COST" env-default:"10"`
}

type ShopConfig struct {
	ClearCartOnSubmit bool `env:"CLEAR_CART_ON_SUBMIT" env-default:"false"`
}

type LogConfig struct {
	Level  string `env:"LOG_LEVEL" env-default:"info"`
	Format string `env:"LOG_FORMAT" env-default:"text"`
}

// Load reads the configuration from the environment and validates it.
func Load() (Config, error) {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return Config{}, fmt.Errorf("read env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("HTTP_PORT: %d out of range", c.HTTP.Port)
	}
	switch c.Storage.Driver {
	case DriverSQLite:
		if c.Storage.DBPath == "" {
			return errors.New("DB_PATH is required for the sqlite driver")
		}
	case DriverMemory:
	default:
		return fmt.Errorf("STORAGE_DRIVER: unknown driver %q", c.Storage.Driver)
	}
	if c.Auth.JWTTTL.Duration() <= 0 {
		return errors.New("JWT_TTL must be positive")
	}
	if c.Auth.BcryptCost < 4 || c.Auth.BcryptCost > 31 {
		return fmt.Errorf("BCRYPT_COST: %d out of range 4..31", c.Auth.BcryptCost)
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("LOG_FORMAT: unknown format %q", c.Log.Format)
	}
	return nil
}
