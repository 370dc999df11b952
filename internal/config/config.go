package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	AppEnv   string `env:"APP_ENV" envDefault:"dev"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	HTTPAddr string `env:"HTTP_ADDR" envDefault:":8080"`

	MySQLDSN  string `env:"MYSQL_DSN" envDefault:"root:root@tcp(localhost:3306)/foodorder?parseTime=true"`
	RedisAddr string `env:"REDIS_ADDR" envDefault:"localhost:6379"`

	JWTSecret string `env:"JWT_SECRET,required"`

	// CheckoutResolveLimit bounds parallel catalog lookups during checkout
	// assembly.
	CheckoutResolveLimit int `env:"CHECKOUT_RESOLVE_LIMIT" envDefault:"10"`
}

func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
