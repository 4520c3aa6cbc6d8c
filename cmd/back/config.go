package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	DSN           string        `yaml:"dsn"`
	Host          string        `yaml:"host"`
	HostGRPC      string        `yaml:"host_grpc"`
	MetricsAddr   string        `yaml:"metrics_addr"`
	MigrateDir    string        `yaml:"migrate_dir"`
	LogLevel      int           `yaml:"loglevel"`
	TimeOut       time.Duration `yaml:"timeout"`
	MaxOpenConns  int           `yaml:"max_open_conns"`
	TokenJwtTTl   time.Duration `yaml:"token_jwt_ttl"`
	JwtSecret     string        `yaml:"jwt_secret"`
	AddrCache     string        `yaml:"addr_cache"`
	PasswordCache string        `yaml:"password_cache"`
	DBCacheTokens int           `yaml:"db_cache_tokens"`
	HostRBMQ      string        `yaml:"host_rbmq"`
	PortRBMQ      string        `yaml:"port_rbmq"`
	UserNameRBMQ  string        `yaml:"username_rbmq"`
	PasswordRBMQ  string        `yaml:"password_rbmq"`
	VHostRBMQ     string        `yaml:"vhost_rbmq"`
}

func defaultConfig() Config {
	return Config{
		Host:        ":8000",
		HostGRPC:    ":8001",
		MetricsAddr: ":9090",
		MigrateDir:  "file://migrations",
		TimeOut:     10 * time.Second,
		TokenJwtTTl: 30 * time.Minute,
	}
}

// loadConfig: yaml-файл, поверх него .env и переменные окружения.
// Файла может не быть, если все задано через окружение.
func loadConfig(path string) (Config, error) {
	cfg := defaultConfig()

	raw, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return Config{}, fmt.Errorf("read %s: %w", path, err)
	}

	// .env не обязателен
	_ = godotenv.Load()

	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.DSN = v
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		cfg.JwtSecret = v
	}

	if cfg.DSN == "" {
		return Config{}, errors.New("dsn is not set (config dsn or DATABASE_URL)")
	}
	if cfg.JwtSecret == "" {
		return Config{}, errors.New("jwt secret is not set (config jwt_secret or JWT_SECRET)")
	}
	if cfg.TokenJwtTTl <= 0 {
		return Config{}, fmt.Errorf("token_jwt_ttl must be positive, got %s", cfg.TokenJwtTTl)
	}
	return cfg, nil
}
