package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/ledgerline/billing-api/internal/db"
)

// ServerConfig holds the HTTP listener settings.
type ServerConfig struct {
	Addr           string
	AllowedOrigins []string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
}

// AuthConfig holds token signing settings.
type AuthConfig struct {
	JWTSecret string
	TokenTTL  time.Duration
}

// PaymentConfig points at the external payment gateway.
type PaymentConfig struct {
	GatewayURL string
}

// Config is the full application configuration.
type Config struct {
	Server   ServerConfig
	Database db.Config
	Auth     AuthConfig
	Payment  PaymentConfig
}

// Default returns the configuration used when no file or env overrides exist.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Addr:           ":8080",
			AllowedOrigins: []string{"http://localhost:3000"},
			ReadTimeout:    15 * time.Second,
			WriteTimeout:   30 * time.Second,
			IdleTimeout:    60 * time.Second,
		},
		Database: db.DefaultConfig(),
		Auth: AuthConfig{
			JWTSecret: "change_me_in_production",
			TokenTTL:  24 * time.Hour,
		},
		Payment: PaymentConfig{},
	}
}

// Load reads config.yaml from configPath and applies env overrides.
func Load(configPath string) (Config, error) {
	cfg := Default()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configPath)
	v.AutomaticEnv()          // allow environment overrides
	v.SetEnvPrefix("BILLING") // map env vars like BILLING_SERVER.ADDR

	if err := errors.Join(
		v.BindEnv("server.addr"),
		v.BindEnv("database.host"),
		v.BindEnv("database.port"),
		v.BindEnv("database.user"),
		v.BindEnv("database.password"),
		v.BindEnv("database.dbname"),
		v.BindEnv("database.sslmode"),
		v.BindEnv("auth.jwt_secret"),
		v.BindEnv("payment.gateway_url"),
	); err != nil {
		return Config{}, fmt.Errorf("failed to bind environment overrides: %w", err)
	}

	if err := v.ReadInConfig(); err != nil {
		// Config file not found? Use defaults + env.
		fmt.Println("No config.yaml found, using defaults and env vars")
	} else {
		fmt.Println("Loaded config.yaml")
	}

	if v.IsSet("server.addr") {
		cfg.Server.Addr = v.GetString("server.addr")
	}
	if v.IsSet("server.allowed_origins") {
		cfg.Server.AllowedOrigins = v.GetStringSlice("server.allowed_origins")
	}
	if v.IsSet("database.host") {
		cfg.Database.Host = v.GetString("database.host")
	}
	if v.IsSet("database.port") {
		cfg.Database.Port = v.GetInt("database.port")
	}
	if v.IsSet("database.user") {
		cfg.Database.User = v.GetString("database.user")
	}
	if v.IsSet("database.password") {
		cfg.Database.Password = v.GetString("database.password")
	}
	if v.IsSet("database.dbname") {
		cfg.Database.DBName = v.GetString("database.dbname")
	}
	if v.IsSet("database.sslmode") {
		cfg.Database.SSLMode = v.GetString("database.sslmode")
	}
	if v.IsSet("auth.jwt_secret") {
		cfg.Auth.JWTSecret = v.GetString("auth.jwt_secret")
	}
	if v.IsSet("auth.token_ttl") {
		cfg.Auth.TokenTTL = v.GetDuration("auth.token_ttl")
	}
	if v.IsSet("payment.gateway_url") {
		cfg.Payment.GatewayURL = v.GetString("payment.gateway_url")
	}

	return cfg, nil
}
