package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/goccy/go-yaml"
)

// AdminConfig holds the out-of-band administrator identity. The admin account
// never lives in the users table; login matches these credentials before any
// database lookup.
type AdminConfig struct {
	Email    string `yaml:"email"`
	Password string `yaml:"password"`
}

// GithubConfig holds the OAuth application credentials for federated login.
type GithubConfig struct {
	ClientID     string `yaml:"client_id"`
	ClientSecret string `yaml:"client_secret"`
	CallbackURL  string `yaml:"callback_url"`
}

// SMTPConfig holds outbound mail settings.
type SMTPConfig struct {
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	Email    string `yaml:"email"`
	Password string `yaml:"password"`
}

// Config is the full application configuration. Values come from an optional
// YAML file overlaid by environment variables, so deploys can ship a checked-in
// config.yaml and still override secrets per environment.
type Config struct {
	Env       string       `yaml:"env"`
	WebURL    string       `yaml:"web_url"`
	Port      string       `yaml:"port"`
	JWTSecret string       `yaml:"jwt_secret"`
	Admin     AdminConfig  `yaml:"admin"`
	Github    GithubConfig `yaml:"github"`
	SMTP      SMTPConfig   `yaml:"smtp"`
}

// Load reads config.yaml (or $CONFIG_FILE) if present, then applies
// environment overrides.
//
// Environment variables:
//   - PORT, WEB_URL, APP_ENV
//   - JWT_SECRET
//   - ADMIN_EMAIL, ADMIN_PASSWORD
//   - GITHUB_CLIENT_ID, GITHUB_CLIENT_SECRET, GITHUB_CALLBACK_URL
//   - SMTP_HOST, SMTP_PORT, EMAIL, EMAIL_PASS
func Load() (Config, error) {
	cfg := Config{
		Env:  "dev",
		Port: "8080",
	}

	path := os.Getenv("CONFIG_FILE")
	if path == "" {
		path = "config.yaml"
	}
	if raw, err := os.ReadFile(path); err == nil {
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse %s: %w", path, err)
		}
	}

	overlay(&cfg.Env, "APP_ENV")
	overlay(&cfg.WebURL, "WEB_URL")
	overlay(&cfg.Port, "PORT")
	overlay(&cfg.JWTSecret, "JWT_SECRET")
	overlay(&cfg.Admin.Email, "ADMIN_EMAIL")
	overlay(&cfg.Admin.Password, "ADMIN_PASSWORD")
	overlay(&cfg.Github.ClientID, "GITHUB_CLIENT_ID")
	overlay(&cfg.Github.ClientSecret, "GITHUB_CLIENT_SECRET")
	overlay(&cfg.Github.CallbackURL, "GITHUB_CALLBACK_URL")
	overlay(&cfg.SMTP.Host, "SMTP_HOST")
	overlay(&cfg.SMTP.Port, "SMTP_PORT")
	overlay(&cfg.SMTP.Email, "EMAIL")
	overlay(&cfg.SMTP.Password, "EMAIL_PASS")

	return cfg, nil
}

// Validate checks the settings the auth core cannot run without.
func (c Config) Validate() error {
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if c.Admin.Email == "" || c.Admin.Password == "" {
		return fmt.Errorf("ADMIN_EMAIL and ADMIN_PASSWORD are required")
	}
	return nil
}

func overlay(dst *string, env string) {
	if v := strings.TrimSpace(os.Getenv(env)); v != "" {
		*dst = v
	}
}
