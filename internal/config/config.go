package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds runtime configuration values for the API service.
type Config struct {
	AppName          string
	AppEnv           string
	AppPort          string
	LogLevel         string
	DatabaseURL      string
	DatabaseName     string
	CORSAllowOrigins string
	Email            EmailConfig
}

// EmailConfig carries the SMTP settings used for contact notifications.
type EmailConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	To       string
}

// Recipient returns the notification address, defaulting to the sending user.
func (e EmailConfig) Recipient() string {
	if to := strings.TrimSpace(e.To); to != "" {
		return to
	}
	return strings.TrimSpace(e.User)
}

// Enabled reports whether every setting required to send mail is present.
func (e EmailConfig) Enabled() bool {
	return strings.TrimSpace(e.Host) != "" &&
		e.Port > 0 &&
		strings.TrimSpace(e.User) != "" &&
		e.Password != "" &&
		e.Recipient() != ""
}

// Address returns host:port for dialing the SMTP server.
func (e EmailConfig) Address() string {
	return fmt.Sprintf("%s:%d", strings.TrimSpace(e.Host), e.Port)
}

// HTTPAddress returns the address the HTTP server should listen on.
func (c Config) HTTPAddress() string {
	if strings.HasPrefix(c.AppPort, ":") {
		return c.AppPort
	}

	return fmt.Sprintf(":%s", c.AppPort)
}

// DatabaseURLSet reports whether DATABASE_URL was provided.
func (c Config) DatabaseURLSet() bool {
	return strings.TrimSpace(c.DatabaseURL) != ""
}

// DatabaseNameSet reports whether DATABASE_NAME was provided.
func (c Config) DatabaseNameSet() bool {
	return strings.TrimSpace(c.DatabaseName) != ""
}

var envBindings = map[string]string{
	"app.name":           "APP_NAME",
	"app.env":            "APP_ENV",
	"app.port":           "PORT",
	"log.level":          "LOG_LEVEL",
	"database.url":       "DATABASE_URL",
	"database.name":      "DATABASE_NAME",
	"cors.allow_origins": "CORS_ALLOW_ORIGINS",
	"email.host":         "EMAIL_HOST",
	"email.port":         "EMAIL_PORT",
	"email.user":         "EMAIL_USER",
	"email.pass":         "EMAIL_PASS",
	"email.to":           "EMAIL_TO",
}

// Load reads configuration values from environment variables and optional .env file.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return Config{}, fmt.Errorf("bind %s: %w", env, err)
		}
	}

	v.SetDefault("app.name", "Portfolio API")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8000")
	v.SetDefault("log.level", "info")
	v.SetDefault("cors.allow_origins", "*")

	cfg := Config{
		AppName:          v.GetString("app.name"),
		AppEnv:           v.GetString("app.env"),
		AppPort:          strings.TrimSpace(v.GetString("app.port")),
		LogLevel:         strings.ToLower(v.GetString("log.level")),
		DatabaseURL:      strings.TrimSpace(v.GetString("database.url")),
		DatabaseName:     strings.TrimSpace(v.GetString("database.name")),
		CORSAllowOrigins: v.GetString("cors.allow_origins"),
		Email: EmailConfig{
			Host:     strings.TrimSpace(v.GetString("email.host")),
			Port:     parsePort(v.GetString("email.port")),
			User:     strings.TrimSpace(v.GetString("email.user")),
			Password: v.GetString("email.pass"),
			To:       strings.TrimSpace(v.GetString("email.to")),
		},
	}

	if cfg.AppPort == "" {
		cfg.AppPort = "8000"
	}

	return cfg, nil
}

// parsePort reads a decimal port. Anything unparseable or negative counts as unset.
func parsePort(raw string) int {
	port, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || port < 0 {
		return 0
	}
	return port
}
