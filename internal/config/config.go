package config

import (
	"fmt"
	"sort"
	"strings"

	apperrors "fitness-tracker-backend/internal/errors"

	"github.com/spf13/viper"
)

// Config holds all runtime configuration for the application.
// Values come from an optional config.yaml plus environment overrides;
// required provider and database settings fail fast at startup.
type Config struct {
	ServerPort string `mapstructure:"server_port"`

	PostgresHost     string `mapstructure:"postgres_host"`
	PostgresPort     string `mapstructure:"postgres_port"`
	PostgresUser     string `mapstructure:"postgres_user"`
	PostgresPassword string `mapstructure:"postgres_password"`
	PostgresDB       string `mapstructure:"postgres_db"`

	FitbitClientID     string `mapstructure:"fitbit_client_id"`
	FitbitClientSecret string `mapstructure:"fitbit_client_secret"`
	FitbitRedirectURI  string `mapstructure:"fitbit_redirect_uri"`

	JWTSecret           string `mapstructure:"jwt_secret"`
	TokenSecret         string `mapstructure:"token_secret"`
	JWTExpiresInSeconds int    `mapstructure:"jwt_expires_in_seconds"`

	CORSAllowedOrigins []string `mapstructure:"cors_allowed_origins"`
}

// Load reads configuration from the given yaml file (optional) and the
// environment, applies defaults, and validates the result.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// No config file: env vars and defaults only
	}

	v.AutomaticEnv()
	bindEnvAliases(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	// Allow comma-separated origins via env
	if len(cfg.CORSAllowedOrigins) == 1 && strings.Contains(cfg.CORSAllowedOrigins[0], ",") {
		cfg.CORSAllowedOrigins = splitAndTrim(cfg.CORSAllowedOrigins[0])
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// DatabaseDSN builds the Postgres connection string for GORM.
func (c *Config) DatabaseDSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.PostgresHost, c.PostgresPort, c.PostgresUser, c.PostgresPassword, c.PostgresDB)
}

// Validate enforces the fail-fast startup contract: every collaborator the
// OAuth flow and the token store depend on must be configured.
func (c *Config) Validate() error {
	required := map[string]string{
		"FITBIT_CLIENT_ID":     c.FitbitClientID,
		"FITBIT_CLIENT_SECRET": c.FitbitClientSecret,
		"FITBIT_REDIRECT_URI":  c.FitbitRedirectURI,
		"POSTGRES_HOST":        c.PostgresHost,
		"POSTGRES_PORT":        c.PostgresPort,
		"POSTGRES_USER":        c.PostgresUser,
		"POSTGRES_PASSWORD":    c.PostgresPassword,
		"POSTGRES_DB":          c.PostgresDB,
		"JWT_SECRET":           c.JWTSecret,
		"TOKEN_SECRET":         c.TokenSecret,
	}
	var missing []string
	for name, value := range required {
		if strings.TrimSpace(value) == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return apperrors.NewConfigurationError(
			fmt.Sprintf("missing required configuration: %s", strings.Join(missing, ", ")))
	}

	if c.JWTExpiresInSeconds <= 0 {
		c.JWTExpiresInSeconds = 3600
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server_port", "8000")
	v.SetDefault("postgres_port", "5432")
	v.SetDefault("jwt_expires_in_seconds", 3600)
	// Local development origins, matching the frontend dev servers
	v.SetDefault("cors_allowed_origins", []string{
		"http://localhost",
		"http://localhost:8000",
		"http://localhost:5500",
		"http://127.0.0.1",
		"http://127.0.0.1:8000",
		"http://127.0.0.1:5500",
	})
}

// bindEnvAliases maps the canonical env var names onto the mapstructure keys
// so AutomaticEnv picks them up regardless of config file presence.
func bindEnvAliases(v *viper.Viper) {
	aliases := map[string]string{
		"server_port":            "SERVER_PORT",
		"postgres_host":          "POSTGRES_HOST",
		"postgres_port":          "POSTGRES_PORT",
		"postgres_user":          "POSTGRES_USER",
		"postgres_password":      "POSTGRES_PASSWORD",
		"postgres_db":            "POSTGRES_DB",
		"fitbit_client_id":       "FITBIT_CLIENT_ID",
		"fitbit_client_secret":   "FITBIT_CLIENT_SECRET",
		"fitbit_redirect_uri":    "FITBIT_REDIRECT_URI",
		"jwt_secret":             "JWT_SECRET",
		"token_secret":           "TOKEN_SECRET",
		"jwt_expires_in_seconds": "JWT_EXPIRES_IN_SECONDS",
		"cors_allowed_origins":   "CORS_ALLOWED_ORIGINS",
	}
	for key, env := range aliases {
		_ = v.BindEnv(key, env)
	}
}

func splitAndTrim(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}
