package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"intranet/internal/models"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds the application's configuration.
type Config struct {
	Database struct {
		URL            string `yaml:"url"`
		MigrationsPath string `yaml:"migrations_path"`
	} `yaml:"database"`
	Server struct {
		Port            string        `yaml:"port"`
		ReadTimeout     time.Duration `yaml:"read_timeout"`
		WriteTimeout    time.Duration `yaml:"write_timeout"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	} `yaml:"server"`
	Auth struct {
		JWTSecret    string        `yaml:"jwt_secret"`
		TokenTTL     time.Duration `yaml:"token_ttl"`
		CookieName   string        `yaml:"cookie_name"`
		CookieSecure bool          `yaml:"cookie_secure"`
		CookieDomain string        `yaml:"cookie_domain"`
		LoginRate    string        `yaml:"login_rate"` // limiter format, e.g. "10-M"
		BcryptCost   int           `yaml:"bcrypt_cost"`
	} `yaml:"auth"`
	Authz struct {
		// ChartRoles lists the roles allowed to read aggregate charts.
		ChartRoles []string `yaml:"chart_roles"`
	} `yaml:"authz"`
	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"` // json or console
	} `yaml:"log"`
}

// Default returns the configuration used for any value the file leaves out.
func Default() *Config {
	cfg := &Config{}
	cfg.Database.MigrationsPath = "migrations"
	cfg.Server.Port = ":8080"
	cfg.Server.ReadTimeout = 15 * time.Second
	cfg.Server.WriteTimeout = 15 * time.Second
	cfg.Server.ShutdownTimeout = 10 * time.Second
	cfg.Auth.TokenTTL = time.Hour
	cfg.Auth.CookieName = "token"
	cfg.Auth.CookieSecure = true
	cfg.Auth.LoginRate = "10-M"
	cfg.Authz.ChartRoles = []string{string(models.RoleJefe)}
	cfg.Log.Level = "info"
	cfg.Log.Format = "json"
	return cfg
}

// LoadConfig reads configuration from the specified YAML file, then applies
// environment overrides. Variables may also come from a .env file in the
// working directory. An empty path skips the file.
func LoadConfig(configPath string) (*Config, error) {
	config := Default()

	if configPath != "" {
		file, err := os.Open(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open config file: %w", err)
		}
		defer file.Close()

		decoder := yaml.NewDecoder(file)
		if err := decoder.Decode(config); err != nil {
			return nil, fmt.Errorf("failed to decode config file: %w", err)
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}
	if err := config.applyEnv(); err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("DATABASE_URL"); v != "" {
		c.Database.URL = v
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		c.Auth.JWTSecret = v
	}
	if v := os.Getenv("SERVER_PORT"); v != "" {
		c.Server.Port = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("COOKIE_SECURE"); v != "" {
		secure, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid COOKIE_SECURE %q: %w", v, err)
		}
		c.Auth.CookieSecure = secure
	}
	return nil
}

// Validate reports the first setting the server cannot start with.
func (c *Config) Validate() error {
	if c.Auth.JWTSecret == "" {
		return errors.New("auth.jwt_secret (or JWT_SECRET) is required")
	}
	if c.Auth.TokenTTL <= 0 {
		return fmt.Errorf("auth.token_ttl must be positive, got %s", c.Auth.TokenTTL)
	}
	if c.Auth.CookieName == "" {
		return errors.New("auth.cookie_name must not be empty")
	}
	if _, err := c.ChartRoles(); err != nil {
		return err
	}
	return nil
}

// ChartRoles parses authz.chart_roles.
func (c *Config) ChartRoles() ([]models.Role, error) {
	roles := make([]models.Role, 0, len(c.Authz.ChartRoles))
	for _, s := range c.Authz.ChartRoles {
		r, err := models.ParseRole(s)
		if err != nil {
			return nil, fmt.Errorf("authz.chart_roles: unknown role %q", s)
		}
		roles = append(roles, r)
	}
	return roles, nil
}
