// Package config loads pgdistinct settings from defaults, an optional
// pgdistinct.yaml, and the environment.
package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/spf13/viper"
)

const maxWalkDepth = 25

// Engines accepted by the engine setting.
const (
	EnginePostgres = "postgres"
	EngineMySQL    = "mysql"
	EngineSQLite   = "sqlite"
)

// ErrUnknownEngine is returned for an engine other than postgres, mysql or sqlite.
var ErrUnknownEngine = errors.New("unknown engine")

// Config is the pgdistinct configuration.
type Config struct {
	Engine       string         `mapstructure:"engine"`
	Parameterize bool           `mapstructure:"parameterize"`
	HistoryFile  string         `mapstructure:"history_file"`
	MaxRows      int            `mapstructure:"max_rows"`
	Database     DatabaseConfig `mapstructure:"database"`
}

// DatabaseConfig holds database connection settings. URL wins over the
// discrete fields.
type DatabaseConfig struct {
	URL      string `mapstructure:"url"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Name     string `mapstructure:"name"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	SSLMode  string `mapstructure:"sslmode"`
}

// Load discovers and loads configuration with precedence
// env > config file > defaults. Flags are applied by the caller, which
// then calls Validate.
//
// It returns the config, the path of the file read (empty if none) and any error.
func Load(explicitConfigPath string) (*Config, string, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("PGDISTINCT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// DATABASE_URL is honoured for compatibility with the usual tooling.
	if err := v.BindEnv("database.url", "PGDISTINCT_DATABASE_URL", "DATABASE_URL"); err != nil {
		return nil, "", fmt.Errorf("binding env: %w", err)
	}

	configPath, err := findConfigFile(explicitConfigPath)
	if err != nil {
		return nil, "", err
	}
	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, configPath, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, configPath, fmt.Errorf("unmarshaling config: %w", err)
	}
	cfg.Engine = strings.ToLower(strings.TrimSpace(cfg.Engine))
	return &cfg, configPath, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("engine", EnginePostgres)
	v.SetDefault("parameterize", true)
	v.SetDefault("history_file", "")
	v.SetDefault("max_rows", 100)

	v.SetDefault("database.url", "")
	v.SetDefault("database.host", "")
	v.SetDefault("database.port", 0)
	v.SetDefault("database.name", "")
	v.SetDefault("database.user", "")
	v.SetDefault("database.password", "")
	v.SetDefault("database.sslmode", "")
}

// Validate checks the engine and row limit.
func (c *Config) Validate() error {
	switch c.Engine {
	case EnginePostgres, EngineMySQL, EngineSQLite:
	default:
		return fmt.Errorf("%w: %q (use postgres, mysql or sqlite)", ErrUnknownEngine, c.Engine)
	}
	if c.MaxRows <= 0 {
		return fmt.Errorf("max_rows must be positive, got %d", c.MaxRows)
	}
	return nil
}

// findConfigFile finds the config file to use.
// If explicitPath is provided, it validates the file exists.
// Otherwise, it walks up from cwd looking for pgdistinct.yaml or pgdistinct.yml,
// stopping at a .git directory or after maxWalkDepth levels.
func findConfigFile(explicitPath string) (string, error) {
	if explicitPath != "" {
		if _, err := os.Stat(explicitPath); err != nil {
			return "", fmt.Errorf("config file not found: %s", explicitPath)
		}
		return explicitPath, nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("getting cwd: %w", err)
	}

	dir := cwd
	for i := 0; i < maxWalkDepth; i++ {
		for _, name := range []string{"pgdistinct.yaml", "pgdistinct.yml"} {
			path := filepath.Join(dir, name)
			if _, err := os.Stat(path); err == nil {
				return path, nil
			}
		}
		if _, err := os.Stat(filepath.Join(dir, ".git")); err == nil {
			break
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", nil
}

// DSN returns the driver connection string for the configured engine.
// database.url is returned as-is; otherwise the DSN is built from the
// discrete fields. An empty DSN with no error means nothing is configured.
func (c *Config) DSN() (string, error) {
	db := c.Database
	if db.URL != "" {
		return db.URL, nil
	}
	if db.Host == "" && db.Name == "" {
		return "", nil
	}

	switch c.Engine {
	case EngineSQLite:
		return db.Name, nil
	case EngineMySQL:
		if db.Host == "" || db.User == "" {
			return "", errors.New("database.host and database.user are required when database.url is not set")
		}
		mc := mysql.NewConfig()
		mc.User = db.User
		mc.Passwd = db.Password
		mc.Net = "tcp"
		mc.Addr = db.Host
		if db.Port != 0 {
			mc.Addr = net.JoinHostPort(db.Host, strconv.Itoa(db.Port))
		}
		mc.DBName = db.Name
		return mc.FormatDSN(), nil
	default:
		if db.Host == "" || db.Name == "" || db.User == "" {
			return "", errors.New("database.host, database.name and database.user are required when database.url is not set")
		}
		port := db.Port
		if port == 0 {
			port = 5432
		}
		u := &url.URL{
			Scheme: "postgres",
			Host:   net.JoinHostPort(db.Host, strconv.Itoa(port)),
			Path:   "/" + db.Name,
		}
		if db.Password != "" {
			u.User = url.UserPassword(db.User, db.Password)
		} else {
			u.User = url.User(db.User)
		}
		if db.SSLMode != "" {
			q := u.Query()
			q.Set("sslmode", db.SSLMode)
			u.RawQuery = q.Encode()
		}
		return u.String(), nil
	}
}
