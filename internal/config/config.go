package config

import (
	"fmt"
	"os"
	"sort"
	"strconv"

	"github.com/meltforce/barload/internal/plates"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Tailscale TailscaleConfig `yaml:"tailscale"`
	Database  DatabaseConfig  `yaml:"database"`
	Auth      AuthConfig      `yaml:"auth"`
	Inventory InventoryConfig `yaml:"inventory"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type TailscaleConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Hostname string `yaml:"hostname"`
	StateDir string `yaml:"state_dir"`
}

// Database drivers. An empty driver disables load history.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type DatabaseConfig struct {
	Driver   string `yaml:"driver"`
	Path     string `yaml:"path"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"sslmode"`
}

type AuthConfig struct {
	APIKey string `yaml:"api_key"`
}

// InventoryConfig lists the plates and barbells available in the gym.
// Barbells are keyed by name; the map is ordered by weight, heaviest first,
// when turned into an inventory.
type InventoryConfig struct {
	Plates   []float64          `yaml:"plates"`
	Barbells map[string]float64 `yaml:"barbells"`
	CollarKg *float64           `yaml:"collar_kg"`
}

// DSN returns a PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	sslmode := d.SSLMode
	if sslmode == "" {
		sslmode = "disable"
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, sslmode)
}

// Build turns the configured inventory into a validated plates.Inventory.
func (i InventoryConfig) Build() (*plates.Inventory, error) {
	bars := make([]plates.Barbell, 0, len(i.Barbells))
	for name, kg := range i.Barbells {
		bars = append(bars, plates.Barbell{Name: name, WeightKg: kg})
	}
	sort.Slice(bars, func(a, b int) bool {
		if bars[a].WeightKg != bars[b].WeightKg {
			return bars[a].WeightKg > bars[b].WeightKg
		}
		return bars[a].Name < bars[b].Name
	})

	collar := plates.DefaultCollarKg
	if i.CollarKg != nil {
		collar = *i.CollarKg
	}
	return plates.NewInventory(i.Plates, bars, collar)
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load reads config from a YAML file, then applies environment variable overrides.
// Env vars use the prefix BARLOAD_ and underscore-separated paths:
//
//	BARLOAD_SERVER_HOST, BARLOAD_SERVER_PORT, BARLOAD_TAILSCALE_ENABLED,
//	BARLOAD_DB_DRIVER, BARLOAD_DB_PATH, BARLOAD_DB_HOST, BARLOAD_DB_PORT,
//	BARLOAD_DB_NAME, BARLOAD_DB_USER, BARLOAD_DB_PASSWORD, BARLOAD_DB_SSLMODE,
//	BARLOAD_AUTH_API_KEY
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	applyEnvOverrides(cfg)
	cfg.applyDefaults()

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("BARLOAD_SERVER_HOST"); v != "" {
		cfg.Server.Host = v
	}
	if v := os.Getenv("BARLOAD_SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("BARLOAD_TAILSCALE_ENABLED"); v != "" {
		if enabled, err := strconv.ParseBool(v); err == nil {
			cfg.Tailscale.Enabled = enabled
		}
	}
	if v := os.Getenv("BARLOAD_DB_DRIVER"); v != "" {
		cfg.Database.Driver = v
	}
	if v := os.Getenv("BARLOAD_DB_PATH"); v != "" {
		cfg.Database.Path = v
	}
	if v := os.Getenv("BARLOAD_DB_HOST"); v != "" {
		cfg.Database.Host = v
	}
	if v := os.Getenv("BARLOAD_DB_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Database.Port = port
		}
	}
	if v := os.Getenv("BARLOAD_DB_NAME"); v != "" {
		cfg.Database.Name = v
	}
	if v := os.Getenv("BARLOAD_DB_USER"); v != "" {
		cfg.Database.User = v
	}
	if v := os.Getenv("BARLOAD_DB_PASSWORD"); v != "" {
		cfg.Database.Password = v
	}
	if v := os.Getenv("BARLOAD_DB_SSLMODE"); v != "" {
		cfg.Database.SSLMode = v
	}
	if v := os.Getenv("BARLOAD_AUTH_API_KEY"); v != "" {
		cfg.Auth.APIKey = v
	}
}

func (c *Config) applyDefaults() {
	if c.Server.Host == "" {
		c.Server.Host = "0.0.0.0"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Tailscale.Hostname == "" {
		c.Tailscale.Hostname = "barload"
	}
	if c.Tailscale.StateDir == "" {
		c.Tailscale.StateDir = "tsnet-state"
	}
	if c.Database.Driver == DriverSQLite && c.Database.Path == "" {
		c.Database.Path = "barload.db"
	}
	if c.Database.Driver == DriverPostgres && c.Database.Port == 0 {
		c.Database.Port = 5432
	}
	if len(c.Inventory.Plates) == 0 {
		c.Inventory.Plates = append([]float64(nil), plates.DefaultPlates...)
	}
	if len(c.Inventory.Barbells) == 0 {
		c.Inventory.Barbells = map[string]float64{
			plates.MensBar.Name:   plates.MensBar.WeightKg,
			plates.WomensBar.Name: plates.WomensBar.WeightKg,
		}
	}
}

func (c *Config) validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d is out of range", c.Server.Port)
	}
	switch c.Database.Driver {
	case "", DriverSQLite:
	case DriverPostgres:
		if c.Database.Host == "" {
			return fmt.Errorf("database.host is required")
		}
		if c.Database.Name == "" {
			return fmt.Errorf("database.name is required")
		}
		if c.Database.User == "" {
			return fmt.Errorf("database.user is required")
		}
	default:
		return fmt.Errorf("database.driver %q is not one of %q, %q", c.Database.Driver, DriverPostgres, DriverSQLite)
	}
	if _, err := c.Inventory.Build(); err != nil {
		return err
	}
	return nil
}
