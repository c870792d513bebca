package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Nomadcxx/invoicecsv/internal/logging"
	"github.com/Nomadcxx/invoicecsv/internal/paths"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment overrides, e.g. INVOICECSV_EXPORT_OUTPUT_NAME.
const EnvPrefix = "INVOICECSV"

type Config struct {
	Export  ExportConfig   `mapstructure:"export"`
	Serve   ServeConfig    `mapstructure:"serve"`
	Watch   WatchConfig    `mapstructure:"watch"`
	Logging logging.Config `mapstructure:"logging"`
}

// ExportConfig controls where the CSV summary goes
type ExportConfig struct {
	// OutputName is the file created inside the input directory when no
	// --output is given.
	OutputName string `mapstructure:"output_name"`
	// Overwrite allows replacing an existing output file.
	Overwrite bool `mapstructure:"overwrite"`
}

type ServeConfig struct {
	Addr           string   `mapstructure:"addr"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// WatchConfig controls the directory watcher
type WatchConfig struct {
	Debounce time.Duration `mapstructure:"debounce"`
}

// DefaultConfig returns default configuration
func DefaultConfig() *Config {
	return &Config{
		Export: ExportConfig{
			OutputName: "invoicedata.csv",
			Overwrite:  true,
		},
		Serve: ServeConfig{
			Addr:           ":8080",
			AllowedOrigins: []string{},
		},
		Watch: WatchConfig{
			Debounce: 2 * time.Second,
		},
		Logging: logging.DefaultConfig(),
	}
}

// Load reads the config file at the default location, or returns defaults
// when it does not exist.
func Load() (*Config, error) {
	return LoadFrom("")
}

// LoadFrom reads configuration from path (default location when empty).
// Environment variables override file values.
func LoadFrom(path string) (*Config, error) {
	if path == "" {
		p, err := paths.ConfigPath()
		if err != nil {
			return nil, fmt.Errorf("unable to get config path: %w", err)
		}
		path = p
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("toml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v, DefaultConfig())

	if _, err := os.Stat(path); err == nil {
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("unable to read config file: %w", err)
		}
	}

	cfg := DefaultConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unable to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// setDefaults registers every key so AutomaticEnv can bind it.
func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("export.output_name", d.Export.OutputName)
	v.SetDefault("export.overwrite", d.Export.Overwrite)
	v.SetDefault("serve.addr", d.Serve.Addr)
	v.SetDefault("serve.allowed_origins", d.Serve.AllowedOrigins)
	v.SetDefault("watch.debounce", d.Watch.Debounce)
	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.file", d.Logging.File)
	v.SetDefault("logging.max_size_mb", d.Logging.MaxSizeMB)
	v.SetDefault("logging.max_backups", d.Logging.MaxBackups)
}

// Validate rejects values the rest of the program cannot work with.
func (c *Config) Validate() error {
	name := strings.TrimSpace(c.Export.OutputName)
	if name == "" {
		return errors.New("export.output_name must not be empty")
	}
	if filepath.Base(name) != name {
		return fmt.Errorf("export.output_name must be a file name, got %q", name)
	}
	if c.Watch.Debounce < 0 {
		return fmt.Errorf("watch.debounce must not be negative, got %s", c.Watch.Debounce)
	}
	if c.Serve.Addr == "" {
		return errors.New("serve.addr must not be empty")
	}
	return nil
}

// OutputPath returns the CSV destination: override when given, otherwise
// export.output_name inside inputDir.
func (c *Config) OutputPath(inputDir, override string) string {
	if override != "" {
		return override
	}
	return filepath.Join(inputDir, c.Export.OutputName)
}

// Save writes the configuration to the default location.
func (c *Config) Save() error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	return c.SaveTo(path)
}

// SaveTo writes the configuration as TOML to path.
func (c *Config) SaveTo(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("unable to create config dir: %w", err)
	}
	return os.WriteFile(path, []byte(c.ToTOML()), 0644)
}

func ConfigPath() (string, error) {
	return paths.ConfigPath()
}

func (c *Config) ToTOML() string {
	return fmt.Sprintf(`# invoicecsv configuration
# Generated by: invoicecsv config init

# ============================================================================
# EXPORT
# ============================================================================
[export]
# CSV file created inside the input folder when --output is not given
output_name = %q

# Replace an existing output file
overwrite = %v

# ============================================================================
# HTTP SERVER (invoicecsv serve)
# ============================================================================
[serve]
addr = %q
allowed_origins = %s

# ============================================================================
# WATCH MODE (invoicecsv watch)
# ============================================================================
[watch]
# Quiet period after the last change before re-exporting
debounce = %q

# ============================================================================
# LOGGING
# ============================================================================
[logging]
level = %q
file = %q
max_size_mb = %d
max_backups = %d
`,
		c.Export.OutputName,
		c.Export.Overwrite,
		c.Serve.Addr,
		formatStringSlice(c.Serve.AllowedOrigins),
		c.Watch.Debounce.String(),
		c.Logging.Level,
		c.Logging.File,
		c.Logging.MaxSizeMB,
		c.Logging.MaxBackups,
	)
}

func formatStringSlice(s []string) string {
	if len(s) == 0 {
		return "[]"
	}
	quoted := make([]string, len(s))
	for i, v := range s {
		quoted[i] = fmt.Sprintf("%q", v)
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}
