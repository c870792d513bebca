package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFrom_MissingFileReturnsDefaults(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)

	assert.Equal(t, "invoicedata.csv", cfg.Export.OutputName)
	assert.True(t, cfg.Export.Overwrite)
	assert.Equal(t, ":8080", cfg.Serve.Addr)
	assert.Equal(t, 2*time.Second, cfg.Watch.Debounce)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestSaveThenLoadFrom(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.toml")

	cfg := DefaultConfig()
	cfg.Export.OutputName = "summary.csv"
	cfg.Export.Overwrite = false
	cfg.Serve.Addr = "127.0.0.1:9000"
	cfg.Serve.AllowedOrigins = []string{"http://localhost:3000"}
	cfg.Watch.Debounce = 500 * time.Millisecond
	cfg.Logging.Level = "debug"
	require.NoError(t, cfg.SaveTo(path))

	loaded, err := LoadFrom(path)
	require.NoError(t, err)

	assert.Equal(t, "summary.csv", loaded.Export.OutputName)
	assert.False(t, loaded.Export.Overwrite)
	assert.Equal(t, "127.0.0.1:9000", loaded.Serve.Addr)
	assert.Equal(t, []string{"http://localhost:3000"}, loaded.Serve.AllowedOrigins)
	assert.Equal(t, 500*time.Millisecond, loaded.Watch.Debounce)
	assert.Equal(t, "debug", loaded.Logging.Level)
}

func TestLoadFrom_EnvOverride(t *testing.T) {
	t.Setenv("INVOICECSV_EXPORT_OUTPUT_NAME", "from-env.csv")

	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "config.toml"))
	require.NoError(t, err)
	assert.Equal(t, "from-env.csv", cfg.Export.OutputName)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"defaults", func(*Config) {}, ""},
		{"empty output name", func(c *Config) { c.Export.OutputName = " " }, "must not be empty"},
		{"output name with dir", func(c *Config) { c.Export.OutputName = "out/x.csv" }, "must be a file name"},
		{"negative debounce", func(c *Config) { c.Watch.Debounce = -time.Second }, "must not be negative"},
		{"empty addr", func(c *Config) { c.Serve.Addr = "" }, "serve.addr"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestOutputPath(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, filepath.Join("/invoices", "invoicedata.csv"), cfg.OutputPath("/invoices", ""))
	assert.Equal(t, "/tmp/out.csv", cfg.OutputPath("/invoices", "/tmp/out.csv"))
}
