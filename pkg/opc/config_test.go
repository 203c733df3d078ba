package opc

import (
	"testing"

	"github.com/klauspost/compress/flate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	assert.Equal(t, "info", config.LogLevel)
	assert.True(t, config.StrictMode)
	assert.Equal(t, flate.DefaultCompression, config.CompressionLevel)
	assert.Equal(t, int64(512<<20), config.MaxPartSize)
	assert.Equal(t, 128, config.GlobCacheSize)
	assert.NoError(t, config.Validate())
}

func TestConfigFromEnvironment(t *testing.T) {
	tests := []struct {
		name    string
		envVars map[string]string
		check   func(t *testing.T, config *Config)
	}{
		{
			name:    "log level",
			envVars: map[string]string{"OOXML_LOG_LEVEL": "debug"},
			check: func(t *testing.T, config *Config) {
				assert.Equal(t, "debug", config.LogLevel)
			},
		},
		{
			name:    "lenient mode",
			envVars: map[string]string{"OOXML_STRICT_MODE": "false"},
			check: func(t *testing.T, config *Config) {
				assert.False(t, config.StrictMode)
			},
		},
		{
			name:    "compression level",
			envVars: map[string]string{"OOXML_COMPRESSION_LEVEL": "9"},
			check: func(t *testing.T, config *Config) {
				assert.Equal(t, 9, config.CompressionLevel)
			},
		},
		{
			name: "part size and glob cache",
			envVars: map[string]string{
				"OOXML_MAX_PART_SIZE":   "1048576",
				"OOXML_GLOB_CACHE_SIZE": "8",
			},
			check: func(t *testing.T, config *Config) {
				assert.Equal(t, int64(1048576), config.MaxPartSize)
				assert.Equal(t, 8, config.GlobCacheSize)
			},
		},
		{
			name:    "invalid level falls back to defaults",
			envVars: map[string]string{"OOXML_LOG_LEVEL": "loud"},
			check: func(t *testing.T, config *Config) {
				assert.Equal(t, DefaultConfig(), config)
			},
		},
		{
			name:    "out of range compression falls back to defaults",
			envVars: map[string]string{"OOXML_COMPRESSION_LEVEL": "12"},
			check: func(t *testing.T, config *Config) {
				assert.Equal(t, DefaultConfig(), config)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.envVars {
				t.Setenv(k, v)
			}
			tt.check(t, ConfigFromEnvironment())
		})
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(c *Config)
		wantErr bool
	}{
		{name: "defaults", modify: func(c *Config) {}},
		{name: "off level", modify: func(c *Config) { c.LogLevel = "off" }},
		{name: "huffman only", modify: func(c *Config) { c.CompressionLevel = flate.HuffmanOnly }},
		{name: "unknown level", modify: func(c *Config) { c.LogLevel = "chatty" }, wantErr: true},
		{name: "compression too high", modify: func(c *Config) { c.CompressionLevel = 10 }, wantErr: true},
		{name: "zero part size", modify: func(c *Config) { c.MaxPartSize = 0 }, wantErr: true},
		{name: "zero glob cache", modify: func(c *Config) { c.GlobCacheSize = 0 }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := DefaultConfig()
			tt.modify(c)
			if tt.wantErr {
				assert.Error(t, c.Validate())
			} else {
				assert.NoError(t, c.Validate())
			}
		})
	}
}

func TestGlobalConfig(t *testing.T) {
	original := GetGlobalConfig()
	defer SetGlobalConfig(original)

	custom := DefaultConfig()
	custom.StrictMode = false
	SetGlobalConfig(custom)

	got := GetGlobalConfig()
	assert.False(t, got.StrictMode)
	got.StrictMode = true
	assert.False(t, GetGlobalConfig().StrictMode, "GetGlobalConfig returns a copy")

	p, err := New()
	require.NoError(t, err)
	assert.False(t, p.Config().StrictMode, "packages start from the global configuration")
}

func TestOptions(t *testing.T) {
	p, err := New(WithStrict(false), WithCompressionLevel(flate.BestSpeed), WithMaxPartSize(1024))
	require.NoError(t, err)
	cfg := p.Config()
	assert.False(t, cfg.StrictMode)
	assert.Equal(t, flate.BestSpeed, cfg.CompressionLevel)
	assert.Equal(t, int64(1024), cfg.MaxPartSize)

	_, err = New(WithCompressionLevel(42))
	assert.Error(t, err)

	custom := DefaultConfig()
	custom.GlobCacheSize = 4
	p, err = New(WithConfig(custom))
	require.NoError(t, err)
	assert.Equal(t, 4, p.Config().GlobCacheSize)
}
