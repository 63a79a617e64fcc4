package shipping

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigIsValid(t *testing.T) {
	require.NoError(t, validateConfig(DefaultConfig()))
}

func TestLoadConfig_RoundTrip(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Origin.Postcode = "3000"
	cfg.Thresholds.MaxOptions = 6
	cfg.TimeoutSeconds = 30

	path := filepath.Join(t.TempDir(), "shipping.json")
	require.NoError(t, SaveConfigToFile(cfg, path))

	loaded, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "3000", loaded.Origin.Postcode)
	assert.Equal(t, 6, loaded.Thresholds.MaxOptions)
	assert.Equal(t, 30*time.Second, loaded.RequestTimeout)
}

func TestLoadConfig_PartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shipping.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"origin":{"postcode":"3181","city":"Prahran","state":"VIC","country":"AU"}}`), 0644))

	loaded, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "3181", loaded.Origin.Postcode)
	assert.Equal(t, float64(20), loaded.Thresholds.FreightWeightKg)
	assert.Equal(t, "ipsession", loaded.Interparcel.SessionCookie)
	assert.Equal(t, 15*time.Second, loaded.RequestTimeout)
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}

func TestValidateConfig_Rejections(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty origin country", func(c *Config) { c.Origin.Country = "" }},
		{"bad currency", func(c *Config) { c.Currency = "dollars" }},
		{"zero freight threshold", func(c *Config) { c.Thresholds.FreightWeightKg = 0 }},
		{"zero dimension limit", func(c *Config) { c.Thresholds.ParcelMaxDimCm = 0 }},
		{"zero max options", func(c *Config) { c.Thresholds.MaxOptions = 0 }},
		{"free admin option", func(c *Config) { c.AdminOption.AmountCents = 0 }},
		{"zero redirect hops", func(c *Config) { c.Interparcel.MaxRedirectHops = 0 }},
		{"missing session cookie", func(c *Config) { c.Interparcel.SessionCookie = "" }},
		{"zero max services", func(c *Config) { c.Interparcel.MaxServices = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			assert.Error(t, validateConfig(cfg))
		})
	}
}
