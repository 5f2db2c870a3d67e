package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestGetYaml(t *testing.T) {
	path := writeConfig(t, `
base_url: http://tracker:5000
refresh_interval: 2m
http_timeout: 5s
frequency: weekly
listen: ":9000"
`)

	cfg, err := getYaml(path)
	require.NoError(t, err)
	require.Equal(t, "http://tracker:5000", cfg.BaseURL)
	require.Equal(t, 2*time.Minute, cfg.RefreshInterval)
	require.Equal(t, 5*time.Second, cfg.HTTPTimeout)
	require.Equal(t, "weekly", cfg.Frequency)
	require.Equal(t, ":9000", cfg.Listen)
	require.Equal(t, defaultTransitionDelay, cfg.TransitionDelay)
}

func TestGetYamlDefaults(t *testing.T) {
	path := writeConfig(t, `base_url: http://tracker:5000`)

	cfg, err := getYaml(path)
	require.NoError(t, err)
	require.Equal(t, defaultRefreshInterval, cfg.RefreshInterval)
	require.Equal(t, defaultFrequency, cfg.Frequency)
}

func TestGetYamlMalformed(t *testing.T) {
	path := writeConfig(t, `base_url: [`)

	_, err := getYaml(path)
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := Config{
		BaseURL:         defaultBaseURL,
		RefreshInterval: defaultRefreshInterval,
		Frequency:       "daily",
	}
	require.NoError(t, valid.validate())

	noURL := valid
	noURL.BaseURL = ""
	require.Error(t, noURL.validate())

	badInterval := valid
	badInterval.RefreshInterval = 0
	require.Error(t, badInterval.validate())

	badFrequency := valid
	badFrequency.Frequency = "hourly"
	require.Error(t, badFrequency.validate())
}
