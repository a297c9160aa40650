package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var cfg Config
	cfg.LoadDefaults()

	require.Equal(t, "http://127.0.0.1:8080/api", cfg.ServerBaseURL)
	require.Equal(t, "loanwise.db", cfg.DatabasePath)
	require.Equal(t, 15*time.Second, cfg.RequestTimeout)
	require.Zero(t, cfg.MinLoanAmount)
}

func TestParseJSON_OverlaysOnlyProvidedValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"server_base_url": "http://api.loanwise.test/api",
		"request_timeout": "3s"
	}`), 0o600))

	oldArgs := os.Args
	os.Args = []string{"cli", "-c", path}
	t.Cleanup(func() { os.Args = oldArgs })

	var cfg Config
	cfg.LoadDefaults()
	parseJSON(&cfg)

	require.Equal(t, "http://api.loanwise.test/api", cfg.ServerBaseURL)
	require.Equal(t, 3*time.Second, cfg.RequestTimeout)
	// Untouched fields keep their defaults.
	require.Equal(t, "loanwise.db", cfg.DatabasePath)
}

func TestParseFlags_OverridesJSON(t *testing.T) {
	oldArgs := os.Args
	os.Args = []string{"cli", "-a", "http://flagged:9090/api", "-t", "7", "-m", "2500"}
	t.Cleanup(func() { os.Args = oldArgs })

	var cfg Config
	cfg.LoadDefaults()
	parseFlags(&cfg)

	require.Equal(t, "http://flagged:9090/api", cfg.ServerBaseURL)
	require.Equal(t, 7*time.Second, cfg.RequestTimeout)
	require.Equal(t, 2500.0, cfg.MinLoanAmount)
}

func TestJSONConfig_AcceptsNanosecondTimeout(t *testing.T) {
	var jc JSONConfig
	require.NoError(t, json.Unmarshal([]byte(`{"request_timeout": 2000000000}`), &jc))
	require.Equal(t, 2*time.Second, jc.RequestTimeout.Duration)
}
