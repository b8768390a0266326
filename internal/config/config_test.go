package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://m.avito.ru/rossiya", cfg.Search.BaseURL)
	assert.Equal(t, 20*time.Second, cfg.Search.Timeout)
	assert.Equal(t, 20, cfg.Search.RequestsPerMinute)
	assert.NotEmpty(t, cfg.Search.UserAgents)

	assert.Equal(t, 0.3, cfg.Matching.Threshold)
	assert.Equal(t, 20, cfg.Matching.SelectLimit)
	assert.Equal(t, 50, cfg.Matching.ExtractLimit)

	assert.Equal(t, 1*time.Second, cfg.Pacing.DelayMin)
	assert.Equal(t, 2*time.Second, cfg.Pacing.DelayMax)

	assert.Equal(t, "_analyzed", cfg.Output.Suffix)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("AVITO_SEARCH_TIMEOUT", "45s")
	t.Setenv("AVITO_MATCHING_THRESHOLD", "0.5")
	t.Setenv("AVITO_OUTPUT_SUFFIX", "_priced")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 45*time.Second, cfg.Search.Timeout)
	assert.Equal(t, 0.5, cfg.Matching.Threshold)
	assert.Equal(t, "_priced", cfg.Output.Suffix)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"bad base url", "AVITO_SEARCH_BASE_URL", "not a url"},
		{"zero timeout", "AVITO_SEARCH_TIMEOUT", "0s"},
		{"threshold above one", "AVITO_MATCHING_THRESHOLD", "1.5"},
		{"negative threshold", "AVITO_MATCHING_THRESHOLD", "-0.1"},
		{"zero select limit", "AVITO_MATCHING_SELECT_LIMIT", "0"},
		{"extract below select", "AVITO_MATCHING_EXTRACT_LIMIT", "5"},
		{"negative delay", "AVITO_PACING_DELAY_MIN", "-1s"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestValidateDelayOrdering(t *testing.T) {
	t.Setenv("AVITO_PACING_DELAY_MIN", "3s")
	t.Setenv("AVITO_PACING_DELAY_MAX", "1s")

	_, err := Load()
	assert.Error(t, err)
}
