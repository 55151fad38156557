package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 10, cfg.Cols)
	assert.Equal(t, 20, cfg.Rows)
	assert.Equal(t, Rate{Ticks: 1, Steps: 30}, cfg.Fall)
	assert.Equal(t, Rate{Ticks: 1, Steps: 1}, cfg.Drop)
	assert.Equal(t, Rate{Ticks: 3, Steps: 5}, cfg.LineRemove)
	assert.Equal(t, 10*time.Millisecond, cfg.TickInterval)
	assert.Equal(t, ModeLockstep, cfg.Mode)
}

func TestParse_overridesDefaults(t *testing.T) {
	cfg, err := Parse([]byte(`
cols: 12
fall:
  ticks: 2
  steps: 7
tick_interval: 25ms
mode: ratematched
`))
	require.NoError(t, err)
	assert.Equal(t, 12, cfg.Cols)
	assert.Equal(t, 20, cfg.Rows, "unset keys keep their default")
	assert.Equal(t, Rate{Ticks: 2, Steps: 7}, cfg.Fall)
	assert.Equal(t, Rate{Ticks: 1, Steps: 1}, cfg.Drop)
	assert.Equal(t, 25*time.Millisecond, cfg.TickInterval)
	assert.Equal(t, ModeRateMatched, cfg.Mode)
}

func TestParse_invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"zero steps", "drop: {ticks: 1, steps: 0}"},
		{"negative ticks", "fall: {ticks: -1, steps: 3}"},
		{"narrow board", "cols: 3"},
		{"short board", "rows: 2"},
		{"unknown mode", "mode: turbo"},
		{"negative clear delay", "clear_delay: -1"},
		{"zero tick interval", "tick_interval: 0s"},
		{"malformed yaml", "cols: [1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			assert.Error(t, err)
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "game.yaml")
	require.NoError(t, os.WriteFile(path, []byte("rows: 24\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 24, cfg.Rows)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestMarshal_roundTrip(t *testing.T) {
	cfg := Default()
	cfg.Mode = ModeRateMatched
	cfg.TickInterval = 40 * time.Millisecond

	data, err := cfg.Marshal()
	require.NoError(t, err)
	got, err := Parse(data)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}
