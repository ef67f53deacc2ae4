package delta

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	cfg, err := LoadConfig(strings.NewReader(`
cell_size: 32
max_cells_per_proxy: 64
debug: true
log_level: debug
tps: 120
`))
	require.NoError(t, err)
	assert.Equal(t, Config{
		CellSize:         32,
		MaxCellsPerProxy: 64,
		Debug:            true,
		LogLevel:         "debug",
		TPS:              120,
	}, cfg)
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)

	cfg, err = LoadConfig(strings.NewReader("debug: true\n"))
	require.NoError(t, err)
	assert.Equal(t, DefaultCellSize, cfg.CellSize)
	assert.True(t, cfg.Debug)
}

func TestLoadConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"unknown field", "cellsize: 3\n"},
		{"negative cell size", "cell_size: -1\n"},
		{"zero max cells", "max_cells_per_proxy: 0\n"},
		{"negative tps", "tps: -5\n"},
		{"bad level", "log_level: loud\n"},
		{"malformed", "cell_size: [1, 2\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(strings.NewReader(tt.yaml))
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

func TestNewLogger(t *testing.T) {
	logger, err := NewLogger("")
	require.NoError(t, err)
	assert.NotNil(t, logger)

	_, err = NewLogger("verbose")
	assert.ErrorIs(t, err, ErrInvalidConfig)
}
