package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFile(t *testing.T) {
	t.Setenv("DOCSCAN_ADDR", "")
	t.Setenv("DOCSCAN_ROOT", "")
	t.Setenv("DOCSCAN_DEBUG", "")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Defaults(), cfg)
	assert.Equal(t, 2*time.Second, cfg.BurstInterval())
}

func TestLoadOverridesDefaults(t *testing.T) {
	t.Setenv("DOCSCAN_ADDR", "")
	t.Setenv("DOCSCAN_ROOT", "")
	t.Setenv("DOCSCAN_DEBUG", "")

	path := filepath.Join(t.TempDir(), "docscan.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
enhance:
  brightness: 25
  sharpness: 40
  grayscale: true
burst:
  interval: 1.5
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 25, cfg.Enhance.Brightness)
	assert.Equal(t, 40, cfg.Enhance.Sharpness)
	assert.True(t, cfg.Enhance.Grayscale)
	// Unset keys keep their default value.
	assert.Equal(t, 100, cfg.Enhance.Contrast)
	assert.True(t, cfg.Enhance.GlareReduction)
	assert.Equal(t, 1500*time.Millisecond, cfg.BurstInterval())
	assert.Equal(t, 95, cfg.Export.Quality)
}

func TestLoadInvalidYAML(t *testing.T) {
	t.Setenv("DOCSCAN_DEBUG", "")
	path := filepath.Join(t.TempDir(), "docscan.yaml")
	require.NoError(t, os.WriteFile(path, []byte("enhance: [1, 2"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestValidateClamps(t *testing.T) {
	cfg := Defaults()
	cfg.Enhance.Brightness = -300
	cfg.Enhance.Contrast = 1000
	cfg.Enhance.Sharpness = -5
	cfg.Burst.Interval = 0.1
	cfg.Export.Quality = 0
	cfg.Server.Address = ""
	cfg.Server.MaxUpload = -1

	cfg.Validate()

	assert.Equal(t, MinBrightness, cfg.Enhance.Brightness)
	assert.Equal(t, MaxContrast, cfg.Enhance.Contrast)
	assert.Equal(t, MinSharpness, cfg.Enhance.Sharpness)
	assert.Equal(t, MinInterval, cfg.Burst.Interval)
	assert.Equal(t, 1, cfg.Export.Quality)
	assert.Equal(t, "localhost:5000", cfg.Server.Address)
	assert.Equal(t, int64(64), cfg.Server.MaxUpload)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("DOCSCAN_ADDR", ":8080")
	t.Setenv("DOCSCAN_ROOT", "/srv/docscan")
	t.Setenv("DOCSCAN_DEBUG", "true")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Server.Address)
	assert.Equal(t, "/srv/docscan", cfg.Server.Root)
	assert.True(t, cfg.Logging.Debug)
}

func TestSaveRoundTrip(t *testing.T) {
	t.Setenv("DOCSCAN_ADDR", "")
	t.Setenv("DOCSCAN_ROOT", "")
	t.Setenv("DOCSCAN_DEBUG", "")

	cfg := Defaults()
	cfg.Enhance.Brightness = -20
	cfg.Enhance.AutoEdge = false

	path := filepath.Join(t.TempDir(), "docscan.yaml")
	require.NoError(t, cfg.Save(path))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 100, clamp(250, MinBrightness, MaxBrightness))
	assert.Equal(t, int64(1), clamp(int64(-3), 1, 64))
	assert.Equal(t, MinInterval, clamp(0.1, MinInterval, MaxInterval))
	assert.Equal(t, 2.5, clamp(2.5, MinInterval, MaxInterval))
}
