package sdc

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "streaming.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
manifest: data/chunks/manifest.json
load_radius: 1200
unload_radius: 1800
max_loaded_chunks: 24
probe_height: 250
strict_bounds: true
debug: true
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "data/chunks/manifest.json", cfg.Manifest)
	assert.Equal(t, float32(1200), cfg.LoadRadius)
	assert.Equal(t, float32(1800), cfg.UnloadRadius)
	assert.Equal(t, 24, cfg.MaxLoadedChunks)
	assert.Equal(t, float32(250), cfg.ProbeHeight)
	assert.True(t, cfg.StrictBounds)
	assert.True(t, cfg.Debug)

	opts := cfg.StreamerOptions()
	assert.Equal(t, float32(1200), opts.LoadRadius)
	assert.Equal(t, 24, opts.MaxLoadedChunks)
	assert.NotNil(t, opts.Parser)
	assert.NotNil(t, opts.Logger)
}

func TestLoadConfigDefaults(t *testing.T) {
	path := writeConfig(t, "manifest: m.json\n")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	opts := cfg.StreamerOptions()
	def := DefaultStreamerOptions()
	assert.Equal(t, def.LoadRadius, opts.LoadRadius)
	assert.Equal(t, def.UnloadRadius, opts.UnloadRadius)
	assert.Equal(t, def.MaxLoadedChunks, opts.MaxLoadedChunks)
	assert.Equal(t, def.ProbeHeight, opts.ProbeHeight)
}

func TestLoadConfigErrors(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = LoadConfig(writeConfig(t, "load_radius: [not a number]\n"))
	assert.Error(t, err)

	_, err = LoadConfig(writeConfig(t, "load_radius: 1000\nunload_radius: 500\n"))
	assert.Error(t, err, "unload radius below load radius")

	_, err = LoadConfig(writeConfig(t, "max_loaded_chunks: -1\n"))
	assert.Error(t, err)
}

func TestStreamerOptionsFillDefaults(t *testing.T) {
	var opts StreamerOptions
	opts.fillDefaults()

	def := DefaultStreamerOptions()
	assert.Equal(t, def.LoadRadius, opts.LoadRadius)
	assert.Equal(t, def.UnloadRadius, opts.UnloadRadius)
	assert.Equal(t, def.MaxLoadedChunks, opts.MaxLoadedChunks)
	assert.NotNil(t, opts.Parser)
	assert.NotNil(t, opts.Logger)

	// An unload radius below the load radius is clamped up.
	opts = StreamerOptions{LoadRadius: 2000, UnloadRadius: 100}
	opts.fillDefaults()
	assert.Equal(t, float32(2000), opts.UnloadRadius)
}
