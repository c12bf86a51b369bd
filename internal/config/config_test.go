package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultValues(t *testing.T) {
	t.Cleanup(viper.Reset)
	t.Chdir(t.TempDir())

	require.NoError(t, Load(""))
	c, err := Current()
	require.NoError(t, err)

	assert.Equal(t, "info", c.LogLevel)
	assert.Equal(t, 1024, c.Window.Width)
	assert.Equal(t, 768, c.Window.Height)
	assert.Equal(t, "images/lq/", c.Assets.LQPrefix)
	assert.Equal(t, "images/hq/", c.Assets.HQPrefix)
	assert.True(t, c.Assets.LoadHQ)
	assert.Equal(t, 10*time.Second, c.Assets.Timeout)
	assert.Empty(t, c.Markers)
}

func TestLoad_MarkerCatalog(t *testing.T) {
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	cfg := `
logLevel: debug
window:
  mobile: true
markers:
  - id: berlin
    name: Berlin
    url: /projects/berlin
    image: thumbs/berlin.png
    latitude: 52.52
    longitude: 13.405
  - name: Lima
    url: /projects/lima
    image: thumbs/lima.png
    latitude: -12.046
    longitude: -77.043
`
	path := filepath.Join(dir, "terra.yaml")
	require.NoError(t, os.WriteFile(path, []byte(cfg), 0o644))

	require.NoError(t, Load(path))
	c, err := Current()
	require.NoError(t, err)

	assert.Equal(t, "debug", c.LogLevel)
	assert.True(t, c.Window.Mobile)
	require.Len(t, c.Markers, 2)
	assert.Equal(t, Marker{
		ID: "berlin", Name: "Berlin", URL: "/projects/berlin", Image: "thumbs/berlin.png",
		Latitude: 52.52, Longitude: 13.405,
	}, c.Markers[0])
	assert.Equal(t, "/projects/lima", c.Markers[1].ID, "id falls back to url")
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	t.Cleanup(viper.Reset)

	err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config: read")
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Cleanup(viper.Reset)
	t.Chdir(t.TempDir())
	t.Setenv("TERRA_WINDOW_WIDTH", "1600")

	require.NoError(t, Load(""))
	c, err := Current()
	require.NoError(t, err)
	assert.Equal(t, 1600, c.Window.Width)
}
