package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupJSON(t *testing.T) {
	var buf bytes.Buffer
	l, err := Setup(&buf, "debug", "json")
	require.NoError(t, err)

	c := Component(l, "loader")
	c.Debug().Str("asset", "stars").Msg("loaded")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "loader", line["component"])
	assert.Equal(t, "stars", line["asset"])
	assert.Equal(t, "loaded", line["message"])
	assert.Equal(t, "debug", line["level"])
}

func TestSetupFiltersLevel(t *testing.T) {
	var buf bytes.Buffer
	l, err := Setup(&buf, "warn", "json")
	require.NoError(t, err)

	l.Info().Msg("hidden")
	assert.Zero(t, buf.Len())
	l.Warn().Msg("shown")
	assert.Contains(t, buf.String(), "shown")
}

func TestSetupRejectsUnknownLevel(t *testing.T) {
	_, err := Setup(nil, "loud", "json")
	require.Error(t, err)
}

func TestLineWriter(t *testing.T) {
	var buf bytes.Buffer
	l, err := Setup(&buf, "info", "json")
	require.NoError(t, err)

	NewLineWriter(l).WriteLineString("hello")
	assert.Contains(t, buf.String(), `"message":"hello"`)
}
