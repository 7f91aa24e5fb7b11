package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	c := Default()
	assert.Equal(t, "dataloom", c.ServerName)
	assert.Equal(t, 0.95, c.IdentifierUniqueness)
	assert.Equal(t, 0.5, c.CategoricalMaxRatio)
	assert.Equal(t, 50, c.CategoricalMaxDistinct)
	assert.Equal(t, 1.5, c.Analytics.IQRMultiplier)
	assert.Equal(t, 3.0, c.Analytics.ZScoreThreshold)
	assert.Equal(t, 30, c.SandboxTimeoutSec)
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	c, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default().ServerName, c.ServerName)
	assert.Equal(t, Default().Analytics.MaxSegments, c.Analytics.MaxSegments)
}

func TestLoadOverridesFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "server_name: custom\nzscore_threshold: 2.5\nmax_segments: 4\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "custom", c.ServerName)
	assert.Equal(t, 2.5, c.Analytics.ZScoreThreshold)
	assert.Equal(t, 4, c.Analytics.MaxSegments)
	// Untouched keys keep their defaults.
	assert.Equal(t, Default().Analytics.IQRMultiplier, c.Analytics.IQRMultiplier)
}

func TestLoadRejectsMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(":\n  - not yaml"), 0o644))
	_, err := Load(path)
	assert.Error(t, err)
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	c := Default()
	c.ServerName = "saved"
	c.Analytics.CorrelationThreshold = 0.42
	require.NoError(t, Save(c, path))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "saved", got.ServerName)
	assert.Equal(t, 0.42, got.Analytics.CorrelationThreshold)
}

func TestSchemaOptions(t *testing.T) {
	c := Default()
	c.CategoricalMaxDistinct = 25
	opt := c.SchemaOptions()
	assert.Equal(t, 25, opt.CategoricalMaxDistinct)
	assert.Equal(t, c.IdentifierUniqueness, opt.IdentifierUniqueness)
}
