package common

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestNewDefaultConfig(t *testing.T) {
	config := NewDefaultConfig()

	assert.True(t, config.Stripping.StripAssetBundles)
	assert.True(t, config.Stripping.StripPlayer)
	assert.False(t, config.Stripping.SkipNotRegisteredShaders)
	assert.Equal(t, []string{WhitelistPlayerLog, WhitelistCollections}, config.Whitelists.Order)
	assert.True(t, config.Report.Enabled)
	assert.Equal(t, "ShaderStripper", config.Report.Name)
	require.NoError(t, config.Validate())
}

func TestLoadFromFiles_Layering(t *testing.T) {
	dir := t.TempDir()
	base := writeConfig(t, dir, "base.toml", `
[stripping]
strip_player = false
always_included = ["Custom/Water", ""]

[whitelists]
player_log = "Player.log"
`)
	override := writeConfig(t, dir, "override.toml", `
[stripping]
always_excluded = ["Legacy/Diffuse"]

[whitelists]
order = ["collections", "player_log"]

[report]
dir = "./out"
`)

	config, err := LoadFromFiles(base, override)
	require.NoError(t, err)

	assert.False(t, config.Stripping.StripPlayer)
	assert.True(t, config.Stripping.StripAssetBundles)
	assert.Equal(t, []string{"Custom/Water"}, config.Stripping.AlwaysIncluded)
	assert.Equal(t, []string{"Legacy/Diffuse"}, config.Stripping.AlwaysExcluded)
	assert.Equal(t, "Player.log", config.Whitelists.PlayerLog)
	assert.Equal(t, []string{"collections", "player_log"}, config.Whitelists.Order)
	assert.Equal(t, "./out", config.Report.Dir)
}

func TestLoadFromFiles_EnvOverrides(t *testing.T) {
	t.Setenv("SHADERSTRIP_STRIP_ASSET_BUNDLES", "false")
	t.Setenv("SHADERSTRIP_ALWAYS_EXCLUDED", "A, B ,,")
	t.Setenv("SHADERSTRIP_PLAYER_LOG", "/tmp/Player.log")
	t.Setenv("SHADERSTRIP_LOG_LEVEL", "DEBUG")

	config, err := LoadFromFiles()
	require.NoError(t, err)

	assert.False(t, config.Stripping.StripAssetBundles)
	assert.Equal(t, []string{"A", "B"}, config.Stripping.AlwaysExcluded)
	assert.Equal(t, "/tmp/Player.log", config.Whitelists.PlayerLog)
	assert.Equal(t, "debug", config.Logging.Level)
}

func TestLoadFromFiles_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadFromFiles(filepath.Join(dir, "missing.toml"))
	require.Error(t, err)

	broken := writeConfig(t, dir, "broken.toml", "[stripping\n")
	_, err = LoadFromFiles(broken)
	require.Error(t, err)

	badOrder := writeConfig(t, dir, "order.toml", "[whitelists]\norder = [\"player_log\", \"network\"]\n")
	_, err = LoadFromFiles(badOrder)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid configuration")

	duplicate := writeConfig(t, dir, "dup.toml", "[whitelists]\norder = [\"player_log\", \"player_log\"]\n")
	_, err = LoadFromFiles(duplicate)
	require.Error(t, err)
}

func TestApplyFlagOverrides(t *testing.T) {
	config := NewDefaultConfig()
	ApplyFlagOverrides(config, FlagOverrides{
		PlayerLog:   "Player.log",
		Collections: []string{"a.yaml", " "},
		ReportDir:   "reports",
		NoReport:    true,
	})

	assert.Equal(t, "Player.log", config.Whitelists.PlayerLog)
	assert.Equal(t, []string{"a.yaml"}, config.Whitelists.Collections)
	assert.Equal(t, "reports", config.Report.Dir)
	assert.False(t, config.Report.Enabled)

	// zero values leave the config untouched
	ApplyFlagOverrides(config, FlagOverrides{})
	assert.Equal(t, "Player.log", config.Whitelists.PlayerLog)
}

func TestDeepCloneConfig(t *testing.T) {
	config := NewDefaultConfig()
	config.Stripping.AlwaysIncluded = []string{"A"}

	clone := DeepCloneConfig(config)
	clone.Stripping.AlwaysIncluded[0] = "B"
	clone.Whitelists.Order[0] = "collections"

	assert.Equal(t, "A", config.Stripping.AlwaysIncluded[0])
	assert.Equal(t, WhitelistPlayerLog, config.Whitelists.Order[0])
	assert.Nil(t, DeepCloneConfig(nil))
}

func TestHasWhitelist(t *testing.T) {
	config := NewDefaultConfig()
	config.Whitelists.Order = []string{WhitelistCollections}

	assert.True(t, config.HasWhitelist(WhitelistCollections))
	assert.False(t, config.HasWhitelist(WhitelistPlayerLog))
}

func TestNewRunID(t *testing.T) {
	a, b := NewRunID(), NewRunID()
	assert.NotEqual(t, a, b)
	assert.Regexp(t, `^run_[0-9a-f-]{36}$`, a)
}
