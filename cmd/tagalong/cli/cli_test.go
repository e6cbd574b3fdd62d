package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/mwantia/tagalong/internal/config"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestWriteDefaultConfig(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "conf")

	filename, written, err := writeDefaultConfig(dir, false)
	require.NoError(t, err)
	assert.True(t, written)

	data, err := os.ReadFile(filename)
	require.NoError(t, err)

	var cfg config.BaseConfig
	require.NoError(t, yaml.Unmarshal(data, &cfg))
	assert.Equal(t, config.GetDefault(), cfg)
}

func TestWriteDefaultConfig_KeepsExisting(t *testing.T) {
	dir := t.TempDir()
	filename := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(filename, []byte("custom: true\n"), 0o644))

	_, written, err := writeDefaultConfig(dir, false)
	require.NoError(t, err)
	assert.False(t, written)

	data, err := os.ReadFile(filename)
	require.NoError(t, err)
	assert.Equal(t, "custom: true\n", string(data))

	_, written, err = writeDefaultConfig(dir, true)
	require.NoError(t, err)
	assert.True(t, written)
}

func TestInitConfig_FindsGeneratedFile(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	filename, written, err := writeDefaultConfig(dir, false)
	require.NoError(t, err)
	require.True(t, written)

	t.Chdir(dir)
	require.NoError(t, initConfig(""))
	assert.Equal(t, filepath.Base(filename), filepath.Base(viper.ConfigFileUsed()))

	cfg, err := config.LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, config.GetDefault().Autosort, cfg.Autosort)
}

func TestInitConfig_ReadsFile(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	path := filepath.Join(t.TempDir(), "tagalong.yaml")
	require.NoError(t, os.WriteFile(path, []byte("autosort:\n  on_invalid: skip\n"), 0o644))

	require.NoError(t, initConfig(path))

	cfg, err := config.LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, config.OnInvalidSkip, cfg.Autosort.OnInvalid)
}

func TestInitConfig_MissingExplicitFile(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	err := initConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestRootCommand_RequiresTwoArgs(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	cmd := NewRootCommand(VersionInfo{Version: "1.0.0", Commit: "abc"})
	cmd.SetArgs([]string{"only-one"})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})

	require.Error(t, cmd.Execute())
}

func TestVersionCommand(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	t.Chdir(t.TempDir())

	var out bytes.Buffer
	cmd := NewRootCommand(VersionInfo{Version: "1.0.0", Commit: "abc"})
	cmd.AddCommand(NewVersionCommand())
	cmd.SetArgs([]string{"version"})
	cmd.SetOut(&out)

	require.NoError(t, cmd.Execute())
	assert.Equal(t, "tagalong 1.0.0.abc\n", out.String())
}
