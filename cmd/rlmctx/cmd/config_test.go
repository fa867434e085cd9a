package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigInitCmd_CreatesFileFromTemplate(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cmd := newConfigInitCmd()
	buf := &bytes.Buffer{}
	cmd.SetOut(buf)
	cmd.SetArgs([]string{})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, buf.String(), "created user configuration")

	path := filepath.Join(os.Getenv("XDG_CONFIG_HOME"), "rlmctx", "config.yaml")
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "rlmctx user configuration")
}

func TestConfigInitCmd_RefusesToOverwriteWithoutForce(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	first := newConfigInitCmd()
	first.SetArgs([]string{})
	require.NoError(t, first.Execute())

	second := newConfigInitCmd()
	buf := &bytes.Buffer{}
	second.SetOut(buf)
	second.SetArgs([]string{})
	require.NoError(t, second.Execute())
	assert.Contains(t, buf.String(), "already exists")
}

func TestConfigPathCmd_PrintsUserConfigPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cmd := newConfigPathCmd()
	buf := &bytes.Buffer{}
	cmd.SetOut(buf)

	require.NoError(t, cmd.Execute())
	assert.Contains(t, buf.String(), "rlmctx")
}
