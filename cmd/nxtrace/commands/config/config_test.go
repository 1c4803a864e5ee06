package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

func withTempConfigDir(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	old := os.Getenv("XDG_CONFIG_HOME")
	require.NoError(t, os.Setenv("XDG_CONFIG_HOME", dir))
	t.Cleanup(func() { _ = os.Setenv("XDG_CONFIG_HOME", old) })
}

func TestConfigShowDefaultsToYAMLWithNoFile(t *testing.T) {
	withTempConfigDir(t)

	showOutput = "yaml"
	require.NoError(t, runConfigShow(showCmd, nil))
}

func TestConfigShowJSON(t *testing.T) {
	withTempConfigDir(t)

	showOutput = "json"
	defer func() { showOutput = "yaml" }()

	require.NoError(t, runConfigShow(showCmd, nil))
}

func TestConfigCmdRegistersShow(t *testing.T) {
	found := false
	for _, c := range Cmd.Commands() {
		if c.Name() == "show" {
			found = true
		}
	}
	require.True(t, found)
}
