package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRootCommandHasExpectedSubcommands(t *testing.T) {
	root := GetRootCmd()

	names := make(map[string]bool)
	for _, c := range root.Commands() {
		names[c.Name()] = true
	}

	for _, want := range []string{"version", "init", "decode", "capture", "config"} {
		assert.True(t, names[want], "expected subcommand %q to be registered", want)
	}
}

func TestGetConfigFileReflectsFlag(t *testing.T) {
	root := GetRootCmd()
	flags := root.PersistentFlags()
	_ = flags.Set("config", "/tmp/example.yaml")
	assert.Equal(t, "/tmp/example.yaml", GetConfigFile())
	_ = flags.Set("config", "")
}
