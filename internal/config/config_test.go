package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withTempConfigDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	old := os.Getenv("XDG_CONFIG_HOME")
	require.NoError(t, os.Setenv("XDG_CONFIG_HOME", dir))
	t.Cleanup(func() {
		if old != "" {
			_ = os.Setenv("XDG_CONFIG_HOME", old)
		} else {
			_ = os.Unsetenv("XDG_CONFIG_HOME")
		}
	})
	return dir
}

func TestGetDefaultConfig(t *testing.T) {
	cfg := GetDefaultConfig()
	assert.Equal(t, 32, cfg.Target.AddrBits)
	assert.Equal(t, 40, cfg.Target.TSBits)
	assert.Equal(t, 32, cfg.Target.XLen)
	assert.Equal(t, 2048, cfg.Decoder.ReturnStackCapacity)
	assert.EqualValues(t, 1_000_000, cfg.Decoder.UpdateInterval)
	assert.Equal(t, "INFO", cfg.Logging.Level)
	assert.NoError(t, Validate(cfg))
}

func TestLoad_NoFileUsesDefaults(t *testing.T) {
	withTempConfigDir(t)
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 32, cfg.Target.AddrBits)
}

func TestLoad_FromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
target:
  addr_bits: 64
  xlen: 64
decoder:
  queue_capacity: 128MB
logging:
  level: debug
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 64, cfg.Target.AddrBits)
	assert.Equal(t, 64, cfg.Target.XLen)
	assert.EqualValues(t, 128*1000*1000, cfg.Decoder.QueueCapacity)
	assert.Equal(t, "DEBUG", cfg.Logging.Level)
}

func TestLoad_EnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("target:\n  addr_bits: 32\n"), 0o644))

	require.NoError(t, os.Setenv("NXTRACE_TARGET_ADDR_BITS", "64"))
	t.Cleanup(func() { _ = os.Unsetenv("NXTRACE_TARGET_ADDR_BITS") })

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 64, cfg.Target.AddrBits)
}

func TestValidate_RejectsBadXLen(t *testing.T) {
	cfg := GetDefaultConfig()
	cfg.Target.XLen = 16
	assert.Error(t, Validate(cfg))
}

func TestValidate_RejectsBadLogLevel(t *testing.T) {
	cfg := GetDefaultConfig()
	cfg.Logging.Level = "VERBOSE"
	assert.Error(t, Validate(cfg))
}

func TestInitConfig(t *testing.T) {
	withTempConfigDir(t)
	path, err := InitConfig(false)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "# nxtrace Configuration File")
	assert.Contains(t, string(data), "target:")

	_, err = InitConfig(false)
	assert.Error(t, err, "second InitConfig without --force should fail")

	_, err = InitConfig(true)
	assert.NoError(t, err, "InitConfig with force should overwrite")
}

func TestInitConfigToPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "config.yaml")

	require.NoError(t, InitConfigToPath(path, false))
	_, err := os.Stat(path)
	require.NoError(t, err)

	err = InitConfigToPath(path, false)
	assert.Error(t, err)

	assert.NoError(t, InitConfigToPath(path, true))
}

func TestSaveConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.yaml")
	cfg := GetDefaultConfig()
	cfg.Paths.ELFPath = "/bin/firmware.elf"

	require.NoError(t, SaveConfig(cfg, path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/bin/firmware.elf", loaded.Paths.ELFPath)
}
