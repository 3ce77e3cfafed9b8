package main

import (
	"bytes"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/BurntSushi/toml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestDefaultConfig(t *testing.T) {
	require.NoError(t, defaultConfig().Validate())
}

func TestConfig_Validate(t *testing.T) {
	for _, tc := range []struct {
		name   string
		modify func(cfg *Config)
		err    error
	}{
		{
			name:   "no group name",
			modify: func(cfg *Config) { cfg.Groups[0].Name = "" },
			err:    ErrNoGroupName,
		},
		{
			name:   "duplicate group",
			modify: func(cfg *Config) { cfg.Groups[1].Name = "color" },
			err:    ErrDuplicateGroup,
		},
		{
			name:   "invalid kind",
			modify: func(cfg *Config) { cfg.Groups[0].Kind = "toggle" },
			err:    ErrInvalidKind,
		},
		{
			name:   "no item id",
			modify: func(cfg *Config) { cfg.Groups[0].Items[1].ID = "" },
			err:    ErrNoItemID,
		},
		{
			name:   "duplicate item",
			modify: func(cfg *Config) { cfg.Groups[2].Items[0].ID = "red" },
			err:    ErrDuplicateItem,
		},
		{
			name:   "quit item",
			modify: func(cfg *Config) { cfg.Groups[2].Items[0].ID = string(quitID) },
			err:    ErrDuplicateItem,
		},
		{
			name:   "unknown default",
			modify: func(cfg *Config) { cfg.Groups[0].Default = "purple" },
			err:    ErrInvalidDefault,
		},
		{
			name:   "checkbox default",
			modify: func(cfg *Config) { cfg.Groups[2].Default = "added" },
			err:    ErrInvalidDefault,
		},
		{
			name:   "invalid color",
			modify: func(cfg *Config) { cfg.Groups[0].Items[0].Color = "red" },
			err:    ErrInvalidColor,
		},
		{
			name:   "invalid duplicate policy",
			modify: func(cfg *Config) { cfg.Duplicates = "ignore" },
			err:    ErrInvalidPolicy,
		},
		{
			name:   "invalid default policy",
			modify: func(cfg *Config) { cfg.Defaults = "random" },
			err:    ErrInvalidPolicy,
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			cfg := defaultConfig()
			tc.modify(cfg)

			assert.ErrorIs(t, cfg.Validate(), tc.err)
		})
	}
}

func TestParseColor(t *testing.T) {
	c, err := parseColor("#0080ff")
	require.NoError(t, err)
	assert.Equal(t, color.NRGBA{R: 0, G: 0x80, B: 0xff, A: 0xff}, c)

	c, err = parseColor("11223344")
	require.NoError(t, err)
	assert.Equal(t, color.NRGBA{R: 0x11, G: 0x22, B: 0x33, A: 0x44}, c)

	_, err = parseColor("#12345")
	assert.ErrorIs(t, err, ErrInvalidColor)

	_, err = parseColor("#gggggg")
	assert.ErrorIs(t, err, ErrInvalidColor)
}

func TestConfig_Dump(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, defaultConfig().dump(&buf, "toml"))

	var fromTOML Config
	_, err := toml.Decode(buf.String(), &fromTOML)
	require.NoError(t, err)
	assert.Equal(t, defaultConfig(), &fromTOML)

	buf.Reset()
	require.NoError(t, defaultConfig().dump(&buf, "yaml"))

	var fromYAML Config
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &fromYAML))
	assert.Equal(t, defaultConfig(), &fromYAML)

	assert.ErrorIs(t, defaultConfig().dump(&buf, "ini"), ErrInvalidDumpType)
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "traydemo.toml")

	err := os.WriteFile(path, []byte(`
title = "Lamp"
defaults = "last"

[[groups]]
name = "mode"
label = "Mode"
kind = "radio"
default = "warm"

  [[groups.items]]
  id = "warm"
  label = "Warm"
  color = "#ffaa00"

  [[groups.items]]
  id = "cold"
  label = "Cold"
  color = "#00aaff"
`), 0o600)
	require.NoError(t, err)

	t.Setenv("TRAYTEST_TITLE", "Desk Lamp")

	cfg, err := loadConfig(path, "TRAYTEST")
	require.NoError(t, err)

	assert.Equal(t, "Desk Lamp", cfg.Title)
	assert.Equal(t, "last", cfg.Defaults)
	assert.Equal(t, "Quit", cfg.QuitLabel)
	require.Len(t, cfg.Groups, 1)
	assert.Equal(t, "warm", cfg.Groups[0].Default)
	assert.Len(t, cfg.Groups[0].Items, 2)
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := loadConfig("", "TRAYTEST")
	require.NoError(t, err)
	assert.Equal(t, defaultConfig(), cfg)
}

func TestLoadConfig_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "traydemo.yaml")
	require.NoError(t, os.WriteFile(path, []byte("groups:\n  - name: mode\n    kind: slider\n"), 0o600))

	_, err := loadConfig(path, "TRAYTEST")
	assert.ErrorIs(t, err, ErrInvalidKind)
}

func TestParseFlags(t *testing.T) {
	f, err := parseFlags([]string{"--dump", "yaml", "-d"})
	require.NoError(t, err)

	assert.Equal(t, "yaml", f.Dump)
	assert.True(t, f.Debug)
	assert.Equal(t, defaultEnvPrefix, f.EnvPrefix)

	f, err = parseFlags([]string{"-c", "/etc/traydemo.conf"})
	require.NoError(t, err)
	assert.Equal(t, "/etc/traydemo.conf", f.ConfigFile)
}
