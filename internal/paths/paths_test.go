package paths

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakePlatform swaps the platform lookups for the duration of the test.
func fakePlatform(t *testing.T, os string, env map[string]string) {
	t.Helper()
	origEnv, origHome, origCfg, origOS := getenv, homeDir, userConfigDir, goos
	t.Cleanup(func() {
		getenv, homeDir, userConfigDir, goos = origEnv, origHome, origCfg, origOS
	})
	goos = os
	getenv = func(k string) string { return env[k] }
	homeDir = func() (string, error) { return "/home/ada", nil }
	userConfigDir = func() (string, error) { return "/Users/ada/Library/Application Support", nil }
}

func TestDefaultDirs(t *testing.T) {
	tests := []struct {
		name       string
		os         string
		env        map[string]string
		wantConfig string
		wantData   string
	}{
		{"linux with xdg", "linux",
			map[string]string{"XDG_CONFIG_HOME": "/xdg/config", "XDG_DATA_HOME": "/xdg/data"},
			"/xdg/config/mart", "/xdg/data/mart"},
		{"linux without xdg", "linux", nil,
			"/home/ada/.config/mart", "/home/ada/.local/share/mart"},
		{"darwin", "darwin", map[string]string{"XDG_CONFIG_HOME": "/ignored"},
			"/Users/ada/Library/Application Support/mart", "/Users/ada/Library/Application Support/mart"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fakePlatform(t, tt.os, tt.env)
			cfg, err := DefaultConfigDir()
			require.NoError(t, err)
			assert.Equal(t, tt.wantConfig, cfg)
			data, err := DefaultDataDir()
			require.NoError(t, err)
			assert.Equal(t, tt.wantData, data)
		})
	}
}

func TestDefaultDirPropagatesLookupError(t *testing.T) {
	fakePlatform(t, "linux", nil)
	homeDir = func() (string, error) { return "", errors.New("no home") }
	_, err := DefaultConfigDir()
	assert.Error(t, err)
}

func TestResolveDataDirPrecedence(t *testing.T) {
	tests := []struct {
		name       string
		flag       string
		configured string
		env        string
		want       string
	}{
		{"flag wins", "/flag", "/config", "/env", "/flag"},
		{"config beats env", "", "/config", "/env", "/config"},
		{"env beats default", "", "", "/env", "/env"},
		{"default", "", "", "", "/home/ada/.local/share/mart"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fakePlatform(t, "linux", map[string]string{EnvDataDir: tt.env})
			got, err := ResolveDataDir(tt.flag, tt.configured)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveMakesRelativePathsAbsolute(t *testing.T) {
	fakePlatform(t, "linux", map[string]string{EnvConfigDir: "rel-config"})
	dirs, err := Resolve("", "rel-data", "")
	require.NoError(t, err)

	wantCfg, err := filepath.Abs("rel-config")
	require.NoError(t, err)
	wantData, err := filepath.Abs("rel-data")
	require.NoError(t, err)
	assert.Equal(t, Dirs{Config: wantCfg, Data: wantData}, dirs)
}
