// Package paths resolves where mart keeps its configuration file and its
// database.
package paths

import (
	"os"
	"path/filepath"
	"runtime"
)

// AppName names the per-user directories.
const AppName = "mart"

// Environment overrides.
const (
	EnvConfigDir = "MART_CONFIG_DIR"
	EnvDataDir   = "MART_DATA_DIR"
)

// lookups are swapped in tests.
var (
	getenv        = os.Getenv
	homeDir       = os.UserHomeDir
	userConfigDir = os.UserConfigDir
	goos          = runtime.GOOS
)

// Dirs is a resolved pair of directories.
type Dirs struct {
	Config string
	Data   string
}

// DefaultConfigDir returns $XDG_CONFIG_HOME/mart (or ~/.config/mart) on
// Linux and the OS user config directory elsewhere.
func DefaultConfigDir() (string, error) {
	return xdgDir("XDG_CONFIG_HOME", ".config")
}

// DefaultDataDir returns $XDG_DATA_HOME/mart (or ~/.local/share/mart) on
// Linux and the OS user config directory elsewhere.
func DefaultDataDir() (string, error) {
	return xdgDir("XDG_DATA_HOME", filepath.Join(".local", "share"))
}

func xdgDir(env, homeRel string) (string, error) {
	if goos != "linux" {
		dir, err := userConfigDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(dir, AppName), nil
	}
	if base := getenv(env); base != "" {
		return filepath.Join(base, AppName), nil
	}
	home, err := homeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, homeRel, AppName), nil
}

// ResolveConfigDir applies flag > MART_CONFIG_DIR > DefaultConfigDir.
func ResolveConfigDir(flag string) (string, error) {
	return firstOf(DefaultConfigDir, flag, getenv(EnvConfigDir))
}

// ResolveDataDir applies flag > configured (the data_dir value of
// config.yaml) > MART_DATA_DIR > DefaultDataDir.
func ResolveDataDir(flag, configured string) (string, error) {
	return firstOf(DefaultDataDir, flag, configured, getenv(EnvDataDir))
}

// Resolve resolves both directories.
func Resolve(configFlag, dataFlag, configured string) (Dirs, error) {
	cfg, err := ResolveConfigDir(configFlag)
	if err != nil {
		return Dirs{}, err
	}
	data, err := ResolveDataDir(dataFlag, configured)
	if err != nil {
		return Dirs{}, err
	}
	return Dirs{Config: cfg, Data: data}, nil
}

// firstOf returns the first non-empty candidate made absolute, or the
// fallback.
func firstOf(fallback func() (string, error), candidates ...string) (string, error) {
	for _, c := range candidates {
		if c != "" {
			return filepath.Abs(c)
		}
	}
	return fallback()
}
