package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/mart/pkg/types"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	configFileExt  = "config.yaml"

	envPrefix = "MART"

	cfgKeyBackend     = "backend"
	cfgKeyDataDir     = "data_dir"
	cfgKeySeed        = "seed"
	cfgKeyBusyTimeout = "busy_timeout"
	cfgKeyLogLevel    = "log_level"
	cfgKeyLogJSON     = "log_json"
)

// configFile is the shape written to config.yaml on first run.
type configFile struct {
	Backend     string `yaml:"backend"`
	DataDir     string `yaml:"data_dir,omitempty"`
	Seed        bool   `yaml:"seed"`
	BusyTimeout string `yaml:"busy_timeout"`
	LogLevel    string `yaml:"log_level"`
}

func defaultConfigFile(dataDir string) configFile {
	return configFile{
		Backend:     types.BackendSQLite,
		DataDir:     dataDir,
		Seed:        true,
		BusyTimeout: types.DefaultBusyTimeout.String(),
		LogLevel:    "warn",
	}
}

// loadConfig reads config.yaml from configDir, creating the directory and a
// default file on first run. MART_* environment variables override file
// values.
func loadConfig(configDir string) (*viper.Viper, error) {
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return nil, fmt.Errorf("create config dir: %w", err)
	}
	if err := writeConfigIfMissing(filepath.Join(configDir, configFileExt), ""); err != nil {
		return nil, fmt.Errorf("write default config: %w", err)
	}

	v := viper.New()
	def := defaultConfigFile("")
	v.SetDefault(cfgKeyBackend, def.Backend)
	v.SetDefault(cfgKeySeed, def.Seed)
	v.SetDefault(cfgKeyBusyTimeout, def.BusyTimeout)
	v.SetDefault(cfgKeyLogLevel, def.LogLevel)
	v.SetDefault(cfgKeyLogJSON, false)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return v, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	return v, nil
}

// storeConfig builds the store configuration from v with dataDir already
// resolved.
func storeConfig(v *viper.Viper, dataDir string) (types.Config, error) {
	var cfg types.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return types.Config{}, fmt.Errorf("decode config: %w", err)
	}
	cfg.DataDir = dataDir
	if err := cfg.Validate(); err != nil {
		return types.Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// writeConfigIfMissing creates a default config.yaml at path. An existing
// file is left alone.
func writeConfigIfMissing(path, dataDir string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("stat config file: %w", err)
	}

	cfg := defaultConfigFile(dataDir)
	data, err := yaml.Marshal(&cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}
