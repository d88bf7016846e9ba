package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"github.com/zalando/go-keyring"
)

const (
	configDir  = ".querydesk"
	configFile = "config"
	configType = "yaml"

	// keyringService namespaces profile passwords in the OS keyring.
	keyringService = "querydesk"
)

// Load reads the configuration from ~/.querydesk/config.yaml and resolves
// profile passwords from the OS keyring. Returns an empty config if the file
// does not exist.
func Load() (*Config, error) {
	dir, err := configDirPath()
	if err != nil {
		return nil, fmt.Errorf("config dir: %w", err)
	}

	viper.SetConfigName(configFile)
	viper.SetConfigType(configType)
	viper.AddConfigPath(dir)

	// Defaults
	viper.SetDefault("preferences.theme", "default")
	viper.SetDefault("preferences.query_timeout_seconds", 30)

	cfg := &Config{}

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	// Passwords live in the keyring, keyed by profile name. A missing entry
	// just leaves the password empty (e.g. trust or peer auth).
	for i := range cfg.Connections {
		if pw, err := keyring.Get(keyringService, cfg.Connections[i].Name); err == nil {
			cfg.Connections[i].Password = pw
		}
	}

	return cfg, nil
}

// Save writes the configuration to ~/.querydesk/config.yaml. Passwords are
// excluded from serialization, so the file never contains credentials.
func Save(cfg *Config) error {
	dir, err := configDirPath()
	if err != nil {
		return fmt.Errorf("config dir: %w", err)
	}

	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	viper.Set("connections", cfg.Connections)
	viper.Set("preferences", cfg.Preferences)

	path := filepath.Join(dir, configFile+"."+configType)
	return viper.WriteConfigAs(path)
}

// SaveConnection stores a profile: the password goes to the OS keyring, the
// rest to the config file. Saving an already-known profile is a no-op for
// the file but refreshes the keyring entry.
func SaveConnection(cfg *Config, conn Connection) error {
	if conn.Password != "" {
		if err := keyring.Set(keyringService, conn.Name, conn.Password); err != nil {
			return fmt.Errorf("store password: %w", err)
		}
	}
	cfg.AddConnection(conn)
	return Save(cfg)
}

// DeleteConnection removes a profile and its keyring entry.
func DeleteConnection(cfg *Config, name string) error {
	for i, c := range cfg.Connections {
		if c.Name == name {
			cfg.Connections = append(cfg.Connections[:i], cfg.Connections[i+1:]...)
			break
		}
	}
	// Ignore a missing keyring entry; the profile may never have had one.
	_ = keyring.Delete(keyringService, name)
	return Save(cfg)
}

// DefaultConnection returns the default connection from config, or the first one.
func DefaultConnection(cfg *Config) *Connection {
	if len(cfg.Connections) == 0 {
		return nil
	}

	if cfg.Preferences.DefaultConnection != "" {
		for i := range cfg.Connections {
			if cfg.Connections[i].Name == cfg.Preferences.DefaultConnection {
				return &cfg.Connections[i]
			}
		}
	}

	return &cfg.Connections[0]
}

func configDirPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, configDir), nil
}
