package main

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// ClientConfig holds the CLI's persistent connection settings.
type ClientConfig struct {
	URL   string `toml:"url"`
	Token string `toml:"token,omitempty"`
}

func clientConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "exptrack", "config.toml"), nil
}

func loadClientConfig() (ClientConfig, error) {
	path, err := clientConfigPath()
	if err != nil {
		return ClientConfig{}, err
	}
	var cfg ClientConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		if os.IsNotExist(err) {
			return ClientConfig{}, nil
		}
		return ClientConfig{}, err
	}
	return cfg, nil
}
