package config

import (
	"fmt"

	"github.com/spf13/viper"
)

type BaseConfig struct {
	Log      LogConfig      `mapstructure:"log"      yaml:"log"`
	Store    StoreConfig    `mapstructure:"store"    yaml:"store"`
	Autosort AutosortConfig `mapstructure:"autosort" yaml:"autosort"`
}

func LoadConfig() (*BaseConfig, error) {
	cfg := &BaseConfig{}

	setDefaults()

	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Autosort.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}
