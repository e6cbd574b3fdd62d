package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// configName is the file name, without extension, that discovery looks for
// and config generate writes.
const configName = "config"

var (
	envFiles   = []string{".env", ".env.local"}
	configDirs = []string{".", "./config", "/etc/tagalong", "$HOME/.tagalong"}
)

// loadEnvFiles loads the .env files found in dir. Missing files are ignored;
// variables that are already set win.
func loadEnvFiles(dir string) {
	for _, name := range envFiles {
		path := filepath.Join(os.ExpandEnv(dir), name)
		if _, err := os.Stat(path); err != nil {
			continue
		}
		godotenv.Load(path)
	}
}

func initConfig(path string) error {
	if path != "" {
		viper.SetConfigFile(path)
		loadEnvFiles(".")
		loadEnvFiles(filepath.Dir(path))
	} else {
		viper.SetConfigName(configName)
		viper.SetConfigType("yaml")
		for _, dir := range configDirs {
			viper.AddConfigPath(dir)
			loadEnvFiles(dir)
		}
	}

	viper.SetEnvPrefix("TAGALONG")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}

	return nil
}
