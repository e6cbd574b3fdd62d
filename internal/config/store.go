package config

// StoreConfig holds metadata store configuration. The database path itself
// is always taken from the command line.
type StoreConfig struct {
	LogLevel string `mapstructure:"log_level" yaml:"log_level"`
}
