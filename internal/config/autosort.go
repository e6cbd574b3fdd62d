package config

import "fmt"

const (
	OnInvalidFail = "fail"
	OnInvalidSkip = "skip"
)

// AutosortConfig controls how paths that match the dated-directory prefix
// but fail later parsing are handled.
type AutosortConfig struct {
	OnInvalid string `mapstructure:"on_invalid" yaml:"on_invalid"`
}

func (c AutosortConfig) Validate() error {
	switch c.OnInvalid {
	case OnInvalidFail, OnInvalidSkip:
		return nil
	default:
		return fmt.Errorf("invalid autosort.on_invalid %q (expected %q or %q)", c.OnInvalid, OnInvalidFail, OnInvalidSkip)
	}
}
