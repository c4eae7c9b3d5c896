package config

import (
	"strings"

	"github.com/spf13/viper"
)

// New creates a new Viper instance with default configuration.
func New() *viper.Viper {
	v := viper.NewWithOptions(viper.EnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_")))
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv() // read in environment variables that match

	// Initialize default settings
	setDefaults(v)

	return v
}
