package config

import (
	"context"

	"github.com/spf13/viper"
)

type contextKey struct{ key string }

var configKey = &contextKey{"viper"}

// SetViper saves the Viper instance into the context.
func SetViper(ctx context.Context, v *viper.Viper) context.Context {
	if v == nil {
		v = New()
	}

	return context.WithValue(ctx, configKey, v)
}

// Viper retrieves the Viper instance from the context.
func Viper(ctx context.Context) *viper.Viper {
	v, ok := ctx.Value(configKey).(*viper.Viper)
	if !ok {
		// fall back on a fresh instance with defaults so callers never see a nil config
		return New()
	}

	return v
}
