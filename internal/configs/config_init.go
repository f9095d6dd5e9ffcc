package configs

import (
	"fmt"
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// ConfigHolder interface for app config
type ConfigHolder interface {
	GetStaticConfig() interface{}
	GetDynamicConfig() interface{}
}

// InitConfig loads the static config from the environment into the holder.
// It exits the process when the config is invalid.
func InitConfig(configHolder ConfigHolder) {
	cfg, ok := configHolder.GetStaticConfig().(*Configs)
	if !ok {
		log.Fatal("Failed to cast static config to *Configs")
	}
	loaded, err := Load()
	if err != nil {
		log.Fatalf("Failed to load config from environment: %v", err)
	}
	*cfg = *loaded
	log.Println("Configuration loaded from environment variables")
}

// Load reads every known key from the environment, falling back to its
// default, and validates the result.
func Load() (*Configs, error) {
	v := viper.New()
	v.AutomaticEnv()
	// keys must be known to viper for Unmarshal to see their env values
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	var cfg Configs
	// This maps APP_NAME (env) -> app_name (config key)
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}
