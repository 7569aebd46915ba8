package config

import (
	"fmt"
	"path/filepath"
	"runtime"
	"strings"

	internal "github.com/ZanzyTHEbar/wholeword/wwm"

	"github.com/spf13/viper"
)

// Config stores all configuration of the application.
// The values are read by viper from a config file or environment variables.
type Config struct {
	Collator CollatorConfig `mapstructure:"collator"`
	Pipeline PipelineConfig `mapstructure:"pipeline"`
}

// CollatorConfig stores masking and batch layout settings.
type CollatorConfig struct {
	// MaskProbability is the target fraction of tokens selected for masking.
	MaskProbability float64 `mapstructure:"maskProbability"`
	// MaxPredictions caps masked positions per example regardless of length.
	MaxPredictions int `mapstructure:"maxPredictions"`
	// PadToMultipleOf rounds padded sequence lengths up to a multiple; 0 disables.
	PadToMultipleOf int `mapstructure:"padToMultipleOf"`
	// BoundaryMarker is the word-start prefix of the active tokenizer scheme.
	// Empty means the tokenizer has no such convention.
	BoundaryMarker string `mapstructure:"boundaryMarker"`
	// Seed seeds the masking RNG; 0 selects a nondeterministic seed.
	Seed uint64 `mapstructure:"seed"`
}

// PipelineConfig stores settings for the concurrent batch runner.
type PipelineConfig struct {
	MaxWorkers int `mapstructure:"maxWorkers"`
}

var AppConfig Config

// LoadConfig reads configuration from file or environment variables.
func LoadConfig(configPath string) (*Config, error) {
	if configPath != "" {
		viper.SetConfigFile(configPath)
	} else {
		viper.AddConfigPath(".")
		viper.AddConfigPath("..")
		viper.AddConfigPath(filepath.Join("etc", internal.DefaultAppName))
		viper.AddConfigPath(internal.DefaultConfigPath)
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	// Set default values
	viper.SetDefault("collator.maskProbability", internal.DefaultMaskProbability)
	viper.SetDefault("collator.maxPredictions", internal.DefaultMaxPredictions)
	viper.SetDefault("collator.padToMultipleOf", 0)
	viper.SetDefault("collator.boundaryMarker", internal.DefaultBoundaryMarker)
	viper.SetDefault("collator.seed", 0)
	viper.SetDefault("pipeline.maxWorkers", runtime.NumCPU())

	viper.AutomaticEnv()                                   // Read in environment variables that match
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_")) // e.g. collator.maskProbability becomes COLLATOR_MASKPROBABILITY

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// Config file not found; defaults will be used.
		} else {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	err := viper.Unmarshal(&AppConfig)
	if err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}

	return &AppConfig, nil
}
