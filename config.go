package main

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/spf13/viper"
)

const configFilePath = "config.json"

// Config represents the application's configuration structure.
type Config struct {
	DatasetPath   string  `json:"dataset-path" mapstructure:"dataset-path"`
	OutputPath    string  `json:"output-path" mapstructure:"output-path"`
	MinSupport    float64 `json:"min-support" mapstructure:"min-support"`
	MinLift       float64 `json:"min-lift" mapstructure:"min-lift"`
	MaxLen        int     `json:"max-len" mapstructure:"max-len"`
	Workers       int     `json:"workers" mapstructure:"workers"`
	TopRules      int     `json:"top-rules" mapstructure:"top-rules"`
	RecommendItem string  `json:"recommend-item" mapstructure:"recommend-item"`
	BatchSize     int     `json:"batch-size" mapstructure:"batch-size"`
	LogLevel      string  `json:"log-level" mapstructure:"log-level"`
}

var requiredFields = []string{
	"dataset-path",
}

// field: default value
var optionalFields = map[string]interface{}{
	"output-path":    "",
	"min-support":    0.01,
	"min-lift":       1.0,
	"max-len":        0,
	"workers":        1,
	"top-rules":      10,
	"recommend-item": "",
	"batch-size":     500,
	"log-level":      "INFO",
}

// InitConfig reads configuration from a JSON file and environment variables.
// Environment variables take precedence over the config file.
func InitConfig() (*Config, error) {
	v := viper.New()

	// Set config file type and name
	v.SetConfigFile(configFilePath)
	v.SetConfigType("json")

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))

	for _, field := range requiredFields {
		v.BindEnv(field)
	}
	for field := range optionalFields {
		v.BindEnv(field)
	}

	for optField, defaultValue := range optionalFields {
		v.SetDefault(optField, defaultValue)
	}

	if err := v.ReadInConfig(); err != nil {
		// Environment-only configuration is allowed.
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("could not read config: %w", err)
		}
	}

	for _, field := range requiredFields {
		if !v.IsSet(field) {
			return nil, fmt.Errorf("missing required config field: %s", field)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("could not unmarshal config: %w", err)
	}

	return &config, nil
}
