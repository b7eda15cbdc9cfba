package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	GeneratorSettings struct {
		Model       string  `yaml:"model"`
		Temperature float64 `yaml:"temperature"`
		MaxTokens   int     `yaml:"max_tokens"`
	} `yaml:"generator"`
	CacheSettings struct {
		TTLDays int    `yaml:"ttl_days"`
		Prefix  string `yaml:"prefix"`
	} `yaml:"cache"`
	ExtractSettings struct {
		PanelTimeoutSeconds float64 `yaml:"panel_timeout_seconds"`
		MenuTimeoutMillis   int     `yaml:"menu_timeout_ms"`
	} `yaml:"extract"`
	SamplingSettings struct {
		BlockSize int `yaml:"block_size"`
	} `yaml:"sampling"`
}

func LoadConfig(path string) (*Config, error) {
	config := &Config{}

	_, err := os.Stat(path)
	if os.IsNotExist(err) {
		// Set default values
		config.GeneratorSettings.Model = "gpt-4o-mini"
		config.GeneratorSettings.Temperature = 0.3
		config.GeneratorSettings.MaxTokens = 2048
		config.CacheSettings.TTLDays = 7
		config.CacheSettings.Prefix = "tldw"
		config.ExtractSettings.PanelTimeoutSeconds = 5
		config.ExtractSettings.MenuTimeoutMillis = 500
		config.SamplingSettings.BlockSize = 15
		return config, nil
	}

	file, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	err = yaml.Unmarshal(file, config)
	if err != nil {
		return nil, err
	}

	return config, nil
}
