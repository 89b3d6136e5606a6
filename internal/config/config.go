package config

import (
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Config holds all user-facing configuration for maklowicz-map.
type Config struct {
	Data     DataConfig     `toml:"data"`
	Server   ServerConfig   `toml:"server"`
	YouTube  YouTubeConfig  `toml:"youtube"`
	Maps     MapsConfig     `toml:"maps"`
	Describe DescribeConfig `toml:"describe"`
	Scrape   ScrapeConfig   `toml:"scrape"`
}

type DataConfig struct {
	Dir     string `toml:"dir"`
	Dataset string `toml:"dataset"`
}

type ServerConfig struct {
	Host           string   `toml:"host"`
	Port           int      `toml:"port"`
	Environment    string   `toml:"environment"`
	AllowedOrigins []string `toml:"allowed_origins"`
	SessionIdle    Duration `toml:"session_idle"`
}

type YouTubeConfig struct {
	ChannelQuery string  `toml:"channel_query"`
	Show         string  `toml:"show"`
	RateLimit    float64 `toml:"rate_limit"`
	Concurrency  int     `toml:"concurrency"`
}

type MapsConfig struct {
	RateLimit float64 `toml:"rate_limit"`
}

type DescribeConfig struct {
	Provider  string `toml:"provider"`
	Model     string `toml:"model"`
	MaxTokens int    `toml:"max_tokens"`
}

type ScrapeConfig struct {
	RateLimit float64 `toml:"rate_limit"`
}

// Duration is a time.Duration that decodes from TOML strings like "30m".
type Duration time.Duration

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// Std returns the value as a time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// Defaults returns a Config populated with built-in default values.
func Defaults() *Config {
	return &Config{
		Data: DataConfig{Dir: "data", Dataset: "data/locations.json"},
		Server: ServerConfig{
			Host:           "localhost",
			Port:           8080,
			Environment:    "development",
			AllowedOrigins: []string{"http://localhost:3000"},
			SessionIdle:    Duration(2 * time.Hour),
		},
		YouTube: YouTubeConfig{
			ChannelQuery: "Robert Makłowicz",
			Show:         "Robert Makłowicz w podróży",
			RateLimit:    5.0,
			Concurrency:  4,
		},
		Maps:     MapsConfig{RateLimit: 2.0},
		Describe: DescribeConfig{Provider: "anthropic", Model: "claude-sonnet-4-20250514", MaxTokens: 1024},
		Scrape:   ScrapeConfig{RateLimit: 1.0},
	}
}

// Load reads a TOML config file. If the file does not exist, built-in
// defaults are returned without error. A .env file next to the working
// directory, when present, is loaded into the environment for API keys.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := Defaults()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}
