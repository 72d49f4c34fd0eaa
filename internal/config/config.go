package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`
	Leaderboard struct {
		Path string `yaml:"path"`
	} `yaml:"leaderboard"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
	} `yaml:"redis"`
	Postgres struct {
		URL string `yaml:"url"`
	} `yaml:"postgres"`
	Bank struct {
		Path string `yaml:"path"`
		Name string `yaml:"name"`
		TTL  string `yaml:"ttl"`
	} `yaml:"bank"`
	Quiz struct {
		DefaultCount  int  `yaml:"defaultCount"`
		RevealAnswers bool `yaml:"revealAnswers"`
	} `yaml:"quiz"`
}

// Load reads YAML config from path.
func Load(path string) (Config, error) {
	cfg := Config{}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// LeaderboardPath returns the configured leaderboard file or the default.
func (c Config) LeaderboardPath() string {
	if c.Leaderboard.Path != "" {
		return c.Leaderboard.Path
	}
	return "data/leaderboard.json"
}

// TTLDuration parses a duration string or returns the fallback if empty.
func TTLDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return fallback
}
