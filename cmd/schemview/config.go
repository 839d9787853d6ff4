package main

import (
	"os"
	"path/filepath"

	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"
)

// Config represents the schemview configuration file
// (~/.config/schemview/config.yaml).
type Config struct {
	ModsDir  string `yaml:"mods_dir"`
	MaxDepth *int64 `yaml:"max_depth"`

	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`

	ServerAddress string `yaml:"server_address"`

	// ModNames overrides or extends the namespace to display-name table.
	ModNames map[string]string `yaml:"mod_names"`
}

func configPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "schemview", "config.yaml")
}

// applyConfig fills command variables from the config file when the
// corresponding CLI flag was not explicitly set.
func applyConfig(c *cli.Command, cfg Config) {
	if cfg.ModsDir != "" && !c.IsSet("mods-dir") {
		modsDir = cfg.ModsDir
	}
	if cfg.MaxDepth != nil && !c.IsSet("max-depth") {
		maxDepth = *cfg.MaxDepth
	}
	if cfg.LogLevel != "" && !c.IsSet("log-level") {
		logLevel = cfg.LogLevel
	}
	if cfg.LogFormat != "" && !c.IsSet("log-format") {
		logFormat = cfg.LogFormat
	}
}

func applyServeConfig(c *cli.Command, cfg Config, addr *string) {
	if cfg.ServerAddress != "" && !c.IsSet("addr") {
		*addr = cfg.ServerAddress
	}
}

// LoadConfig reads the config file. Returns a zero Config if the file
// doesn't exist or doesn't parse.
func LoadConfig() Config {
	path := configPath()
	if path == "" {
		return Config{}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}
	}
	return cfg
}
