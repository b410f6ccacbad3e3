// Package config provides centralized configuration management using Viper.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration values for the habitat desktop client.
type Config struct {
	DataDir     string `mapstructure:"data_dir" yaml:"data_dir"`
	RegistryDB  string `mapstructure:"registry_db" yaml:"registry_db"`
	ClerkID     string `mapstructure:"clerk_id" yaml:"clerk_id"`
	OfficeCode  string `mapstructure:"office_code" yaml:"office_code"`
	LogLevel    string `mapstructure:"log_level" yaml:"log_level"`
	LogFile     string `mapstructure:"log_file" yaml:"log_file"`
	DraftPrune  int    `mapstructure:"draft_prune_days" yaml:"draft_prune_days"`
	AutoConfirm bool   `mapstructure:"auto_confirm" yaml:"auto_confirm"`
}

// Load loads configuration with full precedence:
// CLI flags > ENV vars > project config > XDG global config > defaults
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetConfigName("habitat")

	v.SetDefault("data_dir", ".habitat")
	v.SetDefault("registry_db", "")
	v.SetDefault("clerk_id", "")
	v.SetDefault("office_code", "01")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_file", "")
	v.SetDefault("draft_prune_days", 30)
	v.SetDefault("auto_confirm", false)

	v.SetEnvPrefix("HABITAT")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Explicit ENV bindings for better bool/int parsing
	bindings := map[string]string{
		"data_dir":         "HABITAT_DATA_DIR",
		"registry_db":      "HABITAT_REGISTRY_DB",
		"clerk_id":         "HABITAT_CLERK_ID",
		"office_code":      "HABITAT_OFFICE_CODE",
		"log_level":        "HABITAT_LOG_LEVEL",
		"log_file":         "HABITAT_LOG_FILE",
		"draft_prune_days": "HABITAT_DRAFT_PRUNE_DAYS",
		"auto_confirm":     "HABITAT_AUTO_CONFIRM",
	}
	for key, env := range bindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("binding %s env: %w", key, err)
		}
	}

	// Load global config first (if exists)
	globalPath := GlobalPath()
	if fileExists(globalPath) {
		v.SetConfigFile(globalPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading global config: %w", err)
		}
	}

	// Merge project config on top (if exists)
	projectPath := ProjectPath()
	if fileExists(projectPath) {
		v.SetConfigFile(projectPath)
		if err := v.MergeInConfig(); err != nil {
			return nil, fmt.Errorf("merging project config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if cfg.RegistryDB == "" {
		cfg.RegistryDB = filepath.Join(cfg.DataDir, "registry.db")
	}

	return &cfg, nil
}

// Exists returns true if any config file exists (global or project).
func Exists() bool {
	return fileExists(GlobalPath()) || fileExists(ProjectPath())
}

// GlobalPath returns the XDG global config path.
// Returns ~/.config/habitat/habitat.yml or $XDG_CONFIG_HOME/habitat/habitat.yml.
func GlobalPath() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "habitat", "habitat.yml")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "habitat", "habitat.yml")
}

// ProjectPath returns the project-local config path in the working
// directory.
func ProjectPath() string {
	return "habitat.yml"
}

// WriteGlobal writes the config to the XDG global location.
func WriteGlobal(cfg *Config) error {
	path := GlobalPath()

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	return writeYAML(path, cfg)
}

// WriteProject writes the config to the project-local location.
func WriteProject(cfg *Config) error {
	return writeYAML(ProjectPath(), cfg)
}

func writeYAML(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
