// Package config handles loading daybook.toml configuration files.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/amonks/daybook/internal/paths"
)

// LocalFileName is the per-directory config file.
const LocalFileName = "daybook.toml"

// Config represents the daybook configuration.
type Config struct {
	Store    Store    `toml:"store"`
	Defaults Defaults `toml:"defaults"`
	Server   Server   `toml:"server"`
}

// Store selects where state is kept.
type Store struct {
	// Backend is "json" (default), "sqlite" or "memory".
	Backend string `toml:"backend"`

	// Path overrides the state directory.
	Path string `toml:"path"`
}

// Defaults holds values applied when a command omits them.
type Defaults struct {
	// Priority is used when promoting without --priority.
	Priority string `toml:"priority"`

	// CategoryColor is used when creating a category without --color.
	CategoryColor string `toml:"category-color"`
}

// Server configures `day serve`.
type Server struct {
	Addr string `toml:"addr"`
}

// DefaultAddr is the listen address when none is configured.
const DefaultAddr = "127.0.0.1:7465"

// Load loads configuration from the global config file and dir/daybook.toml,
// with the local file winning key by key. Returns an empty config if no
// config files exist.
func Load(dir string) (*Config, error) {
	globalPath, err := globalConfigPath()
	if err != nil {
		return nil, err
	}

	globalCfg, globalMeta, err := loadConfigFile(globalPath)
	if err != nil {
		return nil, err
	}

	localCfg, localMeta, err := loadConfigFile(filepath.Join(dir, LocalFileName))
	if err != nil {
		return nil, err
	}

	return mergeConfigs(globalCfg, localCfg, globalMeta, localMeta), nil
}

func globalConfigPath() (string, error) {
	dir, err := paths.DefaultConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

func loadConfigFile(path string) (*Config, toml.MetaData, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return &Config{}, toml.MetaData{}, nil
	}
	if err != nil {
		return nil, toml.MetaData{}, fmt.Errorf("read config file %s: %w", path, err)
	}

	var cfg Config
	meta, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return nil, toml.MetaData{}, fmt.Errorf("parse config file %s: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return nil, toml.MetaData{}, fmt.Errorf("parse config file %s: unknown key %s", path, undecoded[0])
	}

	return &cfg, meta, nil
}

func mergeConfigs(globalCfg, localCfg *Config, globalMeta, localMeta toml.MetaData) *Config {
	if globalCfg == nil {
		globalCfg = &Config{}
	}
	if localCfg == nil {
		localCfg = &Config{}
	}

	merged := Config{}
	merged.Store.Backend = mergeString(localMeta.IsDefined("store", "backend"), localCfg.Store.Backend, globalCfg.Store.Backend)
	merged.Store.Path = mergeString(localMeta.IsDefined("store", "path"), localCfg.Store.Path, globalCfg.Store.Path)
	merged.Defaults.Priority = mergeString(localMeta.IsDefined("defaults", "priority"), localCfg.Defaults.Priority, globalCfg.Defaults.Priority)
	merged.Defaults.CategoryColor = mergeString(localMeta.IsDefined("defaults", "category-color"), localCfg.Defaults.CategoryColor, globalCfg.Defaults.CategoryColor)
	merged.Server.Addr = mergeString(localMeta.IsDefined("server", "addr"), localCfg.Server.Addr, globalCfg.Server.Addr)

	return &merged
}

func mergeString(localDefined bool, localValue, globalValue string) string {
	value := globalValue
	if localDefined {
		value = localValue
	}
	return strings.TrimSpace(value)
}

// StateDir resolves the state directory for cfg.
func (cfg *Config) StateDir() (string, error) {
	return paths.StateDir(cfg.Store.Path)
}

// ServerAddr returns the configured listen address or DefaultAddr.
func (cfg *Config) ServerAddr() string {
	if cfg.Server.Addr == "" {
		return DefaultAddr
	}
	return cfg.Server.Addr
}
