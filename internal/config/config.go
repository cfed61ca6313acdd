package config

import (
	"fmt"
	"strings"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/dmitrijs2005/kp2vcard/internal/editor"
)

// EnvPrefix is prepended to every environment variable read by Load.
const EnvPrefix = "KP2VCARD"

// Flag names bound by Load when present on the flag set.
const (
	FlagConfig   = "config"
	FlagStore    = "store"
	FlagEditor   = "editor"
	FlagLogLevel = "log-level"
)

type StoreConfig struct {
	Path string `mapstructure:"path"`
}

type EditorConfig struct {
	Command string `mapstructure:"command"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

// Config holds runtime settings for the kp2vcard CLI.
type Config struct {
	Store  StoreConfig  `mapstructure:"store"`
	Editor EditorConfig `mapstructure:"editor"`
	Log    LogConfig    `mapstructure:"log"`
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.Store.Path = "contacts.db"
	c.Editor.Command = editor.DefaultCommand
	c.Log.Level = "warn"
}

var flagKeys = map[string]string{
	FlagStore:    "store.path",
	FlagEditor:   "editor.command",
	FlagLogLevel: "log.level",
}

// Load builds a Config from defaults, the optional config file, the
// environment and flags, in increasing order of precedence. flags may be nil.
func Load(flags *pflag.FlagSet) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	v := viper.New()
	v.SetDefault("store.path", cfg.Store.Path)
	v.SetDefault("editor.command", cfg.Editor.Command)
	v.SetDefault("log.level", cfg.Log.Level)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if flags != nil {
		for name, key := range flagKeys {
			f := flags.Lookup(name)
			if f == nil {
				continue
			}
			if err := v.BindPFlag(key, f); err != nil {
				return nil, fmt.Errorf("bind flag %s: %w", name, err)
			}
		}

		if f := flags.Lookup(FlagConfig); f != nil && f.Value.String() != "" {
			v.SetConfigFile(f.Value.String())
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("read config %s: %w", f.Value.String(), err)
			}
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config unmarshal: %w", err)
	}

	path, err := homedir.Expand(cfg.Store.Path)
	if err != nil {
		return nil, fmt.Errorf("store path %s: %w", cfg.Store.Path, err)
	}
	cfg.Store.Path = path
	return cfg, nil
}
