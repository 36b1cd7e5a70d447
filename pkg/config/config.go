package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/papercomputeco/huddle/pkg/completion"
	"github.com/papercomputeco/huddle/pkg/dotdir"
)

const (
	configFile = "config.toml"

	// v0 is the alpha version of the config
	v0 = 0

	// CurrentV is the currently supported version, points to v0
	CurrentV = v0
)

// CompletionConfig returns the client configuration for the completion
// service described by c.
func (c *Config) CompletionConfig() completion.Config {
	return completion.Config{
		APIKey:   c.Assistant.APIKey,
		Endpoint: c.Assistant.Endpoint,
		Defaults: c.Assistant.Options(),
	}
}

type Configer struct {
	ddm        *dotdir.Manager
	targetPath string
}

func NewConfiger(override string) (*Configer, error) {
	cfger := &Configer{ddm: dotdir.NewManager()}

	target, err := cfger.ddm.Target(override)
	if err != nil {
		return nil, err
	}
	if target == "" {
		return cfger, nil
	}

	path := filepath.Join(target, configFile)
	if _, err := os.Stat(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfger.targetPath = path

	return cfger, nil
}

// ValidConfigKeys returns every supported key in config.toml section order.
func ValidConfigKeys() []string {
	return []string{
		"assistant.api_key",
		"assistant.endpoint",
		"assistant.model",
		"assistant.temperature",
		"assistant.max_tokens",
		"assistant.top_p",
		"assistant.frequency_penalty",
		"assistant.presence_penalty",
		"server.listen",
		"server.cors_origins",
		"chat.locale",
		"chat.copy_reset",
	}
}

func IsValidConfigKey(key string) bool {
	_, ok := configKeys[key]
	return ok
}

// IsSecretKey reports whether the value of key must be masked when printed.
func IsSecretKey(key string) bool {
	return key == "assistant.api_key"
}

// GetTarget returns the config.toml path, empty when no directory resolved.
func (c *Configer) GetTarget() string {
	return c.targetPath
}

// LoadConfig reads config.toml. A missing file yields NewDefaultConfig(), and
// zero-value fields of a present file are filled from the defaults.
func (c *Configer) LoadConfig() (*Config, error) {
	if c.targetPath == "" {
		return NewDefaultConfig(), nil
	}

	data, err := os.ReadFile(c.targetPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return NewDefaultConfig(), nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	cfg, err := ParseConfigTOML(data)
	if err != nil {
		return nil, err
	}

	applyDefaults(cfg)

	return cfg, nil
}

func applyDefaults(cfg *Config) {
	defaults := NewDefaultConfig()

	if cfg.Assistant.Endpoint == "" {
		cfg.Assistant.Endpoint = defaults.Assistant.Endpoint
	}
	if cfg.Assistant.Model == "" {
		cfg.Assistant.Model = defaults.Assistant.Model
	}

	if cfg.Server.Listen == "" {
		cfg.Server.Listen = defaults.Server.Listen
	}
	if cfg.Server.CORSOrigins == "" {
		cfg.Server.CORSOrigins = defaults.Server.CORSOrigins
	}

	if cfg.Chat.Locale == "" {
		cfg.Chat.Locale = defaults.Chat.Locale
	}
	if cfg.Chat.CopyReset == "" {
		cfg.Chat.CopyReset = defaults.Chat.CopyReset
	}
}

// SaveConfig writes cfg to config.toml with owner-only permissions, since it
// may carry the API key.
func (c *Configer) SaveConfig(cfg *Config) error {
	if cfg == nil {
		return errors.New("cannot save nil config")
	}
	if c.targetPath == "" {
		return errors.New("cannot save empty target path")
	}

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	if err := os.WriteFile(c.targetPath, buf.Bytes(), 0o600); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}

// SetConfigValue loads the config, sets key to value, validates and saves it.
func (c *Configer) SetConfigValue(key string, value string) error {
	info, ok := configKeys[key]
	if !ok {
		return fmt.Errorf("unknown config key: %q", key)
	}

	cfg, err := c.LoadConfig()
	if err != nil {
		return err
	}

	if err := info.set(cfg, value); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	return c.SaveConfig(cfg)
}

// GetConfigValue loads the config and returns the string form of key.
func (c *Configer) GetConfigValue(key string) (string, error) {
	info, ok := configKeys[key]
	if !ok {
		return "", fmt.Errorf("unknown config key: %q", key)
	}

	cfg, err := c.LoadConfig()
	if err != nil {
		return "", err
	}

	return info.get(cfg), nil
}

// ParseConfigTOML parses raw TOML bytes into a Config.
func ParseConfigTOML(data []byte) (*Config, error) {
	cfg := &Config{}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config TOML: %w", err)
	}

	if cfg.Version != 0 && cfg.Version != CurrentV {
		return nil, fmt.Errorf("unsupported config version %d (expected %d)", cfg.Version, CurrentV)
	}

	return cfg, nil
}
