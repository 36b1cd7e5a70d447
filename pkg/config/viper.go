package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/papercomputeco/huddle/pkg/dotdir"
)

// EnvPrefix prefixes every environment override, e.g. HUDDLE_SERVER_LISTEN.
const EnvPrefix = "HUDDLE"

// LegacyAPIKeyEnv is consulted when no huddle-specific key is configured.
const LegacyAPIKeyEnv = "DEEPSEEK_API_KEY"

// InitViper creates a *viper.Viper reading config.toml from the resolved
// .huddle/ directory.
//
// Config precedence (highest to lowest):
//  1. CLI flags (once bound via BindRegisteredFlags)
//  2. Environment variables (HUDDLE_SERVER_LISTEN, HUDDLE_ASSISTANT_MODEL, etc.)
//  3. config.toml file values
//  4. Defaults from NewDefaultConfig()
func InitViper(configDir string) (*viper.Viper, error) {
	v := viper.New()

	setViperDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("toml")

	target, err := dotdir.NewManager().Target(configDir)
	if err != nil {
		return nil, fmt.Errorf("resolving config dir: %w", err)
	}
	if target != "" {
		v.AddConfigPath(target)
	}

	if err := v.ReadInConfig(); err != nil {
		if !errors.As(err, &viper.ConfigFileNotFoundError{}) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// The API key also honours the provider's conventional variable.
	if err := v.BindEnv("assistant.api_key", EnvPrefix+"_ASSISTANT_API_KEY", LegacyAPIKeyEnv); err != nil {
		return nil, fmt.Errorf("binding api key env: %w", err)
	}

	return v, nil
}

func setViperDefaults(v *viper.Viper) {
	d := NewDefaultConfig()

	v.SetDefault("version", d.Version)

	// Assistant
	v.SetDefault("assistant.endpoint", d.Assistant.Endpoint)
	v.SetDefault("assistant.model", d.Assistant.Model)

	// Server
	v.SetDefault("server.listen", d.Server.Listen)
	v.SetDefault("server.cors_origins", d.Server.CORSOrigins)

	// Chat
	v.SetDefault("chat.locale", d.Chat.Locale)
	v.SetDefault("chat.copy_reset", d.Chat.CopyReset)
}

// FromViper resolves the effective Config from v. Optional sampling values
// stay nil unless some layer sets them.
func FromViper(v *viper.Viper) *Config {
	return &Config{
		Version: v.GetInt("version"),
		Assistant: AssistantConfig{
			APIKey:           v.GetString("assistant.api_key"),
			Endpoint:         v.GetString("assistant.endpoint"),
			Model:            v.GetString("assistant.model"),
			Temperature:      optionalFloat(v, "assistant.temperature"),
			MaxTokens:        optionalInt(v, "assistant.max_tokens"),
			TopP:             optionalFloat(v, "assistant.top_p"),
			FrequencyPenalty: optionalFloat(v, "assistant.frequency_penalty"),
			PresencePenalty:  optionalFloat(v, "assistant.presence_penalty"),
		},
		Server: ServerConfig{
			Listen:      v.GetString("server.listen"),
			CORSOrigins: v.GetString("server.cors_origins"),
		},
		Chat: ChatConfig{
			Locale:    v.GetString("chat.locale"),
			CopyReset: v.GetString("chat.copy_reset"),
		},
	}
}

func optionalFloat(v *viper.Viper, key string) *float64 {
	if !v.IsSet(key) || v.GetString(key) == "" {
		return nil
	}
	f := v.GetFloat64(key)
	return &f
}

func optionalInt(v *viper.Viper, key string) *int {
	if !v.IsSet(key) || v.GetString(key) == "" {
		return nil
	}
	n := v.GetInt(key)
	return &n
}

// Resolve loads the .env files of the working directory and returns the
// validated Config for configDir. bind, when non-nil, runs before values are
// read so command flags can be bound with BindRegisteredFlags.
func Resolve(configDir string, bind func(v *viper.Viper)) (*Config, error) {
	if _, err := LoadEnvFiles("."); err != nil {
		return nil, err
	}

	v, err := InitViper(configDir)
	if err != nil {
		return nil, err
	}
	if bind != nil {
		bind(v)
	}

	cfg := FromViper(v)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}
