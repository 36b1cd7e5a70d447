package config

import (
	"fmt"
	"strconv"
	"time"

	"github.com/papercomputeco/huddle/pkg/llm"
)

// Config is the persistent huddle configuration stored as config.toml in the
// .huddle/ directory.
type Config struct {
	Version   int             `toml:"version"`
	Assistant AssistantConfig `toml:"assistant"`
	Server    ServerConfig    `toml:"server"`
	Chat      ChatConfig      `toml:"chat"`
}

// AssistantConfig holds the completion service credential, endpoint and the
// sampling defaults applied to every request. Unset sampling fields fall back
// to the built-in defaults of the completion client.
type AssistantConfig struct {
	APIKey           string   `toml:"api_key,omitempty"`
	Endpoint         string   `toml:"endpoint,omitempty"`
	Model            string   `toml:"model,omitempty"`
	Temperature      *float64 `toml:"temperature,omitempty"`
	MaxTokens        *int     `toml:"max_tokens,omitempty"`
	TopP             *float64 `toml:"top_p,omitempty"`
	FrequencyPenalty *float64 `toml:"frequency_penalty,omitempty"`
	PresencePenalty  *float64 `toml:"presence_penalty,omitempty"`
}

// Options returns the sampling defaults as request options.
func (a AssistantConfig) Options() llm.Options {
	return llm.Options{
		Model:            a.Model,
		Temperature:      a.Temperature,
		MaxTokens:        a.MaxTokens,
		TopP:             a.TopP,
		FrequencyPenalty: a.FrequencyPenalty,
		PresencePenalty:  a.PresencePenalty,
	}
}

// ServerConfig holds settings for "huddle serve".
type ServerConfig struct {
	Listen      string `toml:"listen,omitempty"`
	CORSOrigins string `toml:"cors_origins,omitempty"`
}

// ChatConfig holds settings for the interactive chat.
type ChatConfig struct {
	Locale    string `toml:"locale,omitempty"`
	CopyReset string `toml:"copy_reset,omitempty"`
}

// CopyResetDuration parses CopyReset, returning zero when it is unset or
// invalid.
func (c ChatConfig) CopyResetDuration() time.Duration {
	d, err := time.ParseDuration(c.CopyReset)
	if err != nil {
		return 0
	}
	return d
}

type configKeyInfo struct {
	get func(c *Config) string
	set func(c *Config, v string) error
}

// configKeys maps every dotted key accepted by "huddle config" to its field.
var configKeys = map[string]configKeyInfo{
	"assistant.api_key": {
		get: func(c *Config) string { return c.Assistant.APIKey },
		set: func(c *Config, v string) error { c.Assistant.APIKey = v; return nil },
	},
	"assistant.endpoint": {
		get: func(c *Config) string { return c.Assistant.Endpoint },
		set: func(c *Config, v string) error { c.Assistant.Endpoint = v; return nil },
	},
	"assistant.model": {
		get: func(c *Config) string { return c.Assistant.Model },
		set: func(c *Config, v string) error { c.Assistant.Model = v; return nil },
	},
	"assistant.temperature":       floatKey("assistant.temperature", func(c *Config) **float64 { return &c.Assistant.Temperature }),
	"assistant.top_p":             floatKey("assistant.top_p", func(c *Config) **float64 { return &c.Assistant.TopP }),
	"assistant.frequency_penalty": floatKey("assistant.frequency_penalty", func(c *Config) **float64 { return &c.Assistant.FrequencyPenalty }),
	"assistant.presence_penalty":  floatKey("assistant.presence_penalty", func(c *Config) **float64 { return &c.Assistant.PresencePenalty }),
	"assistant.max_tokens": {
		get: func(c *Config) string {
			if c.Assistant.MaxTokens == nil {
				return ""
			}
			return strconv.Itoa(*c.Assistant.MaxTokens)
		},
		set: func(c *Config, v string) error {
			if v == "" {
				c.Assistant.MaxTokens = nil
				return nil
			}
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("invalid value for assistant.max_tokens: %w", err)
			}
			c.Assistant.MaxTokens = &n
			return nil
		},
	},
	"server.listen": {
		get: func(c *Config) string { return c.Server.Listen },
		set: func(c *Config, v string) error { c.Server.Listen = v; return nil },
	},
	"server.cors_origins": {
		get: func(c *Config) string { return c.Server.CORSOrigins },
		set: func(c *Config, v string) error { c.Server.CORSOrigins = v; return nil },
	},
	"chat.locale": {
		get: func(c *Config) string { return c.Chat.Locale },
		set: func(c *Config, v string) error { c.Chat.Locale = v; return nil },
	},
	"chat.copy_reset": {
		get: func(c *Config) string { return c.Chat.CopyReset },
		set: func(c *Config, v string) error {
			if _, err := time.ParseDuration(v); err != nil {
				return fmt.Errorf("invalid value for chat.copy_reset: %w", err)
			}
			c.Chat.CopyReset = v
			return nil
		},
	},
}

// floatKey builds accessors for an optional float field. An empty value unsets
// the field.
func floatKey(name string, field func(c *Config) **float64) configKeyInfo {
	return configKeyInfo{
		get: func(c *Config) string {
			p := *field(c)
			if p == nil {
				return ""
			}
			return strconv.FormatFloat(*p, 'f', -1, 64)
		},
		set: func(c *Config, v string) error {
			if v == "" {
				*field(c) = nil
				return nil
			}
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return fmt.Errorf("invalid value for %s: %w", name, err)
			}
			*field(c) = &f
			return nil
		},
	}
}
