package config

import "github.com/papercomputeco/huddle/pkg/completion"

const (
	defaultListen      = ":8787"
	defaultCORSOrigins = "*"
	defaultLocale      = "en"
	defaultCopyReset   = "2s"
)

// NewDefaultConfig returns a Config with defaults for every non-optional field.
func NewDefaultConfig() *Config {
	return &Config{
		Version: CurrentV,
		Assistant: AssistantConfig{
			Endpoint: completion.DefaultEndpoint,
			Model:    completion.DefaultModel,
		},
		Server: ServerConfig{
			Listen:      defaultListen,
			CORSOrigins: defaultCORSOrigins,
		},
		Chat: ChatConfig{
			Locale:    defaultLocale,
			CopyReset: defaultCopyReset,
		},
	}
}
