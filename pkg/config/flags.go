package config

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Flag describes a CLI flag bound to a config key, so the same logical flag
// keeps one name and description across commands.
type Flag struct {
	Name        string
	Shorthand   string
	ViperKey    string
	Description string
}

// FlagSet maps registry keys to flag definitions.
type FlagSet map[string]Flag

// Flag registry keys.
const (
	FlagListen   = "listen"
	FlagEndpoint = "endpoint"
	FlagModel    = "model"
	FlagLocale   = "locale"
	FlagOrigins  = "cors-origins"
)

// Flags is the registry shared by every huddle command.
var Flags = FlagSet{
	FlagListen: {
		Name:        "listen",
		Shorthand:   "l",
		ViperKey:    "server.listen",
		Description: "Address for the HTTP server to listen on",
	},
	FlagEndpoint: {
		Name:        "endpoint",
		ViperKey:    "assistant.endpoint",
		Description: "Chat completions URL of the assistant service",
	},
	FlagModel: {
		Name:        "model",
		Shorthand:   "m",
		ViperKey:    "assistant.model",
		Description: "Model to request completions from",
	},
	FlagLocale: {
		Name:        "locale",
		ViperKey:    "chat.locale",
		Description: "Language of user-facing messages (en, ru)",
	},
	FlagOrigins: {
		Name:        "cors-origins",
		ViperKey:    "server.cors_origins",
		Description: "Comma separated origins allowed to call the HTTP API",
	},
}

// AddStringFlag registers the flag registered under key on cmd, with its
// default taken from NewDefaultConfig.
func AddStringFlag(cmd *cobra.Command, fs FlagSet, key string, target *string) {
	def, ok := fs[key]
	if !ok {
		return
	}

	defaultVal := defaultString(def.ViperKey)
	if def.Shorthand != "" {
		cmd.Flags().StringVarP(target, def.Name, def.Shorthand, defaultVal, def.Description)
	} else {
		cmd.Flags().StringVar(target, def.Name, defaultVal, def.Description)
	}
}

// BindRegisteredFlags binds already-registered flags to v. Call it after
// InitViper so flags take precedence over env, file and defaults.
func BindRegisteredFlags(v *viper.Viper, cmd *cobra.Command, fs FlagSet, registryKeys []string) {
	for _, registryKey := range registryKeys {
		def, ok := fs[registryKey]
		if !ok {
			continue
		}

		f := cmd.Flags().Lookup(def.Name)
		if f == nil {
			continue
		}

		_ = v.BindPFlag(def.ViperKey, f)
	}
}

func defaultString(viperKey string) string {
	v := viper.New()
	setViperDefaults(v)
	return v.GetString(viperKey)
}
