// Package configcmder provides the config command for managing persistent
// huddle configuration stored in the .huddle/ directory.
package configcmder

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/huddle/pkg/config"
)

const configLongDesc string = `Manage persistent huddle configuration.

Configuration is stored as config.toml in the .huddle/ directory and provides
default values for command flags. CLI flags and HUDDLE_* environment
variables always take precedence over config file values.

Keys use dotted notation matching the TOML section structure:
  assistant.api_key, assistant.endpoint, assistant.model,
  assistant.temperature, assistant.max_tokens, assistant.top_p,
  assistant.frequency_penalty, assistant.presence_penalty,
  server.listen, server.cors_origins,
  chat.locale, chat.copy_reset

Use subcommands to get, set, or list configuration values:
  huddle config set <key> <value>    Set a configuration value
  huddle config get <key>            Get a configuration value
  huddle config list                 List all configuration values

Examples:
  huddle config set assistant.model deepseek-chat
  huddle config set assistant.temperature 0.2
  huddle config get chat.locale
  huddle config list`

const configShortDesc string = "Manage persistent huddle configuration"

func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: configShortDesc,
		Long:  configLongDesc,
	}

	cmd.AddCommand(newSetCmd())
	cmd.AddCommand(newGetCmd())
	cmd.AddCommand(newListCmd())

	return cmd
}

// displayValue masks secret values, keeping only the last four characters.
func displayValue(key, value string) string {
	if value == "" || !config.IsSecretKey(key) {
		return value
	}
	if len(value) <= 4 {
		return strings.Repeat("*", len(value))
	}
	return strings.Repeat("*", 8) + value[len(value)-4:]
}

func completeKeys(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
	if len(args) == 0 {
		return config.ValidConfigKeys(), cobra.ShellCompDirectiveNoFileComp
	}
	return nil, cobra.ShellCompDirectiveNoFileComp
}
