package configcmder

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/huddle/pkg/cliui"
	"github.com/papercomputeco/huddle/pkg/config"
)

const setLongDesc string = `Set a configuration value.

Writes the value to config.toml in the .huddle/ directory, creating
the file if needed. The whole configuration is validated before it is
saved, so out-of-range values are rejected. An empty value unsets an
optional sampling key.

Examples:
  huddle config set assistant.api_key sk-...
  huddle config set assistant.max_tokens 1024
  huddle config set chat.locale ru
  huddle config set assistant.top_p ""`

const setShortDesc string = "Set a configuration value"

func newSetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set <key> <value>",
		Short: setShortDesc,
		Long:  setLongDesc,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			configDir, _ := cmd.Flags().GetString("config-dir")
			return runSet(cmd.OutOrStdout(), args[0], args[1], configDir)
		},
		ValidArgsFunction: completeKeys,
	}

	return cmd
}

func runSet(w io.Writer, key, value, configDir string) error {
	if !config.IsValidConfigKey(key) {
		return fmt.Errorf("unknown config key: %q\n\nValid keys: %s",
			key, strings.Join(config.ValidConfigKeys(), ", "))
	}

	cfger, err := config.NewConfiger(configDir)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if err := cfger.SetConfigValue(key, value); err != nil {
		return fmt.Errorf("setting %s: %w", key, err)
	}

	fmt.Fprintf(w, "\n  %s %s %s %s\n\n",
		cliui.SuccessMark,
		cliui.KeyStyle.Render(key),
		cliui.DimStyle.Render("="),
		cliui.ValueStyle.Render(displayValue(key, value)),
	)

	return nil
}
