package configcmder

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/huddle/pkg/cliui"
	"github.com/papercomputeco/huddle/pkg/config"
)

const listLongDesc string = `List all configuration values.

Shows every supported key with its value from config.toml. Keys
that are not set are shown as <not set>. The API key is masked.

Examples:
  huddle config list`

const listShortDesc string = "List all configuration values"

func newListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: listShortDesc,
		Long:  listLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			configDir, _ := cmd.Flags().GetString("config-dir")
			return runList(cmd.OutOrStdout(), configDir)
		},
	}

	return cmd
}

func runList(w io.Writer, configDir string) error {
	cfger, err := config.NewConfiger(configDir)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	printTarget(w, cfger.GetTarget())

	keys := config.ValidConfigKeys()
	width := 0
	for _, key := range keys {
		width = max(width, len(key))
	}

	for _, key := range keys {
		value, err := cfger.GetConfigValue(key)
		if err != nil {
			return err
		}

		padded := fmt.Sprintf("%-*s", width, key)
		if value == "" {
			fmt.Fprintf(w, "  %s  %s\n", cliui.KeyStyle.Render(padded), cliui.DimStyle.Render("<not set>"))
			continue
		}
		fmt.Fprintf(w, "  %s  %s\n", cliui.KeyStyle.Render(padded), cliui.ValueStyle.Render(displayValue(key, value)))
	}
	fmt.Fprintln(w)

	return nil
}
