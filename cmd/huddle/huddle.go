// Package huddlecmder
package huddlecmder

import (
	"github.com/spf13/cobra"

	askcmder "github.com/papercomputeco/huddle/cmd/huddle/ask"
	chatcmder "github.com/papercomputeco/huddle/cmd/huddle/chat"
	configcmder "github.com/papercomputeco/huddle/cmd/huddle/config"
	servecmder "github.com/papercomputeco/huddle/cmd/huddle/serve"
	versioncmder "github.com/papercomputeco/huddle/cmd/version"
)

const huddleLongDesc string = `Huddle is a meeting assistant: chat with an LLM from the terminal and
collect live call transcripts over HTTP.

Commands:
  huddle chat          Interactive chat with the assistant
  huddle ask           Ask a single question
  huddle serve         Run the HTTP and MCP backend
  huddle config        Manage persistent configuration`

const huddleShortDesc string = "Huddle - Meeting Assistant"

func NewHuddleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "huddle",
		Short:        huddleShortDesc,
		Long:         huddleLongDesc,
		SilenceUsage: true,
	}

	// Global flags
	cmd.PersistentFlags().BoolP("debug", "d", false, "Enable debug logging")
	cmd.PersistentFlags().String("config-dir", "", "Override path to .huddle/ config directory")

	// Add subcommands
	cmd.AddCommand(chatcmder.NewChatCmd())
	cmd.AddCommand(askcmder.NewAskCmd())
	cmd.AddCommand(servecmder.NewServeCmd())
	cmd.AddCommand(configcmder.NewConfigCmd())
	cmd.AddCommand(versioncmder.NewVersionCmd())

	return cmd
}
