// Package app implements the main application commands.
package app

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "lobbyboard",
	Short: "LobbyBoard is the backend for a building lobby display",
	Long: `LobbyBoard is the backend for a building lobby display that serves
rotating banners, sidebar widgets and building-wide settings to display
clients and provides an admin API for managing them.`,
	Args: cobra.OnlyValidArgs,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
