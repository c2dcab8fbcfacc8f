// Package cmd wires the command line surface.
package cmd

import (
	"github.com/spf13/cobra"

	"ryujin/config"
)

var rootCmd = &cobra.Command{
	Use:           "ryujin",
	Short:         "Manga downloader",
	Long:          "Download manga chapters from supported sites, with optional image slicing and CBZ packaging.",
	Version:       config.VersionString(),
	SilenceUsage:  true,
	SilenceErrors: false,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
