package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"ryujin/providers"
	"ryujin/session"
)

var logoutCmd = &cobra.Command{
	Use:   "logout <provider>",
	Short: "Drop the cached session for a provider",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		provider, err := providers.Find(args[0])
		if err != nil {
			return fmt.Errorf("unknown provider %q: %w", args[0], err)
		}

		domain := provider.Info().PrimaryDomain()
		if err := session.Delete(domain); err != nil {
			return err
		}
		fmt.Printf("session cleared for %s\n", domain)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(logoutCmd)
}
