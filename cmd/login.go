package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"ryujin/providers"
)

var loginCmd = &cobra.Command{
	Use:   "login <provider>",
	Short: "Establish and cache a session for a provider",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		provider, err := providers.Find(args[0])
		if err != nil {
			return fmt.Errorf("unknown provider %q: %w", args[0], err)
		}
		if !provider.Info().HasLogin {
			fmt.Printf("%s needs no login\n", args[0])
			return nil
		}

		if err := provider.Login(cmd.Context()); err != nil {
			return fmt.Errorf("login failed: %w", err)
		}
		fmt.Printf("session cached for %s\n", provider.Info().PrimaryDomain())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(loginCmd)
}
