package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"ryujin/providers"
)

var providersCmd = &cobra.Command{
	Use:   "providers",
	Short: "List the available providers",
	RunE: func(cmd *cobra.Command, args []string) error {
		rows := [][]string{}
		for _, p := range providers.Active() {
			info := p.Info()
			login := ""
			if info.HasLogin {
				login = "yes"
			}
			rows = append(rows, []string{info.Name, info.Lang, strings.Join(info.Domains, ", "), login})
		}

		return renderTable([]string{"name", "lang", "domains", "login"}, rows)
	},
}

func init() {
	rootCmd.AddCommand(providersCmd)
}
