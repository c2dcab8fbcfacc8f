package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"ryujin/chapters"
	"ryujin/providers"
)

var (
	infoFilter string
	infoInvert bool
)

var infoCmd = &cobra.Command{
	Use:   "info <provider> <manga>",
	Short: "Show a manga and its chapter list",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		provider, err := providers.Find(args[0])
		if err != nil {
			return fmt.Errorf("unknown provider %q: %w", args[0], err)
		}

		ctx := cmd.Context()

		manga, err := provider.GetManga(ctx, args[1])
		if err != nil {
			return err
		}

		list, err := provider.GetChapters(ctx, manga)
		if err != nil {
			return err
		}

		manager := chapters.NewManager(nil)
		manager.SetChapters(list)
		if infoFilter != "" {
			manager.Filter(infoFilter)
		}
		if infoInvert {
			manager.Invert()
		}
		view := manager.View()

		fmt.Printf("%s - %d of %d chapters\n\n", manga.Name, len(view), len(list))

		rows := make([][]string, 0, len(view))
		for _, ch := range view {
			rows = append(rows, []string{ch.Number, ch.ID})
		}
		return renderTable([]string{"chapter", "id"}, rows)
	},
}

func init() {
	infoCmd.Flags().StringVarP(&infoFilter, "filter", "f", "", "chapter filter (\"5\", \"5*\", \"2-8\")")
	infoCmd.Flags().BoolVarP(&infoInvert, "invert", "i", false, "reverse the chapter order")
	rootCmd.AddCommand(infoCmd)
}
