package cmd

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"ryujin/chapters"
	"ryujin/config"
	"ryujin/downloader"
	"ryujin/models"
	"ryujin/providers"
	"ryujin/scheduler"
)

var (
	dlFilter  string
	dlInvert  bool
	dlSlice   bool
	dlGroup   bool
	dlWorkers int
)

var downloadCmd = &cobra.Command{
	Use:   "download <provider> <manga>",
	Short: "Download chapters of a manga",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		provider, err := providers.Find(args[0])
		if err != nil {
			return fmt.Errorf("unknown provider %q: %w", args[0], err)
		}

		ctx := cmd.Context()
		cfg := config.Get()

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
		if dlFilter != "" {
			manager.Filter(dlFilter)
		}
		if dlInvert {
			manager.Invert()
		}
		view := manager.View()
		if len(view) == 0 {
			return fmt.Errorf("no chapters match filter %q", dlFilter)
		}

		fmt.Printf("%s: downloading %d chapters\n", manga.Name, len(view))

		workers := dlWorkers
		if workers < 1 {
			workers = cfg.Workers
		}

		opts := downloader.Options{
			Slice:       dlSlice || cfg.Slice,
			SliceHeight: cfg.SliceHeight,
			Group:       dlGroup || cfg.Group,
			Lang:        cfg.Lang,
		}

		status := chapters.NewStatusList()
		pool := scheduler.New(workers)
		var failures atomic.Int32

		for _, ch := range view {
			if !status.Add(ch) {
				continue
			}
			chapter := ch

			pool.Submit(func(taskCtx context.Context) {
				status.SetState(chapter.ID, chapters.StateFetchingPages)

				worker := downloader.NewWorker(
					chapter, provider, provider.Info().PrimaryDomain(), opts,
					printObserver(chapter, status, &failures),
				)
				worker.Run(taskCtx)

				if entry, ok := status.Get(chapter.ID); ok && entry.State != chapters.StateFailed {
					status.SetState(chapter.ID, chapters.StateDone)
					fmt.Printf("%s ch. %s done\n", color.GreenString("✔"), chapter.Number)
				}
			})
		}

		pool.Wait()

		if n := failures.Load(); n > 0 {
			return fmt.Errorf("%d of %d chapters failed", n, len(view))
		}
		return nil
	},
}

// printObserver maps worker events to terminal output and status updates.
// Color hints are matched by value; labels are localized.
func printObserver(ch models.Chapter, status *chapters.StatusList, failures *atomic.Int32) downloader.Observer {
	return func(event downloader.Event) {
		switch e := event.(type) {
		case downloader.Stage:
			switch e.Color {
			case downloader.ColorDownloading:
				status.SetState(ch.ID, chapters.StateDownloading)
			case downloader.ColorSlicing:
				status.SetState(ch.ID, chapters.StateSlicing)
			case downloader.ColorGrouping:
				status.SetState(ch.ID, chapters.StateGrouping)
			case downloader.ColorError:
				status.SetState(ch.ID, chapters.StateFailed)
			}
			if e.Color != downloader.ColorError {
				fmt.Printf("ch. %s: %s\n", ch.Number, stageColor(e.Color).Sprint(e.Name))
			}
		case downloader.Progress:
			status.SetPercent(ch.ID, e.Percent)
		case downloader.Failure:
			failures.Add(1)
			fmt.Printf("%s %s\n", color.RedString("✘"), strings.ReplaceAll(e.Message, "\n", " | "))
		}
	}
}

func stageColor(hint string) *color.Color {
	switch hint {
	case downloader.ColorDownloading:
		return color.New(color.FgGreen)
	case downloader.ColorSlicing:
		return color.New(color.FgBlue)
	case downloader.ColorGrouping:
		return color.New(color.FgYellow)
	default:
		return color.New(color.FgRed)
	}
}

func init() {
	downloadCmd.Flags().StringVarP(&dlFilter, "filter", "f", "", "chapter filter (\"5\", \"5*\", \"2-8\")")
	downloadCmd.Flags().BoolVarP(&dlInvert, "invert", "i", false, "reverse the download order")
	downloadCmd.Flags().BoolVar(&dlSlice, "slice", false, "slice tall pages into strips")
	downloadCmd.Flags().BoolVar(&dlGroup, "group", false, "pack each chapter into a CBZ")
	downloadCmd.Flags().IntVarP(&dlWorkers, "workers", "w", 0, "concurrent downloads (default from config)")
	rootCmd.AddCommand(downloadCmd)
}
