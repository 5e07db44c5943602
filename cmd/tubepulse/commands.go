package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"

	"github.com/grvbrk/tubepulse/internal/app"
	"github.com/grvbrk/tubepulse/internal/feed"
	"github.com/grvbrk/tubepulse/internal/models"
	"github.com/grvbrk/tubepulse/internal/routes"
)

func newServeCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			return routes.Run(cmd.Context(), cfg)
		},
	}
}

func newTrendingCommand(ctx *commandContext) *cobra.Command {
	var region string

	cmd := &cobra.Command{
		Use:   "trending",
		Short: "List the most popular videos for a region",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			application, err := app.NewApplication(cfg)
			if err != nil {
				return err
			}

			videos, err := application.FeedStore.GetTrending(cmd.Context(), strings.TrimSpace(region))
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if *ctx.jsonFlag {
				return writeJSON(out, map[string]any{"videos": videos})
			}
			fmt.Fprintln(out, renderVideos("Trending in "+regionOrDefault(region), videos))
			return nil
		},
	}

	cmd.Flags().StringVarP(&region, "region", "r", feed.DefaultRegion, "Region code")
	return cmd
}

func newChannelCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "channel <channelId>",
		Short: "Show a channel's latest uploads and cadence",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			channelID := strings.TrimSpace(args[0])
			if channelID == "" {
				return errors.New("channel id is required")
			}

			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			application, err := app.NewApplication(cfg)
			if err != nil {
				return err
			}

			report, err := application.ReportStore.GetChannelReport(cmd.Context(), channelID)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if *ctx.jsonFlag {
				return writeJSON(out, report)
			}
			fmt.Fprintln(out, renderAnalytics(channelID, report.Analytics))
			fmt.Fprintln(out, renderVideos("Latest uploads", report.Videos))
			return nil
		},
	}
}

func newConfigCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the resolved configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if *ctx.jsonFlag {
				return writeJSON(out, cfg)
			}
			data, err := toml.Marshal(cfg)
			if err != nil {
				return err
			}
			_, err = out.Write(data)
			return err
		},
	}
}

func writeJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func regionOrDefault(region string) string {
	if r := strings.TrimSpace(region); r != "" {
		return r
	}
	return feed.DefaultRegion
}

func renderVideos(title string, videos []models.Video) string {
	if len(videos) == 0 {
		return "No videos found."
	}
	rows := make([][]string, 0, len(videos))
	for i, v := range videos {
		rows = append(rows, []string{
			fmt.Sprintf("%d", i+1),
			truncate(v.Title, 60),
			v.Author,
			v.PublishedAt,
			v.Link,
		})
	}
	return renderTable(title, []tableColumn{
		{Header: "#", Align: text.AlignRight},
		{Header: "Title"},
		{Header: "Author", MaxWidth: 24},
		{Header: "Published", MaxWidth: 25},
		{Header: "Link"},
	}, rows)
}

func renderAnalytics(channelID string, a models.ChannelAnalytics) string {
	return renderTable("Channel "+channelID, []tableColumn{
		{Header: "Latest upload"},
		{Header: "Upload cadence"},
		{Header: "Avg. length"},
		{Header: "Sample", Align: text.AlignRight},
	}, [][]string{{truncate(a.LatestUpload, 60), a.Cadence, a.AvgLength, fmt.Sprintf("%d", a.SampleSize)}})
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
