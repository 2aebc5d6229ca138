package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/kittclouds/godash/internal/feed"
)

var (
	feedPages int
	feedJSON  bool
)

var feedCmd = &cobra.Command{
	Use:   "feed",
	Short: "Fetch pages from the post feed",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		client := feed.NewClient(cfg.Feed.BaseURL, cfg.Feed.PageSize, nil, slog.Default())

		var all []feed.Post
		for page := 0; page < feedPages && !client.Done(); page++ {
			posts, err := client.Next(ctx)
			if err != nil {
				fatal("Failed to fetch feed page", err)
			}
			all = append(all, posts...)
		}

		if feedJSON {
			encoder := json.NewEncoder(os.Stdout)
			encoder.SetIndent("", "  ")
			if err := encoder.Encode(all); err != nil {
				fatal("Failed to encode posts", err)
			}
			return
		}

		for _, post := range all {
			fmt.Printf("%4d %s\n", post.ID, post.Title)
		}
		if client.Done() {
			fmt.Println("-- end of feed --")
		}
	},
}

func init() {
	rootCmd.AddCommand(feedCmd)
	feedCmd.Flags().IntVar(&feedPages, "pages", 1, "Number of pages to fetch")
	feedCmd.Flags().BoolVar(&feedJSON, "json", false, "Output in JSON format")
}
