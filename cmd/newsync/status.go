package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the local store's counters",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		unread, err := a.store.UnreadCount(ctx)
		if err != nil {
			return fmt.Errorf("failed to count unread items: %w", err)
		}
		pending, err := a.store.PendingCounts(ctx)
		if err != nil {
			return fmt.Errorf("failed to count pending changes: %w", err)
		}
		hasItems, err := a.store.HasItems(ctx)
		if err != nil {
			return fmt.Errorf("failed to check store: %w", err)
		}

		bold := color.New(color.Bold).SprintFunc()
		faint := color.New(color.Faint).SprintFunc()

		fmt.Printf("%s %s\n", bold("database:"), a.cfg.Database)
		if !hasItems {
			fmt.Println(faint("empty, the next sync bootstraps"))
		}
		fmt.Printf("%s %d\n", bold("unread:"), unread)
		fmt.Printf("%s read %d, starred %d, unstarred %d\n", bold("pending:"), pending.Read, pending.Starred, pending.Unstarred)

		if meta, err := a.store.FeedsMeta(ctx); err == nil {
			fmt.Printf("%s newest item %d, %d starred\n", bold("server:"), meta.NewestItemID, meta.StarredCount)
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
