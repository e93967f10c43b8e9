package main

import (
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/jdholdren/newsync/internal/newsync"
)

var itemsCmd = &cobra.Command{
	Use:     "items",
	Aliases: []string{"ls"},
	Short:   "List mirrored items",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		starred, _ := cmd.Flags().GetBool("starred")
		all, _ := cmd.Flags().GetBool("all")
		limit, _ := cmd.Flags().GetInt("limit")

		var (
			items []newsync.Item
			err   error
		)
		switch {
		case starred:
			items, err = a.store.StarredItems(ctx)
		case all:
			items, err = a.store.AllItems(ctx)
		default:
			items, err = a.store.UnreadItems(ctx)
		}
		if err != nil {
			return fmt.Errorf("failed to list items: %w", err)
		}

		if len(items) == 0 {
			fmt.Println("No items found")
			return nil
		}

		faint := color.New(color.Faint).SprintFunc()
		yellow := color.New(color.FgYellow).SprintFunc()
		for i, item := range items {
			if limit > 0 && i >= limit {
				fmt.Println(faint(fmt.Sprintf("... %d more", len(items)-limit)))
				break
			}

			fmt.Print(faint(fmt.Sprintf("%6d", item.ID)), " ")
			switch {
			case item.IsStarred:
				fmt.Print(yellow("★ "))
			case item.IsRead:
				fmt.Print("✓ ")
			default:
				fmt.Print("  ")
			}
			fmt.Print(item.Title)
			if item.PubDate > 0 {
				fmt.Print(" ", faint(time.Unix(item.PubDate, 0).Format("02 Jan 06 15:04 MST")))
			}
			fmt.Println()
		}

		return nil
	},
}

var feedsCmd = &cobra.Command{
	Use:   "feeds",
	Short: "List mirrored feeds",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		feeds, err := a.store.AllFeeds(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to list feeds: %w", err)
		}

		faint := color.New(color.Faint).SprintFunc()
		for _, feed := range feeds {
			fmt.Printf("%s %s %s\n", faint(fmt.Sprintf("%4d", feed.ID)), feed.Title, faint(feed.URL))
		}
		return nil
	},
}

var foldersCmd = &cobra.Command{
	Use:   "folders",
	Short: "List mirrored folders",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		folders, err := a.store.AllFolders(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to list folders: %w", err)
		}

		faint := color.New(color.Faint).SprintFunc()
		for _, folder := range folders {
			fmt.Printf("%s %s\n", faint(fmt.Sprintf("%4d", folder.ID)), folder.Name)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(itemsCmd, feedsCmd, foldersCmd)

	itemsCmd.Flags().BoolP("all", "a", false, "show read items too")
	itemsCmd.Flags().BoolP("starred", "s", false, "show only starred items")
	itemsCmd.Flags().IntP("limit", "n", 50, "max items to show, 0 for no limit")
	itemsCmd.MarkFlagsMutuallyExclusive("all", "starred")
}
