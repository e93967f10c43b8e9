package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var addFeedCmd = &cobra.Command{
	Use:   "add-feed <url>",
	Short: "Subscribe to a feed on the server",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		feed, err := a.svc.AddFeed(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("failed to add feed: %w", err)
		}

		green := color.New(color.FgGreen).SprintFunc()
		fmt.Printf("%s Added feed %d: %s\n", green("✓"), feed.ID, feed.Title)
		return nil
	},
}

var addFolderCmd = &cobra.Command{
	Use:   "add-folder <name>",
	Short: "Create a folder on the server",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		folder, err := a.svc.AddFolder(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("failed to add folder: %w", err)
		}

		green := color.New(color.FgGreen).SprintFunc()
		fmt.Printf("%s Added folder %d: %s\n", green("✓"), folder.ID, folder.Name)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(addFeedCmd, addFolderCmd)
}
