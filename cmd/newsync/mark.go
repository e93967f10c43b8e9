package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

// markCmd builds one of the four flag commands. The change applies locally
// at once and reaches the server on the next sync.
func markCmd(use, short, done string, apply func(cmd *cobra.Command, ids []int64) error) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <item-id>...",
		Short: short,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := parseIDs(args)
			if err != nil {
				return err
			}
			if err := apply(cmd, ids); err != nil {
				return err
			}

			fmt.Printf("%s %d item(s), pushed on next sync\n", done, len(ids))
			return nil
		},
	}
}

func parseIDs(args []string) ([]int64, error) {
	ids := make([]int64, 0, len(args))
	for _, arg := range args {
		id, err := strconv.ParseInt(arg, 10, 64)
		if err != nil || id <= 0 {
			return nil, fmt.Errorf("invalid item id %q", arg)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func init() {
	rootCmd.AddCommand(
		markCmd("mark-read", "Mark items as read", "Marked as read:", func(cmd *cobra.Command, ids []int64) error {
			return a.svc.MarkRead(cmd.Context(), ids, true)
		}),
		markCmd("mark-unread", "Mark items as unread", "Marked as unread:", func(cmd *cobra.Command, ids []int64) error {
			return a.svc.MarkRead(cmd.Context(), ids, false)
		}),
		markCmd("star", "Star items", "Starred:", func(cmd *cobra.Command, ids []int64) error {
			return a.svc.MarkStarred(cmd.Context(), ids, true)
		}),
		markCmd("unstar", "Unstar items", "Unstarred:", func(cmd *cobra.Command, ids []int64) error {
			return a.svc.MarkStarred(cmd.Context(), ids, false)
		}),
	)
}
