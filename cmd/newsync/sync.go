package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Run one sync session",
	Long:  "Bootstrap an empty store, or flush queued changes and pull what changed on the server",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !a.svc.Sync(cmd.Context()) {
			// Only possible if something else shares the service
			return fmt.Errorf("a sync is already running")
		}

		run, _ := a.svc.LastRun()
		green := color.New(color.FgGreen).SprintFunc()
		faint := color.New(color.Faint).SprintFunc()

		fmt.Printf("%s %s sync in %s\n", green("✓"), run.Mode, run.FinishedAt.Sub(run.StartedAt).Round(time.Millisecond))
		if len(run.FailedStages) > 0 {
			red := color.New(color.FgRed).SprintFunc()
			fmt.Printf("%s failed stages: %s\n", red("✗"), strings.Join(run.FailedStages, ", "))
		}
		fmt.Println(faint(fmt.Sprintf("unread: %d", a.badge.Count())))

		return nil
	},
}

func init() {
	rootCmd.AddCommand(syncCmd)
}
