// Newsync mirrors a News server's folders, feeds and items into a local
// sqlite store and keeps the two in step.
//
// Run `newsync daemon` for the timer, the control API and notifications, or
// use the one shot subcommands against the same store.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
