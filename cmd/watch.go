package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/TFMV/satchel/internal/watch"
)

var (
	// Watch command options
	watchEvents        []string
	watchRecursive     bool
	watchPattern       string
	watchIgnore        string
	watchTimeout       time.Duration
	watchIncludeHidden bool
)

// watchCmd represents the watch command
var watchCmd = &cobra.Command{
	Use:   "watch [path]",
	Short: "Watch a directory for filesystem changes",
	Long: `Watch a directory and print filesystem events as they happen.

Examples:
  satchel watch /path/to/watch
  satchel watch --events=create,modify --recursive /path/to/watch
  satchel watch --pattern="*.go" --timeout=30m /path/to/watch`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := ""
		if len(args) == 1 {
			dir = args[0]
		} else {
			wd, err := os.Getwd()
			if err != nil {
				return err
			}
			dir = wd
		}
		return runWatch(dir)
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().StringSliceVar(&watchEvents, "events", []string{}, "Events to watch for (create, modify, delete, rename, chmod)")
	watchCmd.Flags().BoolVar(&watchRecursive, "recursive", false, "Watch subdirectories recursively")
	watchCmd.Flags().StringVar(&watchPattern, "pattern", "", "File pattern to match (e.g., *.go)")
	watchCmd.Flags().StringVar(&watchIgnore, "ignore", "", "File pattern to ignore")
	watchCmd.Flags().DurationVar(&watchTimeout, "timeout", 0, "Duration to watch before exiting (e.g., 1h, 30m)")
	watchCmd.Flags().BoolVar(&watchIncludeHidden, "include-hidden", false, "Include hidden files and directories")
}

func runWatch(dir string) error {
	events := make([]watch.Event, 0, len(watchEvents))
	for _, e := range watchEvents {
		ev, err := watch.ParseEvent(e)
		if err != nil {
			return err
		}
		events = append(events, ev)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := watch.Options{
		Events:        events,
		Recursive:     watchRecursive,
		Pattern:       watchPattern,
		IgnorePattern: watchIgnore,
		IncludeHidden: watchIncludeHidden,
		Timeout:       watchTimeout,
		Logger:        logger,
	}

	fmt.Printf("Watching %s for changes...\n", dir)
	fmt.Println("Press Ctrl+C to exit.")
	return watch.Watch(ctx, dir, opts, nil)
}
