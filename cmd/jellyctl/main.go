package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var version = "dev" // Set by build flags: -ldflags="-X main.version=1.0.0"

// rootOptions holds the persistent flags shared by every command.
type rootOptions struct {
	cfgFile string
	dryRun  bool
	verbose bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "jellyctl",
		Short: "Interactive command line for Jellyfin servers",
		Long: `jellyctl searches, downloads and cleans up media on one or more Jellyfin
servers, and keeps watched state in sync between them.

Features:
  - Pick results with an index, a list (0,2,5) or a slice (1:4, ::2, -1)
  - Drill down from a series into its episodes
  - Remove duplicate versions, keeping the largest file
  - Copy watched state between servers, one way or both ways`,
		SilenceUsage: true,
	}

	originalHelpFunc := rootCmd.HelpFunc()
	rootCmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		if cmd.Name() == "jellyctl" {
			printHeader(cmd.OutOrStdout(), version)
		}
		originalHelpFunc(cmd, args)
	})

	rootCmd.PersistentFlags().StringVar(&opts.cfgFile, "config", "", "config file (default: ~/.config/jellyctl/config.toml)")
	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVarP(&opts.dryRun, "dry-run", "n", false, "show what would change without changing anything")

	rootCmd.AddCommand(newServerCmd(opts))
	rootCmd.AddCommand(newSearchCmd(opts))
	rootCmd.AddCommand(newKickCmd(opts))
	rootCmd.AddCommand(newWatchingCmd(opts))
	rootCmd.AddCommand(newShareCmd(opts))
	rootCmd.AddCommand(newUnshareCmd(opts))
	rootCmd.AddCommand(newRemoveDupesCmd(opts))
	rootCmd.AddCommand(newDiffCmd(opts))
	rootCmd.AddCommand(newSyncCmd(opts))
	rootCmd.AddCommand(newHistoryCmd(opts))
	rootCmd.AddCommand(newConfigCmd(opts))
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "jellyctl %s\n", version)
		},
	}
}

func printHeader(w io.Writer, version string) {
	fmt.Fprintln(w, asciiHeader)
	fmt.Fprintf(w, "Version: %s\n\n", version)
}
