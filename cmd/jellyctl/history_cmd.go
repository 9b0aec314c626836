package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Nomadcxx/jellyctl/internal/config"
	"github.com/Nomadcxx/jellyctl/internal/journal"
	"github.com/Nomadcxx/jellyctl/internal/ui"
)

func newHistoryCmd(opts *rootOptions) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent changes made by jellyctl",
		Long: `List the most recent operations recorded in the journal: deletes,
watched state changes, downloads, shares and stopped sessions.

Examples:
  jellyctl history
  jellyctl history --limit 100`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(opts.cfgFile)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			path, err := cfg.JournalPath()
			if err != nil {
				return err
			}

			j, err := journal.Open(path)
			if err != nil {
				return err
			}
			defer j.Close()

			entries, err := j.Recent(cmd.Context(), limit)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(entries) == 0 {
				fmt.Fprintln(out, "No operations recorded yet.")
				return nil
			}

			tbl := ui.NewTable("When", "Operation", "Server", "Item", "Size", "Result").AlignRight(4)
			for _, e := range entries {
				result := ui.Success("ok")
				switch {
				case e.Error != "":
					result = ui.Error(e.Error)
				case e.DryRun:
					result = ui.Dim("dry run")
				}
				size := ""
				if e.Bytes > 0 {
					size = ui.FormatBytes(e.Bytes)
				}
				tbl.AddRow(e.ExecutedAt.Local().Format("2006-01-02 15:04"), string(e.Operation), e.Server, e.Title, size, result)
			}
			tbl.Render(out)
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "number of entries to show")

	return cmd
}
