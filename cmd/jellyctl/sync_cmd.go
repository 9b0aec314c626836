package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/Nomadcxx/jellyctl/internal/catalog"
	"github.com/Nomadcxx/jellyctl/internal/sync"
	"github.com/Nomadcxx/jellyctl/internal/ui"
)

func newDiffCmd(opts *rootOptions) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "diff <server-a> <server-b> [section-type]",
		Short: "Compare the libraries of two servers",
		Long: `Count the items on two servers and list the ones server-a is missing.
Items are matched by their IMDb, TMDb or TVDb id.

Examples:
  jellyctl diff home cabin
  jellyctl diff home cabin movie`,
		Args: cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd, opts)
			if err != nil {
				return err
			}
			defer s.Close()

			var kinds []string
			if len(args) > 2 {
				kinds = []string{args[2]}
			}
			return runDiff(cmd, s, args[0], args[1], catalog.NewSectionKinds(kinds...), limit)
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 50, "maximum missing items to list (0 for all)")

	return cmd
}

func runDiff(cmd *cobra.Command, s *session, nameA, nameB string, kinds catalog.SectionKinds, limit int) error {
	ctx := cmd.Context()
	a, err := s.account.Connect(ctx, nameA)
	if err != nil {
		return err
	}
	b, err := s.account.Connect(ctx, nameB)
	if err != nil {
		return err
	}

	spinner := ui.NewSpinner("Comparing " + a.Name() + " and " + b.Name())
	spinner.Start()
	report, err := sync.Diff(ctx, a, b, kinds)
	spinner.Stop()
	if err != nil {
		return err
	}

	tbl := ui.NewTable("Server", "Items", "Only here").AlignRight(1, 2)
	tbl.AddRow(report.A, strconv.Itoa(report.CountA), strconv.Itoa(len(report.MissingOnB)))
	tbl.AddRow(report.B, strconv.Itoa(report.CountB), strconv.Itoa(len(report.MissingOnA)))
	tbl.Render(s.out)

	fmt.Fprintf(s.out, "\n%s is missing %d items from %s\n", report.A, len(report.MissingOnA), report.B)
	for i, item := range report.MissingOnA {
		if limit > 0 && i >= limit {
			fmt.Fprintf(s.out, "  ... and %d more\n", len(report.MissingOnA)-limit)
			break
		}
		fmt.Fprintf(s.out, "  %s\n", styledTitle(item))
	}
	return nil
}

type syncOptions struct {
	from         string
	to           string
	sectionTypes []string
	twoWay       bool
}

func newSyncCmd(opts *rootOptions) *cobra.Command {
	var so syncOptions

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Copy watched state between servers",
		Long: `Mark items watched on --to that are watched on --from. Items are matched
by their IMDb, TMDb or TVDb id. With --two-way a second pass copies
watched state back from --to to --from.

Examples:
  jellyctl sync --from home --to cabin
  jellyctl sync --from home --to cabin --section-type show --two-way
  jellyctl sync --from home --to cabin --dry-run`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd, opts)
			if err != nil {
				return err
			}
			defer s.Close()

			if !cmd.Flags().Changed("section-type") {
				so.sectionTypes = s.cfg.Sync.SectionTypes
			}
			return runSync(cmd, s, so)
		},
	}

	cmd.Flags().StringVar(&so.from, "from", "", "server to read watched state from")
	cmd.Flags().StringVar(&so.to, "to", "", "server to mark items watched on")
	cmd.Flags().StringSliceVar(&so.sectionTypes, "section-type", nil, "section types to sync (movie, show)")
	cmd.Flags().BoolVar(&so.twoWay, "two-way", false, "also sync from --to back to --from")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")

	return cmd
}

func runSync(cmd *cobra.Command, s *session, so syncOptions) error {
	ctx := cmd.Context()
	if err := s.lockMutations(); err != nil {
		return err
	}

	src, err := s.account.Connect(ctx, so.from)
	if err != nil {
		return err
	}
	dst, err := s.account.Connect(ctx, so.to)
	if err != nil {
		return err
	}
	if src.Name() == dst.Name() {
		return fmt.Errorf("--from and --to name the same server")
	}

	engine := &sync.Engine{Logger: s.logger, DryRun: s.dryRun, Journal: s.recorder}

	spinner := ui.NewSpinner("Syncing watched state")
	spinner.Start()
	reports, err := engine.SyncWatched(ctx, src, dst, catalog.NewSectionKinds(so.sectionTypes...), so.twoWay)
	spinner.Stop()

	markedHeader := "Marked"
	if s.dryRun {
		markedHeader = "Would mark"
	}
	if len(reports) > 0 {
		tbl := ui.NewTable("From", "To", "Scanned", "Watched", "Matched", "Already", markedHeader, "Failed", "Took").
			AlignRight(2, 3, 4, 5, 6, 7)
		for _, r := range reports {
			tbl.AddRow(r.From, r.To,
				strconv.Itoa(r.Scanned),
				strconv.Itoa(r.Watched),
				strconv.Itoa(r.Matched),
				strconv.Itoa(r.AlreadyWatched),
				strconv.Itoa(r.Marked),
				strconv.Itoa(r.Failed),
				r.Duration.Round(time.Millisecond).String())
		}
		tbl.Render(s.out)
	}
	return err
}
