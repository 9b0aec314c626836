package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Nomadcxx/jellyctl/internal/catalog"
	"github.com/Nomadcxx/jellyctl/internal/dupes"
	"github.com/Nomadcxx/jellyctl/internal/logging"
	"github.com/Nomadcxx/jellyctl/internal/selector"
	"github.com/Nomadcxx/jellyctl/internal/ui"
)

type dupesOptions struct {
	server       string
	lang         string
	categories   []string
	sectionTypes []string
}

func newRemoveDupesCmd(opts *rootOptions) *cobra.Command {
	var do dupesOptions

	cmd := &cobra.Command{
		Use:   "remove-dupes",
		Short: "Delete duplicate versions, keeping the largest",
		Long: `Find items with more than one version and propose deleting every version
but the largest one.

Versions with an audio track in --lang are kept, and so is every version
of an item (or, for episodes, of its series) tagged with one of the
--ignore-category genres. You then pick which of the proposed files to
delete and confirm twice.

Examples:
  jellyctl remove-dupes
  jellyctl remove-dupes --lang nor --ignore-category Family,Animation
  jellyctl remove-dupes --dry-run`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd, opts)
			if err != nil {
				return err
			}
			defer s.Close()

			if !cmd.Flags().Changed("lang") {
				do.lang = s.cfg.Dupes.Language
			}
			if !cmd.Flags().Changed("ignore-category") {
				do.categories = s.cfg.Dupes.IgnoreCategories
			}
			return runRemoveDupes(cmd, s, do)
		},
	}

	cmd.Flags().StringVarP(&do.server, "server", "s", "", "server to clean up")
	cmd.Flags().StringVar(&do.lang, "lang", "", "keep versions with audio in this language (e.g. eng, nor)")
	cmd.Flags().StringSliceVar(&do.categories, "ignore-category", nil, "keep all versions of items in these genres")
	cmd.Flags().StringSliceVar(&do.sectionTypes, "section-type", []string{"movie", "show"}, "section types to scan")

	return cmd
}

func candidateLabel(c dupes.Candidate) string {
	return fmt.Sprintf("%-9s %s", ui.FormatBytes(c.Part.Size), c.Part.Path)
}

func runRemoveDupes(cmd *cobra.Command, s *session, do dupesOptions) error {
	ctx := cmd.Context()
	if err := s.lockMutations(); err != nil {
		return err
	}

	srv, err := s.pickServer(ctx, do.server)
	if err != nil {
		return err
	}

	spinner := ui.NewSpinner("Scanning " + srv.Name() + " for duplicates")
	spinner.Start()
	groups, err := srv.Duplicates(ctx, catalog.NewSectionKinds(do.sectionTypes...))
	spinner.Stop()
	if err != nil {
		return err
	}

	rules := dupes.Rules{Language: do.lang, Categories: do.categories}
	candidates := dupes.FindDeletions(groups, rules)
	s.logger.Info("dupes", "Duplicate scan completed",
		logging.F("server", srv.Name()),
		logging.F("groups", len(groups)),
		logging.F("candidates", len(candidates)))

	fmt.Fprintf(s.out, "Got %d files in %d duplicate groups after the filters.\n", len(candidates), len(groups))
	if len(candidates) == 0 {
		return nil
	}

	picked, err := selector.Select(ctx, s.prompter, "Select what files you want to delete", candidates, candidateLabel)
	if err != nil {
		return err
	}
	summary := dupes.Summarize(picked)

	ok, err := s.prompter.Confirm(ctx, fmt.Sprintf("Are you sure you wish to delete %d files (%s)?", summary.Files, ui.FormatBytes(summary.Bytes)))
	if err != nil {
		return err
	}
	if ok {
		ok, err = s.prompter.Confirm(ctx, "This cannot be undone. Continue?")
		if err != nil {
			return err
		}
	}
	if !ok {
		fmt.Fprintln(s.out, "Cancelled, nothing was deleted.")
		return nil
	}

	exec := &dupes.Executor{
		Deleter: srv,
		DryRun:  s.dryRun,
		Journal: s.recorder,
		Logger:  s.logger,
		Out:     s.out,
	}
	res, err := exec.Execute(ctx, picked)
	if err != nil {
		return err
	}

	verb := "Deleted"
	if s.dryRun {
		verb = "Would delete"
	}
	fmt.Fprintf(s.out, "%s %d files freeing up %s\n", verb, res.Deleted, ui.FormatBytes(res.Bytes))
	if res.Failed > 0 {
		warning(s.out, "%d files could not be deleted, see the log for details", res.Failed)
	}
	return nil
}
