package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Nomadcxx/jellyctl/internal/catalog"
	"github.com/Nomadcxx/jellyctl/internal/journal"
)

func newShareCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "share <user> [sections] [server]",
		Short: "Give a user access to libraries",
		Long: `Give a user access to library sections on a server. The user is created
with a generated password when it does not exist yet.

Sections is a comma separated list of section names; "all" or nothing
shares every section.

Examples:
  jellyctl share alice
  jellyctl share alice "Movies,TV Shows"
  jellyctl share alice all cabin`,
		Args: cobra.RangeArgs(1, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd, opts)
			if err != nil {
				return err
			}
			defer s.Close()

			var sections, server string
			if len(args) > 1 {
				sections = args[1]
			}
			if len(args) > 2 {
				server = args[2]
			}
			return runShare(cmd, s, args[0], sections, server)
		},
	}

	return cmd
}

// matchSections picks sections by comma separated titles. Empty or "all"
// selects every section.
func matchSections(all []catalog.Section, names string) ([]catalog.Section, error) {
	names = strings.TrimSpace(names)
	if names == "" || strings.EqualFold(names, "all") {
		return all, nil
	}

	var out []catalog.Section
	for _, name := range strings.Split(names, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		found := false
		for _, sec := range all {
			if strings.EqualFold(sec.Title, name) {
				out = append(out, sec)
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("unknown section %q", name)
		}
	}
	return out, nil
}

func sectionTitles(sections []catalog.Section) string {
	titles := make([]string, 0, len(sections))
	for _, sec := range sections {
		titles = append(titles, sec.Title)
	}
	return strings.Join(titles, ",")
}

func runShare(cmd *cobra.Command, s *session, user, sectionNames, server string) error {
	ctx := cmd.Context()
	srv, err := s.pickServer(ctx, server)
	if err != nil {
		return err
	}

	all, err := srv.Sections(ctx)
	if err != nil {
		return err
	}
	sections, err := matchSections(all, sectionNames)
	if err != nil {
		return err
	}

	entry := journal.Entry{
		Operation: journal.OpShare,
		Server:    srv.Name(),
		Title:     user + ": " + sectionTitles(sections),
		DryRun:    s.dryRun,
	}

	if s.dryRun {
		fmt.Fprintf(s.out, "Would share %s on %s with %s\n", sectionTitles(sections), srv.Name(), user)
		s.record(ctx, entry)
		return nil
	}

	invite, err := s.account.InviteFriend(ctx, user, srv, sections)
	if err != nil {
		entry.Error = err.Error()
		s.record(ctx, entry)
		return err
	}
	s.record(ctx, entry)

	success(s.out, "Shared %s on %s with %s", sectionTitles(invite.Sections), srv.Name(), user)
	if invite.Created {
		fmt.Fprintf(s.out, "  Created user %s with password %s\n", user, invite.Password)
	}
	return nil
}

func newUnshareCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "unshare <user>",
		Short: "Remove a user from every server",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd, opts)
			if err != nil {
				return err
			}
			defer s.Close()

			return runUnshare(cmd, s, args[0])
		},
	}
}

func runUnshare(cmd *cobra.Command, s *session, user string) error {
	ctx := cmd.Context()
	entry := journal.Entry{Operation: journal.OpUnshare, Title: user, DryRun: s.dryRun}

	if s.dryRun {
		fmt.Fprintf(s.out, "Would unshare %s\n", user)
		s.record(ctx, entry)
		return nil
	}

	removed, err := s.account.RemoveFriend(ctx, user)
	for _, name := range removed {
		e := entry
		e.Server = name
		s.record(ctx, e)
	}
	if err != nil {
		if len(removed) > 0 {
			warning(s.out, "Unshared %s on %s", user, strings.Join(removed, ", "))
		}
		return err
	}
	if len(removed) == 0 {
		info(s.out, "%s was not found on any server", user)
		return nil
	}
	success(s.out, "Unshared %s", user)
	return nil
}
