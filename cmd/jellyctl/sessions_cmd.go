package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/text/cases"

	"github.com/Nomadcxx/jellyctl/internal/catalog"
	"github.com/Nomadcxx/jellyctl/internal/journal"
	"github.com/Nomadcxx/jellyctl/internal/logging"
	"github.com/Nomadcxx/jellyctl/internal/selector"
	"github.com/Nomadcxx/jellyctl/internal/ui"
)

func newKickCmd(opts *rootOptions) *cobra.Command {
	var server string

	cmd := &cobra.Command{
		Use:   "kick <user> [reason]",
		Short: "Stop every stream of a user",
		Long: `Stop playback in every session of a user. The reason, when given, is
shown on the user's client before playback stops.

Examples:
  jellyctl kick bob
  jellyctl kick bob "Server maintenance in 5 minutes"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd, opts)
			if err != nil {
				return err
			}
			defer s.Close()

			reason := strings.Join(args[1:], " ")
			return runKick(cmd, s, server, args[0], reason)
		},
	}

	cmd.Flags().StringVarP(&server, "server", "s", "", "server to use")

	return cmd
}

func runKick(cmd *cobra.Command, s *session, server, user, reason string) error {
	ctx := cmd.Context()
	srv, err := s.pickServer(ctx, server)
	if err != nil {
		return err
	}

	sessions, err := srv.Sessions(ctx)
	if err != nil {
		return err
	}

	fold := cases.Fold()
	want := fold.String(user)
	stopped := 0
	for _, session := range sessions {
		if !session.Playing() || fold.String(session.UserName) != want {
			continue
		}

		entry := journal.Entry{
			Operation: journal.OpStopSession,
			Server:    srv.Name(),
			ItemID:    session.ID,
			Title:     session.UserName + ": " + session.ItemTitle,
			DryRun:    s.dryRun,
		}

		if s.dryRun {
			fmt.Fprintf(s.out, "  Would stop playback on %s (%s) %s\n", session.UserName, session.ItemTitle, reason)
			s.record(ctx, entry)
			stopped++
			continue
		}

		if err := srv.StopSession(ctx, session, reason); err != nil {
			failure(s.out, "Failed to stop playback on %s: %v", session.UserName, err)
			entry.Error = err.Error()
			s.record(ctx, entry)
			continue
		}
		success(s.out, "Stopped playback on %s %s", session.UserName, reason)
		s.logger.Info("kick", "Stopped session",
			logging.F("server", srv.Name()),
			logging.F("user", session.UserName),
			logging.F("session", session.ID))
		s.record(ctx, entry)
		stopped++
	}

	if stopped == 0 {
		info(s.out, "%s is not playing anything on %s", user, srv.Name())
	}
	return nil
}

func newWatchingCmd(opts *rootOptions) *cobra.Command {
	var server string

	cmd := &cobra.Command{
		Use:   "watching",
		Short: "Show who is watching what",
		Long: `List the active playback sessions, pick some, and show their details.

Examples:
  jellyctl watching
  jellyctl watching --server cabin`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd, opts)
			if err != nil {
				return err
			}
			defer s.Close()

			return runWatching(cmd, s, server)
		},
	}

	cmd.Flags().StringVarP(&server, "server", "s", "", "server to use")

	return cmd
}

func runWatching(cmd *cobra.Command, s *session, server string) error {
	ctx := cmd.Context()
	srv, err := s.pickServer(ctx, server)
	if err != nil {
		return err
	}

	all, err := srv.Sessions(ctx)
	if err != nil {
		return err
	}
	var playing []catalog.Session
	for _, session := range all {
		if session.Playing() {
			playing = append(playing, session)
		}
	}
	if len(playing) == 0 {
		info(s.out, "Nobody is watching anything on %s", srv.Name())
		return nil
	}

	picked, err := selector.Select(ctx, s.prompter, "Select a user", playing, func(session catalog.Session) string {
		return session.UserName + " " + session.ItemTitle
	})
	if err != nil {
		return err
	}

	tbl := ui.NewTable("User", "Playing", "Type", "Client", "Device", "State")
	for _, session := range picked {
		state := "playing"
		if session.Paused {
			state = "paused"
		}
		tbl.AddRow(session.UserName, session.ItemTitle, session.ItemType, session.Client, session.DeviceName, state)
	}
	tbl.Render(s.out)
	return nil
}
