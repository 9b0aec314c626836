package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Nomadcxx/jellyctl/internal/account"
	"github.com/Nomadcxx/jellyctl/internal/jellyfin"
	"github.com/Nomadcxx/jellyctl/internal/selector"
	"github.com/Nomadcxx/jellyctl/internal/ui"
)

// pickServer connects to name, the configured default, the only server, or
// the one the operator selects, in that order.
func (s *session) pickServer(ctx context.Context, name string) (*jellyfin.Server, error) {
	if name != "" || s.cfg.Account.DefaultServer != "" || len(s.cfg.Servers) == 1 {
		return s.account.Connect(ctx, name)
	}

	picked, err := selector.Select(ctx, s.prompter, "Select server", s.account.ListServers(),
		func(d account.Descriptor) string { return d.Name })
	if err != nil {
		return nil, err
	}
	if len(picked) == 0 {
		return nil, fmt.Errorf("no server selected")
	}
	return s.account.Connect(ctx, picked[0].Name)
}

func newServerCmd(opts *rootOptions) *cobra.Command {
	var list bool

	cmd := &cobra.Command{
		Use:   "server [name]",
		Short: "Show a server and its libraries",
		Long: `Connect to a server and show its version and library sections.

Without a name the default server is used; with several servers and no
default you are asked to pick one. --list shows the configured servers
without connecting.

Examples:
  jellyctl server
  jellyctl server cabin
  jellyctl server --list`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd, opts)
			if err != nil {
				return err
			}
			defer s.Close()

			if list {
				return runServerList(s)
			}

			name := ""
			if len(args) > 0 {
				name = args[0]
			}
			return runServer(cmd.Context(), s, name)
		},
	}

	cmd.Flags().BoolVarP(&list, "list", "l", false, "list configured servers without connecting")

	return cmd
}

func runServerList(s *session) error {
	def := s.account.DefaultServer()
	tbl := ui.NewTable("Name", "URL", "Default")
	for _, d := range s.account.ListServers() {
		mark := ""
		if strings.EqualFold(d.Name, def) {
			mark = "*"
		}
		tbl.AddRow(d.Name, d.URL, mark)
	}
	tbl.Render(s.out)
	return nil
}

func runServer(ctx context.Context, s *session, name string) error {
	srv, err := s.pickServer(ctx, name)
	if err != nil {
		return err
	}

	sysInfo, err := srv.Client().GetSystemInfo(ctx)
	if err != nil {
		return fmt.Errorf("failed to query %s: %w", srv.Name(), err)
	}
	sections, err := srv.Sections(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintf(s.out, "Server:  %s\n", srv.Name())
	fmt.Fprintf(s.out, "Name:    %s\n", sysInfo.ServerName)
	fmt.Fprintf(s.out, "Version: %s\n", sysInfo.Version)
	fmt.Fprintf(s.out, "URL:     %s\n\n", srv.Client().BaseURL())

	tbl := ui.NewTable("Section", "Type", "ID")
	for _, sec := range sections {
		tbl.AddRow(sec.Title, string(sec.Kind), sec.ID)
	}
	tbl.Render(s.out)
	return nil
}
