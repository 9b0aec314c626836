package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/Nomadcxx/jellyctl/internal/actions"
	"github.com/Nomadcxx/jellyctl/internal/catalog"
	"github.com/Nomadcxx/jellyctl/internal/download"
	"github.com/Nomadcxx/jellyctl/internal/jellyfin"
	"github.com/Nomadcxx/jellyctl/internal/journal"
	"github.com/Nomadcxx/jellyctl/internal/logging"
	"github.com/Nomadcxx/jellyctl/internal/resolver"
	"github.com/Nomadcxx/jellyctl/internal/ui"
)

// serverSet routes item operations to the server an item came from.
type serverSet map[string]*jellyfin.Server

func newServerSet(servers ...*jellyfin.Server) serverSet {
	set := make(serverSet, len(servers))
	for _, srv := range servers {
		set[srv.Name()] = srv
	}
	return set
}

func (set serverSet) of(item catalog.Item) (*jellyfin.Server, error) {
	srv, ok := set[item.Server]
	if !ok {
		return nil, fmt.Errorf("no connection to server %q", item.Server)
	}
	return srv, nil
}

// Episodes lets a serverSet act as the resolver's episode source.
func (set serverSet) Episodes(ctx context.Context, series catalog.Item) ([]catalog.Item, error) {
	srv, err := set.of(series)
	if err != nil {
		return nil, err
	}
	return srv.Episodes(ctx, series)
}

type searchOptions struct {
	action     string
	savePath   string
	allServers bool
	server     string
}

func newSearchCmd(opts *rootOptions) *cobra.Command {
	var so searchOptions

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search libraries and act on the results",
		Long: `Search one server, or every configured server with --all-servers.

Without --cmd the results are listed. With --cmd you pick results (and
episodes of any series you pick) and the action runs on each of them.
delete lists the picked items with their sizes and asks twice first.

Actions: ` + strings.Join(actions.Names(), ", ") + `

Selections accept an index (2), a list (0,3,3) or a slice (1:4, ::2, -1).

Examples:
  jellyctl search alien
  jellyctl search "the wire" --cmd download --save-path ~/Videos
  jellyctl search heat --cmd watched --all-servers`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd, opts)
			if err != nil {
				return err
			}
			defer s.Close()

			return runSearch(cmd, s, strings.Join(args, " "), so)
		},
	}

	cmd.Flags().StringVar(&so.action, "cmd", "", "action to run on the selected items")
	cmd.Flags().StringVar(&so.savePath, "save-path", "", "download directory (default from config)")
	cmd.Flags().BoolVar(&so.allServers, "all-servers", false, "search every configured server")
	cmd.Flags().StringVarP(&so.server, "server", "s", "", "server to search")

	return cmd
}

func runSearch(cmd *cobra.Command, s *session, query string, so searchOptions) error {
	ctx := cmd.Context()

	var action actions.Action
	if so.action != "" {
		a, err := actions.Parse(so.action)
		if err != nil {
			return err
		}
		action = a
	}

	var servers []*jellyfin.Server
	if so.allServers {
		all, err := s.account.ConnectAll(ctx)
		if err != nil {
			return err
		}
		servers = all
	} else {
		srv, err := s.pickServer(ctx, so.server)
		if err != nil {
			return err
		}
		servers = []*jellyfin.Server{srv}
	}

	results, err := searchServers(ctx, servers, query)
	if err != nil {
		return err
	}
	s.logger.Info("search", "Search completed",
		logging.F("query", query),
		logging.F("servers", len(servers)),
		logging.F("results", len(results)))

	if len(results) == 0 {
		info(s.out, "No results for %q", query)
		return nil
	}

	if action == "" {
		for i, item := range results {
			fmt.Fprintf(s.out, "%d %s\n", i, resolver.ResultLabel(item))
		}
		return nil
	}

	set := newServerSet(servers...)
	picked, err := resolver.New(s.prompter, set).Resolve(ctx, results)
	if err != nil {
		return err
	}
	return applyAction(ctx, s, set, action, picked, so.savePath)
}

// searchServers queries every server concurrently. Results keep server order.
func searchServers(ctx context.Context, servers []*jellyfin.Server, query string) ([]catalog.Item, error) {
	perServer := make([][]catalog.Item, len(servers))

	g, gctx := errgroup.WithContext(ctx)
	for i, srv := range servers {
		g.Go(func() error {
			items, err := srv.Search(gctx, query)
			if err != nil {
				return fmt.Errorf("searching %s: %w", srv.Name(), err)
			}
			perServer[i] = items
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var results []catalog.Item
	for _, items := range perServer {
		results = append(results, items...)
	}
	return results, nil
}

func applyAction(ctx context.Context, s *session, set serverSet, action actions.Action, items []catalog.Item, savePath string) error {
	if savePath == "" {
		savePath = s.cfg.Download.SavePath
	}

	if action.Destructive() && len(items) > 0 {
		ok, err := confirmDestructive(ctx, s, items)
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(s.out, "Cancelled, nothing was deleted.")
			return nil
		}
	}

	done, failed := 0, 0
	var freed int64
	for _, item := range items {
		if err := ctx.Err(); err != nil {
			return err
		}

		srv, err := set.of(item)
		if err != nil {
			failure(s.out, "%s: %v", item.DisplayName(), err)
			failed++
			continue
		}

		if s.dryRun && action.Mutating() {
			fmt.Fprintf(s.out, "  Would run %s on %s\n", action, styledTitle(item))
			s.recordAction(ctx, action, srv, item, "", nil)
			done++
			freed += itemSize(item)
			continue
		}

		path, err := runAction(ctx, s, srv, action, item, savePath)
		s.recordAction(ctx, action, srv, item, path, err)
		if err != nil {
			failure(s.out, "%s: %v", item.DisplayName(), err)
			s.logger.Error("search", "Action failed", err,
				logging.F("action", string(action)),
				logging.F("server", srv.Name()),
				logging.F("item", item.ID))
			failed++
			continue
		}

		if path != "" {
			success(s.out, "%s %s → %s", action.Verb(), styledTitle(item), ui.Path(path))
		} else {
			success(s.out, "%s %s", action.Verb(), styledTitle(item))
		}
		done++
		freed += itemSize(item)
	}

	var summary string
	switch {
	case action.Destructive() && s.dryRun:
		summary = fmt.Sprintf("Would delete %d items freeing up %s", done, ui.FormatBytes(freed))
	case action.Destructive():
		summary = fmt.Sprintf("Deleted %d items freeing up %s", done, ui.FormatBytes(freed))
	case s.dryRun && action.Mutating():
		summary = fmt.Sprintf("Would run %s on %d of %d items", action, done, len(items))
	default:
		summary = fmt.Sprintf("%s %d of %d items", action.Verb(), done, len(items))
	}
	if failed > 0 {
		summary += fmt.Sprintf(" (%d failed)", failed)
	}
	fmt.Fprintln(s.out, summary)
	return nil
}

// confirmDestructive lists items with their sizes and asks twice.
func confirmDestructive(ctx context.Context, s *session, items []catalog.Item) (bool, error) {
	var total int64
	fmt.Fprintln(s.out)
	for _, item := range items {
		size := itemSize(item)
		total += size
		fmt.Fprintf(s.out, "  %-9s %s\n", ui.FormatBytes(size), styledTitle(item))
	}
	fmt.Fprintln(s.out)

	ok, err := s.prompter.Confirm(ctx, fmt.Sprintf("Are you sure you wish to delete %d items (%s)?", len(items), ui.FormatBytes(total)))
	if err != nil || !ok {
		return false, err
	}
	return s.prompter.Confirm(ctx, "This cannot be undone. Continue?")
}

// itemSize is the size of every file deleting item removes.
func itemSize(item catalog.Item) int64 {
	var total int64
	for _, v := range item.Variants {
		total += v.Size()
	}
	return total
}

func runAction(ctx context.Context, s *session, srv *jellyfin.Server, action actions.Action, item catalog.Item, savePath string) (string, error) {
	switch action {
	case actions.Download:
		if len(item.Variants) == 0 {
			return "", errors.New("nothing to download")
		}
		return download.Fetch(ctx, srv, item, item.Variants[0], download.Options{
			SavePath: savePath,
			Progress: s.errOut,
		})
	case actions.Delete:
		return "", srv.DeleteItem(ctx, item)
	case actions.Watched:
		return "", srv.MarkWatched(ctx, item)
	case actions.Unwatched:
		return "", srv.MarkUnwatched(ctx, item)
	case actions.Refresh:
		return "", srv.Refresh(ctx, item)
	default:
		return "", &actions.UnsupportedActionError{Name: string(action)}
	}
}

var actionOps = map[actions.Action]journal.Operation{
	actions.Download:  journal.OpDownload,
	actions.Delete:    journal.OpDeleteItem,
	actions.Watched:   journal.OpMarkWatched,
	actions.Unwatched: journal.OpMarkUnwatched,
	actions.Refresh:   journal.OpRefresh,
}

func (s *session) recordAction(ctx context.Context, action actions.Action, srv *jellyfin.Server, item catalog.Item, path string, err error) {
	e := journal.Entry{
		Operation: actionOps[action],
		Server:    srv.Name(),
		ItemID:    item.ID,
		Title:     item.DisplayName(),
		Path:      path,
		DryRun:    s.dryRun && action.Mutating(),
	}
	if len(item.Variants) > 0 {
		e.Bytes = item.Variants[0].Size()
		if e.Path == "" && len(item.Variants[0].Parts) > 0 {
			e.Path = item.Variants[0].Parts[0].Path
		}
	}
	if err != nil {
		e.Error = err.Error()
	}
	s.record(ctx, e)
}
