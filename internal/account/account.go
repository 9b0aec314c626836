// Package account holds the session context shared by every command: the
// configured servers, the credentials used against them and the connections
// made during one invocation.
package account

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/Nomadcxx/jellyctl/internal/catalog"
	"github.com/Nomadcxx/jellyctl/internal/config"
	"github.com/Nomadcxx/jellyctl/internal/jellyfin"
	"github.com/Nomadcxx/jellyctl/internal/logging"
)

var (
	// ErrAuth is returned when a server rejects the configured credentials.
	ErrAuth = errors.New("authentication failed")
	// ErrNoServers is returned when no server is configured.
	ErrNoServers = errors.New("no servers configured")
	// ErrUnknownServer is returned for a server name not in the config.
	ErrUnknownServer = errors.New("unknown server")
)

// Descriptor identifies a configured server.
type Descriptor struct {
	Name string
	URL  string
}

// Account resolves server names to authenticated connections.
type Account struct {
	cfg        *config.Config
	logger     *logging.Logger
	httpClient *http.Client
}

// Option configures an Account.
type Option func(*Account)

// WithHTTPClient sets the HTTP client shared by all connections.
func WithHTTPClient(c *http.Client) Option {
	return func(a *Account) {
		a.httpClient = c
	}
}

// New builds an account from configuration. It does not contact any server.
func New(cfg *config.Config, logger *logging.Logger, opts ...Option) (*Account, error) {
	if len(cfg.Servers) == 0 {
		return nil, ErrNoServers
	}
	if logger == nil {
		logger = logging.Nop()
	}
	a := &Account{cfg: cfg, logger: logger}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

// ListServers returns the configured servers in configuration order.
func (a *Account) ListServers() []Descriptor {
	out := make([]Descriptor, 0, len(a.cfg.Servers))
	for _, s := range a.cfg.Servers {
		out = append(out, Descriptor{Name: s.Name, URL: s.URL})
	}
	return out
}

// DefaultServer returns the server used when none is named.
func (a *Account) DefaultServer() string {
	if a.cfg.Account.DefaultServer != "" {
		return a.cfg.Account.DefaultServer
	}
	return a.cfg.Servers[0].Name
}

// Connect authenticates against the named server. An empty name selects the
// default server.
func (a *Account) Connect(ctx context.Context, name string) (*jellyfin.Server, error) {
	if name == "" {
		name = a.DefaultServer()
	}
	sc, ok := a.cfg.Server(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownServer, name)
	}

	client := jellyfin.NewClient(jellyfin.Config{
		URL:        sc.URL,
		APIKey:     sc.APIKey,
		Timeout:    a.cfg.Client.Timeout,
		HTTPClient: a.httpClient,
	})

	userID := sc.UserID
	if sc.APIKey == "" {
		if a.cfg.Account.Username == "" {
			return nil, fmt.Errorf("%w: no username configured for %s", ErrAuth, sc.Name)
		}
		auth, err := client.AuthenticateByName(ctx, a.cfg.Account.Username, a.cfg.Account.Password)
		if err != nil {
			if errors.Is(err, jellyfin.ErrUnauthorized) {
				return nil, fmt.Errorf("%w: %s: %v", ErrAuth, sc.Name, err)
			}
			return nil, fmt.Errorf("connecting to %s: %w", sc.Name, err)
		}
		userID = auth.User.ID
	} else if err := client.Ping(ctx); err != nil {
		if jellyfin.IsStatus(err, http.StatusUnauthorized) {
			return nil, fmt.Errorf("%w: %s: api key rejected", ErrAuth, sc.Name)
		}
		return nil, fmt.Errorf("connecting to %s: %w", sc.Name, err)
	}

	a.logger.Debug("account", "Connected to server",
		logging.F("server", sc.Name),
		logging.F("url", sc.URL))

	return jellyfin.NewServer(sc.Name, client, userID, a.cfg.Sync.PageSize), nil
}

// ConnectAll connects to every configured server concurrently. Servers are
// returned in configuration order; the first failure cancels the rest.
func (a *Account) ConnectAll(ctx context.Context) ([]*jellyfin.Server, error) {
	descriptors := a.ListServers()
	servers := make([]*jellyfin.Server, len(descriptors))

	g, gctx := errgroup.WithContext(ctx)
	for i, d := range descriptors {
		g.Go(func() error {
			srv, err := a.Connect(gctx, d.Name)
			if err != nil {
				return err
			}
			servers[i] = srv
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return servers, nil
}

// Invite is the outcome of InviteFriend.
type Invite struct {
	User     string
	Server   string
	Sections []catalog.Section
	Created  bool
	// Password is set only when the user was created.
	Password string
}

// InviteFriend grants user access to sections on server, creating the user
// with a generated password when needed. No sections means every section.
func (a *Account) InviteFriend(ctx context.Context, user string, server *jellyfin.Server, sections []catalog.Section) (*Invite, error) {
	if strings.TrimSpace(user) == "" {
		return nil, errors.New("user name is required")
	}
	if len(sections) == 0 {
		all, err := server.Sections(ctx)
		if err != nil {
			return nil, err
		}
		sections = all
	}

	password, err := generatePassword()
	if err != nil {
		return nil, err
	}

	created, err := server.Share(ctx, user, password, sections)
	if err != nil {
		return nil, fmt.Errorf("sharing %s with %s: %w", server.Name(), user, err)
	}

	invite := &Invite{User: user, Server: server.Name(), Sections: sections, Created: created}
	if created {
		invite.Password = password
	}
	a.logger.Info("account", "Shared libraries",
		logging.F("user", user),
		logging.F("server", server.Name()),
		logging.F("sections", len(sections)),
		logging.F("created", created))
	return invite, nil
}

// RemoveFriend deletes user from every configured server. It returns the
// servers the user was removed from. A failing server does not stop the
// others; failures are joined.
func (a *Account) RemoveFriend(ctx context.Context, user string) ([]string, error) {
	var removed []string
	var errs []error
	for _, d := range a.ListServers() {
		srv, err := a.Connect(ctx, d.Name)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		ok, err := srv.Unshare(ctx, user)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", d.Name, err))
			continue
		}
		if ok {
			removed = append(removed, d.Name)
			a.logger.Info("account", "Removed user",
				logging.F("user", user),
				logging.F("server", d.Name))
		}
	}
	return removed, errors.Join(errs...)
}

func generatePassword() (string, error) {
	b := make([]byte, 12)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generating password: %w", err)
	}
	return hex.EncodeToString(b), nil
}
