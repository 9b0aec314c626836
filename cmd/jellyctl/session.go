package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
	"github.com/spf13/cobra"

	"github.com/Nomadcxx/jellyctl/internal/account"
	"github.com/Nomadcxx/jellyctl/internal/config"
	"github.com/Nomadcxx/jellyctl/internal/journal"
	"github.com/Nomadcxx/jellyctl/internal/logging"
	"github.com/Nomadcxx/jellyctl/internal/paths"
	"github.com/Nomadcxx/jellyctl/internal/selector"
)

// session is the state one command invocation works with. It is built from
// configuration when the command starts and closed when it returns.
type session struct {
	cfg      *config.Config
	logger   *logging.Logger
	account  *account.Account
	journal  *journal.Journal
	recorder journal.Recorder
	prompter *selector.Prompter
	out      io.Writer
	errOut   io.Writer
	dryRun   bool
	lock     *flock.Flock
}

func newSession(cmd *cobra.Command, opts *rootOptions) (*session, error) {
	cfg, err := config.Load(opts.cfgFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logCfg := logging.Config{
		Level:      cfg.Logging.Level,
		File:       cfg.Logging.File,
		MaxSizeMB:  cfg.Logging.MaxSizeMB,
		MaxBackups: cfg.Logging.MaxBackups,
	}
	if opts.verbose {
		logCfg.Level = "debug"
		logCfg.Console = cmd.ErrOrStderr()
	}
	logger, err := logging.New(logCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	acct, err := account.New(cfg, logger)
	if err != nil {
		logger.Close()
		if errors.Is(err, account.ErrNoServers) {
			return nil, fmt.Errorf("%w (run 'jellyctl config init' and add a [[servers]] entry)", err)
		}
		return nil, err
	}

	s := &session{
		cfg:      cfg,
		logger:   logger,
		account:  acct,
		recorder: journal.Nop{},
		out:      cmd.OutOrStdout(),
		errOut:   cmd.ErrOrStderr(),
		dryRun:   opts.dryRun,
	}
	s.prompter = selector.NewPrompter(cmd.InOrStdin(), s.out)
	s.prompter.MaxAttempts = cfg.Selector.MaxAttempts

	if cfg.Journal.Enabled {
		if err := s.openJournal(); err != nil {
			logger.Warn("session", "Journal unavailable, continuing without it", logging.F("error", err))
		}
	}

	logger.Debug("session", "Session started",
		logging.F("command", cmd.CommandPath()),
		logging.F("dry_run", opts.dryRun),
		logging.F("log_file", logger.FilePath()))
	return s, nil
}

func (s *session) openJournal() error {
	path, err := s.cfg.JournalPath()
	if err != nil {
		return err
	}
	j, err := journal.Open(path)
	if err != nil {
		return err
	}
	s.journal = j
	s.recorder = j
	return nil
}

// lockMutations takes the lock that keeps two mutating commands from running
// at once. Dry runs do not lock.
func (s *session) lockMutations() error {
	if s.dryRun {
		return nil
	}
	path, err := paths.LockPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create lock directory: %w", err)
	}
	lock := flock.New(path)
	ok, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return fmt.Errorf("another jellyctl command is already changing servers (lock %s)", path)
	}
	s.lock = lock
	return nil
}

func (s *session) Close() {
	if s.lock != nil {
		if err := s.lock.Unlock(); err != nil {
			s.logger.Warn("session", "Failed to release lock", logging.F("error", err))
		}
	}
	if s.journal != nil {
		s.journal.Close()
	}
	s.logger.Close()
}

// record journals an operation; failures only reach the log.
func (s *session) record(ctx context.Context, e journal.Entry) {
	if err := s.recorder.Record(ctx, e); err != nil {
		s.logger.Warn("session", "Journal write failed", logging.F("error", err))
	}
}
