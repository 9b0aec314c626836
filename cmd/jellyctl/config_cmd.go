package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Nomadcxx/jellyctl/internal/config"
	"github.com/Nomadcxx/jellyctl/internal/paths"
)

func configPath(opts *rootOptions) (string, error) {
	if opts.cfgFile != "" {
		return opts.cfgFile, nil
	}
	return paths.ConfigPath()
}

func newConfigCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage jellyctl configuration",
		Long: `Commands for managing jellyctl configuration.

The config file is stored at: ~/.config/jellyctl/config.toml
Values can be overridden with JELLYCTL_* environment variables or a .env
file next to the config, e.g. JELLYCTL_ACCOUNT_PASSWORD.

Examples:
  jellyctl config init              # Create default config file
  jellyctl config show              # Display current configuration
  jellyctl config path              # Show config file path`,
	}

	cmd.AddCommand(newConfigInitCmd(opts))
	cmd.AddCommand(newConfigShowCmd(opts))
	cmd.AddCommand(newConfigPathCmd(opts))

	return cmd
}

func newConfigInitCmd(opts *rootOptions) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create default configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := configPath(opts)
			if err != nil {
				return err
			}
			if config.Exists(path) && !force {
				return fmt.Errorf("config already exists at %s (use --force to overwrite)", path)
			}

			cfg := config.DefaultConfig()
			if err := cfg.Save(path); err != nil {
				return fmt.Errorf("failed to save config: %w", err)
			}

			out := cmd.OutOrStdout()
			success(out, "Created config file: %s", path)
			fmt.Fprintln(out, "\nNext steps:")
			fmt.Fprintln(out, "  1. Add your servers and account to the config file")
			fmt.Fprintln(out, "  2. Run 'jellyctl server --list' to check them")
			fmt.Fprintln(out, "  3. Run 'jellyctl config show' to review settings")
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite existing config file")

	return cmd
}

func newConfigShowCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Display current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := configPath(opts)
			if err != nil {
				return err
			}
			cfg, err := config.Load(path)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			out := cmd.OutOrStdout()
			if !config.Exists(path) {
				warning(out, "No config file at %s, showing defaults", path)
			} else {
				fmt.Fprintf(out, "Config file: %s\n", path)
			}

			fmt.Fprintln(out, "\n=== Account ===")
			fmt.Fprintf(out, "Username:       %s\n", cfg.Account.Username)
			fmt.Fprintf(out, "Password:       %s\n", maskSecret(cfg.Account.Password))
			fmt.Fprintf(out, "Default server: %s\n", cfg.Account.DefaultServer)

			fmt.Fprintln(out, "\n=== Servers ===")
			for _, srv := range cfg.Servers {
				fmt.Fprintf(out, "%-12s %s", srv.Name, srv.URL)
				if srv.APIKey != "" {
					fmt.Fprintf(out, "  (api key %s, user %s)", maskSecret(srv.APIKey), srv.UserID)
				}
				fmt.Fprintln(out)
			}

			fmt.Fprintln(out, "\n=== Options ===")
			fmt.Fprintf(out, "Timeout:           %s\n", cfg.Client.Timeout)
			fmt.Fprintf(out, "Max attempts:      %d\n", cfg.Selector.MaxAttempts)
			fmt.Fprintf(out, "Dupes language:    %s\n", cfg.Dupes.Language)
			fmt.Fprintf(out, "Ignore categories: %s\n", strings.Join(cfg.Dupes.IgnoreCategories, ", "))
			fmt.Fprintf(out, "Sync sections:     %s\n", strings.Join(cfg.Sync.SectionTypes, ", "))
			fmt.Fprintf(out, "Save path:         %s\n", cfg.Download.SavePath)
			fmt.Fprintf(out, "Journal:           %v\n", cfg.Journal.Enabled)
			fmt.Fprintf(out, "Log level:         %s\n", cfg.Logging.Level)
			return nil
		},
	}
}

func newConfigPathCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Show config file path",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := configPath(opts)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
}
