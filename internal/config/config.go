package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Nomadcxx/jellyctl/internal/paths"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment overrides, e.g. JELLYCTL_ACCOUNT_PASSWORD.
const EnvPrefix = "JELLYCTL"

type Config struct {
	Account  AccountConfig  `mapstructure:"account"`
	Servers  []ServerConfig `mapstructure:"servers"`
	Client   ClientConfig   `mapstructure:"client"`
	Selector SelectorConfig `mapstructure:"selector"`
	Dupes    DupesConfig    `mapstructure:"dupes"`
	Sync     SyncConfig     `mapstructure:"sync"`
	Download DownloadConfig `mapstructure:"download"`
	Journal  JournalConfig  `mapstructure:"journal"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// AccountConfig holds the credentials used against every server that does
// not carry its own API key.
type AccountConfig struct {
	Username      string `mapstructure:"username"`
	Password      string `mapstructure:"password"`
	DefaultServer string `mapstructure:"default_server"`
}

// ServerConfig describes one Jellyfin server.
type ServerConfig struct {
	Name   string `mapstructure:"name"`
	URL    string `mapstructure:"url"`
	APIKey string `mapstructure:"api_key"`
	// UserID is required with APIKey so per-user state such as watched
	// flags can be addressed.
	UserID string `mapstructure:"user_id"`
}

type ClientConfig struct {
	Timeout time.Duration `mapstructure:"timeout"`
}

type SelectorConfig struct {
	// MaxAttempts bounds invalid answers per prompt; 0 keeps asking.
	MaxAttempts int `mapstructure:"max_attempts"`
}

type DupesConfig struct {
	Language         string   `mapstructure:"language"`
	IgnoreCategories []string `mapstructure:"ignore_categories"`
}

type SyncConfig struct {
	SectionTypes []string `mapstructure:"section_types"`
	PageSize     int      `mapstructure:"page_size"`
}

type DownloadConfig struct {
	SavePath string `mapstructure:"save_path"`
}

type JournalConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

type LoggingConfig struct {
	Level      string `mapstructure:"level"`
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
}

// DefaultConfig returns default configuration
func DefaultConfig() *Config {
	return &Config{
		Servers: []ServerConfig{},
		Client: ClientConfig{
			Timeout: 30 * time.Second,
		},
		Selector: SelectorConfig{
			MaxAttempts: 0,
		},
		Dupes: DupesConfig{
			Language:         "",
			IgnoreCategories: []string{},
		},
		Sync: SyncConfig{
			SectionTypes: []string{"movie", "show"},
			PageSize:     200,
		},
		Download: DownloadConfig{
			SavePath: ".",
		},
		Journal: JournalConfig{
			Enabled: true,
		},
		Logging: LoggingConfig{
			Level:      "info",
			MaxSizeMB:  10,
			MaxBackups: 5,
		},
	}
}

func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("account.username", cfg.Account.Username)
	v.SetDefault("account.password", cfg.Account.Password)
	v.SetDefault("account.default_server", cfg.Account.DefaultServer)
	v.SetDefault("client.timeout", cfg.Client.Timeout)
	v.SetDefault("selector.max_attempts", cfg.Selector.MaxAttempts)
	v.SetDefault("dupes.language", cfg.Dupes.Language)
	v.SetDefault("dupes.ignore_categories", cfg.Dupes.IgnoreCategories)
	v.SetDefault("sync.section_types", cfg.Sync.SectionTypes)
	v.SetDefault("sync.page_size", cfg.Sync.PageSize)
	v.SetDefault("download.save_path", cfg.Download.SavePath)
	v.SetDefault("journal.enabled", cfg.Journal.Enabled)
	v.SetDefault("journal.path", cfg.Journal.Path)
	v.SetDefault("logging.level", cfg.Logging.Level)
	v.SetDefault("logging.file", cfg.Logging.File)
	v.SetDefault("logging.max_size_mb", cfg.Logging.MaxSizeMB)
	v.SetDefault("logging.max_backups", cfg.Logging.MaxBackups)
}

// Load reads the config file at path, or the default location when path is
// empty. A missing file yields defaults. A .env file next to the config is
// loaded into the environment first; JELLYCTL_* variables override file
// values.
func Load(path string) (*Config, error) {
	if path == "" {
		p, err := paths.ConfigPath()
		if err != nil {
			return nil, fmt.Errorf("unable to get config path: %w", err)
		}
		path = p
	}

	envFile := filepath.Join(filepath.Dir(path), ".env")
	if _, err := os.Stat(envFile); err == nil {
		if err := godotenv.Load(envFile); err != nil {
			return nil, fmt.Errorf("unable to load %s: %w", envFile, err)
		}
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("toml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := DefaultConfig()
	setDefaults(v, cfg)

	if _, err := os.Stat(path); err == nil {
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("unable to read config file: %w", err)
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unable to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks server entries.
func (c *Config) Validate() error {
	seen := make(map[string]bool, len(c.Servers))
	var errs []error
	for i, s := range c.Servers {
		if strings.TrimSpace(s.Name) == "" {
			errs = append(errs, fmt.Errorf("servers[%d]: name is required", i))
			continue
		}
		key := strings.ToLower(s.Name)
		if seen[key] {
			errs = append(errs, fmt.Errorf("servers[%d]: duplicate name %q", i, s.Name))
		}
		seen[key] = true
		if strings.TrimSpace(s.URL) == "" {
			errs = append(errs, fmt.Errorf("server %q: url is required", s.Name))
		}
		if s.APIKey != "" && s.UserID == "" {
			errs = append(errs, fmt.Errorf("server %q: user_id is required with api_key", s.Name))
		}
	}
	if c.Account.DefaultServer != "" && len(c.Servers) > 0 {
		if _, ok := c.Server(c.Account.DefaultServer); !ok {
			errs = append(errs, fmt.Errorf("default_server %q is not configured", c.Account.DefaultServer))
		}
	}
	if c.Selector.MaxAttempts < 0 {
		errs = append(errs, errors.New("selector.max_attempts must not be negative"))
	}
	return errors.Join(errs...)
}

// Server looks a server up by name, case-insensitively.
func (c *Config) Server(name string) (ServerConfig, bool) {
	for _, s := range c.Servers {
		if strings.EqualFold(s.Name, name) {
			return s, true
		}
	}
	return ServerConfig{}, false
}

// Save writes the configuration to path, or the default location.
func (c *Config) Save(path string) error {
	if path == "" {
		p, err := paths.ConfigPath()
		if err != nil {
			return err
		}
		path = p
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("unable to create config dir: %w", err)
	}
	// The file may hold a password.
	return os.WriteFile(path, []byte(c.ToTOML()), 0600)
}

// Exists reports whether a config file exists at path or the default location.
func Exists(path string) bool {
	if path == "" {
		p, err := paths.ConfigPath()
		if err != nil {
			return false
		}
		path = p
	}
	_, err := os.Stat(path)
	return err == nil
}

func (c *Config) ToTOML() string {
	var sb strings.Builder

	fmt.Fprintf(&sb, `# jellyctl configuration
# Generated by: jellyctl config init

# ============================================================================
# ACCOUNT
# Credentials for servers without an api_key. The password can also be set
# with JELLYCTL_ACCOUNT_PASSWORD or in a .env file next to this one.
# ============================================================================
[account]
username = %q
password = %q
default_server = %q

`, c.Account.Username, c.Account.Password, c.Account.DefaultServer)

	sb.WriteString(`# ============================================================================
# SERVERS
# One [[servers]] block per Jellyfin server.
# ============================================================================
`)
	if len(c.Servers) == 0 {
		sb.WriteString(`# [[servers]]
# name = "home"
# url = "http://localhost:8096"
# api_key = ""
# user_id = ""

`)
	}
	for _, s := range c.Servers {
		fmt.Fprintf(&sb, "[[servers]]\nname = %q\nurl = %q\napi_key = %q\nuser_id = %q\n\n", s.Name, s.URL, s.APIKey, s.UserID)
	}

	fmt.Fprintf(&sb, `[client]
timeout = %q

# ============================================================================
# SELECTION PROMPTS
# max_attempts: invalid answers accepted before giving up (0 = ask forever)
# ============================================================================
[selector]
max_attempts = %d

# ============================================================================
# DUPLICATE REMOVAL
# language: keep any copy with an audio track in this language (e.g. "nor")
# ignore_categories: never remove copies of items in these genres
# ============================================================================
[dupes]
language = %q
ignore_categories = %s

[sync]
section_types = %s
page_size = %d

[download]
save_path = %q

[journal]
enabled = %v
path = %q

[logging]
level = %q
file = %q
max_size_mb = %d
max_backups = %d
`,
		c.Client.Timeout.String(),
		c.Selector.MaxAttempts,
		c.Dupes.Language,
		formatStringSlice(c.Dupes.IgnoreCategories),
		formatStringSlice(c.Sync.SectionTypes),
		c.Sync.PageSize,
		c.Download.SavePath,
		c.Journal.Enabled,
		c.Journal.Path,
		c.Logging.Level,
		c.Logging.File,
		c.Logging.MaxSizeMB,
		c.Logging.MaxBackups,
	)

	return sb.String()
}

func formatStringSlice(s []string) string {
	if len(s) == 0 {
		return "[]"
	}
	quoted := make([]string, len(s))
	for i, v := range s {
		quoted[i] = fmt.Sprintf("%q", v)
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}

// JournalPath resolves the journal database location.
func (c *Config) JournalPath() (string, error) {
	if c.Journal.Path != "" {
		return c.Journal.Path, nil
	}
	return paths.JournalPath()
}
