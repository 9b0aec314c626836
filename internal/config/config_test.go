package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileGivesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "config.toml"))
	require.NoError(t, err)

	assert.Equal(t, 30*time.Second, cfg.Client.Timeout)
	assert.Equal(t, 200, cfg.Sync.PageSize)
	assert.Equal(t, []string{"movie", "show"}, cfg.Sync.SectionTypes)
	assert.True(t, cfg.Journal.Enabled)
	assert.Empty(t, cfg.Servers)
}

func TestLoad_ReadsServersAndOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[account]
username = "me"
default_server = "cabin"

[[servers]]
name = "home"
url = "http://home:8096"

[[servers]]
name = "cabin"
url = "http://cabin:8096"
api_key = "k"
user_id = "u"

[client]
timeout = "5s"

[dupes]
language = "nor"
ignore_categories = ["Family", "Animation"]
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("JELLYCTL_ACCOUNT_PASSWORD=s3cret\n"), 0600))
	t.Cleanup(func() { os.Unsetenv("JELLYCTL_ACCOUNT_PASSWORD") })

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "me", cfg.Account.Username)
	assert.Equal(t, "s3cret", cfg.Account.Password)
	assert.Equal(t, 5*time.Second, cfg.Client.Timeout)
	assert.Equal(t, "nor", cfg.Dupes.Language)
	assert.Equal(t, []string{"Family", "Animation"}, cfg.Dupes.IgnoreCategories)
	require.Len(t, cfg.Servers, 2)

	s, ok := cfg.Server("CABIN")
	require.True(t, ok)
	assert.Equal(t, "k", s.APIKey)
}

func TestValidate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Servers = []ServerConfig{
		{Name: "a", URL: "http://a"},
		{Name: "A", URL: ""},
		{Name: "b", URL: "http://b", APIKey: "key"},
	}
	cfg.Account.DefaultServer = "zzz"

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `duplicate name "A"`)
	assert.Contains(t, err.Error(), `server "A": url is required`)
	assert.Contains(t, err.Error(), "user_id is required")
	assert.Contains(t, err.Error(), `default_server "zzz"`)
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	cfg := DefaultConfig()
	cfg.Account.Username = "me"
	cfg.Servers = []ServerConfig{{Name: "home", URL: "http://home:8096"}}
	cfg.Dupes.IgnoreCategories = []string{"Family"}

	require.NoError(t, cfg.Save(path))
	assert.True(t, Exists(path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg.Account.Username, loaded.Account.Username)
	assert.Equal(t, cfg.Servers, loaded.Servers)
	assert.Equal(t, cfg.Dupes.IgnoreCategories, loaded.Dupes.IgnoreCategories)
	assert.Equal(t, cfg.Client.Timeout, loaded.Client.Timeout)
}
