package download

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nomadcxx/jellyctl/internal/catalog"
	"github.com/Nomadcxx/jellyctl/internal/jellyfin"
	"github.com/Nomadcxx/jellyctl/internal/jellyfin/jellyfintest"
)

func movie() (catalog.Item, catalog.Variant) {
	v := catalog.Variant{
		ID:    "m1",
		Parts: []catalog.Part{{ID: "m1", Path: "/movies/Heat.mkv", Container: "mkv"}},
	}
	return catalog.Item{ID: "m1", Title: "Heat", Year: 1995, Kind: catalog.KindMovie, Variants: []catalog.Variant{v}}, v
}

func TestFileName(t *testing.T) {
	item, v := movie()
	assert.Equal(t, "Heat (1995).mkv", FileName(item, v))

	item.Title = "Mission: Impossible / Part 1?"
	v.Parts[0].Container = "mov,mp4,m4a"
	assert.Equal(t, "Mission - Impossible _ Part 1 (1995).mov", FileName(item, v))

	v.Parts[0].Container = ""
	v.Parts[0].Path = "/x/file.avi"
	item.Title = "Heat"
	assert.Equal(t, "Heat (1995).avi", FileName(item, v))
}

func TestFetch_WritesFile(t *testing.T) {
	fake := jellyfintest.New(t, "home")
	fake.AddUser("admin", "secret")
	fake.SetFile("m1", []byte("0123456789"))

	client := jellyfin.NewClient(jellyfin.Config{URL: fake.URL()})
	auth, err := client.AuthenticateByName(context.Background(), "admin", "secret")
	require.NoError(t, err)
	srv := jellyfin.NewServer("home", client, auth.User.ID, 0)

	dir := t.TempDir()
	item, v := movie()
	var progress bytes.Buffer

	path, err := Fetch(context.Background(), srv, item, v, Options{SavePath: dir, Progress: &progress})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "Heat (1995).mkv"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "0123456789", string(data))

	leftovers, err := filepath.Glob(filepath.Join(dir, ".jellyctl-*"))
	require.NoError(t, err)
	assert.Empty(t, leftovers)

	_, err = Fetch(context.Background(), srv, item, v, Options{SavePath: dir})
	assert.ErrorIs(t, err, ErrExists)
}

func TestFetch_RemoteErrorLeavesNothing(t *testing.T) {
	fake := jellyfintest.New(t, "home")
	fake.AddUser("admin", "secret")

	client := jellyfin.NewClient(jellyfin.Config{URL: fake.URL()})
	auth, err := client.AuthenticateByName(context.Background(), "admin", "secret")
	require.NoError(t, err)
	srv := jellyfin.NewServer("home", client, auth.User.ID, 0)

	dir := t.TempDir()
	item, v := movie()
	_, err = Fetch(context.Background(), srv, item, v, Options{SavePath: dir})
	require.Error(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
