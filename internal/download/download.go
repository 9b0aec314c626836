// Package download streams original media files from a server to local disk.
package download

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/schollz/progressbar/v3"

	"github.com/Nomadcxx/jellyctl/internal/catalog"
	"github.com/Nomadcxx/jellyctl/internal/jellyfin"
)

// ErrExists is returned when the destination file is already present.
var ErrExists = errors.New("destination already exists")

// Source opens the byte stream of a variant.
type Source interface {
	OpenDownload(ctx context.Context, variant catalog.Variant) (*jellyfin.Download, error)
}

// Options configures Fetch.
type Options struct {
	// SavePath is the destination directory. Empty means the working directory.
	SavePath string
	// Progress receives the progress bar. Nil disables it.
	Progress io.Writer
	// Overwrite replaces an existing destination file.
	Overwrite bool
}

// Fetch downloads the first part of variant into opts.SavePath and returns
// the local path. Data is written to a temporary file that is renamed into
// place once complete, so an interrupted download leaves no partial file.
func Fetch(ctx context.Context, src Source, item catalog.Item, variant catalog.Variant, opts Options) (string, error) {
	dir := opts.SavePath
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("creating %s: %w", dir, err)
	}

	dst := filepath.Join(dir, FileName(item, variant))
	if !opts.Overwrite {
		if _, err := os.Stat(dst); err == nil {
			return dst, fmt.Errorf("%w: %s", ErrExists, dst)
		}
	}

	dl, err := src.OpenDownload(ctx, variant)
	if err != nil {
		return "", err
	}
	defer dl.Body.Close()

	tmp, err := os.CreateTemp(dir, ".jellyctl-*.part")
	if err != nil {
		return "", fmt.Errorf("failed to create destination: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	var w io.Writer = tmp
	if opts.Progress != nil {
		bar := newBar(dl.Size, filepath.Base(dst), opts.Progress)
		defer bar.Close()
		w = io.MultiWriter(tmp, bar)
	}

	if _, err := io.Copy(w, dl.Body); err != nil {
		tmp.Close()
		return "", fmt.Errorf("downloading %s: %w", item.Title, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return "", fmt.Errorf("sync error: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", err
	}
	if err := os.Chmod(tmpPath, 0644); err != nil {
		return "", fmt.Errorf("chmod failed: %w", err)
	}
	if err := os.Rename(tmpPath, dst); err != nil {
		return "", fmt.Errorf("moving download into place: %w", err)
	}
	return dst, nil
}

func newBar(size int64, label string, w io.Writer) *progressbar.ProgressBar {
	if size <= 0 {
		size = -1
	}
	return progressbar.NewOptions64(size,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription(label),
		progressbar.OptionShowBytes(true),
		progressbar.OptionSetWidth(30),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprintln(w)
		}),
	)
}

// FileName builds "<display name>.<container>" for a variant, with
// characters that are unsafe in file names replaced.
func FileName(item catalog.Item, variant catalog.Variant) string {
	ext := ""
	if len(variant.Parts) > 0 {
		part := variant.Parts[0]
		ext = part.Container
		if ext == "" {
			ext = strings.TrimPrefix(filepath.Ext(part.Path), ".")
		}
		// Containers may be reported as a list, e.g. "mov,mp4,m4a".
		ext, _, _ = strings.Cut(ext, ",")
	}

	name := sanitize(item.DisplayName())
	if name == "" {
		name = variant.ID
	}
	if ext == "" {
		return name
	}
	return name + "." + ext
}

var unsafeChars = strings.NewReplacer(
	"/", "_", "\\", "_", ":", " -", "*", "_", "?", "",
	"\"", "'", "<", "_", ">", "_", "|", "_",
)

func sanitize(s string) string {
	return strings.TrimSpace(unsafeChars.Replace(s))
}
