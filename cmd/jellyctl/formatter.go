package main

import (
	_ "embed"
	"fmt"
	"io"
	"strings"

	"github.com/Nomadcxx/jellyctl/internal/catalog"
	"github.com/Nomadcxx/jellyctl/internal/ui"
)

//go:embed assets/header.txt
var asciiHeader string

func success(w io.Writer, format string, args ...interface{}) {
	fmt.Fprintln(w, ui.Success("✓")+" "+fmt.Sprintf(format, args...))
}

func failure(w io.Writer, format string, args ...interface{}) {
	fmt.Fprintln(w, ui.Error("✗")+" "+fmt.Sprintf(format, args...))
}

func warning(w io.Writer, format string, args ...interface{}) {
	fmt.Fprintln(w, ui.Warning("⚠")+" "+fmt.Sprintf(format, args...))
}

func info(w io.Writer, format string, args ...interface{}) {
	fmt.Fprintln(w, ui.Info("ℹ")+" "+fmt.Sprintf(format, args...))
}

// styledTitle colours an item title by kind.
func styledTitle(item catalog.Item) string {
	switch item.Kind {
	case catalog.KindMovie:
		return ui.Movie(item.DisplayName())
	case catalog.KindEpisode, catalog.KindSeries:
		return ui.TVShow(item.DisplayName())
	default:
		return item.DisplayName()
	}
}

func maskSecret(s string) string {
	if s == "" {
		return "(not set)"
	}
	if len(s) <= 4 {
		return "****"
	}
	return s[:4] + strings.Repeat("*", len(s)-4)
}
