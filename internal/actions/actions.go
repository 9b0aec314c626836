// Package actions enumerates what can be done with items picked from search
// results.
package actions

import (
	"fmt"
	"sort"
	"strings"
)

// Action is a post-search operation.
type Action string

const (
	Download  Action = "download"
	Delete    Action = "delete"
	Watched   Action = "watched"
	Unwatched Action = "unwatched"
	Refresh   Action = "refresh"
)

var known = map[Action]bool{
	Download:  true,
	Delete:    true,
	Watched:   true,
	Unwatched: true,
	Refresh:   true,
}

// UnsupportedActionError is returned for action names outside the known set.
type UnsupportedActionError struct {
	Name string
}

func (e *UnsupportedActionError) Error() string {
	return fmt.Sprintf("unsupported action %q (supported: %s)", e.Name, strings.Join(Names(), ", "))
}

// Parse maps a name onto an Action. An empty name means Download.
func Parse(name string) (Action, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return Download, nil
	}
	a := Action(name)
	if !known[a] {
		return "", &UnsupportedActionError{Name: name}
	}
	return a, nil
}

// Names lists the supported action names in sorted order.
func Names() []string {
	names := make([]string, 0, len(known))
	for a := range known {
		names = append(names, string(a))
	}
	sort.Strings(names)
	return names
}

// Destructive reports whether the action removes data from the server.
func (a Action) Destructive() bool {
	return a == Delete
}

// Mutating reports whether the action changes server state. Mutating
// actions are skipped in dry-run mode.
func (a Action) Mutating() bool {
	return a != Download
}

// Verb is the past tense used in result messages.
func (a Action) Verb() string {
	switch a {
	case Download:
		return "Downloaded"
	case Delete:
		return "Deleted"
	case Watched:
		return "Marked watched"
	case Unwatched:
		return "Marked unwatched"
	case Refresh:
		return "Refreshed"
	default:
		return string(a)
	}
}
