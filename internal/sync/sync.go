// Package sync copies watched state between two servers, matching items by
// their provider GUID.
package sync

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Nomadcxx/jellyctl/internal/catalog"
	"github.com/Nomadcxx/jellyctl/internal/journal"
	"github.com/Nomadcxx/jellyctl/internal/logging"
)

// Catalog is the view of a server the sync engine needs.
type Catalog interface {
	Name() string
	Sections(ctx context.Context) ([]catalog.Section, error)
	WalkSection(ctx context.Context, section catalog.Section, fn func(catalog.Item) error) error
	MarkWatched(ctx context.Context, item catalog.Item) error
}

// Report summarises one direction of a sync.
type Report struct {
	From string
	To   string

	Sections int
	Scanned  int
	// Watched counts source items that are played.
	Watched int
	// Matched counts destination items found for watched source items.
	Matched        int
	Marked         int
	AlreadyWatched int
	Unmatched      int
	Failed         int
	Duration       time.Duration
}

// Engine runs watched-state sync passes.
type Engine struct {
	Logger  *logging.Logger
	DryRun  bool
	Journal journal.Recorder
}

// NewEngine returns an engine with no-op logging and journaling.
func NewEngine() *Engine {
	return &Engine{Logger: logging.Nop(), Journal: journal.Nop{}}
}

func (e *Engine) logger() *logging.Logger {
	if e.Logger == nil {
		return logging.Nop()
	}
	return e.Logger
}

func (e *Engine) recorder() journal.Recorder {
	if e.Journal == nil {
		return journal.Nop{}
	}
	return e.Journal
}

// SyncWatched marks items watched on dst that are watched on src. With
// twoWay a reverse pass from dst to src follows the forward pass. A failing
// pass does not prevent the other one; reports cover the passes that
// completed and errors are joined.
func (e *Engine) SyncWatched(ctx context.Context, src, dst Catalog, kinds catalog.SectionKinds, twoWay bool) ([]Report, error) {
	type direction struct{ from, to Catalog }
	passes := []direction{{src, dst}}
	if twoWay {
		passes = append(passes, direction{dst, src})
	}

	var reports []Report
	var errs []error
	for _, p := range passes {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		report, err := e.pass(ctx, p.from, p.to, kinds)
		if err != nil {
			e.logger().Error("sync", "Sync pass failed", err,
				logging.F("from", p.from.Name()),
				logging.F("to", p.to.Name()))
			errs = append(errs, err)
			continue
		}
		reports = append(reports, *report)
	}
	return reports, errors.Join(errs...)
}

func sectionsOf(ctx context.Context, c Catalog, kinds catalog.SectionKinds) ([]catalog.Section, error) {
	all, err := c.Sections(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing sections on %s: %w", c.Name(), err)
	}
	var out []catalog.Section
	for _, s := range all {
		if kinds.Has(s.Kind) {
			out = append(out, s)
		}
	}
	return out, nil
}

// index maps GUIDs to the items carrying them across the matching sections.
func index(ctx context.Context, c Catalog, kinds catalog.SectionKinds) (map[string][]catalog.Item, int, error) {
	sections, err := sectionsOf(ctx, c, kinds)
	if err != nil {
		return nil, 0, err
	}

	idx := make(map[string][]catalog.Item)
	count := 0
	for _, section := range sections {
		err := c.WalkSection(ctx, section, func(item catalog.Item) error {
			count++
			if item.GUID != "" {
				idx[item.GUID] = append(idx[item.GUID], item)
			}
			return nil
		})
		if err != nil {
			return nil, 0, fmt.Errorf("indexing %s on %s: %w", section.Title, c.Name(), err)
		}
	}
	return idx, count, nil
}

func (e *Engine) record(ctx context.Context, rec journal.Recorder, entry journal.Entry) {
	if err := rec.Record(ctx, entry); err != nil {
		e.logger().Warn("sync", "Journal write failed",
			logging.F("item", entry.ItemID),
			logging.F("error", err))
	}
}

func (e *Engine) pass(ctx context.Context, src, dst Catalog, kinds catalog.SectionKinds) (*Report, error) {
	log := e.logger()
	rec := e.recorder()
	start := time.Now()
	report := &Report{From: src.Name(), To: dst.Name()}

	log.Info("sync", "Starting watched sync pass",
		logging.F("from", src.Name()),
		logging.F("to", dst.Name()),
		logging.F("dry_run", e.DryRun))

	targets, _, err := index(ctx, dst, kinds)
	if err != nil {
		return nil, err
	}

	sections, err := sectionsOf(ctx, src, kinds)
	if err != nil {
		return nil, err
	}
	report.Sections = len(sections)

	for _, section := range sections {
		err := src.WalkSection(ctx, section, func(item catalog.Item) error {
			if err := ctx.Err(); err != nil {
				return err
			}
			report.Scanned++
			if !item.Played {
				return nil
			}
			report.Watched++

			matches := targets[item.GUID]
			if item.GUID == "" || len(matches) == 0 {
				report.Unmatched++
				log.Debug("sync", "No match on target",
					logging.F("item", item.DisplayName()),
					logging.F("guid", item.GUID))
				return nil
			}

			for i := range matches {
				target := &matches[i]
				report.Matched++
				if target.Played {
					report.AlreadyWatched++
					continue
				}

				entry := journal.Entry{
					Operation: journal.OpMarkWatched,
					Server:    dst.Name(),
					ItemID:    target.ID,
					Title:     target.DisplayName(),
					DryRun:    e.DryRun,
				}

				if !e.DryRun {
					if err := dst.MarkWatched(ctx, *target); err != nil {
						report.Failed++
						log.Error("sync", "Failed to mark watched", err,
							logging.F("server", dst.Name()),
							logging.F("item", target.DisplayName()))
						entry.Error = err.Error()
						e.record(ctx, rec, entry)
						continue
					}
				}

				target.Played = true
				report.Marked++
				log.Info("sync", "Marked watched",
					logging.F("server", dst.Name()),
					logging.F("item", target.DisplayName()),
					logging.F("dry_run", e.DryRun))
				e.record(ctx, rec, entry)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walking %s on %s: %w", section.Title, src.Name(), err)
		}
	}

	report.Duration = time.Since(start)
	log.Info("sync", "Watched sync pass completed",
		logging.F("from", report.From),
		logging.F("to", report.To),
		logging.F("scanned", report.Scanned),
		logging.F("marked", report.Marked),
		logging.F("failed", report.Failed),
		logging.F("duration", report.Duration))
	return report, nil
}
