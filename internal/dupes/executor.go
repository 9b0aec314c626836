package dupes

import (
	"context"
	"fmt"
	"io"

	"github.com/Nomadcxx/jellyctl/internal/catalog"
	"github.com/Nomadcxx/jellyctl/internal/journal"
	"github.com/Nomadcxx/jellyctl/internal/logging"
	"github.com/Nomadcxx/jellyctl/internal/ui"
)

// Deleter removes a variant from the remote library.
type Deleter interface {
	Name() string
	DeleteVariant(ctx context.Context, item catalog.Item, variant catalog.Variant) error
}

// Executor deletes confirmed candidates.
type Executor struct {
	Deleter Deleter
	DryRun  bool
	Journal journal.Recorder
	Logger  *logging.Logger
	Out     io.Writer
}

// Result reports what an execution did, or would have done in dry-run mode.
type Result struct {
	Deleted int
	Bytes   int64
	Failed  int
	Skipped int
}

// Execute deletes each distinct variant once. A group's retained variant is
// never deleted. Failures are reported and do not stop the remaining deletes.
func (e *Executor) Execute(ctx context.Context, candidates []Candidate) (Result, error) {
	var res Result
	log := e.Logger
	if log == nil {
		log = logging.Nop()
	}
	rec := e.Journal
	if rec == nil {
		rec = journal.Nop{}
	}
	out := e.Out
	if out == nil {
		out = io.Discard
	}

	done := make(map[string]bool)
	for _, c := range candidates {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		if c.Variant.ID == c.KeepVariantID || done[c.Variant.ID] {
			res.Skipped++
			continue
		}
		done[c.Variant.ID] = true

		size := c.Variant.Size()
		entry := journal.Entry{
			Operation: journal.OpDeleteVariant,
			Server:    e.Deleter.Name(),
			ItemID:    c.Variant.ID,
			Title:     c.Item.DisplayName(),
			Path:      c.Part.Path,
			Bytes:     size,
			DryRun:    e.DryRun,
		}

		if e.DryRun {
			fmt.Fprintf(out, "  Would delete: %s\n", c.Part.Path)
			res.Deleted++
			res.Bytes += size
			record(ctx, rec, log, entry)
			continue
		}

		if err := e.Deleter.DeleteVariant(ctx, c.Item, c.Variant); err != nil {
			fmt.Fprintf(out, "  %s Failed to delete %s: %v\n", ui.Error("✗"), c.Part.Path, err)
			log.Error("dupes", "delete failed", err,
				logging.F("item", c.Item.ID),
				logging.F("variant", c.Variant.ID),
				logging.F("path", c.Part.Path))
			res.Failed++
			entry.Error = err.Error()
			record(ctx, rec, log, entry)
			continue
		}

		fmt.Fprintf(out, "  %s Deleted: %s\n", ui.Success("✓"), c.Part.Path)
		log.Info("dupes", "variant deleted",
			logging.F("item", c.Item.ID),
			logging.F("variant", c.Variant.ID),
			logging.F("bytes", size))
		res.Deleted++
		res.Bytes += size
		record(ctx, rec, log, entry)
	}

	return res, nil
}

func record(ctx context.Context, rec journal.Recorder, log *logging.Logger, entry journal.Entry) {
	if err := rec.Record(ctx, entry); err != nil {
		log.Warn("dupes", "journal write failed",
			logging.F("variant", entry.ItemID),
			logging.F("error", err))
	}
}
