package sync

import (
	"context"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/Nomadcxx/jellyctl/internal/catalog"
)

// DiffReport compares the contents of two servers.
type DiffReport struct {
	A, B           string
	CountA, CountB int
	// MissingOnA lists items on B whose GUID is not present on A.
	MissingOnA []catalog.Item
	// MissingOnB lists items on A whose GUID is not present on B.
	MissingOnB []catalog.Item
}

// Diff indexes both servers concurrently and reports items present on one
// side only. Items without a GUID cannot be matched and are not reported.
func Diff(ctx context.Context, a, b Catalog, kinds catalog.SectionKinds) (*DiffReport, error) {
	var idxA, idxB map[string][]catalog.Item
	report := &DiffReport{A: a.Name(), B: b.Name()}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		idxA, report.CountA, err = index(gctx, a, kinds)
		return err
	})
	g.Go(func() error {
		var err error
		idxB, report.CountB, err = index(gctx, b, kinds)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	report.MissingOnA = missing(idxB, idxA)
	report.MissingOnB = missing(idxA, idxB)
	return report, nil
}

// missing returns one item per GUID in from that is absent in in.
func missing(from, in map[string][]catalog.Item) []catalog.Item {
	var out []catalog.Item
	for guid, items := range from {
		if _, ok := in[guid]; !ok {
			out = append(out, items[0])
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].DisplayName() < out[j].DisplayName()
	})
	return out
}
