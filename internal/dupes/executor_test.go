package dupes

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Nomadcxx/jellyctl/internal/catalog"
	"github.com/Nomadcxx/jellyctl/internal/journal"
	"github.com/Nomadcxx/jellyctl/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDeleter struct {
	deleted []string
	fail    map[string]bool
}

func (f *fakeDeleter) Name() string { return "test" }

func (f *fakeDeleter) DeleteVariant(_ context.Context, _ catalog.Item, v catalog.Variant) error {
	if f.fail[v.ID] {
		return errors.New("server said no")
	}
	f.deleted = append(f.deleted, v.ID)
	return nil
}

type memRecorder struct {
	entries []journal.Entry
}

func (m *memRecorder) Record(_ context.Context, e journal.Entry) error {
	m.entries = append(m.entries, e)
	return nil
}

func TestExecute_FailuresDoNotAbort(t *testing.T) {
	item := catalog.Item{
		ID:       "movie",
		Variants: []catalog.Variant{variant("a", 100), variant("b", 50), variant("c", 30), variant("d", 10)},
	}
	cands := FindDeletions([]catalog.Item{item}, Rules{})
	del := &fakeDeleter{fail: map[string]bool{"b": true}}
	rec := &memRecorder{}
	var out bytes.Buffer

	res, err := (&Executor{Deleter: del, Journal: rec, Out: &out}).Execute(context.Background(), cands)
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "d"}, del.deleted)
	assert.Equal(t, Result{Deleted: 2, Bytes: 40, Failed: 1}, res)
	require.Len(t, rec.entries, 3)
	assert.Equal(t, "server said no", rec.entries[0].Error)
	assert.Contains(t, out.String(), "Failed to delete /media/b.mkv")
}

func TestExecute_DryRunIssuesNoDeletes(t *testing.T) {
	item := catalog.Item{ID: "movie", Variants: []catalog.Variant{variant("a", 100), variant("b", 50)}}
	del := &fakeDeleter{}
	var out bytes.Buffer

	res, err := (&Executor{Deleter: del, DryRun: true, Out: &out}).Execute(context.Background(), FindDeletions([]catalog.Item{item}, Rules{}))
	require.NoError(t, err)
	assert.Empty(t, del.deleted)
	assert.Equal(t, 1, res.Deleted)
	assert.Equal(t, int64(50), res.Bytes)
	assert.Contains(t, out.String(), "Would delete: /media/b.mkv")
}

func TestExecute_NeverDeletesKeeperAndDedupesVariants(t *testing.T) {
	multi := catalog.Variant{ID: "multi", Parts: []catalog.Part{{Size: 70}, {Size: 60}}}
	other := catalog.Variant{ID: "other", Parts: []catalog.Part{{Size: 65}, {Size: 5}}}
	item := catalog.Item{ID: "movie", Variants: []catalog.Variant{multi, other}}
	del := &fakeDeleter{}

	res, err := (&Executor{Deleter: del}).Execute(context.Background(), FindDeletions([]catalog.Item{item}, Rules{}))
	require.NoError(t, err)
	assert.Equal(t, []string{"other"}, del.deleted)
	assert.Equal(t, 1, res.Skipped)
}

func TestExecute_SkipsHandBuiltKeeperCandidate(t *testing.T) {
	a, b := variant("a", 100), variant("b", 50)
	item := catalog.Item{ID: "movie", Variants: []catalog.Variant{a, b}}
	del := &fakeDeleter{}

	res, err := (&Executor{Deleter: del}).Execute(context.Background(), []Candidate{
		{Item: item, Variant: a, Part: a.Parts[0], KeepVariantID: "a"},
		{Item: item, Variant: b, Part: b.Parts[0], KeepVariantID: "a"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, del.deleted)
	assert.Equal(t, 1, res.Skipped)
}

func TestExecute_CancelledBeforeDelete(t *testing.T) {
	item := catalog.Item{ID: "movie", Variants: []catalog.Variant{variant("a", 100), variant("b", 50)}}
	del := &fakeDeleter{}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := (&Executor{Deleter: del}).Execute(ctx, FindDeletions([]catalog.Item{item}, Rules{}))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, del.deleted)
}

type brokenRecorder struct{}

func (brokenRecorder) Record(context.Context, journal.Entry) error {
	return errors.New("disk full")
}

func TestExecute_LogsJournalFailures(t *testing.T) {
	item := catalog.Item{ID: "movie", Variants: []catalog.Variant{variant("a", 100), variant("b", 50), variant("c", 10)}}

	for _, dryRun := range []bool{false, true} {
		var console bytes.Buffer
		logger, err := logging.New(logging.Config{Level: "info", File: filepath.Join(t.TempDir(), "dupes.log"), Console: &console})
		require.NoError(t, err)

		exec := &Executor{
			Deleter: &fakeDeleter{fail: map[string]bool{"b": true}},
			DryRun:  dryRun,
			Journal: brokenRecorder{},
			Logger:  logger,
		}
		_, err = exec.Execute(context.Background(), FindDeletions([]catalog.Item{item}, Rules{}))
		require.NoError(t, err)
		require.NoError(t, logger.Close())

		assert.Equal(t, 2, strings.Count(console.String(), "journal write failed"), "dry run %v", dryRun)
	}
}
