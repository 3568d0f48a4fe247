// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/sysrev-engine/pkg/types"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSaveLoadRecordsRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	records := []types.Record{
		{RecordID: "doi:10.1/a", Source: "pubmed", Title: "First", Year: 2021},
		{RecordID: "pmid:42", Source: "scopus", Title: "Second", Abstract: "Text"},
	}
	require.NoError(t, s.SaveRecords(ctx, "review", StageRaw, records))

	loaded, err := s.LoadRecords(ctx, "review", StageRaw)
	require.NoError(t, err)
	assert.Equal(t, records, loaded)
}

func TestSaveRecordsReplacesSnapshot(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	first := []types.Record{{RecordID: "a"}, {RecordID: "b"}}
	require.NoError(t, s.SaveRecords(ctx, "review", StageDedup, first))

	second := []types.Record{{RecordID: "c"}}
	require.NoError(t, s.SaveRecords(ctx, "review", StageDedup, second))

	loaded, err := s.LoadRecords(ctx, "review", StageDedup)
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, "c", loaded[0].RecordID)
}

func TestStagesAreIndependent(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SaveRecords(ctx, "review", StageRaw, []types.Record{{RecordID: "a"}, {RecordID: "b"}}))
	require.NoError(t, s.SaveRecords(ctx, "review", StageDedup, []types.Record{{RecordID: "a"}}))

	raw, err := s.LoadRecords(ctx, "review", StageRaw)
	require.NoError(t, err)
	assert.Len(t, raw, 2)

	dedup, err := s.LoadRecords(ctx, "review", StageDedup)
	require.NoError(t, err)
	assert.Len(t, dedup, 1)
}

func TestLoadUnsavedStageIsEmpty(t *testing.T) {
	s := openTestStore(t)
	loaded, err := s.LoadRecords(context.Background(), "nope", StageRaw)
	require.NoError(t, err)
	assert.Empty(t, loaded)
}

func TestSaveLoadScreened(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	screened := []types.ScreenedRecord{
		{
			Record:    types.Record{RecordID: "a", Title: "T"},
			Screening: types.Screening{Mode: types.ScreenModeRule, Score: 1, IncludeHit: true, Relevant: true},
		},
		{
			Record:    types.Record{RecordID: "b"},
			Screening: types.Screening{Mode: types.ScreenModeModel, Score: 0.25},
		},
	}
	require.NoError(t, s.SaveScreened(ctx, "review", screened))

	loaded, err := s.LoadScreened(ctx, "review")
	require.NoError(t, err)
	assert.Equal(t, screened, loaded)
}

func TestSaveLabelsMerges(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SaveLabels(ctx, "review", types.LabelSet{"a": 1, "b": 0}))
	require.NoError(t, s.SaveLabels(ctx, "review", types.LabelSet{"b": 1, "c": 0}))

	labels, err := s.LoadLabels(ctx, "review")
	require.NoError(t, err)
	assert.Equal(t, types.LabelSet{"a": 1, "b": 1, "c": 0}, labels)
}

func TestProjectStatus(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SaveRecords(ctx, "review", StageRaw, []types.Record{{RecordID: "a"}, {RecordID: "b"}, {RecordID: "c"}}))
	require.NoError(t, s.SaveRecords(ctx, "review", StageDedup, []types.Record{{RecordID: "a"}, {RecordID: "b"}}))
	require.NoError(t, s.SaveScreened(ctx, "review", []types.ScreenedRecord{{Record: types.Record{RecordID: "a"}}}))
	require.NoError(t, s.SaveLabels(ctx, "review", types.LabelSet{"a": 1}))

	status, err := s.ProjectStatus(ctx, "review")
	require.NoError(t, err)
	assert.Equal(t, Status{Project: "review", Raw: 3, Dedup: 2, Screened: 1, Labels: 1}, status)
}

func TestListAndDeleteProjects(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.CreateProject(ctx, "alpha"))
	require.NoError(t, s.CreateProject(ctx, "beta"))
	require.NoError(t, s.CreateProject(ctx, "alpha")) // idempotent

	names, err := s.ListProjects(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha", "beta"}, names)

	require.NoError(t, s.SaveRecords(ctx, "alpha", StageRaw, []types.Record{{RecordID: "a"}}))
	require.NoError(t, s.DeleteProject(ctx, "alpha"))

	names, err = s.ListProjects(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"beta"}, names)

	// Cascade removed the snapshot with the project.
	loaded, err := s.LoadRecords(ctx, "alpha", StageRaw)
	require.NoError(t, err)
	assert.Empty(t, loaded)

	assert.Error(t, s.DeleteProject(ctx, "alpha"))
}

func TestCreateProjectEmptyName(t *testing.T) {
	s := openTestStore(t)
	assert.Error(t, s.CreateProject(context.Background(), ""))
}

func TestOpenIsReentrant(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	s1, err := Open(dir)
	require.NoError(t, err)
	require.NoError(t, s1.SaveRecords(ctx, "review", StageRaw, []types.Record{{RecordID: "a"}}))
	require.NoError(t, s1.Close())

	s2, err := Open(dir)
	require.NoError(t, err)
	defer s2.Close()

	loaded, err := s2.LoadRecords(ctx, "review", StageRaw)
	require.NoError(t, err)
	assert.Len(t, loaded, 1)
}
