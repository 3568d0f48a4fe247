// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package report

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/sysrev-engine/pkg/types"
)

func screenedFixture(relevant ...bool) []types.ScreenedRecord {
	out := make([]types.ScreenedRecord, len(relevant))
	for i, r := range relevant {
		out[i] = types.ScreenedRecord{Screening: types.Screening{Relevant: r}}
	}
	return out
}

func TestInferCounts(t *testing.T) {
	raw := make([]types.Record, 10)
	dedup := make([]types.Record, 7)
	screened := screenedFixture(true, true, false, false, false, false, false)

	got := InferCounts(raw, dedup, screened)

	assert.Equal(t, 10, got.IdentifiedDatabases)
	assert.Equal(t, 3, got.RemovedDuplicates)
	assert.Equal(t, 7, got.RecordsScreened)
	assert.Equal(t, 5, got.RecordsExcluded)
	assert.Equal(t, 2, got.ReportsSought)
	assert.Equal(t, 2, got.ReportsAssessed)
	assert.Equal(t, 2, got.StudiesIncluded)
	assert.Zero(t, got.IdentifiedRegisters)
	assert.Zero(t, got.StudiesIncludedMeta)
}

func TestInferCountsEmptyStages(t *testing.T) {
	got := InferCounts(nil, nil, nil)
	assert.Equal(t, types.PrismaCounts{}, got)
}

func TestInferCountsNeverNegativeDuplicates(t *testing.T) {
	// A dedup snapshot larger than raw (stale stages) must not go negative.
	got := InferCounts(make([]types.Record, 2), make([]types.Record, 5), nil)
	assert.Equal(t, 0, got.RemovedDuplicates)
}

func TestOverridesApply(t *testing.T) {
	registers := 12
	meta := 3
	o := Overrides{
		IdentifiedRegisters: &registers,
		StudiesIncludedMeta: &meta,
		Reasons:             map[string]int{"wrong population": 4},
	}

	inferred := types.PrismaCounts{IdentifiedDatabases: 100, StudiesIncluded: 9}
	flow := o.Apply(inferred)

	assert.Equal(t, 100, flow.Counts.IdentifiedDatabases, "absent override must keep inference")
	assert.Equal(t, 12, flow.Counts.IdentifiedRegisters)
	assert.Equal(t, 3, flow.Counts.StudiesIncludedMeta)
	assert.Equal(t, 9, flow.Counts.StudiesIncluded)
	assert.Equal(t, map[string]int{"wrong population": 4}, flow.Reasons)
}

func TestLoadOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prisma.yaml")
	content := `identified_registers: 5
reports_not_retrieved: 2
reports_excluded_reasons:
  wrong population: 4
  not randomized: 1
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	o, err := LoadOverrides(path)
	require.NoError(t, err)
	require.NotNil(t, o.IdentifiedRegisters)
	assert.Equal(t, 5, *o.IdentifiedRegisters)
	require.NotNil(t, o.ReportsNotRetrieved)
	assert.Equal(t, 2, *o.ReportsNotRetrieved)
	assert.Nil(t, o.StudiesIncluded)
	assert.Equal(t, map[string]int{"wrong population": 4, "not randomized": 1}, o.Reasons)
}

func TestLoadOverridesMissingFile(t *testing.T) {
	_, err := LoadOverrides(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestFlowSaveJSONRoundTrip(t *testing.T) {
	dir := t.TempDir()
	flow := Flow{
		Counts:  types.PrismaCounts{IdentifiedDatabases: 10, StudiesIncluded: 2},
		Reasons: map[string]int{"duplicate report": 1},
	}

	path, err := flow.SaveJSON(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "prisma_counts.json"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var loaded Flow
	require.NoError(t, json.Unmarshal(data, &loaded))
	assert.Equal(t, flow, loaded)
}

func TestFlowRender(t *testing.T) {
	var buf bytes.Buffer
	flow := Flow{
		Counts:  types.PrismaCounts{IdentifiedDatabases: 42, RecordsScreened: 30},
		Reasons: map[string]int{"wrong population": 4},
	}
	flow.Render(&buf)

	out := buf.String()
	assert.Contains(t, out, "Records identified (databases)")
	assert.Contains(t, out, "42")
	assert.Contains(t, out, "wrong population")
}

func TestFlowRenderNoReasons(t *testing.T) {
	var buf bytes.Buffer
	Flow{}.Render(&buf)
	// The reasons table (go-pretty uppercases headers) is skipped entirely.
	assert.NotContains(t, strings.ToUpper(buf.String()), "REPORTS EXCLUDED")
}
