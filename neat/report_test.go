package neat

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestWriteReportProducesReadableYAML(t *testing.T) {
	o := testOptions()
	run, err := NewRun(o, nil)
	require.NoError(t, err)

	run.Generation = 2
	run.BestEver = run.Population[0].Clone(42)
	run.BestEver.Fitness = 3.5
	run.History = []Statistics{
		{Generation: 1, BestFitness: 1.0, MeanFitness: 0.5},
		{Generation: 2, BestFitness: 3.5, MeanFitness: 1.2},
	}

	path := filepath.Join(t.TempDir(), "report.yaml")
	require.NoError(t, run.WriteReport(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var report runReport
	require.NoError(t, yaml.Unmarshal(data, &report))

	assert.Equal(t, run.ID.String(), report.RunID)
	assert.Equal(t, 2, report.Generation)
	require.NotNil(t, report.BestEver)
	assert.Equal(t, 42, report.BestEver.Key)
	assert.InDelta(t, 3.5, report.BestEver.Fitness, 1e-9)
	assert.Len(t, report.History, 2)
}

func TestWriteReportOmitsBestGenomeWhenNil(t *testing.T) {
	o := testOptions()
	run, err := NewRun(o, nil)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "report.yaml")
	require.NoError(t, run.WriteReport(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var report runReport
	require.NoError(t, yaml.Unmarshal(data, &report))
	assert.Nil(t, report.BestEver)
}
