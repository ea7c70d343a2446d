package main

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestStatsFinalize(t *testing.T) {
	stats := Stats{Samples: []time.Duration{3 * time.Millisecond, time.Millisecond, 2 * time.Millisecond}}
	stats.Finalize()

	assert.Equal(t, time.Millisecond, stats.Min)
	assert.Equal(t, 3*time.Millisecond, stats.Max)
	assert.Equal(t, 2*time.Millisecond, stats.Avg)
}

func TestRunSmallWorld(t *testing.T) {
	report, err := run(zap.NewNop(), Options{Iterations: 2, Tagged: 10, Untagged: 5, Depth: 2, Seed: 7})
	require.NoError(t, err)

	assert.Equal(t, 35, report.Entities)
	assert.Equal(t, 30, report.SavedEntities)
	assert.Len(t, report.Serialize.Samples, 2)
	assert.Positive(t, report.SceneBytes)

	var out bytes.Buffer
	require.NoError(t, report.Generate(&out))
	assert.Contains(t, out.String(), "Scene Stress Test Report")
	assert.Contains(t, out.String(), "| 2 serialize |")
}
