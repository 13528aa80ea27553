package aggregate

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSupplementary(t *testing.T) {
	data := []byte(`
records:
  - file: 20250601-baseline.csv
    group: Get_1
    avg_rt: 420.5
    success: 99.5
    throughput: 12.25
    count: 1200
  - file: legacy.csv
    group: Post_1
    time: "2025-05-15 08:30"
    avg_rt: 610
    success: 97
    throughput: 8
`)

	rows, err := ParseSupplementary(data, fixedLabeler(FallbackNow))
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, GroupKey("Get_1"), rows[0].Group)
	assert.True(t, rows[0].Supplementary)
	assert.Equal(t, LabelSupplementary, rows[0].LabelSource)
	assert.Equal(t, "2025-06-01 00:00", rows[0].RunLabel)
	assert.Equal(t, 1200, rows[0].Count)
	assert.InDelta(t, 420.5, rows[0].AvgElapsed, 1e-9)

	assert.True(t, time.Date(2025, 5, 15, 8, 30, 0, 0, time.UTC).Equal(rows[1].RunTime))
	assert.Equal(t, "2025-05-15 08:30", rows[1].RunLabel)
}

func TestParseSupplementaryErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"bad yaml", "records: [:"},
		{"missing group", "records:\n  - file: 20250601-a.csv\n    avg_rt: 1\n"},
		{"success out of range", "records:\n  - file: 20250601-a.csv\n    group: Get_1\n    success: 120\n"},
		{"negative rt", "records:\n  - file: 20250601-a.csv\n    group: Get_1\n    avg_rt: -1\n"},
		{"no time", "records:\n  - file: legacy.csv\n    group: Get_1\n"},
		{"bad time", "records:\n  - file: legacy.csv\n    group: Get_1\n    time: yesterday\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseSupplementary([]byte(tt.data), fixedLabeler(FallbackNow))
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidSupplementary))
		})
	}
}

func TestLoadSupplementary(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.yaml")
	require.NoError(t, os.WriteFile(path, []byte("records:\n  - file: 20250601-a.csv\n    group: Get_1\n"), 0o600))

	rows, err := LoadSupplementary(path, fixedLabeler(FallbackNow))
	require.NoError(t, err)
	require.Len(t, rows, 1)

	_, err = LoadSupplementary(filepath.Join(t.TempDir(), "missing.yaml"), fixedLabeler(FallbackNow))
	require.Error(t, err)
}
