package journal

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestCSVJournalHeaders(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	resultsPath := filepath.Join(dir, "results.csv")
	runsPath := filepath.Join(dir, "runs.csv")

	j, err := NewCSV(resultsPath, runsPath)
	require.NoError(t, err)
	require.NoError(t, j.Close())

	assert.Equal(t, [][]string{resultsHeader}, readCSV(t, resultsPath))
	assert.Equal(t, [][]string{runsHeader}, readCSV(t, runsPath))
}

func TestCSVJournalRecord(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	dir := t.TempDir()
	resultsPath := filepath.Join(dir, "results.csv")
	runsPath := filepath.Join(dir, "runs.csv")

	j, err := NewCSV(resultsPath, runsPath)
	require.NoError(t, err)

	require.NoError(t, j.RecordResult(ctx, sampleResult("R1", "RUN1", "2024-03-04", "LOSS")))
	require.NoError(t, j.RecordResult(ctx, sampleResult("R2", "RUN1", "2024-03-05", "NO_DECISION")))
	require.NoError(t, j.RecordRun(ctx, sampleRun("RUN1", time.Date(2024, 4, 10, 9, 0, 0, 0, time.UTC))))
	require.NoError(t, j.Close())

	rows := readCSV(t, resultsPath)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{
		"R1", "RUN1", "rr=2 conf=1 dur=15 stop=full anchor=entry", "2024-03-04", "UP", "entry",
		"2024-03-04T14:50:00Z", "100.6", "100.25", "101.3", "LOSS", "2024-03-04T14:55:00Z", "100.25",
		"-1", "1", "0.4", "1", "0",
	}, rows[1])
	assert.Equal(t, "NO_DECISION", rows[2][10])
	assert.Equal(t, "", rows[2][11])
	assert.Equal(t, "0", rows[2][13])

	runs := readCSV(t, runsPath)
	require.Len(t, runs, 2)
	assert.Equal(t, "RUN1", runs[1][0])
	assert.Equal(t, "2024-04-10T09:00:00Z", runs[1][1])
	assert.Equal(t, "6", runs[1][9])
	assert.Equal(t, "0.4", runs[1][16])
}
