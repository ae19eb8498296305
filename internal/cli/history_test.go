package cli

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/imex/internal/store"
	"github.com/roach88/imex/internal/testutil"
)

// seedHistory records runs with IDs run-1, run-2, ... and returns the db path.
func seedHistory(t *testing.T, runs ...*store.Run) string {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "runs.db")
	st, err := store.Open(dbPath)
	require.NoError(t, err)
	defer st.Close()

	gen := testutil.NewSequentialIDGenerator("run")
	for _, r := range runs {
		require.NoError(t, st.RecordRun(context.Background(), r, gen))
	}
	return dbPath
}

func sampleRuns() []*store.Run {
	return []*store.Run{
		{
			Name:    "nightly",
			Pattern: "0(12){3}",
			Status:  store.StatusOK,
			Items:   7,
			Streams: []store.RunStream{{Index: 0, Path: "h.txt", Consumed: 1}, {Index: 1, Path: "l.txt", Consumed: 3}, {Index: 2, Path: "r.txt", Consumed: 3}},
		},
		{
			Pattern: "05",
			Split:   "chars",
			Status:  store.StatusError,
			Items:   1,
			Error:   "STREAM_OUT_OF_RANGE: pattern references stream 5 but only 1 supplied (stream=5)",
			Streams: []store.RunStream{{Index: 0, Path: "a.txt", Consumed: 1}},
		},
	}
}

func TestHistory_Text(t *testing.T) {
	dbPath := seedHistory(t, sampleRuns()...)

	res := runCLI(t, "", "history", "--db", dbPath)
	require.Equal(t, ExitSuccess, res.Code, res.Stderr)

	want := "[2] run-2 error items=1 pattern=\"05\"\n" +
		"[1] run-1 ok    items=7 pattern=\"0(12){3}\" name=nightly\n"
	assert.Equal(t, want, res.Stdout)
}

func TestHistory_Limit(t *testing.T) {
	dbPath := seedHistory(t, sampleRuns()...)

	res := runCLI(t, "", "history", "--db", dbPath, "--limit", "1")
	require.Equal(t, ExitSuccess, res.Code, res.Stderr)
	assert.Contains(t, res.Stdout, "run-2")
	assert.NotContains(t, res.Stdout, "run-1")
}

func TestHistory_JSON(t *testing.T) {
	dbPath := seedHistory(t, sampleRuns()...)

	res := runCLI(t, "", "--format", "json", "history", "--db", dbPath)
	require.Equal(t, ExitSuccess, res.Code, res.Stderr)

	var resp struct {
		Status string        `json:"status"`
		Data   HistoryResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(res.Stdout), &resp))
	assert.Equal(t, "ok", resp.Status)
	require.Len(t, resp.Data.Runs, 2)
	assert.Equal(t, "run-2", resp.Data.Runs[0].ID)
	assert.Equal(t, "chars", resp.Data.Runs[0].Split)
	assert.Len(t, resp.Data.Runs[1].Streams, 3)
}

func TestHistory_SingleRun(t *testing.T) {
	dbPath := seedHistory(t, sampleRuns()...)

	res := runCLI(t, "", "history", "--db", dbPath, "--run", "run-1")
	require.Equal(t, ExitSuccess, res.Code, res.Stderr)

	want := "Run: run-1\n" +
		"Seq: 1\n" +
		"Name: nightly\n" +
		"Pattern: 0(12){3}\n" +
		"Split: lines\n" +
		"Status: ok\n" +
		"Items: 7\n" +
		"Streams:\n" +
		"  [0] h.txt consumed=1\n" +
		"  [1] l.txt consumed=3\n" +
		"  [2] r.txt consumed=3\n"
	assert.Equal(t, want, res.Stdout)
}

func TestHistory_SingleRunWithError(t *testing.T) {
	dbPath := seedHistory(t, sampleRuns()...)

	res := runCLI(t, "", "history", "--db", dbPath, "--run", "run-2")
	require.Equal(t, ExitSuccess, res.Code, res.Stderr)
	assert.Contains(t, res.Stdout, "Error: STREAM_OUT_OF_RANGE")
}

func TestHistory_RunNotFound(t *testing.T) {
	dbPath := seedHistory(t, sampleRuns()...)

	res := runCLI(t, "", "history", "--db", dbPath, "--run", "nope")
	assert.Equal(t, ExitCommandError, res.Code)
	assert.Contains(t, res.Stderr, "run not found: nope")
}

func TestHistory_Empty(t *testing.T) {
	dbPath := seedHistory(t)

	res := runCLI(t, "", "history", "--db", dbPath)
	require.Equal(t, ExitSuccess, res.Code, res.Stderr)
	assert.Equal(t, "No runs recorded.\n", res.Stdout)
}

func TestHistory_MissingDatabase(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "missing.db")

	res := runCLI(t, "", "history", "--db", dbPath)
	assert.Equal(t, ExitCommandError, res.Code)
	assert.Contains(t, res.Stderr, "database not found")
	assert.NoFileExists(t, dbPath)
}

func TestHistory_RequiresDB(t *testing.T) {
	res := runCLI(t, "", "history")

	assert.Equal(t, ExitCommandError, res.Code)
	assert.Contains(t, res.Stderr, "required flag")
}
