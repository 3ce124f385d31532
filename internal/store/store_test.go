package store

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/varlens/varlens/pkg/varlens"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return st
}

func sampleReport() *varlens.Report {
	return &varlens.Report{
		PrintedOutput: "3\n",
		TraceMap: map[string][]varlens.TraceEvent{
			"global::x": {
				{Line: 1, Function: "global", Value: "0"},
				{Line: 3, Function: "global", Value: "3"},
			},
			"global::count": {
				{Line: 4, Function: "global", AssignedIn: "bump", Value: "1"},
			},
		},
	}
}

func TestSaveAndGetRun(t *testing.T) {
	st := openTestStore(t)

	id, err := st.SaveRun("x = 0\n", sampleReport())
	require.NoError(t, err)
	require.NotEmpty(t, id)

	run, err := st.GetRun(id)
	require.NoError(t, err)
	assert.Equal(t, "x = 0\n", run.Source)
	assert.Equal(t, "3\n", run.Output)
	assert.Empty(t, run.ErrorMessage)
	assert.Equal(t, sampleReport().TraceMap, run.Trace)
	assert.False(t, run.CreatedAt.IsZero())
}

func TestSaveFailedRun(t *testing.T) {
	st := openTestStore(t)

	rep := &varlens.Report{
		PrintedOutput: "error: line 1: division by zero\n",
		TraceMap:      map[string][]varlens.TraceEvent{},
		ErrorMessage:  "line 1: division by zero",
	}
	id, err := st.SaveRun("x = 1 / 0\n", rep)
	require.NoError(t, err)

	run, err := st.GetRun(id)
	require.NoError(t, err)
	assert.Equal(t, "line 1: division by zero", run.ErrorMessage)
	assert.Empty(t, run.Trace)
}

func TestListRunsNewestFirst(t *testing.T) {
	st := openTestStore(t)

	first, err := st.SaveRun("a = 1\n", sampleReport())
	require.NoError(t, err)
	second, err := st.SaveRun("b = 2\n", sampleReport())
	require.NoError(t, err)

	runs, err := st.ListRuns(10)
	require.NoError(t, err)
	require.Len(t, runs, 2)

	ids := []string{runs[0].ID, runs[1].ID}
	assert.Contains(t, ids, first)
	assert.Contains(t, ids, second)
	assert.False(t, runs[0].CreatedAt.Before(runs[1].CreatedAt))
}

func TestListRunsMarksFailures(t *testing.T) {
	st := openTestStore(t)

	rep := sampleReport()
	rep.ErrorMessage = "line 2: name 'q' is not defined"
	_, err := st.SaveRun("q\n", rep)
	require.NoError(t, err)

	runs, err := st.ListRuns(1)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.True(t, runs[0].Failed)
}

func TestListRunsTruncatesSource(t *testing.T) {
	st := openTestStore(t)

	long := ""
	for i := 0; i < 10; i++ {
		long += "abcdefghij"
	}
	_, err := st.SaveRun(long, sampleReport())
	require.NoError(t, err)

	runs, err := st.ListRuns(1)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.LessOrEqual(t, len(runs[0].SourcePrefix), 40)
}

func TestGetRunNotFound(t *testing.T) {
	st := openTestStore(t)
	_, err := st.GetRun("no-such-id")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTraceRoundTrip(t *testing.T) {
	original := sampleReport().TraceMap
	blob, err := encodeTrace(original)
	require.NoError(t, err)

	decoded, err := decodeTrace(blob)
	require.NoError(t, err)
	assert.Equal(t, original, decoded)
}

func TestDecodeRejectsUnknownSchema(t *testing.T) {
	blob, err := msgpack.Marshal(&payload{Schema: payloadSchemaVersion + 1})
	require.NoError(t, err)

	_, err = decodeTrace(blob)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "schema")
}
