package activitylog

import (
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testTime = time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)

func testEntry() Entry {
	return Entry{
		Timestamp: testTime,
		SessionID: "0b6f3c8e-8f53-4a4e-9a43-5d2c1d0f7a11",
		User:      "anna",
		Action:    ActionRecord,
		Details:   "Expense/Food 50.00",
	}
}

func TestAppend_NewFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Append(dir, []Entry{testEntry()}))

	entries, err := Read(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "anna", entries[0].User)
}

func TestAppend_ExistingFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Append(dir, []Entry{testEntry()}))

	e2 := testEntry()
	e2.Action = ActionClose
	e2.Details = ""
	require.NoError(t, Append(dir, []Entry{e2}))

	entries, err := Read(dir)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, ActionRecord, entries[0].Action)
	assert.Equal(t, ActionClose, entries[1].Action)

	data, err := os.ReadFile(Path(dir))
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(string(data), Header), "header written once")
}

func TestRead_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	original := testEntry()
	original.Details = `comma, "quotes" and more`
	require.NoError(t, Append(dir, []Entry{original}))

	entries, err := Read(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	got := entries[0]
	assert.True(t, original.Timestamp.Equal(got.Timestamp))
	assert.Equal(t, original.SessionID, got.SessionID)
	assert.Equal(t, original.User, got.User)
	assert.Equal(t, original.Action, got.Action)
	assert.Equal(t, original.Details, got.Details)
}

func TestRead_NonExistent(t *testing.T) {
	entries, err := Read(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestUnmarshalEntry_Errors(t *testing.T) {
	_, err := UnmarshalEntry([]string{"a", "b"})
	assert.Error(t, err)

	_, err = UnmarshalEntry([]string{"yesterday", "s", "u", "a", "d"})
	assert.Error(t, err)
}

func TestRecorder(t *testing.T) {
	dir := t.TempDir()
	r := NewRecorder(dir)
	r.now = func() time.Time { return testTime }

	r.Add("s1", "anna", ActionLogin, "")
	r.Add("s1", "anna", ActionLoad, "2 transactions, 0 skipped")
	assert.Len(t, r.Entries(), 2)

	require.NoError(t, r.Flush())
	assert.Empty(t, r.Entries())

	entries, err := Read(dir)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, ActionLoad, entries[1].Action)
	assert.True(t, testTime.Equal(entries[0].Timestamp))

	// Flushing an empty buffer writes nothing.
	require.NoError(t, r.Flush())
	entries, err = Read(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestRecorder_MemoryOnly(t *testing.T) {
	r := NewRecorder("")
	r.Add("s1", "anna", ActionLogin, "")
	require.NoError(t, r.Flush())
	assert.Empty(t, r.Entries())
}
