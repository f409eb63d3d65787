package lineio

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collect(t *testing.T, input string, limit int) []Line {
	t.Helper()
	var lines []Line
	require.NoError(t, Scan(strings.NewReader(input), limit, func(l Line) {
		lines = append(lines, l)
	}))
	return lines
}

func TestScan(t *testing.T) {
	lines := collect(t, "one\r\ntwo\n\nthree", 100)
	require.Len(t, lines, 4)
	assert.Equal(t, Line{Number: 1, Text: "one"}, lines[0])
	assert.Equal(t, Line{Number: 2, Text: "two"}, lines[1])
	assert.Equal(t, Line{Number: 3, Text: ""}, lines[2])
	assert.Equal(t, Line{Number: 4, Text: "three"}, lines[3])
}

func TestScan_Empty(t *testing.T) {
	assert.Empty(t, collect(t, "", 10))
}

func TestScan_OversizedLineIsSkipped(t *testing.T) {
	// Longer than bufio's default buffer so ReadLine returns several chunks.
	long := strings.Repeat("x", 200_000)
	lines := collect(t, "first\n"+long+"\nthird\n", 1024)

	require.Len(t, lines, 3)
	assert.Equal(t, "first", lines[0].Text)
	assert.ErrorIs(t, lines[1].Err, ErrTooLong)
	assert.Empty(t, lines[1].Text)
	assert.Equal(t, 2, lines[1].Number)
	assert.Equal(t, Line{Number: 3, Text: "third"}, lines[2])
}

func TestScan_LimitIsInclusive(t *testing.T) {
	lines := collect(t, "abcd\nabcde\n", 4)
	require.Len(t, lines, 2)
	assert.NoError(t, lines[0].Err)
	assert.ErrorIs(t, lines[1].Err, ErrTooLong)
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("disk gone") }

func TestScan_ReadError(t *testing.T) {
	err := Scan(failingReader{}, 10, func(Line) {})
	assert.EqualError(t, err, "disk gone")
}
