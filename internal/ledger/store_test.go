package ledger

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadAll_MissingFile(t *testing.T) {
	s := NewStore(t.TempDir(), JSONCodec{}, nil)

	res, err := s.LoadAll("anna")
	require.NoError(t, err)
	assert.Empty(t, res.Transactions)
	assert.Empty(t, res.Skipped)
}

func TestAppendLoadRoundTrip(t *testing.T) {
	for _, codec := range []Codec{JSONCodec{}, TextCodec{}} {
		t.Run(codec.Format(), func(t *testing.T) {
			dir := filepath.Join(t.TempDir(), "userdata")
			s := NewStore(dir, codec, nil)

			want := sampleTxns()
			for _, txn := range want {
				require.NoError(t, s.Append("anna", txn))
			}

			// A fresh store simulates a new session.
			res, err := NewStore(dir, codec, nil).LoadAll("anna")
			require.NoError(t, err)
			assert.Empty(t, res.Skipped)
			require.Len(t, res.Transactions, len(want))
			for i := range want {
				assertSameTxn(t, want[i], res.Transactions[i], i)
			}
		})
	}
}

func TestAppend_CreatesFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "userdata")
	s := NewStore(dir, JSONCodec{}, nil)

	require.NoError(t, s.Append("anna", sampleTxns()[0]))

	assert.Equal(t, filepath.Join(dir, "anna_transactions.jsonl"), s.Path("anna"))
	data, err := os.ReadFile(s.Path("anna"))
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(string(data), "\n"))
}

func TestAppend_PerUserFiles(t *testing.T) {
	dir := t.TempDir()
	s := NewStore(dir, TextCodec{}, nil)
	txns := sampleTxns()

	require.NoError(t, s.Append("anna", txns[0]))
	require.NoError(t, s.Append("bob", txns[1]))

	anna, err := s.LoadAll("anna")
	require.NoError(t, err)
	bob, err := s.LoadAll("bob")
	require.NoError(t, err)
	require.Len(t, anna.Transactions, 1)
	require.Len(t, bob.Transactions, 1)
	assert.Equal(t, "Food", anna.Transactions[0].Subcategory)
	assert.Equal(t, "Salary", bob.Transactions[0].Subcategory)
	assert.FileExists(t, filepath.Join(dir, "anna_transactions.txt"))
}

func TestAppend_UnencodableWritesNothing(t *testing.T) {
	s := NewStore(t.TempDir(), TextCodec{}, nil)
	txn := sampleTxns()[0]
	txn.Description = "line\nbreak"

	err := s.Append("anna", txn)
	require.ErrorIs(t, err, ErrUnencodable)
	assert.NoFileExists(t, s.Path("anna"))
}

func TestAppend_AfterTornLine(t *testing.T) {
	s := NewStore(t.TempDir(), JSONCodec{}, nil)
	txns := sampleTxns()
	require.NoError(t, s.Append("anna", txns[0]))

	// Simulate a crash mid-write: a partial record with no newline.
	f, err := os.OpenFile(s.Path("anna"), os.O_WRONLY|os.O_APPEND, 0o644)
	require.NoError(t, err)
	_, err = f.WriteString(`{"date":"2024-01-1`)
	require.NoError(t, err)
	require.NoError(t, f.Close())

	require.NoError(t, s.Append("anna", txns[1]))

	res, err := s.LoadAll("anna")
	require.NoError(t, err)
	require.Len(t, res.Transactions, 2, "records on both sides of the torn line survive")
	require.Len(t, res.Skipped, 1)
	assert.Equal(t, 2, res.Skipped[0].Line)
}

func TestLoadAll_SkipsMalformedLine(t *testing.T) {
	s := NewStore(t.TempDir(), TextCodec{}, nil)
	content := strings.Join([]string{
		"10.01.2024 - Категорія: Expense - Підкатегорія: Food, Сума: 50.00, Опис: lunch",
		"this line is not a record",
		"15.01.2024 - Категорія: Income - Підкатегорія: Salary, Сума: 2000.00, Опис: pay",
		"",
	}, "\n")
	require.NoError(t, os.WriteFile(s.Path("anna"), []byte(content), 0o644))

	res, err := s.LoadAll("anna")
	require.NoError(t, err)
	require.Len(t, res.Transactions, 2)
	assert.Equal(t, "lunch", res.Transactions[0].Description)
	assert.Equal(t, "pay", res.Transactions[1].Description)

	require.Len(t, res.Skipped, 1)
	assert.Equal(t, 2, res.Skipped[0].Line)
	assert.Contains(t, res.Skipped[0].Error(), "line 2")
}

func TestLoadAll_ReadError(t *testing.T) {
	dir := t.TempDir()
	s := NewStore(dir, JSONCodec{}, nil)
	// A directory in place of the ledger file.
	require.NoError(t, os.Mkdir(s.Path("anna"), 0o755))

	_, err := s.LoadAll("anna")
	assert.Error(t, err)
}

func TestDecode_BOMAndBlankLines(t *testing.T) {
	input := "\ufeff" + `{"date":"2024-01-10","category":"Expense","subcategory":"Food","amount":"5","description":""}` + "\n\n   \n"

	res, err := Decode(bytes.NewBufferString(input), JSONCodec{})
	require.NoError(t, err)
	assert.Len(t, res.Transactions, 1)
	assert.Empty(t, res.Skipped)
}

func TestEncode(t *testing.T) {
	s := NewStore(t.TempDir(), TextCodec{}, nil)
	line, err := s.Encode(sampleTxns()[0])
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(line, "10.01.2024 - "))
	assert.Equal(t, FormatText, s.Codec().Format())
}

func TestEncode_RejectsOversizedRecord(t *testing.T) {
	s := NewStore(t.TempDir(), JSONCodec{}, nil)
	txn := sampleTxns()[0]
	txn.Description = strings.Repeat("a", MaxRecordBytes)

	_, err := s.Encode(txn)
	require.ErrorIs(t, err, ErrUnencodable)

	require.ErrorIs(t, s.Append("anna", txn), ErrUnencodable)
	_, err = os.Stat(s.Path("anna"))
	assert.True(t, os.IsNotExist(err), "nothing is written for a rejected record")
}

func TestDecode_OversizedLineIsSkipped(t *testing.T) {
	codec := JSONCodec{}
	txns := sampleTxns()
	first, err := codec.Marshal(txns[0])
	require.NoError(t, err)
	third, err := codec.Marshal(txns[1])
	require.NoError(t, err)
	huge := `{"date":"2024-01-10","category":"Expense","subcategory":"Food","amount":"1","description":"` +
		strings.Repeat("x", 2<<20) + `"}`

	res, err := Decode(strings.NewReader(first+"\n"+huge+"\n"+third+"\n"), codec)
	require.NoError(t, err)
	require.Len(t, res.Transactions, 2, "records around the oversized line still load")
	assertSameTxn(t, txns[0], res.Transactions[0], 0)
	assertSameTxn(t, txns[1], res.Transactions[1], 1)
	require.Len(t, res.Skipped, 1)
	assert.Equal(t, 2, res.Skipped[0].Line)
}

type brokenReader struct {
	data []byte
	done bool
}

func (r *brokenReader) Read(p []byte) (int, error) {
	if r.done {
		return 0, errors.New("device error")
	}
	r.done = true
	return copy(p, r.data), nil
}

func TestDecode_ReadErrorKeepsDecodedRecords(t *testing.T) {
	line, err := JSONCodec{}.Marshal(sampleTxns()[0])
	require.NoError(t, err)

	res, err := Decode(&brokenReader{data: []byte(line + "\n")}, JSONCodec{})
	require.Error(t, err)
	assert.Len(t, res.Transactions, 1)
}
