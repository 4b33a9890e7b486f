package core

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToCSV(t *testing.T) {
	tbl := NewTable([]string{"Tracking #", "Recipient", "Note"}, []Row{
		{Str("1Z1"), Str("Smith, Alice"), Str(`say "hi"`)},
		{Num(150000000000), Missing(), Str("two\nlines")},
	})

	got, err := ToCSV(tbl)
	require.NoError(t, err)

	want := "Tracking #,Recipient,Note\n" +
		"1Z1,\"Smith, Alice\",\"say \"\"hi\"\"\"\n" +
		"150000000000,,\"two\nlines\"\n"
	assert.Equal(t, want, got)
}

func TestToCSV_EmptyTable(t *testing.T) {
	got, err := ToCSV(NewTable([]string{"A", "B"}, nil))
	require.NoError(t, err)
	assert.Equal(t, "A,B\n", got)
}

func TestToCSV_SingleEmptyField(t *testing.T) {
	tbl := NewTable([]string{"A"}, []Row{{Missing()}, {Str("x")}})

	got, err := ToCSV(tbl)
	require.NoError(t, err)
	assert.Equal(t, "A\n\"\"\nx\n", got)

	back, err := ParseCSV(strings.NewReader(got))
	require.NoError(t, err)
	assert.Equal(t, 2, back.Len(), "empty row survives the round trip")
}

func TestToCSV_RoundTrip(t *testing.T) {
	merged, err := Merge(shipmentsFixture(), "Tracking #", invoiceFixture(), "Tracking ID")
	require.NoError(t, err)

	text, err := ToCSV(merged)
	require.NoError(t, err)

	back, err := ParseCSV(strings.NewReader(text))
	require.NoError(t, err)

	assert.Equal(t, merged.Columns, back.Columns)
	assert.Equal(t, merged.Strings(), back.Strings())
}

func TestToCSV_CarriageReturnInCell(t *testing.T) {
	tbl := NewTable([]string{"Note", "Recipient"}, []Row{{Str("x\r\ny"), Str("z")}})

	text, err := ToCSV(tbl)
	require.NoError(t, err)
	assert.Equal(t, "Note,Recipient\n\"x\r\ny\",z\n", text, "written unchanged")

	back, err := ParseCSV(strings.NewReader(text))
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"x\ny", "z"}}, back.Strings(), "read back without the carriage return")
}

func TestWriteXLSX_RoundTrip(t *testing.T) {
	tbl := NewTable([]string{"Tracking #", "Recipient", "Charge"}, []Row{
		{Str("150000000000"), Str("Alice"), Str("5.00")},
		{Str("1Z2"), Missing(), Str("7.25")},
	})

	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, tbl))

	back, err := ParseXLSX(&buf)
	require.NoError(t, err)

	assert.Equal(t, tbl.Columns, back.Columns)
	assert.Equal(t, tbl.Strings(), back.Strings())
}
