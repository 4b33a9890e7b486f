package core

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestParseCSV(t *testing.T) {
	t.Run("header and rows", func(t *testing.T) {
		tbl, err := ParseCSV(strings.NewReader("Tracking #,Recipient\n1Z1,Alice\n1Z2,\n"))
		require.NoError(t, err)

		assert.Equal(t, []string{"Tracking #", "Recipient"}, tbl.Columns)
		require.Equal(t, 2, tbl.Len())
		assert.Equal(t, "Alice", tbl.Value(0, "Recipient").String())
		assert.True(t, tbl.Value(1, "Recipient").IsMissing(), "blank cell is missing")
	})

	t.Run("strips BOM", func(t *testing.T) {
		tbl, err := ParseCSV(strings.NewReader("\xEF\xBB\xBFTracking #,Service\n1Z1,Ground\n"))
		require.NoError(t, err)
		assert.Equal(t, "Tracking #", tbl.Columns[0])
	})

	t.Run("replaces invalid utf-8", func(t *testing.T) {
		tbl, err := ParseCSV(strings.NewReader("Name\nCaf\xe9\n"))
		require.NoError(t, err)
		assert.Equal(t, "Caf\uFFFD", tbl.Value(0, "Name").String())
	})

	t.Run("pads short rows", func(t *testing.T) {
		tbl, err := ParseCSV(strings.NewReader("A,B,C\n1\n"))
		require.NoError(t, err)
		require.Len(t, tbl.Rows[0], 3)
		assert.True(t, tbl.Rows[0][2].IsMissing())
	})

	t.Run("rejects wide rows", func(t *testing.T) {
		_, err := ParseCSV(strings.NewReader("A,B\n1,2\n1,2,3\n"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid csv: line 3 has 3 fields, header has 2")
	})

	t.Run("empty input", func(t *testing.T) {
		_, err := ParseCSV(strings.NewReader(""))
		assert.True(t, errors.Is(err, ErrEmptyFile))
	})

	t.Run("duplicate headers stay addressable", func(t *testing.T) {
		tbl, err := ParseCSV(strings.NewReader("Tracking,Tracking\n1,2\n"))
		require.NoError(t, err)
		assert.Equal(t, []string{"Tracking", "Tracking.1"}, tbl.Columns)
		assert.Equal(t, "2", tbl.Value(0, "Tracking.1").String())
	})

	t.Run("keeps scientific text as a string", func(t *testing.T) {
		tbl, err := ParseCSV(strings.NewReader("Tracking #\n1.5E+11\n"))
		require.NoError(t, err)
		v := tbl.Value(0, "Tracking #")
		assert.Equal(t, kindString, v.kind)
		assert.Equal(t, "1.5E+11", v.String())
	})
}

func TestReadUpload_ByExtension(t *testing.T) {
	_, err := ReadUpload("labels.CSV", strings.NewReader("A\n1\n"))
	assert.NoError(t, err)

	_, err = ReadUpload("labels", strings.NewReader("A\n1\n"))
	assert.NoError(t, err, "no extension reads as csv")

	_, err = ReadUpload("labels.pdf", strings.NewReader("%PDF"))
	assert.True(t, errors.Is(err, ErrUnsupportedFileType))
}

func TestParseXLSX(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()

	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]interface{}{"Tracking #", "Recipient", "Weight"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]interface{}{"1Z1", "Alice", 2.5}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A3", &[]interface{}{"1Z2", "Bob"}))

	var buf bytes.Buffer
	_, err := f.WriteTo(&buf)
	require.NoError(t, err)

	tbl, err := ReadUpload("labels.xlsx", &buf)
	require.NoError(t, err)

	assert.Equal(t, []string{"Tracking #", "Recipient", "Weight"}, tbl.Columns)
	require.Equal(t, 2, tbl.Len())
	assert.Equal(t, "Alice", tbl.Value(0, "Recipient").String())
	assert.Equal(t, "2.5", tbl.Value(0, "Weight").String())
	assert.True(t, tbl.Value(1, "Weight").IsMissing())
}

func TestParseXLSX_ScientificDisplay(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()

	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]interface{}{"Tracking #", "Weight", "Note"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]interface{}{150000000000, 100000, "1E+05"}))

	sci, err := f.NewStyle(&excelize.Style{NumFmt: 11})
	require.NoError(t, err)
	require.NoError(t, f.SetCellStyle("Sheet1", "A2", "B2", sci))

	var buf bytes.Buffer
	_, err = f.WriteTo(&buf)
	require.NoError(t, err)

	tbl, err := ParseXLSX(&buf)
	require.NoError(t, err)
	require.Equal(t, 1, tbl.Len())

	assert.Equal(t, "150000000000", tbl.Value(0, "Tracking #").String(), "tracking column keeps every digit")

	weight := tbl.Value(0, "Weight")
	assert.Equal(t, kindString, weight.kind, "other columns keep the displayed text")
	assert.Contains(t, weight.String(), "E+")

	note := tbl.Value(0, "Note")
	assert.Equal(t, kindString, note.kind)
	assert.Equal(t, "1E+05", note.String())
}

func TestTrackingColumns(t *testing.T) {
	tests := []struct {
		name    string
		headers []string
		want    []bool
	}{
		{"shipments", []string{"Order #", "Tracking #", "Weight"}, []bool{false, true, false}},
		{"invoice", []string{"Net Charge", "Express or Ground Tracking ID"}, []bool{false, true}},
		{"none", []string{"Recipient", "Service"}, []bool{false, false}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, trackingColumns(tt.headers))
		})
	}
}

func TestParseXLSX_Invalid(t *testing.T) {
	_, err := ParseXLSX(strings.NewReader("not a workbook"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid xlsx")
}
