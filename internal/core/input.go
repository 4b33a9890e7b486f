package core

// input.go builds Tables from uploaded bytes.
//
// Uploads are small exports, so each file is read fully into memory. Before
// parsing, the bytes are cleaned of the usual spreadsheet artifacts:
//
//   - UTF-8 BOM (0xEF 0xBB 0xBF) written by Excel on Windows
//   - invalid UTF-8 sequences, replaced with U+FFFD
//
// Blank cells become missing values. Blank and repeated header names are
// disambiguated (see uniqueHeaders) so every column stays addressable.

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ErrEmptyFile is returned when an upload has no header row.
var ErrEmptyFile = errors.New("empty file: no header row found")

// ErrUnsupportedFileType is returned for uploads that are neither CSV nor XLSX.
var ErrUnsupportedFileType = errors.New("unsupported file type")

// ReadUpload parses an uploaded file, choosing the format by extension.
// Files without an extension are read as CSV.
func ReadUpload(filename string, r io.Reader) (Table, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv", ".txt", "":
		return ParseCSV(r)
	case ".xlsx", ".xlsm":
		return ParseXLSX(r)
	default:
		return Table{}, fmt.Errorf("%w: %q (expected .csv or .xlsx)", ErrUnsupportedFileType, filename)
	}
}

// ParseCSV reads a CSV document with a header row into a Table.
// Short rows are padded with missing values; rows wider than the header
// are rejected.
func ParseCSV(r io.Reader) (Table, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Table{}, fmt.Errorf("read upload: %w", err)
	}
	data = cleanBytes(data)

	cr := csv.NewReader(bytes.NewReader(data))
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if err == io.EOF {
		return Table{}, ErrEmptyFile
	}
	if err != nil {
		return Table{}, fmt.Errorf("invalid csv: %w", err)
	}

	t := Table{Columns: uniqueHeaders(header)}
	width := len(t.Columns)

	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return Table{}, fmt.Errorf("invalid csv: %w", err)
		}
		if len(rec) > width {
			line, _ := cr.FieldPos(0)
			return Table{}, fmt.Errorf("invalid csv: line %d has %d fields, header has %d", line, len(rec), width)
		}
		row := make(Row, width)
		for i, cell := range rec {
			row[i] = Str(cell)
		}
		t.Rows = append(t.Rows, row)
	}

	return t, nil
}

// ParseXLSX reads the first worksheet of an XLSX workbook into a Table.
//
// Cells are taken as displayed. In a column either join could pick as its
// tracking key, a number displayed in scientific notation is replaced by the
// raw stored number so long tracking numbers keep every digit. Other columns
// keep the displayed text.
func ParseXLSX(r io.Reader) (Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return Table{}, fmt.Errorf("invalid xlsx: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return Table{}, ErrEmptyFile
	}
	sheet := sheets[0]

	shown, err := f.GetRows(sheet)
	if err != nil {
		return Table{}, fmt.Errorf("invalid xlsx: read sheet %q: %w", sheet, err)
	}
	raw, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return Table{}, fmt.Errorf("invalid xlsx: read sheet %q: %w", sheet, err)
	}
	if len(shown) == 0 {
		return Table{}, ErrEmptyFile
	}

	t := Table{Columns: uniqueHeaders(shown[0])}
	width := len(t.Columns)
	keys := trackingColumns(t.Columns)

	for i := 1; i < len(shown); i++ {
		rec := shown[i]
		if len(rec) == 0 {
			continue
		}
		if len(rec) > width {
			return Table{}, fmt.Errorf("invalid xlsx: row %d has %d cells, header has %d", i+1, len(rec), width)
		}
		row := make(Row, width)
		for j, cell := range rec {
			row[j] = Str(cell)
			if !keys[j] || !strings.Contains(strings.ToUpper(cell), "E+") || i >= len(raw) || j >= len(raw[i]) {
				continue
			}
			if _, err := strconv.ParseFloat(strings.TrimSpace(cell), 64); err != nil {
				continue
			}
			if n, err := strconv.ParseFloat(raw[i][j], 64); err == nil {
				row[j] = Num(n)
			}
		}
		t.Rows = append(t.Rows, row)
	}

	return t, nil
}

// trackingColumns marks the columns the shipments or invoice tracking lookup
// would bind to.
func trackingColumns(headers []string) []bool {
	keys := make([]bool, len(headers))
	for _, hints := range [][]string{ShipmentTrackingHints, InvoiceTrackingHints} {
		col, ok := Resolve(headers, hints)
		if !ok {
			continue
		}
		for j, h := range headers {
			if h == col {
				keys[j] = true
			}
		}
	}
	return keys
}

// cleanBytes strips a leading UTF-8 BOM and replaces invalid UTF-8.
func cleanBytes(data []byte) []byte {
	data = bytes.TrimPrefix(data, utf8BOM)
	return bytes.ToValidUTF8(data, []byte("\uFFFD"))
}
