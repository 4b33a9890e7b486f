package core

// export.go serializes tables for download.
//
// CSV output is RFC 4180 with "\n" line endings and no index column. XLSX
// output writes every cell as text so spreadsheet tools cannot re-encode
// long tracking numbers in scientific notation.

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// Download artifact names and media types.
const (
	ExportBaseName = "filtered_shipments"
	CSVMediaType   = "text/csv"
	XLSXMediaType  = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	xlsxSheetName  = "Shipments"
)

// WriteCSV writes t as CSV: a header line, then one line per row.
// Missing values are written as empty fields.
//
// Fields are written byte for byte, but encoding/csv reads a quoted "\r\n"
// back as "\n", so a carriage return before a newline inside a cell does not
// survive a ParseCSV round trip.
func WriteCSV(w io.Writer, t Table) error {
	bw := bufio.NewWriter(w)
	cw := csv.NewWriter(bw)

	if err := writeRecord(bw, cw, t.Columns); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for i, rec := range t.Strings() {
		if err := writeRecord(bw, cw, rec); err != nil {
			return fmt.Errorf("write csv row %d: %w", i+1, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	return bw.Flush()
}

// writeRecord writes one record. A record made of a single empty field would
// come out as a blank line, which CSV readers skip, so it is written as "".
func writeRecord(bw *bufio.Writer, cw *csv.Writer, rec []string) error {
	if len(rec) == 1 && rec[0] == "" {
		cw.Flush()
		if err := cw.Error(); err != nil {
			return err
		}
		_, err := bw.WriteString("\"\"\n")
		return err
	}
	return cw.Write(rec)
}

// ToCSV returns t as a CSV document.
func ToCSV(t Table) (string, error) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, t); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// WriteXLSX writes t as a single-sheet workbook with a header row.
// Every cell is stored as text.
func WriteXLSX(w io.Writer, t Table) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", xlsxSheetName); err != nil {
		return fmt.Errorf("write xlsx: %w", err)
	}

	sw, err := f.NewStreamWriter(xlsxSheetName)
	if err != nil {
		return fmt.Errorf("write xlsx: %w", err)
	}

	if err := sw.SetRow("A1", textCells(t.Columns)); err != nil {
		return fmt.Errorf("write xlsx header: %w", err)
	}
	for i, rec := range t.Strings() {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("write xlsx row %d: %w", i+1, err)
		}
		if err := sw.SetRow(cell, textCells(rec)); err != nil {
			return fmt.Errorf("write xlsx row %d: %w", i+1, err)
		}
	}
	if err := sw.Flush(); err != nil {
		return fmt.Errorf("write xlsx: %w", err)
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write xlsx: %w", err)
	}
	return nil
}

// textCells passes values to the stream writer as Go strings, which it
// stores as string cells rather than numbers.
func textCells(rec []string) []interface{} {
	cells := make([]interface{}, len(rec))
	for i, s := range rec {
		cells[i] = s
	}
	return cells
}
