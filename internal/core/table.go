package core

import (
	"strconv"
	"strings"
)

// Row holds one value per table column, in column order.
type Row []Value

// Table is an ordered header plus rows aligned with it.
// Every row has exactly len(Columns) values.
type Table struct {
	Columns []string `json:"columns"`
	Rows    []Row    `json:"rows"`
}

// NewTable builds a table, padding short rows with missing values and
// truncating long ones so the row-width invariant holds.
func NewTable(columns []string, rows []Row) Table {
	t := Table{
		Columns: append([]string(nil), columns...),
		Rows:    make([]Row, len(rows)),
	}
	for i, r := range rows {
		t.Rows[i] = fitRow(r, len(columns))
	}
	return t
}

func fitRow(r Row, width int) Row {
	out := make(Row, width)
	copy(out, r)
	return out
}

// Len returns the number of rows.
func (t Table) Len() int {
	return len(t.Rows)
}

// Index returns the position of an exact column name, or -1.
func (t Table) Index(col string) int {
	for i, c := range t.Columns {
		if c == col {
			return i
		}
	}
	return -1
}

// Value returns the cell at row i for col, or a missing value when either
// is out of range.
func (t Table) Value(i int, col string) Value {
	pos := t.Index(col)
	if pos < 0 || i < 0 || i >= len(t.Rows) {
		return Missing()
	}
	return t.Rows[i][pos]
}

// Column returns every value of col in row order.
func (t Table) Column(col string) []Value {
	pos := t.Index(col)
	if pos < 0 {
		return nil
	}
	out := make([]Value, len(t.Rows))
	for i, r := range t.Rows {
		out[i] = r[pos]
	}
	return out
}

// Head returns a table with at most the first n rows.
func (t Table) Head(n int) Table {
	if n < 0 {
		n = 0
	}
	if n > len(t.Rows) {
		n = len(t.Rows)
	}
	return Table{
		Columns: append([]string(nil), t.Columns...),
		Rows:    cloneRows(t.Rows[:n]),
	}
}

// Clone returns a deep copy that shares nothing with t.
func (t Table) Clone() Table {
	return Table{
		Columns: append([]string(nil), t.Columns...),
		Rows:    cloneRows(t.Rows),
	}
}

// Equal compares headers and every cell.
func (t Table) Equal(o Table) bool {
	if len(t.Columns) != len(o.Columns) || len(t.Rows) != len(o.Rows) {
		return false
	}
	for i := range t.Columns {
		if t.Columns[i] != o.Columns[i] {
			return false
		}
	}
	for i := range t.Rows {
		if len(t.Rows[i]) != len(o.Rows[i]) {
			return false
		}
		for j := range t.Rows[i] {
			if !t.Rows[i][j].Equal(o.Rows[i][j]) {
				return false
			}
		}
	}
	return true
}

// Strings renders every row as plain strings, missing cells as "".
func (t Table) Strings() [][]string {
	out := make([][]string, len(t.Rows))
	for i, r := range t.Rows {
		rec := make([]string, len(r))
		for j, v := range r {
			rec[j] = v.String()
		}
		out[i] = rec
	}
	return out
}

func cloneRows(rows []Row) []Row {
	out := make([]Row, len(rows))
	for i, r := range rows {
		out[i] = append(Row(nil), r...)
	}
	return out
}

// uniqueHeaders disambiguates blank and repeated header names. Blank headers
// become "Unnamed: <pos>", repeats get ".1", ".2", ... in order of appearance.
func uniqueHeaders(raw []string) []string {
	out := make([]string, len(raw))
	seen := make(map[string]bool, len(raw))
	for i, h := range raw {
		if strings.TrimSpace(h) == "" {
			h = "Unnamed: " + strconv.Itoa(i)
		}
		name := h
		for n := 1; seen[name]; n++ {
			name = h + "." + strconv.Itoa(n)
		}
		seen[name] = true
		out[i] = name
	}
	return out
}
