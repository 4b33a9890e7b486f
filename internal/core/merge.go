package core

import "fmt"

// RightSuffix is appended to invoice columns whose names collide with a
// shipment column. It is applied repeatedly until the name is unique.
const RightSuffix = "_y"

// Merge left-joins right onto left by the normalized values of leftKey and
// rightKey.
//
// Every left row appears at least once. A left row matching k right rows is
// emitted k times, in right-table order; a left row with no match is emitted
// once with every right column missing. Keys match on exact string
// equality, so a missing left key joins every right row whose key is also
// missing.
//
// Output columns are the left columns followed by the right columns. The
// right key is dropped when it has the same name as the left key; other
// colliding right names get RightSuffix. Both key columns hold normalized
// values.
//
// A key that cannot be normalized fails the merge with a *NormalizationError
// listing every bad row from both tables.
func Merge(left Table, leftKey string, right Table, rightKey string) (Table, error) {
	out, _, err := mergeTables(left, leftKey, right, rightKey)
	return out, err
}

// mergeTables is Merge that also counts left rows without a match.
func mergeTables(left Table, leftKey string, right Table, rightKey string) (Table, int, error) {
	lpos := left.Index(leftKey)
	if lpos < 0 {
		return Table{}, 0, fmt.Errorf("column not found: %q in shipments", leftKey)
	}
	rpos := right.Index(rightKey)
	if rpos < 0 {
		return Table{}, 0, fmt.Errorf("column not found: %q in invoice", rightKey)
	}

	var failures []NormalizationFailure
	leftKeys := normalizeKeys(left, leftKey, SideShipments, &failures)
	rightKeys := normalizeKeys(right, rightKey, SideInvoice, &failures)
	if len(failures) > 0 {
		return Table{}, 0, &NormalizationError{Failures: failures}
	}

	sharedKey := leftKey == rightKey
	columns, rightCols := mergedColumns(left.Columns, right.Columns, rpos, sharedKey)

	// Index right rows by key, preserving order within each key.
	byKey := make(map[string][]int, len(right.Rows))
	for i, k := range rightKeys {
		byKey[k] = append(byKey[k], i)
	}

	out := Table{Columns: columns, Rows: make([]Row, 0, len(left.Rows))}
	unmatched := 0
	for i, lrow := range left.Rows {
		base := append(Row(nil), lrow...)
		base[lpos] = Str(leftKeys[i])

		matches := byKey[leftKeys[i]]
		if len(matches) == 0 {
			out.Rows = append(out.Rows, fitRow(base, len(columns)))
			unmatched++
			continue
		}
		for _, ri := range matches {
			row := make(Row, 0, len(columns))
			row = append(row, base...)
			for _, src := range rightCols {
				if src == rpos {
					row = append(row, Str(rightKeys[ri]))
					continue
				}
				row = append(row, right.Rows[ri][src])
			}
			out.Rows = append(out.Rows, row)
		}
	}

	return out, unmatched, nil
}

// mergedColumns builds the output header and the list of right column
// positions it carries, in order.
func mergedColumns(left, right []string, rpos int, sharedKey bool) ([]string, []int) {
	columns := append([]string(nil), left...)
	taken := make(map[string]bool, len(left)+len(right))
	for _, c := range left {
		taken[c] = true
	}

	var rightCols []int
	for i, c := range right {
		if sharedKey && i == rpos {
			continue
		}
		name := c
		for taken[name] {
			name += RightSuffix
		}
		taken[name] = true
		columns = append(columns, name)
		rightCols = append(rightCols, i)
	}
	return columns, rightCols
}
