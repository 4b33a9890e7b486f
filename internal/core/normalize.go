package core

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// sciMarker flags text that a spreadsheet re-encoded in scientific notation.
const sciMarker = "E+"

// NormalizeTracking canonicalizes a tracking value for comparison.
//
// Text containing "E+" is a long numeric code that a spreadsheet rewrote as
// "<mantissa>E+<exponent>"; it is parsed as a float, truncated to an integer
// and rendered in plain decimal. Everything else uses its plain string form.
// The result is trimmed of surrounding whitespace. Missing values normalize
// to "".
//
// An "E+" value that is not a finite number is an error; the caller decides
// how to report it.
func NormalizeTracking(v Value) (string, error) {
	s := v.String()
	if strings.Contains(s, sciMarker) {
		repaired, err := repairScientific(s)
		if err != nil {
			return "", err
		}
		s = repaired
	}
	return strings.TrimSpace(s), nil
}

func repairScientific(s string) (string, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return "", fmt.Errorf("invalid number %q in scientific notation", s)
	}
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return "", fmt.Errorf("invalid number %q: out of range", s)
	}
	return strconv.FormatFloat(math.Trunc(f), 'f', 0, 64), nil
}

// normalizeKeys normalizes every value of col in t. Failures are appended to
// failures rather than stopping at the first so the user sees all bad rows.
func normalizeKeys(t Table, col string, side Side, failures *[]NormalizationFailure) []string {
	pos := t.Index(col)
	keys := make([]string, len(t.Rows))
	for i, row := range t.Rows {
		key, err := NormalizeTracking(row[pos])
		if err != nil {
			*failures = append(*failures, NormalizationFailure{
				Side:   side,
				Column: col,
				Row:    i + 1,
				Raw:    row[pos].String(),
				Reason: err.Error(),
			})
			continue
		}
		keys[i] = key
	}
	return keys
}
