package core

import (
	"sort"
	"strings"
)

// AllServices is the service selection that disables the service filter.
const AllServices = "All"

// FilterSpec holds the three optional row predicates. An empty field passes
// every row, as does Service == AllServices.
type FilterSpec struct {
	Recipient string `json:"recipient" validate:"max=200"`
	Service   string `json:"service" validate:"max=200"`
	ShipDate  string `json:"ship_date" validate:"max=64"`
}

// IsZero reports whether s filters nothing.
func (s FilterSpec) IsZero() bool {
	return s.Recipient == "" && (s.Service == "" || s.Service == AllServices) && s.ShipDate == ""
}

// FilterColumns records which column each predicate bound to. An empty name
// means the column was not found and that predicate is a no-op.
type FilterColumns struct {
	Recipient string `json:"recipient,omitempty"`
	Service   string `json:"service,omitempty"`
	ShipDate  string `json:"ship_date,omitempty"`
}

// ResolveFilterColumns finds the recipient, service and ship-date columns
// of t.
func ResolveFilterColumns(t Table) FilterColumns {
	var fc FilterColumns
	fc.Recipient, _ = resolveFilterColumn(t.Columns, RecipientHints)
	fc.Service, _ = resolveFilterColumn(t.Columns, ServiceHints)
	fc.ShipDate, _ = resolveFilterColumn(t.Columns, ShipDateHints)
	return fc
}

// Filter returns the rows of t that satisfy every active predicate in spec:
//
//   - Recipient: case-insensitive substring of the recipient column; rows
//     with a missing recipient are dropped
//   - Service: exact match on the service column
//   - ShipDate: exact text match on the ship-date column, no date parsing
//
// A predicate whose column cannot be resolved is skipped. t is not modified.
func Filter(t Table, spec FilterSpec) Table {
	return filterWith(t, spec, ResolveFilterColumns(t))
}

func filterWith(t Table, spec FilterSpec, fc FilterColumns) Table {
	type pred func(Row) bool
	var preds []pred

	if spec.Recipient != "" {
		if pos := t.Index(fc.Recipient); pos >= 0 {
			needle := strings.ToLower(spec.Recipient)
			preds = append(preds, func(r Row) bool {
				v := r[pos]
				return !v.IsMissing() && strings.Contains(strings.ToLower(v.String()), needle)
			})
		}
	}

	if spec.Service != "" && spec.Service != AllServices {
		if pos := t.Index(fc.Service); pos >= 0 {
			preds = append(preds, func(r Row) bool {
				return !r[pos].IsMissing() && r[pos].String() == spec.Service
			})
		}
	}

	if spec.ShipDate != "" {
		if pos := t.Index(fc.ShipDate); pos >= 0 {
			preds = append(preds, func(r Row) bool {
				return !r[pos].IsMissing() && r[pos].String() == spec.ShipDate
			})
		}
	}

	out := Table{Columns: append([]string(nil), t.Columns...), Rows: []Row{}}
rows:
	for _, r := range t.Rows {
		for _, p := range preds {
			if !p(r) {
				continue rows
			}
		}
		out.Rows = append(out.Rows, append(Row(nil), r...))
	}
	return out
}

// ServiceOptions lists the choices for the service selector: AllServices
// followed by the sorted distinct non-missing values of t's service column.
func ServiceOptions(t Table) []string {
	opts := []string{AllServices}
	col, ok := resolveFilterColumn(t.Columns, ServiceHints)
	if !ok {
		return opts
	}

	seen := make(map[string]bool)
	var values []string
	for _, v := range t.Column(col) {
		if v.IsMissing() {
			continue
		}
		s := v.String()
		if !seen[s] {
			seen[s] = true
			values = append(values, s)
		}
	}
	sort.Strings(values)
	return append(opts, values...)
}
