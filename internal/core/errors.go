package core

import (
	"fmt"
	"strings"
)

// MissingUploadError reports that one or both inputs were not supplied.
// The pipeline does not run.
type MissingUploadError struct {
	Missing []string // input names: "shipments", "invoice"
}

func (e *MissingUploadError) Error() string {
	return fmt.Sprintf("missing upload: %s", strings.Join(e.Missing, ", "))
}

// ColumnResolutionError reports that no tracking column was found in one or
// both tables. Both header lists are kept so the user can see what was
// uploaded.
type ColumnResolutionError struct {
	ShipmentColumns []string
	InvoiceColumns  []string
	ShipmentMissing bool
	InvoiceMissing  bool
}

func (e *ColumnResolutionError) Error() string {
	var sides []string
	if e.ShipmentMissing {
		sides = append(sides, fmt.Sprintf("shipments (columns: %s)", strings.Join(e.ShipmentColumns, ", ")))
	}
	if e.InvoiceMissing {
		sides = append(sides, fmt.Sprintf("invoice (columns: %s)", strings.Join(e.InvoiceColumns, ", ")))
	}
	return "tracking column not found in " + strings.Join(sides, " and ")
}

// Side names which input table a row came from.
type Side string

const (
	SideShipments Side = "shipments"
	SideInvoice   Side = "invoice"
)

// NormalizationFailure describes one key value that could not be normalized.
type NormalizationFailure struct {
	Side   Side   `json:"side"`
	Column string `json:"column"`
	Row    int    `json:"row"` // 1-based data row, header excluded
	Raw    string `json:"raw"`
	Reason string `json:"reason"`
}

func (f NormalizationFailure) String() string {
	return fmt.Sprintf("%s row %d (%s=%q): %s", f.Side, f.Row, f.Column, f.Raw, f.Reason)
}

// NormalizationError collects every tracking value that failed to normalize.
type NormalizationError struct {
	Failures []NormalizationFailure
}

// maxListedFailures caps how many failures Error() spells out.
const maxListedFailures = 5

func (e *NormalizationError) Error() string {
	n := len(e.Failures)
	parts := make([]string, 0, maxListedFailures)
	for i := 0; i < n && i < maxListedFailures; i++ {
		parts = append(parts, e.Failures[i].String())
	}
	msg := fmt.Sprintf("cannot normalize tracking number in %d row(s): %s", n, strings.Join(parts, "; "))
	if n > maxListedFailures {
		msg += fmt.Sprintf("; and %d more", n-maxListedFailures)
	}
	return msg
}
