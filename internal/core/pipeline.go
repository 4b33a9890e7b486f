package core

import "time"

// Input names, used in error messages and as upload form fields.
const (
	InputShipments = "shipments"
	InputInvoice   = "invoice"
)

// Inputs are the two uploaded tables. A nil table means the upload is
// missing.
type Inputs struct {
	Shipments *Table
	Invoice   *Table
}

// Result is everything the shell needs to render one pipeline run.
type Result struct {
	Keys           JoinKeys      `json:"keys"`
	FilterColumns  FilterColumns `json:"filter_columns"`
	Filters        FilterSpec    `json:"filters"`
	ServiceOptions []string      `json:"service_options"`
	Merged         Table         `json:"-"`
	Filtered       Table         `json:"-"`
	ShipmentCount  int           `json:"shipment_count"`
	InvoiceCount   int           `json:"invoice_count"`
	MergedCount    int           `json:"merged_count"`
	FilteredCount  int           `json:"filtered_count"`
	Unmatched      int           `json:"unmatched"` // shipment rows with no invoice row
	Duration       time.Duration `json:"duration"`
}

// Run executes the full pipeline: resolve both tracking columns, normalize
// and left-join, then filter. Inputs are not modified.
//
// It returns *MissingUploadError when an input is nil,
// *ColumnResolutionError when a tracking column cannot be found (no merge is
// attempted), and *NormalizationError when key values cannot be repaired.
func Run(in Inputs, spec FilterSpec) (*Result, error) {
	start := time.Now()

	var missing []string
	if in.Shipments == nil {
		missing = append(missing, InputShipments)
	}
	if in.Invoice == nil {
		missing = append(missing, InputInvoice)
	}
	if len(missing) > 0 {
		return nil, &MissingUploadError{Missing: missing}
	}

	keys, err := ResolveJoinKeys(*in.Shipments, *in.Invoice)
	if err != nil {
		return nil, err
	}

	merged, unmatched, err := mergeTables(*in.Shipments, keys.Left, *in.Invoice, keys.Right)
	if err != nil {
		return nil, err
	}

	fc := ResolveFilterColumns(merged)
	filtered := filterWith(merged, spec, fc)

	return &Result{
		Keys:           keys,
		FilterColumns:  fc,
		Filters:        spec,
		ServiceOptions: ServiceOptions(*in.Shipments),
		Merged:         merged,
		Filtered:       filtered,
		ShipmentCount:  in.Shipments.Len(),
		InvoiceCount:   in.Invoice.Len(),
		MergedCount:    merged.Len(),
		FilteredCount:  filtered.Len(),
		Unmatched:      unmatched,
		Duration:       time.Since(start),
	}, nil
}
