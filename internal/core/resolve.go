package core

import "strings"

// Keyword hints for locating columns in uploaded headers. Matching is a
// case-insensitive substring test, so "Tracking" also binds headers like
// "Customer Tracking ID".
var (
	ShipmentTrackingHints = []string{"Tracking #", "Tracking Number", "Tracking"}
	InvoiceTrackingHints  = []string{"Tracking ID", "Express or Ground Tracking ID", "Tracking"}
	RecipientHints        = []string{"Recipient"}
	ServiceHints          = []string{"Service"}
	ShipDateHints         = []string{"Ship Date", "Date"}
)

// Resolve returns the first header, in header order, whose lowercase form
// contains the lowercase form of any hint. It returns false when no header
// matches.
//
// A header that matches several hint lists binds to whichever lookup runs
// first; callers accept that as a heuristic limit.
func Resolve(headers []string, hints []string) (string, bool) {
	for _, h := range headers {
		lower := strings.ToLower(h)
		for _, hint := range hints {
			if hint == "" {
				continue
			}
			if strings.Contains(lower, strings.ToLower(hint)) {
				return h, true
			}
		}
	}
	return "", false
}

// resolveFilterColumn prefers a header equal to a hint (case-insensitive,
// hints in order) and falls back to Resolve. "Ship Date" therefore wins over
// an earlier "Order Date" when both exist.
func resolveFilterColumn(headers []string, hints []string) (string, bool) {
	for _, hint := range hints {
		for _, h := range headers {
			if strings.EqualFold(strings.TrimSpace(h), hint) {
				return h, true
			}
		}
	}
	return Resolve(headers, hints)
}

// JoinKeys names the tracking column found in each input table.
type JoinKeys struct {
	Left  string `json:"left"`
	Right string `json:"right"`
}

// ResolveJoinKeys locates the tracking column in both tables. When either
// lookup fails it returns a *ColumnResolutionError carrying both header
// lists for diagnosis.
func ResolveJoinKeys(shipments, invoice Table) (JoinKeys, error) {
	left, lok := Resolve(shipments.Columns, ShipmentTrackingHints)
	right, rok := Resolve(invoice.Columns, InvoiceTrackingHints)
	if !lok || !rok {
		return JoinKeys{}, &ColumnResolutionError{
			ShipmentColumns: append([]string(nil), shipments.Columns...),
			InvoiceColumns:  append([]string(nil), invoice.Columns...),
			ShipmentMissing: !lok,
			InvoiceMissing:  !rok,
		}
	}
	return JoinKeys{Left: left, Right: right}, nil
}
