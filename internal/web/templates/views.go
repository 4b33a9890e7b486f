// Package templates renders the HTML pages.
//
// Components live in the .templ files; the _templ.go files next to them are
// produced by `templ generate` and must not be edited by hand.
package templates

import (
	"net/url"
	"strconv"
)

//go:generate go run github.com/a-h/templ/cmd/templ@v0.3.960 generate

// AppTitle is shown in the page header and the browser tab.
const AppTitle = "Shipment Organizer"

// MissingUploadsWarning prompts for the two input files.
const MissingUploadsWarning = "Please upload both CSV files to begin."

// TableView is a table prepared for display. Rows may be a preview of a
// longer table; Total is the full row count.
type TableView struct {
	Title   string
	Columns []string
	Rows    [][]string
	Total   int
}

// ErrorView is a user-facing error message with its support code.
type ErrorView struct {
	Message string
	Action  string
	Code    string
}

// UploadView feeds the upload page.
type UploadView struct {
	Warning     string
	Error       *ErrorView
	MaxFileSize int64
}

// ColumnErrorView lists both header rows when a tracking column is missing.
type ColumnErrorView struct {
	ShipmentColumns []string
	InvoiceColumns  []string
	ShipmentMissing bool
	InvoiceMissing  bool
}

// FilterView is the state of the filter form.
type FilterView struct {
	Recipient      string
	Service        string
	ShipDate       string
	ServiceOptions []string

	// Active is set when at least one predicate narrows the rows.
	Active bool

	// Resolved column names; empty means that filter has no effect.
	RecipientColumn string
	ServiceColumn   string
	ShipDateColumn  string
}

// WorkspaceView feeds the merge result page.
type WorkspaceView struct {
	ID            string
	ShipmentsName string
	InvoiceName   string
	Shipments     TableView
	Invoice       TableView

	Error       *ErrorView
	ColumnError *ColumnErrorView
	Failures    []string
	MoreFailed  int

	// Set only when the merge succeeded.
	MergeKeys   [2]string
	Merged      *TableView
	Filtered    *TableView
	Filter      FilterView
	Unmatched   int
	FilterQuery url.Values
}

func pageTitle(title string) string {
	if title == AppTitle {
		return title
	}
	return title + " | " + AppTitle
}

func withTitle(t TableView, title string) TableView {
	t.Title = title
	return t
}

func workspaceURL(id string) string {
	return "/w/" + url.PathEscape(id)
}

// exportURL links to an export of the filtered rows in the given format.
func exportURL(base, ext string, query url.Values) string {
	u := base + "/export." + ext
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

func formatSize(n int64) string {
	const mb = 1 << 20
	if n >= mb && n%mb == 0 {
		return strconv.FormatInt(n/mb, 10) + " MB"
	}
	return strconv.FormatInt(n, 10) + " bytes"
}

const styles = `
body{font-family:system-ui,-apple-system,sans-serif;margin:0;color:#1f2937;background:#f9fafb}
header{background:#111827;color:#fff;padding:12px 24px}
header a{color:#fff;text-decoration:none;font-weight:600}
main{padding:24px;max-width:1400px;margin:0 auto}
h2{font-size:1.1rem;margin:28px 0 8px}
.alert{padding:10px 14px;border-radius:6px;margin:12px 0;border:1px solid}
.alert-warning{background:#fffbeb;border-color:#f59e0b}
.alert-success{background:#ecfdf5;border-color:#10b981}
.alert-error{background:#fef2f2;border-color:#ef4444}
.alert small{display:block;color:#6b7280;margin-top:4px}
.table-wrap{overflow:auto;max-height:480px;border:1px solid #e5e7eb;background:#fff}
table{border-collapse:collapse;font-size:.85rem;width:100%}
th,td{border-bottom:1px solid #e5e7eb;padding:4px 8px;text-align:left;white-space:nowrap}
th{background:#f3f4f6;position:sticky;top:0}
td.missing{color:#9ca3af}
.meta{color:#6b7280;font-size:.85rem}
form.inline{display:flex;gap:12px;align-items:flex-end;flex-wrap:wrap}
label{display:flex;flex-direction:column;font-size:.85rem;gap:4px}
.actions{display:flex;gap:12px;margin:16px 0}
button,.button{background:#2563eb;color:#fff;border:0;border-radius:6px;padding:8px 14px;cursor:pointer;text-decoration:none;font-size:.9rem}
.button.secondary,button.secondary{background:#6b7280}
ul.columns{margin:4px 0;columns:3}
`
