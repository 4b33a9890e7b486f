package web

import (
	"bytes"
	"errors"
	"net/http"

	"github.com/a-h/templ"

	"github.com/JonMunkholm/shipmerge/internal/core"
	"github.com/JonMunkholm/shipmerge/internal/logging"
	"github.com/JonMunkholm/shipmerge/internal/session"
	"github.com/JonMunkholm/shipmerge/internal/web/templates"
)

// maxListedFailures caps the normalization failures shown on the page.
const maxListedFailures = 5

// renderPage renders c into a buffer first so a template error can still
// become a clean 500.
func renderPage(w http.ResponseWriter, r *http.Request, status int, c templ.Component) {
	var buf bytes.Buffer
	if err := c.Render(r.Context(), &buf); err != nil {
		logging.FromContext(r.Context()).Error("render failed", "path", r.URL.Path, "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// tableView prepares the first n rows of t for display. n < 0 shows every
// row.
func tableView(t core.Table, n int) templates.TableView {
	total := t.Len()
	if n >= 0 {
		t = t.Head(n)
	}
	return templates.TableView{
		Columns: t.Columns,
		Rows:    t.Strings(),
		Total:   total,
	}
}

func (s *Server) workspaceView(ws *session.Workspace) templates.WorkspaceView {
	return templates.WorkspaceView{
		ID:            ws.ID,
		ShipmentsName: ws.ShipmentsName,
		InvoiceName:   ws.InvoiceName,
		Shipments:     tableView(ws.Shipments, s.cfg.Preview.SourceRows),
		Invoice:       tableView(ws.Invoice, s.cfg.Preview.SourceRows),
	}
}

// applyResult fills the merge, filter and export parts of v.
func (s *Server) applyResult(v *templates.WorkspaceView, res *core.Result) {
	merged := tableView(res.Merged, s.cfg.Preview.MergedRows)
	filtered := tableView(res.Filtered, -1)

	service := res.Filters.Service
	if service == "" {
		service = core.AllServices
	}

	v.MergeKeys = [2]string{res.Keys.Left, res.Keys.Right}
	v.Merged = &merged
	v.Filtered = &filtered
	v.Unmatched = res.Unmatched
	v.FilterQuery = filterQuery(res.Filters)
	v.Filter = templates.FilterView{
		Recipient:       res.Filters.Recipient,
		Service:         service,
		ShipDate:        res.Filters.ShipDate,
		Active:          !res.Filters.IsZero(),
		ServiceOptions:  res.ServiceOptions,
		RecipientColumn: res.FilterColumns.Recipient,
		ServiceColumn:   res.FilterColumns.Service,
		ShipDateColumn:  res.FilterColumns.ShipDate,
	}
}

// applyPipelineError shows a column or normalization failure on the page.
// It reports false for errors the page cannot display.
func applyPipelineError(v *templates.WorkspaceView, err error) bool {
	var colErr *core.ColumnResolutionError
	if errors.As(err, &colErr) {
		v.ColumnError = &templates.ColumnErrorView{
			ShipmentColumns: colErr.ShipmentColumns,
			InvoiceColumns:  colErr.InvoiceColumns,
			ShipmentMissing: colErr.ShipmentMissing,
			InvoiceMissing:  colErr.InvoiceMissing,
		}
		return true
	}

	var normErr *core.NormalizationError
	if errors.As(err, &normErr) {
		msg := core.MapError(err)
		v.Error = &templates.ErrorView{Message: msg.Message, Action: msg.Action, Code: msg.Code}
		for i, f := range normErr.Failures {
			if i == maxListedFailures {
				v.MoreFailed = len(normErr.Failures) - i
				break
			}
			v.Failures = append(v.Failures, f.String())
		}
		return true
	}
	return false
}
