package web

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/JonMunkholm/shipmerge/internal/core"
	"github.com/JonMunkholm/shipmerge/internal/logging"
	"github.com/JonMunkholm/shipmerge/internal/metrics"
	"github.com/JonMunkholm/shipmerge/internal/session"
	"github.com/JonMunkholm/shipmerge/internal/web/templates"
)

// MergeResponse is the JSON body of POST /api/merge.
type MergeResponse struct {
	Keys           core.JoinKeys      `json:"keys"`
	FilterColumns  core.FilterColumns `json:"filter_columns"`
	Filters        core.FilterSpec    `json:"filters"`
	ServiceOptions []string           `json:"service_options"`
	ShipmentCount  int                `json:"shipment_count"`
	InvoiceCount   int                `json:"invoice_count"`
	MergedCount    int                `json:"merged_count"`
	FilteredCount  int                `json:"filtered_count"`
	Unmatched      int                `json:"unmatched"`
	DurationMS     int64              `json:"duration_ms"`
	Columns        []string           `json:"columns"`
	Rows           [][]string         `json:"rows"`
}

// HealthResponse is the JSON body of GET /healthz.
type HealthResponse struct {
	Status     string `json:"status"`
	Workspaces int    `json:"workspaces"`
	InFlight   int    `json:"in_flight"`
	Capacity   int    `json:"capacity"`
}

// handleIndex renders the upload form.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	renderPage(w, r, http.StatusOK, templates.UploadPage(templates.UploadView{
		Warning:     templates.MissingUploadsWarning,
		MaxFileSize: s.cfg.Upload.MaxFileSize,
	}))
}

// handleUpload parses both files into a new workspace and redirects to it.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	var shipments, invoice *namedTable
	err := s.withSlot(r.Context(), func() error {
		var err error
		shipments, invoice, err = s.readUploads(w, r)
		return err
	})
	if err != nil {
		s.uploadFailed(w, r, err)
		return
	}

	ws := &session.Workspace{
		Shipments:     shipments.Table,
		ShipmentsName: shipments.Name,
		Invoice:       invoice.Table,
		InvoiceName:   invoice.Name,
	}
	id := s.store.Put(ws)

	logging.WithFields(r.Context(), "workspace", id).Info("workspace created",
		"shipments", shipments.Name,
		"shipment_rows", shipments.Table.Len(),
		"invoice", invoice.Name,
		"invoice_rows", invoice.Table.Len(),
	)

	http.Redirect(w, r, "/w/"+id, http.StatusSeeOther)
}

// uploadFailed shows the upload form again with the problem, or an error
// response for API and HTMX clients.
func (s *Server) uploadFailed(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if wantsJSON(r) || isHTMX(r) {
		s.respondError(w, r, err, status)
		return
	}

	logging.FromContext(r.Context()).Warn("upload rejected", "error", err, "status", status)

	view := templates.UploadView{
		Warning:     templates.MissingUploadsWarning,
		MaxFileSize: s.cfg.Upload.MaxFileSize,
	}
	var missErr *core.MissingUploadError
	if !errors.As(err, &missErr) {
		msg := core.MapError(err)
		view.Error = &templates.ErrorView{Message: msg.Message, Action: msg.Action, Code: msg.Code}
	}
	renderPage(w, r, status, templates.UploadPage(view))
}

// handleWorkspace runs the pipeline with the query's filters and renders
// previews, the merged table and the filtered rows.
func (s *Server) handleWorkspace(w http.ResponseWriter, r *http.Request) {
	ws, spec, ok := s.loadWorkspace(w, r)
	if !ok {
		return
	}

	view := s.workspaceView(ws)
	res, err := s.run(r.Context(), ws, spec)
	if err != nil {
		if !applyPipelineError(&view, err) {
			s.respondError(w, r, err, statusFor(err))
			return
		}
		renderPage(w, r, statusFor(err), templates.WorkspacePage(view))
		return
	}

	s.applyResult(&view, res)
	renderPage(w, r, http.StatusOK, templates.WorkspacePage(view))
}

// handleExportCSV downloads the filtered rows as filtered_shipments.csv.
func (s *Server) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	s.export(w, r, "csv", core.CSVMediaType, core.WriteCSV)
}

// handleExportXLSX downloads the filtered rows as filtered_shipments.xlsx.
func (s *Server) handleExportXLSX(w http.ResponseWriter, r *http.Request) {
	s.export(w, r, "xlsx", core.XLSXMediaType, core.WriteXLSX)
}

func (s *Server) export(w http.ResponseWriter, r *http.Request, format, mediaType string, write func(io.Writer, core.Table) error) {
	ws, spec, ok := s.loadWorkspace(w, r)
	if !ok {
		return
	}

	res, err := s.run(r.Context(), ws, spec)
	if err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}

	var buf bytes.Buffer
	if err := write(&buf, res.Filtered); err != nil {
		s.respondError(w, r, fmt.Errorf("export %s: %w", format, err), http.StatusInternalServerError)
		return
	}

	s.metrics.ObserveExport(format)
	logging.WithFields(r.Context(), "workspace", ws.ID).Info("export",
		"format", format,
		"rows", res.Filtered.Len(),
		"bytes", buf.Len(),
	)

	w.Header().Set("Content-Type", mediaType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.%s"`, core.ExportBaseName, format))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

// handleDelete drops the workspace and returns to the upload form.
func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "workspaceID")
	if s.store.Delete(id) {
		logging.WithFields(r.Context(), "workspace", id).Info("workspace deleted")
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// handleAPIMerge merges two uploaded files without storing them and returns
// the filtered rows as JSON.
func (s *Server) handleAPIMerge(w http.ResponseWriter, r *http.Request) {
	var res *core.Result
	err := s.withSlot(r.Context(), func() error {
		shipments, invoice, err := s.readUploads(w, r)
		if err != nil {
			return err
		}
		spec, err := s.filterFromValues(r.MultipartForm.Value)
		if err != nil {
			return err
		}
		res, err = s.runPipeline(r.Context(), core.Inputs{Shipments: &shipments.Table, Invoice: &invoice.Table}, spec)
		return err
	})
	if err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}

	render.JSON(w, r, MergeResponse{
		Keys:           res.Keys,
		FilterColumns:  res.FilterColumns,
		Filters:        res.Filters,
		ServiceOptions: res.ServiceOptions,
		ShipmentCount:  res.ShipmentCount,
		InvoiceCount:   res.InvoiceCount,
		MergedCount:    res.MergedCount,
		FilteredCount:  res.FilteredCount,
		Unmatched:      res.Unmatched,
		DurationMS:     res.Duration.Milliseconds(),
		Columns:        res.Filtered.Columns,
		Rows:           res.Filtered.Strings(),
	})
}

// handleHealth reports liveness and current load.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, HealthResponse{
		Status:     "ok",
		Workspaces: s.store.Len(),
		InFlight:   s.limiter.InFlight(),
		Capacity:   s.limiter.Capacity(),
	})
}

// loadWorkspace resolves the workspace in the URL and the query's filters,
// responding with an error when either fails.
func (s *Server) loadWorkspace(w http.ResponseWriter, r *http.Request) (*session.Workspace, core.FilterSpec, bool) {
	ws, err := s.store.Get(chi.URLParam(r, "workspaceID"))
	if err != nil {
		s.respondError(w, r, err, statusFor(err))
		return nil, core.FilterSpec{}, false
	}
	spec, err := s.filterFromValues(r.URL.Query())
	if err != nil {
		s.respondError(w, r, err, statusFor(err))
		return nil, core.FilterSpec{}, false
	}
	return ws, spec, true
}

// run executes the pipeline on a stored workspace under the run limiter.
func (s *Server) run(ctx context.Context, ws *session.Workspace, spec core.FilterSpec) (*core.Result, error) {
	var res *core.Result
	err := s.withSlot(ctx, func() error {
		var err error
		res, err = s.runPipeline(ctx, ws.Inputs(), spec)
		return err
	})
	return res, err
}

// runPipeline runs core.Run and records the outcome. The caller must hold a
// limiter slot.
func (s *Server) runPipeline(ctx context.Context, in core.Inputs, spec core.FilterSpec) (*core.Result, error) {
	res, err := core.Run(in, spec)
	if err != nil {
		s.metrics.ObserveFailure(outcomeFor(err))
		return nil, err
	}

	s.metrics.ObserveRun(metrics.RunStats{
		Shipments: res.ShipmentCount,
		Invoice:   res.InvoiceCount,
		Merged:    res.MergedCount,
		Filtered:  res.FilteredCount,
		Unmatched: res.Unmatched,
		Duration:  res.Duration,
	})
	logging.FromContext(ctx).Debug("pipeline run",
		"left_key", res.Keys.Left,
		"right_key", res.Keys.Right,
		"merged", res.MergedCount,
		"filtered", res.FilteredCount,
		"unmatched", res.Unmatched,
		"duration", res.Duration.Round(time.Microsecond),
	)
	return res, nil
}

// withSlot runs fn while holding a limiter slot.
func (s *Server) withSlot(ctx context.Context, fn func() error) error {
	if err := s.limiter.Acquire(ctx); err != nil {
		return err
	}
	defer s.limiter.Release()
	return fn()
}

// outcomeFor classifies a pipeline error for metrics.
func outcomeFor(err error) string {
	var (
		missErr *core.MissingUploadError
		colErr  *core.ColumnResolutionError
		normErr *core.NormalizationError
	)
	switch {
	case errors.As(err, &missErr):
		return metrics.OutcomeMissingUpload
	case errors.As(err, &colErr):
		return metrics.OutcomeColumnNotFound
	case errors.As(err, &normErr):
		return metrics.OutcomeNormalizeFailed
	default:
		return metrics.OutcomeError
	}
}
