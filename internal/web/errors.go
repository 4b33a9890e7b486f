package web

// errors.go provides unified error response handling for the web layer.
//
// It ensures all errors are:
//   - Logged with full technical details for debugging (server-side)
//   - Returned to clients as user-friendly messages with action suggestions
//   - Formatted appropriately based on request type (HTMX, JSON, or HTML)
//
// The error flow:
//  1. Handler encounters an error
//  2. Calls respondError(w, r, err, statusCode)
//  3. Error is mapped via core.MapError to get user-friendly message
//  4. Technical error + context is logged with request ID for correlation
//  5. User message is rendered in appropriate format for the client

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/render"

	"github.com/JonMunkholm/shipmerge/internal/core"
	"github.com/JonMunkholm/shipmerge/internal/logging"
	"github.com/JonMunkholm/shipmerge/internal/session"
	"github.com/JonMunkholm/shipmerge/internal/web/templates"
)

// ErrorResponse represents the JSON structure for API error responses.
// Includes both machine-readable (Code) and human-readable (Message, Action) fields.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Action  string `json:"action,omitempty"`
	Code    string `json:"code"`
	Details any    `json:"details,omitempty"`
}

// ColumnDetails lists both header rows when a tracking column is missing.
type ColumnDetails struct {
	ShipmentColumns []string `json:"shipment_columns"`
	InvoiceColumns  []string `json:"invoice_columns"`
	ShipmentMissing bool     `json:"shipment_missing"`
	InvoiceMissing  bool     `json:"invoice_missing"`
}

// respondError handles error responses with user-friendly messages.
// It logs the technical error server-side and returns an appropriate response
// based on the request type (HTMX, JSON, or HTML).
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error, statusCode int) {
	userMsg := core.MapError(err)

	log := logging.FromContext(r.Context())
	args := []any{
		"path", r.URL.Path,
		"method", r.Method,
		"status", statusCode,
		"error", err.Error(),
		"code", userMsg.Code,
	}
	// Errors with no specific message are unexpected, whatever the status.
	if statusCode >= http.StatusInternalServerError || !core.IsUserFacing(err) {
		log.Error("request error", args...)
	} else {
		log.Warn("request error", args...)
	}

	switch {
	case isHTMX(r):
		renderErrorPartial(w, r, userMsg, statusCode)
	case wantsJSON(r):
		respondErrorJSON(w, r, err, userMsg, statusCode)
	default:
		respondErrorHTML(w, r, userMsg, statusCode)
	}
}

// respondErrorJSON writes a JSON error response. Pipeline errors carry the
// offending columns or rows as details.
func respondErrorJSON(w http.ResponseWriter, r *http.Request, err error, msg core.UserMessage, statusCode int) {
	resp := ErrorResponse{
		Error:   msg.Message,
		Message: msg.Message,
		Action:  msg.Action,
		Code:    msg.Code,
	}

	var colErr *core.ColumnResolutionError
	var normErr *core.NormalizationError
	var missErr *core.MissingUploadError
	switch {
	case errors.As(err, &colErr):
		resp.Details = ColumnDetails{
			ShipmentColumns: colErr.ShipmentColumns,
			InvoiceColumns:  colErr.InvoiceColumns,
			ShipmentMissing: colErr.ShipmentMissing,
			InvoiceMissing:  colErr.InvoiceMissing,
		}
	case errors.As(err, &normErr):
		resp.Details = normErr.Failures
	case errors.As(err, &missErr):
		resp.Details = map[string][]string{"missing": missErr.Missing}
	}

	render.Status(r, statusCode)
	render.JSON(w, r, resp)
}

// respondErrorHTML renders the full error page.
func respondErrorHTML(w http.ResponseWriter, r *http.Request, msg core.UserMessage, statusCode int) {
	view := templates.ErrorView{Message: msg.Message, Action: msg.Action, Code: msg.Code}
	renderPage(w, r, statusCode, templates.ErrorPage(statusCode, view))
}

// renderErrorPartial renders an HTMX-compatible error fragment.
func renderErrorPartial(w http.ResponseWriter, r *http.Request, msg core.UserMessage, statusCode int) {
	renderPage(w, r, statusCode, templates.ErrorAlert(msg.Message, msg.Action, msg.Code))
}

// statusFor picks the HTTP status for an error returned by the pipeline,
// the upload reader or the workspace store.
func statusFor(err error) int {
	var (
		missErr *core.MissingUploadError
		colErr  *core.ColumnResolutionError
		normErr *core.NormalizationError
		sizeErr *http.MaxBytesError
		upErr   *uploadError
		filtErr *filterError
	)
	switch {
	case errors.As(err, &missErr):
		return http.StatusBadRequest
	case errors.As(err, &colErr), errors.As(err, &normErr):
		return http.StatusUnprocessableEntity
	case errors.As(err, &sizeErr), errors.Is(err, errFileTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.As(err, &upErr), errors.As(err, &filtErr):
		return http.StatusBadRequest
	case errors.Is(err, session.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, core.ErrTooManyUploads):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, context.Canceled):
		return http.StatusRequestTimeout
	default:
		return http.StatusInternalServerError
	}
}

// isHTMX checks if the request is an HTMX request.
func isHTMX(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}

// wantsJSON checks if the client prefers JSON response.
func wantsJSON(r *http.Request) bool {
	if strings.Contains(r.Header.Get("Accept"), "application/json") {
		return true
	}
	if strings.Contains(r.Header.Get("Content-Type"), "application/json") {
		return true
	}
	// API routes default to JSON
	return strings.HasPrefix(r.URL.Path, "/api/")
}
