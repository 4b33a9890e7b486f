package web

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/JonMunkholm/shipmerge/internal/core"
)

// Multipart parsing keeps up to multipartMemory in RAM and spills the rest
// to temporary files. multipartOverhead covers boundaries and form fields.
const (
	multipartMemory   = 32 << 20
	multipartOverhead = 1 << 20
)

var errFileTooLarge = errors.New("file too large")

// uploadError ties a read or parse failure to the form field it came from.
type uploadError struct {
	Field    string
	Filename string
	Err      error
}

func (e *uploadError) Error() string {
	if e.Filename == "" {
		return fmt.Sprintf("%s: %v", e.Field, e.Err)
	}
	return fmt.Sprintf("%s (%s): %v", e.Field, e.Filename, e.Err)
}

func (e *uploadError) Unwrap() error { return e.Err }

// filterError reports filter values rejected by validation.
type filterError struct {
	Problems []string
}

func (e *filterError) Error() string {
	return "invalid filter: " + strings.Join(e.Problems, "; ")
}

// namedTable is a parsed upload and the file name it arrived under.
type namedTable struct {
	Name  string
	Table core.Table
}

// readUploads parses the shipments and invoice files from a multipart form.
// Files may be CSV or XLSX, chosen by extension. A request missing either
// file fails with *core.MissingUploadError.
func (s *Server) readUploads(w http.ResponseWriter, r *http.Request) (shipments, invoice *namedTable, err error) {
	maxFile := s.cfg.Upload.MaxFileSize
	r.Body = http.MaxBytesReader(w, r.Body, 2*maxFile+multipartOverhead)

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		if errors.Is(err, http.ErrNotMultipart) {
			return nil, nil, &core.MissingUploadError{Missing: []string{core.InputShipments, core.InputInvoice}}
		}
		var sizeErr *http.MaxBytesError
		if errors.As(err, &sizeErr) {
			return nil, nil, err
		}
		return nil, nil, fmt.Errorf("no file provided: %w", err)
	}
	defer r.MultipartForm.RemoveAll()

	if shipments, err = readUpload(r, core.InputShipments, maxFile); err != nil {
		return nil, nil, err
	}
	if invoice, err = readUpload(r, core.InputInvoice, maxFile); err != nil {
		return nil, nil, err
	}

	var missing []string
	if shipments == nil {
		missing = append(missing, core.InputShipments)
	}
	if invoice == nil {
		missing = append(missing, core.InputInvoice)
	}
	if len(missing) > 0 {
		return nil, nil, &core.MissingUploadError{Missing: missing}
	}
	return shipments, invoice, nil
}

// readUpload parses one form file. It returns nil, nil when the field is
// absent or no file was chosen.
func readUpload(r *http.Request, field string, maxSize int64) (*namedTable, error) {
	file, header, err := r.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, &uploadError{Field: field, Err: fmt.Errorf("no file provided: %w", err)}
	}
	defer file.Close()

	if header.Size > maxSize {
		return nil, &uploadError{
			Field:    field,
			Filename: header.Filename,
			Err:      fmt.Errorf("%w: %d bytes, limit is %d", errFileTooLarge, header.Size, maxSize),
		}
	}

	t, err := core.ReadUpload(header.Filename, file)
	if err != nil {
		return nil, &uploadError{Field: field, Filename: header.Filename, Err: err}
	}
	return &namedTable{Name: header.Filename, Table: t}, nil
}

// filterFromValues reads the recipient, service and date filters. Recipient
// and date are trimmed; service must match a column value exactly and is
// kept as sent.
func (s *Server) filterFromValues(v url.Values) (core.FilterSpec, error) {
	spec := core.FilterSpec{
		Recipient: strings.TrimSpace(v.Get("recipient")),
		Service:   v.Get("service"),
		ShipDate:  strings.TrimSpace(v.Get("date")),
	}

	if err := s.validate.Struct(spec); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return core.FilterSpec{}, err
		}
		fe := &filterError{}
		for _, f := range verrs {
			fe.Problems = append(fe.Problems, fmt.Sprintf("%s exceeds %s characters", f.Field(), f.Param()))
		}
		return core.FilterSpec{}, fe
	}
	return spec, nil
}

// filterQuery encodes the active filters for export links.
func filterQuery(spec core.FilterSpec) url.Values {
	q := url.Values{}
	if spec.Recipient != "" {
		q.Set("recipient", spec.Recipient)
	}
	if spec.Service != "" && spec.Service != core.AllServices {
		q.Set("service", spec.Service)
	}
	if spec.ShipDate != "" {
		q.Set("date", spec.ShipDate)
	}
	return q
}
