package core

import (
	"errors"
	"fmt"
	"testing"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantCode    string
		wantMessage string
	}{
		{
			name:        "nil error returns empty",
			err:         nil,
			wantCode:    "",
			wantMessage: "",
		},
		{
			name:        "missing upload maps correctly",
			err:         &MissingUploadError{Missing: []string{InputInvoice}},
			wantCode:    "UPL001",
			wantMessage: "Please upload both CSV files to begin.",
		},
		{
			name: "column resolution maps correctly",
			err: &ColumnResolutionError{
				ShipmentColumns: []string{"Ref"},
				InvoiceColumns:  []string{"Tracking ID"},
				ShipmentMissing: true,
			},
			wantCode:    "COL001",
			wantMessage: "Could not find a tracking number column",
		},
		{
			name: "column names do not shadow the column code",
			err: &ColumnResolutionError{
				ShipmentColumns: []string{"invalid csv", "rate limit"},
				ShipmentMissing: true,
			},
			wantCode:    "COL001",
			wantMessage: "Could not find a tracking number column",
		},
		{
			name: "normalization maps correctly",
			err: &NormalizationError{Failures: []NormalizationFailure{
				{Side: SideShipments, Column: "Tracking #", Row: 2, Raw: "1.2.3E+4", Reason: "invalid number"},
			}},
			wantCode:    "NORM001",
			wantMessage: "Some tracking numbers could not be read",
		},
		{
			name:        "invalid csv maps correctly",
			err:         fmt.Errorf("parse shipments: %w", errors.New("invalid csv: line 3 has 4 fields, header has 2")),
			wantCode:    "FILE002",
			wantMessage: "File is not a valid CSV",
		},
		{
			name:        "invalid xlsx maps correctly",
			err:         errors.New("invalid xlsx: zip: not a valid zip file"),
			wantCode:    "FILE002",
			wantMessage: "File is not a valid Excel workbook",
		},
		{
			name:        "unsupported type maps correctly",
			err:         fmt.Errorf("%w: %q", ErrUnsupportedFileType, "a.pdf"),
			wantCode:    "FILE003",
			wantMessage: "This file type is not supported",
		},
		{
			name:        "empty file maps correctly",
			err:         ErrEmptyFile,
			wantCode:    "FILE005",
			wantMessage: "The uploaded file is empty",
		},
		{
			name:        "request body too large maps to file too large",
			err:         errors.New("http: request body too large"),
			wantCode:    "FILE001",
			wantMessage: "File exceeds the upload size limit",
		},
		{
			name:        "rate limit maps correctly",
			err:         errors.New("rate limit exceeded"),
			wantCode:    "RATE001",
			wantMessage: "Too many requests",
		},
		{
			name:        "unknown error returns default",
			err:         errors.New("some random internal error"),
			wantCode:    "ERR000",
			wantMessage: "An unexpected error occurred",
		},
		{
			name:        "case insensitive matching",
			err:         errors.New("WORKSPACE NOT FOUND"),
			wantCode:    "WS001",
			wantMessage: "This merged result has expired",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MapError(tt.err)
			if got.Code != tt.wantCode {
				t.Errorf("MapError() code = %q, want %q", got.Code, tt.wantCode)
			}
			if got.Message != tt.wantMessage {
				t.Errorf("MapError() message = %q, want %q", got.Message, tt.wantMessage)
			}
		})
	}
}

func TestIsUserFacing(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{
			name: "nil error is not user facing",
			err:  nil,
			want: false,
		},
		{
			name: "known error is user facing",
			err:  errors.New("missing upload: shipments"),
			want: true,
		},
		{
			name: "unknown error is not user facing",
			err:  errors.New("random internal error xyz"),
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := IsUserFacing(tt.err)
			if got != tt.want {
				t.Errorf("IsUserFacing() = %v, want %v", got, tt.want)
			}
		})
	}
}
